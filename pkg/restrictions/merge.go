package restrictions

import (
	"github.com/umputun/apprestrictions/pkg/domain"
)

// Merge overlays existing persisted values onto the catalog and returns a new catalog.
// Entries without a matching key keep their defaults, keys unknown to the catalog are
// dropped, and values of the wrong type are ignored. The result keeps catalog order.
func Merge(catalog domain.Catalog, existing domain.Restrictions) domain.Catalog {
	res := catalog.Clone()
	if existing == nil {
		return res
	}

	for i := range res {
		e := &res[i]
		switch e.Kind {
		case domain.KindBool:
			if v, ok := existing[e.Key].(bool); ok {
				e.Value.Bool = v
			}
		case domain.KindChoice:
			if v, ok := existing.String(e.Key); ok {
				e.Value.Selected = v
			}
		case domain.KindMultiSelect:
			if v, ok := existing.Strings(e.Key); ok {
				if v == nil {
					v = []string{}
				}
				e.Value.AllSelected = v
			}
		}
	}
	return res
}

// Sanitize keeps only the keys of the catalog with values of the matching type and legal
// choice values. Used for values coming from outside before they are persisted.
func Sanitize(catalog domain.Catalog, values domain.Restrictions) domain.Restrictions {
	res := domain.Restrictions{}
	for _, e := range catalog {
		if !values.Has(e.Key) {
			continue
		}
		switch e.Kind {
		case domain.KindBool:
			if v, ok := values[e.Key].(bool); ok {
				res[e.Key] = v
			}
		case domain.KindChoice:
			if v, ok := values.String(e.Key); ok && e.HasChoice(v) {
				res[e.Key] = v
			}
		case domain.KindMultiSelect:
			if v, ok := values.Strings(e.Key); ok {
				if selected, err := selectChoices(e, v); err == nil {
					res[e.Key] = selected
				}
			}
		}
	}
	return res
}
