package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// keys of the restrictions published by the application
const (
	KeyBoolean     = "boolean_key"
	KeyChoice      = "choice_key"
	KeyMultiSelect = "multi_key"
)

// Kind is the type tag of a restriction entry
type Kind string

// supported restriction kinds
const (
	KindBool        Kind = "bool"
	KindChoice      Kind = "choice"
	KindMultiSelect Kind = "multi-select"
)

// Valid reports whether the kind is one of the supported kinds
func (k Kind) Valid() bool {
	switch k {
	case KindBool, KindChoice, KindMultiSelect:
		return true
	}
	return false
}

// Value holds the current value of a restriction entry. Only the field matching
// the entry kind is meaningful.
type Value struct {
	Bool        bool
	Selected    string
	AllSelected []string
}

// RestrictionEntry is one configurable restriction with its display metadata
type RestrictionEntry struct {
	Key          string
	Kind         Kind
	Title        string
	ChoiceLabels []string // parallel to ChoiceValues
	ChoiceValues []string
	Value        Value
}

// Raw returns the entry value in its mapping form: bool, string or []string
func (e RestrictionEntry) Raw() any {
	switch e.Kind {
	case KindBool:
		return e.Value.Bool
	case KindChoice:
		return e.Value.Selected
	case KindMultiSelect:
		return slices.Clone(e.Value.AllSelected)
	}
	return nil
}

// HasChoice reports whether v is one of the legal choice values of the entry
func (e RestrictionEntry) HasChoice(v string) bool {
	return slices.Contains(e.ChoiceValues, v)
}

// IsSelected reports whether v is selected in a multi-select entry
func (e RestrictionEntry) IsSelected(v string) bool {
	return slices.Contains(e.Value.AllSelected, v)
}

// Clone returns a deep copy of the entry
func (e RestrictionEntry) Clone() RestrictionEntry {
	res := e
	res.ChoiceLabels = slices.Clone(e.ChoiceLabels)
	res.ChoiceValues = slices.Clone(e.ChoiceValues)
	res.Value.AllSelected = slices.Clone(e.Value.AllSelected)
	return res
}

type entryJSON struct {
	Key          string          `json:"key"`
	Kind         Kind            `json:"kind"`
	Title        string          `json:"title,omitempty"`
	ChoiceLabels []string        `json:"choice_labels,omitempty"`
	ChoiceValues []string        `json:"choice_values,omitempty"`
	Value        json.RawMessage `json:"value"`
}

// MarshalJSON encodes the value in its natural JSON form for the entry kind
func (e RestrictionEntry) MarshalJSON() ([]byte, error) {
	raw := e.Raw()
	if e.Kind == KindMultiSelect && e.Value.AllSelected == nil {
		raw = []string{}
	}
	val, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal value of %s: %w", e.Key, err)
	}
	return json.Marshal(entryJSON{Key: e.Key, Kind: e.Kind, Title: e.Title,
		ChoiceLabels: e.ChoiceLabels, ChoiceValues: e.ChoiceValues, Value: val})
}

// UnmarshalJSON decodes the value according to the entry kind
func (e *RestrictionEntry) UnmarshalJSON(data []byte) error {
	var ej entryJSON
	if err := json.Unmarshal(data, &ej); err != nil {
		return err
	}
	if !ej.Kind.Valid() {
		return fmt.Errorf("unknown restriction kind %q for %s", ej.Kind, ej.Key)
	}
	*e = RestrictionEntry{Key: ej.Key, Kind: ej.Kind, Title: ej.Title,
		ChoiceLabels: ej.ChoiceLabels, ChoiceValues: ej.ChoiceValues}
	if len(ej.Value) == 0 || string(ej.Value) == "null" {
		if e.Kind == KindMultiSelect {
			e.Value.AllSelected = []string{}
		}
		return nil
	}
	var target any
	switch e.Kind {
	case KindBool:
		target = &e.Value.Bool
	case KindChoice:
		target = &e.Value.Selected
	case KindMultiSelect:
		target = &e.Value.AllSelected
	}
	if err := json.Unmarshal(ej.Value, target); err != nil {
		return fmt.Errorf("decode value of %s: %w", e.Key, err)
	}
	return nil
}

// Catalog is an ordered list of restriction entries, keyed by entry key
type Catalog []RestrictionEntry

// Index returns position of the entry with the given key or -1
func (c Catalog) Index(key string) int {
	return slices.IndexFunc(c, func(e RestrictionEntry) bool { return e.Key == key })
}

// Find returns the entry with the given key
func (c Catalog) Find(key string) (RestrictionEntry, bool) {
	if i := c.Index(key); i >= 0 {
		return c[i], true
	}
	return RestrictionEntry{}, false
}

// Values converts the entry list to the key/value mapping kept by the platform
func (c Catalog) Values() Restrictions {
	res := make(Restrictions, len(c))
	for _, e := range c {
		res[e.Key] = e.Raw()
	}
	return res
}

// Clone returns a deep copy of the catalog
func (c Catalog) Clone() Catalog {
	if c == nil {
		return nil
	}
	res := make(Catalog, len(c))
	for i, e := range c {
		res[i] = e.Clone()
	}
	return res
}

// Restrictions is the key/value mapping the platform persists per profile.
// Values are bool, string or []string.
type Restrictions map[string]any

// Has reports whether the mapping contains the key
func (r Restrictions) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Bool returns the boolean value for key, false if absent or not a boolean
func (r Restrictions) Bool(key string) bool {
	v, ok := r[key].(bool)
	return ok && v
}

// String returns the string value for key
func (r Restrictions) String(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

// Strings returns the string list for key. Lists decoded from JSON as []any are accepted.
func (r Restrictions) Strings(key string) ([]string, bool) {
	switch v := r[key].(type) {
	case []string:
		return slices.Clone(v), true
	case []any:
		res := make([]string, 0, len(v))
		for _, x := range v {
			s, ok := x.(string)
			if !ok {
				return nil, false
			}
			res = append(res, s)
		}
		return res, true
	}
	return nil, false
}

// Clone returns a copy of the mapping with list values copied
func (r Restrictions) Clone() Restrictions {
	if r == nil {
		return nil
	}
	res := make(Restrictions, len(r))
	for k, v := range r {
		if ss, ok := r.Strings(k); ok {
			res[k] = ss
			continue
		}
		res[k] = v
	}
	return res
}
