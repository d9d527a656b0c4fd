package restrictions

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/umputun/apprestrictions/pkg/domain"
)

// form errors
var (
	ErrNotBound      = errors.New("form is not bound")
	ErrAlreadyBound  = errors.New("form is already bound")
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidValue  = errors.New("invalid field value")
	errNoChoiceValue = errors.New("value is not a legal choice")
)

// FormState is the binding state of a settings form
type FormState int

// form states
const (
	StateUninitialized FormState = iota
	StateBound
)

func (s FormState) String() string {
	if s == StateBound {
		return "bound"
	}
	return "uninitialized"
}

// Form keeps a live entry list synchronized with the settings form fields.
// Every field change updates the entry immediately and writes a full snapshot
// of the entry list into the pending result.
type Form struct {
	res Resources

	mu      sync.Mutex
	state   FormState
	entries domain.Catalog
	result  domain.Catalog
}

// NewForm makes an unbound form using res to build defaults
func NewForm(res Resources) *Form {
	return &Form{res: res}
}

// Bind seeds the form. A non-empty entries list supplied by the caller is used as is,
// otherwise the default catalog is built and raw stored values are overlaid onto it.
// Bind can be called once.
func (f *Form) Bind(entries domain.Catalog, raw domain.Restrictions) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateBound {
		return ErrAlreadyBound
	}

	if len(entries) > 0 {
		f.entries = entries.Clone()
	} else {
		f.entries = Merge(BuildCatalog(f.res), raw)
	}
	f.state = StateBound
	f.result = f.entries.Clone()
	return nil
}

// State returns the current binding state
func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Change applies a field edit. Expected values are bool for boolean entries,
// string for single-choice and []string for multi-select.
func (f *Form) Change(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateBound {
		return ErrNotBound
	}

	i := f.entries.Index(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}

	e := &f.entries[i]
	switch e.Kind {
	case domain.KindBool:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s expects bool, got %T", ErrInvalidValue, key, value)
		}
		e.Value.Bool = v
	case domain.KindChoice:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects string, got %T", ErrInvalidValue, key, value)
		}
		if len(e.ChoiceValues) > 0 && !e.HasChoice(v) {
			return fmt.Errorf("%w: %s, %q: %w", ErrInvalidValue, key, v, errNoChoiceValue)
		}
		e.Value.Selected = v
	case domain.KindMultiSelect:
		v, ok := value.([]string)
		if !ok {
			return fmt.Errorf("%w: %s expects []string, got %T", ErrInvalidValue, key, value)
		}
		selected, err := selectChoices(*e, v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidValue, key, err)
		}
		e.Value.AllSelected = selected
	default:
		return fmt.Errorf("%w: %s has unsupported kind %q", ErrInvalidValue, key, e.Kind)
	}

	f.result = f.entries.Clone()
	return nil
}

// Result returns the pending result payload, a snapshot of the entry list
// as of the last bind or change
func (f *Form) Result() domain.Catalog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result.Clone()
}

// Fields returns the field view of the bound entries
func (f *Form) Fields() []Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Fields(f.entries)
}

// selectChoices dedupes values and orders them by the entry choice values.
// Entries without choice values accept anything, keeping the input order.
func selectChoices(e domain.RestrictionEntry, values []string) ([]string, error) {
	if len(e.ChoiceValues) == 0 {
		res := []string{}
		for _, v := range values {
			if !slices.Contains(res, v) {
				res = append(res, v)
			}
		}
		return res, nil
	}

	for _, v := range values {
		if !e.HasChoice(v) {
			return nil, fmt.Errorf("%q: %w", v, errNoChoiceValue)
		}
	}
	res := []string{}
	for _, cv := range e.ChoiceValues {
		if slices.Contains(values, cv) {
			res = append(res, cv)
		}
	}
	return res, nil
}

// Field is a form field view of a restriction entry
type Field struct {
	Key      string
	Kind     domain.Kind
	Title    string
	Checked  bool   // boolean entries
	Selected string // single-choice entries
	Options  []Option
}

// Option is one choice of a single-choice or multi-select field
type Option struct {
	Label    string
	Value    string
	Selected bool
}

// Fields builds the field view for a list of entries
func Fields(entries domain.Catalog) []Field {
	res := make([]Field, 0, len(entries))
	for _, e := range entries {
		fld := Field{Key: e.Key, Kind: e.Kind, Title: e.Title}
		switch e.Kind {
		case domain.KindBool:
			fld.Checked = e.Value.Bool
		case domain.KindChoice:
			fld.Selected = e.Value.Selected
			fld.Options = options(e, func(v string) bool { return v == e.Value.Selected })
		case domain.KindMultiSelect:
			fld.Options = options(e, e.IsSelected)
		}
		res = append(res, fld)
	}
	return res
}

func options(e domain.RestrictionEntry, selected func(string) bool) []Option {
	res := make([]Option, 0, len(e.ChoiceValues))
	for i, v := range e.ChoiceValues {
		label := v
		if i < len(e.ChoiceLabels) {
			label = e.ChoiceLabels[i]
		}
		res = append(res, Option{Label: label, Value: v, Selected: selected(v)})
	}
	return res
}
