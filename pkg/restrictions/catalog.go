// Package restrictions implements the application side of per-profile restrictions:
// building the catalog of published restrictions, merging persisted values into it,
// the settings form bound to the entry list, the query responder invoked by the
// platform and the read-only status rendering.
package restrictions

import (
	"fmt"
	"html"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/apprestrictions/pkg/domain"
)

// Resources is the static resource data used to build the catalog: titles,
// choice labels and values, and the placeholder shown for missing values.
type Resources struct {
	BooleanTitle string
	ChoiceTitle  string
	ChoiceLabels []string
	ChoiceValues []string
	MultiTitle   string
	MultiLabels  []string
	MultiValues  []string
	NotAvailable string
}

// DefaultResources returns the built-in resource set
func DefaultResources() Resources {
	return Resources{
		BooleanTitle: "Sample boolean restriction",
		ChoiceTitle:  "Sample single-choice restriction",
		ChoiceLabels: []string{"Choice 1", "Choice 2", "Choice 3"},
		ChoiceValues: []string{"choice1", "choice2", "choice3"},
		MultiTitle:   "Sample multi-select restriction",
		MultiLabels:  []string{"Multi 1", "Multi 2", "Multi 3"},
		MultiValues:  []string{"multi1", "multi2", "multi3"},
		NotAvailable: "N/A",
	}
}

// Validate checks resources are complete enough to build the catalog
func (r Resources) Validate() error {
	if len(r.ChoiceValues) == 0 {
		return fmt.Errorf("no choice values")
	}
	if len(r.ChoiceLabels) != len(r.ChoiceValues) {
		return fmt.Errorf("choice labels and values mismatch, %d != %d", len(r.ChoiceLabels), len(r.ChoiceValues))
	}
	if len(r.MultiValues) == 0 {
		return fmt.Errorf("no multi-select values")
	}
	if len(r.MultiLabels) != len(r.MultiValues) {
		return fmt.Errorf("multi-select labels and values mismatch, %d != %d", len(r.MultiLabels), len(r.MultiValues))
	}
	return nil
}

var textPolicy = bluemonday.StrictPolicy()

// sanitize strips any markup from display text
func sanitize(s string) string {
	return html.UnescapeString(textPolicy.Sanitize(s))
}

func sanitizeAll(ss []string) []string {
	res := make([]string, len(ss))
	for i, s := range ss {
		res[i] = sanitize(s)
	}
	return res
}

// BuildCatalog returns the default catalog: boolean (false), single-choice (first choice value)
// and multi-select (empty set). Resources must be valid, incomplete resource data is a
// configuration error and panics.
func BuildCatalog(res Resources) domain.Catalog {
	if err := res.Validate(); err != nil {
		panic(fmt.Sprintf("invalid restriction resources: %v", err))
	}

	return domain.Catalog{
		{
			Key:   domain.KeyBoolean,
			Kind:  domain.KindBool,
			Title: sanitize(res.BooleanTitle),
			Value: domain.Value{Bool: false},
		},
		{
			Key:          domain.KeyChoice,
			Kind:         domain.KindChoice,
			Title:        sanitize(res.ChoiceTitle),
			ChoiceLabels: sanitizeAll(res.ChoiceLabels),
			ChoiceValues: append([]string{}, res.ChoiceValues...),
			Value:        domain.Value{Selected: res.ChoiceValues[0]},
		},
		{
			Key:          domain.KeyMultiSelect,
			Kind:         domain.KindMultiSelect,
			Title:        sanitize(res.MultiTitle),
			ChoiceLabels: sanitizeAll(res.MultiLabels),
			ChoiceValues: append([]string{}, res.MultiValues...),
			Value:        domain.Value{AllSelected: []string{}},
		},
	}
}
