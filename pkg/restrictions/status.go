package restrictions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/umputun/apprestrictions/pkg/domain"
)

// Status is the read-only text rendering of committed restriction values
type Status struct {
	Boolean string `json:"boolean"`
	Choice  string `json:"choice"`
	Multi   string `json:"multi"`
}

// RenderStatus renders values for display, na is shown for missing values.
// Stored strings are shown verbatim, without checking them against the catalog.
func RenderStatus(values domain.Restrictions, na string) Status {
	res := Status{Boolean: na, Choice: na, Multi: na}

	if values.Has(domain.KeyBoolean) {
		res.Boolean = strconv.FormatBool(values.Bool(domain.KeyBoolean))
	}

	if values.Has(domain.KeyChoice) {
		if v, ok := values.String(domain.KeyChoice); ok {
			res.Choice = v
		} else {
			res.Choice = fmt.Sprint(values[domain.KeyChoice])
		}
	}

	if multi, ok := values.Strings(domain.KeyMultiSelect); ok && len(multi) > 0 {
		var sb strings.Builder
		for _, v := range multi {
			sb.WriteString(v)
			sb.WriteString(" ")
		}
		res.Multi = sb.String()
	}

	return res
}
