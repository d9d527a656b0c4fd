package restrictions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/apprestrictions/pkg/domain"
)

func TestBuildCatalog(t *testing.T) {
	res := DefaultResources()
	catalog := BuildCatalog(res)
	require.Len(t, catalog, 3)

	assert.Equal(t, domain.KeyBoolean, catalog[0].Key)
	assert.Equal(t, domain.KindBool, catalog[0].Kind)
	assert.False(t, catalog[0].Value.Bool)
	assert.Equal(t, res.BooleanTitle, catalog[0].Title)

	assert.Equal(t, domain.KeyChoice, catalog[1].Key)
	assert.Equal(t, domain.KindChoice, catalog[1].Kind)
	assert.Equal(t, res.ChoiceValues[0], catalog[1].Value.Selected, "default is the first choice value")
	assert.Equal(t, res.ChoiceLabels, catalog[1].ChoiceLabels)
	assert.Equal(t, res.ChoiceValues, catalog[1].ChoiceValues)

	assert.Equal(t, domain.KeyMultiSelect, catalog[2].Key)
	assert.Equal(t, domain.KindMultiSelect, catalog[2].Kind)
	assert.NotNil(t, catalog[2].Value.AllSelected)
	assert.Empty(t, catalog[2].Value.AllSelected, "default is the empty set")
	assert.Equal(t, res.MultiValues, catalog[2].ChoiceValues)
}

func TestBuildCatalog_DoesNotShareResourceSlices(t *testing.T) {
	res := DefaultResources()
	catalog := BuildCatalog(res)
	catalog[1].ChoiceValues[0] = "changed"
	assert.Equal(t, "choice1", res.ChoiceValues[0])
}

func TestBuildCatalog_SanitizesText(t *testing.T) {
	res := DefaultResources()
	res.BooleanTitle = `<b>Allow</b> <script>alert(1)</script>cats & dogs`
	res.ChoiceLabels = []string{"<i>One</i>", "Two", "Three"}
	catalog := BuildCatalog(res)
	assert.Equal(t, "Allow cats & dogs", catalog[0].Title)
	assert.Equal(t, "One", catalog[1].ChoiceLabels[0])
}

func TestBuildCatalog_InvalidResources(t *testing.T) {
	res := DefaultResources()
	res.ChoiceValues = nil
	assert.Panics(t, func() { BuildCatalog(res) })
}

func TestResources_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *Resources)
		wantErr string
	}{
		{name: "default", modify: func(r *Resources) {}},
		{name: "no choice values", modify: func(r *Resources) { r.ChoiceValues = nil; r.ChoiceLabels = nil },
			wantErr: "no choice values"},
		{name: "choice mismatch", modify: func(r *Resources) { r.ChoiceLabels = r.ChoiceLabels[:1] },
			wantErr: "choice labels and values mismatch"},
		{name: "no multi values", modify: func(r *Resources) { r.MultiValues = nil; r.MultiLabels = nil },
			wantErr: "no multi-select values"},
		{name: "multi mismatch", modify: func(r *Resources) { r.MultiLabels = append(r.MultiLabels, "extra") },
			wantErr: "multi-select labels and values mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DefaultResources()
			tt.modify(&res)
			err := res.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
