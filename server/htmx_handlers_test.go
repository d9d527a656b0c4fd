package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/apprestrictions/pkg/domain"
	"github.com/umputun/apprestrictions/server/mocks"
)

// sessionFromLocation extracts the session id from a custom form redirect
func sessionFromLocation(t *testing.T, loc string) string {
	t.Helper()
	require.True(t, strings.HasPrefix(loc, customFormPath+"/"), "unexpected location %q", loc)
	id := strings.TrimPrefix(loc, customFormPath+"/")
	require.NotEmpty(t, id)
	return id
}

func TestServer_statusPageHandler(t *testing.T) {
	t.Run("configured profile", func(t *testing.T) {
		store := memStore(map[string]domain.Restrictions{
			"restricted": {domain.KeyBoolean: true, domain.KeyChoice: "choice2", domain.KeyMultiSelect: []string{"multi1", "multi2"}},
		})
		srv := testServer(t, store, flagSettings(true))

		w := do(srv, http.MethodGet, "/", http.NoBody)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Restrictions of restricted")
		assert.Contains(t, body, `<dd id="status-boolean">true</dd>`)
		assert.Contains(t, body, `<dd id="status-choice">choice2</dd>`)
		assert.Contains(t, body, `<dd id="status-multi">multi1 multi2 </dd>`)
		assert.Contains(t, body, `value="true" checked`)
		assert.Contains(t, body, `href="/?profile=restricted"`)
	})

	t.Run("not configured profile", func(t *testing.T) {
		srv := testServer(t, memStore(nil), flagSettings(false))

		w := do(srv, http.MethodGet, "/?profile=guest", http.NoBody)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Restrictions of guest")
		assert.Contains(t, body, `<dd id="status-boolean">N/A</dd>`)
		assert.Contains(t, body, `<dd id="status-choice">N/A</dd>`)
		assert.Contains(t, body, `<dd id="status-multi">N/A</dd>`)
		assert.NotContains(t, body, `value="true" checked`)
	})

	t.Run("store error", func(t *testing.T) {
		store := memStore(nil)
		store.GetRestrictionsFunc = func(context.Context, string) (domain.Restrictions, error) {
			return nil, errors.New("db is down")
		}
		srv := testServer(t, store, flagSettings(false))

		w := do(srv, http.MethodGet, "/", http.NoBody)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to load restrictions")
	})
}

func TestServer_customConfigToggleHandler(t *testing.T) {
	settings := flagSettings(false)
	srv := testServer(t, memStore(nil), settings)

	w := postForm(srv, "/custom-config", url.Values{"custom": {"true"}}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="custom-toggle"`)
	assert.Contains(t, w.Body.String(), "checked")

	w = postForm(srv, "/custom-config", url.Values{}, false)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	calls := settings.SetBoolCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, domain.SettingCustomConfig, calls[0].Key)
	assert.True(t, calls[0].Value)
	assert.False(t, calls[1].Value)
}

func TestServer_customFormFlow(t *testing.T) {
	store := memStore(map[string]domain.Restrictions{
		"restricted": {domain.KeyBoolean: false, domain.KeyChoice: "choice1", domain.KeyMultiSelect: []string{}},
	})
	srv := testServer(t, store, flagSettings(false))

	// open directly, initialized from stored values
	w := do(srv, http.MethodGet, customFormPath, http.NoBody)
	require.Equal(t, http.StatusSeeOther, w.Code)
	id := sessionFromLocation(t, w.Header().Get("Location"))
	assert.Equal(t, 1, srv.sessions.Len())

	w = do(srv, http.MethodGet, customFormPath+"/"+id, http.NoBody)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Custom restrictions of restricted")
	assert.Contains(t, body, "Sample boolean restriction")
	assert.Contains(t, body, "Sample single-choice restriction")
	assert.Contains(t, body, "Sample multi-select restriction")
	assert.Contains(t, body, `id="pending-result"`)

	// edit every field
	fieldPath := customFormPath + "/" + id + "/fields/"
	w = postForm(srv, fieldPath+domain.KeyBoolean, url.Values{"value": {"true"}}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<dd id="status-boolean">true</dd>`)

	w = postForm(srv, fieldPath+domain.KeyChoice, url.Values{"value": {"choice3"}}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<dd id="status-choice">choice3</dd>`)

	w = postForm(srv, fieldPath+domain.KeyMultiSelect, url.Values{"value": {"multi3", "multi1"}}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<dd id="status-multi">multi1 multi3 </dd>`)

	// nothing stored before save
	stored, err := store.GetRestrictions(context.Background(), "restricted")
	require.NoError(t, err)
	assert.Equal(t, false, stored[domain.KeyBoolean])

	w = postForm(srv, customFormPath+"/"+id+"/save", url.Values{}, false)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?profile=restricted", w.Header().Get("Location"))
	assert.Equal(t, 0, srv.sessions.Len())

	stored, err = store.GetRestrictions(context.Background(), "restricted")
	require.NoError(t, err)
	assert.Equal(t, domain.Restrictions{
		domain.KeyBoolean:     true,
		domain.KeyChoice:      "choice3",
		domain.KeyMultiSelect: []string{"multi1", "multi3"},
	}, stored)

	// session is gone after save
	w = do(srv, http.MethodGet, customFormPath+"/"+id, http.NoBody)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_customFormNeverConfigured(t *testing.T) {
	srv := testServer(t, memStore(nil), flagSettings(false))

	w := do(srv, http.MethodGet, customFormPath+"?profile=guest", http.NoBody)
	require.Equal(t, http.StatusSeeOther, w.Code)
	id := sessionFromLocation(t, w.Header().Get("Location"))

	form, profile, ok := srv.sessions.Get(id)
	require.True(t, ok)
	assert.Equal(t, "guest", profile)
	assert.Equal(t, domain.Restrictions{
		domain.KeyBoolean:     false,
		domain.KeyChoice:      "choice1",
		domain.KeyMultiSelect: []string{},
	}, form.Result().Values())
}

func TestServer_fieldChangeHandler_Errors(t *testing.T) {
	srv := testServer(t, memStore(nil), flagSettings(false))
	w := do(srv, http.MethodGet, customFormPath, http.NoBody)
	id := sessionFromLocation(t, w.Header().Get("Location"))
	fieldPath := customFormPath + "/" + id + "/fields/"

	tests := []struct {
		name string
		path string
		form url.Values
		code int
	}{
		{name: "unknown key", path: fieldPath + "no_such_key", form: url.Values{"value": {"x"}}, code: http.StatusBadRequest},
		{name: "illegal choice", path: fieldPath + domain.KeyChoice, form: url.Values{"value": {"choice9"}},
			code: http.StatusBadRequest},
		{name: "illegal multi value", path: fieldPath + domain.KeyMultiSelect, form: url.Values{"value": {"multi1", "zzz"}},
			code: http.StatusBadRequest},
		{name: "unknown session", path: customFormPath + "/bad-id/fields/" + domain.KeyBoolean,
			form: url.Values{"value": {"true"}}, code: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(srv, tt.path, tt.form, true)
			assert.Equal(t, tt.code, w.Code)
		})
	}

	// failed changes leave the pending result untouched
	form, _, ok := srv.sessions.Get(id)
	require.True(t, ok)
	assert.Equal(t, "choice1", form.Result().Values()[domain.KeyChoice])
}

func TestServer_cancelCustomFormHandler(t *testing.T) {
	store := memStore(nil)
	srv := testServer(t, store, flagSettings(false))

	w := do(srv, http.MethodGet, customFormPath+"?profile=kids", http.NoBody)
	id := sessionFromLocation(t, w.Header().Get("Location"))

	w = postForm(srv, customFormPath+"/"+id+"/fields/"+domain.KeyBoolean, url.Values{"value": {"on"}}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = postForm(srv, customFormPath+"/"+id+"/cancel", url.Values{}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/?profile=kids", w.Header().Get("HX-Redirect"))
	assert.Equal(t, 0, srv.sessions.Len())
	assert.Empty(t, store.SetRestrictionsCalls())

	w = postForm(srv, customFormPath+"/"+id+"/cancel", url.Values{}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_standardFormHandler(t *testing.T) {
	t.Run("standard configuration renders platform form", func(t *testing.T) {
		store := memStore(map[string]domain.Restrictions{
			"kids": {domain.KeyBoolean: true, domain.KeyChoice: "choice2", domain.KeyMultiSelect: []string{"multi3"}},
		})
		srv := testServer(t, store, flagSettings(false))

		w := do(srv, http.MethodGet, "/profiles/kids/restrictions", http.NoBody)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `action="/profiles/kids/restrictions"`)
		assert.Contains(t, body, `name="boolean_key" value="true" checked`)
		assert.Contains(t, body, `name="choice_key" value="choice2" checked`)
		assert.Contains(t, body, `name="multi_key" value="multi3" checked`)
		assert.NotContains(t, body, `value="multi1" checked`)
		assert.Equal(t, 0, srv.sessions.Len())
	})

	t.Run("custom configuration redirects to custom form", func(t *testing.T) {
		store := memStore(map[string]domain.Restrictions{
			"kids": {domain.KeyChoice: "choice3"},
		})
		srv := testServer(t, store, flagSettings(true))

		w := do(srv, http.MethodGet, "/profiles/kids/restrictions", http.NoBody)
		require.Equal(t, http.StatusSeeOther, w.Code)
		id := sessionFromLocation(t, w.Header().Get("Location"))

		form, profile, ok := srv.sessions.Get(id)
		require.True(t, ok)
		assert.Equal(t, "kids", profile)
		assert.Equal(t, domain.Restrictions{
			domain.KeyBoolean:     false,
			domain.KeyChoice:      "choice3",
			domain.KeyMultiSelect: []string{},
		}, form.Result().Values())
	})

	t.Run("never configured ignores custom flag", func(t *testing.T) {
		srv := testServer(t, memStore(nil), flagSettings(true))
		w := do(srv, http.MethodGet, "/profiles/new/restrictions", http.NoBody)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="choice_key" value="choice1" checked`)
	})
}

func TestServer_saveStandardFormHandler(t *testing.T) {
	store := memStore(nil)
	srv := testServer(t, store, flagSettings(false))

	form := url.Values{
		domain.KeyBoolean:     {"true"},
		domain.KeyChoice:      {"choice2"},
		domain.KeyMultiSelect: {"multi2", "bogus"},
		"unknown":             {"x"},
	}
	w := postForm(srv, "/profiles/kids/restrictions", form, false)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?profile=kids", w.Header().Get("Location"))

	calls := store.SetRestrictionsCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "kids", calls[0].Profile)
	// multi-select with an illegal value is dropped as a whole
	assert.Equal(t, domain.Restrictions{domain.KeyBoolean: true, domain.KeyChoice: "choice2"}, calls[0].Values)

	// unchecked boxes come as missing fields
	w = postForm(srv, "/profiles/kids/restrictions", url.Values{domain.KeyChoice: {"choice1"}}, false)
	require.Equal(t, http.StatusSeeOther, w.Code)
	calls = store.SetRestrictionsCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, domain.Restrictions{
		domain.KeyBoolean:     false,
		domain.KeyChoice:      "choice1",
		domain.KeyMultiSelect: []string{},
	}, calls[1].Values)
}

func TestServer_saveHandlers_StoreError(t *testing.T) {
	store := &mocks.StoreMock{
		GetRestrictionsFunc: func(context.Context, string) (domain.Restrictions, error) { return nil, nil },
		SetRestrictionsFunc: func(context.Context, string, domain.Restrictions) error { return errors.New("db is down") },
	}
	srv := testServer(t, store, flagSettings(false))

	w := postForm(srv, "/profiles/kids/restrictions", url.Values{}, false)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = do(srv, http.MethodGet, customFormPath, http.NoBody)
	id := sessionFromLocation(t, w.Header().Get("Location"))
	w = postForm(srv, customFormPath+"/"+id+"/save", url.Values{}, false)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, srv.sessions.Len(), "session kept for retry")
}

func TestFieldValue(t *testing.T) {
	form := url.Values{"b": {"on"}, "c": {"choice2"}, "m": {"x", "y"}}
	assert.Equal(t, true, fieldValue(domain.KindBool, form, "b"))
	assert.Equal(t, false, fieldValue(domain.KindBool, form, "missing"))
	assert.Equal(t, "choice2", fieldValue(domain.KindChoice, form, "c"))
	assert.Equal(t, "", fieldValue(domain.KindChoice, form, "missing"))
	assert.Equal(t, []string{"x", "y"}, fieldValue(domain.KindMultiSelect, form, "m"))
	assert.Equal(t, []string{}, fieldValue(domain.KindMultiSelect, form, "missing"))
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "true": true, "1": true, "false": false, "": false, "off": false} {
		assert.Equal(t, want, parseBool(in), in)
	}
}
