package server

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/umputun/apprestrictions/pkg/domain"
	"github.com/umputun/apprestrictions/pkg/restrictions"
)

// statusPageData is the data of the status page
type statusPageData struct {
	ActivePage string
	Version    string
	Profile    string
	Profiles   []domain.Profile
	Status     restrictions.Status
	Custom     bool
}

// formPageData is the data of both settings forms
type formPageData struct {
	ActivePage string
	Version    string
	Profile    string
	Session    string
	Fields     []restrictions.Field
	Status     restrictions.Status
}

// statusPageHandler displays committed restriction values of a profile and the custom configuration switch
func (s *Server) statusPageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile := s.profileParam(r)

	values, err := s.store.GetRestrictions(ctx, profile)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load restrictions", err)
		return
	}

	custom, err := s.settings.GetBool(ctx, domain.SettingCustomConfig)
	if err != nil {
		log.Printf("[WARN] failed to get %s: %v", domain.SettingCustomConfig, err)
	}

	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		log.Printf("[WARN] failed to list profiles: %v", err)
		profiles = []domain.Profile{}
	}

	data := statusPageData{
		ActivePage: "status",
		Version:    s.version,
		Profile:    profile,
		Profiles:   profiles,
		Status:     restrictions.RenderStatus(values, s.resources.NotAvailable),
		Custom:     custom,
	}
	if err := s.renderPage(w, "status.html", data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
		return
	}
}

// customConfigToggleHandler stores the custom configuration switch
func (s *Server) customConfigToggleHandler(w http.ResponseWriter, r *http.Request) {
	custom := parseBool(r.FormValue("custom"))
	if err := s.settings.SetBool(r.Context(), domain.SettingCustomConfig, custom); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to save setting", err)
		return
	}
	log.Printf("[INFO] %s set to %t", domain.SettingCustomConfig, custom)

	if r.Header.Get("HX-Request") != "true" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "custom-toggle", struct{ Custom bool }{Custom: custom}); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render toggle", err)
	}
}

// openCustomFormHandler opens the custom settings form directly, initialized from the stored values
func (s *Server) openCustomFormHandler(w http.ResponseWriter, r *http.Request) {
	profile := s.profileParam(r)
	stored, err := s.store.GetRestrictions(r.Context(), profile)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load restrictions", err)
		return
	}

	form := restrictions.NewForm(s.resources)
	if err := form.Bind(nil, stored); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to initialize form", err)
		return
	}
	id := s.sessions.Open(profile, form)
	http.Redirect(w, r, customFormPath+"/"+id, http.StatusSeeOther)
}

// customFormHandler displays the custom settings form of an open session
func (s *Server) customFormHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("session")
	form, profile, ok := s.sessions.Get(id)
	if !ok {
		http.Error(w, "Settings session not found", http.StatusNotFound)
		return
	}

	data := formPageData{
		ActivePage: "custom",
		Version:    s.version,
		Profile:    profile,
		Session:    id,
		Fields:     form.Fields(),
		Status:     restrictions.RenderStatus(form.Result().Values(), s.resources.NotAvailable),
	}
	if err := s.renderPage(w, "custom-form.html", data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
		return
	}
}

// fieldChangeHandler applies a single field change and returns the updated pending result
func (s *Server) fieldChangeHandler(w http.ResponseWriter, r *http.Request) {
	form, _, ok := s.sessions.Get(r.PathValue("session"))
	if !ok {
		http.Error(w, "Settings session not found", http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	key := r.PathValue("key")
	entry, found := form.Result().Find(key)
	if !found {
		http.Error(w, "Unknown restriction", http.StatusBadRequest)
		return
	}

	err := form.Change(key, fieldValue(entry.Kind, r.PostForm, "value"))
	switch {
	case errors.Is(err, restrictions.ErrUnknownField), errors.Is(err, restrictions.ErrInvalidValue):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		s.respondWithError(w, http.StatusInternalServerError, "Failed to change restriction", err)
		return
	}

	status := restrictions.RenderStatus(form.Result().Values(), s.resources.NotAvailable)
	if err := s.templates.ExecuteTemplate(w, "pending-result", status); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render result", err)
	}
}

// saveCustomFormHandler commits the pending result of the session and closes it
func (s *Server) saveCustomFormHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("session")
	form, profile, ok := s.sessions.Get(id)
	if !ok {
		http.Error(w, "Settings session not found", http.StatusNotFound)
		return
	}

	values := form.Result().Values()
	if err := s.store.SetRestrictions(r.Context(), profile, values); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to save restrictions", err)
		return
	}
	s.sessions.Close(id)
	log.Printf("[INFO] restrictions of %s saved from custom form: %v", profile, values)
	s.redirectToStatus(w, r, profile)
}

// cancelCustomFormHandler drops the session without committing anything
func (s *Server) cancelCustomFormHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("session")
	_, profile, ok := s.sessions.Get(id)
	if !ok {
		http.Error(w, "Settings session not found", http.StatusNotFound)
		return
	}
	s.sessions.Close(id)
	s.redirectToStatus(w, r, profile)
}

// standardFormHandler is the platform side of the settings flow. It queries the responder
// and either renders the platform form from the returned entries or, for custom
// configuration, opens the custom form seeded with the returned entries.
func (s *Server) standardFormHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile := r.PathValue("profile")

	stored, err := s.store.GetRestrictions(ctx, profile)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to load restrictions", err)
		return
	}

	res, err := s.responder.Query(ctx, stored)
	if err != nil {
		s.respondWithError(w, http.StatusServiceUnavailable, "Restrictions query failed", err)
		return
	}

	if res.Redirect != "" {
		form := restrictions.NewForm(s.resources)
		if err := form.Bind(res.Entries, stored); err != nil {
			s.respondWithError(w, http.StatusInternalServerError, "Failed to initialize form", err)
			return
		}
		id := s.sessions.Open(profile, form)
		http.Redirect(w, r, res.Redirect+"/"+id, http.StatusSeeOther)
		return
	}

	data := formPageData{
		ActivePage: "standard",
		Version:    s.version,
		Profile:    profile,
		Fields:     restrictions.Fields(res.Entries),
		Status:     restrictions.RenderStatus(res.Entries.Values(), s.resources.NotAvailable),
	}
	if err := s.renderPage(w, "standard-form.html", data); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to render page", err)
		return
	}
}

// saveStandardFormHandler stores values submitted from the platform form, one form field per key
func (s *Server) saveStandardFormHandler(w http.ResponseWriter, r *http.Request) {
	profile := r.PathValue("profile")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	catalog := restrictions.BuildCatalog(s.resources)
	values := domain.Restrictions{}
	for _, e := range catalog {
		values[e.Key] = fieldValue(e.Kind, r.PostForm, e.Key)
	}

	clean := restrictions.Sanitize(catalog, values)
	if err := s.store.SetRestrictions(r.Context(), profile, clean); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Failed to save restrictions", err)
		return
	}
	log.Printf("[INFO] restrictions of %s saved from standard form: %v", profile, clean)
	s.redirectToStatus(w, r, profile)
}

// profileParam returns the requested profile or the configured default
func (s *Server) profileParam(r *http.Request) string {
	if profile := r.URL.Query().Get("profile"); profile != "" {
		return profile
	}
	return s.config.GetFullConfig().Server.DefaultProfile
}

// redirectToStatus sends the browser back to the status page, htmx requests get HX-Redirect
func (s *Server) redirectToStatus(w http.ResponseWriter, r *http.Request, profile string) {
	target := "/?profile=" + url.QueryEscape(profile)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// renderPage renders a full page template
func (s *Server) renderPage(w http.ResponseWriter, templateName string, data interface{}) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.templates.ExecuteTemplate(w, templateName, data)
}

// respondWithError logs the error and sends a plain text error response
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, err error) {
	log.Printf("[ERROR] %s: %v", message, err)
	http.Error(w, message, code)
}

// fieldValue converts submitted form values to the value type of the restriction kind.
// A missing checkbox is false and a missing multi-select is an empty selection.
func fieldValue(kind domain.Kind, form url.Values, name string) any {
	switch kind {
	case domain.KindBool:
		return parseBool(form.Get(name))
	case domain.KindMultiSelect:
		if vals, ok := form[name]; ok {
			return vals
		}
		return []string{}
	default:
		return form.Get(name)
	}
}

// parseBool accepts html checkbox "on" along with strconv forms
func parseBool(s string) bool {
	if s == "on" {
		return true
	}
	v, err := strconv.ParseBool(s)
	return err == nil && v
}
