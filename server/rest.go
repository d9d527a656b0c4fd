package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/umputun/apprestrictions/pkg/domain"
	"github.com/umputun/apprestrictions/pkg/repository"
	"github.com/umputun/apprestrictions/pkg/restrictions"
)

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// queryHandler passes a platform query to the responder and waits for its single result
func (s *Server) queryHandler(w http.ResponseWriter, r *http.Request) {
	var q restrictions.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		renderError(w, r, fmt.Errorf("invalid query: %w", err), http.StatusBadRequest)
		return
	}
	if q.Action == "" {
		q.Action = restrictions.ActionGetRestrictionEntries
	}

	done, resCh := restrictions.NewPendingResult()
	s.responder.Handle(r.Context(), q, done)

	select {
	case res := <-resCh:
		if res.Entries == nil {
			res.Entries = domain.Catalog{}
		}
		renderJSON(w, r, http.StatusOK, res)
	case <-r.Context().Done():
		log.Printf("[WARN] query %q abandoned: %v", q.Action, r.Context().Err())
		renderError(w, r, r.Context().Err(), http.StatusServiceUnavailable)
	}
}

// listProfilesHandler returns all configured profiles
func (s *Server) listProfilesHandler(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListProfiles(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to list profiles: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	renderJSON(w, r, http.StatusOK, profiles)
}

// getRestrictionsHandler returns stored restriction values of the profile
func (s *Server) getRestrictionsHandler(w http.ResponseWriter, r *http.Request) {
	profile := r.PathValue("profile")
	values, err := s.store.GetRestrictions(r.Context(), profile)
	if err != nil {
		log.Printf("[ERROR] failed to get restrictions for %s: %v", profile, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	if values == nil {
		renderError(w, r, fmt.Errorf("profile %s is not configured", profile), http.StatusNotFound)
		return
	}
	renderJSON(w, r, http.StatusOK, values)
}

// setRestrictionsHandler replaces restriction values of the profile. Unknown keys
// and illegal values are dropped.
func (s *Server) setRestrictionsHandler(w http.ResponseWriter, r *http.Request) {
	profile := r.PathValue("profile")

	var values domain.Restrictions
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		renderError(w, r, fmt.Errorf("invalid restrictions: %w", err), http.StatusBadRequest)
		return
	}

	clean := restrictions.Sanitize(restrictions.BuildCatalog(s.resources), values)
	if err := s.store.SetRestrictions(r.Context(), profile, clean); err != nil {
		log.Printf("[ERROR] failed to set restrictions for %s: %v", profile, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	log.Printf("[INFO] restrictions of %s updated: %v", profile, clean)
	renderJSON(w, r, http.StatusOK, clean)
}

// deleteRestrictionsHandler removes the profile with all its values
func (s *Server) deleteRestrictionsHandler(w http.ResponseWriter, r *http.Request) {
	profile := r.PathValue("profile")
	err := s.store.DeleteRestrictions(r.Context(), profile)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		renderError(w, r, fmt.Errorf("profile %s is not configured", profile), http.StatusNotFound)
		return
	case err != nil:
		log.Printf("[ERROR] failed to delete restrictions for %s: %v", profile, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// profileStatusHandler returns the status lines of the profile
func (s *Server) profileStatusHandler(w http.ResponseWriter, r *http.Request) {
	profile := r.PathValue("profile")
	values, err := s.store.GetRestrictions(r.Context(), profile)
	if err != nil {
		log.Printf("[ERROR] failed to get restrictions for %s: %v", profile, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, restrictions.RenderStatus(values, s.resources.NotAvailable))
}

type customConfigRequest struct {
	Custom bool `json:"custom"`
}

// getCustomConfigHandler returns the custom configuration flag
func (s *Server) getCustomConfigHandler(w http.ResponseWriter, r *http.Request) {
	custom, err := s.settings.GetBool(r.Context(), domain.SettingCustomConfig)
	if err != nil {
		log.Printf("[ERROR] failed to get %s: %v", domain.SettingCustomConfig, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, customConfigRequest{Custom: custom})
}

// setCustomConfigHandler stores the custom configuration flag
func (s *Server) setCustomConfigHandler(w http.ResponseWriter, r *http.Request) {
	var req customConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request: %w", err), http.StatusBadRequest)
		return
	}
	if err := s.settings.SetBool(r.Context(), domain.SettingCustomConfig, req.Custom); err != nil {
		log.Printf("[ERROR] failed to set %s: %v", domain.SettingCustomConfig, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, req)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
