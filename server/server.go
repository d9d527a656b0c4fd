package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/apprestrictions/pkg/config"
	"github.com/umputun/apprestrictions/pkg/domain"
	"github.com/umputun/apprestrictions/pkg/restrictions"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/settings.go -pkg mocks -skip-ensure -fmt goimports . SettingStore

//go:embed templates/*.html
var templatesFS embed.FS

// customFormPath is the location of the custom settings form, used as the query redirect target
const customFormPath = "/custom-restrictions"

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	store     Store
	settings  SettingStore
	responder *restrictions.Responder
	sessions  *restrictions.Sessions
	resources restrictions.Resources
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
	templates  *template.Template
}

// Store is the platform restriction storage
type Store interface {
	GetRestrictions(ctx context.Context, profile string) (domain.Restrictions, error)
	SetRestrictions(ctx context.Context, profile string, values domain.Restrictions) error
	DeleteRestrictions(ctx context.Context, profile string) error
	ListProfiles(ctx context.Context) ([]domain.Profile, error)
}

// SettingStore keeps local application flags
type SettingStore interface {
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetFullConfig() *config.Config
}

// New initializes a new server instance
func New(cfg ConfigProvider, store Store, settings SettingStore, version string, debug bool) *Server {
	full := cfg.GetFullConfig()
	res := full.GetResources()

	s := &Server{
		config:   cfg,
		store:    store,
		settings: settings,
		responder: restrictions.NewResponder(restrictions.ResponderConfig{
			Resources:     res,
			Flags:         settings,
			CustomFormURL: customFormPath,
		}),
		sessions:  restrictions.NewSessions(full.Server.SessionTTL),
		resources: res,
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
		templates: template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server with the session sweeper and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	httpServer := s.httpServer
	s.lock.Unlock()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.sessions.Run(ctx, time.Minute)
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("apprestrictions", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("POST /query", s.queryHandler)
		r.HandleFunc("GET /profiles", s.listProfilesHandler)
		r.HandleFunc("GET /profiles/{profile}/restrictions", s.getRestrictionsHandler)
		r.HandleFunc("PUT /profiles/{profile}/restrictions", s.setRestrictionsHandler)
		r.HandleFunc("DELETE /profiles/{profile}/restrictions", s.deleteRestrictionsHandler)
		r.HandleFunc("GET /profiles/{profile}/status", s.profileStatusHandler)
		r.HandleFunc("GET /custom-config", s.getCustomConfigHandler)
		r.HandleFunc("PUT /custom-config", s.setCustomConfigHandler)
	})

	// application pages
	s.router.HandleFunc("GET /{$}", s.statusPageHandler)
	s.router.HandleFunc("POST /custom-config", s.customConfigToggleHandler)
	s.router.HandleFunc("GET "+customFormPath, s.openCustomFormHandler)
	s.router.HandleFunc("GET "+customFormPath+"/{session}", s.customFormHandler)
	s.router.HandleFunc("POST "+customFormPath+"/{session}/fields/{key}", s.fieldChangeHandler)
	s.router.HandleFunc("POST "+customFormPath+"/{session}/save", s.saveCustomFormHandler)
	s.router.HandleFunc("POST "+customFormPath+"/{session}/cancel", s.cancelCustomFormHandler)

	// platform pages
	s.router.HandleFunc("GET /profiles/{profile}/restrictions", s.standardFormHandler)
	s.router.HandleFunc("POST /profiles/{profile}/restrictions", s.saveStandardFormHandler)
}
