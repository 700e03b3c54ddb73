package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"atlasdash/adapters/localstore"
	"atlasdash/internal/config"
	"atlasdash/internal/metrics"
	"atlasdash/internal/normalize"
	"atlasdash/internal/panel"
	"atlasdash/ports"

	logging "atlasdash/internal"
)

//go:embed templates/*
var embeddedFiles embed.FS

// SourceFactory builds an atlas source for an API base. The dashboard swaps
// sources when the base setting changes; the demo factory ignores the base.
type SourceFactory func(base string) ports.AtlasSource

// App is the dashboard application: one chi router, the current atlas
// source, and the manifest panel whose lifecycle tracks the API base.
type App struct {
	router    *chi.Mux
	cfg       *config.Config
	store     ports.SettingsStore
	renderer  ports.Renderer
	newSource SourceFactory
	templates *template.Template
	log       *logging.Logger

	mu       sync.RWMutex
	source   ports.AtlasSource
	manifest *panel.Panel
}

// NewApp wires the application
func NewApp(cfg *config.Config, store ports.SettingsStore, renderer ports.Renderer, factory SourceFactory) (*App, error) {
	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		cfg:       cfg,
		store:     store,
		renderer:  renderer,
		newSource: factory,
		templates: templates,
		log:       logging.DefaultLogger.With("ui"),
		manifest: panel.New(panel.Config{
			Name:         "manifest",
			Canonicalize: normalize.Disease,
		}),
	}
	app.source = factory(app.apiBase())

	app.setupMiddleware()
	app.setupRoutes()
	return app, nil
}

// apiBase resolves the effective API base: the stored override when present,
// the compiled-in default otherwise.
func (a *App) apiBase() string {
	if base, ok := a.store.Get(localstore.KeyAPIBase); ok {
		return base
	}
	return a.cfg.Atlas.DefaultBase
}

// currentSource returns the source bound to the effective API base
func (a *App) currentSource() ports.AtlasSource {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.source
}

// rebindSource swaps the source after a base change and invalidates the
// manifest panel so in-flight loads against the old base are dropped.
func (a *App) rebindSource() {
	a.mu.Lock()
	a.source = a.newSource(a.apiBase())
	a.mu.Unlock()
	a.manifest.Reset()
	a.log.Info("API base changed, source rebound to %s", a.apiBase())
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	// Pages
	a.router.Get("/", a.handleDashboard)
	a.router.Get("/about", a.handleAbout)

	// Panel data endpoints
	a.router.Get("/api/manifest", a.handleManifest)
	a.router.Get("/api/umap", a.handleUMAP)
	a.router.Get("/api/composition", a.handleComposition)
	a.router.Get("/api/dotplot", a.handleDotplot)
	a.router.Get("/api/violin", a.handleViolin)
	a.router.Get("/api/accessions", a.handleAccessions)
	a.router.Get("/api/markers", a.handleMarkers)
	a.router.Get("/api/de", a.handleDE)
	a.router.Get("/api/de/export", a.handleDEExport)

	// Session configuration
	a.router.Get("/api/settings/api-base", a.handleGetAPIBase)
	a.router.Put("/api/settings/api-base", a.handleSetAPIBase)
	a.router.Delete("/api/settings/api-base", a.handleClearAPIBase)

	a.router.Handle("/metrics", metrics.Handler())
}

// Router exposes the handler for serving and tests
func (a *App) Router() http.Handler {
	return a.router
}

// Start serves the dashboard on the configured port
func (a *App) Start() error {
	addr := ":" + a.cfg.Server.Port
	a.log.Info("starting atlas dashboard on %s (api base %s)", addr, a.apiBase())
	return http.ListenAndServe(addr, a.router)
}

func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.log.Error("template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
