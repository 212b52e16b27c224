// Package vitrine serves a small marketing site: static pages, a Google
// Places review proxy that keeps the API key on the server, server-rendered
// review and embed fragments, and an optional shared-secret config endpoint.
//
// The browser widgets live in the carousel, lightbox, embed and widgets
// packages; this package is the HTTP side.
package vitrine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/vitrine/embed"
	"github.com/eringen/vitrine/logging"
	"github.com/eringen/vitrine/reviews"
	"github.com/eringen/vitrine/views"
)

// ViewFuncs holds the components the handlers render. DefaultViews returns
// the built-in ones; sites can swap any of them with WithViews.
type ViewFuncs struct {
	ReviewsFragment func(s reviews.Summary, now time.Time) templ.Component
	ReviewsError    func(msg string) templ.Component
	EmbedFrame      func(f embed.Frame) templ.Component
}

// DefaultViews returns the components from the views package.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		ReviewsFragment: views.ReviewsFragment,
		ReviewsError:    views.ReviewsError,
		EmbedFrame:      views.EmbedFrame,
	}
}

// App is the central vitrine application. It wires together the credential
// store, cache, Places client, handlers and middleware.
type App struct {
	Config      SiteConfig
	Echo        *echo.Echo
	Credentials CredentialStore
	Cache       *CredentialCache
	Places      *reviews.PlacesClient
	Reviews     *reviews.Service
	Metrics     *Metrics
	Views       ViewFuncs

	customRoutes []func(*App)
	httpClient   *http.Client
	clock        func() time.Time
	ready        bool
}

// New creates an App. Call Setup (or Start, which calls it) before serving.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:  cfg,
		Echo:    echo.New(),
		Metrics: NewMetrics(),
		Views:   DefaultViews(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Setup opens the credential backend and registers middleware and routes.
// It is idempotent.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}

	if a.Credentials == nil {
		store, err := a.openCredentialStore()
		if err != nil {
			return err
		}
		a.Credentials = store
	}

	a.Cache = NewCredentialCache(a.Credentials, reviews.Credentials{
		APIKey:  a.Config.Places.APIKey,
		PlaceID: a.Config.Places.PlaceID,
	}, a.Config.CredentialsTTL)

	adapter, err := reviews.AdapterFor(a.Config.Places.API)
	if err != nil {
		return fmt.Errorf("vitrine: %w", err)
	}
	hc := a.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: a.Config.Places.Timeout}
	}
	a.Places = reviews.NewPlacesClient(adapter,
		reviews.WithHTTPClient(hc),
		reviews.WithBaseURL(a.Config.Places.BaseURL),
		reviews.WithLanguage(a.Config.Places.Language),
		reviews.WithObserver(a.Metrics),
	)
	a.Reviews = reviews.NewService(a.Cache, a.Places)

	a.Echo.Validator = newValidator()
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	return nil
}

func (a *App) openCredentialStore() (CredentialStore, error) {
	switch a.Config.CredentialsBackend {
	case BackendSQLite:
		s, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("vitrine: init store: %w", err)
		}
		return s, nil
	case BackendFile, "":
		return NewFileCredentialStore(a.Config.CredentialsPath), nil
	default:
		return nil, fmt.Errorf("vitrine: unknown credentials backend %q", a.Config.CredentialsBackend)
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	api := e.Group("/api")
	api.GET("/reviews", a.handleReviews)
	api.GET("/reviews/fragment", a.handleReviewsFragment)
	api.GET("/embed", a.handleEmbed)
	api.GET("/status", a.handleStatus)
	if a.Config.AuthToken != "" {
		api.POST("/config", a.handleConfigUpdate)
	} else {
		logging.Info().Msg("AUTH_TOKEN not set, POST /api/config disabled")
	}

	e.GET("/metrics", a.Metrics.Handler())

	e.GET("/", a.handleHome)
	e.GET("/*", a.handleStatic)
}

func (a *App) handleStatic(c echo.Context) error {
	name := filepath.Clean("/" + strings.TrimPrefix(c.Param("*"), "/"))
	if strings.HasPrefix(filepath.Base(name), ".") {
		return echo.ErrNotFound
	}
	return c.File(filepath.Join(a.Config.StaticDir, name))
}

// Start runs Setup and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	logging.Info().Str("addr", a.Config.Addr).Str("site", a.Config.Name).
		Str("credentials", a.Config.CredentialsBackend).Str("places_api", a.Places.API()).
		Msg("vitrine listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close releases the credential backend.
func (a *App) Close() error {
	if a.Credentials != nil {
		return a.Credentials.Close()
	}
	return nil
}
