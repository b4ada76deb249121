// Package ui provides the web dashboard for regdash.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/regdash/internal/source"
	dashboardFeature "github.com/leapstack-labs/regdash/internal/ui/features/dashboard"
	"github.com/leapstack-labs/regdash/internal/ui/notifier"
	"github.com/leapstack-labs/regdash/internal/ui/router"
	"github.com/leapstack-labs/regdash/pkg/regulation"
)

// Server is the main UI server.
type Server struct {
	loader       *source.Loader
	source       regulation.Source
	mappings     regulation.Mappings
	initial      []string
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	dev          bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Loader        *source.Loader
	Source        regulation.Source
	Mappings      regulation.Mappings
	Initial       []string // nil selects the default countries of the table
	Port          int
	Watch         bool
	Dev           bool
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	loader := cfg.Loader
	if loader == nil {
		loader = source.NewLoader(0, logger)
	}

	return &Server{
		loader:       loader,
		source:       cfg.Source,
		mappings:     cfg.Mappings,
		initial:      cfg.Initial,
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch,
		dev:          cfg.Dev,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Table loads the regulation table through the memo.
func (s *Server) Table(ctx context.Context) (*regulation.Table, error) {
	return s.loader.Load(ctx, s.source)
}

// Handler builds the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	router.SetupRoutes(r, dashboardFeature.Options{
		Tables:       s,
		Mappings:     s.mappings,
		Initial:      s.initial,
		SessionStore: s.sessionStore,
		Notifier:     s.notifier,
		Logger:       s.logger,
		IsDev:        s.dev,
	})
	return r
}

// Serve loads the data once and then serves until the context is
// cancelled. It refuses to start when the data cannot be loaded.
func (s *Server) Serve(ctx context.Context) error {
	t, err := s.Table(ctx)
	if err != nil {
		return fmt.Errorf("failed to load regulation data: %w", err)
	}
	s.logger.Debug("regulation data loaded", slog.String("source", t.Source), slog.Int("rows", t.Len()))

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if path, ok := source.FilePath(s.source); ok && s.watch {
		eg.Go(func() error {
			return source.Watch(egctx, path, s.DataChanged, source.WatchOptions{Logger: s.logger})
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// DataChanged drops the memoized table and notifies all SSE clients.
func (s *Server) DataChanged() {
	s.logger.Debug("data source changed, reloading", slog.String("source", s.source.ID()))
	s.loader.Invalidate(s.source.ID())
	s.notifier.Broadcast()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}
