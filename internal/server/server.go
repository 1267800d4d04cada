// Package server exposes editing sessions over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ha1tch/nfa2dfa/internal/config"
	"github.com/ha1tch/nfa2dfa/pkg/session"
)

// Server routes session requests to a Store.
type Server struct {
	store   *Store
	metrics *Metrics
	logger  *slog.Logger
	router  chi.Router
}

// New creates a server from the server and editor sections of cfg.
func New(cfg config.Config, logger *slog.Logger) *Server {
	alphabet := cfg.Editor.Alphabet
	undo := cfg.Editor.UndoLevels
	factory := func() *session.Session {
		return session.New(
			session.WithAlphabet(alphabet...),
			session.WithUndoLimit(undo),
			session.WithLogger(logger),
		)
	}

	s := &Server{
		store:   NewStore(cfg.Server.MaxSessions, factory),
		metrics: NewMetrics(),
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sid}", func(r chi.Router) {
			r.Get("/", s.withSession(s.handleGetSession))
			r.Delete("/", s.handleDeleteSession)

			r.Post("/states", s.withSession(s.handleAddState))
			r.Patch("/states/{id}", s.withSession(s.handleUpdateState))
			r.Delete("/states/{id}", s.withSession(s.handleDeleteState))
			r.Post("/states/{id}/transitions", s.withSession(s.handleToggleTransition))

			r.Post("/symbols", s.withSession(s.handleAddSymbol))
			r.Delete("/symbols/{symbol}", s.withSession(s.handleRemoveSymbol))

			r.Get("/text", s.withSession(s.handleGetText))
			r.Put("/text", s.withSession(s.handlePutText))

			r.Post("/undo", s.withSession(s.handleUndo))
			r.Post("/redo", s.withSession(s.handleRedo))

			r.Post("/convert", s.withSession(s.handleConvert))
			r.Get("/graph", s.withSession(s.handleGraph))
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, timeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", timeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed", "err", err)
		_ = srv.Close()
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
