// Package server exposes the dashboard over HTTP: login, the dashboard view
// and its rankings, analytics and relationship slices, plus health and
// Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/water-intel/internal/auth"
	"github.com/sells-group/water-intel/internal/dashboard"
	"github.com/sells-group/water-intel/internal/store"
)

// SessionCookie carries the session id between requests.
const SessionCookie = "water_intel_session"

// Server holds the HTTP handlers' dependencies.
type Server struct {
	sessions       *auth.SessionManager
	renderer       *dashboard.Renderer
	store          store.Store
	allowedOrigins []string
	metrics        http.Handler
}

// New creates a Server. A nil metrics handler serves the default Prometheus
// registry.
func New(sessions *auth.SessionManager, renderer *dashboard.Renderer, st store.Store, allowedOrigins []string, metrics http.Handler) *Server {
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Server{
		sessions:       sessions,
		renderer:       renderer,
		store:          st,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/signup", s.handleSignup)
		r.Post("/logout", s.handleLogout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/rankings", s.handleRankings)
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/relationships", s.handleRelationships)
		r.Get("/filters", s.handleFilters)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// Run serves until ctx ends, sweeping expired sessions in the background.
func (s *Server) Run(ctx context.Context, port int, sweepEvery time.Duration) error {
	if sweepEvery > 0 {
		go s.sweep(ctx, sweepEvery)
	}
	return Start(ctx, s.Handler(), port)
}

func (s *Server) sweep(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.sessions.Sweep(); n > 0 {
				zap.L().Debug("server: swept expired sessions", zap.Int("count", n))
			}
		}
	}
}

// Start runs an HTTP server on port and shuts it down gracefully when ctx
// is cancelled.
func Start(ctx context.Context, h http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("server: listening", zap.Int("port", port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

// ResolvePort prefers the flag value over the configured one.
func ResolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("server: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
