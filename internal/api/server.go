// Package api serves the habit tracker over HTTP with JSON bodies, bearer token
// authentication and RFC 7807 error responses.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/BradSavary/Habit-Tracker/internal/auth"
	"github.com/BradSavary/Habit-Tracker/internal/constants"
	"github.com/BradSavary/Habit-Tracker/internal/logger"
	"github.com/BradSavary/Habit-Tracker/internal/service"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Service   *service.Service
	Issuer    *auth.Issuer
	DB        Pinger
	RateLimit float64
	Burst     int
}

type Server struct {
	svc      *service.Service
	issuer   *auth.Issuer
	db       Pinger
	limiter  *RateLimiter
	mux      *http.ServeMux
	registry RouteRegistry
	handler  http.Handler
}

func New(opts Options) *Server {
	if opts.RateLimit <= 0 {
		opts.RateLimit = constants.DefaultRateLimitRPS
	}
	if opts.Burst <= 0 {
		opts.Burst = constants.DefaultRateLimitBurst
	}

	s := &Server{
		svc:     opts.Service,
		issuer:  opts.Issuer,
		db:      opts.DB,
		limiter: NewRateLimiter(opts.RateLimit, opts.Burst),
		mux:     http.NewServeMux(),
	}
	s.routes()

	var h http.Handler = s.mux
	h = requireAuth(s.issuer)(h)
	h = s.limiter.Middleware(h)
	h = recoverPanics(h)
	h = logRequests(h)
	h = traceRequests(h)
	s.handler = h
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Routes lists the registered endpoints.
func (s *Server) Routes() []RouteDoc {
	return s.registry.List()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go s.limiter.Cleanup(cleanupCtx, time.Minute, 3*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
