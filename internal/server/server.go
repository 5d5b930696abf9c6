// Package server exposes the renderer and media collector over HTTP.
//
// Routes:
//
//	POST /api/content/process-content  {"questionSlugs": [...]} -> {"content": "..."}
//	POST /api/figure-download          {"questionSlugs": [...]} -> figures_and_slides.zip
//	GET  /health                       -> {"status": "ok"}
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-leet2tex/internal/logger"
)

// Server defaults.
const (
	DefaultMaxBodyBytes    = 64 << 10
	DefaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
	idleTimeout            = 60 * time.Second
)

// Renderer produces the LaTeX document for a list of slugs.
type Renderer interface {
	Render(ctx context.Context, slugs []string) (string, error)
}

// Collector produces the media archive for a list of slugs.
type Collector interface {
	CollectBytes(ctx context.Context, slugs []string) ([]byte, error)
}

// Server routes API requests to a Renderer and a Collector.
type Server struct {
	renderer     Renderer
	collector    Collector
	limiter      *Limiter
	log          *logger.Logger
	maxBodyBytes int64
	router       chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger. Default discards.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLimiter bounds concurrent API jobs. Default sizes by ResolveWorkers(0).
func WithLimiter(l *Limiter) Option {
	return func(s *Server) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithMaxBodyBytes caps request bodies. Panics if n <= 0 (programmer error).
func WithMaxBodyBytes(n int64) Option {
	if n <= 0 {
		panic("server: WithMaxBodyBytes must be positive")
	}
	return func(s *Server) {
		s.maxBodyBytes = n
	}
}

// New creates a Server and builds its routes.
func New(r Renderer, c Collector, opts ...Option) *Server {
	s := &Server{
		renderer:     r,
		collector:    c,
		log:          logger.Nop(),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = NewLimiter(ResolveWorkers(0))
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(s.limit)
		r.Post("/content/process-content", s.handleProcessContent)
		r.Post("/figure-download", s.handleFigureDownload)
	})

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully. A clean shutdown returns nil.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server started", "addr", ln.Addr().String(), "workers", s.limiter.Size())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}
