// Package server exposes the subscription service over HTTP.
//
// Routes:
//
//	POST   /subscriptions                                   create a subscription
//	GET    /subscriptions/{subscriptionId}                  read a subscription
//	DELETE /subscriptions/{subscriptionId}                  remove a subscription
//	GET    /subscriptions/{subscriptionId}/outdated-dependencies
//	GET    /healthz                                         liveness probe
//	GET    /metrics                                         Prometheus metrics (optional)
//
// Errors are rendered as a JSON envelope by [writeError]; see errors.go.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/depwatch/internal/metrics"
	"github.com/matzehuels/depwatch/pkg/subscription"
)

// Default timeouts.
const (
	DefaultResolveTimeout  = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr            string
	Service         *subscription.Service
	Logger          *log.Logger
	ResolveTimeout  time.Duration    // bounds one outdated-dependencies call
	ShutdownTimeout time.Duration    // grace period for in-flight requests
	Metrics         *metrics.Metrics // nil disables request metrics
	MetricsHandler  http.Handler     // nil disables /metrics
}

// Server is the depwatch HTTP API.
type Server struct {
	svc             *subscription.Service
	logger          *log.Logger
	resolveTimeout  time.Duration
	shutdownTimeout time.Duration
	httpServer      *http.Server
}

// New creates a Server. Call Run to start serving.
func New(opts Options) *Server {
	s := &Server{
		svc:             opts.Service,
		logger:          opts.Logger,
		resolveTimeout:  opts.ResolveTimeout,
		shutdownTimeout: opts.ShutdownTimeout,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.resolveTimeout <= 0 {
		s.resolveTimeout = DefaultResolveTimeout
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = DefaultShutdownTimeout
	}
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(opts.Metrics, opts.MetricsHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) routes(m *metrics.Metrics, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if m != nil {
		r.Use(m.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errMethodNotAllowed(r))
	})

	r.Get("/healthz", s.handleHealth)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/subscriptions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{subscriptionId}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/outdated-dependencies", s.handleOutdated)
		})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run but accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
