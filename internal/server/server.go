// Package server provides the HTTP API for career guidance.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jonathan/career-guide/internal/guidance"
	"github.com/jonathan/career-guide/internal/server/ratelimit"
	"github.com/jonathan/career-guide/internal/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Routes served by the API.
const (
	RouteHealth          = "/health"
	RouteMetrics         = "/metrics"
	RouteCatalog         = "/api/catalog"
	RouteGenerate        = "/api/generate-guidance"
	RouteGenerateLegacy  = "/generate-guidance"
	defaultMaxBodyBytes  = 64 << 10
	defaultShutdownGrace = 30 * time.Second
)

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	generator    guidance.Generator
	catalog      types.Catalog
	logger       *zap.Logger
	rateLimiter  *ratelimit.Limiter
	timeout      time.Duration
	maxBodyBytes int64
}

// Config holds server configuration
type Config struct {
	Port           int
	RequestTimeout time.Duration     // Upper bound on one generation; zero means none
	MaxBodyBytes   int64             // Defaults to 64 KiB
	RateLimit      *ratelimit.Config // Nil loads RATE_LIMIT_* from the environment
}

// New creates a new server instance around gen.
func New(cfg Config, gen guidance.Generator, logger *zap.Logger) (*Server, error) {
	if gen == nil {
		return nil, errors.New("generator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rlConfig := cfg.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig()
	}

	s := &Server{
		generator:    gen,
		catalog:      types.DefaultCatalog(),
		logger:       logger,
		rateLimiter:  ratelimit.NewLimiter(rlConfig),
		timeout:      cfg.RequestTimeout,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = defaultMaxBodyBytes
	}

	writeTimeout := 30 * time.Second
	if cfg.RequestTimeout > 0 {
		writeTimeout = cfg.RequestTimeout + 5*time.Second
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the chi router with the global middleware stack.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(withRequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.withLogging)
	r.Use(s.withRecover)
	r.Use(withCORS)
	r.Use(s.withRateLimit)

	r.Get(RouteHealth, s.handleHealth)
	r.Method(http.MethodGet, RouteMetrics, promhttp.Handler())
	r.Get(RouteCatalog, s.handleCatalog)
	r.Post(RouteGenerate, s.handleGenerateGuidance)
	r.Post(RouteGenerateLegacy, s.handleGenerateGuidance)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.errorResponse(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	return r
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownGrace)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
