package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ppiankov/slant/internal/model"
)

// Checker runs one highlight check
type Checker interface {
	Check(ctx context.Context, req model.HighlightRequest) model.CheckResult
}

// Server exposes the check pipeline over HTTP
type Server struct {
	checker  Checker
	cfg      model.ServerConfig
	logger   zerolog.Logger
	status   func() map[string]bool
	probe    func(ctx context.Context) map[string]bool
	gatherer prometheus.Gatherer
	router   *gin.Engine
}

// Option customises a Server during construction
type Option func(*Server)

// WithLogger sets the base logger; request loggers derive from it
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStatus sets the provider status reported by /health
func WithStatus(status func() map[string]bool) Option {
	return func(s *Server) {
		if status != nil {
			s.status = status
		}
	}
}

// WithProbe sets the status reported by /health?deep=1. The probe may call
// remote backends.
func WithProbe(probe func(ctx context.Context) map[string]bool) Option {
	return func(s *Server) {
		s.probe = probe
	}
}

// WithGatherer exposes the given registry on /metrics
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// New creates a server and registers its routes
func New(checker Checker, cfg model.ServerConfig, opts ...Option) *Server {
	s := &Server{
		checker: checker,
		cfg:     cfg,
		logger:  zerolog.Nop(),
		status:  func() map[string]bool { return map[string]bool{} },
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger), cors(cfg.CORSOrigins))

	router.POST("/check", s.handleCheck)
	router.OPTIONS("/check", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/health", s.handleHealth)
	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	s.router = router
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// handleCheck always answers 200. A missing or malformed body is treated as
// empty text.
func (s *Server) handleCheck(c *gin.Context) {
	logger := zerolog.Ctx(c.Request.Context())

	var req model.HighlightRequest
	if s.cfg.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxBodyBytes)
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			logger.Debug().Err(err).Msg("unreadable request body, using empty text")
		}
		req = model.HighlightRequest{}
	}

	result := s.checker.Check(c.Request.Context(), req)
	c.JSON(http.StatusOK, result)
}

// handleHealth reports configured providers. With deep=1 it also probes the
// backends when a probe is set.
func (s *Server) handleHealth(c *gin.Context) {
	providers := s.status()
	if deep, _ := strconv.ParseBool(c.Query("deep")); deep && s.probe != nil {
		providers = s.probe(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"providers": providers,
	})
}
