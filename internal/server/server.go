// Package server exposes the inference pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/sentiment/internal/pipeline"
)

const (
	defaultMaxUploadBytes  = 32 << 20
	defaultShutdownTimeout = 10 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithColumnMode sets how the CSV endpoint picks its text column.
func WithColumnMode(m pipeline.ColumnMode) Option {
	return func(s *Server) { s.mode = m }
}

// WithMaxUploadBytes caps the size of a CSV upload. Default: 32MiB.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) { s.maxUploadBytes = n }
}

// WithLogger sets the access and error logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// Server wires the handlers, middleware and metrics into a gin engine.
type Server struct {
	router         *gin.Engine
	metrics        *Metrics
	logger         *slog.Logger
	mode           pipeline.ColumnMode
	maxUploadBytes int64
}

// New builds the router. A nil classifier yields a server whose /ready
// and API endpoints report 503.
func New(cls Classifier, opts ...Option) *Server {
	s := &Server{
		metrics:        NewMetrics(),
		logger:         slog.Default(),
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	h := &Handler{
		classifier:     cls,
		metrics:        s.metrics,
		mode:           s.mode,
		maxUploadBytes: s.maxUploadBytes,
	}

	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger(s.logger))
	router.Use(Recovery(s.logger))
	router.MaxMultipartMemory = s.maxUploadBytes

	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/classify", h.Classify)
		v1.POST("/classify/csv", h.ClassifyCSV)
	}

	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
