// Package http is the account service's HTTP adapter: the gin engine, its
// middleware chain and the error translator.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bytestream/account-service/internal/platform/config"
)

// Server owns the gin engine and the listener serving it.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	config     *config.ServerConfig
	logger     *slog.Logger
}

// New builds the engine and its http.Server from cfg. Routes are added
// afterwards through Engine, usually by SetupRouter.
//
// Request bodies are capped at cfg.MaxRequestSize; the account handlers
// report an overflow as 413.
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(limitBody(cfg.MaxRequestSize))

	logger = logger.With(slog.String("component", "http.Server"))

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:           engine,
			ReadHeaderTimeout: cfg.ReadTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		config: cfg,
		logger: logger,
	}
}

// Engine returns the gin engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Config returns the server configuration.
func (s *Server) Config() *config.ServerConfig {
	return s.config
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves in the background. The returned channel yields a listen
// failure, if any, and is closed once the server stops.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)

		s.logger.Info("listening",
			slog.String("addr", s.httpServer.Addr),
			slog.Int64("max_request_size", s.config.MaxRequestSize),
			slog.Duration("request_timeout", s.config.RequestTimeout),
		)

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serving %s: %w", s.httpServer.Addr, err)
		}
	}()

	return errCh
}

// Shutdown stops accepting connections and waits for in-flight account
// requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("draining connections")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down %s: %w", s.httpServer.Addr, err)
	}

	s.logger.Info("stopped")

	return nil
}

// limitBody wraps request bodies in http.MaxBytesReader. A non-positive
// limit leaves bodies unbounded.
func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil && c.Request.Body != http.NoBody {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}

		c.Next()
	}
}
