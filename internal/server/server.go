// Package server exposes the diagram-to-backend pipeline over HTTP: parse an
// uploaded ER diagram into a schema, generate a project from a schema, and
// download the zipped result.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/diagramlab/erd-codegen/internal/config"
	"github.com/diagramlab/erd-codegen/internal/generate"
	"github.com/diagramlab/erd-codegen/internal/reconstruct"
)

// Server wires the pipeline and generator behind a gin router.
type Server struct {
	cfg       config.ServerConfig
	pipeline  *reconstruct.Pipeline
	generator *generate.Generator
	logger    *slog.Logger
	router    *gin.Engine
}

// New builds a server. pipeline may be nil when no detector is configured;
// the parse endpoint then answers 503.
func New(cfg config.ServerConfig, pipeline *reconstruct.Pipeline, generator *generate.Generator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}

	s := &Server{
		cfg:       cfg,
		pipeline:  pipeline,
		generator: generator,
		logger:    logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/health", s.handleHealth)
	api := router.Group("/api")
	api.POST("/parse", s.handleParse)
	api.POST("/generate", s.handleGenerate)
	router.GET("/downloads/:name", s.handleDownload)

	s.router = router
	return s
}

// Handler returns the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.DownloadsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create downloads directory: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // generation runs many LLM calls
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}
