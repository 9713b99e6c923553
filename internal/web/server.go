// Package web serves the dashboard over HTTP: metadata and series as JSON,
// and the chart as PNG or SVG.
//
// Every handler reads from one immutable pipeline.Dashboard. A request for
// an unknown state answers 404 and the server keeps serving.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roach88/covidtesting/internal/pipeline"
)

// Server wires the dashboard into a gin engine.
type Server struct {
	dash   *pipeline.Dashboard
	log    *slog.Logger
	engine *gin.Engine
}

// New builds the routes. A nil logger means slog.Default().
func New(d *pipeline.Dashboard, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{dash: d, log: logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.loggingMiddleware())

	r.GET("/healthz", s.handleHealth)
	r.GET("/chart.png", s.handleChart)
	r.GET("/chart.svg", s.handleChart)

	api := r.Group("/api")
	{
		api.GET("/dashboard", s.handleDashboard)
		api.GET("/series", s.handleSeries)
	}

	s.engine = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("http server stopped")
	return nil
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"latency", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}
