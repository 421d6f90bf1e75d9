// Package ioweb serves school records, search and registration strategies
// over a REST API.
package ioweb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/p1data/p1db/pkg/config"
	"github.com/p1data/p1db/pkg/geo"
	"github.com/p1data/p1db/pkg/lifecycle"
	"github.com/p1data/p1db/pkg/store"
	"github.com/p1data/p1db/pkg/strategy"
)

const shutdownTimeout = 5 * time.Second

type server struct {
	cfg      *config.Config
	store    store.Store
	geocoder geo.Geocoder
	gen      strategy.Generator
}

// New creates the API server. A nil generator makes every strategy come
// from the offline template.
func New(
	cfg *config.Config,
	st store.Store,
	gc geo.Geocoder,
	gen strategy.Generator,
) lifecycle.Server {
	return &server{cfg: cfg, store: st, geocoder: gc, gen: gen}
}

// Router returns the gin engine with all API routes, for use in tests or
// inside another http.Server.
func Router(
	cfg *config.Config,
	st store.Store,
	gc geo.Geocoder,
	gen strategy.Generator,
) http.Handler {
	s := &server{cfg: cfg, store: st, geocoder: gc, gen: gen}
	return s.router()
}

func (s *server) router() *gin.Engine {
	if s.cfg.Server.Mode != "" {
		gin.SetMode(s.cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	if s.cfg.Server.WithPprof {
		pprof.Register(r)
	}

	api := r.Group("/api")
	api.GET("/health", s.health)

	schools := api.Group("/schools")
	schools.GET("", s.listSchools)
	schools.GET("/school/:name/p1-data", s.schoolP1Data)
	schools.POST("/search", s.search)
	schools.POST("/geocode", s.geocode)

	st := api.Group("/strategy")
	st.POST("/generate", s.generateStrategy)
	st.POST("/analyze-competitiveness", s.analyzeCompetitiveness)
	return r
}

// Run serves the API until ctx is canceled, then shuts the server down
// gracefully.
func (s *server) Run(ctx context.Context) error {
	port := s.cfg.Server.Port
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "port", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ServerError(port, err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down API server", "port", port)
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return ServerError(port, err)
	}
	return nil
}

// requestLogger sends access logs to slog instead of gin's writer.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		lvl := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			lvl = slog.LevelError
		}
		slog.Log(c.Request.Context(), lvl, "Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}
