package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/fire-data-brazil/services/api/config"
	"github.com/02loveslollipop/fire-data-brazil/services/api/logger"
	"github.com/02loveslollipop/fire-data-brazil/services/api/models"
)

const (
	ServiceName = "Brazil Fire Data API"
	Version     = "2.1.0"
)

// FireQuerier is the query side the handlers depend on. *fires.Service implements it.
type FireQuerier interface {
	GetFireData(ctx context.Context, days int) []models.FireRecord
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg    config.Config
	fires  FireQuerier
	engine *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, fires FireQuerier) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: accessLogFormat,
		Output:    logger.Writer(),
	}))
	engine.Use(requestIDMiddleware())
	engine.Use(corsMiddleware())
	if cfg.MetricsEnabled {
		engine.Use(metricsMiddleware())
	}

	server := &Server{cfg: cfg, fires: fires, engine: engine}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown. HTTPS is used when
// the configured certificate and key files both exist.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	tls := s.cfg.TLSEnabled()
	if tls {
		logger.Infof("certificates found, starting HTTPS on %s", srv.Addr)
	} else {
		logger.Infof("no certificates found, starting HTTP on %s", srv.Addr)
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if tls {
			err = srv.ListenAndServeTLS(s.cfg.CertFile, s.cfg.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
