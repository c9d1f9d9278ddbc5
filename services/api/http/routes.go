package http

import (
	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/fire-data-brazil/services/api/metrics"
)

func (s *Server) registerRoutes() {
	// Info
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/health", s.handleHealth)

	// Data
	data := s.engine.Group("/fire_data_brazil")
	{
		data.GET("", s.handleFireData)
		data.GET("/summary", s.handleFireSummary)
	}

	if s.cfg.MetricsEnabled {
		s.engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
}
