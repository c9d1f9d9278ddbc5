package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimestampLayout = "2006-01-02T15:04:05.000000"

// handleRoot describes the service.
// GET /
func (s *Server) handleRoot(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"api":     ServiceName,
		"version": Version,
		"example": "/fire_data_brazil?days=7",
	})
}

// GET /health
func (s *Server) handleHealth(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().Format(healthTimestampLayout),
	})
}
