package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/fire-data-brazil/services/api/fires"
	"github.com/02loveslollipop/fire-data-brazil/services/api/firms"
	"github.com/02loveslollipop/fire-data-brazil/services/api/models"
)

// handleFireData returns detections plus metadata. Feed failures still answer 200
// with an empty envelope.
// GET /fire_data_brazil?days=7
func (s *Server) handleFireData(c *gin.Context) {
	days, ok := parseDays(c)
	if !ok {
		return
	}

	records := s.fires.GetFireData(c.Request.Context(), days)
	if records == nil {
		records = []models.FireRecord{}
	}

	start, end := fires.Period(records)
	respond(c, http.StatusOK, models.FireDataResponse{
		Metadata: models.Metadata{
			TotalRecords:        len(records),
			PeriodStart:         start,
			PeriodEnd:           end,
			RequestedDays:       days,
			CollectionTimestamp: time.Now().Format(models.TimestampLayout),
			Source:              firms.SourceLabel,
			Coordinates:         firms.AreaCoords,
		},
		Data: records,
	})
}

// handleFireSummary returns totals, averages and per-day/per-week counts.
// GET /fire_data_brazil/summary?days=7
func (s *Server) handleFireSummary(c *gin.Context) {
	days, ok := parseDays(c)
	if !ok {
		return
	}

	records := s.fires.GetFireData(c.Request.Context(), days)
	respond(c, http.StatusOK, fires.Summarize(records))
}

// parseDays reads ?days= (default 10) and rejects anything outside [1,10]
// before the feed is queried.
func parseDays(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.DefaultQuery("days", strconv.Itoa(firms.DefaultDays)))
	days, err := strconv.Atoi(raw)
	if err != nil {
		respond(c, http.StatusUnprocessableEntity, gin.H{"error": "days must be an integer"})
		return 0, false
	}
	if days < firms.MinDays || days > firms.MaxDays {
		respond(c, http.StatusUnprocessableEntity, gin.H{
			"error": fmt.Sprintf("days must be between %d and %d", firms.MinDays, firms.MaxDays),
		})
		return 0, false
	}
	return days, true
}

// respond writes JSON with an explicit allow-all CORS header.
func respond(c *gin.Context, status int, body any) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.JSON(status, body)
}
