package fires

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/02loveslollipop/fire-data-brazil/services/api/firms"
	"github.com/02loveslollipop/fire-data-brazil/services/api/logger"
	"github.com/02loveslollipop/fire-data-brazil/services/api/metrics"
	"github.com/02loveslollipop/fire-data-brazil/services/api/models"
)

const outcomeUnexpected = "unexpected"

// Service fetches and reshapes the FIRMS feed for one request at a time.
type Service struct {
	fetcher firms.Fetcher
	now     func() time.Time
}

// NewService wires a Service to a feed fetcher.
func NewService(fetcher firms.Fetcher) *Service {
	return &Service{fetcher: fetcher, now: time.Now}
}

// GetFireData returns detections for the last days, newest first, or nil when
// there is nothing to show. Every failure is logged and collapsed to nil.
func (s *Service) GetFireData(ctx context.Context, days int) (records []models.FireRecord) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("unexpected error: %v", r)
			logger.Errorf("%s", debug.Stack())
			metrics.ObserveFetch(outcomeUnexpected, 0, time.Since(start))
			records = nil
		}
	}()

	records, err := s.Query(ctx, days)
	if err != nil {
		outcome := firms.KindOf(err).String()
		if firms.KindOf(err) == firms.KindUnknown {
			outcome = outcomeUnexpected
		}
		logger.Error(fmt.Sprintf("no fire data (%s)", outcome), err)
		metrics.ObserveFetch(outcome, 0, time.Since(start))
		return nil
	}

	logger.Infof("collected %d records", len(records))
	metrics.ObserveFetch(metrics.OutcomeOK, len(records), time.Since(start))
	return records
}

// Query runs fetch and transform and keeps the failure kind for diagnostics.
func (s *Service) Query(ctx context.Context, days int) ([]models.FireRecord, error) {
	if d, clamped := firms.ClampDays(days); clamped {
		logger.Warnf("days out of range %d-%d, adjusting to %d", firms.MinDays, firms.MaxDays, d)
		days = d
	}

	raw, err := s.fetcher.Fetch(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	records, err := firms.Transform(raw, s.now())
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	logger.Debugf("transformed %d bytes into %d records", len(raw), len(records))
	return records, nil
}
