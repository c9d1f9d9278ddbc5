package firms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/02loveslollipop/fire-data-brazil/services/api/logger"
	"github.com/02loveslollipop/fire-data-brazil/services/api/models"
)

const (
	DefaultBaseURL = "https://firms.modaps.eosdis.nasa.gov/api/area/csv"
	DatasetID      = "VIIRS_NOAA20_NRT"
	// AreaCoords is lon_west,lat_south,lon_east,lat_north.
	AreaCoords     = "-53.1,-25.3,-44.1,-19.8"
	SourceLabel    = "NASA FIRMS " + DatasetID
	DefaultTimeout = 60 * time.Second

	MinDays     = 1
	MaxDays     = 10
	DefaultDays = 10

	// minBodyLength is the shortest trimmed body treated as data.
	minBodyLength = 10
	userAgent     = "fire-data-brazil/2.1"
)

// Clock supplies the date sent to the upstream API.
type Clock func() time.Time

// PinnedClock always returns t. It reproduces a date computed once at startup.
func PinnedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Fetcher is implemented by *Client and faked in tests.
type Fetcher interface {
	Fetch(ctx context.Context, days int) (string, error)
}

var _ Fetcher = (*Client)(nil)

// Client talks to the FIRMS area CSV API.
type Client struct {
	baseURL string
	mapKey  string
	http    *http.Client
	today   Clock
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock sets the source of the query date.
func WithClock(clock Clock) Option {
	return func(c *Client) { c.today = clock }
}

// WithTimeout bounds each fetch.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient builds a Client for baseURL (DefaultBaseURL when empty) and mapKey.
func NewClient(baseURL, mapKey string, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		baseURL: base,
		mapKey:  mapKey,
		http:    &http.Client{Timeout: DefaultTimeout},
		today:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClampDays returns days when it is within [MinDays, MaxDays] and DefaultDays otherwise.
func ClampDays(days int) (int, bool) {
	if days < MinDays || days > MaxDays {
		return DefaultDays, true
	}
	return days, false
}

// BuildURL returns the request URL for days.
func (c *Client) BuildURL(days int) string {
	return c.buildURL(c.mapKey, days, c.today())
}

func (c *Client) buildURL(key string, days int, today time.Time) string {
	date := today.Format(models.DateLayout)
	return strings.Join([]string{c.baseURL, key, DatasetID, AreaCoords, strconv.Itoa(days), date}, "/")
}

// Fetch issues one GET for the last days of detections and returns the raw CSV body.
func (c *Client) Fetch(ctx context.Context, days int) (string, error) {
	if d, clamped := ClampDays(days); clamped {
		logger.Warnf("days %d out of range %d-%d, adjusting to %d", days, MinDays, MaxDays, d)
		days = d
	}

	today := c.today()
	reqURL := c.buildURL(c.mapKey, days, today)
	logURL := c.buildURL(redact(c.mapKey), days, today)
	logger.Infof("requesting NASA FIRMS data: %s", logURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", &FeedError{Kind: KindTransportError, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", c.transportFailure(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.transportFailure(err)
	}
	logger.Infof("status code: %d | size: %d bytes", resp.StatusCode, len(body))

	if resp.StatusCode != http.StatusOK {
		logger.Errorf("HTTP error %d from NASA FIRMS", resp.StatusCode)
		return "", &FeedError{Kind: KindHTTPError, StatusCode: resp.StatusCode}
	}

	text := string(body)
	if len(strings.TrimSpace(text)) < minBodyLength {
		logger.Warn("response too short / no data")
		return "", &FeedError{Kind: KindEmptyResponse}
	}
	return text, nil
}

func (c *Client) transportFailure(err error) error {
	if isTimeout(err) {
		logger.Errorf("timeout connecting to NASA FIRMS (%s)", c.http.Timeout)
		return &FeedError{Kind: KindTimeout, Err: err}
	}
	logger.Errorf("request error: %v", err)
	return &FeedError{Kind: KindTransportError, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func redact(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
