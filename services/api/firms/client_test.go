package firms

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/02loveslollipop/fire-data-brazil/services/api/logger"
)

const sampleCSV = `latitude,longitude,bright_ti4,scan,track,acq_date,acq_time,satellite,instrument,confidence,version,bright_ti5,frp,daynight
-21.10,-47.20,330.5,0.39,0.36,2025-08-03,0412,N20,VIIRS,n,2.0NRT,290.1,3.2,N
-22.40,-48.90,340.1,0.41,0.37,2025-08-04,1630,N20,VIIRS,h,2.0NRT,295.0,7.8,D
-20.05,-45.75,335.9,0.40,0.38,2025-08-04,1631,N20,VIIRS,l,2.0NRT,291.7,,D
`

var fixedDay = time.Date(2025, 8, 5, 13, 0, 0, 0, time.UTC)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })
	return &buf
}

func TestBuildURL_EachValidDay(t *testing.T) {
	c := NewClient("https://firms.example/api/area/csv/", "KEY", WithClock(PinnedClock(fixedDay)))

	for days := MinDays; days <= MaxDays; days++ {
		got := c.BuildURL(days)
		want := "https://firms.example/api/area/csv/KEY/VIIRS_NOAA20_NRT/-53.1,-25.3,-44.1,-19.8/" + strconv.Itoa(days) + "/2025-08-05"
		if got != want {
			t.Fatalf("BuildURL(%d) = %q, want %q", days, got, want)
		}
	}
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("", "KEY", WithClock(PinnedClock(fixedDay)))
	if !strings.HasPrefix(c.BuildURL(1), DefaultBaseURL+"/KEY/") {
		t.Fatalf("BuildURL = %q, want default base", c.BuildURL(1))
	}
}

func TestClampDays(t *testing.T) {
	cases := []struct {
		in      int
		want    int
		clamped bool
	}{
		{in: 1, want: 1},
		{in: 7, want: 7},
		{in: 10, want: 10},
		{in: 0, want: 10, clamped: true},
		{in: -3, want: 10, clamped: true},
		{in: 11, want: 10, clamped: true},
	}
	for _, tc := range cases {
		got, clamped := ClampDays(tc.in)
		if got != tc.want || clamped != tc.clamped {
			t.Fatalf("ClampDays(%d) = (%d, %v), want (%d, %v)", tc.in, got, clamped, tc.want, tc.clamped)
		}
	}
}

func TestFetch_SuccessRequestsExpectedPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(sampleCSV))
	}))
	t.Cleanup(server.Close)
	captureLogs(t)

	c := NewClient(server.URL+"/api/area/csv", "KEY", WithClock(PinnedClock(fixedDay)))
	body, err := c.Fetch(context.Background(), 3)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if body != sampleCSV {
		t.Fatalf("Fetch body = %q, want sample CSV", body)
	}
	want := "/api/area/csv/KEY/VIIRS_NOAA20_NRT/-53.1,-25.3,-44.1,-19.8/3/2025-08-05"
	if gotPath != want {
		t.Fatalf("path = %q, want %q", gotPath, want)
	}
}

func TestFetch_OutOfRangeDaysClampedWithWarning(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(sampleCSV))
	}))
	t.Cleanup(server.Close)
	logs := captureLogs(t)

	c := NewClient(server.URL, "KEY", WithClock(PinnedClock(fixedDay)))
	if _, err := c.Fetch(context.Background(), 42); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !strings.Contains(gotPath, "/10/2025-08-05") {
		t.Fatalf("path = %q, want day-count 10", gotPath)
	}
	if !strings.Contains(logs.String(), "WARNING") {
		t.Fatalf("logs = %q, want a warning", logs.String())
	}
	if strings.Contains(logs.String(), "/KEY/") {
		t.Fatalf("logs leak the map key: %q", logs.String())
	}
}

func TestFetch_ClassifiesFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   ErrorKind
	}{
		{name: "bad request", status: http.StatusBadRequest, body: "Invalid area", want: KindHTTPError},
		{name: "forbidden", status: http.StatusForbidden, body: "Invalid MAP_KEY.", want: KindHTTPError},
		{name: "server error", status: http.StatusBadGateway, body: sampleCSV, want: KindHTTPError},
		{name: "short body", status: http.StatusOK, body: "  \n  abc \n", want: KindEmptyResponse},
		{name: "empty body", status: http.StatusOK, body: "", want: KindEmptyResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)
			captureLogs(t)

			c := NewClient(server.URL, "KEY", WithClock(PinnedClock(fixedDay)))
			_, err := c.Fetch(context.Background(), 5)
			if KindOf(err) != tc.want {
				t.Fatalf("Fetch error = %v (kind %s), want kind %s", err, KindOf(err), tc.want)
			}
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })
	captureLogs(t)

	c := NewClient(server.URL, "KEY", WithClock(PinnedClock(fixedDay)), WithTimeout(50*time.Millisecond))
	_, err := c.Fetch(context.Background(), 5)
	if KindOf(err) != KindTimeout {
		t.Fatalf("Fetch error = %v (kind %s), want timeout", err, KindOf(err))
	}
}

func TestFetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()
	captureLogs(t)

	c := NewClient(url, "KEY", WithClock(PinnedClock(fixedDay)))
	_, err := c.Fetch(context.Background(), 5)
	if KindOf(err) != KindTransportError {
		t.Fatalf("Fetch error = %v (kind %s), want transport_error", err, KindOf(err))
	}
}

func TestFeedError_IsMatchesKind(t *testing.T) {
	err := error(&FeedError{Kind: KindNoData})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("errors.Is(no_data, ErrNoData) = false")
	}
	if errors.Is(&FeedError{Kind: KindTimeout}, ErrNoData) {
		t.Fatalf("errors.Is(timeout, ErrNoData) = true")
	}
	if KindOf(nil) != KindUnknown {
		t.Fatalf("KindOf(nil) = %s, want unknown", KindOf(nil))
	}
}
