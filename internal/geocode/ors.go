package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/geo"
)

// DefaultORSBaseURL is the public OpenRouteService API root.
const DefaultORSBaseURL = "https://api.openrouteservice.org"

// ORSGeocoder resolves place names with the OpenRouteService search API.
// Transient failures (network errors, 429 and 5xx) are retried with
// exponential backoff while the context allows.
type ORSGeocoder struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	maxAttempts int
	backoff     time.Duration
}

// NewORSGeocoder constructs an ORSGeocoder. A nil client uses a client with a 10s timeout.
func NewORSGeocoder(baseURL, apiKey string, client *http.Client) *ORSGeocoder {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ORSGeocoder{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		client:      client,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
}

// httpStatusError is a non-2xx response from the geocoding API.
type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

type searchResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lng, lat]
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode implements Geocoder. No results is a miss, not an error.
func (o *ORSGeocoder) Geocode(ctx context.Context, query string) (_ domain.Coordinate, _ bool, err error) {
	start := time.Now()
	defer func() {
		slog.DebugContext(ctx, "ors geocode",
			"query", query,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
	}()

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newSearchRequest(ctx, query)
	})
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("geocode.ORSGeocoder.Geocode: %w", err)
	}
	defer resp.Body.Close()

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("geocode.ORSGeocoder.Geocode: decode: %w", err)
	}
	if len(decoded.Features) == 0 {
		return domain.Coordinate{}, false, nil
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinate{}, false, fmt.Errorf("geocode.ORSGeocoder.Geocode: invalid coordinate format for %q", query)
	}
	c := domain.Coordinate{Lat: coords[1], Lng: coords[0]}
	if !geo.Valid(c) {
		return domain.Coordinate{}, false, fmt.Errorf("geocode.ORSGeocoder.Geocode: coordinate out of range for %q", query)
	}
	return c, true, nil
}

func (o *ORSGeocoder) newSearchRequest(ctx context.Context, query string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/geocode/search", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	q.Set("text", query)
	q.Set("boundary.country", "US")
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()
	return req, nil
}

func (o *ORSGeocoder) do(req *http.Request) (*http.Response, error) {
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp, nil
}

// doWithRetry retries network errors, 429 and 5xx responses, doubling the
// wait between attempts. Other 4xx responses fail immediately.
func (o *ORSGeocoder) doWithRetry(ctx context.Context, makeReq func() (*http.Request, error)) (*http.Response, error) {
	backoff := o.backoff
	var lastErr error

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := o.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == o.maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return nil, lastErr
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
