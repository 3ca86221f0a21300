// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/contravento/internal/config"
	"github.com/tomtom215/contravento/internal/metrics"
)

// Resolver names a coordinate.
type Resolver interface {
	Reverse(ctx context.Context, c Coordinates) (string, error)
}

// NominatimClient queries a Nominatim-compatible /reverse endpoint. Calls
// are throttled by a token bucket and guarded by a circuit breaker; every
// failure is reported as a *LookupError.
type NominatimClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	language   string
	zoom       int
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[string]
}

type nominatimResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		County       string `json:"county"`
		State        string `json:"state"`
	} `json:"address"`
}

// NewNominatimClient creates a client from cfg.
func NewNominatimClient(cfg *config.GeocoderConfig) *NominatimClient {
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	zoom := cfg.Zoom
	if zoom == 0 {
		zoom = 14
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NominatimClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		language:   cfg.Language,
		zoom:       zoom,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		cb:         newBreaker(cfg.BreakerFailures, cfg.BreakerTimeout),
	}
}

// Reverse returns the place name for c.
func (n *NominatimClient) Reverse(ctx context.Context, c Coordinates) (string, error) {
	name, err := n.cb.Execute(func() (string, error) {
		return n.fetch(ctx, c)
	})
	if err == nil {
		return name, nil
	}

	var le *LookupError
	if errors.As(err, &le) {
		return "", le
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", &LookupError{Kind: KindCircuitOpen, Latitude: c.Latitude, Longitude: c.Longitude, Err: err}
	}
	return "", &LookupError{Kind: KindUnavailable, Latitude: c.Latitude, Longitude: c.Longitude, Err: err}
}

func (n *NominatimClient) fetch(ctx context.Context, c Coordinates) (string, error) {
	fail := func(kind Kind, err error) (string, error) {
		return "", &LookupError{Kind: kind, Latitude: c.Latitude, Longitude: c.Longitude, Err: err}
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return fail(KindTimeout, fmt.Errorf("rate limiter: %w", err))
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.reverseURL(c), http.NoBody)
	if err != nil {
		return fail(KindUnavailable, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		kind := KindUnavailable
		if isTimeout(err) {
			kind = KindTimeout
		}
		metrics.RecordGeocodeUpstream(string(kind), time.Since(start))
		return fail(kind, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.RecordGeocodeUpstream(string(KindRateLimited), time.Since(start))
		return fail(KindRateLimited, fmt.Errorf("upstream returned status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		metrics.RecordGeocodeUpstream(string(KindUnavailable), time.Since(start))
		return fail(KindUnavailable, fmt.Errorf("upstream returned status %d", resp.StatusCode))
	}

	var body nominatimResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		metrics.RecordGeocodeUpstream(string(KindUnavailable), time.Since(start))
		return fail(KindUnavailable, fmt.Errorf("failed to decode response: %w", err))
	}

	name := body.placeName()
	if name == "" {
		metrics.RecordGeocodeUpstream(string(KindNotFound), time.Since(start))
		if body.Error != "" {
			return fail(KindNotFound, errors.New(body.Error))
		}
		return fail(KindNotFound, nil)
	}
	metrics.RecordGeocodeUpstream("ok", time.Since(start))
	return name, nil
}

func (n *NominatimClient) reverseURL(c Coordinates) string {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	q.Set("zoom", strconv.Itoa(n.zoom))
	if n.language != "" {
		q.Set("accept-language", n.language)
	}
	return n.baseURL + "/reverse?" + q.Encode()
}

// placeName picks the most specific human name in the response.
func (r *nominatimResponse) placeName() string {
	if s := strings.TrimSpace(r.Name); s != "" {
		return s
	}
	for _, s := range []string{
		r.Address.City, r.Address.Town, r.Address.Village,
		r.Address.Municipality, r.Address.County, r.Address.State,
	} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	if first, _, _ := strings.Cut(r.DisplayName, ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	return ""
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
