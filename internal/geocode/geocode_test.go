// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package geocode

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/contravento/internal/config"
)

type upstream struct {
	srv   *httptest.Server
	calls atomic.Int32
}

// newUpstream starts a fake Nominatim whose handler is h. A nil h answers
// every request with {"name": "P<lat>"}.
func newUpstream(t *testing.T, h http.HandlerFunc) *upstream {
	t.Helper()
	u := &upstream{}
	if h == nil {
		h = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"name":"P%s"}`, r.URL.Query().Get("lat"))
		}
	}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func testConfig(baseURL string) *config.GeocoderConfig {
	return &config.GeocoderConfig{
		BaseURL:         baseURL,
		UserAgent:       "ContraVento-test/1.0",
		Language:        "es",
		Zoom:            14,
		Timeout:         2 * time.Second,
		CacheSize:       100,
		Debounce:        5 * time.Millisecond,
		RatePerSecond:   1000,
		Burst:           10,
		BreakerFailures: 5,
		BreakerTimeout:  time.Minute,
	}
}

func newTestGeocoder(cfg *config.GeocoderConfig) *Geocoder {
	return New(cfg, NewNominatimClient(cfg))
}

func TestCoordinatesKey(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     string
	}{
		{40.4168, -3.7038, "40.417,-3.704"},
		{40.41681, -3.70381, "40.417,-3.704"},
		{40.4164, -3.7036, "40.416,-3.704"},
		{-0.0001, 0.0004, "0.000,0.000"},
		{90, -180, "90.000,-180.000"},
	}
	for _, tt := range tests {
		if got := (Coordinates{tt.lat, tt.lon}).Key(); got != tt.want {
			t.Errorf("Key(%v, %v) = %q, want %q", tt.lat, tt.lon, got, tt.want)
		}
	}
}

func TestCoordinatesValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Coordinates
		wantErr bool
	}{
		{"madrid", Coordinates{40.4168, -3.7038}, false},
		{"poles", Coordinates{-90, 180}, false},
		{"lat too high", Coordinates{90.5, 0}, true},
		{"lon too low", Coordinates{0, -180.1}, true},
		{"nan", Coordinates{math.NaN(), 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLookupErrorFallback(t *testing.T) {
	err := &LookupError{Kind: KindTimeout, Latitude: 40.41681234, Longitude: -3.70381234}
	if got := err.Fallback(); got != "40.4168, -3.7038" {
		t.Errorf("Fallback() = %q", got)
	}
}

func TestPlaceName(t *testing.T) {
	tests := []struct {
		name string
		body nominatimResponse
		want string
	}{
		{"name wins", nominatimResponse{Name: "Puerta del Sol", DisplayName: "Sol, Madrid"}, "Puerta del Sol"},
		{"town", func() nominatimResponse {
			var r nominatimResponse
			r.Address.Town = "Cercedilla"
			r.Address.State = "Comunidad de Madrid"
			return r
		}(), "Cercedilla"},
		{"county over state", func() nominatimResponse {
			var r nominatimResponse
			r.Address.County = "Sierra Norte"
			r.Address.State = "Comunidad de Madrid"
			return r
		}(), "Sierra Norte"},
		{"display name", nominatimResponse{DisplayName: " Puerto de Navacerrada , Madrid, España"}, "Puerto de Navacerrada"},
		{"empty", nominatimResponse{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.body.placeName(); got != tt.want {
				t.Errorf("placeName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeocoder_SameCellSkipsUpstream(t *testing.T) {
	var gotQuery, gotUA string
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"name":"Madrid","display_name":"Madrid, Comunidad de Madrid, España"}`))
	})
	g := newTestGeocoder(testConfig(up.srv.URL))
	ctx := context.Background()

	p, err := g.Reverse(ctx, "user-1", 40.4168, -3.7038)
	if err != nil {
		t.Fatalf("Reverse() error = %v", err)
	}
	if p.Name != "Madrid" || p.Cached {
		t.Errorf("first lookup = %+v", p)
	}
	if gotUA != "ContraVento-test/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	for _, want := range []string{"format=jsonv2", "zoom=14", "accept-language=es", "lat=40.4168", "lon=-3.7038"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	p, err = g.Reverse(ctx, "user-2", 40.41681, -3.70381)
	if err != nil {
		t.Fatalf("second Reverse() error = %v", err)
	}
	if p.Name != "Madrid" || !p.Cached {
		t.Errorf("second lookup = %+v, want cached Madrid", p)
	}
	if n := up.calls.Load(); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
}

func TestGeocoder_EvictsLeastRecentlyUsed(t *testing.T) {
	up := newUpstream(t, nil)
	g := newTestGeocoder(testConfig(up.srv.URL))
	ctx := context.Background()

	for i := 0; i < 101; i++ {
		if _, err := g.Reverse(ctx, "u", float64(i)*0.01, 1); err != nil {
			t.Fatalf("Reverse(%d) error = %v", i, err)
		}
	}
	stats := g.CacheStats()
	if stats.Size != 100 || stats.Evictions != 1 {
		t.Errorf("cache stats = %+v, want size 100 and 1 eviction", stats)
	}

	// The second key is still cached; the first was evicted.
	before := up.calls.Load()
	if p, _ := g.Reverse(ctx, "u", 0.01, 1); !p.Cached {
		t.Error("second key should still be cached")
	}
	if p, _ := g.Reverse(ctx, "u", 0, 1); p.Cached {
		t.Error("first key should have been evicted")
	}
	if n := up.calls.Load() - before; n != 1 {
		t.Errorf("upstream calls after eviction = %d, want 1", n)
	}
}

func TestGeocoder_DebounceCollapsesBurst(t *testing.T) {
	up := newUpstream(t, nil)
	cfg := testConfig(up.srv.URL)
	cfg.Debounce = 150 * time.Millisecond
	g := newTestGeocoder(cfg)

	lats := []float64{41.1, 41.2, 41.3, 41.4}
	results := make([]string, len(lats))
	var wg sync.WaitGroup
	for i, lat := range lats {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := g.Reverse(context.Background(), "dragger", lat, 2.17)
			if err != nil {
				t.Errorf("Reverse(%v) error = %v", lat, err)
				return
			}
			results[i] = p.Name
		}()
		time.Sleep(20 * time.Millisecond)
	}
	wg.Wait()

	if n := up.calls.Load(); n != 1 {
		t.Errorf("upstream calls = %d, want 1", n)
	}
	want := "P" + strconv.FormatFloat(lats[len(lats)-1], 'f', -1, 64)
	for i, got := range results {
		if got != want {
			t.Errorf("caller %d got %q, want %q", i, got, want)
		}
	}
	if g.debouncer.Pending() != 0 {
		t.Errorf("Pending() = %d after burst", g.debouncer.Pending())
	}
}

func TestGeocoder_CallersAreIndependent(t *testing.T) {
	up := newUpstream(t, nil)
	cfg := testConfig(up.srv.URL)
	cfg.Debounce = 50 * time.Millisecond
	g := newTestGeocoder(cfg)

	var wg sync.WaitGroup
	for _, caller := range []string{"a", "b"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Reverse(context.Background(), caller, 10, 10); err != nil {
				t.Errorf("Reverse(%s) error = %v", caller, err)
			}
		}()
	}
	wg.Wait()
	if n := up.calls.Load(); n != 2 {
		t.Errorf("upstream calls = %d, want 2 (no cross-caller dedup)", n)
	}
}

func TestGeocoder_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind Kind
	}{
		{"rate limited", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }, KindRateLimited},
		{"server error", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) }, KindUnavailable},
		{"no result", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"error":"Unable to geocode"}`)) }, KindNotFound},
		{"bad json", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`<html>`)) }, KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := newUpstream(t, tt.handler)
			g := newTestGeocoder(testConfig(up.srv.URL))

			p, err := g.Reverse(context.Background(), "u", 40.4168, -3.7038)
			if p != nil {
				t.Errorf("Reverse() place = %+v, want nil", p)
			}
			var le *LookupError
			if !errors.As(err, &le) {
				t.Fatalf("Reverse() error = %v, want *LookupError", err)
			}
			if le.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", le.Kind, tt.wantKind)
			}
			if le.Fallback() != "40.4168, -3.7038" {
				t.Errorf("Fallback() = %q", le.Fallback())
			}
			if g.CacheStats().Size != 0 {
				t.Error("failures must not be cached")
			}
		})
	}
}

func TestNominatimClient_Timeout(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	cfg := testConfig(up.srv.URL)
	cfg.Timeout = 50 * time.Millisecond

	_, err := NewNominatimClient(cfg).Reverse(context.Background(), Coordinates{40, -3})
	var le *LookupError
	if !errors.As(err, &le) || le.Kind != KindTimeout {
		t.Fatalf("Reverse() error = %v, want timeout LookupError", err)
	}
}

func TestNominatimClient_BreakerOpens(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	cfg := testConfig(up.srv.URL)
	cfg.BreakerFailures = 2
	client := NewNominatimClient(cfg)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Reverse(ctx, Coordinates{40, -3})
		var le *LookupError
		if !errors.As(err, &le) || le.Kind != KindUnavailable {
			t.Fatalf("call %d error = %v, want unavailable", i, err)
		}
	}

	_, err := client.Reverse(ctx, Coordinates{40, -3})
	var le *LookupError
	if !errors.As(err, &le) || le.Kind != KindCircuitOpen {
		t.Fatalf("Reverse() with open breaker error = %v, want circuit_open", err)
	}
	if n := up.calls.Load(); n != 2 {
		t.Errorf("upstream calls = %d, want 2", n)
	}
}

func TestNominatimClient_NotFoundKeepsBreakerClosed(t *testing.T) {
	up := newUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	cfg := testConfig(up.srv.URL)
	cfg.BreakerFailures = 1
	client := NewNominatimClient(cfg)

	for i := 0; i < 3; i++ {
		_, err := client.Reverse(context.Background(), Coordinates{0, 0})
		var le *LookupError
		if !errors.As(err, &le) || le.Kind != KindNotFound {
			t.Fatalf("call %d error = %v, want not_found", i, err)
		}
	}
	if n := up.calls.Load(); n != 3 {
		t.Errorf("upstream calls = %d, want 3", n)
	}
}

func TestGeocoder_InvalidCoordinates(t *testing.T) {
	up := newUpstream(t, nil)
	g := newTestGeocoder(testConfig(up.srv.URL))
	if _, err := g.Reverse(context.Background(), "u", 91, 0); !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("Reverse() error = %v, want ErrInvalidCoordinates", err)
	}
	if up.calls.Load() != 0 {
		t.Error("invalid coordinates reached upstream")
	}
}

func TestDebouncer_ContextCanceled(t *testing.T) {
	d := NewDebouncer(time.Hour, func(context.Context, int) (int, error) { return 1, nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Do(ctx, "k", 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}
