// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package geocode turns map coordinates into place names.
//
// Lookups are served from an LRU keyed by 3-decimal coordinate cells. Misses
// are debounced per caller so a user dragging a marker produces one upstream
// request for where the marker stopped, and upstream requests are throttled
// and guarded by a circuit breaker. Failures surface as *LookupError, whose
// Fallback lets the caller offer manual entry.
package geocode

import (
	"context"
	"time"

	"github.com/tomtom215/contravento/internal/cache"
	"github.com/tomtom215/contravento/internal/config"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/metrics"
)

// Place is a resolved coordinate.
type Place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Cached    bool    `json:"cached"`
}

// Geocoder is the cached, debounced reverse geocoder.
type Geocoder struct {
	resolver  Resolver
	cache     *cache.LRU[string, string]
	debouncer *Debouncer[Coordinates, *Place]
}

// New creates a Geocoder backed by resolver.
func New(cfg *config.GeocoderConfig, resolver Resolver) *Geocoder {
	g := &Geocoder{
		resolver: resolver,
		cache:    cache.NewLRU[string, string](cfg.CacheSize, 0),
	}
	g.cache.OnEvict(func(key, _ string) {
		metrics.GeocodeCacheEvictions.Inc()
		logging.Debug().Str("cell", key).Msg("Geocode cache eviction")
	})
	g.debouncer = NewDebouncer(cfg.Debounce, g.resolve)
	return g
}

// Reverse returns the place name for (lat, lon). caller identifies whose
// burst the request belongs to (user id or client IP); concurrent calls
// from one caller collapse into a single upstream lookup for the latest
// coordinates.
func (g *Geocoder) Reverse(ctx context.Context, caller string, lat, lon float64) (*Place, error) {
	c := Coordinates{Latitude: lat, Longitude: lon}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if name, ok := g.cache.Get(c.Key()); ok {
		metrics.RecordGeocodeCache(true)
		return &Place{Name: name, Latitude: lat, Longitude: lon, Cached: true}, nil
	}
	metrics.RecordGeocodeCache(false)

	return g.debouncer.Do(ctx, caller, c)
}

// resolve runs once per debounced burst.
func (g *Geocoder) resolve(ctx context.Context, c Coordinates) (*Place, error) {
	key := c.Key()
	start := time.Now()
	name, err := g.resolver.Reverse(ctx, c)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("cell", key).Dur("duration", time.Since(start)).Msg("Reverse geocode failed")
		return nil, err
	}
	g.cache.Add(key, name)
	return &Place{Name: name, Latitude: c.Latitude, Longitude: c.Longitude}, nil
}

// CacheStats reports cache counters.
func (g *Geocoder) CacheStats() cache.Stats {
	return g.cache.Stats()
}
