// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package geocode

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinates is returned for latitudes outside [-90, 90],
// longitudes outside [-180, 180] or NaN values.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Kind classifies why a reverse lookup produced no place name.
type Kind string

const (
	KindTimeout     Kind = "timeout"
	KindRateLimited Kind = "rate_limited"
	KindUnavailable Kind = "unavailable"
	KindCircuitOpen Kind = "circuit_open"
	KindNotFound    Kind = "not_found"
)

// LookupError is returned when the upstream geocoder cannot name a
// coordinate. Callers are expected to degrade to Fallback.
type LookupError struct {
	Kind      Kind
	Latitude  float64
	Longitude float64
	Err       error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reverse geocode %s (%s): %v", e.Fallback(), e.Kind, e.Err)
	}
	return fmt.Sprintf("reverse geocode %s (%s)", e.Fallback(), e.Kind)
}

func (e *LookupError) Unwrap() error { return e.Err }

// Fallback renders the raw coordinates with 4 decimals, e.g. "40.4168, -3.7038".
func (e *LookupError) Fallback() string {
	return FormatCoordinates(e.Latitude, e.Longitude)
}

// FormatCoordinates renders a coordinate pair the way Fallback does.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}
