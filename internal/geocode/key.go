// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package geocode

import (
	"fmt"
	"math"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Validate reports ErrInvalidCoordinates for out of range or NaN values.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		c.Latitude < -90 || c.Latitude > 90 ||
		c.Longitude < -180 || c.Longitude > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// Key returns the cache cell of c. Points that agree to 3 decimals
// (about 110 m of latitude) share a key.
func (c Coordinates) Key() string {
	return fmt.Sprintf("%.3f,%.3f", round3(c.Latitude), round3(c.Longitude))
}

func round3(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		// Avoid "-0.000" and "0.000" naming the same cell twice.
		return 0
	}
	return r
}
