// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package gpx turns uploaded GPX files into route telemetry and a simplified
// track suitable for map rendering.
//
// Processing runs in three steps: Parse flattens every track segment of the
// file into one ordered point list, ComputeTelemetry aggregates distance and
// elevation over all parsed points, and Simplify selects the Douglas-Peucker
// subset kept for storage.
package gpx

import (
	"errors"
	"fmt"
	"time"

	gpxgo "github.com/tkrajina/gpxgo/gpx"
)

// ErrInvalidGPX is returned for input that is not a readable GPX document.
var ErrInvalidGPX = errors.New("invalid GPX file")

// Point is one parsed fix. Elevation and Time are nil when absent.
type Point struct {
	Latitude  float64
	Longitude float64
	Elevation *float64
	Time      *time.Time
}

// Parse decodes a GPX document. Track points are used when present,
// otherwise route points. A valid document without points yields an empty
// slice and no error.
func Parse(data []byte) ([]Point, error) {
	doc, err := gpxgo.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGPX, err)
	}

	var points []Point
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for i := range seg.Points {
				points = append(points, convert(&seg.Points[i]))
			}
		}
	}

	if len(points) == 0 {
		for _, rte := range doc.Routes {
			for i := range rte.Points {
				points = append(points, convert(&rte.Points[i]))
			}
		}
	}

	for i, p := range points {
		if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
			return nil, fmt.Errorf("%w: point %d has out of range coordinates", ErrInvalidGPX, i)
		}
	}
	return points, nil
}

func convert(p *gpxgo.GPXPoint) Point {
	out := Point{Latitude: p.Latitude, Longitude: p.Longitude}
	if p.Elevation.NotNull() {
		ele := p.Elevation.Value()
		out.Elevation = &ele
	}
	if !p.Timestamp.IsZero() {
		ts := p.Timestamp.UTC()
		out.Time = &ts
	}
	return out
}
