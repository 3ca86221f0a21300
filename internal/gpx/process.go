// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package gpx

import (
	"time"

	"github.com/tomtom215/contravento/internal/metrics"
	"github.com/tomtom215/contravento/internal/models"
)

// Result is the outcome of processing one GPX upload.
type Result struct {
	Telemetry Telemetry
	Points    []models.TrackPoint
}

// Process parses data, computes telemetry over every point and returns the
// simplified track with cumulative distance and per-segment gradient.
func Process(data []byte, opts SimplifyOptions) (*Result, error) {
	start := time.Now()

	points, err := Parse(data)
	if err != nil {
		metrics.RecordGPXProcessed(0, 0, time.Since(start), err)
		return nil, err
	}

	res := &Result{Telemetry: ComputeTelemetry(points)}
	if len(points) == 0 {
		metrics.RecordGPXProcessed(0, 0, time.Since(start), nil)
		return res, nil
	}

	cum := cumulativeKm(points)
	idx := Simplify(points, opts)
	res.Points = make([]models.TrackPoint, len(idx))

	for seq, i := range idx {
		p := points[i]
		tp := models.TrackPoint{
			Sequence:   seq,
			Latitude:   p.Latitude,
			Longitude:  p.Longitude,
			Elevation:  p.Elevation,
			DistanceKm: round(cum[i], 3),
		}
		if seq > 0 {
			tp.Gradient = gradient(points[idx[seq-1]], p, (cum[i]-cum[idx[seq-1]])*1000)
		}
		res.Points[seq] = tp
	}

	metrics.RecordGPXProcessed(len(points), len(idx), time.Since(start), nil)
	return res, nil
}

// gradient returns the percent slope between two points separated by
// horizontalM metres along the route, or nil without elevation data.
func gradient(from, to Point, horizontalM float64) *float64 {
	if from.Elevation == nil || to.Elevation == nil {
		return nil
	}
	g := 0.0
	if horizontalM > 0 {
		g = round((*to.Elevation-*from.Elevation)/horizontalM*100, 2)
	}
	return &g
}
