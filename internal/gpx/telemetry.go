// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package gpx

import (
	"math"
	"time"
)

// EarthRadiusKm is the mean earth radius used for all distances.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Telemetry aggregates a full-resolution track. Pointer fields are nil when
// they cannot be computed: every metric for tracks of 0 or 1 points, and the
// elevation metrics for tracks without elevation data.
type Telemetry struct {
	TotalPoints   int
	DistanceKm    *float64
	ElevationGain *float64
	ElevationLoss *float64
	MaxElevation  *float64
	MinElevation  *float64
	HasElevation  bool
	HasTimestamps bool
	StartTime     *time.Time
	EndTime       *time.Time
}

// ComputeTelemetry sums haversine distance and elevation deltas between
// consecutive points. Gain and loss only use pairs where both points carry
// an elevation.
func ComputeTelemetry(points []Point) Telemetry {
	t := Telemetry{TotalPoints: len(points)}

	for _, p := range points {
		if p.Elevation != nil {
			t.HasElevation = true
		}
		if p.Time != nil {
			t.HasTimestamps = true
			if t.StartTime == nil {
				ts := *p.Time
				t.StartTime = &ts
			}
			ts := *p.Time
			t.EndTime = &ts
		}
	}

	if len(points) < 2 {
		return t
	}

	distance := 0.0
	for i := 1; i < len(points); i++ {
		distance += HaversineKm(points[i-1].Latitude, points[i-1].Longitude, points[i].Latitude, points[i].Longitude)
	}
	distance = round(distance, 2)
	t.DistanceKm = &distance

	if !t.HasElevation {
		return t
	}

	var gain, loss float64
	maxEle, minEle := math.Inf(-1), math.Inf(1)
	var prev *float64
	for _, p := range points {
		if p.Elevation == nil {
			prev = nil
			continue
		}
		ele := *p.Elevation
		maxEle = math.Max(maxEle, ele)
		minEle = math.Min(minEle, ele)
		if prev != nil {
			if d := ele - *prev; d > 0 {
				gain += d
			} else {
				loss -= d
			}
		}
		prev = p.Elevation
	}

	gain, loss = round(gain, 1), round(loss, 1)
	maxEle, minEle = round(maxEle, 1), round(minEle, 1)
	t.ElevationGain = &gain
	t.ElevationLoss = &loss
	t.MaxElevation = &maxEle
	t.MinElevation = &minEle
	return t
}

// cumulativeKm returns the distance from the first point to each point.
func cumulativeKm(points []Point) []float64 {
	out := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		out[i] = out[i-1] + HaversineKm(points[i-1].Latitude, points[i-1].Longitude, points[i].Latitude, points[i].Longitude)
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
