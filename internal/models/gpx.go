// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package models

import "time"

// GPXFile holds the telemetry of the route attached to a trip (at most one).
// Telemetry fields are nil when the track had fewer than two points, and
// elevation fields are nil when the file carried no elevation data.
type GPXFile struct {
	ID               string     `db:"id" json:"id"`
	TripID           string     `db:"trip_id" json:"trip_id"`
	FileName         string     `db:"file_name" json:"file_name"`
	FileSize         int64      `db:"file_size" json:"file_size"`
	DistanceKm       *float64   `db:"distance_km" json:"distance_km"`
	ElevationGain    *float64   `db:"elevation_gain" json:"elevation_gain"`
	ElevationLoss    *float64   `db:"elevation_loss" json:"elevation_loss"`
	MaxElevation     *float64   `db:"max_elevation" json:"max_elevation"`
	MinElevation     *float64   `db:"min_elevation" json:"min_elevation"`
	HasElevation     bool       `db:"has_elevation" json:"has_elevation"`
	HasTimestamps    bool       `db:"has_timestamps" json:"has_timestamps"`
	StartTime        *time.Time `db:"start_time" json:"start_time"`
	EndTime          *time.Time `db:"end_time" json:"end_time"`
	TotalPoints      int        `db:"total_points" json:"total_points"`
	SimplifiedPoints int        `db:"simplified_points" json:"simplified_points"`
	UploadedAt       time.Time  `db:"uploaded_at" json:"uploaded_at"`
}

// GPXTrack is the simplified point series derived from a GPXFile.
type GPXTrack struct {
	ID         string       `db:"id" json:"id"`
	GPXFileID  string       `db:"gpx_file_id" json:"gpx_file_id"`
	PointCount int          `db:"point_count" json:"point_count"`
	ToleranceM float64      `db:"tolerance_m" json:"tolerance_m"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	Points     []TrackPoint `db:"-" json:"points"`
}

// TrackPoint is one retained point of a simplified track. DistanceKm is
// cumulative from the start along the original (unsimplified) route and
// Gradient is the percent slope from the previous retained point.
type TrackPoint struct {
	TrackID    string   `db:"track_id" json:"-"`
	Sequence   int      `db:"sequence" json:"sequence"`
	Latitude   float64  `db:"latitude" json:"latitude"`
	Longitude  float64  `db:"longitude" json:"longitude"`
	Elevation  *float64 `db:"elevation" json:"elevation"`
	DistanceKm float64  `db:"distance_km" json:"distance_km"`
	Gradient   *float64 `db:"gradient" json:"gradient"`
}
