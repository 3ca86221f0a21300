// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package models

import "time"

// UserStats is derived from published trips, their photos and follow edges.
// It is recomputed from source rows, never incremented blindly.
type UserStats struct {
	UserID          string     `db:"user_id" json:"user_id"`
	TripCount       int        `db:"trip_count" json:"trip_count"`
	TotalDistanceKm float64    `db:"total_distance_km" json:"total_distance_km"`
	PhotoCount      int        `db:"photo_count" json:"photo_count"`
	LongestTripKm   float64    `db:"longest_trip_km" json:"longest_trip_km"`
	FollowerCount   int        `db:"follower_count" json:"follower_count"`
	FollowingCount  int        `db:"following_count" json:"following_count"`
	LastTripDate    *time.Time `db:"last_trip_date" json:"last_trip_date"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Achievement metrics.
const (
	MetricTrips     = "trips"
	MetricDistance  = "distance"
	MetricPhotos    = "photos"
	MetricFollowers = "followers"
)

// Achievement is a static badge definition. Thresholds are monotonic: once
// a user's metric reaches Threshold it never needs to be revoked.
type Achievement struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Metric      string  `json:"metric"`
	Threshold   float64 `json:"threshold"`
}

// UserAchievement records when a user unlocked an achievement.
type UserAchievement struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Code      string    `db:"achievement_code" json:"code"`
	AwardedAt time.Time `db:"awarded_at" json:"awarded_at"`
}

// AwardedAchievement is a catalogue entry held by a user.
type AwardedAchievement struct {
	Achievement
	AwardedAt time.Time `json:"awarded_at"`
}
