// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Trip statuses.
const (
	TripStatusDraft     = "draft"
	TripStatusPublished = "published"
)

// Difficulty levels.
const (
	DifficultyEasy          = "easy"
	DifficultyModerate      = "moderate"
	DifficultyDifficult     = "difficult"
	DifficultyVeryDifficult = "very_difficult"
)

// MinPublishDescriptionLength is the shortest description a published trip may have.
const MinPublishDescriptionLength = 50

// Trip is a cycling journey owned by one user.
type Trip struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	StartDate   time.Time  `db:"start_date" json:"start_date"`
	EndDate     *time.Time `db:"end_date" json:"end_date"`
	DistanceKm  *float64   `db:"distance_km" json:"distance_km"`
	Difficulty  *string    `db:"difficulty" json:"difficulty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	PublishedAt *time.Time `db:"published_at" json:"published_at"`
}

// IsPublished reports whether the trip counts towards public aggregates.
func (t *Trip) IsPublished() bool {
	return t.Status == TripStatusPublished
}

// DescriptionLength counts code points after trimming surrounding whitespace.
func DescriptionLength(description string) int {
	return utf8.RuneCountInString(strings.TrimSpace(description))
}

// TripPhoto is one image of a trip. DisplayOrder is contiguous from 0.
type TripPhoto struct {
	ID           string    `db:"id" json:"id"`
	TripID       string    `db:"trip_id" json:"trip_id"`
	PhotoURL     string    `db:"photo_url" json:"photo_url"`
	ThumbURL     *string   `db:"thumb_url" json:"thumb_url"`
	StoragePath  string    `db:"storage_path" json:"-"`
	Caption      *string   `db:"caption" json:"caption"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	FileSize     int64     `db:"file_size" json:"file_size"`
	Width        *int      `db:"width" json:"width"`
	Height       *int      `db:"height" json:"height"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// TripLocation is a named point along a trip.
type TripLocation struct {
	ID        string    `db:"id" json:"id"`
	TripID    string    `db:"trip_id" json:"trip_id"`
	Name      string    `db:"name" json:"name"`
	Latitude  *float64  `db:"latitude" json:"latitude"`
	Longitude *float64  `db:"longitude" json:"longitude"`
	Sequence  int       `db:"sequence" json:"sequence"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Tag is a global label shared across trips.
type Tag struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Normalized string    `db:"normalized" json:"normalized"`
	UsageCount int       `db:"usage_count" json:"usage_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// TripDetail is the full view of a trip returned by GET /trips/{id}.
type TripDetail struct {
	Trip
	Author       PublicUser     `json:"author"`
	Photos       []TripPhoto    `json:"photos"`
	Locations    []TripLocation `json:"locations"`
	Tags         []string       `json:"tags"`
	LikeCount    int            `json:"like_count"`
	CommentCount int            `json:"comment_count"`
	IsLiked      bool           `json:"is_liked"`
	GPX          *GPXFile       `json:"gpx"`
}

// TripSummary is the list representation of a trip.
type TripSummary struct {
	ID           string     `db:"id" json:"id"`
	UserID       string     `db:"user_id" json:"user_id"`
	Username     string     `db:"username" json:"username"`
	Title        string     `db:"title" json:"title"`
	StartDate    time.Time  `db:"start_date" json:"start_date"`
	DistanceKm   *float64   `db:"distance_km" json:"distance_km"`
	Difficulty   *string    `db:"difficulty" json:"difficulty"`
	Status       string     `db:"status" json:"status"`
	PublishedAt  *time.Time `db:"published_at" json:"published_at"`
	CoverURL     *string    `db:"cover_url" json:"cover_url"`
	PhotoCount   int        `db:"photo_count" json:"photo_count"`
	LikeCount    int        `db:"like_count" json:"like_count"`
	CommentCount int        `db:"comment_count" json:"comment_count"`
}

// NearbyTrip is a trip summary with its distance from a query point.
type NearbyTrip struct {
	TripSummary
	LocationName string  `json:"location_name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	DistanceFrom float64 `json:"distance_from_km"`
}

// TripInput is the body of POST /trips and PUT /trips/{id}. On update every
// field is optional and only non-nil fields are applied.
type TripInput struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=50000"`
	StartDate   *Date     `json:"start_date"`
	EndDate     *Date     `json:"end_date"`
	DistanceKm  *float64  `json:"distance_km" validate:"omitempty,gte=0.1,lte=10000"`
	Difficulty  *string   `json:"difficulty" validate:"omitempty,oneof=easy moderate difficult very_difficult"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
}

// LocationInput is one location in PUT/POST /trips/{id}/locations.
type LocationInput struct {
	Name      string   `json:"name" validate:"required,min=1,max=200"`
	Latitude  *float64 `json:"latitude" validate:"required_with=Longitude,omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,gte=-180,lte=180"`
}

// TripFilter narrows trip listings.
type TripFilter struct {
	UserID        string
	Status        string
	Tag           string
	IncludeDrafts bool
	PageRequest
}

// NormalizeTag is the case-folded form tags are matched on.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// PhotoOrderInput is the body of PUT /trips/{id}/photos/order.
type PhotoOrderInput struct {
	PhotoIDs []string `json:"photo_ids" validate:"required,min=1,max=20,dive,required"`
}

// CaptionInput is the body of PUT /trips/{id}/photos/{photoID}.
type CaptionInput struct {
	Caption *string `json:"caption" validate:"omitempty,max=500"`
}

// LocationsInput is the body of PUT /trips/{id}/locations.
type LocationsInput struct {
	Locations []LocationInput `json:"locations" validate:"max=50,dive"`
}
