// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package models

import "time"

// Follow is a directed edge: FollowerID follows FollowingID.
type Follow struct {
	FollowerID  string    `db:"follower_id" json:"follower_id"`
	FollowingID string    `db:"following_id" json:"following_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// FollowEntry is a user in a followers/following list.
type FollowEntry struct {
	PublicUser
	FollowedAt time.Time `db:"followed_at" json:"followed_at"`
}

// Comment on a trip.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	TripID    string    `db:"trip_id" json:"trip_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	Content   string    `db:"content" json:"content"`
	IsEdited  bool      `db:"is_edited" json:"is_edited"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CommentInput is the body of comment create/update.
type CommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// Like of a trip.
type Like struct {
	ID        string    `db:"id" json:"id"`
	TripID    string    `db:"trip_id" json:"trip_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Notification types.
const (
	NotificationFollow      = "follow"
	NotificationLike        = "like"
	NotificationComment     = "comment"
	NotificationAchievement = "achievement"
)

// Notification is an item in a user's inbox.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Type      string    `db:"type" json:"type"`
	ActorID   *string   `db:"actor_id" json:"actor_id"`
	TripID    *string   `db:"trip_id" json:"trip_id"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Activity types in the feed.
const ActivityTripPublished = "trip_published"

// ActivityItem is one entry of the activity feed.
type ActivityItem struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Actor      PublicUser  `json:"actor"`
	Trip       TripSummary `json:"trip"`
}
