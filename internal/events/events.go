// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package events carries domain events from the service layer to
// background consumers over Watermill.
//
// The default transport is an in-process Go channel. Setting
// events.transport to "nats" publishes over core NATS instead, optionally
// against an embedded nats-server, so several API instances can share
// consumers. Events are published after the originating transaction
// commits; delivery is at-most-once.
package events

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topics.
const (
	TopicTripPublished       = "trip.published"
	TopicAchievementUnlocked = "achievement.unlocked"
	TopicFollow              = "social.follow"
	TopicLike                = "social.like"
	TopicComment             = "social.comment"
)

// Topics lists every topic a consumer may subscribe to.
var Topics = []string{
	TopicTripPublished,
	TopicAchievementUnlocked,
	TopicFollow,
	TopicLike,
	TopicComment,
}

// Event is the payload of every topic. Fields that do not apply to a topic
// are empty.
type Event struct {
	ID              string    `json:"id"`
	Topic           string    `json:"topic"`
	ActorID         string    `json:"actor_id,omitempty"`
	ActorUsername   string    `json:"actor_username,omitempty"`
	RecipientID     string    `json:"recipient_id"`
	TripID          string    `json:"trip_id,omitempty"`
	TripTitle       string    `json:"trip_title,omitempty"`
	CommentID       string    `json:"comment_id,omitempty"`
	AchievementCode string    `json:"achievement_code,omitempty"`
	AchievementName string    `json:"achievement_name,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// New stamps an event with an id and the current time.
func New(topic string, e Event) Event {
	e.ID = uuid.NewString()
	e.Topic = topic
	e.OccurredAt = time.Now().UTC()
	return e
}

// SelfAction reports whether the recipient caused the event.
func (e Event) SelfAction() bool {
	return e.ActorID != "" && e.ActorID == e.RecipientID
}

func marshal(e Event) ([]byte, error) {
	return json.Marshal(e)
}

func unmarshal(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}
