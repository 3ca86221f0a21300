// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tomtom215/contravento/internal/events"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/models"
	"github.com/tomtom215/contravento/internal/websocket"
)

// MessageTypeTripPublished is pushed to every connection when a trip is
// published.
const MessageTypeTripPublished = "trip_published"

var notificationTypes = map[string]string{
	events.TopicFollow:              models.NotificationFollow,
	events.TopicLike:                models.NotificationLike,
	events.TopicComment:             models.NotificationComment,
	events.TopicAchievementUnlocked: models.NotificationAchievement,
}

// RegisterHandlers subscribes the notification handlers to c.
func (s *Service) RegisterHandlers(c *events.Consumer) *events.Consumer {
	for topic := range notificationTypes {
		c.Handle(topic, s.HandleNotification)
	}
	return c.Handle(events.TopicTripPublished, s.HandleTripPublished)
}

// HandleNotification stores the notification for e and pushes it to the
// recipient's open connections. Self actions are ignored.
func (s *Service) HandleNotification(ctx context.Context, e events.Event) error {
	typ, ok := notificationTypes[e.Topic]
	if !ok || e.RecipientID == "" || e.SelfAction() {
		return nil
	}
	if e.ActorID != "" && e.ActorUsername == "" {
		e.ActorUsername = s.username(ctx, e.ActorID)
	}

	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    e.RecipientID,
		Type:      typ,
		Message:   notificationMessage(e),
		CreatedAt: e.OccurredAt.UTC(),
	}
	if e.ActorID != "" {
		actor := e.ActorID
		n.ActorID = &actor
	}
	if e.TripID != "" {
		trip := e.TripID
		n.TripID = &trip
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	if err := s.db.InsertNotification(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	if s.pusher != nil {
		s.pusher.SendToUser(n.UserID, websocket.MessageTypeNotification, n)
		if count, err := s.db.UnreadCount(ctx, n.UserID); err == nil {
			s.pusher.SendToUser(n.UserID, websocket.MessageTypeUnreadCount, map[string]int{"count": count})
		}
	}
	logging.Ctx(ctx).Debug().Str("user_id", n.UserID).Str("type", n.Type).Msg("Notification stored")
	return nil
}

// HandleTripPublished announces a newly published trip to connected
// clients.
func (s *Service) HandleTripPublished(ctx context.Context, e events.Event) error {
	if s.pusher == nil {
		return nil
	}
	s.pusher.Broadcast(MessageTypeTripPublished, map[string]string{
		"trip_id": e.TripID,
		"title":   e.TripTitle,
		"user_id": e.ActorID,
	})
	return nil
}

// ListNotifications lists userID's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, userID string, unreadOnly bool, p models.PageRequest) ([]models.Notification, models.Pagination, error) {
	list, total, err := s.db.ListNotifications(ctx, userID, unreadOnly, p)
	if err != nil {
		return nil, models.Pagination{}, internal("list notifications", err)
	}
	return list, models.NewPagination(p, total), nil
}

// UnreadCount returns how many notifications userID has not read.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	n, err := s.db.UnreadCount(ctx, userID)
	if err != nil {
		return 0, internal("unread count", err)
	}
	return n, nil
}

// MarkNotificationRead marks one of userID's notifications as read.
func (s *Service) MarkNotificationRead(ctx context.Context, userID, id string) error {
	if err := s.db.MarkNotificationRead(ctx, userID, id); err != nil {
		return lookupErr("mark read", err, "Notificación no encontrada")
	}
	return nil
}

// MarkAllNotificationsRead marks every notification of userID as read and
// returns how many changed.
func (s *Service) MarkAllNotificationsRead(ctx context.Context, userID string) (int, error) {
	n, err := s.db.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		return 0, internal("mark all read", err)
	}
	return n, nil
}

func achievementEvent(userID string, a models.Achievement) events.Event {
	return events.New(events.TopicAchievementUnlocked, events.Event{
		RecipientID:     userID,
		AchievementCode: a.Code,
		AchievementName: a.Name,
	})
}

func notificationMessage(e events.Event) string {
	actor := e.ActorUsername
	if actor == "" {
		actor = "Alguien"
	}
	switch e.Topic {
	case events.TopicFollow:
		return fmt.Sprintf("%s ha empezado a seguirte", actor)
	case events.TopicLike:
		return fmt.Sprintf("A %s le gusta tu viaje «%s»", actor, e.TripTitle)
	case events.TopicComment:
		return fmt.Sprintf("%s ha comentado en tu viaje «%s»", actor, e.TripTitle)
	case events.TopicAchievementUnlocked:
		return fmt.Sprintf("¡Has desbloqueado el logro «%s»!", e.AchievementName)
	}
	return ""
}
