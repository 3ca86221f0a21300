// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"

	"github.com/tomtom215/contravento/internal/models"
)

const notificationColumns = `id, user_id, type, actor_id, trip_id, message, is_read, created_at`

// InsertNotification stores a notification.
func (q *Queries) InsertNotification(ctx context.Context, n *models.Notification) error {
	_, err := q.namedExec(ctx, "notifications", `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES (:id, :user_id, :type, :actor_id, :trip_id, :message, :is_read, :created_at)`, n)
	return err
}

// ListNotifications returns a user's notifications newest first.
func (q *Queries) ListNotifications(ctx context.Context, userID string, unreadOnly bool, p models.PageRequest) ([]models.Notification, int, error) {
	where := ` WHERE user_id = ?`
	if unreadOnly {
		where += ` AND is_read = FALSE`
	}

	total, err := q.count(ctx, "notifications", `SELECT COUNT(*) FROM notifications`+where, userID)
	if err != nil {
		return nil, 0, err
	}
	items := []models.Notification{}
	err = q.selectRows(ctx, "notifications", &items,
		`SELECT `+notificationColumns+` FROM notifications`+where+
			` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		userID, p.Limit, p.Offset())
	return items, total, err
}

// UnreadCount returns the number of unread notifications.
func (q *Queries) UnreadCount(ctx context.Context, userID string) (int, error) {
	return q.count(ctx, "notifications",
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = FALSE`, userID)
}

// MarkNotificationRead marks one of the user's notifications read. Another
// user's notification is reported as ErrNotFound.
func (q *Queries) MarkNotificationRead(ctx context.Context, userID, id string) error {
	return q.execAffected(ctx, "notifications",
		`UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?`, id, userID)
}

// MarkAllNotificationsRead marks every unread notification read and returns
// how many changed.
func (q *Queries) MarkAllNotificationsRead(ctx context.Context, userID string) (int, error) {
	res, err := q.exec(ctx, "notifications",
		`UPDATE notifications SET is_read = TRUE WHERE user_id = ? AND is_read = FALSE`, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
