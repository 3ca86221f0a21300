// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"

	"github.com/tomtom215/contravento/internal/models"
)

const feedWhere = `
	WHERE t.status = ? AND (t.user_id = ? OR t.user_id IN
		(SELECT following_id FROM follows WHERE follower_id = ?))`

// FeedTrips returns the published trips of userID and everyone userID
// follows, newest publication first.
func (q *Queries) FeedTrips(ctx context.Context, userID string, p models.PageRequest) ([]models.TripSummary, int, error) {
	total, err := q.count(ctx, "trips", `SELECT COUNT(*) FROM trips t`+feedWhere,
		models.TripStatusPublished, userID, userID)
	if err != nil {
		return nil, 0, err
	}

	trips := []models.TripSummary{}
	err = q.selectRows(ctx, "trips", &trips,
		tripSummarySelect+feedWhere+` ORDER BY t.published_at DESC, t.id LIMIT ? OFFSET ?`,
		models.TripStatusPublished, userID, userID, p.Limit, p.Offset())
	return trips, total, err
}
