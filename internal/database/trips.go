// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomtom215/contravento/internal/models"
)

const tripColumns = `id, user_id, title, description, start_date, end_date, distance_km,
	difficulty, status, created_at, updated_at, published_at`

// tripSummarySelect projects models.TripSummary from trips t joined to users u.
const tripSummarySelect = `
	SELECT t.id, t.user_id, u.username, t.title, t.start_date, t.distance_km, t.difficulty,
		t.status, t.published_at,
		(SELECT COALESCE(p.thumb_url, p.photo_url) FROM trip_photos p
			WHERE p.trip_id = t.id ORDER BY p.display_order LIMIT 1) AS cover_url,
		(SELECT COUNT(*) FROM trip_photos p WHERE p.trip_id = t.id) AS photo_count,
		(SELECT COUNT(*) FROM likes l WHERE l.trip_id = t.id) AS like_count,
		(SELECT COUNT(*) FROM comments c WHERE c.trip_id = t.id) AS comment_count
	FROM trips t
	JOIN users u ON u.id = t.user_id`

// InsertTrip inserts a new trip.
func (q *Queries) InsertTrip(ctx context.Context, t *models.Trip) error {
	_, err := q.namedExec(ctx, "trips", `
		INSERT INTO trips (`+tripColumns+`)
		VALUES (:id, :user_id, :title, :description, :start_date, :end_date, :distance_km,
			:difficulty, :status, :created_at, :updated_at, :published_at)`, t)
	return wrapWriteErr(err)
}

// GetTrip returns the trip with the given id.
func (q *Queries) GetTrip(ctx context.Context, id string) (*models.Trip, error) {
	var t models.Trip
	if err := q.get(ctx, "trips", &t, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTrip writes every mutable column of t.
func (q *Queries) UpdateTrip(ctx context.Context, t *models.Trip) error {
	_, err := q.namedExec(ctx, "trips", `
		UPDATE trips SET title = :title, description = :description, start_date = :start_date,
			end_date = :end_date, distance_km = :distance_km, difficulty = :difficulty,
			status = :status, updated_at = :updated_at, published_at = :published_at
		WHERE id = :id`, t)
	return err
}

// tripWhere builds the WHERE clause for f.
func tripWhere(f models.TripFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.UserID != "" {
		conds = append(conds, "t.user_id = ?")
		args = append(args, f.UserID)
	}
	switch {
	case f.Status != "":
		conds = append(conds, "t.status = ?")
		args = append(args, f.Status)
	case !f.IncludeDrafts:
		conds = append(conds, "t.status = ?")
		args = append(args, models.TripStatusPublished)
	}
	if f.Tag != "" {
		conds = append(conds, `t.id IN (SELECT tt.trip_id FROM trip_tags tt
			JOIN tags g ON g.id = tt.tag_id WHERE g.normalized = ?)`)
		args = append(args, models.NormalizeTag(f.Tag))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListTrips returns one page of trip summaries and the total match count.
// Published trips sort by published_at, drafts by creation time.
func (q *Queries) ListTrips(ctx context.Context, f models.TripFilter) ([]models.TripSummary, int, error) {
	where, args := tripWhere(f)

	total, err := q.count(ctx, "trips", `SELECT COUNT(*) FROM trips t`+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count trips: %w", err)
	}

	query := tripSummarySelect + where +
		` ORDER BY COALESCE(t.published_at, t.created_at) DESC, t.id LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset())

	trips := []models.TripSummary{}
	if err := q.selectRows(ctx, "trips", &trips, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list trips: %w", err)
	}
	return trips, total, nil
}

// TripSummariesByIDs returns the summaries of the given published trips,
// keyed by id.
func (q *Queries) TripSummariesByIDs(ctx context.Context, ids []string) (map[string]models.TripSummary, error) {
	out := make(map[string]models.TripSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := expandIn(tripSummarySelect+` WHERE t.status = ? AND t.id IN (?)`,
		models.TripStatusPublished, ids)
	if err != nil {
		return nil, err
	}
	var trips []models.TripSummary
	if err := q.selectRows(ctx, "trips", &trips, query, args...); err != nil {
		return nil, err
	}
	for _, t := range trips {
		out[t.ID] = t
	}
	return out, nil
}

// TripCounts returns the like and comment counts of a trip.
func (q *Queries) TripCounts(ctx context.Context, tripID string) (likes, comments int, err error) {
	var row struct {
		Likes    int `db:"likes"`
		Comments int `db:"comments"`
	}
	err = q.get(ctx, "trips", &row, `
		SELECT (SELECT COUNT(*) FROM likes WHERE trip_id = ?) AS likes,
			(SELECT COUNT(*) FROM comments WHERE trip_id = ?) AS comments`, tripID, tripID)
	return row.Likes, row.Comments, err
}

// DeleteTripCascade removes a trip and every row that belongs to it. It
// returns the storage paths of the deleted photos so the caller can remove
// the files after commit.
func (tx *Tx) DeleteTripCascade(ctx context.Context, tripID string) ([]string, error) {
	var paths []string
	if err := tx.selectRows(ctx, "trip_photos", &paths,
		`SELECT storage_path FROM trip_photos WHERE trip_id = ?`, tripID); err != nil {
		return nil, err
	}

	if _, err := tx.DeleteGPX(ctx, tripID); err != nil {
		return nil, err
	}
	if err := tx.SetTripTags(ctx, tripID, nil); err != nil {
		return nil, err
	}

	steps := []struct {
		table string
		query string
	}{
		{"trip_photos", `DELETE FROM trip_photos WHERE trip_id = ?`},
		{"trip_locations", `DELETE FROM trip_locations WHERE trip_id = ?`},
		{"comments", `DELETE FROM comments WHERE trip_id = ?`},
		{"likes", `DELETE FROM likes WHERE trip_id = ?`},
		{"notifications", `DELETE FROM notifications WHERE trip_id = ?`},
	}
	for _, s := range steps {
		if _, err := tx.exec(ctx, s.table, s.query, tripID); err != nil {
			return nil, fmt.Errorf("delete %s: %w", s.table, err)
		}
	}

	if err := tx.execAffected(ctx, "trips", `DELETE FROM trips WHERE id = ?`, tripID); err != nil {
		return nil, err
	}
	return paths, nil
}

func (tx *Tx) lockTrip(ctx context.Context, tripID string) error {
	var id string
	return tx.get(ctx, "trips", &id, `SELECT id FROM trips WHERE id = ? FOR UPDATE`, tripID)
}
