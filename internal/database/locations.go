// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"

	"github.com/tomtom215/contravento/internal/models"
)

const locationColumns = `id, trip_id, name, latitude, longitude, sequence, created_at`

const insertLocation = `
	INSERT INTO trip_locations (` + locationColumns + `)
	VALUES (:id, :trip_id, :name, :latitude, :longitude, :sequence, :created_at)`

// ListLocations returns a trip's locations in sequence order.
func (q *Queries) ListLocations(ctx context.Context, tripID string) ([]models.TripLocation, error) {
	locs := []models.TripLocation{}
	err := q.selectRows(ctx, "trip_locations", &locs,
		`SELECT `+locationColumns+` FROM trip_locations WHERE trip_id = ? ORDER BY sequence`, tripID)
	return locs, err
}

// ReplaceLocations deletes a trip's locations and inserts locs in order.
// Sequence numbers are reassigned from 0.
func (tx *Tx) ReplaceLocations(ctx context.Context, tripID string, locs []models.TripLocation) error {
	if _, err := tx.exec(ctx, "trip_locations", `DELETE FROM trip_locations WHERE trip_id = ?`, tripID); err != nil {
		return err
	}
	for i := range locs {
		locs[i].TripID = tripID
		locs[i].Sequence = i
		if _, err := tx.namedExec(ctx, "trip_locations", insertLocation, &locs[i]); err != nil {
			return err
		}
	}
	return nil
}

// AppendLocation adds loc after the trip's last location.
func (tx *Tx) AppendLocation(ctx context.Context, loc *models.TripLocation) error {
	next, err := tx.count(ctx, "trip_locations",
		`SELECT COALESCE(MAX(sequence) + 1, 0) FROM trip_locations WHERE trip_id = ?`, loc.TripID)
	if err != nil {
		return err
	}
	loc.Sequence = next
	_, err = tx.namedExec(ctx, "trip_locations", insertLocation, loc)
	return err
}

// CountLocations returns the number of locations on a trip.
func (q *Queries) CountLocations(ctx context.Context, tripID string) (int, error) {
	return q.count(ctx, "trip_locations", `SELECT COUNT(*) FROM trip_locations WHERE trip_id = ?`, tripID)
}

// TripAnchor is the first geolocated point of a published trip, the
// position used for proximity search.
type TripAnchor struct {
	TripID    string  `db:"trip_id"`
	Name      string  `db:"name"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}

// PublishedTripAnchors returns the anchor of every published trip that has
// at least one geolocated location.
func (q *Queries) PublishedTripAnchors(ctx context.Context) ([]TripAnchor, error) {
	var rows []TripAnchor
	if err := q.selectRows(ctx, "trip_locations", &rows, `
		SELECT l.trip_id, l.name, l.latitude, l.longitude
		FROM trip_locations l JOIN trips t ON t.id = l.trip_id
		WHERE t.status = ? AND l.latitude IS NOT NULL AND l.longitude IS NOT NULL
		ORDER BY l.trip_id, l.sequence`, models.TripStatusPublished); err != nil {
		return nil, err
	}

	anchors := make([]TripAnchor, 0, len(rows))
	for i, r := range rows {
		if i == 0 || rows[i-1].TripID != r.TripID {
			anchors = append(anchors, r)
		}
	}
	return anchors, nil
}

// TripAnchor returns the anchor of one trip, or ErrNotFound when the trip
// has no geolocated location.
func (q *Queries) TripAnchor(ctx context.Context, tripID string) (*TripAnchor, error) {
	var a TripAnchor
	if err := q.get(ctx, "trip_locations", &a, `
		SELECT trip_id, name, latitude, longitude FROM trip_locations
		WHERE trip_id = ? AND latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY sequence LIMIT 1`, tripID); err != nil {
		return nil, err
	}
	return &a, nil
}
