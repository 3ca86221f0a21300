// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"

	"github.com/tomtom215/contravento/internal/models"
)

const photoColumns = `id, trip_id, photo_url, thumb_url, storage_path, caption, display_order,
	file_size, width, height, created_at`

// InsertPhoto inserts a photo. DisplayOrder is set by the caller.
func (q *Queries) InsertPhoto(ctx context.Context, p *models.TripPhoto) error {
	_, err := q.namedExec(ctx, "trip_photos", `
		INSERT INTO trip_photos (`+photoColumns+`)
		VALUES (:id, :trip_id, :photo_url, :thumb_url, :storage_path, :caption, :display_order,
			:file_size, :width, :height, :created_at)`, p)
	return wrapWriteErr(err)
}

// GetPhoto returns a photo of the given trip.
func (q *Queries) GetPhoto(ctx context.Context, tripID, photoID string) (*models.TripPhoto, error) {
	var p models.TripPhoto
	if err := q.get(ctx, "trip_photos", &p,
		`SELECT `+photoColumns+` FROM trip_photos WHERE id = ? AND trip_id = ?`, photoID, tripID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPhotos returns a trip's photos in display order.
func (q *Queries) ListPhotos(ctx context.Context, tripID string) ([]models.TripPhoto, error) {
	photos := []models.TripPhoto{}
	err := q.selectRows(ctx, "trip_photos", &photos,
		`SELECT `+photoColumns+` FROM trip_photos WHERE trip_id = ? ORDER BY display_order, created_at`, tripID)
	return photos, err
}

// CountPhotos returns the number of photos on a trip.
func (q *Queries) CountPhotos(ctx context.Context, tripID string) (int, error) {
	return q.count(ctx, "trip_photos", `SELECT COUNT(*) FROM trip_photos WHERE trip_id = ?`, tripID)
}

// UpdatePhotoCaption sets or clears a caption.
func (q *Queries) UpdatePhotoCaption(ctx context.Context, tripID, photoID string, caption *string) error {
	return q.execAffected(ctx, "trip_photos",
		`UPDATE trip_photos SET caption = ? WHERE id = ? AND trip_id = ?`, caption, photoID, tripID)
}

// SetPhotoVariants records the thumbnail URL and pixel size once the resize
// job has run.
func (q *Queries) SetPhotoVariants(ctx context.Context, photoID, thumbURL string, width, height int) error {
	return q.execAffected(ctx, "trip_photos",
		`UPDATE trip_photos SET thumb_url = ?, width = ?, height = ? WHERE id = ?`,
		thumbURL, width, height, photoID)
}

// DeletePhoto removes one photo and renumbers the rest from 0.
func (tx *Tx) DeletePhoto(ctx context.Context, tripID, photoID string) error {
	if err := tx.execAffected(ctx, "trip_photos",
		`DELETE FROM trip_photos WHERE id = ? AND trip_id = ?`, photoID, tripID); err != nil {
		return err
	}
	photos, err := tx.ListPhotos(ctx, tripID)
	if err != nil {
		return err
	}
	ids := make([]string, len(photos))
	for i, p := range photos {
		ids[i] = p.ID
	}
	return tx.SetPhotoOrder(ctx, tripID, ids)
}

// SetPhotoOrder assigns display_order from the position of each id.
func (tx *Tx) SetPhotoOrder(ctx context.Context, tripID string, ids []string) error {
	for i, id := range ids {
		if _, err := tx.exec(ctx, "trip_photos",
			`UPDATE trip_photos SET display_order = ? WHERE id = ? AND trip_id = ?`, i, id, tripID); err != nil {
			return err
		}
	}
	return nil
}
