// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/contravento/internal/models"
)

// SetTripTags makes names the exact tag set of a trip. Tags are created on
// first use and usage counts follow the links. Only the difference between
// the old and new sets is written.
func (tx *Tx) SetTripTags(ctx context.Context, tripID string, names []string) error {
	type link struct {
		TagID      string `db:"tag_id"`
		Normalized string `db:"normalized"`
	}
	var current []link
	if err := tx.selectRows(ctx, "trip_tags", &current, `
		SELECT tt.tag_id, g.normalized FROM trip_tags tt
		JOIN tags g ON g.id = tt.tag_id WHERE tt.trip_id = ?`, tripID); err != nil {
		return err
	}

	wanted := make(map[string]string, len(names))
	order := make([]string, 0, len(names))
	for _, n := range names {
		norm := models.NormalizeTag(n)
		if norm == "" {
			continue
		}
		if _, dup := wanted[norm]; !dup {
			wanted[norm] = strings.TrimSpace(n)
			order = append(order, norm)
		}
	}

	have := make(map[string]bool, len(current))
	for _, l := range current {
		have[l.Normalized] = true
		if _, keep := wanted[l.Normalized]; keep {
			continue
		}
		if _, err := tx.exec(ctx, "trip_tags",
			`DELETE FROM trip_tags WHERE trip_id = ? AND tag_id = ?`, tripID, l.TagID); err != nil {
			return err
		}
		if _, err := tx.exec(ctx, "tags",
			`UPDATE tags SET usage_count = GREATEST(usage_count - 1, 0) WHERE id = ?`, l.TagID); err != nil {
			return err
		}
	}

	for _, norm := range order {
		if have[norm] {
			continue
		}
		tagID, err := tx.ensureTag(ctx, wanted[norm], norm)
		if err != nil {
			return err
		}
		if _, err := tx.exec(ctx, "trip_tags",
			`INSERT INTO trip_tags (trip_id, tag_id) VALUES (?, ?)`, tripID, tagID); err != nil {
			return wrapWriteErr(err)
		}
		if _, err := tx.exec(ctx, "tags",
			`UPDATE tags SET usage_count = usage_count + 1 WHERE id = ?`, tagID); err != nil {
			return err
		}
	}
	return nil
}

// ensureTag returns the id of the tag with the normalized name, creating it
// with the given display name if needed.
func (tx *Tx) ensureTag(ctx context.Context, name, normalized string) (string, error) {
	var id string
	err := tx.get(ctx, "tags", &id, `SELECT id FROM tags WHERE normalized = ?`, normalized)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	id = uuid.NewString()
	_, err = tx.exec(ctx, "tags",
		`INSERT INTO tags (id, name, normalized, usage_count, created_at) VALUES (?, ?, ?, 0, ?)`,
		id, name, normalized, time.Now().UTC())
	if err != nil {
		return "", wrapWriteErr(err)
	}
	return id, nil
}

// TripTags returns the display names of a trip's tags, alphabetically.
func (q *Queries) TripTags(ctx context.Context, tripID string) ([]string, error) {
	names := []string{}
	err := q.selectRows(ctx, "tags", &names, `
		SELECT g.name FROM trip_tags tt JOIN tags g ON g.id = tt.tag_id
		WHERE tt.trip_id = ? ORDER BY g.normalized`, tripID)
	return names, err
}

// PopularTags returns the most used tags.
func (q *Queries) PopularTags(ctx context.Context, limit int) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := q.selectRows(ctx, "tags", &tags, `
		SELECT id, name, normalized, usage_count, created_at FROM tags
		WHERE usage_count > 0 ORDER BY usage_count DESC, normalized LIMIT ?`, limit)
	return tags, err
}
