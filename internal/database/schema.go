// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/contravento/internal/logging"
)

// The schema is written in the subset of SQL shared by DuckDB and
// PostgreSQL. Foreign keys are not declared: DuckDB checks them eagerly
// inside a transaction, which breaks child-then-parent deletes, so cascades
// are explicit in DeleteTripCascade. For the same reason, columns that are
// rewritten in place carry no unique index.

// migration is one append-only schema step.
type migration struct {
	Version    int
	Name       string
	Statements []string
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at TIMESTAMP NOT NULL
)`

var migrations = []migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				username TEXT NOT NULL UNIQUE,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				full_name TEXT,
				bio TEXT,
				location TEXT,
				cycling_type TEXT,
				profile_photo_url TEXT,
				role TEXT NOT NULL DEFAULT 'user',
				is_verified BOOLEAN NOT NULL DEFAULT FALSE,
				verification_token_hash TEXT,
				verification_expires_at TIMESTAMP,
				failed_login_attempts INTEGER NOT NULL DEFAULT 0,
				locked_until TIMESTAMP,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS trips (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				start_date TIMESTAMP NOT NULL,
				end_date TIMESTAMP,
				distance_km DOUBLE PRECISION,
				difficulty TEXT,
				status TEXT NOT NULL DEFAULT 'draft',
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL,
				published_at TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS trip_photos (
				id TEXT PRIMARY KEY,
				trip_id TEXT NOT NULL,
				photo_url TEXT NOT NULL,
				thumb_url TEXT,
				storage_path TEXT NOT NULL,
				caption TEXT,
				display_order INTEGER NOT NULL,
				file_size BIGINT NOT NULL,
				width INTEGER,
				height INTEGER,
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS trip_locations (
				id TEXT PRIMARY KEY,
				trip_id TEXT NOT NULL,
				name TEXT NOT NULL,
				latitude DOUBLE PRECISION,
				longitude DOUBLE PRECISION,
				sequence INTEGER NOT NULL,
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS tags (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				normalized TEXT NOT NULL UNIQUE,
				usage_count INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS trip_tags (
				trip_id TEXT NOT NULL,
				tag_id TEXT NOT NULL,
				PRIMARY KEY (trip_id, tag_id)
			)`,
			`CREATE TABLE IF NOT EXISTS gpx_files (
				id TEXT PRIMARY KEY,
				trip_id TEXT NOT NULL,
				file_name TEXT NOT NULL,
				file_size BIGINT NOT NULL,
				distance_km DOUBLE PRECISION,
				elevation_gain DOUBLE PRECISION,
				elevation_loss DOUBLE PRECISION,
				max_elevation DOUBLE PRECISION,
				min_elevation DOUBLE PRECISION,
				has_elevation BOOLEAN NOT NULL DEFAULT FALSE,
				has_timestamps BOOLEAN NOT NULL DEFAULT FALSE,
				start_time TIMESTAMP,
				end_time TIMESTAMP,
				total_points INTEGER NOT NULL,
				simplified_points INTEGER NOT NULL,
				uploaded_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS gpx_tracks (
				id TEXT PRIMARY KEY,
				gpx_file_id TEXT NOT NULL,
				point_count INTEGER NOT NULL,
				tolerance_m DOUBLE PRECISION NOT NULL,
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS track_points (
				track_id TEXT NOT NULL,
				sequence INTEGER NOT NULL,
				latitude DOUBLE PRECISION NOT NULL,
				longitude DOUBLE PRECISION NOT NULL,
				elevation DOUBLE PRECISION,
				distance_km DOUBLE PRECISION NOT NULL,
				gradient DOUBLE PRECISION,
				PRIMARY KEY (track_id, sequence)
			)`,
			`CREATE TABLE IF NOT EXISTS follows (
				follower_id TEXT NOT NULL,
				following_id TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL,
				PRIMARY KEY (follower_id, following_id)
			)`,
			`CREATE TABLE IF NOT EXISTS comments (
				id TEXT PRIMARY KEY,
				trip_id TEXT NOT NULL,
				user_id TEXT NOT NULL,
				content TEXT NOT NULL,
				is_edited BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS likes (
				id TEXT PRIMARY KEY,
				trip_id TEXT NOT NULL,
				user_id TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL,
				UNIQUE (trip_id, user_id)
			)`,
			`CREATE TABLE IF NOT EXISTS notifications (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				type TEXT NOT NULL,
				actor_id TEXT,
				trip_id TEXT,
				message TEXT NOT NULL,
				is_read BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS user_stats (
				user_id TEXT PRIMARY KEY,
				trip_count INTEGER NOT NULL DEFAULT 0,
				total_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
				photo_count INTEGER NOT NULL DEFAULT 0,
				longest_trip_km DOUBLE PRECISION NOT NULL DEFAULT 0,
				follower_count INTEGER NOT NULL DEFAULT 0,
				following_count INTEGER NOT NULL DEFAULT 0,
				last_trip_date TIMESTAMP,
				updated_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS user_achievements (
				user_id TEXT NOT NULL,
				achievement_code TEXT NOT NULL,
				awarded_at TIMESTAMP NOT NULL,
				PRIMARY KEY (user_id, achievement_code)
			)`,
		},
	},
	{
		Version: 2,
		Name:    "lookup_indexes",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_trips_user ON trips (user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_trip_photos_trip ON trip_photos (trip_id)`,
			`CREATE INDEX IF NOT EXISTS idx_trip_locations_trip ON trip_locations (trip_id)`,
			`CREATE INDEX IF NOT EXISTS idx_gpx_files_trip ON gpx_files (trip_id)`,
			`CREATE INDEX IF NOT EXISTS idx_comments_trip ON comments (trip_id)`,
			`CREATE INDEX IF NOT EXISTS idx_follows_following ON follows (following_id)`,
			`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id)`,
		},
	},
}

// migrate applies every migration not yet recorded in schema_migrations.
// Each migration runs in its own transaction.
func (db *DB) migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []int
	if err := db.conn.SelectContext(ctx, &applied, `SELECT version FROM schema_migrations`); err != nil {
		return fmt.Errorf("failed to query applied migrations: %w", err)
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, m := range migrations {
		if done[m.Version] {
			continue
		}
		err := db.InTx(ctx, func(tx *Tx) error {
			for _, stmt := range m.Statements {
				if _, err := tx.tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.exec(ctx, "schema_migrations",
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
				m.Version, m.Name, time.Now().UTC())
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		logging.Info().Int("version", m.Version).Str("name", m.Name).Msg("Applied migration")
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := db.conn.GetContext(ctx, &v, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	return v, err
}
