// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"

	"github.com/tomtom215/contravento/internal/models"
)

const gpxFileColumns = `id, trip_id, file_name, file_size, distance_km, elevation_gain, elevation_loss,
	max_elevation, min_elevation, has_elevation, has_timestamps, start_time, end_time,
	total_points, simplified_points, uploaded_at`

// trackPointBatch bounds the rows per multi-row insert.
const trackPointBatch = 250

// ReplaceGPX removes any GPX data of the trip and stores file and track.
func (tx *Tx) ReplaceGPX(ctx context.Context, file *models.GPXFile, track *models.GPXTrack) error {
	if _, err := tx.DeleteGPX(ctx, file.TripID); err != nil {
		return err
	}

	if _, err := tx.namedExec(ctx, "gpx_files", `
		INSERT INTO gpx_files (`+gpxFileColumns+`)
		VALUES (:id, :trip_id, :file_name, :file_size, :distance_km, :elevation_gain, :elevation_loss,
			:max_elevation, :min_elevation, :has_elevation, :has_timestamps, :start_time, :end_time,
			:total_points, :simplified_points, :uploaded_at)`, file); err != nil {
		return err
	}

	track.GPXFileID = file.ID
	if _, err := tx.namedExec(ctx, "gpx_tracks", `
		INSERT INTO gpx_tracks (id, gpx_file_id, point_count, tolerance_m, created_at)
		VALUES (:id, :gpx_file_id, :point_count, :tolerance_m, :created_at)`, track); err != nil {
		return err
	}

	for i := range track.Points {
		track.Points[i].TrackID = track.ID
	}
	for start := 0; start < len(track.Points); start += trackPointBatch {
		end := start + trackPointBatch
		if end > len(track.Points) {
			end = len(track.Points)
		}
		if _, err := tx.namedExec(ctx, "track_points", `
			INSERT INTO track_points (track_id, sequence, latitude, longitude, elevation, distance_km, gradient)
			VALUES (:track_id, :sequence, :latitude, :longitude, :elevation, :distance_km, :gradient)`,
			track.Points[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// DeleteGPX removes the GPX file, track and points of a trip. It reports
// whether anything was deleted.
func (tx *Tx) DeleteGPX(ctx context.Context, tripID string) (bool, error) {
	var fileIDs []string
	if err := tx.selectRows(ctx, "gpx_files", &fileIDs,
		`SELECT id FROM gpx_files WHERE trip_id = ?`, tripID); err != nil {
		return false, err
	}
	if len(fileIDs) == 0 {
		return false, nil
	}

	query, args, err := expandIn(`DELETE FROM track_points WHERE track_id IN
		(SELECT id FROM gpx_tracks WHERE gpx_file_id IN (?))`, fileIDs)
	if err != nil {
		return false, err
	}
	if _, err := tx.exec(ctx, "track_points", query, args...); err != nil {
		return false, err
	}

	query, args, err = expandIn(`DELETE FROM gpx_tracks WHERE gpx_file_id IN (?)`, fileIDs)
	if err != nil {
		return false, err
	}
	if _, err := tx.exec(ctx, "gpx_tracks", query, args...); err != nil {
		return false, err
	}

	if _, err := tx.exec(ctx, "gpx_files", `DELETE FROM gpx_files WHERE trip_id = ?`, tripID); err != nil {
		return false, err
	}
	return true, nil
}

// GetGPXFile returns the telemetry of a trip's GPX upload.
func (q *Queries) GetGPXFile(ctx context.Context, tripID string) (*models.GPXFile, error) {
	var f models.GPXFile
	if err := q.get(ctx, "gpx_files", &f,
		`SELECT `+gpxFileColumns+` FROM gpx_files WHERE trip_id = ?`, tripID); err != nil {
		return nil, err
	}
	return &f, nil
}

// GetTrack returns the simplified track of a trip with its points in order.
func (q *Queries) GetTrack(ctx context.Context, tripID string) (*models.GPXTrack, error) {
	var t models.GPXTrack
	if err := q.get(ctx, "gpx_tracks", &t, `
		SELECT k.id, k.gpx_file_id, k.point_count, k.tolerance_m, k.created_at
		FROM gpx_tracks k JOIN gpx_files f ON f.id = k.gpx_file_id
		WHERE f.trip_id = ?`, tripID); err != nil {
		return nil, err
	}

	t.Points = []models.TrackPoint{}
	if err := q.selectRows(ctx, "track_points", &t.Points, `
		SELECT track_id, sequence, latitude, longitude, elevation, distance_km, gradient
		FROM track_points WHERE track_id = ? ORDER BY sequence`, t.ID); err != nil {
		return nil, err
	}
	return &t, nil
}
