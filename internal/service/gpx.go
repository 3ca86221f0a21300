// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/events"
	"github.com/tomtom215/contravento/internal/gpx"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/models"
)

const (
	msgGPXNotFound     = "El viaje no tiene archivo GPX"
	defaultMaxGPXBytes = 10 << 20
	maxTripDistanceKm  = 10000
)

// UploadGPX parses a GPX document, stores its telemetry and simplified
// track, and replaces any previous GPX of the trip. A trip without a
// distance takes the track's.
func (s *Service) UploadGPX(ctx context.Context, userID, tripID, fileName string, data []byte) (*models.GPXFile, error) {
	maxBytes := s.cfg.Uploads.MaxGPXBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxGPXBytes
	}
	if int64(len(data)) > maxBytes {
		return nil, &Error{Kind: KindTooLarge, Code: CodeFileTooLarge, Field: "file", Message: "El archivo GPX supera el tamaño máximo de 10 MB"}
	}
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	res, err := gpx.Process(data, s.simplify)
	if errors.Is(err, gpx.ErrInvalidGPX) {
		return nil, &Error{Kind: KindDomain, Code: CodeInvalidGPX, Field: "file", Message: "El archivo no es un GPX válido", Err: err}
	}
	if err != nil {
		return nil, internal("process gpx", err)
	}

	now := s.now()
	tel := res.Telemetry
	file := &models.GPXFile{
		ID:               uuid.NewString(),
		TripID:           tripID,
		FileName:         fileName,
		FileSize:         int64(len(data)),
		DistanceKm:       tel.DistanceKm,
		ElevationGain:    tel.ElevationGain,
		ElevationLoss:    tel.ElevationLoss,
		MaxElevation:     tel.MaxElevation,
		MinElevation:     tel.MinElevation,
		HasElevation:     tel.HasElevation,
		HasTimestamps:    tel.HasTimestamps,
		StartTime:        tel.StartTime,
		EndTime:          tel.EndTime,
		TotalPoints:      tel.TotalPoints,
		SimplifiedPoints: len(res.Points),
		UploadedAt:       now,
	}
	track := &models.GPXTrack{
		ID:         uuid.NewString(),
		PointCount: len(res.Points),
		ToleranceM: s.simplify.ToleranceM,
		CreatedAt:  now,
		Points:     res.Points,
	}

	fillDistance := trip.DistanceKm == nil && tel.DistanceKm != nil && *tel.DistanceKm >= 0.1
	var evs []events.Event
	err = s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := tx.ReplaceGPX(ctx, file, track); err != nil {
			return err
		}
		if !fillDistance {
			return nil
		}
		d := math.Min(*tel.DistanceKm, maxTripDistanceKm)
		trip.DistanceKm = &d
		trip.UpdatedAt = now
		if err := tx.UpdateTrip(ctx, trip); err != nil {
			return err
		}
		if trip.IsPublished() {
			var err error
			evs, err = recalculate(ctx, tx, trip.UserID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, internal("store gpx", err)
	}

	logging.Ctx(ctx).Info().
		Str("trip_id", tripID).
		Int("points", tel.TotalPoints).
		Int("retained", len(res.Points)).
		Msg("GPX uploaded")
	s.unlocked(ctx, evs)
	return file, nil
}

// GetGPX returns the telemetry of a trip's GPX file.
func (s *Service) GetGPX(ctx context.Context, viewerID, tripID string) (*models.GPXFile, error) {
	if _, err := s.visibleTrip(ctx, viewerID, tripID); err != nil {
		return nil, err
	}
	f, err := s.db.GetGPXFile(ctx, tripID)
	if err != nil {
		return nil, lookupErr("get gpx", err, msgGPXNotFound)
	}
	return f, nil
}

// GetTrack returns the simplified track of a trip's GPX file.
func (s *Service) GetTrack(ctx context.Context, viewerID, tripID string) (*models.GPXTrack, error) {
	if _, err := s.visibleTrip(ctx, viewerID, tripID); err != nil {
		return nil, err
	}
	t, err := s.db.GetTrack(ctx, tripID)
	if err != nil {
		return nil, lookupErr("get track", err, msgGPXNotFound)
	}
	return t, nil
}

// DeleteGPX removes a trip's GPX data. The trip keeps its distance.
func (s *Service) DeleteGPX(ctx context.Context, userID, tripID string) error {
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return err
	}
	var deleted bool
	err := s.db.InTx(ctx, func(tx *database.Tx) error {
		var err error
		deleted, err = tx.DeleteGPX(ctx, tripID)
		return err
	})
	if err != nil {
		return internal("delete gpx", err)
	}
	if !deleted {
		return notFound(msgGPXNotFound)
	}
	return nil
}
