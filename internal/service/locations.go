// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/models"
	"github.com/tomtom215/contravento/internal/validation"
)

const maxLocations = 50

// ReplaceLocations replaces a trip's route stops in list order.
func (s *Service) ReplaceLocations(ctx context.Context, userID, tripID string, in models.LocationsInput) ([]models.TripLocation, error) {
	if ve := validation.ValidateStruct(in); ve != nil {
		return nil, invalid(ve)
	}
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	locs := make([]models.TripLocation, len(in.Locations))
	for i, l := range in.Locations {
		locs[i] = newLocation(tripID, l, now)
	}

	err = s.db.InTripTx(ctx, tripID, func(tx *database.Tx) error {
		return tx.ReplaceLocations(ctx, tripID, locs)
	})
	if err != nil {
		return nil, internal("replace locations", err)
	}
	if trip.IsPublished() {
		s.refreshAnchor(ctx, tripID)
	}

	out, err := s.db.ListLocations(ctx, tripID)
	if err != nil {
		return nil, internal("list locations", err)
	}
	return out, nil
}

// AppendLocation adds one stop after the last, typically a geocoded point
// the user confirmed on the map.
func (s *Service) AppendLocation(ctx context.Context, userID, tripID string, in models.LocationInput) (*models.TripLocation, error) {
	if ve := validation.ValidateStruct(in); ve != nil {
		return nil, invalid(ve)
	}
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	loc := newLocation(tripID, in, s.now())
	err = s.db.InTripTx(ctx, tripID, func(tx *database.Tx) error {
		n, err := tx.CountLocations(ctx, tripID)
		if err != nil {
			return err
		}
		if n >= maxLocations {
			return invalidField("locations", "Debe tener como máximo 50 elementos")
		}
		return tx.AppendLocation(ctx, &loc)
	})
	if err != nil {
		return nil, wrap("append location", err)
	}
	if trip.IsPublished() {
		s.refreshAnchor(ctx, tripID)
	}
	return &loc, nil
}

func newLocation(tripID string, in models.LocationInput, now time.Time) models.TripLocation {
	return models.TripLocation{
		ID:        uuid.NewString(),
		TripID:    tripID,
		Name:      strings.TrimSpace(in.Name),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		CreatedAt: now,
	}
}
