// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/events"
	"github.com/tomtom215/contravento/internal/geo"
	"github.com/tomtom215/contravento/internal/geocode"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/models"
	"github.com/tomtom215/contravento/internal/validation"
)

const msgDescriptionTooShort = "La descripción debe tener al menos 50 caracteres para publicar el viaje"

// CreateTrip creates a draft owned by userID.
func (s *Service) CreateTrip(ctx context.Context, userID string, in models.TripInput) (*models.TripDetail, error) {
	if ve := validation.ValidateStruct(in); ve != nil {
		return nil, invalid(ve)
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, invalidField("title", "Este campo es obligatorio")
	}
	if in.StartDate == nil || in.StartDate.IsZero() {
		return nil, invalidField("start_date", "Este campo es obligatorio")
	}

	now := s.now()
	trip := &models.Trip{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    models.TripStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyTripInput(trip, in)
	if err := checkDates(trip); err != nil {
		return nil, err
	}

	err := s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := tx.InsertTrip(ctx, trip); err != nil {
			return err
		}
		if in.Tags != nil {
			return tx.SetTripTags(ctx, trip.ID, *in.Tags)
		}
		return nil
	})
	if err != nil {
		return nil, internal("create trip", err)
	}

	logging.Ctx(ctx).Info().Str("trip_id", trip.ID).Msg("Trip created")
	return s.GetTrip(ctx, userID, trip.ID)
}

// UpdateTrip applies the non-nil fields of in.
func (s *Service) UpdateTrip(ctx context.Context, userID, tripID string, in models.TripInput) (*models.TripDetail, error) {
	if ve := validation.ValidateStruct(in); ve != nil {
		return nil, invalid(ve)
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, invalidField("title", "Este campo es obligatorio")
	}

	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	prevDistance := trip.DistanceKm

	applyTripInput(trip, in)
	if err := checkDates(trip); err != nil {
		return nil, err
	}
	if trip.IsPublished() && models.DescriptionLength(trip.Description) < models.MinPublishDescriptionLength {
		return nil, domainErr(CodeDescriptionTooShort, "description", msgDescriptionTooShort)
	}
	trip.UpdatedAt = s.now()

	var evs []events.Event
	err = s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := tx.UpdateTrip(ctx, trip); err != nil {
			return err
		}
		if in.Tags != nil {
			if err := tx.SetTripTags(ctx, trip.ID, *in.Tags); err != nil {
				return err
			}
		}
		if trip.IsPublished() && !sameFloat(prevDistance, trip.DistanceKm) {
			var err error
			evs, err = recalculate(ctx, tx, trip.UserID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, internal("update trip", err)
	}

	s.unlocked(ctx, evs)
	return s.GetTrip(ctx, userID, trip.ID)
}

// PublishTrip makes a draft public. Publishing a published trip returns it
// unchanged.
func (s *Service) PublishTrip(ctx context.Context, userID, tripID string) (*models.TripDetail, error) {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if trip.IsPublished() {
		return s.GetTrip(ctx, userID, tripID)
	}
	if models.DescriptionLength(trip.Description) < models.MinPublishDescriptionLength {
		return nil, domainErr(CodeDescriptionTooShort, "description", msgDescriptionTooShort)
	}

	now := s.now()
	trip.Status = models.TripStatusPublished
	trip.PublishedAt = &now
	trip.UpdatedAt = now

	var evs []events.Event
	err = s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := tx.UpdateTrip(ctx, trip); err != nil {
			return err
		}
		var err error
		evs, err = recalculate(ctx, tx, trip.UserID)
		return err
	})
	if err != nil {
		return nil, internal("publish trip", err)
	}

	s.refreshAnchor(ctx, trip.ID)
	logging.Ctx(ctx).Info().Str("trip_id", trip.ID).Msg("Trip published")

	published := events.New(events.TopicTripPublished, events.Event{
		ActorID:   trip.UserID,
		TripID:    trip.ID,
		TripTitle: trip.Title,
	})
	s.unlocked(ctx, append([]events.Event{published}, evs...))
	return s.GetTrip(ctx, userID, tripID)
}

// DeleteTrip removes a trip with everything attached to it.
func (s *Service) DeleteTrip(ctx context.Context, userID, tripID string) error {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return err
	}

	var paths []string
	var evs []events.Event
	err = s.db.InTx(ctx, func(tx *database.Tx) error {
		var err error
		if paths, err = tx.DeleteTripCascade(ctx, trip.ID); err != nil {
			return err
		}
		if trip.IsPublished() {
			evs, err = recalculate(ctx, tx, trip.UserID)
		}
		return err
	})
	if err != nil {
		return lookupErr("delete trip", err, msgTripNotFound)
	}

	s.index.Remove(trip.ID)
	if err := s.store.RemoveAll(paths); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("trip_id", trip.ID).Msg("Failed to remove trip photos")
	}
	logging.Ctx(ctx).Info().Str("trip_id", trip.ID).Int("photos", len(paths)).Msg("Trip deleted")
	s.unlocked(ctx, evs)
	return nil
}

// GetTrip returns a trip as seen by viewerID, which may be empty. Drafts
// of other users are reported as not found.
func (s *Service) GetTrip(ctx context.Context, viewerID, tripID string) (*models.TripDetail, error) {
	trip, err := s.visibleTrip(ctx, viewerID, tripID)
	if err != nil {
		return nil, err
	}

	d := &models.TripDetail{Trip: *trip}
	if d.Photos, err = s.db.ListPhotos(ctx, tripID); err != nil {
		return nil, internal("list photos", err)
	}
	if d.Locations, err = s.db.ListLocations(ctx, tripID); err != nil {
		return nil, internal("list locations", err)
	}
	if d.Tags, err = s.db.TripTags(ctx, tripID); err != nil {
		return nil, internal("list tags", err)
	}
	if d.LikeCount, d.CommentCount, err = s.db.TripCounts(ctx, tripID); err != nil {
		return nil, internal("count trip", err)
	}
	if viewerID != "" {
		if d.IsLiked, err = s.db.HasLiked(ctx, tripID, viewerID); err != nil {
			return nil, internal("has liked", err)
		}
	}
	d.GPX, err = s.db.GetGPXFile(ctx, tripID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, internal("get gpx", err)
	}

	authors, err := s.db.GetPublicUsers(ctx, []string{trip.UserID})
	if err != nil {
		return nil, internal("get author", err)
	}
	d.Author = authors[trip.UserID]
	return d, nil
}

// ListUserTrips lists the trips of username. Drafts are included only for
// the owner. status may be empty, draft or published.
func (s *Service) ListUserTrips(ctx context.Context, viewerID, username, status, tag string, p models.PageRequest) ([]models.TripSummary, models.Pagination, error) {
	if status != "" && status != models.TripStatusDraft && status != models.TripStatusPublished {
		return nil, models.Pagination{}, invalidField("status", "Debe ser uno de: draft published")
	}
	owner, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, models.Pagination{}, lookupErr("get user", err, msgUserNotFound)
	}

	f := models.TripFilter{
		UserID:        owner.ID,
		Status:        status,
		Tag:           tag,
		IncludeDrafts: viewerID == owner.ID,
		PageRequest:   p,
	}
	if !f.IncludeDrafts && status == models.TripStatusDraft {
		return []models.TripSummary{}, models.NewPagination(p, 0), nil
	}

	trips, total, err := s.db.ListTrips(ctx, f)
	if err != nil {
		return nil, models.Pagination{}, internal("list trips", err)
	}
	return trips, models.NewPagination(p, total), nil
}

// ListPublicTrips lists published trips, newest first.
func (s *Service) ListPublicTrips(ctx context.Context, tag string, p models.PageRequest) ([]models.TripSummary, models.Pagination, error) {
	trips, total, err := s.db.ListTrips(ctx, models.TripFilter{Status: models.TripStatusPublished, Tag: tag, PageRequest: p})
	if err != nil {
		return nil, models.Pagination{}, internal("list public trips", err)
	}
	return trips, models.NewPagination(p, total), nil
}

// NearbyTrips returns published trips whose first location lies within
// radiusKm of (lat, lon), nearest first. A zero radius uses the default.
func (s *Service) NearbyTrips(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]models.NearbyTrip, error) {
	if err := (geocode.Coordinates{Latitude: lat, Longitude: lon}).Validate(); err != nil {
		return nil, invalidField("lat", "Coordenadas no válidas")
	}
	maxKm := s.cfg.API.NearbyMaxKm
	if radiusKm == 0 {
		radiusKm = s.cfg.API.NearbyDefaultKm
	}
	if radiusKm <= 0 || (maxKm > 0 && radiusKm > maxKm) {
		return nil, invalidField("radius_km", "Radio de búsqueda no válido")
	}
	if limit < 1 || limit > models.MaxPageSize {
		limit = models.DefaultPageSize
	}

	hits := s.index.Within(lat, lon, radiusKm)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.TripID
	}
	summaries, err := s.db.TripSummariesByIDs(ctx, ids)
	if err != nil {
		return nil, internal("nearby summaries", err)
	}

	out := make([]models.NearbyTrip, 0, len(hits))
	for _, h := range hits {
		sum, ok := summaries[h.TripID]
		if !ok || sum.Status != models.TripStatusPublished {
			continue
		}
		out = append(out, models.NearbyTrip{
			TripSummary:  sum,
			LocationName: h.Name,
			Latitude:     h.Latitude,
			Longitude:    h.Longitude,
			DistanceFrom: h.DistanceKm,
		})
	}
	return out, nil
}

// RebuildNearbyIndex loads the anchor of every published trip.
func (s *Service) RebuildNearbyIndex(ctx context.Context) error {
	rows, err := s.db.PublishedTripAnchors(ctx)
	if err != nil {
		return internal("load trip anchors", err)
	}
	anchors := make([]geo.Anchor, len(rows))
	for i, r := range rows {
		anchors[i] = geo.Anchor{TripID: r.TripID, Name: r.Name, Latitude: r.Latitude, Longitude: r.Longitude}
	}
	s.index.Rebuild(anchors)
	logging.Ctx(ctx).Info().Int("trips", len(anchors)).Msg("Nearby index rebuilt")
	return nil
}

// PopularTags returns the most used tags.
func (s *Service) PopularTags(ctx context.Context, limit int) ([]models.Tag, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	tags, err := s.db.PopularTags(ctx, limit)
	if err != nil {
		return nil, internal("popular tags", err)
	}
	return tags, nil
}

// refreshAnchor syncs the nearby index with the trip's first geolocated
// location.
func (s *Service) refreshAnchor(ctx context.Context, tripID string) {
	a, err := s.db.TripAnchor(ctx, tripID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		s.index.Remove(tripID)
	case err != nil:
		logging.Ctx(ctx).Warn().Err(err).Str("trip_id", tripID).Msg("Failed to refresh nearby index")
	default:
		s.index.Upsert(geo.Anchor{TripID: a.TripID, Name: a.Name, Latitude: a.Latitude, Longitude: a.Longitude})
	}
}

// visibleTrip loads a trip viewerID may read.
func (s *Service) visibleTrip(ctx context.Context, viewerID, tripID string) (*models.Trip, error) {
	trip, err := s.db.GetTrip(ctx, tripID)
	if err != nil {
		return nil, lookupErr("get trip", err, msgTripNotFound)
	}
	if !trip.IsPublished() && trip.UserID != viewerID {
		return nil, notFound(msgTripNotFound)
	}
	return trip, nil
}

// publishedTrip loads a trip that accepts social interaction.
func (s *Service) publishedTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := s.db.GetTrip(ctx, tripID)
	if err != nil {
		return nil, lookupErr("get trip", err, msgTripNotFound)
	}
	if !trip.IsPublished() {
		return nil, notFound(msgTripNotFound)
	}
	return trip, nil
}

// ownedTrip loads a trip userID may modify.
func (s *Service) ownedTrip(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	trip, err := s.visibleTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	if trip.UserID != userID {
		return nil, forbidden(msgNotOwner)
	}
	return trip, nil
}

func applyTripInput(t *models.Trip, in models.TripInput) {
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.StartDate != nil && !in.StartDate.IsZero() {
		t.StartDate = in.StartDate.Time
	}
	if in.EndDate != nil {
		if in.EndDate.IsZero() {
			t.EndDate = nil
		} else {
			end := in.EndDate.Time
			t.EndDate = &end
		}
	}
	if in.DistanceKm != nil {
		d := *in.DistanceKm
		t.DistanceKm = &d
	}
	if in.Difficulty != nil {
		d := *in.Difficulty
		t.Difficulty = &d
	}
}

func checkDates(t *models.Trip) error {
	if t.EndDate != nil && t.EndDate.Before(t.StartDate) {
		return invalidField("end_date", "La fecha de fin no puede ser anterior a la de inicio")
	}
	return nil
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
