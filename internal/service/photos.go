// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/events"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/models"
	"github.com/tomtom215/contravento/internal/photos"
	"github.com/tomtom215/contravento/internal/validation"
)

const maxCaptionLength = 500

// UploadPhoto stores a photo for a trip the caller owns and queues its
// resize.
func (s *Service) UploadPhoto(ctx context.Context, userID, tripID string, r io.Reader, caption *string) (*models.TripPhoto, error) {
	if caption != nil && utf8.RuneCountInString(*caption) > maxCaptionLength {
		return nil, invalidField("caption", "Debe tener como máximo 500 caracteres")
	}
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	limit := s.maxPhotos()
	n, err := s.db.CountPhotos(ctx, tripID)
	if err != nil {
		return nil, internal("count photos", err)
	}
	if n >= limit {
		return nil, photoLimit()
	}

	stored, err := s.store.Save(tripID, r, s.now())
	switch {
	case errors.Is(err, photos.ErrTooLarge):
		return nil, &Error{Kind: KindTooLarge, Code: CodeFileTooLarge, Field: "photo", Message: "La foto supera el tamaño máximo de 10 MB"}
	case errors.Is(err, photos.ErrUnsupportedType):
		return nil, domainErr(CodeInvalidFileType, "photo", "Formato no permitido. Usa JPEG, PNG o WebP")
	case err != nil:
		return nil, internal("save photo", err)
	}

	photo := &models.TripPhoto{
		ID:          stored.ID,
		TripID:      tripID,
		PhotoURL:    stored.URL,
		StoragePath: stored.RelPath,
		Caption:     caption,
		FileSize:    stored.Size,
		CreatedAt:   s.now(),
	}

	var evs []events.Event
	err = s.db.InTripTx(ctx, tripID, func(tx *database.Tx) error {
		n, err := tx.CountPhotos(ctx, tripID)
		if err != nil {
			return err
		}
		if n >= limit {
			return photoLimit()
		}
		photo.DisplayOrder = n
		if err := tx.InsertPhoto(ctx, photo); err != nil {
			return err
		}
		if trip.IsPublished() {
			evs, err = recalculate(ctx, tx, trip.UserID)
		}
		return err
	})
	if err != nil {
		if rmErr := s.store.Remove(stored.RelPath); rmErr != nil {
			logging.Ctx(ctx).Warn().Err(rmErr).Str("path", stored.RelPath).Msg("Failed to remove orphaned upload")
		}
		return nil, wrap("insert photo", err)
	}

	if s.resizer != nil {
		s.resizer.Enqueue(photos.Job{PhotoID: photo.ID, RelPath: photo.StoragePath})
	}
	logging.Ctx(ctx).Info().Str("trip_id", tripID).Str("photo_id", photo.ID).Int64("bytes", photo.FileSize).Msg("Photo uploaded")
	s.unlocked(ctx, evs)
	return photo, nil
}

// DeletePhoto removes a photo and renumbers the rest.
func (s *Service) DeletePhoto(ctx context.Context, userID, tripID, photoID string) error {
	trip, err := s.ownedTrip(ctx, userID, tripID)
	if err != nil {
		return err
	}
	photo, err := s.db.GetPhoto(ctx, tripID, photoID)
	if err != nil {
		return lookupErr("get photo", err, msgPhotoNotFound)
	}

	var evs []events.Event
	err = s.db.InTx(ctx, func(tx *database.Tx) error {
		if err := tx.DeletePhoto(ctx, tripID, photoID); err != nil {
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
		return lookupErr("delete photo", err, msgPhotoNotFound)
	}

	if err := s.store.Remove(photo.StoragePath); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("photo_id", photoID).Msg("Failed to remove photo file")
	}
	s.unlocked(ctx, evs)
	return nil
}

// UpdatePhotoCaption sets or clears a photo's caption.
func (s *Service) UpdatePhotoCaption(ctx context.Context, userID, tripID, photoID string, in models.CaptionInput) (*models.TripPhoto, error) {
	if ve := validation.ValidateStruct(in); ve != nil {
		return nil, invalid(ve)
	}
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}
	if err := s.db.UpdatePhotoCaption(ctx, tripID, photoID, in.Caption); err != nil {
		return nil, lookupErr("update caption", err, msgPhotoNotFound)
	}
	photo, err := s.db.GetPhoto(ctx, tripID, photoID)
	if err != nil {
		return nil, lookupErr("get photo", err, msgPhotoNotFound)
	}
	return photo, nil
}

// ReorderPhotos sets the display order. in.PhotoIDs must be a permutation
// of the trip's photos.
func (s *Service) ReorderPhotos(ctx context.Context, userID, tripID string, in models.PhotoOrderInput) ([]models.TripPhoto, error) {
	if ve := validation.ValidateStruct(in); ve != nil {
		return nil, invalid(ve)
	}
	if _, err := s.ownedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	current, err := s.db.ListPhotos(ctx, tripID)
	if err != nil {
		return nil, internal("list photos", err)
	}
	if !isPermutation(current, in.PhotoIDs) {
		return nil, invalidField("photo_ids", "Debe contener exactamente las fotos del viaje, sin repetir")
	}

	err = s.db.InTx(ctx, func(tx *database.Tx) error {
		return tx.SetPhotoOrder(ctx, tripID, in.PhotoIDs)
	})
	if err != nil {
		return nil, internal("reorder photos", err)
	}

	out, err := s.db.ListPhotos(ctx, tripID)
	if err != nil {
		return nil, internal("list photos", err)
	}
	return out, nil
}

// RecordVariants returns the resize callback that stores the thumbnail URL
// and dimensions. Variants of a photo deleted while it was queued are
// removed.
func RecordVariants(db *database.DB, store *photos.Store) photos.DoneFunc {
	return func(ctx context.Context, job photos.Job, v photos.Variants) error {
		err := db.SetPhotoVariants(ctx, job.PhotoID, v.ThumbURL, v.Width, v.Height)
		if errors.Is(err, database.ErrNotFound) {
			return store.Remove(job.RelPath)
		}
		return err
	}
}

func (s *Service) maxPhotos() int {
	if n := s.cfg.Uploads.MaxPhotosPerTrip; n > 0 {
		return n
	}
	return 20
}

func photoLimit() *Error {
	return domainErr(CodePhotoLimitReached, "photo", "El viaje ya tiene el máximo de 20 fotos")
}

func isPermutation(current []models.TripPhoto, ids []string) bool {
	if len(current) != len(ids) {
		return false
	}
	want := make(map[string]bool, len(current))
	for _, p := range current {
		want[p.ID] = true
	}
	for _, id := range ids {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return true
}
