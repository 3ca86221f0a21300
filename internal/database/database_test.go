// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/contravento/internal/config"
	"github.com/tomtom215/contravento/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := New(ctx, &config.DatabaseConfig{
		Driver:         DriverDuckDB,
		DSN:            ":memory:",
		ConnectRetries: 1,
		Threads:        2,
		MaxMemory:      "512MB",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, db *DB, username string) *models.User {
	t.Helper()
	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s) error = %v", username, err)
	}
	return u
}

func seedTrip(t *testing.T, db *DB, userID, status string, distance float64) *models.Trip {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	trip := &models.Trip{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       "Ruta por la sierra",
		Description: "Una descripción suficientemente larga para poder publicar este viaje sin problemas.",
		StartDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if distance > 0 {
		trip.DistanceKm = &distance
	}
	if status == models.TripStatusPublished {
		trip.PublishedAt = &now
	}
	if err := db.InsertTrip(context.Background(), trip); err != nil {
		t.Fatalf("InsertTrip() error = %v", err)
	}
	return trip
}

func seedPhoto(t *testing.T, db *DB, tripID string, order int) *models.TripPhoto {
	t.Helper()
	p := &models.TripPhoto{
		ID:           uuid.NewString(),
		TripID:       tripID,
		PhotoURL:     "/uploads/x.jpg",
		StoragePath:  "2026/05/" + tripID + "/x.jpg",
		DisplayOrder: order,
		FileSize:     1024,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.InsertPhoto(context.Background(), p); err != nil {
		t.Fatalf("InsertPhoto() error = %v", err)
	}
	return p
}

func inTx(t *testing.T, db *DB, fn func(tx *Tx) error) {
	t.Helper()
	if err := db.InTx(context.Background(), fn); err != nil {
		t.Fatalf("InTx() error = %v", err)
	}
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(context.Background(), &config.DatabaseConfig{Driver: "sqlite", DSN: "x"})
	if err == nil {
		t.Fatal("New() with unknown driver should fail")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.migrate(ctx); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
	v, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if v != len(migrations) {
		t.Errorf("SchemaVersion() = %d, want %d", v, len(migrations))
	}
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	u := seedUser(t, db, "ana")
	sentinel := errors.New("boom")

	err := db.InTx(context.Background(), func(tx *Tx) error {
		now := time.Now().UTC()
		if err := tx.InsertTrip(context.Background(), &models.Trip{
			ID: uuid.NewString(), UserID: u.ID, Title: "t", StartDate: now,
			Status: models.TripStatusDraft, CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("InTx() error = %v, want sentinel", err)
	}

	_, total, err := db.ListTrips(context.Background(), models.TripFilter{UserID: u.ID, IncludeDrafts: true, PageRequest: models.NewPageRequest(1, 20)})
	if err != nil {
		t.Fatalf("ListTrips() error = %v", err)
	}
	if total != 0 {
		t.Errorf("trip survived rollback: total = %d", total)
	}
}

func TestInTripTx_CountThenInsertHoldsCap(t *testing.T) {
	checkTripTxCap(t, setupTestDB(t), "ciclista")
}

// checkTripTxCap races count-then-insert writers on two trips and expects
// each trip to stop at exactly the cap.
func checkTripTxCap(t *testing.T, db *DB, username string) {
	t.Helper()
	ctx := context.Background()
	u := seedUser(t, db, username)
	trip := seedTrip(t, db, u.ID, models.TripStatusDraft, 0)
	other := seedTrip(t, db, u.ID, models.TripStatusDraft, 0)

	const limit, writers = 3, 10
	var wg sync.WaitGroup
	errs := make(chan error, 2*writers)
	for i := 0; i < writers; i++ {
		for _, tripID := range []string{trip.ID, other.ID} {
			wg.Add(1)
			go func(tripID string) {
				defer wg.Done()
				errs <- db.InTripTx(ctx, tripID, func(tx *Tx) error {
					n, err := tx.CountPhotos(ctx, tripID)
					if err != nil || n >= limit {
						return err
					}
					time.Sleep(2 * time.Millisecond)
					return tx.InsertPhoto(ctx, &models.TripPhoto{
						ID: uuid.NewString(), TripID: tripID, PhotoURL: "/uploads/x.jpg",
						StoragePath: tripID + "/" + uuid.NewString() + ".jpg", DisplayOrder: n,
						FileSize: 1, CreatedAt: time.Now().UTC(),
					})
				})
			}(tripID)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("InTripTx() error = %v", err)
		}
	}

	for _, id := range []string{trip.ID, other.ID} {
		got, err := db.ListPhotos(ctx, id)
		if err != nil {
			t.Fatalf("ListPhotos() error = %v", err)
		}
		if len(got) != limit {
			t.Fatalf("trip %s has %d photos, want %d", id, len(got), limit)
		}
		for i, p := range got {
			if p.DisplayOrder != i {
				t.Errorf("photo %d DisplayOrder = %d", i, p.DisplayOrder)
			}
		}
	}
}
