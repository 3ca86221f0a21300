// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/tomtom215/contravento/internal/config"
	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/models"
	"github.com/tomtom215/contravento/internal/photos"
)

func TestUploadPhoto(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Uploads.MaxPhotosPerTrip = 2 })
	ctx := context.Background()
	ana := h.user(t, "ana")
	luis := h.user(t, "luis")
	trip := h.trip(t, ana.ID, true, 0)

	_, err := h.svc.UploadPhoto(ctx, ana.ID, trip.ID, strings.NewReader("%PDF-1.4 not an image"), nil)
	wantCode(t, err, CodeInvalidFileType)
	_, err = h.svc.UploadPhoto(ctx, ana.ID, trip.ID, bytes.NewReader(pngBytes(t, 4, 4)), strPtr(strings.Repeat("a", 501)))
	wantCode(t, err, CodeValidation)
	_, err = h.svc.UploadPhoto(ctx, luis.ID, trip.ID, bytes.NewReader(pngBytes(t, 4, 4)), nil)
	wantCode(t, err, CodeForbidden)

	first, err := h.svc.UploadPhoto(ctx, ana.ID, trip.ID, bytes.NewReader(pngBytes(t, 8, 6)), strPtr("Llegada"))
	if err != nil {
		t.Fatalf("UploadPhoto() error = %v", err)
	}
	if first.DisplayOrder != 0 || first.PhotoURL == "" || first.Caption == nil || *first.Caption != "Llegada" {
		t.Errorf("photo = %+v", first)
	}
	if _, err := os.Stat(filepath.Join(h.cfg.Uploads.Dir, filepath.FromSlash(first.StoragePath))); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
	second, err := h.svc.UploadPhoto(ctx, ana.ID, trip.ID, bytes.NewReader(pngBytes(t, 8, 6)), nil)
	if err != nil {
		t.Fatalf("UploadPhoto() error = %v", err)
	}
	if second.DisplayOrder != 1 {
		t.Errorf("second DisplayOrder = %d, want 1", second.DisplayOrder)
	}

	_, err = h.svc.UploadPhoto(ctx, ana.ID, trip.ID, bytes.NewReader(pngBytes(t, 8, 6)), nil)
	wantCode(t, err, CodePhotoLimitReached)

	if len(h.resizer.jobs) != 2 || h.resizer.jobs[0].PhotoID != first.ID {
		t.Errorf("resize jobs = %+v", h.resizer.jobs)
	}
	st, _ := h.svc.GetStats(ctx, "ana")
	if st.PhotoCount != 2 {
		t.Errorf("photo_count = %d, want 2", st.PhotoCount)
	}
}

func TestUploadPhoto_ConcurrentUploadsRespectLimit(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Uploads.MaxPhotosPerTrip = 2 })
	ctx := context.Background()
	ana := h.user(t, "ana")
	trip := h.trip(t, ana.ID, false, 0)
	img := pngBytes(t, 8, 6)

	const uploads = 8
	var wg sync.WaitGroup
	errs := make(chan error, uploads)
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.UploadPhoto(ctx, ana.ID, trip.ID, bytes.NewReader(img), nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		wantCode(t, err, CodePhotoLimitReached)
	}
	if ok != 2 {
		t.Errorf("successful uploads = %d, want 2", ok)
	}

	got, err := h.db.ListPhotos(ctx, trip.ID)
	if err != nil {
		t.Fatalf("ListPhotos() error = %v", err)
	}
	if len(got) != 2 || got[0].DisplayOrder != 0 || got[1].DisplayOrder != 1 {
		t.Errorf("photos = %+v, want display orders 0 and 1", got)
	}

	files := 0
	err = filepath.WalkDir(h.cfg.Uploads.Dir, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && d.Type().IsRegular() {
			files++
		}
		return err
	})
	if err != nil {
		t.Fatalf("WalkDir() error = %v", err)
	}
	if files != 2 {
		t.Errorf("files on disk = %d, want 2 (rejected uploads must be removed)", files)
	}
}

func TestPhotoOrderAndDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana := h.user(t, "ana")
	trip := h.trip(t, ana.ID, false, 0)

	var ids []string
	for i := 0; i < 3; i++ {
		p, err := h.svc.UploadPhoto(ctx, ana.ID, trip.ID, bytes.NewReader(pngBytes(t, 4, 4)), nil)
		if err != nil {
			t.Fatalf("UploadPhoto(%d) error = %v", i, err)
		}
		ids = append(ids, p.ID)
	}

	_, err := h.svc.ReorderPhotos(ctx, ana.ID, trip.ID, models.PhotoOrderInput{PhotoIDs: []string{ids[0], ids[0], ids[1]}})
	wantCode(t, err, CodeValidation)
	_, err = h.svc.ReorderPhotos(ctx, ana.ID, trip.ID, models.PhotoOrderInput{PhotoIDs: ids[:2]})
	wantCode(t, err, CodeValidation)

	reordered, err := h.svc.ReorderPhotos(ctx, ana.ID, trip.ID, models.PhotoOrderInput{PhotoIDs: []string{ids[2], ids[0], ids[1]}})
	if err != nil {
		t.Fatalf("ReorderPhotos() error = %v", err)
	}
	for i, want := range []string{ids[2], ids[0], ids[1]} {
		if reordered[i].ID != want || reordered[i].DisplayOrder != i {
			t.Errorf("position %d = %s (order %d), want %s", i, reordered[i].ID, reordered[i].DisplayOrder, want)
		}
	}

	captioned, err := h.svc.UpdatePhotoCaption(ctx, ana.ID, trip.ID, ids[1], models.CaptionInput{Caption: strPtr("Puerto")})
	if err != nil {
		t.Fatalf("UpdatePhotoCaption() error = %v", err)
	}
	if captioned.Caption == nil || *captioned.Caption != "Puerto" {
		t.Errorf("caption = %v", captioned.Caption)
	}

	if err := h.svc.DeletePhoto(ctx, ana.ID, trip.ID, ids[2]); err != nil {
		t.Fatalf("DeletePhoto() error = %v", err)
	}
	wantKind(t, h.svc.DeletePhoto(ctx, ana.ID, trip.ID, ids[2]), KindNotFound)

	left, err := h.db.ListPhotos(ctx, trip.ID)
	if err != nil {
		t.Fatalf("ListPhotos() error = %v", err)
	}
	if len(left) != 2 || left[0].ID != ids[0] || left[0].DisplayOrder != 0 || left[1].DisplayOrder != 1 {
		t.Errorf("after delete = %+v", left)
	}
}

func TestRecordVariants(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana := h.user(t, "ana")
	trip := h.trip(t, ana.ID, false, 0)

	p, err := h.svc.UploadPhoto(ctx, ana.ID, trip.ID, bytes.NewReader(pngBytes(t, 4, 4)), nil)
	if err != nil {
		t.Fatalf("UploadPhoto() error = %v", err)
	}
	done := RecordVariants(h.db, h.store)
	job := photos.Job{PhotoID: p.ID, RelPath: p.StoragePath}
	if err := done(ctx, job, photos.Variants{ThumbURL: "/uploads/x_thumb.png", Width: 4, Height: 4}); err != nil {
		t.Fatalf("done() error = %v", err)
	}
	got, _ := h.db.GetPhoto(ctx, trip.ID, p.ID)
	if got.ThumbURL == nil || *got.ThumbURL != "/uploads/x_thumb.png" || got.Width == nil || *got.Width != 4 {
		t.Errorf("variants not recorded: %+v", got)
	}

	// A photo deleted while queued has its file cleaned up.
	if err := h.db.InTx(ctx, func(tx *database.Tx) error { return tx.DeletePhoto(ctx, trip.ID, p.ID) }); err != nil {
		t.Fatalf("DeletePhoto() error = %v", err)
	}
	if err := done(ctx, job, photos.Variants{ThumbURL: "/uploads/x_thumb.png", Width: 4, Height: 4}); err != nil {
		t.Fatalf("done() after delete error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(h.cfg.Uploads.Dir, filepath.FromSlash(p.StoragePath))); !os.IsNotExist(err) {
		t.Errorf("orphaned file still present: %v", err)
	}
}

// gpxDoc renders n points heading north from Madrid, about 1.1 km apart.
func gpxDoc(n int) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg>`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<trkpt lat="%.5f" lon="-3.70380"><ele>%d</ele></trkpt>`, 40.4168+float64(i)*0.01, 650+i*10)
	}
	b.WriteString(`</trkseg></trk></gpx>`)
	return []byte(b.String())
}

func TestUploadGPX(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana := h.user(t, "ana")
	luis := h.user(t, "luis")
	trip := h.trip(t, ana.ID, true, 0)

	_, err := h.svc.UploadGPX(ctx, ana.ID, trip.ID, "roto.gpx", []byte("esto no es xml <gpx"))
	wantCode(t, err, CodeInvalidGPX)
	_, err = h.svc.UploadGPX(ctx, luis.ID, trip.ID, "ruta.gpx", gpxDoc(10))
	wantCode(t, err, CodeForbidden)

	f, err := h.svc.UploadGPX(ctx, ana.ID, trip.ID, "ruta.gpx", gpxDoc(10))
	if err != nil {
		t.Fatalf("UploadGPX() error = %v", err)
	}
	if f.TotalPoints != 10 || !f.HasElevation || f.DistanceKm == nil || *f.DistanceKm < 9 || *f.DistanceKm > 11 {
		t.Errorf("gpx = %+v", f)
	}

	d, err := h.svc.GetTrip(ctx, ana.ID, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip() error = %v", err)
	}
	if d.DistanceKm == nil || *d.DistanceKm != *f.DistanceKm {
		t.Errorf("trip distance = %v, want filled from gpx", d.DistanceKm)
	}
	if d.GPX == nil || d.GPX.ID != f.ID {
		t.Errorf("trip detail gpx = %+v", d.GPX)
	}
	st, _ := h.svc.GetStats(ctx, "ana")
	if st.TotalDistanceKm < 9 {
		t.Errorf("total_distance_km = %v, want recalculated", st.TotalDistanceKm)
	}

	track, err := h.svc.GetTrack(ctx, luis.ID, trip.ID)
	if err != nil {
		t.Fatalf("GetTrack() error = %v", err)
	}
	if len(track.Points) < 2 || track.Points[0].DistanceKm != 0 {
		t.Errorf("track = %+v", track)
	}

	// A second upload replaces the first.
	again, err := h.svc.UploadGPX(ctx, ana.ID, trip.ID, "otra.gpx", gpxDoc(4))
	if err != nil {
		t.Fatalf("UploadGPX() second error = %v", err)
	}
	got, _ := h.svc.GetGPX(ctx, luis.ID, trip.ID)
	if got.ID != again.ID || got.FileName != "otra.gpx" {
		t.Errorf("GetGPX() = %+v, want replacement", got)
	}

	if err := h.svc.DeleteGPX(ctx, ana.ID, trip.ID); err != nil {
		t.Fatalf("DeleteGPX() error = %v", err)
	}
	wantKind(t, h.svc.DeleteGPX(ctx, ana.ID, trip.ID), KindNotFound)
	_, err = h.svc.GetTrack(ctx, ana.ID, trip.ID)
	wantKind(t, err, KindNotFound)

	// The trip keeps the distance taken from the deleted file.
	d, _ = h.svc.GetTrip(ctx, ana.ID, trip.ID)
	if d.DistanceKm == nil {
		t.Error("trip distance cleared by DeleteGPX")
	}
}

func TestUploadGPX_KeepsManualDistance(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana := h.user(t, "ana")
	trip := h.trip(t, ana.ID, false, 42)

	if _, err := h.svc.UploadGPX(ctx, ana.ID, trip.ID, "ruta.gpx", gpxDoc(5)); err != nil {
		t.Fatalf("UploadGPX() error = %v", err)
	}
	d, _ := h.svc.GetTrip(ctx, ana.ID, trip.ID)
	if d.DistanceKm == nil || *d.DistanceKm != 42 {
		t.Errorf("distance = %v, want 42", d.DistanceKm)
	}
}
