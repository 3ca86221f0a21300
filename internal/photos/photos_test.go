// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package photos

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/contravento/internal/config"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func newStore(t *testing.T, maxBytes int64) (*Store, *config.UploadsConfig) {
	t.Helper()
	cfg := &config.UploadsConfig{Dir: t.TempDir(), PublicPath: "/uploads", MaxPhotoBytes: maxBytes, ResizeQueueSize: 1}
	s, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s, cfg
}

func TestSniff(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, image.NewGray(image.Rect(0, 0, 2, 2)), nil); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		data    []byte
		wantExt string
		wantErr bool
	}{
		{"png", pngBytes(t, 2, 2), ".png", false},
		{"jpeg", jpg.Bytes(), ".jpg", false},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), ".webp", false},
		{"text", []byte("hola mundo"), "", true},
		{"gpx", []byte(`<?xml version="1.0"?><gpx></gpx>`), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ext, err := Sniff(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Sniff() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnsupportedType) {
				t.Errorf("Sniff() error = %v, want ErrUnsupportedType", err)
			}
			if ext != tt.wantExt {
				t.Errorf("Sniff() ext = %q, want %q", ext, tt.wantExt)
			}
		})
	}
}

func TestStore_SaveLayout(t *testing.T) {
	s, _ := newStore(t, 0)
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	got, err := s.Save("trip-1", bytes.NewReader(pngBytes(t, 10, 10)), now)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	want := "2026/03/trip-1/" + got.ID + ".png"
	if got.RelPath != want {
		t.Errorf("RelPath = %q, want %q", got.RelPath, want)
	}
	if got.URL != "/uploads/"+want {
		t.Errorf("URL = %q", got.URL)
	}
	if got.MIME != "image/png" {
		t.Errorf("MIME = %q", got.MIME)
	}
	info, err := os.Stat(filepath.Join(s.Root(), filepath.FromSlash(want)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if info.Size() != got.Size {
		t.Errorf("size on disk = %d, reported %d", info.Size(), got.Size)
	}
}

func TestStore_SaveRejects(t *testing.T) {
	s, _ := newStore(t, 64)

	if _, err := s.Save("t", bytes.NewReader(pngBytes(t, 50, 50)), time.Now()); !errors.Is(err, ErrTooLarge) {
		t.Errorf("oversized Save() error = %v, want ErrTooLarge", err)
	}
	if _, err := s.Save("t", strings.NewReader("not an image"), time.Now()); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("text Save() error = %v, want ErrUnsupportedType", err)
	}
	if err := s.Remove("../../etc/passwd"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Remove(traversal) error = %v, want ErrInvalidPath", err)
	}
}

func TestResizer_Process(t *testing.T) {
	tests := []struct {
		name           string
		w, h           int
		thumbW, thumbH int
		optW, optH     int
	}{
		{"landscape", 2400, 1200, 400, 200, 2000, 1000},
		{"portrait", 600, 2500, 400, 1666, 480, 2000},
		{"small", 300, 200, 300, 200, 300, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, cfg := newStore(t, 0)
			stored, err := s.Save("trip", bytes.NewReader(pngBytes(t, tt.w, tt.h)), time.Now())
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			r := NewResizer(s, cfg, nil)
			v, err := r.Process(Job{PhotoID: stored.ID, RelPath: stored.RelPath})
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if v.Width != tt.w || v.Height != tt.h {
				t.Errorf("original = %dx%d, want %dx%d", v.Width, v.Height, tt.w, tt.h)
			}
			if !strings.HasSuffix(v.ThumbURL, stored.ID+"_thumb.jpg") {
				t.Errorf("ThumbURL = %q", v.ThumbURL)
			}
			checkJPEG(t, s, Variant(stored.RelPath, SuffixThumb), tt.thumbW, tt.thumbH)
			checkJPEG(t, s, Variant(stored.RelPath, SuffixOptimized), tt.optW, tt.optH)

			if err := s.Remove(stored.RelPath); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if _, err := os.Stat(filepath.Join(s.Root(), filepath.FromSlash(Variant(stored.RelPath, SuffixThumb)))); !os.IsNotExist(err) {
				t.Errorf("thumbnail survived Remove: %v", err)
			}
		})
	}
}

func checkJPEG(t *testing.T, s *Store, rel string, w, h int) {
	t.Helper()
	f, err := os.Open(filepath.Join(s.Root(), filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("open %s: %v", rel, err)
	}
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", rel, err)
	}
	if cfg.Width != w || cfg.Height != h {
		t.Errorf("%s = %dx%d, want %dx%d", rel, cfg.Width, cfg.Height, w, h)
	}
}

func TestResizer_QueueFullDrops(t *testing.T) {
	s, cfg := newStore(t, 0)
	r := NewResizer(s, cfg, nil)

	if !r.Enqueue(Job{PhotoID: "a"}) {
		t.Fatal("first Enqueue() = false")
	}
	if r.Enqueue(Job{PhotoID: "b"}) {
		t.Error("Enqueue() on full queue = true, want dropped")
	}
	if r.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", r.Pending())
	}
}

func TestResizer_ServeRunsJobs(t *testing.T) {
	s, cfg := newStore(t, 0)
	done := make(chan Variants, 1)
	r := NewResizer(s, cfg, func(_ context.Context, _ Job, v Variants) error {
		done <- v
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Serve(ctx) }()

	stored, err := s.Save("trip", bytes.NewReader(pngBytes(t, 800, 600)), time.Now())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	r.Enqueue(Job{PhotoID: stored.ID, RelPath: stored.RelPath})

	select {
	case v := <-done:
		if v.Width != 800 || v.Height != 600 {
			t.Errorf("variants = %+v", v)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("resize job did not complete")
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestResizer_ProcessMissingFile(t *testing.T) {
	s, cfg := newStore(t, 0)
	r := NewResizer(s, cfg, nil)
	if _, err := r.Process(Job{PhotoID: "x", RelPath: "2026/01/t/missing.png"}); err == nil {
		t.Error("Process(missing) should fail")
	}
}
