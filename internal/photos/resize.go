// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package photos

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register decoder
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/tomtom215/contravento/internal/config"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/metrics"
)

// Resize defaults.
const (
	DefaultQueueSize    = 64
	DefaultThumbWidth   = 400
	DefaultOptimizedMax = 2000
	jpegQuality         = 85
)

// Job asks the worker to produce the variants of one stored original.
type Job struct {
	PhotoID string
	RelPath string
}

// Variants is the outcome of a resize job.
type Variants struct {
	ThumbURL     string
	OptimizedURL string
	Width        int
	Height       int
}

// DoneFunc receives the variants of a finished job.
type DoneFunc func(ctx context.Context, job Job, v Variants) error

// Resizer is a single background worker fed by a bounded queue. Jobs are
// fire-and-forget: failures are logged and never retried.
type Resizer struct {
	store        *Store
	queue        chan Job
	thumbWidth   int
	optimizedMax int
	onDone       DoneFunc
}

// NewResizer creates a worker. onDone may be nil.
func NewResizer(store *Store, cfg *config.UploadsConfig, onDone DoneFunc) *Resizer {
	size := cfg.ResizeQueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	thumb := cfg.ThumbWidth
	if thumb <= 0 {
		thumb = DefaultThumbWidth
	}
	opt := cfg.OptimizedMaxPx
	if opt <= 0 {
		opt = DefaultOptimizedMax
	}
	return &Resizer{
		store:        store,
		queue:        make(chan Job, size),
		thumbWidth:   thumb,
		optimizedMax: opt,
		onDone:       onDone,
	}
}

// Enqueue submits a job without blocking. A full queue drops the job.
func (r *Resizer) Enqueue(job Job) bool {
	select {
	case r.queue <- job:
		return true
	default:
		metrics.RecordResizeJob("dropped")
		logging.Warn().Str("photo_id", job.PhotoID).Int("queue_size", cap(r.queue)).
			Msg("Resize queue full, dropping job")
		return false
	}
}

// Pending returns the number of queued jobs.
func (r *Resizer) Pending() int { return len(r.queue) }

// Serve implements suture.Service.
func (r *Resizer) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-r.queue:
			r.run(ctx, job)
		}
	}
}

// String implements fmt.Stringer for suture logs.
func (r *Resizer) String() string { return "photo-resizer" }

func (r *Resizer) run(ctx context.Context, job Job) {
	v, err := r.Process(job)
	if err != nil {
		metrics.RecordResizeJob("error")
		logging.Error().Err(err).Str("photo_id", job.PhotoID).Str("path", job.RelPath).Msg("Photo resize failed")
		return
	}
	if r.onDone != nil {
		if err := r.onDone(ctx, job, v); err != nil {
			metrics.RecordResizeJob("error")
			logging.Error().Err(err).Str("photo_id", job.PhotoID).Msg("Failed to record photo variants")
			return
		}
	}
	metrics.RecordResizeJob("ok")
	logging.Debug().Str("photo_id", job.PhotoID).Int("width", v.Width).Int("height", v.Height).Msg("Photo resized")
}

// Process decodes the original and writes the thumbnail and optimized
// variants. Width and Height are the original's dimensions.
func (r *Resizer) Process(job Job) (Variants, error) {
	src, err := r.store.abs(job.RelPath)
	if err != nil {
		return Variants{}, err
	}
	f, err := os.Open(src)
	if err != nil {
		return Variants{}, fmt.Errorf("open original: %w", err)
	}
	img, _, err := image.Decode(f)
	_ = f.Close()
	if err != nil {
		return Variants{}, fmt.Errorf("decode original: %w", err)
	}

	b := img.Bounds()
	tw, th := fitWidth(b.Dx(), b.Dy(), r.thumbWidth)
	ow, oh := fitBox(b.Dx(), b.Dy(), r.optimizedMax)

	thumbRel := Variant(job.RelPath, SuffixThumb)
	if err := r.writeScaled(img, tw, th, thumbRel); err != nil {
		return Variants{}, err
	}
	optRel := Variant(job.RelPath, SuffixOptimized)
	if err := r.writeScaled(img, ow, oh, optRel); err != nil {
		return Variants{}, err
	}

	return Variants{
		ThumbURL:     r.store.URL(thumbRel),
		OptimizedURL: r.store.URL(optRel),
		Width:        b.Dx(),
		Height:       b.Dy(),
	}, nil
}

func (r *Resizer) writeScaled(src image.Image, w, h int, rel string) error {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG has no alpha; flatten onto white.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("encode %s: %w", rel, err)
	}
	abs, err := r.store.abs(rel)
	if err != nil {
		return err
	}
	return writeFile(abs, &buf)
}

// fitWidth scales to width max, never upscaling.
func fitWidth(w, h, maxW int) (int, int) {
	if w <= maxW {
		return w, h
	}
	return maxW, max(1, h*maxW/w)
}

// fitBox scales so the longest side is at most maxSide, never upscaling.
func fitBox(w, h, maxSide int) (int, int) {
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	if w >= h {
		return maxSide, max(1, h*maxSide/w)
	}
	return max(1, w*maxSide/h), maxSide
}
