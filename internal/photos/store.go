// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package photos stores trip photos on the local filesystem and produces
// resized variants in the background.
//
// Originals live at {root}/{yyyy}/{mm}/{trip_id}/{uuid}{ext} and are served
// under the configured public path. The resize worker writes
// {uuid}_thumb.jpg and {uuid}_opt.jpg next to the original.
package photos

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/contravento/internal/config"
)

// DefaultMaxBytes is the upload size limit when none is configured.
const DefaultMaxBytes = 10 << 20

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("file too large")
	ErrInvalidPath     = errors.New("invalid storage path")
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Sniff detects the MIME type from the leading bytes of a file and returns
// the extension used to store it.
func Sniff(head []byte) (mime, ext string, err error) {
	mime = http.DetectContentType(head)
	ext, ok := extensions[mime]
	if !ok {
		return mime, "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
	return mime, ext, nil
}

// Stored describes a saved original.
type Stored struct {
	ID      string
	RelPath string
	URL     string
	MIME    string
	Size    int64
}

// Store is the photo filesystem store.
type Store struct {
	root       string
	publicPath string
	maxBytes   int64
}

// NewStore creates the store root if needed.
func NewStore(cfg *config.UploadsConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("uploads directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	maxBytes := cfg.MaxPhotoBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	public := cfg.PublicPath
	if public == "" {
		public = "/uploads"
	}
	return &Store{root: cfg.Dir, publicPath: public, maxBytes: maxBytes}, nil
}

// Root returns the directory served under PublicPath.
func (s *Store) Root() string { return s.root }

// PublicPath returns the URL prefix originals are served under.
func (s *Store) PublicPath() string { return s.publicPath }

// Save reads an upload, validates its size and type, and writes it under
// the trip's directory for the month of now.
func (s *Store) Save(tripID string, r io.Reader, now time.Time) (*Stored, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}
	mime, ext, err := Sniff(data)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now = now.UTC()
	rel := path.Join(fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), tripID, id+ext)
	abs, err := s.abs(rel)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return nil, fmt.Errorf("create photo directory: %w", err)
	}
	if err := writeFile(abs, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return &Stored{ID: id, RelPath: rel, URL: s.URL(rel), MIME: mime, Size: int64(len(data))}, nil
}

// URL returns the public URL of a stored file.
func (s *Store) URL(rel string) string {
	return path.Join(s.publicPath, rel)
}

// Remove deletes an original and its variants. Missing files are ignored.
func (s *Store) Remove(rel string) error {
	var errs []error
	for _, p := range []string{rel, Variant(rel, SuffixThumb), Variant(rel, SuffixOptimized)} {
		abs, err := s.abs(p)
		if err != nil {
			return err
		}
		if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemoveAll deletes several originals, collecting failures.
func (s *Store) RemoveAll(rels []string) error {
	var errs []error
	for _, rel := range rels {
		if err := s.Remove(rel); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) abs(rel string) (string, error) {
	p := filepath.FromSlash(rel)
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, rel)
	}
	return filepath.Join(s.root, p), nil
}

// Variant suffixes.
const (
	SuffixThumb     = "_thumb"
	SuffixOptimized = "_opt"
)

// Variant returns the relative path of a resized JPEG variant of rel.
func Variant(rel, suffix string) string {
	return strings.TrimSuffix(rel, path.Ext(rel)) + suffix + ".jpg"
}

// writeFile writes through a temp file so readers never see a partial photo.
func writeFile(dst string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write photo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close photo: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("move photo into place: %w", err)
	}
	return nil
}
