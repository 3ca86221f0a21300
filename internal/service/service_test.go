// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/contravento/internal/auth"
	"github.com/tomtom215/contravento/internal/config"
	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/events"
	"github.com/tomtom215/contravento/internal/geo"
	"github.com/tomtom215/contravento/internal/models"
	"github.com/tomtom215/contravento/internal/photos"
)

const testPassword = "Pedales2026"

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) byTopic(topic string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

type recordingMailer struct {
	mu    sync.Mutex
	links map[string]string
}

func (m *recordingMailer) SendVerification(_ context.Context, email, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[email] = link
	return nil
}

func (m *recordingMailer) token(t *testing.T, email string) string {
	t.Helper()
	m.mu.Lock()
	link := m.links[email]
	m.mu.Unlock()
	u, err := url.Parse(link)
	if err != nil || link == "" {
		t.Fatalf("no verification link for %s (%q)", email, link)
	}
	return u.Query().Get("token")
}

type pushed struct {
	userID, messageType string
	data                interface{}
}

type recordingPusher struct {
	mu         sync.Mutex
	direct     []pushed
	broadcasts []pushed
}

func (p *recordingPusher) SendToUser(userID, messageType string, data interface{}) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.direct = append(p.direct, pushed{userID, messageType, data})
	return true
}

func (p *recordingPusher) Broadcast(messageType string, data interface{}) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.broadcasts = append(p.broadcasts, pushed{"", messageType, data})
	return true
}

type recordingEnqueuer struct {
	mu   sync.Mutex
	jobs []photos.Job
}

func (e *recordingEnqueuer) Enqueue(job photos.Job) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job)
	return true
}

type harness struct {
	svc     *Service
	db      *database.DB
	cfg     *config.Config
	store   *photos.Store
	events  *recordingPublisher
	mailer  *recordingMailer
	pusher  *recordingPusher
	resizer *recordingEnqueuer
}

func newHarness(t *testing.T, mutate ...func(*config.Config)) *harness {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := config.Default()
	cfg.Security.JWTSecret = strings.Repeat("s", config.MinJWTSecretLength)
	cfg.Security.BcryptCost = 4
	cfg.Uploads.Dir = t.TempDir()
	for _, m := range mutate {
		m(cfg)
	}

	db, err := database.New(ctx, &config.DatabaseConfig{
		Driver:         database.DriverDuckDB,
		DSN:            ":memory:",
		ConnectRetries: 1,
		Threads:        2,
		MaxMemory:      "512MB",
	})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := photos.NewStore(&cfg.Uploads)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}

	h := &harness{
		db:      db,
		cfg:     cfg,
		store:   store,
		events:  &recordingPublisher{},
		mailer:  &recordingMailer{links: map[string]string{}},
		pusher:  &recordingPusher{},
		resizer: &recordingEnqueuer{},
	}
	h.svc = New(Deps{
		Config:   cfg,
		DB:       db,
		Photos:   store,
		Resizer:  h.resizer,
		Index:    geo.NewIndex(),
		Events:   h.events,
		Tokens:   tokens,
		Sessions: auth.NewMemorySessionStore(),
		Mailer:   h.mailer,
		Pusher:   h.pusher,
	})
	return h
}

// user registers and verifies an account.
func (h *harness) user(t *testing.T, username string) *models.User {
	t.Helper()
	ctx := context.Background()
	u, err := h.svc.Register(ctx, models.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: testPassword,
	})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", username, err)
	}
	if _, err := h.svc.VerifyEmail(ctx, h.mailer.token(t, u.Email)); err != nil {
		t.Fatalf("VerifyEmail(%s) error = %v", username, err)
	}
	return u
}

func longDescription() string {
	return strings.Repeat("Rodando por caminos de tierra. ", 3)
}

// trip creates a draft, publishing it when publish is set.
func (h *harness) trip(t *testing.T, userID string, publish bool, distance float64) *models.TripDetail {
	t.Helper()
	ctx := context.Background()
	in := models.TripInput{
		Title:       strPtr("Vuelta a la sierra"),
		Description: strPtr(longDescription()),
		StartDate:   &models.Date{Time: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	if distance > 0 {
		in.DistanceKm = &distance
	}
	d, err := h.svc.CreateTrip(ctx, userID, in)
	if err != nil {
		t.Fatalf("CreateTrip() error = %v", err)
	}
	if publish {
		if d, err = h.svc.PublishTrip(ctx, userID, d.ID); err != nil {
			t.Fatalf("PublishTrip() error = %v", err)
		}
	}
	return d
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	se, ok := AsError(err)
	if !ok {
		t.Fatalf("error = %v, want *Error with code %s", err, code)
	}
	if se.Code != code {
		t.Fatalf("code = %s, want %s (%v)", se.Code, code, err)
	}
}

func wantKind(t *testing.T, err error, k Kind) {
	t.Helper()
	if !IsKind(err, k) {
		t.Fatalf("error = %v, want kind %d", err, k)
	}
}

func strPtr(s string) *string { return &s }

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}
