// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package service holds ContraVento's business rules.
//
// Handlers call one method per operation. Each method validates input,
// checks ownership and visibility, runs its writes in a single database
// transaction, and only after commit touches anything outside the
// database: the photo store, the nearby index, the resize queue and the
// event bus. Every failure is returned as a *Error whose Kind the API maps
// to an HTTP status.
package service

import (
	"context"
	"time"

	"github.com/tomtom215/contravento/internal/auth"
	"github.com/tomtom215/contravento/internal/config"
	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/events"
	"github.com/tomtom215/contravento/internal/geo"
	"github.com/tomtom215/contravento/internal/gpx"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/metrics"
	"github.com/tomtom215/contravento/internal/photos"
	"github.com/tomtom215/contravento/internal/stats"
)

// Enqueuer accepts resize jobs without blocking.
type Enqueuer interface {
	Enqueue(job photos.Job) bool
}

// Pusher delivers live messages to a user's open connections.
type Pusher interface {
	SendToUser(userID, messageType string, data interface{}) bool
	Broadcast(messageType string, data interface{}) bool
}

// Deps are the collaborators of a Service. Resizer, Events, Mailer and
// Pusher may be nil.
type Deps struct {
	Config   *config.Config
	DB       *database.DB
	Photos   *photos.Store
	Resizer  Enqueuer
	Index    *geo.Index
	Events   events.Publisher
	Tokens   *auth.TokenManager
	Sessions auth.SessionStore
	Mailer   auth.Mailer
	Pusher   Pusher
}

// Service implements every API operation.
type Service struct {
	cfg      *config.Config
	db       *database.DB
	store    *photos.Store
	resizer  Enqueuer
	index    *geo.Index
	bus      events.Publisher
	tokens   *auth.TokenManager
	sessions auth.SessionStore
	mailer   auth.Mailer
	pusher   Pusher
	lockout  auth.LockoutPolicy
	simplify gpx.SimplifyOptions

	reconciler *stats.Reconciler
	now        func() time.Time
}

// New creates a Service.
func New(d Deps) *Service {
	s := &Service{
		cfg:      d.Config,
		db:       d.DB,
		store:    d.Photos,
		resizer:  d.Resizer,
		index:    d.Index,
		bus:      d.Events,
		tokens:   d.Tokens,
		sessions: d.Sessions,
		mailer:   d.Mailer,
		pusher:   d.Pusher,
		lockout: auth.LockoutPolicy{
			MaxAttempts: d.Config.Security.MaxLoginAttempts,
			Duration:    d.Config.Security.LockoutDuration,
		},
		simplify: gpx.SimplifyOptions{
			TargetMin:  d.Config.GPX.TargetMin,
			TargetMax:  d.Config.GPX.TargetMax,
			ToleranceM: d.Config.GPX.ToleranceM,
		},
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
	if s.index == nil {
		s.index = geo.NewIndex()
	}
	if s.mailer == nil {
		s.mailer = auth.LogMailer{}
	}
	s.reconciler = stats.NewReconciler(d.DB, func(u stats.Unlock) {
		s.publish(context.Background(), achievementEvent(u.UserID, u.Achievement))
	})
	return s
}

// Reconciler returns the periodic stats reconciler.
func (s *Service) Reconciler() *stats.Reconciler { return s.reconciler }

// ReconcileStats recalculates every user's stats now.
func (s *Service) ReconcileStats(ctx context.Context) (int, error) {
	n, err := s.reconciler.ReconcileAll(ctx)
	if err != nil {
		return n, internal("reconcile stats", err)
	}
	return n, nil
}

// Ping checks the database.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Service) publish(ctx context.Context, evs ...events.Event) {
	events.PublishAfterCommit(ctx, s.bus, evs...)
}

// recalculate runs stats.Recalculate for each user inside tx and returns
// the achievement events to publish after commit.
func recalculate(ctx context.Context, tx *database.Tx, userIDs ...string) ([]events.Event, error) {
	var evs []events.Event
	for _, id := range userIDs {
		res, err := stats.Recalculate(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		for _, a := range res.Unlocked {
			evs = append(evs, achievementEvent(id, a))
		}
	}
	return evs, nil
}

// unlocked records metrics for achievement events after commit.
func (s *Service) unlocked(ctx context.Context, evs []events.Event) {
	for _, e := range evs {
		if e.Topic == events.TopicAchievementUnlocked {
			metrics.RecordAchievementUnlocked(e.AchievementCode)
			logging.Ctx(ctx).Info().Str("user_id", e.RecipientID).Str("achievement", e.AchievementCode).Msg("Achievement unlocked")
		}
	}
	s.publish(ctx, evs...)
}
