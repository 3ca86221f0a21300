// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package services

import (
	"context"
	"time"

	"github.com/tomtom215/contravento/internal/logging"
)

// TickerService calls fn every interval. A failing run is logged and the
// next tick still fires; only a panic restarts the service.
type TickerService struct {
	name     string
	interval time.Duration
	fn       func(context.Context) error

	// RunAtStart runs fn once before the first tick.
	RunAtStart bool
}

// NewTickerService creates a periodic job.
func NewTickerService(name string, interval time.Duration, fn func(context.Context) error) *TickerService {
	return &TickerService{name: name, interval: interval, fn: fn}
}

// Serve implements suture.Service. A non-positive interval disables the
// job until ctx is cancelled.
func (s *TickerService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		logging.Info().Str("service", s.name).Msg("Periodic job disabled")
		<-ctx.Done()
		return ctx.Err()
	}
	if s.RunAtStart {
		s.run(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *TickerService) run(ctx context.Context) {
	start := time.Now()
	if err := s.fn(ctx); err != nil && ctx.Err() == nil {
		logging.Warn().Err(err).Str("service", s.name).Msg("Periodic job failed")
		return
	}
	logging.Debug().Str("service", s.name).Dur("duration", time.Since(start)).Msg("Periodic job done")
}

func (s *TickerService) String() string { return s.name }
