// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package stats keeps UserStats consistent with the rows they summarize and
// unlocks achievements when thresholds are crossed.
//
// Recalculate runs inside the caller's transaction, so a failed stats update
// rolls back the mutation that triggered it. Achievement unlocks are
// idempotent: predicates are monotonic thresholds and awarding is an insert
// that ignores conflicts.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/metrics"
	"github.com/tomtom215/contravento/internal/models"
)

// Result is the outcome of one recalculation.
type Result struct {
	Stats    *models.UserStats
	Unlocked []models.Achievement
}

// Unlock is an achievement newly awarded to a user.
type Unlock struct {
	UserID      string
	Achievement models.Achievement
}

// Recalculate recomputes userID's stats from source rows, upserts them and
// awards every achievement whose threshold is now met. Unlocked lists only
// achievements the user did not hold before.
func Recalculate(ctx context.Context, tx *database.Tx, userID string) (*Result, error) {
	now := time.Now().UTC()

	s, err := tx.AggregateUserStats(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("aggregate stats: %w", err)
	}
	if err := tx.UpsertUserStats(ctx, s); err != nil {
		return nil, fmt.Errorf("upsert stats: %w", err)
	}

	held, err := tx.AchievementCodes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}

	res := &Result{Stats: s}
	for _, a := range Catalogue {
		if held[a.Code] || !Reached(a, s) {
			continue
		}
		if err := tx.AwardAchievement(ctx, userID, a.Code, now); err != nil {
			return nil, fmt.Errorf("award %s: %w", a.Code, err)
		}
		res.Unlocked = append(res.Unlocked, a)
	}
	return res, nil
}

// Reconciler recalculates every user's stats, repairing drift left by
// failures outside a transaction or by manual data fixes.
type Reconciler struct {
	db       *database.DB
	onUnlock func(Unlock)
}

// NewReconciler creates a reconciler. onUnlock, if non-nil, is called after
// commit for each achievement the pass awards.
func NewReconciler(db *database.DB, onUnlock func(Unlock)) *Reconciler {
	return &Reconciler{db: db, onUnlock: onUnlock}
}

// ReconcileAll recalculates every user, one transaction per user. A failure
// for one user is logged and does not stop the pass; the returned error
// reports how many failed.
func (r *Reconciler) ReconcileAll(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { metrics.StatsReconcileDuration.Observe(time.Since(start).Seconds()) }()

	ids, err := r.db.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	failed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}

		var res *Result
		err := r.db.InTx(ctx, func(tx *database.Tx) error {
			var err error
			res, err = Recalculate(ctx, tx, id)
			return err
		})
		if err != nil {
			failed++
			logging.Warn().Err(err).Str("user_id", id).Msg("Stats reconciliation failed for user")
			continue
		}
		for _, a := range res.Unlocked {
			metrics.RecordAchievementUnlocked(a.Code)
			if r.onUnlock != nil {
				r.onUnlock(Unlock{UserID: id, Achievement: a})
			}
		}
	}

	logging.Info().Int("users", len(ids)).Int("failed", failed).Dur("duration", time.Since(start)).Msg("Stats reconciliation complete")
	if failed > 0 {
		return len(ids), fmt.Errorf("stats reconciliation failed for %d of %d users", failed, len(ids))
	}
	return len(ids), nil
}
