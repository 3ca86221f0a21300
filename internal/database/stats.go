// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"
	"math"
	"time"

	"github.com/tomtom215/contravento/internal/models"
)

// AggregateUserStats recomputes a user's stats from source rows. Only
// published trips count towards trips, distance and photos.
func (q *Queries) AggregateUserStats(ctx context.Context, userID string, now time.Time) (*models.UserStats, error) {
	s := &models.UserStats{UserID: userID, UpdatedAt: now}

	var trips struct {
		Count    int        `db:"trip_count"`
		Total    float64    `db:"total_distance_km"`
		Longest  float64    `db:"longest_trip_km"`
		LastDate *time.Time `db:"last_trip_date"`
	}
	if err := q.get(ctx, "trips", &trips, `
		SELECT COUNT(*) AS trip_count,
			COALESCE(SUM(distance_km), 0) AS total_distance_km,
			COALESCE(MAX(distance_km), 0) AS longest_trip_km,
			MAX(start_date) AS last_trip_date
		FROM trips WHERE user_id = ? AND status = ?`, userID, models.TripStatusPublished); err != nil {
		return nil, err
	}
	s.TripCount = trips.Count
	s.TotalDistanceKm = math.Round(trips.Total*100) / 100
	s.LongestTripKm = trips.Longest
	s.LastTripDate = trips.LastDate

	var err error
	if s.PhotoCount, err = q.count(ctx, "trip_photos", `
		SELECT COUNT(*) FROM trip_photos p JOIN trips t ON t.id = p.trip_id
		WHERE t.user_id = ? AND t.status = ?`, userID, models.TripStatusPublished); err != nil {
		return nil, err
	}
	if s.FollowerCount, err = q.count(ctx, "follows",
		`SELECT COUNT(*) FROM follows WHERE following_id = ?`, userID); err != nil {
		return nil, err
	}
	if s.FollowingCount, err = q.count(ctx, "follows",
		`SELECT COUNT(*) FROM follows WHERE follower_id = ?`, userID); err != nil {
		return nil, err
	}
	return s, nil
}

// UpsertUserStats writes s over any existing row.
func (q *Queries) UpsertUserStats(ctx context.Context, s *models.UserStats) error {
	_, err := q.namedExec(ctx, "user_stats", `
		INSERT INTO user_stats (user_id, trip_count, total_distance_km, photo_count, longest_trip_km,
			follower_count, following_count, last_trip_date, updated_at)
		VALUES (:user_id, :trip_count, :total_distance_km, :photo_count, :longest_trip_km,
			:follower_count, :following_count, :last_trip_date, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			trip_count = EXCLUDED.trip_count,
			total_distance_km = EXCLUDED.total_distance_km,
			photo_count = EXCLUDED.photo_count,
			longest_trip_km = EXCLUDED.longest_trip_km,
			follower_count = EXCLUDED.follower_count,
			following_count = EXCLUDED.following_count,
			last_trip_date = EXCLUDED.last_trip_date,
			updated_at = EXCLUDED.updated_at`, s)
	return err
}

// GetUserStats returns the stored stats row.
func (q *Queries) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	var s models.UserStats
	if err := q.get(ctx, "user_stats", &s, `
		SELECT user_id, trip_count, total_distance_km, photo_count, longest_trip_km,
			follower_count, following_count, last_trip_date, updated_at
		FROM user_stats WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}
	return &s, nil
}

// AchievementCodes returns the codes a user already holds.
func (q *Queries) AchievementCodes(ctx context.Context, userID string) (map[string]bool, error) {
	var codes []string
	if err := q.selectRows(ctx, "user_achievements", &codes,
		`SELECT achievement_code FROM user_achievements WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}
	held := make(map[string]bool, len(codes))
	for _, c := range codes {
		held[c] = true
	}
	return held, nil
}

// AwardAchievement links a user to an achievement. Awarding twice is a no-op.
func (q *Queries) AwardAchievement(ctx context.Context, userID, code string, at time.Time) error {
	_, err := q.exec(ctx, "user_achievements", `
		INSERT INTO user_achievements (user_id, achievement_code, awarded_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id, achievement_code) DO NOTHING`, userID, code, at)
	return err
}

// ListUserAchievements returns a user's achievements in award order.
func (q *Queries) ListUserAchievements(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	out := []models.UserAchievement{}
	err := q.selectRows(ctx, "user_achievements", &out, `
		SELECT user_id, achievement_code, awarded_at FROM user_achievements
		WHERE user_id = ? ORDER BY awarded_at, achievement_code`, userID)
	return out, err
}
