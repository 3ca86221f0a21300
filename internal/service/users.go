// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"context"
	"errors"

	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/models"
	"github.com/tomtom215/contravento/internal/stats"
	"github.com/tomtom215/contravento/internal/validation"
)

// GetProfile returns username's public profile with stats.
func (s *Service) GetProfile(ctx context.Context, viewerID, username string) (*models.UserProfile, error) {
	u, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr("get user", err, msgUserNotFound)
	}
	return s.profile(ctx, viewerID, u)
}

// UpdateProfile applies the non-nil fields of upd to userID.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	if ve := validation.ValidateStruct(upd); ve != nil {
		return nil, invalid(ve)
	}
	if err := s.db.UpdateUserProfile(ctx, userID, upd, s.now()); err != nil {
		return nil, lookupErr("update profile", err, msgUserNotFound)
	}
	u, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookupErr("get user", err, msgUserNotFound)
	}
	return s.profile(ctx, userID, u)
}

// GetStats returns username's stats. Users without published activity
// get zeroed stats.
func (s *Service) GetStats(ctx context.Context, username string) (*models.UserStats, error) {
	u, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr("get user", err, msgUserNotFound)
	}
	return s.userStats(ctx, u.ID)
}

// GetAchievements returns the achievements username holds.
func (s *Service) GetAchievements(ctx context.Context, username string) ([]models.AwardedAchievement, error) {
	u, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr("get user", err, msgUserNotFound)
	}
	held, err := s.db.ListUserAchievements(ctx, u.ID)
	if err != nil {
		return nil, internal("list achievements", err)
	}
	out := make([]models.AwardedAchievement, 0, len(held))
	for _, h := range held {
		a, ok := stats.Lookup(h.Code)
		if !ok {
			continue
		}
		out = append(out, models.AwardedAchievement{Achievement: a, AwardedAt: h.AwardedAt})
	}
	return out, nil
}

// Achievements returns the catalogue.
func (s *Service) Achievements() []models.Achievement {
	return stats.Catalogue
}

func (s *Service) profile(ctx context.Context, viewerID string, u *models.User) (*models.UserProfile, error) {
	st, err := s.userStats(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	p := &models.UserProfile{
		PublicUser:  u.Public(),
		Bio:         u.Bio,
		Location:    u.Location,
		CyclingType: u.CyclingType,
		CreatedAt:   u.CreatedAt,
		Stats:       st,
	}
	if viewerID != "" && viewerID != u.ID {
		if p.IsFollowing, err = s.db.IsFollowing(ctx, viewerID, u.ID); err != nil {
			return nil, internal("is following", err)
		}
	}
	return p, nil
}

func (s *Service) userStats(ctx context.Context, userID string) (*models.UserStats, error) {
	st, err := s.db.GetUserStats(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return &models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, internal("get stats", err)
	}
	return st, nil
}
