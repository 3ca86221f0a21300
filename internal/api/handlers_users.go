// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"net/http"

	"github.com/tomtom215/contravento/internal/models"
)

// GetProfile returns a user's public profile with stats.
//
//	@Summary	User profile
//	@Tags		users
//	@Produce	json
//	@Param		username	path		string	true	"Username"
//	@Success	200			{object}	Response{data=models.UserProfile}
//	@Failure	404			{object}	Response
//	@Router		/users/{username} [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProfile(r.Context(), viewerID(r), urlParam(r, "username"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, p)
}

// UpdateProfile edits the caller's profile.
//
//	@Summary	Update own profile
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		models.ProfileUpdate	true	"Fields to change"
//	@Success	200		{object}	Response{data=models.UserProfile}
//	@Router		/users/me [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileUpdate
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.svc.UpdateProfile(r.Context(), viewerID(r), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, p)
}

// GetStats returns a user's cycling stats.
//
//	@Summary	User stats
//	@Tags		users
//	@Produce	json
//	@Param		username	path		string	true	"Username"
//	@Success	200			{object}	Response{data=models.UserStats}
//	@Router		/users/{username}/stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.GetStats(r.Context(), urlParam(r, "username"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, st)
}

// GetUserAchievements lists the achievements a user has unlocked.
//
//	@Summary	User achievements
//	@Tags		users
//	@Produce	json
//	@Param		username	path		string	true	"Username"
//	@Success	200			{object}	Response{data=[]models.AwardedAchievement}
//	@Router		/users/{username}/achievements [get]
func (h *Handler) GetUserAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetAchievements(r.Context(), urlParam(r, "username"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, list)
}

// ListAchievements returns the achievement catalogue.
//
//	@Summary	Achievement catalogue
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	Response{data=[]models.Achievement}
//	@Router		/achievements [get]
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, http.StatusOK, h.svc.Achievements())
}
