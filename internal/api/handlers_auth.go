// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"net/http"

	"github.com/tomtom215/contravento/internal/auth"
	"github.com/tomtom215/contravento/internal/models"
)

// LoginResponse is returned by login and refresh.
type LoginResponse struct {
	User *models.User `json:"user"`
	*auth.TokenPair
}

// MeResponse is returned by GET /auth/me.
type MeResponse struct {
	User         *models.User `json:"user"`
	SessionState auth.State   `json:"session_state"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates an account.
//
//	@Summary	Register a new account
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.RegisterInput	true	"Account"
//	@Success	201		{object}	Response{data=models.User}
//	@Failure	400		{object}	Response
//	@Failure	409		{object}	Response
//	@Router		/auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.svc.Register(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusCreated, u)
}

// Login signs a user in by username or email.
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.LoginInput	true	"Credentials"
//	@Success	200		{object}	Response{data=LoginResponse}
//	@Failure	401		{object}	Response
//	@Failure	423		{object}	Response
//	@Router		/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.svc.Login(r.Context(), in, clientInfo(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.setTokenCookies(w, res.Tokens)
	respondOK(w, r, http.StatusOK, LoginResponse{User: res.User, TokenPair: res.Tokens})
}

// Refresh rotates a refresh token. The token is read from the body or the
// refresh_token cookie.
//
//	@Summary	Refresh tokens
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	Response{data=LoginResponse}
//	@Failure	401	{object}	Response
//	@Router		/auth/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := refreshToken(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Refresh(r.Context(), token, clientInfo(r))
	if err != nil {
		h.clearTokenCookies(w)
		respondServiceError(w, r, err)
		return
	}
	h.setTokenCookies(w, res.Tokens)
	respondOK(w, r, http.StatusOK, LoginResponse{User: res.User, TokenPair: res.Tokens})
}

// Logout revokes the refresh session and clears the cookies.
//
//	@Summary	Log out
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	Response
//	@Router		/auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := refreshToken(w, r)
	if !ok {
		return
	}
	if err := h.svc.Logout(r.Context(), token); err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.clearTokenCookies(w)
	respondOK(w, r, http.StatusOK, messageResponse{Message: "Sesión cerrada"})
}

// VerifyEmail consumes a verification token.
//
//	@Summary	Verify email
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.TokenInput	true	"Token"
//	@Success	200		{object}	Response{data=models.User}
//	@Failure	400		{object}	Response
//	@Router		/auth/verify-email [post]
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var in models.TokenInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.svc.VerifyEmail(r.Context(), in.Token)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, u)
}

// ResendVerification sends a new verification link. It answers the same
// way whether or not the address is registered.
//
//	@Summary	Resend verification email
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.EmailInput	true	"Email"
//	@Success	200		{object}	Response
//	@Router		/auth/resend-verification [post]
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var in models.EmailInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.svc.ResendVerification(r.Context(), in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, messageResponse{Message: "Si la cuenta existe y no está verificada, recibirás un email"})
}

// Me returns the signed-in user and session state.
//
//	@Summary	Current user
//	@Tags		auth
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	Response{data=MeResponse}
//	@Failure	401	{object}	Response
//	@Router		/auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s := session(r)
	u, err := h.svc.Me(r.Context(), s.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, MeResponse{User: u, SessionState: s.State})
}

// refreshToken reads the refresh token from an optional JSON body, falling
// back to the cookie. A missing token is passed on as "" so the service
// decides how to answer.
func refreshToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.ContentLength > 0 {
		var in refreshRequest
		if !decodeJSON(w, r, &in) {
			return "", false
		}
		if in.RefreshToken != "" {
			return in.RefreshToken, true
		}
	}
	if c, err := r.Cookie(auth.RefreshCookie); err == nil {
		return c.Value, true
	}
	return "", true
}
