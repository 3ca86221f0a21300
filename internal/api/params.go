// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/contravento/internal/auth"
	"github.com/tomtom215/contravento/internal/models"
	"github.com/tomtom215/contravento/internal/service"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

const msgInvalidBody = "El cuerpo de la petición no es JSON válido"

// decodeJSON reads r's body into dst. It writes the error response and
// returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrorBody{Code: service.CodeFileTooLarge, Message: "El cuerpo de la petición es demasiado grande"})
			return false
		}
		if errors.Is(err, io.EOF) {
			respondValidation(w, r, "body", "El cuerpo de la petición está vacío")
			return false
		}
		respondValidation(w, r, "body", msgInvalidBody)
		return false
	}
	return true
}

// page parses page and limit. limit defaults to the configured page size
// and may not exceed the configured maximum.
func (h *Handler) page(w http.ResponseWriter, r *http.Request) (models.PageRequest, bool) {
	q := r.URL.Query()
	page := 1
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondValidation(w, r, "page", "page debe ser un entero mayor o igual que 1")
			return models.PageRequest{}, false
		}
		page = n
	}
	limit := h.cfg.API.DefaultPageSize
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > h.cfg.API.MaxPageSize {
			respondValidation(w, r, "limit", "limit debe estar entre 1 y "+strconv.Itoa(h.cfg.API.MaxPageSize))
			return models.PageRequest{}, false
		}
		limit = n
	}
	return models.NewPageRequest(page, limit), true
}

// queryFloat parses a required finite float query parameter.
func queryFloat(w http.ResponseWriter, r *http.Request, name string) (float64, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		respondValidation(w, r, name, name+" es obligatorio")
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		respondValidation(w, r, name, name+" debe ser un número")
		return 0, false
	}
	return f, true
}

// queryInt parses an optional positive integer query parameter.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def, max int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > max {
		respondValidation(w, r, name, name+" debe estar entre 1 y "+strconv.Itoa(max))
		return 0, false
	}
	return n, true
}

// session returns the caller's session.
func session(r *http.Request) auth.SessionContext {
	return auth.FromContext(r.Context())
}

// viewerID returns the caller's user id, or "" for anonymous requests.
func viewerID(r *http.Request) string {
	return session(r).UserID
}

func urlParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

func clientInfo(r *http.Request) service.ClientInfo {
	return service.ClientInfo{UserAgent: r.UserAgent(), IP: r.RemoteAddr}
}

// setTokenCookies stores both tokens as HttpOnly cookies. The refresh
// cookie is scoped to the auth routes.
func (h *Handler) setTokenCookies(w http.ResponseWriter, pair *auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		MaxAge:   maxAge(pair.AccessExpiresAt),
		HttpOnly: true,
		Secure:   h.cfg.Security.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     auth.RefreshCookie,
		Value:    pair.RefreshToken,
		Path:     refreshCookiePath,
		Expires:  pair.RefreshExpiresAt,
		MaxAge:   maxAge(pair.RefreshExpiresAt),
		HttpOnly: true,
		Secure:   h.cfg.Security.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearTokenCookies(w http.ResponseWriter) {
	for name, path := range map[string]string{auth.AccessCookie: "/", auth.RefreshCookie: refreshCookiePath} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     path,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cfg.Security.CookieSecure,
		})
	}
}

const refreshCookiePath = "/api/v1/auth"

func maxAge(expires time.Time) int {
	if d := time.Until(expires); d > 0 {
		return int(d.Seconds())
	}
	return -1
}
