// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/contravento/internal/auth"
	"github.com/tomtom215/contravento/internal/config"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/metrics"
	"github.com/tomtom215/contravento/internal/middleware"
	"github.com/tomtom215/contravento/internal/service"
)

// Rate limiter labels.
const (
	limiterGlobal   = "global"
	limiterAuth     = "auth"
	limiterComments = "comments"
)

// ChiMiddleware builds the chi-compatible middleware stack from config.
type ChiMiddleware struct {
	cfg *config.SecurityConfig
}

// NewChiMiddleware creates the middleware factory.
func NewChiMiddleware(cfg *config.SecurityConfig) *ChiMiddleware {
	return &ChiMiddleware{cfg: cfg}
}

// CORS allows the configured browser origins, with credentials so the
// token cookies travel on cross-origin requests.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   m.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// RateLimit is the global per-IP limiter. A zero limit disables it.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.cfg.RateLimitRequests <= 0 {
		return passthrough
	}
	return httprate.Limit(
		m.cfg.RateLimitRequests,
		m.cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitHandler(limiterGlobal)),
	)
}

// AuthRateLimit limits login, registration and token endpoints per IP per
// minute.
func (m *ChiMiddleware) AuthRateLimit() func(http.Handler) http.Handler {
	if m.cfg.AuthRateLimit <= 0 {
		return passthrough
	}
	return httprate.Limit(
		m.cfg.AuthRateLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitHandler(limiterAuth)),
	)
}

// CommentRateLimit limits comment creation per user per hour.
func (m *ChiMiddleware) CommentRateLimit() func(http.Handler) http.Handler {
	if m.cfg.CommentsPerHour <= 0 {
		return passthrough
	}
	return httprate.Limit(
		m.cfg.CommentsPerHour,
		time.Hour,
		httprate.WithKeyFuncs(keyByUser),
		httprate.WithLimitHandler(limitHandler(limiterComments)),
	)
}

// keyByUser keys on the signed-in user, falling back to the client IP.
func keyByUser(r *http.Request) (string, error) {
	if id := auth.FromContext(r.Context()).UserID; id != "" {
		return "user:" + id, nil
	}
	return httprate.KeyByIP(r)
}

func limitHandler(limiter string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics.APIRateLimitHits.WithLabelValues(limiter).Inc()
		logging.Ctx(r.Context()).Warn().Str("limiter", limiter).Str("path", r.URL.Path).Msg("Rate limit exceeded")
		respondError(w, r, http.StatusTooManyRequests, ErrorBody{Code: service.CodeRateLimited, Message: msgRateLimited})
	}
}

// SecurityHeaders sets the headers every API response carries.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

func passthrough(next http.Handler) http.Handler { return next }
