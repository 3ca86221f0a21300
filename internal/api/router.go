// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tomtom215/contravento/internal/api/docs" // swagger spec registration
	"github.com/tomtom215/contravento/internal/auth"
	"github.com/tomtom215/contravento/internal/authz"
	"github.com/tomtom215/contravento/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler  *Handler
	sessions *auth.Middleware
	gate     *authz.Middleware
	chiMW    *ChiMiddleware
}

// NewRouter creates the router. sessions resolves the caller of every
// /api/v1 request and enforcer decides what the caller may do.
func NewRouter(h *Handler, sessions *auth.Middleware, enforcer *authz.Enforcer) *Router {
	return &Router{
		handler:  h,
		sessions: sessions,
		gate:     authz.NewMiddleware(enforcer, deny),
		chiMW:    NewChiMiddleware(&h.cfg.Security),
	}
}

// Setup builds the HTTP handler.
//
// Middleware order: request id first so every log line carries it, then
// the real client IP for the rate limiters, metrics and access log around
// the recoverer so panics are counted and logged as 500s.
func (rt *Router) Setup() http.Handler {
	h := rt.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Metrics)
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(rt.chiMW.CORS())

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	rt.mountUploads(r)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.chiMW.RateLimit())
		r.Use(rt.sessions.Resolve)
		r.Use(rt.gate.Authorize)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(rt.chiMW.AuthRateLimit())
				r.Post("/register", h.Register)
				r.Post("/login", h.Login)
				r.Post("/refresh", h.Refresh)
				r.Post("/verify-email", h.VerifyEmail)
				r.Post("/resend-verification", h.ResendVerification)
			})
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", h.ListPublicTrips)
			r.Post("/", h.CreateTrip)
			r.Get("/nearby", h.NearbyTrips)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetTrip)
				r.Put("/", h.UpdateTrip)
				r.Delete("/", h.DeleteTrip)
				r.Post("/publish", h.PublishTrip)

				r.Post("/photos", h.UploadPhoto)
				r.Put("/photos/order", h.ReorderPhotos)
				r.Put("/photos/{photoID}", h.UpdatePhotoCaption)
				r.Delete("/photos/{photoID}", h.DeletePhoto)

				r.Put("/locations", h.ReplaceLocations)
				r.Post("/locations", h.AppendLocation)

				r.Post("/gpx", h.UploadGPX)
				r.Get("/gpx", h.GetGPX)
				r.Delete("/gpx", h.DeleteGPX)
				r.Get("/gpx/track", h.GetTrack)

				r.Get("/comments", h.ListComments)
				r.With(rt.chiMW.CommentRateLimit()).Post("/comments", h.AddComment)
				r.Post("/like", h.Like)
				r.Delete("/like", h.Unlike)
				r.Get("/likes", h.ListLikes)
			})
		})

		r.Route("/comments/{id}", func(r chi.Router) {
			r.Put("/", h.EditComment)
			r.Delete("/", h.DeleteComment)
		})

		r.Route("/users", func(r chi.Router) {
			r.Put("/me", h.UpdateProfile)
			r.Route("/{username}", func(r chi.Router) {
				r.Get("/", h.GetProfile)
				r.Get("/trips", h.ListUserTrips)
				r.Get("/stats", h.GetStats)
				r.Get("/achievements", h.GetUserAchievements)
				r.Get("/followers", h.Followers)
				r.Get("/following", h.Following)
				r.Post("/follow", h.Follow)
				r.Delete("/follow", h.Unfollow)
			})
		})

		r.Get("/feed", h.Feed)
		r.Get("/tags", h.PopularTags)
		r.Get("/achievements", h.ListAchievements)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListNotifications)
			r.Get("/unread-count", h.UnreadCount)
			r.Post("/read-all", h.MarkAllNotificationsRead)
			r.Post("/{id}/read", h.MarkNotificationRead)
		})

		r.Get("/geocode/reverse", h.ReverseGeocode)
		r.Get("/ws", h.WebSocket)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/stats/reconcile", h.ReconcileStats)
			r.Post("/nearby/rebuild", h.RebuildNearbyIndex)
		})
	})

	return r
}

// mountUploads serves stored photos under the configured public path.
// Directory listings are not served.
func (rt *Router) mountUploads(r chi.Router) {
	cfg := rt.handler.cfg.Uploads
	prefix := strings.TrimSuffix(cfg.PublicPath, "/")
	if prefix == "" || cfg.Dir == "" {
		return
	}
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Dir)))
	r.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		if strings.HasSuffix(req.URL.Path, "/") {
			notFoundHandler(w, req)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, req)
	})
}
