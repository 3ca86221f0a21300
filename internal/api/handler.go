// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"context"
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/contravento/internal/config"
	"github.com/tomtom215/contravento/internal/geocode"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/service"
	"github.com/tomtom215/contravento/internal/websocket"
)

// Version is reported by /health. It is set at build time.
var Version = "dev"

// ReverseGeocoder names coordinates.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, caller string, lat, lon float64) (*geocode.Place, error)
}

// Handler serves every API route.
type Handler struct {
	svc       *service.Service
	geocoder  ReverseGeocoder
	hub       *websocket.Hub
	cfg       *config.Config
	upgrader  *gorillaws.Upgrader
	startTime time.Time
}

// NewHandler creates a Handler. geocoder and hub may be nil, which
// disables reverse geocoding and live notifications respectively.
func NewHandler(svc *service.Service, geocoder ReverseGeocoder, hub *websocket.Hub, cfg *config.Config) *Handler {
	h := &Handler{
		svc:       svc,
		geocoder:  geocoder,
		hub:       hub,
		cfg:       cfg,
		startTime: time.Now(),
	}
	h.upgrader = &gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkWebSocketOrigin,
	}
	return h
}

// checkWebSocketOrigin accepts the configured CORS origins. Requests
// without an Origin header are refused.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Ctx(r.Context()).Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}
	for _, allowed := range h.cfg.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Ctx(r.Context()).Warn().Str("origin", origin).Msg("WebSocket connection rejected: origin not allowed")
	return false
}
