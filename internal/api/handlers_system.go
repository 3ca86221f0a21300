// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/contravento/internal/geocode"
	"github.com/tomtom215/contravento/internal/logging"
)

const healthTimeout = 2 * time.Second

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status   string  `json:"status"`
	Database string  `json:"database"`
	Version  string  `json:"version"`
	Uptime   float64 `json:"uptime_seconds"`
	Clients  int     `json:"websocket_clients"`
}

// GeocodeResponse is returned by /geocode/reverse. On upstream failure
// Name holds the raw coordinates and Fallback is true.
type GeocodeResponse struct {
	Name      string       `json:"name"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Cached    bool         `json:"cached"`
	Fallback  bool         `json:"fallback"`
	Reason    geocode.Kind `json:"reason,omitempty"`
}

type reconcileResponse struct {
	Users int `json:"users"`
}

// Health reports liveness and database connectivity.
//
//	@Summary	Health check
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	Response{data=HealthResponse}
//	@Failure	503	{object}	Response{data=HealthResponse}
//	@Router		/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Version:  Version,
		Uptime:   time.Since(h.startTime).Seconds(),
	}
	if h.hub != nil {
		resp.Clients = h.hub.ClientCount()
	}
	status := http.StatusOK
	if err := h.svc.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Health check: database unreachable")
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}
	respondOK(w, r, status, resp)
}

// ReverseGeocode names a coordinate. Upstream failures degrade to the
// formatted coordinates so the client can fall back to manual entry.
//
//	@Summary	Reverse geocode
//	@Tags		geocode
//	@Produce	json
//	@Security	BearerAuth
//	@Param		lat	query		number	true	"Latitude"
//	@Param		lon	query		number	true	"Longitude"
//	@Success	200	{object}	Response{data=GeocodeResponse}
//	@Failure	400	{object}	Response
//	@Router		/geocode/reverse [get]
func (h *Handler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, ok := queryFloat(w, r, "lat")
	if !ok {
		return
	}
	lon, ok := queryFloat(w, r, "lon")
	if !ok {
		return
	}
	if err := (geocode.Coordinates{Latitude: lat, Longitude: lon}).Validate(); err != nil {
		respondValidation(w, r, "lat", "Coordenadas no válidas")
		return
	}
	if h.geocoder == nil {
		respondOK(w, r, http.StatusOK, fallback(lat, lon, geocode.KindUnavailable))
		return
	}

	place, err := h.geocoder.Reverse(r.Context(), geocodeCaller(r), lat, lon)
	if err != nil {
		kind := geocode.KindUnavailable
		var le *geocode.LookupError
		if errors.As(err, &le) {
			kind = le.Kind
		}
		logging.Ctx(r.Context()).Debug().Err(err).Str("reason", string(kind)).Msg("Reverse geocode degraded to coordinates")
		respondOK(w, r, http.StatusOK, fallback(lat, lon, kind))
		return
	}
	respondOK(w, r, http.StatusOK, GeocodeResponse{
		Name:      place.Name,
		Latitude:  place.Latitude,
		Longitude: place.Longitude,
		Cached:    place.Cached,
	})
}

// ReconcileStats recalculates every user's stats and achievements.
//
//	@Summary	Reconcile stats
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	Response{data=reconcileResponse}
//	@Router		/admin/stats/reconcile [post]
func (h *Handler) ReconcileStats(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ReconcileStats(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Int("users", n).Msg("Stats reconciled on request")
	respondOK(w, r, http.StatusOK, reconcileResponse{Users: n})
}

// RebuildNearbyIndex reloads the nearby-trips index from the database.
//
//	@Summary	Rebuild the nearby index
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	Response
//	@Router		/admin/nearby/rebuild [post]
func (h *Handler) RebuildNearbyIndex(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RebuildNearbyIndex(r.Context()); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, messageResponse{Message: "Índice reconstruido"})
}

func fallback(lat, lon float64, kind geocode.Kind) GeocodeResponse {
	return GeocodeResponse{
		Name:      geocode.FormatCoordinates(lat, lon),
		Latitude:  lat,
		Longitude: lon,
		Fallback:  true,
		Reason:    kind,
	}
}

// geocodeCaller keys the debouncer on the user, or the client address.
func geocodeCaller(r *http.Request) string {
	if id := viewerID(r); id != "" {
		return id
	}
	return r.RemoteAddr
}
