// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/contravento/internal/models"
)

// maxTagsListed bounds GET /tags.
const maxTagsListed = 100

// CreateTrip creates a draft trip.
//
//	@Summary	Create a trip
//	@Tags		trips
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		models.TripInput	true	"Trip"
//	@Success	201		{object}	Response{data=models.TripDetail}
//	@Failure	400		{object}	Response
//	@Router		/trips [post]
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var in models.TripInput
	if !decodeJSON(w, r, &in) {
		return
	}
	d, err := h.svc.CreateTrip(r.Context(), viewerID(r), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusCreated, d)
}

// GetTrip returns a trip. Drafts are visible only to their owner.
//
//	@Summary	Get a trip
//	@Tags		trips
//	@Produce	json
//	@Param		id	path		string	true	"Trip ID"
//	@Success	200	{object}	Response{data=models.TripDetail}
//	@Failure	404	{object}	Response
//	@Router		/trips/{id} [get]
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetTrip(r.Context(), viewerID(r), urlParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, d)
}

// UpdateTrip applies a partial update.
//
//	@Summary	Update a trip
//	@Tags		trips
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"Trip ID"
//	@Param		body	body		models.TripInput	true	"Fields to change"
//	@Success	200		{object}	Response{data=models.TripDetail}
//	@Failure	403		{object}	Response
//	@Router		/trips/{id} [put]
func (h *Handler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	var in models.TripInput
	if !decodeJSON(w, r, &in) {
		return
	}
	d, err := h.svc.UpdateTrip(r.Context(), viewerID(r), urlParam(r, "id"), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, d)
}

// PublishTrip publishes a draft.
//
//	@Summary	Publish a trip
//	@Tags		trips
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Trip ID"
//	@Success	200	{object}	Response{data=models.TripDetail}
//	@Failure	400	{object}	Response
//	@Router		/trips/{id}/publish [post]
func (h *Handler) PublishTrip(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.PublishTrip(r.Context(), viewerID(r), urlParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, d)
}

// DeleteTrip deletes a trip with its photos, track and social data.
//
//	@Summary	Delete a trip
//	@Tags		trips
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Trip ID"
//	@Success	200	{object}	Response
//	@Router		/trips/{id} [delete]
func (h *Handler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTrip(r.Context(), viewerID(r), urlParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, messageResponse{Message: "Viaje eliminado"})
}

// ListPublicTrips lists published trips, optionally by tag.
//
//	@Summary	Explore published trips
//	@Tags		trips
//	@Produce	json
//	@Param		tag		query		string	false	"Tag"
//	@Param		page	query		int		false	"Page"
//	@Param		limit	query		int		false	"Page size"
//	@Success	200		{object}	Response{data=[]models.TripSummary}
//	@Router		/trips [get]
func (h *Handler) ListPublicTrips(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	trips, pg, err := h.svc.ListPublicTrips(r.Context(), tagParam(r), p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, r, trips, pg)
}

// ListUserTrips lists a user's trips. The owner also sees drafts.
//
//	@Summary	List a user's trips
//	@Tags		trips
//	@Produce	json
//	@Param		username	path		string	true	"Username"
//	@Param		status		query		string	false	"draft or published"
//	@Param		tag			query		string	false	"Tag"
//	@Param		page		query		int		false	"Page"
//	@Param		limit		query		int		false	"Page size"
//	@Success	200			{object}	Response{data=[]models.TripSummary}
//	@Router		/users/{username}/trips [get]
func (h *Handler) ListUserTrips(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	trips, pg, err := h.svc.ListUserTrips(r.Context(), viewerID(r), urlParam(r, "username"), status, tagParam(r), p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, r, trips, pg)
}

// NearbyTrips finds published trips starting near a point.
//
//	@Summary	Trips near a point
//	@Tags		trips
//	@Produce	json
//	@Param		lat			query		number	true	"Latitude"
//	@Param		lon			query		number	true	"Longitude"
//	@Param		radius_km	query		number	false	"Search radius"
//	@Param		limit		query		int		false	"Maximum results"
//	@Success	200			{object}	Response{data=[]models.NearbyTrip}
//	@Router		/trips/nearby [get]
func (h *Handler) NearbyTrips(w http.ResponseWriter, r *http.Request) {
	lat, ok := queryFloat(w, r, "lat")
	if !ok {
		return
	}
	lon, ok := queryFloat(w, r, "lon")
	if !ok {
		return
	}
	var radius float64
	if r.URL.Query().Get("radius_km") != "" {
		if radius, ok = queryFloat(w, r, "radius_km"); !ok {
			return
		}
	}
	limit, ok := queryInt(w, r, "limit", h.cfg.API.DefaultPageSize, h.cfg.API.MaxPageSize)
	if !ok {
		return
	}
	trips, err := h.svc.NearbyTrips(r.Context(), lat, lon, radius, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, trips)
}

// PopularTags lists the most used tags.
//
//	@Summary	Popular tags
//	@Tags		trips
//	@Produce	json
//	@Param		limit	query		int	false	"Maximum tags"
//	@Success	200		{object}	Response{data=[]models.Tag}
//	@Router		/tags [get]
func (h *Handler) PopularTags(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", h.cfg.API.DefaultPageSize, maxTagsListed)
	if !ok {
		return
	}
	tags, err := h.svc.PopularTags(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, tags)
}

func tagParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("tag"))
}
