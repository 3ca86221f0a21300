// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/websocket"
)

type unreadCountResponse struct {
	Count int `json:"count"`
}

type markedResponse struct {
	Marked int `json:"marked"`
}

// ListNotifications lists the caller's notifications, newest first.
//
//	@Summary	List notifications
//	@Tags		notifications
//	@Produce	json
//	@Security	BearerAuth
//	@Param		unread	query		bool	false	"Only unread"
//	@Param		page	query		int		false	"Page"
//	@Param		limit	query		int		false	"Page size"
//	@Success	200		{object}	Response{data=[]models.Notification}
//	@Router		/notifications [get]
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	unread := false
	if v := r.URL.Query().Get("unread"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondValidation(w, r, "unread", "unread debe ser true o false")
			return
		}
		unread = b
	}
	list, pg, err := h.svc.ListNotifications(r.Context(), viewerID(r), unread, p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondList(w, r, list, pg)
}

// UnreadCount returns the number of unread notifications.
//
//	@Summary	Unread notification count
//	@Tags		notifications
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	Response{data=unreadCountResponse}
//	@Router		/notifications/unread-count [get]
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.UnreadCount(r.Context(), viewerID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, unreadCountResponse{Count: n})
}

// MarkNotificationRead marks one notification read.
//
//	@Summary	Mark a notification read
//	@Tags		notifications
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Notification ID"
//	@Success	200	{object}	Response
//	@Router		/notifications/{id}/read [post]
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.MarkNotificationRead(r.Context(), viewerID(r), urlParam(r, "id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, messageResponse{Message: "Notificación leída"})
}

// MarkAllNotificationsRead marks every notification read.
//
//	@Summary	Mark all notifications read
//	@Tags		notifications
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	Response{data=markedResponse}
//	@Router		/notifications/read-all [post]
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.MarkAllNotificationsRead(r.Context(), viewerID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondOK(w, r, http.StatusOK, markedResponse{Marked: n})
}

// WebSocket upgrades to the live notification stream of the caller.
//
//	@Summary	Live notifications
//	@Tags		notifications
//	@Security	BearerAuth
//	@Success	101
//	@Router		/ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrorBody{Code: "UNAVAILABLE", Message: "Notificaciones en directo no disponibles"})
		return
	}
	if err := websocket.Serve(h.hub, h.upgrader, w, r, viewerID(r)); err != nil {
		// The upgrader has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
	}
}
