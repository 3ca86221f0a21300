// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/models"
	"github.com/tomtom215/contravento/internal/validation"
)

// Response is the envelope of every API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code      string                  `json:"code"`
	Message   string                  `json:"message"`
	Field     string                  `json:"field,omitempty"`
	Details   []validation.FieldError `json:"details,omitempty"`
	RequestID string                  `json:"request_id,omitempty"`
}

// Meta carries request metadata and, for lists, pagination.
type Meta struct {
	RequestID  string             `json:"request_id,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

func newMeta(r *http.Request) Meta {
	return Meta{
		RequestID: logging.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
	}
}

// respondJSON writes resp with status.
func respondJSON(w http.ResponseWriter, status int, resp *Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondOK writes a successful envelope around data.
func respondOK(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	respondJSON(w, status, &Response{Success: true, Data: data, Meta: newMeta(r)})
}

// respondList writes a page of results with its pagination.
func respondList(w http.ResponseWriter, r *http.Request, data interface{}, p models.Pagination) {
	meta := newMeta(r)
	meta.Pagination = &p
	respondJSON(w, http.StatusOK, &Response{Success: true, Data: data, Meta: meta})
}

// respondError writes a failed envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, body ErrorBody) {
	meta := newMeta(r)
	body.RequestID = meta.RequestID
	respondJSON(w, status, &Response{Success: false, Error: &body, Meta: meta})
}
