// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/tomtom215/contravento/internal/auth"
	"github.com/tomtom215/contravento/internal/authz"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/service"
	"github.com/tomtom215/contravento/internal/validation"
)

const (
	msgInternal         = "Error interno del servidor"
	msgUnauthenticated  = "Debes iniciar sesión"
	msgTokenExpired     = "La sesión ha caducado"
	msgEmailNotVerified = "Debes verificar tu email antes de continuar"
	msgForbidden        = "No tienes permiso para realizar esta acción"
	msgRateLimited      = "Demasiadas peticiones, inténtalo más tarde"
	msgNotFound         = "Recurso no encontrado"
	msgMethodNotAllowed = "Método no permitido"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(k service.Kind) int {
	switch k {
	case service.KindValidation, service.KindDomain:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case service.KindLocked:
		return http.StatusLocked
	case service.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError renders err. Internal causes are logged with the
// request id and replaced by a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	se, ok := service.AsError(err)
	if !ok || se.Kind == service.KindInternal {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		respondError(w, r, http.StatusInternalServerError, ErrorBody{Code: service.CodeInternal, Message: msgInternal})
		return
	}
	if se.Kind == service.KindLocked && se.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(se.RetryAfter.Seconds()))))
	}
	respondError(w, r, statusFor(se.Kind), ErrorBody{
		Code:    se.Code,
		Message: se.Message,
		Field:   se.Field,
		Details: se.Details,
	})
}

// respondValidation renders a 400 VALIDATION_ERROR for a single field.
func respondValidation(w http.ResponseWriter, r *http.Request, field, message string) {
	ve := validation.NewError(field, message)
	respondError(w, r, http.StatusBadRequest, ErrorBody{
		Code:    service.CodeValidation,
		Message: ve.Message(),
		Field:   field,
		Details: ve.Errors(),
	})
}

// deny renders authorization refusals for authz.Middleware.
func deny(w http.ResponseWriter, r *http.Request, reason authz.Denial) {
	switch reason {
	case authz.DenyUnauthenticated:
		if auth.FromContext(r.Context()).IsExpired() {
			respondError(w, r, http.StatusUnauthorized, ErrorBody{Code: service.CodeTokenExpired, Message: msgTokenExpired})
			return
		}
		respondError(w, r, http.StatusUnauthorized, ErrorBody{Code: service.CodeUnauthorized, Message: msgUnauthenticated})
	case authz.DenyUnverified:
		respondError(w, r, http.StatusForbidden, ErrorBody{Code: service.CodeEmailNotVerified, Message: msgEmailNotVerified})
	case authz.DenyForbidden:
		respondError(w, r, http.StatusForbidden, ErrorBody{Code: service.CodeForbidden, Message: msgForbidden})
	default:
		respondError(w, r, http.StatusInternalServerError, ErrorBody{Code: service.CodeInternal, Message: msgInternal})
	}
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, ErrorBody{Code: service.CodeNotFound, Message: msgNotFound})
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, ErrorBody{Code: "METHOD_NOT_ALLOWED", Message: msgMethodNotAllowed})
}
