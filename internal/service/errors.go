// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/validation"
)

// Kind classifies an Error. The API maps each kind to one HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDomain
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooLarge
	KindLocked
	KindRateLimited
)

// Error codes returned to clients.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeDescriptionTooShort = "DESCRIPTION_TOO_SHORT"
	CodePhotoLimitReached   = "PHOTO_LIMIT_REACHED"
	CodeCannotFollowSelf    = "CANNOT_FOLLOW_SELF"
	CodeInvalidGPX          = "INVALID_GPX"
	CodeInvalidFileType     = "INVALID_FILE_TYPE"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeForbidden           = "FORBIDDEN"
	CodeEmailNotVerified    = "EMAIL_NOT_VERIFIED"
	CodeNotFound            = "NOT_FOUND"
	CodeNotFollowing        = "NOT_FOLLOWING"
	CodeAlreadyFollowing    = "ALREADY_FOLLOWING"
	CodeAlreadyLiked        = "ALREADY_LIKED"
	CodeUsernameTaken       = "USERNAME_TAKEN"
	CodeEmailTaken          = "EMAIL_TAKEN"
	CodeFileTooLarge        = "FILE_TOO_LARGE"
	CodeAccountLocked       = "ACCOUNT_LOCKED"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
)

// Error is the typed error every service operation returns.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Field   string

	// Details lists failed fields for KindValidation.
	Details []validation.FieldError

	// RetryAfter is set for KindLocked.
	RetryAfter time.Duration

	// Err is the underlying cause. It is logged, never sent to clients.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsKind reports whether err is a *Error of kind k.
func IsKind(err error, k Kind) bool {
	se, ok := AsError(err)
	return ok && se.Kind == k
}

func invalid(ve *validation.RequestValidationError) *Error {
	e := &Error{Kind: KindValidation, Code: CodeValidation, Message: ve.Message(), Details: ve.Errors()}
	if len(e.Details) == 1 {
		e.Field = e.Details[0].Field
	}
	return e
}

func invalidField(field, message string) *Error {
	return invalid(validation.NewError(field, message))
}

func domainErr(code, field, message string) *Error {
	return &Error{Kind: KindDomain, Code: code, Field: field, Message: message}
}

func unauthorized(code, message string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

func forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: CodeForbidden, Message: message}
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

func conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "Error interno del servidor", Err: fmt.Errorf("%s: %w", op, err)}
}

// lookupErr maps database.ErrNotFound to a 404 carrying msg and anything
// else to an internal error.
func lookupErr(op string, err error, msg string) *Error {
	if errors.Is(err, database.ErrNotFound) {
		return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: msg, Err: err}
	}
	return internal(op, err)
}

// wrap passes *Error values through and turns anything else into an
// internal error.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}
	return internal(op, err)
}

const (
	msgTripNotFound    = "Viaje no encontrado"
	msgUserNotFound    = "Usuario no encontrado"
	msgPhotoNotFound   = "Foto no encontrada"
	msgCommentNotFound = "Comentario no encontrado"
	msgNotOwner        = "No tienes permiso para modificar este viaje"
)
