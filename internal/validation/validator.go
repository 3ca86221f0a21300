// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package validation wraps go-playground/validator with a process-wide
// instance and translates failures into field-level messages in Spanish.
//
// Constraints live in struct tags next to the request types:
//
//	type RegisterRequest struct {
//	    Username string `json:"username" validate:"required,username"`
//	    Password string `json:"password" validate:"required,password"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    // err.Errors() -> [{Field: "username", Message: "..."}]
//	}
//
// Field names in errors are taken from the json tag so they match the body
// the client sent.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// FieldError is one failed constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"-"`
}

// Error implements error.
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// RequestValidationError collects every failed field of a request.
type RequestValidationError struct {
	errors []FieldError
}

// NewError builds a RequestValidationError for a single field. Services use
// it for rules that cannot be expressed as tags.
func NewError(field, message string) *RequestValidationError {
	return &RequestValidationError{errors: []FieldError{{Field: field, Message: message, Tag: "custom"}}}
}

// Errors returns the failed fields.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

// Error joins the field messages.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve.errors))
	for i, e := range ve.errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Message is the summary shown to the user.
func (ve *RequestValidationError) Message() string {
	if len(ve.errors) == 1 {
		return ve.errors[0].Message
	}
	return "Los datos enviados no son válidos"
}

// GetValidator returns the shared validator, building it on first use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// Registration only fails for empty tags or nil functions.
		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return IsStrongPassword(fl.Field().String())
		})
	})
	return validate
}

// IsStrongPassword requires 8+ characters with upper case, lower case and a digit.
func IsStrongPassword(pw string) bool {
	if len([]rune(pw)) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// ValidateStruct validates s and returns nil or the translated failures.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewError("body", "Los datos enviados no son válidos")
	}

	out := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		out[i] = FieldError{Field: fieldPath(fe), Message: translateError(fe), Tag: fe.Tag()}
	}
	return &RequestValidationError{errors: out}
}

// fieldPath drops the root struct name from the namespace, so
// "TripInput.tags[2]" becomes "tags[2]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

var messageTemplates = map[string]string{
	"required":  "Este campo es obligatorio",
	"email":     "Debe ser un correo electrónico válido",
	"username":  "Solo puede contener letras, números y guiones bajos (entre 3 y 30 caracteres)",
	"password":  "La contraseña debe tener al menos 8 caracteres, una mayúscula, una minúscula y un número",
	"uuid":      "Debe ser un identificador válido",
	"latitude":  "Debe ser una latitud válida (entre -90 y 90)",
	"longitude": "Debe ser una longitud válida (entre -180 y 180)",
}

var paramTemplates = map[string]string{
	"gte":           "Debe ser mayor o igual que %s",
	"lte":           "Debe ser menor o igual que %s",
	"gt":            "Debe ser mayor que %s",
	"lt":            "Debe ser menor que %s",
	"required_with": "Es obligatorio cuando se indica %s",
	"gtefield":      "Debe ser igual o posterior a %s",
}

func translateError(fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()

	if msg, ok := messageTemplates[tag]; ok {
		return msg
	}
	if tmpl, ok := paramTemplates[tag]; ok {
		return fmt.Sprintf(tmpl, strings.ToLower(param))
	}
	if tag == "oneof" {
		return "Debe ser uno de: " + strings.Join(strings.Fields(param), ", ")
	}
	return translateMinMax(fe, tag, param)
}

func translateMinMax(fe validator.FieldError, tag, param string) string {
	switch fe.Kind() {
	case reflect.String:
		if tag == "min" {
			return fmt.Sprintf("Debe tener al menos %s caracteres", param)
		}
		if tag == "max" {
			return fmt.Sprintf("No puede superar los %s caracteres", param)
		}
	case reflect.Slice, reflect.Array, reflect.Map:
		if tag == "min" {
			return fmt.Sprintf("Debe contener al menos %s elementos", param)
		}
		if tag == "max" {
			return fmt.Sprintf("No puede contener más de %s elementos", param)
		}
	default:
		if tag == "min" {
			return fmt.Sprintf("Debe ser mayor o igual que %s", param)
		}
		if tag == "max" {
			return fmt.Sprintf("Debe ser menor o igual que %s", param)
		}
	}
	return "Valor no válido"
}
