// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/contravento/internal/logging"
)

// NewVerificationToken returns a random URL-safe token and the hash to store.
func NewVerificationToken() (token, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate verification token: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(b)
	return token, HashToken(token), nil
}

// HashToken is the SHA-256 hex digest under which tokens are stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerificationLink builds the link sent to users.
func VerificationLink(publicURL, token string) string {
	return strings.TrimRight(publicURL, "/") + "/verify-email?token=" + url.QueryEscape(token)
}

// Mailer delivers account emails.
type Mailer interface {
	SendVerification(ctx context.Context, email, username, link string) error
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) SendVerification(ctx context.Context, email, username, link string) error {
	logging.Ctx(ctx).Info().Str("to", email).Str("username", username).Str("link", link).Msg("Verification email")
	return nil
}
