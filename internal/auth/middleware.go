// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/models"
)

// Cookie names set on login and refresh.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// UserLookup loads the user behind a token.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Middleware resolves the SessionContext of every request. It never
// rejects a request; route guards decide what each state may do.
type Middleware struct {
	tokens *TokenManager
	users  UserLookup
}

// NewMiddleware creates the session resolving middleware.
func NewMiddleware(tokens *TokenManager, users UserLookup) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Resolve attaches the request's SessionContext.
func (m *Middleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc := m.resolve(r)
		ctx := WithSession(r.Context(), sc)
		if sc.UserID != "" {
			ctx = logging.ContextWithUserID(ctx, sc.UserID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) resolve(r *http.Request) SessionContext {
	token, ok := ExtractToken(r)
	if !ok {
		return Anonymous
	}
	claims, err := m.tokens.ParseAccess(token)
	if err != nil {
		return SessionContext{State: StateUnauthenticated, TokenErr: err}
	}

	// The verification flag and role come from the user row, not the
	// token, so verifying an email takes effect on the next request.
	u, err := m.users.GetUserByID(r.Context(), claims.Subject)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Str("user_id", claims.Subject).Msg("Token subject not loadable")
		return SessionContext{State: StateUnauthenticated, TokenErr: ErrInvalidToken}
	}

	state, _ := Transition(StateUnauthenticated, Event{Type: EventSessionCheckOK, Verified: u.IsVerified})
	return SessionContext{State: state, UserID: u.ID, Username: u.Username, Role: u.Role}
}

// ExtractToken returns the access token from a Bearer Authorization header,
// falling back to the access_token cookie.
func ExtractToken(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, found := strings.Cut(h, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", false
		}
		return strings.TrimSpace(token), true
	}
	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// IsExpired reports whether the session carries an expired-token error.
func (s SessionContext) IsExpired() bool {
	return errors.Is(s.TokenErr, ErrTokenExpired)
}
