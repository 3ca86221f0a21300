// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/contravento/internal/models"
)

// ErrInvalidTransition is returned by Transition for an event the state
// does not accept.
var ErrInvalidTransition = errors.New("invalid session state transition")

// State is a session gate state.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateUnverified      State = "authenticated_unverified"
	StateVerified        State = "authenticated_verified"
)

// Authenticated reports whether s has a logged-in user.
func (s State) Authenticated() bool {
	return s == StateUnverified || s == StateVerified
}

// EventType names a session gate event.
type EventType string

const (
	EventSessionCheckOK     EventType = "session_check_ok"
	EventSessionCheckFailed EventType = "session_check_failed"
	EventLoginStarted       EventType = "login_started"
	EventLoginSucceeded     EventType = "login_succeeded"
	EventLoginFailed        EventType = "login_failed"
	EventLogout             EventType = "logout"
	EventEmailVerified      EventType = "email_verified"
)

// Event drives Transition. Verified is meaningful for session_check_ok and
// login_succeeded.
type Event struct {
	Type     EventType
	Verified bool
}

func authenticatedState(verified bool) State {
	if verified {
		return StateVerified
	}
	return StateUnverified
}

// Transition returns the state that follows s on e.
func Transition(s State, e Event) (State, error) {
	switch s {
	case StateUnauthenticated:
		switch e.Type {
		case EventSessionCheckOK:
			return authenticatedState(e.Verified), nil
		case EventSessionCheckFailed:
			return StateUnauthenticated, nil
		case EventLoginStarted:
			return StateAuthenticating, nil
		}
	case StateAuthenticating:
		switch e.Type {
		case EventLoginSucceeded:
			return authenticatedState(e.Verified), nil
		case EventLoginFailed:
			return StateUnauthenticated, nil
		}
	case StateUnverified:
		switch e.Type {
		case EventEmailVerified:
			return StateVerified, nil
		case EventSessionCheckOK:
			return authenticatedState(e.Verified), nil
		case EventSessionCheckFailed, EventLogout:
			return StateUnauthenticated, nil
		}
	case StateVerified:
		switch e.Type {
		case EventSessionCheckOK:
			// Verification is never revoked.
			return StateVerified, nil
		case EventSessionCheckFailed, EventLogout:
			return StateUnauthenticated, nil
		}
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e.Type, s)
}

// SessionContext describes who is making a request.
type SessionContext struct {
	State    State
	UserID   string
	Username string
	Role     string

	// TokenErr is set when a token was presented but rejected.
	TokenErr error
}

// Anonymous is the SessionContext of a request without valid credentials.
var Anonymous = SessionContext{State: StateUnauthenticated}

// IsAdmin reports whether the session belongs to an administrator.
func (s SessionContext) IsAdmin() bool {
	return s.State.Authenticated() && s.Role == models.RoleAdmin
}

type sessionCtxKey struct{}

// WithSession returns ctx carrying s.
func WithSession(ctx context.Context, s SessionContext) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// FromContext returns the request's SessionContext, or Anonymous.
func FromContext(ctx context.Context) SessionContext {
	if s, ok := ctx.Value(sessionCtxKey{}).(SessionContext); ok {
		return s
	}
	return Anonymous
}
