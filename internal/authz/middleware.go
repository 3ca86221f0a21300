// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package authz

import (
	"net/http"

	"github.com/tomtom215/contravento/internal/auth"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/metrics"
)

// Denial says why a request was refused.
type Denial int

const (
	// DenyUnauthenticated: the route needs a signed-in user.
	DenyUnauthenticated Denial = iota + 1
	// DenyUnverified: the route needs a verified email.
	DenyUnverified
	// DenyForbidden: the role can never call the route.
	DenyForbidden
	// DenyError: the policy could not be evaluated.
	DenyError
)

// DenyFunc writes the response for a refused request.
type DenyFunc func(w http.ResponseWriter, r *http.Request, reason Denial)

// Middleware gates requests on the embedded policy. It must run after
// auth.Middleware.Resolve.
type Middleware struct {
	enforcer *Enforcer
	deny     DenyFunc
}

// NewMiddleware creates the gate. deny renders refusals.
func NewMiddleware(enforcer *Enforcer, deny DenyFunc) *Middleware {
	return &Middleware{enforcer: enforcer, deny: deny}
}

// Authorize refuses requests the session's role may not make.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := auth.FromContext(r.Context())
		role := RoleFor(session)

		allowed, err := m.enforcer.Allowed(role, r.URL.Path, r.Method)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Str("role", role).Msg("Authorization error")
			m.deny(w, r, DenyError)
			return
		}
		if allowed {
			next.ServeHTTP(w, r)
			return
		}

		reason, known := m.reason(role, r)
		if !known {
			// No role may call it: not a route. Let the router answer.
			next.ServeHTTP(w, r)
			return
		}
		metrics.AuthzDenied.WithLabelValues(role).Inc()
		m.deny(w, r, reason)
	})
}

// reason distinguishes "sign in", "verify your email" and "never". known is
// false when even an administrator could not make the request.
func (m *Middleware) reason(role string, r *http.Request) (reason Denial, known bool) {
	if ok, _ := m.enforcer.Allowed(RoleAdmin, r.URL.Path, r.Method); !ok {
		return 0, false
	}
	asVerified, _ := m.enforcer.Allowed(RoleVerified, r.URL.Path, r.Method)
	switch {
	case role == RoleAnonymous:
		return DenyUnauthenticated, true
	case role == RoleUnverified && asVerified:
		return DenyUnverified, true
	default:
		return DenyForbidden, true
	}
}
