// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/contravento/internal/models"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func TestMiddleware_Resolve(t *testing.T) {
	tokens := newTestTokens(t)
	users := fakeUsers{
		"v": {ID: "v", Username: "verificada", Role: models.RoleUser, IsVerified: true},
		"u": {ID: "u", Username: "pendiente", Role: models.RoleUser},
		"a": {ID: "a", Username: "admin", Role: models.RoleAdmin, IsVerified: true},
	}
	token := func(id string) string {
		pair, err := tokens.IssuePair(id, users[id].Username, users[id].Role, "s")
		if err != nil {
			t.Fatalf("IssuePair() error = %v", err)
		}
		return pair.AccessToken
	}
	expiredTokens := newTestTokens(t)
	expiredTokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _ := expiredTokens.IssuePair("v", "verificada", "user", "s")
	ghost, _ := tokens.IssuePair("ghost", "ghost", "user", "s")

	tests := []struct {
		name        string
		setup       func(r *http.Request)
		wantState   State
		wantUser    string
		wantAdmin   bool
		wantExpired bool
	}{
		{"no credentials", func(*http.Request) {}, StateUnauthenticated, "", false, false},
		{"bearer verified", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token("v")) }, StateVerified, "v", false, false},
		{"cookie unverified", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessCookie, Value: token("u")}) }, StateUnverified, "u", false, false},
		{"admin", func(r *http.Request) { r.Header.Set("Authorization", "bearer "+token("a")) }, StateVerified, "a", true, false},
		{"expired", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired.AccessToken) }, StateUnauthenticated, "", false, true},
		{"deleted user", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+ghost.AccessToken) }, StateUnauthenticated, "", false, false},
		{"basic scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic Zm9vOmJhcg==") }, StateUnauthenticated, "", false, false},
	}

	mw := NewMiddleware(tokens, users)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SessionContext
			h := mw.Resolve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = FromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", http.NoBody)
			tt.setup(req)
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got.State != tt.wantState {
				t.Errorf("State = %s, want %s", got.State, tt.wantState)
			}
			if got.UserID != tt.wantUser {
				t.Errorf("UserID = %q, want %q", got.UserID, tt.wantUser)
			}
			if got.IsAdmin() != tt.wantAdmin {
				t.Errorf("IsAdmin() = %v", got.IsAdmin())
			}
			if got.IsExpired() != tt.wantExpired {
				t.Errorf("IsExpired() = %v (err %v)", got.IsExpired(), got.TokenErr)
			}
		})
	}
}

func TestFromContext_DefaultsToAnonymous(t *testing.T) {
	if s := FromContext(context.Background()); s.State != StateUnauthenticated || s.UserID != "" {
		t.Errorf("FromContext() = %+v", s)
	}
}
