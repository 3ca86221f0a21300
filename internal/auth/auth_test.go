// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/contravento/internal/config"
)

const testSecret = "this_is_a_very_long_secret_key_for_testing_purposes_12345"

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:       testSecret,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	}
}

func newTestTokens(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}
	return m
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		event   Event
		want    State
		wantErr bool
	}{
		{"load with verified session", StateUnauthenticated, Event{Type: EventSessionCheckOK, Verified: true}, StateVerified, false},
		{"load with unverified session", StateUnauthenticated, Event{Type: EventSessionCheckOK}, StateUnverified, false},
		{"load without session", StateUnauthenticated, Event{Type: EventSessionCheckFailed}, StateUnauthenticated, false},
		{"start login", StateUnauthenticated, Event{Type: EventLoginStarted}, StateAuthenticating, false},
		{"login ok verified", StateAuthenticating, Event{Type: EventLoginSucceeded, Verified: true}, StateVerified, false},
		{"login ok unverified", StateAuthenticating, Event{Type: EventLoginSucceeded}, StateUnverified, false},
		{"login failed", StateAuthenticating, Event{Type: EventLoginFailed}, StateUnauthenticated, false},
		{"verify email", StateUnverified, Event{Type: EventEmailVerified}, StateVerified, false},
		{"logout unverified", StateUnverified, Event{Type: EventLogout}, StateUnauthenticated, false},
		{"logout verified", StateVerified, Event{Type: EventLogout}, StateUnauthenticated, false},
		{"session expires", StateVerified, Event{Type: EventSessionCheckFailed}, StateUnauthenticated, false},
		{"verified stays verified", StateVerified, Event{Type: EventSessionCheckOK}, StateVerified, false},

		{"logout when anonymous", StateUnauthenticated, Event{Type: EventLogout}, StateUnauthenticated, true},
		{"login success without start", StateUnauthenticated, Event{Type: EventLoginSucceeded}, StateUnauthenticated, true},
		{"verify while anonymous", StateUnauthenticated, Event{Type: EventEmailVerified}, StateUnauthenticated, true},
		{"verify twice", StateVerified, Event{Type: EventEmailVerified}, StateVerified, true},
		{"logout mid login", StateAuthenticating, Event{Type: EventLogout}, StateAuthenticating, true},
		{"login again while logged in", StateVerified, Event{Type: EventLoginStarted}, StateVerified, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.event)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Transition() error = %v, want ErrInvalidTransition", err)
				}
			} else if err != nil {
				t.Errorf("Transition() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Transition() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("Pedalea123", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "Pedalea123" {
		t.Fatal("hash equals the password")
	}
	if ok, err := CheckPassword(hash, "Pedalea123"); !ok || err != nil {
		t.Errorf("CheckPassword(correct) = %v, %v", ok, err)
	}
	if ok, err := CheckPassword(hash, "pedalea123"); ok || err != nil {
		t.Errorf("CheckPassword(wrong) = %v, %v", ok, err)
	}
	if _, err := CheckPassword("not-a-hash", "x"); err == nil {
		t.Error("CheckPassword(malformed hash) should error")
	}
}

func TestNewTokenManager_ShortSecret(t *testing.T) {
	cfg := testSecurityConfig()
	cfg.JWTSecret = "short"
	if _, err := NewTokenManager(cfg); err == nil {
		t.Error("NewTokenManager() with short secret should fail")
	}
}

func TestTokens_IssueAndParse(t *testing.T) {
	m := newTestTokens(t)
	pair, err := m.IssuePair("user-1", "ana", "user", "session-1")
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}
	if pair.ExpiresIn != 900 || pair.TokenType != "Bearer" {
		t.Errorf("pair = %+v", pair)
	}

	access, err := m.ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccess() error = %v", err)
	}
	if access.Subject != "user-1" || access.Username != "ana" || access.Role != "user" {
		t.Errorf("access claims = %+v", access)
	}

	refresh, err := m.ParseRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ParseRefresh() error = %v", err)
	}
	if refresh.ID != "session-1" {
		t.Errorf("refresh jti = %q, want session-1", refresh.ID)
	}
	if got := refresh.ExpiresAt.Sub(refresh.IssuedAt.Time); got != 30*24*time.Hour {
		t.Errorf("refresh lifetime = %v", got)
	}

	// Types are not interchangeable.
	if _, err := m.ParseAccess(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseAccess(refresh) error = %v, want ErrInvalidToken", err)
	}
	if _, err := m.ParseRefresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseRefresh(access) error = %v, want ErrInvalidToken", err)
	}
}

func TestTokens_Rejections(t *testing.T) {
	m := newTestTokens(t)
	pair, err := m.IssuePair("user-1", "ana", "user", "s")
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}

	other, err := NewTokenManager(&config.SecurityConfig{JWTSecret: strings.Repeat("z", 40), AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewTokenManager() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
		mgr   *TokenManager
		want  error
	}{
		{"garbage", "not.a.jwt", m, ErrInvalidToken},
		{"tampered", pair.AccessToken + "x", m, ErrInvalidToken},
		{"wrong secret", pair.AccessToken, other, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.mgr.ParseAccess(tt.token); !errors.Is(err, tt.want) {
				t.Errorf("ParseAccess() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTokens_Expired(t *testing.T) {
	m := newTestTokens(t)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }
	pair, err := m.IssuePair("user-1", "ana", "user", "s")
	if err != nil {
		t.Fatalf("IssuePair() error = %v", err)
	}
	m.now = time.Now
	if _, err := m.ParseAccess(pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ParseAccess(expired) error = %v, want ErrTokenExpired", err)
	}
	if _, err := m.ParseRefresh(pair.RefreshToken); err != nil {
		t.Errorf("refresh token should still be valid: %v", err)
	}
}

func TestLockoutPolicy(t *testing.T) {
	p := LockoutPolicy{MaxAttempts: 5, Duration: 15 * time.Minute}
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	until := p.LockedAt(now)
	if !until.Equal(now.Add(15 * time.Minute)) {
		t.Fatalf("LockedAt() = %v", until)
	}
	if locked, remaining := p.Locked(&until, now.Add(time.Minute)); !locked || remaining != 14*time.Minute {
		t.Errorf("Locked() = %v, %v", locked, remaining)
	}
	if locked, _ := p.Locked(&until, now.Add(15*time.Minute)); locked {
		t.Error("lock should expire after the duration")
	}
	if locked, _ := p.Locked(nil, now); locked {
		t.Error("nil lockedUntil is never locked")
	}
}

func TestVerificationToken(t *testing.T) {
	token, hash, err := NewVerificationToken()
	if err != nil {
		t.Fatalf("NewVerificationToken() error = %v", err)
	}
	if len(token) < 40 || hash == token {
		t.Errorf("token %q hash %q", token, hash)
	}
	if HashToken(token) != hash {
		t.Error("HashToken does not reproduce the stored hash")
	}
	other, _, _ := NewVerificationToken()
	if other == token {
		t.Error("tokens are not random")
	}
	if got := VerificationLink("https://contravento.es/", "a+b"); got != "https://contravento.es/verify-email?token=a%2Bb" {
		t.Errorf("VerificationLink() = %q", got)
	}
}
