// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/contravento/internal/models"
)

func TestRegister(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u, err := h.svc.Register(ctx, models.RegisterInput{Username: "ana", Email: " Ana@Example.com ", Password: testPassword})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if u.IsVerified || u.Email != "ana@example.com" {
		t.Errorf("user = %+v, want unverified with normalized email", u)
	}

	tests := []struct {
		name string
		in   models.RegisterInput
		code string
	}{
		{"username taken", models.RegisterInput{Username: "ana", Email: "otra@example.com", Password: testPassword}, CodeUsernameTaken},
		{"email taken", models.RegisterInput{Username: "ana2", Email: "ana@example.com", Password: testPassword}, CodeEmailTaken},
		{"weak password", models.RegisterInput{Username: "eva", Email: "eva@example.com", Password: "password"}, CodeValidation},
		{"bad username", models.RegisterInput{Username: "e-v", Email: "eva@example.com", Password: testPassword}, CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.Register(ctx, tt.in)
			wantCode(t, err, tt.code)
		})
	}

	_, err = h.svc.Register(ctx, models.RegisterInput{Username: "eva", Email: "eva@example.com", Password: "corta"})
	se, _ := AsError(err)
	if se == nil || !strings.Contains(se.Message, "al menos 8 caracteres") {
		t.Errorf("weak password message = %v, want Spanish rule", err)
	}
}

func TestVerifyEmail(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u, err := h.svc.Register(ctx, models.RegisterInput{Username: "ana", Email: "ana@example.com", Password: testPassword})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err = h.svc.VerifyEmail(ctx, "no-existe")
	wantCode(t, err, CodeInvalidToken)

	first := h.mailer.token(t, u.Email)
	if err := h.svc.ResendVerification(ctx, models.EmailInput{Email: "ana@example.com"}); err != nil {
		t.Fatalf("ResendVerification() error = %v", err)
	}
	second := h.mailer.token(t, u.Email)
	if first == second {
		t.Fatal("resend reused the token")
	}
	_, err = h.svc.VerifyEmail(ctx, first)
	wantCode(t, err, CodeInvalidToken)

	verified, err := h.svc.VerifyEmail(ctx, second)
	if err != nil {
		t.Fatalf("VerifyEmail() error = %v", err)
	}
	if !verified.IsVerified {
		t.Error("user not verified")
	}
	_, err = h.svc.VerifyEmail(ctx, second)
	wantCode(t, err, CodeInvalidToken)

	// Unknown and verified addresses are accepted silently.
	if err := h.svc.ResendVerification(ctx, models.EmailInput{Email: "nadie@example.com"}); err != nil {
		t.Errorf("ResendVerification(unknown) error = %v", err)
	}
	if err := h.svc.ResendVerification(ctx, models.EmailInput{Email: "ana@example.com"}); err != nil {
		t.Errorf("ResendVerification(verified) error = %v", err)
	}
}

func TestVerifyEmail_Expired(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u, err := h.svc.Register(ctx, models.RegisterInput{Username: "ana", Email: "ana@example.com", Password: testPassword})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	h.svc.now = func() time.Time { return time.Now().UTC().Add(25 * time.Hour) }
	_, err = h.svc.VerifyEmail(ctx, h.mailer.token(t, u.Email))
	wantCode(t, err, CodeInvalidToken)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.user(t, "ana")

	for _, login := range []string{"ana", "ana@example.com", "ANA@example.com"} {
		res, err := h.svc.Login(ctx, models.LoginInput{Login: login, Password: testPassword}, ClientInfo{})
		if err != nil {
			t.Fatalf("Login(%s) error = %v", login, err)
		}
		if res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" || res.User.Username != "ana" {
			t.Errorf("Login(%s) = %+v", login, res)
		}
	}

	_, err := h.svc.Login(ctx, models.LoginInput{Login: "nadie", Password: testPassword}, ClientInfo{})
	wantCode(t, err, CodeInvalidCredentials)
}

func TestLogin_LockoutAfterFiveFailures(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.user(t, "ana")
	bad := models.LoginInput{Login: "ana", Password: "Incorrecta1"}

	for i := 1; i <= 4; i++ {
		_, err := h.svc.Login(ctx, bad, ClientInfo{})
		wantCode(t, err, CodeInvalidCredentials)
	}
	_, err := h.svc.Login(ctx, bad, ClientInfo{})
	wantCode(t, err, CodeAccountLocked)
	se, _ := AsError(err)
	if se.RetryAfter <= 0 || se.RetryAfter > 15*time.Minute {
		t.Errorf("RetryAfter = %v", se.RetryAfter)
	}

	// The right password does not help while locked.
	_, err = h.svc.Login(ctx, models.LoginInput{Login: "ana", Password: testPassword}, ClientInfo{})
	wantCode(t, err, CodeAccountLocked)

	// After the lock expires the counter starts fresh.
	h.svc.now = func() time.Time { return time.Now().UTC().Add(16 * time.Minute) }
	if _, err := h.svc.Login(ctx, models.LoginInput{Login: "ana", Password: testPassword}, ClientInfo{}); err != nil {
		t.Fatalf("Login() after lock expiry error = %v", err)
	}
	u, _ := h.db.GetUserByUsername(ctx, "ana")
	if u.FailedLoginAttempts != 0 || u.LockedUntil != nil {
		t.Errorf("counters not reset: attempts=%d locked_until=%v", u.FailedLoginAttempts, u.LockedUntil)
	}
}

func TestLogin_ConcurrentFailuresLockOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.user(t, "ana")
	bad := models.LoginInput{Login: "ana", Password: "Incorrecta1"}

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.Login(ctx, bad, ClientInfo{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	locked := 0
	for err := range errs {
		se, ok := AsError(err)
		if !ok {
			t.Fatalf("Login() error = %v", err)
		}
		switch se.Code {
		case CodeAccountLocked:
			locked++
		case CodeInvalidCredentials:
		default:
			t.Errorf("code = %s", se.Code)
		}
	}
	if locked != 1 {
		t.Errorf("locked responses = %d, want 1", locked)
	}

	u, err := h.db.GetUserByUsername(ctx, "ana")
	if err != nil {
		t.Fatalf("GetUserByUsername() error = %v", err)
	}
	if u.FailedLoginAttempts != 0 || u.LockedUntil == nil {
		t.Errorf("attempts=%d locked_until=%v, want 0 and a deadline", u.FailedLoginAttempts, u.LockedUntil)
	}
	_, err = h.svc.Login(ctx, models.LoginInput{Login: "ana", Password: testPassword}, ClientInfo{})
	wantCode(t, err, CodeAccountLocked)
}

func TestRefreshRotation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.user(t, "ana")

	login, err := h.svc.Login(ctx, models.LoginInput{Login: "ana", Password: testPassword}, ClientInfo{UserAgent: "test", IP: "127.0.0.1"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	old := login.Tokens.RefreshToken

	rotated, err := h.svc.Refresh(ctx, old, ClientInfo{})
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if rotated.Tokens.RefreshToken == old {
		t.Fatal("refresh token not rotated")
	}

	_, err = h.svc.Refresh(ctx, old, ClientInfo{})
	wantCode(t, err, CodeUnauthorized)

	_, err = h.svc.Refresh(ctx, "garbage", ClientInfo{})
	wantCode(t, err, CodeUnauthorized)

	if err := h.svc.Logout(ctx, rotated.Tokens.RefreshToken); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	_, err = h.svc.Refresh(ctx, rotated.Tokens.RefreshToken, ClientInfo{})
	wantCode(t, err, CodeUnauthorized)

	if err := h.svc.Logout(ctx, "garbage"); err != nil {
		t.Errorf("Logout(garbage) error = %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana := h.user(t, "ana")

	p, err := h.svc.UpdateProfile(ctx, ana.ID, models.ProfileUpdate{Bio: strPtr("Cicloturista"), CyclingType: strPtr("gravel")})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if p.Bio == nil || *p.Bio != "Cicloturista" || p.CyclingType == nil || *p.CyclingType != "gravel" {
		t.Errorf("profile = %+v", p)
	}

	_, err = h.svc.UpdateProfile(ctx, ana.ID, models.ProfileUpdate{CyclingType: strPtr("tandem")})
	wantCode(t, err, CodeValidation)
	_, err = h.svc.UpdateProfile(ctx, ana.ID, models.ProfileUpdate{FullName: strPtr(strings.Repeat("x", 101))})
	wantCode(t, err, CodeValidation)
}
