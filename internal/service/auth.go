// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/contravento/internal/auth"
	"github.com/tomtom215/contravento/internal/database"
	"github.com/tomtom215/contravento/internal/logging"
	"github.com/tomtom215/contravento/internal/models"
	"github.com/tomtom215/contravento/internal/validation"
)

const (
	msgInvalidCredentials = "Usuario o contraseña incorrectos"
	msgInvalidSession     = "Sesión no válida, inicia sesión de nuevo"
	msgInvalidToken       = "El enlace de verificación no es válido"
)

// ClientInfo describes where a login came from.
type ClientInfo struct {
	UserAgent string
	IP        string
}

// LoginResult is returned by Login and Refresh.
type LoginResult struct {
	User   *models.User
	Tokens *auth.TokenPair
}

// Register creates an unverified account and sends its verification link.
func (s *Service) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if ve := validation.ValidateStruct(in); ve != nil {
		return nil, invalid(ve)
	}

	usernameTaken, emailTaken, err := s.db.IdentityTaken(ctx, in.Username, in.Email)
	if err != nil {
		return nil, internal("identity taken", err)
	}
	if usernameTaken {
		return nil, &Error{Kind: KindConflict, Code: CodeUsernameTaken, Field: "username", Message: "El nombre de usuario ya está en uso"}
	}
	if emailTaken {
		return nil, &Error{Kind: KindConflict, Code: CodeEmailTaken, Field: "email", Message: "El email ya está registrado"}
	}

	hash, err := auth.HashPassword(in.Password, s.cfg.Security.BcryptCost)
	if err != nil {
		return nil, internal("hash password", err)
	}
	token, tokenHash, err := auth.NewVerificationToken()
	if err != nil {
		return nil, internal("verification token", err)
	}

	now := s.now()
	expires := now.Add(s.verificationTTL())
	u := &models.User{
		ID:                    uuid.NewString(),
		Username:              in.Username,
		Email:                 in.Email,
		PasswordHash:          hash,
		Role:                  models.RoleUser,
		VerificationTokenHash: &tokenHash,
		VerificationExpiresAt: &expires,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.db.CreateUser(ctx, u); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, &Error{Kind: KindConflict, Code: CodeUsernameTaken, Field: "username", Message: "El nombre de usuario ya está en uso"}
		}
		return nil, internal("create user", err)
	}

	logging.Ctx(ctx).Info().Str("user_id", u.ID).Str("username", u.Username).Msg("User registered")
	s.sendVerification(ctx, u, token)
	return u, nil
}

// Login checks credentials and opens a refresh session. Repeated failures
// lock the account.
func (s *Service) Login(ctx context.Context, in models.LoginInput, client ClientInfo) (*LoginResult, error) {
	if ve := validation.ValidateStruct(in); ve != nil {
		return nil, invalid(ve)
	}

	login := strings.TrimSpace(in.Login)
	var u *models.User
	var err error
	if strings.Contains(login, "@") {
		u, err = s.db.GetUserByEmail(ctx, strings.ToLower(login))
	} else {
		u, err = s.db.GetUserByUsername(ctx, login)
	}
	if errors.Is(err, database.ErrNotFound) {
		return nil, unauthorized(CodeInvalidCredentials, msgInvalidCredentials)
	}
	if err != nil {
		return nil, internal("find user", err)
	}

	now := s.now()
	if locked, remaining := s.lockout.Locked(u.LockedUntil, now); locked {
		return nil, accountLocked(remaining)
	}

	ok, err := auth.CheckPassword(u.PasswordHash, in.Password)
	if err != nil {
		return nil, internal("check password", err)
	}
	if !ok {
		_, until, err := s.db.RecordLoginFailure(ctx, u.ID, s.lockout.MaxAttempts, s.lockout.LockedAt(now))
		if err != nil {
			return nil, internal("record login failure", err)
		}
		if locked, remaining := s.lockout.Locked(until, now); locked {
			logging.Ctx(ctx).Warn().Str("user_id", u.ID).Time("locked_until", *until).Msg("Account locked after repeated login failures")
			return nil, accountLocked(remaining)
		}
		return nil, unauthorized(CodeInvalidCredentials, msgInvalidCredentials)
	}

	if u.FailedLoginAttempts > 0 || u.LockedUntil != nil {
		if err := s.db.ResetLoginFailures(ctx, u.ID); err != nil {
			return nil, internal("reset login failures", err)
		}
		u.FailedLoginAttempts, u.LockedUntil = 0, nil
	}

	pair, err := s.openSession(ctx, u, client)
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Str("user_id", u.ID).Msg("User logged in")
	return &LoginResult{User: u, Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a new pair. The old session is
// deleted, so each refresh token works once.
func (s *Service) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*LoginResult, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if errors.Is(err, auth.ErrTokenExpired) {
		return nil, unauthorized(CodeTokenExpired, "La sesión ha caducado")
	}
	if err != nil {
		return nil, unauthorized(CodeUnauthorized, msgInvalidSession)
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if errors.Is(err, auth.ErrSessionNotFound) || errors.Is(err, auth.ErrSessionExpired) {
		return nil, unauthorized(CodeUnauthorized, msgInvalidSession)
	}
	if err != nil {
		return nil, internal("get session", err)
	}
	if sess.UserID != claims.Subject {
		return nil, unauthorized(CodeUnauthorized, msgInvalidSession)
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return nil, internal("delete session", err)
	}

	u, err := s.db.GetUserByID(ctx, sess.UserID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, unauthorized(CodeUnauthorized, msgInvalidSession)
	}
	if err != nil {
		return nil, internal("get user", err)
	}

	pair, err := s.openSession(ctx, u, client)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Tokens: pair}, nil
}

// Logout ends the session behind refreshToken. Unknown or invalid tokens
// are ignored.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return internal("delete session", err)
	}
	return nil
}

// VerifyEmail marks the account behind token verified.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalidField("token", "Este campo es obligatorio")
	}
	u, err := s.db.GetUserByVerificationHash(ctx, auth.HashToken(token))
	if errors.Is(err, database.ErrNotFound) {
		return nil, domainErr(CodeInvalidToken, "token", msgInvalidToken)
	}
	if err != nil {
		return nil, internal("find verification token", err)
	}
	now := s.now()
	if u.VerificationExpiresAt != nil && now.After(*u.VerificationExpiresAt) {
		return nil, domainErr(CodeInvalidToken, "token", "El enlace de verificación ha caducado, solicita uno nuevo")
	}
	if err := s.db.MarkVerified(ctx, u.ID, now); err != nil {
		return nil, internal("mark verified", err)
	}
	u.IsVerified = true
	u.VerificationTokenHash, u.VerificationExpiresAt = nil, nil
	logging.Ctx(ctx).Info().Str("user_id", u.ID).Msg("Email verified")
	return u, nil
}

// ResendVerification issues a new verification link. Unknown and already
// verified addresses succeed without sending anything.
func (s *Service) ResendVerification(ctx context.Context, in models.EmailInput) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if ve := validation.ValidateStruct(in); ve != nil {
		return invalid(ve)
	}
	u, err := s.db.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return internal("find user", err)
	}
	if u.IsVerified {
		return nil
	}

	token, hash, err := auth.NewVerificationToken()
	if err != nil {
		return internal("verification token", err)
	}
	if err := s.db.SetVerificationToken(ctx, u.ID, hash, s.now().Add(s.verificationTTL())); err != nil {
		return internal("store verification token", err)
	}
	s.sendVerification(ctx, u, token)
	return nil
}

// Me returns the caller's account.
func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookupErr("get user", err, msgUserNotFound)
	}
	return u, nil
}

// GetUserByID implements auth.UserLookup.
func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.db.GetUserByID(ctx, id)
}

func (s *Service) openSession(ctx context.Context, u *models.User, client ClientInfo) (*auth.TokenPair, error) {
	sess := auth.NewRefreshSession(u.ID, s.tokens.RefreshTTL())
	sess.UserAgent = client.UserAgent
	sess.IP = client.IP
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, internal("create session", err)
	}
	pair, err := s.tokens.IssuePair(u.ID, u.Username, u.Role, sess.ID)
	if err != nil {
		return nil, internal("issue tokens", err)
	}
	return pair, nil
}

func (s *Service) sendVerification(ctx context.Context, u *models.User, token string) {
	link := auth.VerificationLink(s.cfg.Server.PublicURL, token)
	if err := s.mailer.SendVerification(ctx, u.Email, u.Username, link); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", u.ID).Msg("Failed to send verification email")
	}
}

func (s *Service) verificationTTL() time.Duration {
	if ttl := s.cfg.Security.VerificationTTL; ttl > 0 {
		return ttl
	}
	return 24 * time.Hour
}

func accountLocked(remaining time.Duration) *Error {
	return &Error{
		Kind:       KindLocked,
		Code:       CodeAccountLocked,
		Message:    "Cuenta bloqueada temporalmente por demasiados intentos fallidos",
		RetryAfter: remaining,
	}
}
