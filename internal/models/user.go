// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package models

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// CyclingTypes lists the accepted values of User.CyclingType.
var CyclingTypes = []string{"road", "mountain", "gravel", "touring", "commuting", "bikepacking"}

// User is a registered cyclist. Credential and verification columns are
// never serialized.
type User struct {
	ID              string  `db:"id" json:"id"`
	Username        string  `db:"username" json:"username"`
	Email           string  `db:"email" json:"email,omitempty"`
	PasswordHash    string  `db:"password_hash" json:"-"`
	FullName        *string `db:"full_name" json:"full_name"`
	Bio             *string `db:"bio" json:"bio"`
	Location        *string `db:"location" json:"location"`
	CyclingType     *string `db:"cycling_type" json:"cycling_type"`
	ProfilePhotoURL *string `db:"profile_photo_url" json:"profile_photo_url"`
	Role            string  `db:"role" json:"role"`
	IsVerified      bool    `db:"is_verified" json:"is_verified"`

	VerificationTokenHash *string    `db:"verification_token_hash" json:"-"`
	VerificationExpiresAt *time.Time `db:"verification_expires_at" json:"-"`
	FailedLoginAttempts   int        `db:"failed_login_attempts" json:"-"`
	LockedUntil           *time.Time `db:"locked_until" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsLocked reports whether the account is inside a lockout window.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// PublicUser is the subset of a user shown to other users.
type PublicUser struct {
	ID              string  `db:"id" json:"id"`
	Username        string  `db:"username" json:"username"`
	FullName        *string `db:"full_name" json:"full_name"`
	ProfilePhotoURL *string `db:"profile_photo_url" json:"profile_photo_url"`
}

// Public strips private fields.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, FullName: u.FullName, ProfilePhotoURL: u.ProfilePhotoURL}
}

// UserProfile is returned by GET /users/{username}.
type UserProfile struct {
	PublicUser
	Bio         *string    `json:"bio"`
	Location    *string    `json:"location"`
	CyclingType *string    `json:"cycling_type"`
	CreatedAt   time.Time  `json:"created_at"`
	Stats       *UserStats `json:"stats"`
	IsFollowing bool       `json:"is_following"`
}

// ProfileUpdate is a partial update of the caller's profile.
type ProfileUpdate struct {
	FullName    *string `json:"full_name" validate:"omitempty,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
	Location    *string `json:"location" validate:"omitempty,max=100"`
	CyclingType *string `json:"cycling_type" validate:"omitempty,oneof=road mountain gravel touring commuting bikepacking"`
}

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,password"`
}

// LoginInput is the body of POST /auth/login. Login accepts a username or
// an email address.
type LoginInput struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// EmailInput is the body of POST /auth/resend-verification.
type EmailInput struct {
	Email string `json:"email" validate:"required,email"`
}

// TokenInput carries a refresh or verification token.
type TokenInput struct {
	Token string `json:"token" validate:"required"`
}
