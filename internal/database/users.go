// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"
	"time"

	"github.com/tomtom215/contravento/internal/models"
)

const userColumns = `id, username, email, password_hash, full_name, bio, location, cycling_type,
	profile_photo_url, role, is_verified, verification_token_hash, verification_expires_at,
	failed_login_attempts, locked_until, created_at, updated_at`

// CreateUser inserts a user. A duplicate username or email yields ErrConflict.
func (q *Queries) CreateUser(ctx context.Context, u *models.User) error {
	_, err := q.namedExec(ctx, "users", `
		INSERT INTO users (`+userColumns+`)
		VALUES (:id, :username, :email, :password_hash, :full_name, :bio, :location, :cycling_type,
			:profile_photo_url, :role, :is_verified, :verification_token_hash, :verification_expires_at,
			:failed_login_attempts, :locked_until, :created_at, :updated_at)`, u)
	return wrapWriteErr(err)
}

// GetUserByID returns the user with the given id.
func (q *Queries) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := q.get(ctx, "users", &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername returns the user with the given username.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := q.get(ctx, "users", &u, `SELECT `+userColumns+` FROM users WHERE username = ?`, username); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail returns the user with the given (lower-cased) email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := q.get(ctx, "users", &u, `SELECT `+userColumns+` FROM users WHERE email = ?`, email); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByVerificationHash finds the user holding an outstanding
// verification token.
func (q *Queries) GetUserByVerificationHash(ctx context.Context, hash string) (*models.User, error) {
	var u models.User
	if err := q.get(ctx, "users", &u,
		`SELECT `+userColumns+` FROM users WHERE verification_token_hash = ?`, hash); err != nil {
		return nil, err
	}
	return &u, nil
}

// IdentityTaken reports whether the username or email is already registered.
func (q *Queries) IdentityTaken(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error) {
	n, err := q.count(ctx, "users", `SELECT COUNT(*) FROM users WHERE username = ?`, username)
	if err != nil {
		return false, false, err
	}
	m, err := q.count(ctx, "users", `SELECT COUNT(*) FROM users WHERE email = ?`, email)
	if err != nil {
		return false, false, err
	}
	return n > 0, m > 0, nil
}

// UpdateUserProfile applies the non-nil fields of upd.
func (q *Queries) UpdateUserProfile(ctx context.Context, id string, upd models.ProfileUpdate, now time.Time) error {
	return q.execAffected(ctx, "users", `
		UPDATE users SET
			full_name = COALESCE(?, full_name),
			bio = COALESCE(?, bio),
			location = COALESCE(?, location),
			cycling_type = COALESCE(?, cycling_type),
			updated_at = ?
		WHERE id = ?`,
		upd.FullName, upd.Bio, upd.Location, upd.CyclingType, now, id)
}

// SetVerificationToken stores a new verification token hash.
func (q *Queries) SetVerificationToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	return q.execAffected(ctx, "users",
		`UPDATE users SET verification_token_hash = ?, verification_expires_at = ? WHERE id = ?`,
		hash, expiresAt, id)
}

// MarkVerified flags the user verified and clears the token.
func (q *Queries) MarkVerified(ctx context.Context, id string, now time.Time) error {
	return q.execAffected(ctx, "users", `
		UPDATE users SET is_verified = TRUE, verification_token_hash = NULL,
			verification_expires_at = NULL, updated_at = ?
		WHERE id = ?`, now, id)
}

// ResetLoginFailures clears the failed attempt counter and any lock.
func (db *DB) ResetLoginFailures(ctx context.Context, id string) error {
	if db.Driver() != DriverPostgres {
		m := db.keyLock("user:" + id)
		m.Lock()
		defer m.Unlock()
	}
	return db.execAffected(ctx, "users",
		`UPDATE users SET failed_login_attempts = 0, locked_until = NULL WHERE id = ?`, id)
}

// RecordLoginFailure counts one failed login in a single statement. When
// the count reaches maxAttempts (and maxAttempts > 0) the account locks
// until lockUntil and the counter starts over. It returns the stored counter
// and deadline.
func (db *DB) RecordLoginFailure(ctx context.Context, id string, maxAttempts int, lockUntil time.Time) (int, *time.Time, error) {
	if db.Driver() != DriverPostgres {
		m := db.keyLock("user:" + id)
		m.Lock()
		defer m.Unlock()
	}

	var row struct {
		Attempts    int        `db:"failed_login_attempts"`
		LockedUntil *time.Time `db:"locked_until"`
	}
	err := db.get(ctx, "users", &row, `
		UPDATE users SET
			failed_login_attempts = CASE WHEN ? > 0 AND failed_login_attempts + 1 >= ?
				THEN 0 ELSE failed_login_attempts + 1 END,
			locked_until = CASE WHEN ? > 0 AND failed_login_attempts + 1 >= ?
				THEN ? ELSE locked_until END
		WHERE id = ?
		RETURNING failed_login_attempts, locked_until`,
		maxAttempts, maxAttempts, maxAttempts, maxAttempts, lockUntil, id)
	if err != nil {
		return 0, nil, err
	}
	return row.Attempts, row.LockedUntil, nil
}

// ListUserIDs returns every user id.
func (q *Queries) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := q.selectRows(ctx, "users", &ids, `SELECT id FROM users ORDER BY created_at`)
	return ids, err
}

// GetPublicUsers returns the public view of each user id that exists.
func (q *Queries) GetPublicUsers(ctx context.Context, ids []string) (map[string]models.PublicUser, error) {
	out := make(map[string]models.PublicUser, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := expandIn(`SELECT id, username, full_name, profile_photo_url FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var users []models.PublicUser
	if err := q.selectRows(ctx, "users", &users, query, args...); err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
