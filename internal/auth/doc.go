// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

/*
Package auth implements local email/password authentication.

Components:

  - Passwords are hashed with bcrypt.
  - Access tokens are short-lived HS256 JWTs. Refresh tokens are JWTs whose
    jti names a server-side RefreshSession; refreshing rotates the session
    so a refresh token can be used once.
  - SessionStore persists refresh sessions in badger or in memory.
  - LockoutPolicy locks an account after repeated failed logins.
  - Verification tokens are random, delivered through a Mailer and stored
    only as SHA-256 hashes.

Every request carries an explicit SessionContext, built by Middleware from
the access token and the user's current verification flag. Its State is one
of the session gate states; Transition is the pure state machine that
describes how the client-visible state moves between them.
*/
package auth
