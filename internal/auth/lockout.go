// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package auth

import "time"

// LockoutPolicy locks an account after MaxAttempts consecutive failed
// logins. Counters live on the user row so they survive restarts and are
// shared between instances; the database increments them atomically and
// resets the counter when the lock is set. MaxAttempts <= 0 disables locking.
type LockoutPolicy struct {
	MaxAttempts int
	Duration    time.Duration
}

// Locked reports whether lockedUntil is still in the future, and for how long.
func (p LockoutPolicy) Locked(lockedUntil *time.Time, now time.Time) (bool, time.Duration) {
	if lockedUntil == nil || !now.Before(*lockedUntil) {
		return false, 0
	}
	return true, lockedUntil.Sub(now)
}

// LockedAt returns the deadline for an account that locks at now.
func (p LockoutPolicy) LockedAt(now time.Time) time.Time {
	return now.Add(p.Duration)
}
