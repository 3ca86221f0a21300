// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/contravento/internal/config"
)

func openBadgerStore(t *testing.T) SessionStore {
	t.Helper()
	store, err := NewSessionStore(&config.SecurityConfig{SessionStore: SessionStoreBadger, SessionPath: t.TempDir()})
	if err != nil {
		t.Fatalf("NewSessionStore(badger) error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSessionStores(t *testing.T) {
	stores := map[string]func(t *testing.T) SessionStore{
		"memory": func(*testing.T) SessionStore { return NewMemorySessionStore() },
		"badger": openBadgerStore,
	}
	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			a := NewRefreshSession("user-a", time.Hour)
			a2 := NewRefreshSession("user-a", time.Hour)
			b := NewRefreshSession("user-b", time.Hour)
			for _, s := range []*RefreshSession{a, a2, b} {
				if err := store.Create(ctx, s); err != nil {
					t.Fatalf("Create() error = %v", err)
				}
			}

			got, err := store.Get(ctx, a.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.UserID != "user-a" || !got.ExpiresAt.Equal(a.ExpiresAt) {
				t.Errorf("Get() = %+v", got)
			}

			if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Get(missing) error = %v", err)
			}

			if err := store.Delete(ctx, a.ID); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := store.Get(ctx, a.ID); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Get(deleted) error = %v", err)
			}
			if err := store.Delete(ctx, a.ID); err != nil {
				t.Errorf("Delete(deleted) error = %v", err)
			}

			n, err := store.DeleteByUserID(ctx, "user-a")
			if err != nil || n != 1 {
				t.Errorf("DeleteByUserID() = %d, %v; want 1", n, err)
			}
			if _, err := store.Get(ctx, b.ID); err != nil {
				t.Errorf("other user's session removed: %v", err)
			}
		})
	}
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	s := NewRefreshSession("u", time.Hour)
	s.ExpiresAt = time.Now().Add(-time.Second)
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := store.Get(ctx, s.ID); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Get(expired) error = %v", err)
	}
	if n, _ := store.CleanupExpired(ctx); n != 1 {
		t.Errorf("CleanupExpired() = %d, want 1", n)
	}
}

func TestBadgerSessionStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := &config.SecurityConfig{SessionStore: SessionStoreBadger, SessionPath: dir}

	store, err := NewSessionStore(cfg)
	if err != nil {
		t.Fatalf("NewSessionStore() error = %v", err)
	}
	s := NewRefreshSession("u", time.Hour)
	if err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSessionStore(cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(ctx, s.ID); err != nil {
		t.Errorf("session lost across restart: %v", err)
	}
	if n, err := reopened.CleanupExpired(ctx); err != nil || n != 0 {
		t.Errorf("CleanupExpired() = %d, %v", n, err)
	}
}

func TestSessionContextAlongsideBadgerStore(t *testing.T) {
	store := openBadgerStore(t)
	refresh := NewRefreshSession("user-1", time.Hour)
	if err := store.Create(context.Background(), refresh); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ctx := WithSession(context.Background(), SessionContext{State: StateVerified, UserID: "user-1", Role: "user"})
	if got := FromContext(ctx); got.UserID != "user-1" || got.State != StateVerified {
		t.Errorf("FromContext() = %+v", got)
	}
	if _, err := store.Get(ctx, refresh.ID); err != nil {
		t.Errorf("Get() with session context error = %v", err)
	}
	if string(sessionKey(refresh.ID)) != sessionKeyPrefix+refresh.ID {
		t.Errorf("sessionKey(%q) = %q", refresh.ID, sessionKey(refresh.ID))
	}
}
