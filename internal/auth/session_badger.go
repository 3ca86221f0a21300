// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/contravento/internal/config"
)

// Key prefixes. A session is stored under session:{id}; session_user:{uid}:{id}
// indexes a user's sessions for DeleteByUserID.
const (
	sessionKeyPrefix     = "session:"
	sessionUserKeyPrefix = "session_user:"
)

// Session store backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreBadger = "badger"
)

// NewSessionStore opens the store selected by cfg.SessionStore.
func NewSessionStore(cfg *config.SecurityConfig) (SessionStore, error) {
	if cfg.SessionStore != SessionStoreBadger {
		return NewMemorySessionStore(), nil
	}
	opts := badger.DefaultOptions(cfg.SessionPath)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for sessions: %w", err)
	}
	return NewBadgerSessionStore(db), nil
}

// BadgerSessionStore persists refresh sessions in BadgerDB. Entries carry a
// badger TTL matching the session expiry, so abandoned sessions disappear
// without a sweep.
type BadgerSessionStore struct {
	db *badger.DB
}

// NewBadgerSessionStore wraps an open BadgerDB. The store owns db and closes
// it in Close.
func NewBadgerSessionStore(db *badger.DB) *BadgerSessionStore {
	return &BadgerSessionStore{db: db}
}

func sessionKey(id string) []byte { return []byte(sessionKeyPrefix + id) }

func userSessionKey(userID, id string) []byte {
	return []byte(sessionUserKeyPrefix + userID + ":" + id)
}

func (s *BadgerSessionStore) Create(_ context.Context, session *RefreshSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(badger.NewEntry(sessionKey(session.ID), data).WithTTL(ttl)); err != nil {
			return fmt.Errorf("set session: %w", err)
		}
		if err := txn.SetEntry(badger.NewEntry(userSessionKey(session.UserID, session.ID), []byte(session.ID)).WithTTL(ttl)); err != nil {
			return fmt.Errorf("set user mapping: %w", err)
		}
		return nil
	})
}

func (s *BadgerSessionStore) Get(_ context.Context, id string) (*RefreshSession, error) {
	var session RefreshSession
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		return nil, err
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	return &session, nil
}

func (s *BadgerSessionStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return deleteSession(txn, id)
	})
}

// deleteSession removes a session and its user index entry inside txn.
func deleteSession(txn *badger.Txn, id string) error {
	item, err := txn.Get(sessionKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	var session RefreshSession
	if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &session) }); err != nil {
		return fmt.Errorf("unmarshal session: %w", err)
	}
	if err := txn.Delete(sessionKey(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if session.UserID != "" {
		if err := txn.Delete(userSessionKey(session.UserID, id)); err != nil {
			return fmt.Errorf("delete user mapping: %w", err)
		}
	}
	return nil
}

func (s *BadgerSessionStore) DeleteByUserID(_ context.Context, userID string) (int, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionUserKeyPrefix + userID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			ids = append(ids, string(key[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("list user sessions: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, id := range ids {
			if err := deleteSession(txn, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// CleanupExpired removes sessions whose expiry passed but whose badger TTL
// has not yet been enforced, then runs value log GC.
func (s *BadgerSessionStore) CleanupExpired(_ context.Context) (int, error) {
	var expired []string
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var session RefreshSession
			if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &session) }); err != nil {
				continue
			}
			if session.IsExpired() {
				expired = append(expired, session.ID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan sessions: %w", err)
	}

	count := 0
	for _, id := range expired {
		if err := s.db.Update(func(txn *badger.Txn) error { return deleteSession(txn, id) }); err != nil {
			continue
		}
		count++
	}

	if err := s.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return count, fmt.Errorf("value log gc: %w", err)
	}
	return count, nil
}

func (s *BadgerSessionStore) Close() error {
	return s.db.Close()
}
