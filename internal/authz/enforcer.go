// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package authz maps session states to casbin roles and decides which
// routes each role may call.
package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/tomtom215/contravento/internal/auth"
	"github.com/tomtom215/contravento/internal/cache"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Roles, from least to most privileged. Each inherits the previous one.
const (
	RoleAnonymous  = "anonymous"
	RoleUnverified = "unverified"
	RoleVerified   = "verified"
	RoleAdmin      = "admin"
)

// RoleFor maps a session to its authorization role. An administrator with
// an unverified email is treated as unverified.
func RoleFor(s auth.SessionContext) string {
	switch s.State {
	case auth.StateVerified:
		if s.IsAdmin() {
			return RoleAdmin
		}
		return RoleVerified
	case auth.StateUnverified:
		return RoleUnverified
	default:
		return RoleAnonymous
	}
}

// Enforcer evaluates the embedded route policy. Decisions are cached per
// (role, method, path).
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	cache    *cache.LRU[string, bool]
}

// NewEnforcer loads the embedded model and policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := loadPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, err
	}
	return &Enforcer{enforcer: enforcer, cache: cache.NewLRU[string, bool](4096, 0)}, nil
}

// loadPolicy adds the "p" and "g" lines of a casbin CSV policy.
func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		var err error
		switch {
		case parts[0] == "p" && len(parts) == 4:
			_, err = enforcer.AddPolicy(parts[1], parts[2], parts[3])
		case parts[0] == "g" && len(parts) == 3:
			_, err = enforcer.AddGroupingPolicy(parts[1], parts[2])
		default:
			err = fmt.Errorf("malformed line")
		}
		if err != nil {
			return fmt.Errorf("policy line %q: %w", line, err)
		}
	}
	return nil
}

// Allowed reports whether role may call method on path.
func (e *Enforcer) Allowed(role, path, method string) (bool, error) {
	key := role + " " + method + " " + path
	if allowed, ok := e.cache.Get(key); ok {
		return allowed, nil
	}
	allowed, err := e.enforcer.Enforce(role, path, method)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	e.cache.Add(key, allowed)
	return allowed, nil
}
