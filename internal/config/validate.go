// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package config

import (
	"errors"
	"fmt"
	"strings"
)

// MinJWTSecretLength is the shortest accepted HMAC secret.
const MinJWTSecretLength = 32

// Validate checks the configuration for values the server cannot run with.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	switch c.Database.Driver {
	case "duckdb", "pgx":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q must be duckdb or pgx", c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}

	if len(c.Security.JWTSecret) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("security.jwt_secret must be at least %d characters", MinJWTSecretLength))
	}
	if c.Security.AccessTokenTTL <= 0 || c.Security.RefreshTokenTTL <= c.Security.AccessTokenTTL {
		errs = append(errs, errors.New("security token TTLs must be positive and refresh_token_ttl > access_token_ttl"))
	}
	switch c.Security.SessionStore {
	case "badger":
		if c.Security.SessionPath == "" {
			errs = append(errs, errors.New("security.session_path is required for the badger session store"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("security.session_store %q must be badger or memory", c.Security.SessionStore))
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("security.bcrypt_cost %d out of range 4..31", c.Security.BcryptCost))
	}

	if c.API.DefaultPageSize <= 0 || c.API.DefaultPageSize > c.API.MaxPageSize {
		errs = append(errs, errors.New("api.default_page_size must be in 1..max_page_size"))
	}

	if c.Uploads.Dir == "" {
		errs = append(errs, errors.New("uploads.dir is required"))
	}
	if c.Uploads.MaxPhotosPerTrip <= 0 {
		errs = append(errs, errors.New("uploads.max_photos_per_trip must be positive"))
	}

	if c.GPX.TargetMin < 2 || c.GPX.TargetMin > c.GPX.TargetMax {
		errs = append(errs, fmt.Errorf("gpx target band %d..%d is invalid", c.GPX.TargetMin, c.GPX.TargetMax))
	}

	if c.Geocoder.CacheSize <= 0 {
		errs = append(errs, errors.New("geocoder.cache_size must be positive"))
	}
	if c.Geocoder.UserAgent == "" {
		errs = append(errs, errors.New("geocoder.user_agent is required"))
	}

	switch c.Events.Transport {
	case "memory":
	case "nats":
		if c.Events.NATSURL == "" && !c.Events.EmbeddedNATS {
			errs = append(errs, errors.New("events.nats_url is required unless events.embedded_nats is set"))
		}
	default:
		errs = append(errs, fmt.Errorf("events.transport %q must be memory or nats", c.Events.Transport))
	}

	return errors.Join(errs...)
}
