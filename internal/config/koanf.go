// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/contravento/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvFile is loaded into the environment before env vars are read.
// Variables already present in the environment win.
var DotEnvFile = ".env"

// Default returns the built-in configuration before file and environment
// overrides.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			PublicURL:       "http://localhost:5173",
		},
		Database: DatabaseConfig{
			Driver:          "duckdb",
			DSN:             "data/contravento.duckdb",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
			ConnectRetries:  5,
			Threads:         4,
			MaxMemory:       "1GB",
		},
		Security: SecurityConfig{
			AccessTokenTTL:    15 * time.Minute,
			RefreshTokenTTL:   30 * 24 * time.Hour,
			SessionStore:      "badger",
			SessionPath:       "data/sessions",
			BcryptCost:        12,
			MaxLoginAttempts:  5,
			LockoutDuration:   15 * time.Minute,
			VerificationTTL:   24 * time.Hour,
			CORSOrigins:       []string{"http://localhost:5173"},
			RateLimitRequests: 300,
			RateLimitWindow:   time.Minute,
			AuthRateLimit:     20,
			CommentsPerHour:   10,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     50,
			NearbyDefaultKm: 25,
			NearbyMaxKm:     200,
		},
		Uploads: UploadsConfig{
			Dir:              "storage/uploads",
			PublicPath:       "/uploads",
			MaxPhotoBytes:    10 << 20,
			MaxGPXBytes:      10 << 20,
			MaxPhotosPerTrip: 20,
			ResizeQueueSize:  64,
			ThumbWidth:       400,
			OptimizedMaxPx:   2000,
		},
		GPX: GPXConfig{
			TargetMin:  200,
			TargetMax:  500,
			ToleranceM: 5,
		},
		Geocoder: GeocoderConfig{
			BaseURL:         "https://nominatim.openstreetmap.org",
			UserAgent:       "ContraVento/1.0 (+https://github.com/tomtom215/contravento)",
			Language:        "es",
			Zoom:            14,
			Timeout:         5 * time.Second,
			CacheSize:       100,
			Debounce:        time.Second,
			RatePerSecond:   1,
			Burst:           1,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Stats: StatsConfig{
			ReconcileInterval: 6 * time.Hour,
		},
		Events: EventsConfig{
			Transport:  "memory",
			BufferSize: 256,
			NATSURL:    "nats://127.0.0.1:4222",
			NATSHost:   "127.0.0.1",
			NATSPort:   4222,
			QueueGroup: "contravento",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, file and environment, then
// validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma separated env values for slice settings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Variables that are not listed are ignored.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"shutdown_timeout": "server.shutdown_timeout",
	"public_url":       "server.public_url",

	"database_driver":         "database.driver",
	"database_dsn":            "database.dsn",
	"database_url":            "database.dsn",
	"database_max_open_conns": "database.max_open_conns",
	"duckdb_threads":          "database.threads",
	"duckdb_max_memory":       "database.max_memory",

	"jwt_secret":         "security.jwt_secret",
	"access_token_ttl":   "security.access_token_ttl",
	"refresh_token_ttl":  "security.refresh_token_ttl",
	"session_store":      "security.session_store",
	"session_path":       "security.session_path",
	"bcrypt_cost":        "security.bcrypt_cost",
	"max_login_attempts": "security.max_login_attempts",
	"lockout_duration":   "security.lockout_duration",
	"cookie_secure":      "security.cookie_secure",
	"cors_origins":       "security.cors_origins",
	"rate_limit":         "security.rate_limit_requests",
	"comments_per_hour":  "security.comments_per_hour",

	"upload_dir":          "uploads.dir",
	"max_photo_bytes":     "uploads.max_photo_bytes",
	"max_gpx_bytes":       "uploads.max_gpx_bytes",
	"max_photos_per_trip": "uploads.max_photos_per_trip",

	"gpx_target_min":  "gpx.target_min",
	"gpx_target_max":  "gpx.target_max",
	"gpx_tolerance_m": "gpx.tolerance_m",

	"geocoder_url":        "geocoder.base_url",
	"geocoder_user_agent": "geocoder.user_agent",
	"geocoder_timeout":    "geocoder.timeout",
	"geocoder_cache_size": "geocoder.cache_size",
	"geocoder_debounce":   "geocoder.debounce",

	"stats_reconcile_interval": "stats.reconcile_interval",

	"events_transport": "events.transport",
	"nats_url":         "events.nats_url",
	"nats_embedded":    "events.embedded_nats",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
