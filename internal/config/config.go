// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package config loads ContraVento configuration.
//
// Values are layered with koanf: struct defaults, then an optional YAML file
// (CONFIG_PATH, ./config.yaml, /etc/contravento/config.yaml), then environment
// variables. A .env file in the working directory is loaded into the process
// environment first, so it behaves exactly like exported variables.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	API      APIConfig      `koanf:"api"`
	Uploads  UploadsConfig  `koanf:"uploads"`
	GPX      GPXConfig      `koanf:"gpx"`
	Geocoder GeocoderConfig `koanf:"geocoder"`
	Stats    StatsConfig    `koanf:"stats"`
	Events   EventsConfig   `koanf:"events"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// PublicURL is used to build links sent to users (email verification).
	PublicURL string `koanf:"public_url"`
}

// DatabaseConfig selects the SQL driver.
//
// Driver "duckdb" takes a file path (or ":memory:") as DSN and is meant for
// development and tests. Driver "pgx" takes a PostgreSQL URL.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectRetries  int           `koanf:"connect_retries"`

	// DuckDB only.
	Threads   int    `koanf:"threads"`
	MaxMemory string `koanf:"max_memory"`
}

// SecurityConfig holds authentication settings.
type SecurityConfig struct {
	JWTSecret       string        `koanf:"jwt_secret"`
	AccessTokenTTL  time.Duration `koanf:"access_token_ttl"`
	RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl"`

	// SessionStore is "badger" or "memory". SessionPath is the badger directory.
	SessionStore string `koanf:"session_store"`
	SessionPath  string `koanf:"session_path"`

	BcryptCost       int           `koanf:"bcrypt_cost"`
	MaxLoginAttempts int           `koanf:"max_login_attempts"`
	LockoutDuration  time.Duration `koanf:"lockout_duration"`
	VerificationTTL  time.Duration `koanf:"verification_ttl"`

	CookieSecure bool     `koanf:"cookie_secure"`
	CORSOrigins  []string `koanf:"cors_origins"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	AuthRateLimit     int           `koanf:"auth_rate_limit"`
	CommentsPerHour   int           `koanf:"comments_per_hour"`
}

// APIConfig holds pagination limits.
type APIConfig struct {
	DefaultPageSize int     `koanf:"default_page_size"`
	MaxPageSize     int     `koanf:"max_page_size"`
	NearbyDefaultKm float64 `koanf:"nearby_default_km"`
	NearbyMaxKm     float64 `koanf:"nearby_max_km"`
}

// UploadsConfig configures the photo store and upload limits.
type UploadsConfig struct {
	Dir              string `koanf:"dir"`
	PublicPath       string `koanf:"public_path"`
	MaxPhotoBytes    int64  `koanf:"max_photo_bytes"`
	MaxGPXBytes      int64  `koanf:"max_gpx_bytes"`
	MaxPhotosPerTrip int    `koanf:"max_photos_per_trip"`
	ResizeQueueSize  int    `koanf:"resize_queue_size"`
	ThumbWidth       int    `koanf:"thumb_width"`
	OptimizedMaxPx   int    `koanf:"optimized_max_px"`
}

// GPXConfig bounds track simplification.
type GPXConfig struct {
	TargetMin  int     `koanf:"target_min"`
	TargetMax  int     `koanf:"target_max"`
	ToleranceM float64 `koanf:"tolerance_m"`
}

// GeocoderConfig configures the reverse geocoder and its cache.
type GeocoderConfig struct {
	BaseURL         string        `koanf:"base_url"`
	UserAgent       string        `koanf:"user_agent"`
	Language        string        `koanf:"language"`
	Zoom            int           `koanf:"zoom"`
	Timeout         time.Duration `koanf:"timeout"`
	CacheSize       int           `koanf:"cache_size"`
	Debounce        time.Duration `koanf:"debounce"`
	RatePerSecond   float64       `koanf:"rate_per_second"`
	Burst           int           `koanf:"burst"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// StatsConfig configures periodic reconciliation of user stats.
type StatsConfig struct {
	ReconcileInterval time.Duration `koanf:"reconcile_interval"`
}

// EventsConfig selects the event bus transport: "memory" or "nats".
type EventsConfig struct {
	Transport    string `koanf:"transport"`
	BufferSize   int64  `koanf:"buffer_size"`
	NATSURL      string `koanf:"nats_url"`
	EmbeddedNATS bool   `koanf:"embedded_nats"`
	NATSHost     string `koanf:"nats_host"`
	NATSPort     int    `koanf:"nats_port"`
	QueueGroup   string `koanf:"queue_group"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
