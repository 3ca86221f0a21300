// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/contravento/internal/config"
	"github.com/tomtom215/contravento/internal/logging"
)

// Supported drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "pgx"
)

func init() {
	// sqlx has no entry for duckdb; it accepts ? placeholders.
	sqlx.BindDriver(DriverDuckDB, sqlx.QUESTION)
}

// Queries holds every repository statement. It runs against either the
// connection pool or a transaction.
type Queries struct {
	ext sqlx.ExtContext
}

// DB is the connection pool plus the repository methods.
type DB struct {
	*Queries
	conn *sqlx.DB
	cfg  *config.DatabaseConfig

	// rowLocks serialize same-row writers on DuckDB, which has no row locks
	// and aborts concurrent updates of one row.
	rowLocks [64]sync.Mutex
}

// Tx is an open transaction. Methods that only make sense atomically
// (cascading deletes, list replacement) are defined on Tx only.
type Tx struct {
	*Queries
	tx *sqlx.Tx
}

// New opens the configured database, retrying the initial connection, and
// applies pending migrations.
func New(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := connectWithRetry(ctx, cfg.Driver, dsn, cfg.ConnectRetries)
	if err != nil {
		return nil, err
	}

	db := &DB{Queries: &Queries{ext: conn}, conn: conn, cfg: cfg}
	db.configureConnectionPool()

	if err := db.migrate(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().Str("driver", cfg.Driver).Msg("Database ready")
	return db, nil
}

// dataSourceName builds the driver DSN. DuckDB files get their parent
// directory created and tuning options appended.
func dataSourceName(cfg *config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return cfg.DSN, nil
	case DriverDuckDB:
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	path := cfg.DSN
	if path != "" && path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return "", fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	var opts []string
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	opts = append(opts, fmt.Sprintf("threads=%d", threads))
	if cfg.MaxMemory != "" {
		opts = append(opts, "max_memory="+cfg.MaxMemory)
	}
	return path + "?" + strings.Join(opts, "&"), nil
}

// connectWithRetry opens the pool and pings it, backing off exponentially
// between attempts. PostgreSQL containers often accept connections a few
// seconds after they report running.
func connectWithRetry(ctx context.Context, driver, dsn string, retries int) (*sqlx.DB, error) {
	if retries < 1 {
		retries = 1
	}
	delay := 500 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			logging.Warn().Err(lastErr).Int("attempt", attempt+1).Dur("delay", delay).Msg("Retrying database connection")
			select {
			case <-time.After(delay):
				delay *= 2
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		conn, err := sqlx.Open(driver, dsn)
		if err != nil {
			lastErr = err
			continue
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = conn.PingContext(pingCtx)
		cancel()
		if err != nil {
			closeQuietly(conn)
			lastErr = err
			continue
		}
		return conn, nil
	}
	return nil, fmt.Errorf("failed to connect after %d attempts: %w", retries, lastErr)
}

func (db *DB) configureConnectionPool() {
	maxOpen := db.cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = runtime.NumCPU()
	}
	maxIdle := db.cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 2
	}
	lifetime := db.cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}

	db.conn.SetMaxOpenConns(maxOpen)
	db.conn.SetMaxIdleConns(maxIdle)
	db.conn.SetConnMaxLifetime(lifetime)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// InTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise, including on panic.
func (db *DB) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			logging.Warn().Err(rbErr).Msg("Transaction rollback failed")
		}
	}()

	if err := fn(&Tx{Queries: &Queries{ext: sqlTx}, tx: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

// InTripTx is InTx for writers that count a trip's children before
// inserting more. Calls for the same trip run one at a time: PostgreSQL
// locks the trip row inside the transaction, DuckDB (single process) takes a
// striped mutex before the transaction begins so its snapshot is fresh.
func (db *DB) InTripTx(ctx context.Context, tripID string, fn func(tx *Tx) error) error {
	if db.Driver() == DriverPostgres {
		return db.InTx(ctx, func(tx *Tx) error {
			if err := tx.lockTrip(ctx, tripID); err != nil {
				return err
			}
			return fn(tx)
		})
	}

	m := db.keyLock("trip:" + tripID)
	m.Lock()
	defer m.Unlock()
	return db.InTx(ctx, fn)
}

func (db *DB) keyLock(key string) *sync.Mutex {
	return &db.rowLocks[xxhash.Sum64String(key)%uint64(len(db.rowLocks))]
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Driver returns the configured driver name.
func (db *DB) Driver() string {
	return db.cfg.Driver
}

// Close closes the pool.
func (db *DB) Close() error {
	return db.conn.Close()
}
