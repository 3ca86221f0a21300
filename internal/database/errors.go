// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/contravento/internal/metrics"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write violates a uniqueness rule.
	ErrConflict = errors.New("record already exists")
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate key") ||
		strings.Contains(msg, "violates unique constraint") ||
		strings.Contains(msg, "violates primary key constraint")
}

// wrapWriteErr maps uniqueness violations to ErrConflict.
func wrapWriteErr(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// queryOp is the leading SQL keyword, used as the metrics operation label.
func queryOp(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	return strings.ToUpper(fields[0])
}

func observe(table, query string, start time.Time, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	metrics.RecordDBQuery(queryOp(query), table, time.Since(start), err)
}

// get scans a single row into dest, mapping no rows to ErrNotFound.
func (q *Queries) get(ctx context.Context, table string, dest interface{}, query string, args ...interface{}) error {
	query = q.ext.Rebind(query)
	start := time.Now()
	err := sqlx.GetContext(ctx, q.ext, dest, query, args...)
	observe(table, query, start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// selectRows scans every row into the slice pointed to by dest.
func (q *Queries) selectRows(ctx context.Context, table string, dest interface{}, query string, args ...interface{}) error {
	query = q.ext.Rebind(query)
	start := time.Now()
	err := sqlx.SelectContext(ctx, q.ext, dest, query, args...)
	observe(table, query, start, err)
	return err
}

func (q *Queries) exec(ctx context.Context, table, query string, args ...interface{}) (sql.Result, error) {
	query = q.ext.Rebind(query)
	start := time.Now()
	res, err := q.ext.ExecContext(ctx, query, args...)
	observe(table, query, start, err)
	return res, err
}

// namedExec binds :name parameters from a struct, map or slice of structs.
func (q *Queries) namedExec(ctx context.Context, table, query string, arg interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := sqlx.NamedExecContext(ctx, q.ext, query, arg)
	observe(table, query, start, err)
	return res, err
}

// execAffected runs query and returns ErrNotFound when no row changed.
func (q *Queries) execAffected(ctx context.Context, table, query string, args ...interface{}) error {
	res, err := q.exec(ctx, table, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// count runs a COUNT query.
func (q *Queries) count(ctx context.Context, table, query string, args ...interface{}) (int, error) {
	var n int
	if err := q.get(ctx, table, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}

// expandIn expands slice arguments for IN (?) clauses.
func expandIn(query string, args ...interface{}) (string, []interface{}, error) {
	return sqlx.In(query, args...)
}
