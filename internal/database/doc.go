// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package database is the persistence layer: a sqlx pool over DuckDB
// (development and tests) or PostgreSQL through pgx (production), the
// versioned schema, and one repository method per statement.
//
// Queries are written with ? placeholders and rebound for the active
// driver. Repository methods live on Queries, which both DB and Tx embed,
// so the same call works inside or outside a transaction:
//
//	err := db.InTx(ctx, func(tx *database.Tx) error {
//	    if err := tx.UpdateTrip(ctx, trip); err != nil {
//	        return err
//	    }
//	    _, err := stats.Recalculate(ctx, tx, trip.UserID)
//	    return err
//	})
//
// Lookups that match nothing return ErrNotFound; uniqueness violations
// return ErrConflict.
package database
