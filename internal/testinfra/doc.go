// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package testinfra starts Docker containers for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/database/...
//
// StartPostgres skips the test when Docker is unavailable and registers
// container cleanup:
//
//	func TestAgainstPostgres(t *testing.T) {
//	    pg := testinfra.StartPostgres(t)
//	    db, err := database.New(ctx, &config.DatabaseConfig{Driver: database.DriverPostgres, DSN: pg.DSN})
//	    // ...
//	}
//
// The first run pulls the image; later runs use Docker's cache.
package testinfra
