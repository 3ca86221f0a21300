// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package models defines the plain data structs shared by the repository,
// service and API layers. Structs carry `db` tags for sqlx scanning and
// `json` tags for the REST envelope; they hold no behaviour beyond small
// derived helpers.
package models
