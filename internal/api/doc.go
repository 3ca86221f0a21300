// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package api is the REST/JSON surface of ContraVento, routed with chi.
//
// Every response, success or failure, uses the same envelope:
//
//	{
//	  "success": true,
//	  "data": {...},
//	  "error": {"code": "...", "message": "...", "details": [...], "request_id": "..."},
//	  "meta": {"request_id": "...", "timestamp": "...", "pagination": {...}}
//	}
//
// Handlers decode and validate transport concerns (JSON bodies, multipart
// uploads, query parameters) and delegate everything else to
// internal/service. A *service.Error is mapped to its HTTP status by Kind;
// any other error becomes a 500 INTERNAL_ERROR whose cause is logged and
// never returned.
//
// Authentication is resolved for every /api/v1 request by auth.Middleware
// and gated by the casbin policy in internal/authz, so handlers read the
// caller from auth.FromContext and never re-check roles.
//
//	@title						ContraVento API
//	@version					1.0
//	@description				Cycling trip journal and social platform.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package api
