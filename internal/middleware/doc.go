// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

/*
Package middleware provides the infrastructure middleware shared by every
route: request ids, Prometheus instrumentation and the access log.

All middleware use the func(http.Handler) http.Handler shape so they plug
straight into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.AccessLog)

Request IDs:

RequestID reuses an inbound X-Request-ID header or generates a UUID, echoes
it in the response and stores it in the logging context, so every log line
written through logging.Ctx carries request_id and correlation_id.

Metrics:

Metrics records api_requests_total and api_request_duration_seconds labelled
with the chi route pattern ("/api/v1/trips/{id}") rather than the raw path,
which keeps label cardinality bounded.
*/
package middleware
