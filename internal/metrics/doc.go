// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

/*
Package metrics exposes Prometheus instrumentation for ContraVento.

Metrics are registered on the default registry through promauto and served
by promhttp at /metrics:

	curl http://localhost:8000/metrics

# Available Metrics

HTTP: api_requests_total, api_request_duration_seconds, api_active_requests,
api_rate_limit_hits_total.

Database: db_query_duration_seconds, db_query_errors_total.

Geocoding: geocode_cache_hits_total, geocode_cache_misses_total,
geocode_cache_evictions_total, geocode_upstream_requests_total,
geocode_upstream_duration_seconds, geocode_debounced_total,
circuit_breaker_state.

Trips: gpx_processed_total, gpx_processing_duration_seconds,
gpx_points_retained, photo_resize_jobs_total, achievements_unlocked_total,
stats_reconcile_duration_seconds.

Realtime: ws_connections, ws_messages_sent_total, events_published_total,
events_consumed_total.
*/
package metrics
