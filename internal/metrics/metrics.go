// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limited requests",
		},
		[]string{"limiter"}, // "global", "auth", "comments"
	)

	AuthzDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denied_total",
			Help: "Requests refused by the route policy, by role",
		},
		[]string{"role"},
	)

	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		},
		[]string{"operation", "table"},
	)

	// Geocoding
	GeocodeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocode_cache_hits_total",
			Help: "Reverse geocode lookups served from the coordinate cache",
		},
	)

	GeocodeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocode_cache_misses_total",
			Help: "Reverse geocode lookups that required an upstream call",
		},
	)

	GeocodeCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocode_cache_evictions_total",
			Help: "Entries evicted from the coordinate cache",
		},
	)

	GeocodeUpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_upstream_requests_total",
			Help: "Outbound reverse geocode requests by outcome",
		},
		[]string{"outcome"}, // "ok", "timeout", "rate_limited", "unavailable", "not_found"
	)

	GeocodeUpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geocode_upstream_duration_seconds",
			Help:    "Duration of outbound reverse geocode requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	GeocodeDebounced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocode_debounced_total",
			Help: "Lookups collapsed into a later request by the debouncer",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Trips
	GPXProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gpx_processed_total",
			Help: "GPX files processed by result",
		},
		[]string{"result"}, // "ok", "error"
	)

	GPXProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gpx_processing_duration_seconds",
			Help:    "Time to parse and simplify a GPX file",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	GPXPointsRetained = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gpx_points_retained",
			Help:    "Points kept after simplification",
			Buckets: []float64{10, 50, 100, 200, 300, 400, 500},
		},
	)

	PhotoResizeJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_resize_jobs_total",
			Help: "Photo resize jobs by result",
		},
		[]string{"result"}, // "ok", "error", "dropped"
	)

	AchievementsUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Achievements unlocked by code",
		},
		[]string{"code"},
	)

	StatsReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stats_reconcile_duration_seconds",
			Help:    "Duration of a full user stats reconciliation",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	// Realtime
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_connections",
			Help: "Open websocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ws_messages_sent_total",
			Help: "Messages delivered to websocket clients",
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events published to the bus",
		},
		[]string{"topic"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Domain events handled by consumers",
		},
		[]string{"topic", "result"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records a database query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordGeocodeCache records a cache lookup.
func RecordGeocodeCache(hit bool) {
	if hit {
		GeocodeCacheHits.Inc()
	} else {
		GeocodeCacheMisses.Inc()
	}
}

// RecordGeocodeUpstream records an outbound geocoder call.
func RecordGeocodeUpstream(outcome string, duration time.Duration) {
	GeocodeUpstreamRequests.WithLabelValues(outcome).Inc()
	GeocodeUpstreamDuration.Observe(duration.Seconds())
}

// RecordGPXProcessed records one GPX processing run.
func RecordGPXProcessed(totalPoints, retained int, duration time.Duration, err error) {
	GPXProcessingDuration.Observe(duration.Seconds())
	if err != nil {
		GPXProcessed.WithLabelValues("error").Inc()
		return
	}
	GPXProcessed.WithLabelValues("ok").Inc()
	if totalPoints > 0 {
		GPXPointsRetained.Observe(float64(retained))
	}
}

// RecordResizeJob records the outcome of a photo resize job.
func RecordResizeJob(result string) {
	PhotoResizeJobs.WithLabelValues(result).Inc()
}

// RecordAchievementUnlocked counts a newly unlocked achievement.
func RecordAchievementUnlocked(code string) {
	AchievementsUnlocked.WithLabelValues(code).Inc()
}
