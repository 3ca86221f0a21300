// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/trips/{id}", "200"))
	RecordAPIRequest("GET", "/api/v1/trips/{id}", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/trips/{id}", "200"))

	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests) - base; got != 1 {
		t.Errorf("active requests delta = %v, want 1", got)
	}
	TrackActiveRequest(false)
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "follows"))
	RecordDBQuery("INSERT", "follows", time.Millisecond, nil)
	RecordDBQuery("INSERT", "follows", time.Millisecond, errors.New("constraint violation"))
	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("INSERT", "follows")) - before; got != 1 {
		t.Errorf("db_query_errors_total delta = %v, want 1", got)
	}
}

func TestRecordGeocodeCache(t *testing.T) {
	hits, misses := testutil.ToFloat64(GeocodeCacheHits), testutil.ToFloat64(GeocodeCacheMisses)
	RecordGeocodeCache(true)
	RecordGeocodeCache(false)
	RecordGeocodeCache(true)
	if d := testutil.ToFloat64(GeocodeCacheHits) - hits; d != 2 {
		t.Errorf("hits delta = %v, want 2", d)
	}
	if d := testutil.ToFloat64(GeocodeCacheMisses) - misses; d != 1 {
		t.Errorf("misses delta = %v, want 1", d)
	}
}

func TestRecordGPXProcessed(t *testing.T) {
	retained := histogramCount(t, GPXPointsRetained)
	okBefore := testutil.ToFloat64(GPXProcessed.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(GPXProcessed.WithLabelValues("error"))

	RecordGPXProcessed(4000, 320, 30*time.Millisecond, nil)
	RecordGPXProcessed(0, 0, time.Millisecond, errors.New("invalid"))
	RecordGPXProcessed(0, 0, time.Millisecond, nil)

	if d := testutil.ToFloat64(GPXProcessed.WithLabelValues("ok")) - okBefore; d != 2 {
		t.Errorf("ok delta = %v, want 2", d)
	}
	if d := testutil.ToFloat64(GPXProcessed.WithLabelValues("error")) - errBefore; d != 1 {
		t.Errorf("error delta = %v, want 1", d)
	}
	// Empty tracks do not contribute a retained-points sample.
	if d := histogramCount(t, GPXPointsRetained) - retained; d != 1 {
		t.Errorf("gpx_points_retained samples delta = %d, want 1", d)
	}
}

func TestRecordAchievementUnlocked(t *testing.T) {
	before := testutil.ToFloat64(AchievementsUnlocked.WithLabelValues("century"))
	RecordAchievementUnlocked("century")
	if d := testutil.ToFloat64(AchievementsUnlocked.WithLabelValues("century")) - before; d != 1 {
		t.Errorf("achievements delta = %v, want 1", d)
	}
}
