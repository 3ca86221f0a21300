// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package geo

import (
	"sync"
	"testing"
)

var anchors = []Anchor{
	{TripID: "madrid", Name: "Madrid", Latitude: 40.4168, Longitude: -3.7038},
	{TripID: "getafe", Name: "Getafe", Latitude: 40.3057, Longitude: -3.7329},
	{TripID: "toledo", Name: "Toledo", Latitude: 39.8628, Longitude: -4.0273},
	{TripID: "barcelona", Name: "Barcelona", Latitude: 41.3874, Longitude: 2.1686},
}

func ids(hits []Hit) []string {
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.TripID
	}
	return out
}

func TestIndex_Within(t *testing.T) {
	x := NewIndex()
	x.Rebuild(anchors)

	tests := []struct {
		name   string
		radius float64
		want   []string
	}{
		{"city", 5, []string{"madrid"}},
		{"metro", 25, []string{"madrid", "getafe"}},
		{"region", 100, []string{"madrid", "getafe", "toledo"}},
		{"zero radius", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(x.Within(40.42, -3.70, tt.radius))
			if len(got) != len(tt.want) {
				t.Fatalf("Within(%v) = %v, want %v", tt.radius, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Within(%v)[%d] = %s, want %s", tt.radius, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIndex_DistancesAscending(t *testing.T) {
	x := NewIndex()
	x.Rebuild(anchors)
	hits := x.Within(40.4168, -3.7038, 200)
	if len(hits) != 3 {
		t.Fatalf("hits = %v", ids(hits))
	}
	if hits[0].DistanceKm > 0.001 {
		t.Errorf("distance to self = %v", hits[0].DistanceKm)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].DistanceKm < hits[i-1].DistanceKm {
			t.Errorf("hits not sorted: %v", hits)
		}
	}
}

func TestIndex_UpsertAndRemove(t *testing.T) {
	x := NewIndex()
	x.Rebuild(anchors)

	// Moving Toledo next to Madrid replaces its old position.
	x.Upsert(Anchor{TripID: "toledo", Name: "Retiro", Latitude: 40.4153, Longitude: -3.6845})
	if x.Len() != 4 {
		t.Errorf("Len() = %d after upsert, want 4", x.Len())
	}
	got := ids(x.Within(40.4168, -3.7038, 5))
	if len(got) != 2 || got[0] != "madrid" || got[1] != "toledo" {
		t.Errorf("Within after upsert = %v", got)
	}
	if hits := x.Within(39.8628, -4.0273, 1); len(hits) != 0 {
		t.Errorf("stale anchor still indexed: %v", ids(hits))
	}

	if !x.Remove("madrid") {
		t.Error("Remove(madrid) = false")
	}
	if x.Remove("madrid") {
		t.Error("second Remove(madrid) = true")
	}
	if got := ids(x.Within(40.4168, -3.7038, 5)); len(got) != 1 || got[0] != "toledo" {
		t.Errorf("Within after remove = %v", got)
	}
}

func TestIndex_ConcurrentAccess(t *testing.T) {
	x := NewIndex()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for _, a := range anchors {
				x.Upsert(a)
			}
		}()
		go func() {
			defer wg.Done()
			_ = x.Within(40.4, -3.7, 50)
		}()
	}
	wg.Wait()
	if x.Len() != len(anchors) {
		t.Errorf("Len() = %d, want %d", x.Len(), len(anchors))
	}
}
