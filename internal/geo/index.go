// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

// Package geo keeps an in-memory R-tree of published trips keyed by their
// first location, for proximity search.
package geo

import (
	"math"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/tomtom215/contravento/internal/gpx"
)

const kmPerDegreeLat = 111.32

// Anchor is the indexed position of a trip.
type Anchor struct {
	TripID    string
	Name      string
	Latitude  float64
	Longitude float64
}

// Hit is an anchor within a search radius.
type Hit struct {
	Anchor
	DistanceKm float64
}

type item struct {
	Anchor
	rect rtreego.Rect
}

func newItem(a Anchor) *item {
	// Points are stored as (lon, lat) with a negligible extent.
	return &item{Anchor: a, rect: rtreego.Point{a.Longitude, a.Latitude}.ToRect(1e-9)}
}

func (it *item) Bounds() rtreego.Rect { return it.rect }

// Index is safe for concurrent use. Searches take a read lock; writes
// (publish, location change, delete) take the write lock.
type Index struct {
	mu     sync.RWMutex
	tree   *rtreego.Rtree
	byTrip map[string]*item
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{tree: rtreego.NewTree(2, 25, 50), byTrip: make(map[string]*item)}
}

// Rebuild replaces the index contents with anchors.
func (x *Index) Rebuild(anchors []Anchor) {
	items := make([]rtreego.Spatial, 0, len(anchors))
	byTrip := make(map[string]*item, len(anchors))
	for _, a := range anchors {
		it := newItem(a)
		items = append(items, it)
		byTrip[a.TripID] = it
	}
	tree := rtreego.NewTree(2, 25, 50, items...)

	x.mu.Lock()
	x.tree, x.byTrip = tree, byTrip
	x.mu.Unlock()
}

// Upsert indexes a, replacing any previous anchor of the same trip.
func (x *Index) Upsert(a Anchor) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if old, ok := x.byTrip[a.TripID]; ok {
		x.tree.Delete(old)
	}
	it := newItem(a)
	x.tree.Insert(it)
	x.byTrip[a.TripID] = it
}

// Remove drops tripID from the index. It reports whether it was present.
func (x *Index) Remove(tripID string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	old, ok := x.byTrip[tripID]
	if !ok {
		return false
	}
	x.tree.Delete(old)
	delete(x.byTrip, tripID)
	return true
}

// Len returns the number of indexed trips.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byTrip)
}

// Within returns anchors whose great-circle distance from (lat, lon) is at
// most radiusKm, nearest first.
func (x *Index) Within(lat, lon, radiusKm float64) []Hit {
	if radiusKm <= 0 {
		return nil
	}
	dLat := radiusKm / kmPerDegreeLat
	dLon := radiusKm / (kmPerDegreeLat * math.Max(math.Cos(lat*math.Pi/180), 0.01))
	minLon, minLat := math.Max(lon-dLon, -180), math.Max(lat-dLat, -90)
	maxLon, maxLat := math.Min(lon+dLon, 180), math.Min(lat+dLat, 90)

	box, err := rtreego.NewRect(rtreego.Point{minLon, minLat}, []float64{maxLon - minLon, maxLat - minLat})
	if err != nil {
		return nil
	}

	x.mu.RLock()
	candidates := x.tree.SearchIntersect(box)
	x.mu.RUnlock()

	hits := make([]Hit, 0, len(candidates))
	for _, c := range candidates {
		it := c.(*item)
		d := gpx.HaversineKm(lat, lon, it.Latitude, it.Longitude)
		if d <= radiusKm {
			hits = append(hits, Hit{Anchor: it.Anchor, DistanceKm: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].DistanceKm != hits[j].DistanceKm {
			return hits[i].DistanceKm < hits[j].DistanceKm
		}
		return hits[i].TripID < hits[j].TripID
	})
	return hits
}
