// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package gpx

import (
	"math"
	"sort"
)

// SimplifyOptions bounds the size of a simplified track.
type SimplifyOptions struct {
	// TargetMin and TargetMax bound the number of retained points for inputs
	// longer than TargetMax. Shorter inputs are kept whole.
	TargetMin int
	TargetMax int

	// ToleranceM is the Douglas-Peucker epsilon in metres. The point count it
	// produces is clamped into [TargetMin, TargetMax].
	ToleranceM float64
}

// DefaultSimplifyOptions matches the stored track size used by the map view.
var DefaultSimplifyOptions = SimplifyOptions{TargetMin: 200, TargetMax: 500, ToleranceM: 5}

// Simplify returns the ascending indices of the points to keep.
//
// Each point is ranked by the epsilon at which Douglas-Peucker would drop it:
// its distance from the chord when it is chosen as the split point, capped by
// the rank of the split that created its sub-range. Keeping every point with
// rank > eps is exactly DP(eps), so keeping the k highest ranked points is a
// DP result for some eps and k can be chosen freely to land in the target
// band. Both endpoints have infinite rank and are always kept.
func Simplify(points []Point, opts SimplifyOptions) []int {
	n := len(points)
	if n <= opts.TargetMax || n <= 2 {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}

	rank := dpRanks(project(points))

	keep := 0
	for _, r := range rank {
		if r > opts.ToleranceM {
			keep++
		}
	}
	keep = max(keep, opts.TargetMin)
	keep = min(keep, opts.TargetMax, n)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rank[order[a]] > rank[order[b]]
	})

	kept := order[:keep]
	sort.Ints(kept)
	return kept
}

type xy struct{ x, y float64 }

// project maps coordinates to a local equirectangular plane in metres,
// centred on the mean latitude of the track.
func project(points []Point) []xy {
	meanLat := 0.0
	for _, p := range points {
		meanLat += p.Latitude
	}
	meanLat /= float64(len(points))
	k := math.Cos(meanLat * math.Pi / 180)

	const mPerRad = EarthRadiusKm * 1000
	out := make([]xy, len(points))
	for i, p := range points {
		out[i] = xy{
			x: p.Longitude * math.Pi / 180 * mPerRad * k,
			y: p.Latitude * math.Pi / 180 * mPerRad,
		}
	}
	return out
}

// dpRanks runs Douglas-Peucker to the bottom with an explicit stack and
// records, for every interior point, the largest epsilon that still keeps it.
func dpRanks(pts []xy) []float64 {
	n := len(pts)
	rank := make([]float64, n)
	rank[0], rank[n-1] = math.Inf(1), math.Inf(1)

	type span struct {
		first, last int
		ceiling     float64
	}
	stack := []span{{0, n - 1, math.Inf(1)}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.last-s.first < 2 {
			continue
		}

		split, dist := -1, -1.0
		for i := s.first + 1; i < s.last; i++ {
			if d := segmentDistance(pts[i], pts[s.first], pts[s.last]); d > dist {
				split, dist = i, d
			}
		}

		r := math.Min(dist, s.ceiling)
		rank[split] = r
		stack = append(stack, span{s.first, split, r}, span{split, s.last, r})
	}
	return rank
}

// segmentDistance is the distance from p to the segment a-b.
func segmentDistance(p, a, b xy) float64 {
	dx, dy := b.x-a.x, b.y-a.y
	if dx == 0 && dy == 0 {
		return math.Hypot(p.x-a.x, p.y-a.y)
	}
	t := ((p.x-a.x)*dx + (p.y-a.y)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.x-(a.x+t*dx), p.y-(a.y+t*dy))
}
