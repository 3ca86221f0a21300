// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package gpx

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"
)

// kmPerDegreeLat is the meridian arc length of one degree for EarthRadiusKm.
var kmPerDegreeLat = 2 * math.Pi * EarthRadiusKm / 360

// buildGPX renders points as a GPX 1.1 document with one track segment.
func buildGPX(points []Point) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1"><trk><name>t</name><trkseg>` + "\n")
	for _, p := range points {
		fmt.Fprintf(&b, `<trkpt lat="%.7f" lon="%.7f">`, p.Latitude, p.Longitude)
		if p.Elevation != nil {
			fmt.Fprintf(&b, `<ele>%.2f</ele>`, *p.Elevation)
		}
		if p.Time != nil {
			fmt.Fprintf(&b, `<time>%s</time>`, p.Time.Format(time.RFC3339))
		}
		b.WriteString("</trkpt>\n")
	}
	b.WriteString(`</trkseg></trk></gpx>`)
	return []byte(b.String())
}

// climbAndDescend builds n points due north over totalKm with elevation
// rising linearly by gainM over the first half and falling back after.
func climbAndDescend(n int, totalKm, gainM float64) []Point {
	step := totalKm / kmPerDegreeLat / float64(n-1)
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	half := (n - 1) / 2

	points := make([]Point, n)
	for i := range points {
		var ele float64
		if i <= half {
			ele = 600 + gainM*float64(i)/float64(half)
		} else {
			ele = 600 + gainM*float64(n-1-i)/float64(n-1-half)
		}
		ts := start.Add(time.Duration(i) * 5 * time.Second)
		points[i] = Point{Latitude: 40.0 + step*float64(i), Longitude: -3.7, Elevation: &ele, Time: &ts}
	}
	return points
}

// wiggle builds a noisy random walk so Douglas-Peucker has real work to do.
func wiggle(n int) []Point {
	rng := rand.New(rand.NewSource(42))
	points := make([]Point, n)
	lat, lng := 42.8, -1.6
	for i := range points {
		lat += 0.0001 + (rng.Float64()-0.5)*0.0004
		lng += (rng.Float64() - 0.5) * 0.0006
		points[i] = Point{Latitude: lat, Longitude: lng}
	}
	return points
}

func TestHaversineKm(t *testing.T) {
	// Madrid (Puerta del Sol) to Barcelona (Plaça de Catalunya) is about 505 km.
	d := HaversineKm(40.4168, -3.7038, 41.3870, 2.1700)
	if d < 500 || d > 510 {
		t.Errorf("HaversineKm(Madrid, Barcelona) = %.1f, want ~505", d)
	}
	if HaversineKm(1, 1, 1, 1) != 0 {
		t.Error("distance to self should be 0")
	}
}

func TestParse(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		_, err := Parse([]byte("this is not xml <gpx"))
		if !errors.Is(err, ErrInvalidGPX) {
			t.Errorf("Parse() error = %v, want ErrInvalidGPX", err)
		}
	})

	t.Run("track points", func(t *testing.T) {
		points, err := Parse(buildGPX(climbAndDescend(10, 1, 10)))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(points) != 10 {
			t.Fatalf("len(points) = %d, want 10", len(points))
		}
		if points[0].Elevation == nil || points[0].Time == nil {
			t.Error("elevation and time should be parsed")
		}
	})

	t.Run("route fallback", func(t *testing.T) {
		doc := `<?xml version="1.0"?><gpx version="1.1" creator="t" xmlns="http://www.topografix.com/GPX/1/1">` +
			`<rte><rtept lat="40.0" lon="-3.0"></rtept><rtept lat="40.1" lon="-3.0"></rtept></rte></gpx>`
		points, err := Parse([]byte(doc))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(points) != 2 || points[0].Elevation != nil {
			t.Errorf("route points = %+v", points)
		}
	})
}

func TestComputeTelemetry_Degenerate(t *testing.T) {
	ele := 100.0
	for _, pts := range [][]Point{nil, {{Latitude: 1, Longitude: 1, Elevation: &ele}}} {
		tel := ComputeTelemetry(pts)
		if tel.DistanceKm != nil || tel.ElevationGain != nil || tel.ElevationLoss != nil ||
			tel.MaxElevation != nil || tel.MinElevation != nil {
			t.Errorf("telemetry for %d points should be null, got %+v", len(pts), tel)
		}
		if tel.TotalPoints != len(pts) {
			t.Errorf("TotalPoints = %d, want %d", tel.TotalPoints, len(pts))
		}
	}
}

func TestComputeTelemetry_NoElevation(t *testing.T) {
	tel := ComputeTelemetry([]Point{{Latitude: 40, Longitude: -3}, {Latitude: 40.01, Longitude: -3}})
	if tel.DistanceKm == nil || *tel.DistanceKm <= 0 {
		t.Fatalf("DistanceKm = %v, want positive", tel.DistanceKm)
	}
	if tel.HasElevation || tel.ElevationGain != nil || tel.MaxElevation != nil {
		t.Errorf("elevation fields should be null: %+v", tel)
	}
}

// A 4000 point ride over 50 km with 800 m of climbing.
func TestProcess_FiftyKilometreRide(t *testing.T) {
	data := buildGPX(climbAndDescend(4000, 50, 800))

	res, err := Process(data, DefaultSimplifyOptions)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	tel := res.Telemetry
	if tel.TotalPoints != 4000 {
		t.Errorf("TotalPoints = %d, want 4000", tel.TotalPoints)
	}
	if tel.DistanceKm == nil || math.Abs(*tel.DistanceKm-50) > 0.5 {
		t.Errorf("DistanceKm = %v, want 50 ±1%%", tel.DistanceKm)
	}
	if tel.ElevationGain == nil || math.Abs(*tel.ElevationGain-800) > 40 {
		t.Errorf("ElevationGain = %v, want 800 ±5%%", tel.ElevationGain)
	}
	if tel.ElevationLoss == nil || math.Abs(*tel.ElevationLoss-800) > 40 {
		t.Errorf("ElevationLoss = %v, want ~800", tel.ElevationLoss)
	}
	if tel.MaxElevation == nil || *tel.MaxElevation != 1400 || *tel.MinElevation != 600 {
		t.Errorf("Max/MinElevation = %v/%v, want 1400/600", tel.MaxElevation, tel.MinElevation)
	}
	if !tel.HasTimestamps || tel.StartTime == nil || tel.EndTime == nil || !tel.EndTime.After(*tel.StartTime) {
		t.Errorf("timestamps not captured: %+v", tel)
	}

	if n := len(res.Points); n < 200 || n > 500 {
		t.Errorf("simplified point count = %d, want 200..500", n)
	}
	first, last := res.Points[0], res.Points[len(res.Points)-1]
	if first.Latitude != 40.0 || first.DistanceKm != 0 {
		t.Errorf("first point = %+v, want original start", first)
	}
	if math.Abs(last.DistanceKm-*tel.DistanceKm) > 0.01 {
		t.Errorf("last point distance = %.3f, want %.3f", last.DistanceKm, *tel.DistanceKm)
	}
	if first.Gradient != nil {
		t.Error("first point should have no gradient")
	}
	// Climbing 800 m over 25 km is a 3.2% grade.
	if g := res.Points[1].Gradient; g == nil || math.Abs(*g-3.2) > 0.2 {
		t.Errorf("climb gradient = %v, want ~3.2", g)
	}
	for i := 1; i < len(res.Points); i++ {
		if res.Points[i].Sequence != i || res.Points[i].DistanceKm < res.Points[i-1].DistanceKm {
			t.Fatalf("points not ordered at %d", i)
		}
	}
}

func TestSimplify_BandAndEndpoints(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		opts   SimplifyOptions
		min    int
		max    int
	}{
		{"5000 noisy points", wiggle(5000), DefaultSimplifyOptions, 200, 500},
		{"5000 points zero tolerance", wiggle(5000), SimplifyOptions{TargetMin: 200, TargetMax: 500, ToleranceM: 0}, 500, 500},
		{"5000 points huge tolerance", wiggle(5000), SimplifyOptions{TargetMin: 200, TargetMax: 500, ToleranceM: 1e9}, 200, 200},
		{"straight line", climbAndDescend(5000, 50, 0), DefaultSimplifyOptions, 200, 200},
		{"short track kept whole", wiggle(150), DefaultSimplifyOptions, 150, 150},
		{"exactly max", wiggle(500), DefaultSimplifyOptions, 500, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := Simplify(tt.points, tt.opts)
			if len(idx) < tt.min || len(idx) > tt.max {
				t.Fatalf("len = %d, want %d..%d", len(idx), tt.min, tt.max)
			}
			if idx[0] != 0 || idx[len(idx)-1] != len(tt.points)-1 {
				t.Errorf("endpoints not kept: first=%d last=%d", idx[0], idx[len(idx)-1])
			}
			for i := 1; i < len(idx); i++ {
				if idx[i] <= idx[i-1] {
					t.Fatalf("indices not strictly ascending at %d", i)
				}
			}
		})
	}
}

// Keeping the top-k ranked points must equal running DP at the matching
// epsilon: every kept point outranks every dropped one.
func TestSimplify_MatchesDouglasPeucker(t *testing.T) {
	points := wiggle(3000)
	rank := dpRanks(project(points))
	idx := Simplify(points, DefaultSimplifyOptions)

	kept := make(map[int]bool, len(idx))
	minKept := math.Inf(1)
	for _, i := range idx {
		kept[i] = true
		minKept = math.Min(minKept, rank[i])
	}
	for i, r := range rank {
		if !kept[i] && r > minKept {
			t.Fatalf("dropped point %d (rank %.3f) outranks a kept point (%.3f)", i, r, minKept)
		}
	}
}

func TestProcess_EmptyTrack(t *testing.T) {
	doc := `<?xml version="1.0"?><gpx version="1.1" creator="t" xmlns="http://www.topografix.com/GPX/1/1"><trk><trkseg></trkseg></trk></gpx>`
	res, err := Process([]byte(doc), DefaultSimplifyOptions)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if res.Telemetry.DistanceKm != nil || len(res.Points) != 0 {
		t.Errorf("empty track result = %+v", res)
	}
}
