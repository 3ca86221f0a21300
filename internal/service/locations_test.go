// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/tomtom215/contravento/internal/models"
)

func TestReplaceLocations(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana := h.user(t, "ana")
	luis := h.user(t, "luis")
	trip := h.trip(t, ana.ID, true, 0)

	in := models.LocationsInput{Locations: []models.LocationInput{
		{Name: "Burgos", Latitude: floatPtr(42.3439), Longitude: floatPtr(-3.6969)},
		{Name: "León", Latitude: floatPtr(42.5987), Longitude: floatPtr(-5.5671)},
		{Name: "Sin coordenadas"},
	}}
	got, err := h.svc.ReplaceLocations(ctx, ana.ID, trip.ID, in)
	if err != nil {
		t.Fatalf("ReplaceLocations() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"Burgos", "León", "Sin coordenadas"} {
		if got[i].Name != want || got[i].Sequence != i {
			t.Errorf("location %d = %s/%d, want %s/%d", i, got[i].Name, got[i].Sequence, want, i)
		}
	}

	// The first location anchors the trip in the nearby index.
	near, err := h.svc.NearbyTrips(ctx, 42.34, -3.70, 10, 10)
	if err != nil {
		t.Fatalf("NearbyTrips() error = %v", err)
	}
	if len(near) != 1 || near[0].ID != trip.ID {
		t.Errorf("NearbyTrips() = %+v, want the trip", near)
	}

	// Replacing again drops the previous list.
	got, err = h.svc.ReplaceLocations(ctx, ana.ID, trip.ID, models.LocationsInput{Locations: []models.LocationInput{
		{Name: "Sevilla", Latitude: floatPtr(37.3891), Longitude: floatPtr(-5.9845)},
	}})
	if err != nil {
		t.Fatalf("second ReplaceLocations() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Sevilla" || got[0].Sequence != 0 {
		t.Errorf("after replace = %+v", got)
	}

	_, err = h.svc.ReplaceLocations(ctx, luis.ID, trip.ID, in)
	wantKind(t, err, KindForbidden)

	tooMany := models.LocationsInput{}
	for i := 0; i < 51; i++ {
		tooMany.Locations = append(tooMany.Locations, models.LocationInput{Name: fmt.Sprintf("p%d", i)})
	}
	_, err = h.svc.ReplaceLocations(ctx, ana.ID, trip.ID, tooMany)
	wantCode(t, err, CodeValidation)
}

func TestAppendLocation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana := h.user(t, "ana")
	luis := h.user(t, "luis")
	draft := h.trip(t, ana.ID, false, 0)

	for i, name := range []string{"Madrid", "Segovia"} {
		loc, err := h.svc.AppendLocation(ctx, ana.ID, draft.ID, models.LocationInput{Name: "  " + name + " "})
		if err != nil {
			t.Fatalf("AppendLocation(%s) error = %v", name, err)
		}
		if loc.Name != name || loc.Sequence != i {
			t.Errorf("AppendLocation(%s) = %s/%d, want trimmed name and sequence %d", name, loc.Name, loc.Sequence, i)
		}
	}

	// Drafts are invisible to other users.
	_, err := h.svc.AppendLocation(ctx, luis.ID, draft.ID, models.LocationInput{Name: "Ávila"})
	wantKind(t, err, KindNotFound)

	// Latitude without longitude is rejected.
	_, err = h.svc.AppendLocation(ctx, ana.ID, draft.ID, models.LocationInput{Name: "Ávila", Latitude: floatPtr(40.65)})
	wantCode(t, err, CodeValidation)

	// The 51st stop exceeds the limit.
	for i := 2; i < maxLocations; i++ {
		if _, err := h.svc.AppendLocation(ctx, ana.ID, draft.ID, models.LocationInput{Name: fmt.Sprintf("p%d", i)}); err != nil {
			t.Fatalf("AppendLocation(p%d) error = %v", i, err)
		}
	}
	_, err = h.svc.AppendLocation(ctx, ana.ID, draft.ID, models.LocationInput{Name: "extra"})
	wantCode(t, err, CodeValidation)
}

func TestAppendLocation_ConcurrentAppendsStopAtLimit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	ana := h.user(t, "ana")
	draft := h.trip(t, ana.ID, false, 0)

	in := models.LocationsInput{}
	for i := 0; i < maxLocations-2; i++ {
		in.Locations = append(in.Locations, models.LocationInput{Name: fmt.Sprintf("p%d", i)})
	}
	if _, err := h.svc.ReplaceLocations(ctx, ana.ID, draft.ID, in); err != nil {
		t.Fatalf("ReplaceLocations() error = %v", err)
	}

	const appends = 6
	var wg sync.WaitGroup
	errs := make(chan error, appends)
	for i := 0; i < appends; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.svc.AppendLocation(ctx, ana.ID, draft.ID, models.LocationInput{Name: fmt.Sprintf("extra%d", i)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		wantCode(t, err, CodeValidation)
	}
	if ok != 2 {
		t.Errorf("successful appends = %d, want 2", ok)
	}

	got, err := h.db.ListLocations(ctx, draft.ID)
	if err != nil {
		t.Fatalf("ListLocations() error = %v", err)
	}
	if len(got) != maxLocations {
		t.Fatalf("len = %d, want %d", len(got), maxLocations)
	}
	for i, l := range got {
		if l.Sequence != i {
			t.Errorf("location %d Sequence = %d", i, l.Sequence)
		}
	}
}
