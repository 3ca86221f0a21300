// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerService_RunsPeriodically(t *testing.T) {
	var runs atomic.Int32
	ticked := make(chan struct{}, 10)
	svc := NewTickerService("reconcile", 5*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		ticked <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	for i := 0; i < 3; i++ {
		select {
		case <-ticked:
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d never happened", i)
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if runs.Load() < 3 {
		t.Errorf("runs = %d, want >= 3", runs.Load())
	}
}

func TestTickerService_ErrorsDoNotStopJob(t *testing.T) {
	var runs atomic.Int32
	svc := NewTickerService("cleanup", 5*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want deadline exceeded", err)
	}
	if runs.Load() < 2 {
		t.Errorf("runs = %d, want the job to keep firing after errors", runs.Load())
	}
}

func TestTickerService_RunAtStart(t *testing.T) {
	ran := make(chan struct{}, 1)
	svc := NewTickerService("rebuild", time.Hour, func(context.Context) error {
		ran <- struct{}{}
		return nil
	})
	svc.RunAtStart = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Serve(ctx) }()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("RunAtStart did not run the job")
	}
	if svc.String() != "rebuild" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestTickerService_Disabled(t *testing.T) {
	var runs atomic.Int32
	svc := NewTickerService("off", 0, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	svc.RunAtStart = true

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v", err)
	}
	if runs.Load() != 0 {
		t.Errorf("disabled job ran %d times", runs.Load())
	}
}
