// ContraVento - Cycling Trip Journal and Social Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contravento

package geocode

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/contravento/internal/metrics"
)

type outcome[R any] struct {
	val R
	err error
}

type pending[A, R any] struct {
	arg     A
	ctx     context.Context
	timer   *time.Timer
	waiters []chan outcome[R]
}

// Debouncer collapses bursts of calls sharing a key into one trailing call.
// Each call restarts the key's quiet period and replaces its argument; when
// the period elapses fn runs once with the latest argument and every caller
// in the burst receives that result.
type Debouncer[A, R any] struct {
	mu      sync.Mutex
	wait    time.Duration
	fn      func(context.Context, A) (R, error)
	pending map[string]*pending[A, R]
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer[A, R any](wait time.Duration, fn func(context.Context, A) (R, error)) *Debouncer[A, R] {
	return &Debouncer[A, R]{
		wait:    wait,
		fn:      fn,
		pending: make(map[string]*pending[A, R]),
	}
}

// Do schedules fn(arg) for key and blocks until the burst's call completes
// or ctx is done.
func (d *Debouncer[A, R]) Do(ctx context.Context, key string, arg A) (R, error) {
	ch := make(chan outcome[R], 1)

	d.mu.Lock()
	p, ok := d.pending[key]
	if ok && p.timer.Stop() {
		metrics.GeocodeDebounced.Inc()
		p.arg = arg
		p.ctx = context.WithoutCancel(ctx)
		p.waiters = append(p.waiters, ch)
		p.timer.Reset(d.wait)
	} else {
		// Either no burst is open or its timer already fired; start a new one.
		p = &pending[A, R]{arg: arg, ctx: context.WithoutCancel(ctx), waiters: []chan outcome[R]{ch}}
		d.pending[key] = p
		p.timer = time.AfterFunc(d.wait, func() { d.fire(key, p) })
	}
	d.mu.Unlock()

	select {
	case o := <-ch:
		return o.val, o.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

func (d *Debouncer[A, R]) fire(key string, p *pending[A, R]) {
	d.mu.Lock()
	if d.pending[key] == p {
		delete(d.pending, key)
	}
	arg, ctx, waiters := p.arg, p.ctx, p.waiters
	d.mu.Unlock()

	val, err := d.fn(ctx, arg)
	for _, ch := range waiters {
		ch <- outcome[R]{val: val, err: err}
	}
}

// Pending returns the number of keys with an open burst.
func (d *Debouncer[A, R]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
