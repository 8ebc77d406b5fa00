// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scheduler gates an expensive render function behind a
// single-flight, throttled request API.
//
// Any number of Request calls may arrive while a render is running or
// while the minimum interval has not yet elapsed. They collapse into at
// most one follow-up render, which always sees the latest state because
// the render function reads it when it starts.
//
// Example:
//
//	s := scheduler.New(func(ctx context.Context) error {
//	    return redraw()
//	}, scheduler.WithOnComplete(func(err error) { ... }))
//	defer s.Close()
//
//	s.Request() // from any goroutine, as often as needed
package scheduler

import (
	"context"
	"sync"
	"time"
)

// Func renders once. ctx is canceled when the Scheduler is closed.
type Func func(ctx context.Context) error

// Stats counts scheduling decisions.
type Stats struct {
	// Started is the number of renders started.
	Started int

	// Coalesced is the number of requests that did not start a render
	// immediately and were folded into a pending follow-up.
	Coalesced int
}

// Scheduler runs at most one render at a time and rate-limits render
// starts.
//
// Scheduler is safe for concurrent use.
type Scheduler struct {
	render Func
	opts   options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	running   bool
	pending   bool
	closed    bool
	timer     *time.Timer
	lastStart time.Time
	stats     Stats
}

// New creates a Scheduler for render.
func New(render Func, opts ...Option) *Scheduler {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		render: render,
		opts:   o,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Request asks for a render. It never blocks.
//
// If a render is in flight, the request is remembered and served by one
// follow-up render once the current one completes. If the previous render
// started less than the minimum interval ago, a single timer is armed for
// the remaining time.
func (s *Scheduler) Request() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.running {
		s.pending = true
		s.stats.Coalesced++
		return
	}
	if s.timer != nil {
		s.stats.Coalesced++
		return
	}

	if !s.lastStart.IsZero() && s.opts.minInterval > 0 {
		if wait := s.opts.minInterval - s.opts.now().Sub(s.lastStart); wait > 0 {
			s.stats.Coalesced++
			s.timer = time.AfterFunc(wait, s.fire)
			s.opts.logger.Debug("scheduler: render throttled", "wait", wait)
			return
		}
	}
	s.startLocked()
}

// fire is the throttle timer callback.
func (s *Scheduler) fire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timer = nil
	if s.closed || s.running {
		return
	}
	s.startLocked()
}

// startLocked launches a render. s.mu must be held.
func (s *Scheduler) startLocked() {
	s.running = true
	s.lastStart = s.opts.now()
	s.stats.Started++
	s.wg.Add(1)
	go s.run()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	start := time.Now()
	err := s.render(s.ctx)
	s.opts.logger.Debug("scheduler: render done", "elapsed", time.Since(start), "err", err)

	s.mu.Lock()
	s.running = false
	again := s.pending && !s.closed
	s.pending = false
	closed := s.closed
	s.mu.Unlock()

	if s.opts.onComplete != nil && !closed {
		s.opts.onComplete(err)
	}
	if again {
		s.Request()
	}
}

// Busy reports whether a render is in flight.
func (s *Scheduler) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stats returns a snapshot of the scheduling counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Close drops pending work, stops the throttle timer, cancels the render
// context and waits for an in-flight render to return. Requests after
// Close are ignored. Close is idempotent.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		s.pending = false
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()
}
