// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scheduler

import (
	"log/slog"
	"time"
)

// DefaultMinInterval is the minimum spacing between render starts,
// about one display frame at 60 Hz.
const DefaultMinInterval = 16 * time.Millisecond

// Option configures a Scheduler during creation.
type Option func(*options)

type options struct {
	minInterval time.Duration
	onComplete  func(error)
	logger      *slog.Logger
	now         func() time.Time
}

func defaultOptions() options {
	return options{
		minInterval: DefaultMinInterval,
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
	}
}

// WithMinInterval sets the minimum time between the starts of two renders.
// Zero disables throttling; single-flight still applies.
func WithMinInterval(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.minInterval = d
		}
	}
}

// WithOnComplete registers a callback invoked after every render with the
// error it returned. The callback runs on the render goroutine before any
// follow-up render is requested.
func WithOnComplete(fn func(error)) Option {
	return func(o *options) {
		o.onComplete = fn
	}
}

// WithLogger sets the logger for scheduling diagnostics.
// By default the scheduler logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces time.Now for throttle calculations.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
