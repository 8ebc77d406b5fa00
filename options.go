package grade

import (
	"log/slog"
	"math/rand/v2"

	"github.com/gogpu/grade/history"
	"github.com/gogpu/grade/internal/pipeline"
)

// Noise supplies uniform random values in [0, 1) for the grain stage.
// *rand.Rand from math/rand/v2 satisfies it.
type Noise = pipeline.Noise

// Option configures an Engine during creation.
//
// Example:
//
//	e := grade.New(
//	    grade.WithHistoryCapacity(50),
//	    grade.WithSeed(42), // reproducible grain
//	)
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	historyCapacity int
	logger          *slog.Logger

	// noise returns the grain source for one render.
	noise func() Noise
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		historyCapacity: history.DefaultCapacity,
		noise: func() Noise {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
}

// WithHistoryCapacity sets how many undo steps are kept.
// Non-positive values select history.DefaultCapacity.
func WithHistoryCapacity(n int) Option {
	return func(o *engineOptions) {
		o.historyCapacity = n
	}
}

// WithLogger sets the engine's logger. Without it the engine logs to the
// package logger (see SetLogger).
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = l
	}
}

// WithNoise uses n as the grain source for every render. n must be safe
// for concurrent use if renders may overlap.
func WithNoise(n Noise) Option {
	return func(o *engineOptions) {
		if n != nil {
			o.noise = func() Noise { return n }
		}
	}
}

// WithSeed makes grain deterministic: every render starts a fresh PCG
// generator from seed, so equal states render to identical pixels.
func WithSeed(seed uint64) Option {
	return func(o *engineOptions) {
		o.noise = func() Noise {
			return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		}
	}
}
