// Package poisson generates homogeneous Poisson spike trains.
//
// Two equivalent sampling methods are provided: exponential inter-spike
// interval accumulation, and Poisson-count-then-uniform-placement. Both
// produce trains with identical statistics; timestamps differ because the
// random streams are consumed differently.
package poisson

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

// Method selects the sampling algorithm used by a Generator.
type Method string

const (
	// MethodIntervals draws exponential inter-spike intervals and
	// accumulates elapsed time until the duration is exceeded.
	MethodIntervals Method = "intervals"

	// MethodCounts draws a Poisson spike count for the full duration,
	// then places that many uniform times and sorts them.
	MethodCounts Method = "counts"
)

// Generator produces Poisson spike trains from a private seeded random
// stream. The stream is owned exclusively by the generator; repeated or
// concurrent runs with separate generators never interfere.
type Generator struct {
	rng  *rand.Rand
	seed uint64
}

// NewGenerator creates a generator with a deterministic PCG stream.
// The same seed always reproduces the same sequence of trains.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// NextInterval draws a single exponential inter-spike interval for the
// given rate (Hz). Streaming consumers use this to advance one spike at
// a time instead of generating a whole train up front.
func (g *Generator) NextInterval(rate float64) float64 {
	return g.rng.ExpFloat64() / rate
}

// Generate produces a spike train using the given method.
func (g *Generator) Generate(rate, duration float64, method Method) (spiketrain.Train, error) {
	switch method {
	case MethodIntervals, "":
		return g.GenerateIntervals(rate, duration)
	case MethodCounts:
		return g.GenerateCounts(rate, duration)
	default:
		return nil, fmt.Errorf("%w: unknown generation method %q", spiketrain.ErrInvalidParameter, method)
	}
}

// GenerateIntervals produces a spike train by accumulating exponential
// inter-spike intervals with the given rate (Hz) over duration (seconds).
// The first interval that would push elapsed time past the duration is
// discarded. rate = 0 yields an empty train.
func (g *Generator) GenerateIntervals(rate, duration float64) (spiketrain.Train, error) {
	if err := checkParams(rate, duration); err != nil {
		return nil, err
	}
	if rate == 0 {
		return spiketrain.Train{}, nil
	}

	train := make(spiketrain.Train, 0, int(rate*duration))
	t := g.rng.ExpFloat64() / rate
	for t < duration {
		train = append(train, t)
		t += g.rng.ExpFloat64() / rate
	}
	return train, nil
}

// GenerateCounts produces a spike train by drawing a Poisson-distributed
// spike count with mean rate*duration, then placing that many uniform
// times in [0, duration) and sorting. rate = 0 yields an empty train.
func (g *Generator) GenerateCounts(rate, duration float64) (spiketrain.Train, error) {
	if err := checkParams(rate, duration); err != nil {
		return nil, err
	}
	if rate == 0 {
		return spiketrain.Train{}, nil
	}

	n := samplePoisson(g.rng, rate*duration)
	train := make(spiketrain.Train, n)
	for i := range train {
		train[i] = g.rng.Float64() * duration
	}
	sort.Float64s(train)

	// A continuous-time process has probability-zero coincidence, but
	// float64 draws can collide; drop duplicates to keep the train
	// strictly increasing.
	return dedupe(train), nil
}

func checkParams(rate, duration float64) error {
	if rate < 0 {
		return fmt.Errorf("%w: rate must be non-negative, got %g", spiketrain.ErrInvalidParameter, rate)
	}
	if duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", spiketrain.ErrInvalidParameter, duration)
	}
	return nil
}

func dedupe(train spiketrain.Train) spiketrain.Train {
	out := train[:0]
	for i, t := range train {
		if i == 0 || t > out[len(out)-1] {
			out = append(out, t)
		}
	}
	return out
}
