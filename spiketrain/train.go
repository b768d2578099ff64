// Package spiketrain defines the core spike train data model shared by the
// generator, the rate estimator, the interval statistics, and the renderers.
//
// A spike train is an ordered sequence of spike times in seconds, strictly
// increasing and bounded by the recording duration. Trains are value objects:
// created once, never mutated, recomputed fresh per run.
package spiketrain

import "fmt"

// Train is an ordered sequence of spike times in seconds.
type Train []float64

// Count returns the number of spikes in the train.
func (t Train) Count() int {
	return len(t)
}

// First returns the time of the first spike, or 0 for an empty train.
func (t Train) First() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[0]
}

// Last returns the time of the last spike, or 0 for an empty train.
func (t Train) Last() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1]
}

// MeanRate returns the average firing rate in Hz over the given duration.
func (t Train) MeanRate(duration float64) (float64, error) {
	if duration <= 0 {
		return 0, fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidParameter, duration)
	}
	return float64(len(t)) / duration, nil
}

// Validate checks the train invariants: every spike time is non-negative,
// strictly less than duration, and times are strictly increasing. A train
// produced by the generator always satisfies these; imported recordings
// may not.
func (t Train) Validate(duration float64) error {
	if duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidParameter, duration)
	}
	for i, ts := range t {
		if ts < 0 {
			return fmt.Errorf("%w: spike %d has negative time %g", ErrMalformedTrain, i, ts)
		}
		if ts >= duration {
			return fmt.Errorf("%w: spike %d at %g is outside [0, %g)", ErrMalformedTrain, i, ts, duration)
		}
		if i > 0 && ts <= t[i-1] {
			return fmt.Errorf("%w: spike times not strictly increasing at index %d (%g after %g)",
				ErrMalformedTrain, i, ts, t[i-1])
		}
	}
	return nil
}

// Copy returns an independent copy of the train.
func (t Train) Copy() Train {
	out := make(Train, len(t))
	copy(out, t)
	return out
}

// Summary holds basic recording properties of a train.
type Summary struct {
	Count    int     `json:"count"`
	Duration float64 `json:"duration"`
	MeanRate float64 `json:"meanRate"`
	First    float64 `json:"first,omitempty"`
	Last     float64 `json:"last,omitempty"`
}

// Summarize computes the recording summary for a train over the given duration.
func (t Train) Summarize(duration float64) (*Summary, error) {
	rate, err := t.MeanRate(duration)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Count:    len(t),
		Duration: duration,
		MeanRate: rate,
		First:    t.First(),
		Last:     t.Last(),
	}, nil
}
