// Package recording reads and writes spike recordings in CSV and JSONL
// formats, so recorded (non-simulated) data can enter the analysis
// pipeline alongside generated trains.
package recording

import (
	"fmt"
	"sort"

	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

// Recording holds one or more labeled spike trains loaded from a file.
type Recording struct {
	trains map[string][]float64
	order  []string
}

// New creates an empty recording.
func New() *Recording {
	return &Recording{trains: make(map[string][]float64)}
}

// Add appends a spike time to the named train, creating it if needed.
func (r *Recording) Add(label string, t float64) {
	if _, ok := r.trains[label]; !ok {
		r.trains[label] = nil
		r.order = append(r.order, label)
	}
	r.trains[label] = append(r.trains[label], t)
}

// Labels returns train labels in first-seen order.
func (r *Recording) Labels() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// NumTrains returns the number of labeled trains.
func (r *Recording) NumTrains() int {
	return len(r.trains)
}

// NumSpikes returns the total spike count across all trains.
func (r *Recording) NumSpikes() int {
	total := 0
	for _, ts := range r.trains {
		total += len(ts)
	}
	return total
}

// Train returns the named train, validated against the given duration.
// Times recorded out of order fail with ErrMalformedTrain; pass through
// SortedTrain for sources that do not guarantee ordering.
func (r *Recording) Train(label string, duration float64) (spiketrain.Train, error) {
	ts, ok := r.trains[label]
	if !ok {
		return nil, fmt.Errorf("%w: no train labeled %q", spiketrain.ErrInvalidParameter, label)
	}
	train := spiketrain.Train(append([]float64(nil), ts...))
	if err := train.Validate(duration); err != nil {
		return nil, fmt.Errorf("train %q: %w", label, err)
	}
	return train, nil
}

// SortedTrain returns the named train with times sorted ascending before
// validation, for recordings whose rows are not time-ordered.
func (r *Recording) SortedTrain(label string, duration float64) (spiketrain.Train, error) {
	ts, ok := r.trains[label]
	if !ok {
		return nil, fmt.Errorf("%w: no train labeled %q", spiketrain.ErrInvalidParameter, label)
	}
	sorted := append([]float64(nil), ts...)
	sort.Float64s(sorted)
	train := spiketrain.Train(sorted)
	if err := train.Validate(duration); err != nil {
		return nil, fmt.Errorf("train %q: %w", label, err)
	}
	return train, nil
}

// MaxTime returns the largest spike time in the recording, used to infer
// a duration when none is supplied.
func (r *Recording) MaxTime() float64 {
	max := 0.0
	for _, ts := range r.trains {
		for _, t := range ts {
			if t > max {
				max = t
			}
		}
	}
	return max
}
