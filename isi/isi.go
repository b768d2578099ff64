// Package isi computes inter-spike interval statistics.
//
// The coefficient of variation (CV) of the intervals characterizes the
// firing pattern: CV near 1 is the signature of a Poisson process's
// exponential interval distribution, CV well below 1 indicates regular
// firing, and CV well above 1 indicates bursting.
package isi

import (
	"fmt"
	"math"

	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

// Pattern is a coarse interpretation of a firing pattern from its CV.
type Pattern string

const (
	PatternRegular   Pattern = "regular"   // CV < 0.5
	PatternIrregular Pattern = "irregular" // 0.5 <= CV < 1.5, Poisson-like
	PatternBursty    Pattern = "bursty"    // CV >= 1.5
)

// Stats summarizes the inter-spike interval distribution of a train.
// Std is the population standard deviation (divisor N, matching the
// convention of the analysis this package descends from).
type Stats struct {
	Mean float64 `json:"mean"` // seconds
	Std  float64 `json:"std"`  // seconds
	CV   float64 `json:"cv"`   // dimensionless, Std/Mean
	N    int     `json:"n"`    // number of intervals
}

// Intervals returns the consecutive differences of spike times. The train
// must contain at least two spikes.
func Intervals(train spiketrain.Train) ([]float64, error) {
	if len(train) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 spikes for intervals, got %d",
			spiketrain.ErrInsufficientData, len(train))
	}
	out := make([]float64, len(train)-1)
	for i := 1; i < len(train); i++ {
		out[i-1] = train[i] - train[i-1]
	}
	return out, nil
}

// Compute derives interval statistics for a train. It fails with
// ErrInsufficientData when fewer than two spikes are present, since the
// CV is undefined there.
func Compute(train spiketrain.Train) (*Stats, error) {
	intervals, err := Intervals(train)
	if err != nil {
		return nil, err
	}
	return FromIntervals(intervals)
}

// FromIntervals derives statistics directly from a set of intervals, for
// callers that already hold them (histograms, imported interval data).
func FromIntervals(intervals []float64) (*Stats, error) {
	if len(intervals) < 1 {
		return nil, fmt.Errorf("%w: no intervals", spiketrain.ErrInsufficientData)
	}

	mean := 0.0
	for _, v := range intervals {
		mean += v
	}
	mean /= float64(len(intervals))

	variance := 0.0
	for _, v := range intervals {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(intervals))
	std := math.Sqrt(variance)

	cv := 0.0
	if mean > 0 {
		cv = std / mean
	}

	return &Stats{
		Mean: mean,
		Std:  std,
		CV:   cv,
		N:    len(intervals),
	}, nil
}

// Classify maps the CV onto a coarse firing-pattern label.
func (s *Stats) Classify() Pattern {
	switch {
	case s.CV < 0.5:
		return PatternRegular
	case s.CV < 1.5:
		return PatternIrregular
	default:
		return PatternBursty
	}
}

// Histogram bins intervals into nbins equal-width bins spanning
// [0, max interval]. It returns the lower edge of each bin and the counts,
// for rendering an interval distribution.
func Histogram(intervals []float64, nbins int) (edges []float64, counts []int, err error) {
	if nbins <= 0 {
		return nil, nil, fmt.Errorf("%w: nbins must be positive, got %d", spiketrain.ErrInvalidParameter, nbins)
	}
	if len(intervals) == 0 {
		return nil, nil, fmt.Errorf("%w: no intervals to bin", spiketrain.ErrInsufficientData)
	}

	max := intervals[0]
	for _, v := range intervals {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		max = 1e-9
	}
	width := max / float64(nbins)

	edges = make([]float64, nbins)
	counts = make([]int, nbins)
	for i := range edges {
		edges[i] = float64(i) * width
	}
	for _, v := range intervals {
		idx := int(v / width)
		if idx >= nbins {
			idx = nbins - 1 // the maximum lands in the last bin
		}
		counts[idx]++
	}
	return edges, counts, nil
}
