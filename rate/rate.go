// Package rate estimates time-varying firing rates by binning spike trains
// into fixed-width time windows.
package rate

import (
	"fmt"
	"math"

	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

// Bin is a single half-open time window [Start, Start+width) with its
// spike count and firing rate.
type Bin struct {
	Start float64 `json:"start"`
	Count int     `json:"count"`
	Rate  float64 `json:"rate"` // Hz, count / bin width
}

// Series is the binned firing rate over a recording: contiguous,
// non-overlapping, equal-width bins covering [0, duration). The final bin
// may cover less than a full width when the width does not divide the
// duration; its rate is still reported per nominal width.
type Series struct {
	BinWidth float64 `json:"binWidth"`
	Duration float64 `json:"duration"`
	Bins     []Bin   `json:"bins"`
}

// Estimate bins a spike train into ceil(duration/binWidth) windows.
// A spike falling exactly on a bin boundary belongs to the bin for which
// it is the lower edge; no spike is ever double-counted.
func Estimate(train spiketrain.Train, duration, binWidth float64) (*Series, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %g", spiketrain.ErrInvalidParameter, duration)
	}
	if binWidth <= 0 {
		return nil, fmt.Errorf("%w: bin width must be positive, got %g", spiketrain.ErrInvalidParameter, binWidth)
	}
	if binWidth > duration {
		return nil, fmt.Errorf("%w: bin width %g exceeds duration %g", spiketrain.ErrInvalidParameter, binWidth, duration)
	}
	if err := train.Validate(duration); err != nil {
		return nil, err
	}

	nbins := int(math.Ceil(duration / binWidth))
	bins := make([]Bin, nbins)
	for i := range bins {
		bins[i].Start = float64(i) * binWidth
	}

	for _, t := range train {
		idx := int(t / binWidth)
		if idx >= nbins {
			// Float rounding at the upper boundary; the train is
			// already validated to lie inside [0, duration).
			idx = nbins - 1
		}
		bins[idx].Count++
	}

	for i := range bins {
		bins[i].Rate = float64(bins[i].Count) / binWidth
	}

	return &Series{
		BinWidth: binWidth,
		Duration: duration,
		Bins:     bins,
	}, nil
}

// TotalCount returns the sum of spike counts across all bins. For a valid
// series this always equals the length of the source train.
func (s *Series) TotalCount() int {
	total := 0
	for _, b := range s.Bins {
		total += b.Count
	}
	return total
}

// Starts returns the lower edge of each bin.
func (s *Series) Starts() []float64 {
	out := make([]float64, len(s.Bins))
	for i, b := range s.Bins {
		out[i] = b.Start
	}
	return out
}

// Centers returns the midpoint of each bin, used for plotting.
func (s *Series) Centers() []float64 {
	out := make([]float64, len(s.Bins))
	for i, b := range s.Bins {
		out[i] = b.Start + s.BinWidth/2
	}
	return out
}

// Rates returns the firing rate of each bin in Hz.
func (s *Series) Rates() []float64 {
	out := make([]float64, len(s.Bins))
	for i, b := range s.Bins {
		out[i] = b.Rate
	}
	return out
}

// Counts returns the spike count of each bin.
func (s *Series) Counts() []int {
	out := make([]int, len(s.Bins))
	for i, b := range s.Bins {
		out[i] = b.Count
	}
	return out
}

// MeanRate returns the mean of the per-bin rates.
func (s *Series) MeanRate() float64 {
	if len(s.Bins) == 0 {
		return 0
	}
	total := 0.0
	for _, b := range s.Bins {
		total += b.Rate
	}
	return total / float64(len(s.Bins))
}

// PeakRate returns the highest per-bin rate and the start time of the bin
// where it occurs.
func (s *Series) PeakRate() (rate, start float64) {
	for _, b := range s.Bins {
		if b.Rate > rate {
			rate = b.Rate
			start = b.Start
		}
	}
	return rate, start
}
