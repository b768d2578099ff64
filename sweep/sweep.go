// Package sweep explores generation parameters across rates and bin
// widths, scoring each variant by how closely it matches the ideal
// Poisson signature (expected count, CV near 1).
package sweep

import (
	"fmt"
	"math"
	"sort"

	"github.com/spikeflow-xyz/go-spikeflow/isi"
	"github.com/spikeflow-xyz/go-spikeflow/poisson"
	"github.com/spikeflow-xyz/go-spikeflow/rate"
	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

// Variant contains the outcome for one parameter combination
type Variant struct {
	ID        int     `json:"id"`
	Rate      float64 `json:"rate"`
	BinWidth  float64 `json:"binWidth"`
	Seed      uint64  `json:"seed"`
	Count     int     `json:"count"`
	MeanRate  float64 `json:"meanRate"`
	PeakRate  float64 `json:"peakRate"`
	CV        float64 `json:"cv"`
	Score     float64 `json:"score"` // lower is better
	Rank      int     `json:"rank"`
	Error     string  `json:"error,omitempty"`
	succeeded bool
}

// Results contains the outcome of a full parameter sweep
type Results struct {
	Duration float64   `json:"duration"`
	Variants []Variant `json:"variants"`
	Best     *Variant  `json:"best,omitempty"`
	Worst    *Variant  `json:"worst,omitempty"`
	Summary  Summary   `json:"summary"`
}

// Summary provides an overview of the sweep
type Summary struct {
	TotalVariants int     `json:"totalVariants"`
	SuccessCount  int     `json:"successCount"`
	FailureCount  int     `json:"failureCount"`
	BestScore     float64 `json:"bestScore"`
	WorstScore    float64 `json:"worstScore"`
}

// Run sweeps every (rate, binWidth) combination over the given duration.
// Each variant derives its own seed from baseSeed so the sweep is
// reproducible and variants are independent.
func Run(rates, binWidths []float64, duration float64, baseSeed uint64) (*Results, error) {
	if len(rates) == 0 || len(binWidths) == 0 {
		return nil, fmt.Errorf("%w: sweep needs at least one rate and one bin width", spiketrain.ErrInvalidParameter)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %g", spiketrain.ErrInvalidParameter, duration)
	}

	out := &Results{Duration: duration}
	id := 0
	for _, r := range rates {
		for _, w := range binWidths {
			v := runVariant(id, r, w, duration, baseSeed+uint64(id)*0x9e3779b97f4a7c15)
			out.Variants = append(out.Variants, v)
			id++
		}
	}

	rank(out)
	return out, nil
}

func runVariant(id int, rateHz, binWidth, duration float64, seed uint64) Variant {
	v := Variant{ID: id, Rate: rateHz, BinWidth: binWidth, Seed: seed}

	train, err := poisson.NewGenerator(seed).GenerateIntervals(rateHz, duration)
	if err != nil {
		v.Error = err.Error()
		return v
	}
	v.Count = len(train)

	series, err := rate.Estimate(train, duration, binWidth)
	if err != nil {
		v.Error = err.Error()
		return v
	}
	v.MeanRate = series.MeanRate()
	v.PeakRate, _ = series.PeakRate()

	stats, err := isi.Compute(train)
	if err != nil {
		v.Error = err.Error()
		return v
	}
	v.CV = stats.CV

	// Score the deviation from the Poisson ideal: CV of 1 and a count
	// matching rate*duration. Lower is better.
	expected := rateHz * duration
	countDev := 0.0
	if expected > 0 {
		countDev = math.Abs(float64(v.Count)-expected) / expected
	}
	v.Score = math.Abs(v.CV-1) + countDev
	v.succeeded = true
	return v
}

func rank(out *Results) {
	order := make([]int, 0, len(out.Variants))
	for i, v := range out.Variants {
		if v.succeeded {
			order = append(order, i)
			out.Summary.SuccessCount++
		} else {
			out.Summary.FailureCount++
		}
	}
	out.Summary.TotalVariants = len(out.Variants)

	sort.Slice(order, func(a, b int) bool {
		return out.Variants[order[a]].Score < out.Variants[order[b]].Score
	})
	for rankIdx, i := range order {
		out.Variants[i].Rank = rankIdx + 1
	}

	if len(order) > 0 {
		best := out.Variants[order[0]]
		worst := out.Variants[order[len(order)-1]]
		out.Best = &best
		out.Worst = &worst
		out.Summary.BestScore = best.Score
		out.Summary.WorstScore = worst.Score
	}
}
