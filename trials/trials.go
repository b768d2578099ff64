// Package trials runs batches of independent spike train simulations and
// aggregates their statistics. Each trial owns its own seeded generator,
// so trials never share random state and batches are safe to run in
// parallel.
package trials

import (
	"fmt"
	"math"
	"sync"

	"github.com/spikeflow-xyz/go-spikeflow/isi"
	"github.com/spikeflow-xyz/go-spikeflow/poisson"
	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

// Runner executes repeated generations with fixed parameters and
// per-trial derived seeds.
type Runner struct {
	rate     float64
	duration float64
	baseSeed uint64
	method   poisson.Method
}

// Result holds the outcome of a single trial.
type Result struct {
	Trial int     `json:"trial"`
	Seed  uint64  `json:"seed"`
	Count int     `json:"count"`
	CV    float64 `json:"cv"`
	Mean  float64 `json:"meanISI"`
	Err   error   `json:"-"`
}

// Aggregate summarizes a batch of trial results. Trials that failed
// (too few spikes for interval statistics) are excluded from the CV
// figures but still counted.
type Aggregate struct {
	Trials        int     `json:"trials"`
	Failed        int     `json:"failed"`
	ExpectedCount float64 `json:"expectedCount"`
	MeanCount     float64 `json:"meanCount"`
	StdCount      float64 `json:"stdCount"`
	MeanCV        float64 `json:"meanCV"`
	StdCV         float64 `json:"stdCV"`
}

// NewRunner creates a batch runner. Trial i derives its seed from
// baseSeed and i, so a batch is fully reproducible.
func NewRunner(rate, duration float64, baseSeed uint64) (*Runner, error) {
	if rate < 0 {
		return nil, fmt.Errorf("%w: rate must be non-negative, got %g", spiketrain.ErrInvalidParameter, rate)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %g", spiketrain.ErrInvalidParameter, duration)
	}
	return &Runner{
		rate:     rate,
		duration: duration,
		baseSeed: baseSeed,
		method:   poisson.MethodIntervals,
	}, nil
}

// WithMethod selects the generation method for all trials.
func (r *Runner) WithMethod(method poisson.Method) *Runner {
	r.method = method
	return r
}

// trialSeed spreads trial indices across the seed space so consecutive
// trials do not get correlated PCG streams.
func (r *Runner) trialSeed(i int) uint64 {
	return r.baseSeed + uint64(i)*0x9e3779b97f4a7c15 + 1
}

func (r *Runner) runOne(i int) Result {
	seed := r.trialSeed(i)
	res := Result{Trial: i, Seed: seed}

	train, err := poisson.NewGenerator(seed).Generate(r.rate, r.duration, r.method)
	if err != nil {
		res.Err = err
		return res
	}
	res.Count = len(train)

	stats, err := isi.Compute(train)
	if err != nil {
		res.Err = err
		return res
	}
	res.CV = stats.CV
	res.Mean = stats.Mean
	return res
}

// Run executes n trials sequentially.
func (r *Runner) Run(n int) ([]Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: trial count must be positive, got %d", spiketrain.ErrInvalidParameter, n)
	}
	out := make([]Result, n)
	for i := range out {
		out[i] = r.runOne(i)
	}
	return out, nil
}

// RunParallel executes n trials concurrently. Generations are
// independent, so this is a plain fan-out.
func (r *Runner) RunParallel(n int) ([]Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: trial count must be positive, got %d", spiketrain.ErrInvalidParameter, n)
	}
	out := make([]Result, n)
	var wg sync.WaitGroup
	for i := range out {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			out[idx] = r.runOne(idx)
		}(i)
	}
	wg.Wait()
	return out, nil
}

// Summarize aggregates a batch of trial results against the expected
// count rate*duration.
func (r *Runner) Summarize(batch []Result) *Aggregate {
	agg := &Aggregate{
		Trials:        len(batch),
		ExpectedCount: r.rate * r.duration,
	}

	counts := make([]float64, 0, len(batch))
	cvs := make([]float64, 0, len(batch))
	for _, res := range batch {
		counts = append(counts, float64(res.Count))
		if res.Err != nil {
			agg.Failed++
			continue
		}
		cvs = append(cvs, res.CV)
	}

	agg.MeanCount, agg.StdCount = meanStd(counts)
	agg.MeanCV, agg.StdCV = meanStd(cvs)
	return agg
}

func meanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for _, v := range values {
		d := v - mean
		std += d * d
	}
	return mean, math.Sqrt(std / float64(len(values)))
}
