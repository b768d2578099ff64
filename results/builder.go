package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/spikeflow-xyz/go-spikeflow/isi"
	"github.com/spikeflow-xyz/go-spikeflow/rate"
	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

// Builder helps construct Results from pipeline output
type Builder struct {
	results Results
	err     error
}

// NewBuilder creates a new results builder with a fresh run ID
func NewBuilder() *Builder {
	return &Builder{
		results: Results{
			Version: SchemaVersion,
			Metadata: Metadata{
				RunID:     uuid.NewString(),
				Timestamp: time.Now(),
				Source:    "simulated",
				Status:    "success",
			},
		},
	}
}

// WithSource marks where the train came from (simulated, recording)
func (b *Builder) WithSource(source string) *Builder {
	b.results.Metadata.Source = source
	return b
}

// WithParameters sets the generation parameters
func (b *Builder) WithParameters(p Parameters) *Builder {
	b.results.Parameters = p
	return b
}

// WithComputeTime records wall-clock time spent on the run
func (b *Builder) WithComputeTime(seconds float64) *Builder {
	b.results.Metadata.ComputeTime = seconds
	return b
}

// WithTrain stores the spike times and their summary. Set includeTimes to
// false to keep result files small for very long recordings.
func (b *Builder) WithTrain(train spiketrain.Train, duration float64, includeTimes bool) *Builder {
	summary, err := train.Summarize(duration)
	if err != nil {
		b.fail(err)
		return b
	}
	b.results.Train.Summary = *summary
	if includeTimes {
		b.results.Train.Times = train.Copy()
	}
	return b
}

// WithRate stores the binned firing rate series
func (b *Builder) WithRate(series *rate.Series) *Builder {
	peak, peakTime := series.PeakRate()
	b.results.Rate = &RateData{
		BinWidth: series.BinWidth,
		Starts:   series.Starts(),
		Counts:   series.Counts(),
		Rates:    series.Rates(),
		MeanRate: series.MeanRate(),
		PeakRate: peak,
		PeakTime: peakTime,
	}
	return b
}

// WithISI stores interval statistics
func (b *Builder) WithISI(stats *isi.Stats) *Builder {
	b.results.ISI = &ISIData{
		Mean:    stats.Mean,
		Std:     stats.Std,
		CV:      stats.CV,
		N:       stats.N,
		Pattern: string(stats.Classify()),
	}
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
		b.results.Metadata.Status = "error"
		b.results.Metadata.Error = err.Error()
	}
}

// Build returns the assembled results and the first error encountered, if any
func (b *Builder) Build() (*Results, error) {
	r := b.results
	return &r, b.err
}
