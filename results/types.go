// Package results defines the structured output format for simulation runs
package results

import (
	"time"

	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

const SchemaVersion = "1.0.0"

// Results contains complete run output
type Results struct {
	Version    string     `json:"version"`
	Metadata   Metadata   `json:"metadata"`
	Parameters Parameters `json:"parameters"`
	Train      TrainData  `json:"train"`
	Rate       *RateData  `json:"rate,omitempty"`
	ISI        *ISIData   `json:"isi,omitempty"`
}

// Metadata contains run execution information
type Metadata struct {
	RunID       string    `json:"runId"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"` // simulated, recording
	Status      string    `json:"status"` // success, error
	Error       string    `json:"error,omitempty"`
	ComputeTime float64   `json:"computeTime"` // seconds
}

// Parameters contains the generation parameters used
type Parameters struct {
	Rate     float64 `json:"rate"`     // Hz
	Duration float64 `json:"duration"` // seconds
	BinWidth float64 `json:"binWidth"` // seconds
	Seed     uint64  `json:"seed"`
	Method   string  `json:"method,omitempty"`
}

// TrainData holds the spike times and their summary
type TrainData struct {
	Summary spiketrain.Summary `json:"summary"`
	Times   []float64          `json:"times,omitempty"`
}

// RateData holds the binned firing rate series
type RateData struct {
	BinWidth float64   `json:"binWidth"`
	Starts   []float64 `json:"starts"`
	Counts   []int     `json:"counts"`
	Rates    []float64 `json:"rates"`
	MeanRate float64   `json:"meanRate"`
	PeakRate float64   `json:"peakRate"`
	PeakTime float64   `json:"peakTime"`
}

// ISIData holds interval statistics and the firing-pattern interpretation
type ISIData struct {
	Mean    float64 `json:"mean"`
	Std     float64 `json:"std"`
	CV      float64 `json:"cv"`
	N       int     `json:"n"`
	Pattern string  `json:"pattern"`
}
