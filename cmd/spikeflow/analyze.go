package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spikeflow-xyz/go-spikeflow/isi"
	"github.com/spikeflow-xyz/go-spikeflow/rate"
	"github.com/spikeflow-xyz/go-spikeflow/recording"
	"github.com/spikeflow-xyz/go-spikeflow/results"
	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

func analyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	label := fs.String("label", "", "Train label to analyze (default: first in the file)")
	duration := fs.Float64("duration", 0, "Recording duration in seconds (default: inferred)")
	binWidth := fs.Float64("bin", 0.1, "Bin width in seconds for the rate estimate")
	sorted := fs.Bool("sort", false, "Sort spike times instead of rejecting out-of-order input")
	output := fs.String("output", "", "Output file for results JSON (default stdout)")
	trainField := fs.String("train-field", "train", "Column or field holding the train label")
	timeField := fs.String("time-field", "time", "Column or field holding the spike time")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: spikeflow analyze <spikes.csv|spikes.jsonl> [options]

Load a recorded spike file (or a prior results document), pick one
train, and compute the binned firing rate and interval statistics.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Analyze the first train in a CSV recording
  spikeflow analyze spikes.csv --output results.json

  # Pick a specific unit and bin width
  spikeflow analyze spikes.jsonl --label unit3 --bin 0.05

  # Recompute with a different bin width from an earlier run
  spikeflow analyze results.json --bin 0.02

  # Unordered input
  spikeflow analyze spikes.csv --sort
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("spike file required")
	}

	path := fs.Arg(0)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return reanalyze(path, *binWidth, *output)
	}

	rec, err := loadRecording(path, *trainField, *timeField)
	if err != nil {
		return err
	}
	if rec.NumTrains() == 0 {
		return fmt.Errorf("%w: no trains in %s", spiketrain.ErrInsufficientData, path)
	}

	name := *label
	if name == "" {
		name = rec.Labels()[0]
	}

	dur := *duration
	if dur <= 0 {
		// The last spike is inside [0, duration), so nudge past it.
		dur = math.Nextafter(rec.MaxTime(), math.Inf(1))
	}

	start := time.Now()
	var train spiketrain.Train
	if *sorted {
		train, err = rec.SortedTrain(name, dur)
	} else {
		train, err = rec.Train(name, dur)
	}
	if err != nil {
		return fmt.Errorf("train %q: %w", name, err)
	}

	builder := results.NewBuilder().
		WithSource("recording").
		WithParameters(results.Parameters{Duration: dur, BinWidth: *binWidth}).
		WithTrain(train, dur, true)

	series, err := rate.Estimate(train, dur, *binWidth)
	if err != nil {
		return fmt.Errorf("estimate rate: %w", err)
	}
	builder.WithRate(series)

	stats, err := isi.Compute(train)
	switch {
	case err == nil:
		builder.WithISI(stats)
	case errors.Is(err, spiketrain.ErrInsufficientData):
		fmt.Fprintf(os.Stderr, "Warning: too few spikes in %q for interval statistics\n", name)
	default:
		return fmt.Errorf("interval statistics: %w", err)
	}

	res, err := builder.WithComputeTime(time.Since(start).Seconds()).Build()
	if err != nil {
		return fmt.Errorf("build results: %w", err)
	}

	if err := emitResults(res, *output); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Analyzed train %q: %d spikes over %.3fs (%.2f Hz)\n",
		name, train.Count(), dur, res.Train.Summary.MeanRate)
	return nil
}

// reanalyze recomputes rate and interval statistics from the spike times
// of an earlier results document, keeping its generation parameters.
func reanalyze(path string, binWidth float64, output string) error {
	prev, err := results.ReadJSON(path)
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}
	if len(prev.Train.Times) == 0 {
		return fmt.Errorf("%w: results carry no spike times (rerun with --times)", spiketrain.ErrInsufficientData)
	}
	train := spiketrain.Train(prev.Train.Times)
	dur := prev.Parameters.Duration

	start := time.Now()
	params := prev.Parameters
	params.BinWidth = binWidth
	builder := results.NewBuilder().
		WithSource(prev.Metadata.Source).
		WithParameters(params).
		WithTrain(train, dur, true)

	series, err := rate.Estimate(train, dur, binWidth)
	if err != nil {
		return fmt.Errorf("estimate rate: %w", err)
	}
	builder.WithRate(series)

	stats, err := isi.Compute(train)
	switch {
	case err == nil:
		builder.WithISI(stats)
	case errors.Is(err, spiketrain.ErrInsufficientData):
		fmt.Fprintf(os.Stderr, "Warning: too few spikes for interval statistics\n")
	default:
		return fmt.Errorf("interval statistics: %w", err)
	}

	res, err := builder.WithComputeTime(time.Since(start).Seconds()).Build()
	if err != nil {
		return fmt.Errorf("build results: %w", err)
	}
	if err := emitResults(res, output); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Reanalyzed %d spikes with %.3fs bins\n", train.Count(), binWidth)
	return nil
}

// loadRecording parses a spike file by extension.
func loadRecording(path, trainField, timeField string) (*recording.Recording, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		cfg := recording.DefaultCSVConfig()
		cfg.TrainField = trainField
		cfg.TimeField = timeField
		return recording.ParseCSV(path, cfg)
	case ".jsonl", ".ndjson":
		cfg := recording.DefaultJSONLConfig()
		cfg.TrainField = trainField
		cfg.TimeField = timeField
		return recording.ParseJSONL(path, cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported spike file %q (want .csv or .jsonl)", spiketrain.ErrMalformedTrain, path)
	}
}
