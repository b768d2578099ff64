package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/spikeflow-xyz/go-spikeflow/poisson"
	"github.com/spikeflow-xyz/go-spikeflow/trials"
)

func trialsCmd(args []string) error {
	fs := flag.NewFlagSet("trials", flag.ExitOnError)
	n := fs.Int("n", 10, "Number of trials")
	rateHz := fs.Float64("rate", 10.0, "Firing rate in Hz")
	duration := fs.Float64("duration", 1.0, "Duration in seconds")
	seed := fs.Uint64("seed", 42, "Base seed; each trial derives its own")
	method := fs.String("method", "intervals", "Generation method (intervals or counts)")
	parallel := fs.Bool("parallel", true, "Run trials concurrently")
	output := fs.String("output", "", "Write the aggregate as JSON to this file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: spikeflow trials [options]

Run repeated independent simulations with the same parameters and
aggregate spike counts and interval statistics across the batch.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # 100 trials at 20 Hz
  spikeflow trials --n 100 --rate 20 --duration 5

  # Sequential, for bit-identical ordering
  spikeflow trials --n 50 --parallel=false
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	runner, err := trials.NewRunner(*rateHz, *duration, *seed)
	if err != nil {
		return err
	}
	runner.WithMethod(poisson.Method(*method))

	var batch []trials.Result
	if *parallel {
		batch, err = runner.RunParallel(*n)
	} else {
		batch, err = runner.Run(*n)
	}
	if err != nil {
		return fmt.Errorf("run trials: %w", err)
	}

	agg := runner.Summarize(batch)

	fmt.Printf("Trials: %d (%d without interval statistics)\n", agg.Trials, agg.Failed)
	fmt.Printf("Spike count: %.2f ± %.2f (expected %.1f)\n",
		agg.MeanCount, agg.StdCount, agg.ExpectedCount)
	if agg.Trials > agg.Failed {
		fmt.Printf("CV: %.3f ± %.3f\n", agg.MeanCV, agg.StdCV)
	}

	if *output != "" {
		data, err := json.MarshalIndent(agg, "", "  ")
		if err != nil {
			return fmt.Errorf("encode aggregate: %w", err)
		}
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			return fmt.Errorf("write aggregate: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote aggregate to %s\n", *output)
	}

	return nil
}
