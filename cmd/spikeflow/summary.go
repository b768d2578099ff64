package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spikeflow-xyz/go-spikeflow/results"
)

func summary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: spikeflow summary <results.json>

Display quick summary of simulation results.

Examples:
  spikeflow summary results.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("results file required")
	}

	res, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}

	fmt.Printf("Run: %s\n", res.Metadata.RunID)
	fmt.Printf("Source: %s\n", res.Metadata.Source)
	fmt.Printf("Status: %s\n", res.Metadata.Status)

	if res.Metadata.Error != "" {
		fmt.Printf("Error: %s\n", res.Metadata.Error)
		return nil
	}

	if res.Metadata.Source == "simulated" {
		fmt.Printf("Parameters: %.1f Hz over %.3fs (seed %d)\n",
			res.Parameters.Rate, res.Parameters.Duration, res.Parameters.Seed)
	}

	s := res.Train.Summary
	fmt.Printf("\nTrain: %d spikes, mean rate %.2f Hz\n", s.Count, s.MeanRate)
	if s.Count > 0 {
		fmt.Printf("  First spike: %.4fs, last: %.4fs\n", s.First, s.Last)
	}

	if res.Rate != nil {
		fmt.Printf("\nRate (bin %.3fs): mean %.2f Hz, peak %.2f Hz at t=%.3fs\n",
			res.Rate.BinWidth, res.Rate.MeanRate, res.Rate.PeakRate, res.Rate.PeakTime)
	}

	if res.ISI != nil {
		fmt.Printf("\nIntervals (n=%d): mean %.4fs, std %.4fs\n",
			res.ISI.N, res.ISI.Mean, res.ISI.Std)
		fmt.Printf("  CV = %.3f: %s\n", res.ISI.CV, describePattern(res.ISI.Pattern))
	}

	return nil
}

func describePattern(pattern string) string {
	switch pattern {
	case "regular":
		return "regular firing, clock-like intervals"
	case "irregular":
		return "irregular firing, consistent with a Poisson process"
	case "bursty":
		return "bursty firing, clustered spikes with long silences"
	default:
		return pattern
	}
}
