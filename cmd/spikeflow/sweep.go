package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spikeflow-xyz/go-spikeflow/sweep"
)

func sweepCmd(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	rateList := fs.String("rates", "5,10,20,50", "Comma-separated firing rates in Hz")
	binList := fs.String("bins", "0.05,0.1,0.25", "Comma-separated bin widths in seconds")
	duration := fs.Float64("duration", 5.0, "Duration in seconds")
	seed := fs.Uint64("seed", 42, "Base seed; each variant derives its own")
	top := fs.Int("top", 5, "Number of top variants to print")
	output := fs.String("output", "", "Write full sweep results as JSON to this file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: spikeflow sweep [options]

Run every combination of rate and bin width, scoring each variant by
how closely it matches the ideal Poisson signature.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Default grid
  spikeflow sweep --duration 10

  # Custom grid with full output
  spikeflow sweep --rates 1,5,25,100 --bins 0.01,0.1 --output sweep.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	rates, err := parseFloatList(*rateList)
	if err != nil {
		return fmt.Errorf("parse --rates: %w", err)
	}
	bins, err := parseFloatList(*binList)
	if err != nil {
		return fmt.Errorf("parse --bins: %w", err)
	}

	res, err := sweep.Run(rates, bins, *duration, *seed)
	if err != nil {
		return fmt.Errorf("run sweep: %w", err)
	}

	fmt.Printf("Sweep: %d variants, %d succeeded, %d failed\n",
		res.Summary.TotalVariants, res.Summary.SuccessCount, res.Summary.FailureCount)

	fmt.Printf("\n%4s %10s %10s %8s %8s %10s %6s\n",
		"rank", "rate (Hz)", "bin (s)", "count", "CV", "score", "id")
	printed := 0
	for rank := 1; printed < *top; rank++ {
		found := false
		for _, v := range res.Variants {
			if v.Rank != rank || v.Error != "" {
				continue
			}
			fmt.Printf("%4d %10.2f %10.3f %8d %8.3f %10.4f %6d\n",
				v.Rank, v.Rate, v.BinWidth, v.Count, v.CV, v.Score, v.ID)
			found = true
			printed++
			if printed >= *top {
				break
			}
		}
		if !found {
			break
		}
	}

	for _, v := range res.Variants {
		if v.Error != "" {
			fmt.Fprintf(os.Stderr, "variant %d (%.2f Hz, %.3fs bin) failed: %s\n",
				v.ID, v.Rate, v.BinWidth, v.Error)
		}
	}

	if res.Best != nil {
		fmt.Printf("\nBest: %.2f Hz with %.3fs bins (score %.4f)\n",
			res.Best.Rate, res.Best.BinWidth, res.Best.Score)
	}

	if *output != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encode sweep results: %w", err)
		}
		if err := os.WriteFile(*output, data, 0o644); err != nil {
			return fmt.Errorf("write sweep results: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote sweep results to %s\n", *output)
	}

	return nil
}

// parseFloatList parses "1,2.5,10" into floats.
func parseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q", p)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}
