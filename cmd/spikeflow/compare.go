package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/spikeflow-xyz/go-spikeflow/results"
)

func compare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: spikeflow compare <baseline.json> <variant.json>

Compare two simulation results side by side.

Examples:
  spikeflow compare baseline.json variant.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("two results files required")
	}

	a, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read baseline: %w", err)
	}
	b, err := results.ReadJSON(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("read variant: %w", err)
	}

	fmt.Printf("%-20s %15s %15s %12s\n", "", "baseline", "variant", "delta")
	printRow("rate (Hz)", a.Parameters.Rate, b.Parameters.Rate)
	printRow("duration (s)", a.Parameters.Duration, b.Parameters.Duration)
	printRow("spike count", float64(a.Train.Summary.Count), float64(b.Train.Summary.Count))
	printRow("mean rate (Hz)", a.Train.Summary.MeanRate, b.Train.Summary.MeanRate)

	if a.Rate != nil && b.Rate != nil {
		printRow("peak rate (Hz)", a.Rate.PeakRate, b.Rate.PeakRate)
	}

	if a.ISI != nil && b.ISI != nil {
		printRow("mean ISI (s)", a.ISI.Mean, b.ISI.Mean)
		printRow("CV", a.ISI.CV, b.ISI.CV)
		if a.ISI.Pattern != b.ISI.Pattern {
			fmt.Printf("\nFiring pattern changed: %s -> %s\n", a.ISI.Pattern, b.ISI.Pattern)
		} else {
			fmt.Printf("\nFiring pattern unchanged: %s\n", a.ISI.Pattern)
		}
	}

	return nil
}

func printRow(name string, a, b float64) {
	delta := b - a
	sign := "+"
	if delta < 0 {
		sign = ""
	}
	if math.Abs(delta) < 1e-12 {
		fmt.Printf("%-20s %15.4f %15.4f %12s\n", name, a, b, "=")
		return
	}
	fmt.Printf("%-20s %15.4f %15.4f %s%11.4f\n", name, a, b, sign, delta)
}
