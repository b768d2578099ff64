package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "simulate":
		if err := simulate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "analyze":
		if err := analyze(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "plot":
		if err := plot(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "summary":
		if err := summary(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "compare":
		if err := compare(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "trials":
		if err := trialsCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sweep":
		if err := sweepCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "runs":
		if err := runs(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "watch":
		if err := watch(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("spikeflow version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`spikeflow - Poisson spike train simulation and analysis tool

Usage:
  spikeflow <command> [options]

Commands:
  simulate   Generate a Poisson spike train and analyze it
  analyze    Compute statistics from a recorded spike file (CSV/JSONL)
  plot       Generate SVG figures from simulation results
  summary    Display quick summary of results
  compare    Compare two simulation results
  trials     Run repeated independent simulations and aggregate
  sweep      Sweep rates and bin widths, ranking variants
  runs       Manage the run archive (list, show, delete, prune)
  watch      Stream live spikes and fire threshold rules
  help       Show this help message
  version    Show version information

Examples:
  # Run a simulation
  spikeflow simulate --rate 10 --duration 1.0 --seed 42 --output results.json

  # Analyze a recording
  spikeflow analyze spikes.csv --label unit1 --output results.json

  # Generate a firing rate plot
  spikeflow plot results.json --kind rate --output rate.svg

  # Compare two runs
  spikeflow compare baseline.json variant.json

For command-specific help, run:
  spikeflow <command> --help`)
}

// newLogger builds the CLI logger. Pretty output goes to stderr so JSON
// results on stdout stay pipeable.
func newLogger(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(lvl).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
