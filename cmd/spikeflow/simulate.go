package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/spikeflow-xyz/go-spikeflow/config"
	"github.com/spikeflow-xyz/go-spikeflow/isi"
	"github.com/spikeflow-xyz/go-spikeflow/poisson"
	"github.com/spikeflow-xyz/go-spikeflow/rate"
	"github.com/spikeflow-xyz/go-spikeflow/results"
	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
	"github.com/spikeflow-xyz/go-spikeflow/store"
)

func simulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file (flags override it)")
	rateHz := fs.Float64("rate", 10.0, "Firing rate in Hz")
	duration := fs.Float64("duration", 1.0, "Duration in seconds")
	binWidth := fs.Float64("bin", 0.1, "Bin width in seconds for the rate estimate")
	seed := fs.Uint64("seed", 42, "Random seed")
	method := fs.String("method", "intervals", "Generation method (intervals or counts)")
	output := fs.String("output", "", "Output file for results JSON (default stdout)")
	includeTimes := fs.Bool("times", true, "Include raw spike times in the output")
	save := fs.Bool("save", false, "Archive the run in the run database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: spikeflow simulate [options]

Generate a homogeneous Poisson spike train, estimate its binned firing
rate, compute interval statistics, and emit a results document.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Basic simulation
  spikeflow simulate --rate 10 --duration 1.0 --output results.json

  # Reproducible run with the count-placement sampler
  spikeflow simulate --rate 50 --duration 5 --seed 7 --method counts

  # Archive the run
  spikeflow simulate --rate 20 --duration 2 --save
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		return err
	}
	applyFlag(fs, "rate", func() { cfg.Simulation.Rate = *rateHz })
	applyFlag(fs, "duration", func() { cfg.Simulation.Duration = *duration })
	applyFlag(fs, "bin", func() { cfg.Simulation.BinWidth = *binWidth })
	applyFlag(fs, "seed", func() { cfg.Simulation.Seed = *seed })
	applyFlag(fs, "method", func() { cfg.Simulation.Method = *method })
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg.Logging.Level, cfg.Logging.Pretty)

	gen := poisson.NewGenerator(cfg.Simulation.Seed)
	start := time.Now()
	train, err := gen.Generate(cfg.Simulation.Rate, cfg.Simulation.Duration,
		poisson.Method(cfg.Simulation.Method))
	if err != nil {
		return fmt.Errorf("generate train: %w", err)
	}

	builder := results.NewBuilder().
		WithParameters(results.Parameters{
			Rate:     cfg.Simulation.Rate,
			Duration: cfg.Simulation.Duration,
			BinWidth: cfg.Simulation.BinWidth,
			Seed:     cfg.Simulation.Seed,
			Method:   cfg.Simulation.Method,
		}).
		WithTrain(train, cfg.Simulation.Duration, *includeTimes)

	series, err := rate.Estimate(train, cfg.Simulation.Duration, cfg.Simulation.BinWidth)
	if err != nil {
		return fmt.Errorf("estimate rate: %w", err)
	}
	builder.WithRate(series)

	stats, err := isi.Compute(train)
	switch {
	case err == nil:
		builder.WithISI(stats)
	case errors.Is(err, spiketrain.ErrInsufficientData):
		log.Warn().Int("spikes", train.Count()).Msg("too few spikes for interval statistics")
	default:
		return fmt.Errorf("interval statistics: %w", err)
	}

	elapsed := time.Since(start).Seconds()
	res, err := builder.WithComputeTime(elapsed).Build()
	if err != nil {
		return fmt.Errorf("build results: %w", err)
	}

	if err := emitResults(res, *output); err != nil {
		return err
	}

	if *save {
		db, err := store.Open(cfg.Store.Path, log)
		if err != nil {
			return fmt.Errorf("open run archive: %w", err)
		}
		defer db.Close()
		if err := db.Save(res); err != nil {
			return fmt.Errorf("archive run: %w", err)
		}
		log.Info().Str("runId", res.Metadata.RunID).Str("path", cfg.Store.Path).Msg("run archived")
	}

	fmt.Fprintf(os.Stderr, "Simulation complete\n")
	fmt.Fprintf(os.Stderr, "  Spikes: %d (expected %.1f)\n",
		train.Count(), cfg.Simulation.Rate*cfg.Simulation.Duration)
	fmt.Fprintf(os.Stderr, "  Mean rate: %.2f Hz\n", res.Train.Summary.MeanRate)
	if res.ISI != nil {
		fmt.Fprintf(os.Stderr, "  CV: %.3f (%s firing)\n", res.ISI.CV, res.ISI.Pattern)
	}
	fmt.Fprintf(os.Stderr, "  Compute time: %.3fs\n", elapsed)
	if *output != "" {
		fmt.Fprintf(os.Stderr, "  Output: %s\n", *output)
	}

	return nil
}

// applyFlag runs apply only when the flag was set on the command line,
// so config-file values survive unless explicitly overridden.
func applyFlag(fs *flag.FlagSet, name string, apply func()) {
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			apply()
		}
	})
}

// emitResults writes the document to a file, or stdout when path is empty.
func emitResults(res *results.Results, path string) error {
	if path == "" {
		s, err := results.ToJSON(res)
		if err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
		fmt.Println(s)
		return nil
	}
	if err := results.WriteJSON(res, path); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
