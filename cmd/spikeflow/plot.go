package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spikeflow-xyz/go-spikeflow/isi"
	"github.com/spikeflow-xyz/go-spikeflow/plotter"
	"github.com/spikeflow-xyz/go-spikeflow/rate"
	"github.com/spikeflow-xyz/go-spikeflow/results"
	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

func plot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	kind := fs.String("kind", "rate", "Figure kind (raster, rate, or isi)")
	output := fs.String("output", "", "Output SVG file (required)")
	width := fs.Float64("width", 800, "Figure width in pixels")
	height := fs.Float64("height", 400, "Figure height in pixels")
	bins := fs.Int("bins", 20, "Histogram bins for the isi figure")
	title := fs.String("title", "", "Figure title (default: derived from parameters)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: spikeflow plot <results.json> [options]

Generate an SVG figure from simulation results.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Firing rate over time
  spikeflow plot results.json --kind rate --output rate.svg

  # Spike raster
  spikeflow plot results.json --kind raster --output raster.svg

  # Interval histogram
  spikeflow plot results.json --kind isi --bins 30 --output isi.svg
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("results file required")
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("--output required")
	}

	res, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}

	name := *title
	if name == "" {
		name = fmt.Sprintf("%.0f Hz Poisson, %.1fs", res.Parameters.Rate, res.Parameters.Duration)
	}

	var svg string
	switch *kind {
	case "raster":
		train, err := resultTrain(res)
		if err != nil {
			return err
		}
		svg, _ = plotter.RasterFigure(train, *width, *height, name)
	case "rate":
		if res.Rate == nil {
			return fmt.Errorf("%w: results carry no rate series", spiketrain.ErrInsufficientData)
		}
		series := seriesFromResults(res)
		svg, _ = plotter.RateFigure(series, *width, *height, name)
	case "isi":
		train, err := resultTrain(res)
		if err != nil {
			return err
		}
		intervals, err := isi.Intervals(train)
		if err != nil {
			return fmt.Errorf("intervals: %w", err)
		}
		svg, _, err = plotter.ISIFigure(intervals, *bins, *width, *height, name)
		if err != nil {
			return fmt.Errorf("histogram: %w", err)
		}
	default:
		return fmt.Errorf("unknown figure kind %q (want raster, rate, or isi)", *kind)
	}

	if err := os.WriteFile(*output, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write figure: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %s figure to %s\n", *kind, *output)
	return nil
}

func resultTrain(res *results.Results) (spiketrain.Train, error) {
	if len(res.Train.Times) == 0 {
		return nil, fmt.Errorf("%w: results carry no spike times (rerun with --times)", spiketrain.ErrInsufficientData)
	}
	return spiketrain.Train(res.Train.Times), nil
}

// seriesFromResults rebuilds a rate series from the stored document.
func seriesFromResults(res *results.Results) *rate.Series {
	bins := make([]rate.Bin, len(res.Rate.Starts))
	for i := range bins {
		bins[i] = rate.Bin{
			Start: res.Rate.Starts[i],
			Count: res.Rate.Counts[i],
			Rate:  res.Rate.Rates[i],
		}
	}
	return &rate.Series{
		BinWidth: res.Rate.BinWidth,
		Duration: res.Parameters.Duration,
		Bins:     bins,
	}
}
