package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spikeflow-xyz/go-spikeflow/stream"
)

func watch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	rateHz := fs.Float64("rate", 10.0, "Firing rate in Hz")
	window := fs.Float64("window", 1.0, "Sliding window in seconds for the live rate")
	seed := fs.Uint64("seed", 42, "Random seed")
	scale := fs.Float64("scale", 1.0, "Time scale (10 runs 10x faster than real time)")
	high := fs.Float64("high", 0, "Log when the windowed rate exceeds this (0 disables)")
	low := fs.Float64("low", 0, "Log when the windowed rate drops below this (0 disables)")
	wall := fs.Duration("for", 10*time.Second, "Wall-clock time to run (0 for until interrupted)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: spikeflow watch [options]

Stream live Poisson spikes to stdout and fire threshold rules on the
windowed firing rate. Stop with Ctrl-C.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Watch a 5 Hz source for 10 seconds
  spikeflow watch --rate 5

  # Alert on high activity, 100x faster than real time
  spikeflow watch --rate 50 --scale 100 --high 75 --for 5s
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	log := newLogger("info", true)

	src, err := stream.NewSource(*rateHz, *window, *seed, log)
	if err != nil {
		return err
	}
	if *high > 0 {
		src.AddRule("rate-high", stream.RateAbove(*high), func(simTime, rateHz float64) {})
	}
	if *low > 0 {
		src.AddRule("rate-low", stream.RateBelow(*low), func(simTime, rateHz float64) {})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *wall > 0 {
		ctx, cancel = context.WithTimeout(ctx, *wall)
		defer cancel()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	src.Run(ctx, 10*time.Millisecond, *scale)

	count := 0
	for spike := range src.Spikes() {
		count++
		fmt.Printf("%.6f\n", spike)
	}

	fmt.Fprintf(os.Stderr, "Delivered %d spikes, final windowed rate %.2f Hz\n",
		count, src.WindowRate())
	return nil
}
