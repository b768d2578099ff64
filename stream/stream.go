// Package stream provides a live Poisson spike source. A Source emits
// spikes on a channel in scaled wall-clock time and evaluates
// condition-action rules against the windowed firing rate, for consumers
// that want to react to activity as it happens rather than analyze a
// finished recording.
package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/spikeflow-xyz/go-spikeflow/poisson"
	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

// Condition is a predicate on the current windowed firing rate.
type Condition func(rateHz float64) bool

// Action is invoked when a rule's condition is met. It receives the
// simulation time and the windowed rate that triggered it.
type Action func(simTime, rateHz float64)

// Rule pairs a condition with an action.
type Rule struct {
	Name      string
	Condition Condition
	Action    Action
	Enabled   bool
}

// Source generates Poisson spikes continuously and tracks the firing
// rate over a sliding window.
type Source struct {
	mu      sync.Mutex
	gen     *poisson.Generator
	rate    float64
	window  float64 // seconds of history used for the windowed rate
	simTime float64
	next    float64 // sim time of the next pending spike
	recent  []float64
	rules   []*Rule
	out     chan float64
	running bool
	cancel  context.CancelFunc
	log     zerolog.Logger
}

// NewSource creates a live spike source with the given firing rate (Hz),
// sliding window (seconds), and seed.
func NewSource(rateHz, window float64, seed uint64, log zerolog.Logger) (*Source, error) {
	if rateHz <= 0 {
		return nil, fmt.Errorf("%w: rate must be positive, got %g", spiketrain.ErrInvalidParameter, rateHz)
	}
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %g", spiketrain.ErrInvalidParameter, window)
	}
	return &Source{
		gen:    poisson.NewGenerator(seed),
		rate:   rateHz,
		window: window,
		out:    make(chan float64, 256),
		log:    log,
	}, nil
}

// Spikes returns the channel on which spike times are delivered. The
// channel is closed when the source stops.
func (s *Source) Spikes() <-chan float64 {
	return s.out
}

// AddRule registers a condition-action rule evaluated after each step.
func (s *Source) AddRule(name string, condition Condition, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, &Rule{
		Name:      name,
		Condition: condition,
		Action:    action,
		Enabled:   true,
	})
}

// WindowRate returns the firing rate over the sliding window in Hz.
func (s *Source) WindowRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windowRateLocked()
}

func (s *Source) windowRateLocked() float64 {
	span := s.window
	if s.simTime < span {
		span = s.simTime
	}
	if span <= 0 {
		return 0
	}
	return float64(len(s.recent)) / span
}

// Step advances simulation time by dt seconds, emitting any spikes that
// fall inside the step and evaluating rules on the new windowed rate.
// The first pending spike time carries over between steps, so the
// emitted process is exactly Poisson regardless of step size.
func (s *Source) Step(dt float64) {
	s.mu.Lock()

	if s.next == 0 {
		s.next = s.nextInterval()
	}
	end := s.simTime + dt
	var emitted []float64
	for s.next < end {
		emitted = append(emitted, s.next)
		s.next += s.nextInterval()
	}
	s.simTime = end

	s.recent = append(s.recent, emitted...)
	cutoff := s.simTime - s.window
	trim := 0
	for trim < len(s.recent) && s.recent[trim] < cutoff {
		trim++
	}
	s.recent = s.recent[trim:]

	windowRate := s.windowRateLocked()
	rules := make([]*Rule, len(s.rules))
	copy(rules, s.rules)
	simTime := s.simTime
	s.mu.Unlock()

	for _, t := range emitted {
		select {
		case s.out <- t:
		default:
			// Slow consumer; drop rather than stall the source.
		}
	}

	for _, rule := range rules {
		if rule.Enabled && rule.Condition(windowRate) {
			s.log.Info().
				Str("rule", rule.Name).
				Float64("simTime", simTime).
				Float64("windowRate", windowRate).
				Msg("rule fired")
			rule.Action(simTime, windowRate)
		}
	}
}

// nextInterval draws one exponential inter-spike interval. Callers hold s.mu.
func (s *Source) nextInterval() float64 {
	return s.gen.NextInterval(s.rate)
}

// Run drives the source from a ticker until the context is cancelled.
// Each tick advances simulation time by the tick interval times scale
// (scale 1 is real time). The spike channel is closed on exit.
func (s *Source) Run(ctx context.Context, interval time.Duration, scale float64) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(s.out)

		dt := interval.Seconds() * scale
		for {
			select {
			case <-childCtx.Done():
				s.mu.Lock()
				s.running = false
				s.mu.Unlock()
				return
			case <-ticker.C:
				s.Step(dt)
			}
		}
	}()
}

// Stop halts a running source.
func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.running = false
}

// IsRunning reports whether the source loop is active.
func (s *Source) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RateAbove returns a condition met when the windowed rate exceeds the
// threshold.
func RateAbove(threshold float64) Condition {
	return func(rateHz float64) bool {
		return rateHz > threshold
	}
}

// RateBelow returns a condition met when the windowed rate falls below
// the threshold.
func RateBelow(threshold float64) Condition {
	return func(rateHz float64) bool {
		return rateHz < threshold
	}
}

// AllOf returns a condition met when all given conditions are met.
func AllOf(conditions ...Condition) Condition {
	return func(rateHz float64) bool {
		for _, c := range conditions {
			if !c(rateHz) {
				return false
			}
		}
		return true
	}
}

// AnyOf returns a condition met when any given condition is met.
func AnyOf(conditions ...Condition) Condition {
	return func(rateHz float64) bool {
		for _, c := range conditions {
			if c(rateHz) {
				return true
			}
		}
		return false
	}
}
