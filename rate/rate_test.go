package rate

import (
	"errors"
	"math"
	"testing"

	"github.com/spikeflow-xyz/go-spikeflow/poisson"
	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

func TestEstimateScenario(t *testing.T) {
	// Four spikes, two bins of 0.1s over a 0.2s recording.
	train := spiketrain.Train{0.01, 0.05, 0.12, 0.20 - 1e-9}
	series, err := Estimate(train, 0.2, 0.1)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if len(series.Bins) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(series.Bins))
	}
	if series.Bins[0].Start != 0.0 || series.Bins[0].Count != 2 {
		t.Errorf("bin 0: expected (0.0, 2), got (%g, %d)", series.Bins[0].Start, series.Bins[0].Count)
	}
	if series.Bins[1].Start != 0.1 || series.Bins[1].Count != 2 {
		t.Errorf("bin 1: expected (0.1, 2), got (%g, %d)", series.Bins[1].Start, series.Bins[1].Count)
	}
	if math.Abs(series.Bins[0].Rate-20.0) > 1e-9 {
		t.Errorf("bin 0 rate: expected 20 Hz, got %g", series.Bins[0].Rate)
	}
}

func TestBoundarySpikeLowerEdge(t *testing.T) {
	// A spike exactly at 0.1 belongs to the bin starting at 0.1.
	train := spiketrain.Train{0.1}
	series, err := Estimate(train, 0.3, 0.1)
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if series.Bins[0].Count != 0 || series.Bins[1].Count != 1 {
		t.Errorf("boundary spike binned wrong: counts %v", series.Counts())
	}
}

func TestBinCountCeil(t *testing.T) {
	cases := []struct {
		duration float64
		binWidth float64
		want     int
	}{
		{1.0, 0.1, 10},
		{1.0, 0.3, 4}, // final bin is shorter
		{0.2, 0.1, 2},
		{1.0, 1.0, 1},
	}
	for _, tc := range cases {
		series, err := Estimate(spiketrain.Train{}, tc.duration, tc.binWidth)
		if err != nil {
			t.Fatalf("Estimate(T=%g, w=%g): %v", tc.duration, tc.binWidth, err)
		}
		if len(series.Bins) != tc.want {
			t.Errorf("T=%g w=%g: expected %d bins, got %d", tc.duration, tc.binWidth, tc.want, len(series.Bins))
		}
	}
}

func TestCountsConserved(t *testing.T) {
	train, err := poisson.NewGenerator(42).GenerateIntervals(100, 5.0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, w := range []float64{0.05, 0.1, 0.33, 5.0} {
		series, err := Estimate(train, 5.0, w)
		if err != nil {
			t.Fatalf("Estimate(w=%g): %v", w, err)
		}
		if series.TotalCount() != len(train) {
			t.Errorf("w=%g: bin counts sum to %d, train has %d spikes", w, series.TotalCount(), len(train))
		}
	}
}

func TestInvalidBinWidth(t *testing.T) {
	train := spiketrain.Train{0.1}
	cases := []struct {
		name     string
		binWidth float64
	}{
		{"zero", 0},
		{"negative", -0.1},
		{"wider than duration", 2.0},
	}
	for _, tc := range cases {
		if _, err := Estimate(train, 1.0, tc.binWidth); !errors.Is(err, spiketrain.ErrInvalidParameter) {
			t.Errorf("%s: expected ErrInvalidParameter, got %v", tc.name, err)
		}
	}
}

func TestMalformedTrainRejected(t *testing.T) {
	train := spiketrain.Train{0.3, 0.1}
	if _, err := Estimate(train, 1.0, 0.1); !errors.Is(err, spiketrain.ErrMalformedTrain) {
		t.Errorf("expected ErrMalformedTrain, got %v", err)
	}
}

func TestCentersAndRates(t *testing.T) {
	series, err := Estimate(spiketrain.Train{0.05, 0.15}, 0.2, 0.1)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	centers := series.Centers()
	if math.Abs(centers[0]-0.05) > 1e-12 || math.Abs(centers[1]-0.15) > 1e-12 {
		t.Errorf("unexpected centers %v", centers)
	}
	rates := series.Rates()
	if rates[0] != 10 || rates[1] != 10 {
		t.Errorf("unexpected rates %v", rates)
	}
	if math.Abs(series.MeanRate()-10) > 1e-12 {
		t.Errorf("expected mean rate 10, got %g", series.MeanRate())
	}
}

func TestPeakRate(t *testing.T) {
	series, err := Estimate(spiketrain.Train{0.11, 0.12, 0.13, 0.25}, 0.3, 0.1)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	peak, start := series.PeakRate()
	if peak != 30 || start != 0.1 {
		t.Errorf("expected peak 30 Hz at 0.1, got %g at %g", peak, start)
	}
}
