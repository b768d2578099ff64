package poisson

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

func TestGenerateIntervalsInvariants(t *testing.T) {
	gen := NewGenerator(42)
	train, err := gen.GenerateIntervals(10, 1.0)
	if err != nil {
		t.Fatalf("GenerateIntervals failed: %v", err)
	}
	if err := train.Validate(1.0); err != nil {
		t.Errorf("generated train violates invariants: %v", err)
	}
}

func TestGenerateCountsInvariants(t *testing.T) {
	gen := NewGenerator(42)
	train, err := gen.GenerateCounts(10, 1.0)
	if err != nil {
		t.Fatalf("GenerateCounts failed: %v", err)
	}
	if err := train.Validate(1.0); err != nil {
		t.Errorf("generated train violates invariants: %v", err)
	}
}

func TestZeroRateYieldsEmptyTrain(t *testing.T) {
	for _, method := range []Method{MethodIntervals, MethodCounts} {
		gen := NewGenerator(7)
		train, err := gen.Generate(0, 5.0, method)
		if err != nil {
			t.Fatalf("%s: zero rate should not error: %v", method, err)
		}
		if len(train) != 0 {
			t.Errorf("%s: expected empty train for rate 0, got %d spikes", method, len(train))
		}
	}
}

func TestInvalidParameters(t *testing.T) {
	gen := NewGenerator(1)
	cases := []struct {
		name     string
		rate     float64
		duration float64
	}{
		{"negative rate", -1, 1.0},
		{"zero duration", 10, 0},
		{"negative duration", 10, -1.0},
	}
	for _, tc := range cases {
		if _, err := gen.GenerateIntervals(tc.rate, tc.duration); !errors.Is(err, spiketrain.ErrInvalidParameter) {
			t.Errorf("intervals %s: expected ErrInvalidParameter, got %v", tc.name, err)
		}
		if _, err := gen.GenerateCounts(tc.rate, tc.duration); !errors.Is(err, spiketrain.ErrInvalidParameter) {
			t.Errorf("counts %s: expected ErrInvalidParameter, got %v", tc.name, err)
		}
	}
}

func TestUnknownMethod(t *testing.T) {
	gen := NewGenerator(1)
	if _, err := gen.Generate(10, 1.0, Method("bogus")); !errors.Is(err, spiketrain.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for unknown method, got %v", err)
	}
}

func TestDeterminism(t *testing.T) {
	for _, method := range []Method{MethodIntervals, MethodCounts} {
		a, err := NewGenerator(42).Generate(10, 1.0, method)
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		b, err := NewGenerator(42).Generate(10, 1.0, method)
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		if len(a) != len(b) {
			t.Fatalf("%s: same seed produced different counts: %d vs %d", method, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("%s: spike %d differs: %v vs %v", method, i, a[i], b[i])
			}
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a, _ := NewGenerator(1).GenerateIntervals(50, 10.0)
	b, _ := NewGenerator(2).GenerateIntervals(50, 10.0)
	if len(a) == len(b) {
		same := true
		for i := range a {
			if a[i] != b[i] {
				same = false
				break
			}
		}
		if same {
			t.Error("different seeds produced identical trains")
		}
	}
}

// Expected spike count is rate*duration; averaged over many seeded runs the
// sample mean should land well within a few standard errors.
func TestExpectedCount(t *testing.T) {
	const (
		rate     = 50.0
		duration = 10.0
		runs     = 50
	)
	expected := rate * duration

	for _, method := range []Method{MethodIntervals, MethodCounts} {
		total := 0
		for seed := uint64(0); seed < runs; seed++ {
			train, err := NewGenerator(seed).Generate(rate, duration, method)
			if err != nil {
				t.Fatalf("%s seed %d: %v", method, seed, err)
			}
			total += len(train)
		}
		mean := float64(total) / runs
		// Standard error of the mean count is sqrt(expected/runs) ≈ 3.2;
		// a 5% band is over seven standard errors wide.
		if math.Abs(mean-expected) > expected*0.05 {
			t.Errorf("%s: mean count %.1f too far from expected %.1f", method, mean, expected)
		}
	}
}

// The two sampling methods must agree on summary statistics, not timestamps.
func TestMethodsAgreeStatistically(t *testing.T) {
	const (
		rate     = 20.0
		duration = 20.0
		runs     = 40
	)

	meanCount := func(method Method) float64 {
		total := 0
		for seed := uint64(100); seed < 100+runs; seed++ {
			train, err := NewGenerator(seed).Generate(rate, duration, method)
			if err != nil {
				t.Fatalf("%s: %v", method, err)
			}
			total += len(train)
		}
		return float64(total) / runs
	}

	a := meanCount(MethodIntervals)
	b := meanCount(MethodCounts)
	if math.Abs(a-b) > rate*duration*0.05 {
		t.Errorf("methods disagree: intervals mean %.1f vs counts mean %.1f", a, b)
	}
}

func TestSamplePoissonMean(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	cases := []float64{0.5, 5, 25, 120, 2000}
	for _, mean := range cases {
		const draws = 400
		total := 0
		for i := 0; i < draws; i++ {
			total += samplePoisson(rng, mean)
		}
		got := float64(total) / draws
		// Standard error is sqrt(mean/draws); allow six standard errors.
		tol := 6 * math.Sqrt(mean/draws)
		if math.Abs(got-mean) > tol {
			t.Errorf("mean %.1f: sample mean %.2f outside tolerance %.2f", mean, got, tol)
		}
	}
}

func TestSamplePoissonZeroMean(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	if n := samplePoisson(rng, 0); n != 0 {
		t.Errorf("expected 0 for zero mean, got %d", n)
	}
}
