package results

import (
	"path/filepath"
	"testing"

	"github.com/spikeflow-xyz/go-spikeflow/isi"
	"github.com/spikeflow-xyz/go-spikeflow/poisson"
	"github.com/spikeflow-xyz/go-spikeflow/rate"
)

func buildSample(t *testing.T) *Results {
	t.Helper()

	train, err := poisson.NewGenerator(42).GenerateIntervals(10, 1.0)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	series, err := rate.Estimate(train, 1.0, 0.1)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	stats, err := isi.Compute(train)
	if err != nil {
		t.Fatalf("isi: %v", err)
	}

	res, err := NewBuilder().
		WithParameters(Parameters{Rate: 10, Duration: 1.0, BinWidth: 0.1, Seed: 42, Method: "intervals"}).
		WithTrain(train, 1.0, true).
		WithRate(series).
		WithISI(stats).
		WithComputeTime(0.001).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return res
}

func TestBuilder(t *testing.T) {
	res := buildSample(t)

	if res.Version != SchemaVersion {
		t.Errorf("expected version %s, got %s", SchemaVersion, res.Version)
	}
	if res.Metadata.RunID == "" {
		t.Error("expected a run ID")
	}
	if res.Metadata.Status != "success" {
		t.Errorf("expected status success, got %s", res.Metadata.Status)
	}
	if res.Train.Summary.Count != len(res.Train.Times) {
		t.Errorf("summary count %d does not match stored times %d",
			res.Train.Summary.Count, len(res.Train.Times))
	}
	if res.Rate == nil || res.ISI == nil {
		t.Fatal("expected rate and ISI sections")
	}
	total := 0
	for _, c := range res.Rate.Counts {
		total += c
	}
	if total != res.Train.Summary.Count {
		t.Errorf("rate counts sum %d does not match train count %d", total, res.Train.Summary.Count)
	}
	if res.ISI.Pattern == "" {
		t.Error("expected a firing-pattern label")
	}
}

func TestBuilderDistinctRunIDs(t *testing.T) {
	a := NewBuilder()
	b := NewBuilder()
	ra, _ := a.Build()
	rb, _ := b.Build()
	if ra.Metadata.RunID == rb.Metadata.RunID {
		t.Error("builders should assign distinct run IDs")
	}
}

func TestBuilderInvalidTrain(t *testing.T) {
	_, err := NewBuilder().WithTrain(nil, 0, false).Build()
	if err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	res := buildSample(t)
	path := filepath.Join(t.TempDir(), "results.json")

	if err := WriteJSON(res, path); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	loaded, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if loaded.Metadata.RunID != res.Metadata.RunID {
		t.Errorf("run ID changed across round trip")
	}
	if loaded.Train.Summary.Count != res.Train.Summary.Count {
		t.Errorf("train count changed across round trip")
	}
	if len(loaded.Rate.Rates) != len(res.Rate.Rates) {
		t.Errorf("rate series length changed across round trip")
	}
	if loaded.ISI.CV != res.ISI.CV {
		t.Errorf("CV changed across round trip")
	}
}

func TestReadJSONMissingFile(t *testing.T) {
	if _, err := ReadJSON(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFromJSONInvalid(t *testing.T) {
	if _, err := FromJSON("{not json"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestWriteJSONUnwritablePath(t *testing.T) {
	res := buildSample(t)
	err := WriteJSON(res, filepath.Join(t.TempDir(), "missing-dir", "results.json"))
	if err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
