package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
simulation:
  rate: 50
  duration: 2.5
  bin_width: 0.25
  seed: 7
  method: counts
trials:
  count: 20
  parallel: false
plot:
  width: 1024
  height: 512
  bins: 30
  output: out.svg
store:
  path: archive.db
logging:
  level: debug
  pretty: false
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Simulation.Rate != 50 || c.Simulation.Duration != 2.5 || c.Simulation.BinWidth != 0.25 {
		t.Errorf("simulation params = %+v", c.Simulation)
	}
	if c.Simulation.Seed != 7 || c.Simulation.Method != "counts" {
		t.Errorf("seed/method = %d/%q", c.Simulation.Seed, c.Simulation.Method)
	}
	if c.Trials.Count != 20 || c.Trials.Parallel {
		t.Errorf("trials = %+v", c.Trials)
	}
	if c.Plot.Output != "out.svg" || c.Plot.Bins != 30 {
		t.Errorf("plot = %+v", c.Plot)
	}
	if c.Store.Path != "archive.db" {
		t.Errorf("store path %q", c.Store.Path)
	}
	if c.Logging.Level != "debug" || c.Logging.Pretty {
		t.Errorf("logging = %+v", c.Logging)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
simulation:
  rate: 100
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Simulation.Rate != 100 {
		t.Errorf("rate %g, want 100", c.Simulation.Rate)
	}
	def := Default()
	if c.Simulation.Duration != def.Simulation.Duration {
		t.Errorf("duration %g, want default %g", c.Simulation.Duration, def.Simulation.Duration)
	}
	if c.Store.Path != def.Store.Path {
		t.Errorf("store path %q, want default %q", c.Store.Path, def.Store.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "simulation: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative rate", func(c *Config) { c.Simulation.Rate = -1 }},
		{"zero duration", func(c *Config) { c.Simulation.Duration = 0 }},
		{"zero bin width", func(c *Config) { c.Simulation.BinWidth = 0 }},
		{"bin wider than duration", func(c *Config) { c.Simulation.BinWidth = c.Simulation.Duration * 2 }},
		{"unknown method", func(c *Config) { c.Simulation.Method = "magic" }},
		{"zero trials", func(c *Config) { c.Trials.Count = 0 }},
		{"tiny plot", func(c *Config) { c.Plot.Width = 10 }},
		{"zero histogram bins", func(c *Config) { c.Plot.Bins = 0 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(c)
			if err := c.Validate(); !errors.Is(err, spiketrain.ErrInvalidParameter) {
				t.Errorf("got %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SPIKEFLOW_STORE_PATH", "/tmp/env.db")
	t.Setenv("SPIKEFLOW_LOG_LEVEL", "error")
	t.Setenv("SPIKEFLOW_SEED", "99")

	c, err := LoadWithEnv("")
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if c.Store.Path != "/tmp/env.db" {
		t.Errorf("store path %q", c.Store.Path)
	}
	if c.Logging.Level != "error" {
		t.Errorf("log level %q", c.Logging.Level)
	}
	if c.Simulation.Seed != 99 {
		t.Errorf("seed %d", c.Simulation.Seed)
	}
}

func TestLoadWithEnvBadSeed(t *testing.T) {
	t.Setenv("SPIKEFLOW_SEED", "not-a-number")
	if _, err := LoadWithEnv(""); err == nil {
		t.Error("expected error for unparseable seed")
	}
}

func TestLoadWithEnvNoOverrides(t *testing.T) {
	t.Setenv("SPIKEFLOW_STORE_PATH", "")
	t.Setenv("SPIKEFLOW_LOG_LEVEL", "")
	t.Setenv("SPIKEFLOW_SEED", "")

	c, err := LoadWithEnv("")
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	def := Default()
	if c.Store.Path != def.Store.Path || c.Simulation.Seed != def.Simulation.Seed {
		t.Errorf("expected defaults, got store %q seed %d", c.Store.Path, c.Simulation.Seed)
	}
}
