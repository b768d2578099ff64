// Package config loads CLI and pipeline settings from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/spikeflow-xyz/go-spikeflow/spiketrain"
)

type Config struct {
	Simulation struct {
		Rate     float64 `yaml:"rate"`      // Hz
		Duration float64 `yaml:"duration"`  // seconds
		BinWidth float64 `yaml:"bin_width"` // seconds
		Seed     uint64  `yaml:"seed"`
		Method   string  `yaml:"method"` // intervals, counts
	} `yaml:"simulation"`
	Trials struct {
		Count    int  `yaml:"count"`
		Parallel bool `yaml:"parallel"`
	} `yaml:"trials"`
	Plot struct {
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
		Bins   int    `yaml:"bins"` // ISI histogram bins
		Output string `yaml:"output"`
	} `yaml:"plot"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Logging struct {
		Level  string `yaml:"level"`  // debug, info, warn, error
		Pretty bool   `yaml:"pretty"` // console writer instead of JSON
	} `yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var c Config
	c.Simulation.Rate = 10
	c.Simulation.Duration = 1.0
	c.Simulation.BinWidth = 0.1
	c.Simulation.Seed = 42
	c.Simulation.Method = "intervals"
	c.Trials.Count = 10
	c.Trials.Parallel = true
	c.Plot.Width = 800
	c.Plot.Height = 400
	c.Plot.Bins = 20
	c.Plot.Output = "spikeflow.svg"
	c.Store.Path = "spikeflow.db"
	c.Logging.Level = "info"
	c.Logging.Pretty = true
	return &c
}

// Load reads and parses a YAML configuration file, starting from
// defaults so partial files work.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads the config file and applies environment overrides.
// With an empty path, defaults are used as the base.
func LoadWithEnv(path string) (*Config, error) {
	var c *Config
	if path == "" {
		c = Default()
	} else {
		var err error
		c, err = Load(path)
		if err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("SPIKEFLOW_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("SPIKEFLOW_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SPIKEFLOW_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse SPIKEFLOW_SEED: %w", err)
		}
		c.Simulation.Seed = seed
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks parameter ranges.
func (c *Config) Validate() error {
	if c.Simulation.Rate < 0 {
		return fmt.Errorf("%w: simulation.rate must be non-negative, got %g", spiketrain.ErrInvalidParameter, c.Simulation.Rate)
	}
	if c.Simulation.Duration <= 0 {
		return fmt.Errorf("%w: simulation.duration must be positive, got %g", spiketrain.ErrInvalidParameter, c.Simulation.Duration)
	}
	if c.Simulation.BinWidth <= 0 {
		return fmt.Errorf("%w: simulation.bin_width must be positive, got %g", spiketrain.ErrInvalidParameter, c.Simulation.BinWidth)
	}
	if c.Simulation.BinWidth > c.Simulation.Duration {
		return fmt.Errorf("%w: simulation.bin_width %g exceeds duration %g", spiketrain.ErrInvalidParameter, c.Simulation.BinWidth, c.Simulation.Duration)
	}
	switch c.Simulation.Method {
	case "intervals", "counts", "":
	default:
		return fmt.Errorf("%w: unknown simulation.method %q", spiketrain.ErrInvalidParameter, c.Simulation.Method)
	}
	if c.Trials.Count < 1 {
		return fmt.Errorf("%w: trials.count must be at least 1, got %d", spiketrain.ErrInvalidParameter, c.Trials.Count)
	}
	if c.Plot.Width < 100 || c.Plot.Height < 100 {
		return fmt.Errorf("%w: plot dimensions %dx%d too small", spiketrain.ErrInvalidParameter, c.Plot.Width, c.Plot.Height)
	}
	if c.Plot.Bins < 1 {
		return fmt.Errorf("%w: plot.bins must be at least 1, got %d", spiketrain.ErrInvalidParameter, c.Plot.Bins)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("%w: unknown logging.level %q", spiketrain.ErrInvalidParameter, c.Logging.Level)
	}
	return nil
}
