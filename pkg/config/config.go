// Package config loads comparison settings from TOML files.
//
// All knobs have defaults matching the standard comparison procedure, so a
// config file only needs to name the values it overrides:
//
//	significance = 0.01
//	workers = 8
//
//	[edges]
//	latency_divisor = 1000
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/flowdiff/flowdiff/pkg/compare"
	apperrors "github.com/flowdiff/flowdiff/pkg/errors"
)

// Config holds the tunable parameters of both comparators.
type Config struct {
	// Significance is the p-value threshold below which the null
	// hypothesis is rejected.
	Significance float64 `toml:"significance"`

	// Workers caps concurrent edge-row comparisons. Zero means one
	// worker per CPU.
	Workers int `toml:"workers"`

	Categories CategoryConfig `toml:"categories"`
	Edges      EdgeConfig     `toml:"edges"`
}

// CategoryConfig tunes the category-count comparison.
type CategoryConfig struct {
	// Smoothing is added to every raw count before testing.
	Smoothing float64 `toml:"smoothing"`

	// FilterThreshold drops categories whose smoothed baseline count
	// does not exceed it.
	FilterThreshold float64 `toml:"filter_threshold"`
}

// EdgeConfig tunes the per-edge latency comparison.
type EdgeConfig struct {
	// MinCombinedSamples is the floor on the combined effective sample
	// size below which a row is reported as having insufficient data.
	MinCombinedSamples float64 `toml:"min_combined_samples"`

	// LatencyDivisor rescales raw latencies before the distribution
	// test. Raw values are in microseconds, so 1000 buckets by
	// millisecond.
	LatencyDivisor float64 `toml:"latency_divisor"`
}

// Default returns the standard settings.
func Default() Config {
	opts := compare.DefaultOptions()
	return Config{
		Significance: opts.Significance,
		Workers:      opts.Workers,
		Categories: CategoryConfig{
			Smoothing:       opts.Smoothing,
			FilterThreshold: opts.FilterThreshold,
		},
		Edges: EdgeConfig{
			MinCombinedSamples: opts.MinCombinedSamples,
			LatencyDivisor:     opts.LatencyDivisor,
		},
	}
}

// Load reads a TOML config file and applies it over the defaults. Keys
// absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings under which the comparators are undefined.
func (c Config) Validate() error {
	if c.Significance <= 0 || c.Significance >= 1 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "significance must be in (0,1), got %g", c.Significance)
	}
	if c.Workers < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "workers must be >= 0, got %d", c.Workers)
	}
	if c.Categories.Smoothing < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "categories.smoothing must be >= 0, got %g", c.Categories.Smoothing)
	}
	if c.Categories.FilterThreshold < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "categories.filter_threshold must be >= 0, got %g", c.Categories.FilterThreshold)
	}
	if c.Edges.MinCombinedSamples < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "edges.min_combined_samples must be >= 0, got %g", c.Edges.MinCombinedSamples)
	}
	if c.Edges.LatencyDivisor <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "edges.latency_divisor must be > 0, got %g", c.Edges.LatencyDivisor)
	}
	return nil
}

// Options converts the config into comparator options.
func (c Config) Options() compare.Options {
	return compare.Options{
		Significance:       c.Significance,
		FilterThreshold:    c.Categories.FilterThreshold,
		Smoothing:          c.Categories.Smoothing,
		MinCombinedSamples: c.Edges.MinCombinedSamples,
		LatencyDivisor:     c.Edges.LatencyDivisor,
		Workers:            c.Workers,
	}
}
