// Package config provides parsing and validation for benchmark sweep
// configuration files.
package config

import (
	"time"

	"github.com/wesleyorama2/taskbench/internal/bench"
)

// BenchConfig is the root configuration for a benchmark sweep.
//
// Example YAML:
//
//	name: "goroutine scaling sweep"
//	delay: 100ms
//	warmup: 1000
//	awaitCeiling: 5m
//	onTimeout: abort
//	scenarios:
//	  - name: low-concurrency
//	    tasks: 1000
//	    poolWidth: 100
type BenchConfig struct {
	// Name of the sweep (for reporting)
	Name string `json:"name" yaml:"name"`

	// Description of the sweep (optional)
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Delay is the simulated I/O delay per task
	Delay Duration `json:"delay,omitempty" yaml:"delay,omitempty"`

	// Warmup is the discarded warmup task count (0 disables warmup)
	Warmup int `json:"warmup,omitempty" yaml:"warmup,omitempty"`

	// AwaitCeiling bounds how long one run may wait for its batch
	AwaitCeiling Duration `json:"awaitCeiling,omitempty" yaml:"awaitCeiling,omitempty"`

	// OnTimeout is the ceiling-breach policy: "abort" or "skip"
	OnTimeout string `json:"onTimeout,omitempty" yaml:"onTimeout,omitempty"`

	// Scenarios are the concurrency scales to sweep, run sequentially
	Scenarios []ScenarioConfig `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
}

// ScenarioConfig is one concurrency scale in the sweep.
type ScenarioConfig struct {
	// Name of the scenario (for reporting)
	Name string `json:"name" yaml:"name"`

	// Tasks is the batch size submitted to each strategy
	Tasks int `json:"tasks" yaml:"tasks"`

	// PoolWidth is the worker count for the bounded-pool baseline
	PoolWidth int `json:"poolWidth" yaml:"poolWidth"`
}

// ApplyDefaults fills unset fields with the canonical sweep defaults.
func ApplyDefaults(cfg *BenchConfig) {
	if cfg.Name == "" {
		cfg.Name = "taskbench"
	}
	if cfg.Delay == 0 {
		cfg.Delay = Duration(bench.DefaultDelay)
	}
	if cfg.AwaitCeiling == 0 {
		cfg.AwaitCeiling = Duration(bench.DefaultAwaitCeiling)
	}
	if cfg.OnTimeout == "" {
		cfg.OnTimeout = string(bench.PolicyAbort)
	}
	if len(cfg.Scenarios) == 0 {
		for _, sc := range bench.DefaultScenarios() {
			cfg.Scenarios = append(cfg.Scenarios, ScenarioConfig{
				Name:      sc.Name,
				Tasks:     sc.Tasks,
				PoolWidth: sc.PoolWidth,
			})
		}
	}
}

// SweepConfig converts the parsed configuration into the bench layer's
// sweep configuration.
func (c *BenchConfig) SweepConfig() bench.SweepConfig {
	scenarios := make([]bench.Scenario, 0, len(c.Scenarios))
	for _, sc := range c.Scenarios {
		scenarios = append(scenarios, bench.Scenario{
			Name:      sc.Name,
			Tasks:     sc.Tasks,
			PoolWidth: sc.PoolWidth,
		})
	}

	return bench.SweepConfig{
		Delay:        time.Duration(c.Delay),
		Warmup:       c.Warmup,
		AwaitCeiling: time.Duration(c.AwaitCeiling),
		OnTimeout:    bench.TimeoutPolicy(c.OnTimeout),
		Scenarios:    scenarios,
	}
}

// Duration is a time.Duration that unmarshals from JSON/YAML strings.
type Duration time.Duration

// GetDuration returns the duration or a default if empty.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	if s == "" {
		*d = 0
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
