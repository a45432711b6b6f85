// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config provides the run plan for an affinity check.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aibor/affinitycheck/internal/sched"
	"gopkg.in/yaml.v3"
)

// Scheduler names.
const (
	SchedulerOS  = "os"
	SchedulerSim = "sim"
)

// Single core policies.
const (
	// SingleCoreSkip reports all scenarios as skipped on single core
	// platforms.
	SingleCoreSkip = "skip"
	// SingleCoreFail reports all scenarios as failed on single core
	// platforms.
	SingleCoreFail = "fail"
)

var (
	// ErrInvalidValue is returned if a config value is not valid.
	ErrInvalidValue = errors.New("invalid value")

	// ErrValueOutOfRange is returned if a config value is outside of its
	// allowed range.
	ErrValueOutOfRange = errors.New("value is outside of range")
)

// Config is the run plan of an affinity check.
type Config struct {
	// Scheduler is either [SchedulerOS] or [SchedulerSim].
	Scheduler string `yaml:"scheduler"`

	// SimCores is the number of simulated cores for [SchedulerSim].
	SimCores int `yaml:"simCores"`

	// Cores to verify pinning for.
	Cores []sched.CoreID `yaml:"cores"`

	// Tick is the platform's tick resolution.
	Tick time.Duration `yaml:"tick"`

	// TimeoutTicks is the number of ticks to wait for a core report.
	TimeoutTicks uint `yaml:"timeoutTicks"`

	// Priority of the pinned units.
	Priority int `yaml:"priority"`

	// StackSize of the pinned units in bytes.
	StackSize int `yaml:"stackSize"`

	// SingleCore is the policy for single core platforms, either
	// [SingleCoreSkip] or [SingleCoreFail].
	SingleCore string `yaml:"singleCore"`

	// Parallel is the number of pin scenarios run at the same time.
	Parallel int `yaml:"parallel"`

	// Repeat is the number of times each pin scenario is run.
	Repeat int `yaml:"repeat"`

	// SignalLimit limits the number of completion signals that exist at the
	// same time. 0 means unlimited.
	SignalLimit int `yaml:"signalLimit"`
}

// Default returns the default [Config].
func Default() Config {
	return Config{
		Scheduler:    SchedulerOS,
		SimCores:     2,
		Cores:        []sched.CoreID{0, 1},
		Tick:         time.Millisecond,
		TimeoutTicks: 1000,
		Priority:     sched.DefaultPriority,
		StackSize:    sched.DefaultStackSize,
		SingleCore:   SingleCoreSkip,
		Parallel:     1,
		Repeat:       1,
	}
}

// Load reads the YAML file at the given path on top of [Default].
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes YAML from the given reader on top of [Default]. Unknown
// fields are rejected.
func Parse(reader io.Reader) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	err := decoder.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Timeout returns the time to wait for a core report.
func (c *Config) Timeout() time.Duration {
	return c.Tick * time.Duration(c.TimeoutTicks)
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.Scheduler {
	case SchedulerOS, SchedulerSim:
	default:
		return fmt.Errorf("scheduler %q: %w", c.Scheduler, ErrInvalidValue)
	}

	switch c.SingleCore {
	case SingleCoreSkip, SingleCoreFail:
	default:
		return fmt.Errorf("singleCore %q: %w", c.SingleCore, ErrInvalidValue)
	}

	checks := []struct {
		name  string
		value int64
		min   int64
		max   int64
	}{
		{"simCores", int64(c.SimCores), 1, 1024},
		{"tick", int64(c.Tick), int64(time.Microsecond), int64(time.Second)},
		{"timeoutTicks", int64(c.TimeoutTicks), 1, 1 << 20},
		{"priority", int64(c.Priority), 0, sched.MaxPriority},
		{"stackSize", int64(c.StackSize), sched.MinStackSize, 1 << 30},
		{"parallel", int64(c.Parallel), 1, 1024},
		{"repeat", int64(c.Repeat), 1, 1 << 16},
		{"signalLimit", int64(c.SignalLimit), 0, 1 << 16},
	}

	for _, check := range checks {
		if check.value < check.min || check.value > check.max {
			return fmt.Errorf("%s: %d not in [%d, %d]: %w",
				check.name, check.value, check.min, check.max,
				ErrValueOutOfRange)
		}
	}

	if len(c.Cores) == 0 {
		return fmt.Errorf("cores: empty: %w", ErrInvalidValue)
	}

	for _, core := range c.Cores {
		if core == sched.CoreUnset {
			return fmt.Errorf("cores: %d: %w", uint32(core), ErrValueOutOfRange)
		}
	}

	return nil
}
