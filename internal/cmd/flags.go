// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"time"

	"github.com/aibor/affinitycheck/internal/config"
	"github.com/aibor/affinitycheck/internal/sched"
	"github.com/spf13/pflag"
)

// Report formats.
const (
	formatText = "text"
	formatJSON = "json"
)

// flagValues holds the values of all config related flags. They are only
// applied on top of the config if they have been set explicitly.
type flagValues struct {
	scheduler    string
	simCores     int
	cores        []uint
	tick         time.Duration
	timeoutTicks uint
	priority     int
	repeat       int
	parallel     int
	singleCore   string
}

func (v *flagValues) addSchedulerFlags(flags *pflag.FlagSet) {
	def := config.Default()

	flags.StringVar(&v.scheduler, "scheduler", def.Scheduler,
		"scheduler backend to check: os or sim")
	flags.IntVar(&v.simCores, "sim-cores", def.SimCores,
		"number of cores of the sim scheduler")
}

func (v *flagValues) addRunFlags(flags *pflag.FlagSet) {
	def := config.Default()

	defCores := make([]uint, len(def.Cores))
	for idx, core := range def.Cores {
		defCores[idx] = uint(core)
	}

	flags.UintSliceVar(&v.cores, "cores", defCores,
		"cores to run a pin scenario for")
	flags.DurationVar(&v.tick, "tick", def.Tick,
		"tick resolution of the platform")
	flags.UintVar(&v.timeoutTicks, "timeout-ticks", def.TimeoutTicks,
		"number of ticks to wait for a core report")
	flags.IntVar(&v.priority, "priority", def.Priority,
		fmt.Sprintf("priority of the pinned units (0-%d)", sched.MaxPriority))
	flags.IntVar(&v.repeat, "repeat", def.Repeat,
		"number of times each pin scenario is run")
	flags.IntVar(&v.parallel, "parallel", def.Parallel,
		"number of pin scenarios run at the same time")
	flags.StringVar(&v.singleCore, "single-core", def.SingleCore,
		"outcome of scenarios on single core platforms: skip or fail")
}

// apply sets all changed flag values in the given config and validates the
// result.
func (v *flagValues) apply(flags *pflag.FlagSet, cfg *config.Config) error {
	changed := flags.Changed

	if changed("scheduler") {
		cfg.Scheduler = v.scheduler
	}

	if changed("sim-cores") {
		cfg.SimCores = v.simCores
	}

	if changed("cores") {
		cores := make([]sched.CoreID, len(v.cores))

		for idx, core := range v.cores {
			if uint64(core) >= uint64(sched.CoreUnset) {
				return fmt.Errorf("cores: %d: %w", core, config.ErrValueOutOfRange)
			}

			cores[idx] = sched.CoreID(core)
		}

		cfg.Cores = cores
	}

	if changed("tick") {
		cfg.Tick = v.tick
	}

	if changed("timeout-ticks") {
		cfg.TimeoutTicks = v.timeoutTicks
	}

	if changed("priority") {
		cfg.Priority = v.priority
	}

	if changed("repeat") {
		cfg.Repeat = v.repeat
	}

	if changed("parallel") {
		cfg.Parallel = v.parallel
	}

	if changed("single-core") {
		cfg.SingleCore = v.singleCore
	}

	return cfg.Validate()
}
