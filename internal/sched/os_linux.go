// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sched

import (
	"fmt"
	"log/slog"
	"runtime"
	"slices"
)

// OSOption configures an [OS] scheduler.
type OSOption func(*OS)

// WithOSUnitLimit limits the number of units that may exist at the same
// time. Each unit occupies an OS thread.
func WithOSUnitLimit(n int) OSOption {
	return func(s *OS) {
		s.unitLimit = n
	}
}

// WithOSLogger sets the logger. Default is [slog.Default].
func WithOSLogger(logger *slog.Logger) OSOption {
	return func(s *OS) {
		s.log = logger
	}
}

// OS is a [Scheduler] that runs each unit on a dedicated OS thread with its
// CPU affinity restricted to the unit's core.
//
// The cores are the CPUs in the affinity set of the process at the time the
// scheduler is created. [CoreID] n is the n-th CPU in that set in ascending
// order.
type OS struct {
	cpus      []int
	unitLimit int
	log       *slog.Logger
	registry  *registry
}

var _ Scheduler = (*OS)(nil)

// NewOS creates a new [OS] scheduler.
func NewOS(opts ...OSOption) (*OS, error) {
	cpus, err := processCPUs()
	if err != nil {
		return nil, err
	}

	sched := &OS{
		cpus: cpus,
		log:  slog.Default(),
	}

	for _, opt := range opts {
		opt(sched)
	}

	sched.registry = newRegistry(sched.unitLimit)

	return sched, nil
}

// NumCores implements [Scheduler].
func (s *OS) NumCores() int {
	return len(s.cpus)
}

// AllowedCPUs returns the CPU numbers backing the cores in [CoreID] order.
func (s *OS) AllowedCPUs() []int {
	return slices.Clone(s.cpus)
}

// Live returns the number of units that have not been destroyed yet.
func (s *OS) Live() int {
	return s.registry.len()
}

// CreatePinned implements [Scheduler].
//
// It returns once the unit's thread has been pinned to the core's CPU. The
// entry might not have started yet.
func (s *OS) CreatePinned(spec UnitSpec) (Unit, error) {
	if err := spec.validate(len(s.cpus)); err != nil {
		return nil, &CreateError{Name: spec.Name, Core: spec.Core, Err: err}
	}

	u, err := s.registry.add(spec.Name, spec.Core)
	if err != nil {
		return nil, &CreateError{Name: spec.Name, Core: spec.Core, Err: err}
	}

	cpu := s.cpus[spec.Core]
	pinned := make(chan error, 1)

	u.begin()

	go s.runPinned(u, cpu, spec, pinned)

	if err := <-pinned; err != nil {
		u.Destroy()
		return nil, &CreateError{Name: spec.Name, Core: spec.Core, Err: err}
	}

	s.log.Debug("Unit pinned",
		slog.String("unit", spec.Name),
		slog.Any("core", spec.Core),
		slog.Int("cpu", cpu),
	)

	return u, nil
}

// runPinned is the body of the unit's goroutine. The goroutine stays locked
// to its thread and never unlocks it, so the thread is terminated once the
// goroutine exits. This gets rid of the modified affinity and priority.
func (s *OS) runPinned(u *unit, cpu int, spec UnitSpec, pinned chan<- error) {
	runtime.LockOSThread()

	if err := pinThread(cpu); err != nil {
		pinned <- err

		u.finish()

		return
	}

	if err := setThreadPriority(spec.Priority); err != nil {
		s.log.Warn("Failed to set unit priority",
			slog.String("unit", spec.Name),
			slog.Int("priority", spec.Priority),
			slog.Any("error", err),
		)
	}

	pinned <- nil

	env := &env{
		unit:        u,
		currentCore: s.currentCore,
	}

	u.run(env, spec.Entry)
}

func (s *OS) currentCore() (CoreID, error) {
	cpu, err := currentCPU()
	if err != nil {
		return CoreUnset, err
	}

	idx := slices.Index(s.cpus, cpu)
	if idx < 0 {
		return CoreUnset, fmt.Errorf("%w: %d", ErrCoreNotAvailable, cpu)
	}

	return CoreID(idx), nil
}
