// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sched

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// MaxPriority is the highest priority a unit may be created with.
	MaxPriority = 24

	// DefaultPriority is one above the idle priority.
	DefaultPriority = 1

	// MinStackSize is the lowest stack size in bytes a unit may request.
	MinStackSize = 2048

	// DefaultStackSize is the stack size in bytes used if none is given.
	DefaultStackSize = 4 * 4096
)

// CoreID identifies one of the cores available to a [Scheduler].
//
// Valid IDs are in the range [0, NumCores).
type CoreID uint32

// CoreUnset is never a valid [CoreID]. It marks the absence of a core.
const CoreUnset = CoreID(math.MaxUint32)

// String implements [fmt.Stringer].
func (c CoreID) String() string {
	if c == CoreUnset {
		return "unset"
	}

	return strconv.FormatUint(uint64(c), 10)
}

// Valid returns true if the core is within the given number of cores.
func (c CoreID) Valid(numCores int) bool {
	return c != CoreUnset && int64(c) < int64(numCores)
}

// Env is passed to the [Entry] of a [Unit] when it is run.
type Env interface {
	// Name returns the name of the unit.
	Name() string

	// CurrentCore queries the core the unit is executing on right now.
	CurrentCore() (CoreID, error)

	// Park suspends the unit until it is destroyed. It must be the last
	// thing an entry does.
	Park()
}

// Entry is the body of a [Unit].
type Entry func(env Env)

// UnitSpec describes a unit to be created by a [Scheduler].
type UnitSpec struct {
	// Name of the unit, used for logging and error messages.
	Name string

	// Core the unit is pinned to.
	Core CoreID

	// Priority of the unit in the range [0, MaxPriority].
	Priority int

	// StackSize in bytes. If 0, [DefaultStackSize] is used.
	StackSize int

	// Entry is run once the unit has been placed on its core.
	Entry Entry
}

func (s *UnitSpec) validate(numCores int) error {
	if s.Entry == nil {
		return ErrNoEntry
	}

	if !s.Core.Valid(numCores) {
		return fmt.Errorf("%w: %s (cores: %d)", ErrInvalidCore, s.Core, numCores)
	}

	if s.Priority < 0 || s.Priority > MaxPriority {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, s.Priority)
	}

	if s.StackSize == 0 {
		s.StackSize = DefaultStackSize
	}

	if s.StackSize < MinStackSize {
		return fmt.Errorf("%w: %d < %d", ErrStackSize, s.StackSize, MinStackSize)
	}

	return nil
}

// Unit is a created unit of work pinned to a core.
type Unit interface {
	// Name returns the name the unit was created with.
	Name() string

	// Core returns the core the unit was pinned to.
	Core() CoreID

	// Destroy terminates the unit regardless of its state and returns once
	// it is gone. It is safe to call more than once.
	Destroy()
}

// Scheduler creates pinned units.
type Scheduler interface {
	// CreatePinned creates a new unit pinned to the core of the given spec.
	// Errors are of type [*CreateError].
	CreatePinned(spec UnitSpec) (Unit, error)

	// NumCores returns the number of cores available.
	NumCores() int
}
