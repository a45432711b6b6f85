// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sched

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCore is returned if a unit is requested for a core that is
	// not available.
	ErrInvalidCore = errors.New("invalid core")

	// ErrNoEntry is returned if a unit is requested without entry function.
	ErrNoEntry = errors.New("no entry function")

	// ErrInvalidPriority is returned if the priority is out of range.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrStackSize is returned if the requested stack size is too small.
	ErrStackSize = errors.New("stack size too small")

	// ErrResourceLimit is returned if no more units can be created.
	ErrResourceLimit = errors.New("unit limit reached")

	// ErrClosed is returned if the scheduler has been closed.
	ErrClosed = errors.New("scheduler closed")

	// ErrCoreNotAvailable is returned by [Env.CurrentCore] if the unit runs
	// on a CPU that is not one of the scheduler's cores.
	ErrCoreNotAvailable = errors.New("cpu is not an available core")
)

// CreateError wraps any error that prevented the creation of a unit.
type CreateError struct {
	Name string
	Core CoreID
	Err  error
}

// Error implements the [error] interface.
func (e *CreateError) Error() string {
	return fmt.Sprintf("create unit %s on core %s: %v", e.Name, e.Core, e.Err)
}

// Is implements the [errors.Is] interface.
func (*CreateError) Is(other error) bool {
	_, ok := other.(*CreateError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *CreateError) Unwrap() error {
	return e.Err
}
