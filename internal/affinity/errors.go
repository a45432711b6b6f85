// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package affinity

import (
	"errors"
	"fmt"

	"github.com/aibor/affinitycheck/internal/sched"
)

var (
	// ErrSignalAllocationFailed is returned if no completion signal could be
	// allocated. No unit has been created in this case.
	ErrSignalAllocationFailed = errors.New("completion signal allocation failed")

	// ErrCreationFailed is returned if the scheduler rejected the creation
	// of the pinned unit.
	ErrCreationFailed = errors.New("pinned unit creation failed")

	// ErrConfirmationTimeout is returned if no report was observed in time.
	// The unit might not have run at all, run on another core, or been
	// unable to set the signal.
	ErrConfirmationTimeout = errors.New("core report not confirmed in time")

	// ErrCoreMismatch is returned if the unit reported a core other than the
	// one it was pinned to.
	ErrCoreMismatch = errors.New("reported core does not match pinned core")
)

// kinds maps the error kinds to short identifiers for machine readable
// output.
var kinds = []struct {
	err  error
	name string
}{
	{ErrSignalAllocationFailed, "signal_allocation_failed"},
	{ErrCreationFailed, "creation_failed"},
	{ErrConfirmationTimeout, "confirmation_timeout"},
	{ErrCoreMismatch, "core_mismatch"},
}

// KindName returns a short identifier of the error kind the given error is
// of. It returns an empty string if the error is not of any known kind.
func KindName(err error) string {
	for _, kind := range kinds {
		if errors.Is(err, kind.err) {
			return kind.name
		}
	}

	return ""
}

// MismatchError is returned if the reported core does not match the core
// the unit was pinned to.
type MismatchError struct {
	Expected sched.CoreID
	Actual   sched.CoreID
}

// Error implements the [error] interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: expected %s, reported %s",
		ErrCoreMismatch, e.Expected, e.Actual)
}

// Is implements the [errors.Is] interface. It matches [ErrCoreMismatch] as
// well.
func (*MismatchError) Is(other error) bool {
	if other == ErrCoreMismatch {
		return true
	}

	_, ok := other.(*MismatchError)

	return ok
}

// VerifyError wraps any error of a single verification.
type VerifyError struct {
	Label string
	Core  sched.CoreID
	Err   error
}

// Error implements the [error] interface.
func (e *VerifyError) Error() string {
	return fmt.Sprintf("%s (core %s): %v", e.Label, e.Core, e.Err)
}

// Is implements the [errors.Is] interface.
func (*VerifyError) Is(other error) bool {
	_, ok := other.(*VerifyError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *VerifyError) Unwrap() error {
	return e.Err
}
