// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package affinity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aibor/affinitycheck/internal/completion"
	"github.com/aibor/affinitycheck/internal/sched"
)

// DefaultTimeout is the time a [Verifier] waits for a report if no timeout
// is set.
const DefaultTimeout = 1000 * time.Millisecond

// EntryFunc returns the entry of the pinned unit for the given reporter.
type EntryFunc func(r *Reporter) sched.Entry

// ReporterEntry is the default [EntryFunc]. It runs the reporter.
func ReporterEntry(r *Reporter) sched.Entry {
	return r.Run
}

// SignalAllocator allocates completion signals.
type SignalAllocator interface {
	New() (*completion.Signal, error)
}

// Observation is the outcome of a single verification.
type Observation struct {
	Label string `json:"label"`

	// Target is the core the unit was pinned to.
	Target sched.CoreID `json:"target"`

	// Reported is the core the unit reported. It is [sched.CoreUnset] unless
	// the report has been confirmed.
	Reported sched.CoreID `json:"reported"`

	// Elapsed is the time spent waiting for the report.
	Elapsed time.Duration `json:"elapsed"`
}

// Verifier verifies that units pinned to a core actually run on that core.
//
// A Verifier has no state besides its configuration, so it can be used for
// any number of verifications, also concurrently.
type Verifier struct {
	// Scheduler creates the pinned units.
	Scheduler sched.Scheduler

	// Signals allocates the completion signals. If nil, signals are
	// allocated without limit.
	Signals SignalAllocator

	// Timeout for the report to be confirmed. If 0, [DefaultTimeout] is
	// used.
	Timeout time.Duration

	// Priority of the pinned units.
	Priority int

	// StackSize of the pinned units. If 0, the scheduler's default is used.
	StackSize int

	// Entry returns the entry of the pinned unit. If nil, [ReporterEntry]
	// is used.
	Entry EntryFunc

	// Logger is used for logging. If nil, [slog.Default] is used.
	Logger *slog.Logger
}

func (v *Verifier) timeout() time.Duration {
	if v.Timeout > 0 {
		return v.Timeout
	}

	return DefaultTimeout
}

func (v *Verifier) signals() SignalAllocator {
	if v.Signals != nil {
		return v.Signals
	}

	return new(completion.Pool)
}

func (v *Verifier) entry(r *Reporter) sched.Entry {
	if v.Entry != nil {
		return v.Entry(r)
	}

	return ReporterEntry(r)
}

func (v *Verifier) logger() *slog.Logger {
	if v.Logger != nil {
		return v.Logger
	}

	return slog.Default()
}

// VerifyPinnedCore creates a unit pinned to the given core and verifies that
// it reports to run on that core in time.
//
// The label names the unit and identifies the verification in errors and
// log messages. Errors are of type [*VerifyError]. The unit and the signal
// are destroyed before it returns, regardless of the outcome.
func (v *Verifier) VerifyPinnedCore(
	ctx context.Context,
	target sched.CoreID,
	label string,
) (Observation, error) {
	obs := Observation{
		Label:    label,
		Target:   target,
		Reported: sched.CoreUnset,
	}

	log := v.logger().With(
		slog.String("label", label),
		slog.Any("core", target),
	)

	var td teardown
	defer td.do()

	done, err := v.signals().New()
	if err != nil {
		return obs, &VerifyError{
			Label: label,
			Core:  target,
			Err:   fmt.Errorf("%w: %w", ErrSignalAllocationFailed, err),
		}
	}

	td.Cleanup(done.Destroy)

	slot := NewSlot()
	reporter := NewReporter(slot, done, log)

	unit, err := v.Scheduler.CreatePinned(sched.UnitSpec{
		Name:      label,
		Core:      target,
		Priority:  v.Priority,
		StackSize: v.StackSize,
		Entry:     v.entry(reporter),
	})
	if err != nil {
		return obs, &VerifyError{
			Label: label,
			Core:  target,
			Err:   fmt.Errorf("%w: %w", ErrCreationFailed, err),
		}
	}

	// Registered after the signal, so the unit is destroyed first and can
	// not touch the signal anymore once it is destroyed.
	td.Cleanup(unit.Destroy)

	log.Debug("Waiting for core report", slog.Duration("timeout", v.timeout()))

	start := time.Now()
	confirmed := done.Wait(ctx, v.timeout())
	obs.Elapsed = time.Since(start)

	if !confirmed {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return obs, &VerifyError{Label: label, Core: target, Err: ctxErr}
		}

		return obs, &VerifyError{
			Label: label,
			Core:  target,
			Err: fmt.Errorf("%w: no report within %s",
				ErrConfirmationTimeout, v.timeout()),
		}
	}

	obs.Reported = slot.Load()

	log.Debug("Core report confirmed",
		slog.Any("reported", obs.Reported),
		slog.Duration("elapsed", obs.Elapsed),
	)

	if obs.Reported != target {
		return obs, &VerifyError{
			Label: label,
			Core:  target,
			Err: &MismatchError{
				Expected: target,
				Actual:   obs.Reported,
			},
		}
	}

	return obs, nil
}
