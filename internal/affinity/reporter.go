// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package affinity

import (
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/aibor/affinitycheck/internal/completion"
	"github.com/aibor/affinitycheck/internal/sched"
)

// State is the lifecycle state of a [Reporter].
type State uint32

const (
	// StateCreated is the initial state before the reporter ran.
	StateCreated State = iota
	// StateReported is reached once the core has been written to the slot.
	StateReported
	// StateSignaled is reached once the completion signal has been set.
	StateSignaled
	// StateParked is the terminal state.
	StateParked
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateReported:
		return "reported"
	case StateSignaled:
		return "signaled"
	case StateParked:
		return "parked"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

// transitions lists the states reachable from each state. Without a usable
// signal the reporter parks right after reporting.
var transitions = map[State][]State{
	StateCreated:  {StateReported},
	StateReported: {StateSignaled, StateParked},
	StateSignaled: {StateParked},
}

// Reporter is the body of a pinned unit. It reports the core it runs on.
type Reporter struct {
	slot  *Slot
	done  *completion.Signal
	state atomic.Uint32
	log   *slog.Logger
}

// NewReporter creates a new [Reporter] that writes into the given slot and
// sets the given signal. The signal may be nil. In that case the core is
// still written, but nobody is woken up.
func NewReporter(slot *Slot, done *completion.Signal, log *slog.Logger) *Reporter {
	if log == nil {
		log = slog.Default()
	}

	return &Reporter{
		slot: slot,
		done: done,
		log:  log,
	}
}

// State returns the current state of the reporter.
func (r *Reporter) State() State {
	return State(r.state.Load())
}

func (r *Reporter) transition(next State) {
	current := r.State()
	if !slices.Contains(transitions[current], next) {
		panic(fmt.Sprintf("reporter: invalid transition %s -> %s", current, next))
	}

	r.state.Store(uint32(next))
}

// Run is the [sched.Entry] of the reporting unit. It writes the current core
// into the slot, sets the signal and parks. The slot is written before the
// signal is set.
func (r *Reporter) Run(env sched.Env) {
	core, err := env.CurrentCore()
	if err != nil {
		r.log.Warn("Failed to query current core",
			slog.String("unit", env.Name()),
			slog.Any("error", err),
		)

		core = sched.CoreUnset
	}

	r.slot.Store(core)
	r.transition(StateReported)

	if r.signal(env.Name()) {
		r.transition(StateSignaled)
	}

	r.transition(StateParked)

	env.Park()
}

func (r *Reporter) signal(name string) bool {
	if r.done == nil {
		r.log.Warn("No completion signal to set", slog.String("unit", name))
		return false
	}

	if !r.done.Set() {
		r.log.Warn("Error when setting completion signal",
			slog.String("unit", name))

		return false
	}

	return true
}
