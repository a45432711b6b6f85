// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package affinity

import "github.com/aibor/affinitycheck/internal/sched"

// Slot holds the core a [Reporter] reported.
//
// It is not synchronized. [Slot.Load] must only be called after the signal
// set by the Reporter has been observed, or after the reporting unit has been
// destroyed.
type Slot struct {
	core sched.CoreID
}

// NewSlot returns a new [Slot] holding [sched.CoreUnset].
func NewSlot() *Slot {
	return &Slot{core: sched.CoreUnset}
}

// Store writes the core into the slot.
func (s *Slot) Store(core sched.CoreID) {
	s.core = core
}

// Load returns the core from the slot.
func (s *Slot) Load() sched.CoreID {
	return s.core
}
