// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package affinity verifies that a scheduler runs pinned units on the core
// they were pinned to.
//
// A [Verifier] creates a unit pinned to the core under test. The unit runs a
// [Reporter] that writes the core it actually runs on into a [Slot] and sets
// a completion signal. The Verifier waits for the signal with a timeout and
// compares the reported core with the requested one. The unit and the signal
// are released in any case.
//
// Failures are reported as [*VerifyError] wrapping one of
// [ErrSignalAllocationFailed], [ErrCreationFailed], [ErrConfirmationTimeout]
// or [ErrCoreMismatch], so a caller can tell "never ran", "ran on the wrong
// core" and "rejected by the scheduler" apart.
package affinity
