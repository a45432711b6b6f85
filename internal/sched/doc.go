// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sched provides schedulers that create units of work pinned to a
// single core.
//
// A [Scheduler] creates a [Unit] from a [UnitSpec]. The unit's entry function
// is called with an [Env] that gives it access to the core it currently runs
// on and a way to park until the unit is destroyed. Entries never learn the
// core they were pinned to, they have to ask the [Env], which reflects where
// the scheduler actually placed them.
//
// Two schedulers are available. [OS] pins each unit to a dedicated OS thread
// with the thread's CPU affinity restricted to the requested core. It is only
// supported on Linux. [Sim] simulates a number of cores in-process and allows
// to inject faults, like misrouting units to the wrong core or stalling a
// core entirely.
package sched
