// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sched_test

import (
	"testing"

	"github.com/aibor/affinitycheck/internal/sched"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOS_CreatePinned(t *testing.T) {
	osSched, err := sched.NewOS()
	require.NoError(t, err)

	require.Positive(t, osSched.NumCores())
	assert.Len(t, osSched.AllowedCPUs(), osSched.NumCores())

	for core := range sched.CoreID(osSched.NumCores()) {
		t.Run(core.String(), func(t *testing.T) {
			reports := make(chan coreReport, 1)

			unit, err := osSched.CreatePinned(sched.UnitSpec{
				Name:     "os",
				Core:     core,
				Priority: sched.DefaultPriority,
				Entry:    reportingEntry(reports),
			})
			require.NoError(t, err)

			report := awaitReport(t, reports)

			unit.Destroy()

			require.NoError(t, report.err)
			assert.Equal(t, core, report.core)
			assert.Equal(t, 0, osSched.Live(), "live units")
		})
	}
}

func TestOS_CreatePinnedLowPriority(t *testing.T) {
	osSched, err := sched.NewOS()
	require.NoError(t, err)

	reports := make(chan coreReport, 1)

	unit, err := osSched.CreatePinned(sched.UnitSpec{
		Name:     "low",
		Core:     0,
		Priority: 0,
		Entry:    reportingEntry(reports),
	})
	require.NoError(t, err)

	report := awaitReport(t, reports)

	unit.Destroy()

	require.NoError(t, report.err)
	assert.Equal(t, sched.CoreID(0), report.core)
}

func TestOS_CreatePinnedErrors(t *testing.T) {
	osSched, err := sched.NewOS(sched.WithOSUnitLimit(1))
	require.NoError(t, err)

	entry := func(env sched.Env) { env.Park() }

	_, err = osSched.CreatePinned(sched.UnitSpec{
		Core:  sched.CoreID(osSched.NumCores()),
		Entry: entry,
	})
	require.ErrorIs(t, err, sched.ErrInvalidCore)

	first, err := osSched.CreatePinned(sched.UnitSpec{Core: 0, Entry: entry})
	require.NoError(t, err)

	_, err = osSched.CreatePinned(sched.UnitSpec{Core: 0, Entry: entry})
	require.ErrorIs(t, err, sched.ErrResourceLimit)

	first.Destroy()

	assert.Equal(t, 0, osSched.Live(), "live units")
}
