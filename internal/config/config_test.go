// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aibor/affinitycheck/internal/config"
	"github.com/aibor/affinitycheck/internal/sched"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	require.NoError(t, cfg.Validate())

	assert.Equal(t, config.SchedulerOS, cfg.Scheduler)
	assert.Equal(t, []sched.CoreID{0, 1}, cfg.Cores)
	assert.Equal(t, time.Second, cfg.Timeout())
	assert.Equal(t, config.SingleCoreSkip, cfg.SingleCore)
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load("testdata/sim.yaml")
	require.NoError(t, err)

	expected := config.Config{
		Scheduler:    config.SchedulerSim,
		SimCores:     4,
		Cores:        []sched.CoreID{0, 1, 2, 3},
		Tick:         2 * time.Millisecond,
		TimeoutTicks: 250,
		Priority:     3,
		StackSize:    8192,
		SingleCore:   config.SingleCoreFail,
		Parallel:     2,
		Repeat:       3,
		SignalLimit:  8,
	}

	assert.Equal(t, expected, cfg)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout())
}

func TestLoadErrors(t *testing.T) {
	t.Run("not existing", func(t *testing.T) {
		_, err := config.Load("testdata/absent.yaml")
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := config.Load("testdata/unknown.yaml")
		require.ErrorContains(t, err, "field timeout not found")
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    func(*config.Config)
		expectedErr error
	}{
		{
			name:     "empty",
			input:    "",
			expected: func(*config.Config) {},
		},
		{
			name:  "partial",
			input: "scheduler: sim\ncores: [1]\n",
			expected: func(cfg *config.Config) {
				cfg.Scheduler = config.SchedulerSim
				cfg.Cores = []sched.CoreID{1}
			},
		},
		{
			name:        "invalid scheduler",
			input:       "scheduler: rtos\n",
			expectedErr: config.ErrInvalidValue,
		},
		{
			name:        "invalid single core policy",
			input:       "singleCore: ignore\n",
			expectedErr: config.ErrInvalidValue,
		},
		{
			name:        "no cores",
			input:       "cores: []\n",
			expectedErr: config.ErrInvalidValue,
		},
		{
			name:        "unset core",
			input:       "cores: [4294967295]\n",
			expectedErr: config.ErrValueOutOfRange,
		},
		{
			name:        "priority too high",
			input:       "priority: 25\n",
			expectedErr: config.ErrValueOutOfRange,
		},
		{
			name:        "stack too small",
			input:       "stackSize: 1024\n",
			expectedErr: config.ErrValueOutOfRange,
		},
		{
			name:        "zero timeout",
			input:       "timeoutTicks: 0\n",
			expectedErr: config.ErrValueOutOfRange,
		},
		{
			name:        "tick too short",
			input:       "tick: 1ns\n",
			expectedErr: config.ErrValueOutOfRange,
		},
		{
			name:        "no parallelism",
			input:       "parallel: 0\n",
			expectedErr: config.ErrValueOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Parse(strings.NewReader(tt.input))
			require.ErrorIs(t, err, tt.expectedErr)

			if tt.expectedErr != nil {
				return
			}

			expected := config.Default()
			tt.expected(&expected)

			assert.Equal(t, expected, cfg)
		})
	}
}
