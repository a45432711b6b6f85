// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aibor/affinitycheck/internal/cmd"
	"github.com/aibor/affinitycheck/internal/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	exitCode := cmd.Run(t.Context(), args, cmd.IO{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	})

	return exitCode, stdout.String(), stderr.String()
}

func TestRun(t *testing.T) {
	tests := []struct {
		name             string
		args             []string
		expectedExitCode int
		expectedStdout   []string
		expectedStderr   string
	}{
		{
			name:             "sim passes",
			args:             []string{"run", "--scheduler", "sim"},
			expectedExitCode: 0,
			expectedStdout: []string{
				"TEST(SMP_Task_Creation, IsMultiCore) PASS\n",
				"TEST(SMP_Task_Creation, CreatePinnedTaskOnCore0) PASS\n",
				"TEST(SMP_Task_Creation, CreatePinnedTaskOnCore1) PASS\n",
				"3 Tests 0 Failures 0 Ignored\nOK\n",
			},
		},
		{
			name: "single core skipped",
			args: []string{
				"run", "--scheduler=sim", "--sim-cores=1",
			},
			expectedExitCode: 0,
			expectedStdout: []string{
				"TEST(SMP_Task_Creation, IsMultiCore) IGNORE: single core platform\n",
				"3 Tests 0 Failures 3 Ignored\nOK\n",
			},
		},
		{
			name: "single core failed",
			args: []string{
				"run", "--scheduler=sim", "--sim-cores=1",
				"--single-core=fail", "--exit-code-line",
			},
			expectedExitCode: 1,
			expectedStdout: []string{
				"TEST(SMP_Task_Creation, IsMultiCore) FAIL: single core platform\n",
				"3 Tests 3 Failures 0 Ignored\nFAIL\n",
				"\n" + exitcode.Identifier + ": 1\n",
			},
		},
		{
			name: "invalid core fails",
			args: []string{
				"run", "--scheduler=sim", "--cores=0,5", "--timeout-ticks=50",
			},
			expectedExitCode: 1,
			expectedStdout: []string{
				"TEST(SMP_Task_Creation, CreatePinnedTaskOnCore0) PASS\n",
				"TEST(SMP_Task_Creation, CreatePinnedTaskOnCore5) FAIL: " +
					"Pin_5 (core 5): pinned unit creation failed",
			},
		},
		{
			name: "repeated and parallel",
			args: []string{
				"run", "--scheduler=sim", "--sim-cores=4", "--cores=0,1,2,3",
				"--repeat=2", "--parallel=4",
			},
			expectedExitCode: 0,
			expectedStdout: []string{
				"TEST(SMP_Task_Creation, CreatePinnedTaskOnCore3#2) PASS\n",
				"9 Tests 0 Failures 0 Ignored\nOK\n",
			},
		},
		{
			name:             "config file",
			args:             []string{"--config", "testdata/plan.yaml", "run"},
			expectedExitCode: 0,
			expectedStdout: []string{
				"TEST(SMP_Task_Creation, CreatePinnedTaskOnCore2#2) PASS\n",
				"7 Tests 0 Failures 0 Ignored\nOK\n",
			},
		},
		{
			name: "flags override config file",
			args: []string{
				"--config=testdata/plan.yaml", "run", "--cores=1", "--repeat=1",
			},
			expectedExitCode: 0,
			expectedStdout: []string{
				"2 Tests 0 Failures 0 Ignored\nOK\n",
			},
		},
		{
			name: "success exit code line",
			args: []string{
				"run", "--scheduler=sim", "--exit-code-line",
			},
			expectedExitCode: 0,
			expectedStdout: []string{
				"OK\n\n" + exitcode.Identifier + ": 0\n",
			},
		},
		{
			name:             "invalid format",
			args:             []string{"run", "--scheduler=sim", "--format=xml"},
			expectedExitCode: -1,
			expectedStderr:   "invalid report format: xml",
		},
		{
			name:             "invalid flag value",
			args:             []string{"run", "--scheduler=rtos"},
			expectedExitCode: -1,
			expectedStderr:   `flags: scheduler \"rtos\": invalid value`,
		},
		{
			name:             "unknown flag",
			args:             []string{"run", "--bogus"},
			expectedExitCode: -1,
			expectedStderr:   "unknown flag: --bogus",
		},
		{
			name:             "missing config file",
			args:             []string{"--config=testdata/absent.yaml", "run"},
			expectedExitCode: -1,
			expectedStderr:   "read config file",
		},
		{
			name:             "unexpected argument",
			args:             []string{"run", "extra"},
			expectedExitCode: -1,
			expectedStderr:   "unknown command",
		},
		{
			name:             "help",
			args:             []string{"--help"},
			expectedExitCode: 0,
			expectedStdout:   []string{"Usage:\n  affinitycheck [command]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exitCode, stdout, stderr := run(t, tt.args...)

			assert.Equal(t, tt.expectedExitCode, exitCode, stderr)

			for _, expected := range tt.expectedStdout {
				assert.Contains(t, stdout, expected)
			}

			if tt.expectedStderr != "" {
				assert.Contains(t, stderr, tt.expectedStderr)
			}
		})
	}
}

func TestRun_JSON(t *testing.T) {
	exitCode, stdout, stderr := run(t,
		"run", "--scheduler=sim", "--format=json", "--cores=1")
	require.Equal(t, 0, exitCode, stderr)

	var report struct {
		RunID   string `json:"runId"`
		Cores   int    `json:"cores"`
		Results []struct {
			Name        string `json:"name"`
			Status      string `json:"status"`
			Observation *struct {
				Label    string `json:"label"`
				Target   uint32 `json:"target"`
				Reported uint32 `json:"reported"`
			} `json:"observation"`
		} `json:"results"`
		Counts struct {
			Tests    int `json:"tests"`
			Failures int `json:"failures"`
		} `json:"counts"`
	}

	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Cores)
	assert.Equal(t, 2, report.Counts.Tests)
	assert.Equal(t, 0, report.Counts.Failures)

	require.Len(t, report.Results, 2)
	assert.Nil(t, report.Results[0].Observation)
	require.NotNil(t, report.Results[1].Observation)
	assert.Equal(t, "Pin_1", report.Results[1].Observation.Label)
	assert.Equal(t, uint32(1), report.Results[1].Observation.Reported)
}

func TestRun_Cores(t *testing.T) {
	exitCode, stdout, stderr := run(t, "cores", "--scheduler=sim", "--sim-cores=4")
	require.Equal(t, 0, exitCode, stderr)

	assert.Equal(t, "cores: 4\nmulti-core: true\n", stdout)
}

func TestRun_Version(t *testing.T) {
	exitCode, stdout, stderr := run(t, "version")
	require.Equal(t, 0, exitCode, stderr)

	assert.True(t, strings.HasPrefix(stdout, "Version: "), stdout)
}
