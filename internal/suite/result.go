// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package suite

import (
	"github.com/aibor/affinitycheck/internal/affinity"
)

// Status is the outcome of a scenario.
type Status string

// Scenario outcomes.
const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Result is the outcome of a single scenario run.
type Result struct {
	Group string `json:"group"`
	Name  string `json:"name"`

	// Iteration is the 1-based repetition of the scenario.
	Iteration int `json:"iteration"`

	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`

	// Kind names the verification failure kind, if any.
	Kind string `json:"kind,omitempty"`

	// Observation is only present for pin scenarios that ran.
	Observation *affinity.Observation `json:"observation,omitempty"`

	Err error `json:"-"`
}

func passed(name string, iteration int) Result {
	return Result{
		Group:     Group,
		Name:      name,
		Iteration: iteration,
		Status:    StatusPass,
	}
}

func failed(name string, iteration int, err error) Result {
	return Result{
		Group:     Group,
		Name:      name,
		Iteration: iteration,
		Status:    StatusFail,
		Message:   err.Error(),
		Kind:      affinity.KindName(err),
		Err:       err,
	}
}

func skipped(name string, iteration int, err error) Result {
	return Result{
		Group:     Group,
		Name:      name,
		Iteration: iteration,
		Status:    StatusSkip,
		Message:   err.Error(),
		Err:       err,
	}
}
