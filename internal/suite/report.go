// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package suite

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

const separator = "-----------------------"

// Report is the outcome of a [Suite] run.
type Report struct {
	RunID   uuid.UUID `json:"runId"`
	Cores   int       `json:"cores"`
	Results []Result  `json:"results"`
}

// Counts are the number of scenarios per outcome.
type Counts struct {
	Tests    int `json:"tests"`
	Failures int `json:"failures"`
	Ignored  int `json:"ignored"`
}

// Counts returns the number of scenarios per outcome.
func (r *Report) Counts() Counts {
	counts := Counts{Tests: len(r.Results)}

	for _, result := range r.Results {
		switch result.Status {
		case StatusFail:
			counts.Failures++
		case StatusSkip:
			counts.Ignored++
		case StatusPass:
		}
	}

	return counts
}

// Failed returns true if at least one scenario failed.
func (r *Report) Failed() bool {
	return r.Counts().Failures > 0
}

// WriteText writes a line per scenario followed by a summary.
func (r *Report) WriteText(w io.Writer) error {
	for _, result := range r.Results {
		_, err := fmt.Fprintln(w, textLine(result))
		if err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}

	counts := r.Counts()

	verdict := "OK"
	if counts.Failures > 0 {
		verdict = "FAIL"
	}

	_, err := fmt.Fprintf(w, "\n%s\n%d Tests %d Failures %d Ignored\n%s\n",
		separator, counts.Tests, counts.Failures, counts.Ignored, verdict)
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}

func textLine(result Result) string {
	name := result.Name
	if result.Iteration > 1 {
		name = fmt.Sprintf("%s#%d", name, result.Iteration)
	}

	line := fmt.Sprintf("TEST(%s, %s) ", result.Group, name)

	switch result.Status {
	case StatusPass:
		return line + "PASS"
	case StatusSkip:
		return line + "IGNORE: " + result.Message
	case StatusFail:
		return line + "FAIL: " + result.Message
	default:
		return line + string(result.Status)
	}
}

// WriteJSON writes the report as indented JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	doc := struct {
		*Report
		Counts Counts `json:"counts"`
	}{
		Report: r,
		Counts: r.Counts(),
	}

	err := encoder.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}
