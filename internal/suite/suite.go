// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package suite runs the affinity scenarios against a scheduler and collects
// their results into a [Report].
package suite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aibor/affinitycheck/internal/affinity"
	"github.com/aibor/affinitycheck/internal/sched"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Group is the name of the scenario group.
const Group = "SMP_Task_Creation"

// MultiCoreScenario is the name of the platform capability scenario.
const MultiCoreScenario = "IsMultiCore"

// ErrSingleCore is the reason for skipped or failed scenarios on platforms
// with only one core.
var ErrSingleCore = errors.New("single core platform")

// ScenarioName returns the name of the pin scenario for the given core.
func ScenarioName(core sched.CoreID) string {
	return fmt.Sprintf("CreatePinnedTaskOnCore%d", core)
}

// Label returns the unit name used by the pin scenario for the given core.
func Label(core sched.CoreID) string {
	return fmt.Sprintf("Pin_%d", core)
}

// Suite is a set of pin scenarios, one per core.
type Suite struct {
	// Verifier runs the verifications. Its scheduler is the one checked.
	Verifier *affinity.Verifier

	// Cores to run a pin scenario for.
	Cores []sched.CoreID

	// Repeat is the number of times each pin scenario is run in sequence.
	// Values below 1 are treated as 1.
	Repeat int

	// Parallel limits the number of pin scenarios run at the same time.
	// Values below 1 are treated as 1.
	Parallel int

	// FailOnSingleCore reports scenarios as failed instead of skipped if
	// the platform has only one core.
	FailOnSingleCore bool

	// Logger is used for logging. If nil, [slog.Default] is used.
	Logger *slog.Logger
}

func (s *Suite) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}

	return slog.Default()
}

// Run runs all scenarios and returns the report. The capability scenario
// runs first. Pin scenarios only run on multi core platforms.
func (s *Suite) Run(ctx context.Context) *Report {
	report := &Report{
		RunID: uuid.New(),
		Cores: s.Verifier.Scheduler.NumCores(),
	}

	log := s.logger().With(slog.String("run", report.RunID.String()))
	log.Debug("Starting run",
		slog.Int("cores", report.Cores),
		slog.Any("targets", s.Cores),
	)

	repeat := max(s.Repeat, 1)

	if !affinity.IsMultiCore(s.Verifier.Scheduler) {
		log.Warn("Platform has a single core only")

		notRun := skipped
		if s.FailOnSingleCore {
			notRun = failed
		}

		report.Results = append(report.Results,
			notRun(MultiCoreScenario, 1, ErrSingleCore))

		for _, core := range s.Cores {
			for iteration := range repeat {
				report.Results = append(report.Results,
					notRun(ScenarioName(core), iteration+1, ErrSingleCore))
			}
		}

		return report
	}

	report.Results = append(report.Results, passed(MultiCoreScenario, 1))

	verifier := *s.Verifier
	verifier.Logger = log

	results := make([]Result, len(s.Cores)*repeat)

	var group errgroup.Group

	group.SetLimit(max(s.Parallel, 1))

	for idx, core := range s.Cores {
		group.Go(func() error {
			for iteration := range repeat {
				results[idx*repeat+iteration] = runPinScenario(
					ctx, &verifier, core, iteration+1)
			}

			return nil
		})
	}

	_ = group.Wait()

	report.Results = append(report.Results, results...)

	return report
}

func runPinScenario(
	ctx context.Context,
	verifier *affinity.Verifier,
	core sched.CoreID,
	iteration int,
) Result {
	name := ScenarioName(core)

	obs, err := verifier.VerifyPinnedCore(ctx, core, Label(core))
	if err != nil {
		verifier.Logger.Error("Scenario failed",
			slog.String("scenario", name),
			slog.Int("iteration", iteration),
			slog.Any("error", err),
		)

		result := failed(name, iteration, err)
		result.Observation = &obs

		return result
	}

	result := passed(name, iteration)
	result.Observation = &obs

	return result
}
