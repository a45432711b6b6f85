// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/aibor/affinitycheck/internal/affinity"
	"github.com/aibor/affinitycheck/internal/completion"
	"github.com/aibor/affinitycheck/internal/config"
	"github.com/aibor/affinitycheck/internal/exitcode"
	"github.com/aibor/affinitycheck/internal/sched"
	"github.com/aibor/affinitycheck/internal/suite"
	"github.com/spf13/cobra"
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type options struct {
	debug        bool
	configPath   string
	format       string
	exitCodeLine bool
	values       flagValues
	cfg          config.Config
}

// loadConfig reads the config file, if any, and applies the flags set
// explicitly on top of it.
func (o *options) loadConfig(cmd *cobra.Command) error {
	o.cfg = config.Default()

	if o.configPath != "" {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return err
		}

		o.cfg = cfg
	}

	err := o.values.apply(cmd.Flags(), &o.cfg)
	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	return nil
}

// scheduler is a [sched.Scheduler] that may hold resources.
type scheduler interface {
	sched.Scheduler
	Live() int
}

func newScheduler(cfg config.Config) (scheduler, func(), error) {
	switch cfg.Scheduler {
	case config.SchedulerSim:
		sim := sched.NewSim(
			sched.WithCores(cfg.SimCores),
			sched.WithSimLogger(slog.Default()),
		)

		return sim, sim.Close, nil
	default:
		osSched, err := sched.NewOS(sched.WithOSLogger(slog.Default()))
		if err != nil {
			return nil, nil, fmt.Errorf("os scheduler: %w", err)
		}

		return osSched, func() {}, nil
	}
}

func newRootCommand(opts *options, cfg IO) *cobra.Command {
	root := &cobra.Command{
		Use:   "affinitycheck",
		Short: "Verify that a scheduler honors core pinning",
		Long: "affinitycheck creates units pinned to a core and verifies " +
			"they report to run on exactly that core.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			setupLogging(cfg.Stderr, opts.debug)
		},
	}

	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	root.PersistentFlags().BoolVar(&opts.debug, "debug", false,
		"enable debug logging")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"YAML file with the run plan, flags take precedence")
	opts.values.addSchedulerFlags(root.PersistentFlags())

	root.AddCommand(
		newRunCommand(opts),
		newCoresCommand(opts),
		newVersionCommand(),
	)

	return root
}

func newRunCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pin scenarios and print a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch opts.format {
			case formatText, formatJSON:
			default:
				return fmt.Errorf("%w: %s", ErrInvalidFormat, opts.format)
			}

			err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			return runSuite(cmd.Context(), opts.cfg, opts.format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", formatText,
		"report format: text or json")
	cmd.Flags().BoolVar(&opts.exitCodeLine, "exit-code-line", false,
		"print the exit code identifier line to stdout")
	opts.values.addRunFlags(cmd.Flags())

	return cmd
}

func newCoresCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cores",
		Short: "Print the cores of the scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			s, closeScheduler, err := newScheduler(opts.cfg)
			if err != nil {
				return err
			}
			defer closeScheduler()

			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "cores: %d\n", s.NumCores())
			fmt.Fprintf(out, "multi-core: %t\n", affinity.IsMultiCore(s))

			if osSched, ok := s.(*sched.OS); ok {
				fmt.Fprintf(out, "allowed cpus: %v\n", osSched.AllowedCPUs())
			}

			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			buildInfo, err := getBuildInfo()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\n", buildInfo.Main.Version)

			return nil
		},
	}
}

func runSuite(
	ctx context.Context,
	cfg config.Config,
	format string,
	out io.Writer,
) error {
	s, closeScheduler, err := newScheduler(cfg)
	if err != nil {
		return err
	}
	defer closeScheduler()

	signals := completion.NewPool(cfg.SignalLimit)

	checkSuite := &suite.Suite{
		Verifier: &affinity.Verifier{
			Scheduler: s,
			Signals:   signals,
			Timeout:   cfg.Timeout(),
			Priority:  cfg.Priority,
			StackSize: cfg.StackSize,
		},
		Cores:            cfg.Cores,
		Repeat:           cfg.Repeat,
		Parallel:         cfg.Parallel,
		FailOnSingleCore: cfg.SingleCore == config.SingleCoreFail,
	}

	report := checkSuite.Run(ctx)

	slog.Debug("Run finished",
		slog.String("run", report.RunID.String()),
		slog.Int("live_units", s.Live()),
		slog.Int("live_signals", signals.Live()),
	)

	if format == formatJSON {
		err = report.WriteJSON(out)
	} else {
		err = report.WriteText(out)
	}

	if err != nil {
		return err
	}

	if report.Failed() {
		return exitcode.ScenariosFailed
	}

	return nil
}

func handleRunError(err error) int {
	exitCode, isExitCode := exitcode.From(err)

	// Failed scenarios are already part of the report.
	if err != nil && !isExitCode {
		slog.Error(err.Error())
	}

	return exitCode
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	opts := new(options)

	root := newRootCommand(opts, cfg)
	root.SetArgs(args)

	exitCode := handleRunError(root.ExecuteContext(ctx))

	if opts.exitCodeLine {
		_, err := exitcode.Fprint(cfg.Stdout, exitCode)
		if err != nil {
			slog.Error("Failed to print exit code", slog.Any("error", err))
		}
	}

	return exitCode
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}
