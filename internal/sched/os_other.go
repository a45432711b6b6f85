// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build !linux

package sched

import (
	"errors"
	"fmt"
	"log/slog"
)

// OSOption configures an [OS] scheduler.
type OSOption func(*OS)

// WithOSUnitLimit is a no-op on this platform.
func WithOSUnitLimit(int) OSOption {
	return func(*OS) {}
}

// WithOSLogger is a no-op on this platform.
func WithOSLogger(*slog.Logger) OSOption {
	return func(*OS) {}
}

// OS is not supported on this platform.
type OS struct{}

var _ Scheduler = (*OS)(nil)

// NewOS always fails with [errors.ErrUnsupported] on this platform.
func NewOS(...OSOption) (*OS, error) {
	return nil, fmt.Errorf("os scheduler: %w", errors.ErrUnsupported)
}

// NumCores implements [Scheduler].
func (*OS) NumCores() int {
	return 0
}

// AllowedCPUs returns nil on this platform.
func (*OS) AllowedCPUs() []int {
	return nil
}

// Live returns 0 on this platform.
func (*OS) Live() int {
	return 0
}

// CreatePinned implements [Scheduler].
func (*OS) CreatePinned(spec UnitSpec) (Unit, error) {
	return nil, &CreateError{
		Name: spec.Name,
		Core: spec.Core,
		Err:  errors.ErrUnsupported,
	}
}
