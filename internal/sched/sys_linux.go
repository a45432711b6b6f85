// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sched

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// errPinNotApplied is returned if the kernel accepted the affinity mask but
// it does not match the requested one afterwards.
var errPinNotApplied = errors.New("affinity not applied")

// processCPUs returns the CPUs in the affinity set of the calling thread in
// ascending order.
func processCPUs() ([]int, error) {
	var set unix.CPUSet

	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, fmt.Errorf("sched_getaffinity: %w", err)
	}

	cpus := make([]int, 0, set.Count())

	for cpu := 0; len(cpus) < set.Count(); cpu++ {
		if set.IsSet(cpu) {
			cpus = append(cpus, cpu)
		}
	}

	return cpus, nil
}

// pinThread restricts the calling thread to the given CPU. The goroutine
// must be locked to its thread.
func pinThread(cpu int) error {
	var set unix.CPUSet

	set.Zero()
	set.Set(cpu)

	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("sched_setaffinity: %w", err)
	}

	var verify unix.CPUSet

	if err := unix.SchedGetaffinity(0, &verify); err != nil {
		return fmt.Errorf("sched_getaffinity: %w", err)
	}

	if verify.Count() != 1 || !verify.IsSet(cpu) {
		return fmt.Errorf("%w: cpu %d", errPinNotApplied, cpu)
	}

	return nil
}

// setThreadPriority lowers the calling thread's scheduling priority for
// priorities below [DefaultPriority]. Higher priorities would require
// privileges and are left at the process default.
func setThreadPriority(priority int) error {
	nice := min(DefaultPriority-priority, 19)
	if nice <= 0 {
		return nil
	}

	if err := unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), nice); err != nil {
		return fmt.Errorf("setpriority: %w", err)
	}

	return nil
}

// currentCPU returns the CPU the calling thread is running on.
func currentCPU() (int, error) {
	var cpu uint32

	_, _, errno := unix.RawSyscall(
		unix.SYS_GETCPU,
		uintptr(unsafe.Pointer(&cpu)),
		0,
		0,
	)
	if errno != 0 {
		return -1, fmt.Errorf("getcpu: %w", errno)
	}

	return int(cpu), nil
}
