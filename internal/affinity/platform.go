// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package affinity

import "github.com/aibor/affinitycheck/internal/sched"

// IsMultiCore returns true if the scheduler has more than one core. Pinning
// units is only meaningful in this case.
func IsMultiCore(s sched.Scheduler) bool {
	return s.NumCores() > 1
}
