// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package affinity

import "slices"

// teardown collects release functions and runs them in reverse order of
// registration.
type teardown struct {
	fns []func()
}

func (t *teardown) Cleanup(fn func()) {
	t.fns = append(t.fns, fn)
}

func (t *teardown) do() {
	slices.Reverse(t.fns)

	for _, fn := range t.fns {
		fn()
	}

	t.fns = nil
}
