// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package exitcode

import (
	"fmt"
	"io"
)

// Identifier is the identifier string for communicating an exit code via
// stdout.
const Identifier = "AFFINITYCHECK_EXIT_CODE"

const format = Identifier + ": %d"

// Sprint creates the full exit code string with the given exit code.
func Sprint(exitCode int) string {
	return fmt.Sprintf(format, exitCode)
}

// Fprint writes the full exit code line with the given exit code into the
// given writer. The line is preceded by an empty line, so it is not appended
// to incomplete output of others.
func Fprint(w io.Writer, exitCode int) (int, error) {
	return fmt.Fprintln(w, "\n"+Sprint(exitCode)) //nolint:wrapcheck
}
