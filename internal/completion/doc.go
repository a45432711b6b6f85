// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package completion provides one-shot binary signals for handing over a
// result from one goroutine to another.
//
// The producer writes its result and then calls [Signal.Set]. The consumer
// calls [Signal.Wait] and reads the result only if it returns true. Set and a
// successful Wait form a release/acquire pair, so all writes done before Set
// are visible after Wait.
package completion
