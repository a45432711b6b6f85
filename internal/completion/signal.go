// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package completion

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type state uint32

const (
	stateUnset state = iota
	stateSet
	stateConsumed
	stateDestroyed
)

// Signal is a binary one-shot signal. It starts unset, can be set exactly
// once and observed by a successful [Signal.Wait] at most once.
//
// A nil *Signal is never set.
type Signal struct {
	state   atomic.Uint32
	ch      chan struct{}
	release func()
	once    sync.Once
}

func newSignal(release func()) *Signal {
	return &Signal{
		ch:      make(chan struct{}, 1),
		release: release,
	}
}

// Set sets the signal. It returns false if the signal has been set before or
// has been destroyed.
func (s *Signal) Set() bool {
	if s == nil {
		return false
	}

	if !s.state.CompareAndSwap(uint32(stateUnset), uint32(stateSet)) {
		return false
	}

	// Buffered with capacity 1 and only sent to once, so it never blocks.
	s.ch <- struct{}{}

	return true
}

// IsSet returns true if the signal has been set and not consumed yet.
func (s *Signal) IsSet() bool {
	return s != nil && state(s.state.Load()) == stateSet
}

// Wait blocks until the signal is set, the timeout elapsed or the context is
// done, whatever happens first. It returns true if it observed the signal
// being set. In this case the signal is consumed and further calls return
// false immediately.
//
// If the signal is set at the time the timeout elapses, the signal wins.
func (s *Signal) Wait(ctx context.Context, timeout time.Duration) bool {
	if s == nil {
		return false
	}

	switch state(s.state.Load()) {
	case stateConsumed, stateDestroyed:
		return false
	case stateUnset, stateSet:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.ch:
		return s.consume()
	case <-timer.C:
	case <-ctx.Done():
	}

	select {
	case <-s.ch:
		return s.consume()
	default:
		return false
	}
}

func (s *Signal) consume() bool {
	return s.state.CompareAndSwap(uint32(stateSet), uint32(stateConsumed))
}

// Destroy destroys the signal. Further calls of [Signal.Set] and
// [Signal.Wait] return false. It is safe to call more than once.
func (s *Signal) Destroy() {
	if s == nil {
		return
	}

	s.once.Do(func() {
		s.state.Store(uint32(stateDestroyed))

		if s.release != nil {
			s.release()
		}
	})
}
