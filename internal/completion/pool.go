// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package completion

import (
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrExhausted is returned if the pool can not hand out more signals.
var ErrExhausted = errors.New("no signal available")

// Pool allocates [Signal]s. A Pool may be limited in the number of signals
// that exist at the same time. Destroyed signals do not count.
//
// The zero value is an unlimited pool.
type Pool struct {
	limit *semaphore.Weighted
	live  atomic.Int64
}

// NewPool creates a new [Pool] limited to the given number of signals. If
// limit is 0 or less, the pool is unlimited.
func NewPool(limit int) *Pool {
	pool := new(Pool)

	if limit > 0 {
		pool.limit = semaphore.NewWeighted(int64(limit))
	}

	return pool
}

// New allocates a new unset [Signal]. It returns [ErrExhausted] if the limit
// of the pool is reached.
func (p *Pool) New() (*Signal, error) {
	if p.limit != nil && !p.limit.TryAcquire(1) {
		return nil, ErrExhausted
	}

	p.live.Add(1)

	return newSignal(p.put), nil
}

// Live returns the number of signals that have not been destroyed yet.
func (p *Pool) Live() int {
	return int(p.live.Load())
}

func (p *Pool) put() {
	p.live.Add(-1)

	if p.limit != nil {
		p.limit.Release(1)
	}
}
