// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sched

import (
	"sync"

	"golang.org/x/sync/semaphore"
)

// unit is the [Unit] implementation shared by the schedulers.
//
// A unit is either still waiting to be started, running, or destroyed. Once
// destroyed, it is never started. If it is running, [unit.Destroy] waits for
// its entry to return.
type unit struct {
	name string
	core CoreID

	stop chan struct{}
	done chan struct{}

	mu        sync.Mutex
	running   bool
	destroyed bool

	release func()
}

func newUnit(name string, core CoreID, release func()) *unit {
	return &unit{
		name:    name,
		core:    core,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		release: release,
	}
}

func (u *unit) Name() string {
	return u.name
}

func (u *unit) Core() CoreID {
	return u.core
}

// begin marks the unit as running. It returns false if the unit has been
// destroyed already and must not be run anymore.
func (u *unit) begin() bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.destroyed {
		return false
	}

	u.running = true

	return true
}

// run calls the entry and marks the unit done once it returns.
func (u *unit) run(env Env, entry Entry) {
	defer close(u.done)

	entry(env)
}

// finish marks a unit done that has been started but did not run its entry.
func (u *unit) finish() {
	close(u.done)
}

// park blocks until the unit is destroyed.
func (u *unit) park() {
	<-u.stop
}

func (u *unit) Destroy() {
	u.mu.Lock()

	first := !u.destroyed
	if first {
		u.destroyed = true
		close(u.stop)
	}

	running := u.running

	u.mu.Unlock()

	if running {
		<-u.done
	}

	if first && u.release != nil {
		u.release()
	}
}

// registry keeps track of all units that have not been destroyed yet and
// limits their number if requested.
type registry struct {
	mu    sync.Mutex
	units map[*unit]struct{}
	limit *semaphore.Weighted
}

func newRegistry(limit int) *registry {
	reg := &registry{
		units: make(map[*unit]struct{}),
	}

	if limit > 0 {
		reg.limit = semaphore.NewWeighted(int64(limit))
	}

	return reg
}

func (r *registry) add(name string, core CoreID) (*unit, error) {
	if r.limit != nil && !r.limit.TryAcquire(1) {
		return nil, ErrResourceLimit
	}

	var u *unit

	u = newUnit(name, core, func() { r.remove(u) })

	r.mu.Lock()
	r.units[u] = struct{}{}
	r.mu.Unlock()

	return u, nil
}

func (r *registry) remove(u *unit) {
	r.mu.Lock()
	delete(r.units, u)
	r.mu.Unlock()

	if r.limit != nil {
		r.limit.Release(1)
	}
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.units)
}

// destroyAll destroys all units that are still alive.
func (r *registry) destroyAll() {
	r.mu.Lock()

	units := make([]*unit, 0, len(r.units))
	for u := range r.units {
		units = append(units, u)
	}

	r.mu.Unlock()

	for _, u := range units {
		u.Destroy()
	}
}

// env is the [Env] implementation shared by the schedulers.
type env struct {
	unit        *unit
	currentCore func() (CoreID, error)
}

func (e *env) Name() string {
	return e.unit.name
}

func (e *env) CurrentCore() (CoreID, error) {
	return e.currentCore()
}

func (e *env) Park() {
	e.unit.park()
}
