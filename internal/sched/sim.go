// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sched

import (
	"context"
	"log/slog"
	"sync"

	"github.com/eapache/queue"
	"golang.org/x/sync/errgroup"
)

// SimOption configures a [Sim].
type SimOption func(*Sim)

// WithCores sets the number of simulated cores. Default is 2.
func WithCores(n int) SimOption {
	return func(s *Sim) {
		s.numCores = n
	}
}

// WithRouting sets a function that decides on which core a unit pinned to
// the given core is actually placed. It can be used to simulate a scheduler
// that does not honor the requested affinity. Results that are not a valid
// core are ignored.
func WithRouting(route func(CoreID) CoreID) SimOption {
	return func(s *Sim) {
		s.route = route
	}
}

// WithStalledCore marks a core as stalled. Units placed on it are accepted
// but never run.
func WithStalledCore(core CoreID) SimOption {
	return func(s *Sim) {
		s.stalled[core] = true
	}
}

// WithUnitLimit limits the number of units that may exist at the same time.
func WithUnitLimit(n int) SimOption {
	return func(s *Sim) {
		s.unitLimit = n
	}
}

// WithCoreQueryError makes [Env.CurrentCore] fail with the given error.
func WithCoreQueryError(err error) SimOption {
	return func(s *Sim) {
		s.queryErr = err
	}
}

// WithSimLogger sets the logger. Default is [slog.Default].
func WithSimLogger(logger *slog.Logger) SimOption {
	return func(s *Sim) {
		s.log = logger
	}
}

// Sim is a [Scheduler] that simulates a fixed number of cores in-process.
//
// Each core has its own run queue and dispatcher. Units placed on a core are
// started by its dispatcher in the order they were created. Each unit runs in
// its own goroutine, so parked units do not block their core.
//
// Sim must be closed with [Sim.Close] once it is not needed anymore.
type Sim struct {
	numCores  int
	route     func(CoreID) CoreID
	stalled   map[CoreID]bool
	unitLimit int
	queryErr  error
	log       *slog.Logger

	cores    []*simCore
	registry *registry
	units    sync.WaitGroup

	cancel context.CancelFunc
	group  errgroup.Group

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

var _ Scheduler = (*Sim)(nil)

// NewSim creates a new [Sim] and starts the dispatchers of all cores that
// are not stalled.
func NewSim(opts ...SimOption) *Sim {
	sim := &Sim{
		numCores: 2,
		stalled:  make(map[CoreID]bool),
		log:      slog.Default(),
	}

	for _, opt := range opts {
		opt(sim)
	}

	sim.registry = newRegistry(sim.unitLimit)

	ctx, cancel := context.WithCancel(context.Background())
	sim.cancel = cancel

	sim.cores = make([]*simCore, sim.numCores)
	for idx := range sim.cores {
		core := &simCore{
			id:    CoreID(idx),
			queue: queue.New(),
			wake:  make(chan struct{}, 1),
		}
		sim.cores[idx] = core

		if sim.stalled[core.id] {
			sim.log.Debug("Simulated core stalled", slog.Any("core", core.id))
			continue
		}

		sim.group.Go(func() error {
			core.dispatch(ctx, sim.start)
			return nil
		})
	}

	return sim
}

// NumCores implements [Scheduler].
func (s *Sim) NumCores() int {
	return s.numCores
}

// Live returns the number of units that have not been destroyed yet.
func (s *Sim) Live() int {
	return s.registry.len()
}

// CreatePinned implements [Scheduler].
func (s *Sim) CreatePinned(spec UnitSpec) (Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, &CreateError{Name: spec.Name, Core: spec.Core, Err: ErrClosed}
	}

	if err := spec.validate(s.numCores); err != nil {
		return nil, &CreateError{Name: spec.Name, Core: spec.Core, Err: err}
	}

	u, err := s.registry.add(spec.Name, spec.Core)
	if err != nil {
		return nil, &CreateError{Name: spec.Name, Core: spec.Core, Err: err}
	}

	target := spec.Core
	if s.route != nil {
		if routed := s.route(spec.Core); routed.Valid(s.numCores) {
			target = routed
		}
	}

	s.log.Debug("Unit placed",
		slog.String("unit", spec.Name),
		slog.Any("pinned", spec.Core),
		slog.Any("core", target),
	)

	s.cores[target].push(&simTask{unit: u, entry: spec.Entry})

	return u, nil
}

// start runs the task on the given core unless its unit has been destroyed
// while it was queued.
func (s *Sim) start(core CoreID, task *simTask) {
	if !task.unit.begin() {
		return
	}

	env := &env{
		unit: task.unit,
		currentCore: func() (CoreID, error) {
			if s.queryErr != nil {
				return CoreUnset, s.queryErr
			}

			return core, nil
		},
	}

	s.units.Add(1)

	go func() {
		defer s.units.Done()
		task.unit.run(env, task.entry)
	}()
}

// Close stops all dispatchers and destroys all units that are still alive.
func (s *Sim) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.cancel()
		_ = s.group.Wait()

		s.registry.destroyAll()
		s.units.Wait()
	})
}

type simTask struct {
	unit  *unit
	entry Entry
}

type simCore struct {
	id    CoreID
	mu    sync.Mutex
	queue *queue.Queue
	wake  chan struct{}
}

func (c *simCore) push(task *simTask) {
	c.mu.Lock()
	c.queue.Add(task)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *simCore) pop() *simTask {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.queue.Length() == 0 {
		return nil
	}

	task, _ := c.queue.Remove().(*simTask)

	return task
}

func (c *simCore) dispatch(ctx context.Context, start func(CoreID, *simTask)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.wake:
		}

		for task := c.pop(); task != nil; task = c.pop() {
			start(c.id, task)
		}
	}
}
