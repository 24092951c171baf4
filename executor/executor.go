// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/ava-labs/counterprogram/state"
)

// Executor sequences the concurrent execution of
// tasks with arbitrary conflicts on-the-fly.
//
// Tasks that write a key run after every earlier task touching that key.
// Tasks that only read a key run after the latest earlier writer of it and
// may run alongside other readers. Tasks with no conflicts are executed
// immediately, bounded by the configured concurrency.
type Executor struct {
	added int
	tasks []*task
	edges map[string]*edge

	limiter     chan struct{}
	outstanding sync.WaitGroup

	err atomic.Error
}

type edge struct {
	writer    int
	hasWriter bool
	readers   []int
}

// New creates a new [Executor] that accepts up to [items] tasks and runs at
// most [concurrency] of them at once.
func New(items, concurrency int) *Executor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Executor{
		tasks:   make([]*task, items),
		edges:   make(map[string]*edge, items*2),
		limiter: make(chan struct{}, concurrency),
	}
}

type task struct {
	f func() error

	l        sync.Mutex
	waiters  []*sync.WaitGroup
	executed bool
}

// dependencies records [id] against every key in [conflicts] and returns
// the set of earlier tasks it must wait for.
func (e *Executor) dependencies(id int, conflicts state.Keys) map[int]struct{} {
	deps := map[int]struct{}{}
	for k, perm := range conflicts {
		ed, ok := e.edges[k]
		if !ok {
			ed = &edge{}
			e.edges[k] = ed
		}
		if ed.hasWriter {
			deps[ed.writer] = struct{}{}
		}
		if !perm.Has(state.Write) {
			ed.readers = append(ed.readers, id)
			continue
		}
		for _, r := range ed.readers {
			deps[r] = struct{}{}
		}
		ed.writer = id
		ed.hasWriter = true
		ed.readers = nil
	}
	delete(deps, id)
	return deps
}

// Run executes [f] after all previously enqueued [f] with
// overlapping [conflicts] are executed.
//
// Run is not safe to call concurrently.
func (e *Executor) Run(conflicts state.Keys, f func() error) {
	if e.added >= len(e.tasks) {
		e.err.CompareAndSwap(nil, ErrTooManyTasks)
		return
	}

	id := e.added
	e.added++
	t := &task{f: f}
	e.tasks[id] = t
	e.outstanding.Add(1)

	wg := &sync.WaitGroup{}
	for dep := range e.dependencies(id, conflicts) {
		dt := e.tasks[dep]
		dt.l.Lock()
		if !dt.executed {
			wg.Add(1)
			dt.waiters = append(dt.waiters, wg)
		}
		dt.l.Unlock()
	}

	go func() {
		wg.Wait()

		defer func() {
			t.l.Lock()
			for _, w := range t.waiters {
				w.Done()
			}
			t.waiters = nil
			t.executed = true
			t.l.Unlock()
			e.outstanding.Done()
		}()

		if e.err.Load() != nil {
			return
		}

		e.limiter <- struct{}{}
		defer func() { <-e.limiter }()
		if err := t.f(); err != nil {
			e.err.CompareAndSwap(nil, err)
		}
	}()
}

// Stop prevents any task that has not started from running.
func (e *Executor) Stop() {
	e.err.CompareAndSwap(nil, ErrStopped)
}

// Wait returns as soon as all enqueued [f] are executed.
//
// You should not call [Run] after [Wait] is called.
func (e *Executor) Wait() error {
	e.outstanding.Wait()
	return e.err.Load()
}
