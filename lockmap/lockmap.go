// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmap

import (
	"slices"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/ava-labs/counterprogram/state"
)

type holderLock struct {
	holders int
	mu      sync.RWMutex
}

// Lockmap hands out reader/writer locks by key. Entries are created on
// first use and dropped once the last holder releases them.
type Lockmap struct {
	l sync.Mutex
	m map[string]*holderLock
}

func New(initSize int) *Lockmap {
	return &Lockmap{
		m: make(map[string]*holderLock, initSize),
	}
}

func (l *Lockmap) Lock(key string) {
	l.acquire(key).mu.Lock()
}

func (l *Lockmap) Unlock(key string) {
	l.release(key).mu.Unlock()
}

func (l *Lockmap) RLock(key string) {
	l.acquire(key).mu.RLock()
}

func (l *Lockmap) RUnlock(key string) {
	l.release(key).mu.RUnlock()
}

// LockKeys takes a write lock on every key with [state.Write] permission and
// a read lock on the rest. Keys are locked in sorted order so concurrent
// callers cannot deadlock. The returned func releases every lock.
func (l *Lockmap) LockKeys(keys state.Keys) func() {
	names := maps.Keys(keys)
	slices.Sort(names)
	for _, k := range names {
		if keys[k].Has(state.Write) {
			l.Lock(k)
		} else {
			l.RLock(k)
		}
	}
	return func() {
		for i := len(names) - 1; i >= 0; i-- {
			k := names[i]
			if keys[k].Has(state.Write) {
				l.Unlock(k)
			} else {
				l.RUnlock(k)
			}
		}
	}
}

func (l *Lockmap) acquire(key string) *holderLock {
	l.l.Lock()
	defer l.l.Unlock()

	hl, ok := l.m[key]
	if !ok {
		hl = &holderLock{}
		l.m[key] = hl
	}
	hl.holders++
	return hl
}

func (l *Lockmap) release(key string) *holderLock {
	l.l.Lock()
	defer l.l.Unlock()

	hl := l.m[key]
	hl.holders--
	if hl.holders == 0 {
		delete(l.m, key)
	}
	return hl
}

// Locks returns the number of keys currently held or waited on.
func (l *Lockmap) Locks() int {
	l.l.Lock()
	defer l.l.Unlock()

	return len(l.m)
}
