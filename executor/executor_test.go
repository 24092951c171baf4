// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"sync"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/ava-labs/counterprogram/state"
)

// Run several times to catch non-determinism
const numIterations = 10

func uniqueKeys(n int, perm state.Permissions) state.Keys {
	s := make(state.Keys, n+1)
	for k := 0; k < n; k++ {
		s.Add(ids.GenerateTestID().String(), perm)
	}
	return s
}

func TestExecutorNoConflicts(t *testing.T) {
	var (
		require   = require.New(t)
		l         sync.Mutex
		completed = make([]int, 0, 100)
		e         = New(100, 4)
	)
	for i := 0; i < 100; i++ {
		ti := i
		e.Run(uniqueKeys(i+1, state.Write), func() error {
			l.Lock()
			completed = append(completed, ti)
			l.Unlock()
			return nil
		})
	}
	require.NoError(e.Wait())
	require.Len(completed, 100)
}

func TestExecutorNoConflictsSlow(t *testing.T) {
	for j := 0; j < numIterations; j++ {
		var (
			require   = require.New(t)
			l         sync.Mutex
			completed = make([]int, 0, 100)
			e         = New(100, 4)
			slow      = make(chan struct{})
		)
		for i := 0; i < 100; i++ {
			ti := i
			e.Run(uniqueKeys(i+1, state.Write), func() error {
				if ti == 0 {
					<-slow
				}
				l.Lock()
				completed = append(completed, ti)
				if len(completed) == 99 {
					close(slow)
				}
				l.Unlock()
				return nil
			})
		}
		require.NoError(e.Wait())
		require.Len(completed, 100)
		require.Equal(0, completed[99])
	}
}

// W->W->W->...
func TestExecutorManyWrites(t *testing.T) {
	for j := 0; j < numIterations; j++ {
		var (
			require     = require.New(t)
			conflictKey = ids.GenerateTestID().String()
			l           sync.Mutex
			completed   = make([]int, 0, 100)
			answer      = make([]int, 0, 100)
			e           = New(100, 4)
			slow        = make(chan struct{})
		)
		for i := 0; i < 100; i++ {
			answer = append(answer, i)
			s := uniqueKeys(i+1, state.Write)
			s.Add(conflictKey, state.Write)
			ti := i
			e.Run(s, func() error {
				if ti == 0 {
					<-slow
				}
				l.Lock()
				completed = append(completed, ti)
				l.Unlock()
				return nil
			})
		}
		close(slow)
		require.NoError(e.Wait())
		require.Equal(answer, completed)
	}
}

// R->R->R->...
func TestExecutorManyReadsRunTogether(t *testing.T) {
	var (
		require     = require.New(t)
		conflictKey = ids.GenerateTestID().String()
		e           = New(4, 4)
		running     = atomic.NewInt32(0)
		allRunning  = make(chan struct{})
	)
	for i := 0; i < 4; i++ {
		s := uniqueKeys(1, state.Write)
		s.Add(conflictKey, state.Read)
		e.Run(s, func() error {
			if running.Inc() == 4 {
				close(allRunning)
			}
			// Every reader must be in flight before any of them returns.
			<-allRunning
			return nil
		})
	}
	require.NoError(e.Wait())
}

// W->R->R->...
func TestExecutorWriteThenRead(t *testing.T) {
	for j := 0; j < numIterations; j++ {
		var (
			require     = require.New(t)
			conflictKey = ids.GenerateTestID().String()
			l           sync.Mutex
			completed   = make([]int, 0, 100)
			e           = New(100, 4)
			slow        = make(chan struct{})
		)
		for i := 0; i < 100; i++ {
			s := uniqueKeys(i+1, state.Write)
			if i == 0 {
				s.Add(conflictKey, state.Write)
			} else {
				s.Add(conflictKey, state.Read)
			}
			ti := i
			e.Run(s, func() error {
				if ti == 0 {
					<-slow
				}
				l.Lock()
				completed = append(completed, ti)
				l.Unlock()
				return nil
			})
		}
		close(slow)
		require.NoError(e.Wait())
		require.Equal(0, completed[0])
		require.Len(completed, 100)
	}
}

// R->R->W->R...
func TestExecutorReadThenWrite(t *testing.T) {
	for j := 0; j < numIterations; j++ {
		var (
			require     = require.New(t)
			conflictKey = ids.GenerateTestID().String()
			l           sync.Mutex
			completed   = make([]int, 0, 100)
			e           = New(100, 4)
			slow        = make(chan struct{})
		)
		for i := 0; i < 100; i++ {
			s := uniqueKeys(i+1, state.Write)
			if i == 10 {
				s.Add(conflictKey, state.Write)
			} else {
				s.Add(conflictKey, state.Read)
			}
			ti := i
			e.Run(s, func() error {
				if ti == 9 {
					<-slow
				}
				l.Lock()
				completed = append(completed, ti)
				l.Unlock()
				return nil
			})
		}
		close(slow)
		require.NoError(e.Wait())
		require.Equal(10, completed[10])
		require.Len(completed, 100)
	}
}

func TestExecutorSharedDependency(t *testing.T) {
	var (
		require   = require.New(t)
		keyA      = ids.GenerateTestID().String()
		keyB      = ids.GenerateTestID().String()
		l         sync.Mutex
		completed = make([]int, 0, 2)
		e         = New(2, 2)
		slow      = make(chan struct{})
	)
	// Both tasks touch both keys so the second depends on the first twice.
	for i := 0; i < 2; i++ {
		ti := i
		e.Run(state.Keys{keyA: state.Write, keyB: state.Write}, func() error {
			if ti == 0 {
				<-slow
			}
			l.Lock()
			completed = append(completed, ti)
			l.Unlock()
			return nil
		})
	}
	close(slow)
	require.NoError(e.Wait())
	require.Equal([]int{0, 1}, completed)
}

func TestExecutorEarlyExit(t *testing.T) {
	var (
		require     = require.New(t)
		conflictKey = ids.GenerateTestID().String()
		l           sync.Mutex
		completed   = make([]int, 0, 500)
		e           = New(500, 4)
		terr        = errors.New("uh oh")
	)
	for i := 0; i < 500; i++ {
		ti := i
		s := uniqueKeys(1, state.Write)
		s.Add(conflictKey, state.Write)
		e.Run(s, func() error {
			l.Lock()
			completed = append(completed, ti)
			l.Unlock()
			if ti == 200 {
				return terr
			}
			return nil
		})
	}
	require.ErrorIs(e.Wait(), terr)
	require.Len(completed, 201)
}

func TestExecutorStop(t *testing.T) {
	var (
		require     = require.New(t)
		conflictKey = ids.GenerateTestID().String()
		ran         = atomic.NewInt32(0)
		e           = New(10, 1)
	)
	for i := 0; i < 10; i++ {
		ti := i
		e.Run(state.Keys{conflictKey: state.Write}, func() error {
			ran.Inc()
			if ti == 2 {
				e.Stop()
			}
			return nil
		})
	}
	require.ErrorIs(e.Wait(), ErrStopped)
	require.Equal(int32(3), ran.Load())
}

func TestExecutorTooManyTasks(t *testing.T) {
	require := require.New(t)
	e := New(1, 1)
	e.Run(state.Keys{}, func() error { return nil })
	e.Run(state.Keys{}, func() error { return nil })
	require.ErrorIs(e.Wait(), ErrTooManyTasks)
}
