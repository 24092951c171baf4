// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/ava-labs/avalanchego/database"
)

var _ Mutable = (*SimpleMutable)(nil)

type changeOp struct {
	value  []byte
	delete bool
}

// SimpleMutable buffers writes on top of a [Database]. Nothing reaches the
// database until [SimpleMutable.Commit], which writes every change in a
// single batch.
type SimpleMutable struct {
	db Database

	changes map[string]*changeOp
}

func NewSimpleMutable(db Database) *SimpleMutable {
	return &SimpleMutable{db, make(map[string]*changeOp)}
}

func (s *SimpleMutable) GetValue(_ context.Context, k []byte) ([]byte, error) {
	if v, ok := s.changes[string(k)]; ok {
		if v.delete {
			return nil, database.ErrNotFound
		}
		return slices.Clone(v.value), nil
	}
	return s.db.Get(k)
}

func (s *SimpleMutable) Insert(_ context.Context, k []byte, v []byte) error {
	s.changes[string(k)] = &changeOp{value: slices.Clone(v)}
	return nil
}

func (s *SimpleMutable) Remove(_ context.Context, k []byte) error {
	s.changes[string(k)] = &changeOp{delete: true}
	return nil
}

// Len returns the number of pending changes.
func (s *SimpleMutable) Len() int {
	return len(s.changes)
}

// Discard drops all pending changes.
func (s *SimpleMutable) Discard() {
	s.changes = make(map[string]*changeOp)
}

// Commit writes all pending changes to the database atomically.
func (s *SimpleMutable) Commit(_ context.Context) error {
	if len(s.changes) == 0 {
		return nil
	}
	batch := s.db.NewBatch()
	keys := maps.Keys(s.changes)
	slices.Sort(keys)
	for _, k := range keys {
		op := s.changes[k]
		var err error
		if op.delete {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), op.value)
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	s.Discard()
	return nil
}
