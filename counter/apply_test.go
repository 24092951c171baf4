// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/counterprogram/consts"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		count    uint32
		ix       Instruction
		expected uint32
	}{
		{name: "increment", count: 10, ix: NewIncrement(5), expected: 15},
		{name: "decrement", count: 5, ix: NewDecrement(2), expected: 3},
		{name: "decrement saturates at zero", count: 3, ix: NewDecrement(10), expected: 0},
		{name: "increment saturates at max", count: 4294967290, ix: NewIncrement(100), expected: consts.MaxUint32},
		{name: "increment to exactly max", count: consts.MaxUint32 - 1, ix: NewIncrement(1), expected: consts.MaxUint32},
		{name: "decrement to exactly zero", count: 7, ix: NewDecrement(7), expected: 0},
		{name: "zero increment", count: 42, ix: NewIncrement(0), expected: 42},
		{name: "zero decrement", count: 42, ix: NewDecrement(0), expected: 42},
		{name: "unknown kind is a no-op", count: 42, ix: Instruction{Kind: 9, Amount: 1}, expected: 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Apply(State{Count: tt.count}, tt.ix).Count)
		})
	}
}

func TestApplySaturation(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(1)) //nolint:gosec

	for i := 0; i < 1000; i++ {
		count := r.Uint32()
		if count == 0 {
			continue
		}
		// amount is chosen so that count+amount exceeds the uint32 range
		amount := consts.MaxUint32 - count + 1 + r.Uint32()%count
		require.Equal(consts.MaxUint32, Apply(State{Count: count}, NewIncrement(amount)).Count)

		low := r.Uint32() % count
		require.Zero(Apply(State{Count: low}, NewDecrement(count)).Count)
	}
}

func TestApplyLinearComposition(t *testing.T) {
	require := require.New(t)
	r := rand.New(rand.NewSource(2)) //nolint:gosec

	for i := 0; i < 1000; i++ {
		count := r.Uint32()
		// keep count+amount within range so neither step saturates
		amount := uint32(uint64(r.Uint32()) % (uint64(consts.MaxUint32) - uint64(count) + 1))
		s := State{Count: count}
		next := Apply(Apply(s, NewIncrement(amount)), NewDecrement(amount))
		require.Equal(s, next)
	}
}
