// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/counterprogram/consts"
	"github.com/ava-labs/counterprogram/counter"
	"github.com/ava-labs/counterprogram/crypto/ed25519"
)

func TestExecuteBatchOrdersSharedAccounts(t *testing.T) {
	require := require.New(t)
	cfg := NewDefaultConfig()
	cfg.ExecutionCores = 4
	r := newTestRuntime(t, cfg)

	// Saturation makes the final count depend on the order calls ran in:
	// +max, -1, +1 ends at max only when applied in sequence.
	pks := []ed25519.PublicKey{newCounterAccount(t, r), newCounterAccount(t, r)}
	calls := []*Call{}
	for round := 0; round < 10; round++ {
		for _, pk := range pks {
			for _, ix := range []counter.Instruction{
				counter.NewIncrement(consts.MaxUint32),
				counter.NewDecrement(1),
				counter.NewIncrement(1),
				counter.NewDecrement(consts.MaxUint32),
				counter.NewIncrement(uint32(round)),
			} {
				call, err := NewCounterCall(pk, ix)
				require.NoError(err)
				calls = append(calls, call)
			}
		}
	}

	results, err := r.ExecuteBatch(context.Background(), calls)
	require.NoError(err)
	require.Len(results, len(calls))
	for _, res := range results {
		require.True(res.Success)
	}
	for _, pk := range pks {
		require.Equal(uint32(9), readCount(t, r, pk))
	}
}

func TestExecuteBatchProgramErrorsAreResults(t *testing.T) {
	require := require.New(t)
	r := newTestRuntime(t, NewDefaultConfig())
	pk := newCounterAccount(t, r)

	good, err := NewCounterCall(pk, counter.NewIncrement(2))
	require.NoError(err)
	bad, err := NewCounterCall(pk, counter.NewIncrement(2))
	require.NoError(err)
	bad.Data = []byte{7, 0, 0, 0, 0}

	results, err := r.ExecuteBatch(context.Background(), []*Call{good, bad, good})
	require.NoError(err)
	require.True(results[0].Success)
	require.ErrorIs(results[1].Err, counter.ErrMalformedInstruction)
	require.True(results[2].Success)
	require.Equal(uint32(4), readCount(t, r, pk))
}

func TestExecuteBatchStopsOnHostError(t *testing.T) {
	require := require.New(t)
	r := newTestRuntime(t, NewDefaultConfig())
	pk := newCounterAccount(t, r)

	first, err := NewCounterCall(pk, counter.NewIncrement(1))
	require.NoError(err)
	unknown, err := NewCounterCall(pk, counter.NewIncrement(1))
	require.NoError(err)
	unknown.ProgramID = ids.GenerateTestID()
	last, err := NewCounterCall(pk, counter.NewIncrement(1))
	require.NoError(err)

	results, err := r.ExecuteBatch(context.Background(), []*Call{first, unknown, last})
	require.ErrorIs(err, ErrProgramNotFound)
	require.True(results[0].Success)
	require.Nil(results[1])
	require.Nil(results[2])
	require.Equal(uint32(1), readCount(t, r, pk))
}
