// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"github.com/ava-labs/counterprogram/consts"
	"github.com/ava-labs/counterprogram/counter"
	"github.com/ava-labs/counterprogram/crypto/ed25519"
	"github.com/ava-labs/counterprogram/program"
)

// CounterAccountSpace is the buffer size a counter account is created with.
const CounterAccountSpace = consts.StateLen

// NewCounterCall builds a call that applies [ix] to the counter stored in
// [key].
func NewCounterCall(key ed25519.PublicKey, ix counter.Instruction) (*Call, error) {
	data, err := counter.EncodeInstruction(ix)
	if err != nil {
		return nil, err
	}
	return &Call{
		ProgramID: program.CounterID,
		Accounts: []AccountMeta{
			{Key: key, IsWritable: true},
		},
		Data: data,
	}, nil
}

// Count decodes the counter stored in [acct].
func (a *Account) Count() (uint32, error) {
	s, err := counter.DecodeState(a.Data)
	if err != nil {
		return 0, err
	}
	return s.Count, nil
}
