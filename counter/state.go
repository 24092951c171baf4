// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"fmt"

	"github.com/ava-labs/counterprogram/codec"
	"github.com/ava-labs/counterprogram/consts"
)

// State is the persisted layout of a counter account. The serialized form
// is the whole account buffer.
type State struct {
	Count uint32
}

// DecodeState parses an account buffer. The buffer must be exactly
// [consts.StateLen] bytes.
func DecodeState(b []byte) (State, error) {
	s, err := codec.DeserializeExact[State](b, consts.StateLen)
	if err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrMalformedState, err)
	}
	return *s, nil
}

// EncodeState returns the canonical encoding of [s].
func EncodeState(s State) []byte {
	b, err := codec.Serialize(s)
	if err != nil {
		// State only holds fixed width integers, which borsh always encodes.
		panic(err)
	}
	return b
}
