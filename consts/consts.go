// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	ByteLen   = 1
	Uint32Len = 4
	Uint64Len = 8
	IDLen     = 32
	MaxUint32 = ^uint32(0)

	// StateLen is the size of a serialized counter state. Account buffers
	// owned by the counter program must be exactly this long.
	StateLen = Uint32Len

	// InstructionLen is the size of a serialized instruction: a one byte
	// discriminant followed by the operand.
	InstructionLen = ByteLen + Uint32Len

	// HRP is the human readable part of bech32 account addresses.
	HRP = "counter"

	// MaxAccountDataLen bounds the size of a single account buffer
	// allocated by the local host.
	MaxAccountDataLen = 10 * 1024 * 1024
)
