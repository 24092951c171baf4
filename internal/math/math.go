// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

import "github.com/ava-labs/counterprogram/consts"

// AddSat32 returns a+b, clamped to the maximum uint32.
func AddSat32(a, b uint32) uint32 {
	if a > consts.MaxUint32-b {
		return consts.MaxUint32
	}
	return a + b
}

// SubSat32 returns a-b, clamped to zero.
func SubSat32(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}
