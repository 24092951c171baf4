// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import "github.com/ava-labs/counterprogram/internal/math"

// Apply returns the state that results from executing [ix] against [s].
// Arithmetic saturates at the uint32 bounds instead of failing.
func Apply(s State, ix Instruction) State {
	switch ix.Kind {
	case Increment:
		s.Count = math.AddSat32(s.Count, ix.Amount)
	case Decrement:
		s.Count = math.SubSat32(s.Count, ix.Amount)
	}
	return s
}
