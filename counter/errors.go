// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import "errors"

var (
	ErrMalformedState       = errors.New("malformed counter state")
	ErrMalformedInstruction = errors.New("malformed instruction")
	ErrUnknownDiscriminant  = errors.New("unknown instruction discriminant")
)
