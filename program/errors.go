// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import "errors"

var (
	ErrMissingAccount      = errors.New("missing account")
	ErrAccountDataTooSmall = errors.New("account data too small")
)
