// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import "errors"

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountExists     = errors.New("account already exists")
	ErrAccountTooLarge   = errors.New("account data too large")
	ErrDuplicateAccount  = errors.New("account listed more than once")
	ErrProgramNotFound   = errors.New("program not found")
	ErrDuplicateProgram  = errors.New("program already registered")
	ErrMissingSignature  = errors.New("missing signature")
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrReadonlyModified  = errors.New("readonly account modified")
	ErrExternalModified  = errors.New("account not owned by program modified")
	ErrDataLengthChanged = errors.New("account data length changed")
	ErrCorruptAccount    = errors.New("corrupt account record")
	ErrProgramPanicked   = errors.New("program panicked")
	ErrUnexpectedSig     = errors.New("more signatures than signers")
)
