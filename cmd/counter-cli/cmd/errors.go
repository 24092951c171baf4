// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import "errors"

var (
	ErrDuplicateKeyName    = errors.New("duplicate key name")
	ErrNamedKeyNotFound    = errors.New("named key not found")
	ErrNoCommand           = errors.New("no command given")
	ErrInvalidAmount       = errors.New("amount must fit in an unsigned 32 bit integer")
	ErrInvalidSpace        = errors.New("space must not be negative")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrInvalidStep         = errors.New("invalid step")
	ErrInvalidEndpoint     = errors.New("invalid endpoint")
	ErrInvalidConfigFormat = errors.New("invalid config format")
	ErrAssertionFailed     = errors.New("assertion failed")
)
