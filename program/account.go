// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/counterprogram/crypto/ed25519"
)

// AccountInfo is the view of an account the host hands to a program for
// the duration of one call. Data is owned by the host; programs write
// to it in place.
type AccountInfo struct {
	Key        ed25519.PublicKey
	Owner      ids.ID
	IsSigner   bool
	IsWritable bool
	Data       []byte
}

// AccountIterator walks the accounts of a call in the order they were
// supplied.
type AccountIterator struct {
	accounts []*AccountInfo
	next     int
}

func NewAccountIterator(accounts []*AccountInfo) *AccountIterator {
	return &AccountIterator{accounts: accounts}
}

// Next returns the next account or [ErrMissingAccount] if there are none
// left.
func (a *AccountIterator) Next() (*AccountInfo, error) {
	if a.next >= len(a.accounts) {
		return nil, ErrMissingAccount
	}
	acc := a.accounts[a.next]
	a.next++
	return acc, nil
}

// Remaining returns the number of accounts not yet returned by [Next].
func (a *AccountIterator) Remaining() int {
	return len(a.accounts) - a.next
}
