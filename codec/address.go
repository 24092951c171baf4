// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	fromBits      = 8
	toBits        = 5
	maxBech32Size = 90
)

// Address returns a bech32 address with human readable part [hrp] for
// the raw account bytes [p].
func Address(hrp string, p []byte) (string, error) {
	expanded, err := bech32.ConvertBits(p, fromBits, toBits, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, expanded)
}

// ParseAddress returns the raw account bytes encoded in [saddr] and
// checks that they were encoded with [hrp].
func ParseAddress(hrp, saddr string) ([]byte, error) {
	if len(saddr) > maxBech32Size {
		return nil, fmt.Errorf("%w: address too long", ErrInvalidSize)
	}
	phrp, p, err := bech32.Decode(saddr)
	if err != nil {
		return nil, err
	}
	if phrp != hrp {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrIncorrectHRP, hrp, phrp)
	}
	// The parsed data may be padded with zero bits, so it is not always a
	// multiple of 8 bits long.
	return bech32.ConvertBits(p, toBits, fromBits, false)
}
