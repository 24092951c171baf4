// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/counterprogram/codec"
	"github.com/ava-labs/counterprogram/consts"
	"github.com/ava-labs/counterprogram/crypto/ed25519"
	"github.com/ava-labs/counterprogram/state"
)

// State
// 0x0/ (accounts)
//   -> [pubkey] => {owner, data}
// 0x1/ (named keys, cli only)
//   -> [name] => private key

const (
	accountPrefix byte = 0x0
	keyPrefix     byte = 0x1
)

// Account is the persisted form of an account: the program that may write
// it and its data buffer.
type Account struct {
	Owner ids.ID
	Data  []byte
}

// [accountPrefix] + [pubkey]
func AccountKey(pk ed25519.PublicKey) []byte {
	k := make([]byte, consts.ByteLen+ed25519.PublicKeyLen)
	k[0] = accountPrefix
	copy(k[1:], pk[:])
	return k
}

// [keyPrefix] + [name]
func NamedKeyKey(name string) []byte {
	k := make([]byte, consts.ByteLen+len(name))
	k[0] = keyPrefix
	copy(k[1:], name)
	return k
}

func GetAccount(
	ctx context.Context,
	im state.Immutable,
	pk ed25519.PublicKey,
) (*Account, error) {
	v, err := im.GetValue(ctx, AccountKey(pk))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, pk)
	}
	if err != nil {
		return nil, err
	}
	acct, err := codec.Deserialize[Account](v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptAccount, err)
	}
	return acct, nil
}

func SetAccount(
	ctx context.Context,
	mu state.Mutable,
	pk ed25519.PublicKey,
	acct *Account,
) error {
	v, err := codec.Serialize(*acct)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, AccountKey(pk), v)
}

// CreateAccount stores a zero-filled buffer of [space] bytes owned by
// [owner] under [pk].
func CreateAccount(
	ctx context.Context,
	mu state.Mutable,
	pk ed25519.PublicKey,
	owner ids.ID,
	space uint64,
	maxSpace uint64,
) (*Account, error) {
	if space > maxSpace {
		return nil, fmt.Errorf("%w: %d > %d", ErrAccountTooLarge, space, maxSpace)
	}
	_, err := mu.GetValue(ctx, AccountKey(pk))
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", ErrAccountExists, pk)
	case !errors.Is(err, database.ErrNotFound):
		return nil, err
	}
	acct := &Account{
		Owner: owner,
		Data:  make([]byte, space),
	}
	return acct, SetAccount(ctx, mu, pk, acct)
}

func GetNamedKey(
	ctx context.Context,
	im state.Immutable,
	name string,
) (ed25519.PrivateKey, error) {
	v, err := im.GetValue(ctx, NamedKeyKey(name))
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if len(v) != ed25519.PrivateKeyLen {
		return ed25519.EmptyPrivateKey, fmt.Errorf("%w: key %q", ErrCorruptAccount, name)
	}
	return ed25519.PrivateKey(v), nil
}

func SetNamedKey(
	ctx context.Context,
	mu state.Mutable,
	name string,
	priv ed25519.PrivateKey,
) error {
	return mu.Insert(ctx, NamedKeyKey(name), priv[:])
}
