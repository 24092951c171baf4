// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/akamensky/argparse"
	"github.com/ava-labs/avalanchego/database"
	"go.uber.org/zap"

	"github.com/ava-labs/counterprogram/crypto/ed25519"
	"github.com/ava-labs/counterprogram/host"
	"github.com/ava-labs/counterprogram/state"
)

var _ Cmd = (*keyCreateCmd)(nil)

type keyCreateCmd struct {
	cmd *argparse.Command

	name *string
}

func (c *keyCreateCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("key-create", "Creates a new named private key and stores it in the database")
	c.name = c.cmd.String("", "name", &argparse.Options{Required: true})
}

func (c *keyCreateCmd) Run(ctx context.Context, env *Env) (*Response, error) {
	resp := newResponse(0)
	pk, err := keyCreateFunc(ctx, env.DB, *c.name)
	if err != nil {
		return resp, err
	}
	env.Log.Debug("key create successful", zap.Stringer("key", pk))
	resp.Result.Key = pk.String()
	resp.Result.Msg = fmt.Sprintf("created named key %s", *c.name)
	return resp, nil
}

func (c *keyCreateCmd) Happened() bool {
	return c.cmd.Happened()
}

func keyCreateFunc(ctx context.Context, db state.Database, name string) (ed25519.PublicKey, error) {
	mu := state.NewSimpleMutable(db)
	_, err := host.GetNamedKey(ctx, mu, name)
	switch {
	case err == nil:
		return ed25519.EmptyPublicKey, fmt.Errorf("%w: %s", ErrDuplicateKeyName, name)
	case !errors.Is(err, database.ErrNotFound):
		return ed25519.EmptyPublicKey, err
	}

	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return ed25519.EmptyPublicKey, err
	}
	if err := host.SetNamedKey(ctx, mu, name, priv); err != nil {
		return ed25519.EmptyPublicKey, err
	}
	if err := mu.Commit(ctx); err != nil {
		return ed25519.EmptyPublicKey, err
	}
	return priv.PublicKey(), nil
}

// resolveKey maps a named key, or failing that an account address, to a
// public key.
func resolveKey(ctx context.Context, db state.Database, nameOrAddr string) (ed25519.PublicKey, error) {
	priv, err := host.GetNamedKey(ctx, state.NewSimpleMutable(db), nameOrAddr)
	if err == nil {
		return priv.PublicKey(), nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return ed25519.EmptyPublicKey, err
	}
	pk, perr := ed25519.ParsePublicKey(nameOrAddr)
	if perr != nil {
		return ed25519.EmptyPublicKey, fmt.Errorf("%w: %s", ErrNamedKeyNotFound, nameOrAddr)
	}
	return pk, nil
}
