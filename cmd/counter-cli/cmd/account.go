// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"

	"github.com/akamensky/argparse"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/counterprogram/host"
	"github.com/ava-labs/counterprogram/program"
)

var _ Cmd = (*accountCreateCmd)(nil)

type accountCreateCmd struct {
	cmd *argparse.Command

	key   *string
	space *int
	owner *string
}

func (c *accountCreateCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("account-create", "Creates a zero-filled account")
	c.key = c.cmd.String("k", "key", &argparse.Options{
		Help:     "named key or address of the account",
		Required: true,
	})
	c.space = c.cmd.Int("s", "space", &argparse.Options{
		Help:    "size of the account data in bytes",
		Default: host.CounterAccountSpace,
	})
	c.owner = c.cmd.String("o", "owner", &argparse.Options{
		Help:    "id of the program that owns the account",
		Default: program.CounterID.String(),
	})
}

func (c *accountCreateCmd) Run(ctx context.Context, env *Env) (*Response, error) {
	resp := newResponse(0)
	if *c.space < 0 {
		return resp, fmt.Errorf("%w: %d", ErrInvalidSpace, *c.space)
	}
	owner, err := ids.FromString(*c.owner)
	if err != nil {
		return resp, err
	}
	pk, err := resolveKey(ctx, env.DB, *c.key)
	if err != nil {
		return resp, err
	}
	resp.Result.Key = pk.String()
	acct, err := env.Runtime.CreateAccount(ctx, pk, owner, uint64(*c.space))
	if err != nil {
		return resp, err
	}
	resp.Result.Msg = fmt.Sprintf("created account of %d bytes owned by %s", len(acct.Data), acct.Owner)
	return resp, nil
}

func (c *accountCreateCmd) Happened() bool {
	return c.cmd.Happened()
}
