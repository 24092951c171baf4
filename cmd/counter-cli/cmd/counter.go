// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"

	"github.com/ava-labs/counterprogram/counter"
	"github.com/ava-labs/counterprogram/crypto/ed25519"
	"github.com/ava-labs/counterprogram/host"
	"github.com/ava-labs/counterprogram/utils"
)

var (
	_ Cmd = (*counterCmd)(nil)
	_ Cmd = (*countCmd)(nil)

	errCallFailed = errors.New("call failed")
)

// counterCmd sends a single increment or decrement.
type counterCmd struct {
	cmd *argparse.Command

	name string
	help string

	key    *string
	amount *int
}

func (c *counterCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand(c.name, c.help)
	c.key = c.cmd.String("k", "key", &argparse.Options{
		Help:     "named key or address of the counter account",
		Required: true,
	})
	c.amount = c.cmd.Int("a", "amount", &argparse.Options{
		Help:     "amount to apply",
		Required: true,
	})
}

func (c *counterCmd) Run(ctx context.Context, env *Env) (*Response, error) {
	resp := newResponse(0)
	amount, err := toAmount64(int64(*c.amount))
	if err != nil {
		return resp, err
	}
	ix := counter.NewIncrement(amount)
	if c.name == "decrement" {
		ix = counter.NewDecrement(amount)
	}
	pk, err := resolveKey(ctx, env.DB, *c.key)
	if err != nil {
		return resp, err
	}
	return resp, applyFunc(ctx, env, pk, ix, resp)
}

func (c *counterCmd) Happened() bool {
	return c.cmd.Happened()
}

type countCmd struct {
	cmd *argparse.Command

	key *string
}

func (c *countCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("count", "Read the counter stored in an account")
	c.key = c.cmd.String("k", "key", &argparse.Options{
		Help:     "named key or address of the counter account",
		Required: true,
	})
}

func (c *countCmd) Run(ctx context.Context, env *Env) (*Response, error) {
	resp := newResponse(0)
	pk, err := resolveKey(ctx, env.DB, *c.key)
	if err != nil {
		return resp, err
	}
	count, err := countFunc(ctx, env, pk, resp)
	if err != nil {
		return resp, err
	}
	utils.Outf("{{yellow}}%s:{{/}} {{green}}{{bold}}%d{{/}}\n", pk, count)
	return resp, nil
}

func (c *countCmd) Happened() bool {
	return c.cmd.Happened()
}

// applyFunc invokes the counter program on [pk] and records the call and
// resulting count in [resp].
func applyFunc(
	ctx context.Context,
	env *Env,
	pk ed25519.PublicKey,
	ix counter.Instruction,
	resp *Response,
) error {
	resp.Result.Key = pk.String()
	call, err := host.NewCounterCall(pk, ix)
	if err != nil {
		return err
	}
	res, err := env.Runtime.Invoke(ctx, call)
	if err != nil {
		return err
	}
	resp.Result.CallID = res.CallID.String()
	if !res.Success {
		return fmt.Errorf("%w: %s", errCallFailed, res.Error)
	}
	env.Log.Debug("applied instruction",
		zap.Stringer("key", pk),
		zap.Stringer("op", ix.Kind),
		zap.Uint32("amount", ix.Amount),
	)
	_, err = countFunc(ctx, env, pk, resp)
	return err
}

func countFunc(ctx context.Context, env *Env, pk ed25519.PublicKey, resp *Response) (uint32, error) {
	resp.Result.Key = pk.String()
	acct, err := env.Runtime.GetAccount(ctx, pk)
	if err != nil {
		return 0, err
	}
	count, err := acct.Count()
	if err != nil {
		return 0, err
	}
	resp.setCount(count)
	return count, nil
}
