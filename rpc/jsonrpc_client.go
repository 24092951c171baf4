// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/counterprogram/counter"
	"github.com/ava-labs/counterprogram/crypto/ed25519"
	"github.com/ava-labs/counterprogram/host"
)

type JSONRPCClient struct {
	requester rpc.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	return &JSONRPCClient{requester: rpc.NewEndpointRequester(uri)}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		Name+".ping",
		struct{}{},
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) CreateAccount(
	ctx context.Context,
	key ed25519.PublicKey,
	owner ids.ID,
	space uint64,
) (*CreateAccountReply, error) {
	resp := new(CreateAccountReply)
	err := cli.requester.SendRequest(
		ctx,
		Name+".createAccount",
		&CreateAccountArgs{Key: key, Owner: owner, Space: space},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) Execute(ctx context.Context, call *host.Call) (*host.Result, error) {
	resp := new(host.Result)
	err := cli.requester.SendRequest(
		ctx,
		Name+".execute",
		&ExecuteArgs{Call: *call},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) Account(ctx context.Context, key ed25519.PublicKey) (*AccountReply, error) {
	resp := new(AccountReply)
	err := cli.requester.SendRequest(
		ctx,
		Name+".account",
		&AccountArgs{Key: key},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) apply(
	ctx context.Context,
	key ed25519.PublicKey,
	ix counter.Instruction,
) (*host.Result, error) {
	call, err := host.NewCounterCall(key, ix)
	if err != nil {
		return nil, err
	}
	res, err := cli.Execute(ctx, call)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return res, fmt.Errorf("%w: %s", ErrCallFailed, res.Error)
	}
	return res, nil
}

func (cli *JSONRPCClient) Increment(ctx context.Context, key ed25519.PublicKey, amount uint32) (*host.Result, error) {
	return cli.apply(ctx, key, counter.NewIncrement(amount))
}

func (cli *JSONRPCClient) Decrement(ctx context.Context, key ed25519.PublicKey, amount uint32) (*host.Result, error) {
	return cli.apply(ctx, key, counter.NewDecrement(amount))
}

// Count returns the counter stored in [key].
func (cli *JSONRPCClient) Count(ctx context.Context, key ed25519.PublicKey) (uint32, error) {
	resp, err := cli.Account(ctx, key)
	if err != nil {
		return 0, err
	}
	if !resp.HasCount {
		return 0, fmt.Errorf("%w: account %s holds %d bytes", counter.ErrMalformedState, key, len(resp.Data))
	}
	return resp.Count, nil
}
