// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/counterprogram/counter"
	"github.com/ava-labs/counterprogram/crypto/ed25519"
	"github.com/ava-labs/counterprogram/host"
	"github.com/ava-labs/counterprogram/program"
	"github.com/ava-labs/counterprogram/server"
	"github.com/ava-labs/counterprogram/trace"
)

func newTestClient(t *testing.T) *JSONRPCClient {
	require := require.New(t)
	log := logging.NoLog{}

	tcfg := trace.NewDefaultConfig()
	tracer, err := trace.New(&tcfg)
	require.NoError(err)
	runtime, _, err := host.New(host.NewDefaultConfig(), log, memdb.New(), tracer)
	require.NoError(err)
	require.NoError(runtime.RegisterProgram(program.CounterID, program.Handle))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	s := server.New("", log, listener, server.NewDefaultHTTPConfig())
	require.NoError(Register(s, NewJSONRPCServer(log, runtime)))

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = s.Shutdown()
	})
	return NewJSONRPCClient(ts.URL + "/")
}

func newPublicKey(t *testing.T) ed25519.PublicKey {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return priv.PublicKey()
}

func TestJSONRPCPing(t *testing.T) {
	require := require.New(t)
	cli := newTestClient(t)

	ok, err := cli.Ping(context.Background())
	require.NoError(err)
	require.True(ok)
}

func TestJSONRPCCounter(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli := newTestClient(t)
	key := newPublicKey(t)

	created, err := cli.CreateAccount(ctx, key, ids.Empty, 0)
	require.NoError(err)
	require.Equal(program.CounterID, created.Owner)
	require.Equal(uint64(host.CounterAccountSpace), created.Space)

	count, err := cli.Count(ctx, key)
	require.NoError(err)
	require.Zero(count)

	res, err := cli.Increment(ctx, key, 5)
	require.NoError(err)
	require.True(res.Success)
	require.Equal([]ed25519.PublicKey{key}, res.Modified)

	_, err = cli.Decrement(ctx, key, 2)
	require.NoError(err)

	count, err = cli.Count(ctx, key)
	require.NoError(err)
	require.Equal(uint32(3), count)

	acct, err := cli.Account(ctx, key)
	require.NoError(err)
	require.Equal([]byte{3, 0, 0, 0}, acct.Data)
	require.True(acct.HasCount)
}

func TestJSONRPCProgramFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli := newTestClient(t)
	key := newPublicKey(t)

	_, err := cli.CreateAccount(ctx, key, ids.Empty, 0)
	require.NoError(err)

	call, err := host.NewCounterCall(key, counter.NewIncrement(1))
	require.NoError(err)
	call.Data = call.Data[:3]
	res, err := cli.Execute(ctx, call)
	require.NoError(err)
	require.False(res.Success)
	require.Contains(res.Error, counter.ErrMalformedInstruction.Error())

	count, err := cli.Count(ctx, key)
	require.NoError(err)
	require.Zero(count)
}

func TestJSONRPCHostErrors(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cli := newTestClient(t)
	key := newPublicKey(t)

	_, err := cli.Increment(ctx, key, 1)
	require.ErrorContains(err, host.ErrAccountNotFound.Error())

	_, err = cli.CreateAccount(ctx, key, ids.Empty, 8)
	require.NoError(err)
	_, err = cli.CreateAccount(ctx, key, ids.Empty, 8)
	require.ErrorContains(err, host.ErrAccountExists.Error())

	_, err = cli.Count(ctx, key)
	require.ErrorIs(err, counter.ErrMalformedState)
}
