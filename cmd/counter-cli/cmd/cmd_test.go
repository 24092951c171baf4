// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, home string, args ...string) ([]*Response, error) {
	t.Helper()

	var out bytes.Buffer
	argv := append([]string{"counter-cli"}, args...)
	argv = append(argv, "--home", home, "--log-level", "error")
	err := execute(context.Background(), argv, &out)

	var resps []*Response
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		resp := &Response{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), resp))
		resps = append(resps, resp)
	}
	require.NoError(t, scanner.Err())
	return resps, err
}

func TestCounterCommands(t *testing.T) {
	require := require.New(t)
	home := t.TempDir()

	resps, err := runCLI(t, home, "key-create", "--name", "alice")
	require.NoError(err)
	require.Len(resps, 1)
	addr := resps[0].Result.Key
	require.NotEmpty(addr)

	_, err = runCLI(t, home, "account-create", "--key", "alice")
	require.NoError(err)

	resps, err = runCLI(t, home, "increment", "--key", "alice", "--amount", "10")
	require.NoError(err)
	require.Len(resps, 1)
	require.NotEmpty(resps[0].Result.CallID)
	require.NotNil(resps[0].Result.Count)
	require.Equal(uint32(10), *resps[0].Result.Count)

	resps, err = runCLI(t, home, "decrement", "--key", addr, "--amount", "25")
	require.NoError(err)
	require.Equal(uint32(0), *resps[0].Result.Count)

	_, err = runCLI(t, home, "increment", "--key", "alice", "--amount", "4294967295")
	require.NoError(err)
	resps, err = runCLI(t, home, "increment", "--key", "alice", "--amount", "1")
	require.NoError(err)
	require.Equal(^uint32(0), *resps[0].Result.Count)

	resps, err = runCLI(t, home, "count", "--key", "alice")
	require.NoError(err)
	require.Equal(addr, resps[0].Result.Key)
	require.Equal(^uint32(0), *resps[0].Result.Count)
}

func TestCommandErrors(t *testing.T) {
	require := require.New(t)
	home := t.TempDir()

	_, err := runCLI(t, home, "key-create", "--name", "alice")
	require.NoError(err)

	resps, err := runCLI(t, home, "key-create", "--name", "alice")
	require.ErrorIs(err, ErrDuplicateKeyName)
	require.Len(resps, 1)
	require.NotEmpty(resps[0].Error)

	_, err = runCLI(t, home, "count", "--key", "bob")
	require.ErrorIs(err, ErrNamedKeyNotFound)

	_, err = runCLI(t, home, "increment", "--key", "alice", "--amount", "4294967296")
	require.ErrorIs(err, ErrInvalidAmount)

	// A buffer too short for the counter state is rejected by the program.
	_, err = runCLI(t, home, "account-create", "--key", "alice", "--space", "2")
	require.NoError(err)
	_, err = runCLI(t, home, "increment", "--key", "alice", "--amount", "1")
	require.ErrorIs(err, errCallFailed)
}

func TestNoCommand(t *testing.T) {
	var out bytes.Buffer
	require.Error(t, execute(context.Background(), []string{"counter-cli"}, &out))
}
