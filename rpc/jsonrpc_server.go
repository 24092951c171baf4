// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/counterprogram/crypto/ed25519"
	"github.com/ava-labs/counterprogram/host"
	"github.com/ava-labs/counterprogram/program"
)

type JSONRPCServer struct {
	log     logging.Logger
	runtime *host.Runtime
}

func NewJSONRPCServer(log logging.Logger, runtime *host.Runtime) *JSONRPCServer {
	return &JSONRPCServer{log: log, runtime: runtime}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.log.Info("ping")
	reply.Success = true
	return nil
}

type CreateAccountArgs struct {
	Key ed25519.PublicKey `json:"key"`
	// Defaults to the counter program.
	Owner ids.ID `json:"owner"`
	// Defaults to the size of a counter.
	Space uint64 `json:"space"`
}

type CreateAccountReply struct {
	Owner ids.ID `json:"owner"`
	Space uint64 `json:"space"`
}

func (j *JSONRPCServer) CreateAccount(
	req *http.Request,
	args *CreateAccountArgs,
	reply *CreateAccountReply,
) error {
	owner := args.Owner
	if owner == ids.Empty {
		owner = program.CounterID
	}
	space := args.Space
	if space == 0 {
		space = host.CounterAccountSpace
	}
	acct, err := j.runtime.CreateAccount(req.Context(), args.Key, owner, space)
	if err != nil {
		return err
	}
	reply.Owner = acct.Owner
	reply.Space = uint64(len(acct.Data))
	return nil
}

type ExecuteArgs struct {
	Call host.Call `json:"call"`
}

func (j *JSONRPCServer) Execute(
	req *http.Request,
	args *ExecuteArgs,
	reply *host.Result,
) error {
	res, err := j.runtime.Invoke(req.Context(), &args.Call)
	if err != nil {
		j.log.Debug("rejected call", zap.Error(err))
		return err
	}
	*reply = *res
	return nil
}

type AccountArgs struct {
	Key ed25519.PublicKey `json:"key"`
}

type AccountReply struct {
	Owner ids.ID `json:"owner"`
	Data  []byte `json:"data"`
	// Set when the data decodes as a counter.
	Count    uint32 `json:"count"`
	HasCount bool   `json:"hasCount"`
}

func (j *JSONRPCServer) Account(
	req *http.Request,
	args *AccountArgs,
	reply *AccountReply,
) error {
	acct, err := j.runtime.GetAccount(req.Context(), args.Key)
	if err != nil {
		return err
	}
	reply.Owner = acct.Owner
	reply.Data = acct.Data
	if count, err := acct.Count(); err == nil {
		reply.Count = count
		reply.HasCount = true
	}
	return nil
}
