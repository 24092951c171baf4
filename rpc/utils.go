// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"
	"strings"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2"

	"github.com/ava-labs/counterprogram/server"
)

func NewJSONRPCHandler(
	name string,
	service interface{},
) (http.Handler, error) {
	handler := rpc.NewServer()
	handler.RegisterCodec(json.NewCodec(), "application/json")
	handler.RegisterCodec(json.NewCodec(), "application/json;charset=UTF-8")
	return handler, handler.RegisterService(service, name)
}

// Register mounts [service] on [s] at [JSONRPCEndpoint].
func Register(s server.PathAdder, service *JSONRPCServer) error {
	handler, err := NewJSONRPCHandler(Name, service)
	if err != nil {
		return err
	}
	return s.AddRoute(handler, strings.TrimPrefix(JSONRPCEndpoint, "/"), "")
}
