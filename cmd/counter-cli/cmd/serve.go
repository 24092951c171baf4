// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/counterprogram/rpc"
	"github.com/ava-labs/counterprogram/server"
)

const metricsEndpoint = "metrics"

var _ Cmd = (*serveCmd)(nil)

type serveCmd struct {
	cmd *argparse.Command

	addr *string
}

func (c *serveCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("serve", "Serve the counter JSON-RPC API and metrics over HTTP")
	c.addr = c.cmd.String("a", "addr", &argparse.Options{
		Help:    "address to listen on",
		Default: "127.0.0.1:9650",
	})
}

func (c *serveCmd) Run(ctx context.Context, env *Env) (*Response, error) {
	listener, err := net.Listen("tcp", *c.addr)
	if err != nil {
		return newResponse(0), err
	}
	srv, err := newServer(env, listener)
	if err != nil {
		_ = listener.Close()
		return newResponse(0), err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	env.Log.Info("serving",
		zap.Stringer("addr", listener.Addr()),
		zap.String("endpoint", rpc.JSONRPCEndpoint),
	)
	resp := newResponse(0)
	resp.Result.Msg = fmt.Sprintf("serving on %s", listener.Addr())
	return resp, serve(ctx, srv)
}

func (c *serveCmd) Happened() bool {
	return c.cmd.Happened()
}

// newServer mounts the JSON-RPC service and the metrics of [env] on a
// server bound to [listener].
func newServer(env *Env, listener net.Listener) (server.Server, error) {
	srv := server.New("", env.Log, listener, env.Config.HTTP)
	if err := rpc.Register(srv, rpc.NewJSONRPCServer(env.Log, env.Runtime)); err != nil {
		return nil, err
	}
	metrics := promhttp.HandlerFor(env.Gatherer, promhttp.HandlerOpts{})
	if err := srv.AddRoute(metrics, metricsEndpoint, ""); err != nil {
		return nil, err
	}
	return srv, nil
}

// serve dispatches [srv] until [ctx] is done.
func serve(ctx context.Context, srv server.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Dispatch)
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown()
	})
	return g.Wait()
}
