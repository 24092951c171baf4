// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/akamensky/argparse"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ava-labs/counterprogram/host"
	"github.com/ava-labs/counterprogram/pebble"
	"github.com/ava-labs/counterprogram/program"
	"github.com/ava-labs/counterprogram/trace"
	"github.com/ava-labs/counterprogram/utils"
)

const (
	cliFolder  = ".counter-cli"
	dbFolder   = "db"
	logsFolder = "logs"
)

// Cmd is a subcommand of the cli.
type Cmd interface {
	New(parser *argparse.Parser)
	Run(ctx context.Context, env *Env) (*Response, error)
	Happened() bool
}

// Env is everything a subcommand runs against.
type Env struct {
	Log     logging.Logger
	Config  host.Config
	DB      *pebble.Database
	Runtime *host.Runtime
	// Metrics of the store and the runtime.
	Gatherer prometheus.Gatherer
	Out      io.Writer
}

type globalFlags struct {
	home     *string
	config   *string
	logLevel *string
	verbose  *bool
}

// Execute parses [args] (including the program name) and runs the selected
// subcommand, printing its response to stdout.
func Execute(ctx context.Context, args []string) error {
	return execute(ctx, args, os.Stdout)
}

func execute(ctx context.Context, args []string, out io.Writer) error {
	parser := argparse.NewParser("counter-cli", "Create counter accounts and drive the counter program against a local store")
	flags := globalFlags{
		home: parser.String("", "home", &argparse.Options{
			Help:    "directory holding the database and logs",
			Default: defaultHome(),
		}),
		config: parser.String("", "config", &argparse.Options{
			Help: "path to a JSON or YAML host config",
		}),
		logLevel: parser.String("", "log-level", &argparse.Options{
			Help: "overrides the configured log level",
		}),
		verbose: parser.Flag("", "verbose", &argparse.Options{
			Help: "mirror logs to stderr",
		}),
	}

	cmds := []Cmd{
		&keyCreateCmd{},
		&accountCreateCmd{},
		&counterCmd{name: "increment", help: "Increment the counter stored in an account"},
		&counterCmd{name: "decrement", help: "Decrement the counter stored in an account"},
		&countCmd{},
		&runCmd{},
		&serveCmd{},
	}
	for _, c := range cmds {
		c.New(parser)
	}
	if err := parser.Parse(args); err != nil {
		return errors.New(parser.Usage(err))
	}

	var selected Cmd
	for _, c := range cmds {
		if c.Happened() {
			selected = c
			break
		}
	}
	if selected == nil {
		return fmt.Errorf("%w\n%s", ErrNoCommand, parser.Usage(nil))
	}

	env, closeEnv, err := newEnv(flags, out)
	if err != nil {
		return err
	}
	defer closeEnv()

	resp, err := selected.Run(ctx, env)
	if resp != nil {
		if err != nil {
			resp.Error = err.Error()
		}
		if perr := resp.Print(out); perr != nil {
			return perr
		}
	}
	if err != nil {
		env.Log.Debug("command failed", zap.Error(err))
	}
	return err
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return cliFolder
	}
	return filepath.Join(home, cliFolder)
}

func loadConfig(flags globalFlags) (host.Config, logging.Level, error) {
	cfg := host.NewDefaultConfig()
	if len(*flags.config) > 0 {
		var err error
		cfg, err = host.LoadConfig(*flags.config)
		if err != nil {
			return host.Config{}, logging.Off, err
		}
	}
	if len(*flags.logLevel) > 0 {
		cfg.LogLevel = *flags.logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		return host.Config{}, logging.Off, err
	}
	return cfg, level, nil
}

func newEnv(flags globalFlags, out io.Writer) (*Env, func(), error) {
	cfg, level, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	logDir, err := utils.InitSubDirectory(*flags.home, logsFolder)
	if err != nil {
		return nil, nil, err
	}
	lcfg := defaultLogConfig(logDir, level)
	lcfg.Display = *flags.verbose
	logFactory := newLogFactory(lcfg)
	log, err := logFactory.Make("counter-cli")
	if err != nil {
		logFactory.Close()
		return nil, nil, err
	}

	db, dbRegistry, err := pebble.New(filepath.Join(*flags.home, dbFolder), pebble.NewDefaultConfig())
	if err != nil {
		logFactory.Close()
		return nil, nil, err
	}
	tracer, err := trace.New(&cfg.Trace)
	if err != nil {
		_ = db.Close()
		logFactory.Close()
		return nil, nil, err
	}
	cleanup := func() {
		if err := tracer.Close(); err != nil {
			log.Warn("failed to close tracer", zap.Error(err))
		}
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
		logFactory.Close()
	}

	runtime, hostRegistry, err := host.New(cfg, log, db, tracer)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := runtime.RegisterProgram(program.CounterID, program.Handle); err != nil {
		cleanup()
		return nil, nil, err
	}
	return &Env{
		Log:      log,
		Config:   cfg,
		DB:       db,
		Runtime:  runtime,
		Gatherer: prometheus.Gatherers{dbRegistry, hostRegistry},
		Out:      out,
	}, cleanup, nil
}
