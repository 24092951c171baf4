// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

type logConfig struct {
	Directory string
	LogLevel  logging.Level
	// Mirror log lines to stderr.
	Display bool

	MaxSize  int // megabytes
	MaxFiles int
	MaxAge   int // days
	Compress bool
}

func defaultLogConfig(dir string, level logging.Level) logConfig {
	return logConfig{
		Directory: dir,
		LogLevel:  level,
		MaxSize:   8,
		MaxFiles:  4,
		MaxAge:    7,
	}
}

// logFactory builds loggers that write JSON lines to a rotating file and,
// when enabled, colored lines to stderr.
type logFactory struct {
	config logConfig
	lock   sync.Mutex

	loggers map[string]logging.Logger
}

func newLogFactory(config logConfig) *logFactory {
	return &logFactory{
		config:  config,
		loggers: make(map[string]logging.Logger),
	}
}

func (f *logFactory) Make(name string) (logging.Logger, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, ok := f.loggers[name]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", name)
	}

	var consoleWriter io.WriteCloser = os.Stderr
	if !f.config.Display {
		consoleWriter = discardWriteCloser{io.Discard}
	}
	consoleCore := logging.NewWrappedCore(f.config.LogLevel, consoleWriter, logging.Colors.ConsoleEncoder())
	consoleCore.WriterDisabled = !f.config.Display

	rw := &lumberjack.Logger{
		Filename:   filepath.Join(f.config.Directory, name+".log"),
		MaxSize:    f.config.MaxSize,
		MaxAge:     f.config.MaxAge,
		MaxBackups: f.config.MaxFiles,
		Compress:   f.config.Compress,
	}
	fileCore := logging.NewWrappedCore(f.config.LogLevel, rw, logging.JSON.FileEncoder())

	l := logging.NewLogger("", consoleCore, fileCore)
	f.loggers[name] = l
	return l, nil
}

func (f *logFactory) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, l := range f.loggers {
		l.Stop()
	}
	f.loggers = nil
}

type discardWriteCloser struct {
	io.Writer
}

func (discardWriteCloser) Close() error {
	return nil
}
