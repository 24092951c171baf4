// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"bytes"
	"encoding/json"
	"os"
	"runtime"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/counterprogram/consts"
	"github.com/ava-labs/counterprogram/server"
	"github.com/ava-labs/counterprogram/trace"
)

type Config struct {
	LogLevel string `json:"logLevel" yaml:"logLevel"`

	// Require a valid signature from every account a call marks as signer.
	VerifySignatures  bool   `json:"verifySignatures"  yaml:"verifySignatures"`
	MaxAccountDataLen uint64 `json:"maxAccountDataLen" yaml:"maxAccountDataLen"`
	ExecutionCores    int    `json:"executionCores"    yaml:"executionCores"`

	Trace trace.Config      `json:"trace" yaml:"trace"`
	HTTP  server.HTTPConfig `json:"http"  yaml:"http"`
}

func NewDefaultConfig() Config {
	return Config{
		LogLevel:          logging.Info.String(),
		VerifySignatures:  true,
		MaxAccountDataLen: consts.MaxAccountDataLen,
		ExecutionCores:    runtime.NumCPU(),
		Trace:             trace.NewDefaultConfig(),
		HTTP:              server.NewDefaultHTTPConfig(),
	}
}

// ParseConfig overlays [b] on the default config. JSON is detected by a
// leading '{'; anything else is parsed as YAML.
func ParseConfig(b []byte) (Config, error) {
	c := NewDefaultConfig()
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return c, nil
	}
	var err error
	if b[0] == '{' {
		err = json.Unmarshal(b, &c)
	} else {
		err = yaml.Unmarshal(b, &c)
	}
	if err != nil {
		return Config{}, err
	}
	if _, err := c.Level(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(b)
}

func (c Config) Level() (logging.Level, error) {
	return logging.ToLevel(c.LogLevel)
}
