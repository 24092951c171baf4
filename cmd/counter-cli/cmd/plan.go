// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/akamensky/argparse"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/counterprogram/consts"
	"github.com/ava-labs/counterprogram/counter"
	"github.com/ava-labs/counterprogram/host"
	"github.com/ava-labs/counterprogram/program"
)

var _ Cmd = (*runCmd)(nil)

type Plan struct {
	// The name of the plan.
	Name string `json:"name" yaml:"name"`
	// A description of the plan.
	Description string `json:"description" yaml:"description"`
	// Steps performed in order.
	Steps []Step `json:"steps" yaml:"steps"`
}

type Step struct {
	// Description of the step.
	Description string `json:"description" yaml:"description"`
	// The operation to perform. (required)
	Endpoint Endpoint `json:"endpoint" yaml:"endpoint"`
	// Named key or address the step acts on. (required)
	Key string `json:"key" yaml:"key"`
	// Operand of an increment or decrement.
	Amount int64 `json:"amount,omitempty" yaml:"amount,omitempty"`
	// Buffer size of a created account. Defaults to the counter state size.
	Space *int64 `json:"space,omitempty" yaml:"space,omitempty"`
	// Define required assertions against this step.
	Require *Require `json:"require,omitempty" yaml:"require,omitempty"`
}

type Endpoint string

const (
	// Create a named key. An existing key is reused.
	KeyEndpoint Endpoint = "key"
	// Allocate a zero-filled account.
	AccountEndpoint   Endpoint = "account"
	IncrementEndpoint Endpoint = "increment"
	DecrementEndpoint Endpoint = "decrement"
	// Read the counter without changing it.
	CountEndpoint Endpoint = "count"
)

type Require struct {
	// Assertions against the count after the step.
	Result ResultAssertion `json:"result" yaml:"result"`
}

type ResultAssertion struct {
	// The operator to use for the assertion.
	Operator string `json:"operator" yaml:"operator"`
	// The value to compare against.
	Value string `json:"value" yaml:"value"`
}

type Operator string

const (
	NumericGt Operator = ">"
	NumericLt Operator = "<"
	NumericGe Operator = ">="
	NumericLe Operator = "<="
	NumericEq Operator = "=="
	NumericNe Operator = "!="
)

type runCmd struct {
	cmd *argparse.Command

	path *string

	stdin io.Reader
}

func (c *runCmd) New(parser *argparse.Parser) {
	c.cmd = parser.NewCommand("run", "Run a plan of counter operations")
	c.path = c.cmd.String("p", "plan", &argparse.Options{
		Help:     "path to a JSON or YAML plan, or - to read stdin",
		Required: true,
	})
}

func (c *runCmd) Run(ctx context.Context, env *Env) (*Response, error) {
	plan, err := c.readPlan()
	if err != nil {
		return newResponse(0), err
	}
	if err := plan.Verify(); err != nil {
		return newResponse(0), err
	}
	return nil, runPlan(ctx, env, plan)
}

func (c *runCmd) Happened() bool {
	return c.cmd.Happened()
}

func (c *runCmd) readPlan() (*Plan, error) {
	var (
		b   []byte
		err error
	)
	if *c.path == "-" {
		stdin := c.stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(*c.path)
	}
	if err != nil {
		return nil, err
	}
	return unmarshalPlan(b)
}

// Verify checks every step before any of them is run.
func (p *Plan) Verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	for i, step := range p.Steps {
		if err := step.verify(); err != nil {
			return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
		}
	}
	return nil
}

func (s *Step) verify() error {
	if len(s.Key) == 0 {
		return errors.New("missing key")
	}
	switch s.Endpoint {
	case KeyEndpoint, CountEndpoint:
	case AccountEndpoint:
		if s.Space != nil && *s.Space < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidSpace, *s.Space)
		}
	case IncrementEndpoint, DecrementEndpoint:
		if _, err := toAmount64(s.Amount); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, s.Endpoint)
	}
	if s.Require != nil {
		if _, err := parseAssertion(&s.Require.Result); err != nil {
			return err
		}
	}
	return nil
}

// runPlan prints one response per step. A failed step does not stop the
// plan; the number of failed steps is returned once every step has run.
func runPlan(ctx context.Context, env *Env, plan *Plan) error {
	env.Log.Info("running plan",
		zap.String("name", plan.Name),
		zap.String("description", plan.Description),
	)

	var failed int
	for i, step := range plan.Steps {
		env.Log.Info("running step",
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("endpoint", string(step.Endpoint)),
			zap.String("key", step.Key),
		)

		resp := newResponse(i)
		if err := runStepFunc(ctx, env, &step, resp); err != nil {
			resp.Error = err.Error()
			failed++
		}
		if err := resp.Print(env.Out); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d steps failed", ErrInvalidPlan, failed, len(plan.Steps))
	}
	return nil
}

func runStepFunc(ctx context.Context, env *Env, step *Step, resp *Response) error {
	switch step.Endpoint {
	case KeyEndpoint:
		pk, err := keyCreateFunc(ctx, env.DB, step.Key)
		switch {
		case errors.Is(err, ErrDuplicateKeyName):
			env.Log.Debug("key already exists", zap.String("name", step.Key))
			pk, err = resolveKey(ctx, env.DB, step.Key)
			if err != nil {
				return err
			}
		case err != nil:
			return err
		}
		resp.Result.Key = pk.String()
		resp.Result.Msg = fmt.Sprintf("created named key %s", step.Key)
		return nil
	case AccountEndpoint:
		pk, err := resolveKey(ctx, env.DB, step.Key)
		if err != nil {
			return err
		}
		resp.Result.Key = pk.String()
		space := uint64(host.CounterAccountSpace)
		if step.Space != nil {
			space = uint64(*step.Space)
		}
		if _, err := env.Runtime.CreateAccount(ctx, pk, program.CounterID, space); err != nil {
			return err
		}
		resp.Result.Msg = fmt.Sprintf("created account of %d bytes", space)
		return nil
	}

	pk, err := resolveKey(ctx, env.DB, step.Key)
	if err != nil {
		return err
	}
	switch step.Endpoint {
	case IncrementEndpoint, DecrementEndpoint:
		amount, err := toAmount64(step.Amount)
		if err != nil {
			return err
		}
		ix := counter.NewIncrement(amount)
		if step.Endpoint == DecrementEndpoint {
			ix = counter.NewDecrement(amount)
		}
		if err := applyFunc(ctx, env, pk, ix, resp); err != nil {
			return err
		}
	case CountEndpoint:
		if _, err := countFunc(ctx, env, pk, resp); err != nil {
			return err
		}
	}

	if step.Require == nil || resp.Result.Count == nil {
		return nil
	}
	ok, err := validateAssertion(uint64(*resp.Result.Count), &step.Require.Result)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: count %d %s %s is false",
			ErrAssertionFailed,
			*resp.Result.Count,
			step.Require.Result.Operator,
			step.Require.Result.Value,
		)
	}
	return nil
}

func toAmount64(v int64) (uint32, error) {
	if v < 0 || v > int64(consts.MaxUint32) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAmount, v)
	}
	return uint32(v), nil
}

func parseAssertion(assertion *ResultAssertion) (uint64, error) {
	switch Operator(assertion.Operator) {
	case NumericGt, NumericLt, NumericGe, NumericLe, NumericEq, NumericNe:
	default:
		return 0, fmt.Errorf("unknown operator %q", assertion.Operator)
	}
	return strconv.ParseUint(assertion.Value, 10, 64)
}

// validateAssertion validates the assertion against the actual value.
func validateAssertion(actual uint64, assertion *ResultAssertion) (bool, error) {
	value, err := parseAssertion(assertion)
	if err != nil {
		return false, err
	}

	switch Operator(assertion.Operator) {
	case NumericGt:
		return actual > value, nil
	case NumericLt:
		return actual < value, nil
	case NumericGe:
		return actual >= value, nil
	case NumericLe:
		return actual <= value, nil
	case NumericEq:
		return actual == value, nil
	default:
		return actual != value, nil
	}
}

func unmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	switch {
	case isJSON(b):
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, err
		}
	case isYAML(b):
		if err := yaml.Unmarshal(b, &p); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidConfigFormat
	}
	return &p, nil
}

func isJSON(b []byte) bool {
	var js map[string]interface{}
	return json.Unmarshal(b, &js) == nil
}

func isYAML(b []byte) bool {
	var y map[string]interface{}
	return yaml.Unmarshal(b, &y) == nil
}
