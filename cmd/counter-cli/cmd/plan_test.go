// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const jsonPlan = `{
  "name": "counter",
  "description": "saturating counter",
  "steps": [
    {"description": "create key", "endpoint": "key", "key": "alice"},
    {"description": "create account", "endpoint": "account", "key": "alice"},
    {"description": "add", "endpoint": "increment", "key": "alice", "amount": 5},
    {"description": "add more", "endpoint": "increment", "key": "alice", "amount": 3,
     "require": {"result": {"operator": "==", "value": "8"}}},
    {"description": "subtract", "endpoint": "decrement", "key": "alice", "amount": 100},
    {"description": "read", "endpoint": "count", "key": "alice",
     "require": {"result": {"operator": "==", "value": "0"}}}
  ]
}`

const yamlPlan = `name: counter
description: saturating counter
steps:
  - description: create key
    endpoint: key
    key: bob
  - description: create account
    endpoint: account
    key: bob
    space: 4
  - description: add
    endpoint: increment
    key: bob
    amount: 7
    require:
      result:
        operator: ">="
        value: "7"
  - description: wrong expectation
    endpoint: count
    key: bob
    require:
      result:
        operator: "<"
        value: "7"
`

func writePlan(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestRunJSONPlan(t *testing.T) {
	require := require.New(t)
	home := t.TempDir()

	resps, err := runCLI(t, home, "run", "--plan", writePlan(t, jsonPlan))
	require.NoError(err)
	require.Len(resps, 6)
	for i, resp := range resps {
		require.Equal(i, resp.ID)
		require.Empty(resp.Error)
	}
	require.Equal(uint32(5), *resps[2].Result.Count)
	require.Equal(uint32(8), *resps[3].Result.Count)
	require.Equal(uint32(0), *resps[5].Result.Count)

	// Rerunning reuses the key and fails to recreate the account.
	resps, err = runCLI(t, home, "run", "--plan", writePlan(t, jsonPlan))
	require.ErrorIs(err, ErrInvalidPlan)
	require.Empty(resps[0].Error)
	require.NotEmpty(resps[1].Error)
}

func TestRunYAMLPlan(t *testing.T) {
	require := require.New(t)
	home := t.TempDir()

	resps, err := runCLI(t, home, "run", "--plan", writePlan(t, yamlPlan))
	require.ErrorIs(err, ErrInvalidPlan)
	require.Len(resps, 4)
	require.Empty(resps[2].Error)
	require.Equal(uint32(7), *resps[2].Result.Count)
	require.Contains(resps[3].Error, ErrAssertionFailed.Error())
}

func TestPlanVerify(t *testing.T) {
	space := int64(-1)
	tests := []struct {
		name string
		plan Plan
		err  error
	}{
		{"NoSteps", Plan{}, ErrInvalidPlan},
		{"MissingKey", Plan{Steps: []Step{{Endpoint: CountEndpoint}}}, ErrInvalidStep},
		{"UnknownEndpoint", Plan{Steps: []Step{{Endpoint: "transfer", Key: "a"}}}, ErrInvalidEndpoint},
		{"NegativeAmount", Plan{Steps: []Step{{Endpoint: IncrementEndpoint, Key: "a", Amount: -1}}}, ErrInvalidAmount},
		{"LargeAmount", Plan{Steps: []Step{{Endpoint: DecrementEndpoint, Key: "a", Amount: 1 << 32}}}, ErrInvalidAmount},
		{"NegativeSpace", Plan{Steps: []Step{{Endpoint: AccountEndpoint, Key: "a", Space: &space}}}, ErrInvalidSpace},
		{"BadOperator", Plan{Steps: []Step{{
			Endpoint: CountEndpoint,
			Key:      "a",
			Require:  &Require{ResultAssertion{Operator: "~", Value: "1"}},
		}}}, ErrInvalidStep},
		{"Valid", Plan{Steps: []Step{{Endpoint: IncrementEndpoint, Key: "a", Amount: 1 << 31}}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.plan.Verify(), tt.err)
		})
	}
}

func TestValidateAssertion(t *testing.T) {
	tests := []struct {
		name   string
		actual uint64
		assert ResultAssertion
		want   bool
	}{
		{"IsGreaterThan", 5, ResultAssertion{Operator: string(NumericGt), Value: "3"}, true},
		{"IsNotGreaterThan", 5, ResultAssertion{Operator: string(NumericGt), Value: "10"}, false},
		{"IsLessThan", 5, ResultAssertion{Operator: string(NumericLt), Value: "10"}, true},
		{"IsNotLessThan", 5, ResultAssertion{Operator: string(NumericLt), Value: "2"}, false},
		{"IsEqualTo", 5, ResultAssertion{Operator: string(NumericEq), Value: "5"}, true},
		{"IsNotEqual", 5, ResultAssertion{Operator: string(NumericNe), Value: "3"}, true},
		{"IsGreaterThanOrEqualToSame", 5, ResultAssertion{Operator: string(NumericGe), Value: "5"}, true},
		{"IsLessThanOrEqualToSmaller", 5, ResultAssertion{Operator: string(NumericLe), Value: "1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateAssertion(tt.actual, &tt.assert)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := validateAssertion(1, &ResultAssertion{Operator: "==", Value: "x"})
	require.Error(t, err)
}

func TestUnmarshalPlan(t *testing.T) {
	require := require.New(t)

	p, err := unmarshalPlan([]byte(jsonPlan))
	require.NoError(err)
	require.Len(p.Steps, 6)
	require.Equal(IncrementEndpoint, p.Steps[2].Endpoint)
	require.Equal(int64(5), p.Steps[2].Amount)

	p, err = unmarshalPlan([]byte(yamlPlan))
	require.NoError(err)
	require.Len(p.Steps, 4)
	require.NotNil(p.Steps[1].Space)
	require.Equal(int64(4), *p.Steps[1].Space)

	_, err = unmarshalPlan([]byte("- not\n- a plan"))
	require.ErrorIs(err, ErrInvalidConfigFormat)
}
