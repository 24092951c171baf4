// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"context"

	"go.uber.org/zap"

	"github.com/ava-labs/counterprogram/executor"
)

// ExecuteBatch invokes [calls] concurrently. Calls that write an account run
// in the order given relative to every other call listing that account;
// calls that only read it may overlap.
//
// The first host error stops every call that has not started yet and is
// returned with the results collected so far. Calls that never ran have a
// nil result.
func (r *Runtime) ExecuteBatch(ctx context.Context, calls []*Call) ([]*Result, error) {
	ctx, span := r.tracer.Start(ctx, "Runtime.ExecuteBatch")
	defer span.End()

	results := make([]*Result, len(calls))
	e := executor.New(len(calls), r.cfg.ExecutionCores)
	for i, call := range calls {
		i, call := i, call
		e.Run(call.StateKeys(), func() error {
			res, err := r.Invoke(ctx, call)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := e.Wait(); err != nil {
		r.log.Warn("batch stopped early",
			zap.Int("calls", len(calls)),
			zap.Error(err),
		)
		return results, err
	}
	return results, nil
}
