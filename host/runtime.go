// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/counterprogram/crypto/ed25519"
	"github.com/ava-labs/counterprogram/lockmap"
	"github.com/ava-labs/counterprogram/program"
	"github.com/ava-labs/counterprogram/state"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Runtime owns the account store and runs registered programs against it.
// Each call either commits every account change it made or none of them.
type Runtime struct {
	cfg     Config
	log     logging.Logger
	db      state.Database
	tracer  trace.Tracer
	metrics *metrics
	locks   *lockmap.Lockmap

	programsL sync.RWMutex
	programs  map[ids.ID]program.Entrypoint
}

func New(
	cfg Config,
	log logging.Logger,
	db state.Database,
	tracer trace.Tracer,
) (*Runtime, *prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	m, err := newMetrics(registry)
	if err != nil {
		return nil, nil, err
	}
	return &Runtime{
		cfg:      cfg,
		log:      log,
		db:       db,
		tracer:   tracer,
		metrics:  m,
		locks:    lockmap.New(64),
		programs: map[ids.ID]program.Entrypoint{},
	}, registry, nil
}

func (r *Runtime) RegisterProgram(id ids.ID, entry program.Entrypoint) error {
	r.programsL.Lock()
	defer r.programsL.Unlock()

	if _, ok := r.programs[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateProgram, id)
	}
	r.programs[id] = entry
	r.log.Info("registered program", zap.Stringer("programID", id))
	return nil
}

func (r *Runtime) program(id ids.ID) (program.Entrypoint, bool) {
	r.programsL.RLock()
	defer r.programsL.RUnlock()

	entry, ok := r.programs[id]
	return entry, ok
}

// CreateAccount allocates a zero-filled account of [space] bytes owned by
// [owner].
func (r *Runtime) CreateAccount(
	ctx context.Context,
	key ed25519.PublicKey,
	owner ids.ID,
	space uint64,
) (*Account, error) {
	ctx, span := r.tracer.Start(ctx, "Runtime.CreateAccount")
	defer span.End()

	unlock := r.locks.LockKeys(state.Keys{string(AccountKey(key)): state.Write})
	defer unlock()

	mu := state.NewSimpleMutable(r.db)
	acct, err := CreateAccount(ctx, mu, key, owner, space, r.cfg.MaxAccountDataLen)
	if err != nil {
		return nil, err
	}
	if err := mu.Commit(ctx); err != nil {
		return nil, err
	}
	r.metrics.accountsMade.Inc()
	r.log.Info("created account",
		zap.Stringer("key", key),
		zap.Stringer("owner", owner),
		zap.Uint64("space", space),
	)
	return acct, nil
}

func (r *Runtime) GetAccount(ctx context.Context, key ed25519.PublicKey) (*Account, error) {
	ctx, span := r.tracer.Start(ctx, "Runtime.GetAccount")
	defer span.End()

	k := string(AccountKey(key))
	r.locks.RLock(k)
	defer r.locks.RUnlock(k)

	return GetAccount(ctx, state.NewSimpleMutable(r.db), key)
}

// Invoke runs [call] and commits the account changes its program made.
//
// Errors are returned for calls the host refuses to run (unknown program
// or account, bad signatures) and for storage failures. Everything the
// program is responsible for is reported in [Result.Err].
func (r *Runtime) Invoke(ctx context.Context, call *Call) (*Result, error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "Runtime.Invoke", oteltrace.WithAttributes(
		attribute.Stringer("programID", call.ProgramID),
		attribute.Int("accounts", len(call.Accounts)),
		attribute.Int("data", len(call.Data)),
	))
	defer span.End()

	res, err := r.invoke(ctx, call)
	r.metrics.callDuration.Observe(float64(time.Since(start)))
	switch {
	case err != nil:
		r.metrics.callsRejected.Inc()
		span.RecordError(err)
	case res.Err != nil:
		r.metrics.callsFailed.Inc()
		span.SetAttributes(attribute.String("programError", res.Error))
	default:
		r.metrics.callsSucceeded.Inc()
	}
	return res, err
}

func (r *Runtime) invoke(ctx context.Context, call *Call) (*Result, error) {
	entry, ok := r.program(call.ProgramID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProgramNotFound, call.ProgramID)
	}
	callID, err := call.ID()
	if err != nil {
		return nil, err
	}
	if err := r.verifySignatures(call); err != nil {
		return nil, err
	}
	keys := call.StateKeys()
	if len(keys) != len(call.Accounts) {
		return nil, ErrDuplicateAccount
	}

	unlock := r.locks.LockKeys(keys)
	defer unlock()

	mu := state.NewSimpleMutable(r.db)
	stored := make([]*Account, len(call.Accounts))
	infos := make([]*program.AccountInfo, len(call.Accounts))
	for i, meta := range call.Accounts {
		acct, err := GetAccount(ctx, mu, meta.Key)
		if err != nil {
			return nil, err
		}
		stored[i] = acct
		infos[i] = &program.AccountInfo{
			Key:        meta.Key,
			Owner:      acct.Owner,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Data:       slices.Clone(acct.Data),
		}
	}

	result := &Result{CallID: callID}
	if err := runProgram(entry, r.log, call.ProgramID, infos, call.Data); err != nil {
		r.log.Debug("program returned error",
			zap.Stringer("callID", callID),
			zap.Error(err),
		)
		return result.fail(err), nil
	}

	for i, info := range infos {
		acct := stored[i]
		if bytes.Equal(info.Data, acct.Data) {
			continue
		}
		meta := call.Accounts[i]
		switch {
		case len(info.Data) != len(acct.Data):
			return result.fail(fmt.Errorf("%w: %s", ErrDataLengthChanged, meta.Key)), nil
		case !meta.IsWritable:
			return result.fail(fmt.Errorf("%w: %s", ErrReadonlyModified, meta.Key)), nil
		case acct.Owner != call.ProgramID:
			return result.fail(fmt.Errorf("%w: %s", ErrExternalModified, meta.Key)), nil
		}
		if err := SetAccount(ctx, mu, meta.Key, &Account{Owner: acct.Owner, Data: info.Data}); err != nil {
			return nil, err
		}
		result.Modified = append(result.Modified, meta.Key)
	}
	if err := mu.Commit(ctx); err != nil {
		return nil, err
	}
	result.Success = true
	r.log.Debug("committed call",
		zap.Stringer("callID", callID),
		zap.Int("modified", len(result.Modified)),
	)
	return result, nil
}

func (res *Result) fail(err error) *Result {
	res.Err = err
	res.Error = err.Error()
	res.Modified = nil
	return res
}

func runProgram(
	entry program.Entrypoint,
	log logging.Logger,
	programID ids.ID,
	accounts []*program.AccountInfo,
	data []byte,
) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrProgramPanicked, p)
		}
	}()
	return entry(log, programID, accounts, data)
}

func (r *Runtime) verifySignatures(call *Call) error {
	if !r.cfg.VerifySignatures {
		return nil
	}
	signers := call.Signers()
	switch {
	case len(call.Signatures) < len(signers):
		return fmt.Errorf("%w: have %d, need %d", ErrMissingSignature, len(call.Signatures), len(signers))
	case len(call.Signatures) > len(signers):
		return fmt.Errorf("%w: have %d, need %d", ErrUnexpectedSig, len(call.Signatures), len(signers))
	case len(signers) == 0:
		return nil
	}
	digest, err := call.Digest()
	if err != nil {
		return err
	}
	if len(signers) >= ed25519.MinBatchSize {
		batch := ed25519.NewBatch(len(signers))
		for i, signer := range signers {
			batch.Add(digest, signer, call.Signatures[i])
		}
		if !batch.Verify() {
			return ErrInvalidSignature
		}
		return nil
	}
	for i, signer := range signers {
		if !ed25519.Verify(digest, signer, call.Signatures[i]) {
			return fmt.Errorf("%w: %s", ErrInvalidSignature, signer)
		}
	}
	return nil
}
