// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/counterprogram/counter"
)

var _ Entrypoint = Handle

// Entrypoint is the signature every program exposes to the host.
type Entrypoint func(
	log logging.Logger,
	programID ids.ID,
	accounts []*AccountInfo,
	payload []byte,
) error

// Handle is the counter program. It decodes [payload] as an instruction,
// applies it to the counter stored in the first account and writes the
// result back into that account's buffer.
//
// The account buffer is only written after every decode has succeeded,
// so a failed call leaves it untouched.
func Handle(
	log logging.Logger,
	programID ids.ID,
	accounts []*AccountInfo,
	payload []byte,
) error {
	log.Info("counter program invoked",
		zap.Stringer("programID", programID),
		zap.Int("accounts", len(accounts)),
	)

	acc, err := NewAccountIterator(accounts).Next()
	if err != nil {
		return err
	}
	log.Debug("target account",
		zap.Stringer("key", acc.Key),
		zap.Binary("data", acc.Data),
	)

	ix, err := counter.DecodeInstruction(payload)
	if err != nil {
		return err
	}
	state, err := counter.DecodeState(acc.Data)
	if err != nil {
		return err
	}
	log.Info("counter loaded",
		zap.Uint32("count", state.Count),
	)
	log.Info("applying instruction",
		zap.Stringer("op", ix.Kind),
		zap.Uint32("amount", ix.Amount),
	)

	return writeState(acc, counter.Apply(state, ix))
}

func writeState(acc *AccountInfo, s counter.State) error {
	b := counter.EncodeState(s)
	if len(acc.Data) < len(b) {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrAccountDataTooSmall, len(b), len(acc.Data))
	}
	copy(acc.Data, b)
	return nil
}
