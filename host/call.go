// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/counterprogram/codec"
	"github.com/ava-labs/counterprogram/crypto/ed25519"
	"github.com/ava-labs/counterprogram/state"
)

// AccountMeta names an account a call passes to its program and what the
// program may do with it.
type AccountMeta struct {
	Key        ed25519.PublicKey `json:"key"        yaml:"key"`
	IsSigner   bool              `json:"isSigner"   yaml:"isSigner"`
	IsWritable bool              `json:"isWritable" yaml:"isWritable"`
}

// Call is a single program invocation. Signatures hold one entry per
// signer in [Accounts], in the order the signers appear.
type Call struct {
	ProgramID  ids.ID              `json:"programId"`
	Accounts   []AccountMeta       `json:"accounts"`
	Data       []byte              `json:"data"`
	Signatures []ed25519.Signature `json:"signatures"`
}

type unsignedCall struct {
	ProgramID ids.ID
	Accounts  []AccountMeta
	Data      []byte
}

// Digest is the message every signer of [c] signs: the hash of the borsh
// encoding of everything but the signatures.
func (c *Call) Digest() ([]byte, error) {
	b, err := codec.Serialize(unsignedCall{
		ProgramID: c.ProgramID,
		Accounts:  c.Accounts,
		Data:      c.Data,
	})
	if err != nil {
		return nil, err
	}
	return hashing.ComputeHash256(b), nil
}

// ID identifies [c] including its signatures.
func (c *Call) ID() (ids.ID, error) {
	digest, err := c.Digest()
	if err != nil {
		return ids.Empty, err
	}
	for _, sig := range c.Signatures {
		digest = append(digest, sig[:]...)
	}
	return ids.ID(hashing.ComputeHash256Array(digest)), nil
}

// Signers returns the keys that must sign [c], in order.
func (c *Call) Signers() []ed25519.PublicKey {
	signers := []ed25519.PublicKey{}
	for _, meta := range c.Accounts {
		if meta.IsSigner {
			signers = append(signers, meta.Key)
		}
	}
	return signers
}

// Sign replaces the signatures of [c] with ones produced by [keys]. Every
// signer of [c] must have a matching key.
func (c *Call) Sign(keys ...ed25519.PrivateKey) error {
	digest, err := c.Digest()
	if err != nil {
		return err
	}
	byPub := make(map[ed25519.PublicKey]ed25519.PrivateKey, len(keys))
	for _, k := range keys {
		byPub[k.PublicKey()] = k
	}
	signers := c.Signers()
	sigs := make([]ed25519.Signature, 0, len(signers))
	for _, signer := range signers {
		priv, ok := byPub[signer]
		if !ok {
			return ErrMissingSignature
		}
		sigs = append(sigs, ed25519.Sign(digest, priv))
	}
	c.Signatures = sigs
	return nil
}

// StateKeys lists the storage [c] touches. Writable accounts are written,
// the rest only read.
func (c *Call) StateKeys() state.Keys {
	keys := make(state.Keys, len(c.Accounts))
	for _, meta := range c.Accounts {
		if meta.IsWritable {
			keys.Add(string(AccountKey(meta.Key)), state.Write)
		} else {
			keys.Add(string(AccountKey(meta.Key)), state.Read)
		}
	}
	return keys
}

// Result is the outcome of a call the host accepted. A program failure is a
// result, not an error: [Err] is set and no account was changed.
type Result struct {
	CallID   ids.ID              `json:"callId"`
	Success  bool                `json:"success"`
	Error    string              `json:"error,omitempty"`
	Modified []ed25519.PublicKey `json:"modified,omitempty"`

	Err error `json:"-"`
}
