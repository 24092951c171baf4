// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package counter

import (
	"fmt"

	"github.com/ava-labs/counterprogram/codec"
	"github.com/ava-labs/counterprogram/consts"
)

var (
	_ codec.Marshaler                = Instruction{}
	_ codec.Unmarshaler[Instruction] = Instruction{}
)

// Kind is the discriminant of an [Instruction].
type Kind uint8

const (
	Increment Kind = iota
	Decrement
)

func (k Kind) String() string {
	switch k {
	case Increment:
		return "increment"
	case Decrement:
		return "decrement"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

func (k Kind) valid() bool {
	return k == Increment || k == Decrement
}

// Instruction is the payload of a call to the counter program.
type Instruction struct {
	Kind   Kind
	Amount uint32
}

func NewIncrement(amount uint32) Instruction {
	return Instruction{Kind: Increment, Amount: amount}
}

func NewDecrement(amount uint32) Instruction {
	return Instruction{Kind: Decrement, Amount: amount}
}

// MarshalBorsh writes the discriminant followed by the operand.
func (ix Instruction) MarshalBorsh() ([]byte, error) {
	if !ix.Kind.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDiscriminant, uint8(ix.Kind))
	}
	operand, err := codec.Serialize(ix.Amount)
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, consts.InstructionLen)
	b = append(b, byte(ix.Kind))
	return append(b, operand...), nil
}

func (Instruction) UnmarshalBorsh(data []byte) (*Instruction, error) {
	if len(data) < consts.ByteLen {
		return nil, fmt.Errorf("%w: missing discriminant", codec.ErrInvalidSize)
	}
	kind := Kind(data[0])
	if !kind.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDiscriminant, data[0])
	}
	amount, err := codec.DeserializeExact[uint32](data[consts.ByteLen:], consts.Uint32Len)
	if err != nil {
		return nil, err
	}
	return &Instruction{Kind: kind, Amount: *amount}, nil
}

// DecodeInstruction parses a call payload. Payloads with an unknown
// discriminant, a short operand or trailing bytes are rejected.
func DecodeInstruction(b []byte) (Instruction, error) {
	ix, err := codec.Deserialize[Instruction](b)
	if err != nil {
		return Instruction{}, fmt.Errorf("%w: %w", ErrMalformedInstruction, err)
	}
	return *ix, nil
}

// EncodeInstruction returns the payload that [DecodeInstruction] parses
// back into [ix].
func EncodeInstruction(ix Instruction) ([]byte, error) {
	b, err := codec.Serialize(ix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInstruction, err)
	}
	return b, nil
}
