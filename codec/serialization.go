// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"
	"reflect"

	"github.com/near/borsh-go"
)

// Marshaler is implemented by types whose wire form is not the default
// borsh layout of their fields (e.g. tagged unions).
type Marshaler interface {
	MarshalBorsh() ([]byte, error)
}

// Unmarshaler is the decoding counterpart of [Marshaler].
type Unmarshaler[T any] interface {
	UnmarshalBorsh([]byte) (*T, error)
}

// Serialize returns the borsh encoding of [value]. A nil value serializes to
// no bytes.
func Serialize[T any](value T) ([]byte, error) {
	if isNil(value) {
		return nil, nil
	}
	switch t := any(value).(type) {
	case Marshaler:
		return t.MarshalBorsh()
	default:
		return borsh.Serialize(value)
	}
}

// Deserialize decodes [data] into a new T.
func Deserialize[T any](data []byte) (*T, error) {
	result := new(T)
	switch t := any(*result).(type) {
	case Unmarshaler[T]:
		return t.UnmarshalBorsh(data)
	default:
		if err := borsh.Deserialize(result, data); err != nil {
			return nil, err
		}
		return result, nil
	}
}

// DeserializeExact is [Deserialize] for fixed width types. [data] must be
// exactly [size] bytes long.
func DeserializeExact[T any](data []byte, size int) (*T, error) {
	if len(data) != size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSize, size, len(data))
	}
	return Deserialize[T](data)
}

func isNil[T any](t T) bool {
	v := reflect.ValueOf(t)
	kind := v.Kind()
	// Must be one of these types to be nillable
	return (kind == reflect.Ptr ||
		kind == reflect.Interface ||
		kind == reflect.Slice ||
		kind == reflect.Map ||
		kind == reflect.Chan ||
		kind == reflect.Func) &&
		v.IsNil()
}

// RawBytes crosses the program boundary without any framing.
type RawBytes []byte

func (r RawBytes) MarshalBorsh() ([]byte, error) {
	return r, nil
}

func (RawBytes) UnmarshalBorsh(data []byte) (*RawBytes, error) {
	rawData := RawBytes(data)
	return &rawData, nil
}
