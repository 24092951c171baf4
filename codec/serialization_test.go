// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Count uint32
	Data  []byte
}

func TestSerializationRawBytes(t *testing.T) {
	require := require.New(t)
	testBytes := RawBytes([]byte{0, 1, 2, 3})
	serializedBytes, err := Serialize(testBytes)
	require.NoError(err)
	require.Equal([]byte(testBytes), serializedBytes)

	deserialized, err := Deserialize[RawBytes](serializedBytes)
	require.NoError(err)
	require.Equal(testBytes, *deserialized)
}

func TestSerializationLittleEndian(t *testing.T) {
	require := require.New(t)
	serializedBytes, err := Serialize(testRecord{Count: 0x01020304, Data: []byte{9}})
	require.NoError(err)
	require.Equal([]byte{4, 3, 2, 1, 1, 0, 0, 0, 9}, serializedBytes)

	deserialized, err := Deserialize[testRecord](serializedBytes)
	require.NoError(err)
	require.Equal(uint32(0x01020304), deserialized.Count)
	require.Equal([]byte{9}, deserialized.Data)
}

func TestSerializationNil(t *testing.T) {
	require := require.New(t)
	var record *testRecord
	serializedBytes, err := Serialize(record)
	require.NoError(err)
	require.Empty(serializedBytes)
}

func TestDeserializeExact(t *testing.T) {
	require := require.New(t)
	_, err := DeserializeExact[uint32]([]byte{1, 0, 0}, 4)
	require.ErrorIs(err, ErrInvalidSize)

	_, err = DeserializeExact[uint32]([]byte{1, 0, 0, 0, 0}, 4)
	require.ErrorIs(err, ErrInvalidSize)

	v, err := DeserializeExact[uint32]([]byte{1, 0, 0, 0}, 4)
	require.NoError(err)
	require.Equal(uint32(1), *v)
}
