package encoding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func FuzzEncodeDecodeVariableByteInteger(f *testing.F) {
	seeds := []uint32{
		0,
		1,
		127,       // Max 1-byte
		128,       // Min 2-byte
		16383,     // Max 2-byte
		16384,     // Min 3-byte
		2097151,   // Max 3-byte
		2097152,   // Min 4-byte
		268435455, // Max valid value
		268435456,
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, value uint32) {
		encoded, err := EncodeVariableByteInteger(value)

		if value > MaxVariableByteInteger {
			assert.ErrorIs(t, err, ErrVariableByteIntegerTooLarge)
			return
		}

		require.NoError(t, err)
		assert.Equal(t, SizeVariableByteInteger(value), len(encoded))

		decoded, bytesRead, err := DecodeVariableByteIntegerFromBytes(encoded)
		require.NoError(t, err)
		assert.Equal(t, value, decoded)
		assert.Equal(t, len(encoded), bytesRead)

		decoded2, bytesRead2, err := DecodeVariableByteInteger(bytes.NewReader(encoded))
		require.NoError(t, err)
		assert.Equal(t, value, decoded2)
		assert.Equal(t, bytesRead, bytesRead2)
	})
}

func FuzzDecodeVariableByteInteger(f *testing.F) {
	seeds := [][]byte{
		{0x00},
		{0x7F},
		{0x80, 0x01},
		{0xFF, 0xFF, 0xFF, 0x7F},
		{0x80},                         // Incomplete
		{0x80, 0x80, 0x80, 0x80},       // Malformed (4 continuation bits)
		{0x80, 0x80, 0x80, 0x80, 0x01}, // Too many bytes
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		value1, n1, err1 := DecodeVariableByteInteger(bytes.NewReader(data))
		value2, n2, err2 := DecodeVariableByteIntegerFromBytes(data)

		assert.Equal(t, err1 == nil, err2 == nil, "decoders disagree on error")
		if err1 != nil || err2 != nil {
			return
		}

		assert.Equal(t, value1, value2)
		assert.Equal(t, n1, n2)
		assert.LessOrEqual(t, value1, MaxVariableByteInteger)
		assert.LessOrEqual(t, n1, MaxVariableByteIntegerBytes)
	})
}
