package encoding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func FuzzUnpack(f *testing.F) {
	seeds := [][]byte{
		{0x00},
		{0x07, 0x01, 0x01, 0x02, 0x00, 0x00, 0x0E, 0x10},
		{0x0B, 0x26, 0x00, 0x03, 'f', 'o', 'o', 0x00, 0x03, 'b', 'a', 'r'},
		{0x03, 0x0B, 0x80, 0x01},
		{0x0A, 0x11, 0x00, 0x00, 0x00, 0x3C, 0x11, 0x00, 0x00, 0x00, 0x78},
		{0x05, 0x01, 0x01},
		{0x80, 0x80, 0x80, 0x80, 0x01},
	}
	for _, seed := range seeds {
		f.Add(uint8(PUBLISH), seed)
		f.Add(uint8(CONNECT), seed)
	}

	f.Fuzz(func(t *testing.T, rawType uint8, data []byte) {
		pt := PacketType(rawType % 16)
		if rawType >= 240 {
			pt = WILLMESSAGE
		}

		props, n, err := Unpack(pt, data)
		if err != nil {
			assert.Nil(t, props)
			assert.Equal(t, ReasonMalformedPacket, GetReasonCode(err))
			return
		}
		require.LessOrEqual(t, n, len(data))

		streamed, m, err := ReadProperties(bytes.NewReader(data), pt)
		require.NoError(t, err)
		assert.Equal(t, n, m)
		assert.True(t, props.Equal(streamed))

		// Anything accepted re-encodes to a region the decoder accepts again.
		packed, err := props.Pack()
		require.NoError(t, err)
		assert.Equal(t, len(packed), props.Size())

		again, k, err := Unpack(pt, packed)
		require.NoError(t, err)
		assert.Equal(t, len(packed), k)
		assert.True(t, props.Equal(again))
	})
}
