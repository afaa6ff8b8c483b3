package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Strings the decoder refuses must also be refused by the encoder, so a set
// built in memory can never produce a region its peer would reject.
func TestUTF8ValidationSymmetry(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"plain", "text/plain", true},
		{"emoji", "😀", true},
		{"control character", "a\x01", true},
		{"non-character", "\uFFFF", true},
		{"null", "te\x00st", false},
		{"bom", "\uFEFFtext", false},
		{"invalid sequence", "\xC3\x28", false},
		{"surrogate", "\xED\xA0\x80", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := NewProperties(PUBLISH)
			require.NoError(t, props.Set(PropContentType, String(tt.value)))

			packed, packErr := props.Pack()

			raw := []byte{byte(3 + len(tt.value)), byte(PropContentType), 0x00, byte(len(tt.value))}
			raw = append(raw, tt.value...)
			_, _, unpackErr := Unpack(PUBLISH, raw)

			if tt.valid {
				require.NoError(t, packErr)
				require.NoError(t, unpackErr)
				assert.Equal(t, raw, packed)
				return
			}
			assert.ErrorIs(t, packErr, ErrInvalidUTF8)
			assert.ErrorIs(t, unpackErr, ErrInvalidUTF8)
		})
	}
}
