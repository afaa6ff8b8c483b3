package encoding

import (
	"errors"
	"fmt"
	"io"
)

// Variable Byte Integer encoding/decoding per MQTT 5.0 section 1.5.5.
//
// Seven data bits per byte, least significant group first, bit 7 set when
// another byte follows. At most 4 bytes, so the largest value is
// 268,435,455 (0xFF,0xFF,0xFF,0x7F). Encoders must use the minimum number
// of bytes (MQTT-1.5.5-1); the loop below does so by construction.

const (
	// MaxVariableByteInteger is the maximum value that can be encoded (268,435,455)
	MaxVariableByteInteger uint32 = 268435455 // 0x0FFFFFFF

	// MaxVariableByteIntegerBytes is the maximum number of bytes in a variable byte integer
	MaxVariableByteIntegerBytes = 4
)

func errVariableByteIntegerTooLarge(value uint32) error {
	return fmt.Errorf("%w: %d", ErrVariableByteIntegerTooLarge, value)
}

// EncodeVariableByteInteger encodes a uint32 as MQTT Variable Byte Integer.
//
// Per MQTT spec:
// - Values 0-127: 1 byte
// - Values 128-16,383: 2 bytes
// - Values 16,384-2,097,151: 3 bytes
// - Values 2,097,152-268,435,455: 4 bytes
// - Values > 268,435,455: error
func EncodeVariableByteInteger(value uint32) ([]byte, error) {
	if value > MaxVariableByteInteger {
		return nil, errVariableByteIntegerTooLarge(value)
	}
	return AppendVariableByteInteger(make([]byte, 0, SizeVariableByteInteger(value)), value)
}

// AppendVariableByteInteger appends the encoding of value to dst and returns
// the extended slice. dst is returned unchanged on error.
func AppendVariableByteInteger(dst []byte, value uint32) ([]byte, error) {
	if value > MaxVariableByteInteger {
		return dst, errVariableByteIntegerTooLarge(value)
	}

	for {
		encodedByte := byte(value % 128)
		value /= 128

		if value > 0 {
			encodedByte |= 0x80
		}
		dst = append(dst, encodedByte)

		if value == 0 {
			return dst, nil
		}
	}
}

// DecodeVariableByteInteger decodes MQTT Variable Byte Integer from a reader.
// Returns the decoded value, the number of bytes consumed and any error.
func DecodeVariableByteInteger(r io.Reader) (uint32, int, error) {
	var value uint32
	var multiplier uint32 = 1
	var buf [1]byte

	for i := 0; i < MaxVariableByteIntegerBytes; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return 0, 0, ErrTruncatedBuffer
			}
			return 0, 0, err
		}

		value += uint32(buf[0]&0x7F) * multiplier
		if buf[0]&0x80 == 0 {
			return value, i + 1, nil
		}
		multiplier *= 128
	}

	// Fourth byte still had its continuation bit set
	return 0, 0, ErrMalformedVariableByteInteger
}

// DecodeVariableByteIntegerFromBytes decodes MQTT Variable Byte Integer from a byte slice.
// Returns the decoded value, number of bytes consumed, and any error.
func DecodeVariableByteIntegerFromBytes(data []byte) (uint32, int, error) {
	var value uint32
	var multiplier uint32 = 1

	for i := 0; i < MaxVariableByteIntegerBytes; i++ {
		if i >= len(data) {
			return 0, 0, ErrTruncatedBuffer
		}

		encodedByte := data[i]
		value += uint32(encodedByte&0x7F) * multiplier
		if encodedByte&0x80 == 0 {
			return value, i + 1, nil
		}
		multiplier *= 128
	}

	return 0, 0, ErrMalformedVariableByteInteger
}

// SizeVariableByteInteger returns the number of bytes required to encode the given value.
// Returns 0 if the value is too large to encode.
func SizeVariableByteInteger(value uint32) int {
	switch {
	case value > MaxVariableByteInteger:
		return 0
	case value <= 127:
		return 1
	case value <= 16383:
		return 2
	case value <= 2097151:
		return 3
	default:
		return 4
	}
}
