package encoding

import (
	"encoding/binary"
)

// Readers take the unread tail of a buffer and return the value, the number
// of bytes consumed and an error. They never read past len(data), so callers
// bound a read by slicing data to the bytes still owed by the enclosing
// length prefix.

func readByte(data []byte) (byte, int, error) {
	if len(data) < 1 {
		return 0, 0, ErrTruncatedBuffer
	}
	return data[0], 1, nil
}

func readTwoByteInt(data []byte) (uint16, int, error) {
	if len(data) < 2 {
		return 0, 0, ErrTruncatedBuffer
	}
	return binary.BigEndian.Uint16(data), 2, nil
}

func readFourByteInt(data []byte) (uint32, int, error) {
	if len(data) < 4 {
		return 0, 0, ErrTruncatedBuffer
	}
	return binary.BigEndian.Uint32(data), 4, nil
}

// readLengthPrefixed returns a view of the bytes behind a two byte length.
func readLengthPrefixed(data []byte) ([]byte, int, error) {
	length, offset, err := readTwoByteInt(data)
	if err != nil {
		return nil, 0, err
	}
	end := offset + int(length)
	if end > len(data) {
		return nil, 0, ErrTruncatedBuffer
	}
	return data[offset:end], end, nil
}

func readUTF8String(data []byte) (string, int, error) {
	raw, n, err := readLengthPrefixed(data)
	if err != nil {
		return "", 0, err
	}
	if err := ValidateUTF8String(raw); err != nil {
		return "", 0, err
	}
	return string(raw), n, nil
}

func readUTF8Pair(data []byte) (StringPair, int, error) {
	key, n, err := readUTF8String(data)
	if err != nil {
		return StringPair{}, 0, err
	}
	value, m, err := readUTF8String(data[n:])
	if err != nil {
		return StringPair{}, 0, err
	}
	return StringPair{Key: key, Value: value}, n + m, nil
}

func readBinaryData(data []byte) ([]byte, int, error) {
	raw, n, err := readLengthPrefixed(data)
	if err != nil {
		return nil, 0, err
	}
	// The caller owns the input buffer, so the value gets its own copy.
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return buf, n, nil
}

func appendTwoByteInt(dst []byte, value uint16) []byte {
	return binary.BigEndian.AppendUint16(dst, value)
}

func appendFourByteInt(dst []byte, value uint32) []byte {
	return binary.BigEndian.AppendUint32(dst, value)
}

func appendBinaryData(dst []byte, value []byte) ([]byte, error) {
	if len(value) > 0xFFFF {
		return dst, ErrValueTooLong
	}
	dst = appendTwoByteInt(dst, uint16(len(value)))
	return append(dst, value...), nil
}

// appendUTF8String refuses to emit anything a conforming decoder would reject.
func appendUTF8String(dst []byte, value string) ([]byte, error) {
	if len(value) > 0xFFFF {
		return dst, ErrValueTooLong
	}
	if err := ValidateUTF8String([]byte(value)); err != nil {
		return dst, err
	}
	dst = appendTwoByteInt(dst, uint16(len(value)))
	return append(dst, value...), nil
}

func appendUTF8Pair(dst []byte, value StringPair) ([]byte, error) {
	out, err := appendUTF8String(dst, value.Key)
	if err != nil {
		return dst, err
	}
	out, err = appendUTF8String(out, value.Value)
	if err != nil {
		return dst, err
	}
	return out, nil
}
