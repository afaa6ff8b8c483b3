package encoding

import (
	"unicode/utf8"
)

// ValidateUTF8String validates a UTF-8 encoded string according to MQTT specification.
// MQTT 5.0 Section 1.5.4 specifies that UTF-8 Encoded Strings must:
// - Be valid UTF-8 as defined in RFC 3629
// - Not include code points between U+D800 and U+DFFF (MQTT-1.5.4-1)
// - Not include null character U+0000 (MQTT-1.5.4-2)
// - Not include U+FEFF anywhere in the string (MQTT-1.5.4-3)
//
// Violations are returned as *UTF8Error; nothing is stripped.
func ValidateUTF8String(data []byte) error {
	for i := 0; i < len(data); {
		b := data[i]
		if b < utf8.RuneSelf {
			if b == 0 {
				return &UTF8Error{Reason: UTF8ReasonNul, Offset: i}
			}
			i++
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			if isEncodedSurrogate(data[i:]) {
				return &UTF8Error{Reason: UTF8ReasonSurrogate, Offset: i}
			}
			return &UTF8Error{Reason: UTF8ReasonEncoding, Offset: i}
		}
		if r == 0xFEFF {
			return &UTF8Error{Reason: UTF8ReasonBOM, Offset: i}
		}

		i += size
	}

	return nil
}

// isEncodedSurrogate reports whether data starts with the three byte form
// ED A0..BF 80..BF, which the Go decoder rejects as plain invalid UTF-8.
func isEncodedSurrogate(data []byte) bool {
	return len(data) >= 3 &&
		data[0] == 0xED &&
		data[1] >= 0xA0 && data[1] <= 0xBF &&
		data[2] >= 0x80 && data[2] <= 0xBF
}

// ValidateUTF8StringStrict additionally rejects the code points the MQTT
// specification says SHOULD NOT appear: control characters other than tab,
// newline and carriage return, and Unicode non-characters.
func ValidateUTF8StringStrict(data []byte) error {
	if err := ValidateUTF8String(data); err != nil {
		return err
	}

	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])

		if (r >= 0x0001 && r <= 0x001F && r != 0x0009 && r != 0x000A && r != 0x000D) ||
			(r >= 0x007F && r <= 0x009F) {
			return &UTF8Error{Reason: UTF8ReasonControl, Offset: i}
		}
		if isNonCharacter(r) {
			return &UTF8Error{Reason: UTF8ReasonNonCharacter, Offset: i}
		}

		i += size
	}

	return nil
}

func isNonCharacter(r rune) bool {
	if r >= 0xFDD0 && r <= 0xFDEF {
		return true
	}
	// U+nFFFE and U+nFFFF in every plane
	return r&0xFFFE == 0xFFFE
}

// IsValidUTF8String is a convenience function that returns true if the data is valid
func IsValidUTF8String(data []byte) bool {
	return ValidateUTF8String(data) == nil
}

// IsValidUTF8StringStrict is a convenience function for strict validation
func IsValidUTF8StringStrict(data []byte) bool {
	return ValidateUTF8StringStrict(data) == nil
}
