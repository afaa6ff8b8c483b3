package encoding

import (
	"errors"
	"fmt"
)

var (
	// ErrVariableByteIntegerTooLarge indicates the value exceeds the maximum encodable value (268,435,455)
	ErrVariableByteIntegerTooLarge = errors.New("variable byte integer value exceeds maximum (268,435,455)")

	// ErrMalformedVariableByteInteger indicates invalid variable byte integer encoding
	ErrMalformedVariableByteInteger = errors.New("malformed variable byte integer")

	// ErrTruncatedBuffer indicates a declared length runs past the end of the input
	ErrTruncatedBuffer = errors.New("truncated buffer")

	// ErrValueTooLong indicates a string or binary value does not fit a two byte length prefix
	ErrValueTooLong = errors.New("value exceeds 65535 bytes")

	ErrMalformedPacket = errors.New("malformed packet")
	ErrProtocolError   = errors.New("protocol error")

	ErrInvalidUTF8 = errors.New("invalid UTF-8 string")

	ErrUnknownProperty       = errors.New("unknown property")
	ErrPropertyNotApplicable = errors.New("property not applicable to packet type")
	ErrDuplicateProperty     = errors.New("duplicate property")
	ErrValueOutOfRange       = errors.New("property value out of range")
	ErrValueTypeMismatch     = errors.New("property value type mismatch")
)

// UTF8Reason names the MQTT string rule a value violated.
type UTF8Reason byte

const (
	// UTF8ReasonEncoding means the bytes are not well-formed UTF-8.
	UTF8ReasonEncoding UTF8Reason = iota
	// UTF8ReasonSurrogate means a code point in U+D800..U+DFFF (MQTT-1.5.4-1).
	UTF8ReasonSurrogate
	// UTF8ReasonNul means the null character U+0000 (MQTT-1.5.4-2).
	UTF8ReasonNul
	// UTF8ReasonBOM means the zero width no-break space U+FEFF (MQTT-1.5.4-3).
	UTF8ReasonBOM
	// UTF8ReasonControl means a control character, rejected in strict mode only.
	UTF8ReasonControl
	// UTF8ReasonNonCharacter means a Unicode non-character, rejected in strict mode only.
	UTF8ReasonNonCharacter
)

func (r UTF8Reason) String() string {
	switch r {
	case UTF8ReasonEncoding:
		return "encoding"
	case UTF8ReasonSurrogate:
		return "surrogate"
	case UTF8ReasonNul:
		return "nul"
	case UTF8ReasonBOM:
		return "bom"
	case UTF8ReasonControl:
		return "control character"
	case UTF8ReasonNonCharacter:
		return "non-character"
	default:
		return "unknown"
	}
}

// UTF8Error reports a string that fails MQTT UTF-8 validation.
type UTF8Error struct {
	Reason UTF8Reason
	Offset int // byte offset of the offending code point
}

func (e *UTF8Error) Error() string {
	return fmt.Sprintf("%s: %s at byte %d", ErrInvalidUTF8, e.Reason, e.Offset)
}

func (e *UTF8Error) Unwrap() error {
	return ErrInvalidUTF8
}

// PropertyError carries the property a container operation failed on.
type PropertyError struct {
	Err        error
	ID         PropertyID
	PacketType PacketType
	Value      uint64
	HasValue   bool
}

func (e *PropertyError) Error() string {
	switch {
	case errors.Is(e.Err, ErrPropertyNotApplicable):
		return fmt.Sprintf("%s: %s on %s", e.Err, e.ID, e.PacketType)
	case e.HasValue:
		return fmt.Sprintf("%s: %s = %d", e.Err, e.ID, e.Value)
	case errors.Is(e.Err, ErrUnknownProperty):
		return fmt.Sprintf("%s: identifier %d", e.Err, uint32(e.ID))
	default:
		return fmt.Sprintf("%s: %s", e.Err, e.ID)
	}
}

func (e *PropertyError) Unwrap() error {
	return e.Err
}

// PacketError pairs a decode failure with the reason code a server or client
// should report when closing the connection.
type PacketError struct {
	Err        error
	ReasonCode ReasonCode
	Message    string
}

func (e *PacketError) Error() string {
	head := ErrMalformedPacket.Error()
	if e.ReasonCode == ReasonProtocolError {
		head = ErrProtocolError.Error()
	}
	if e.Err != nil {
		head += ": " + e.Err.Error()
	}
	if e.Message != "" {
		head += ": " + e.Message
	}
	return head
}

func (e *PacketError) Unwrap() error {
	return e.Err
}

// NewMalformedPacketError wraps err as a Malformed Packet (0x81).
func NewMalformedPacketError(err error, message string) *PacketError {
	return &PacketError{
		Err:        err,
		ReasonCode: ReasonMalformedPacket,
		Message:    message,
	}
}

// GetReasonCode maps an error returned by this package to an MQTT reason code.
func GetReasonCode(err error) ReasonCode {
	if err == nil {
		return ReasonSuccess
	}

	var pktErr *PacketError
	if errors.As(err, &pktErr) {
		return pktErr.ReasonCode
	}

	switch {
	case errors.Is(err, ErrMalformedPacket),
		errors.Is(err, ErrMalformedVariableByteInteger),
		errors.Is(err, ErrTruncatedBuffer),
		errors.Is(err, ErrInvalidUTF8),
		errors.Is(err, ErrUnknownProperty),
		errors.Is(err, ErrDuplicateProperty):
		return ReasonMalformedPacket
	case errors.Is(err, ErrPropertyNotApplicable),
		errors.Is(err, ErrValueOutOfRange):
		return ReasonProtocolError
	case errors.Is(err, ErrVariableByteIntegerTooLarge),
		errors.Is(err, ErrValueTooLong):
		return ReasonPacketTooLarge
	default:
		return ReasonUnspecifiedError
	}
}
