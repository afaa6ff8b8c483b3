package encoding

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacketError(t *testing.T) {
	t.Run("Error method with message", func(t *testing.T) {
		pktErr := &PacketError{
			Err:        ErrMalformedVariableByteInteger,
			ReasonCode: ReasonMalformedPacket,
			Message:    "properties length",
		}
		expected := "malformed packet: malformed variable byte integer: properties length"
		assert.Equal(t, expected, pktErr.Error())
	})

	t.Run("Error method without message", func(t *testing.T) {
		pktErr := &PacketError{
			Err:        ErrTruncatedBuffer,
			ReasonCode: ReasonMalformedPacket,
		}
		assert.Equal(t, "malformed packet: truncated buffer", pktErr.Error())
	})

	t.Run("protocol error heading", func(t *testing.T) {
		pktErr := &PacketError{Err: ErrValueOutOfRange, ReasonCode: ReasonProtocolError}
		assert.Equal(t, "protocol error: property value out of range", pktErr.Error())
	})

	t.Run("Unwrap method", func(t *testing.T) {
		pktErr := NewMalformedPacketError(ErrTruncatedBuffer, "test")
		assert.Equal(t, ErrTruncatedBuffer, pktErr.Unwrap())
	})
}

func TestPropertyError(t *testing.T) {
	tests := []struct {
		name     string
		err      *PropertyError
		expected string
	}{
		{
			name:     "unknown identifier",
			err:      &PropertyError{Err: ErrUnknownProperty, ID: 0x30},
			expected: "unknown property: identifier 48",
		},
		{
			name:     "not applicable",
			err:      &PropertyError{Err: ErrPropertyNotApplicable, ID: PropWillDelayInterval, PacketType: PUBACK},
			expected: "property not applicable to packet type: WillDelayInterval on PUBACK",
		},
		{
			name:     "out of range",
			err:      &PropertyError{Err: ErrValueOutOfRange, ID: PropReceiveMaximum, Value: 0, HasValue: true},
			expected: "property value out of range: ReceiveMaximum = 0",
		},
		{
			name:     "duplicate",
			err:      &PropertyError{Err: ErrDuplicateProperty, ID: PropSessionExpiryInterval},
			expected: "duplicate property: SessionExpiryInterval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.err.Err)
		})
	}
}

func TestGetReasonCode(t *testing.T) {
	tests := []struct {
		name               string
		err                error
		expectedReasonCode ReasonCode
	}{
		{name: "nil", err: nil, expectedReasonCode: ReasonSuccess},
		{name: "PacketError with malformed packet", err: NewMalformedPacketError(ErrValueOutOfRange, "test"), expectedReasonCode: ReasonMalformedPacket},
		{name: "PacketError with protocol error", err: &PacketError{Err: ErrTruncatedBuffer, ReasonCode: ReasonProtocolError}, expectedReasonCode: ReasonProtocolError},
		{name: "ErrMalformedVariableByteInteger", err: ErrMalformedVariableByteInteger, expectedReasonCode: ReasonMalformedPacket},
		{name: "ErrTruncatedBuffer", err: ErrTruncatedBuffer, expectedReasonCode: ReasonMalformedPacket},
		{name: "UTF8Error", err: &UTF8Error{Reason: UTF8ReasonNul}, expectedReasonCode: ReasonMalformedPacket},
		{name: "duplicate property", err: &PropertyError{Err: ErrDuplicateProperty}, expectedReasonCode: ReasonMalformedPacket},
		{name: "not applicable", err: &PropertyError{Err: ErrPropertyNotApplicable}, expectedReasonCode: ReasonProtocolError},
		{name: "out of range", err: &PropertyError{Err: ErrValueOutOfRange}, expectedReasonCode: ReasonProtocolError},
		{name: "vbi overflow", err: fmt.Errorf("%w: 1", ErrVariableByteIntegerTooLarge), expectedReasonCode: ReasonPacketTooLarge},
		{name: "value too long", err: ErrValueTooLong, expectedReasonCode: ReasonPacketTooLarge},
		{name: "Unknown error", err: errors.New("unknown error"), expectedReasonCode: ReasonUnspecifiedError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedReasonCode, GetReasonCode(tt.err))
		})
	}
}

func TestErrorPropagation(t *testing.T) {
	t.Run("Error chain with Is", func(t *testing.T) {
		pktErr := NewMalformedPacketError(&PropertyError{Err: ErrDuplicateProperty, ID: PropTopicAlias}, "")
		assert.True(t, errors.Is(pktErr, ErrDuplicateProperty))
	})

	t.Run("Error chain with As", func(t *testing.T) {
		pktErr := NewMalformedPacketError(&PropertyError{Err: ErrDuplicateProperty, ID: PropTopicAlias}, "")
		var target *PropertyError
		require.True(t, errors.As(pktErr, &target))
		assert.Equal(t, PropTopicAlias, target.ID)
	})
}

func TestReasonCodeMapping(t *testing.T) {
	tests := []struct {
		reasonCode ReasonCode
		value      byte
		name       string
	}{
		{ReasonSuccess, 0x00, "Success"},
		{ReasonUnspecifiedError, 0x80, "UnspecifiedError"},
		{ReasonMalformedPacket, 0x81, "MalformedPacket"},
		{ReasonProtocolError, 0x82, "ProtocolError"},
		{ReasonImplementationSpecificError, 0x83, "ImplementationSpecificError"},
		{ReasonPacketTooLarge, 0x95, "PacketTooLarge"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.value, byte(tt.reasonCode))
		assert.Equal(t, tt.name, tt.reasonCode.String())
		assert.Equal(t, tt.value >= 0x80, tt.reasonCode.IsError())
	}
	assert.Equal(t, "UNKNOWN", ReasonCode(0x42).String())
}
