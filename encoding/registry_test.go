package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptors_Table(t *testing.T) {
	all := Descriptors()
	require.Len(t, all, 27)

	for i := 1; i < len(all); i++ {
		assert.Less(t, uint32(all[i-1].ID), uint32(all[i].ID), "descriptors must be ordered by identifier")
	}

	for _, d := range all {
		assert.GreaterOrEqual(t, uint32(d.ID), uint32(1))
		assert.LessOrEqual(t, uint32(d.ID), uint32(42))
		assert.NotEmpty(t, d.Packets(), d.Name)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		id         PropertyID
		name       string
		valueType  ValueType
		repeatable bool
	}{
		{PropPayloadFormatIndicator, "Payload Format Indicator", ValueTypeByte, false},
		{PropMessageExpiryInterval, "Message Expiry Interval", ValueTypeFourByteInt, false},
		{PropCorrelationData, "Correlation Data", ValueTypeBinaryData, false},
		{PropSubscriptionIdentifier, "Subscription Identifier", ValueTypeVarInt, true},
		{PropServerKeepAlive, "Server Keep Alive", ValueTypeTwoByteInt, false},
		{PropReasonString, "Reason String", ValueTypeUTF8String, false},
		{PropUserProperty, "User Property", ValueTypeUTF8Pair, true},
		{PropSharedSubscriptionAvailable, "Shared Subscription Available", ValueTypeByte, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Lookup(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.id, d.ID)
			assert.Equal(t, tt.name, d.Name)
			assert.Equal(t, tt.valueType, d.Type)
			assert.Equal(t, tt.repeatable, d.Repeatable)
			assert.Equal(t, tt.repeatable, tt.id.Repeatable())
		})
	}

	_, ok := Lookup(0x04)
	assert.False(t, ok, "0x04 is not a registered property")
	_, ok = Lookup(0)
	assert.False(t, ok)
}

func TestPropertyDescriptor_AllowedOn(t *testing.T) {
	tests := []struct {
		id      PropertyID
		allowed []PacketType
		denied  []PacketType
	}{
		{PropWillDelayInterval, []PacketType{WILLMESSAGE}, []PacketType{CONNECT, PUBLISH, PUBACK}},
		{PropTopicAlias, []PacketType{PUBLISH}, []PacketType{CONNECT, WILLMESSAGE}},
		{PropSubscriptionIdentifier, []PacketType{PUBLISH, SUBSCRIBE}, []PacketType{SUBACK}},
		{PropSessionExpiryInterval, []PacketType{CONNECT, CONNACK, DISCONNECT}, []PacketType{PUBLISH, AUTH}},
		{PropReasonString, []PacketType{CONNACK, PUBACK, SUBACK, DISCONNECT, AUTH}, []PacketType{CONNECT, PUBLISH, SUBSCRIBE}},
		{PropUserProperty, []PacketType{CONNECT, PUBLISH, UNSUBSCRIBE, AUTH, WILLMESSAGE}, []PacketType{PINGREQ, PINGRESP}},
		{PropAuthenticationMethod, []PacketType{CONNECT, CONNACK, AUTH}, []PacketType{DISCONNECT}},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			d, ok := Lookup(tt.id)
			require.True(t, ok)
			for _, pt := range tt.allowed {
				assert.True(t, d.AllowedOn(pt), "%s should be allowed on %s", tt.id, pt)
			}
			for _, pt := range tt.denied {
				assert.False(t, d.AllowedOn(pt), "%s should not be allowed on %s", tt.id, pt)
			}
		})
	}
}

func TestPropertyDescriptor_Bounds(t *testing.T) {
	tests := []struct {
		id     PropertyID
		lo, hi uint32
		ok     bool
	}{
		{PropReceiveMaximum, 1, 65535, true},
		{PropTopicAlias, 1, 65535, true},
		{PropTopicAliasMaximum, 0, 65535, true},
		{PropMaximumPacketSize, 1, MaxVariableByteInteger, true},
		{PropSubscriptionIdentifier, 1, MaxVariableByteInteger, true},
		{PropRequestResponseInformation, 0, 1, true},
		{PropRequestProblemInformation, 0, 1, true},
		{PropPayloadFormatIndicator, 0, 1, true},
		{PropMessageExpiryInterval, 0, 0, false},
	}

	for _, tt := range tests {
		d, _ := Lookup(tt.id)
		lo, hi, ok := d.Bounds()
		assert.Equal(t, tt.ok, ok, tt.id.String())
		assert.Equal(t, tt.lo, lo, tt.id.String())
		assert.Equal(t, tt.hi, hi, tt.id.String())
	}
}

func TestIdentifierFromName(t *testing.T) {
	tests := []struct {
		name string
		id   PropertyID
		ok   bool
	}{
		{"Receive Maximum", PropReceiveMaximum, true},
		{"ReceiveMaximum", PropReceiveMaximum, true},
		{" Receive  Maximum ", PropReceiveMaximum, true},
		{"User Property", PropUserProperty, true},
		{"MaximumQoS", PropMaximumQoS, true},
		{"receive maximum", 0, false},
		{"Receive_Maximum", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := IdentifierFromName(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestPropertyID_String(t *testing.T) {
	assert.Equal(t, "PayloadFormatIndicator", PropPayloadFormatIndicator.String())
	assert.Equal(t, "SubscriptionIdentifierAvailable", PropSubscriptionIdentifierAvailable.String())
	assert.Equal(t, "UNKNOWN", PropertyID(0x7F).String())
	assert.False(t, PropertyID(0x7F).Repeatable())
}

func TestDescriptors_ReturnsCopy(t *testing.T) {
	all := Descriptors()
	all[0].Name = "changed"
	d, _ := Lookup(PropPayloadFormatIndicator)
	assert.Equal(t, "Payload Format Indicator", d.Name)

	packets := d.Packets()
	packets[0] = AUTH
	assert.False(t, d.AllowedOn(AUTH))
}

func TestValueType_String(t *testing.T) {
	assert.Equal(t, "Variable Byte Integer", ValueTypeVarInt.String())
	assert.Equal(t, "UTF-8 String Pair", ValueTypeUTF8Pair.String())
	assert.Equal(t, "UNKNOWN", ValueType(0).String())
}

func TestPacketType(t *testing.T) {
	assert.Equal(t, "WILLMESSAGE", WILLMESSAGE.String())
	assert.Equal(t, "UNKNOWN", PacketType(42).String())
	assert.True(t, AUTH.HasProperties())
	assert.False(t, PINGREQ.HasProperties())
	assert.Equal(t, "PUBLISH", PUBLISH.String())
}
