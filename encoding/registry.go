package encoding

import (
	"slices"
	"strings"
)

// PropertyID represents MQTT 5.0 property identifiers.
// On the wire an identifier is a Variable Byte Integer.
type PropertyID uint32

const (
	PropPayloadFormatIndicator          PropertyID = 0x01
	PropMessageExpiryInterval           PropertyID = 0x02
	PropContentType                     PropertyID = 0x03
	PropResponseTopic                   PropertyID = 0x08
	PropCorrelationData                 PropertyID = 0x09
	PropSubscriptionIdentifier          PropertyID = 0x0B
	PropSessionExpiryInterval           PropertyID = 0x11
	PropAssignedClientIdentifier        PropertyID = 0x12
	PropServerKeepAlive                 PropertyID = 0x13
	PropAuthenticationMethod            PropertyID = 0x15
	PropAuthenticationData              PropertyID = 0x16
	PropRequestProblemInformation       PropertyID = 0x17
	PropWillDelayInterval               PropertyID = 0x18
	PropRequestResponseInformation      PropertyID = 0x19
	PropResponseInformation             PropertyID = 0x1A
	PropServerReference                 PropertyID = 0x1C
	PropReasonString                    PropertyID = 0x1F
	PropReceiveMaximum                  PropertyID = 0x21
	PropTopicAliasMaximum               PropertyID = 0x22
	PropTopicAlias                      PropertyID = 0x23
	PropMaximumQoS                      PropertyID = 0x24
	PropRetainAvailable                 PropertyID = 0x25
	PropUserProperty                    PropertyID = 0x26
	PropMaximumPacketSize               PropertyID = 0x27
	PropWildcardSubscriptionAvailable   PropertyID = 0x28
	PropSubscriptionIdentifierAvailable PropertyID = 0x29
	PropSharedSubscriptionAvailable     PropertyID = 0x2A
)

// ValueType represents the wire data type of a property
type ValueType byte

const (
	ValueTypeByte        ValueType = 1
	ValueTypeTwoByteInt  ValueType = 2
	ValueTypeFourByteInt ValueType = 3
	ValueTypeVarInt      ValueType = 4
	ValueTypeUTF8String  ValueType = 5
	ValueTypeUTF8Pair    ValueType = 6
	ValueTypeBinaryData  ValueType = 7
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeByte:
		return "Byte"
	case ValueTypeTwoByteInt:
		return "Two Byte Integer"
	case ValueTypeFourByteInt:
		return "Four Byte Integer"
	case ValueTypeVarInt:
		return "Variable Byte Integer"
	case ValueTypeUTF8String:
		return "UTF-8 Encoded String"
	case ValueTypeUTF8Pair:
		return "UTF-8 String Pair"
	case ValueTypeBinaryData:
		return "Binary Data"
	default:
		return "UNKNOWN"
	}
}

// valueRange is an inclusive numeric bound checked on every insert.
type valueRange struct {
	min, max uint32
}

// PropertyDescriptor is the static definition of one property.
type PropertyDescriptor struct {
	ID         PropertyID
	Name       string
	Type       ValueType
	Repeatable bool

	packets []PacketType
	bound   *valueRange
}

// AllowedOn reports whether the property may appear on packets of type t.
func (d PropertyDescriptor) AllowedOn(t PacketType) bool {
	return slices.Contains(d.packets, t)
}

// Packets returns the packet types the property may appear on.
func (d PropertyDescriptor) Packets() []PacketType {
	return slices.Clone(d.packets)
}

// Bounds returns the inclusive numeric range enforced for the property, if any.
func (d PropertyDescriptor) Bounds() (lo, hi uint32, ok bool) {
	if d.bound == nil {
		return 0, 0, false
	}
	return d.bound.min, d.bound.max, true
}

var (
	willAndPublish = []PacketType{PUBLISH, WILLMESSAGE}
	connectConnack = []PacketType{CONNECT, CONNACK}
	connackOnly    = []PacketType{CONNACK}
	authExchange   = []PacketType{CONNECT, CONNACK, AUTH}

	reasonStringPackets = []PacketType{
		CONNACK, PUBACK, PUBREC, PUBREL, PUBCOMP, SUBACK, UNSUBACK, DISCONNECT, AUTH,
	}
	userPropertyPackets = []PacketType{
		CONNECT, CONNACK, PUBLISH, PUBACK, PUBREC, PUBREL, PUBCOMP,
		SUBSCRIBE, SUBACK, UNSUBSCRIBE, UNSUBACK, DISCONNECT, AUTH, WILLMESSAGE,
	}

	flagRange     = &valueRange{0, 1}
	nonZeroUint16 = &valueRange{1, 0xFFFF}
	anyUint16     = &valueRange{0, 0xFFFF}
	nonZeroVarInt = &valueRange{1, MaxVariableByteInteger}
)

// descriptors is ordered by identifier; Pack walks it in this order.
var descriptors = []PropertyDescriptor{
	{ID: PropPayloadFormatIndicator, Name: "Payload Format Indicator", Type: ValueTypeByte, packets: willAndPublish, bound: flagRange},
	{ID: PropMessageExpiryInterval, Name: "Message Expiry Interval", Type: ValueTypeFourByteInt, packets: willAndPublish},
	{ID: PropContentType, Name: "Content Type", Type: ValueTypeUTF8String, packets: willAndPublish},
	{ID: PropResponseTopic, Name: "Response Topic", Type: ValueTypeUTF8String, packets: willAndPublish},
	{ID: PropCorrelationData, Name: "Correlation Data", Type: ValueTypeBinaryData, packets: willAndPublish},
	{ID: PropSubscriptionIdentifier, Name: "Subscription Identifier", Type: ValueTypeVarInt, Repeatable: true, packets: []PacketType{PUBLISH, SUBSCRIBE}, bound: nonZeroVarInt},
	{ID: PropSessionExpiryInterval, Name: "Session Expiry Interval", Type: ValueTypeFourByteInt, packets: []PacketType{CONNECT, CONNACK, DISCONNECT}},
	{ID: PropAssignedClientIdentifier, Name: "Assigned Client Identifier", Type: ValueTypeUTF8String, packets: connackOnly},
	{ID: PropServerKeepAlive, Name: "Server Keep Alive", Type: ValueTypeTwoByteInt, packets: connackOnly},
	{ID: PropAuthenticationMethod, Name: "Authentication Method", Type: ValueTypeUTF8String, packets: authExchange},
	{ID: PropAuthenticationData, Name: "Authentication Data", Type: ValueTypeBinaryData, packets: authExchange},
	{ID: PropRequestProblemInformation, Name: "Request Problem Information", Type: ValueTypeByte, packets: []PacketType{CONNECT}, bound: flagRange},
	{ID: PropWillDelayInterval, Name: "Will Delay Interval", Type: ValueTypeFourByteInt, packets: []PacketType{WILLMESSAGE}},
	{ID: PropRequestResponseInformation, Name: "Request Response Information", Type: ValueTypeByte, packets: []PacketType{CONNECT}, bound: flagRange},
	{ID: PropResponseInformation, Name: "Response Information", Type: ValueTypeUTF8String, packets: connackOnly},
	{ID: PropServerReference, Name: "Server Reference", Type: ValueTypeUTF8String, packets: []PacketType{CONNACK, DISCONNECT}},
	{ID: PropReasonString, Name: "Reason String", Type: ValueTypeUTF8String, packets: reasonStringPackets},
	{ID: PropReceiveMaximum, Name: "Receive Maximum", Type: ValueTypeTwoByteInt, packets: connectConnack, bound: nonZeroUint16},
	{ID: PropTopicAliasMaximum, Name: "Topic Alias Maximum", Type: ValueTypeTwoByteInt, packets: connectConnack, bound: anyUint16},
	{ID: PropTopicAlias, Name: "Topic Alias", Type: ValueTypeTwoByteInt, packets: []PacketType{PUBLISH}, bound: nonZeroUint16},
	{ID: PropMaximumQoS, Name: "Maximum QoS", Type: ValueTypeByte, packets: connackOnly},
	{ID: PropRetainAvailable, Name: "Retain Available", Type: ValueTypeByte, packets: connackOnly},
	{ID: PropUserProperty, Name: "User Property", Type: ValueTypeUTF8Pair, Repeatable: true, packets: userPropertyPackets},
	{ID: PropMaximumPacketSize, Name: "Maximum Packet Size", Type: ValueTypeFourByteInt, packets: connectConnack, bound: nonZeroVarInt},
	{ID: PropWildcardSubscriptionAvailable, Name: "Wildcard Subscription Available", Type: ValueTypeByte, packets: connackOnly},
	{ID: PropSubscriptionIdentifierAvailable, Name: "Subscription Identifier Available", Type: ValueTypeByte, packets: connackOnly},
	{ID: PropSharedSubscriptionAvailable, Name: "Shared Subscription Available", Type: ValueTypeByte, packets: connackOnly},
}

var (
	descriptorIndex = make(map[PropertyID]*PropertyDescriptor, len(descriptors))
	nameIndex       = make(map[string]PropertyID, len(descriptors))
)

func init() {
	for i := range descriptors {
		d := &descriptors[i]
		descriptorIndex[d.ID] = d
		nameIndex[canonicalName(d.Name)] = d.ID
	}
}

func canonicalName(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

// Lookup returns the descriptor registered for id.
func Lookup(id PropertyID) (PropertyDescriptor, bool) {
	d, ok := descriptorIndex[id]
	if !ok {
		return PropertyDescriptor{}, false
	}
	return *d, true
}

// IdentifierFromName resolves a property name such as "Receive Maximum" or
// "ReceiveMaximum". Spaces are ignored; matching is case-sensitive.
func IdentifierFromName(name string) (PropertyID, bool) {
	id, ok := nameIndex[canonicalName(name)]
	return id, ok
}

// Descriptors returns every registered property in identifier order.
func Descriptors() []PropertyDescriptor {
	return slices.Clone(descriptors)
}

// Repeatable reports whether the property may appear more than once in one
// properties region. Unknown identifiers are not repeatable.
func (id PropertyID) Repeatable() bool {
	d, ok := descriptorIndex[id]
	return ok && d.Repeatable
}

// String returns the property name without spaces, e.g. "ReceiveMaximum".
func (id PropertyID) String() string {
	if d, ok := descriptorIndex[id]; ok {
		return canonicalName(d.Name)
	}
	return "UNKNOWN"
}
