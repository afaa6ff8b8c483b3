package encoding

// ReasonCode represents MQTT 5.0 reason codes
type ReasonCode byte

// Reason codes a properties decoder can surface to the connection layer.
const (
	ReasonSuccess                     ReasonCode = 0x00
	ReasonUnspecifiedError            ReasonCode = 0x80
	ReasonMalformedPacket             ReasonCode = 0x81
	ReasonProtocolError               ReasonCode = 0x82
	ReasonImplementationSpecificError ReasonCode = 0x83
	ReasonPacketTooLarge              ReasonCode = 0x95
)

// String returns human-readable reason code name
func (rc ReasonCode) String() string {
	switch rc {
	case ReasonSuccess:
		return "Success"
	case ReasonUnspecifiedError:
		return "UnspecifiedError"
	case ReasonMalformedPacket:
		return "MalformedPacket"
	case ReasonProtocolError:
		return "ProtocolError"
	case ReasonImplementationSpecificError:
		return "ImplementationSpecificError"
	case ReasonPacketTooLarge:
		return "PacketTooLarge"
	default:
		return "UNKNOWN"
	}
}

// IsError reports whether the reason code signals a failure (0x80 and above).
func (rc ReasonCode) IsError() bool {
	return rc >= 0x80
}
