package encoding

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Properties is the validated property set of a single packet.
//
// Every stored property is registered, applicable to the packet type the set
// was created for, within its numeric bound, and present once unless it is
// repeatable. A Properties value is not safe for concurrent mutation.
type Properties struct {
	packetType PacketType
	values     map[PropertyID][]Value
	strictUTF8 bool
}

// Option configures a property set.
type Option func(*Properties)

// WithStrictUTF8 makes the set also reject control characters and Unicode
// non-characters in string values, both on Set and while decoding.
func WithStrictUTF8() Option {
	return func(p *Properties) {
		p.strictUTF8 = true
	}
}

// NewProperties creates an empty property set scoped to packet type pt.
func NewProperties(pt PacketType, opts ...Option) *Properties {
	p := &Properties{
		packetType: pt,
		values:     make(map[PropertyID][]Value),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PacketType returns the packet type the set is scoped to.
func (p *Properties) PacketType() PacketType {
	return p.packetType
}

// Set stores v under id. Repeatable properties accumulate values in call
// order; any other property is overwritten.
//
// Numeric properties accept any integer variant (Byte, Uint16, Uint32 or
// VarInt); the value is range checked against the property's wire width and
// bound, then stored as the variant matching its wire type.
func (p *Properties) Set(id PropertyID, v Value) error {
	d, v, err := p.validate(id, v)
	if err != nil {
		return err
	}
	p.insert(d, cloneValue(v))
	return nil
}

// SetByName is Set with the property given by name, e.g. "Receive Maximum".
func (p *Properties) SetByName(name string, v Value) error {
	id, ok := IdentifierFromName(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	return p.Set(id, v)
}

func (p *Properties) validate(id PropertyID, v Value) (*PropertyDescriptor, Value, error) {
	d, ok := descriptorIndex[id]
	if !ok {
		return nil, nil, &PropertyError{Err: ErrUnknownProperty, ID: id}
	}
	if !d.AllowedOn(p.packetType) {
		return nil, nil, &PropertyError{Err: ErrPropertyNotApplicable, ID: id, PacketType: p.packetType}
	}
	if v == nil {
		return nil, nil, &PropertyError{Err: ErrValueTypeMismatch, ID: id}
	}

	if n, ok := numericValue(v); ok {
		limit, ok := wireLimit(d.Type)
		if !ok {
			return nil, nil, &PropertyError{Err: ErrValueTypeMismatch, ID: id}
		}
		if n > limit || (d.bound != nil && (n < uint64(d.bound.min) || n > uint64(d.bound.max))) {
			return nil, nil, &PropertyError{Err: ErrValueOutOfRange, ID: id, Value: n, HasValue: true}
		}
		return d, numericAs(d.Type, n), nil
	}

	if v.Type() != d.Type {
		return nil, nil, &PropertyError{Err: ErrValueTypeMismatch, ID: id}
	}
	if p.strictUTF8 {
		if err := validateStrictStrings(v); err != nil {
			return nil, nil, &PropertyError{Err: err, ID: id}
		}
	}
	return d, v, nil
}

func (p *Properties) insert(d *PropertyDescriptor, v Value) {
	if d.Repeatable {
		p.values[d.ID] = append(p.values[d.ID], v)
		return
	}
	p.values[d.ID] = []Value{v}
}

// Get returns the value of id, or the first value of a repeatable property.
func (p *Properties) Get(id PropertyID) (Value, bool) {
	vs := p.values[id]
	if len(vs) == 0 {
		return nil, false
	}
	return vs[0], true
}

// All returns every value stored under id in insertion order.
func (p *Properties) All(id PropertyID) []Value {
	return slices.Clone(p.values[id])
}

// Has reports whether id is set.
func (p *Properties) Has(id PropertyID) bool {
	return len(p.values[id]) > 0
}

// Delete removes id and all of its values.
func (p *Properties) Delete(id PropertyID) {
	delete(p.values, id)
}

// Len returns the number of distinct properties set.
func (p *Properties) Len() int {
	return len(p.values)
}

// IsEmpty reports whether no property is set.
func (p *Properties) IsEmpty() bool {
	return len(p.values) == 0
}

// Clear removes every property, keeping the packet type.
func (p *Properties) Clear() {
	clear(p.values)
}

// IDs returns the identifiers that are set, ascending.
func (p *Properties) IDs() []PropertyID {
	ids := make([]PropertyID, 0, len(p.values))
	for id := range p.values {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// UserProperties returns the User Property pairs in wire order.
func (p *Properties) UserProperties() []StringPair {
	vs := p.values[PropUserProperty]
	pairs := make([]StringPair, 0, len(vs))
	for _, v := range vs {
		pairs = append(pairs, v.(StringPair))
	}
	return pairs
}

// SubscriptionIdentifiers returns the Subscription Identifiers in wire order.
func (p *Properties) SubscriptionIdentifiers() []uint32 {
	vs := p.values[PropSubscriptionIdentifier]
	ids := make([]uint32, 0, len(vs))
	for _, v := range vs {
		ids = append(ids, uint32(v.(VarInt)))
	}
	return ids
}

// Clone returns a deep copy.
func (p *Properties) Clone() *Properties {
	c := NewProperties(p.packetType)
	c.strictUTF8 = p.strictUTF8
	for id, vs := range p.values {
		cp := make([]Value, len(vs))
		for i, v := range vs {
			cp[i] = cloneValue(v)
		}
		c.values[id] = cp
	}
	return c
}

// Equal reports whether both sets have the same packet type and values.
// Repeatable values are compared in order.
func (p *Properties) Equal(other *Properties) bool {
	if other == nil || p.packetType != other.packetType || len(p.values) != len(other.values) {
		return false
	}
	for id, vs := range p.values {
		ws, ok := other.values[id]
		if !ok || len(vs) != len(ws) {
			return false
		}
		for i := range vs {
			if !valuesEqual(vs[i], ws[i]) {
				return false
			}
		}
	}
	return true
}

// Map renders the set as property name to plain Go value. Repeatable
// properties map to a []any even when only one value is present.
func (p *Properties) Map() map[string]any {
	m := make(map[string]any, len(p.values))
	for id, vs := range p.values {
		if id.Repeatable() {
			list := make([]any, len(vs))
			for i, v := range vs {
				list[i] = nativeValue(v)
			}
			m[id.String()] = list
			continue
		}
		m[id.String()] = nativeValue(vs[0])
	}
	return m
}

func (p *Properties) String() string {
	var sb strings.Builder
	sb.WriteString(p.packetType.String())
	sb.WriteByte('[')
	for i, id := range p.IDs() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(id.String())
		sb.WriteString(": ")
		vs := p.values[id]
		if id.Repeatable() {
			fmt.Fprintf(&sb, "%v", vs)
		} else {
			fmt.Fprintf(&sb, "%v", vs[0])
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// Size returns the number of bytes Pack would produce, length prefix included.
func (p *Properties) Size() int {
	body := p.bodySize()
	return SizeVariableByteInteger(uint32(body)) + body
}

func (p *Properties) bodySize() int {
	n := 0
	for id, vs := range p.values {
		for _, v := range vs {
			n += SizeVariableByteInteger(uint32(id)) + v.size()
		}
	}
	return n
}

// Pack encodes the set as a properties region: the Variable Byte Integer
// length of the body followed by each property as identifier and value.
func (p *Properties) Pack() ([]byte, error) {
	return p.AppendPack(make([]byte, 0, p.Size()))
}

// AppendPack appends the encoded properties region to dst.
// dst is returned unchanged on error.
func (p *Properties) AppendPack(dst []byte) ([]byte, error) {
	body, err := p.appendBody(make([]byte, 0, p.bodySize()))
	if err != nil {
		return dst, err
	}
	if len(body) > int(MaxVariableByteInteger) {
		return dst, fmt.Errorf("%w: properties length %d", ErrVariableByteIntegerTooLarge, len(body))
	}

	out, err := AppendVariableByteInteger(dst, uint32(len(body)))
	if err != nil {
		return dst, err
	}
	return append(out, body...), nil
}

// appendBody walks the registry so the output is deterministic.
func (p *Properties) appendBody(dst []byte) ([]byte, error) {
	var err error
	for i := range descriptors {
		d := &descriptors[i]
		for _, v := range p.values[d.ID] {
			dst, err = AppendVariableByteInteger(dst, uint32(d.ID))
			if err != nil {
				return nil, err
			}
			dst, err = v.appendTo(dst)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", d.ID, err)
			}
		}
	}
	return dst, nil
}

// Unpack decodes the properties region at the start of data for a packet of
// type pt. It returns the property set and the number of bytes consumed,
// length prefix included, so the caller can continue with the payload.
//
// Every failure is a *PacketError with ReasonMalformedPacket wrapping the
// cause; no partially decoded set is returned.
func Unpack(pt PacketType, data []byte, opts ...Option) (*Properties, int, error) {
	length, n, err := DecodeVariableByteIntegerFromBytes(data)
	if err != nil {
		return nil, 0, NewMalformedPacketError(err, "properties length")
	}

	end := n + int(length)
	if end > len(data) {
		return nil, 0, NewMalformedPacketError(ErrTruncatedBuffer,
			fmt.Sprintf("properties length %d exceeds %d remaining bytes", length, len(data)-n))
	}

	p := NewProperties(pt, opts...)
	if err := p.decodeBody(data[n:end]); err != nil {
		return nil, 0, err
	}
	return p, end, nil
}

// ReadProperties is Unpack over a stream. It reads exactly the properties
// region from r and no further.
//
// Errors from r other than a premature EOF are returned wrapped but are not
// reported as a malformed packet.
func ReadProperties(r io.Reader, pt PacketType, opts ...Option) (*Properties, int, error) {
	length, n, err := DecodeVariableByteInteger(r)
	if err != nil {
		if isDecodeError(err) {
			return nil, 0, NewMalformedPacketError(err, "properties length")
		}
		return nil, 0, fmt.Errorf("read properties length: %w", err)
	}

	// Grow with the data actually read rather than trusting the prefix.
	body, err := io.ReadAll(io.LimitReader(r, int64(length)))
	if err != nil {
		return nil, 0, fmt.Errorf("read properties: %w", err)
	}
	if len(body) < int(length) {
		return nil, 0, NewMalformedPacketError(ErrTruncatedBuffer,
			fmt.Sprintf("properties length %d but stream ended after %d bytes", length, len(body)))
	}

	p := NewProperties(pt, opts...)
	if err := p.decodeBody(body); err != nil {
		return nil, 0, err
	}
	return p, n + len(body), nil
}

func isDecodeError(err error) bool {
	return errors.Is(err, ErrTruncatedBuffer) || errors.Is(err, ErrMalformedVariableByteInteger)
}

// decodeBody consumes body, which holds exactly the declared property bytes.
// Reads are bounded by the slice, so the remaining length cannot go negative.
func (p *Properties) decodeBody(body []byte) error {
	for offset := 0; offset < len(body); {
		rawID, n, err := DecodeVariableByteIntegerFromBytes(body[offset:])
		if err != nil {
			return NewMalformedPacketError(err, "property identifier")
		}
		offset += n

		id := PropertyID(rawID)
		d, ok := descriptorIndex[id]
		if !ok {
			return NewMalformedPacketError(&PropertyError{Err: ErrUnknownProperty, ID: id}, "")
		}

		v, n, err := decodeValue(d.Type, body[offset:])
		if err != nil {
			return NewMalformedPacketError(err, "value of "+id.String())
		}
		offset += n

		if !d.Repeatable && p.Has(id) {
			return NewMalformedPacketError(&PropertyError{Err: ErrDuplicateProperty, ID: id}, "")
		}
		if _, v, err = p.validate(id, v); err != nil {
			return NewMalformedPacketError(err, "")
		}
		p.insert(d, v)
	}
	return nil
}

func decodeValue(t ValueType, data []byte) (Value, int, error) {
	switch t {
	case ValueTypeByte:
		b, n, err := readByte(data)
		return Byte(b), n, err
	case ValueTypeTwoByteInt:
		u, n, err := readTwoByteInt(data)
		return Uint16(u), n, err
	case ValueTypeFourByteInt:
		u, n, err := readFourByteInt(data)
		return Uint32(u), n, err
	case ValueTypeVarInt:
		u, n, err := DecodeVariableByteIntegerFromBytes(data)
		return VarInt(u), n, err
	case ValueTypeUTF8String:
		s, n, err := readUTF8String(data)
		return String(s), n, err
	case ValueTypeUTF8Pair:
		pair, n, err := readUTF8Pair(data)
		return pair, n, err
	case ValueTypeBinaryData:
		b, n, err := readBinaryData(data)
		return Binary(b), n, err
	default:
		return nil, 0, errors.New("unsupported value type " + t.String())
	}
}
