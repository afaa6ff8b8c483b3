package encoding

import (
	"bytes"
	"strconv"
)

// Value is a property value. The concrete type decides the wire encoding and
// must match the ValueType of the property it is stored under:
//
//	Byte       ValueTypeByte
//	Uint16     ValueTypeTwoByteInt
//	Uint32     ValueTypeFourByteInt
//	VarInt     ValueTypeVarInt
//	String     ValueTypeUTF8String
//	StringPair ValueTypeUTF8Pair
//	Binary     ValueTypeBinaryData
//
// The interface is sealed; only the types in this package implement it.
type Value interface {
	Type() ValueType
	appendTo(dst []byte) ([]byte, error)
	size() int
}

type (
	Byte   byte
	Uint16 uint16
	Uint32 uint32
	VarInt uint32
	String string
	Binary []byte
)

// StringPair is the key/value pair carried by User Property.
type StringPair struct {
	Key   string
	Value string
}

func (Byte) Type() ValueType       { return ValueTypeByte }
func (Uint16) Type() ValueType     { return ValueTypeTwoByteInt }
func (Uint32) Type() ValueType     { return ValueTypeFourByteInt }
func (VarInt) Type() ValueType     { return ValueTypeVarInt }
func (String) Type() ValueType     { return ValueTypeUTF8String }
func (StringPair) Type() ValueType { return ValueTypeUTF8Pair }
func (Binary) Type() ValueType     { return ValueTypeBinaryData }

func (v Byte) appendTo(dst []byte) ([]byte, error) {
	return append(dst, byte(v)), nil
}

func (v Uint16) appendTo(dst []byte) ([]byte, error) {
	return appendTwoByteInt(dst, uint16(v)), nil
}

func (v Uint32) appendTo(dst []byte) ([]byte, error) {
	return appendFourByteInt(dst, uint32(v)), nil
}

func (v VarInt) appendTo(dst []byte) ([]byte, error) {
	return AppendVariableByteInteger(dst, uint32(v))
}

func (v String) appendTo(dst []byte) ([]byte, error) {
	return appendUTF8String(dst, string(v))
}

func (v StringPair) appendTo(dst []byte) ([]byte, error) {
	return appendUTF8Pair(dst, v)
}

func (v Binary) appendTo(dst []byte) ([]byte, error) {
	return appendBinaryData(dst, v)
}

func (Byte) size() int         { return 1 }
func (Uint16) size() int       { return 2 }
func (Uint32) size() int       { return 4 }
func (v VarInt) size() int     { return SizeVariableByteInteger(uint32(v)) }
func (v String) size() int     { return 2 + len(v) }
func (v StringPair) size() int { return 4 + len(v.Key) + len(v.Value) }
func (v Binary) size() int     { return 2 + len(v) }

func (v StringPair) String() string {
	return strconv.Quote(v.Key) + "=" + strconv.Quote(v.Value)
}

// numericValue returns the integer carried by v, if it carries one.
func numericValue(v Value) (uint64, bool) {
	switch n := v.(type) {
	case Byte:
		return uint64(n), true
	case Uint16:
		return uint64(n), true
	case Uint32:
		return uint64(n), true
	case VarInt:
		return uint64(n), true
	default:
		return 0, false
	}
}

// wireLimit returns the largest integer the wire type t can carry. ok is false
// for non-numeric types.
func wireLimit(t ValueType) (limit uint64, ok bool) {
	switch t {
	case ValueTypeByte:
		return 0xFF, true
	case ValueTypeTwoByteInt:
		return 0xFFFF, true
	case ValueTypeFourByteInt:
		return 0xFFFFFFFF, true
	case ValueTypeVarInt:
		return uint64(MaxVariableByteInteger), true
	default:
		return 0, false
	}
}

// numericAs converts n, already checked against wireLimit, to the variant of t.
func numericAs(t ValueType, n uint64) Value {
	switch t {
	case ValueTypeByte:
		return Byte(n)
	case ValueTypeTwoByteInt:
		return Uint16(n)
	case ValueTypeFourByteInt:
		return Uint32(n)
	default:
		return VarInt(n)
	}
}

// validateStrictStrings applies the strict UTF-8 rules to string values.
func validateStrictStrings(v Value) error {
	switch s := v.(type) {
	case String:
		return ValidateUTF8StringStrict([]byte(s))
	case StringPair:
		if err := ValidateUTF8StringStrict([]byte(s.Key)); err != nil {
			return err
		}
		return ValidateUTF8StringStrict([]byte(s.Value))
	default:
		return nil
	}
}

// valuesEqual compares two values without tripping over the slice in Binary.
func valuesEqual(a, b Value) bool {
	ab, aok := a.(Binary)
	bb, bok := b.(Binary)
	if aok || bok {
		return aok && bok && bytes.Equal(ab, bb)
	}
	return a == b
}

// cloneValue detaches Binary values from the slice they were set with.
func cloneValue(v Value) Value {
	if b, ok := v.(Binary); ok {
		return Binary(bytes.Clone(b))
	}
	return v
}

// nativeValue unwraps v into a plain Go value for rendering.
func nativeValue(v Value) any {
	switch n := v.(type) {
	case Byte:
		return byte(n)
	case Uint16:
		return uint16(n)
	case Uint32:
		return uint32(n)
	case VarInt:
		return uint32(n)
	case String:
		return string(n)
	case Binary:
		return bytes.Clone(n)
	case StringPair:
		return [2]string{n.Key, n.Value}
	default:
		return nil
	}
}
