package vm

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
)

func floatBits(f float64) uint64     { return math.Float64bits(f) }
func floatFromBits(n uint64) float64 { return math.Float64frombits(n) }

// Kind discriminates the content of a memory cell.
type Kind uint8

const (
	// KindBool is a boolean.
	KindBool Kind = iota
	// KindInteger is a signed 64-bit integer.
	KindInteger
	// KindUnsignedInteger is an unsigned 64-bit integer.
	KindUnsignedInteger
	// KindFloat is a 64-bit IEEE 754 float.
	KindFloat
	// KindString is a UTF-8 string.
	KindString
	// KindBytes is an opaque byte string.
	KindBytes
	// KindUuid is a 128-bit UUID.
	KindUuid
)

// String returns the kind name as it appears in error messages.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindUnsignedInteger:
		return "unsigned integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindUuid:
		return "uuid"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is the tagged value occupying exactly one memory cell.
//
// A Value is immutable once constructed and copyable by assignment.
// Numeric kinds are mutually distinct: an integer cell is not
// interchangeable with an unsigned or float cell without explicit
// conversion.
type Value struct {
	kind Kind
	num  uint64 // bool / integer / unsigned / float bits
	str  string
	raw  []byte
	id   uuid.UUID
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// FromBool creates a bool value.
func FromBool(b bool) Value {
	var n uint64
	if b {
		n = 1
	}
	return Value{kind: KindBool, num: n}
}

// FromInt creates a signed integer value.
func FromInt(n int64) Value {
	return Value{kind: KindInteger, num: uint64(n)}
}

// FromUint creates an unsigned integer value.
func FromUint(n uint64) Value {
	return Value{kind: KindUnsignedInteger, num: n}
}

// FromFloat creates a float value.
func FromFloat(f float64) Value {
	return Value{kind: KindFloat, num: floatBits(f)}
}

// FromString creates a string value.
func FromString(s string) Value {
	return Value{kind: KindString, str: s}
}

// FromBytes creates a bytes value. The slice is copied so the cell
// stays immutable.
func FromBytes(b []byte) Value {
	return Value{kind: KindBytes, raw: bytes.Clone(b)}
}

// FromUuid creates a uuid value.
func FromUuid(id uuid.UUID) Value {
	return Value{kind: KindUuid, id: id}
}

// ---------------------------------------------------------------------------
// Type checking
// ---------------------------------------------------------------------------

// Kind returns the value's discriminant.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNumeric returns true for integer, unsigned integer and float
// values. Only numeric values participate in arithmetic.
func (v Value) IsNumeric() bool {
	switch v.kind {
	case KindInteger, KindUnsignedInteger, KindFloat:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Bool returns the boolean content.
// Panics if v is not a bool.
func (v Value) Bool() bool {
	v.mustBe(KindBool)
	return v.num != 0
}

// Int returns the signed integer content.
// Panics if v is not an integer.
func (v Value) Int() int64 {
	v.mustBe(KindInteger)
	return int64(v.num)
}

// Uint returns the unsigned integer content.
// Panics if v is not an unsigned integer.
func (v Value) Uint() uint64 {
	v.mustBe(KindUnsignedInteger)
	return v.num
}

// Float returns the float content.
// Panics if v is not a float.
func (v Value) Float() float64 {
	v.mustBe(KindFloat)
	return floatFromBits(v.num)
}

// Str returns the string content.
// Panics if v is not a string.
func (v Value) Str() string {
	v.mustBe(KindString)
	return v.str
}

// Bytes returns a copy of the byte content.
// Panics if v is not bytes.
func (v Value) Bytes() []byte {
	v.mustBe(KindBytes)
	return bytes.Clone(v.raw)
}

// Uuid returns the uuid content.
// Panics if v is not a uuid.
func (v Value) Uuid() uuid.UUID {
	v.mustBe(KindUuid)
	return v.id
}

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Sprintf("vm: %s value accessed as %s", v.kind, k))
	}
}

// ---------------------------------------------------------------------------
// Equality and formatting
// ---------------------------------------------------------------------------

// Equal reports structural equality between two values. Values of
// different kinds are never equal, even when numerically identical.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindBytes:
		return bytes.Equal(v.raw, o.raw)
	case KindUuid:
		return v.id == o.id
	default:
		return v.num == o.num
	}
}

// String formats the value with its kind, e.g. "integer(3)".
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("bool(%t)", v.num != 0)
	case KindInteger:
		return fmt.Sprintf("integer(%d)", int64(v.num))
	case KindUnsignedInteger:
		return fmt.Sprintf("unsigned integer(%d)", v.num)
	case KindFloat:
		return "float(" + strconv.FormatFloat(floatFromBits(v.num), 'g', -1, 64) + ")"
	case KindString:
		return fmt.Sprintf("string(%q)", v.str)
	case KindBytes:
		return fmt.Sprintf("bytes(%d bytes)", len(v.raw))
	case KindUuid:
		return fmt.Sprintf("uuid(%s)", v.id)
	default:
		return fmt.Sprintf("value(kind=%d)", uint8(v.kind))
	}
}
