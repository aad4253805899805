// Package fieldvalue implements the closed sum type used to carry the
// typed values attached to events and spans.
package fieldvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Kind identifies which variant a FieldValue holds.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindStr
)

// FieldValue is a tracing value: one of Bool, Int, Float or Str. It is
// serialized untagged, meaning the wire form is the bare JSON value with
// no type discriminator; the reader infers the variant from its shape.
//
// Equality and hashing over Float compare the raw 64-bit pattern rather
// than using IEEE-754 comparison, so that two NaNs with identical bit
// patterns are considered equal. This is deliberate: it makes FieldValue
// usable as a map key and lets log-diffing tools treat NaN payloads as
// comparable.
type FieldValue struct {
	kind Kind
	b    bool
	i    int64
	f    uint64 // bit pattern of the float64, so NaN == NaN when patterns match.
	s    string
}

// Bool constructs a FieldValue holding a boolean.
func Bool(v bool) FieldValue {
	return FieldValue{kind: KindBool, b: v}
}

// Int constructs a FieldValue holding a signed 64-bit integer.
func Int(v int64) FieldValue {
	return FieldValue{kind: KindInt, i: v}
}

// Uint constructs a FieldValue from an unsigned 64-bit integer, wrap-cast
// to int64. This truncation/wraparound is a documented, deliberate
// simplification: the wire format has no unsigned integer variant.
func Uint(v uint64) FieldValue {
	return FieldValue{kind: KindInt, i: int64(v)}
}

// Float constructs a FieldValue holding a 64-bit float.
func Float(v float64) FieldValue {
	return FieldValue{kind: KindFloat, f: math.Float64bits(v)}
}

// Str constructs a FieldValue holding a string.
func Str(v string) FieldValue {
	return FieldValue{kind: KindStr, s: v}
}

// Kind reports which variant is held.
func (v FieldValue) Kind() Kind {
	return v.kind
}

// AsBool returns the held boolean and true, or false, false if v does not
// hold a Bool.
func (v FieldValue) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the held integer and true, or 0, false if v does not hold
// an Int.
func (v FieldValue) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns the held float and true, or 0, false if v does not
// hold a Float.
func (v FieldValue) AsFloat() (float64, bool) {
	return math.Float64frombits(v.f), v.kind == KindFloat
}

// AsStr returns the held string and true, or "", false if v does not
// hold a Str.
func (v FieldValue) AsStr() (string, bool) {
	return v.s, v.kind == KindStr
}

// Equal reports whether v and other hold the same variant and value.
// Floats compare by bit pattern, not by IEEE-754 equality; values of
// different kinds are never equal, even 1 (Int) vs 1.0 (Float).
func (v FieldValue) Equal(other FieldValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindStr:
		return v.s == other.s
	default:
		return false
	}
}

// String renders the value for debugging/pretty-printing purposes.
func (v FieldValue) String() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%v", math.Float64frombits(v.f))
	case KindStr:
		return v.s
	default:
		return ""
	}
}

// MarshalJSON writes the bare value with no type wrapper: true/false for
// Bool, a bare number for Int/Float, and a quoted string for Str. A Float
// with an integral value is written with a trailing ".0" so that it reads
// back as a Float rather than an Int.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		data, err := json.Marshal(math.Float64frombits(v.f))
		if err == nil && !bytes.ContainsAny(data, ".eE") {
			data = append(data, ".0"...)
		}
		return data, err
	case KindStr:
		return json.Marshal(v.s)
	default:
		return nil, fmt.Errorf("fieldvalue: value has no recognized kind")
	}
}

// UnmarshalJSON recovers the variant from the shape of the JSON token,
// trying boolean, then integer, then float, then string, in that order.
// A numeric literal with no decimal point or exponent is parsed as an
// Int; one with either is parsed as a Float. This ordering matters: it
// is what keeps 1 and 1.0 from being conflated on round trip.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("fieldvalue: empty value")
	}

	switch trimmed[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return fmt.Errorf("fieldvalue: decoding bool: %w", err)
		}
		*v = Bool(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("fieldvalue: decoding string: %w", err)
		}
		*v = Str(s)
		return nil
	}

	if !bytes.ContainsAny(trimmed, ".eE") {
		var i int64
		if err := json.Unmarshal(trimmed, &i); err == nil {
			*v = Int(i)
			return nil
		}
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return fmt.Errorf("fieldvalue: decoding numeric value %q: %w", trimmed, err)
	}
	*v = Float(f)
	return nil
}
