package fieldvalue

import (
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeMsgpack implements msgpack.CustomEncoder, writing the bare value
// with no type wrapper, the same untagged discipline as MarshalJSON.
func (v FieldValue) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch v.kind {
	case KindBool:
		return enc.EncodeBool(v.b)
	case KindInt:
		return enc.EncodeInt64(v.i)
	case KindFloat:
		return enc.EncodeFloat64(math.Float64frombits(v.f))
	case KindStr:
		return enc.EncodeString(v.s)
	default:
		return fmt.Errorf("fieldvalue: value has no recognized kind")
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder. The variant is
// recovered from the decoded Go type, mirroring the try-order used by
// UnmarshalJSON: MessagePack already distinguishes integers from floats
// at the wire-format level, so there is no integer/float ambiguity to
// resolve here the way there is for JSON.
func (v *FieldValue) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterface()
	if err != nil {
		return fmt.Errorf("fieldvalue: decoding value: %w", err)
	}

	switch x := raw.(type) {
	case bool:
		*v = Bool(x)
	case int8:
		*v = Int(int64(x))
	case int16:
		*v = Int(int64(x))
	case int32:
		*v = Int(int64(x))
	case int64:
		*v = Int(x)
	case uint8:
		*v = Uint(uint64(x))
	case uint16:
		*v = Uint(uint64(x))
	case uint32:
		*v = Uint(uint64(x))
	case uint64:
		*v = Uint(x)
	case float32:
		*v = Float(float64(x))
	case float64:
		*v = Float(x)
	case string:
		*v = Str(x)
	default:
		return fmt.Errorf("fieldvalue: decoded value has unsupported type %T", raw)
	}
	return nil
}
