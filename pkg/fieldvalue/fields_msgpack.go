package fieldvalue

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeMsgpack implements msgpack.CustomEncoder. Fields are written as
// a MessagePack map, one key/value pair at a time in insertion order;
// unlike encoding/json, MessagePack has no implicit key-sorting step to
// fight, so order survives encode-then-decode as long as both sides
// stream key/value pairs rather than materializing a Go map.
func (f *Fields) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(f.Len()); err != nil {
		return err
	}
	for _, name := range f.names {
		if err := enc.EncodeString(name); err != nil {
			return err
		}
		if err := enc.Encode(f.values[name]); err != nil {
			return fmt.Errorf("fieldvalue: encoding field %q: %w", name, err)
		}
	}
	return nil
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (f *Fields) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return fmt.Errorf("fieldvalue: decoding fields map: %w", err)
	}

	*f = Fields{values: make(map[string]FieldValue, n)}
	for i := 0; i < n; i++ {
		name, err := dec.DecodeString()
		if err != nil {
			return fmt.Errorf("fieldvalue: decoding field name: %w", err)
		}
		var value FieldValue
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("fieldvalue: decoding field %q: %w", name, err)
		}
		f.Set(name, value)
	}
	return nil
}
