package record

import (
	"fmt"

	"github.com/buildbarn/bb-event-log/pkg/fieldvalue"
	"github.com/vmihailenco/msgpack/v5"
)

// EventKind is encoded on the wire as a 2-element MessagePack array,
// [tag, payload]: the payload is nil for the three bare-marker variants,
// the fields map for EventKindEvent, and the optional SpanTime for
// EventKindSpanClose. This is msgpack's analogue of the externally
// tagged JSON encoding used by MarshalJSON/UnmarshalJSON in record.go; the two
// formats are not required to share a wire shape, only the same
// semantics.

// EncodeMsgpack implements msgpack.CustomEncoder.
func (k EventKind) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	switch k.Tag {
	case EventKindEvent:
		if err := enc.EncodeString("event"); err != nil {
			return err
		}
		return enc.Encode(k.Fields)
	case EventKindSpanClose:
		if err := enc.EncodeString("span_close"); err != nil {
			return err
		}
		return enc.Encode(k.SpanTime)
	case EventKindSpanCreate:
		if err := enc.EncodeString("span_create"); err != nil {
			return err
		}
		return enc.EncodeNil()
	case EventKindSpanEnter:
		if err := enc.EncodeString("span_enter"); err != nil {
			return err
		}
		return enc.EncodeNil()
	case EventKindSpanExit:
		if err := enc.EncodeString("span_exit"); err != nil {
			return err
		}
		return enc.EncodeNil()
	default:
		return fmt.Errorf("record: event kind has no recognized tag")
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (k *EventKind) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return fmt.Errorf("record: decoding event kind: %w", err)
	}
	if n != 2 {
		return fmt.Errorf("record: event kind array has %d elements, want 2", n)
	}

	tag, err := dec.DecodeString()
	if err != nil {
		return fmt.Errorf("record: decoding event kind tag: %w", err)
	}

	switch tag {
	case "event":
		fields := fieldvalue.NewFields()
		if err := dec.Decode(fields); err != nil {
			return fmt.Errorf("record: decoding event fields: %w", err)
		}
		*k = NewEvent(fields)
	case "span_close":
		var st *SpanTime
		if err := dec.Decode(&st); err != nil {
			return fmt.Errorf("record: decoding span_close timing: %w", err)
		}
		*k = NewSpanClose(st)
	case "span_create":
		if err := dec.DecodeNil(); err != nil {
			return err
		}
		*k = NewSpanCreate()
	case "span_enter":
		if err := dec.DecodeNil(); err != nil {
			return err
		}
		*k = NewSpanEnter()
	case "span_exit":
		if err := dec.DecodeNil(); err != nil {
			return err
		}
		*k = NewSpanExit()
	default:
		return fmt.Errorf("record: unrecognized event kind tag %q", tag)
	}
	return nil
}
