// Package record defines the wire-level event schema: the self-describing,
// alias-tolerant JSON/MessagePack record that a subscriber emits and a
// consumer reads back. Types in this package know how to marshal
// themselves with short keys and unmarshal both short and long forms;
// they do not know anything about how a span-context fragment is
// assembled or how bytes reach a writer.
package record

import (
	"encoding/json"
	"fmt"

	"github.com/buildbarn/bb-event-log/pkg/fieldvalue"
	"github.com/buildbarn/bb-event-log/pkg/timing"
)

// Level is the serializable counterpart of hosttrace.Level, kept as a
// separate type so that this package has no dependency on the host
// tracing contract.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON writes the level as its small integer repr (0=Trace..4=Error).
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(l))
}

// UnmarshalJSON reads the level from its small integer repr.
func (l *Level) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("record: decoding level: %w", err)
	}
	if n < int(LevelTrace) || n > int(LevelError) {
		return fmt.Errorf("record: level %d out of range", n)
	}
	*l = Level(n)
	return nil
}

// SpanTime is the wire form of a finished SpanTimer snapshot. It has no
// short/long key distinction of its own: it only ever appears nested
// inside an EventKindSpanClose.
type SpanTime struct {
	Busy uint64 `json:"busy" msgpack:"busy"`
	Idle uint64 `json:"idle" msgpack:"idle"`
}

// FromTiming converts a timing.SpanTime into its wire representation.
func FromTiming(t timing.SpanTime) SpanTime {
	return SpanTime{Busy: t.Busy, Idle: t.Idle}
}

// UnixTime is the wire form of a WallClock reading.
type UnixTime struct {
	Seconds uint64 `json:"s" msgpack:"s"`
	Nanos   uint32 `json:"n" msgpack:"n"`
}

// FromWallClock converts a timing.UnixTime into its wire representation.
func FromWallClock(t timing.UnixTime) UnixTime {
	return UnixTime{Seconds: t.Seconds, Nanos: t.Nanos}
}

// EventKindTag identifies which variant an EventKind holds.
type EventKindTag int

const (
	// EventKindEvent is a regular event, carrying its recorded fields.
	EventKindEvent EventKindTag = iota
	// EventKindSpanCreate marks the creation of a span.
	EventKindSpanCreate
	// EventKindSpanClose marks the destruction of a span, optionally
	// carrying its accumulated busy/idle timing.
	EventKindSpanClose
	// EventKindSpanEnter marks a span being (re-)entered.
	EventKindSpanEnter
	// EventKindSpanExit marks a span being exited.
	EventKindSpanExit
)

// String returns the snake_case wire name of the tag, for use in log
// messages and metric labels.
func (tag EventKindTag) String() string {
	switch tag {
	case EventKindEvent:
		return "event"
	case EventKindSpanCreate:
		return "span_create"
	case EventKindSpanClose:
		return "span_close"
	case EventKindSpanEnter:
		return "span_enter"
	case EventKindSpanExit:
		return "span_exit"
	default:
		return "unknown"
	}
}

// EventKind is the externally-tagged enum describing why a record was
// emitted. Only the fields relevant to Tag are populated: Fields for
// EventKindEvent, SpanTime (optionally) for EventKindSpanClose.
type EventKind struct {
	Tag      EventKindTag
	Fields   *fieldvalue.Fields
	SpanTime *SpanTime
}

// NewEvent constructs an EventKindEvent carrying fields.
func NewEvent(fields *fieldvalue.Fields) EventKind {
	return EventKind{Tag: EventKindEvent, Fields: fields}
}

// NewSpanCreate constructs an EventKindSpanCreate.
func NewSpanCreate() EventKind {
	return EventKind{Tag: EventKindSpanCreate}
}

// NewSpanClose constructs an EventKindSpanClose, optionally carrying
// timing (nil iff time_spans was not enabled at configure time).
func NewSpanClose(t *SpanTime) EventKind {
	return EventKind{Tag: EventKindSpanClose, SpanTime: t}
}

// NewSpanEnter constructs an EventKindSpanEnter.
func NewSpanEnter() EventKind {
	return EventKind{Tag: EventKindSpanEnter}
}

// NewSpanExit constructs an EventKindSpanExit.
func NewSpanExit() EventKind {
	return EventKind{Tag: EventKindSpanExit}
}

// Equal compares two EventKind values for the round-trip equality
// invariant: same tag, same fields (order-sensitive), same span timing.
func (k EventKind) Equal(other EventKind) bool {
	if k.Tag != other.Tag {
		return false
	}
	switch k.Tag {
	case EventKindEvent:
		return k.Fields.Equal(other.Fields)
	case EventKindSpanClose:
		if (k.SpanTime == nil) != (other.SpanTime == nil) {
			return false
		}
		return k.SpanTime == nil || *k.SpanTime == *other.SpanTime
	default:
		return true
	}
}

// jsonNullableSpanTime distinguishes "span_close": null from an absent
// key, since Go's encoding/json collapses a nil *SpanTime under
// omitempty to an absent key rather than an explicit null.
type jsonNullableSpanTime struct {
	SpanTime *SpanTime
}

func (v jsonNullableSpanTime) MarshalJSON() ([]byte, error) {
	if v.SpanTime == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v.SpanTime)
}

func (v *jsonNullableSpanTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		v.SpanTime = nil
		return nil
	}
	var t SpanTime
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("record: decoding span_close timing: %w", err)
	}
	v.SpanTime = &t
	return nil
}

// MarshalJSON writes the bare strings "span_create"/"span_enter"/"span_exit"
// for those three variants, and objects {"event": {...}} / {"span_close": ...}
// for the other two, matching an externally-tagged snake_case enum.
func (k EventKind) MarshalJSON() ([]byte, error) {
	switch k.Tag {
	case EventKindEvent:
		return json.Marshal(struct {
			Event *fieldvalue.Fields `json:"event"`
		}{Event: k.Fields})
	case EventKindSpanClose:
		return json.Marshal(struct {
			SpanClose jsonNullableSpanTime `json:"span_close"`
		}{SpanClose: jsonNullableSpanTime{SpanTime: k.SpanTime}})
	case EventKindSpanCreate:
		return json.Marshal("span_create")
	case EventKindSpanEnter:
		return json.Marshal("span_enter")
	case EventKindSpanExit:
		return json.Marshal("span_exit")
	default:
		return nil, fmt.Errorf("record: event kind has no recognized tag")
	}
}

// UnmarshalJSON accepts either a bare tag string or a single-key object,
// tolerating both "kind" and its short alias "ty" being decoded into this
// type by the caller (Event.UnmarshalJSON handles the key alias itself).
func (k *EventKind) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		switch bare {
		case "span_create":
			*k = NewSpanCreate()
			return nil
		case "span_enter":
			*k = NewSpanEnter()
			return nil
		case "span_exit":
			*k = NewSpanExit()
			return nil
		default:
			return fmt.Errorf("record: unrecognized event kind %q", bare)
		}
	}

	var obj struct {
		Event     *fieldvalue.Fields    `json:"event"`
		SpanClose *jsonNullableSpanTime `json:"span_close"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("record: decoding event kind: %w", err)
	}
	switch {
	case obj.Event != nil:
		*k = NewEvent(obj.Event)
	case obj.SpanClose != nil:
		*k = NewSpanClose(obj.SpanClose.SpanTime)
	default:
		return fmt.Errorf("record: event kind object has neither \"event\" nor \"span_close\"")
	}
	return nil
}
