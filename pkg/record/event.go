package record

import (
	"encoding/json"
	"fmt"

	"github.com/buildbarn/bb-event-log/pkg/fieldvalue"
)

// Span is the record form of one span in an event's call stack: its
// name, the ID the host registry assigned it (if any), and its fields
// in insertion order.
type Span struct {
	Name   string             `msgpack:"n"`
	ID     *uint64            `msgpack:"i,omitempty"`
	Fields *fieldvalue.Fields `msgpack:"f"`
}

// Equal compares two spans for the round-trip equality invariant.
func (s Span) Equal(other Span) bool {
	if s.Name != other.Name {
		return false
	}
	if (s.ID == nil) != (other.ID == nil) {
		return false
	}
	if s.ID != nil && *s.ID != *other.ID {
		return false
	}
	return s.Fields.Equal(other.Fields)
}

type wireSpan struct {
	Name   *string            `json:"n"`
	ID     *uint64            `json:"i,omitempty"`
	Fields *fieldvalue.Fields `json:"f"`
}

// MarshalJSON writes a span using its short keys (n, i, f). The id key
// is omitted entirely when absent, matching skip_serializing_if on the
// source schema.
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSpan{Name: &s.Name, ID: s.ID, Fields: s.Fields})
}

// spanAliases lists the long-form keys accepted in place of the short
// ones, keyed by short name, for use by normalizeKeys.
var spanAliases = map[string]string{
	"n": "name",
	"i": "id",
	"f": "fields",
}

// UnmarshalJSON accepts both the short keys (n, i, f) and their long
// aliases (name, id, fields).
func (s *Span) UnmarshalJSON(data []byte) error {
	raw, err := normalizeKeys(data, spanAliases)
	if err != nil {
		return fmt.Errorf("record: decoding span: %w", err)
	}

	var w wireSpan
	if err := json.Unmarshal(raw, &w); err != nil {
		return fmt.Errorf("record: decoding span: %w", err)
	}
	if w.Name == nil {
		return fmt.Errorf("record: span missing required \"n\"/\"name\"")
	}
	if w.Fields == nil {
		w.Fields = fieldvalue.NewFields()
	}
	*s = Span{Name: *w.Name, ID: w.ID, Fields: w.Fields}
	return nil
}

// Event is a single, fully self-describing tracing record: what kind of
// event it is, at what level, in what span stack, from what target, and
// optionally when, on which thread, and at what source location.
type Event struct {
	Kind       EventKind `msgpack:"ty"`
	Level      Level     `msgpack:"l"`
	Spans      []Span    `msgpack:"s"`
	Target     string    `msgpack:"t"`
	ThreadID   *uint64   `msgpack:"tid,omitempty"`
	ThreadName *string   `msgpack:"tn,omitempty"`
	SrcLine    *uint32   `msgpack:"srl,omitempty"`
	SrcFile    *string   `msgpack:"srf,omitempty"`
	Time       *UnixTime `msgpack:"tm,omitempty"`
}

// Equal implements the round-trip equality invariant: it compares kind,
// level, target, time, thread id/name, source location, and spans
// pointwise.
func (e Event) Equal(other Event) bool {
	if !e.Kind.Equal(other.Kind) {
		return false
	}
	if e.Level != other.Level {
		return false
	}
	if e.Target != other.Target {
		return false
	}
	if !equalUint64Ptr(e.ThreadID, other.ThreadID) {
		return false
	}
	if !equalStrPtr(e.ThreadName, other.ThreadName) {
		return false
	}
	if !equalUint32Ptr(e.SrcLine, other.SrcLine) {
		return false
	}
	if !equalStrPtr(e.SrcFile, other.SrcFile) {
		return false
	}
	if (e.Time == nil) != (other.Time == nil) {
		return false
	}
	if e.Time != nil && *e.Time != *other.Time {
		return false
	}
	if len(e.Spans) != len(other.Spans) {
		return false
	}
	for i := range e.Spans {
		if !e.Spans[i].Equal(other.Spans[i]) {
			return false
		}
	}
	return true
}

func equalUint64Ptr(a, b *uint64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func equalUint32Ptr(a, b *uint32) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func equalStrPtr(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

type wireEvent struct {
	Kind       EventKind  `json:"ty"`
	Level      Level      `json:"l"`
	Spans      []Span     `json:"s"`
	Target     string     `json:"t"`
	ThreadID   *uint64    `json:"tid,omitempty"`
	ThreadName *string    `json:"tn,omitempty"`
	SrcLine    *uint32    `json:"srl,omitempty"`
	SrcFile    *string    `json:"srf,omitempty"`
	Time       *UnixTime  `json:"tm,omitempty"`
}

// MarshalJSON writes the event using its short keys. spans is never
// omitted, even when empty: an event with no active span still emits
// "s":[].
func (e Event) MarshalJSON() ([]byte, error) {
	spans := e.Spans
	if spans == nil {
		spans = []Span{}
	}
	return json.Marshal(wireEvent{
		Kind:       e.Kind,
		Level:      e.Level,
		Spans:      spans,
		Target:     e.Target,
		ThreadID:   e.ThreadID,
		ThreadName: e.ThreadName,
		SrcLine:    e.SrcLine,
		SrcFile:    e.SrcFile,
		Time:       e.Time,
	})
}

var eventAliases = map[string]string{
	"ty":  "kind",
	"l":   "level",
	"s":   "spans",
	"t":   "target",
	"tid": "thread_id",
	"tn":  "thread_name",
	"srl": "src_line",
	"srf": "src_file",
	"tm":  "time",
}

// UnmarshalJSON accepts both the short keys and their long aliases.
func (e *Event) UnmarshalJSON(data []byte) error {
	raw, err := normalizeKeys(data, eventAliases)
	if err != nil {
		return fmt.Errorf("record: decoding event: %w", err)
	}

	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return fmt.Errorf("record: decoding event: %w", err)
	}
	*e = Event{
		Kind:       w.Kind,
		Level:      w.Level,
		Spans:      w.Spans,
		Target:     w.Target,
		ThreadID:   w.ThreadID,
		ThreadName: w.ThreadName,
		SrcLine:    w.SrcLine,
		SrcFile:    w.SrcFile,
		Time:       w.Time,
	}
	return nil
}

// normalizeKeys rewrites any long-form key present in data to its short
// form, leaving short-form keys and unrecognized keys untouched. It
// operates on the decoded generic map rather than the raw bytes so that
// nested structures (spans, field maps) are not disturbed.
func normalizeKeys(data []byte, shortByLong map[string]string) ([]byte, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	longByShort := make(map[string]string, len(shortByLong))
	for short, long := range shortByLong {
		longByShort[long] = short
	}

	out := make(map[string]json.RawMessage, len(m))
	for key, value := range m {
		if short, isLong := longByShort[key]; isLong {
			if _, alreadyHasShort := m[short]; alreadyHasShort && short != key {
				continue // the short form, if also present, wins.
			}
			out[short] = value
			continue
		}
		out[key] = value
	}
	return json.Marshal(out)
}
