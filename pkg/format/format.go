// Package format declares the serialization contract a record driver
// must satisfy: write one event, and stream events back out of an
// io.Reader. Concrete drivers live in sibling packages (jsonformat,
// msgpackformat) so that pulling in a binary codec never forces an
// import of a text one or vice versa.
package format

import (
	"io"

	"github.com/buildbarn/bb-event-log/pkg/record"
)

// Driver serializes a single event to a writer. MessageSizeHint is
// advisory: callers (notably the subscriber, before serializing a
// record) may use it to size a buffer up front, but must not rely on it
// being exact.
type Driver interface {
	MessageSizeHint() int
	Serialize(w io.Writer, event record.Event) error
}

// StreamDriver produces a Stream of events read back out of r. Drivers
// that also implement Driver can serialize and deserialize the same
// wire format; a format need not support both directions.
type StreamDriver interface {
	IterReader(r io.Reader) Stream
}

// Stream yields events one at a time. Next returns (event, nil, true)
// on success, (_, err, true) on a read/decode error that the stream
// cannot recover from, and (_, nil, false) at a clean end of input.
// Once Next reports false or a non-nil error, the stream is exhausted:
// it does not attempt to resynchronize and keep yielding further events.
type Stream interface {
	Next() (record.Event, error, bool)
}
