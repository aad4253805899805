// Package jsonformat implements the line-delimited JSON record format:
// one compact JSON object per event, followed by a newline.
package jsonformat

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/buildbarn/bb-event-log/pkg/format"
	"github.com/buildbarn/bb-event-log/pkg/record"
)

// messageSizeHint is a guess at the typical serialized size of one
// event, used by callers such as the subscriber to size buffers up
// front.
const messageSizeHint = 512

// Format serializes events as line-delimited JSON and can stream them
// back out of a reader. The zero value is ready to use.
type Format struct{}

var (
	_ format.Driver       = Format{}
	_ format.StreamDriver = Format{}
)

// MessageSizeHint implements format.Driver.
func (Format) MessageSizeHint() int {
	return messageSizeHint
}

// Serialize writes event as a single compact JSON object followed by a
// newline.
func (Format) Serialize(w io.Writer, event record.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("jsonformat: marshaling event: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("jsonformat: writing event: %w", err)
	}
	return nil
}

// stream decodes a sequence of JSON values (not necessarily one per
// line; json.Decoder tracks object boundaries itself) out of an
// io.Reader, via the same streaming discipline as the standard
// library's json.NewDecoder(r).Decode loop.
type stream struct {
	dec    *json.Decoder
	failed bool
}

// IterReader implements format.StreamDriver.
func (Format) IterReader(r io.Reader) format.Stream {
	return &stream{dec: json.NewDecoder(r)}
}

// Next implements format.Stream. Once a malformed record is hit, the
// stream stops yielding further events rather than attempting to
// resynchronize on the next newline: a truncated or corrupt object can
// leave the decoder's position ambiguous, and guessing wrong would
// silently fabricate events that were never written.
func (s *stream) Next() (record.Event, error, bool) {
	if s.failed {
		return record.Event{}, nil, false
	}

	var e record.Event
	err := s.dec.Decode(&e)
	if err == io.EOF {
		return record.Event{}, nil, false
	}
	if err != nil {
		s.failed = true
		return record.Event{}, fmt.Errorf("jsonformat: decoding event: %w", err), true
	}
	return e, nil, true
}
