// Package consumer reads serialized records back into record.Event
// values and renders them for humans. It is the read side of the
// subscriber/writer pair: a streaming decoder over any format.StreamDriver,
// plus a pretty printer (see pprint.go).
package consumer

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/buildbarn/bb-event-log/pkg/format"
	"github.com/buildbarn/bb-event-log/pkg/record"
)

// IterReader streams events out of r using driver. It is a thin
// indirection over driver.IterReader, kept so call sites depend on this
// package rather than reaching into format directly.
func IterReader(driver format.StreamDriver, r io.Reader) format.Stream {
	return driver.IterReader(r)
}

// IterFile opens path in buffered mode and streams events from it. If
// the file cannot be opened, the returned Stream yields the open error
// exactly once and is exhausted afterward: callers do not need a
// separate error path for "could not open" versus "could not decode".
func IterFile(driver format.StreamDriver, path string) format.Stream {
	f, err := os.Open(path)
	if err != nil {
		return &openErrorStream{err: fmt.Errorf("consumer: opening %q: %w", path, err)}
	}
	return &fileStream{file: f, inner: driver.IterReader(bufio.NewReader(f))}
}

// ReadFile reads path to completion with driver. If decoding ever fails
// (including the file failing to open), it returns that error and no
// events, matching the fail-everything-or-collect-everything semantics
// of collecting a sequence of fallible reads into a single result.
func ReadFile(driver format.StreamDriver, path string) ([]record.Event, error) {
	stream := IterFile(driver, path)
	var events []record.Event
	for {
		event, err, ok := stream.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return events, nil
		}
		events = append(events, event)
	}
}

type openErrorStream struct {
	err    error
	served bool
}

func (s *openErrorStream) Next() (record.Event, error, bool) {
	if s.served {
		return record.Event{}, nil, false
	}
	s.served = true
	return record.Event{}, s.err, true
}

// fileStream closes its underlying file once the wrapped stream first
// reports exhaustion or an error, so a caller that only holds a
// format.Stream never leaks the file descriptor.
type fileStream struct {
	file   *os.File
	inner  format.Stream
	closed bool
}

func (s *fileStream) Next() (record.Event, error, bool) {
	event, err, ok := s.inner.Next()
	if !ok || err != nil {
		s.close()
	}
	return event, err, ok
}

func (s *fileStream) close() {
	if !s.closed {
		s.closed = true
		s.file.Close()
	}
}
