package format_test

import (
	"bytes"
	"testing"

	"github.com/buildbarn/bb-event-log/pkg/fieldvalue"
	"github.com/buildbarn/bb-event-log/pkg/format"
	"github.com/buildbarn/bb-event-log/pkg/format/jsonformat"
	"github.com/buildbarn/bb-event-log/pkg/format/msgpackformat"
	"github.com/buildbarn/bb-event-log/pkg/record"
	"github.com/stretchr/testify/require"
)

func u64(v uint64) *uint64 { return &v }
func u32(v uint32) *uint32 { return &v }
func str(v string) *string { return &v }

func sampleSpans() []record.Span {
	egg1Fields := fieldvalue.NewFields()
	egg1Fields.Set("q", fieldvalue.Bool(false))
	egg1Fields.Set("long", fieldvalue.Str("a very long string for me"))

	catFields := fieldvalue.NewFields()
	catFields.Set("a", fieldvalue.Int(4))
	catFields.Set("b", fieldvalue.Str("bval"))

	egg2Fields := fieldvalue.NewFields()
	egg2Fields.Set("x", fieldvalue.Float(4.01))

	return []record.Span{
		{Name: "egg", ID: u64(5), Fields: egg1Fields},
		{Name: "cat", ID: u64(6), Fields: catFields},
		{Name: "egg", ID: u64(5), Fields: egg2Fields},
	}
}

// matrixEvents produces the cross product of 5 event kinds x 5 levels,
// each with the same 3-span fragment stack, covering one sample of
// every FieldValue variant across the spans.
func matrixEvents() []record.Event {
	fields := fieldvalue.NewFields()
	fields.Set("message", fieldvalue.Str("hello"))
	fields.Set("n", fieldvalue.Int(-7))

	kinds := []record.EventKind{
		record.NewEvent(fields),
		record.NewSpanCreate(),
		record.NewSpanEnter(),
		record.NewSpanExit(),
		record.NewSpanClose(&record.SpanTime{Busy: 1, Idle: 20}),
	}
	levels := []record.Level{
		record.LevelTrace, record.LevelDebug, record.LevelInfo, record.LevelWarn, record.LevelError,
	}

	var events []record.Event
	for _, kind := range kinds {
		for _, level := range levels {
			events = append(events, record.Event{
				Kind:       kind,
				Level:      level,
				Spans:      sampleSpans(),
				Target:     "hey",
				ThreadID:   u64(14),
				ThreadName: str("worker"),
				SrcLine:    u32(34),
				SrcFile:    str("path/to/code.go"),
				Time:       &record.UnixTime{Seconds: 0, Nanos: 0},
			})
		}
	}
	return events
}

func testDriverRoundTrip(t *testing.T, driver interface {
	format.Driver
	format.StreamDriver
}) {
	events := matrixEvents()

	var buf bytes.Buffer
	for _, e := range events {
		require.NoError(t, driver.Serialize(&buf, e))
	}

	stream := driver.IterReader(&buf)
	var decoded []record.Event
	for {
		e, err, ok := stream.Next()
		if !ok {
			break
		}
		require.NoError(t, err)
		decoded = append(decoded, e)
	}

	require.Len(t, decoded, len(events))
	for i := range events {
		require.True(t, events[i].Equal(decoded[i]), "event %d did not round-trip: %+v != %+v", i, events[i], decoded[i])
	}
}

func TestJSONFormatRoundTripsMatrix(t *testing.T) {
	testDriverRoundTrip(t, jsonformat.Format{})
}

func TestMsgpackFormatRoundTripsMatrix(t *testing.T) {
	testDriverRoundTrip(t, msgpackformat.Format{})
}

func TestJSONFormatEmitsNewlineDelimited(t *testing.T) {
	var buf bytes.Buffer
	fields := fieldvalue.NewFields()
	fields.Set("message", fieldvalue.Str("hi"))
	e := record.Event{Kind: record.NewEvent(fields), Level: record.LevelInfo, Target: "t"}

	require.NoError(t, jsonformat.Format{}.Serialize(&buf, e))
	require.NoError(t, jsonformat.Format{}.Serialize(&buf, e))

	data := buf.Bytes()
	require.Equal(t, byte('\n'), data[len(data)-1])

	stream := jsonformat.Format{}.IterReader(&buf)
	count := 0
	for {
		_, err, ok := stream.Next()
		if !ok {
			break
		}
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 2, count)
}

func TestJSONFormatStreamStopsOnMalformedRecord(t *testing.T) {
	stream := jsonformat.Format{}.IterReader(bytes.NewReader([]byte(`{"ty":"span_create","l":0,"s":[],"t":"x"}` + "\n" + `not json` + "\n")))

	_, err, ok := stream.Next()
	require.True(t, ok)
	require.NoError(t, err)

	_, err, ok = stream.Next()
	require.True(t, ok)
	require.Error(t, err)

	_, _, ok = stream.Next()
	require.False(t, ok, "stream must not yield further events after a malformed record")
}
