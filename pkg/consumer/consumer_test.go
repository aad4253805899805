package consumer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/buildbarn/bb-event-log/pkg/consumer"
	"github.com/buildbarn/bb-event-log/pkg/fieldvalue"
	"github.com/buildbarn/bb-event-log/pkg/format/jsonformat"
	"github.com/buildbarn/bb-event-log/pkg/record"
	"github.com/stretchr/testify/require"
)

func TestIterReaderYieldsEveryEvent(t *testing.T) {
	input := `{"ty":"span_create","l":2,"s":[],"t":"pkgtest"}
{"ty":{"event":{"message":"hi"}},"l":2,"s":[],"t":"pkgtest"}
`
	stream := consumer.IterReader(jsonformat.Format{}, strings.NewReader(input))

	e1, err, ok := stream.Next()
	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, record.EventKindSpanCreate, e1.Kind.Tag)

	e2, err, ok := stream.Next()
	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, record.EventKindEvent, e2.Kind.Tag)
	msg, found := e2.Kind.Fields.Get("message")
	require.True(t, found)
	s, _ := msg.AsStr()
	require.Equal(t, "hi", s)

	_, err, ok = stream.Next()
	require.False(t, ok)
	require.NoError(t, err)
}

func TestIterFileMissingFileYieldsOpenErrorOnce(t *testing.T) {
	stream := consumer.IterFile(jsonformat.Format{}, filepath.Join(t.TempDir(), "missing.json"))

	_, err, ok := stream.Next()
	require.Error(t, err)
	require.True(t, ok)

	_, err, ok = stream.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReadFileRoundTripsEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.json")

	fields := fieldvalue.NewFields()
	fields.Set("message", fieldvalue.Str("started"))
	want := record.Event{
		Kind:   record.NewEvent(fields),
		Level:  record.LevelInfo,
		Target: "pkgtest",
	}

	var buf strings.Builder
	require.NoError(t, jsonformat.Format{}.Serialize(&buf, want))
	require.NoError(t, os.WriteFile(path, []byte(buf.String()), 0o644))

	events, err := consumer.ReadFile(jsonformat.Format{}, path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.True(t, want.Equal(events[0]))
}

func TestReadFileStopsAtFirstDecodeError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ty":"span_create","l":2,"s":[],"t":"a"}`+"\nnot json\n"), 0o644))

	events, err := consumer.ReadFile(jsonformat.Format{}, path)
	require.Error(t, err)
	require.Nil(t, events)
}
