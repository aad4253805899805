package subscriber_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/buildbarn/bb-event-log/internal/mock"
	"github.com/buildbarn/bb-event-log/pkg/format/jsonformat"
	"github.com/buildbarn/bb-event-log/pkg/hosttrace"
	"github.com/buildbarn/bb-event-log/pkg/subscriber"
	"github.com/buildbarn/bb-event-log/pkg/writer"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// TestOnEventAgainstMockRegistry exercises the same OnEvent path as
// TestSimpleEventWithNoSpan, but against a gomock-generated Registry and
// Event instead of the hand-rolled test doubles used elsewhere in this
// package, to keep the mocked hosttrace contract under test too.
func TestOnEventAgainstMockRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)

	reg := mock.NewMockRegistry(ctrl)
	reg.EXPECT().LookupCurrent().Return(nil, false)

	event := mock.NewMockEvent(ctrl)
	event.EXPECT().Metadata().Return(hosttrace.Metadata{Name: "event", Level: hosttrace.LevelWarn, Target: "pkgtest"})
	event.EXPECT().Record(gomock.Any()).Do(func(v hosttrace.FieldVisitor) {
		v.RecordStr("message", "disk almost full")
		v.RecordI64("free_bytes", 1024)
	})

	var buf bytes.Buffer
	sub := subscriber.NewBuilder(jsonformat.Format{}, writer.NewWriter(&buf)).
		TimeSpans(false).
		SourceLocation(false).
		Finish()

	sub.OnEvent(event, reg)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimRight(buf.Bytes(), "\n"), &line))
	require.Equal(t, float64(int(hosttrace.LevelWarn)), line["l"])
	require.Equal(t, []interface{}{}, line["s"])

	fields := line["ty"].(map[string]interface{})["event"].(map[string]interface{})
	require.Equal(t, "disk almost full", fields["message"])
	require.Equal(t, float64(1024), fields["free_bytes"])
}
