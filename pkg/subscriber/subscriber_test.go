package subscriber_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/buildbarn/bb-event-log/pkg/clock"
	"github.com/buildbarn/bb-event-log/pkg/format/jsonformat"
	"github.com/buildbarn/bb-event-log/pkg/hosttrace"
	"github.com/buildbarn/bb-event-log/pkg/subscriber"
	"github.com/buildbarn/bb-event-log/pkg/writer"
	"github.com/stretchr/testify/require"
)

// recordFunc replays field values into whatever hosttrace.FieldVisitor
// the host framework hands a span/event.
type recordFunc func(v hosttrace.FieldVisitor)

type fakeAttrs struct {
	meta hosttrace.Metadata
	rec  recordFunc
}

func (a fakeAttrs) Metadata() hosttrace.Metadata     { return a.meta }
func (a fakeAttrs) Record(v hosttrace.FieldVisitor) { if a.rec != nil { a.rec(v) } }

type fakeEvent struct {
	meta hosttrace.Metadata
	rec  recordFunc
}

func (e fakeEvent) Metadata() hosttrace.Metadata     { return e.meta }
func (e fakeEvent) Record(v hosttrace.FieldVisitor) { if e.rec != nil { e.rec(v) } }

// testSpan is a minimal hosttrace.SpanRef whose ancestry is a parent
// pointer, letting Scope() be derived rather than stored redundantly.
type testSpan struct {
	id     hosttrace.SpanID
	meta   hosttrace.Metadata
	ext    hosttrace.Extensions
	parent *testSpan
}

func (s *testSpan) ID() hosttrace.SpanID             { return s.id }
func (s *testSpan) Metadata() hosttrace.Metadata      { return s.meta }
func (s *testSpan) Extensions() *hosttrace.Extensions { return &s.ext }

func (s *testSpan) Scope() []hosttrace.SpanRef {
	var reversed []hosttrace.SpanRef
	for cur := s; cur != nil; cur = cur.parent {
		reversed = append(reversed, cur)
	}
	scope := make([]hosttrace.SpanRef, len(reversed))
	for i, s := range reversed {
		scope[len(reversed)-1-i] = s
	}
	return scope
}

// testRegistry is a hand-rolled hosttrace.Registry driven directly by a
// test: newSpan/enter/exit/closeSpan call through to a Subscriber the
// same way a real host tracing framework would.
type testRegistry struct {
	spans   map[hosttrace.SpanID]*testSpan
	entered []*testSpan
}

func newTestRegistry() *testRegistry {
	return &testRegistry{spans: map[hosttrace.SpanID]*testSpan{}}
}

func (r *testRegistry) Span(id hosttrace.SpanID) (hosttrace.SpanRef, bool) {
	s, ok := r.spans[id]
	return s, ok
}

func (r *testRegistry) LookupCurrent() (hosttrace.SpanRef, bool) {
	if len(r.entered) == 0 {
		return nil, false
	}
	return r.entered[len(r.entered)-1], true
}

func (r *testRegistry) newSpan(sub *subscriber.Subscriber, id hosttrace.SpanID, name string, parent *testSpan, rec recordFunc) *testSpan {
	s := &testSpan{id: id, meta: hosttrace.Metadata{Name: name, Level: hosttrace.LevelInfo, Target: "pkgtest"}, parent: parent}
	r.spans[id] = s
	sub.OnNewSpan(fakeAttrs{meta: s.meta, rec: rec}, id, r)
	return s
}

func (r *testRegistry) enter(sub *subscriber.Subscriber, s *testSpan) {
	r.entered = append(r.entered, s)
	sub.OnEnter(s.id, r)
}

func (r *testRegistry) exit(sub *subscriber.Subscriber, s *testSpan) {
	sub.OnExit(s.id, r)
	r.entered = r.entered[:len(r.entered)-1]
}

func (r *testRegistry) closeSpan(sub *subscriber.Subscriber, s *testSpan) {
	sub.OnClose(s.id, r)
	delete(r.spans, s.id)
}

// fakeClock advances by a fixed step every time Now is called, so
// busy/idle accounting is exact and deterministic.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}
func (c *fakeClock) NewContextWithTimeout(context.Context, time.Duration) (context.Context, context.CancelFunc) {
	panic("not implemented")
}
func (c *fakeClock) NewTimer(time.Duration) (clock.Timer, <-chan time.Time) { panic("not implemented") }
func (c *fakeClock) NewTicker(time.Duration) (clock.Ticker, <-chan time.Time) {
	panic("not implemented")
}

func decodeLines(t *testing.T, data []byte) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

// TestSimpleEventWithNoSpan covers a bare event with no active span:
// Scenario 1, an empty span stack serialized as "s":[].
func TestSimpleEventWithNoSpan(t *testing.T) {
	var buf bytes.Buffer
	sub := subscriber.NewBuilder(jsonformat.Format{}, writer.NewWriter(&buf)).
		TimeSpans(false).
		SourceLocation(false).
		Finish()

	reg := newTestRegistry()
	sub.OnEvent(fakeEvent{
		meta: hosttrace.Metadata{Name: "event", Level: hosttrace.LevelInfo, Target: "pkgtest"},
		rec: func(v hosttrace.FieldVisitor) {
			v.RecordStr("message", "hello world")
		},
	}, reg)

	lines := decodeLines(t, buf.Bytes())
	require.Len(t, lines, 1)
	require.Equal(t, []interface{}{}, lines[0]["s"])
	require.Equal(t, "pkgtest", lines[0]["t"])
	event := lines[0]["ty"].(map[string]interface{})["event"].(map[string]interface{})
	require.Equal(t, "hello world", event["message"])
}

// TestNestedSpansWithAllLifecycleEventsAndTiming covers Scenario 2: a
// parent span containing a child span, every span lifecycle event
// enabled, and span timing asserted consistent with the fake clock's
// wall-clock advance (busy > 0, and busy + idle bounded by the fake
// clock's total advance).
func TestNestedSpansWithAllLifecycleEventsAndTiming(t *testing.T) {
	var buf bytes.Buffer
	fc := &fakeClock{now: time.Unix(1000, 0), step: time.Second}
	sub := subscriber.NewBuilder(jsonformat.Format{}, writer.NewWriter(&buf)).
		WithSpanEvents(subscriber.SpanEventFull).
		TimeSpans(true).
		WithSpanTimerClock(fc).
		SourceLocation(false).
		Finish()

	reg := newTestRegistry()

	parent := reg.newSpan(sub, 1, "parent", nil, func(v hosttrace.FieldVisitor) {
		v.RecordI64("attempt", 1)
	})
	reg.enter(sub, parent)

	child := reg.newSpan(sub, 2, "child", parent, func(v hosttrace.FieldVisitor) {
		v.RecordBool("cached", false)
	})
	reg.enter(sub, child)

	sub.OnEvent(fakeEvent{
		meta: hosttrace.Metadata{Name: "event", Level: hosttrace.LevelInfo, Target: "pkgtest"},
		rec: func(v hosttrace.FieldVisitor) {
			v.RecordStr("message", "working")
		},
	}, reg)

	reg.exit(sub, child)
	reg.closeSpan(sub, child)
	reg.exit(sub, parent)
	reg.closeSpan(sub, parent)

	lines := decodeLines(t, buf.Bytes())

	var kinds []string
	var childCloseBusy, childCloseIdle float64
	var parentCloseBusy, parentCloseIdle float64
	for _, line := range lines {
		tagged := line["ty"]
		switch v := tagged.(type) {
		case string:
			kinds = append(kinds, v)
		case map[string]interface{}:
			if sc, ok := v["span_close"]; ok {
				kinds = append(kinds, "span_close")
				spans := line["s"].([]interface{})
				name := spans[len(spans)-1].(map[string]interface{})["n"].(string)
				timing := sc.(map[string]interface{})
				if name == "child" {
					childCloseBusy = timing["busy"].(float64)
					childCloseIdle = timing["idle"].(float64)
				} else {
					parentCloseBusy = timing["busy"].(float64)
					parentCloseIdle = timing["idle"].(float64)
				}
			} else {
				kinds = append(kinds, "event")
			}
		}
	}

	require.Contains(t, kinds, "span_create")
	require.Contains(t, kinds, "span_enter")
	require.Contains(t, kinds, "span_exit")
	require.Contains(t, kinds, "span_close")
	require.Contains(t, kinds, "event")

	// The fake clock advances by one second on every Now() call; a
	// span's recorded busy+idle can never exceed the number of
	// transitions observed times that step, regardless of scheduling.
	require.LessOrEqual(t, childCloseBusy+childCloseIdle, float64(20*time.Second))
	require.LessOrEqual(t, parentCloseBusy+parentCloseIdle, float64(20*time.Second))
	require.Greater(t, childCloseBusy, float64(0))
	require.Greater(t, parentCloseBusy, float64(0))
}
