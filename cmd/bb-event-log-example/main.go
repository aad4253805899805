// Command bb-event-log-example wires every layer of this module
// together end to end: a demo host tracing registry drives a
// subscriber.Subscriber, which serializes nested spans and events
// through jsonformat into a file via a non-blocking writer, and the
// file is then read back and rendered with a consumer.PrettyPrinter.
// It exists to exercise the wiring, not as a reusable library.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/buildbarn/bb-event-log/pkg/atomic"
	"github.com/buildbarn/bb-event-log/pkg/clock"
	"github.com/buildbarn/bb-event-log/pkg/consumer"
	"github.com/buildbarn/bb-event-log/pkg/format/jsonformat"
	"github.com/buildbarn/bb-event-log/pkg/hosttrace"
	"github.com/buildbarn/bb-event-log/pkg/program"
	"github.com/buildbarn/bb-event-log/pkg/random"
	"github.com/buildbarn/bb-event-log/pkg/subscriber"
	"github.com/buildbarn/bb-event-log/pkg/timing"
	"github.com/buildbarn/bb-event-log/pkg/util"
	"github.com/buildbarn/bb-event-log/pkg/writer/nonblocking"
	"github.com/google/uuid"
)

// demoSpan is a minimal hosttrace.SpanRef whose ancestry is a parent
// pointer, the same shape used by this module's own subscriber tests.
type demoSpan struct {
	id     hosttrace.SpanID
	meta   hosttrace.Metadata
	ext    hosttrace.Extensions
	parent *demoSpan
}

func (s *demoSpan) ID() hosttrace.SpanID             { return s.id }
func (s *demoSpan) Metadata() hosttrace.Metadata      { return s.meta }
func (s *demoSpan) Extensions() *hosttrace.Extensions { return &s.ext }

func (s *demoSpan) Scope() []hosttrace.SpanRef {
	var reversed []hosttrace.SpanRef
	for cur := s; cur != nil; cur = cur.parent {
		reversed = append(reversed, cur)
	}
	scope := make([]hosttrace.SpanRef, len(reversed))
	for i, rs := range reversed {
		scope[len(reversed)-1-i] = rs
	}
	return scope
}

// fieldRecorder replays a fixed set of field values into whatever
// hosttrace.FieldVisitor the subscriber hands it, so that span/event
// construction and field recording can be expressed as one call.
type fieldRecorder func(v hosttrace.FieldVisitor)

type demoAttrs struct {
	meta hosttrace.Metadata
	rec  fieldRecorder
}

func (a demoAttrs) Metadata() hosttrace.Metadata    { return a.meta }
func (a demoAttrs) Record(v hosttrace.FieldVisitor) { a.rec(v) }

type demoEvent struct {
	meta hosttrace.Metadata
	rec  fieldRecorder
}

func (e demoEvent) Metadata() hosttrace.Metadata    { return e.meta }
func (e demoEvent) Record(v hosttrace.FieldVisitor) { e.rec(v) }

// demoRegistry is a hand-rolled hosttrace.Registry for a single
// goroutine: "current" is tracked as a call stack of entered spans,
// using the same non-empty-stack discipline this module's util package
// offers for any stack that must never be popped empty.
type demoRegistry struct {
	nextID  atomic.Uint64
	spans   map[hosttrace.SpanID]*demoSpan
	entered util.NonEmptyStack[*demoSpan]
}

// rootSentinel occupies the base of the entered stack so that
// NonEmptyStack's invariant (never pop the last element) holds even
// when no real span is active; LookupCurrent treats it as "no span".
var rootSentinel = &demoSpan{}

func newDemoRegistry() *demoRegistry {
	return &demoRegistry{
		spans:   map[hosttrace.SpanID]*demoSpan{},
		entered: util.NewNonEmptyStack(rootSentinel),
	}
}

func (r *demoRegistry) Span(id hosttrace.SpanID) (hosttrace.SpanRef, bool) {
	s, ok := r.spans[id]
	return s, ok
}

func (r *demoRegistry) LookupCurrent() (hosttrace.SpanRef, bool) {
	top := r.entered.Peek()
	if top == rootSentinel {
		return nil, false
	}
	return top, true
}

// newSpan allocates a fresh span ID, registers the span, and notifies
// sub via OnNewSpan, mirroring how a real tracing framework constructs
// a span and immediately announces it to every installed layer.
func (r *demoRegistry) newSpan(sub *subscriber.Subscriber, name string, parent *demoSpan, rec fieldRecorder) *demoSpan {
	id := hosttrace.SpanID(r.nextID.Add(1))
	s := &demoSpan{
		id:     id,
		meta:   hosttrace.Metadata{Name: name, Level: hosttrace.LevelInfo, Target: "bb-event-log-example"},
		parent: parent,
	}
	r.spans[id] = s
	sub.OnNewSpan(demoAttrs{meta: s.meta, rec: rec}, id, r)
	return s
}

func (r *demoRegistry) enter(sub *subscriber.Subscriber, s *demoSpan) {
	r.entered.Push(s)
	sub.OnEnter(s.id, r)
}

func (r *demoRegistry) exit(sub *subscriber.Subscriber, s *demoSpan) {
	sub.OnExit(s.id, r)
	r.entered.PopSingle()
}

func (r *demoRegistry) closeSpan(sub *subscriber.Subscriber, s *demoSpan) {
	sub.OnClose(s.id, r)
	delete(r.spans, s.id)
}

func (r *demoRegistry) event(sub *subscriber.Subscriber, name string, rec fieldRecorder) {
	sub.OnEvent(demoEvent{
		meta: hosttrace.Metadata{Name: name, Level: hosttrace.LevelInfo, Target: "bb-event-log-example"},
		rec:  rec,
	}, r)
}

func main() {
	program.RunMain(func(ctx context.Context, siblingsGroup, dependenciesGroup program.Group) error {
		outputPath := "bb-event-log-example.jsonl"
		if len(os.Args) > 1 {
			outputPath = os.Args[1]
		}

		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file %q: %w", outputPath, err)
		}
		defer file.Close()

		nonBlockingWriter, flushGuard := nonblocking.NewBuilder().
			BufferSize(256).
			ErrorLogger(util.DefaultErrorLogger).
			Finish(file)
		defer flushGuard.Close()

		sub := subscriber.NewBuilder(jsonformat.Format{}, nonBlockingWriter).
			WithSpanEvents(subscriber.SpanEventFull).
			TimeSpans(true).
			WithSpanTimerClock(clock.SystemClock).
			WithWallClock(timing.SystemWallClock).
			WithThreads(true, true).
			WithPrometheusMetrics().
			Finish()

		runDemoWorkload(sub)

		// Releasing the non-blocking writer's flush guard here (rather
		// than only via defer) guarantees every record has reached disk
		// before it is read back below.
		flushGuard.Close()

		events := util.Must(consumer.ReadFile(jsonformat.Format{}, outputPath))

		printer := consumer.NewPrettyPrinter().WithColorizer(consumer.NewANSIColorizer())
		for _, event := range events {
			fmt.Print(printer.Format(event))
		}

		return nil
	})
}

// runDemoWorkload drives a small, representative span tree through sub:
// one "request" span identified by a freshly generated request ID,
// containing a nested "work" span whose simulated duration is jittered
// by a non-cryptographic random generator.
func runDemoWorkload(sub *subscriber.Subscriber) {
	reg := newDemoRegistry()
	gen := random.NewFastSingleThreadedGenerator()

	requestID := uuid.New().String()
	request := reg.newSpan(sub, "request", nil, func(v hosttrace.FieldVisitor) {
		v.RecordStr("request_id", requestID)
	})
	reg.enter(sub, request)

	work := reg.newSpan(sub, "work", request, func(v hosttrace.FieldVisitor) {
		v.RecordBool("cached", false)
	})
	reg.enter(sub, work)

	reg.event(sub, "event", func(v hosttrace.FieldVisitor) {
		v.RecordStr("message", "processing request")
	})

	jitter := time.Duration(gen.Intn(5)) * time.Millisecond
	time.Sleep(jitter)

	reg.exit(sub, work)
	reg.closeSpan(sub, work)

	reg.event(sub, "event", func(v hosttrace.FieldVisitor) {
		v.RecordStr("message", "request complete")
	})

	reg.exit(sub, request)
	reg.closeSpan(sub, request)
}
