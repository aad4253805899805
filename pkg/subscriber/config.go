// Package subscriber implements the hosttrace.Subscriber that turns
// span/event callbacks into serialized records on an output Writer. It
// is the component that ties together span-context assembly
// (spancontext), span timing (timing), the wire schema (record/format)
// and record delivery (writer).
package subscriber

import (
	"github.com/buildbarn/bb-event-log/pkg/clock"
	"github.com/buildbarn/bb-event-log/pkg/format"
	"github.com/buildbarn/bb-event-log/pkg/timing"
	"github.com/buildbarn/bb-event-log/pkg/util"
	"github.com/buildbarn/bb-event-log/pkg/writer"
)

// SpanEvents is a bitmask selecting which span lifecycle transitions are
// emitted as their own records, mirroring tracing_subscriber's FmtSpan
// bitflags.
type SpanEvents uint8

const (
	// SpanEventNew emits a record when a span is created.
	SpanEventNew SpanEvents = 1 << iota
	// SpanEventEnter emits a record each time a span is entered.
	SpanEventEnter
	// SpanEventExit emits a record each time a span is exited.
	SpanEventExit
	// SpanEventClose emits a record when a span is closed for good.
	SpanEventClose

	// SpanEventNone emits no span lifecycle records; only explicit
	// events are recorded. This is the default.
	SpanEventNone SpanEvents = 0
	// SpanEventFull emits a record for every lifecycle transition.
	SpanEventFull = SpanEventNew | SpanEventEnter | SpanEventExit | SpanEventClose
)

func (e SpanEvents) has(bit SpanEvents) bool {
	return e&bit == bit
}

// Builder configures a Subscriber before it is finished. The zero value
// is not usable; construct one with NewBuilder.
type Builder struct {
	driver         format.Driver
	writer         writer.Writer
	wallClock      timing.WallClock
	sourceLocation bool
	timeSpans      bool
	spanEvents     SpanEvents
	threadNames    bool
	threadIDs      bool
	metrics        *prometheusMetrics
	errorLogger    util.ErrorLogger
	spanTimerClock clock.Clock
}

// NewBuilder returns a Builder with the same defaults the original
// layer ships with: source locations included, span timing enabled, no
// span lifecycle records, no wall-clock timestamp, and no thread
// identification.
func NewBuilder(driver format.Driver, w writer.Writer) *Builder {
	return &Builder{
		driver:         driver,
		writer:         w,
		wallClock:      timing.NoopWallClock,
		sourceLocation: true,
		timeSpans:      true,
		spanEvents:     SpanEventNone,
		errorLogger:    util.DefaultErrorLogger,
	}
}

// WithSpanTimerClock sets the clock used by every span's SpanTimer. It
// exists mainly so tests can inject a deterministic clock; production
// callers can leave it unset to use clock.SystemClock.
func (b *Builder) WithSpanTimerClock(c clock.Clock) *Builder {
	b.spanTimerClock = c
	return b
}

// WithErrorLogger sets where serialization and write errors are
// reported, since none of the hosttrace.Subscriber callbacks have a
// way to return an error to their caller.
func (b *Builder) WithErrorLogger(logger util.ErrorLogger) *Builder {
	b.errorLogger = logger
	return b
}

// WithWriter replaces the destination records are serialized to.
func (b *Builder) WithWriter(w writer.Writer) *Builder {
	b.writer = w
	return b
}

// WithWallClock sets the source of per-event timestamps. The default,
// timing.NoopWallClock, attaches no timestamp at all.
func (b *Builder) WithWallClock(c timing.WallClock) *Builder {
	b.wallClock = c
	return b
}

// TimeSpans toggles whether a SpanTimer accumulates busy/idle duration
// for every span, surfaced on its SpanEventClose record.
func (b *Builder) TimeSpans(enable bool) *Builder {
	b.timeSpans = enable
	return b
}

// WithSpanEvents selects which span lifecycle transitions produce their
// own records.
func (b *Builder) WithSpanEvents(events SpanEvents) *Builder {
	b.spanEvents = events
	return b
}

// WithThreads toggles whether the calling goroutine's name and/or a
// stable numeric ID are attached to every record.
func (b *Builder) WithThreads(names, ids bool) *Builder {
	b.threadNames = names
	b.threadIDs = ids
	return b
}

// SourceLocation toggles whether the file/line an event or span was
// recorded at is attached to every record.
func (b *Builder) SourceLocation(include bool) *Builder {
	b.sourceLocation = include
	return b
}

// WithPrometheusMetrics registers (once per process) and enables
// counters tracking records emitted and write errors encountered. Call
// this only when the subscriber should export metrics; it is opt-in
// because not every embedder of this module runs a Prometheus registry.
func (b *Builder) WithPrometheusMetrics() *Builder {
	b.metrics = globalPrometheusMetrics()
	return b
}

// Finish builds the Subscriber. It panics if no Driver or Writer was
// provided, since those are not safe to default.
func (b *Builder) Finish() *Subscriber {
	if b.driver == nil {
		panic("subscriber: no format.Driver configured")
	}
	if b.writer == nil {
		panic("subscriber: no writer.Writer configured")
	}
	return &Subscriber{
		driver:         b.driver,
		writer:         b.writer,
		wallClock:      b.wallClock,
		sourceLocation: b.sourceLocation,
		timeSpans:      b.timeSpans,
		recordNew:      b.spanEvents.has(SpanEventNew),
		recordEnter:    b.spanEvents.has(SpanEventEnter),
		recordExit:     b.spanEvents.has(SpanEventExit),
		recordClose:    b.spanEvents.has(SpanEventClose),
		threadNames:    b.threadNames,
		threadIDs:      b.threadIDs,
		metrics:        b.metrics,
		errorLogger:    b.errorLogger,
		spanTimerClock: b.spanTimerClock,
	}
}
