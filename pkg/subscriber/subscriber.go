package subscriber

import (
	"bytes"

	"github.com/buildbarn/bb-event-log/pkg/clock"
	"github.com/buildbarn/bb-event-log/pkg/fieldvalue"
	"github.com/buildbarn/bb-event-log/pkg/format"
	"github.com/buildbarn/bb-event-log/pkg/hosttrace"
	"github.com/buildbarn/bb-event-log/pkg/record"
	"github.com/buildbarn/bb-event-log/pkg/spancontext"
	"github.com/buildbarn/bb-event-log/pkg/timing"
	"github.com/buildbarn/bb-event-log/pkg/util"
	"github.com/buildbarn/bb-event-log/pkg/writer"
)

// Subscriber is a hosttrace.Subscriber that serializes every span/event
// callback it observes into a record.Event and hands it to a Writer. It
// holds no per-span state of its own: everything that needs to outlive a
// single callback (the span-context fragment, the busy/idle timer) is
// stashed on the span's own hosttrace.Extensions by OnNewSpan.
type Subscriber struct {
	driver         format.Driver
	writer         writer.Writer
	wallClock      timing.WallClock
	sourceLocation bool
	timeSpans      bool
	recordNew      bool
	recordEnter    bool
	recordExit     bool
	recordClose    bool
	threadNames    bool
	threadIDs      bool
	metrics        *prometheusMetrics
	errorLogger    util.ErrorLogger
	spanTimerClock clock.Clock
}

var _ hosttrace.Subscriber = (*Subscriber)(nil)

// OnNewSpan attaches a fresh context fragment (and, if enabled, a
// SpanTimer) to the span's Extensions the first time it is seen, and
// optionally emits an EventKindSpanCreate record.
func (s *Subscriber) OnNewSpan(attrs hosttrace.Attributes, id hosttrace.SpanID, reg hosttrace.Registry) {
	span, ok := reg.Span(id)
	if !ok {
		panic(hosttrace.PanicSpanNotFound)
	}
	ext := span.Extensions()
	meta := span.Metadata()

	var stack *spancontext.Fragment
	if s.recordNew {
		stack = spancontext.Current(reg)
	}

	if ext.Fragment == nil {
		spanID := uint64(id)
		fragment := spancontext.NewSpanFragment(meta.Name, &spanID)
		attrs.Record(fragment)
		ext.Fragment = fragment
		if stack != nil {
			stack.AppendChild(fragment)
		}
	} else if stack != nil {
		stack.AppendChild(spancontext.FromExtensions(ext))
	}

	if s.timeSpans && ext.Timer == nil {
		ext.Timer = timing.NewSpanTimer(s.spanTimerClock)
	}

	if stack != nil {
		s.emit(meta, stack, record.NewSpanCreate())
	}
}

// OnEvent serializes a single EventKindEvent record carrying the
// event's own fields and the span stack currently active on the calling
// goroutine.
func (s *Subscriber) OnEvent(event hosttrace.Event, reg hosttrace.Registry) {
	meta := event.Metadata()
	stack := spancontext.Current(reg)
	fields := fieldvalue.NewFields()
	event.Record(fields)
	s.emit(meta, stack, record.NewEvent(fields))
}

// OnEnter optionally emits an EventKindSpanEnter record and, if span
// timing is enabled, credits the elapsed idle time to the span's timer.
func (s *Subscriber) OnEnter(id hosttrace.SpanID, reg hosttrace.Registry) {
	if !s.recordEnter && !s.timeSpans {
		return
	}
	span, ok := reg.Span(id)
	if !ok {
		panic(hosttrace.PanicSpanNotFound)
	}

	if s.recordEnter {
		stack := spancontext.Current(reg)
		s.emit(span.Metadata(), stack, record.NewSpanEnter())
	}

	if timer, ok := span.Extensions().Timer.(*timing.SpanTimer); ok {
		timer.StartBusy()
	}
}

// OnExit optionally emits an EventKindSpanExit record and, if span
// timing is enabled, credits the elapsed busy time to the span's timer.
func (s *Subscriber) OnExit(id hosttrace.SpanID, reg hosttrace.Registry) {
	if !s.recordExit && !s.timeSpans {
		return
	}
	span, ok := reg.Span(id)
	if !ok {
		panic(hosttrace.PanicSpanNotFound)
	}

	if s.recordExit {
		stack := spancontext.BuildLeaveStack(reg, span)
		s.emit(span.Metadata(), stack, record.NewSpanExit())
	}

	if timer, ok := span.Extensions().Timer.(*timing.SpanTimer); ok {
		timer.EndBusy()
	}
}

// OnClose optionally emits the final EventKindSpanClose record,
// carrying the span's accumulated busy/idle timing if timing was
// enabled.
func (s *Subscriber) OnClose(id hosttrace.SpanID, reg hosttrace.Registry) {
	if !s.recordClose {
		return
	}
	span, ok := reg.Span(id)
	if !ok {
		panic(hosttrace.PanicSpanNotFound)
	}

	stack := spancontext.BuildLeaveStack(reg, span)

	var snapshot *record.SpanTime
	if timer, ok := span.Extensions().Timer.(*timing.SpanTimer); ok {
		t := record.FromTiming(timer.Finish())
		snapshot = &t
	}

	s.emit(span.Metadata(), stack, record.NewSpanClose(snapshot))
}

// emit assembles a record.Event from meta/stack/kind and writes it out.
func (s *Subscriber) emit(meta hosttrace.Metadata, stack *spancontext.Fragment, kind record.EventKind) {
	event := record.Event{
		Kind:   kind,
		Level:  convertLevel(meta.Level),
		Spans:  stack.ToSpans(),
		Target: meta.Target,
	}

	if s.sourceLocation && meta.HasLoc {
		file := meta.File
		line := meta.Line
		event.SrcFile = &file
		event.SrcLine = &line
	}

	if s.threadIDs || s.threadNames {
		id, name := currentThread()
		if s.threadIDs {
			event.ThreadID = &id
		}
		if s.threadNames {
			event.ThreadName = &name
		}
	}

	if t, ok := s.wallClock.Time(); ok {
		wire := record.FromWallClock(t)
		event.Time = &wire
	}

	var buf bytes.Buffer
	buf.Grow(s.driver.MessageSizeHint())
	if err := s.driver.Serialize(&buf, event); err != nil {
		s.errorLogger.Log(err)
		if s.metrics != nil {
			s.metrics.writeErrors.Inc()
		}
		return
	}

	if err := s.writer.Write(buf.Bytes()); err != nil {
		s.errorLogger.Log(err)
		if s.metrics != nil {
			s.metrics.writeErrors.Inc()
		}
		return
	}

	if s.metrics != nil {
		s.metrics.recordsEmitted.WithLabelValues(kind.Tag.String()).Inc()
	}
}

func convertLevel(l hosttrace.Level) record.Level {
	switch l {
	case hosttrace.LevelTrace:
		return record.LevelTrace
	case hosttrace.LevelDebug:
		return record.LevelDebug
	case hosttrace.LevelInfo:
		return record.LevelInfo
	case hosttrace.LevelWarn:
		return record.LevelWarn
	case hosttrace.LevelError:
		return record.LevelError
	default:
		return record.LevelInfo
	}
}
