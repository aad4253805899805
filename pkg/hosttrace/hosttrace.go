// Package hosttrace describes the narrow slice of a host tracing
// framework's span registry that a subscriber layer needs: metadata
// lookup, per-span extension storage, and a way to walk the currently
// active span stack from root to leaf. It plays the same role here as
// tracing_subscriber::layer::{Context, Layer} and
// tracing_subscriber::registry::LookupSpan do for the Rust crate this
// package's sibling packages were ported from: the actual span registry
// (how spans are created, how "current" is tracked per goroutine/thread)
// is host-framework machinery outside this module's scope, so only the
// contract a layer observes is modeled here.
package hosttrace

// Level mirrors the five standard tracing severities, ordered from most
// to least verbose.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// SpanID identifies a span within the host registry. Zero is never a
// valid ID: spans are numbered starting from one, matching the
// nonzero-u64 requirement on the wire.
type SpanID uint64

// Metadata describes the static, compile-time-known facts about a span
// or event: its name, level, target (by convention the module/package
// path it was recorded in) and optional source location.
type Metadata struct {
	Name   string
	Level  Level
	Target string
	File   string
	Line   uint32
	HasLoc bool
}

// FieldVisitor receives typed callbacks from the host framework as it
// walks the fields attached to a span or event. Implementations append
// each visited field to their own storage; the host framework decides
// the order in which fields are visited.
type FieldVisitor interface {
	RecordBool(name string, value bool)
	RecordI64(name string, value int64)
	RecordU64(name string, value uint64)
	RecordF64(name string, value float64)
	RecordStr(name string, value string)
	RecordDebug(name string, value interface{})
}

// Attributes is the set of fields a span was created with, along with
// its static metadata. It supports a single pass over its fields via
// Record.
type Attributes interface {
	Metadata() Metadata
	Record(visitor FieldVisitor)
}

// Event is a single recorded tracing event, with a single pass over its
// fields via Record.
type Event interface {
	Metadata() Metadata
	Record(visitor FieldVisitor)
}

// Extensions is the per-span storage a layer uses to stash its own
// state (a span-context fragment, and optionally a span timer) between
// callbacks. The host registry guarantees one writer at a time per span,
// and destroys the Extensions when the span itself is dropped.
type Extensions struct {
	Fragment interface{}
	Timer    interface{}
}

// SpanRef is a handle onto one span in the registry, valid for the
// duration of the callback that obtained it.
type SpanRef interface {
	ID() SpanID
	Metadata() Metadata
	Extensions() *Extensions
	// Scope returns this span and all of its ancestors, ordered from
	// the root of the trace down to (and including) this span.
	Scope() []SpanRef
}

// Registry is the subset of the host tracing framework's span registry
// that a layer needs: looking up a span by ID, and finding the span
// that is current on whatever goroutine/thread is calling in.
type Registry interface {
	Span(id SpanID) (SpanRef, bool)
	LookupCurrent() (SpanRef, bool)
}

// Subscriber is the set of callbacks a layer registers to receive from
// the host tracing framework. It mirrors tracing_subscriber::layer::Layer:
// on_new_span, on_event, on_enter, on_exit and on_close.
type Subscriber interface {
	OnNewSpan(attrs Attributes, id SpanID, reg Registry)
	OnEvent(event Event, reg Registry)
	OnEnter(id SpanID, reg Registry)
	OnExit(id SpanID, reg Registry)
	OnClose(id SpanID, reg Registry)
}

// PanicSpanNotFound is raised when a callback is given a SpanID that the
// registry cannot resolve; this is a host-framework invariant violation,
// not a condition user code is expected to recover from.
const PanicSpanNotFound = "hosttrace: span not found in registry"

// PanicFragmentMissing is raised when a span is found but its Extensions
// carry no fragment; on_new_span is responsible for always attaching one
// before any other callback can observe the span.
const PanicFragmentMissing = "hosttrace: span has no context fragment attached"
