// Package spancontext assembles the per-event span stack: a flat,
// clonable list of span-start markers interleaved with their fields,
// one fragment per span, concatenated from root to leaf by copying each
// span's items rather than re-visiting its fields on every event.
package spancontext

import (
	"github.com/buildbarn/bb-event-log/pkg/fieldvalue"
	"github.com/buildbarn/bb-event-log/pkg/record"
)

// itemKind distinguishes the two shapes an Item can take.
type itemKind int

const (
	itemStart itemKind = iota
	itemField
)

// Item is one entry in a Fragment: either the marker that begins a new
// span (its name and optional registry-assigned ID) or one field
// belonging to the most recently started span.
type Item struct {
	kind  itemKind
	name  string
	id    *uint64
	value fieldvalue.FieldValue
}

func startItem(name string, id *uint64) Item {
	return Item{kind: itemStart, name: name, id: id}
}

func fieldItem(name string, value fieldvalue.FieldValue) Item {
	return Item{kind: itemField, name: name, value: value}
}

// Fragment is a flat sequence of Items. A Fragment attached to a single
// span's Extensions always begins with exactly one Start item followed
// by that span's own fields. A Fragment built to represent "the current
// stack" is the concatenation of one such per-span fragment for every
// span from the root of the trace down to the span of interest.
type Fragment struct {
	items []Item
}

// NewSpanFragment starts a new, single-span fragment: a Start item with
// no fields yet. Fields are added afterward via the FieldVisitor methods
// as the host framework visits the span's attributes.
func NewSpanFragment(name string, id *uint64) *Fragment {
	return &Fragment{items: []Item{startItem(name, id)}}
}

// Clone returns a deep copy, safe to mutate independently of f.
func (f *Fragment) Clone() *Fragment {
	items := make([]Item, len(f.items))
	copy(items, f.items)
	return &Fragment{items: items}
}

// AppendChild extends f with every item of child, in order. It is how
// per-span fragments are concatenated into a full current-stack
// fragment in O(len(child)) time, without re-walking spans already
// accounted for.
func (f *Fragment) AppendChild(child *Fragment) {
	f.items = append(f.items, child.items...)
}

// RecordBool implements hosttrace.FieldVisitor.
func (f *Fragment) RecordBool(name string, value bool) {
	f.items = append(f.items, fieldItem(name, fieldvalue.Bool(value)))
}

// RecordI64 implements hosttrace.FieldVisitor.
func (f *Fragment) RecordI64(name string, value int64) {
	f.items = append(f.items, fieldItem(name, fieldvalue.Int(value)))
}

// RecordU64 implements hosttrace.FieldVisitor. Values are stored as Int,
// truncating/wrapping on overflow; see fieldvalue.Uint.
func (f *Fragment) RecordU64(name string, value uint64) {
	f.items = append(f.items, fieldItem(name, fieldvalue.Uint(value)))
}

// RecordF64 implements hosttrace.FieldVisitor.
func (f *Fragment) RecordF64(name string, value float64) {
	f.items = append(f.items, fieldItem(name, fieldvalue.Float(value)))
}

// RecordStr implements hosttrace.FieldVisitor.
func (f *Fragment) RecordStr(name string, value string) {
	f.items = append(f.items, fieldItem(name, fieldvalue.Str(value)))
}

// RecordDebug implements hosttrace.FieldVisitor, formatting value with
// fmt's default verb and storing the result as a string field.
func (f *Fragment) RecordDebug(name string, value interface{}) {
	f.items = append(f.items, fieldItem(name, fieldvalue.Str(formatDebug(value))))
}

// ToSpans groups f's flat item list into one record.Span per Start
// marker, each carrying the Field items that followed it up to the next
// Start marker (or the end of the fragment).
func (f *Fragment) ToSpans() []record.Span {
	var spans []record.Span
	var current *record.Span

	for _, item := range f.items {
		switch item.kind {
		case itemStart:
			if current != nil {
				spans = append(spans, *current)
			}
			current = &record.Span{Name: item.name, ID: item.id, Fields: fieldvalue.NewFields()}
		case itemField:
			if current == nil {
				// Malformed fragment: a field with no preceding Start.
				// Treat as belonging to an anonymous span rather than
				// panicking, since this can only happen from a bug in
				// this package, not from bad input.
				current = &record.Span{Fields: fieldvalue.NewFields()}
			}
			current.Fields.Set(item.name, item.value)
		}
	}
	if current != nil {
		spans = append(spans, *current)
	}
	return spans
}
