package fieldvalue

import "fmt"

// FormatDebug renders value the way a host framework's debug visitor
// callback would: using the type's default textual representation.
// Fields.RecordDebug uses it; spancontext.Fragment.RecordDebug formats
// with the same "%+v" verb through its own helper, so record_debug is
// consistent regardless of whether the field ends up on an event or a
// span.
func FormatDebug(value interface{}) string {
	return fmt.Sprintf("%+v", value)
}

// RecordBool implements hosttrace.FieldVisitor, letting Fields be
// populated directly from a host framework's field-visiting callback
// for EventKindEvent's fields.
func (f *Fields) RecordBool(name string, value bool) {
	f.Set(name, Bool(value))
}

// RecordI64 implements hosttrace.FieldVisitor.
func (f *Fields) RecordI64(name string, value int64) {
	f.Set(name, Int(value))
}

// RecordU64 implements hosttrace.FieldVisitor.
func (f *Fields) RecordU64(name string, value uint64) {
	f.Set(name, Uint(value))
}

// RecordF64 implements hosttrace.FieldVisitor.
func (f *Fields) RecordF64(name string, value float64) {
	f.Set(name, Float(value))
}

// RecordStr implements hosttrace.FieldVisitor.
func (f *Fields) RecordStr(name string, value string) {
	f.Set(name, Str(value))
}

// RecordDebug implements hosttrace.FieldVisitor.
func (f *Fields) RecordDebug(name string, value interface{}) {
	f.Set(name, Str(FormatDebug(value)))
}
