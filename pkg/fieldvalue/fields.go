package fieldvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Fields is an ordered mapping from field name to FieldValue. Order is
// insertion order, not sorted order: it must be preserved on the wire
// because it reflects the order in which the host framework visited the
// fields, and "message" is expected to render first by convention rather
// than by a different storage discipline.
type Fields struct {
	names  []string
	values map[string]FieldValue
}

// NewFields returns an empty, ready-to-use Fields value.
func NewFields() *Fields {
	return &Fields{values: make(map[string]FieldValue)}
}

// Set inserts or overwrites name. Overwriting an existing name does not
// change its position in iteration order.
func (f *Fields) Set(name string, value FieldValue) {
	if f.values == nil {
		f.values = make(map[string]FieldValue)
	}
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = value
}

// Get looks up name.
func (f *Fields) Get(name string) (FieldValue, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	return len(f.names)
}

// Names returns the field names in insertion order. The returned slice
// must not be mutated by the caller.
func (f *Fields) Names() []string {
	return f.names
}

// Range calls fn for every field in insertion order, stopping early if
// fn returns false.
func (f *Fields) Range(fn func(name string, value FieldValue) bool) {
	for _, name := range f.names {
		if !fn(name, f.values[name]) {
			return
		}
	}
}

// Equal reports whether f and other hold the same names, in the same
// order, mapping to equal values.
func (f *Fields) Equal(other *Fields) bool {
	if f.Len() != other.Len() {
		return false
	}
	for i, name := range f.names {
		if name != other.names[i] {
			return false
		}
		ov, ok := other.values[name]
		if !ok || !f.values[name].Equal(ov) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the fields as a JSON object whose key order matches
// insertion order. encoding/json always sorts map keys alphabetically,
// which would destroy that order, so the object is built manually.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range f.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("fieldvalue: encoding field name %q: %w", name, err)
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valueJSON, err := json.Marshal(f.values[name])
		if err != nil {
			return nil, fmt.Errorf("fieldvalue: encoding field %q: %w", name, err)
		}
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON populates f from a JSON object, preserving the order in
// which keys appear in the input via json.Decoder's token stream.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("fieldvalue: decoding fields object: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fieldvalue: expected object, got %v", tok)
	}

	*f = Fields{values: make(map[string]FieldValue)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("fieldvalue: decoding field name: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("fieldvalue: expected string key, got %v", keyTok)
		}

		var value FieldValue
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("fieldvalue: decoding field %q: %w", key, err)
		}
		f.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("fieldvalue: decoding fields object close: %w", err)
	}
	return nil
}
