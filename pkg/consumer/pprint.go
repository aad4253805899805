package consumer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/buildbarn/bb-event-log/pkg/fieldvalue"
	"github.com/buildbarn/bb-event-log/pkg/record"
)

const continuationPrefix = "  | "

// PrettyPrinter renders a record.Event as human-readable, optionally
// coloured, text. The zero value is not usable; construct one with
// NewPrettyPrinter.
type PrettyPrinter struct {
	showSource bool
	showTarget bool
	showIDs    bool
	maxSpans   int // 0 means unlimited.
	colorizer  Colorizer
}

// NewPrettyPrinter returns a PrettyPrinter with source location and
// target rendering on, span IDs off, no cap on continuation lines, and
// plain (uncoloured) text.
func NewPrettyPrinter() *PrettyPrinter {
	return &PrettyPrinter{
		showSource: true,
		showTarget: true,
		colorizer:  NewPlainColorizer(),
	}
}

// ShowSource toggles the trailing "at file:Lnn" line.
func (p *PrettyPrinter) ShowSource(on bool) *PrettyPrinter {
	p.showSource = on
	return p
}

// ShowTarget toggles the trailing "target ..." text.
func (p *PrettyPrinter) ShowTarget(on bool) *PrettyPrinter {
	p.showTarget = on
	return p
}

// ShowSpanIDs toggles rendering each span's hashed ID alongside its name.
func (p *PrettyPrinter) ShowSpanIDs(on bool) *PrettyPrinter {
	p.showIDs = on
	return p
}

// MaxSpanLines caps how many ancestor spans render as continuation
// lines; 0 (the default) renders all of them.
func (p *PrettyPrinter) MaxSpanLines(n int) *PrettyPrinter {
	p.maxSpans = n
	return p
}

// WithColorizer replaces the Colorizer used to render text.
func (p *PrettyPrinter) WithColorizer(c Colorizer) *PrettyPrinter {
	p.colorizer = c
	return p
}

// Format renders event as a complete, newline-terminated block of text.
func (p *PrettyPrinter) Format(event record.Event) string {
	var b strings.Builder
	p.writeLevel(&b, event)
	p.writeKind(&b, event)
	p.writeSpans(&b, event.Spans)
	p.writeTrailer(&b, event)
	return b.String()
}

func (p *PrettyPrinter) writeLevel(b *strings.Builder, event record.Event) {
	b.WriteString(p.colorizer.Level(event.Level))
	b.WriteString(": ")
}

func (p *PrettyPrinter) writeKind(b *strings.Builder, event record.Event) {
	switch event.Kind.Tag {
	case record.EventKindEvent:
		p.writeEventFields(b, event.Kind.Fields)
	default:
		p.writeSpanTransition(b, event)
	}
	b.WriteString("\n")
}

// writeEventFields renders a plain event's fields: "message", if
// present, comes first on the level line; everything else follows on a
// continuation line.
func (p *PrettyPrinter) writeEventFields(b *strings.Builder, fields *fieldvalue.Fields) {
	if fields == nil {
		return
	}
	if msg, ok := fields.Get("message"); ok {
		p.writeFieldValue(b, msg)
		if fields.Len() > 1 {
			b.WriteString("\n")
			b.WriteString(continuationPrefix)
			p.writeFieldList(b, fields, "message")
		}
		return
	}
	p.writeFieldList(b, fields, "")
}

// writeSpanTransition renders one of the four span lifecycle kinds: the
// innermost span's name, an underlined verb, and (for SpanClose with
// timing) the accumulated busy/idle durations.
func (p *PrettyPrinter) writeSpanTransition(b *strings.Builder, event record.Event) {
	if len(event.Spans) > 0 {
		innermost := event.Spans[len(event.Spans)-1]
		b.WriteString(p.colorizer.SpanName(innermost.Name))
		if p.showIDs && innermost.ID != nil {
			fmt.Fprintf(b, "[%s]", hashSpanID(*innermost.ID))
		}
		b.WriteString(" ")
	}
	b.WriteString(p.colorizer.Verb(verbFor(event.Kind.Tag)))

	if event.Kind.Tag == record.EventKindSpanClose && event.Kind.SpanTime != nil {
		fmt.Fprintf(b, " busy=%s idle=%s",
			formatNanos(event.Kind.SpanTime.Busy),
			formatNanos(event.Kind.SpanTime.Idle))
	}
}

func verbFor(tag record.EventKindTag) string {
	switch tag {
	case record.EventKindSpanCreate:
		return "create"
	case record.EventKindSpanEnter:
		return "enter"
	case record.EventKindSpanExit:
		return "exit"
	case record.EventKindSpanClose:
		return "close"
	default:
		return "?"
	}
}

// writeSpans renders the span stack innermost first, each as "in
// name{fields}" on its own continuation line, capped at maxSpans lines
// if set.
func (p *PrettyPrinter) writeSpans(b *strings.Builder, spans []record.Span) {
	n := len(spans)
	if p.maxSpans > 0 && n > p.maxSpans {
		n = p.maxSpans
	}
	for i := 0; i < n; i++ {
		span := spans[len(spans)-1-i]
		b.WriteString(continuationPrefix)
		b.WriteString(p.colorizer.Verb("in"))
		b.WriteString(" ")
		b.WriteString(p.colorizer.SpanName(span.Name))
		if p.showIDs && span.ID != nil {
			fmt.Fprintf(b, "[%s]", hashSpanID(*span.ID))
		}
		b.WriteString("{")
		p.writeFieldList(b, span.Fields, "")
		b.WriteString("}\n")
	}
}

func (p *PrettyPrinter) writeTrailer(b *strings.Builder, event record.Event) {
	if !p.showTarget && !p.showSource {
		return
	}
	b.WriteString(continuationPrefix)
	if p.showTarget {
		fmt.Fprintf(b, "%s %s ", p.colorizer.Verb("target"), p.colorizer.SpanName(event.Target))
	}
	if p.showSource && event.SrcFile != nil {
		fmt.Fprintf(b, "%s %s", p.colorizer.Verb("at"), *event.SrcFile)
		if event.SrcLine != nil {
			fmt.Fprintf(b, ":L%d", *event.SrcLine)
		}
	}
	b.WriteString("\n")
}

// writeFieldList writes every field in fields, in order, skipping skip
// if non-empty, comma-separated.
func (p *PrettyPrinter) writeFieldList(b *strings.Builder, fields *fieldvalue.Fields, skip string) {
	if fields == nil {
		return
	}
	first := true
	fields.Range(func(name string, value fieldvalue.FieldValue) bool {
		if name == skip {
			return true
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(b, "%s= ", p.colorizer.FieldName(name))
		p.writeFieldValue(b, value)
		return true
	})
}

func (p *PrettyPrinter) writeFieldValue(b *strings.Builder, value fieldvalue.FieldValue) {
	switch value.Kind() {
	case fieldvalue.KindInt:
		n, _ := value.AsInt()
		b.WriteString(p.colorizer.Number(strconv.FormatInt(n, 10)))
	case fieldvalue.KindFloat:
		f, _ := value.AsFloat()
		b.WriteString(p.colorizer.Number(strconv.FormatFloat(f, 'g', -1, 64)))
	case fieldvalue.KindBool:
		v, _ := value.AsBool()
		b.WriteString(p.colorizer.Bool(strconv.FormatBool(v)))
	default:
		s, _ := value.AsStr()
		b.WriteString(s)
	}
}

func formatNanos(n uint64) string {
	return fmt.Sprintf("%.3fms", float64(n)/1e6)
}
