package consumer

import (
	"fmt"

	"github.com/buildbarn/bb-event-log/pkg/record"
	"github.com/fatih/color"
)

// Colorizer supplies every bit of presentation a PrettyPrinter defers:
// which escape codes (if any) dress up a level tag, a field name, a span
// name, or a lifecycle verb. The exact colours are not part of this
// module's tested contract, only that a seam for them exists.
type Colorizer interface {
	Level(level record.Level) string
	FieldName(name string) string
	SpanName(name string) string
	Verb(verb string) string
	Number(s string) string
	Bool(s string) string
}

type plainColorizer struct{}

// NewPlainColorizer returns a Colorizer that passes every string through
// unmodified, aside from padding level tags to a fixed width. It is the
// PrettyPrinter default.
func NewPlainColorizer() Colorizer {
	return plainColorizer{}
}

func (plainColorizer) Level(level record.Level) string { return fmt.Sprintf("%5s", level.String()) }
func (plainColorizer) FieldName(name string) string     { return name }
func (plainColorizer) SpanName(name string) string      { return name }
func (plainColorizer) Verb(verb string) string          { return verb }
func (plainColorizer) Number(s string) string           { return s }
func (plainColorizer) Bool(s string) string             { return s }

type ansiColorizer struct {
	trace, debug, info, warn, errorLevel *color.Color
	field, span, verb, number, boolean   *color.Color
}

// NewANSIColorizer backs Colorizer with real ANSI escape codes.
func NewANSIColorizer() Colorizer {
	return &ansiColorizer{
		trace:      color.New(color.FgMagenta, color.Bold),
		debug:      color.New(color.FgGreen, color.Bold),
		info:       color.New(color.FgBlue, color.Bold),
		warn:       color.New(color.FgYellow, color.Bold),
		errorLevel: color.New(color.FgRed, color.Bold),
		field:      color.New(color.FgBlue),
		span:       color.New(color.FgWhite, color.Bold),
		verb:       color.New(color.FgWhite, color.Italic, color.Underline),
		number:     color.New(color.FgMagenta),
		boolean:    color.New(color.FgYellow),
	}
}

func (c *ansiColorizer) Level(level record.Level) string {
	label := fmt.Sprintf("%5s", level.String())
	switch level {
	case record.LevelTrace:
		return c.trace.Sprint(label)
	case record.LevelDebug:
		return c.debug.Sprint(label)
	case record.LevelInfo:
		return c.info.Sprint(label)
	case record.LevelWarn:
		return c.warn.Sprint(label)
	default:
		return c.errorLevel.Sprint(label)
	}
}

func (c *ansiColorizer) FieldName(name string) string { return c.field.Sprint(name) }
func (c *ansiColorizer) SpanName(name string) string   { return c.span.Sprint(name) }
func (c *ansiColorizer) Verb(verb string) string       { return c.verb.Sprint(verb) }
func (c *ansiColorizer) Number(s string) string        { return c.number.Sprint(s) }
func (c *ansiColorizer) Bool(s string) string          { return c.boolean.Sprint(s) }
