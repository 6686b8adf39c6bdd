// Package diag provides source-located diagnostics shared by every
// compilation stage, from the lexer through the SPIR-V emitter.
package diag

import (
	"fmt"
	"strings"
)

// Location identifies a span of source text for error reporting.
type Location struct {
	File   string
	Offset int
	Length int
	Line   int // 1-based
	Column int // 1-based
}

// Kind classifies which stage raised a Diagnostic, per the error taxonomy.
type Kind uint8

const (
	KindLex Kind = iota
	KindParse
	KindName
	KindType
	KindConstEval
	KindAttribute
	KindIR
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex error"
	case KindParse:
		return "parse error"
	case KindName:
		return "name error"
	case KindType:
		return "type error"
	case KindConstEval:
		return "const-eval error"
	case KindAttribute:
		return "attribute error"
	case KindIR:
		return "internal error"
	case KindFatal:
		return "fatal error"
	default:
		return "error"
	}
}

// Diagnostic is a single located error.
type Diagnostic struct {
	Kind     Kind
	Location Location
	Message  string
}

// Error implements the error interface so a single Diagnostic can be
// returned directly from the lex/parse fatal-unwind path.
func (d *Diagnostic) Error() string {
	if d.Location.Line == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Location.File, d.Location.Line, d.Location.Column, d.Kind, d.Message)
}

// New constructs a Diagnostic.
func New(kind Kind, loc Location, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Location: loc, Message: fmt.Sprintf(format, args...)}
}

// Bag accumulates diagnostics across the analyze and lower phases, which
// do not abort on the first error the way lex/parse do.
type Bag struct {
	items []*Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d *Diagnostic) {
	b.items = append(b.items, d)
}

// Addf constructs and appends a diagnostic in one call.
func (b *Bag) Addf(kind Kind, loc Location, format string, args ...any) {
	b.Add(New(kind, loc, format, args...))
}

// HasErrors reports whether any diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	return len(b.items) > 0
}

// Items returns the recorded diagnostics in recording order.
func (b *Bag) Items() []*Diagnostic {
	return b.items
}

// Error implements the error interface, formatting every recorded
// diagnostic as a multi-line message.
func (b *Bag) Error() string {
	if len(b.items) == 0 {
		return "no errors"
	}
	var sb strings.Builder
	for i, d := range b.items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.Error())
	}
	return sb.String()
}
