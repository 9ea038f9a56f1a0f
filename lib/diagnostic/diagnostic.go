package diagnostic

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"
)

// Kind classifies a semantic diagnostic.
type Kind int

const (
	DuplicateDeclaration Kind = iota
	DuplicateField
	BadStructType
	BadVoidDeclaration
	UnresolvedIdentifier
	NotAStruct
	UnresolvedField
	NotAFunction
	ArityMismatch
	Shadowing
)

var kindNames = [...]string{
	DuplicateDeclaration: "duplicate-declaration",
	DuplicateField:       "duplicate-field",
	BadStructType:        "bad-struct-type",
	BadVoidDeclaration:   "bad-void-declaration",
	UnresolvedIdentifier: "unresolved-identifier",
	NotAStruct:           "not-a-struct",
	UnresolvedField:      "unresolved-field",
	NotAFunction:         "not-a-function",
	ArityMismatch:        "arity-mismatch",
	Shadowing:            "shadowing",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Severity of a diagnostic. Only errors make a check fail.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Diagnostic is a single message tied to a source position.
type Diagnostic struct {
	Kind     Kind           `json:"kind"`
	Severity Severity       `json:"severity"`
	Pos      lexer.Position `json:"-"`
	Message  string         `json:"message"`
}

// String renders "line:col message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d %s", d.Pos.Line, d.Pos.Column, d.Message)
}

// Diagnostics collects diagnostics in report order.
type Diagnostics struct {
	items []Diagnostic
}

func New() *Diagnostics {
	return &Diagnostics{items: make([]Diagnostic, 0)}
}

// Report records an error.
func (d *Diagnostics) Report(kind Kind, pos lexer.Position, format string, args ...interface{}) {
	d.add(kind, Error, pos, format, args...)
}

// Warn records a warning.
func (d *Diagnostics) Warn(kind Kind, pos lexer.Position, format string, args ...interface{}) {
	d.add(kind, Warning, pos, format, args...)
}

func (d *Diagnostics) add(kind Kind, sev Severity, pos lexer.Position, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Kind:     kind,
		Severity: sev,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (d *Diagnostics) HasErrors() bool {
	return d.ErrorCount() > 0
}

func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

func (d *Diagnostics) Count() int {
	return len(d.items)
}

func (d *Diagnostics) ErrorCount() int {
	count := 0
	for _, item := range d.items {
		if item.Severity == Error {
			count++
		}
	}
	return count
}

func (d *Diagnostics) WarningCount() int {
	return len(d.items) - d.ErrorCount()
}

// OfKind returns the diagnostics of one kind, in report order.
func (d *Diagnostics) OfKind(kind Kind) []Diagnostic {
	var out []Diagnostic
	for _, item := range d.items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

// Format returns one "file:line:col message" line per diagnostic. The file
// prefix is dropped when no filename is known.
func (d *Diagnostics) Format() string {
	var sb strings.Builder
	for _, item := range d.items {
		sb.WriteString(location(item.Pos))
		sb.WriteString(item.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Print writes the diagnostics with errors in red and warnings in yellow.
// At most max diagnostics are printed when max is positive; the number
// printed is returned.
func (d *Diagnostics) Print(w io.Writer, max int) (int, error) {
	printed := 0
	for _, item := range d.items {
		if max > 0 && printed >= max {
			break
		}
		paint := color.New(color.FgRed).SprintFunc()
		if item.Severity == Warning {
			paint = color.New(color.FgYellow).SprintFunc()
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", location(item.Pos), paint(item.String())); err != nil {
			return printed, err
		}
		printed++
	}
	if max > 0 && len(d.items) > max {
		if _, err := fmt.Fprintf(w, "... %d more not shown\n", len(d.items)-max); err != nil {
			return printed, err
		}
	}
	return printed, nil
}

type jsonDiagnostic struct {
	Diagnostic
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// MarshalJSON renders the collection as a JSON array.
func (d *Diagnostics) MarshalJSON() ([]byte, error) {
	out := make([]jsonDiagnostic, len(d.items))
	for i, item := range d.items {
		out[i] = jsonDiagnostic{
			Diagnostic: item,
			File:       item.Pos.Filename,
			Line:       item.Pos.Line,
			Column:     item.Pos.Column,
		}
	}
	return json.Marshal(out)
}

func location(pos lexer.Position) string {
	if pos.Filename == "" {
		return ""
	}
	return pos.Filename + ":"
}
