package analyzer

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/vyPal/cmmc/lib/ast"
	"github.com/vyPal/cmmc/lib/diagnostic"
	"github.com/vyPal/cmmc/lib/symtab"
)

// Result is everything name analysis learned about one program.
type Result struct {
	// Globals is the program scope as it stood when the walk finished.
	Globals *symtab.Table
	// Structs holds every successfully declared struct, by name.
	Structs map[string]*symtab.StructDefinition
	// Bindings maps identifiers, both declared names and references, to the
	// symbol they denote. Unresolved identifiers have no entry.
	Bindings    map[*ast.Identifier]symtab.Symbol
	Diagnostics *diagnostic.Diagnostics
}

// Dump renders the global scope followed by one line per struct, in name
// order.
func (r *Result) Dump() string {
	var sb strings.Builder
	sb.WriteString(r.Globals.Dump())

	for _, name := range r.Globals.Names() {
		def, ok := r.Structs[name]
		if !ok {
			continue
		}
		sb.WriteString("struct ")
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(def.Fields.ScopeString())
		sb.WriteByte('\n')
	}
	return sb.String()
}

type Option func(*Analyzer)

// WithShadowWarnings reports a warning whenever a local declaration hides a
// name from an enclosing scope.
func WithShadowWarnings() Option {
	return func(a *Analyzer) { a.warnShadow = true }
}

// Analyzer walks a single program. It is not safe for concurrent use; analyze
// separate programs with separate analyzers.
type Analyzer struct {
	*Context
	warnShadow bool
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{Context: NewContext()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs name analysis over prog. Semantic problems end up in the
// result's diagnostics; the returned error is reserved for symbol table
// misuse, in which case the partial result is still returned.
func Analyze(prog *ast.Program, opts ...Option) (*Result, error) {
	return New(opts...).Analyze(prog)
}

func (a *Analyzer) Analyze(prog *ast.Program) (*Result, error) {
	if prog == nil {
		return nil, errors.New("analyze: nil program")
	}
	if prog.Decls != nil {
		a.analyzeDecls(prog.Decls.Decls)
	}
	res := &Result{
		Globals:     a.table,
		Structs:     a.structs,
		Bindings:    a.bindings,
		Diagnostics: a.diags,
	}
	if a.err != nil {
		return res, errors.Wrap(a.err, "analyze")
	}
	return res, nil
}
