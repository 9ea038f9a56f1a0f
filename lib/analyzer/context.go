package analyzer

import (
	"github.com/vyPal/cmmc/lib/ast"
	"github.com/vyPal/cmmc/lib/diagnostic"
	"github.com/vyPal/cmmc/lib/symtab"
)

// Context is the state shared by one walk: the scope stack, the struct
// registry, the identifier bindings and the diagnostics collected so far.
type Context struct {
	table    *symtab.Table
	structs  map[string]*symtab.StructDefinition
	bindings map[*ast.Identifier]symtab.Symbol
	diags    *diagnostic.Diagnostics

	// err is the first symbol table failure. It stops the walk.
	err error
}

func NewContext() *Context {
	return &Context{
		table:    symtab.New(),
		structs:  make(map[string]*symtab.StructDefinition),
		bindings: make(map[*ast.Identifier]symtab.Symbol),
		diags:    diagnostic.New(),
	}
}

func (c *Context) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Context) failed() bool {
	return c.err != nil
}

// global reports whether declarations currently land in the program scope.
func (c *Context) global() bool {
	return c.table.Depth() == 1
}

// scoped runs body inside a fresh innermost scope.
func (c *Context) scoped(body func()) {
	c.table.EnterScope()
	body()
	if err := c.table.ExitScope(); err != nil {
		c.fail(err)
	}
}

// LookupSymbol resolves id through the scope stack and records the binding.
// It reports an unresolved identifier and returns nil when nothing matches.
func (c *Context) LookupSymbol(id *ast.Identifier) symtab.Symbol {
	sym, err := c.table.LookupLexical(id.Name)
	if err != nil {
		c.fail(err)
		return nil
	}
	if sym == nil {
		c.diags.Report(diagnostic.UnresolvedIdentifier, id.Pos(), "Undeclared identifier")
		return nil
	}
	c.bindings[id] = sym
	return sym
}

// LookupStruct finds a struct definition by name in the registry.
func (c *Context) LookupStruct(name string) (*symtab.StructDefinition, bool) {
	def, ok := c.structs[name]
	return def, ok
}
