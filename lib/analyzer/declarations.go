package analyzer

import (
	"github.com/pkg/errors"
	"github.com/vyPal/cmmc/lib/ast"
	"github.com/vyPal/cmmc/lib/diagnostic"
	"github.com/vyPal/cmmc/lib/symtab"
	"github.com/vyPal/cmmc/lib/types"
)

func (a *Analyzer) analyzeDecls(decls []ast.Decl) {
	for _, decl := range decls {
		if a.failed() {
			return
		}
		switch d := decl.(type) {
		case *ast.VarDecl:
			a.analyzeVarDecl(d)
		case *ast.FnDecl:
			a.analyzeFnDecl(d)
		case *ast.StructDecl:
			a.analyzeStructDecl(d)
		case *ast.FormalDecl:
			a.analyzeFormal(d.Type, d.Name)
		}
	}
}

func (a *Analyzer) analyzeVarDecls(decls []*ast.VarDecl) {
	for _, d := range decls {
		if a.failed() {
			return
		}
		a.analyzeVarDecl(d)
	}
}

func (a *Analyzer) analyzeVarDecl(d *ast.VarDecl) {
	if sym := a.variableSymbol(d.Type, d.Name); sym != nil {
		a.declare(d.Name, sym, diagnostic.DuplicateDeclaration)
	}
}

func (a *Analyzer) analyzeFormal(typ *ast.TypeRef, name *ast.Identifier) {
	if sym := a.variableSymbol(typ, name); sym != nil {
		a.declare(name, sym, diagnostic.DuplicateDeclaration)
	}
}

// variableSymbol builds the symbol for a variable, formal or field of the
// given type. It returns nil after reporting when the type is unusable.
func (a *Analyzer) variableSymbol(ref *ast.TypeRef, name *ast.Identifier) symtab.Symbol {
	switch ref.Kind {
	case ast.TypeVoid:
		a.diags.Report(diagnostic.BadVoidDeclaration, name.Pos(), "Non-function declared void")
		return nil
	case ast.TypeStruct:
		def := a.resolveStructType(ref)
		if def == nil {
			return nil
		}
		return symtab.NewStructInstance(def.Name)
	}
	return symtab.NewVariable(a.primitive(ref.Kind))
}

// resolveStructType checks that a struct type reference names a struct
// definition visible from the current scope.
func (a *Analyzer) resolveStructType(ref *ast.TypeRef) *symtab.StructDefinition {
	sym, err := a.table.LookupLexical(ref.Struct.Name)
	if err != nil {
		a.fail(err)
		return nil
	}
	def, ok := sym.(*symtab.StructDefinition)
	if !ok {
		a.diags.Report(diagnostic.BadStructType, ref.Struct.Pos(), "Invalid name of struct type")
		return nil
	}
	a.bindings[ref.Struct] = def
	return def
}

// resolveType maps a type reference to a type, or to the error type after
// reporting a bad struct name.
func (a *Analyzer) resolveType(ref *ast.TypeRef) types.Type {
	if ref.Kind != ast.TypeStruct {
		return a.primitive(ref.Kind)
	}
	def := a.resolveStructType(ref)
	if def == nil {
		return types.Error
	}
	return types.NewStructType(def.Name)
}

func (a *Analyzer) primitive(kind ast.TypeKind) types.Type {
	switch kind {
	case ast.TypeInt:
		return types.Int
	case ast.TypeBool:
		return types.Bool
	case ast.TypeVoid:
		return types.Void
	}
	return types.Error
}

// declare adds sym to the innermost scope under id. Duplicates are reported
// with dupKind; any other table error stops the walk.
func (a *Analyzer) declare(id *ast.Identifier, sym symtab.Symbol, dupKind diagnostic.Kind) bool {
	if a.warnShadow && !a.global() {
		a.checkShadow(id)
	}
	sym.Linkage().Global = a.global()

	err := a.table.Declare(id.Name, sym)
	switch {
	case err == nil:
		a.bindings[id] = sym
		return true
	case errors.Is(err, symtab.ErrDuplicateDeclaration):
		a.diags.Report(dupKind, id.Pos(), "Multiply declared identifier")
	default:
		a.fail(err)
	}
	return false
}

func (a *Analyzer) checkShadow(id *ast.Identifier) {
	local, err := a.table.LookupLocal(id.Name)
	if err != nil || local != nil {
		return
	}
	if outer, _ := a.table.LookupLexical(id.Name); outer != nil {
		a.diags.Warn(diagnostic.Shadowing, id.Pos(), "Declaration of '%s' shadows an outer declaration", id.Name)
	}
}

func (a *Analyzer) analyzeFnDecl(d *ast.FnDecl) {
	ret := a.resolveType(d.Return)

	params := make([]types.Type, len(d.Formals))
	for i, f := range d.Formals {
		switch f.Type.Kind {
		case ast.TypeVoid:
			// Reported when the formal itself is declared below.
			params[i] = types.Error
		case ast.TypeStruct:
			params[i] = a.structTypeQuiet(f.Type)
		default:
			params[i] = a.primitive(f.Type.Kind)
		}
	}

	// Declared before the body so the function can call itself.
	a.declare(d.Name, symtab.NewFunction(ret, params), diagnostic.DuplicateDeclaration)

	a.scoped(func() {
		for _, f := range d.Formals {
			if a.failed() {
				return
			}
			a.analyzeFormal(f.Type, f.Name)
		}
		if d.Body != nil {
			a.analyzeVarDecls(d.Body.Decls)
			a.analyzeStmts(d.Body.Stmts)
		}
	})
}

// structTypeQuiet resolves a formal's struct type for the signature without
// reporting; the formal's own declaration reports a bad name.
func (a *Analyzer) structTypeQuiet(ref *ast.TypeRef) types.Type {
	sym, err := a.table.LookupLexical(ref.Struct.Name)
	if err != nil {
		a.fail(err)
		return types.Error
	}
	if def, ok := sym.(*symtab.StructDefinition); ok {
		return types.NewStructType(def.Name)
	}
	return types.Error
}

func (a *Analyzer) analyzeStructDecl(d *ast.StructDecl) {
	fields := symtab.New()
	for _, f := range d.Fields {
		sym := a.variableSymbol(f.Type, f.Name)
		if sym == nil {
			continue
		}
		sym.Linkage().Global = false
		err := fields.Declare(f.Name.Name, sym)
		switch {
		case err == nil:
			a.bindings[f.Name] = sym
		case errors.Is(err, symtab.ErrDuplicateDeclaration):
			a.diags.Report(diagnostic.DuplicateField, f.Name.Pos(), "Multiply declared identifier")
		default:
			a.fail(err)
			return
		}
	}

	def := symtab.NewStructDefinition(d.Name.Name, fields)
	if a.declare(d.Name, def, diagnostic.DuplicateDeclaration) {
		if _, exists := a.structs[def.Name]; !exists {
			a.structs[def.Name] = def
		}
	}
}
