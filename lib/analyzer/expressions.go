package analyzer

import (
	"github.com/vyPal/cmmc/lib/ast"
	"github.com/vyPal/cmmc/lib/diagnostic"
	"github.com/vyPal/cmmc/lib/symtab"
	"github.com/vyPal/cmmc/lib/types"
)

// analyzeExpr resolves every name in expr and returns its type. Any failure
// below yields types.Error, which callers treat as already reported.
func (a *Analyzer) analyzeExpr(expr ast.Expr) types.Type {
	if a.failed() {
		return types.Error
	}
	switch e := expr.(type) {
	case *ast.IntLit:
		return types.Int
	case *ast.BoolLit:
		return types.Bool
	case *ast.StringLit:
		return types.String
	case *ast.Identifier:
		sym := a.LookupSymbol(e)
		if sym == nil {
			return types.Error
		}
		return sym.Type()
	case *ast.DotAccess:
		return a.analyzeDotAccess(e)
	case *ast.AssignExpr:
		target := a.analyzeExpr(e.Target)
		a.analyzeExpr(e.Value)
		return target
	case *ast.CallExpr:
		return a.analyzeCall(e)
	case *ast.UnaryExpr:
		a.analyzeExpr(e.Operand)
		if e.Op == ast.OpNeg {
			return types.Int
		}
		return types.Bool
	case *ast.BinaryExpr:
		a.analyzeExpr(e.Left)
		a.analyzeExpr(e.Right)
		if e.Op.IsArithmetic() {
			return types.Int
		}
		return types.Bool
	}
	return types.Error
}

// analyzeDotAccess resolves the base, then looks the field up in the base
// struct's own field table rather than the lexical scopes.
func (a *Analyzer) analyzeDotAccess(e *ast.DotAccess) types.Type {
	base := a.analyzeExpr(e.Base)
	if types.IsError(base) {
		return types.Error
	}
	st, ok := base.(types.StructType)
	if !ok {
		a.diags.Report(diagnostic.NotAStruct, e.Base.Pos(), "Dot-access of non-struct type")
		return types.Error
	}
	def, ok := a.LookupStruct(st.Struct)
	if !ok {
		return types.Error
	}
	field := def.Field(e.Field.Name)
	if field == nil {
		a.diags.Report(diagnostic.UnresolvedField, e.Field.Pos(), "Invalid struct field name")
		return types.Error
	}
	a.bindings[e.Field] = field
	return field.Type()
}

func (a *Analyzer) analyzeCall(e *ast.CallExpr) types.Type {
	sym := a.LookupSymbol(e.Fn)
	for _, arg := range e.Args {
		a.analyzeExpr(arg)
	}
	if sym == nil {
		return types.Error
	}
	fn, ok := sym.(*symtab.Function)
	if !ok {
		a.diags.Report(diagnostic.NotAFunction, e.Fn.Pos(), "Attempt to call a non-function")
		return types.Error
	}
	if len(e.Args) != fn.Arity() {
		a.diags.Report(diagnostic.ArityMismatch, e.Fn.Pos(), "Function call with wrong number of args")
	}
	return fn.Return
}
