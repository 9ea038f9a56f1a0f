package analyzer

import "github.com/vyPal/cmmc/lib/ast"

func (a *Analyzer) analyzeStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		if a.failed() {
			return
		}
		a.analyzeStmt(stmt)
	}
}

func (a *Analyzer) analyzeStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		a.analyzeExpr(s.Assign)
	case *ast.PostIncStmt:
		a.analyzeExpr(s.Target)
	case *ast.PostDecStmt:
		a.analyzeExpr(s.Target)
	case *ast.ReadStmt:
		a.analyzeExpr(s.Target)
	case *ast.WriteStmt:
		a.analyzeExpr(s.Value)
	case *ast.IfStmt:
		a.analyzeExpr(s.Cond)
		a.analyzeBlock(s.Then)
	case *ast.IfElseStmt:
		a.analyzeExpr(s.Cond)
		a.analyzeBlock(s.Then)
		a.analyzeBlock(s.Else)
	case *ast.WhileStmt:
		a.analyzeExpr(s.Cond)
		a.analyzeBlock(s.Body)
	case *ast.CallStmt:
		a.analyzeExpr(s.Call)
	case *ast.ReturnStmt:
		if s.Value != nil {
			a.analyzeExpr(s.Value)
		}
	}
}

// analyzeBlock gives a block body its own scope.
func (a *Analyzer) analyzeBlock(b *ast.Block) {
	if b == nil {
		return
	}
	a.scoped(func() {
		a.analyzeVarDecls(b.Decls)
		a.analyzeStmts(b.Stmts)
	})
}
