package ast

import (
	"io"
	"strconv"
	"strings"
)

const indentWidth = 4

// Unparse renders the program as C-- source. Binary expressions are fully
// parenthesized so the output does not depend on operator precedence.
func Unparse(w io.Writer, prog *Program) error {
	u := &unparser{}
	if prog.Decls != nil {
		for _, d := range prog.Decls.Decls {
			u.decl(d)
		}
	}
	_, err := io.WriteString(w, u.sb.String())
	return err
}

// UnparseString is Unparse into a string.
func UnparseString(prog *Program) string {
	var sb strings.Builder
	_ = Unparse(&sb, prog)
	return sb.String()
}

type unparser struct {
	sb     strings.Builder
	indent int
}

func (u *unparser) line(parts ...string) {
	u.sb.WriteString(strings.Repeat(" ", u.indent*indentWidth))
	for _, p := range parts {
		u.sb.WriteString(p)
	}
	u.sb.WriteByte('\n')
}

func (u *unparser) decl(d Decl) {
	switch d := d.(type) {
	case *VarDecl:
		u.varDecl(d)
	case *FnDecl:
		formals := make([]string, len(d.Formals))
		for i, f := range d.Formals {
			formals[i] = f.Type.String() + " " + f.Name.Name
		}
		u.line(d.Return.String(), " ", d.Name.Name, "(", strings.Join(formals, ", "), ") {")
		u.indent++
		if d.Body != nil {
			for _, vd := range d.Body.Decls {
				u.varDecl(vd)
			}
			for _, s := range d.Body.Stmts {
				u.stmt(s)
			}
		}
		u.indent--
		u.line("}")
	case *StructDecl:
		u.line("struct ", d.Name.Name, " {")
		u.indent++
		for _, f := range d.Fields {
			u.varDecl(f)
		}
		u.indent--
		u.line("};")
	case *FormalDecl:
		u.line(d.Type.String(), " ", d.Name.Name, ";")
	}
}

func (u *unparser) varDecl(d *VarDecl) {
	u.line(d.Type.String(), " ", d.Name.Name, ";")
}

func (u *unparser) block(b *Block) {
	u.indent++
	if b != nil {
		for _, vd := range b.Decls {
			u.varDecl(vd)
		}
		for _, s := range b.Stmts {
			u.stmt(s)
		}
	}
	u.indent--
}

func (u *unparser) stmt(s Stmt) {
	switch s := s.(type) {
	case *AssignStmt:
		u.line(u.expr(s.Assign.Target), " = ", u.expr(s.Assign.Value), ";")
	case *PostIncStmt:
		u.line(u.expr(s.Target), "++;")
	case *PostDecStmt:
		u.line(u.expr(s.Target), "--;")
	case *ReadStmt:
		u.line("cin >> ", u.expr(s.Target), ";")
	case *WriteStmt:
		u.line("cout << ", u.expr(s.Value), ";")
	case *IfStmt:
		u.line("if (", u.expr(s.Cond), ") {")
		u.block(s.Then)
		u.line("}")
	case *IfElseStmt:
		u.line("if (", u.expr(s.Cond), ") {")
		u.block(s.Then)
		u.line("} else {")
		u.block(s.Else)
		u.line("}")
	case *WhileStmt:
		u.line("while (", u.expr(s.Cond), ") {")
		u.block(s.Body)
		u.line("}")
	case *CallStmt:
		u.line(u.expr(s.Call), ";")
	case *ReturnStmt:
		if s.Value == nil {
			u.line("return;")
		} else {
			u.line("return ", u.expr(s.Value), ";")
		}
	}
}

func (u *unparser) expr(e Expr) string {
	switch e := e.(type) {
	case *Identifier:
		return e.Name
	case *IntLit:
		return strconv.Itoa(e.Value)
	case *StringLit:
		return e.Value
	case *BoolLit:
		return strconv.FormatBool(e.Value)
	case *DotAccess:
		return u.expr(e.Base) + "." + e.Field.Name
	case *AssignExpr:
		return "(" + u.expr(e.Target) + " = " + u.expr(e.Value) + ")"
	case *CallExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = u.expr(a)
		}
		return e.Fn.Name + "(" + strings.Join(args, ", ") + ")"
	case *UnaryExpr:
		return "(" + string(e.Op) + u.expr(e.Operand) + ")"
	case *BinaryExpr:
		return "(" + u.expr(e.Left) + " " + string(e.Op) + " " + u.expr(e.Right) + ")"
	}
	return ""
}
