package ast

import "github.com/alecthomas/participle/v2/lexer"

// Node is implemented by every AST node. Pos is the position of the node's
// leading identifier or literal.
type Node interface {
	Pos() lexer.Position
}

type Decl interface {
	Node
	declNode()
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

// Program is the root of a C-- AST.
type Program struct {
	File  string
	Decls *DeclList
}

func (p *Program) Pos() lexer.Position {
	if p.Decls != nil && len(p.Decls.Decls) > 0 {
		return p.Decls.Decls[0].Pos()
	}
	return lexer.Position{Filename: p.File, Line: 1, Column: 1}
}

type DeclList struct {
	Decls []Decl
}

// Identifier is an identifier occurrence, either declaring or referencing.
type Identifier struct {
	Name     string
	Position lexer.Position
}

func (i *Identifier) Pos() lexer.Position { return i.Position }
func (i *Identifier) exprNode()           {}

type TypeKind int

const (
	TypeInt TypeKind = iota
	TypeBool
	TypeVoid
	TypeStruct
)

func (k TypeKind) String() string {
	switch k {
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeVoid:
		return "void"
	case TypeStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// TypeRef is a type as written in a declaration. Struct is set only for
// TypeStruct.
type TypeRef struct {
	Kind     TypeKind
	Struct   *Identifier
	Position lexer.Position
}

func (t *TypeRef) Pos() lexer.Position { return t.Position }

func (t *TypeRef) String() string {
	if t.Kind == TypeStruct && t.Struct != nil {
		return "struct " + t.Struct.Name
	}
	return t.Kind.String()
}

// VarDecl declares a variable, a struct field or a function local.
type VarDecl struct {
	Type *TypeRef
	Name *Identifier
}

func (d *VarDecl) Pos() lexer.Position { return d.Name.Pos() }
func (d *VarDecl) IsStruct() bool      { return d.Type.Kind == TypeStruct }

type FnDecl struct {
	Return  *TypeRef
	Name    *Identifier
	Formals []*FormalDecl
	Body    *FnBody
}

func (d *FnDecl) Pos() lexer.Position { return d.Name.Pos() }

type FormalDecl struct {
	Type *TypeRef
	Name *Identifier
}

func (d *FormalDecl) Pos() lexer.Position { return d.Name.Pos() }

type StructDecl struct {
	Name   *Identifier
	Fields []*VarDecl
}

func (d *StructDecl) Pos() lexer.Position { return d.Name.Pos() }

func (*VarDecl) declNode()    {}
func (*FnDecl) declNode()     {}
func (*FormalDecl) declNode() {}
func (*StructDecl) declNode() {}

// FnBody holds a function's locals followed by its statements.
type FnBody struct {
	Decls []*VarDecl
	Stmts []Stmt
}

// Block is the declarations and statements of an if branch or while body.
type Block struct {
	Decls []*VarDecl
	Stmts []Stmt
}

// -----------------------------------------------------------------------------
// Statements

type AssignStmt struct {
	Assign *AssignExpr
}

type PostIncStmt struct {
	Target Expr
}

type PostDecStmt struct {
	Target Expr
}

type ReadStmt struct {
	Target Expr
}

type WriteStmt struct {
	Value Expr
}

type IfStmt struct {
	Cond Expr
	Then *Block
}

type IfElseStmt struct {
	Cond Expr
	Then *Block
	Else *Block
}

type WhileStmt struct {
	Cond Expr
	Body *Block
}

type CallStmt struct {
	Call *CallExpr
}

// ReturnStmt has a nil Value for a bare `return;`. Position is kept for that
// case.
type ReturnStmt struct {
	Value    Expr
	Position lexer.Position
}

func (s *AssignStmt) Pos() lexer.Position  { return s.Assign.Pos() }
func (s *PostIncStmt) Pos() lexer.Position { return s.Target.Pos() }
func (s *PostDecStmt) Pos() lexer.Position { return s.Target.Pos() }
func (s *ReadStmt) Pos() lexer.Position    { return s.Target.Pos() }
func (s *WriteStmt) Pos() lexer.Position   { return s.Value.Pos() }
func (s *IfStmt) Pos() lexer.Position      { return s.Cond.Pos() }
func (s *IfElseStmt) Pos() lexer.Position  { return s.Cond.Pos() }
func (s *WhileStmt) Pos() lexer.Position   { return s.Cond.Pos() }
func (s *CallStmt) Pos() lexer.Position    { return s.Call.Pos() }

func (s *ReturnStmt) Pos() lexer.Position {
	if s.Value != nil {
		return s.Value.Pos()
	}
	return s.Position
}

func (*AssignStmt) stmtNode()  {}
func (*PostIncStmt) stmtNode() {}
func (*PostDecStmt) stmtNode() {}
func (*ReadStmt) stmtNode()    {}
func (*WriteStmt) stmtNode()   {}
func (*IfStmt) stmtNode()      {}
func (*IfElseStmt) stmtNode()  {}
func (*WhileStmt) stmtNode()   {}
func (*CallStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()  {}

// -----------------------------------------------------------------------------
// Expressions

type IntLit struct {
	Value    int
	Position lexer.Position
}

// StringLit keeps the literal as written, quotes and escapes included.
type StringLit struct {
	Value    string
	Position lexer.Position
}

type BoolLit struct {
	Value    bool
	Position lexer.Position
}

type DotAccess struct {
	Base  Expr
	Field *Identifier
}

type AssignExpr struct {
	Target Expr
	Value  Expr
}

type CallExpr struct {
	Fn   *Identifier
	Args []Expr
}

type UnaryOp string

const (
	OpNeg UnaryOp = "-"
	OpNot UnaryOp = "!"
)

type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

type BinaryOp string

const (
	OpPlus      BinaryOp = "+"
	OpMinus     BinaryOp = "-"
	OpTimes     BinaryOp = "*"
	OpDivide    BinaryOp = "/"
	OpAnd       BinaryOp = "&&"
	OpOr        BinaryOp = "||"
	OpEquals    BinaryOp = "=="
	OpNotEquals BinaryOp = "!="
	OpLess      BinaryOp = "<"
	OpGreater   BinaryOp = ">"
	OpLessEq    BinaryOp = "<="
	OpGreaterEq BinaryOp = ">="
)

// IsArithmetic reports whether op produces an int.
func (op BinaryOp) IsArithmetic() bool {
	switch op {
	case OpPlus, OpMinus, OpTimes, OpDivide:
		return true
	}
	return false
}

func (op BinaryOp) valid() bool {
	switch op {
	case OpPlus, OpMinus, OpTimes, OpDivide, OpAnd, OpOr,
		OpEquals, OpNotEquals, OpLess, OpGreater, OpLessEq, OpGreaterEq:
		return true
	}
	return false
}

type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (e *IntLit) Pos() lexer.Position     { return e.Position }
func (e *StringLit) Pos() lexer.Position  { return e.Position }
func (e *BoolLit) Pos() lexer.Position    { return e.Position }
func (e *DotAccess) Pos() lexer.Position  { return e.Base.Pos() }
func (e *AssignExpr) Pos() lexer.Position { return e.Target.Pos() }
func (e *CallExpr) Pos() lexer.Position   { return e.Fn.Pos() }
func (e *UnaryExpr) Pos() lexer.Position  { return e.Operand.Pos() }
func (e *BinaryExpr) Pos() lexer.Position { return e.Left.Pos() }

func (*IntLit) exprNode()     {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*DotAccess) exprNode()  {}
func (*AssignExpr) exprNode() {}
func (*CallExpr) exprNode()   {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
