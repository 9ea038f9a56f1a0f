package ast

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// document is the on-disk form of a Program as produced by an upstream
// parser. JSON documents decode through the same path.
type document struct {
	File  string     `yaml:"file"`
	Decls []*rawNode `yaml:"decls"`
}

type rawNode struct {
	Kind    string `yaml:"kind"`
	Name    string `yaml:"name"`
	Pos     string `yaml:"pos"`
	Type    string `yaml:"type"`
	TypePos string `yaml:"type_pos"`
	Value   string `yaml:"value"`
	Op      string `yaml:"op"`

	Params    []*rawNode `yaml:"params"`
	Fields    []*rawNode `yaml:"fields"`
	Decls     []*rawNode `yaml:"decls"`
	Stmts     []*rawNode `yaml:"stmts"`
	ElseDecls []*rawNode `yaml:"else_decls"`
	ElseStmts []*rawNode `yaml:"else_stmts"`
	Args      []*rawNode `yaml:"args"`

	Cond   *rawNode `yaml:"cond"`
	Target *rawNode `yaml:"target"`
	Exp    *rawNode `yaml:"exp"`
	Base   *rawNode `yaml:"base"`
	Field  *rawNode `yaml:"field"`
	Left   *rawNode `yaml:"left"`
	Right  *rawNode `yaml:"right"`
}

// LoadFile reads an AST document from disk.
func LoadFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read AST document")
	}
	prog, err := Parse(path, data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return prog, nil
}

// Parse decodes an AST document. name is used as the source filename unless
// the document names its own.
func Parse(name string, data []byte) (*Program, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty document is an empty program.
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode AST document")
	}

	d := &decoder{file: name}
	if doc.File != "" {
		d.file = doc.File
	}

	decls, err := d.decls(doc.Decls)
	if err != nil {
		return nil, err
	}
	return &Program{File: d.file, Decls: &DeclList{Decls: decls}}, nil
}

type decoder struct {
	file string
}

func (d *decoder) pos(s string) (lexer.Position, error) {
	pos := lexer.Position{Filename: d.file}
	if s == "" {
		return pos, nil
	}
	line, col, ok := strings.Cut(s, ":")
	if !ok {
		return pos, errors.Errorf("malformed position %q, want line:col", s)
	}
	var err error
	if pos.Line, err = strconv.Atoi(strings.TrimSpace(line)); err != nil {
		return pos, errors.Errorf("malformed line in position %q", s)
	}
	if pos.Column, err = strconv.Atoi(strings.TrimSpace(col)); err != nil {
		return pos, errors.Errorf("malformed column in position %q", s)
	}
	return pos, nil
}

func (d *decoder) ident(name, at string) (*Identifier, error) {
	if name == "" {
		return nil, errors.Errorf("missing identifier name at %q", at)
	}
	pos, err := d.pos(at)
	if err != nil {
		return nil, err
	}
	return &Identifier{Name: name, Position: pos}, nil
}

func (d *decoder) typeRef(n *rawNode) (*TypeRef, error) {
	at := n.TypePos
	if at == "" {
		at = n.Pos
	}
	pos, err := d.pos(at)
	if err != nil {
		return nil, err
	}

	words := strings.Fields(n.Type)
	switch {
	case len(words) == 1 && words[0] == "int":
		return &TypeRef{Kind: TypeInt, Position: pos}, nil
	case len(words) == 1 && words[0] == "bool":
		return &TypeRef{Kind: TypeBool, Position: pos}, nil
	case len(words) == 1 && words[0] == "void":
		return &TypeRef{Kind: TypeVoid, Position: pos}, nil
	case len(words) == 2 && words[0] == "struct":
		return &TypeRef{
			Kind:     TypeStruct,
			Struct:   &Identifier{Name: words[1], Position: pos},
			Position: pos,
		}, nil
	}
	return nil, errors.Errorf("unknown type %q", n.Type)
}

func (d *decoder) decls(nodes []*rawNode) ([]Decl, error) {
	decls := make([]Decl, 0, len(nodes))
	for _, n := range nodes {
		decl, err := d.decl(n)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

var errNullNode = errors.New("null node")

func (d *decoder) decl(n *rawNode) (Decl, error) {
	if n == nil {
		return nil, errors.Wrap(errNullNode, "declaration")
	}
	switch n.Kind {
	case "var", "":
		return d.varDecl(n)
	case "fn":
		return d.fnDecl(n)
	case "struct":
		name, err := d.ident(n.Name, n.Pos)
		if err != nil {
			return nil, err
		}
		fields, err := d.varDecls(n.Fields)
		if err != nil {
			return nil, errors.Wrapf(err, "struct %s", n.Name)
		}
		return &StructDecl{Name: name, Fields: fields}, nil
	}
	return nil, errors.Errorf("unknown declaration kind %q", n.Kind)
}

func (d *decoder) varDecl(n *rawNode) (*VarDecl, error) {
	if n == nil {
		return nil, errors.Wrap(errNullNode, "variable declaration")
	}
	if n.Kind != "var" && n.Kind != "" {
		return nil, errors.Errorf("expected a variable declaration, got %q", n.Kind)
	}
	typ, err := d.typeRef(n)
	if err != nil {
		return nil, err
	}
	name, err := d.ident(n.Name, n.Pos)
	if err != nil {
		return nil, err
	}
	return &VarDecl{Type: typ, Name: name}, nil
}

func (d *decoder) varDecls(nodes []*rawNode) ([]*VarDecl, error) {
	decls := make([]*VarDecl, 0, len(nodes))
	for _, n := range nodes {
		decl, err := d.varDecl(n)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func (d *decoder) fnDecl(n *rawNode) (*FnDecl, error) {
	ret, err := d.typeRef(n)
	if err != nil {
		return nil, err
	}
	name, err := d.ident(n.Name, n.Pos)
	if err != nil {
		return nil, err
	}

	fn := &FnDecl{Return: ret, Name: name, Body: &FnBody{}}
	for _, p := range n.Params {
		if p == nil {
			return nil, errors.Wrapf(errNullNode, "function %s parameter", n.Name)
		}
		typ, err := d.typeRef(p)
		if err != nil {
			return nil, errors.Wrapf(err, "function %s", n.Name)
		}
		pname, err := d.ident(p.Name, p.Pos)
		if err != nil {
			return nil, errors.Wrapf(err, "function %s", n.Name)
		}
		fn.Formals = append(fn.Formals, &FormalDecl{Type: typ, Name: pname})
	}

	if fn.Body.Decls, err = d.varDecls(n.Decls); err != nil {
		return nil, errors.Wrapf(err, "function %s", n.Name)
	}
	if fn.Body.Stmts, err = d.stmts(n.Stmts); err != nil {
		return nil, errors.Wrapf(err, "function %s", n.Name)
	}
	return fn, nil
}

func (d *decoder) block(decls, stmts []*rawNode) (*Block, error) {
	vds, err := d.varDecls(decls)
	if err != nil {
		return nil, err
	}
	ss, err := d.stmts(stmts)
	if err != nil {
		return nil, err
	}
	return &Block{Decls: vds, Stmts: ss}, nil
}

func (d *decoder) stmts(nodes []*rawNode) ([]Stmt, error) {
	stmts := make([]Stmt, 0, len(nodes))
	for _, n := range nodes {
		s, err := d.stmt(n)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (d *decoder) stmt(n *rawNode) (Stmt, error) {
	if n == nil {
		return nil, errors.Wrap(errNullNode, "statement")
	}
	switch n.Kind {
	case "assign":
		a, err := d.assign(n)
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Assign: a}, nil
	case "inc", "dec", "read":
		target, err := d.required(n.Target, n.Kind, "target")
		if err != nil {
			return nil, err
		}
		switch n.Kind {
		case "inc":
			return &PostIncStmt{Target: target}, nil
		case "dec":
			return &PostDecStmt{Target: target}, nil
		}
		return &ReadStmt{Target: target}, nil
	case "write":
		value, err := d.required(n.Exp, n.Kind, "exp")
		if err != nil {
			return nil, err
		}
		return &WriteStmt{Value: value}, nil
	case "if", "ifelse", "while":
		cond, err := d.required(n.Cond, n.Kind, "cond")
		if err != nil {
			return nil, err
		}
		body, err := d.block(n.Decls, n.Stmts)
		if err != nil {
			return nil, err
		}
		switch n.Kind {
		case "if":
			return &IfStmt{Cond: cond, Then: body}, nil
		case "while":
			return &WhileStmt{Cond: cond, Body: body}, nil
		}
		els, err := d.block(n.ElseDecls, n.ElseStmts)
		if err != nil {
			return nil, err
		}
		return &IfElseStmt{Cond: cond, Then: body, Else: els}, nil
	case "call":
		call, err := d.call(n)
		if err != nil {
			return nil, err
		}
		return &CallStmt{Call: call}, nil
	case "return":
		pos, err := d.pos(n.Pos)
		if err != nil {
			return nil, err
		}
		ret := &ReturnStmt{Position: pos}
		if n.Exp != nil {
			if ret.Value, err = d.expr(n.Exp); err != nil {
				return nil, err
			}
		}
		return ret, nil
	}
	return nil, errors.Errorf("unknown statement kind %q", n.Kind)
}

func (d *decoder) required(n *rawNode, kind, field string) (Expr, error) {
	if n == nil {
		return nil, errors.Errorf("%s: missing %s", kind, field)
	}
	return d.expr(n)
}

func (d *decoder) assign(n *rawNode) (*AssignExpr, error) {
	target, err := d.required(n.Target, n.Kind, "target")
	if err != nil {
		return nil, err
	}
	value, err := d.required(n.Exp, n.Kind, "exp")
	if err != nil {
		return nil, err
	}
	return &AssignExpr{Target: target, Value: value}, nil
}

func (d *decoder) call(n *rawNode) (*CallExpr, error) {
	fn, err := d.ident(n.Name, n.Pos)
	if err != nil {
		return nil, err
	}
	call := &CallExpr{Fn: fn}
	for _, a := range n.Args {
		arg, err := d.expr(a)
		if err != nil {
			return nil, errors.Wrapf(err, "call to %s", n.Name)
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}

func (d *decoder) expr(n *rawNode) (Expr, error) {
	if n == nil {
		return nil, errors.Wrap(errNullNode, "expression")
	}
	switch n.Kind {
	case "id":
		return d.ident(n.Name, n.Pos)
	case "int":
		pos, err := d.pos(n.Pos)
		if err != nil {
			return nil, err
		}
		v, err := strconv.Atoi(n.Value)
		if err != nil {
			return nil, errors.Errorf("malformed integer literal %q", n.Value)
		}
		return &IntLit{Value: v, Position: pos}, nil
	case "string":
		pos, err := d.pos(n.Pos)
		if err != nil {
			return nil, err
		}
		return &StringLit{Value: n.Value, Position: pos}, nil
	case "true", "false":
		pos, err := d.pos(n.Pos)
		if err != nil {
			return nil, err
		}
		return &BoolLit{Value: n.Kind == "true", Position: pos}, nil
	case "dot":
		base, err := d.required(n.Base, n.Kind, "base")
		if err != nil {
			return nil, err
		}
		if n.Field == nil {
			return nil, errors.New("dot: missing field")
		}
		field, err := d.ident(n.Field.Name, n.Field.Pos)
		if err != nil {
			return nil, err
		}
		return &DotAccess{Base: base, Field: field}, nil
	case "assign":
		return d.assign(n)
	case "call":
		return d.call(n)
	case "unary":
		op := UnaryOp(n.Op)
		if op != OpNeg && op != OpNot {
			return nil, errors.Errorf("unknown unary operator %q", n.Op)
		}
		operand, err := d.required(n.Exp, n.Kind, "exp")
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Operand: operand}, nil
	case "binary":
		op := BinaryOp(n.Op)
		if !op.valid() {
			return nil, errors.Errorf("unknown binary operator %q", n.Op)
		}
		left, err := d.required(n.Left, n.Kind, "left")
		if err != nil {
			return nil, err
		}
		right, err := d.required(n.Right, n.Kind, "right")
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: op, Left: left, Right: right}, nil
	}
	return nil, errors.Errorf("unknown expression kind %q", n.Kind)
}
