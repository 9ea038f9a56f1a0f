package ast

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

const pointDoc = `
file: point.cmm
decls:
  - kind: struct
    name: Point
    pos: "1:8"
    fields:
      - {kind: var, type: int, name: x, pos: "2:9"}
      - {kind: var, type: int, name: y, pos: "3:9"}
  - {kind: var, type: struct Point, type_pos: "5:8", name: p, pos: "5:14"}
  - kind: fn
    type: int
    name: sum
    pos: "6:5"
    params:
      - {type: int, name: n, pos: "6:13"}
    decls:
      - {type: bool, name: done, pos: "7:10"}
    stmts:
      - kind: assign
        target: {kind: dot, base: {kind: id, name: p, pos: "8:5"}, field: {name: x, pos: "8:7"}}
        exp: {kind: binary, op: "+", left: {kind: id, name: n, pos: "8:11"}, right: {kind: int, value: 1, pos: "8:15"}}
      - kind: ifelse
        cond: {kind: unary, op: "!", exp: {kind: id, name: done, pos: "9:10"}}
        decls: [{type: int, name: t, pos: "10:13"}]
        stmts: [{kind: write, exp: {kind: string, value: '"yes"', pos: "11:17"}}]
        else_stmts: [{kind: inc, target: {kind: id, name: n, pos: "13:9"}}]
      - kind: return
        pos: "15:5"
        exp: {kind: call, name: sum, pos: "15:12", args: [{kind: id, name: n, pos: "15:16"}]}
`

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse("test.yaml", []byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return prog
}

func TestParseDocumentShape(t *testing.T) {
	prog := mustParse(t, pointDoc)

	if prog.File != "point.cmm" {
		t.Errorf("file = %q, want point.cmm", prog.File)
	}
	if len(prog.Decls.Decls) != 3 {
		t.Fatalf("expected 3 declarations, got %d", len(prog.Decls.Decls))
	}

	st, ok := prog.Decls.Decls[0].(*StructDecl)
	if !ok {
		t.Fatalf("first declaration is %T, want *StructDecl", prog.Decls.Decls[0])
	}
	if st.Name.Name != "Point" || len(st.Fields) != 2 {
		t.Errorf("unexpected struct: %s with %d fields", st.Name.Name, len(st.Fields))
	}

	vd := prog.Decls.Decls[1].(*VarDecl)
	if !vd.IsStruct() || vd.Type.Struct.Name != "Point" {
		t.Errorf("p should be declared as struct Point, got %s", vd.Type)
	}
	if pos := vd.Type.Struct.Pos(); pos.Line != 5 || pos.Column != 8 {
		t.Errorf("struct type position = %d:%d, want 5:8", pos.Line, pos.Column)
	}
	if pos := vd.Pos(); pos.Filename != "point.cmm" || pos.Line != 5 || pos.Column != 14 {
		t.Errorf("unexpected position %s", pos)
	}

	fn := prog.Decls.Decls[2].(*FnDecl)
	if fn.Return.Kind != TypeInt || len(fn.Formals) != 1 || len(fn.Body.Decls) != 1 {
		t.Errorf("unexpected function shape: %+v", fn)
	}
	if len(fn.Body.Stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(fn.Body.Stmts))
	}

	assign := fn.Body.Stmts[0].(*AssignStmt)
	if _, ok := assign.Assign.Target.(*DotAccess); !ok {
		t.Errorf("assignment target is %T", assign.Assign.Target)
	}
	bin := assign.Assign.Value.(*BinaryExpr)
	if lit := bin.Right.(*IntLit); lit.Value != 1 {
		t.Errorf("int literal = %d", lit.Value)
	}

	ifElse := fn.Body.Stmts[1].(*IfElseStmt)
	if len(ifElse.Then.Decls) != 1 || len(ifElse.Else.Stmts) != 1 {
		t.Error("if/else branches decoded incorrectly")
	}

	ret := fn.Body.Stmts[2].(*ReturnStmt)
	if call, ok := ret.Value.(*CallExpr); !ok || call.Fn.Name != "sum" || len(call.Args) != 1 {
		t.Errorf("unexpected return value %#v", ret.Value)
	}
}

func TestParseJSONDocument(t *testing.T) {
	src := `{"decls": [{"kind": "var", "type": "bool", "name": "flag", "pos": "1:6"}]}`
	prog := mustParse(t, src)
	if prog.File != "test.yaml" {
		t.Errorf("expected the document name as filename, got %q", prog.File)
	}
	vd := prog.Decls.Decls[0].(*VarDecl)
	if vd.Name.Name != "flag" || vd.Type.Kind != TypeBool {
		t.Errorf("unexpected declaration %s %s", vd.Type, vd.Name.Name)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"unknown decl":      `decls: [{kind: class, name: A}]`,
		"unknown type":      `decls: [{kind: var, type: float, name: f}]`,
		"bad position":      `decls: [{kind: var, type: int, name: f, pos: "12"}]`,
		"unknown statement": `decls: [{kind: fn, type: void, name: f, stmts: [{kind: goto}]}]`,
		"unknown operator":  `decls: [{kind: fn, type: void, name: f, stmts: [{kind: write, exp: {kind: binary, op: "%", left: {kind: int, value: 1}, right: {kind: int, value: 2}}}]}]`,
		"missing target":    `decls: [{kind: fn, type: void, name: f, stmts: [{kind: read}]}]`,
		"unknown field":     `decls: [{kind: var, type: int, name: f, colour: red}]`,
		"missing name":      `decls: [{kind: var, type: int}]`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse("bad.yaml", []byte(src)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseNullNodes(t *testing.T) {
	cases := map[string]string{
		"declaration": `decls: [~]`,
		"field":       `decls: [{kind: struct, name: S, fields: [null]}]`,
		"parameter":   `decls: [{kind: fn, type: void, name: f, params: [~]}]`,
		"local":       `decls: [{kind: fn, type: void, name: f, decls: [~]}]`,
		"statement":   `decls: [{kind: fn, type: void, name: f, stmts: [null]}]`,
		"else branch": `decls: [{kind: fn, type: void, name: f, stmts: [{kind: ifelse, cond: {kind: true}, else_stmts: [~]}]}]`,
		"argument":    `decls: [{kind: fn, type: void, name: f, stmts: [{kind: call, name: f, args: [~]}]}]`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("null.yaml", []byte(src))
			if !errors.Is(err, errNullNode) {
				t.Errorf("expected a null node error, got %v", err)
			}
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	for _, src := range []string{"", "\n", "# nothing here\n"} {
		prog, err := Parse("empty.yaml", []byte(src))
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", src, err)
		}
		if prog.File != "empty.yaml" || len(prog.Decls.Decls) != 0 {
			t.Errorf("Parse(%q) = %+v, want an empty program", src, prog)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.yaml")
	if err := os.WriteFile(path, []byte(pointDoc), 0644); err != nil {
		t.Fatal(err)
	}
	prog, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(prog.Decls.Decls) != 3 {
		t.Errorf("expected 3 declarations, got %d", len(prog.Decls.Decls))
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read AST document") {
		t.Errorf("expected a read error, got %v", err)
	}
}
