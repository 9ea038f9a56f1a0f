package analyzer

import (
	"testing"

	"github.com/vyPal/cmmc/lib/ast"
	"github.com/vyPal/cmmc/lib/diagnostic"
	"github.com/vyPal/cmmc/lib/symtab"
	"github.com/vyPal/cmmc/lib/types"
)

func analyze(t *testing.T, src string, opts ...Option) (*ast.Program, *Result) {
	t.Helper()
	prog, err := ast.Parse("test.yaml", []byte(src))
	if err != nil {
		t.Fatalf("failed to load program: %v", err)
	}
	res, err := Analyze(prog, opts...)
	if err != nil {
		t.Fatalf("Analyze returned an error: %v", err)
	}
	return prog, res
}

func kinds(res *Result) []diagnostic.Kind {
	var out []diagnostic.Kind
	for _, d := range res.Diagnostics.All() {
		out = append(out, d.Kind)
	}
	return out
}

func expectKinds(t *testing.T, res *Result, want ...diagnostic.Kind) {
	t.Helper()
	got := kinds(res)
	if len(got) != len(want) {
		t.Fatalf("diagnostics = %v, want %v\n%s", got, want, res.Diagnostics.Format())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("diagnostics = %v, want %v\n%s", got, want, res.Diagnostics.Format())
		}
	}
}

func fnBody(t *testing.T, prog *ast.Program, i int) *ast.FnBody {
	t.Helper()
	fn, ok := prog.Decls.Decls[i].(*ast.FnDecl)
	if !ok {
		t.Fatalf("declaration %d is %T, not a function", i, prog.Decls.Decls[i])
	}
	return fn.Body
}

const pointProgram = `
decls:
  - kind: struct
    name: Point
    pos: "1:8"
    fields:
      - {type: int, name: x, pos: "2:9"}
      - {type: int, name: y, pos: "3:9"}
  - {type: struct Point, type_pos: "5:8", name: p, pos: "5:14"}
  - kind: fn
    type: void
    name: main
    pos: "6:6"
    stmts:
      - kind: assign
        target: {kind: dot, base: {kind: id, name: p, pos: "7:5"}, field: {name: x, pos: "7:7"}}
        exp: {kind: int, value: 1, pos: "7:11"}
      - kind: write
        exp: {kind: dot, base: {kind: id, name: p, pos: "8:13"}, field: {name: z, pos: "8:15"}}
`

func TestStructDotAccess(t *testing.T) {
	prog, res := analyze(t, pointProgram)
	expectKinds(t, res, diagnostic.UnresolvedField)

	d := res.Diagnostics.All()[0]
	if d.String() != "8:15 Invalid struct field name" {
		t.Errorf("unexpected diagnostic %q", d)
	}

	def, ok := res.Structs["Point"]
	if !ok {
		t.Fatal("Point missing from the struct registry")
	}
	x := def.Field("x")
	if x == nil || !x.Type().Equals(types.Int) {
		t.Fatalf("field x = %v", x)
	}

	assign := fnBody(t, prog, 2).Stmts[0].(*ast.AssignStmt)
	dot := assign.Assign.Target.(*ast.DotAccess)
	if res.Bindings[dot.Field] != x {
		t.Error("p.x should bind to Point's field symbol")
	}
	base := res.Bindings[dot.Base.(*ast.Identifier)]
	if inst, ok := base.(*symtab.StructInstance); !ok || inst.StructName != "Point" {
		t.Errorf("p should bind to a Point instance, got %v", base)
	}
}

func TestResultDump(t *testing.T) {
	_, res := analyze(t, pointProgram)
	want := "{Point=struct-def, main=->void, p=Point}\nstruct Point {x=int, y=int}\n"
	if got := res.Dump(); got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestRecursiveCall(t *testing.T) {
	prog, res := analyze(t, `
decls:
  - kind: fn
    type: int
    name: fact
    params: [{type: int, name: n}]
    stmts:
      - kind: return
        exp:
          kind: call
          name: fact
          args: [{kind: binary, op: "-", left: {kind: id, name: n}, right: {kind: int, value: 1}}]
`)
	expectKinds(t, res)

	fn, err := res.Globals.LookupLocal("fact")
	if err != nil || fn == nil {
		t.Fatalf("fact not declared: %v", err)
	}
	if fn.String() != "int->int" {
		t.Errorf("signature = %s", fn)
	}
	call := fnBody(t, prog, 0).Stmts[0].(*ast.ReturnStmt).Value.(*ast.CallExpr)
	if res.Bindings[call.Fn] != fn {
		t.Error("recursive call should bind to the enclosing function")
	}
}

func TestIfElseBranchesHaveSeparateScopes(t *testing.T) {
	_, res := analyze(t, `
decls:
  - kind: fn
    type: void
    name: f
    stmts:
      - kind: ifelse
        cond: {kind: true}
        decls: [{type: int, name: a, pos: "2:13"}]
        stmts: [{kind: inc, target: {kind: id, name: a, pos: "3:9"}}]
        else_stmts: [{kind: inc, target: {kind: id, name: a, pos: "5:9"}}]
      - {kind: read, target: {kind: id, name: a, pos: "7:12"}}
`)
	expectKinds(t, res, diagnostic.UnresolvedIdentifier, diagnostic.UnresolvedIdentifier)
	all := res.Diagnostics.All()
	if all[0].Pos.Line != 5 || all[1].Pos.Line != 7 {
		t.Errorf("unexpected positions: %s", res.Diagnostics.Format())
	}
	if res.Globals.Depth() != 1 {
		t.Errorf("walk left %d scopes on the table", res.Globals.Depth())
	}
}

func TestSiblingBranchesDeclareSameName(t *testing.T) {
	prog, res := analyze(t, `
decls:
  - kind: fn
    type: void
    name: f
    stmts:
      - kind: ifelse
        cond: {kind: true}
        decls: [{type: int, name: a, pos: "2:13"}]
        stmts: [{kind: inc, target: {kind: id, name: a, pos: "3:9"}}]
        else_decls: [{type: bool, name: a, pos: "5:14"}]
        else_stmts: [{kind: read, target: {kind: id, name: a, pos: "6:16"}}]
      - {kind: write, exp: {kind: id, name: a, pos: "8:13"}}
`)
	expectKinds(t, res, diagnostic.UnresolvedIdentifier)
	if got := res.Diagnostics.All()[0].String(); got != "8:13 Undeclared identifier" {
		t.Errorf("unexpected diagnostic %q", got)
	}

	ifElse := fnBody(t, prog, 0).Stmts[0].(*ast.IfElseStmt)
	thenA := res.Bindings[ifElse.Then.Stmts[0].(*ast.PostIncStmt).Target.(*ast.Identifier)]
	elseA := res.Bindings[ifElse.Else.Stmts[0].(*ast.ReadStmt).Target.(*ast.Identifier)]
	if thenA == nil || !thenA.Type().Equals(types.Int) {
		t.Errorf("then-branch a = %v, want the int local", thenA)
	}
	if elseA == nil || !elseA.Type().Equals(types.Bool) {
		t.Errorf("else-branch a = %v, want the bool local", elseA)
	}
}

func TestWhileBodyScope(t *testing.T) {
	_, res := analyze(t, `
decls:
  - {type: bool, name: go}
  - kind: fn
    type: void
    name: f
    stmts:
      - kind: while
        cond: {kind: id, name: go}
        decls: [{type: int, name: i}]
        stmts: [{kind: dec, target: {kind: id, name: i}}]
      - {kind: write, exp: {kind: id, name: i}}
`)
	expectKinds(t, res, diagnostic.UnresolvedIdentifier)
}

func TestForwardReferenceFails(t *testing.T) {
	_, res := analyze(t, `
decls:
  - kind: fn
    type: void
    name: f
    stmts: [{kind: call, name: g, pos: "2:5"}]
  - {kind: fn, type: void, name: g}
`)
	expectKinds(t, res, diagnostic.UnresolvedIdentifier)
}

func TestCallChecks(t *testing.T) {
	_, res := analyze(t, `
decls:
  - {type: int, name: x}
  - kind: fn
    type: void
    name: f
    params: [{type: int, name: a}, {type: bool, name: b}]
  - kind: fn
    type: void
    name: main
    stmts:
      - {kind: call, name: f, pos: "5:5", args: [{kind: int, value: 1}]}
      - {kind: call, name: x, pos: "6:5"}
      - {kind: call, name: f, args: [{kind: int, value: 1}, {kind: false}]}
      - {kind: call, name: h, args: [{kind: id, name: y}]}
`)
	expectKinds(t, res,
		diagnostic.ArityMismatch,
		diagnostic.NotAFunction,
		diagnostic.UnresolvedIdentifier,
		diagnostic.UnresolvedIdentifier,
	)
	if got := res.Diagnostics.All()[0].Message; got != "Function call with wrong number of args" {
		t.Errorf("arity message = %q", got)
	}
	if got := res.Diagnostics.All()[1].Message; got != "Attempt to call a non-function" {
		t.Errorf("non-function message = %q", got)
	}
}

func TestDotAccessOnNonStruct(t *testing.T) {
	_, res := analyze(t, `
decls:
  - {type: int, name: x}
  - kind: fn
    type: void
    name: main
    stmts:
      - kind: assign
        target: {kind: dot, base: {kind: id, name: x, pos: "4:5"}, field: {name: y}}
        exp: {kind: int, value: 1}
      - kind: assign
        target: {kind: dot, base: {kind: id, name: q, pos: "5:5"}, field: {name: y}}
        exp: {kind: int, value: 1}
`)
	// The unresolved base must not also be reported as a non-struct.
	expectKinds(t, res, diagnostic.NotAStruct, diagnostic.UnresolvedIdentifier)
}

func TestNestedStructAccess(t *testing.T) {
	_, res := analyze(t, `
decls:
  - {kind: struct, name: A, fields: [{type: int, name: v}]}
  - {kind: struct, name: B, fields: [{type: struct A, name: a}]}
  - {type: struct B, name: b}
  - kind: fn
    type: void
    name: main
    stmts:
      - kind: inc
        target:
          kind: dot
          base: {kind: dot, base: {kind: id, name: b}, field: {name: a}}
          field: {name: v}
      - kind: inc
        target:
          kind: dot
          base: {kind: dot, base: {kind: id, name: b}, field: {name: a}}
          field: {name: w, pos: "9:9"}
`)
	expectKinds(t, res, diagnostic.UnresolvedField)
}

func TestVoidDeclarations(t *testing.T) {
	_, res := analyze(t, `
decls:
  - {type: void, name: v, pos: "1:6"}
  - kind: fn
    type: void
    name: f
    params: [{type: void, name: a, pos: "2:13"}]
`)
	expectKinds(t, res, diagnostic.BadVoidDeclaration, diagnostic.BadVoidDeclaration)

	if sym, _ := res.Globals.LookupLocal("v"); sym != nil {
		t.Error("a void variable must not be declared")
	}
	fn, _ := res.Globals.LookupLocal("f")
	if f, ok := fn.(*symtab.Function); !ok || f.Arity() != 1 || f.String() != "error->void" {
		t.Errorf("f = %v, want error->void with arity 1", fn)
	}
}

func TestBadStructType(t *testing.T) {
	_, res := analyze(t, `
decls:
  - {type: int, name: Q}
  - {type: struct Q, type_pos: "2:8", name: q, pos: "2:10"}
  - {type: struct Nope, type_pos: "3:8", name: n, pos: "3:13"}
  - {kind: fn, type: struct Nope, type_pos: "4:8", name: mk}
`)
	expectKinds(t, res, diagnostic.BadStructType, diagnostic.BadStructType, diagnostic.BadStructType)
	if got := res.Diagnostics.All()[1].String(); got != "3:8 Invalid name of struct type" {
		t.Errorf("unexpected diagnostic %q", got)
	}
	if sym, _ := res.Globals.LookupLocal("q"); sym != nil {
		t.Error("q should be skipped")
	}
	mk, _ := res.Globals.LookupLocal("mk")
	if mk == nil || mk.String() != "->error" {
		t.Errorf("mk = %v, want ->error", mk)
	}
}

func TestDuplicates(t *testing.T) {
	_, res := analyze(t, `
decls:
  - kind: struct
    name: S
    fields: [{type: int, name: a}, {type: bool, name: a, pos: "2:20"}]
  - {type: int, name: x}
  - {type: bool, name: x, pos: "4:6"}
  - {kind: struct, name: S, pos: "5:8"}
  - kind: fn
    type: void
    name: f
    params: [{type: int, name: p}]
    decls: [{type: bool, name: p, pos: "6:10"}]
`)
	expectKinds(t, res,
		diagnostic.DuplicateField,
		diagnostic.DuplicateDeclaration,
		diagnostic.DuplicateDeclaration,
		diagnostic.DuplicateDeclaration,
	)
	for _, d := range res.Diagnostics.All() {
		if d.Message != "Multiply declared identifier" {
			t.Errorf("unexpected message %q", d.Message)
		}
	}

	x, _ := res.Globals.LookupLocal("x")
	if !x.Type().Equals(types.Int) {
		t.Error("the first declaration of x should win")
	}
	if got := res.Structs["S"].Fields.ScopeString(); got != "{a=int}" {
		t.Errorf("S fields = %s", got)
	}
}

const shadowProgram = `
decls:
  - {type: int, name: x}
  - kind: fn
    type: void
    name: f
    params: [{type: bool, name: x, pos: "2:15"}]
    stmts:
      - kind: if
        cond: {kind: id, name: x}
        decls: [{type: int, name: x, pos: "4:13"}]
`

func TestShadowWarnings(t *testing.T) {
	_, res := analyze(t, shadowProgram)
	expectKinds(t, res)

	_, res = analyze(t, shadowProgram, WithShadowWarnings())
	expectKinds(t, res, diagnostic.Shadowing, diagnostic.Shadowing)
	if res.Diagnostics.HasErrors() {
		t.Error("shadowing is only a warning")
	}
	if got := res.Diagnostics.All()[0].Message; got != "Declaration of 'x' shadows an outer declaration" {
		t.Errorf("message = %q", got)
	}
}

func TestLinkageGlobalFlag(t *testing.T) {
	prog, res := analyze(t, `
decls:
  - {type: int, name: g}
  - kind: fn
    type: void
    name: f
    params: [{type: int, name: a}]
    decls: [{type: bool, name: l}]
    stmts: [{kind: read, target: {kind: id, name: l}}]
`)
	expectKinds(t, res)

	g, _ := res.Globals.LookupLocal("g")
	if !g.Linkage().Global || g.Linkage().Offset != -1 {
		t.Errorf("g linkage = %+v", *g.Linkage())
	}
	read := fnBody(t, prog, 1).Stmts[0].(*ast.ReadStmt)
	l := res.Bindings[read.Target.(*ast.Identifier)]
	if l == nil || l.Linkage().Global {
		t.Errorf("l should be bound to a local, got %v", l)
	}
}

func TestNilProgram(t *testing.T) {
	if _, err := Analyze(nil); err == nil {
		t.Error("expected an error for a nil program")
	}
}
