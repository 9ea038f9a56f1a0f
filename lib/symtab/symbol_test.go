package symtab

import (
	"testing"

	"github.com/vyPal/cmmc/lib/types"
)

func TestFunctionSignature(t *testing.T) {
	fn := NewFunction(types.Void, []types.Type{types.Int, types.Bool})
	if got := fn.String(); got != "int,bool->void" {
		t.Errorf("got %q, want %q", got, "int,bool->void")
	}
	if fn.Arity() != 2 {
		t.Errorf("arity = %d, want 2", fn.Arity())
	}

	noArgs := NewFunction(types.Int, nil)
	if got := noArgs.String(); got != "->int" {
		t.Errorf("got %q, want %q", got, "->int")
	}
}

func TestLinkageIsAttachable(t *testing.T) {
	v := NewVariable(types.Int)
	if link := v.Linkage(); link.Offset != -1 || !link.Global {
		t.Fatalf("unexpected default linkage: %+v", *link)
	}

	var sym Symbol = v
	sym.Linkage().Offset = 8
	sym.Linkage().Global = false

	if link := v.Linkage(); link.Offset != 8 || link.Global {
		t.Errorf("linkage not updated in place: %+v", *link)
	}
}

func TestStructFieldsShared(t *testing.T) {
	fields := New()
	x := NewVariable(types.Int)
	_ = fields.Declare("x", x)
	def := NewStructDefinition("Point", fields)

	if def.Type() != types.StructDef {
		t.Errorf("struct definition has type %s", def.Type().Name())
	}
	if def.Field("x") != x {
		t.Error("Field did not return the declared field")
	}
	if def.Field("z") != nil {
		t.Error("Field returned a symbol for an unknown name")
	}

	a := NewStructInstance("Point")
	b := NewStructInstance("Point")
	if !a.Type().Equals(b.Type()) {
		t.Error("instances of the same struct should have equal types")
	}
	if a.String() != "Point" {
		t.Errorf("instance renders as %q", a.String())
	}
}

func TestSymbolVariants(t *testing.T) {
	syms := []Symbol{
		NewVariable(types.Int),
		NewFunction(types.Int, nil),
		NewStructInstance("S"),
		NewStructDefinition("S", New()),
	}
	kinds := make([]string, 0, len(syms))
	for _, s := range syms {
		switch s.(type) {
		case *Variable:
			kinds = append(kinds, "var")
		case *Function:
			kinds = append(kinds, "fn")
		case *StructInstance:
			kinds = append(kinds, "inst")
		case *StructDefinition:
			kinds = append(kinds, "def")
		}
	}
	if len(kinds) != 4 || kinds[0] != "var" || kinds[1] != "fn" || kinds[2] != "inst" || kinds[3] != "def" {
		t.Errorf("unexpected variant dispatch: %v", kinds)
	}
}
