package types

import "testing"

func TestPrimitiveEquality(t *testing.T) {
	prims := []Type{Int, Bool, Void, String}
	for i, a := range prims {
		for j, b := range prims {
			if got := a.Equals(b); got != (i == j) {
				t.Errorf("%s.Equals(%s) = %v", a.Name(), b.Name(), got)
			}
		}
	}
}

func TestStructTypeEquality(t *testing.T) {
	p1 := NewStructType("Point")
	p2 := NewStructType("Point")
	q := NewStructType("Queue")

	if !p1.Equals(p2) {
		t.Error("struct types with the same name should be equal")
	}
	if p1.Equals(q) {
		t.Error("struct types with different names should not be equal")
	}
	if p1.Equals(StructDef) {
		t.Error("a struct instance type is not a struct definition type")
	}
}

func TestTagOnlyTypes(t *testing.T) {
	if !Fn.Equals(FnType{}) {
		t.Error("function types compare by tag")
	}
	if Fn.Equals(Int) {
		t.Error("function type should not equal int")
	}
	if !IsError(Error) || IsError(Int) {
		t.Error("IsError misclassified a type")
	}
}

func TestNames(t *testing.T) {
	cases := map[Type]string{
		Int:                    "int",
		Bool:                   "bool",
		Void:                   "void",
		String:                 "string",
		NewStructType("Point"): "Point",
		StructDef:              "struct-def",
		Fn:                     "function",
		Error:                  "error",
	}
	for typ, want := range cases {
		if typ.Name() != want {
			t.Errorf("got %q, want %q", typ.Name(), want)
		}
	}
}
