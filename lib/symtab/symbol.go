package symtab

import (
	"strings"

	"github.com/vyPal/cmmc/lib/types"
)

// Symbol is the information recorded for one declared name. The variants are
// *Variable, *Function, *StructInstance and *StructDefinition.
type Symbol interface {
	Type() types.Type
	String() string

	// Linkage returns the symbol's mutable storage metadata.
	Linkage() *Linkage

	isSymbol()
}

// Linkage is filled in by later phases (frame layout, code generation) and is
// the only part of a symbol that may change after it is declared.
type Linkage struct {
	Offset int
	Global bool
}

func newLinkage() Linkage {
	return Linkage{Offset: -1, Global: true}
}

type symbolBase struct {
	typ  types.Type
	link Linkage
}

func (s *symbolBase) Type() types.Type  { return s.typ }
func (s *symbolBase) Linkage() *Linkage { return &s.link }
func (s *symbolBase) String() string    { return s.typ.Name() }
func (s *symbolBase) isSymbol()         {}

type Variable struct {
	symbolBase
}

func NewVariable(typ types.Type) *Variable {
	return &Variable{symbolBase{typ: typ, link: newLinkage()}}
}

type Function struct {
	symbolBase
	Return types.Type
	Params []types.Type
}

func NewFunction(ret types.Type, params []types.Type) *Function {
	return &Function{
		symbolBase: symbolBase{typ: types.Fn, link: newLinkage()},
		Return:     ret,
		Params:     params,
	}
}

func (f *Function) Arity() int {
	return len(f.Params)
}

// String renders the signature as `p1,p2->ret`.
func (f *Function) String() string {
	var sb strings.Builder
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Name())
	}
	sb.WriteString("->")
	sb.WriteString(f.Return.Name())
	return sb.String()
}

// StructInstance is a variable whose type is a struct. It refers to its
// struct by name only.
type StructInstance struct {
	symbolBase
	StructName string
}

func NewStructInstance(structName string) *StructInstance {
	return &StructInstance{
		symbolBase: symbolBase{typ: types.NewStructType(structName), link: newLinkage()},
		StructName: structName,
	}
}

// StructDefinition owns the field table of a struct type declaration. Fields
// holds a single scope and is never pushed onto another table.
type StructDefinition struct {
	symbolBase
	Name   string
	Fields *Table
}

func NewStructDefinition(name string, fields *Table) *StructDefinition {
	return &StructDefinition{
		symbolBase: symbolBase{typ: types.StructDef, link: newLinkage()},
		Name:       name,
		Fields:     fields,
	}
}

// Field looks a member up in the struct's own table.
func (d *StructDefinition) Field(name string) Symbol {
	sym, err := d.Fields.LookupLocal(name)
	if err != nil {
		return nil
	}
	return sym
}
