package types

// Type is a C-- type. The set of implementations is closed to this package.
type Type interface {
	Name() string
	Equals(Type) bool
	isType()
}

type IntType struct{}

func (IntType) Name() string { return "int" }

func (t IntType) Equals(other Type) bool {
	_, ok := other.(IntType)
	return ok
}

type BoolType struct{}

func (BoolType) Name() string { return "bool" }

func (t BoolType) Equals(other Type) bool {
	_, ok := other.(BoolType)
	return ok
}

type VoidType struct{}

func (VoidType) Name() string { return "void" }

func (t VoidType) Equals(other Type) bool {
	_, ok := other.(VoidType)
	return ok
}

// StringType is only ever produced by string literals.
type StringType struct{}

func (StringType) Name() string { return "string" }

func (t StringType) Equals(other Type) bool {
	_, ok := other.(StringType)
	return ok
}

// StructType is the type of a variable declared as `struct <Struct>`.
type StructType struct {
	Struct string
}

func (t StructType) Name() string { return t.Struct }

func (t StructType) Equals(other Type) bool {
	if other, ok := other.(StructType); ok {
		return t.Struct == other.Struct
	}
	return false
}

// StructDefType tags the symbol of a struct type declaration.
type StructDefType struct{}

func (StructDefType) Name() string { return "struct-def" }

func (t StructDefType) Equals(other Type) bool {
	_, ok := other.(StructDefType)
	return ok
}

// FnType tags function symbols. Signatures live on the symbol, so two
// function types are never compared beyond the tag.
type FnType struct{}

func (FnType) Name() string { return "function" }

func (t FnType) Equals(other Type) bool {
	_, ok := other.(FnType)
	return ok
}

// ErrorType stands in for the type of anything that failed analysis.
type ErrorType struct{}

func (ErrorType) Name() string { return "error" }

func (t ErrorType) Equals(other Type) bool {
	_, ok := other.(ErrorType)
	return ok
}

func (IntType) isType()       {}
func (BoolType) isType()      {}
func (VoidType) isType()      {}
func (StringType) isType()    {}
func (StructType) isType()    {}
func (StructDefType) isType() {}
func (FnType) isType()        {}
func (ErrorType) isType()     {}

var (
	Int       Type = IntType{}
	Bool      Type = BoolType{}
	Void      Type = VoidType{}
	String    Type = StringType{}
	StructDef Type = StructDefType{}
	Fn        Type = FnType{}
	Error     Type = ErrorType{}
)

func NewStructType(name string) Type {
	return StructType{Struct: name}
}

// IsError reports whether t is the error placeholder.
func IsError(t Type) bool {
	_, ok := t.(ErrorType)
	return ok
}
