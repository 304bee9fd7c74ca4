// Package sdk holds the reconstructed SDK model: one Unit per emission
// unit, write-once after construction.
package sdk

// ParamKind classifies a method parameter.
type ParamKind int

const (
	ParamInput ParamKind = iota
	ParamOutput
	ParamReturn
)

func (k ParamKind) String() string {
	switch k {
	case ParamInput:
		return "in"
	case ParamOutput:
		return "out"
	case ParamReturn:
		return "return"
	default:
		return "unknown"
	}
}

// Unit is one output-producing group of reconstructed entities.
type Unit struct {
	Name      string
	Constants []Constant
	Enums     []Enum
	Structs   []Struct
	Classes   []Class
}

// Empty reports whether the unit has nothing worth writing: no
// constants, no enum values, no struct members or predefined methods,
// and no class members, predefined methods or reconstructed methods.
func (u *Unit) Empty() bool {
	if len(u.Constants) > 0 {
		return false
	}
	for _, e := range u.Enums {
		if len(e.Values) > 0 {
			return false
		}
	}
	for _, s := range u.Structs {
		if len(s.Members) > 0 || len(s.Predefined) > 0 {
			return false
		}
	}
	for _, c := range u.Classes {
		if len(c.Members) > 0 || len(c.Predefined) > 0 || len(c.Methods) > 0 {
			return false
		}
	}
	return true
}

// Constant maps a unique name to its literal value text.
type Constant struct {
	Name  string
	Value string
}

// Enum is a reconstructed enumeration with explicit discriminants.
type Enum struct {
	Name     string
	FullName string
	Values   []EnumValue
}

type EnumValue struct {
	Name  string
	Value int
}

// Struct is a reconstructed value type.
type Struct struct {
	Name          string
	FullName      string
	DeclName      string
	Size          int
	InheritedSize int
	Members       []Member
	Predefined    []PredefinedMethod
}

// Class is a reconstructed reference type with callable methods.
type Class struct {
	Struct
	Methods []Method
}

// Member is one reconstructed property or synthetic filler. Fillers
// carry the gap reason in Comment and an UnknownDataNN name.
type Member struct {
	Name      string
	Type      string
	Offset    int
	Size      int
	ArrayDim  int
	Bits      int
	Flags     uint64
	FlagsText string
	Comment   string
}

// Method is one reconstructed callable function.
type Method struct {
	Index     int
	Name      string
	FullName  string
	Native    bool
	Static    bool
	FlagsText string
	Params    []Param
}

// Param is one classified method parameter.
type Param struct {
	Name      string
	Type      string
	Kind      ParamKind
	ByRef     bool
	FlagsText string
}

// PredefinedMethod is an externally supplied or pattern-bound method.
// Inline methods render inside the class body.
type PredefinedMethod struct {
	Signature string
	Body      string
	Inline    bool
}
