// Package objects models the reflected entities of an inspected runtime
// and the provider that enumerates them.
package objects

import "fmt"

// Kind tags a reflected entity.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnit
	KindEnum
	KindConst
	KindStruct
	KindClass
	KindFunction
	KindProperty
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindEnum:
		return "enum"
	case KindConst:
		return "const"
	case KindStruct:
		return "struct"
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindProperty:
		return "property"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Entity is one reflected runtime object.
type Entity interface {
	// ID is the provider-stable numeric index of the entity.
	ID() int
	Kind() Kind
	Name() string
	FullName() string
	// DeclName is the language-level declared name (engine prefix
	// included); falls back to Name when the provider has none.
	DeclName() string
	Address() uint64
	// Unit is the owning emission unit entity; nil for units themselves.
	Unit() Entity
	// Super is the superclass entity, or nil.
	Super() Entity
	// Size is the instance byte size for structs and classes.
	Size() int
	// Children is the ordered child entity list.
	Children() []Entity
}

// Enum is the capability view of an enum entity.
type Enum interface {
	Entity
	ValueNames() []string
}

// Const is the capability view of a constant entity.
type Const interface {
	Entity
	Value() string
}

// Function is the capability view of a function entity.
type Function interface {
	Entity
	FunctionFlags() FunctionFlags
}

// Property is the capability view of a property entity.
type Property interface {
	Entity
	Offset() int
	ElementSize() int
	ArrayDim() int
	// BitMask is the bit of a boolean bitfield property; 0 otherwise.
	BitMask() uint64
	PropertyFlags() PropertyFlags
	Type() TypeInfo
	// Struct is the referenced struct entity of a struct-typed
	// property, or nil.
	Struct() Entity
	// Inner holds the element (arrays) or key/value (maps) properties
	// of a container-typed property.
	Inner() []Property
}

// TypeClass is the semantic classification of a property's type.
type TypeClass int

const (
	TypeUnknown TypeClass = iota
	TypePrimitive
	TypeBool
	TypeCustomStruct
	TypeContainer
)

func (t TypeClass) String() string {
	switch t {
	case TypePrimitive:
		return "primitive"
	case TypeBool:
		return "bool"
	case TypeCustomStruct:
		return "struct"
	case TypeContainer:
		return "container"
	default:
		return "unknown"
	}
}

// TypeInfo is the mapped source type of a property.
type TypeInfo struct {
	Class TypeClass
	// Name is the mapped source type text.
	Name string
	// Size is the physical footprint of the mapped type.
	Size int
	// CanBeRef marks scalar types that may be passed by reference.
	CanBeRef bool
}

// Resolvable reports whether the property maps to a known source type.
func (t TypeInfo) Resolvable() bool { return t.Class != TypeUnknown }

// Provider enumerates every reflected entity known to the runtime, in
// provider index order.
type Provider interface {
	Entities() []Entity
}

// AsEnum returns the enum view of e, if e is an enum.
func AsEnum(e Entity) (Enum, bool) {
	if e == nil || e.Kind() != KindEnum {
		return nil, false
	}
	v, ok := e.(Enum)
	return v, ok
}

// AsConst returns the constant view of e, if e is a constant.
func AsConst(e Entity) (Const, bool) {
	if e == nil || e.Kind() != KindConst {
		return nil, false
	}
	v, ok := e.(Const)
	return v, ok
}

// AsFunction returns the function view of e, if e is a function.
func AsFunction(e Entity) (Function, bool) {
	if e == nil || e.Kind() != KindFunction {
		return nil, false
	}
	v, ok := e.(Function)
	return v, ok
}

// AsProperty returns the property view of e, if e is a property.
func AsProperty(e Entity) (Property, bool) {
	if e == nil || e.Kind() != KindProperty {
		return nil, false
	}
	v, ok := e.(Property)
	return v, ok
}
