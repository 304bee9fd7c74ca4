package objects

import (
	"encoding/json"
	"fmt"
	"os"
)

// Desc is the serialized form of one reflected entity, as captured by an
// external reflection walker. Reference fields hold provider indexes;
// -1 means none.
type Desc struct {
	Index    int    `json:"index"`
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	FullName string `json:"full_name,omitempty"`
	DeclName string `json:"decl_name,omitempty"`
	Address  uint64 `json:"address,omitempty"`
	Unit     int    `json:"unit"`
	Super    int    `json:"super"`
	Size     int    `json:"size,omitempty"`
	Children []int  `json:"children,omitempty"`

	Offset    int    `json:"offset,omitempty"`
	ElemSize  int    `json:"elem_size,omitempty"`
	ArrayDim  int    `json:"array_dim,omitempty"`
	BitMask   uint64 `json:"bit_mask,omitempty"`
	Flags     uint64 `json:"flags,omitempty"`
	FuncFlags uint64 `json:"func_flags,omitempty"`
	TypeClass string `json:"type_class,omitempty"`
	TypeName  string `json:"type_name,omitempty"`
	TypeSize  int    `json:"type_size,omitempty"`
	CanBeRef  bool   `json:"can_be_ref,omitempty"`
	StructRef int    `json:"struct_ref"`
	Inner     []int  `json:"inner,omitempty"`

	Values []string `json:"values,omitempty"`
	Const  string   `json:"const,omitempty"`
}

// Table is an in-memory Provider backed by Desc records.
type Table struct {
	objs []*obj
	ents []Entity
}

// NewTable validates descs and builds a provider over them. Descs must
// appear in index order.
func NewTable(descs []Desc) (*Table, error) {
	t := &Table{objs: make([]*obj, len(descs))}
	for i := range descs {
		d := &descs[i]
		if d.Index != i {
			return nil, fmt.Errorf("objects: desc %d carries index %d", i, d.Index)
		}
		kind, err := parseKind(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("objects: desc %d: %w", i, err)
		}
		tc, err := parseTypeClass(d.TypeClass)
		if err != nil {
			return nil, fmt.Errorf("objects: desc %d: %w", i, err)
		}
		t.objs[i] = &obj{table: t, d: *d, kind: kind, typeClass: tc}
	}
	for i, o := range t.objs {
		for _, ref := range [...]int{o.d.Unit, o.d.Super, o.d.StructRef} {
			if ref < -1 || ref >= len(t.objs) {
				return nil, fmt.Errorf("objects: desc %d references %d, have %d entities", i, ref, len(t.objs))
			}
		}
		for _, c := range append(append([]int(nil), o.d.Children...), o.d.Inner...) {
			if c < 0 || c >= len(t.objs) {
				return nil, fmt.Errorf("objects: desc %d child %d out of range", i, c)
			}
		}
	}
	t.ents = make([]Entity, len(t.objs))
	for i, o := range t.objs {
		t.ents[i] = o
	}
	return t, nil
}

// LoadDump reads a JSON reflection dump produced by a reflection walker.
func LoadDump(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("objects: read dump: %w", err)
	}
	var descs []Desc
	if err := json.Unmarshal(raw, &descs); err != nil {
		return nil, fmt.Errorf("objects: decode dump %s: %w", path, err)
	}
	return NewTable(descs)
}

// Entities returns every entity in provider index order.
func (t *Table) Entities() []Entity { return t.ents }

// Entity returns the entity at index, or nil.
func (t *Table) Entity(index int) Entity {
	if index < 0 || index >= len(t.ents) {
		return nil
	}
	return t.ents[index]
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "unit":
		return KindUnit, nil
	case "enum":
		return KindEnum, nil
	case "const":
		return KindConst, nil
	case "struct":
		return KindStruct, nil
	case "class":
		return KindClass, nil
	case "function":
		return KindFunction, nil
	case "property":
		return KindProperty, nil
	}
	return KindUnknown, fmt.Errorf("unknown kind %q", s)
}

func parseTypeClass(s string) (TypeClass, error) {
	switch s {
	case "", "unknown":
		return TypeUnknown, nil
	case "primitive":
		return TypePrimitive, nil
	case "bool":
		return TypeBool, nil
	case "struct":
		return TypeCustomStruct, nil
	case "container":
		return TypeContainer, nil
	}
	return TypeUnknown, fmt.Errorf("unknown type class %q", s)
}

// obj adapts one Desc to the Entity interface and its capability views.
type obj struct {
	table     *Table
	d         Desc
	kind      Kind
	typeClass TypeClass
}

func (o *obj) ref(i int) Entity {
	if i < 0 {
		return nil
	}
	return o.table.ents[i]
}

func (o *obj) ID() int       { return o.d.Index }
func (o *obj) Kind() Kind    { return o.kind }
func (o *obj) Name() string  { return o.d.Name }
func (o *obj) Address() uint64 { return o.d.Address }
func (o *obj) Unit() Entity  { return o.ref(o.d.Unit) }
func (o *obj) Super() Entity { return o.ref(o.d.Super) }
func (o *obj) Size() int     { return o.d.Size }

func (o *obj) FullName() string {
	if o.d.FullName != "" {
		return o.d.FullName
	}
	return o.d.Name
}

func (o *obj) DeclName() string {
	if o.d.DeclName != "" {
		return o.d.DeclName
	}
	return o.d.Name
}

func (o *obj) Children() []Entity {
	out := make([]Entity, 0, len(o.d.Children))
	for _, c := range o.d.Children {
		out = append(out, o.table.ents[c])
	}
	return out
}

func (o *obj) ValueNames() []string { return o.d.Values }
func (o *obj) Value() string        { return o.d.Const }

func (o *obj) FunctionFlags() FunctionFlags { return FunctionFlags(o.d.FuncFlags) }

func (o *obj) Offset() int                  { return o.d.Offset }
func (o *obj) ElementSize() int             { return o.d.ElemSize }
func (o *obj) BitMask() uint64              { return o.d.BitMask }
func (o *obj) PropertyFlags() PropertyFlags { return PropertyFlags(o.d.Flags) }
func (o *obj) Struct() Entity               { return o.ref(o.d.StructRef) }

func (o *obj) ArrayDim() int {
	if o.d.ArrayDim <= 0 {
		return 1
	}
	return o.d.ArrayDim
}

func (o *obj) Type() TypeInfo {
	return TypeInfo{
		Class:    o.typeClass,
		Name:     o.d.TypeName,
		Size:     o.d.TypeSize,
		CanBeRef: o.d.CanBeRef,
	}
}

func (o *obj) Inner() []Property {
	out := make([]Property, 0, len(o.d.Inner))
	for _, c := range o.d.Inner {
		if p, ok := AsProperty(o.table.ents[c]); ok {
			out = append(out, p)
		}
	}
	return out
}
