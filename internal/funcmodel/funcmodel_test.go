package funcmodel

import (
	"strings"
	"testing"

	"sdkgen/internal/objects"
	"sdkgen/internal/sdk"
)

// fixtureClass assembles a class entity with one function child:
//
//	bool Fire(int Count, struct FVector Origin, float* OutDamage)
//
// plus one non-parameter local the runtime keeps on the function.
func fixtureClass(t *testing.T) objects.Entity {
	t.Helper()
	descs := []objects.Desc{
		{
			Index: 0, Kind: "class", Name: "Weapon", FullName: "Engine.Weapon",
			Unit: -1, Super: -1, StructRef: -1, Children: []int{1},
		},
		{
			Index: 1, Kind: "function", Name: "Fire", FullName: "Engine.Weapon.Fire",
			Unit: -1, Super: -1, StructRef: -1,
			FuncFlags: uint64(objects.FuncNative),
			Children:  []int{2, 3, 4, 5, 6},
		},
		{
			Index: 2, Kind: "property", Name: "Count",
			Unit: -1, Super: -1, StructRef: -1,
			Offset: 0, ElemSize: 4, TypeClass: "primitive", TypeName: "int", TypeSize: 4,
			Flags: uint64(objects.PropParam),
		},
		{
			Index: 3, Kind: "property", Name: "Origin",
			Unit: -1, Super: -1, StructRef: -1,
			Offset: 4, ElemSize: 12, TypeClass: "struct", TypeName: "struct FVector", TypeSize: 12,
			CanBeRef: true,
			Flags:    uint64(objects.PropParam),
		},
		{
			Index: 4, Kind: "property", Name: "OutDamage",
			Unit: -1, Super: -1, StructRef: -1,
			Offset: 16, ElemSize: 4, TypeClass: "primitive", TypeName: "float", TypeSize: 4,
			Flags: uint64(objects.PropParam | objects.PropOutParam),
		},
		{
			Index: 5, Kind: "property", Name: "ReturnValue",
			Unit: -1, Super: -1, StructRef: -1,
			Offset: 20, ElemSize: 1, TypeClass: "bool", TypeName: "unsigned char", TypeSize: 1,
			Flags: uint64(objects.PropParam | objects.PropReturnParam),
		},
		{
			// Not flagged as a parameter; must be skipped.
			Index: 6, Kind: "property", Name: "Scratch",
			Unit: -1, Super: -1, StructRef: -1,
			Offset: 24, ElemSize: 4, TypeClass: "primitive", TypeName: "int", TypeSize: 4,
		},
	}
	tab, err := objects.NewTable(descs)
	if err != nil {
		t.Fatal(err)
	}
	return tab.Entity(0)
}

func buildFixture(t *testing.T, opts Options) sdk.Method {
	t.Helper()
	methods := Build(fixtureClass(t), opts)
	if len(methods) != 1 {
		t.Fatalf("got %d methods, want 1", len(methods))
	}
	return methods[0]
}

func TestBuildClassification(t *testing.T) {
	m := buildFixture(t, Options{})

	if !m.Native || m.Static {
		t.Errorf("Native = %v, Static = %v", m.Native, m.Static)
	}
	if len(m.Params) != 4 {
		t.Fatalf("got %d params, want 4 (non-parameter child skipped)", len(m.Params))
	}
	kinds := map[string]sdk.ParamKind{}
	for _, p := range m.Params {
		kinds[p.Name] = p.Kind
	}
	if kinds["Count"] != sdk.ParamInput || kinds["Origin"] != sdk.ParamInput {
		t.Errorf("input kinds wrong: %v", kinds)
	}
	if kinds["OutDamage"] != sdk.ParamOutput {
		t.Errorf("OutDamage kind = %v", kinds["OutDamage"])
	}
	if kinds["ReturnValue"] != sdk.ParamReturn {
		t.Errorf("ReturnValue kind = %v", kinds["ReturnValue"])
	}
}

func TestBoolNormalization(t *testing.T) {
	m := buildFixture(t, Options{BoolType: "uint32_t"})
	if got := ReturnType(m); got != "uint32_t" {
		t.Errorf("ReturnType = %q, want uint32_t", got)
	}

	m = buildFixture(t, Options{})
	if got := ReturnType(m); got != "bool" {
		t.Errorf("default ReturnType = %q, want bool", got)
	}
}

func TestSignature(t *testing.T) {
	m := buildFixture(t, Options{})

	header := Signature(m, "", true)
	want := "bool Fire(int Count, const struct FVector& Origin, float* OutDamage)"
	if header != want {
		t.Errorf("header signature:\n got %q\nwant %q", header, want)
	}

	def := Signature(m, "AWeapon", false)
	if !strings.HasPrefix(def, "bool AWeapon::Fire(") {
		t.Errorf("definition signature = %q", def)
	}
}

func TestSignatureStatic(t *testing.T) {
	m := buildFixture(t, Options{})
	m.Static = true
	if got := Signature(m, "", true); !strings.HasPrefix(got, "static bool ") {
		t.Errorf("static header = %q", got)
	}
	// The static specifier never appears on the definition.
	if got := Signature(m, "AWeapon", false); strings.HasPrefix(got, "static ") {
		t.Errorf("static definition = %q", got)
	}
}

func TestArrayParamDecaysToPointer(t *testing.T) {
	descs := []objects.Desc{
		{
			Index: 0, Kind: "class", Name: "C", Unit: -1, Super: -1, StructRef: -1,
			Children: []int{1},
		},
		{
			Index: 1, Kind: "function", Name: "SetKeys", FullName: "C.SetKeys",
			Unit: -1, Super: -1, StructRef: -1, Children: []int{2},
		},
		{
			Index: 2, Kind: "property", Name: "Keys",
			Unit: -1, Super: -1, StructRef: -1,
			ElemSize: 4, ArrayDim: 8, TypeClass: "primitive", TypeName: "int", TypeSize: 4,
			CanBeRef: true,
			Flags:    uint64(objects.PropParam),
		},
	}
	tab, err := objects.NewTable(descs)
	if err != nil {
		t.Fatal(err)
	}
	methods := Build(tab.Entity(0), Options{})
	if len(methods) != 1 || len(methods[0].Params) != 1 {
		t.Fatalf("methods = %+v", methods)
	}
	p := methods[0].Params[0]
	if p.Type != "int*" || p.ByRef {
		t.Errorf("array param = %+v, want int* by value", p)
	}
}

func TestBuildDedupByFullName(t *testing.T) {
	descs := []objects.Desc{
		{
			Index: 0, Kind: "class", Name: "C", Unit: -1, Super: -1, StructRef: -1,
			Children: []int{1, 2},
		},
		{
			Index: 1, Kind: "function", Name: "Tick", FullName: "C.Tick",
			Unit: -1, Super: -1, StructRef: -1,
		},
		{
			Index: 2, Kind: "function", Name: "Tick", FullName: "C.Tick",
			Unit: -1, Super: -1, StructRef: -1,
		},
	}
	tab, err := objects.NewTable(descs)
	if err != nil {
		t.Fatal(err)
	}
	if methods := Build(tab.Entity(0), Options{}); len(methods) != 1 {
		t.Errorf("got %d methods, want 1", len(methods))
	}
}

func TestBody(t *testing.T) {
	m := buildFixture(t, Options{})
	body := Body(m, Options{})

	for _, want := range []string{
		"static auto fn = static_cast<UFunction*>(UObject::GetGlobalObjects().GetByIndex(1));",
		"params.Count = Count;",
		"params.Origin = Origin;",
		"auto flags = fn->FunctionFlags;",
		"fn->FunctionFlags |= 0x400;",
		"UObject::ProcessEvent(fn, &params);",
		"fn->FunctionFlags = flags;",
		"if (OutDamage != nullptr)",
		"*OutDamage = params.OutDamage;",
		"return params.ReturnValue;",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "params.OutDamage = OutDamage") {
		t.Error("output param must not be copied in")
	}
}

func TestBodyUseStrings(t *testing.T) {
	m := buildFixture(t, Options{})

	body := Body(m, Options{UseStrings: true})
	if !strings.Contains(body, `FindObject<UFunction>("Engine.Weapon.Fire")`) {
		t.Errorf("body missing name lookup:\n%s", body)
	}

	body = Body(m, Options{UseStrings: true, XorStrings: true})
	if !strings.Contains(body, `_xor_("Engine.Weapon.Fire")`) {
		t.Errorf("body missing xor lookup:\n%s", body)
	}
}
