package emit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sdkgen/internal/sdk"
)

func fixtureUnit() *sdk.Unit {
	return &sdk.Unit{
		Name:      "Engine",
		Constants: []sdk.Constant{{Name: "MAX_PLAYERS", Value: "64"}},
		Enums: []sdk.Enum{{
			Name:     "EState",
			FullName: "Engine.EState",
			Values:   []sdk.EnumValue{{Name: "Idle", Value: 0}, {Name: "Busy", Value: 1}},
		}},
		Structs: []sdk.Struct{{
			Name:     "Vector",
			FullName: "Engine.Vector",
			DeclName: "struct FVector",
			Size:     12,
			Members: []sdk.Member{
				{Name: "X", Type: "float", Offset: 0, Size: 4},
				{Name: "Y", Type: "float", Offset: 4, Size: 4},
				{Name: "Z", Type: "float", Offset: 8, Size: 4},
			},
		}},
		Classes: []sdk.Class{{
			Struct: sdk.Struct{
				Name:          "Actor",
				FullName:      "Engine.Actor",
				DeclName:      "class AActor : public UObject",
				Size:          0x50,
				InheritedSize: 0x28,
				Members: []sdk.Member{
					{Name: "Location", Type: "struct FVector", Offset: 0x28, Size: 12},
					{Name: "UnknownData00[0x1C]", Type: "unsigned char", Offset: 0x34, Size: 0x1C, Comment: "MISSED OFFSET"},
				},
			},
			Methods: []sdk.Method{{
				Index:    7,
				Name:     "SetLocation",
				FullName: "Engine.Actor.SetLocation",
				Params: []sdk.Param{
					{Name: "NewLocation", Type: "struct FVector", Kind: sdk.ParamInput, ByRef: true},
					{Name: "ReturnValue", Type: "bool", Kind: sdk.ParamReturn},
				},
			}},
		}},
	}
}

func renderUnit(t *testing.T, u *sdk.Unit, opts Options) (string, bool) {
	t.Helper()
	dir := t.TempDir()
	ok, err := Render(u, dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	return dir, ok
}

func readArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func TestRenderSkipsEmptyUnit(t *testing.T) {
	dir, ok := renderUnit(t, &sdk.Unit{Name: "Ghost"}, Options{Short: "SDK"})
	if ok {
		t.Error("Render reported output for an empty unit")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("empty unit wrote %d files", len(entries))
	}
}

func TestRenderEmitEmptyOverride(t *testing.T) {
	dir, ok := renderUnit(t, &sdk.Unit{Name: "Ghost"}, Options{Short: "SDK", EmitEmpty: true})
	if !ok {
		t.Fatal("Render skipped despite EmitEmpty")
	}
	for _, name := range []string{"SDK_Ghost_structs.hpp", "SDK_Ghost_classes.hpp", "SDK_Ghost_functions.cpp"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestRenderArtifactNames(t *testing.T) {
	dir, ok := renderUnit(t, fixtureUnit(), Options{Short: "Game"})
	if !ok {
		t.Fatal("Render skipped a populated unit")
	}
	for _, name := range []string{"Game_Engine_structs.hpp", "Game_Engine_classes.hpp", "Game_Engine_functions.cpp"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestRenderStructsFile(t *testing.T) {
	dir, _ := renderUnit(t, fixtureUnit(), Options{Short: "SDK"})
	out := readArtifact(t, dir, "SDK_Engine_structs.hpp")

	for _, want := range []string{
		"#pragma pack(push, 0x8)",
		"namespace SDK",
		"// Script Structs",
		"// Engine.Vector",
		"// 0x000C",
		"struct FVector",
		"#pragma pack(pop)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("structs file missing %q", want)
		}
	}
	if strings.Contains(out, "class AActor") {
		t.Error("classes leaked into the structs file")
	}
}

func TestRenderClassesFile(t *testing.T) {
	dir, _ := renderUnit(t, fixtureUnit(), Options{Short: "SDK"})
	out := readArtifact(t, dir, "SDK_Engine_classes.hpp")

	for _, want := range []string{
		"#define CONST_MAX_PLAYERS",
		"enum class EState",
		"Idle",
		"class AActor : public UObject",
		"public:",
		"// 0x0028 (0x0050 - 0x0028)",
		"// 0x0028(0x000C)",
		"MISSED OFFSET",
		"bool SetLocation(const struct FVector& NewLocation);",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("classes file missing %q", want)
		}
	}

	// Sections appear in constants, enums, classes order.
	ci := strings.Index(out, "// Constants")
	ei := strings.Index(out, "// Enums")
	ki := strings.Index(out, "// Classes")
	if !(ci < ei && ei < ki) {
		t.Errorf("section order wrong: constants %d, enums %d, classes %d", ci, ei, ki)
	}
}

func TestRenderFunctionsFile(t *testing.T) {
	dir, _ := renderUnit(t, fixtureUnit(), Options{Short: "SDK"})
	out := readArtifact(t, dir, "SDK_Engine_functions.cpp")

	for _, want := range []string{
		"// Engine.Actor.SetLocation",
		"// Parameters:",
		"bool AActor::SetLocation(const struct FVector& NewLocation)",
		"GetByIndex(7)",
		"return params.ReturnValue;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("functions file missing %q", want)
		}
	}
}

func TestClassName(t *testing.T) {
	cases := []struct {
		decl, want string
	}{
		{"class AActor : public UObject", "AActor"},
		{"class UObject", "UObject"},
	}
	for _, c := range cases {
		if got := className(&sdk.Class{Struct: sdk.Struct{DeclName: c.decl}}); got != c.want {
			t.Errorf("className(%q) = %q, want %q", c.decl, got, c.want)
		}
	}
}
