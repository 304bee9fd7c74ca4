// Package emit renders reconstructed units to SDK source artifacts:
// one structs header, one classes/constants/enums header, and one
// function-bodies file per unit.
package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"sdkgen/internal/funcmodel"
	"sdkgen/internal/sdk"
)

var log = commonlog.GetLogger("sdkgen.emit")

// Options controls artifact rendering.
type Options struct {
	// Short prefixes every artifact file name.
	Short string
	// EmitEmpty forces artifacts for units that would be skipped.
	EmitEmpty bool
	// Func carries the body-synthesis settings used during generation.
	Func funcmodel.Options
}

// Render writes the artifacts of unit u into dir and reports whether
// anything was written. Empty units are skipped and logged; that is not
// an error.
func Render(u *sdk.Unit, dir string, opts Options) (bool, error) {
	if !opts.EmitEmpty && u.Empty() {
		log.Infof("skip empty unit: %s", u.Name)
		return false, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("emit: mkdir %s: %w", dir, err)
	}
	files := []struct {
		suffix string
		render func(*sdk.Unit, Options) string
	}{
		{"structs.hpp", renderStructs},
		{"classes.hpp", renderClasses},
		{"functions.cpp", renderFunctions},
	}
	for _, f := range files {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s", opts.Short, u.Name, f.suffix))
		if err := os.WriteFile(path, []byte(f.render(u, opts)), 0644); err != nil {
			return false, fmt.Errorf("emit: write %s: %w", path, err)
		}
	}
	return true, nil
}

func header(b *strings.Builder, includes ...string) {
	b.WriteString("// ------------------------------------------------------------------------\n")
	b.WriteString("// Generated SDK declarations. Do not edit: regenerate instead.\n")
	b.WriteString("// ------------------------------------------------------------------------\n\n")
	b.WriteString("#pragma once\n")
	for _, inc := range includes {
		fmt.Fprintf(b, "#include %s\n", inc)
	}
	b.WriteString("\n#ifdef _MSC_VER\n\t#pragma pack(push, 0x8)\n#endif\n\n")
	b.WriteString("namespace SDK\n{\n")
}

func footer(b *strings.Builder) {
	b.WriteString("}\n\n#ifdef _MSC_VER\n\t#pragma pack(pop)\n#endif\n")
}

func banner(b *strings.Builder, title string) {
	b.WriteString("//---------------------------------------------------------------------------\n")
	fmt.Fprintf(b, "// %s\n", title)
	b.WriteString("//---------------------------------------------------------------------------\n\n")
}

func renderStructs(u *sdk.Unit, _ Options) string {
	var b strings.Builder
	header(&b)
	if len(u.Structs) > 0 {
		banner(&b, "Script Structs")
		for i := range u.Structs {
			printStruct(&b, &u.Structs[i], false)
			b.WriteString("\n")
		}
	}
	footer(&b)
	return b.String()
}

func renderClasses(u *sdk.Unit, _ Options) string {
	var b strings.Builder
	header(&b)
	if len(u.Constants) > 0 {
		banner(&b, "Constants")
		for _, c := range u.Constants {
			fmt.Fprintf(&b, "#define CONST_%-50s %s\n", c.Name, c.Value)
		}
		b.WriteString("\n")
	}
	if len(u.Enums) > 0 {
		banner(&b, "Enums")
		for i := range u.Enums {
			printEnum(&b, &u.Enums[i])
			b.WriteString("\n")
		}
	}
	if len(u.Classes) > 0 {
		banner(&b, "Classes")
		for i := range u.Classes {
			printClass(&b, &u.Classes[i])
			b.WriteString("\n")
		}
	}
	footer(&b)
	return b.String()
}

func renderFunctions(u *sdk.Unit, opts Options) string {
	var b strings.Builder
	b.WriteString("// ------------------------------------------------------------------------\n")
	b.WriteString("// Generated SDK function bodies. Do not edit: regenerate instead.\n")
	b.WriteString("// ------------------------------------------------------------------------\n\n")
	b.WriteString("#include \"../SDK.hpp\"\n\n")
	b.WriteString("namespace SDK\n{\n")
	banner(&b, "Functions")

	for i := range u.Structs {
		printPredefinedBodies(&b, u.Structs[i].Predefined)
	}
	for i := range u.Classes {
		c := &u.Classes[i]
		printPredefinedBodies(&b, c.Predefined)
		for _, m := range c.Methods {
			fmt.Fprintf(&b, "// %s\n// (%s)\n", m.FullName, m.FlagsText)
			if len(m.Params) > 0 {
				b.WriteString("// Parameters:\n")
				for _, p := range m.Params {
					fmt.Fprintf(&b, "// %-30s %-30s (%s)\n", p.Type, p.Name, p.FlagsText)
				}
			}
			b.WriteString("\n")
			b.WriteString(funcmodel.Signature(m, className(c), false))
			b.WriteString("\n")
			b.WriteString(funcmodel.Body(m, opts.Func))
			b.WriteString("\n")
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// className extracts the bare declared class name from the decl text
// ("class Name : public Base" -> "Name").
func className(c *sdk.Class) string {
	decl := strings.TrimPrefix(c.DeclName, "class ")
	if i := strings.Index(decl, " "); i >= 0 {
		decl = decl[:i]
	}
	return decl
}

func printPredefinedBodies(b *strings.Builder, methods []sdk.PredefinedMethod) {
	for _, m := range methods {
		if m.Inline || m.Body == "" {
			continue
		}
		b.WriteString(m.Body)
		b.WriteString("\n\n")
	}
}

func printEnum(b *strings.Builder, e *sdk.Enum) {
	fmt.Fprintf(b, "// %s\nenum class %s\n{\n", e.FullName, e.Name)
	for i, v := range e.Values {
		sep := ",\n"
		if i == len(e.Values)-1 {
			sep = "\n"
		}
		fmt.Fprintf(b, "\t%-30s = %d%s", v.Name, v.Value, sep)
	}
	b.WriteString("};\n")
}

func sizeComment(b *strings.Builder, s *sdk.Struct) {
	fmt.Fprintf(b, "// %s\n", s.FullName)
	if s.InheritedSize != 0 {
		fmt.Fprintf(b, "// 0x%04X (0x%04X - 0x%04X)\n", s.Size-s.InheritedSize, s.Size, s.InheritedSize)
	} else {
		fmt.Fprintf(b, "// 0x%04X\n", s.Size)
	}
}

func memberName(m *sdk.Member) string {
	name := m.Name
	if m.ArrayDim > 1 {
		name += fmt.Sprintf("[0x%X]", m.ArrayDim)
	}
	if m.Bits > 0 {
		name += fmt.Sprintf(" : %d", m.Bits)
	}
	return name
}

func printMember(b *strings.Builder, m *sdk.Member) {
	fmt.Fprintf(b, "\t%-50s %-50s\t\t// 0x%04X(0x%04X)", m.Type, memberName(m)+";", m.Offset, m.Size)
	if m.Comment != "" {
		b.WriteString(" ")
		b.WriteString(m.Comment)
	}
	if m.FlagsText != "" {
		fmt.Fprintf(b, " (%s)", m.FlagsText)
	}
	b.WriteString("\n")
}

func printPredefined(b *strings.Builder, methods []sdk.PredefinedMethod) {
	if len(methods) == 0 {
		return
	}
	b.WriteString("\n")
	for _, m := range methods {
		if m.Inline {
			b.WriteString(m.Body)
		} else {
			fmt.Fprintf(b, "\t%s;", m.Signature)
		}
		b.WriteString("\n\n")
	}
}

func printStruct(b *strings.Builder, s *sdk.Struct, class bool) {
	sizeComment(b, s)
	b.WriteString(s.DeclName)
	b.WriteString("\n{\n")
	if class {
		b.WriteString("public:\n")
	}
	for i := range s.Members {
		printMember(b, &s.Members[i])
	}
	printPredefined(b, s.Predefined)
	b.WriteString("};\n")
}

func printClass(b *strings.Builder, c *sdk.Class) {
	sizeComment(b, &c.Struct)
	b.WriteString(c.DeclName)
	b.WriteString("\n{\npublic:\n")
	for i := range c.Members {
		printMember(b, &c.Members[i])
	}
	printPredefined(b, c.Predefined)
	if len(c.Methods) > 0 {
		b.WriteString("\n")
		for _, m := range c.Methods {
			fmt.Fprintf(b, "\t%s;\n", funcmodel.Signature(m, "", true))
		}
	}
	b.WriteString("};\n")
}
