// Package funcmodel reconstructs callable method models from reflected
// function entities and synthesizes their signature and body text.
package funcmodel

import (
	"fmt"
	"strings"

	"sdkgen/internal/layout"
	"sdkgen/internal/names"
	"sdkgen/internal/objects"
	"sdkgen/internal/sdk"
)

// Options controls parameter normalization and body synthesis.
type Options struct {
	// BoolType replaces the reflected boolean type in parameters.
	BoolType string
	// UseStrings resolves the function handle by full name instead of
	// global index; XorStrings additionally wraps the literal.
	UseStrings bool
	XorStrings bool
}

func (o Options) boolType() string {
	if o.BoolType == "" {
		return "bool"
	}
	return o.BoolType
}

// Build collects the reconstructed methods of class in child order,
// de-duplicated by full name. Some runtimes expose one function through
// several children; later duplicates are dropped.
func Build(class objects.Entity, opts Options) []sdk.Method {
	seen := make(map[string]bool)
	var methods []sdk.Method
	for _, child := range class.Children() {
		fn, ok := objects.AsFunction(child)
		if !ok {
			continue
		}
		if seen[fn.FullName()] {
			continue
		}
		seen[fn.FullName()] = true
		methods = append(methods, buildOne(fn, opts))
	}
	return methods
}

func buildOne(fn objects.Function, opts Options) sdk.Method {
	flags := fn.FunctionFlags()
	m := sdk.Method{
		Index:     fn.ID(),
		Name:      names.Valid(fn.Name()),
		FullName:  fn.FullName(),
		Native:    flags&objects.FuncNative != 0,
		Static:    flags&objects.FuncStatic != 0,
		FlagsText: flags.String(),
	}

	var props []objects.Property
	for _, c := range fn.Children() {
		p, ok := objects.AsProperty(c)
		if !ok || p.ElementSize() == 0 || !p.Type().Resolvable() {
			continue
		}
		props = append(props, p)
	}
	layout.SortProperties(props)

	dedup := names.Deduper{}
	for _, p := range props {
		kind, ok := classify(p.PropertyFlags())
		if !ok {
			// Child is not a parameter.
			continue
		}
		par := sdk.Param{
			Name:      dedup.Claim(names.Valid(p.Name())),
			Kind:      kind,
			FlagsText: p.PropertyFlags().String(),
		}
		info := p.Type()
		par.Type = info.Name
		if info.Class == objects.TypeBool {
			par.Type = opts.boolType()
		}
		if kind == sdk.ParamInput {
			if p.ArrayDim() > 1 {
				// Fixed-size arrays degrade to pointers.
				par.Type += "*"
			} else if info.CanBeRef {
				par.ByRef = true
			}
		}
		m.Params = append(m.Params, par)
	}
	return m
}

// classify maps property flags to a parameter kind. Children without a
// parameter flag report ok=false and are skipped.
func classify(f objects.PropertyFlags) (sdk.ParamKind, bool) {
	switch {
	case f&objects.PropReturnParam != 0:
		return sdk.ParamReturn, true
	case f&objects.PropOutParam != 0:
		return sdk.ParamOutput, true
	case f&objects.PropParam != 0:
		return sdk.ParamInput, true
	}
	return 0, false
}

// ReturnType is the method's return type text, or "void".
func ReturnType(m sdk.Method) string {
	for _, p := range m.Params {
		if p.Kind == sdk.ParamReturn {
			return p.Type
		}
	}
	return "void"
}

// Signature renders a method declaration: inputs before outputs,
// reference and pointer decorations applied. className qualifies the
// definition form; inHeader adds the static specifier.
func Signature(m sdk.Method, className string, inHeader bool) string {
	var b strings.Builder
	if m.Static && inHeader {
		b.WriteString("static ")
	}
	b.WriteString(ReturnType(m))
	b.WriteByte(' ')
	if className != "" {
		b.WriteString(className)
		b.WriteString("::")
	}
	b.WriteString(m.Name)
	b.WriteByte('(')
	first := true
	for _, kind := range [...]sdk.ParamKind{sdk.ParamInput, sdk.ParamOutput} {
		for _, p := range m.Params {
			if p.Kind != kind {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			first = false
			switch {
			case p.ByRef:
				b.WriteString("const ")
				b.WriteString(p.Type)
				b.WriteString("& ")
			case p.Kind == sdk.ParamOutput:
				b.WriteString(p.Type)
				b.WriteString("* ")
			default:
				b.WriteString(p.Type)
				b.WriteByte(' ')
			}
			b.WriteString(p.Name)
		}
	}
	b.WriteByte(')')
	return b.String()
}

// Body renders the method definition body: resolve the function handle
// once, marshal inputs into a transient parameter block, raise the
// native flag for the call and restore it after, then copy outputs back
// through non-null pointers and return the return parameter.
func Body(m sdk.Method, opts Options) string {
	var b strings.Builder
	b.WriteString("{\n\tstatic auto fn")
	if opts.UseStrings {
		name := fmt.Sprintf("%q", m.FullName)
		if opts.XorStrings {
			name = fmt.Sprintf("_xor_(%q)", m.FullName)
		}
		fmt.Fprintf(&b, " = UObject::FindObject<UFunction>(%s);\n\n", name)
	} else {
		fmt.Fprintf(&b, " = static_cast<UFunction*>(UObject::GetGlobalObjects().GetByIndex(%d));\n\n", m.Index)
	}

	b.WriteString("\tstruct\n\t{\n")
	for _, p := range m.Params {
		fmt.Fprintf(&b, "\t\t%-30s %s;\n", p.Type, p.Name)
	}
	b.WriteString("\t} params;\n")
	for _, p := range m.Params {
		if p.Kind == sdk.ParamInput {
			fmt.Fprintf(&b, "\tparams.%s = %s;\n", p.Name, p.Name)
		}
	}

	b.WriteString("\n\tauto flags = fn->FunctionFlags;\n")
	if m.Native {
		fmt.Fprintf(&b, "\tfn->FunctionFlags |= 0x%X;\n", uint64(objects.FuncNative))
	}
	b.WriteString("\n")
	if m.Static {
		b.WriteString("\tstatic auto defaultObj = StaticClass()->CreateDefaultObject();\n")
		b.WriteString("\tdefaultObj->ProcessEvent(fn, &params);\n\n")
	} else {
		b.WriteString("\tUObject::ProcessEvent(fn, &params);\n\n")
	}
	b.WriteString("\tfn->FunctionFlags = flags;\n")

	for _, p := range m.Params {
		if p.Kind == sdk.ParamOutput {
			fmt.Fprintf(&b, "\n\tif (%s != nullptr)\n\t\t*%s = params.%s;\n", p.Name, p.Name, p.Name)
		}
	}
	for _, p := range m.Params {
		if p.Kind == sdk.ParamReturn {
			fmt.Fprintf(&b, "\n\treturn params.%s;\n", p.Name)
			break
		}
	}
	b.WriteString("}\n")
	return b.String()
}
