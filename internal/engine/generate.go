package engine

import (
	"fmt"

	"sdkgen/internal/config"
	"sdkgen/internal/funcmodel"
	"sdkgen/internal/layout"
	"sdkgen/internal/names"
	"sdkgen/internal/objects"
	"sdkgen/internal/sdk"
	"sdkgen/internal/vscan"
)

func (p *Pass) generateEnum(e objects.Entity) {
	en, ok := objects.AsEnum(e)
	if !ok {
		return
	}
	name := p.decls.Unique(names.Valid(e.Name()), p.current.Name())
	if names.IsPlaceholder(name) {
		return
	}
	out := sdk.Enum{Name: name, FullName: e.FullName()}
	dedup := names.Deduper{}
	for i, raw := range en.ValueNames() {
		out.Values = append(out.Values, sdk.EnumValue{
			Name:  dedup.Claim(names.Valid(raw)),
			Value: i,
		})
	}
	p.curModel.Enums = append(p.curModel.Enums, out)
}

func (p *Pass) generateConst(e objects.Entity) {
	cn, ok := objects.AsConst(e)
	if !ok {
		return
	}
	name := p.decls.Unique(names.Valid(e.Name()), p.current.Name())
	if names.IsPlaceholder(name) {
		return
	}
	for i := range p.curModel.Constants {
		if p.curModel.Constants[i].Name == name {
			// Unique names: the latest reflected value wins.
			p.curModel.Constants[i].Value = cn.Value()
			return
		}
	}
	p.curModel.Constants = append(p.curModel.Constants, sdk.Constant{Name: name, Value: cn.Value()})
}

func (p *Pass) generateStruct(e objects.Entity) {
	s := sdk.Struct{Name: e.Name(), FullName: e.FullName(), Size: e.Size()}
	log.Debugf("struct %-60s instance 0x%x", s.Name, e.Address())

	decl := "struct "
	if a := p.cfg.Alignment(s.FullName); a > 0 {
		decl += fmt.Sprintf("alignas(%d) ", a)
	}
	decl += p.decls.Unique(names.Valid(e.DeclName()), p.current.Name())

	inherited := 0
	if super := e.Super(); super != nil && super.ID() != e.ID() {
		inherited = super.Size()
		superUnit := ""
		if u := super.Unit(); u != nil {
			superUnit = u.Name()
		}
		decl += " : public " + p.decls.Unique(names.Valid(super.DeclName()), superUnit)
	}
	s.DeclName = decl
	s.InheritedSize = inherited

	props := collectProperties(e, 0)
	layout.SortProperties(props)
	s.Members = layout.Build(inherited, props, s.Size, layout.Options{MinGap: p.cfg.MinGap})

	if ov := p.cfg.Class(s.FullName); ov != nil {
		s.Predefined = predefinedMethods(ov)
	}
	p.curModel.Structs = append(p.curModel.Structs, s)
}

func (p *Pass) generateClass(e objects.Entity) {
	c := sdk.Class{Struct: sdk.Struct{Name: e.Name(), FullName: e.FullName(), Size: e.Size()}}
	log.Debugf("class  %-60s instance 0x%x", c.Name, e.Address())

	declName := p.decls.Unique(names.Valid(e.DeclName()), p.current.Name())
	decl := "class " + declName

	inherited := 0
	super := e.Super()
	if super != nil && super.ID() != e.ID() {
		inherited = super.Size()
		decl += " : public " + names.Valid(super.DeclName())
	}
	c.DeclName = decl
	c.InheritedSize = inherited

	ov := p.cfg.Class(c.FullName)
	if ov != nil && (len(ov.Members) > 0 || len(ov.StaticMembers) > 0) {
		// Manual overrides bypass reconstruction entirely.
		for _, sm := range ov.StaticMembers {
			c.Members = append(c.Members, sdk.Member{Name: sm.Name, Type: "static " + sm.Type})
		}
		for _, pm := range ov.Members {
			c.Members = append(c.Members, sdk.Member{Name: pm.Name, Type: pm.Type, Comment: "NOT AUTO-GENERATED PROPERTY"})
		}
	} else {
		props := collectProperties(e, inherited)
		layout.SortProperties(props)
		c.Members = layout.Build(inherited, props, c.Size, layout.Options{MinGap: p.cfg.MinGap})
	}

	if ov != nil {
		c.Predefined = predefinedMethods(ov)
	}
	c.Predefined = append(c.Predefined, p.staticClassAccessor(e))

	c.Methods = funcmodel.Build(e, p.funcOptions())

	if rules := p.rules[c.FullName]; len(rules) > 0 && p.probe != nil && e.Address() != 0 {
		for _, b := range vscan.Scan(p.probe, e.Address(), rules) {
			log.Debugf("class %s: rule %s bound to slot %d", c.Name, b.Rule, b.Slot)
			c.Predefined = append(c.Predefined, b.Method)
		}
	}

	p.curModel.Classes = append(p.curModel.Classes, c)
}

func (p *Pass) funcOptions() funcmodel.Options {
	return funcmodel.Options{
		BoolType:   p.cfg.BoolType,
		UseStrings: p.cfg.UseStrings,
		XorStrings: p.cfg.XorStrings,
	}
}

// staticClassAccessor resolves the class object at runtime, by full
// name or by global object index depending on configuration.
func (p *Pass) staticClassAccessor(e objects.Entity) sdk.PredefinedMethod {
	var lookup string
	if p.cfg.UseStrings {
		name := fmt.Sprintf("%q", e.FullName())
		if p.cfg.XorStrings {
			name = fmt.Sprintf("_xor_(%q)", e.FullName())
		}
		lookup = fmt.Sprintf("UObject::FindClass(%s)", name)
	} else {
		lookup = fmt.Sprintf("static_cast<UClass*>(UObject::GetGlobalObjects().GetByIndex(%d))", e.ID())
	}
	return sdk.PredefinedMethod{
		Inline: true,
		Body: fmt.Sprintf("\tstatic UClass* StaticClass()\n\t{\n\t\tstatic auto ptr = %s;\n\t\treturn ptr;\n\t}\n",
			lookup),
	}
}

func predefinedMethods(ov *config.ClassOverride) []sdk.PredefinedMethod {
	out := make([]sdk.PredefinedMethod, 0, len(ov.Methods))
	for _, m := range ov.Methods {
		out = append(out, sdk.PredefinedMethod{Signature: m.Signature, Body: m.Body, Inline: m.Inline})
	}
	return out
}

// collectProperties gathers the reflected data properties of e with a
// nonzero footprint. minOffset drops inherited-range properties that
// some runtimes re-expose on subclasses.
func collectProperties(e objects.Entity, minOffset int) []objects.Property {
	var props []objects.Property
	for _, c := range e.Children() {
		prop, ok := objects.AsProperty(c)
		if !ok || prop.ElementSize() <= 0 {
			continue
		}
		if prop.Offset() < minOffset {
			continue
		}
		props = append(props, prop)
	}
	return props
}
