// Package engine drives SDK reconstruction. It walks reflected entities
// unit by unit, resolves cross-type prerequisites depth-first, repairs
// the global unit emission order as cross-unit edges surface, and
// materializes the output model.
package engine

import (
	"fmt"

	"github.com/tliron/commonlog"

	"sdkgen/internal/config"
	"sdkgen/internal/memprobe"
	"sdkgen/internal/names"
	"sdkgen/internal/objects"
	"sdkgen/internal/pattern"
	"sdkgen/internal/sdk"
	"sdkgen/internal/vscan"
)

var log = commonlog.GetLogger("sdkgen.engine")

// Pass owns the mutable state of one reconstruction run: the defined-set
// guard and the unit emission order. A Pass is single-threaded; the two
// shared structures are unsynchronized on purpose.
type Pass struct {
	provider objects.Provider
	cfg      *config.Config
	probe    memprobe.Probe // nil disables virtual-slot scanning
	rules    map[string][]vscan.Rule

	defined  map[int]bool
	order    []objects.Entity
	edges    []sdk.Edge
	units    map[int]*sdk.Unit
	unitSeq  []objects.Entity
	decls    *names.DeclTable
	current  objects.Entity
	curModel *sdk.Unit
	depth    int
}

// New prepares a pass. Pattern rules from cfg are compiled up front; a
// malformed pattern is a configuration error.
func New(provider objects.Provider, cfg *config.Config, probe memprobe.Probe) (*Pass, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	rules := make(map[string][]vscan.Rule)
	for i := range cfg.Classes {
		ov := &cfg.Classes[i]
		for _, vr := range ov.Virtual {
			pat, err := pattern.Parse(vr.Pattern)
			if err != nil {
				return nil, fmt.Errorf("engine: virtual rule %q for %s: %w", vr.Name, ov.FullName, err)
			}
			rules[ov.FullName] = append(rules[ov.FullName], vscan.Rule{
				Name:     vr.Name,
				Pattern:  pat,
				Window:   vr.Window,
				Accessor: vr.Accessor,
			})
		}
	}
	return &Pass{
		provider: provider,
		cfg:      cfg,
		probe:    probe,
		rules:    rules,
		defined:  make(map[int]bool),
		units:    make(map[int]*sdk.Unit),
		decls:    names.NewDeclTable(),
	}, nil
}

// Run processes every unit in discovery order and returns the
// reconstructed archive. The model build completes before any artifact
// is written by the caller.
func (p *Pass) Run() (*sdk.Archive, error) {
	ents := p.provider.Entities()

	seen := make(map[int]bool)
	for _, e := range ents {
		u := e.Unit()
		if u == nil || seen[u.ID()] {
			continue
		}
		seen[u.ID()] = true
		p.unitSeq = append(p.unitSeq, u)
	}

	for _, u := range p.unitSeq {
		if err := p.processUnit(u, ents); err != nil {
			return nil, err
		}
	}
	return p.archive(), nil
}

func (p *Pass) processUnit(unit objects.Entity, ents []objects.Entity) error {
	p.current = unit
	p.curModel = p.unitModel(unit)
	log.Infof("unit %s", unit.Name())

	for _, e := range ents {
		u := e.Unit()
		if u == nil || u.ID() != unit.ID() {
			continue
		}
		var err error
		switch e.Kind() {
		case objects.KindEnum:
			p.generateEnum(e)
		case objects.KindConst:
			p.generateConst(e)
		case objects.KindClass, objects.KindStruct:
			err = p.prereq(e)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Pass) unitModel(unit objects.Entity) *sdk.Unit {
	if m, ok := p.units[unit.ID()]; ok {
		return m
	}
	m := &sdk.Unit{Name: unit.Name()}
	p.units[unit.ID()] = m
	return m
}

// indexOf returns the position of unit in the emission order, or -1.
func (p *Pass) indexOf(unit objects.Entity) int {
	for i, u := range p.order {
		if u.ID() == unit.ID() {
			return i
		}
	}
	return -1
}

func (p *Pass) insertBefore(pos int, unit objects.Entity) {
	p.order = append(p.order, nil)
	copy(p.order[pos+1:], p.order[pos:])
	p.order[pos] = unit
}

// repairOrder records that the current unit depends on dep and repairs
// the emission order: an unknown dep is inserted immediately before the
// current unit, a dep ordered after the current unit is moved to
// immediately before it. Last edge wins; cycles are tolerated and yield
// an order satisfying only the most recent edge.
func (p *Pass) repairOrder(dep objects.Entity) {
	p.edges = append(p.edges, sdk.Edge{From: p.current.Name(), To: dep.Name()})

	ci := p.indexOf(p.current)
	di := p.indexOf(dep)
	switch {
	case di < 0:
		p.insertBefore(ci, dep)
	case di > ci:
		p.order = append(p.order[:di], p.order[di+1:]...)
		p.insertBefore(p.indexOf(p.current), dep)
	}
}

// prereq ensures entity e and everything it depends on are generated
// before anything that needs them. It is idempotent per entity.
func (p *Pass) prereq(e objects.Entity) error {
	if e == nil {
		return nil
	}
	if names.IsPlaceholder(e.Name()) {
		return nil
	}
	if _, ok := p.defined[e.ID()]; !ok {
		p.defined[e.ID()] = false
	}
	unit := e.Unit()
	if unit == nil {
		return nil
	}

	if p.indexOf(p.current) < 0 {
		p.order = append(p.order, p.current)
	}
	if unit.ID() != p.current.ID() {
		// Generation happens in the owning unit's own pass; only the
		// emission order is repaired here.
		p.repairOrder(unit)
		return nil
	}

	if p.defined[e.ID()] {
		return nil
	}
	p.defined[e.ID()] = true

	if limit := p.cfg.RecursionLimit; p.depth >= limit {
		return fmt.Errorf("engine: recursion limit %d exceeded at %s: configuration error, raise recursion_limit or fix the reflection dump", limit, e.FullName())
	}
	p.depth++
	defer func() { p.depth-- }()

	if super := e.Super(); super != nil && super.ID() != e.ID() {
		if err := p.prereq(super); err != nil {
			return err
		}
	}
	if err := p.memberPrereqs(e); err != nil {
		return err
	}

	if e.Kind() == objects.KindClass {
		p.generateClass(e)
	} else {
		p.generateStruct(e)
	}
	return nil
}

// memberPrereqs recurses into struct-typed members and the struct-typed
// element/key/value properties of containers. Primitive and reference
// container elements do not recurse.
func (p *Pass) memberPrereqs(e objects.Entity) error {
	for _, c := range e.Children() {
		prop, ok := objects.AsProperty(c)
		if !ok {
			continue
		}
		switch prop.Type().Class {
		case objects.TypeCustomStruct:
			if err := p.prereq(prop.Struct()); err != nil {
				return err
			}
		case objects.TypeContainer:
			for _, inner := range prop.Inner() {
				if inner.Type().Class != objects.TypeCustomStruct {
					continue
				}
				if err := p.prereq(inner.Struct()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (p *Pass) archive() *sdk.Archive {
	var ordered []objects.Entity
	ordered = append(ordered, p.order...)
	for _, u := range p.unitSeq {
		if p.indexOf(u) < 0 {
			ordered = append(ordered, u)
		}
	}

	a := &sdk.Archive{
		Short:      p.cfg.ShortName,
		BoolType:   p.cfg.BoolType,
		UseStrings: p.cfg.UseStrings,
		XorStrings: p.cfg.XorStrings,
	}
	for _, u := range ordered {
		a.Order = append(a.Order, u.Name())
		if m, ok := p.units[u.ID()]; ok {
			a.Units = append(a.Units, m)
		}
	}
	a.Edges = dedupEdges(p.edges)
	return a
}

func dedupEdges(edges []sdk.Edge) []sdk.Edge {
	seen := make(map[sdk.Edge]bool)
	var out []sdk.Edge
	for _, e := range edges {
		if e.From == e.To || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
