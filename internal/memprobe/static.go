package memprobe

import (
	"fmt"
	"sort"
)

// Region is one contiguous mapped range served by a static probe.
type Region struct {
	Base uint64
	Data []byte
	Prot Protection
}

// StaticProbe serves reads from in-memory regions. It backs offline runs
// against captured memory dumps and the package tests.
type StaticProbe struct {
	regions []Region
}

// NewStatic builds a probe over the given regions.
func NewStatic(regions ...Region) *StaticProbe {
	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Base < sorted[j].Base })
	return &StaticProbe{regions: sorted}
}

func (p *StaticProbe) find(addr uint64) *Region {
	for i := range p.regions {
		r := &p.regions[i]
		if addr >= r.Base && addr < r.Base+uint64(len(r.Data)) {
			return r
		}
	}
	return nil
}

func (p *StaticProbe) ReadAt(addr uint64, buf []byte) (int, error) {
	r := p.find(addr)
	if r == nil {
		return 0, fmt.Errorf("%w: 0x%x", ErrUnmapped, addr)
	}
	n := copy(buf, r.Data[addr-r.Base:])
	if n < len(buf) {
		return n, ErrShortRead
	}
	return n, nil
}

func (p *StaticProbe) Pointer(addr uint64) (uint64, error) {
	return readPointer(p, addr)
}

func (p *StaticProbe) Protect(addr uint64) (Protection, error) {
	r := p.find(addr)
	if r == nil {
		return ProtUnknown, fmt.Errorf("%w: 0x%x", ErrUnmapped, addr)
	}
	return r.Prot, nil
}
