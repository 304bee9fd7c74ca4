// Package layout reconstructs byte-exact member sequences from sorted
// property lists, with explicit fillers for every unexplained span.
package layout

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"sdkgen/internal/names"
	"sdkgen/internal/objects"
	"sdkgen/internal/sdk"
)

// Filler reason tags.
const (
	ReasonMissedOffset = "MISSED OFFSET"
	ReasonSizeMismatch = "FIX WRONG TYPE SIZE OF PREVIOUS PROPERTY"
	reasonUnknownProp  = "UNKNOWN PROPERTY: "
)

// Options configures member reconstruction.
type Options struct {
	// MinGap is the smallest trailing remainder worth reporting;
	// smaller remainders are ordinary alignment padding.
	MinGap int
}

// SortProperties orders props ascending by byte offset. Two boolean
// bitfield properties at the same offset are ordered by ascending bit
// mask so co-located bitfields appear in bit order.
func SortProperties(props []objects.Property) {
	sort.SliceStable(props, func(i, j int) bool {
		a, b := props[i], props[j]
		if a.Offset() == b.Offset() &&
			a.Type().Class == objects.TypeBool &&
			b.Type().Class == objects.TypeBool {
			return a.BitMask() < b.BitMask()
		}
		return a.Offset() < b.Offset()
	})
}

// Build converts properties (pre-sorted via SortProperties) into the
// ordered member list of a struct spanning [inherited, total). Member
// and filler spans tile the range with no overlap.
func Build(inherited int, props []objects.Property, total int, opts Options) []sdk.Member {
	members := make([]sdk.Member, 0, len(props))
	dedup := names.Deduper{}
	cursor := inherited
	fillerID := 0

	filler := func(offset, size int, reason string) sdk.Member {
		m := sdk.Member{
			Name:    fmt.Sprintf("UnknownData%02d[0x%X]", fillerID, size),
			Type:    "unsigned char",
			Offset:  offset,
			Size:    size,
			Comment: reason,
		}
		fillerID++
		return m
	}

	for _, p := range props {
		if cursor < p.Offset() {
			members = append(members, filler(cursor, p.Offset()-cursor, ReasonMissedOffset))
		}

		footprint := footprintOf(p)
		info := p.Type()
		if info.Resolvable() {
			m := sdk.Member{
				Name:      dedup.Claim(names.Valid(p.Name())),
				Type:      info.Name,
				Offset:    p.Offset(),
				Size:      info.Size,
				Flags:     uint64(p.PropertyFlags()),
				FlagsText: p.PropertyFlags().String(),
			}
			if p.ArrayDim() > 1 {
				m.ArrayDim = p.ArrayDim()
			}
			if info.Class == objects.TypeBool {
				m.Bits = 1
			}
			members = append(members, m)

			mapped := info.Size * p.ArrayDim()
			if slack := footprint - mapped; slack > 0 {
				members = append(members, filler(p.Offset()+mapped, slack, ReasonSizeMismatch))
			}
		} else {
			members = append(members, filler(p.Offset(), footprint, reasonUnknownProp+p.FullName()))
		}

		cursor = p.Offset() + footprint
	}

	if cursor < total {
		if size := total - cursor; size >= opts.MinGap {
			members = append(members, filler(cursor, size, ReasonMissedOffset))
		}
	}
	return members
}

// footprintOf is the property's true byte span: element size times
// array dimension, clamped on overflow.
func footprintOf(p objects.Property) int {
	fp, err := safecast.Conv[int](int64(p.ElementSize()) * int64(p.ArrayDim()))
	if err != nil || fp < 0 {
		return 0
	}
	return fp
}
