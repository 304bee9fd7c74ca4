// Package names turns raw reflected names into safe source identifiers.
package names

import (
	"fmt"
	"strings"
)

// Markers on entity names that denote default instances or engine
// placeholders. Entities carrying one are never generated.
var placeholderMarkers = []string{
	"Default__",
	"<uninitialized>",
	"PLACEHOLDER-CLASS",
}

// IsPlaceholder reports whether name denotes a default-instance or
// placeholder object.
func IsPlaceholder(name string) bool {
	for _, m := range placeholderMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// Valid rewrites raw into a safe identifier. Every byte outside
// [A-Za-z0-9_] becomes '_'; a leading digit gets a '_' prefix.
func Valid(raw string) string {
	if raw == "" {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw) + 1)
	if raw[0] >= '0' && raw[0] <= '9' {
		b.WriteByte('_')
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Deduper hands out deterministic two-digit suffixes for repeated names
// within one scope: Value, Value01, Value02, ...
type Deduper map[string]int

// Claim returns name on first use and name+NN afterwards.
func (d Deduper) Claim(name string) string {
	n := d[name]
	d[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s%02d", name, n)
}

// DeclTable produces globally unique declared names. The first entity to
// claim a name owns it; a later claim from a different unit gets the
// owning unit's name as a prefix.
type DeclTable struct {
	owner map[string]string // declared name -> claiming unit
}

func NewDeclTable() *DeclTable {
	return &DeclTable{owner: make(map[string]string)}
}

// Unique returns the globally unique declared form of name for an entity
// owned by unit.
func (t *DeclTable) Unique(name, unit string) string {
	owner, ok := t.owner[name]
	if !ok {
		t.owner[name] = unit
		return name
	}
	if owner == unit {
		return name
	}
	return Valid(unit) + "_" + name
}
