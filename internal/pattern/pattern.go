// Package pattern matches wildcarded byte sequences within bounded
// memory windows.
package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// Pattern is a byte sequence where individual positions may be
// wildcards. The zero value is empty and matches nothing.
type Pattern struct {
	bytes []byte
	wild  []bool
}

// Parse compiles a pattern from space-separated tokens: a two-digit hex
// byte, or "?" / "??" for a wildcard position.
func Parse(s string) (Pattern, error) {
	var p Pattern
	for _, tok := range strings.Fields(s) {
		if tok == "?" || tok == "??" {
			p.bytes = append(p.bytes, 0)
			p.wild = append(p.wild, true)
			continue
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return Pattern{}, fmt.Errorf("pattern: bad token %q in %q", tok, s)
		}
		p.bytes = append(p.bytes, byte(v))
		p.wild = append(p.wild, false)
	}
	if p.Empty() {
		return Pattern{}, fmt.Errorf("pattern: empty pattern %q", s)
	}
	return p, nil
}

// MustParse is Parse for patterns known good at compile time.
func MustParse(s string) Pattern {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the pattern length in bytes.
func (p Pattern) Len() int { return len(p.bytes) }

// Empty reports whether the pattern has no positions.
func (p Pattern) Empty() bool { return len(p.bytes) == 0 }

// Find returns the offset of the first match within window, or -1.
func (p Pattern) Find(window []byte) int {
	if p.Empty() || len(window) < len(p.bytes) {
		return -1
	}
	last := len(window) - len(p.bytes)
	for off := 0; off <= last; off++ {
		if p.matchAt(window, off) {
			return off
		}
	}
	return -1
}

func (p Pattern) matchAt(window []byte, off int) bool {
	for i, b := range p.bytes {
		if p.wild[i] {
			continue
		}
		if window[off+i] != b {
			return false
		}
	}
	return true
}
