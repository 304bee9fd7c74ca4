// Package vscan discovers unnamed virtual-function slots by scanning a
// class instance's dispatch table for byte patterns.
package vscan

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"

	"sdkgen/internal/memprobe"
	"sdkgen/internal/pattern"
	"sdkgen/internal/sdk"
)

const (
	ptrSize       = 8
	defaultWindow = 0x200

	// maxSlots bounds the table walk against runaway executable
	// regions; real dispatch tables are far smaller.
	maxSlots = 512
)

// Rule binds a byte pattern to an accessor template. Accessor is a
// format string receiving the matched slot index.
type Rule struct {
	Name     string
	Pattern  pattern.Pattern
	Window   int
	Accessor string
}

// Binding is one matched rule.
type Binding struct {
	Rule   string
	Slot   int
	Method sdk.PredefinedMethod
}

// TableBound counts dispatch slots from the table base upward, stopping
// at the first slot whose target is not classified executable or whose
// probe fails. The count heuristically marks the table's end.
func TableBound(p memprobe.Probe, table uint64) int {
	count := 0
	for count < maxSlots {
		addr, err := p.Pointer(table + uint64(count)*ptrSize)
		if err != nil {
			break
		}
		prot, err := p.Protect(addr)
		if err != nil || !prot.Executable() {
			break
		}
		count++
	}
	return count
}

// Scan matches rules against the dispatch table of the instance at
// addr. For each rule the first matching slot wins; rules that match
// nothing are silently absent from the result. Probe failures degrade
// to no match.
func Scan(p memprobe.Probe, instance uint64, rules []Rule) []Binding {
	if p == nil || len(rules) == 0 {
		return nil
	}
	table, err := p.Pointer(instance)
	if err != nil {
		return nil
	}
	count := TableBound(p, table)

	var out []Binding
	for _, r := range rules {
		if r.Pattern.Empty() || r.Accessor == "" {
			continue
		}
		window := r.Window
		if window <= 0 {
			window = defaultWindow
		}
		buf := make([]byte, window)
		for i := 0; i < count; i++ {
			slot, err := p.Pointer(table + uint64(i)*ptrSize)
			if err != nil || slot == 0 {
				continue
			}
			n, _ := p.ReadAt(slot, buf)
			if n == 0 || r.Pattern.Find(buf[:n]) < 0 {
				continue
			}
			out = append(out, Binding{
				Rule: r.Name,
				Slot: i,
				Method: sdk.PredefinedMethod{
					Inline: true,
					Body: fmt.Sprintf("\t// vtable slot %d: %s\n%s",
						i, prologue(buf[:n]), fmt.Sprintf(r.Accessor, i)),
				},
			})
			break
		}
	}
	return out
}

// prologue decodes the first instruction at a slot for the generated
// accessor's comment, falling back to raw bytes when undecodable.
func prologue(code []byte) string {
	inst, err := x86asm.Decode(code, 64)
	if err != nil {
		n := len(code)
		if n > 4 {
			n = 4
		}
		return fmt.Sprintf(".byte %x", code[:n])
	}
	return strings.ToLower(inst.String())
}
