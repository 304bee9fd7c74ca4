package vscan

import (
	"encoding/binary"
	"strings"
	"testing"

	"sdkgen/internal/memprobe"
	"sdkgen/internal/pattern"
)

const (
	instanceAddr = 0x1000
	tableAddr    = 0x2000
	codeAddr     = 0x4000
	dataAddr     = 0x6000
)

// fixtureProbe lays out an instance whose dispatch table holds three
// executable slots; the code of the second slot starts with a standard
// frame prologue.
func fixtureProbe(t *testing.T, slots []uint64) *memprobe.StaticProbe {
	t.Helper()

	instance := make([]byte, 8)
	binary.LittleEndian.PutUint64(instance, tableAddr)

	table := make([]byte, len(slots)*8)
	for i, s := range slots {
		binary.LittleEndian.PutUint64(table[i*8:], s)
	}

	code := make([]byte, 64)
	code[0] = 0x90
	copy(code[0x10:], []byte{0x55, 0x48, 0x8B, 0xEC})

	return memprobe.NewStatic(
		memprobe.Region{Base: instanceAddr, Data: instance, Prot: memprobe.ProtRead},
		memprobe.Region{Base: tableAddr, Data: table, Prot: memprobe.ProtRead},
		memprobe.Region{Base: codeAddr, Data: code, Prot: memprobe.ProtExecuteRead},
		memprobe.Region{Base: dataAddr, Data: make([]byte, 32), Prot: memprobe.ProtReadWrite},
	)
}

func TestTableBound(t *testing.T) {
	// Three executable slots, then one landing in writable data.
	p := fixtureProbe(t, []uint64{codeAddr, codeAddr + 0x10, codeAddr + 0x20, dataAddr, codeAddr})
	if got := TableBound(p, tableAddr); got != 3 {
		t.Errorf("TableBound = %d, want 3", got)
	}
}

func TestTableBoundStopsOnUnmappedSlot(t *testing.T) {
	p := fixtureProbe(t, []uint64{codeAddr, codeAddr + 0x10})
	// The table region ends after two slots; the third pointer read fails.
	if got := TableBound(p, tableAddr); got != 2 {
		t.Errorf("TableBound = %d, want 2", got)
	}
}

func TestScanFirstMatchWins(t *testing.T) {
	p := fixtureProbe(t, []uint64{codeAddr, codeAddr + 0x10, codeAddr + 0x20})
	rules := []Rule{{
		Name:     "GetName",
		Pattern:  pattern.MustParse("55 48 8B EC"),
		Window:   8,
		Accessor: "\treturn GetVFunction<void(*)(void*)>(this, %d)(this);",
	}}

	bindings := Scan(p, instanceAddr, rules)
	if len(bindings) != 1 {
		t.Fatalf("got %d bindings, want 1", len(bindings))
	}
	b := bindings[0]
	if b.Rule != "GetName" || b.Slot != 1 {
		t.Errorf("binding = %+v, want GetName at slot 1", b)
	}
	if !b.Method.Inline {
		t.Error("bound accessor must be inline")
	}
	if !strings.Contains(b.Method.Body, "vtable slot 1") {
		t.Errorf("body missing slot comment:\n%s", b.Method.Body)
	}
	if !strings.Contains(b.Method.Body, "this, 1)") {
		t.Errorf("accessor not instantiated with slot index:\n%s", b.Method.Body)
	}
	if !strings.Contains(b.Method.Body, "push rbp") {
		t.Errorf("body missing decoded prologue:\n%s", b.Method.Body)
	}
}

func TestScanNoMatch(t *testing.T) {
	p := fixtureProbe(t, []uint64{codeAddr})
	rules := []Rule{{
		Name:     "Absent",
		Pattern:  pattern.MustParse("DE AD BE EF"),
		Window:   8,
		Accessor: "\treturn %d;",
	}}
	if got := Scan(p, instanceAddr, rules); got != nil {
		t.Errorf("Scan = %+v, want nil", got)
	}
}

func TestScanProbeFailureDegrades(t *testing.T) {
	p := memprobe.NewStatic()
	rules := []Rule{{
		Name:     "GetName",
		Pattern:  pattern.MustParse("55"),
		Accessor: "\treturn %d;",
	}}
	if got := Scan(p, instanceAddr, rules); got != nil {
		t.Errorf("Scan on unmapped instance = %+v, want nil", got)
	}
	if got := Scan(nil, instanceAddr, rules); got != nil {
		t.Errorf("Scan with nil probe = %+v, want nil", got)
	}
}

func TestPrologueFallback(t *testing.T) {
	// 0x0F alone is a truncated two-byte opcode.
	got := prologue([]byte{0x0F})
	if !strings.HasPrefix(got, ".byte") {
		t.Errorf("prologue fallback = %q", got)
	}
}
