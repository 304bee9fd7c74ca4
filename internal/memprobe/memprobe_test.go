package memprobe

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestStaticReadAt(t *testing.T) {
	p := NewStatic(Region{Base: 0x1000, Data: []byte{1, 2, 3, 4}, Prot: ProtRead})

	buf := make([]byte, 2)
	n, err := p.ReadAt(0x1001, buf)
	if err != nil || n != 2 {
		t.Fatalf("ReadAt = (%d, %v), want (2, nil)", n, err)
	}
	if buf[0] != 2 || buf[1] != 3 {
		t.Errorf("buf = %v, want [2 3]", buf)
	}

	// Partial read near the region end.
	buf = make([]byte, 8)
	n, err = p.ReadAt(0x1002, buf)
	if !errors.Is(err, ErrShortRead) {
		t.Fatalf("err = %v, want ErrShortRead", err)
	}
	if n != 2 {
		t.Errorf("n = %d, want 2", n)
	}

	if _, err := p.ReadAt(0x9000, buf); !errors.Is(err, ErrUnmapped) {
		t.Errorf("unmapped err = %v, want ErrUnmapped", err)
	}
}

func TestStaticPointer(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, 0xdeadbeef)
	p := NewStatic(Region{Base: 0x2000, Data: data, Prot: ProtRead})

	v, err := p.Pointer(0x2000)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xdeadbeef {
		t.Errorf("Pointer = 0x%x, want 0xdeadbeef", v)
	}
}

func TestStaticProtect(t *testing.T) {
	p := NewStatic(
		Region{Base: 0x1000, Data: make([]byte, 16), Prot: ProtExecuteRead},
		Region{Base: 0x2000, Data: make([]byte, 16), Prot: ProtReadWrite},
	)
	prot, err := p.Protect(0x1008)
	if err != nil {
		t.Fatal(err)
	}
	if !prot.Executable() {
		t.Errorf("Protect(0x1008) = %v, want executable", prot)
	}
	prot, err = p.Protect(0x2000)
	if err != nil {
		t.Fatal(err)
	}
	if prot.Executable() {
		t.Errorf("Protect(0x2000) = %v, want non-executable", prot)
	}
}

func TestParseMapsLine(t *testing.T) {
	r, ok := parseMapsLine("7f0000000000-7f0000001000 r-xp 00000000 08:01 12345 /usr/lib/libc.so")
	if !ok {
		t.Fatal("parseMapsLine failed")
	}
	if r.start != 0x7f0000000000 || r.end != 0x7f0000001000 {
		t.Errorf("bounds = %x-%x", r.start, r.end)
	}
	if r.prot != ProtExecuteRead {
		t.Errorf("prot = %v, want ProtExecuteRead", r.prot)
	}

	if _, ok := parseMapsLine("garbage"); ok {
		t.Error("parseMapsLine accepted garbage")
	}
}

func TestParsePerms(t *testing.T) {
	cases := []struct {
		in   string
		want Protection
	}{
		{"r--p", ProtRead},
		{"rw-p", ProtReadWrite},
		{"r-xp", ProtExecuteRead},
		{"rwxp", ProtExecuteReadWrite},
		{"---p", ProtNoAccess},
		{"x", ProtUnknown},
	}
	for _, c := range cases {
		if got := parsePerms(c.in); got != c.want {
			t.Errorf("parsePerms(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
