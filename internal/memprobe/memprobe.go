// Package memprobe isolates raw process-memory access behind probes
// that report failure explicitly instead of faulting.
package memprobe

import (
	"encoding/binary"
	"errors"
)

var (
	ErrUnmapped  = errors.New("memprobe: address not mapped")
	ErrShortRead = errors.New("memprobe: short read")
)

// Protection classifies the page protection of a mapped address.
type Protection int

const (
	ProtUnknown Protection = iota
	ProtNoAccess
	ProtRead
	ProtReadWrite
	ProtExecuteRead
	ProtExecuteReadWrite
)

func (p Protection) String() string {
	switch p {
	case ProtNoAccess:
		return "---"
	case ProtRead:
		return "r--"
	case ProtReadWrite:
		return "rw-"
	case ProtExecuteRead:
		return "r-x"
	case ProtExecuteReadWrite:
		return "rwx"
	default:
		return "unknown"
	}
}

// Executable reports whether the protection permits execution.
func (p Protection) Executable() bool {
	return p == ProtExecuteRead || p == ProtExecuteReadWrite
}

// Probe reads the memory of an inspected process. A failed probe must
// degrade gracefully at the caller; it never terminates the run.
// ReadAt follows io.ReaderAt semantics: it may return n > 0 together
// with an error when the read stops short.
type Probe interface {
	ReadAt(addr uint64, buf []byte) (int, error)
	Pointer(addr uint64) (uint64, error)
	Protect(addr uint64) (Protection, error)
}

// readPointer reads a little-endian 64-bit pointer through p.
func readPointer(p Probe, addr uint64) (uint64, error) {
	var buf [8]byte
	n, err := p.ReadAt(addr, buf[:])
	if n < len(buf) {
		if err == nil {
			err = ErrShortRead
		}
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
