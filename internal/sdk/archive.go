package sdk

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// ArchiveName is the conventional file name of the model archive inside
// an output directory.
const ArchiveName = "model.msgpack"

// archiveSchema is bumped whenever the archive layout changes.
const archiveSchema uint16 = 1

// Edge is one discovered cross-unit dependency: From depends on To.
type Edge struct {
	From string
	To   string
}

// Archive is the serialized result of a reconstruction pass, sufficient
// to re-render artifacts without repeating the reflection walk.
type Archive struct {
	Schema uint16
	Short  string
	Order  []string
	Edges  []Edge
	Units  []*Unit

	// Body-synthesis settings the pass ran with, kept so a later render
	// reproduces the same function bodies.
	BoolType   string
	UseStrings bool
	XorStrings bool
}

// Save writes the archive to path as msgpack.
func (a *Archive) Save(path string) error {
	a.Schema = archiveSchema
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sdk: create archive: %w", err)
	}
	defer f.Close()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("sdk: encode archive: %w", err)
	}
	return nil
}

// LoadArchive reads an archive written by Save, rejecting other schema
// versions.
func LoadArchive(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sdk: open archive: %w", err)
	}
	defer f.Close()

	var a Archive
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("sdk: decode archive %s: %w", path, err)
	}
	if a.Schema != archiveSchema {
		return nil, fmt.Errorf("sdk: archive %s has schema %d, want %d", path, a.Schema, archiveSchema)
	}
	return &a, nil
}
