package types

import "github.com/chazu/planvm/vm"

// ExportFile is a produced file artifact: its name and raw contents.
// The contents occupy one self-describing bytes cell, so the type's
// footprint stays two cells regardless of file size.
type ExportFile struct {
	Name     string
	Contents []byte
}

// IntoParts implements vm.CompositeValue.
func (f ExportFile) IntoParts() []vm.Value {
	return []vm.Value{vm.FromString(f.Name), vm.FromBytes(f.Contents)}
}

// FromParts implements vm.CompositeValue.
func (f *ExportFile) FromParts(cells []*vm.Value) (int, error) {
	total := 0
	name, n, err := vm.DecodeString(cells[total:])
	if err != nil {
		return 0, err
	}
	f.Name = name
	total += n
	contents, n, err := vm.DecodeBytes(cells[total:])
	if err != nil {
		return 0, err
	}
	f.Contents = contents
	total += n
	return total, nil
}

// ImportedGeometry references geometry brought into the scene from a
// file, by id.
type ImportedGeometry struct {
	ID uint64
}

// IntoParts implements vm.CompositeValue.
func (g ImportedGeometry) IntoParts() []vm.Value {
	return []vm.Value{vm.FromUint(g.ID)}
}

// FromParts implements vm.CompositeValue.
func (g *ImportedGeometry) FromParts(cells []*vm.Value) (int, error) {
	id, n, err := vm.DecodeUint(cells)
	if err != nil {
		return 0, err
	}
	g.ID = id
	return n, nil
}
