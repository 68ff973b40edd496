package vm

import "github.com/google/uuid"

// CompositeValue is the encoding protocol every structured value
// implements: flatten into an ordered sequence of cell values, and
// reconstruct from a prefix of an ordered cell sequence.
//
// IntoParts is total and deterministic: its output length depends
// only on the static shape of the type, except for variable-length
// kinds (strings, bytes) which occupy one self-describing cell.
//
// FromParts consumes a prefix of cells left to right, one logical
// field at a time, filling the receiver. It returns exactly how many
// cells were consumed, so a composite field inside another composite
// can occupy a count known only at decode time. A nil entry is an
// empty cell. Decoding fails with *MemoryWrongSizeError when the
// input is shorter than required and with *MemoryWrongTypeError when
// a present cell has the wrong kind.
//
// Product types concatenate their fields in declared order. A type
// with no fields encodes to nothing and consumes zero cells. Sum
// types are not representable in this protocol.
type CompositeValue interface {
	PartsEncoder
	FromParts(cells []*Value) (int, error)
}

// PartsEncoder is the encode half of the protocol. FromParts needs a
// pointer receiver to fill the value in, so encode-only consumers
// (Memory.SetComposite) take this half and accept plain values.
type PartsEncoder interface {
	IntoParts() []Value
}

// ---------------------------------------------------------------------------
// Cell decode helpers
//
// These are the building blocks generated FromParts bodies thread
// together, one call per field, advancing through the cell slice.
// ---------------------------------------------------------------------------

// NextCell returns the first cell of the sequence, failing with
// *MemoryWrongSizeError when the sequence is exhausted or the cell
// is empty.
func NextCell(cells []*Value) (Value, error) {
	if len(cells) == 0 || cells[0] == nil {
		return Value{}, &MemoryWrongSizeError{Expected: 1}
	}
	return *cells[0], nil
}

func nextCellOfKind(cells []*Value, want Kind) (Value, error) {
	v, err := NextCell(cells)
	if err != nil {
		return Value{}, err
	}
	if v.Kind() != want {
		return Value{}, &MemoryWrongTypeError{Expected: want.String(), Actual: v.Kind().String()}
	}
	return v, nil
}

// DecodeBool decodes one bool field.
func DecodeBool(cells []*Value) (bool, int, error) {
	v, err := nextCellOfKind(cells, KindBool)
	if err != nil {
		return false, 0, err
	}
	return v.Bool(), 1, nil
}

// DecodeInt decodes one signed integer field.
func DecodeInt(cells []*Value) (int64, int, error) {
	v, err := nextCellOfKind(cells, KindInteger)
	if err != nil {
		return 0, 0, err
	}
	return v.Int(), 1, nil
}

// DecodeUint decodes one unsigned integer field.
func DecodeUint(cells []*Value) (uint64, int, error) {
	v, err := nextCellOfKind(cells, KindUnsignedInteger)
	if err != nil {
		return 0, 0, err
	}
	return v.Uint(), 1, nil
}

// DecodeFloat decodes one float field.
func DecodeFloat(cells []*Value) (float64, int, error) {
	v, err := nextCellOfKind(cells, KindFloat)
	if err != nil {
		return 0, 0, err
	}
	return v.Float(), 1, nil
}

// DecodeString decodes one string field.
func DecodeString(cells []*Value) (string, int, error) {
	v, err := nextCellOfKind(cells, KindString)
	if err != nil {
		return "", 0, err
	}
	return v.Str(), 1, nil
}

// DecodeBytes decodes one bytes field.
func DecodeBytes(cells []*Value) ([]byte, int, error) {
	v, err := nextCellOfKind(cells, KindBytes)
	if err != nil {
		return nil, 0, err
	}
	return v.Bytes(), 1, nil
}

// DecodeUuid decodes one uuid field.
func DecodeUuid(cells []*Value) (uuid.UUID, int, error) {
	v, err := nextCellOfKind(cells, KindUuid)
	if err != nil {
		return uuid.UUID{}, 0, err
	}
	return v.Uuid(), 1, nil
}

// DecodeComposite decodes one nested composite field into dst.
func DecodeComposite(cells []*Value, dst CompositeValue) (int, error) {
	return dst.FromParts(cells)
}
