package vm

import "fmt"

// Address identifies one cell in program memory.
type Address int

// String formats the address as its cell index.
func (a Address) String() string {
	return fmt.Sprintf("%d", int(a))
}

// DefaultMemorySize is the initial cell capacity of a Memory.
const DefaultMemorySize = 1024

// Memory is the plan's program memory: a flat, zero-based, growable
// sequence of cells. A nil cell has never been written; that is a
// distinct outcome from holding a zero-valued Value.
//
// Memory also carries the value stack used by the dynamic-location
// read protocol (see source.go). It is exclusively owned by one
// execution context; there is no locking because there is exactly
// one mutator.
type Memory struct {
	cells []*Value
	stack [][]Value
}

// NewMemory creates a Memory with the default capacity, every cell
// empty.
func NewMemory() *Memory {
	return NewMemorySize(DefaultMemorySize)
}

// NewMemorySize creates a Memory with the given initial capacity.
func NewMemorySize(size int) *Memory {
	return &Memory{cells: make([]*Value, size)}
}

// Len returns the current cell capacity.
func (m *Memory) Len() int {
	return len(m.cells)
}

// Get returns the value at addr, or nil if the cell was never set.
// Get never grows memory. An out-of-range address, negative included,
// is simply an address that was never written.
func (m *Memory) Get(addr Address) *Value {
	if addr < 0 || int(addr) >= len(m.cells) {
		return nil
	}
	return m.cells[addr]
}

// Set writes a value at addr, overwriting any previous content. If
// addr is beyond the current capacity, capacity doubles until the
// address is in range.
func (m *Memory) Set(addr Address, v Value) {
	for int(addr) >= len(m.cells) {
		m.cells = append(m.cells, make([]*Value, len(m.cells))...)
	}
	m.cells[addr] = &v
}

// SetComposite encodes a composite value and writes its parts into
// consecutive cells starting at start. The caller must guarantee
// sufficient capacity; overflow is a contract violation and panics.
func (m *Memory) SetComposite(v PartsEncoder, start Address) {
	for i, part := range v.IntoParts() {
		p := part
		m.cells[int(start)+i] = &p
	}
}

// GetComposite decodes a composite value whose parts begin at start,
// reading up to the end of memory. It returns the number of cells
// consumed. Decode failures propagate verbatim.
func (m *Memory) GetComposite(start Address, dst CompositeValue) (int, error) {
	var cells []*Value
	if int(start) < len(m.cells) {
		cells = m.cells[start:]
	}
	return dst.FromParts(cells)
}

// ---------------------------------------------------------------------------
// Stack
// ---------------------------------------------------------------------------

// StackPush pushes a group of values onto the memory's stack.
func (m *Memory) StackPush(vals []Value) {
	m.stack = append(m.stack, vals)
}

// StackPop removes and returns the top group of the stack.
func (m *Memory) StackPop() ([]Value, error) {
	if len(m.stack) == 0 {
		return nil, &MemoryWrongSizeError{Expected: 1}
	}
	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return top, nil
}

// StackPeek returns the top group of the stack without removing it.
func (m *Memory) StackPeek() ([]Value, error) {
	if len(m.stack) == 0 {
		return nil, &MemoryWrongSizeError{Expected: 1}
	}
	return m.stack[len(m.stack)-1], nil
}
