package vm

import (
	"fmt"
	"strings"
)

// The error taxonomy is closed: every failure an executing plan can
// produce is one of the types below. All of them halt the current
// Execute call; none are retried or coerced.

// MemoryEmptyError reports a Reference operand pointing at a cell
// that was never set.
type MemoryEmptyError struct {
	Addr Address
}

func (e *MemoryEmptyError) Error() string {
	return fmt.Sprintf("memory address %d was not set", e.Addr)
}

// CannotApplyOperationError reports arithmetic attempted on operand
// kinds the operation cannot combine. It carries the literal operand
// values for diagnostics.
type CannotApplyOperationError struct {
	Op       Operation
	Operands []Value
}

func (e *CannotApplyOperationError) Error() string {
	parts := make([]string, len(e.Operands))
	for i, v := range e.Operands {
		parts[i] = v.String()
	}
	return fmt.Sprintf("cannot apply operation %s to operands [%s]", e.Op, strings.Join(parts, ", "))
}

// MemoryWrongTypeError reports a decode that found a present cell of
// the wrong kind.
type MemoryWrongTypeError struct {
	Expected string
	Actual   string
}

func (e *MemoryWrongTypeError) Error() string {
	return fmt.Sprintf("tried to read a '%s' from program memory, found an '%s' instead", e.Expected, e.Actual)
}

// MemoryWrongSizeError reports a decode that ran out of input cells
// before completing.
type MemoryWrongSizeError struct {
	Expected int
}

func (e *MemoryWrongSizeError) Error() string {
	return fmt.Sprintf("wanted %d values but did not get enough", e.Expected)
}

// UnrecognizedEndpointError reports an ApiRequest naming an endpoint
// the dispatcher does not recognize.
type UnrecognizedEndpointError struct {
	Name string
}

func (e *UnrecognizedEndpointError) Error() string {
	return fmt.Sprintf("no endpoint %s recognized", e.Name)
}
