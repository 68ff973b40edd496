// Package vm implements the plan virtual machine.
//
// This package contains:
//   - Tagged primitive values, one per memory cell
//   - Flat, growable program memory with typed composite access
//   - Operand evaluation and arithmetic
//   - The sequential plan interpreter and its error taxonomy
//   - The dynamic-location read protocol for runtime-resolved fields
package vm
