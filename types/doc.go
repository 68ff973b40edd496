// Package types defines the structured payload values that travel
// through program memory: geometry, camera parameters, and file
// artifacts. Each type implements the composite encoding protocol,
// flattening to cell values in declared field order; none of them
// carry behavior beyond that.
//
// The FromParts bodies follow the shape planvm-gen emits, threading
// the remaining cells forward one field at a time.
package types
