package vm

// InstructionKind discriminates an Instruction.
type InstructionKind uint8

const (
	// InstApiRequest invokes an external endpoint.
	InstApiRequest InstructionKind = iota
	// InstSet writes a value into memory.
	InstSet
	// InstArithmetic computes and stores an arithmetic result.
	InstArithmetic
)

// String returns the instruction kind name.
func (k InstructionKind) String() string {
	switch k {
	case InstApiRequest:
		return "ApiRequest"
	case InstSet:
		return "Set"
	case InstArithmetic:
		return "Arithmetic"
	default:
		return "Unknown"
	}
}

// Instruction is one step of a plan. It is immutable once parsed and
// consumed in emission order in a single pass.
//
// Exactly one of the payloads below is meaningful, selected by Kind.
type Instruction struct {
	Kind InstructionKind

	// ApiRequest: the endpoint identifier is a composite value
	// starting at Endpoint; each argument address is resolved to
	// supply call inputs; the result, if any, is written starting at
	// StoreResponse (nil discards it).
	Endpoint      Address
	StoreResponse *Address
	Arguments     []Address

	// Set: write Value at SetAddress.
	SetAddress Address
	Value      Value

	// Arithmetic: compute Arithmetic, write the result at Destination.
	Arithmetic  Arithmetic
	Destination Address
}

// SetInst creates a Set instruction.
func SetInst(addr Address, v Value) Instruction {
	return Instruction{Kind: InstSet, SetAddress: addr, Value: v}
}

// ArithmeticInst creates an Arithmetic instruction.
func ArithmeticInst(a Arithmetic, dest Address) Instruction {
	return Instruction{Kind: InstArithmetic, Arithmetic: a, Destination: dest}
}

// ApiRequestInst creates an ApiRequest instruction.
func ApiRequestInst(endpoint Address, storeResponse *Address, args []Address) Instruction {
	return Instruction{Kind: InstApiRequest, Endpoint: endpoint, StoreResponse: storeResponse, Arguments: args}
}
