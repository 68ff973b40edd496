package vm

// Operation is the closed set of arithmetic operations.
type Operation uint8

const (
	// OpAdd is addition.
	OpAdd Operation = iota
	// OpMul is multiplication.
	OpMul
	// OpSub is subtraction.
	OpSub
	// OpDiv is division.
	OpDiv
)

// String returns the operation's symbol.
func (op Operation) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpMul:
		return "*"
	case OpSub:
		return "-"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// OperandKind discriminates an Operand.
type OperandKind uint8

const (
	// OperandLiteral is an inline value.
	OperandLiteral OperandKind = iota
	// OperandReference is an address holding the value.
	OperandReference
)

// Operand is an argument to an operation: either a literal value or
// a reference to an address. It is resolved to a Value at evaluation
// time and never stored itself.
type Operand struct {
	Kind    OperandKind
	Literal Value   // valid when Kind == OperandLiteral
	Addr    Address // valid when Kind == OperandReference
}

// Lit creates a literal operand.
func Lit(v Value) Operand {
	return Operand{Kind: OperandLiteral, Literal: v}
}

// Ref creates a reference operand.
func Ref(addr Address) Operand {
	return Operand{Kind: OperandReference, Addr: addr}
}

// Eval resolves the operand. A literal evaluates to itself; a
// reference reads its address, failing with *MemoryEmptyError when
// the cell holds no value.
func (o Operand) Eval(mem *Memory) (Value, error) {
	switch o.Kind {
	case OperandLiteral:
		return o.Literal, nil
	default:
		v := mem.Get(o.Addr)
		if v == nil {
			return Value{}, &MemoryEmptyError{Addr: o.Addr}
		}
		return *v, nil
	}
}

// Arithmetic is a binary operation over two operands.
type Arithmetic struct {
	Operation Operation
	Operand0  Operand
	Operand1  Operand
}

// Calculate evaluates both operands and applies the operation.
//
// Numeric policy: only numeric kinds participate. Same-kind
// arithmetic stays in kind; a mixed integer/float pairing promotes
// to float. Unsigned integers never combine with another kind.
// Integer and unsigned division truncate toward zero. Dividing by a
// zero-valued operand of any numeric kind fails. Every rejected
// pairing yields *CannotApplyOperationError carrying the operand
// values.
func (a Arithmetic) Calculate(mem *Memory) (Value, error) {
	l, err := a.Operand0.Eval(mem)
	if err != nil {
		return Value{}, err
	}
	r, err := a.Operand1.Eval(mem)
	if err != nil {
		return Value{}, err
	}

	fail := func() (Value, error) {
		return Value{}, &CannotApplyOperationError{Op: a.Operation, Operands: []Value{l, r}}
	}

	switch {
	case l.Kind() == KindInteger && r.Kind() == KindInteger:
		if a.Operation == OpDiv && r.Int() == 0 {
			return fail()
		}
		return FromInt(applyInt(a.Operation, l.Int(), r.Int())), nil

	case l.Kind() == KindUnsignedInteger && r.Kind() == KindUnsignedInteger:
		if a.Operation == OpDiv && r.Uint() == 0 {
			return fail()
		}
		return FromUint(applyUint(a.Operation, l.Uint(), r.Uint())), nil

	case l.Kind() == KindFloat && r.Kind() == KindFloat:
		if a.Operation == OpDiv && r.Float() == 0 {
			return fail()
		}
		return FromFloat(applyFloat(a.Operation, l.Float(), r.Float())), nil

	// Mixed integer/float promotes to float.
	case l.Kind() == KindInteger && r.Kind() == KindFloat:
		if a.Operation == OpDiv && r.Float() == 0 {
			return fail()
		}
		return FromFloat(applyFloat(a.Operation, float64(l.Int()), r.Float())), nil

	case l.Kind() == KindFloat && r.Kind() == KindInteger:
		if a.Operation == OpDiv && r.Int() == 0 {
			return fail()
		}
		return FromFloat(applyFloat(a.Operation, l.Float(), float64(r.Int()))), nil

	default:
		return fail()
	}
}

func applyInt(op Operation, l, r int64) int64 {
	switch op {
	case OpAdd:
		return l + r
	case OpMul:
		return l * r
	case OpSub:
		return l - r
	default:
		return l / r
	}
}

func applyUint(op Operation, l, r uint64) uint64 {
	switch op {
	case OpAdd:
		return l + r
	case OpMul:
		return l * r
	case OpSub:
		return l - r
	default:
		return l / r
	}
}

func applyFloat(op Operation, l, r float64) float64 {
	switch op {
	case OpAdd:
		return l + r
	case OpMul:
		return l * r
	case OpSub:
		return l - r
	default:
		return l / r
	}
}
