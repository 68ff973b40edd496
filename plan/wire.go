// Package plan serializes execution plans for interchange with other
// processes that produce or consume them.
//
// The wire layout follows the upstream plan format: enums are
// externally tagged ({"Set": {...}}, {"Literal": {...}}, "Add"),
// numerics are wrapped in {"NumericValue": {"Integer": n}}, and the
// field names below are part of the contract. The same envelope
// structures serve both JSON and canonical CBOR.
package plan

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/chazu/planvm/vm"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("plan: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Plan is an ordered, finite sequence of instructions, consumed
// exactly once by the interpreter.
type Plan struct {
	Instructions []vm.Instruction
}

// MarshalJSON serializes the plan as a JSON array of instructions.
func (p Plan) MarshalJSON() ([]byte, error) {
	env, err := encodePlan(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// UnmarshalJSON deserializes a JSON array of instructions.
func (p *Plan) UnmarshalJSON(data []byte) error {
	var env []instructionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("plan: unmarshal: %w", err)
	}
	return decodePlan(env, p)
}

// MarshalCBOR serializes the plan as canonical CBOR.
func MarshalCBOR(p Plan) ([]byte, error) {
	env, err := encodePlan(p)
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(env)
}

// UnmarshalCBOR deserializes a plan from CBOR bytes.
func UnmarshalCBOR(data []byte) (Plan, error) {
	var env []instructionEnvelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return Plan{}, fmt.Errorf("plan: unmarshal cbor: %w", err)
	}
	var p Plan
	if err := decodePlan(env, &p); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// ---------------------------------------------------------------------------
// Wire envelopes
// ---------------------------------------------------------------------------

// instructionEnvelope is the externally-tagged form of one
// instruction: exactly one of the three variants is present.
type instructionEnvelope struct {
	ApiRequest *apiRequestBody `json:"ApiRequest,omitempty" cbor:"ApiRequest,omitempty"`
	Set        *setBody        `json:"Set,omitempty" cbor:"Set,omitempty"`
	Arithmetic *arithmeticBody `json:"Arithmetic,omitempty" cbor:"Arithmetic,omitempty"`
}

type apiRequestBody struct {
	Endpoint      int   `json:"endpoint" cbor:"endpoint"`
	StoreResponse *int  `json:"store_response" cbor:"store_response"`
	Arguments     []int `json:"arguments" cbor:"arguments"`
}

type setBody struct {
	Address int               `json:"address" cbor:"address"`
	Value   primitiveEnvelope `json:"value" cbor:"value"`
}

type arithmeticBody struct {
	Arithmetic  arithmeticExpr `json:"arithmetic" cbor:"arithmetic"`
	Destination int            `json:"destination" cbor:"destination"`
}

type arithmeticExpr struct {
	Operation string          `json:"operation" cbor:"operation"`
	Operand0  operandEnvelope `json:"operand0" cbor:"operand0"`
	Operand1  operandEnvelope `json:"operand1" cbor:"operand1"`
}

type operandEnvelope struct {
	Literal   *primitiveEnvelope `json:"Literal,omitempty" cbor:"Literal,omitempty"`
	Reference *int               `json:"Reference,omitempty" cbor:"Reference,omitempty"`
}

type primitiveEnvelope struct {
	Bool         *bool            `json:"Bool,omitempty" cbor:"Bool,omitempty"`
	NumericValue *numericEnvelope `json:"NumericValue,omitempty" cbor:"NumericValue,omitempty"`
	String       *string          `json:"String,omitempty" cbor:"String,omitempty"`
	// Bytes is a pointer so an empty payload still marks the variant
	// as present.
	Bytes *[]byte `json:"Bytes,omitempty" cbor:"Bytes,omitempty"`
	Uuid  *string `json:"Uuid,omitempty" cbor:"Uuid,omitempty"`
}

type numericEnvelope struct {
	Integer  *int64   `json:"Integer,omitempty" cbor:"Integer,omitempty"`
	UInteger *uint64  `json:"UInteger,omitempty" cbor:"UInteger,omitempty"`
	Float    *float64 `json:"Float,omitempty" cbor:"Float,omitempty"`
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

func encodePlan(p Plan) ([]instructionEnvelope, error) {
	env := make([]instructionEnvelope, len(p.Instructions))
	for i, inst := range p.Instructions {
		e, err := encodeInstruction(inst)
		if err != nil {
			return nil, fmt.Errorf("plan: instruction %d: %w", i, err)
		}
		env[i] = e
	}
	return env, nil
}

func encodeInstruction(inst vm.Instruction) (instructionEnvelope, error) {
	switch inst.Kind {
	case vm.InstSet:
		return instructionEnvelope{Set: &setBody{
			Address: int(inst.SetAddress),
			Value:   encodePrimitive(inst.Value),
		}}, nil
	case vm.InstArithmetic:
		return instructionEnvelope{Arithmetic: &arithmeticBody{
			Arithmetic: arithmeticExpr{
				Operation: operationName(inst.Arithmetic.Operation),
				Operand0:  encodeOperand(inst.Arithmetic.Operand0),
				Operand1:  encodeOperand(inst.Arithmetic.Operand1),
			},
			Destination: int(inst.Destination),
		}}, nil
	case vm.InstApiRequest:
		body := &apiRequestBody{
			Endpoint:  int(inst.Endpoint),
			Arguments: make([]int, len(inst.Arguments)),
		}
		for i, a := range inst.Arguments {
			body.Arguments[i] = int(a)
		}
		if inst.StoreResponse != nil {
			n := int(*inst.StoreResponse)
			body.StoreResponse = &n
		}
		return instructionEnvelope{ApiRequest: body}, nil
	default:
		return instructionEnvelope{}, fmt.Errorf("unknown instruction kind %d", inst.Kind)
	}
}

func encodeOperand(o vm.Operand) operandEnvelope {
	if o.Kind == vm.OperandReference {
		n := int(o.Addr)
		return operandEnvelope{Reference: &n}
	}
	lit := encodePrimitive(o.Literal)
	return operandEnvelope{Literal: &lit}
}

func encodePrimitive(v vm.Value) primitiveEnvelope {
	switch v.Kind() {
	case vm.KindBool:
		b := v.Bool()
		return primitiveEnvelope{Bool: &b}
	case vm.KindInteger:
		n := v.Int()
		return primitiveEnvelope{NumericValue: &numericEnvelope{Integer: &n}}
	case vm.KindUnsignedInteger:
		n := v.Uint()
		return primitiveEnvelope{NumericValue: &numericEnvelope{UInteger: &n}}
	case vm.KindFloat:
		f := v.Float()
		return primitiveEnvelope{NumericValue: &numericEnvelope{Float: &f}}
	case vm.KindString:
		s := v.Str()
		return primitiveEnvelope{String: &s}
	case vm.KindBytes:
		b := v.Bytes()
		if b == nil {
			b = []byte{}
		}
		return primitiveEnvelope{Bytes: &b}
	default:
		s := v.Uuid().String()
		return primitiveEnvelope{Uuid: &s}
	}
}

func operationName(op vm.Operation) string {
	switch op {
	case vm.OpAdd:
		return "Add"
	case vm.OpMul:
		return "Mul"
	case vm.OpSub:
		return "Sub"
	default:
		return "Div"
	}
}

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

func decodePlan(env []instructionEnvelope, p *Plan) error {
	p.Instructions = make([]vm.Instruction, len(env))
	for i, e := range env {
		inst, err := decodeInstruction(e)
		if err != nil {
			return fmt.Errorf("plan: instruction %d: %w", i, err)
		}
		p.Instructions[i] = inst
	}
	return nil
}

// decodeAddress rejects negative addresses; plan documents come from
// untrusted producers and memory is zero-based.
func decodeAddress(n int) (vm.Address, error) {
	if n < 0 {
		return 0, fmt.Errorf("negative address %d", n)
	}
	return vm.Address(n), nil
}

func decodeInstruction(e instructionEnvelope) (vm.Instruction, error) {
	switch {
	case e.Set != nil:
		v, err := decodePrimitive(e.Set.Value)
		if err != nil {
			return vm.Instruction{}, err
		}
		addr, err := decodeAddress(e.Set.Address)
		if err != nil {
			return vm.Instruction{}, err
		}
		return vm.SetInst(addr, v), nil

	case e.Arithmetic != nil:
		op, err := operationFromName(e.Arithmetic.Arithmetic.Operation)
		if err != nil {
			return vm.Instruction{}, err
		}
		o0, err := decodeOperand(e.Arithmetic.Arithmetic.Operand0)
		if err != nil {
			return vm.Instruction{}, err
		}
		o1, err := decodeOperand(e.Arithmetic.Arithmetic.Operand1)
		if err != nil {
			return vm.Instruction{}, err
		}
		dest, err := decodeAddress(e.Arithmetic.Destination)
		if err != nil {
			return vm.Instruction{}, err
		}
		return vm.ArithmeticInst(vm.Arithmetic{
			Operation: op,
			Operand0:  o0,
			Operand1:  o1,
		}, dest), nil

	case e.ApiRequest != nil:
		endpoint, err := decodeAddress(e.ApiRequest.Endpoint)
		if err != nil {
			return vm.Instruction{}, err
		}
		args := make([]vm.Address, len(e.ApiRequest.Arguments))
		for i, a := range e.ApiRequest.Arguments {
			if args[i], err = decodeAddress(a); err != nil {
				return vm.Instruction{}, err
			}
		}
		var store *vm.Address
		if e.ApiRequest.StoreResponse != nil {
			a, err := decodeAddress(*e.ApiRequest.StoreResponse)
			if err != nil {
				return vm.Instruction{}, err
			}
			store = &a
		}
		return vm.ApiRequestInst(endpoint, store, args), nil

	default:
		return vm.Instruction{}, fmt.Errorf("instruction has no recognized variant")
	}
}

func decodeOperand(e operandEnvelope) (vm.Operand, error) {
	switch {
	case e.Reference != nil:
		addr, err := decodeAddress(*e.Reference)
		if err != nil {
			return vm.Operand{}, err
		}
		return vm.Ref(addr), nil
	case e.Literal != nil:
		v, err := decodePrimitive(*e.Literal)
		if err != nil {
			return vm.Operand{}, err
		}
		return vm.Lit(v), nil
	default:
		return vm.Operand{}, fmt.Errorf("operand has no recognized variant")
	}
}

func decodePrimitive(e primitiveEnvelope) (vm.Value, error) {
	switch {
	case e.Bool != nil:
		return vm.FromBool(*e.Bool), nil
	case e.NumericValue != nil:
		n := e.NumericValue
		switch {
		case n.Integer != nil:
			return vm.FromInt(*n.Integer), nil
		case n.UInteger != nil:
			return vm.FromUint(*n.UInteger), nil
		case n.Float != nil:
			return vm.FromFloat(*n.Float), nil
		default:
			return vm.Value{}, fmt.Errorf("numeric value has no recognized variant")
		}
	case e.String != nil:
		return vm.FromString(*e.String), nil
	case e.Bytes != nil:
		return vm.FromBytes(*e.Bytes), nil
	case e.Uuid != nil:
		id, err := uuid.Parse(*e.Uuid)
		if err != nil {
			return vm.Value{}, fmt.Errorf("bad uuid: %w", err)
		}
		return vm.FromUuid(id), nil
	default:
		return vm.Value{}, fmt.Errorf("primitive has no recognized variant")
	}
}

func operationFromName(name string) (vm.Operation, error) {
	switch name {
	case "Add":
		return vm.OpAdd, nil
	case "Mul":
		return vm.OpMul, nil
	case "Sub":
		return vm.OpSub, nil
	case "Div":
		return vm.OpDiv, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", name)
	}
}
