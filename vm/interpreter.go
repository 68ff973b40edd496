package vm

import "context"

// Endpoint identifies the external operation an ApiRequest invokes.
// It is a composite value (one string cell) read from memory at the
// instruction's endpoint address.
type Endpoint struct {
	Name string
}

// IntoParts implements CompositeValue.
func (e Endpoint) IntoParts() []Value {
	return []Value{FromString(e.Name)}
}

// FromParts implements CompositeValue.
func (e *Endpoint) FromParts(cells []*Value) (int, error) {
	name, n, err := DecodeString(cells)
	if err != nil {
		return 0, err
	}
	e.Name = name
	return n, nil
}

// Dispatcher performs the external operation named by an ApiRequest.
//
// Given a decoded endpoint and the resolved argument values, it
// returns the call's result values or a failure. An unknown endpoint
// must be reported as *UnrecognizedEndpointError; any other error
// passes through to the caller of Execute unchanged. The call is
// synchronous from the interpreter's point of view; cancellation is
// the dispatcher's concern via ctx.
type Dispatcher interface {
	Dispatch(ctx context.Context, endpoint Endpoint, args []Value) ([]Value, error)
}

// Tracer observes plan execution. Implementations must not mutate
// memory.
type Tracer interface {
	// Step is called after an instruction at the given index executes
	// successfully.
	Step(index int, inst Instruction)
	// Done is called once when execution ends; err is nil on a
	// completed run and the halting error otherwise.
	Done(err error)
}

// Interpreter executes plans against program memory, one instruction
// at a time, in order, with no branching. The first error halts
// execution immediately; writes already applied are not rolled back.
type Interpreter struct {
	// Dispatcher handles ApiRequest instructions. A plan containing
	// no ApiRequest executes fine without one; reaching an ApiRequest
	// with a nil Dispatcher fails as an unrecognized endpoint.
	Dispatcher Dispatcher

	// Tracer, when set, observes each executed instruction.
	Tracer Tracer
}

// Execute runs the plan to completion or first error. Memory is
// exclusively owned by this call for its duration; it may have been
// pre-seeded by the caller and keeps its state afterwards.
func (in *Interpreter) Execute(ctx context.Context, mem *Memory, plan []Instruction) error {
	err := in.run(ctx, mem, plan)
	if in.Tracer != nil {
		in.Tracer.Done(err)
	}
	return err
}

func (in *Interpreter) run(ctx context.Context, mem *Memory, plan []Instruction) error {
	for idx, inst := range plan {
		var err error
		switch inst.Kind {
		case InstSet:
			mem.Set(inst.SetAddress, inst.Value)
		case InstArithmetic:
			err = in.arithmetic(mem, inst)
		case InstApiRequest:
			err = in.apiRequest(ctx, mem, inst)
		}
		if err != nil {
			return err
		}
		if in.Tracer != nil {
			in.Tracer.Step(idx, inst)
		}
	}
	return nil
}

func (in *Interpreter) arithmetic(mem *Memory, inst Instruction) error {
	out, err := inst.Arithmetic.Calculate(mem)
	if err != nil {
		return err
	}
	mem.Set(inst.Destination, out)
	return nil
}

// apiRequest decodes the endpoint, resolves the argument addresses,
// invokes the dispatcher, and writes the result back. If the call
// fails before a result is produced, memory is left untouched by
// this instruction.
func (in *Interpreter) apiRequest(ctx context.Context, mem *Memory, inst Instruction) error {
	var endpoint Endpoint
	if _, err := mem.GetComposite(inst.Endpoint, &endpoint); err != nil {
		return err
	}

	args := make([]Value, len(inst.Arguments))
	for i, addr := range inst.Arguments {
		v := mem.Get(addr)
		if v == nil {
			return &MemoryEmptyError{Addr: addr}
		}
		args[i] = *v
	}

	if in.Dispatcher == nil {
		return &UnrecognizedEndpointError{Name: endpoint.Name}
	}
	result, err := in.Dispatcher.Dispatch(ctx, endpoint, args)
	if err != nil {
		return err
	}

	if inst.StoreResponse != nil {
		for i, v := range result {
			mem.Set(*inst.StoreResponse+Address(i), v)
		}
	}
	return nil
}

// Execute runs a plan with the given dispatcher and no tracer.
func Execute(ctx context.Context, mem *Memory, plan []Instruction, d Dispatcher) error {
	in := &Interpreter{Dispatcher: d}
	return in.Execute(ctx, mem, plan)
}
