package vm

import (
	"errors"
	"testing"
)

func TestOperandEval(t *testing.T) {
	mem := NewMemory()
	mem.Set(5, FromInt(3))

	got, err := Lit(FromInt(9)).Eval(mem)
	if err != nil || !got.Equal(FromInt(9)) {
		t.Errorf("literal Eval = %v, %v", got, err)
	}

	got, err = Ref(5).Eval(mem)
	if err != nil || !got.Equal(FromInt(3)) {
		t.Errorf("reference Eval = %v, %v", got, err)
	}
}

func TestOperandEvalEmpty(t *testing.T) {
	mem := NewMemory()
	_, err := Ref(33).Eval(mem)
	var empty *MemoryEmptyError
	if !errors.As(err, &empty) {
		t.Fatalf("err = %v, want MemoryEmptyError", err)
	}
	if empty.Addr != 33 {
		t.Errorf("Addr = %v, want 33", empty.Addr)
	}
}

func TestOperandEvalNegativeAddress(t *testing.T) {
	// A negative reference is just an unwritten cell, not a panic.
	mem := NewMemory()
	_, err := Ref(-1).Eval(mem)
	var empty *MemoryEmptyError
	if !errors.As(err, &empty) {
		t.Fatalf("err = %v, want MemoryEmptyError", err)
	}
	if empty.Addr != -1 {
		t.Errorf("Addr = %v, want -1", empty.Addr)
	}
}

func TestArithmeticSameKind(t *testing.T) {
	mem := NewMemory()
	tests := []struct {
		name string
		op   Operation
		l, r Value
		want Value
	}{
		{"int add", OpAdd, FromInt(2), FromInt(3), FromInt(5)},
		{"int sub", OpSub, FromInt(2), FromInt(3), FromInt(-1)},
		{"int mul", OpMul, FromInt(2), FromInt(3), FromInt(6)},
		{"int div truncates", OpDiv, FromInt(7), FromInt(2), FromInt(3)},
		{"int div negative truncates toward zero", OpDiv, FromInt(-7), FromInt(2), FromInt(-3)},
		{"uint add", OpAdd, FromUint(2), FromUint(3), FromUint(5)},
		{"uint div truncates", OpDiv, FromUint(7), FromUint(2), FromUint(3)},
		{"float add", OpAdd, FromFloat(1.5), FromFloat(2), FromFloat(3.5)},
		{"float div", OpDiv, FromFloat(7), FromFloat(2), FromFloat(3.5)},
	}
	for _, tt := range tests {
		a := Arithmetic{Operation: tt.op, Operand0: Lit(tt.l), Operand1: Lit(tt.r)}
		got, err := a.Calculate(mem)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestArithmeticPromotesIntFloat(t *testing.T) {
	mem := NewMemory()
	tests := []struct {
		l, r Value
		want Value
	}{
		{FromInt(2), FromFloat(1.5), FromFloat(3.5)},
		{FromFloat(1.5), FromInt(2), FromFloat(3.5)},
	}
	for _, tt := range tests {
		a := Arithmetic{Operation: OpAdd, Operand0: Lit(tt.l), Operand1: Lit(tt.r)}
		got, err := a.Calculate(mem)
		if err != nil {
			t.Fatalf("%v + %v: %v", tt.l, tt.r, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("%v + %v = %v, want %v", tt.l, tt.r, got, tt.want)
		}
	}
}

func TestArithmeticRejectsIncompatible(t *testing.T) {
	mem := NewMemory()
	tests := []struct {
		name string
		op   Operation
		l, r Value
	}{
		{"string operand", OpAdd, FromString("a"), FromInt(1)},
		{"bool operand", OpMul, FromBool(true), FromBool(true)},
		{"uint with int", OpAdd, FromUint(1), FromInt(1)},
		{"uint with float", OpAdd, FromUint(1), FromFloat(1)},
		{"int div by zero", OpDiv, FromInt(1), FromInt(0)},
		{"uint div by zero", OpDiv, FromUint(1), FromUint(0)},
		{"float div by zero", OpDiv, FromFloat(1), FromFloat(0)},
		{"promoted div by zero", OpDiv, FromInt(1), FromFloat(0)},
	}
	for _, tt := range tests {
		a := Arithmetic{Operation: tt.op, Operand0: Lit(tt.l), Operand1: Lit(tt.r)}
		_, err := a.Calculate(mem)
		var cannot *CannotApplyOperationError
		if !errors.As(err, &cannot) {
			t.Errorf("%s: err = %v, want CannotApplyOperationError", tt.name, err)
			continue
		}
		if len(cannot.Operands) != 2 {
			t.Errorf("%s: error should carry both operands, got %d", tt.name, len(cannot.Operands))
		}
	}
}

func TestArithmeticPropagatesOperandError(t *testing.T) {
	mem := NewMemory()
	a := Arithmetic{Operation: OpAdd, Operand0: Ref(7), Operand1: Lit(FromInt(1))}
	_, err := a.Calculate(mem)
	var empty *MemoryEmptyError
	if !errors.As(err, &empty) {
		t.Fatalf("err = %v, want MemoryEmptyError", err)
	}
}
