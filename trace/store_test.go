package trace

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/planvm/vm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreBestEffortAfterClose(t *testing.T) {
	// A broken trace database must not halt the run being traced:
	// Step and Done degrade to logged failures.
	s, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	s.Close()

	s.Step(0, vm.SetInst(5, vm.FromInt(3)))
	s.Done(nil)
}

func TestStoreRecordsCompletedRun(t *testing.T) {
	s := openTestStore(t)
	id, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	mem := vm.NewMemory()
	in := &vm.Interpreter{Tracer: s}
	planSteps := []vm.Instruction{
		vm.SetInst(5, vm.FromInt(3)),
		vm.ArithmeticInst(vm.Arithmetic{
			Operation: vm.OpAdd,
			Operand0:  vm.Ref(5),
			Operand1:  vm.Lit(vm.FromInt(4)),
		}, 6),
	}
	if err := in.Execute(context.Background(), mem, planSteps); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	run, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if run.Err != "" {
		t.Errorf("completed run recorded error %q", run.Err)
	}
	if run.FinishedAt.IsZero() {
		t.Error("completed run should have a finish time")
	}
	if len(run.Steps) != 2 {
		t.Fatalf("recorded %d steps, want 2", len(run.Steps))
	}
	if run.Steps[0].Kind != "Set" || run.Steps[1].Kind != "Arithmetic" {
		t.Errorf("step kinds = %s, %s", run.Steps[0].Kind, run.Steps[1].Kind)
	}
	if !strings.Contains(run.Steps[0].Detail, `"address":5`) {
		t.Errorf("step detail should use wire field names, got %s", run.Steps[0].Detail)
	}
}

func TestStoreRecordsFailedRun(t *testing.T) {
	s := openTestStore(t)
	id, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	mem := vm.NewMemory()
	in := &vm.Interpreter{Tracer: s}
	planSteps := []vm.Instruction{
		vm.SetInst(0, vm.FromInt(1)),
		vm.ArithmeticInst(vm.Arithmetic{
			Operation: vm.OpDiv,
			Operand0:  vm.Ref(0),
			Operand1:  vm.Lit(vm.FromInt(0)),
		}, 1),
	}
	if err := in.Execute(context.Background(), mem, planSteps); err == nil {
		t.Fatal("expected a division error")
	}

	run, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if run.Err == "" {
		t.Error("failed run should record its error")
	}
	// Only the instruction before the failure was recorded.
	if len(run.Steps) != 1 {
		t.Errorf("recorded %d steps, want 1", len(run.Steps))
	}
}

func TestStoreLoadUnknownRun(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Load("no-such-run"); err == nil {
		t.Error("loading an unknown run should fail")
	}
}

func TestStoreSeparateRuns(t *testing.T) {
	s := openTestStore(t)
	mem := vm.NewMemory()
	in := &vm.Interpreter{Tracer: s}

	first, _ := s.Begin()
	in.Execute(context.Background(), mem, []vm.Instruction{vm.SetInst(0, vm.FromInt(1))})
	second, _ := s.Begin()
	in.Execute(context.Background(), mem, []vm.Instruction{
		vm.SetInst(1, vm.FromInt(2)),
		vm.SetInst(2, vm.FromInt(3)),
	})

	if first == second {
		t.Fatal("runs should get distinct ids")
	}
	a, err := s.Load(first)
	if err != nil {
		t.Fatalf("Load(first): %v", err)
	}
	b, err := s.Load(second)
	if err != nil {
		t.Fatalf("Load(second): %v", err)
	}
	if len(a.Steps) != 1 || len(b.Steps) != 2 {
		t.Errorf("steps = %d and %d, want 1 and 2", len(a.Steps), len(b.Steps))
	}
}
