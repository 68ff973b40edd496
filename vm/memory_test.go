package vm

import "testing"

func TestMemoryStartsEmpty(t *testing.T) {
	mem := NewMemory()
	if mem.Len() != DefaultMemorySize {
		t.Fatalf("Len() = %d, want %d", mem.Len(), DefaultMemorySize)
	}
	for addr := 0; addr < mem.Len(); addr += 100 {
		if mem.Get(Address(addr)) != nil {
			t.Errorf("fresh memory should be empty at %d", addr)
		}
	}
}

func TestMemorySetGet(t *testing.T) {
	mem := NewMemory()
	mem.Set(5, FromInt(3))
	got := mem.Get(5)
	if got == nil || !got.Equal(FromInt(3)) {
		t.Fatalf("Get(5) = %v, want integer(3)", got)
	}

	// Overwrite supersedes the previous value.
	mem.Set(5, FromString("later"))
	got = mem.Get(5)
	if got == nil || !got.Equal(FromString("later")) {
		t.Fatalf("Get(5) after overwrite = %v", got)
	}
}

func TestMemoryEmptyIsNotZero(t *testing.T) {
	mem := NewMemory()
	mem.Set(0, FromInt(0))
	if mem.Get(0) == nil {
		t.Error("a written zero must be distinct from an empty cell")
	}
	if mem.Get(1) != nil {
		t.Error("cell 1 was never written")
	}
}

func TestMemoryGrowthDoubles(t *testing.T) {
	tests := []struct {
		initial int
		addr    Address
		wantLen int
	}{
		{4, 3, 4},   // in range, no growth
		{4, 4, 8},   // boundary: addr == len must grow
		{4, 7, 8},   // one doubling
		{4, 8, 16},  // two doublings
		{4, 100, 128},
		{1024, 1024, 2048},
	}
	for _, tt := range tests {
		mem := NewMemorySize(tt.initial)
		mem.Set(0, FromInt(7))
		mem.Set(tt.addr, FromInt(1))
		if mem.Len() != tt.wantLen {
			t.Errorf("Set(%d) on size %d: Len() = %d, want %d", tt.addr, tt.initial, mem.Len(), tt.wantLen)
		}
		if got := mem.Get(tt.addr); got == nil || !got.Equal(FromInt(1)) {
			t.Errorf("Set(%d): value not written after growth", tt.addr)
		}
		// Previously written cells retain their values.
		if got := mem.Get(0); got == nil || !got.Equal(FromInt(7)) {
			t.Errorf("Set(%d): cell 0 lost its value after growth", tt.addr)
		}
	}
}

func TestMemoryGetNegativeAddress(t *testing.T) {
	mem := NewMemorySize(4)
	if mem.Get(-1) != nil {
		t.Error("Get(-1) should report empty, not panic or alias a cell")
	}
}

func TestMemorySetCompositeTakesValues(t *testing.T) {
	// The encode side needs only IntoParts, so a plain (non-pointer)
	// composite must be accepted.
	mem := NewMemory()
	mem.SetComposite(Endpoint{Name: "extrude"}, 7)

	var out Endpoint
	n, err := mem.GetComposite(7, &out)
	if err != nil {
		t.Fatalf("GetComposite: %v", err)
	}
	if n != 1 || out.Name != "extrude" {
		t.Errorf("round trip = %+v (%d cells)", out, n)
	}
}

func TestMemoryGetNeverGrows(t *testing.T) {
	mem := NewMemorySize(4)
	if mem.Get(1000) != nil {
		t.Error("Get past the end should report empty")
	}
	if mem.Len() != 4 {
		t.Errorf("Get must not grow memory, Len() = %d", mem.Len())
	}
}

func TestMemoryStack(t *testing.T) {
	mem := NewMemory()
	if _, err := mem.StackPop(); err == nil {
		t.Error("pop of empty stack should fail")
	}
	if _, err := mem.StackPeek(); err == nil {
		t.Error("peek of empty stack should fail")
	}

	mem.StackPush([]Value{FromInt(1)})
	mem.StackPush([]Value{FromInt(2), FromInt(3)})

	top, err := mem.StackPeek()
	if err != nil || len(top) != 2 {
		t.Fatalf("StackPeek() = %v, %v", top, err)
	}
	popped, err := mem.StackPop()
	if err != nil || len(popped) != 2 || !popped[0].Equal(FromInt(2)) {
		t.Fatalf("StackPop() = %v, %v", popped, err)
	}
	popped, err = mem.StackPop()
	if err != nil || len(popped) != 1 || !popped[0].Equal(FromInt(1)) {
		t.Fatalf("second StackPop() = %v, %v", popped, err)
	}
}
