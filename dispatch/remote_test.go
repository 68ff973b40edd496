package dispatch

import (
	"testing"

	"github.com/jhump/protoreflect/desc/builder"

	"github.com/chazu/planvm/vm"
)

func extrudeRequestDescriptor(t *testing.T) *builder.MessageBuilder {
	t.Helper()
	return builder.NewMessage("ExtrudeRequest").
		AddField(builder.NewField("distance", builder.FieldTypeDouble())).
		AddField(builder.NewField("segments", builder.FieldTypeUInt64())).
		AddField(builder.NewField("cap", builder.FieldTypeBool())).
		AddField(builder.NewField("label", builder.FieldTypeString()))
}

func TestValuesToMessagePositional(t *testing.T) {
	msgDesc, err := extrudeRequestDescriptor(t).Build()
	if err != nil {
		t.Fatalf("building descriptor: %v", err)
	}

	args := []vm.Value{
		vm.FromFloat(2.5),
		vm.FromUint(16),
		vm.FromBool(true),
		vm.FromString("lid"),
	}
	msg, err := valuesToMessage(args, msgDesc)
	if err != nil {
		t.Fatalf("valuesToMessage: %v", err)
	}

	if got := msg.GetFieldByName("distance"); got != 2.5 {
		t.Errorf("distance = %v", got)
	}
	if got := msg.GetFieldByName("segments"); got != uint64(16) {
		t.Errorf("segments = %v", got)
	}
	if got := msg.GetFieldByName("cap"); got != true {
		t.Errorf("cap = %v", got)
	}
	if got := msg.GetFieldByName("label"); got != "lid" {
		t.Errorf("label = %v", got)
	}

	// And back out again.
	vals, err := messageToValues(msg)
	if err != nil {
		t.Fatalf("messageToValues: %v", err)
	}
	if len(vals) != 4 {
		t.Fatalf("got %d values", len(vals))
	}
	for i, want := range args {
		if !vals[i].Equal(want) {
			t.Errorf("value %d = %v, want %v", i, vals[i], want)
		}
	}
}

func TestValuesToMessageKindMismatch(t *testing.T) {
	msgDesc, err := extrudeRequestDescriptor(t).Build()
	if err != nil {
		t.Fatalf("building descriptor: %v", err)
	}
	// Field 0 is a double; an unsigned integer must not coerce.
	_, err = valuesToMessage([]vm.Value{vm.FromUint(2)}, msgDesc)
	if err == nil {
		t.Error("unsigned integer should not convert to a double field")
	}
}

func TestValuesToMessageTooManyArgs(t *testing.T) {
	msgDesc, err := builder.NewMessage("Empty").Build()
	if err != nil {
		t.Fatalf("building descriptor: %v", err)
	}
	_, err = valuesToMessage([]vm.Value{vm.FromInt(1)}, msgDesc)
	if err == nil {
		t.Error("more arguments than fields should fail")
	}
}
