package vm

import (
	"fmt"

	"github.com/chazu/planvm/events"
)

// SourceKind discriminates where a dynamically-resolved field reads
// its cells from.
type SourceKind uint8

const (
	// SourceAddress reads from a direct memory address.
	SourceAddress SourceKind = iota
	// SourceStackPop pops the top group of the memory stack.
	SourceStackPop
	// SourceStackPeek reads the top group without popping it.
	SourceStackPeek
)

// String returns the source kind name.
func (k SourceKind) String() string {
	switch k {
	case SourceAddress:
		return "address"
	case SourceStackPop:
		return "stack pop"
	case SourceStackPeek:
		return "stack peek"
	default:
		return "unknown"
	}
}

// InMemory names one field's location: a direct address or one of
// the stack accesses.
type InMemory struct {
	Kind SourceKind
	Addr Address // valid when Kind == SourceAddress
}

// InAddress creates a direct-address field source.
func InAddress(addr Address) InMemory {
	return InMemory{Kind: SourceAddress, Addr: addr}
}

// InStackPop creates a stack-pop field source.
func InStackPop() InMemory {
	return InMemory{Kind: SourceStackPop}
}

// InStackPeek creates a stack-peek field source.
func InStackPeek() InMemory {
	return InMemory{Kind: SourceStackPeek}
}

// ReadMemory is the capability the dynamic read protocol consumes.
// *Memory satisfies it.
type ReadMemory interface {
	GetComposite(start Address, dst CompositeValue) (int, error)
	StackPop() ([]Value, error)
	StackPeek() ([]Value, error)
}

// FromMemory is implemented by types that are materialized from
// runtime-resolved field sources rather than a statically known
// starting address. Fields are consulted in declared order through
// the iterator; an error from any field aborts reconstruction of
// the whole value.
type FromMemory interface {
	FromMemory(fields *FieldSources, mem ReadMemory, ew *events.Writer) error
}

// FieldSources iterates the per-field locations of one FromMemory
// reconstruction.
type FieldSources struct {
	sources []InMemory
	next    int
}

// NewFieldSources creates an iterator over the given sources.
func NewFieldSources(sources []InMemory) *FieldSources {
	return &FieldSources{sources: sources}
}

// Next returns the next field source, or false when exhausted.
func (fs *FieldSources) Next() (InMemory, bool) {
	if fs.next >= len(fs.sources) {
		return InMemory{}, false
	}
	s := fs.sources[fs.next]
	fs.next++
	return s, true
}

// ReadField resolves the next field source and decodes one composite
// field from it into dst. Every resolution attempt emits an event to
// ew before the read continues: debug with the touched cell
// addresses on success, error on failure. The name is the field
// being read, used in event text.
func ReadField(name string, fields *FieldSources, mem ReadMemory, ew *events.Writer, dst CompositeValue) error {
	source, ok := fields.Next()
	if !ok {
		err := &MemoryWrongSizeError{Expected: 1}
		ew.Push(events.Event{
			Text:     fmt.Sprintf("no source left for '%s'", name),
			Severity: events.SeverityError,
		})
		return err
	}

	switch source.Kind {
	case SourceAddress:
		count, err := mem.GetComposite(source.Addr, dst)
		if err != nil {
			ew.Push(events.Event{
				Text:             fmt.Sprintf("failed to read '%s': %s", name, err),
				Severity:         events.SeverityError,
				RelatedAddresses: []int{int(source.Addr)},
			})
			return err
		}
		addrs := make([]int, count)
		for i := range addrs {
			addrs[i] = int(source.Addr) + i
		}
		ew.Push(events.Event{
			Text:             fmt.Sprintf("read '%s'", name),
			Severity:         events.SeverityDebug,
			RelatedAddresses: addrs,
		})
		return nil

	default:
		var (
			vals []Value
			err  error
		)
		if source.Kind == SourceStackPop {
			vals, err = mem.StackPop()
		} else {
			vals, err = mem.StackPeek()
		}
		if err == nil {
			cells := make([]*Value, len(vals))
			for i := range vals {
				cells[i] = &vals[i]
			}
			_, err = dst.FromParts(cells)
		}
		if err != nil {
			ew.Push(events.Event{
				Text:     fmt.Sprintf("failed to read '%s' from %s: %s", name, source.Kind, err),
				Severity: events.SeverityError,
			})
			return err
		}
		ew.Push(events.Event{
			Text:     fmt.Sprintf("read '%s' from %s", name, source.Kind),
			Severity: events.SeverityDebug,
		})
		return nil
	}
}
