// Package events is the side channel for memory-read diagnostics.
//
// Reconstructing a value from dynamically-resolved locations touches
// memory in ways the caller cannot predict, so every resolution
// attempt records an Event describing which cells were involved. The
// interpreter core never logs; this package is the only place
// structured diagnostics are emitted.
package events

import (
	"fmt"

	"github.com/tliron/commonlog"
)

// Severity classifies an event.
type Severity int

const (
	// SeverityDebug marks a successful read.
	SeverityDebug Severity = iota
	// SeverityError marks a failed read.
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Event is one record of a memory-read attempt.
type Event struct {
	// Text describes what was being read, e.g. the field name.
	Text string
	// Severity is debug for successful reads, error for failures.
	Severity Severity
	// RelatedAddresses lists the memory cells the read touched.
	RelatedAddresses []int
}

// Writer collects events and optionally forwards them to a logger.
//
// The zero value is usable: events are retained and nothing is
// forwarded.
type Writer struct {
	events []Event
	log    commonlog.Logger
}

// NewWriter creates a Writer forwarding to the given logger.
func NewWriter(log commonlog.Logger) *Writer {
	return &Writer{log: log}
}

// Push records an event, forwarding it to the logger if one is set.
func (w *Writer) Push(e Event) {
	w.events = append(w.events, e)
	if w.log == nil {
		return
	}
	switch e.Severity {
	case SeverityError:
		w.log.Errorf("%s (addresses %v)", e.Text, e.RelatedAddresses)
	default:
		w.log.Debugf("%s (addresses %v)", e.Text, e.RelatedAddresses)
	}
}

// Events returns all events recorded so far, in emission order.
func (w *Writer) Events() []Event {
	return w.events
}

// Clear discards all recorded events.
func (w *Writer) Clear() {
	w.events = w.events[:0]
}
