package absdom

import (
	"fmt"
	"strings"
)

// EventKind classifies an entry of a value history.
type EventKind int

const (
	Allocation EventKind = iota
	Call
	Assignment
	FieldAccess
)

func (k EventKind) String() string {
	switch k {
	case Allocation:
		return "alloc"
	case Call:
		return "call"
	case Assignment:
		return "assign"
	case FieldAccess:
		return "field"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one step in the causal trail of a value.
type Event struct {
	Kind      EventKind
	Desc      string
	Location  Location
	Timestamp int
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s)@%s", e.Kind, e.Desc, e.Location)
}

// History is an append-only trail of events attached to a value.
// It is diagnostic metadata and is never consulted for control decisions.
type History struct {
	events []Event
}

// Append returns a new history with e added at the end. The receiver is
// left untouched so histories can be shared between branches.
func (h History) Append(e Event) History {
	events := make([]Event, len(h.events), len(h.events)+1)
	copy(events, h.events)
	return History{events: append(events, e)}
}

// Events returns a copy of the recorded events, oldest first.
func (h History) Events() []Event {
	out := make([]Event, len(h.events))
	copy(out, h.events)
	return out
}

// Len returns the number of recorded events.
func (h History) Len() int { return len(h.events) }

func (h History) String() string {
	parts := make([]string, len(h.events))
	for i, e := range h.events {
		parts[i] = e.String()
	}
	return strings.Join(parts, " -> ")
}

// ValueHist pairs an address with the history explaining how it came to be.
type ValueHist struct {
	Addr Addr
	Hist History
}

// FreshValue allocates an unconstrained value whose history starts with an
// allocation event described by desc.
func FreshValue(loc Location, desc string) ValueHist {
	return ValueHist{
		Addr: Fresh(),
		Hist: History{}.Append(Event{Kind: Allocation, Desc: desc, Location: loc}),
	}
}
