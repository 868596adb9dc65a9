package absdom

import (
	"fmt"
	"math/big"
	"sort"
)

type fieldKey struct {
	rec   Addr
	field string
}

type addrPair struct {
	x, y Addr
}

// State is a snapshot of the symbolic heap and its constraints.
//
// A State is never modified in place: every operation returns a new State
// and leaves the receiver valid, so a snapshot can be handed to several
// branches (or goroutines) at once.
type State struct {
	// heap: record field -> cell, cell -> value.
	fields map[fieldKey]Addr
	cells  map[Addr]ValueHist
	locals map[Ident]ValueHist

	// constraints, keyed by equivalence class representative unless noted.
	parent   map[Addr]Addr
	types    map[Addr]RuntimeType
	notTypes map[Addr][]RuntimeType
	ints     map[Addr]*big.Int
	strs     map[Addr]string
	diseqs   []addrPair
	clauses  []clause      // disjunctions neither side of which is decided yet
	terms    map[Addr]Term // keyed by the defined address itself
}

// New returns the empty state.
func New() *State {
	return &State{
		fields:   map[fieldKey]Addr{},
		cells:    map[Addr]ValueHist{},
		locals:   map[Ident]ValueHist{},
		parent:   map[Addr]Addr{},
		types:    map[Addr]RuntimeType{},
		notTypes: map[Addr][]RuntimeType{},
		ints:     map[Addr]*big.Int{},
		strs:     map[Addr]string{},
		terms:    map[Addr]Term{},
	}
}

func (s *State) clone() *State {
	c := *s
	return &c
}

func cloned[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// WriteField stores v in a freshly allocated cell and points rec.field at
// that cell.
func (s *State) WriteField(rec Addr, field string, v ValueHist) *State {
	cell := Fresh()
	out := s.clone()
	out.fields = cloned(s.fields)
	out.fields[fieldKey{rec: rec, field: field}] = cell
	out.cells = cloned(s.cells)
	out.cells[cell] = v
	return out
}

func (s *State) lookupField(rec Addr, field string) (Addr, bool) {
	if cell, ok := s.fields[fieldKey{rec: rec, field: field}]; ok {
		return cell, true
	}
	if r := s.find(rec); r != rec {
		cell, ok := s.fields[fieldKey{rec: r, field: field}]
		return cell, ok
	}
	return 0, false
}

func (s *State) checkRecordType(rec Addr, typ RuntimeType, field string) {
	if got := s.Type(rec); got != typ {
		panic(fmt.Sprintf("absdom: reading field %q of %s as %s, but its type is %s", field, rec, typ, got))
	}
}

// LoadField reads rec.field through its cell. The record must already be
// known to have type typ; anything else is a bug in the caller and panics.
// A field that was never written is materialized as a fresh value.
func (s *State) LoadField(rec Addr, typ RuntimeType, field string) (*State, ValueHist) {
	s.checkRecordType(rec, typ, field)
	if cell, ok := s.lookupField(rec, field); ok {
		return s, s.cells[cell]
	}
	v := ValueHist{
		Addr: Fresh(),
		Hist: History{}.Append(Event{Kind: FieldAccess, Desc: field}),
	}
	return s.WriteField(rec, field, v), v
}

// PeekField is like LoadField but never materializes a missing field.
func (s *State) PeekField(rec Addr, typ RuntimeType, field string) (ValueHist, bool) {
	s.checkRecordType(rec, typ, field)
	cell, ok := s.lookupField(rec, field)
	if !ok {
		return ValueHist{}, false
	}
	return s.cells[cell], true
}

// FieldCell returns the cell address that rec.field points to.
func (s *State) FieldCell(rec Addr, field string) (Addr, bool) {
	return s.lookupField(rec, field)
}

// WriteID binds id to v.
func (s *State) WriteID(id Ident, v ValueHist) *State {
	out := s.clone()
	out.locals = cloned(s.locals)
	out.locals[id] = v
	return out
}

// ReadID returns the value bound to id.
func (s *State) ReadID(id Ident) (ValueHist, bool) {
	v, ok := s.locals[id]
	return v, ok
}

// IDs returns the bound identifiers in sorted order.
func (s *State) IDs() []Ident {
	ids := make([]Ident, 0, len(s.locals))
	for id := range s.locals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Type returns the runtime type attached to a, or Any.
func (s *State) Type(a Addr) RuntimeType {
	if t, ok := s.types[s.find(a)]; ok {
		return t
	}
	return Any
}

// AddType attaches t to a freshly constructed address. Reassigning a
// different known type is a bug in the caller and panics; use AssumeType
// to refine a type while pruning.
func (s *State) AddType(a Addr, t RuntimeType) *State {
	if t.IsAny() {
		return s
	}
	r := s.find(a)
	if old, ok := s.types[r]; ok {
		if old != t {
			panic(fmt.Sprintf("absdom: %s already has type %s, cannot reassign %s", a, old, t))
		}
		return s
	}
	out := s.clone()
	out.types = cloned(s.types)
	out.types[r] = t
	return out
}

// AssumeType prunes the state with "type of a is t" (positive) or its
// negation. It reports false when the assumption is infeasible.
func (s *State) AssumeType(a Addr, t RuntimeType, positive bool) (*State, bool) {
	if positive {
		return s.settled(s.refineType(a, t))
	}
	return s.settled(s.excludeType(a, t))
}

func (s *State) refineType(a Addr, t RuntimeType) (*State, bool) {
	switch s.hasType(a, t) {
	case True:
		return s, true
	case False:
		return s, false
	}
	return s.AddType(a, t), true
}

func (s *State) excludeType(a Addr, t RuntimeType) (*State, bool) {
	switch s.hasType(a, t) {
	case True:
		return s, false
	case False:
		return s, true
	}
	r := s.find(a)
	out := s.clone()
	out.notTypes = cloned(s.notTypes)
	excluded := make([]RuntimeType, 0, len(s.notTypes[r])+1)
	excluded = append(excluded, s.notTypes[r]...)
	out.notTypes[r] = append(excluded, t)
	return out, true
}

func (s *State) hasType(a Addr, t RuntimeType) Tri {
	if got := s.Type(a); !got.IsAny() {
		return triOf(got == t)
	}
	for _, nt := range s.notTypes[s.find(a)] {
		if nt == t {
			return False
		}
	}
	return Unknown
}

// HasType allocates a boolean whose truth is "type of a is t".
func (s *State) HasType(a Addr, t RuntimeType) (*State, Addr) {
	r := Fresh()
	return s.Define(r, HasType{X: a, Type: t}), r
}
