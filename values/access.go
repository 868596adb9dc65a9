package values

import "github.com/podhmo/symerl/absdom"

// AtomHashOf loads the hash field of an atom.
func AtomHashOf(st *absdom.State, atom absdom.Addr) (*absdom.State, absdom.ValueHist) {
	return st.LoadField(atom, absdom.Atom, FieldAtomHash)
}

// AtomNameOf loads the name field of an atom.
func AtomNameOf(st *absdom.State, atom absdom.Addr) (*absdom.State, absdom.ValueHist) {
	return st.LoadField(atom, absdom.Atom, FieldAtomName)
}

// IntValueOf loads the arithmetic value of an integer.
func IntValueOf(st *absdom.State, n absdom.Addr) (*absdom.State, absdom.ValueHist) {
	return st.LoadField(n, absdom.Integer, FieldIntValue)
}

// HeadOf loads the head of a cons cell.
func HeadOf(st *absdom.State, cons absdom.Addr) (*absdom.State, absdom.ValueHist) {
	return st.LoadField(cons, absdom.Cons, FieldHead)
}

// TailOf loads the tail of a cons cell.
func TailOf(st *absdom.State, cons absdom.Addr) (*absdom.State, absdom.ValueHist) {
	return st.LoadField(cons, absdom.Cons, FieldTail)
}

// TupleElems loads every element of a tuple of the given arity.
func TupleElems(st *absdom.State, tuple absdom.Addr, arity int) (*absdom.State, []absdom.ValueHist) {
	elems := make([]absdom.ValueHist, arity)
	for i := range elems {
		st, elems[i] = st.LoadField(tuple, absdom.Tuple(arity), TupleField(i+1))
	}
	return st, elems
}

// MapFields holds the three fields of a map record.
type MapFields struct {
	Key     absdom.ValueHist
	Value   absdom.ValueHist
	IsEmpty absdom.ValueHist
}

// MapFieldsOf loads the fields of a map.
func MapFieldsOf(st *absdom.State, m absdom.Addr) (*absdom.State, MapFields) {
	var f MapFields
	st, f.Key = st.LoadField(m, absdom.Map, FieldMapKey)
	st, f.Value = st.LoadField(m, absdom.Map, FieldMapValue)
	st, f.IsEmpty = st.LoadField(m, absdom.Map, FieldMapIsEmpty)
	return st, f
}
