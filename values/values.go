// Package values builds runtime values of the analyzed language as tagged
// records in the symbolic heap.
//
// Every constructor takes a state and already evaluated component values
// and returns a new state plus the fresh address of the record. Each field
// points at its own freshly allocated cell, so constructing a record never
// aliases the caller's addresses directly.
package values

import (
	"fmt"
	"hash/fnv"
	"math/big"
	"strconv"

	"github.com/podhmo/symerl/absdom"
)

// Field names of the records.
const (
	FieldAtomName   = "atom_name"
	FieldAtomHash   = "atom_hash"
	FieldIntValue   = "int_value"
	FieldHead       = "head"
	FieldTail       = "tail"
	FieldMapKey     = "map_key"
	FieldMapValue   = "map_value"
	FieldMapIsEmpty = "map_is_empty"
)

// TupleField returns the field name of the i-th (1-based) tuple element.
func TupleField(i int) string {
	return "tuple_elem" + strconv.Itoa(i)
}

// Made is a state together with a value constructed in it.
type Made struct {
	State *absdom.State
	Value absdom.ValueHist
}

// AtomHash is the hash stored in the hash field of an atom named name.
// Atom equality compares these hashes, which is exact as long as the names
// in play do not collide.
func AtomHash(name string) *big.Int {
	h := fnv.New32a()
	h.Write([]byte(name))
	return new(big.Int).SetUint64(uint64(h.Sum32()))
}

type field struct {
	name  string
	value absdom.ValueHist
}

func makeRecord(st *absdom.State, loc absdom.Location, typ absdom.RuntimeType, fields ...field) (*absdom.State, absdom.ValueHist) {
	v := absdom.FreshValue(loc, "make "+typ.String())
	for _, f := range fields {
		st = st.WriteField(v.Addr, f.name, f.value)
	}
	return st.AddType(v.Addr, typ), v
}

// MakeAtom builds an atom. A nil name yields an atom whose name and hash
// are unconstrained.
func MakeAtom(st *absdom.State, loc absdom.Location, name *string) (*absdom.State, absdom.ValueHist) {
	var nameV, hashV absdom.ValueHist
	if name != nil {
		st, nameV = st.FreshString(loc, *name)
		st, hashV = st.FreshInt(loc, AtomHash(*name))
	} else {
		nameV = absdom.FreshValue(loc, "atom name")
		hashV = absdom.FreshValue(loc, "atom hash")
	}
	return makeRecord(st, loc, absdom.Atom, field{FieldAtomName, nameV}, field{FieldAtomHash, hashV})
}

// MakeNamedAtom is MakeAtom for a known name.
func MakeNamedAtom(st *absdom.State, loc absdom.Location, name string) (*absdom.State, absdom.ValueHist) {
	return MakeAtom(st, loc, &name)
}

// BoolName returns the atom name of a boolean.
func BoolName(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// MakeBool builds the atom true or false.
func MakeBool(st *absdom.State, loc absdom.Location, b bool) (*absdom.State, absdom.ValueHist) {
	return MakeNamedAtom(st, loc, BoolName(b))
}

// OfBool converts the internal boolean b into an atom, one branch per
// feasible truth value.
func OfBool(st *absdom.State, loc absdom.Location, b absdom.Addr) []Made {
	var out []Made
	for _, truth := range []bool{true, false} {
		pruned, ok := st.Prune(b, truth)
		if !ok {
			continue
		}
		pruned, atom := MakeBool(pruned, loc, truth)
		out = append(out, Made{State: pruned, Value: atom})
	}
	return out
}

// MakeInteger builds an integer record around the arithmetic value v.
func MakeInteger(st *absdom.State, loc absdom.Location, v absdom.ValueHist) (*absdom.State, absdom.ValueHist) {
	return makeRecord(st, loc, absdom.Integer, field{FieldIntValue, v})
}

// MakeIntegerLit builds an integer record equal to n.
func MakeIntegerLit(st *absdom.State, loc absdom.Location, n *big.Int) (*absdom.State, absdom.ValueHist) {
	st, v := st.FreshInt(loc, n)
	return MakeInteger(st, loc, v)
}

// MakeInt is MakeIntegerLit for small literals.
func MakeInt(st *absdom.State, loc absdom.Location, n int64) (*absdom.State, absdom.ValueHist) {
	return MakeIntegerLit(st, loc, big.NewInt(n))
}

// MakeNil builds the empty list.
func MakeNil(st *absdom.State, loc absdom.Location) (*absdom.State, absdom.ValueHist) {
	return makeRecord(st, loc, absdom.Nil)
}

// MakeCons builds [head | tail].
func MakeCons(st *absdom.State, loc absdom.Location, head, tail absdom.ValueHist) (*absdom.State, absdom.ValueHist) {
	return makeRecord(st, loc, absdom.Cons, field{FieldHead, head}, field{FieldTail, tail})
}

// MakeList builds a proper list, consing right to left onto nil.
func MakeList(st *absdom.State, loc absdom.Location, elems []absdom.ValueHist) (*absdom.State, absdom.ValueHist) {
	st, acc := MakeNil(st, loc)
	for i := len(elems) - 1; i >= 0; i-- {
		st, acc = MakeCons(st, loc, elems[i], acc)
	}
	return st, acc
}

// MakeTuple builds a tuple whose arity is len(elems).
func MakeTuple(st *absdom.State, loc absdom.Location, elems []absdom.ValueHist) (*absdom.State, absdom.ValueHist) {
	fields := make([]field, len(elems))
	for i, e := range elems {
		fields[i] = field{TupleField(i + 1), e}
	}
	return makeRecord(st, loc, absdom.Tuple(len(elems)), fields...)
}

// MakeEmptyMap builds #{}.
func MakeEmptyMap(st *absdom.State, loc absdom.Location) (*absdom.State, absdom.ValueHist) {
	key := absdom.FreshValue(loc, "map key")
	value := absdom.FreshValue(loc, "map value")
	st, empty := st.FreshBool(loc, true)
	return makeRecord(st, loc, absdom.Map,
		field{FieldMapKey, key}, field{FieldMapValue, value}, field{FieldMapIsEmpty, empty})
}

// MakeMapEntry builds a non-empty map that remembers only key => value.
func MakeMapEntry(st *absdom.State, loc absdom.Location, key, value absdom.ValueHist) (*absdom.State, absdom.ValueHist) {
	st, empty := st.FreshBool(loc, false)
	return makeRecord(st, loc, absdom.Map,
		field{FieldMapKey, key}, field{FieldMapValue, value}, field{FieldMapIsEmpty, empty})
}

// MakeMap builds a map literal from alternating keys and values.
//
// Only the last pair survives: the map record always has exactly the
// key, value and is-empty fields, and earlier bindings are forgotten.
// Lookups of forgotten keys must be treated as unknown, not absent.
func MakeMap(st *absdom.State, loc absdom.Location, kvs []absdom.ValueHist) (*absdom.State, absdom.ValueHist) {
	if len(kvs)%2 != 0 {
		panic(fmt.Sprintf("values: map literal needs key/value pairs, got %d values", len(kvs)))
	}
	if len(kvs) == 0 {
		return MakeEmptyMap(st, loc)
	}
	return MakeMapEntry(st, loc, kvs[len(kvs)-2], kvs[len(kvs)-1])
}
