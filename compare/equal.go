package compare

import (
	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/values"
)

// Equal is term equality.
//
// Atoms are compared by their hash field; integers by their value field.
// Values of different types are never equal.
var Equal = Comparator{
	Name:         "equal",
	Integer:      integerEqual,
	Atom:         atomEqual,
	Incompatible: alwaysFalse,
}

// NotEqual is the negation of Equal.
var NotEqual = Equal.Negate()

func defineEq(st *absdom.State, a, b absdom.Addr) (*absdom.State, absdom.Addr) {
	r := absdom.Fresh()
	return st.Define(r, absdom.Eq{X: a, Y: b}), r
}

func integerEqual(st *absdom.State, x, y Operand) (*absdom.State, absdom.Addr) {
	st, vx := values.IntValueOf(st, x.Addr)
	st, vy := values.IntValueOf(st, y.Addr)
	return defineEq(st, vx.Addr, vy.Addr)
}

// Names are not compared. Ordering, if added, must compare names instead.
func atomEqual(st *absdom.State, x, y Operand) (*absdom.State, absdom.Addr) {
	st, hx := values.AtomHashOf(st, x.Addr)
	st, hy := values.AtomHashOf(st, y.Addr)
	return defineEq(st, hx.Addr, hy.Addr)
}

func alwaysFalse(st *absdom.State, x, y Operand) (*absdom.State, absdom.Addr) {
	st, r := st.FreshBool(absdom.Location{}, false)
	return st, r.Addr
}
