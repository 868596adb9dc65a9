// Package compare dispatches binary operations on the runtime types of
// their operands.
//
// A Comparator is a record of handlers. Dispatch picks one by the pair of
// operand types:
//
//   - both Integer, or both Atom: the type specific handler;
//   - either Any, or both of the same type that is not modelled precisely
//     (Nil, Cons, Tuple(n), Map): Unsupported;
//   - two different known types: Incompatible.
//
// A nil handler forwards to Unsupported, and a nil Unsupported returns an
// unconstrained boolean, so a new operator only has to fill in the cases
// that differ.
package compare

import "github.com/podhmo/symerl/absdom"

// Operand is an address together with its resolved runtime type.
type Operand struct {
	Addr absdom.Addr
	Type absdom.RuntimeType
}

// Handler computes the boolean result of the operation on x and y.
type Handler func(st *absdom.State, x, y Operand) (*absdom.State, absdom.Addr)

// Comparator is a binary boolean operation defined per type pair.
type Comparator struct {
	Name         string
	Integer      Handler
	Atom         Handler
	Unsupported  Handler
	Incompatible Handler
}

// Unconstrained returns a fresh boolean with no constraint on it.
func Unconstrained(st *absdom.State, x, y Operand) (*absdom.State, absdom.Addr) {
	return st, absdom.Fresh()
}

func (c Comparator) unsupported() Handler {
	if c.Unsupported != nil {
		return c.Unsupported
	}
	return Unconstrained
}

func (c Comparator) orUnsupported(h Handler) Handler {
	if h != nil {
		return h
	}
	return c.unsupported()
}

// HandlerFor returns the handler used for operands of types tx and ty.
func (c Comparator) HandlerFor(tx, ty absdom.RuntimeType) Handler {
	switch {
	case tx.IsAny() || ty.IsAny():
		return c.unsupported()
	case tx != ty:
		return c.orUnsupported(c.Incompatible)
	case tx.Kind == absdom.IntegerKind:
		return c.orUnsupported(c.Integer)
	case tx.Kind == absdom.AtomKind:
		return c.orUnsupported(c.Atom)
	default:
		return c.unsupported()
	}
}

// Compare evaluates the operation and returns the address of its boolean
// result.
func (c Comparator) Compare(st *absdom.State, x, y absdom.Addr) (*absdom.State, absdom.Addr) {
	ox := Operand{Addr: x, Type: st.Type(x)}
	oy := Operand{Addr: y, Type: st.Type(y)}
	return c.HandlerFor(ox.Type, oy.Type)(st, ox, oy)
}

// PruneTrue evaluates the operation and keeps only the states where it
// holds.
func (c Comparator) PruneTrue(st *absdom.State, x, y absdom.Addr) (*absdom.State, bool) {
	st, r := c.Compare(st, x, y)
	return st.Prune(r, true)
}

// Negate returns the comparator computing the negation of c. A nil
// handler stays nil, so an unconstrained default stays unconstrained.
func (c Comparator) Negate() Comparator {
	neg := func(h Handler) Handler {
		if h == nil {
			return nil
		}
		return func(st *absdom.State, x, y Operand) (*absdom.State, absdom.Addr) {
			st, r := h(st, x, y)
			n := absdom.Fresh()
			return st.Define(n, absdom.Not{X: r}), n
		}
	}
	return Comparator{
		Name:         "not " + c.Name,
		Integer:      neg(c.Integer),
		Atom:         neg(c.Atom),
		Unsupported:  neg(c.Unsupported),
		Incompatible: neg(c.Incompatible),
	}
}
