package rules

import (
	"fmt"
	"math/big"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/values"
)

// Value describes the value a rule returns.
type Value interface {
	isValue()
}

type (
	// Nondet is any value at all.
	Nondet struct{}
	// Atom is an atom; a nil Name leaves the name unconstrained.
	Atom struct{ Name *string }
	// IntLit is an integer given as decimal text of any size.
	IntLit struct{ Text string }
	// List is a proper list of the given elements.
	List struct{ Elems []Value }
	// Tuple is a tuple whose arity is the number of elements.
	Tuple struct{ Elems []Value }
)

func (Nondet) isValue() {}
func (Atom) isValue()   {}
func (IntLit) isValue() {}
func (List) isValue()   {}
func (Tuple) isValue()  {}

// NamedAtom returns the description of the atom name.
func NamedAtom(name string) Atom {
	return Atom{Name: &name}
}

// Integer returns the description of n.
func Integer(n int64) IntLit {
	return IntLit{Text: big.NewInt(n).String()}
}

// Synthesize constructs a value matching v, children first.
func Synthesize(st *absdom.State, loc absdom.Location, v Value) (*absdom.State, absdom.ValueHist) {
	switch v := v.(type) {
	case nil, Nondet:
		return st, absdom.FreshValue(loc, "rule return value")
	case Atom:
		return values.MakeAtom(st, loc, v.Name)
	case IntLit:
		n, ok := new(big.Int).SetString(v.Text, 10)
		if !ok {
			panic(fmt.Sprintf("rules: invalid integer literal %q", v.Text))
		}
		return values.MakeIntegerLit(st, loc, n)
	case List:
		st, elems := synthesizeAll(st, loc, v.Elems)
		return values.MakeList(st, loc, elems)
	case Tuple:
		st, elems := synthesizeAll(st, loc, v.Elems)
		return values.MakeTuple(st, loc, elems)
	default:
		panic(fmt.Sprintf("rules: unexpected value description %T", v))
	}
}

func synthesizeAll(st *absdom.State, loc absdom.Location, vs []Value) (*absdom.State, []absdom.ValueHist) {
	out := make([]absdom.ValueHist, len(vs))
	for i, v := range vs {
		st, out[i] = Synthesize(st, loc, v)
	}
	return st, out
}
