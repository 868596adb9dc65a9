package compare

import (
	"testing"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/values"
)

var loc = absdom.Location{File: "compare_test.erl", Line: 1}

type feasibility struct {
	canBeTrue, canBeFalse bool
}

func check(st *absdom.State, r absdom.Addr) feasibility {
	_, t := st.Prune(r, true)
	_, f := st.Prune(r, false)
	return feasibility{canBeTrue: t, canBeFalse: f}
}

func TestEqual(t *testing.T) {
	st := absdom.New()
	st, okAtom := values.MakeNamedAtom(st, loc, "ok")
	st, okAtom2 := values.MakeNamedAtom(st, loc, "ok")
	st, errAtom := values.MakeNamedAtom(st, loc, "error")
	st, someAtom := values.MakeAtom(st, loc, nil)
	st, one := values.MakeInt(st, loc, 1)
	st, oneAgain := values.MakeInt(st, loc, 1)
	st, two := values.MakeInt(st, loc, 2)
	st, empty := values.MakeNil(st, loc)
	st, empty2 := values.MakeNil(st, loc)
	st, pair := values.MakeTuple(st, loc, []absdom.ValueHist{one, two})
	st, triple := values.MakeTuple(st, loc, []absdom.ValueHist{one, two, one})
	unknown := absdom.FreshValue(loc, "unknown")

	cases := []struct {
		name string
		x, y absdom.ValueHist
		want feasibility
	}{
		{"same atom name", okAtom, okAtom2, feasibility{canBeTrue: true}},
		{"different atom names", okAtom, errAtom, feasibility{canBeFalse: true}},
		{"unnamed atom", okAtom, someAtom, feasibility{canBeTrue: true, canBeFalse: true}},
		{"equal integers", one, oneAgain, feasibility{canBeTrue: true}},
		{"different integers", one, two, feasibility{canBeFalse: true}},
		{"atom and integer", okAtom, one, feasibility{canBeFalse: true}},
		{"integer and atom", one, okAtom, feasibility{canBeFalse: true}},
		{"any operand", one, unknown, feasibility{canBeTrue: true, canBeFalse: true}},
		{"nil and nil", empty, empty2, feasibility{canBeTrue: true, canBeFalse: true}},
		{"tuples of different arity", pair, triple, feasibility{canBeFalse: true}},
		{"nil and tuple", empty, pair, feasibility{canBeFalse: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			st, r := Equal.Compare(st, c.x.Addr, c.y.Addr)
			if got := check(st, r); got != c.want {
				t.Errorf("Compare() feasibility = %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestNotEqual(t *testing.T) {
	st := absdom.New()
	st, a := values.MakeNamedAtom(st, loc, "a")
	st, b := values.MakeNamedAtom(st, loc, "b")
	st, n := values.MakeInt(st, loc, 1)

	st2, r := NotEqual.Compare(st, a.Addr, b.Addr)
	if got := check(st2, r); got != (feasibility{canBeTrue: true}) {
		t.Errorf("a =/= b feasibility = %+v", got)
	}
	st3, r := NotEqual.Compare(st, a.Addr, n.Addr)
	if got := check(st3, r); got != (feasibility{canBeTrue: true}) {
		t.Errorf("a =/= 1 feasibility = %+v", got)
	}
	st4, r := NotEqual.Compare(st, a.Addr, a.Addr)
	if got := check(st4, r); got != (feasibility{canBeFalse: true}) {
		t.Errorf("a =/= a feasibility = %+v", got)
	}
}

func TestPruneTrue(t *testing.T) {
	st := absdom.New()
	st, a := values.MakeNamedAtom(st, loc, "a")
	st, n := values.MakeInt(st, loc, 1)
	if _, ok := Equal.PruneTrue(st, a.Addr, n.Addr); ok {
		t.Error("an atom and an integer were pruned equal")
	}
	x := absdom.FreshValue(loc, "x")
	y := absdom.FreshValue(loc, "y")
	if _, ok := Equal.PruneTrue(st, x.Addr, y.Addr); !ok {
		t.Error("unknown operands should be allowed to be equal")
	}
}

func TestEqual_RemembersDisequality(t *testing.T) {
	st := absdom.New()
	st, a := values.MakeInteger(st, loc, absdom.FreshValue(loc, "A"))
	st, b := values.MakeInteger(st, loc, absdom.FreshValue(loc, "B"))
	st, five := values.MakeInt(st, loc, 5)

	st, ok := NotEqual.PruneTrue(st, a.Addr, b.Addr)
	if !ok {
		t.Fatal("A =/= B infeasible")
	}
	st, ok = Equal.PruneTrue(st, a.Addr, five.Addr)
	if !ok {
		t.Fatal("A == 5 infeasible")
	}
	st2, r := Equal.Compare(st, b.Addr, five.Addr)
	if got := check(st2, r); got != (feasibility{canBeFalse: true}) {
		t.Errorf("B == 5 feasibility = %+v", got)
	}
	st3, r := Equal.Compare(st, a.Addr, b.Addr)
	if got := check(st3, r); got != (feasibility{canBeFalse: true}) {
		t.Errorf("A == B feasibility = %+v", got)
	}
}

func TestNegate_Unsupported(t *testing.T) {
	always := func(st *absdom.State, x, y Operand) (*absdom.State, absdom.Addr) {
		st, r := st.FreshBool(absdom.Location{}, true)
		return st, r.Addr
	}
	alwaysTrue := Comparator{Name: "always", Unsupported: always}
	st := absdom.New()
	st, e1 := values.MakeNil(st, loc)
	st, e2 := values.MakeNil(st, loc)

	st1, r := alwaysTrue.Compare(st, e1.Addr, e2.Addr)
	if got := check(st1, r); got != (feasibility{canBeTrue: true}) {
		t.Errorf("always feasibility = %+v", got)
	}
	st2, r := alwaysTrue.Negate().Compare(st, e1.Addr, e2.Addr)
	if got := check(st2, r); got != (feasibility{canBeFalse: true}) {
		t.Errorf("negated always feasibility = %+v", got)
	}

	// no Unsupported handler: the negation is unconstrained too
	st3, r := NotEqual.Compare(st, e1.Addr, e2.Addr)
	if got := check(st3, r); got != (feasibility{canBeTrue: true, canBeFalse: true}) {
		t.Errorf("nil =/= nil feasibility = %+v", got)
	}
}

func TestHandlerFor_Defaults(t *testing.T) {
	var calls []string
	record := func(name string) Handler {
		return func(st *absdom.State, x, y Operand) (*absdom.State, absdom.Addr) {
			calls = append(calls, name)
			return st, absdom.Fresh()
		}
	}
	c := Comparator{Name: "only-incompatible", Unsupported: record("unsupported"), Incompatible: record("incompatible")}

	st := absdom.New()
	st, a := values.MakeNamedAtom(st, loc, "a")
	st, b := values.MakeNamedAtom(st, loc, "b")
	st, n := values.MakeInt(st, loc, 1)
	c.Compare(st, a.Addr, b.Addr)
	c.Compare(st, n.Addr, n.Addr)
	c.Compare(st, a.Addr, n.Addr)

	want := []string{"unsupported", "unsupported", "incompatible"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestCompare_DoesNotTypeOperands(t *testing.T) {
	st := absdom.New()
	st, n := values.MakeInt(st, loc, 1)
	x := absdom.FreshValue(loc, "x")
	st, _ = Equal.Compare(st, n.Addr, x.Addr)
	if got := st.Type(x.Addr); got != absdom.Any {
		t.Errorf("Type(x) = %s after comparison, want Any", got)
	}
}
