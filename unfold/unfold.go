// Package unfold reasons about lists of unknown length by bounded case
// splitting: a list is tried as exactly 0, 1, ..., maxDepth cons cells
// ending in nil, one branch per feasible length. Longer lists are not
// explored; their shapes are simply absent from the results.
package unfold

import (
	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/values"
)

// Unfolded is one feasible shape of a list.
type Unfolded struct {
	State *absdom.State
	Elems []absdom.ValueHist
}

// Exactly destructures list into exactly n cons cells followed by nil.
// It reports false when that shape is infeasible.
func Exactly(st *absdom.State, list absdom.ValueHist, n int) (Unfolded, bool) {
	elems := make([]absdom.ValueHist, 0, n)
	cur := list
	for range n {
		var ok bool
		st, ok = st.AssumeType(cur.Addr, absdom.Cons, true)
		if !ok {
			return Unfolded{}, false
		}
		var head absdom.ValueHist
		st, head = values.HeadOf(st, cur.Addr)
		st, cur = values.TailOf(st, cur.Addr)
		elems = append(elems, head)
	}
	st, ok := st.AssumeType(cur.Addr, absdom.Nil, true)
	if !ok {
		return Unfolded{}, false
	}
	return Unfolded{State: st, Elems: elems}, true
}

// UpTo returns every feasible shape of list with at most maxDepth
// elements, shortest first.
func UpTo(st *absdom.State, list absdom.ValueHist, maxDepth int) []Unfolded {
	var out []Unfolded
	for n := 0; n <= maxDepth; n++ {
		if u, ok := Exactly(st, list, n); ok {
			out = append(out, u)
		}
	}
	return out
}

// Append computes list1 ++ list2, one result per feasible length of
// list1. The elements of list1 are consed, last first, onto list2 itself.
func Append(st *absdom.State, loc absdom.Location, list1, list2 absdom.ValueHist, maxDepth int) []values.Made {
	return fold(st, loc, list1, list2, maxDepth, false)
}

// Reverse reverses list, one result per feasible length.
func Reverse(st *absdom.State, loc absdom.Location, list absdom.ValueHist, maxDepth int) []values.Made {
	st, empty := values.MakeNil(st, loc)
	return fold(st, loc, list, empty, maxDepth, true)
}

func fold(st *absdom.State, loc absdom.Location, list, acc absdom.ValueHist, maxDepth int, reversed bool) []values.Made {
	var out []values.Made
	for _, u := range UpTo(st, list, maxDepth) {
		st, result := u.State, acc
		if reversed {
			for _, e := range u.Elems {
				st, result = values.MakeCons(st, loc, e, result)
			}
		} else {
			for i := len(u.Elems) - 1; i >= 0; i-- {
				st, result = values.MakeCons(st, loc, u.Elems[i], result)
			}
		}
		out = append(out, values.Made{State: st, Value: result})
	}
	return out
}

// Length returns the length of list as an integer, one result per
// feasible length.
func Length(st *absdom.State, loc absdom.Location, list absdom.ValueHist, maxDepth int) []values.Made {
	var out []values.Made
	for _, u := range UpTo(st, list, maxDepth) {
		st, n := values.MakeInt(u.State, loc, int64(len(u.Elems)))
		out = append(out, values.Made{State: st, Value: n})
	}
	return out
}
