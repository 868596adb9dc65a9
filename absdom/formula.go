package absdom

import (
	"fmt"
	"math/big"
)

// Tri is the answer to a query against the constraints.
type Tri int

const (
	Unknown Tri = iota
	True
	False
)

func triOf(b bool) Tri {
	if b {
		return True
	}
	return False
}

// Not negates a three-valued answer; Unknown stays Unknown.
func (t Tri) Not() Tri {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

func (t Tri) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Term defines the truth of a boolean address in terms of other addresses.
type Term interface {
	isTerm()
}

type (
	// Eq holds when X and Y denote the same value.
	Eq struct{ X, Y Addr }
	// Not holds when X does not.
	Not struct{ X Addr }
	// And holds when both X and Y hold.
	And struct{ X, Y Addr }
	// Or holds when X or Y holds.
	Or struct{ X, Y Addr }
	// HasType holds when X has runtime type Type.
	HasType struct {
		X    Addr
		Type RuntimeType
	}
)

func (Eq) isTerm()      {}
func (Not) isTerm()     {}
func (And) isTerm()     {}
func (Or) isTerm()      {}
func (HasType) isTerm() {}

func (s *State) find(a Addr) Addr {
	for {
		p, ok := s.parent[a]
		if !ok || p == a {
			return a
		}
		a = p
	}
}

func boolInt(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}

// FreshInt allocates a value constrained to equal n.
func (s *State) FreshInt(loc Location, n *big.Int) (*State, ValueHist) {
	v := FreshValue(loc, "literal "+n.String())
	out := s.clone()
	out.ints = cloned(s.ints)
	out.ints[v.Addr] = new(big.Int).Set(n)
	return out, v
}

// FreshBool allocates a boolean value (0 or 1) with a known truth.
func (s *State) FreshBool(loc Location, b bool) (*State, ValueHist) {
	return s.FreshInt(loc, boolInt(b))
}

// FreshString allocates a value constrained to equal the string str.
func (s *State) FreshString(loc Location, str string) (*State, ValueHist) {
	v := FreshValue(loc, fmt.Sprintf("literal %q", str))
	out := s.clone()
	out.strs = cloned(s.strs)
	out.strs[v.Addr] = str
	return out, v
}

// IntConst returns the integer a is known to equal.
func (s *State) IntConst(a Addr) (*big.Int, bool) {
	n, ok := s.ints[s.find(a)]
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(n), true
}

// StringConst returns the string a is known to equal.
func (s *State) StringConst(a Addr) (string, bool) {
	str, ok := s.strs[s.find(a)]
	return str, ok
}

// AndIntConst adds the constraint a = n.
func (s *State) AndIntConst(a Addr, n *big.Int) (*State, bool) {
	return s.settled(s.andIntConst(a, n))
}

func (s *State) andIntConst(a Addr, n *big.Int) (*State, bool) {
	r := s.find(a)
	if old, ok := s.ints[r]; ok {
		return s, old.Cmp(n) == 0
	}
	if _, ok := s.strs[r]; ok {
		return s, false
	}
	out := s.clone()
	out.ints = cloned(s.ints)
	out.ints[r] = new(big.Int).Set(n)
	if !out.diseqsHold() {
		return s, false
	}
	return out, true
}

// Define attaches a defining term to the fresh boolean address r.
func (s *State) Define(r Addr, t Term) *State {
	if _, ok := s.terms[r]; ok {
		panic(fmt.Sprintf("absdom: %s is already defined", r))
	}
	out := s.clone()
	out.terms = cloned(s.terms)
	out.terms[r] = t
	return out
}

func (s *State) term(a Addr) (Term, bool) {
	if t, ok := s.terms[a]; ok {
		return t, true
	}
	t, ok := s.terms[s.find(a)]
	return t, ok
}

// Equal answers whether a and b denote the same value.
func (s *State) Equal(a, b Addr) Tri {
	ra, rb := s.find(a), s.find(b)
	if ra == rb {
		return True
	}
	for _, p := range s.diseqs {
		px, py := s.find(p.x), s.find(p.y)
		if (px == ra && py == rb) || (px == rb && py == ra) {
			return False
		}
	}
	if x, ok := s.ints[ra]; ok {
		if y, ok := s.ints[rb]; ok {
			return triOf(x.Cmp(y) == 0)
		}
	}
	if x, ok := s.strs[ra]; ok {
		if y, ok := s.strs[rb]; ok {
			return triOf(x == y)
		}
	}
	if ta, tb := s.Type(ra), s.Type(rb); !ta.IsAny() && !tb.IsAny() && ta != tb {
		return False
	}
	return Unknown
}

// AndEqual adds the constraint a = b, merging what is known about both.
func (s *State) AndEqual(a, b Addr) (*State, bool) {
	return s.settled(s.andEqual(a, b))
}

func (s *State) andEqual(a, b Addr) (*State, bool) {
	switch s.Equal(a, b) {
	case True:
		return s, true
	case False:
		return s, false
	}
	ra, rb := s.find(a), s.find(b)
	out := s.clone()
	out.parent = cloned(s.parent)
	out.parent[rb] = ra
	if n, ok := s.ints[rb]; ok {
		if _, ok := s.strs[ra]; ok {
			return s, false
		}
		out.ints = cloned(s.ints)
		out.ints[ra] = n
	}
	if str, ok := s.strs[rb]; ok {
		if _, ok := s.ints[ra]; ok {
			return s, false
		}
		out.strs = cloned(s.strs)
		out.strs[ra] = str
	}
	if t, ok := s.types[rb]; ok {
		out.types = cloned(s.types)
		out.types[ra] = t
	}
	if excluded := s.notTypes[rb]; len(excluded) > 0 {
		merged := make([]RuntimeType, 0, len(s.notTypes[ra])+len(excluded))
		merged = append(merged, s.notTypes[ra]...)
		merged = append(merged, excluded...)
		out.notTypes = cloned(s.notTypes)
		out.notTypes[ra] = merged
	}
	if t, ok := out.types[ra]; ok {
		for _, nt := range out.notTypes[ra] {
			if nt == t {
				return s, false
			}
		}
	}
	if !out.diseqsHold() {
		return s, false
	}
	return out, true
}

// diseqsHold reports whether no recorded disequality is contradicted by a
// merged class or by equal constants.
func (s *State) diseqsHold() bool {
	for _, p := range s.diseqs {
		rx, ry := s.find(p.x), s.find(p.y)
		if rx == ry {
			return false
		}
		if x, ok := s.ints[rx]; ok {
			if y, ok := s.ints[ry]; ok && x.Cmp(y) == 0 {
				return false
			}
		}
		if x, ok := s.strs[rx]; ok {
			if y, ok := s.strs[ry]; ok && x == y {
				return false
			}
		}
	}
	return true
}

// AndDisequal adds the constraint a != b.
func (s *State) AndDisequal(a, b Addr) (*State, bool) {
	return s.settled(s.andDisequal(a, b))
}

func (s *State) andDisequal(a, b Addr) (*State, bool) {
	switch s.Equal(a, b) {
	case True:
		return s, false
	case False:
		return s, true
	}
	out := s.clone()
	diseqs := make([]addrPair, len(s.diseqs), len(s.diseqs)+1)
	copy(diseqs, s.diseqs)
	out.diseqs = append(diseqs, addrPair{x: a, y: b})
	return out, true
}

// Eval answers whether the boolean a holds.
func (s *State) Eval(a Addr) Tri {
	if n, ok := s.ints[s.find(a)]; ok {
		return triOf(n.Sign() != 0)
	}
	t, ok := s.term(a)
	if !ok {
		return Unknown
	}
	switch t := t.(type) {
	case Eq:
		return s.Equal(t.X, t.Y)
	case Not:
		return s.Eval(t.X).Not()
	case And:
		x, y := s.Eval(t.X), s.Eval(t.Y)
		switch {
		case x == False || y == False:
			return False
		case x == True && y == True:
			return True
		}
		return Unknown
	case Or:
		x, y := s.Eval(t.X), s.Eval(t.Y)
		switch {
		case x == True || y == True:
			return True
		case x == False && y == False:
			return False
		}
		return Unknown
	case HasType:
		return s.hasType(t.X, t.Type)
	}
	return Unknown
}

// Prune assumes that the boolean a is true (positive) or false and reports
// whether the resulting state is feasible. On success a is also recorded
// as the constant 1 or 0.
func (s *State) Prune(a Addr, positive bool) (*State, bool) {
	switch s.Eval(a) {
	case True:
		return s, positive
	case False:
		return s, !positive
	}
	out := s
	if t, ok := s.term(a); ok {
		var feasible bool
		out, feasible = s.assume(t, positive)
		if !feasible {
			return s, false
		}
	}
	return out.AndIntConst(a, boolInt(positive))
}

func (s *State) assume(t Term, positive bool) (*State, bool) {
	switch t := t.(type) {
	case Eq:
		if positive {
			return s.AndEqual(t.X, t.Y)
		}
		return s.AndDisequal(t.X, t.Y)
	case Not:
		return s.Prune(t.X, !positive)
	case And:
		if positive {
			return s.pruneBoth(t.X, t.Y, true)
		}
		return s.pruneOther(t.X, t.Y, True, false)
	case Or:
		if !positive {
			return s.pruneBoth(t.X, t.Y, false)
		}
		return s.pruneOther(t.X, t.Y, False, true)
	case HasType:
		return s.AssumeType(t.X, t.Type, positive)
	}
	return s, true
}

func (s *State) pruneBoth(x, y Addr, positive bool) (*State, bool) {
	out, ok := s.Prune(x, positive)
	if !ok {
		return s, false
	}
	return out.Prune(y, positive)
}

// pruneOther handles the non-distributive halves of And/Or: when one side
// already evaluates to known, the other side must take value positive.
// Otherwise the disjunction is kept as a clause and decided by settle once
// later constraints fix one of its sides.
func (s *State) pruneOther(x, y Addr, known Tri, positive bool) (*State, bool) {
	switch {
	case s.Eval(x) == known:
		return s.Prune(y, positive)
	case s.Eval(y) == known:
		return s.Prune(x, positive)
	}
	out := s.clone()
	clauses := make([]clause, len(s.clauses), len(s.clauses)+1)
	copy(clauses, s.clauses)
	out.clauses = append(clauses, clause{x: x, y: y, want: positive})
	return out, true
}

// clause holds when x or y evaluates to want.
type clause struct {
	x, y Addr
	want bool
}

// settle re-evaluates the pending clauses. Once one side of a clause is
// false the other side is forced; satisfied clauses are dropped.
func (s *State) settle() (*State, bool) {
	for i, c := range s.clauses {
		want := triOf(c.want)
		x, y := s.Eval(c.x), s.Eval(c.y)
		switch {
		case x == want || y == want:
			return s.dropClause(i).settle()
		case x == Unknown && y == Unknown:
			continue
		case x == Unknown:
			return s.dropClause(i).Prune(c.x, c.want)
		case y == Unknown:
			return s.dropClause(i).Prune(c.y, c.want)
		default:
			return s, false
		}
	}
	return s, true
}

// settled finishes a constraint added to s: out is the result of adding
// it, ok its feasibility.
func (s *State) settled(out *State, ok bool) (*State, bool) {
	if !ok {
		return s, false
	}
	if len(out.clauses) == 0 {
		return out, true
	}
	if out, ok = out.settle(); !ok {
		return s, false
	}
	return out, true
}

func (s *State) dropClause(i int) *State {
	out := s.clone()
	clauses := make([]clause, 0, len(s.clauses)-1)
	clauses = append(clauses, s.clauses[:i]...)
	out.clauses = append(clauses, s.clauses[i+1:]...)
	return out
}
