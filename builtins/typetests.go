package builtins

import (
	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/models"
	"github.com/podhmo/symerl/values"
)

func typeTests() []models.Entry {
	return []models.Entry{
		models.Call1("erlang", "is_list", IsList),
		models.Call1("erlang", "is_boolean", IsBoolean),
		models.Call1("erlang", "is_atom", hasType(absdom.Atom)),
		models.Call1("erlang", "is_integer", hasType(absdom.Integer)),
		models.Call1("erlang", "is_map", hasType(absdom.Map)),
	}
}

func hasType(t absdom.RuntimeType) func(models.Arg) models.Model {
	return func(x models.Arg) models.Model {
		return func(data models.Data, st *absdom.State) models.Branches {
			st, r := st.HasType(x.Addr, t)
			return models.ReturnBool(data, st, r)
		}
	}
}

// IsList holds when x is a cons cell or nil.
func IsList(x models.Arg) models.Model {
	return func(data models.Data, st *absdom.State) models.Branches {
		st, isCons := st.HasType(x.Addr, absdom.Cons)
		st, isNil := st.HasType(x.Addr, absdom.Nil)
		r := absdom.Fresh()
		st = st.Define(r, absdom.Or{X: isCons, Y: isNil})
		return models.ReturnBool(data, st, r)
	}
}

// IsBoolean holds when x is the atom true or the atom false.
//
// Every outcome prunes its own copy of the state: not an atom, an atom
// whose hash is that of true, that of false, or neither.
func IsBoolean(x models.Arg) models.Model {
	return func(data models.Data, st *absdom.State) models.Branches {
		var out models.Branches
		if notAtom, ok := st.AssumeType(x.Addr, absdom.Atom, false); ok {
			out = append(out, models.ReturnKnownBool(data, notAtom, false)...)
		}
		atom, ok := st.AssumeType(x.Addr, absdom.Atom, true)
		if !ok {
			return out
		}
		atom, hash := values.AtomHashOf(atom, x.Addr)
		rest := atom
		for _, name := range []string{"true", "false"} {
			var lit absdom.ValueHist
			rest, lit = rest.FreshInt(data.Location, values.AtomHash(name))
			eq := absdom.Fresh()
			rest = rest.Define(eq, absdom.Eq{X: hash.Addr, Y: lit.Addr})
			if hit, ok := rest.Prune(eq, true); ok {
				out = append(out, models.ReturnKnownBool(data, hit, true)...)
			}
			if rest, ok = rest.Prune(eq, false); !ok {
				return out
			}
		}
		return append(out, models.ReturnKnownBool(data, rest, false)...)
	}
}
