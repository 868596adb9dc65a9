package builtins

import (
	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/compare"
	"github.com/podhmo/symerl/models"
)

func comparisons() []models.Entry {
	return []models.Entry{
		models.Call2("erlang", "==", Compare(compare.Equal)),
		models.Call2("erlang", "=:=", Compare(compare.Equal)),
		models.Call2("erlang", "/=", Compare(compare.NotEqual)),
		models.Call2("erlang", "=/=", Compare(compare.NotEqual)),
	}
}

// Compare turns a comparator into a model returning the atom true or
// false, one branch per feasible outcome.
func Compare(c compare.Comparator) func(x, y models.Arg) models.Model {
	return func(x, y models.Arg) models.Model {
		return func(data models.Data, st *absdom.State) models.Branches {
			st, r := c.Compare(st, x.Addr, y.Addr)
			return models.ReturnBool(data, st, r)
		}
	}
}
