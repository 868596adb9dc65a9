package builtins

import (
	"fmt"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/compare"
	"github.com/podhmo/symerl/disj"
	"github.com/podhmo/symerl/models"
	"github.com/podhmo/symerl/values"
)

func mapOps() []models.Entry {
	return []models.Entry{
		models.Call0("maps", "new", MapsNew),
		models.Call3("maps", "put", MapsPut),
		models.Call2("maps", "get", MapsGet),
		models.Call2("maps", "is_key", MapsIsKey),
	}
}

// checkMap splits on whether m is a map. The non-map branch fails with
// badmap.
func checkMap(data models.Data, st *absdom.State, m models.Arg) models.Branches {
	var out models.Branches
	if good, feasible := st.AssumeType(m.Addr, absdom.Map, true); feasible {
		out = append(out, disj.Ok(good))
	}
	if bad, feasible := st.AssumeType(m.Addr, absdom.Map, false); feasible {
		msg := fmt.Sprintf("bad map: %s", values.Describe(bad, m.Addr))
		out = append(out, models.Fail(data, bad, absdom.BadMap, msg, m.Hist)...)
	}
	return out
}

// lookup splits a non-empty map on whether its remembered key is k. The
// second state is the miss branch, nil when infeasible.
func lookup(st *absdom.State, fields values.MapFields, k models.Arg) (hit, miss *absdom.State) {
	if st.Equal(fields.Key.Addr, k.Addr) == absdom.True {
		return st, nil
	}
	if s, ok := compare.Equal.PruneTrue(st, fields.Key.Addr, k.Addr); ok {
		hit = s
	}
	if s, ok := compare.NotEqual.PruneTrue(st, fields.Key.Addr, k.Addr); ok {
		miss = s
	}
	return hit, miss
}

// MapsNew returns #{}.
func MapsNew() models.Model {
	return func(data models.Data, st *absdom.State) models.Branches {
		st, m := values.MakeEmptyMap(st, data.Location)
		return models.Return(data, st, m)
	}
}

// MapsPut returns a map remembering only k => v. Whatever m held before
// is forgotten.
func MapsPut(k, v, m models.Arg) models.Model {
	return func(data models.Data, st *absdom.State) models.Branches {
		return disj.FanOut(checkMap(data, st, m), func(st *absdom.State) models.Branches {
			st, out := values.MakeMapEntry(st, data.Location, k, v)
			return models.Return(data, st, out)
		})
	}
}

// MapsGet returns the value bound to k in m.
//
// An empty map fails with badkey. A non-empty map returns the remembered
// value when k is the remembered key. Otherwise k may still have been
// bound by a forgotten entry, so the branch continues with an
// unconstrained value and a recoverable badkey diagnostic.
func MapsGet(k, m models.Arg) models.Model {
	return func(data models.Data, st *absdom.State) models.Branches {
		return disj.FanOut(checkMap(data, st, m), func(st *absdom.State) models.Branches {
			st, fields := values.MapFieldsOf(st, m.Addr)
			var out models.Branches
			if empty, ok := st.Prune(fields.IsEmpty.Addr, true); ok {
				msg := fmt.Sprintf("bad key %s: map is empty", values.Describe(empty, k.Addr))
				out = append(out, models.Fail(data, empty, absdom.BadKey, msg, k.Hist)...)
			}
			nonEmpty, ok := st.Prune(fields.IsEmpty.Addr, false)
			if !ok {
				return out
			}
			hit, miss := lookup(nonEmpty, fields, k)
			if hit != nil {
				out = append(out, models.Return(data, hit, fields.Value)...)
			}
			if miss != nil {
				v := absdom.FreshValue(data.Location, "maps:get of a forgotten key")
				msg := fmt.Sprintf("possible bad key %s", values.Describe(miss, k.Addr))
				d := models.Diagnostic(data, absdom.BadKey, msg, k.Hist)
				for _, b := range models.Return(data, miss, v) {
					out = append(out, disj.Bind(b, func(st *absdom.State) disj.Result[*absdom.State] {
						return disj.Recover(st, d)
					}))
				}
			}
			return out
		})
	}
}

// MapsIsKey reports whether k is bound in m. On a miss of the remembered
// key the answer is unknown.
func MapsIsKey(k, m models.Arg) models.Model {
	return func(data models.Data, st *absdom.State) models.Branches {
		return disj.FanOut(checkMap(data, st, m), func(st *absdom.State) models.Branches {
			st, fields := values.MapFieldsOf(st, m.Addr)
			var out models.Branches
			if empty, ok := st.Prune(fields.IsEmpty.Addr, true); ok {
				out = append(out, models.ReturnKnownBool(data, empty, false)...)
			}
			nonEmpty, ok := st.Prune(fields.IsEmpty.Addr, false)
			if !ok {
				return out
			}
			hit, miss := lookup(nonEmpty, fields, k)
			if hit != nil {
				out = append(out, models.ReturnKnownBool(data, hit, true)...)
			}
			if miss != nil {
				out = append(out, models.ReturnBool(data, miss, absdom.Fresh())...)
			}
			return out
		})
	}
}
