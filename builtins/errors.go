package builtins

import (
	"fmt"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/models"
	"github.com/podhmo/symerl/values"
)

// ErrorModule is the module of the fatal error helpers. Lowered code calls
// ErrorModule:error_<kind>() where the source raises a runtime error.
const ErrorModule = "__infer_erlang"

func errorHelpers() []models.Entry {
	var out []models.Entry
	for _, kind := range absdom.ErrorKinds() {
		out = append(out, models.Call0(ErrorModule, "error_"+kind.String(), func() models.Model {
			return Raise(kind)
		}))
	}
	out = append(out,
		models.Call1(ErrorModule, "error_badkey", func(x models.Arg) models.Model { return RaiseWith(absdom.BadKey, x) }),
		models.Call1(ErrorModule, "error_badmap", func(x models.Arg) models.Model { return RaiseWith(absdom.BadMap, x) }),
	)
	return out
}

// Raise terminates the branch with a diagnostic of the given kind.
func Raise(kind absdom.ErrorKind) models.Model {
	return func(data models.Data, st *absdom.State) models.Branches {
		return models.Fail(data, st, kind, kind.String(), absdom.History{})
	}
}

// RaiseWith is Raise for an error carrying the offending value.
func RaiseWith(kind absdom.ErrorKind, x models.Arg) models.Model {
	return func(data models.Data, st *absdom.State) models.Branches {
		msg := fmt.Sprintf("%s: %s", kind, values.Describe(st, x.Addr))
		return models.Fail(data, st, kind, msg, x.Hist)
	}
}
