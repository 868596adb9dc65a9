// Package builtins provides the models of built-in functions: type tests,
// term comparison, list and map operations, io:format, and the fatal
// error helpers that lowered code calls to raise a runtime error.
package builtins

import (
	"github.com/podhmo/symerl/models"
)

// Origin marks the entries returned by Entries.
const Origin = "builtin"

// Entries returns every built-in model. maxDepth bounds list unfolding in
// the list operations.
func Entries(maxDepth int) []models.Entry {
	var out []models.Entry
	out = append(out, typeTests()...)
	out = append(out, comparisons()...)
	out = append(out, listOps(maxDepth)...)
	out = append(out, mapOps()...)
	out = append(out, ioOps()...)
	out = append(out, errorHelpers()...)
	for i := range out {
		out[i].Origin = Origin
	}
	return out
}
