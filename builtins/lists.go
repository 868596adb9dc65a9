package builtins

import (
	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/models"
	"github.com/podhmo/symerl/unfold"
)

func listOps(maxDepth int) []models.Entry {
	appendList := func(x, y models.Arg) models.Model { return Append(x, y, maxDepth) }
	return []models.Entry{
		models.Call2("erlang", "++", appendList),
		models.Call2("lists", "append", appendList),
		models.Call1("lists", "reverse", func(x models.Arg) models.Model { return Reverse(x, maxDepth) }),
		models.Call1("erlang", "length", func(x models.Arg) models.Model { return Length(x, maxDepth) }),
	}
}

// Append models x ++ y for every length of x up to maxDepth.
func Append(x, y models.Arg, maxDepth int) models.Model {
	return func(data models.Data, st *absdom.State) models.Branches {
		return models.ReturnAll(data, unfold.Append(st, data.Location, x, y, maxDepth))
	}
}

// Reverse models lists:reverse/1 for every length of x up to maxDepth.
func Reverse(x models.Arg, maxDepth int) models.Model {
	return func(data models.Data, st *absdom.State) models.Branches {
		return models.ReturnAll(data, unfold.Reverse(st, data.Location, x, maxDepth))
	}
}

// Length models length/1 for every length of x up to maxDepth.
func Length(x models.Arg, maxDepth int) models.Model {
	return func(data models.Data, st *absdom.State) models.Branches {
		return models.ReturnAll(data, unfold.Length(st, data.Location, x, maxDepth))
	}
}
