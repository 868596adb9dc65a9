package builtins

import (
	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/models"
	"github.com/podhmo/symerl/values"
)

func ioOps() []models.Entry {
	return []models.Entry{
		models.CallN("io", "format", IoFormat),
	}
}

// IoFormat returns ok with any number of arguments. Output is not modelled.
func IoFormat([]models.Arg) models.Model {
	return func(data models.Data, st *absdom.State) models.Branches {
		st, ok := values.MakeNamedAtom(st, data.Location, "ok")
		return models.Return(data, st, ok)
	}
}
