package driver

import (
	"fmt"
	"strings"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/rules"
)

// Step is one instruction of a straight-line program.
type Step interface {
	isStep()
	fmt.Stringer
}

// Assign binds Ident to a fresh value described by Value.
type Assign struct {
	Ident    absdom.Ident
	Value    rules.Value
	Location absdom.Location
}

// Call binds Ret to the result of Module:Function(Args...).
type Call struct {
	Module   string
	Function string
	Args     []absdom.Ident
	Ret      absdom.Ident
	Location absdom.Location
}

func (Assign) isStep() {}
func (Call) isStep()   {}

func (s Assign) String() string {
	return fmt.Sprintf("%s = %T", s.Ident, s.Value)
}

func (s Call) String() string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = string(a)
	}
	return fmt.Sprintf("%s = %s:%s(%s)", s.Ret, s.Module, s.Function, strings.Join(args, ", "))
}

// validate checks that every identifier is bound before it is read.
func validate(st *absdom.State, steps []Step) error {
	bound := map[absdom.Ident]bool{}
	for _, id := range st.IDs() {
		bound[id] = true
	}
	for i, step := range steps {
		switch s := step.(type) {
		case Assign:
			bound[s.Ident] = true
		case Call:
			for _, a := range s.Args {
				if !bound[a] {
					return fmt.Errorf("step %d (%s): %q is not bound", i, s, a)
				}
			}
			bound[s.Ret] = true
		case nil:
			return fmt.Errorf("step %d: nil step", i)
		}
	}
	return nil
}
