// Package models defines the uniform shape of call models and the ordered
// registry the driver consults to find one.
package models

import (
	"fmt"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/disj"
	"github.com/podhmo/symerl/values"
)

// PathContext is the path-sensitivity token of the call being modelled.
type PathContext struct {
	Timestamp int
}

// Data describes the call site a model is applied at.
type Data struct {
	Location absdom.Location
	Path     PathContext
	// Ret is the slot the model writes its result to.
	Ret absdom.Ident
}

// Branches is the outcome of a model: one entry per disjoint branch.
type Branches = []disj.Result[*absdom.State]

// Model computes the effect of a call on st.
type Model func(data Data, st *absdom.State) Branches

// Arg is an evaluated call argument.
type Arg = absdom.ValueHist

// Entry binds a selector to a model. Bind receives the call arguments
// positionally; the registry only calls it with as many arguments as the
// selector accepts.
type Entry struct {
	Selector Selector
	Bind     func(args []Arg) Model
	// Origin says where the entry came from, e.g. "builtin" or a file name.
	Origin string
}

func (e Entry) String() string {
	if e.Origin == "" {
		return e.Selector.String()
	}
	return fmt.Sprintf("%s (%s)", e.Selector, e.Origin)
}

// Call0 registers a model of module:function/0.
func Call0(module, function string, f func() Model) Entry {
	return Entry{Selector: MFA(module, function, 0), Bind: func([]Arg) Model { return f() }}
}

// Call1 registers a model of module:function/1.
func Call1(module, function string, f func(Arg) Model) Entry {
	return Entry{Selector: MFA(module, function, 1), Bind: func(args []Arg) Model { return f(args[0]) }}
}

// Call2 registers a model of module:function/2.
func Call2(module, function string, f func(Arg, Arg) Model) Entry {
	return Entry{Selector: MFA(module, function, 2), Bind: func(args []Arg) Model { return f(args[0], args[1]) }}
}

// Call3 registers a model of module:function/3.
func Call3(module, function string, f func(Arg, Arg, Arg) Model) Entry {
	return Entry{Selector: MFA(module, function, 3), Bind: func(args []Arg) Model { return f(args[0], args[1], args[2]) }}
}

// CallN registers a model of module:function with any arity.
func CallN(module, function string, f func([]Arg) Model) Entry {
	return Entry{Selector: AnyArity(module, function), Bind: f}
}

// Return binds v to the return slot in a single successful branch.
func Return(data Data, st *absdom.State, v absdom.ValueHist) Branches {
	return Branches{disj.Ok(st.WriteID(data.Ret, withCall(data, v)))}
}

// ReturnAll binds each constructed value to the return slot of its own
// branch.
func ReturnAll(data Data, made []values.Made) Branches {
	states := make([]*absdom.State, len(made))
	for i, m := range made {
		states[i] = m.State.WriteID(data.Ret, withCall(data, m.Value))
	}
	return disj.Oks(states...)
}

// ReturnBool boxes the internal boolean b into the atoms true and false,
// one branch per feasible outcome.
func ReturnBool(data Data, st *absdom.State, b absdom.Addr) Branches {
	return ReturnAll(data, values.OfBool(st, data.Location, b))
}

// ReturnKnownBool returns the atom true or false.
func ReturnKnownBool(data Data, st *absdom.State, b bool) Branches {
	st, v := values.MakeBool(st, data.Location, b)
	return Return(data, st, v)
}

// Fail terminates the branch with a diagnostic of the given kind.
func Fail(data Data, st *absdom.State, kind absdom.ErrorKind, msg string, trace absdom.History) Branches {
	return Branches{disj.Fail[*absdom.State](st, Diagnostic(data, kind, msg, trace))}
}

// Diagnostic builds a diagnostic located at the call site.
func Diagnostic(data Data, kind absdom.ErrorKind, msg string, trace absdom.History) absdom.Diagnostic {
	return absdom.Diagnostic{Kind: kind, Location: data.Location, Message: msg, Trace: trace}
}

func withCall(data Data, v absdom.ValueHist) absdom.ValueHist {
	v.Hist = v.Hist.Append(absdom.Event{
		Kind:      absdom.Call,
		Desc:      string(data.Ret),
		Location:  data.Location,
		Timestamp: data.Path.Timestamp,
	})
	return v
}
