// Package symerltest provides helpers for testing call models: a runner
// that looks models up the way the driver does, and assertions over the
// branches they produce.
package symerltest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/disj"
	"github.com/podhmo/symerl/models"
	"github.com/podhmo/symerl/values"
)

// RetSlot is the identifier Apply binds results to.
const RetSlot absdom.Ident = "Ret"

// Runner applies models from a registry to a state built up by the test.
type Runner struct {
	t        *testing.T
	registry *models.Registry
	state    *absdom.State
	loc      absdom.Location
}

// NewRunner creates a runner over a registry holding entries.
func NewRunner(t *testing.T, entries ...models.Entry) *Runner {
	t.Helper()
	return &Runner{
		t:        t,
		registry: models.NewRegistry(entries...),
		state:    absdom.New(),
		loc:      absdom.Location{File: t.Name() + ".erl", Line: 1},
	}
}

// Registry returns the registry the runner looks models up in.
func (r *Runner) Registry() *models.Registry { return r.registry }

// State returns the state the next Apply starts from.
func (r *Runner) State() *absdom.State { return r.state }

// Location returns the call site used for constructed values and calls.
func (r *Runner) Location() absdom.Location { return r.loc }

// WithState replaces the state the next Apply starts from.
func (r *Runner) WithState(st *absdom.State) *Runner {
	r.state = st
	return r
}

// Value constructs an argument in the runner's state.
func (r *Runner) Value(build func(st *absdom.State, loc absdom.Location) (*absdom.State, absdom.ValueHist)) models.Arg {
	r.t.Helper()
	st, v := build(r.state, r.loc)
	r.state = st
	return v
}

// Atom constructs the atom name.
func (r *Runner) Atom(name string) models.Arg {
	r.t.Helper()
	return r.Value(func(st *absdom.State, loc absdom.Location) (*absdom.State, absdom.ValueHist) {
		return values.MakeNamedAtom(st, loc, name)
	})
}

// Int constructs the integer n.
func (r *Runner) Int(n int64) models.Arg {
	r.t.Helper()
	return r.Value(func(st *absdom.State, loc absdom.Location) (*absdom.State, absdom.ValueHist) {
		return values.MakeInt(st, loc, n)
	})
}

// Ints constructs a proper list of integers.
func (r *Runner) Ints(ns ...int64) models.Arg {
	r.t.Helper()
	elems := make([]absdom.ValueHist, len(ns))
	for i, n := range ns {
		elems[i] = r.Int(n)
	}
	return r.Value(func(st *absdom.State, loc absdom.Location) (*absdom.State, absdom.ValueHist) {
		return values.MakeList(st, loc, elems)
	})
}

// Unknown returns an argument nothing is known about.
func (r *Runner) Unknown() models.Arg {
	return absdom.FreshValue(r.loc, "unknown")
}

// Apply looks up module:function for args and runs the model, binding the
// result to RetSlot. The test fails if no model matches.
func (r *Runner) Apply(module, function string, args ...models.Arg) models.Branches {
	r.t.Helper()
	model, entry, ok := r.registry.Lookup(module, function, args)
	if !ok {
		r.t.Fatalf("no model for %s:%s/%d", module, function, len(args))
	}
	r.t.Logf("apply %s", entry)
	return model(models.Data{Location: r.loc, Ret: RetSlot}, r.state)
}

// Then continues from a live branch, typically to feed a result into the
// next call.
func (r *Runner) Then(b disj.Result[*absdom.State]) (*Runner, models.Arg) {
	r.t.Helper()
	st, ok := b.Value()
	if !ok {
		d, _ := b.FatalDiagnostic()
		r.t.Fatalf("cannot continue from a fatal branch: %s", d)
	}
	ret, ok := st.ReadID(RetSlot)
	if !ok {
		r.t.Fatalf("%s is not bound", RetSlot)
	}
	r.state = st
	return r, ret
}

// WriteFiles creates a temporary directory and populates it with files.
func WriteFiles(t *testing.T, files map[string]string) (string, func()) {
	t.Helper()
	dir := t.TempDir()

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll(%q): %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile(%q): %v", path, err)
		}
	}
	return dir, func() { /* t.TempDir handles cleanup */ }
}
