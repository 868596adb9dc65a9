package symerltest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/disj"
	"github.com/podhmo/symerl/models"
	"github.com/podhmo/symerl/values"
)

// Ret returns the state of a live branch and the value bound to RetSlot.
func Ret(t *testing.T, b disj.Result[*absdom.State]) (*absdom.State, absdom.ValueHist) {
	t.Helper()
	st, ok := b.Value()
	if !ok {
		d, _ := b.FatalDiagnostic()
		t.Fatalf("expected a live branch, but got fatal: %s", d)
	}
	v, ok := st.ReadID(RetSlot)
	if !ok {
		t.Fatalf("%s is not bound", RetSlot)
	}
	return st, v
}

// Described renders the return value of every live branch, in order.
func Described(t *testing.T, bs models.Branches) []string {
	t.Helper()
	var out []string
	for _, b := range bs {
		if b.IsFatal() {
			continue
		}
		st, v := Ret(t, b)
		out = append(out, values.Describe(st, v.Addr))
	}
	return out
}

// AssertKinds fails the test unless the branches have exactly the given
// kinds, in order.
func AssertKinds(t *testing.T, bs models.Branches, want ...disj.Kind) {
	t.Helper()
	got := make([]disj.Kind, len(bs))
	for i, b := range bs {
		got[i] = b.Kind()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("branch kinds mismatch (-want +got):\n%s", diff)
	}
}

// AssertReturns fails the test unless the live branches return values
// rendering as want, in order.
func AssertReturns(t *testing.T, bs models.Branches, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, Described(t, bs)); diff != "" {
		t.Errorf("return values mismatch (-want +got):\n%s", diff)
	}
}

// AssertAtom fails the test if v is not the atom name.
func AssertAtom(t *testing.T, st *absdom.State, v absdom.ValueHist, name string) {
	t.Helper()
	if typ := st.Type(v.Addr); typ != absdom.Atom {
		t.Fatalf("value is not an atom. got=%s (%s)", typ, values.Describe(st, v.Addr))
	}
	if got := values.Describe(st, v.Addr); got != name {
		t.Errorf("atom has wrong name. want=%q, got=%q", name, got)
	}
}

// AssertInteger fails the test if v is not the integer n.
func AssertInteger(t *testing.T, st *absdom.State, v absdom.ValueHist, n int64) {
	t.Helper()
	if typ := st.Type(v.Addr); typ != absdom.Integer {
		t.Fatalf("value is not an integer. got=%s (%s)", typ, values.Describe(st, v.Addr))
	}
	vv, ok := st.PeekField(v.Addr, absdom.Integer, values.FieldIntValue)
	if !ok {
		t.Fatalf("integer %s has no value", v.Addr)
	}
	got, ok := st.IntConst(vv.Addr)
	if !ok {
		t.Fatalf("integer %s is not a constant", v.Addr)
	}
	if !got.IsInt64() || got.Int64() != n {
		t.Errorf("integer has wrong value. want=%d, got=%s", n, got)
	}
}

// AssertUnconstrained fails the test if anything is known about the type
// of v.
func AssertUnconstrained(t *testing.T, st *absdom.State, v absdom.ValueHist) {
	t.Helper()
	if typ := st.Type(v.Addr); !typ.IsAny() {
		t.Errorf("value should be unconstrained, but has type %s (%s)", typ, values.Describe(st, v.Addr))
	}
}

// AssertFatal fails the test unless b is fatal with the given kind. If
// contains is given, the diagnostic message must contain each of them.
func AssertFatal(t *testing.T, b disj.Result[*absdom.State], kind absdom.ErrorKind, contains ...string) {
	t.Helper()
	d, ok := b.FatalDiagnostic()
	if !ok {
		t.Fatalf("expected a fatal %s, but the branch is %s", kind, b.Kind())
	}
	if d.Kind != kind {
		t.Errorf("diagnostic has wrong kind. want=%s, got=%s", kind, d.Kind)
	}
	for _, c := range contains {
		if !strings.Contains(d.Message, c) {
			t.Errorf("diagnostic message %q does not contain %q", d.Message, c)
		}
	}
}
