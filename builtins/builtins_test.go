package builtins

import (
	"testing"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/disj"
	"github.com/podhmo/symerl/models"
	"github.com/podhmo/symerl/symerltest"
	"github.com/podhmo/symerl/values"
)

const testDepth = 3

func newRunner(t *testing.T) *symerltest.Runner {
	return symerltest.NewRunner(t, Entries(testDepth)...)
}

func TestEntries_Unique(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range Entries(testDepth) {
		if e.Origin != Origin {
			t.Errorf("%s has origin %q", e.Selector, e.Origin)
		}
		key := e.Selector.String()
		if seen[key] {
			t.Errorf("%s is registered twice", key)
		}
		seen[key] = true
	}
}

func TestTypeTests(t *testing.T) {
	cases := []struct {
		name string
		fn   string
		arg  func(r *symerltest.Runner) models.Arg
		want []string
	}{
		{"is_list on list", "is_list", func(r *symerltest.Runner) models.Arg { return r.Ints(1) }, []string{"true"}},
		{"is_list on nil", "is_list", func(r *symerltest.Runner) models.Arg { return r.Ints() }, []string{"true"}},
		{"is_list on integer", "is_list", func(r *symerltest.Runner) models.Arg { return r.Int(1) }, []string{"false"}},
		{"is_list on unknown", "is_list", func(r *symerltest.Runner) models.Arg { return r.Unknown() }, []string{"true", "false"}},
		{"is_atom on atom", "is_atom", func(r *symerltest.Runner) models.Arg { return r.Atom("a") }, []string{"true"}},
		{"is_atom on integer", "is_atom", func(r *symerltest.Runner) models.Arg { return r.Int(1) }, []string{"false"}},
		{"is_integer on integer", "is_integer", func(r *symerltest.Runner) models.Arg { return r.Int(1) }, []string{"true"}},
		{"is_map on list", "is_map", func(r *symerltest.Runner) models.Arg { return r.Ints(1) }, []string{"false"}},
		{"is_boolean on true", "is_boolean", func(r *symerltest.Runner) models.Arg { return r.Atom("true") }, []string{"true"}},
		{"is_boolean on false", "is_boolean", func(r *symerltest.Runner) models.Arg { return r.Atom("false") }, []string{"true"}},
		{"is_boolean on foo", "is_boolean", func(r *symerltest.Runner) models.Arg { return r.Atom("foo") }, []string{"false"}},
		{"is_boolean on integer", "is_boolean", func(r *symerltest.Runner) models.Arg { return r.Int(1) }, []string{"false"}},
		// not an atom, the atom true, the atom false, another atom
		{"is_boolean on unknown", "is_boolean", func(r *symerltest.Runner) models.Arg { return r.Unknown() }, []string{"false", "true", "true", "false"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newRunner(t)
			bs := r.Apply("erlang", c.fn, c.arg(r))
			symerltest.AssertReturns(t, bs, c.want...)
		})
	}
}

func TestIsList_TrueBranchKeepsAlternatives(t *testing.T) {
	r := newRunner(t)
	x := r.Unknown()
	bs := r.Apply("erlang", "is_list", x)
	symerltest.AssertReturns(t, bs, "true", "false")
	r.Then(bs[0])

	symerltest.AssertReturns(t, r.Apply("erlang", "is_map", x), "false")
	symerltest.AssertReturns(t, r.Apply("erlang", "is_integer", x), "false")
	symerltest.AssertReturns(t, r.Apply("erlang", "is_list", x), "true")
}

func TestIsBoolean_PrunesEachBranch(t *testing.T) {
	r := newRunner(t)
	x := r.Unknown()
	bs := r.Apply("erlang", "is_boolean", x)
	if len(bs) != 4 {
		t.Fatalf("got %d branches, want 4", len(bs))
	}
	notAtom, _ := symerltest.Ret(t, bs[0])
	if _, ok := notAtom.AssumeType(x.Addr, absdom.Atom, true); ok {
		t.Error("the not-an-atom branch still allows an atom")
	}
	for _, b := range bs[1:] {
		st, _ := symerltest.Ret(t, b)
		if got := st.Type(x.Addr); got != absdom.Atom {
			t.Errorf("atom branch has type %s", got)
		}
	}
}

func TestComparisons(t *testing.T) {
	cases := []struct {
		name string
		fn   string
		args func(r *symerltest.Runner) (models.Arg, models.Arg)
		want []string
	}{
		{"atom == integer", "==", func(r *symerltest.Runner) (models.Arg, models.Arg) { return r.Atom("a"), r.Int(1) }, []string{"false"}},
		{"atom == same atom", "==", func(r *symerltest.Runner) (models.Arg, models.Arg) { return r.Atom("a"), r.Atom("a") }, []string{"true"}},
		{"atom =:= other atom", "=:=", func(r *symerltest.Runner) (models.Arg, models.Arg) { return r.Atom("a"), r.Atom("b") }, []string{"false"}},
		{"1 == 1", "==", func(r *symerltest.Runner) (models.Arg, models.Arg) { return r.Int(1), r.Int(1) }, []string{"true"}},
		{"1 /= 2", "/=", func(r *symerltest.Runner) (models.Arg, models.Arg) { return r.Int(1), r.Int(2) }, []string{"true"}},
		{"atom =/= integer", "=/=", func(r *symerltest.Runner) (models.Arg, models.Arg) { return r.Atom("a"), r.Int(1) }, []string{"true"}},
		{"unknown == unknown", "==", func(r *symerltest.Runner) (models.Arg, models.Arg) { return r.Unknown(), r.Unknown() }, []string{"true", "false"}},
		{"list == list", "==", func(r *symerltest.Runner) (models.Arg, models.Arg) { return r.Ints(1), r.Ints(2) }, []string{"true", "false"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newRunner(t)
			x, y := c.args(r)
			symerltest.AssertReturns(t, r.Apply("erlang", c.fn, x, y), c.want...)
		})
	}
}

func TestAppend(t *testing.T) {
	r := newRunner(t)
	bs := r.Apply("erlang", "++", r.Ints(1, 2), r.Ints(3))
	symerltest.AssertKinds(t, bs, disj.Success)
	symerltest.AssertReturns(t, bs, "[1, 2, 3]")

	bs = r.Apply("lists", "append", r.Ints(1, 2), r.Ints(3))
	symerltest.AssertReturns(t, bs, "[1, 2, 3]")
}

func TestAppend_BeyondDepth(t *testing.T) {
	r := symerltest.NewRunner(t, Entries(1)...)
	bs := r.Apply("erlang", "++", r.Ints(1, 2), r.Ints(3))
	if len(bs) != 0 {
		t.Errorf("got %d branches, want none", len(bs))
	}
}

func TestAppend_UnknownList(t *testing.T) {
	r := newRunner(t)
	bs := r.Apply("erlang", "++", r.Unknown(), r.Ints(3))
	if len(bs) != testDepth+1 {
		t.Fatalf("got %d branches, want %d", len(bs), testDepth+1)
	}
	symerltest.AssertReturns(t, bs[:1], "[3]")
}

func TestReverseAndLength(t *testing.T) {
	r := newRunner(t)
	symerltest.AssertReturns(t, r.Apply("lists", "reverse", r.Ints(1, 2, 3)), "[3, 2, 1]")
	symerltest.AssertReturns(t, r.Apply("erlang", "length", r.Ints(1, 2)), "2")
	symerltest.AssertReturns(t, r.Apply("erlang", "length", r.Int(5)))
}

func mapOf(t *testing.T, r *symerltest.Runner, kvs ...models.Arg) models.Arg {
	t.Helper()
	bs := r.Apply("maps", "new")
	r, m := r.Then(bs[0])
	for i := 0; i < len(kvs); i += 2 {
		bs = r.Apply("maps", "put", kvs[i], kvs[i+1], m)
		symerltest.AssertKinds(t, bs, disj.Success)
		r, m = r.Then(bs[0])
	}
	return m
}

func TestMapsGet_LastPut(t *testing.T) {
	r := newRunner(t)
	k1, k2 := r.Atom("k1"), r.Atom("k2")
	m := mapOf(t, r, k1, r.Int(1), k2, r.Int(2))

	bs := r.Apply("maps", "get", k2, m)
	symerltest.AssertKinds(t, bs, disj.Success)
	symerltest.AssertReturns(t, bs, "2")
}

func TestMapsGet_ForgottenKey(t *testing.T) {
	r := newRunner(t)
	k1, k2 := r.Atom("k1"), r.Atom("k2")
	m := mapOf(t, r, k1, r.Int(1), k2, r.Int(2))

	bs := r.Apply("maps", "get", k1, m)
	symerltest.AssertKinds(t, bs, disj.Recoverable)
	st, v := symerltest.Ret(t, bs[0])
	symerltest.AssertUnconstrained(t, st, v)
	diags := bs[0].Diagnostics()
	if len(diags) != 1 || diags[0].Kind != absdom.BadKey {
		t.Errorf("want one badkey diagnostic, got %v", diags)
	}
}

func TestMapsGet_UnknownKey(t *testing.T) {
	r := newRunner(t)
	m := mapOf(t, r, r.Atom("k"), r.Int(1))
	bs := r.Apply("maps", "get", r.Unknown(), m)
	symerltest.AssertKinds(t, bs, disj.Success, disj.Recoverable)
	symerltest.AssertReturns(t, bs[:1], "1")
}

func TestMapsGet_BranchesRememberKeyComparison(t *testing.T) {
	r := newRunner(t)
	k := r.Atom("k")
	m := mapOf(t, r, k, r.Int(1))
	key := r.Value(func(st *absdom.State, loc absdom.Location) (*absdom.State, absdom.ValueHist) {
		return values.MakeAtom(st, loc, nil)
	})

	bs := r.Apply("maps", "get", key, m)
	symerltest.AssertKinds(t, bs, disj.Success, disj.Recoverable)
	hit, _ := symerltest.Ret(t, bs[0])
	miss, _ := symerltest.Ret(t, bs[1])

	symerltest.AssertReturns(t, r.WithState(hit).Apply("erlang", "=:=", key, k), "true")
	symerltest.AssertReturns(t, r.WithState(miss).Apply("erlang", "=:=", key, k), "false")
	symerltest.AssertReturns(t, r.WithState(miss).Apply("erlang", "=/=", key, k), "true")
}

func TestMapsGet_Errors(t *testing.T) {
	t.Run("empty map", func(t *testing.T) {
		r := newRunner(t)
		bs := r.Apply("maps", "get", r.Atom("k"), mapOf(t, r))
		symerltest.AssertKinds(t, bs, disj.Fatal)
		symerltest.AssertFatal(t, bs[0], absdom.BadKey, "k", "empty")
	})
	t.Run("not a map", func(t *testing.T) {
		r := newRunner(t)
		bs := r.Apply("maps", "get", r.Atom("k"), r.Int(7))
		symerltest.AssertKinds(t, bs, disj.Fatal)
		symerltest.AssertFatal(t, bs[0], absdom.BadMap, "7")
	})
	t.Run("unknown", func(t *testing.T) {
		r := newRunner(t)
		bs := r.Apply("maps", "get", r.Unknown(), r.Unknown())
		symerltest.AssertKinds(t, bs, disj.Fatal, disj.Success, disj.Recoverable, disj.Fatal)
		symerltest.AssertFatal(t, bs[0], absdom.BadKey)
		symerltest.AssertFatal(t, bs[3], absdom.BadMap)
	})
}

func TestMapsIsKey(t *testing.T) {
	r := newRunner(t)
	k := r.Atom("k")
	m := mapOf(t, r, k, r.Int(1))
	symerltest.AssertReturns(t, r.Apply("maps", "is_key", k, m), "true")
	symerltest.AssertReturns(t, r.Apply("maps", "is_key", r.Atom("other"), m), "true", "false")
	symerltest.AssertReturns(t, r.Apply("maps", "is_key", k, mapOf(t, r)), "false")
}

func TestMapsPut_BadMap(t *testing.T) {
	r := newRunner(t)
	bs := r.Apply("maps", "put", r.Atom("k"), r.Int(1), r.Ints(1))
	symerltest.AssertKinds(t, bs, disj.Fatal)
	symerltest.AssertFatal(t, bs[0], absdom.BadMap, "[1]")
}

func TestIoFormat_AnyArity(t *testing.T) {
	r := newRunner(t)
	for _, args := range [][]models.Arg{
		{r.Atom("hello")},
		{r.Atom("~p~n"), r.Ints(1, 2)},
		{r.Unknown(), r.Atom("~p~n"), r.Ints()},
	} {
		bs := r.Apply("io", "format", args...)
		symerltest.AssertKinds(t, bs, disj.Success)
		symerltest.AssertReturns(t, bs, "ok")
	}
}

func TestErrorHelpers(t *testing.T) {
	for _, kind := range absdom.ErrorKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			r := newRunner(t)
			bs := r.Apply(ErrorModule, "error_"+kind.String())
			symerltest.AssertKinds(t, bs, disj.Fatal)
			symerltest.AssertFatal(t, bs[0], kind)
		})
	}

	r := newRunner(t)
	bs := r.Apply(ErrorModule, "error_badkey", r.Atom("missing"))
	symerltest.AssertFatal(t, bs[0], absdom.BadKey, "missing")
}
