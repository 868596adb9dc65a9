package symerl

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/builtins"
	"github.com/podhmo/symerl/driver"
	"github.com/podhmo/symerl/models"
	"github.com/podhmo/symerl/rules"
	"github.com/podhmo/symerl/symerltest"
	"github.com/podhmo/symerl/values"
)

func TestConfig_Defaults(t *testing.T) {
	c := Config{}.withDefaults()
	if c.Logger == nil {
		t.Error("Logger should default to a logger")
	}
	if c.MaxUnfoldDepth != DefaultMaxUnfoldDepth {
		t.Errorf("MaxUnfoldDepth = %d, want %d", c.MaxUnfoldDepth, DefaultMaxUnfoldDepth)
	}
	if c.Parallelism <= 0 || c.MaxBranches != driver.DefaultMaxBranches {
		t.Errorf("unexpected defaults %+v", c)
	}
}

func TestNew_RulesOverrideBuiltins(t *testing.T) {
	dir, cleanup := symerltest.WriteFiles(t, map[string]string{
		"rules.yaml": `
- selector: "erlang:length/1"
  behavior: {ReturnValue: {IntLit: "42"}}
- selector: "m:f/2"
  behavior: {ReturnValue: {Tuple: [{Atom: ok}, null]}}
`,
	})
	defer cleanup()
	path := filepath.Join(dir, "rules.yaml")

	a := New(Config{RulesPath: path})

	_, e, ok := a.Registry().Lookup("erlang", "length", make([]models.Arg, 1))
	if !ok || e.Origin != path {
		t.Errorf("erlang:length/1 resolved to %v (found=%v), want the rule", e, ok)
	}
	_, e, ok = a.Registry().Lookup("erlang", "is_list", make([]models.Arg, 1))
	if !ok || e.Origin != builtins.Origin {
		t.Errorf("erlang:is_list/1 resolved to %v (found=%v), want the builtin", e, ok)
	}

	report, err := a.Run(context.Background(), []driver.Step{
		driver.Assign{Ident: "A", Value: rules.Nondet{}},
		driver.Call{Module: "m", Function: "f", Args: []absdom.Ident{"A", "A"}, Ret: "R"},
		driver.Call{Module: "erlang", Function: "length", Args: []absdom.Ident{"A"}, Ret: "N"},
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(report.Outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(report.Outcomes))
	}
	st := report.Outcomes[0].State
	r, _ := st.ReadID("R")
	if got := values.Describe(st, r.Addr); !strings.HasPrefix(got, "{ok, ") {
		t.Errorf("R = %s, want {ok, _}", got)
	}
	n, _ := st.ReadID("N")
	symerltest.AssertInteger(t, st, n, 42)
}

func TestRunWithRules_Scoped(t *testing.T) {
	a := New(Config{Rules: []rules.Rule{{Selector: models.MFA("m", "f", 0), Return: rules.Integer(1)}}})
	before := a.Registry().Len()
	steps := []driver.Step{driver.Call{Module: "m", Function: "f", Ret: "R"}}

	scoped := []rules.Rule{
		{Selector: models.MFA("m", "f", 0), Return: rules.Integer(2)},
		{Selector: models.MFA("m", "g", 0), Raise: absdom.BadMatch},
	}
	report, err := a.RunWithRules(context.Background(), scoped, steps)
	if err != nil {
		t.Fatalf("RunWithRules() failed: %v", err)
	}
	if len(report.Outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(report.Outcomes))
	}
	st := report.Outcomes[0].State
	r, _ := st.ReadID("R")
	symerltest.AssertInteger(t, st, r, 2)

	if got := a.Registry().Len(); got != before {
		t.Errorf("registry has %d entries after the run, want %d", got, before)
	}
	if _, e, _ := a.Registry().Lookup("m", "g", nil); e.Origin == ScopedOrigin {
		t.Error("scoped rule m:g/0 is still registered")
	}

	report, err = a.Run(context.Background(), steps)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	st = report.Outcomes[0].State
	r, _ = st.ReadID("R")
	symerltest.AssertInteger(t, st, r, 1)
}

func TestNew_MalformedRulesKeepBuiltins(t *testing.T) {
	dir, cleanup := symerltest.WriteFiles(t, map[string]string{"rules.json": `[{"selector": 1}]`})
	defer cleanup()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	a := New(Config{Logger: logger, RulesPath: filepath.Join(dir, "rules.json")})

	if got, want := a.Registry().Len(), len(builtins.Entries(DefaultMaxUnfoldDepth)); got != want {
		t.Errorf("registry has %d entries, want only the %d builtins", got, want)
	}
	if !strings.Contains(buf.String(), "ignoring malformed rules configuration") {
		t.Errorf("expected a warning, got %q", buf.String())
	}

	report, err := a.Run(context.Background(), []driver.Step{
		driver.Assign{Ident: "X", Value: rules.NamedAtom("true")},
		driver.Call{Module: "erlang", Function: "is_boolean", Args: []absdom.Ident{"X"}, Ret: "B"},
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(report.Outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(report.Outcomes))
	}
	st := report.Outcomes[0].State
	b, _ := st.ReadID("B")
	symerltest.AssertAtom(t, st, b, "true")
}

func TestNew_ConfigRulesAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(Config{
		Metrics:        reg,
		MaxUnfoldDepth: 1,
		Rules: []rules.Rule{
			{Selector: models.MFA("m", "g", 0), Return: rules.Integer(5)},
		},
	})
	report, err := a.Run(context.Background(), []driver.Step{
		driver.Call{Module: "m", Function: "g", Ret: "X"},
		driver.Assign{Ident: "L", Value: rules.List{Elems: []rules.Value{rules.Integer(1), rules.Integer(2)}}},
		driver.Call{Module: "lists", Function: "reverse", Args: []absdom.Ident{"L"}, Ret: "R"},
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	// a two element list is beyond the unfold depth
	if len(report.Outcomes) != 0 {
		t.Errorf("got %d outcomes, want none", len(report.Outcomes))
	}
	if n, err := testutil.GatherAndCount(reg, "symerl_driver_steps_total"); err != nil || n != 1 {
		t.Errorf("steps_total series = %d (err=%v), want 1", n, err)
	}
}
