// Package driver runs straight-line programs of calls over the branches
// produced by the models. It stands in for the outer symbolic execution
// engine: every live branch is fed to the next step, fatal branches are
// kept as they are, and the final branches are reported.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/disj"
	"github.com/podhmo/symerl/models"
	"github.com/podhmo/symerl/rules"
)

// DefaultMaxBranches is the branch budget used when none is given.
const DefaultMaxBranches = 256

// Options configures a Driver.
type Options struct {
	Registry *models.Registry
	Logger   *slog.Logger
	// Parallelism bounds how many branches are explored at once.
	// Zero means GOMAXPROCS.
	Parallelism int
	// MaxBranches bounds the live branches kept after each step. Zero
	// means DefaultMaxBranches.
	MaxBranches int
	Metrics     *Metrics
}

// Driver executes steps against a registry of models.
type Driver struct {
	registry    *models.Registry
	logger      *slog.Logger
	parallelism int
	maxBranches int
	metrics     *Metrics
}

// New creates a driver.
func New(opts Options) *Driver {
	d := &Driver{
		registry:    opts.Registry,
		logger:      opts.Logger,
		parallelism: opts.Parallelism,
		maxBranches: opts.MaxBranches,
		metrics:     opts.Metrics,
	}
	if d.registry == nil {
		d.registry = models.NewRegistry()
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	if d.parallelism <= 0 {
		d.parallelism = runtime.GOMAXPROCS(0)
	}
	if d.maxBranches <= 0 {
		d.maxBranches = DefaultMaxBranches
	}
	return d
}

// Outcome is one final branch of a run.
type Outcome struct {
	ID          uuid.UUID
	Kind        disj.Kind
	State       *absdom.State
	Diagnostics []absdom.Diagnostic
}

// Report is the result of a run.
type Report struct {
	Outcomes []Outcome
	// Truncated counts the live branches dropped by the branch budget.
	Truncated int
}

// Live returns the outcomes that are not fatal.
func (r *Report) Live() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Kind != disj.Fatal {
			out = append(out, o)
		}
	}
	return out
}

// Errors returns the diagnostics that terminated a branch.
func (r *Report) Errors() []absdom.Diagnostic {
	var out []absdom.Diagnostic
	for _, o := range r.Outcomes {
		if o.Kind == disj.Fatal {
			out = append(out, o.Diagnostics[len(o.Diagnostics)-1])
		}
	}
	return out
}

// Run executes steps starting from st. It fails only on an invalid
// program or when ctx is done; analysis errors are reported as outcomes.
func (d *Driver) Run(ctx context.Context, st *absdom.State, steps []Step) (*Report, error) {
	if err := validate(st, steps); err != nil {
		return nil, fmt.Errorf("invalid program: %w", err)
	}

	report := &Report{}
	frontier := models.Branches{disj.Ok(st)}
	for i, step := range steps {
		next, err := d.step(ctx, i, step, frontier)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step, err)
		}
		frontier = d.budget(i, next, report)
		d.metrics.step()
	}

	for _, b := range frontier {
		o := Outcome{ID: uuid.New(), Kind: b.Kind(), Diagnostics: b.Diagnostics()}
		if v, ok := b.Value(); ok {
			o.State = v
		} else {
			o.State = b.FailedState()
		}
		d.metrics.outcome(o.Kind)
		d.logger.DebugContext(ctx, "outcome", "id", o.ID, "kind", o.Kind, "diagnostics", len(o.Diagnostics))
		report.Outcomes = append(report.Outcomes, o)
	}
	return report, nil
}

// step applies one step to every live branch, in parallel.
func (d *Driver) step(ctx context.Context, i int, step Step, frontier models.Branches) (models.Branches, error) {
	live := disj.Live(frontier)
	results := make([]models.Branches, len(live))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.parallelism)
	for j, st := range live {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[j] = d.apply(ctx, i, step, st)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	next := 0
	return disj.FanOut(frontier, func(*absdom.State) models.Branches {
		r := results[next]
		next++
		return r
	}), nil
}

func (d *Driver) apply(ctx context.Context, i int, step Step, st *absdom.State) models.Branches {
	switch s := step.(type) {
	case Assign:
		st, v := rules.Synthesize(st, s.Location, s.Value)
		v.Hist = v.Hist.Append(absdom.Event{Kind: absdom.Assignment, Desc: string(s.Ident), Location: s.Location, Timestamp: i})
		return models.Branches{disj.Ok(st.WriteID(s.Ident, v))}
	case Call:
		args := make([]models.Arg, len(s.Args))
		for k, id := range s.Args {
			v, ok := st.ReadID(id)
			if !ok {
				panic(fmt.Sprintf("driver: %q is not bound at step %d", id, i))
			}
			args[k] = v
		}
		data := models.Data{Location: s.Location, Path: models.PathContext{Timestamp: i}, Ret: s.Ret}
		model, entry, ok := d.registry.Lookup(s.Module, s.Function, args)
		if !ok {
			d.metrics.call("unmodeled")
			d.logger.DebugContext(ctx, "unmodeled call", "step", i, "call", s.String())
			return models.Return(data, st, absdom.FreshValue(s.Location, "result of "+s.String()))
		}
		d.metrics.call("model")
		d.logger.DebugContext(ctx, "apply model", "step", i, "call", s.String(), "model", entry.String())
		return model(data, st)
	default:
		panic(fmt.Sprintf("driver: unexpected step %T", step))
	}
}

// budget keeps every fatal branch and at most maxBranches live ones.
func (d *Driver) budget(i int, bs models.Branches, report *Report) models.Branches {
	out := make(models.Branches, 0, len(bs))
	live, dropped := 0, 0
	for _, b := range bs {
		if !b.IsFatal() {
			if live == d.maxBranches {
				dropped++
				continue
			}
			live++
		}
		out = append(out, b)
	}
	if dropped > 0 {
		report.Truncated += dropped
		d.metrics.truncate(dropped)
		d.logger.Warn("branch budget exceeded, dropping branches", "step", i, "kept", live, "dropped", dropped)
	}
	return out
}
