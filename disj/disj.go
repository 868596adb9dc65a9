// Package disj threads case splits and two-tier error reporting through
// chains of state transformations.
//
// A computation produces a finite list of branches. Each branch is a
// Success, a RecoverableFailure (the value is kept, diagnostics are
// attached, exploration continues) or a FatalFailure (the branch ends with
// a diagnostic).
package disj

import "github.com/podhmo/symerl/absdom"

// Kind tags a branch.
type Kind int

const (
	Success Kind = iota
	Recoverable
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Recoverable:
		return "recoverable"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Result is one branch of a computation producing a T.
type Result[T any] struct {
	kind  Kind
	value T
	diags []absdom.Diagnostic
	// state at the point of a fatal failure, kept for reporting.
	failed *absdom.State
}

// Ok returns a successful branch.
func Ok[T any](v T) Result[T] {
	return Result[T]{kind: Success, value: v}
}

// Recover returns a branch that carries on with v but records diags.
func Recover[T any](v T, diags ...absdom.Diagnostic) Result[T] {
	if len(diags) == 0 {
		return Ok(v)
	}
	return Result[T]{kind: Recoverable, value: v, diags: append([]absdom.Diagnostic(nil), diags...)}
}

// Fail returns a terminal branch. st is the state in which the failure
// was detected.
func Fail[T any](st *absdom.State, d absdom.Diagnostic) Result[T] {
	return Result[T]{kind: Fatal, diags: []absdom.Diagnostic{d}, failed: st}
}

// Kind returns the tag of the branch.
func (r Result[T]) Kind() Kind { return r.kind }

// IsFatal reports whether the branch has terminated.
func (r Result[T]) IsFatal() bool { return r.kind == Fatal }

// Value returns the carried value; ok is false for a fatal branch.
func (r Result[T]) Value() (T, bool) {
	if r.kind == Fatal {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Diagnostics returns every diagnostic accumulated along the branch. For a
// fatal branch the terminating diagnostic is last.
func (r Result[T]) Diagnostics() []absdom.Diagnostic {
	return append([]absdom.Diagnostic(nil), r.diags...)
}

// FatalDiagnostic returns the diagnostic that terminated the branch.
func (r Result[T]) FatalDiagnostic() (absdom.Diagnostic, bool) {
	if r.kind != Fatal || len(r.diags) == 0 {
		return absdom.Diagnostic{}, false
	}
	return r.diags[len(r.diags)-1], true
}

// FailedState returns the state a fatal branch stopped in.
func (r Result[T]) FailedState() *absdom.State { return r.failed }

// withPrior prepends diagnostics accumulated before r was produced. A
// success that inherits diagnostics becomes recoverable.
func (r Result[T]) withPrior(prior []absdom.Diagnostic) Result[T] {
	if len(prior) == 0 {
		return r
	}
	out := r
	out.diags = make([]absdom.Diagnostic, 0, len(prior)+len(r.diags))
	out.diags = append(out.diags, prior...)
	out.diags = append(out.diags, r.diags...)
	if out.kind == Success {
		out.kind = Recoverable
	}
	return out
}

func retag[A, B any](r Result[A]) Result[B] {
	return Result[B]{kind: Fatal, diags: r.diags, failed: r.failed}
}

// Bind chains a single-branch step. A fatal branch is returned as is and
// f is not called; otherwise f runs and diagnostics flow forward.
func Bind[A, B any](r Result[A], f func(A) Result[B]) Result[B] {
	if r.kind == Fatal {
		return retag[A, B](r)
	}
	return f(r.value).withPrior(r.diags)
}

// FanOut applies f to every live branch and concatenates what it returns,
// in order. Fatal branches pass through untouched.
func FanOut[A, B any](rs []Result[A], f func(A) []Result[B]) []Result[B] {
	out := make([]Result[B], 0, len(rs))
	for _, r := range rs {
		if r.kind == Fatal {
			out = append(out, retag[A, B](r))
			continue
		}
		for _, next := range f(r.value) {
			out = append(out, next.withPrior(r.diags))
		}
	}
	return out
}

// Oks wraps every value in a successful branch.
func Oks[T any](vs ...T) []Result[T] {
	out := make([]Result[T], len(vs))
	for i, v := range vs {
		out[i] = Ok(v)
	}
	return out
}

// Live returns the values of the non-fatal branches.
func Live[T any](rs []Result[T]) []T {
	var out []T
	for _, r := range rs {
		if v, ok := r.Value(); ok {
			out = append(out, v)
		}
	}
	return out
}

// Diagnostics collects every diagnostic of every branch.
func Diagnostics[T any](rs []Result[T]) []absdom.Diagnostic {
	var out []absdom.Diagnostic
	for _, r := range rs {
		out = append(out, r.diags...)
	}
	return out
}
