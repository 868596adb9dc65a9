package symerl

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/podhmo/symerl/driver"
	"github.com/podhmo/symerl/rules"
)

// DefaultMaxUnfoldDepth is the list unfolding bound used when none is given.
const DefaultMaxUnfoldDepth = 3

// Config holds the settings shared by the models and the driver.
type Config struct {
	// Logger is the shared logger for all components.
	Logger *slog.Logger

	// MaxUnfoldDepth bounds how many cons cells the list models unfold.
	// Longer lists produce no branch.
	MaxUnfoldDepth int

	// RulesPath is an optional JSON or YAML rules file. A file that cannot
	// be loaded is logged and ignored.
	RulesPath string

	// Rules are extra rules given in code. They take precedence over the
	// rules file.
	Rules []rules.Rule

	// Parallelism bounds how many branches the driver explores at once.
	Parallelism int

	// MaxBranches bounds the live branches kept after each step.
	MaxBranches int

	// Metrics receives the driver metrics. Nil disables them.
	Metrics prometheus.Registerer
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	if c.MaxUnfoldDepth <= 0 {
		c.MaxUnfoldDepth = DefaultMaxUnfoldDepth
	}
	if c.Parallelism <= 0 {
		c.Parallelism = runtime.GOMAXPROCS(0)
	}
	if c.MaxBranches <= 0 {
		c.MaxBranches = driver.DefaultMaxBranches
	}
	return c
}
