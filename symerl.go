// Package symerl assembles the models of a dynamically typed language
// with atoms, integers, lists, tuples and maps into an analyzer: built-in
// models, user rules on top of them, and a driver that runs programs of
// calls over the resulting branches.
package symerl

import (
	"context"

	"github.com/podhmo/symerl/absdom"
	"github.com/podhmo/symerl/builtins"
	"github.com/podhmo/symerl/driver"
	"github.com/podhmo/symerl/models"
	"github.com/podhmo/symerl/rules"
)

// ScopedOrigin marks the rules passed to RunWithRules.
const ScopedOrigin = "scoped"

// Analyzer runs programs against the configured models.
type Analyzer struct {
	config   Config
	registry *models.Registry
	driver   *driver.Driver
}

// New creates an analyzer. Built-in models form the base layer of the
// registry; rules are pushed on top so they win over built-ins with the
// same selector.
func New(config Config) *Analyzer {
	config = config.withDefaults()
	logger := config.Logger

	registry := models.NewRegistry(builtins.Entries(config.MaxUnfoldDepth)...)
	registry.Push()
	registry.Register(rules.Entries(config.Rules, "config")...)
	if config.RulesPath != "" {
		registry.Register(rules.Load(config.RulesPath, logger)...)
	}
	logger.Debug("models registered", "count", registry.Len())

	var metrics *driver.Metrics
	if config.Metrics != nil {
		metrics = driver.NewMetrics(config.Metrics)
	}
	return &Analyzer{
		config:   config,
		registry: registry,
		driver: driver.New(driver.Options{
			Registry:    registry,
			Logger:      logger,
			Parallelism: config.Parallelism,
			MaxBranches: config.MaxBranches,
			Metrics:     metrics,
		}),
	}
}

// Config returns the effective configuration.
func (a *Analyzer) Config() Config { return a.config }

// Registry returns the models in lookup order.
func (a *Analyzer) Registry() *models.Registry { return a.registry }

// Run executes steps from the empty state.
func (a *Analyzer) Run(ctx context.Context, steps []driver.Step) (*driver.Report, error) {
	return a.driver.Run(ctx, absdom.New(), steps)
}

// RunWithRules is Run with rs layered over the configured models for the
// duration of the run. It must not overlap another run on a.
func (a *Analyzer) RunWithRules(ctx context.Context, rs []rules.Rule, steps []driver.Step) (*driver.Report, error) {
	a.registry.Push()
	defer a.registry.Pop()
	a.registry.Register(rules.Entries(rs, ScopedOrigin)...)
	return a.Run(ctx, steps)
}
