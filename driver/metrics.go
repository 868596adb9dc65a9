package driver

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/podhmo/symerl/disj"
)

const (
	metricsNamespace = "symerl"
	metricsSubsystem = "driver"
)

// Metrics counts what the driver does. A nil *Metrics records nothing.
type Metrics struct {
	steps     prometheus.Counter
	calls     *prometheus.CounterVec
	outcomes  *prometheus.CounterVec
	truncated prometheus.Counter
}

// NewMetrics creates the driver metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "steps_total",
			Help:      "Steps executed, counted once per step and run.",
		}),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "calls_total",
			Help:      "Calls applied to a branch, by how they were resolved.",
		}, []string{"resolution"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "outcomes_total",
			Help:      "Final branches of a run, by kind.",
		}, []string{"kind"}),
		truncated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "truncated_branches_total",
			Help:      "Live branches dropped by the branch budget.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.steps, m.calls, m.outcomes, m.truncated)
	}
	return m
}

func (m *Metrics) step() {
	if m != nil {
		m.steps.Inc()
	}
}

func (m *Metrics) call(resolution string) {
	if m != nil {
		m.calls.WithLabelValues(resolution).Inc()
	}
}

func (m *Metrics) outcome(kind disj.Kind) {
	if m != nil {
		m.outcomes.WithLabelValues(kind.String()).Inc()
	}
}

func (m *Metrics) truncate(n int) {
	if m != nil && n > 0 {
		m.truncated.Add(float64(n))
	}
}
