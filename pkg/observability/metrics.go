package observability

import (
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/aretw0/flowforge/pkg/graph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects block lifecycle metrics.
type Metrics struct {
	transitions *prometheus.CounterVec
	state       *prometheus.GaugeVec
	steps       *prometheus.HistogramVec
	failures    *prometheus.CounterVec
}

var _ graph.StateListener = (*Metrics)(nil)

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowforge_block_transitions_total",
				Help: "Total number of block state writes",
			},
			[]string{"block_type", "state"},
		),
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flowforge_block_state",
				Help: "Current state of each block (1 for the active state)",
			},
			[]string{"block_id", "state"},
		),
		steps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flowforge_block_step_duration_seconds",
				Help:    "Duration of block invocations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"block_type"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowforge_block_step_failures_total",
				Help: "Total number of failed block invocations",
			},
			[]string{"block_type"},
		),
	}

	var err error
	if m.transitions, err = register(reg, m.transitions); err != nil {
		return nil, err
	}
	if m.state, err = register(reg, m.state); err != nil {
		return nil, err
	}
	if m.steps, err = register(reg, m.steps); err != nil {
		return nil, err
	}
	if m.failures, err = register(reg, m.failures); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg. When an equal collector is already registered, that one is returned
// so several engines in one process feed the same series.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// OnStateChanged implements graph.StateListener.
func (m *Metrics) OnStateChanged(e domain.StateChangeEvent) {
	m.transitions.WithLabelValues(e.BlockType, e.State.String()).Inc()
	for _, s := range domain.NodeStates {
		v := 0.0
		if s == e.State {
			v = 1
		}
		m.state.WithLabelValues(e.BlockID, s.String()).Set(v)
	}
}

// ObserveStep records one block invocation.
func (m *Metrics) ObserveStep(blockType string, d time.Duration, err error) {
	m.steps.WithLabelValues(blockType).Observe(d.Seconds())
	if err != nil {
		m.failures.WithLabelValues(blockType).Inc()
	}
}

// Handler exposes the series of gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
