package observability

import (
	"context"
	"errors"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records evaluation counters. Wire it into an automaton with
// delta.WithLifecycleHooks(m.Hooks()).
type Metrics struct {
	runs     *prometheus.CounterVec
	steps    *prometheus.CounterVec
	consumed *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors already registered by an earlier call are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "delta_runs_total",
				Help: "Total number of evaluations by verdict",
			},
			[]string{"automaton", "verdict"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "delta_steps_total",
				Help: "Total number of symbols read by outcome",
			},
			[]string{"automaton", "outcome"},
		),
		consumed: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "delta_symbols_consumed",
				Help:    "Symbols consumed per evaluation",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"automaton"},
		),
	}

	var err error
	if m.runs, err = register(reg, m.runs); err != nil {
		return nil, err
	}
	if m.steps, err = register(reg, m.steps); err != nil {
		return nil, err
	}
	if m.consumed, err = register(reg, m.consumed); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.steps.WithLabelValues(e.Automaton, string(e.Step.Outcome)).Inc()
		},
		OnVerdict: func(_ context.Context, e *domain.VerdictEvent) {
			m.runs.WithLabelValues(e.Automaton, e.Result.Verdict.String()).Inc()
			m.consumed.WithLabelValues(e.Automaton).Observe(float64(e.Result.Consumed))
		},
	}
}
