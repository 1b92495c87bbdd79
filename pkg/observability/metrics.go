package observability

import (
	"errors"

	"github.com/aretw0/qtext/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts toolbar activity per action and kind.
type Metrics struct {
	Dispatched *prometheus.CounterVec
	Rejected   *prometheus.CounterVec
	History    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qtext_actions_dispatched_total",
				Help: "Toolbar actions dispatched, by action, kind and whether the document changed.",
			},
			[]string{"action", "kind", "changed"},
		),
		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qtext_actions_rejected_total",
				Help: "Toolbar actions that failed, by action and reason.",
			},
			[]string{"action", "reason"},
		),
		History: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qtext_history_steps_total",
				Help: "Undo and redo requests, by operation and whether a step was applied.",
			},
			[]string{"op", "applied"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Dispatched, m.Rejected, m.History)
	}
	return m
}

// Hooks returns lifecycle hooks that feed the counters.
// Existing hooks in next still run after the counters are updated.
func (m *Metrics) Hooks(next domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(e *domain.DispatchEvent) {
			m.Dispatched.WithLabelValues(e.Action, string(e.Kind), boolLabel(e.Changed)).Inc()
			if next.OnDispatch != nil {
				next.OnDispatch(e)
			}
		},
		OnRejected: func(e *domain.DispatchEvent) {
			m.Rejected.WithLabelValues(e.Action, rejectReason(e.Err)).Inc()
			if next.OnRejected != nil {
				next.OnRejected(e)
			}
		},
		OnHistory: func(e *domain.HistoryEvent) {
			m.History.WithLabelValues(e.Op, boolLabel(e.Applied)).Inc()
			if next.OnHistory != nil {
				next.OnHistory(e)
			}
		},
	}
}

// rejectReason keeps label cardinality bounded.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidDispatch):
		return "invalid"
	case errors.Is(err, domain.ErrUnknownBlock), errors.Is(err, domain.ErrInvalidSelection):
		return "selection"
	case errors.Is(err, domain.ErrUnknownStyle):
		return "style"
	default:
		return "model"
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
