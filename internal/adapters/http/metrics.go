package http

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arvel0/canopy/pkg/domain"
)

// Metrics holds the Prometheus collectors for a serving host.
type Metrics struct {
	registry        *prometheus.Registry
	nodeInvocations *prometheus.CounterVec
	modelDuration   *prometheus.HistogramVec
}

// NewMetrics builds the collector set on its own registry so tests can run
// servers side by side.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		nodeInvocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "canopy_node_invocations_total",
				Help: "Total number of node invocations",
			},
			[]string{"node", "status"},
		),
		modelDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "canopy_model_call_duration_seconds",
				Help: "Duration of model API calls",
			},
			[]string{"model"},
		),
	}
	m.registry.MustRegister(m.nodeInvocations, m.modelDuration)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors. Wire them into the
// host with canopy.WithLifecycleHooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeReturn: func(ctx context.Context, e *domain.NodeEvent) {
			status := "ok"
			if e.IsError {
				status = "error"
			}
			m.nodeInvocations.WithLabelValues(e.Node, status).Inc()
		},
		OnModelReturn: func(ctx context.Context, e *domain.ModelEvent) {
			m.modelDuration.WithLabelValues(e.Model).Observe(e.Elapsed.Seconds())
		},
	}
}
