package observability

import (
	"context"

	"github.com/aretw0/immense/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for renders.
type Metrics struct {
	Renders  *prometheus.CounterVec
	Meshes   prometheus.Counter
	Vertices prometheus.Counter
	Duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "immense_renders_total",
				Help: "Total number of renders by outcome",
			},
			[]string{"status"},
		),
		Meshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "immense_meshes_total",
			Help: "Total number of meshes written",
		}),
		Vertices: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "immense_vertices_total",
			Help: "Total number of vertices written",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "immense_render_duration_seconds",
			Help:    "Duration of renders",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	for _, c := range []prometheus.Collector{m.Renders, m.Meshes, m.Vertices, m.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks records every finished render.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRenderEnd: func(ctx context.Context, e *domain.RenderEvent) {
			status := "ok"
			if e.Err != nil {
				status = "error"
			}
			m.Renders.WithLabelValues(status).Inc()
			m.Meshes.Add(float64(e.Meshes))
			m.Vertices.Add(float64(e.Vertices))
			m.Duration.Observe(e.Duration.Seconds())
		},
	}
}
