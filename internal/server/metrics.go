package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"visitmap/internal/render"
)

type metrics struct {
	renders  *prometheus.CounterVec
	features *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visitmap_renders_total",
				Help: "Total number of render passes",
			},
			[]string{"format"},
		),
		features: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visitmap_features_total",
				Help: "Features seen by render passes, by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "visitmap_render_duration_seconds",
				Help:    "Duration of render passes",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"format"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visitmap_cache_lookups_total",
				Help: "Document cache lookups",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.renders, m.features, m.duration, m.cache)
	return m
}

func (m *metrics) observe(format string, st render.Stats, took time.Duration) {
	m.renders.WithLabelValues(format).Inc()
	m.duration.WithLabelValues(format).Observe(took.Seconds())
	m.features.WithLabelValues("rendered").Add(float64(st.Rendered))
	m.features.WithLabelValues("skipped").Add(float64(st.Skipped))
	m.features.WithLabelValues("visited").Add(float64(st.Visited))
	m.features.WithLabelValues("unresolved").Add(float64(st.Unresolved))
}
