// Package metrics exports sink delivery metrics to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements sink.MetricsCollector.
type Prometheus struct {
	Notifications *prometheus.CounterVec   // labels: sink, result=ok|error
	Duration      *prometheus.HistogramVec // labels: sink
}

// NewPrometheus registers the delivery metrics with reg under namespace.
// A nil reg means prometheus.DefaultRegisterer. Registering twice on the same
// registry panics, as prometheus.MustRegister does.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Prometheus{
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Reports handed to a sink, by delivery result",
		}, []string{"sink", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_duration_seconds",
			Help:      "Time spent delivering one report",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"sink"}),
	}
	reg.MustRegister(m.Notifications, m.Duration)
	return m
}

func (m *Prometheus) Delivered(sink string, dur time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Notifications.WithLabelValues(sink, result).Inc()
	m.Duration.WithLabelValues(sink).Observe(dur.Seconds())
}
