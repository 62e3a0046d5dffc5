package metrics

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/xnotify"
	"github.com/trickstertwo/xnotify/sink"
)

var _ sink.MetricsCollector = (*Prometheus)(nil)

func TestPrometheus_Delivered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg, "xnotify")

	m.Delivered("telegram", 20*time.Millisecond, nil)
	m.Delivered("telegram", 30*time.Millisecond, nil)
	m.Delivered("telegram", time.Second, errors.New("boom"))
	m.Delivered("redis", time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Notifications.WithLabelValues("telegram", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("telegram", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("redis", "ok")))

	n, err := testutil.GatherAndCount(reg, "xnotify_notification_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPrometheus_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg, "app")
	assert.Panics(t, func() { NewPrometheus(reg, "app") })
}

func TestPrometheus_WithWriterSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg, "app")
	var buf bytes.Buffer
	w := sink.NewWriter(&buf, sink.Options{Metrics: m})

	w.Layer(xnotify.LevelError).OnEvent(xnotify.Entry{Level: xnotify.LevelError, Message: "m"})

	want := `
# HELP app_notifications_total Reports handed to a sink, by delivery result
# TYPE app_notifications_total counter
app_notifications_total{result="ok",sink="writer"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "app_notifications_total"))
}
