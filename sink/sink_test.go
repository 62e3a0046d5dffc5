package sink

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/xnotify"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

type countingMetrics struct {
	mu     sync.Mutex
	ok     int
	failed int
	sinks  []string
}

func (m *countingMetrics) Delivered(sink string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, sink)
	if err != nil {
		m.failed++
		return
	}
	m.ok++
}

func TestParseFailurePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    FailurePolicy
		wantErr bool
	}{
		{"", FailPanic, false},
		{"panic", FailPanic, false},
		{"LOG", FailLog, false},
		{" ignore ", FailIgnore, false},
		{"retry", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFailurePolicy(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	var p FailurePolicy
	require.NoError(t, p.UnmarshalText([]byte("log")))
	assert.Equal(t, FailLog, p)
	b, err := FailIgnore.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ignore", string(b))
}

func TestFailurePolicy_Handle(t *testing.T) {
	boom := errors.New("boom")

	assert.NotPanics(t, func() { FailPanic.Handle(nil, nil) })
	assert.PanicsWithError(t, "boom", func() { FailPanic.Handle(boom, nil) })
	assert.PanicsWithError(t, "boom", func() { FailurePolicy(0).Handle(boom, nil) })
	assert.NotPanics(t, func() { FailIgnore.Handle(boom, nil) })

	var got error
	FailLog.Handle(boom, func(err error) { got = err })
	assert.Same(t, boom, got)
}

func TestWriter_LayerWritesReports(t *testing.T) {
	var buf bytes.Buffer
	m := &countingMetrics{}
	w := NewWriter(&buf, Options{Metrics: m})
	layer := w.Layer(xnotify.LevelError)

	layer.OnEvent(xnotify.Entry{Level: xnotify.LevelError, Target: "app", Message: "disk almost full", Fields: []xnotify.Field{xnotify.Int("pct", 97)}})
	layer.OnEvent(xnotify.Entry{Level: xnotify.LevelWarn, Target: "app", Message: "ignored"})

	want := "\n--------\ntarget: app\n--------\nmessage: disk almost full\n--------\nfields\n\npct = 97\n\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, 1, m.ok)
	assert.Equal(t, []string{"writer"}, m.sinks)
}

func TestWriter_FailurePolicies(t *testing.T) {
	w := NewWriter(failingWriter{}, Options{})
	assert.Panics(t, func() { DispatchWriter(w, "r") })

	var handled []error
	m := &countingMetrics{}
	w = NewWriter(failingWriter{}, Options{
		OnFailure:    FailLog,
		ErrorHandler: func(err error) { handled = append(handled, err) },
		Metrics:      m,
	})
	assert.NotPanics(t, func() { DispatchWriter(w, "r") })
	require.Len(t, handled, 1)
	assert.Contains(t, handled[0].Error(), "disk full")
	assert.Equal(t, 1, m.failed)

	err := w.Send("r")
	assert.ErrorContains(t, err, "write report")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.log")
	w, err := OpenFile(path, Options{})
	require.NoError(t, err)

	require.NoError(t, w.Send("one"))
	require.NoError(t, w.Send("two"))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing", "x.log"), Options{})
	assert.Error(t, err)
}

func TestAsync_DispatchesOffTheCallingGoroutine(t *testing.T) {
	release := make(chan struct{})
	var delivered atomic.Int32
	slow := xnotify.DispatchFunc[string](func(cfg string, report string) {
		<-release
		if cfg == "cfg" && strings.Contains(report, "message: m") {
			delivered.Add(1)
		}
	})
	async := NewAsync[string](slow)
	layer := xnotify.NewLayer([]xnotify.Level{xnotify.LevelError}, "cfg", async)

	for i := 0; i < 3; i++ {
		// Would block forever if dispatch ran inline.
		layer.OnEvent(xnotify.Entry{Level: xnotify.LevelError, Message: "m"})
	}
	assert.Equal(t, int32(0), delivered.Load())

	close(release)
	async.Wait()
	assert.Equal(t, int32(3), delivered.Load())
}

func TestNop(t *testing.T) {
	layer := xnotify.NewLayer([]xnotify.Level{xnotify.LevelError}, 0, Nop[int]{})
	assert.NotPanics(t, func() {
		layer.OnEvent(xnotify.Entry{Level: xnotify.LevelError, Message: "m"})
	})
}
