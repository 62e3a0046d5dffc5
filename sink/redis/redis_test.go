package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trickstertwo/xnotify"
	"github.com/trickstertwo/xnotify/sink"
)

// unreachable returns a client pointed at a closed port, without retries.
func unreachable() *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
}

func TestNew(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoAddr)

	p, err := New(Config{Addr: "127.0.0.1:1"})
	require.NoError(t, err)
	assert.Equal(t, DefaultChannel, p.Channel())
	assert.NoError(t, p.Close())
}

func TestNewWithClient_KeepsClientOpen(t *testing.T) {
	client := unreachable()
	defer client.Close()

	p := NewWithClient(client, Config{Channel: "alerts"})
	assert.Equal(t, "alerts", p.Channel())
	require.NoError(t, p.Close())
	// Still usable: Close on a borrowed client is a no-op.
	assert.NotPanics(t, func() { _ = client.Options() })
}

func TestSend_Unreachable(t *testing.T) {
	client := unreachable()
	defer client.Close()
	p := NewWithClient(client, Config{})

	err := p.Send(context.Background(), "R")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish xnotify:reports")
}

type recMetrics struct {
	mu    sync.Mutex
	names []string
	errs  int
}

func (m *recMetrics) Delivered(name string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = append(m.names, name)
	if err != nil {
		m.errs++
	}
}

func TestLayer_FailurePolicies(t *testing.T) {
	client := unreachable()
	defer client.Close()
	entry := xnotify.Entry{Level: xnotify.LevelError, Target: "svc", Message: "down"}

	p := NewWithClient(client, Config{Timeout: time.Second})
	assert.Panics(t, func() { p.Layer(xnotify.LevelError).OnEvent(entry) })

	var handled []error
	m := &recMetrics{}
	p = NewWithClient(client, Config{
		Timeout:      time.Second,
		OnFailure:    sink.FailLog,
		ErrorHandler: func(err error) { handled = append(handled, err) },
		Metrics:      m,
	})
	layer := p.Layer(xnotify.LevelError)
	layer.OnEvent(entry)
	layer.OnEvent(xnotify.Entry{Level: xnotify.LevelInfo, Message: "skipped"})

	assert.Len(t, handled, 1)
	assert.Equal(t, []string{"redis"}, m.names)
	assert.Equal(t, 1, m.errs)

	p = NewWithClient(client, Config{Timeout: time.Second, OnFailure: sink.FailIgnore})
	assert.NotPanics(t, func() { p.Layer(xnotify.LevelError).OnEvent(entry) })
}
