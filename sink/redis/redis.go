// Package redis publishes xnotify reports on a Redis pub/sub channel, for
// fan-out to whatever consumers subscribe to it.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/trickstertwo/xnotify"
	"github.com/trickstertwo/xnotify/sink"
)

const (
	DefaultChannel = "xnotify:reports"
	DefaultTimeout = 5 * time.Second
	sinkName       = "redis"
)

var ErrNoAddr = errors.New("xnotify/redis: address is empty")

// Config configures the Publisher.
type Config struct {
	Addr      string             `yaml:"addr"` // e.g. "localhost:6379"
	Password  string             `yaml:"password"`
	DB        int                `yaml:"db"`
	Channel   string             `yaml:"channel"`    // default DefaultChannel
	Timeout   time.Duration      `yaml:"timeout"`    // per publish; default DefaultTimeout
	OnFailure sink.FailurePolicy `yaml:"on_failure"` // default panic

	ErrorHandler sink.ErrorHandler     `yaml:"-"`
	Metrics      sink.MetricsCollector `yaml:"-"`
}

func (c Config) withDefaults() Config {
	if c.Channel == "" {
		c.Channel = DefaultChannel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.OnFailure == 0 {
		c.OnFailure = sink.FailPanic
	}
	if c.Metrics == nil {
		c.Metrics = sink.NopMetrics{}
	}
	return c
}

// Publisher publishes each report as one message. Safe for concurrent use.
type Publisher struct {
	cfg    Config
	client *goredis.Client
	owned  bool
}

// New connects lazily: no round trip happens until the first report.
func New(cfg Config) (*Publisher, error) {
	if cfg.Addr == "" {
		return nil, ErrNoAddr
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	p := NewWithClient(client, cfg)
	p.owned = true
	return p, nil
}

// NewWithClient publishes through an existing client. Close leaves it open.
func NewWithClient(client *goredis.Client, cfg Config) *Publisher {
	return &Publisher{cfg: cfg.withDefaults(), client: client}
}

// Channel is the channel reports are published on.
func (p *Publisher) Channel() string { return p.cfg.Channel }

// Send publishes report and returns the error, if any.
func (p *Publisher) Send(ctx context.Context, report string) error {
	start := time.Now()
	err := p.client.Publish(ctx, p.cfg.Channel, report).Err()
	if err != nil {
		err = fmt.Errorf("xnotify/redis: publish %s: %w", p.cfg.Channel, err)
	}
	p.cfg.Metrics.Delivered(sinkName, time.Since(start), err)
	return err
}

// Layer builds a notification Layer delivering through p.
func (p *Publisher) Layer(levels ...xnotify.Level) *xnotify.Layer[*Publisher] {
	return xnotify.NewLayer(levels, p, xnotify.DispatchFunc[*Publisher](Dispatch))
}

// Dispatch publishes under the configured timeout and applies the failure policy.
func Dispatch(p *Publisher, report string) {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Timeout)
	defer cancel()
	p.cfg.OnFailure.Handle(p.Send(ctx, report), p.cfg.ErrorHandler)
}

// Close releases the client if New created it.
func (p *Publisher) Close() error {
	if !p.owned {
		return nil
	}
	return p.client.Close()
}
