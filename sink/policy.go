package sink

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// FailurePolicy decides what a sink does when a delivery fails.
type FailurePolicy uint8

const (
	FailPanic FailurePolicy = iota + 1
	FailLog
	FailIgnore
)

// ErrorHandler receives delivery errors under FailLog. Implementations must be
// concurrency-safe and must not log through the pipeline feeding the sink.
type ErrorHandler func(error)

func defaultErrorHandler(err error) { fmt.Fprintf(os.Stderr, "xnotify: %v\n", err) }

func (p FailurePolicy) String() string {
	switch p {
	case FailPanic:
		return "panic"
	case FailLog:
		return "log"
	case FailIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", uint8(p))
	}
}

// ParseFailurePolicy accepts panic|log|ignore (any case). Empty means FailPanic.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "panic":
		return FailPanic, nil
	case "log":
		return FailLog, nil
	case "ignore":
		return FailIgnore, nil
	default:
		return 0, fmt.Errorf("xnotify/sink: unknown failure policy %q", s)
	}
}

func (p FailurePolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *FailurePolicy) UnmarshalText(b []byte) error {
	v, err := ParseFailurePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Handle applies the policy to err. A nil err is a no-op. The zero policy
// behaves as FailPanic; a nil handler falls back to stderr.
func (p FailurePolicy) Handle(err error, h ErrorHandler) {
	if err == nil {
		return
	}
	switch p {
	case FailIgnore:
	case FailLog:
		if h == nil {
			h = defaultErrorHandler
		}
		h(err)
	default:
		panic(err)
	}
}

// MetricsCollector receives delivery metrics. Implementations must be concurrency-safe.
type MetricsCollector interface {
	Delivered(sink string, dur time.Duration, err error)
}

type NopMetrics struct{}

func (NopMetrics) Delivered(string, time.Duration, error) {}
