package xnotify

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/trickstertwo/xclock"
)

type Logger struct {
	adapter    Adapter
	minLevel   Level
	target     string
	clock      xclock.Clock
	baseFields []Field

	// Observers: lock-free reads via atomic.Value; synchronized updates via obsMu.
	// Stored value is []Observer and MUST be treated as immutable by readers.
	observers atomic.Value // holds []Observer
	obsMu     sync.Mutex
}

// Factory: internal constructor.
func newLogger(cfg Config) *Logger {
	l := &Logger{
		adapter:  cfg.Adapter,
		minLevel: cfg.MinLevel,
		target:   cfg.Target,
		clock:    cfg.Clock,
	}
	if len(cfg.Observers) > 0 {
		obs := make([]Observer, len(cfg.Observers))
		copy(obs, cfg.Observers)
		l.observers.Store(obs)
	} else {
		l.observers.Store(([]Observer)(nil))
	}
	return l
}

// Facade: global access (Singleton + Facade).
var global atomic.Pointer[Logger]

// SetGlobal sets the global Logger (Singleton setter).
func SetGlobal(l *Logger) { global.Store(l) }

// L returns the global Logger; panic if unset to surface misconfig early.
func L() *Logger {
	l := global.Load()
	if l == nil {
		panic("xnotify: global logger not set. Build one and call xnotify.SetGlobal(...)")
	}
	return l
}

// Enabled reports whether logs at 'level' would be emitted by this logger.
// Use to avoid building fields in hot paths when disabled.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.minLevel
}

// Target returns the subsystem name stamped on this logger's entries.
func (l *Logger) Target() string { return l.target }

// Level entry points returning fluent builders.

func (l *Logger) Trace() *Event { return getEvent(l, LevelTrace) }
func (l *Logger) Debug() *Event { return getEvent(l, LevelDebug) }
func (l *Logger) Info() *Event  { return getEvent(l, LevelInfo) }
func (l *Logger) Warn() *Event  { return getEvent(l, LevelWarn) }
func (l *Logger) Error() *Event { return getEvent(l, LevelError) }
func (l *Logger) Fatal() *Event { return getEvent(l, LevelFatal) }

// WithLevel starts an event at level. Levels between the canonical ones are
// floored, so a Layer's exact-match capture still sees a canonical level.
func (l *Logger) WithLevel(level Level) *Event { return getEvent(l, Normalize(level)) }

// With returns a child logger with bound fields.
func (l *Logger) With(fs ...Field) *Logger {
	child := l.child()
	child.adapter = l.adapter.With(fs)
	child.baseFields = append(copyFields(nil, l.baseFields), fs...)
	return child
}

// Named returns a child logger whose entries carry target as their source.
// Nested names are joined with "::", e.g. L().Named("app").Named("worker")
// yields "app::worker".
func (l *Logger) Named(target string) *Logger {
	child := l.child()
	switch {
	case target == "":
	case l.target == "":
		child.target = target
	default:
		child.target = l.target + "::" + target
	}
	return child
}

func (l *Logger) child() *Logger {
	child := &Logger{
		adapter:    l.adapter,
		minLevel:   l.minLevel,
		target:     l.target,
		clock:      l.clock,
		baseFields: l.baseFields,
	}
	// Inherit a snapshot of observers.
	child.observers.Store(l.snapshotObservers())
	return child
}

func (l *Logger) snapshotObservers() []Observer {
	v := l.observers.Load()
	if v == nil {
		return nil
	}
	cur := v.([]Observer)
	if len(cur) == 0 {
		return nil
	}
	out := make([]Observer, len(cur))
	copy(out, cur)
	return out
}

func (l *Logger) AddObserver(o Observer) {
	l.obsMu.Lock()
	defer l.obsMu.Unlock()
	cur := l.snapshotObservers()
	cur = append(cur, o)
	l.observers.Store(cur)
}

func (l *Logger) now() time.Time {
	if l.clock != nil {
		return l.clock.Now()
	}
	return xclock.Now()
}

func (l *Logger) emit(level Level, msg string, evFields []Field) {
	if level < l.minLevel {
		return
	}
	// Single authoritative timestamp for adapter and observers.
	at := l.now()

	// Fast path: adapter handles bound fields internally; pass only event fields.
	l.adapter.Log(Entry{
		At:      at,
		Level:   level,
		Target:  l.target,
		Message: msg,
		Fields:  evFields,
	})

	// Observers see combined fields: base + event.
	v := l.observers.Load()
	if v == nil {
		return
	}
	obs := v.([]Observer)
	if len(obs) == 0 {
		return
	}

	merged := make([]Field, 0, len(l.baseFields)+len(evFields))
	if len(l.baseFields) > 0 {
		merged = append(merged, l.baseFields...)
	}
	if len(evFields) > 0 {
		merged = append(merged, evFields...)
	}

	entry := Entry{
		At:      at,
		Level:   level,
		Target:  l.target,
		Message: msg,
		Fields:  merged,
	}

	for _, o := range obs {
		o.OnLog(entry)
	}
}
