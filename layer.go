package xnotify

import "slices"

// Dispatcher delivers a finished report (Strategy). config is the value the
// Layer was built with; implementations MUST treat it as read-only and MUST be
// safe for concurrent use. Delivery failures are the dispatcher's business:
// the Layer never sees them.
type Dispatcher[C any] interface {
	Dispatch(config C, report string)
}

// DispatchFunc adapter.
type DispatchFunc[C any] func(config C, report string)

func (f DispatchFunc[C]) Dispatch(config C, report string) { f(config, report) }

// Hook is the non-generic face of a Layer. Pipeline bridges depend on it so
// they need not know the Layer's context type.
type Hook interface {
	// Captures reports whether records at level are of interest. Bridges call
	// it before doing any field work.
	Captures(level Level) bool
	OnEvent(r Record)
}

// Layer turns interesting records into reports and hands them to a Dispatcher.
//
// It holds only construction-time state and is safe for concurrent use;
// OnEvent runs synchronously on the caller's goroutine.
type Layer[C any] struct {
	levels   []Level
	config   C
	dispatch Dispatcher[C]
}

// NewLayer builds a Layer reacting to exactly the given levels.
// Membership is exact match, not a threshold: pass Levels(LevelError) for
// "ERROR and above".
func NewLayer[C any](levels []Level, config C, d Dispatcher[C]) *Layer[C] {
	if d == nil {
		panic("xnotify: NewLayer called with a nil Dispatcher")
	}
	return &Layer[C]{
		levels:   slices.Clone(levels),
		config:   config,
		dispatch: d,
	}
}

// Captures reports whether level is in the capture set.
func (l *Layer[C]) Captures(level Level) bool {
	return slices.Contains(l.levels, level)
}

// Config returns the context handed to the dispatcher.
func (l *Layer[C]) Config() C { return l.config }

// OnEvent reports r through the dispatcher when its level is captured and it
// carries a message field. Records without a message are dropped silently.
func (l *Layer[C]) OnEvent(r Record) {
	md := r.Metadata()
	if !l.Captures(md.Level) {
		return
	}
	msg, ok, fields := Capture(r)
	if !ok {
		return
	}
	l.dispatch.Dispatch(l.config, FormatReport(md.Target, msg, fields))
}

// OnLog implements Observer so a Layer can subscribe to a Logger directly.
func (l *Layer[C]) OnLog(e Entry) { l.OnEvent(e) }
