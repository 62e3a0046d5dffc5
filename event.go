package xnotify

import (
	"fmt"
	"sync"
	"time"
)

// Event collects the fields of one entry until Msg hands it to the logger's
// adapter and observers. A notification Layer observing the logger turns a
// captured Event into one report: the Msg text becomes the message section,
// the fields become "name = value" lines in the order they were added.
//
//	xnotify.Error().Str("invoice", id).Int("attempt", n).Msg("charge failed")
//
// An Event is pooled and must not be used after Msg, Msgf or Send.
type Event struct {
	l      *Logger
	level  Level
	fields []Field
}

var eventPool = sync.Pool{
	New: func() any { return &Event{fields: make([]Field, 0, 8)} },
}

func getEvent(l *Logger, level Level) *Event {
	ev := eventPool.Get().(*Event)
	ev.l, ev.level = l, level
	ev.fields = ev.fields[:0]
	return ev
}

func (e *Event) release() {
	// Oversized backing arrays are not pooled.
	if cap(e.fields) > 128 {
		e.fields = make([]Field, 0, 8)
	}
	e.l, e.level = nil, 0
	eventPool.Put(e)
}

func (e *Event) add(f Field) *Event {
	e.fields = append(e.fields, f)
	return e
}

func (e *Event) Str(k, v string) *Event             { return e.add(Str(k, v)) }
func (e *Event) Int(k string, v int) *Event         { return e.add(Int(k, v)) }
func (e *Event) Int64(k string, v int64) *Event     { return e.add(Int64(k, v)) }
func (e *Event) Uint64(k string, v uint64) *Event   { return e.add(Uint64(k, v)) }
func (e *Event) Float64(k string, v float64) *Event { return e.add(Float64(k, v)) }
func (e *Event) Bool(k string, v bool) *Event       { return e.add(Bool(k, v)) }
func (e *Event) Dur(k string, v time.Duration) *Event {
	return e.add(Dur(k, v))
}
func (e *Event) Time(k string, v time.Time) *Event { return e.add(Time(k, v)) }
func (e *Event) Bytes(k string, v []byte) *Event   { return e.add(Bytes(k, v)) }
func (e *Event) Any(k string, v any) *Event        { return e.add(Any(k, v)) }

// Err adds err under "error". A nil err adds nothing, so the report has no
// "error = nil" line.
func (e *Event) Err(err error) *Event {
	if err == nil {
		return e
	}
	return e.add(Err("error", err))
}

// Fields adds fs in order.
func (e *Event) Fields(fs ...Field) *Event {
	e.fields = append(e.fields, fs...)
	return e
}

// Msg emits the event with msg as its message.
func (e *Event) Msg(msg string) {
	e.l.emit(e.level, msg, e.fields)
	e.release()
}

// Msgf formats only when the level is enabled.
func (e *Event) Msgf(format string, args ...any) {
	if !e.l.Enabled(e.level) {
		e.release()
		return
	}
	e.Msg(fmt.Sprintf(format, args...))
}

// Send emits the event without a message. Observers such as a Layer see no
// "message" field for it and will not report it.
func (e *Event) Send() { e.Msg("") }
