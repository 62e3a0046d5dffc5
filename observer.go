package xnotify

import "time"

// Entry is one emitted event. Observers receive bound + event fields and may
// hold them; Adapters receive event fields only and must not retain them.
type Entry struct {
	At      time.Time
	Level   Level
	Target  string
	Message string
	Fields  []Field
}

// Metadata implements Record.
func (e Entry) Metadata() Metadata {
	return Metadata{Level: e.Level, Target: e.Target}
}

// Record implements Record. A non-empty Message is visited first as the
// "message" field, followed by Fields in order.
func (e Entry) Record(v Visitor) {
	if e.Message != "" {
		v.RecordField(MessageField, Text(e.Message))
	}
	for i := range e.Fields {
		v.RecordField(e.Fields[i].K, e.Fields[i].Value())
	}
}

// Observer is notified for each emitted entry (Observer pattern).
// Implementations MUST be concurrency-safe.
type Observer interface {
	OnLog(entry Entry)
}

// ObserverFunc adapter.
type ObserverFunc func(Entry)

func (f ObserverFunc) OnLog(e Entry) { f(e) }
