package xnotify

// MessageField is the reserved field name carrying a record's primary message.
// Host pipelines present their message text under this name; a record that
// never visits it produces no report.
const MessageField = "message"

// Metadata is the static description of a record: where it came from and how
// severe it is.
type Metadata struct {
	Level  Level
	Target string // emitting subsystem, e.g. "app::worker" or "payments.api"
}

// Record is one structured log event as seen by a Layer.
// Implementations MUST call Visitor.RecordField once per field, in the
// pipeline's own order.
type Record interface {
	Metadata() Metadata
	Record(v Visitor)
}

// Visitor walks the fields of a Record.
type Visitor interface {
	RecordField(name string, value any)
}

// VisitorFunc adapter.
type VisitorFunc func(name string, value any)

func (f VisitorFunc) RecordField(name string, value any) { f(name, value) }
