package xnotify

// FieldRecord is one rendered, non-message field of a record.
type FieldRecord struct {
	Name  string
	Value string
}

// capture collects the message and the remaining fields of a record.
type capture struct {
	message    string
	hasMessage bool
	fields     []FieldRecord
}

func (c *capture) RecordField(name string, value any) {
	if name == MessageField {
		// Several "message" fields: the last one visited wins.
		c.message = Render(value)
		c.hasMessage = true
		return
	}
	c.fields = append(c.fields, FieldRecord{Name: name, Value: Render(value)})
}

// Capture visits r and returns its rendered message (ok=false when the
// record has no message field) and the other fields in visitation order.
func Capture(r Record) (message string, ok bool, fields []FieldRecord) {
	var c capture
	r.Record(&c)
	return c.message, c.hasMessage, c.fields
}
