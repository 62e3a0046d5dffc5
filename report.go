package xnotify

import "strings"

const reportRule = "--------"

// FormatReport renders the human-readable report for one record:
//
//	--------
//	target: {target}
//	--------
//	message: {message}
//	--------
//	fields
//	\n{name} = {value} (per field)
//
// The report opens and ends with a newline. Values are not escaped; encode
// downstream if the transport needs it.
func FormatReport(target, message string, fields []FieldRecord) string {
	var b strings.Builder
	b.Grow(64 + len(target) + len(message) + 16*len(fields))
	b.WriteString("\n" + reportRule + "\ntarget: ")
	b.WriteString(target)
	b.WriteString("\n" + reportRule + "\nmessage: ")
	b.WriteString(message)
	b.WriteString("\n" + reportRule + "\nfields\n")
	for _, f := range fields {
		b.WriteByte('\n')
		b.WriteString(f.Name)
		b.WriteString(" = ")
		b.WriteString(f.Value)
	}
	b.WriteByte('\n')
	return b.String()
}
