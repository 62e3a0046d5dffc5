package xnotify

// Adapter is the logging backend Strategy (e.g., a zerolog or slog wrapper).
// Log receives the Entry with the Logger's single authoritative timestamp and
// only the event fields; bound fields were handed over earlier through With.
type Adapter interface {
	Log(e Entry)
	With(fields []Field) Adapter // return a child adapter with bound fields (do not mutate receiver)
}
