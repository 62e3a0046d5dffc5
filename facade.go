package xnotify

// Level builders on the global logger (see SetGlobal). With a Layer among
// its observers, an ERROR built here becomes a notification:
//
//	xnotify.Error().Str("invoice", id).Msg("charge failed")

func Trace() *Event { return L().Trace() }
func Debug() *Event { return L().Debug() }
func Info() *Event  { return L().Info() }
func Warn() *Event  { return L().Warn() }
func Error() *Event { return L().Error() }
func Fatal() *Event { return L().Fatal() }

// WithLevel starts an event at a level chosen at run time, such as one read
// from configuration.
func WithLevel(level Level) *Event { return L().WithLevel(level) }
