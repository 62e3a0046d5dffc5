package zerologadapter

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/trickstertwo/xclock"

	"github.com/trickstertwo/xnotify"
)

// Config is an explicit, code-first configuration for zerolog + xnotify.
// No envs, no hidden init, one call to Use.
type Config struct {
	Writer             io.Writer // default: os.Stdout
	MinLevel           xnotify.Level
	Target             string             // default target of the global logger
	Observers          []xnotify.Observer // typically notification Layers
	Console            bool               // pretty console output instead of JSON
	ConsoleTimeFormat  string             // only used if Console==true; default time.RFC3339Nano
	Caller             bool               // include caller in logs
	CallerSkip         int                // default 5
	TimestampFieldName string             // default "ts"; zerolog.TimestampFieldName when Console
}

// Use builds a zerolog-backed logger from cfg, sets it as the global
// xnotify logger and returns it. Timestamps come from xclock.Default().
func Use(cfg Config) *xnotify.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	if cfg.TimestampFieldName == "" {
		cfg.TimestampFieldName = "ts"
		if cfg.Console {
			cfg.TimestampFieldName = zerolog.TimestampFieldName
		}
	}
	if cfg.Caller && cfg.CallerSkip <= 0 {
		cfg.CallerSkip = 5
	}

	var zl zerolog.Logger
	if cfg.Console {
		zl = zerolog.New(consoleWriter(w, cfg.TimestampFieldName, cfg.ConsoleTimeFormat, cfg.Caller))
	} else {
		zl = zerolog.New(w)
	}

	if cfg.Caller {
		zl = zl.With().CallerWithSkipFrameCount(cfg.CallerSkip).Logger()
	}

	b := xnotify.NewBuilder().
		WithAdapter(NewWithTimestampKey(zl, cfg.TimestampFieldName)).
		WithMinLevel(cfg.MinLevel).
		WithTarget(cfg.Target).
		WithClock(xclock.Default())
	for _, o := range cfg.Observers {
		b = b.AddObserver(o)
	}
	logger, err := b.Build()
	if err != nil {
		// Build only fails on a nil adapter.
		panic(err)
	}

	xnotify.SetGlobal(logger)
	return logger
}

// consoleWriter builds a ConsoleWriter whose leading column is tsKey. zerolog
// globals are left alone: other loggers in the process keep their keys.
func consoleWriter(w io.Writer, tsKey, timeFormat string, caller bool) zerolog.ConsoleWriter {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat}
	if cw.TimeFormat == "" {
		cw.TimeFormat = time.RFC3339Nano
	}
	if tsKey != zerolog.TimestampFieldName {
		// Printed as written, RFC3339Nano.
		cw.PartsOrder = []string{tsKey, zerolog.LevelFieldName, zerolog.CallerFieldName, zerolog.MessageFieldName}
		cw.FieldsExclude = []string{tsKey}
	}
	// Hide the caller column rather than print "<nil>".
	if !caller {
		cw.PartsExclude = append(cw.PartsExclude, zerolog.CallerFieldName)
	}
	return cw
}
