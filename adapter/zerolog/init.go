package zerologadapter

import (
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/xnotify"
)

// Env:
//
//	XNOTIFY_MIN_LEVEL or XNOTIFY_LEVEL : trace|debug|info|warn|error|fatal (default info)
//	XNOTIFY_CONSOLE=1                  : enable ConsoleWriter (pretty output)
//	XNOTIFY_CALLER=1                   : include caller
//	XNOTIFY_CALLER_SKIP=<int>          : frames to skip (default 5)
//	XNOTIFY_CONSOLE_TIMEFORMAT=...     : console time layout (default RFC3339Nano)
func init() {
	xnotify.RegisterDefaultAdapterFactory(newFromEnv)
}

func newFromEnv(w io.Writer) xnotify.Adapter {
	if w == nil {
		w = os.Stdout
	}
	level := envLevel(firstNonEmpty(os.Getenv("XNOTIFY_MIN_LEVEL"), os.Getenv("XNOTIFY_LEVEL")))
	wantCaller := os.Getenv("XNOTIFY_CALLER") == "1"
	skip := parseInt(os.Getenv("XNOTIFY_CALLER_SKIP"), 5)

	var zl zerolog.Logger
	tsKey := "ts"
	if os.Getenv("XNOTIFY_CONSOLE") == "1" {
		tsKey = zerolog.TimestampFieldName
		zl = zerolog.New(consoleWriter(w, tsKey, os.Getenv("XNOTIFY_CONSOLE_TIMEFORMAT"), wantCaller))
	} else {
		zl = zerolog.New(w)
	}
	zl = zl.Level(toZerologLevel(level))
	if wantCaller {
		zl = zl.With().CallerWithSkipFrameCount(skip).Logger()
	}
	return NewWithTimestampKey(zl, tsKey)
}

func envLevel(s string) xnotify.Level {
	l, err := xnotify.ParseLevel(s)
	if err != nil {
		return xnotify.LevelInfo
	}
	return l
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func parseInt(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
