package xnotify

import (
	"fmt"
	"strconv"
	"strings"
)

// Level mirrors slog numeric semantics and extends with Trace (-8) and Fatal (12).
type Level int

const (
	LevelTrace Level = -8
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
	LevelFatal Level = 12
)

var canonicalLevels = [...]Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal}

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "LEVEL(" + strconv.Itoa(int(l)) + ")"
	}
}

// ParseLevel converts trace|debug|info|warn|warning|error|fatal (any case) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return 0, fmt.Errorf("xnotify: unknown level %q", s)
	}
}

// ParseLevels parses a comma separated level list, e.g. "error,fatal".
func ParseLevels(s string) ([]Level, error) {
	var out []Level
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		l, err := ParseLevel(part)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(l.String())), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Normalize floors an arbitrary numeric level onto the nearest canonical level
// at or below it. Bridges use it so foreign levels compare exactly against a
// capture set.
func Normalize(l Level) Level {
	switch {
	case l < LevelDebug:
		return LevelTrace
	case l < LevelInfo:
		return LevelDebug
	case l < LevelWarn:
		return LevelInfo
	case l < LevelError:
		return LevelWarn
	case l < LevelFatal:
		return LevelError
	default:
		return LevelFatal
	}
}

// Levels returns every canonical level >= min, in ascending order.
// Capture sets are exact-match, so "ERROR and above" is Levels(LevelError).
func Levels(min Level) []Level {
	out := make([]Level, 0, len(canonicalLevels))
	for _, l := range canonicalLevels {
		if l >= min {
			out = append(out, l)
		}
	}
	return out
}
