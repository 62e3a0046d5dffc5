package slogadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/trickstertwo/xnotify"
)

// Adapter writes xnotify entries through a *slog.Logger (Adapter Strategy).
// It builds slog.Attrs directly and uses LogAttrs.
type Adapter struct {
	l     *slog.Logger
	lv    *slog.LevelVar // optional, enables SetMinLevel
	tsKey string
}

func New(l *slog.Logger) *Adapter {
	return NewWithTimestampKey(l, nil, "ts")
}

// NewWithTimestampKey wires an optional LevelVar for SetMinLevel and
// overrides the timestamp key (default "ts").
func NewWithTimestampKey(l *slog.Logger, lv *slog.LevelVar, tsKey string) *Adapter {
	if l == nil {
		l = slog.Default()
	}
	if tsKey == "" {
		tsKey = "ts"
	}
	return &Adapter{l: l, lv: lv, tsKey: tsKey}
}

// With pre-binds fs on a child slog.Logger.
func (a *Adapter) With(fs []xnotify.Field) xnotify.Adapter {
	child := *a
	if len(fs) > 0 {
		args := make([]any, len(fs))
		for i := range fs {
			args[i] = toAttr(fs[i])
		}
		child.l = a.l.With(args...)
	}
	return &child
}

func (a *Adapter) Log(e xnotify.Entry) {
	ctx := context.Background()
	lvl := slog.Level(e.Level)
	if !a.l.Enabled(ctx, lvl) {
		return
	}

	attrs := make([]slog.Attr, 0, len(e.Fields)+2)
	// Single authoritative timestamp provided by Logger.
	attrs = append(attrs, slog.String(a.tsKey, e.At.UTC().Format(time.RFC3339Nano)))
	if e.Target != "" {
		attrs = append(attrs, slog.String(DefaultTargetKey, e.Target))
	}
	for i := range e.Fields {
		attrs = append(attrs, toAttr(e.Fields[i]))
	}
	a.l.LogAttrs(ctx, lvl, e.Message, attrs...)
}

func (a *Adapter) SetMinLevel(l xnotify.Level) {
	if a.lv != nil {
		a.lv.Set(slog.Level(l))
	}
}

func toAttr(f xnotify.Field) slog.Attr {
	switch f.Kind {
	case xnotify.KindString:
		return slog.String(f.K, f.Str)
	case xnotify.KindInt64:
		return slog.Int64(f.K, f.Int64)
	case xnotify.KindUint64:
		return slog.Uint64(f.K, f.Uint64)
	case xnotify.KindFloat64:
		return slog.Float64(f.K, f.Float64)
	case xnotify.KindBool:
		return slog.Bool(f.K, f.Bool)
	case xnotify.KindDuration:
		return slog.Duration(f.K, f.Dur)
	case xnotify.KindTime:
		return slog.Time(f.K, f.Time)
	case xnotify.KindError:
		return slog.Any(f.K, f.Err)
	case xnotify.KindBytes:
		return slog.Any(f.K, f.Bytes)
	case xnotify.KindAny:
		return slog.Any(f.K, f.Any)
	default:
		return slog.Any(f.K, nil)
	}
}
