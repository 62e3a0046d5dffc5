package zerologadapter

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/xnotify"
)

// TargetKey is the JSON key carrying an entry's target, written by Adapter
// and consumed by Writer.
const TargetKey = "target"

// Adapter writes xnotify entries through rs/zerolog.
//
//   - With() pre-binds fields on a child zerolog.Logger, so bound fields cost
//     nothing per event.
//   - GetLevel() is checked before allocating a zerolog.Event.
//   - WithLevel() is used for every level, FATAL included; it never exits.
type Adapter struct {
	l     zerolog.Logger
	tsKey string
}

func New(l zerolog.Logger) *Adapter {
	return &Adapter{l: l, tsKey: "ts"}
}

// NewWithTimestampKey overrides the timestamp key (default "ts").
func NewWithTimestampKey(l zerolog.Logger, tsKey string) *Adapter {
	if tsKey == "" {
		tsKey = "ts"
	}
	return &Adapter{l: l, tsKey: tsKey}
}

// With returns a child adapter with fs bound onto a child zerolog.Logger.
func (a *Adapter) With(fs []xnotify.Field) xnotify.Adapter {
	child := *a
	if len(fs) == 0 {
		return &child
	}
	ctx := a.l.With()
	for i := range fs {
		ctx = appendCtxField(ctx, &fs[i])
	}
	child.l = ctx.Logger()
	return &child
}

// Log writes e as one line. The Logger's timestamp goes under the timestamp
// key in RFC3339Nano and a non-empty target under TargetKey.
func (a *Adapter) Log(e xnotify.Entry) {
	zlvl := toZerologLevel(e.Level)
	if zlvl < a.l.GetLevel() {
		return
	}

	ev := a.l.WithLevel(zlvl)
	ev.Str(a.tsKey, e.At.UTC().Format(time.RFC3339Nano))
	if e.Target != "" {
		ev.Str(TargetKey, e.Target)
	}
	for i := range e.Fields {
		appendEventField(ev, &e.Fields[i])
	}
	ev.Msg(e.Message)
}

// SetMinLevel lets xnotify.Builder push its min level down to zerolog.
func (a *Adapter) SetMinLevel(l xnotify.Level) {
	a.l = a.l.Level(toZerologLevel(l))
}

func toZerologLevel(l xnotify.Level) zerolog.Level {
	switch {
	case l <= xnotify.LevelTrace:
		return zerolog.TraceLevel
	case l <= xnotify.LevelDebug:
		return zerolog.DebugLevel
	case l <= xnotify.LevelInfo:
		return zerolog.InfoLevel
	case l <= xnotify.LevelWarn:
		return zerolog.WarnLevel
	case l <= xnotify.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.FatalLevel
	}
}

// fromZerologLevel maps a zerolog level onto the canonical xnotify levels.
// NoLevel counts as INFO and panic as FATAL; ok is false for Disabled.
func fromZerologLevel(l zerolog.Level) (xnotify.Level, bool) {
	switch l {
	case zerolog.TraceLevel:
		return xnotify.LevelTrace, true
	case zerolog.DebugLevel:
		return xnotify.LevelDebug, true
	case zerolog.InfoLevel, zerolog.NoLevel:
		return xnotify.LevelInfo, true
	case zerolog.WarnLevel:
		return xnotify.LevelWarn, true
	case zerolog.ErrorLevel:
		return xnotify.LevelError, true
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return xnotify.LevelFatal, true
	default:
		return 0, false
	}
}

func appendEventField(e *zerolog.Event, f *xnotify.Field) {
	switch f.Kind {
	case xnotify.KindString:
		e.Str(f.K, f.Str)
	case xnotify.KindInt64:
		e.Int64(f.K, f.Int64)
	case xnotify.KindUint64:
		e.Uint64(f.K, f.Uint64)
	case xnotify.KindFloat64:
		e.Float64(f.K, f.Float64)
	case xnotify.KindBool:
		e.Bool(f.K, f.Bool)
	case xnotify.KindDuration:
		e.Dur(f.K, f.Dur)
	case xnotify.KindTime:
		e.Time(f.K, f.Time)
	case xnotify.KindError:
		if f.Err != nil {
			if f.K == "" || f.K == "error" {
				e.Err(f.Err)
			} else {
				e.AnErr(f.K, f.Err)
			}
		}
	case xnotify.KindBytes:
		e.Bytes(f.K, f.Bytes)
	case xnotify.KindAny:
		e.Interface(f.K, f.Any)
	default:
		e.Interface(f.K, nil)
	}
}

func appendCtxField(ctx zerolog.Context, f *xnotify.Field) zerolog.Context {
	switch f.Kind {
	case xnotify.KindString:
		return ctx.Str(f.K, f.Str)
	case xnotify.KindInt64:
		return ctx.Int64(f.K, f.Int64)
	case xnotify.KindUint64:
		return ctx.Uint64(f.K, f.Uint64)
	case xnotify.KindFloat64:
		return ctx.Float64(f.K, f.Float64)
	case xnotify.KindBool:
		return ctx.Bool(f.K, f.Bool)
	case xnotify.KindDuration:
		return ctx.Dur(f.K, f.Dur)
	case xnotify.KindTime:
		return ctx.Time(f.K, f.Time)
	case xnotify.KindError:
		// Context has no named-error variant.
		if f.Err == nil {
			return ctx
		}
		if f.K == "" || f.K == "error" {
			return ctx.Err(f.Err)
		}
		return ctx.Str(f.K, f.Err.Error())
	case xnotify.KindBytes:
		return ctx.Bytes(f.K, f.Bytes)
	case xnotify.KindAny:
		return ctx.Interface(f.K, f.Any)
	default:
		return ctx.Interface(f.K, nil)
	}
}
