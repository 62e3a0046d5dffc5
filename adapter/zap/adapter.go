package zapadapter

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trickstertwo/xnotify"
)

// TargetKey is the field key carrying an entry's target.
const TargetKey = "target"

// Adapter writes xnotify entries through go.uber.org/zap.
//
//   - With() creates a child zap.Logger with the fields attached, so bound
//     fields cost nothing per event.
//   - Logger.Check(level, msg) avoids building fields when disabled.
//   - The timestamp is written as an RFC3339Nano string field.
//
// SetMinLevel adjusts the backend through a zap.AtomicLevel when one was
// supplied at construction; otherwise it is a no-op.
type Adapter struct {
	l     *zap.Logger
	al    *zap.AtomicLevel
	tsKey string
}

func New(l *zap.Logger) *Adapter {
	return NewWithTimestampKey(l, nil, "ts")
}

// NewWithAtomicLevel wires al so SetMinLevel can adjust zap's filter.
func NewWithAtomicLevel(l *zap.Logger, al *zap.AtomicLevel) *Adapter {
	return NewWithTimestampKey(l, al, "ts")
}

// NewWithTimestampKey overrides the timestamp key (default "ts").
func NewWithTimestampKey(l *zap.Logger, al *zap.AtomicLevel, tsKey string) *Adapter {
	if l == nil {
		l = zap.NewNop()
	}
	if tsKey == "" {
		tsKey = "ts"
	}
	return &Adapter{l: l, al: al, tsKey: tsKey}
}

func (a *Adapter) With(fs []xnotify.Field) xnotify.Adapter {
	child := *a
	if len(fs) > 0 {
		child.l = a.l.With(convertFields(fs)...)
	}
	return &child
}

// Log emits e. FATAL is written at zap's ErrorLevel so library code never
// triggers zap's exit hook.
func (a *Adapter) Log(e xnotify.Entry) {
	ce := a.l.Check(toZapLevel(e.Level), e.Message)
	if ce == nil {
		return
	}

	zfs := make([]zap.Field, 0, 2+len(e.Fields))
	zfs = append(zfs, zap.String(a.tsKey, e.At.UTC().Format(time.RFC3339Nano)))
	if e.Target != "" {
		zfs = append(zfs, zap.String(TargetKey, e.Target))
	}
	for i := range e.Fields {
		zfs = append(zfs, toZapField(&e.Fields[i]))
	}
	ce.Write(zfs...)
}

func (a *Adapter) SetMinLevel(l xnotify.Level) {
	if a.al == nil {
		return
	}
	a.al.SetLevel(toZapLevel(l))
}

func toZapLevel(l xnotify.Level) zapcore.Level {
	switch {
	case l <= xnotify.LevelDebug:
		return zapcore.DebugLevel // zap has no trace
	case l <= xnotify.LevelInfo:
		return zapcore.InfoLevel
	case l <= xnotify.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// fromZapLevel maps zap levels onto canonical xnotify levels; DPanic, Panic
// and Fatal all become FATAL.
func fromZapLevel(l zapcore.Level) xnotify.Level {
	switch {
	case l < zapcore.DebugLevel:
		return xnotify.LevelTrace
	case l == zapcore.DebugLevel:
		return xnotify.LevelDebug
	case l == zapcore.InfoLevel:
		return xnotify.LevelInfo
	case l == zapcore.WarnLevel:
		return xnotify.LevelWarn
	case l == zapcore.ErrorLevel:
		return xnotify.LevelError
	default:
		return xnotify.LevelFatal
	}
}

func convertFields(fs []xnotify.Field) []zap.Field {
	out := make([]zap.Field, len(fs))
	for i := range fs {
		out[i] = toZapField(&fs[i])
	}
	return out
}

func toZapField(f *xnotify.Field) zap.Field {
	switch f.Kind {
	case xnotify.KindString:
		return zap.String(f.K, f.Str)
	case xnotify.KindInt64:
		return zap.Int64(f.K, f.Int64)
	case xnotify.KindUint64:
		return zap.Uint64(f.K, f.Uint64)
	case xnotify.KindFloat64:
		return zap.Float64(f.K, f.Float64)
	case xnotify.KindBool:
		return zap.Bool(f.K, f.Bool)
	case xnotify.KindDuration:
		return zap.Duration(f.K, f.Dur)
	case xnotify.KindTime:
		return zap.Time(f.K, f.Time)
	case xnotify.KindError:
		if f.Err == nil {
			return zap.Skip()
		}
		if f.K == "" || f.K == "error" {
			return zap.Error(f.Err)
		}
		return zap.NamedError(f.K, f.Err)
	case xnotify.KindBytes:
		return zap.ByteString(f.K, f.Bytes)
	case xnotify.KindAny:
		return zap.Any(f.K, f.Any)
	default:
		return zap.Skip()
	}
}
