package zapadapter

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trickstertwo/xclock"

	"github.com/trickstertwo/xnotify"
)

// Config is an explicit, code-first configuration for zap + xnotify.
// No envs, no hidden init, one call to Use.
type Config struct {
	Writer             io.Writer // default: os.Stdout
	MinLevel           xnotify.Level
	Target             string                // default target of the global logger
	Observers          []xnotify.Observer    // typically notification Layers
	Console            bool                  // console encoder instead of JSON
	EncoderConfig      zapcore.EncoderConfig // if zero, a sensible default is used
	Caller             bool                  // include caller in logs
	CallerSkip         int                   // default 2
	TimestampFieldName string                // default "ts"
}

// Use builds a zap-backed logger from cfg, sets it as the global xnotify
// logger and returns it. Timestamps come from xclock.Default().
func Use(cfg Config) *xnotify.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	if cfg.TimestampFieldName == "" {
		cfg.TimestampFieldName = "ts"
	}
	if cfg.Caller && cfg.CallerSkip <= 0 {
		cfg.CallerSkip = 2
	}

	encCfg := cfg.EncoderConfig
	if encCfg.LevelKey == "" && encCfg.MessageKey == "" && encCfg.EncodeTime == nil {
		encCfg = zapcore.EncoderConfig{
			LevelKey:       "level",
			MessageKey:     "message",
			CallerKey:      "caller",
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.RFC3339NanoTimeEncoder, // for zap.Time fields
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}
	}
	// The Logger's timestamp is the only one.
	encCfg.TimeKey = ""

	var enc zapcore.Encoder
	if cfg.Console {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	al := zap.NewAtomicLevelAt(toZapLevel(cfg.MinLevel))
	core := zapcore.NewCore(enc, zapcore.AddSync(w), al)

	opts := []zap.Option{zap.AddStacktrace(zapcore.FatalLevel + 1)}
	if cfg.Caller {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(cfg.CallerSkip))
	}

	b := xnotify.NewBuilder().
		WithAdapter(NewWithTimestampKey(zap.New(core, opts...), &al, cfg.TimestampFieldName)).
		WithMinLevel(cfg.MinLevel).
		WithTarget(cfg.Target).
		WithClock(xclock.Default())
	for _, o := range cfg.Observers {
		b = b.AddObserver(o)
	}
	logger, err := b.Build()
	if err != nil {
		panic(err)
	}

	xnotify.SetGlobal(logger)
	return logger
}
