package slogadapter

import (
	"io"
	"log/slog"
	"os"

	"github.com/trickstertwo/xclock"

	"github.com/trickstertwo/xnotify"
)

// Format selects the slog handler format.
type Format uint8

const (
	FormatJSON Format = iota + 1
	FormatText
)

// Config is an explicit, code-first configuration for slog + xnotify.
// One call to Use wires a slog-backed logger and sets it global.
type Config struct {
	Writer             io.Writer            // default: os.Stdout
	MinLevel           xnotify.Level        // used by both the Logger and slog
	Target             string               // default target of the global logger
	Observers          []xnotify.Observer   // typically notification Layers
	Format             Format               // JSON (default) or Text
	HandlerOptions     *slog.HandlerOptions // optional; Level is managed by Use via LevelVar
	TimestampFieldName string               // default "ts"
}

// Use builds a slog-backed logger from cfg, sets it as the global xnotify
// logger and returns it.
func Use(cfg Config) *xnotify.Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	opts := slog.HandlerOptions{}
	if cfg.HandlerOptions != nil {
		opts = *cfg.HandlerOptions
	}

	// A LevelVar lets the adapter follow SetMinLevel.
	lv := new(slog.LevelVar)
	opts.Level = lv

	var h slog.Handler
	if cfg.Format == FormatText {
		h = slog.NewTextHandler(w, &opts)
	} else {
		h = slog.NewJSONHandler(w, &opts)
	}

	b := xnotify.NewBuilder().
		WithAdapter(NewWithTimestampKey(slog.New(h), lv, cfg.TimestampFieldName)).
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
