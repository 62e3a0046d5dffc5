package zapadapter

import (
	"sort"

	"go.uber.org/zap/zapcore"

	"github.com/trickstertwo/xnotify"
)

// Core is a zapcore.Core feeding a notification hook. Combine it with the
// real output through zapcore.NewTee:
//
//	core := zapcore.NewTee(jsonCore, zapadapter.NewCore(notifier.Layer(), "billing"))
//
// The logger name (zap.Logger.Named) becomes the target; the target given to
// NewCore is used for unnamed loggers.
type Core struct {
	hook   xnotify.Hook
	target string
	fields []zapcore.Field
}

var _ zapcore.Core = (*Core)(nil)

func NewCore(hook xnotify.Hook, target string) *Core {
	if hook == nil {
		panic("xnotify/zap: NewCore called with a nil hook")
	}
	return &Core{hook: hook, target: target}
}

func (c *Core) Enabled(l zapcore.Level) bool {
	return c.hook.Captures(fromZapLevel(l))
}

func (c *Core) With(fs []zapcore.Field) zapcore.Core {
	child := *c
	child.fields = make([]zapcore.Field, 0, len(c.fields)+len(fs))
	child.fields = append(append(child.fields, c.fields...), fs...)
	return &child
}

// Check adds c only for captured levels, so uncaptured entries never reach
// Write.
func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *Core) Write(ent zapcore.Entry, fs []zapcore.Field) error {
	target := ent.LoggerName
	if target == "" {
		target = c.target
	}
	c.hook.OnEvent(&entryRecord{
		md:     xnotify.Metadata{Level: fromZapLevel(ent.Level), Target: target},
		msg:    ent.Message,
		bound:  c.fields,
		fields: fs,
	})
	return nil
}

func (c *Core) Sync() error { return nil }

type entryRecord struct {
	md     xnotify.Metadata
	msg    string
	bound  []zapcore.Field
	fields []zapcore.Field
}

func (r *entryRecord) Metadata() xnotify.Metadata { return r.md }

// Record visits the message, then bound fields, then entry fields. A
// zap.Namespace prefixes the keys that follow it with "ns.".
func (r *entryRecord) Record(v xnotify.Visitor) {
	if r.msg != "" {
		v.RecordField(xnotify.MessageField, xnotify.Text(r.msg))
	}
	prefix := ""
	for _, fs := range [2][]zapcore.Field{r.bound, r.fields} {
		for i := range fs {
			f := &fs[i]
			if f.Type == zapcore.NamespaceType {
				prefix += f.Key + "."
				continue
			}
			visitField(v, prefix, f)
		}
	}
}

// visitField renders f through a MapObjectEncoder, which handles every zap
// field type, marshalers included.
func visitField(v xnotify.Visitor, prefix string, f *zapcore.Field) {
	enc := zapcore.NewMapObjectEncoder()
	f.AddTo(enc)
	if val, ok := enc.Fields[f.Key]; ok && len(enc.Fields) == 1 {
		v.RecordField(prefix+f.Key, val)
		return
	}
	// Inline marshalers and the like add several keys at once.
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.RecordField(prefix+k, enc.Fields[k])
	}
}
