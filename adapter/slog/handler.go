package slogadapter

import (
	"context"
	"log/slog"

	"github.com/trickstertwo/xnotify"
)

// DefaultTargetKey is the attribute naming a record's target.
const DefaultTargetKey = "target"

type HandlerOptions struct {
	// Target is used when no target attribute is present.
	Target string
	// TargetKey names the top-level string attribute consumed as the target.
	// Default DefaultTargetKey.
	TargetKey string
}

// Handler is a slog.Handler feeding a notification hook. It writes nothing;
// fan out to it next to the real handler, e.g. with a small multi-handler or
// by logging through two loggers.
//
// Attributes bound with WithAttrs come first, then the record's own. Group
// names qualify keys as "group.key".
type Handler struct {
	hook      xnotify.Hook
	target    string
	targetKey string
	prefix    string
	attrs     []field
}

var _ slog.Handler = (*Handler)(nil)

type field struct {
	key   string
	value any
}

func NewHandler(hook xnotify.Hook, opts *HandlerOptions) *Handler {
	if hook == nil {
		panic("xnotify/slog: NewHandler called with a nil hook")
	}
	h := &Handler{hook: hook, targetKey: DefaultTargetKey}
	if opts != nil {
		h.target = opts.Target
		if opts.TargetKey != "" {
			h.targetKey = opts.TargetKey
		}
	}
	return h
}

// Enabled reports whether the hook captures level. slog levels between the
// canonical ones count as the level below.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.hook.Captures(xnotify.Normalize(xnotify.Level(level)))
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	rec := &slogRecord{
		md:     xnotify.Metadata{Level: xnotify.Normalize(xnotify.Level(r.Level)), Target: h.target},
		msg:    r.Message,
		fields: make([]field, len(h.attrs), len(h.attrs)+r.NumAttrs()),
	}
	copy(rec.fields, h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		rec.fields = h.appendAttr(rec.fields, &rec.md.Target, h.prefix, a)
		return true
	})
	h.hook.OnEvent(rec)
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	child := *h
	child.attrs = make([]field, len(h.attrs), len(h.attrs)+len(attrs))
	copy(child.attrs, h.attrs)
	for _, a := range attrs {
		child.attrs = h.appendAttr(child.attrs, &child.target, h.prefix, a)
	}
	return &child
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	child := *h
	child.prefix = h.prefix + name + "."
	return &child
}

// appendAttr resolves a and flattens groups into dotted keys. A top-level
// string attribute named targetKey sets *target instead of becoming a field.
func (h *Handler) appendAttr(dst []field, target *string, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return dst
		}
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range group {
			dst = h.appendAttr(dst, target, prefix, ga)
		}
		return dst
	}
	if prefix == "" && a.Key == h.targetKey && a.Value.Kind() == slog.KindString {
		*target = a.Value.String()
		return dst
	}
	return append(dst, field{key: prefix + a.Key, value: slogValue(a.Value)})
}

func slogValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration()
	case slog.KindTime:
		return v.Time()
	default:
		return v.Any()
	}
}

type slogRecord struct {
	md     xnotify.Metadata
	msg    string
	fields []field
}

func (r *slogRecord) Metadata() xnotify.Metadata { return r.md }

func (r *slogRecord) Record(v xnotify.Visitor) {
	if r.msg != "" {
		v.RecordField(xnotify.MessageField, xnotify.Text(r.msg))
	}
	for _, f := range r.fields {
		v.RecordField(f.key, f.value)
	}
}
