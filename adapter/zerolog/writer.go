package zerologadapter

import (
	"bytes"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/xnotify"
)

// Writer feeds zerolog output to a notification hook. Plug it next to the
// real output:
//
//	layer := notifier.Layer()
//	log := zerolog.New(zerolog.MultiLevelWriter(os.Stdout, zerologadapter.NewWriter(layer, "billing")))
//
// Keys keep their order of appearance. zerolog.MessageFieldName becomes the
// message field, the level and timestamp keys are dropped and a string
// TargetKey overrides the default target. Lines that are not JSON objects are
// ignored; Writer never returns an error, so it cannot disturb the host logger.
type Writer struct {
	hook   xnotify.Hook
	target string
}

var _ zerolog.LevelWriter = (*Writer)(nil)

func NewWriter(hook xnotify.Hook, target string) *Writer {
	if hook == nil {
		panic("xnotify/zerolog: NewWriter called with a nil hook")
	}
	return &Writer{hook: hook, target: target}
}

// WriteLevel checks level against the hook before decoding anything.
func (w *Writer) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	lvl, ok := fromZerologLevel(l)
	if !ok || !w.hook.Captures(lvl) {
		return len(p), nil
	}
	if rec, ok := w.decode(lvl, p); ok {
		w.hook.OnEvent(rec)
	}
	return len(p), nil
}

// Write serves writers that are not level-aware; the level is read from the
// line itself, and a missing level counts as INFO.
func (w *Writer) Write(p []byte) (int, error) {
	rec, ok := w.decode(xnotify.LevelInfo, p)
	if !ok {
		return len(p), nil
	}
	if rec.levelText != "" {
		zl, err := zerolog.ParseLevel(rec.levelText)
		if err != nil {
			return len(p), nil
		}
		lvl, ok := fromZerologLevel(zl)
		if !ok {
			return len(p), nil
		}
		rec.md.Level = lvl
	}
	if w.hook.Captures(rec.md.Level) {
		w.hook.OnEvent(rec)
	}
	return len(p), nil
}

type jsonField struct {
	key   string
	value any
}

// lineRecord is one decoded zerolog line.
type lineRecord struct {
	md        xnotify.Metadata
	levelText string
	fields    []jsonField
}

func (r *lineRecord) Metadata() xnotify.Metadata { return r.md }

func (r *lineRecord) Record(v xnotify.Visitor) {
	for _, f := range r.fields {
		v.RecordField(f.key, f.value)
	}
}

func (w *Writer) decode(level xnotify.Level, p []byte) (*lineRecord, bool) {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, false
	}

	rec := &lineRecord{md: xnotify.Metadata{Level: level, Target: w.target}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, false
		}
		value := decodeValue(raw)

		switch key {
		case zerolog.LevelFieldName:
			rec.levelText, _ = value.(string)
		case zerolog.TimestampFieldName:
		case zerolog.MessageFieldName:
			if s, ok := value.(string); ok {
				rec.fields = append(rec.fields, jsonField{xnotify.MessageField, xnotify.Text(s)})
			} else {
				rec.fields = append(rec.fields, jsonField{xnotify.MessageField, value})
			}
		case TargetKey:
			if s, ok := value.(string); ok {
				rec.md.Target = s
				continue
			}
			rec.fields = append(rec.fields, jsonField{key, value})
		default:
			rec.fields = append(rec.fields, jsonField{key, value})
		}
	}
	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, false
	}
	return rec, true
}

// decodeValue turns a JSON value into a report value: numbers become int64
// when integral and float64 otherwise, objects and arrays stay as compact JSON.
func decodeValue(raw json.RawMessage) any {
	switch raw[0] {
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return xnotify.Text(raw)
		}
		return xnotify.Text(buf.String())
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return xnotify.Text(raw)
	}
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return xnotify.Text(n.String())
	}
	return v
}
