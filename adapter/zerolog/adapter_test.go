package zerologadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/trickstertwo/xnotify"
)

func TestZerologAdapter_JSON_EmitsTSAndFields(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf))

	at := time.Date(2024, 12, 31, 23, 59, 59, 123456789, time.UTC)
	a.Log(xnotify.Entry{
		At:      at,
		Level:   xnotify.LevelInfo,
		Target:  "billing::invoices",
		Message: "state changed",
		Fields: []xnotify.Field{
			xnotify.Str("from", "old"),
			xnotify.Int("count", 2),
			xnotify.Bool("ok", true),
			xnotify.Dur("dur", time.Millisecond),
			xnotify.Err(errors.New("boom")),
		},
	})

	line := buf.Bytes()
	if len(line) == 0 {
		t.Fatal("no output from zerolog")
	}
	var m map[string]any
	if err := json.Unmarshal(line, &m); err != nil {
		t.Fatalf("json unmarshal: %v; line=%s", err, string(line))
	}

	if m["level"] != "info" {
		t.Fatalf("level mismatch: %v", m["level"])
	}
	if m["message"] != "state changed" {
		t.Fatalf("message mismatch: %v", m["message"])
	}
	if m[TargetKey] != "billing::invoices" {
		t.Fatalf("target mismatch: %v", m[TargetKey])
	}
	if got, want := m["ts"], at.Format(time.RFC3339Nano); got != want {
		t.Fatalf("ts mismatch: got %v want %q", got, want)
	}
	// JSON unmarshals numbers as float64.
	if m["from"] != "old" || m["count"] != float64(2) || m["ok"] != true {
		t.Fatalf("fields mismatch: %v", m)
	}
	if m["error"] != "boom" {
		t.Fatalf("error mismatch: %v", m["error"])
	}
}

func TestZerologAdapter_WithBoundFields(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf))

	a2 := a.With([]xnotify.Field{xnotify.Str("svc", "api"), xnotify.Str("ver", "1.0.0")})
	a2.Log(xnotify.Entry{At: time.Unix(0, 0), Level: xnotify.LevelInfo, Message: "ok", Fields: []xnotify.Field{xnotify.Str("path", "/healthz")}})

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if m["svc"] != "api" || m["ver"] != "1.0.0" || m["path"] != "/healthz" {
		t.Fatalf("bound + event fields missing: %v", m)
	}
	if _, ok := m[TargetKey]; ok {
		t.Fatalf("empty target must not be written: %v", m)
	}
}

func TestZerologAdapter_FatalDoesNotExit(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf))
	a.Log(xnotify.Entry{Level: xnotify.LevelFatal, Message: "still here"})

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if m["level"] != "fatal" {
		t.Fatalf("level mismatch: %v", m["level"])
	}
}

func TestZerologAdapter_SetMinLevel(t *testing.T) {
	var buf bytes.Buffer
	a := New(zerolog.New(&buf))
	a.SetMinLevel(xnotify.LevelWarn)

	a.Log(xnotify.Entry{Level: xnotify.LevelInfo, Message: "dropped"})
	if buf.Len() != 0 {
		t.Fatalf("info written below min level: %s", buf.String())
	}
	a.Log(xnotify.Entry{Level: xnotify.LevelWarn, Message: "kept"})
	if buf.Len() == 0 {
		t.Fatal("warn not written")
	}
}

func TestUse_WiresObserversAndTarget(t *testing.T) {
	var out, reports bytes.Buffer
	layer := xnotify.NewLayer([]xnotify.Level{xnotify.LevelError}, &reports,
		xnotify.DispatchFunc[*bytes.Buffer](func(b *bytes.Buffer, r string) { b.WriteString(r) }))

	logger := Use(Config{Writer: &out, MinLevel: xnotify.LevelInfo, Target: "svc", Observers: []xnotify.Observer{layer}})
	if xnotify.L() != logger {
		t.Fatal("Use must set the global logger")
	}

	logger.Error().Str("k", "v").Msg("failed")
	logger.Info().Msg("fine")

	want := "\n--------\ntarget: svc\n--------\nmessage: failed\n--------\nfields\n\nk = \"v\"\n"
	if reports.String() != want {
		t.Fatalf("report mismatch:\n got %q\nwant %q", reports.String(), want)
	}
	if n := bytes.Count(out.Bytes(), []byte("\n")); n != 2 {
		t.Fatalf("want 2 log lines, got %d: %s", n, out.String())
	}
}

func TestDefaultFactory_Env(t *testing.T) {
	t.Setenv("XNOTIFY_MIN_LEVEL", "warn")
	var buf bytes.Buffer
	a := newFromEnv(&buf)

	a.Log(xnotify.Entry{Level: xnotify.LevelInfo, Message: "dropped"})
	a.Log(xnotify.Entry{Level: xnotify.LevelError, Message: "kept"})
	if n := bytes.Count(buf.Bytes(), []byte("\n")); n != 1 {
		t.Fatalf("want 1 line, got %d: %s", n, buf.String())
	}
}

func TestConsole_LeavesZerologGlobalsAlone(t *testing.T) {
	t.Setenv("XNOTIFY_CONSOLE", "1")
	t.Setenv("XNOTIFY_CALLER", "1")
	tsKey, skip := zerolog.TimestampFieldName, zerolog.CallerSkipFrameCount

	var buf bytes.Buffer
	newFromEnv(&buf).Log(xnotify.Entry{At: time.Unix(0, 0), Level: xnotify.LevelWarn, Message: "env console"})
	Use(Config{Writer: &buf, Console: true, Caller: true, TimestampFieldName: "at"}).Warn().Msg("use console")

	if zerolog.TimestampFieldName != tsKey || zerolog.CallerSkipFrameCount != skip {
		t.Fatalf("globals changed: ts=%q skip=%d", zerolog.TimestampFieldName, zerolog.CallerSkipFrameCount)
	}
	got := buf.String()
	for _, want := range []string{"env console", "use console"} {
		if !strings.Contains(got, want) {
			t.Fatalf("console output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "at=") {
		t.Fatalf("custom timestamp key must not repeat as a field:\n%s", got)
	}
}
