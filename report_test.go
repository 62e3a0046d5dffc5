package xnotify

import (
	"errors"
	"testing"
	"time"
)

func TestFormatReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  string
		message string
		fields  []FieldRecord
		want    string
	}{
		{
			name:    "no fields",
			target:  "app::worker",
			message: "boom",
			want:    "\n--------\ntarget: app::worker\n--------\nmessage: boom\n--------\nfields\n\n",
		},
		{
			name:    "two fields in order",
			target:  "api",
			message: "slow",
			fields:  []FieldRecord{{"b", "2"}, {"a", "1"}},
			want:    "\n--------\ntarget: api\n--------\nmessage: slow\n--------\nfields\n\nb = 2\na = 1\n",
		},
		{
			name:    "newlines are not escaped",
			target:  "",
			message: "line1\nline2",
			fields:  []FieldRecord{{"raw", "x\ty"}},
			want:    "\n--------\ntarget: \n--------\nmessage: line1\nline2\n--------\nfields\n\nraw = x\ty\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatReport(tt.target, tt.message, tt.fields)
			if got != tt.want {
				t.Fatalf("report mismatch:\n got %q\nwant %q", got, tt.want)
			}
			if again := FormatReport(tt.target, tt.message, tt.fields); again != got {
				t.Fatalf("report not deterministic: %q vs %q", again, got)
			}
		})
	}
}

type point struct{ X, Y int }

type hexID uint32

func (h hexID) DebugString() string { return "0x" + string("0123456789abcdef"[h%16]) }

type codeErr struct{ code int }

func (e *codeErr) Error() string { return "code " + string(rune('0'+e.code)) }

type node struct{ name string }

func (n *node) DebugString() string { return n.name }

func TestRender(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{nil, "nil"},
		{"failure", `"failure"`},
		{"quote\"d", `"quote\"d"`},
		{Text("as is"), "as is"},
		{errors.New("boom"), `"boom"`},
		{true, "true"},
		{42, "42"},
		{int8(-3), "-3"},
		{uint16(7), "7"},
		{uint64(1 << 40), "1099511627776"},
		{1.5, "1.5"},
		{float32(0.25), "0.25"},
		{1500 * time.Millisecond, "1.5s"},
		{at, "2025-01-02T03:04:05.000000006Z"},
		{[]byte("hi"), `"hi"`},
		{point{1, 2}, "{X:1 Y:2}"},
		{hexID(10), "0xa"},
		{[]int{1, 2}, "[1 2]"},
		{&codeErr{7}, `"code 7"`},
		{(*codeErr)(nil), "<nil>"},
		{error((*codeErr)(nil)), "<nil>"},
		{&node{"leaf"}, "leaf"},
		{(*node)(nil), "<nil>"},
	}
	for _, tt := range tests {
		if got := Render(tt.in); got != tt.want {
			t.Errorf("Render(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCapture(t *testing.T) {
	t.Parallel()

	r := testRecord{
		level: LevelError,
		fields: []testField{
			{"a", 1},
			{MessageField, Text("m")},
			{"b", "two"},
		},
	}
	msg, ok, fields := Capture(r)
	if !ok || msg != "m" {
		t.Fatalf("message mismatch: %q %v", msg, ok)
	}
	if len(fields) != 2 || fields[0] != (FieldRecord{"a", "1"}) || fields[1] != (FieldRecord{"b", `"two"`}) {
		t.Fatalf("fields mismatch: %+v", fields)
	}

	_, ok, fields = Capture(testRecord{fields: []testField{{"a", 1}}})
	if ok {
		t.Fatal("record without message must report ok=false")
	}
	if len(fields) != 1 {
		t.Fatalf("fields mismatch: %+v", fields)
	}
}

func TestLayer_TypedNilValues(t *testing.T) {
	t.Parallel()

	var reports []string
	layer := NewLayer([]Level{LevelError}, "", DispatchFunc[string](func(_ string, r string) {
		reports = append(reports, r)
	}))
	layer.OnEvent(Entry{
		Level:   LevelError,
		Target:  "svc",
		Message: "lookup failed",
		Fields:  []Field{Err("err", (*codeErr)(nil)), Any("node", (*node)(nil))},
	})

	want := "\n--------\ntarget: svc\n--------\nmessage: lookup failed\n--------\nfields\n\nerr = <nil>\nnode = <nil>\n"
	if len(reports) != 1 || reports[0] != want {
		t.Fatalf("reports mismatch:\n got %q\nwant %q", reports, want)
	}
}
