package xnotify

import (
	"fmt"
	"strconv"
	"time"
)

// Debugger is implemented by values that know their own report rendering.
type Debugger interface {
	DebugString() string
}

// Text is pre-formatted text. It renders verbatim, without quoting, which is
// how host messages reach the report.
type Text string

func (t Text) DebugString() string { return string(t) }

// Render renders any value to its structural text form. It never fails.
// Strings and errors are quoted so a field value can be told apart from the
// surrounding report text.
func Render(v any) string {
	if v == nil {
		return "nil"
	}
	switch vv := v.(type) {
	case Debugger:
		return safeString(v, vv.DebugString, false)
	case string:
		return strconv.Quote(vv)
	case error:
		return safeString(v, vv.Error, true)
	case bool:
		return strconv.FormatBool(vv)
	case int:
		return strconv.FormatInt(int64(vv), 10)
	case int8:
		return strconv.FormatInt(int64(vv), 10)
	case int16:
		return strconv.FormatInt(int64(vv), 10)
	case int32:
		return strconv.FormatInt(int64(vv), 10)
	case int64:
		return strconv.FormatInt(vv, 10)
	case uint:
		return strconv.FormatUint(uint64(vv), 10)
	case uint8:
		return strconv.FormatUint(uint64(vv), 10)
	case uint16:
		return strconv.FormatUint(uint64(vv), 10)
	case uint32:
		return strconv.FormatUint(uint64(vv), 10)
	case uint64:
		return strconv.FormatUint(vv, 10)
	case float32:
		return strconv.FormatFloat(float64(vv), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(vv, 'g', -1, 64)
	case time.Duration:
		return vv.String()
	case time.Time:
		return vv.Format(time.RFC3339Nano)
	case []byte:
		return strconv.Quote(string(vv))
	default:
		return fmt.Sprintf("%+v", vv)
	}
}

// safeString calls method and falls back to fmt when it panics, as a
// typed-nil pointer receiver does. fmt prints such a value as "<nil>".
func safeString(v any, method func() string, quote bool) (s string) {
	defer func() {
		if recover() != nil {
			s = fmt.Sprintf("%+v", v)
		}
	}()
	s = method()
	if quote {
		s = strconv.Quote(s)
	}
	return s
}
