package wrangle

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CoerceFloat parses a scalar of any driver-produced type as a float.
// Non-numeric and NaN inputs coerce to 0 rather than failing, per the
// derivation policy for malformed composition columns.
func CoerceFloat(v interface{}) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int64:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case []byte:
		f, _ = strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0
	}
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// CoerceString renders a scalar as its string form, empty for nil.
func CoerceString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		return ""
	}
}

// CoerceBool interprets the truthy forms boolean columns come back as
// (native bools, t/true/yes/1 strings, nonzero numbers).
func CoerceBool(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return truthyString(b)
	case []byte:
		return truthyString(string(b))
	case int64:
		return b != 0
	case int:
		return b != 0
	case float64:
		return b != 0
	default:
		return false
	}
}

func truthyString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "yes", "y", "1":
		return true
	}
	return false
}

// CoerceTime parses timestamp columns, accepting native time values and the
// common textual encodings pq hands back.
func CoerceTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		return parseTimeString(t)
	case []byte:
		return parseTimeString(string(t))
	default:
		return time.Time{}
	}
}

func parseTimeString(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
