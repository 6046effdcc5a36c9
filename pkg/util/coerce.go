package util

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// AsInt coerces a decoded JSON scalar into an int. Integral floats and numeric
// strings are accepted; booleans, fractions and anything else are not.
func AsInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		// float64(math.MaxInt) rounds up to 2^63, so >= keeps int(x) defined.
		if math.Trunc(x) != x || x >= float64(math.MaxInt) || x < float64(math.MinInt) {
			return 0, false
		}
		return int(x), true
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n), true
		}
		if f, err := x.Float64(); err == nil {
			return AsInt(f)
		}
		return 0, false
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return AsInt(f)
		}
		return 0, false
	default:
		return 0, false
	}
}

// AsFlag coerces a truthy/falsy scalar into 0 or 1.
func AsFlag(v interface{}) (int, bool) {
	switch x := v.(type) {
	case nil:
		return 0, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "t", "yes", "y", "on":
			return 1, true
		case "0", "false", "f", "no", "n", "off", "":
			return 0, true
		}
		return 0, false
	default:
		n, ok := AsInt(x)
		if !ok || (n != 0 && n != 1) {
			return 0, false
		}
		return n, true
	}
}

// CanonicalID normalizes an external player id. Integer ids and digit-only
// strings collapse to their decimal text so 444482, 444482.0 and "0444482"
// match. Digits are handled as text, so long ids never overflow. Negative
// numbers are rejected in either form.
func CanonicalID(v interface{}) (string, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		switch {
		case s == "":
			return "", false
		case isDigits(s):
			return trimZeros(s), true
		case s[0] == '-' && isDigits(s[1:]):
			return "", false
		}
		return s, true
	case json.Number:
		s := string(x)
		if isDigits(s) {
			return trimZeros(s), true
		}
		f, err := x.Float64()
		if err != nil {
			return "", false
		}
		return canonicalFloat(f)
	case float64:
		return canonicalFloat(x)
	case int:
		return CanonicalID(int64(x))
	case int64:
		if x < 0 {
			return "", false
		}
		return strconv.FormatInt(x, 10), true
	default:
		return "", false
	}
}

func canonicalFloat(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f || f < 0 {
		return "", false
	}
	if f == 0 {
		return "0", true
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

func trimZeros(digits string) string {
	if t := strings.TrimLeft(digits, "0"); t != "" {
		return t
	}
	return "0"
}

// AsString renders any decoded scalar as text; nil becomes "".
func AsString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// ParseIntDefault parses s as an int, returning def when s is empty or invalid.
func ParseIntDefault(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AsFloat coerces a decoded JSON number or numeric string into a float64.
func AsFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return AsFloat(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return AsFloat(f)
	default:
		return 0, false
	}
}
