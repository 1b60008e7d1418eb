// File: simpleconf/coerce.go
package simpleconf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// parseBoolToken maps the accepted boolean spellings, case-insensitively.
func parseBoolToken(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

// InferValue converts a raw string into the first matching type:
// boolean token, integer, float, otherwise the raw string.
func InferValue(raw string) Value {
	text := strings.TrimSpace(raw)
	if b, ok := parseBoolToken(text); ok {
		return Bool(b)
	}
	if isIntegerToken(text) {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Int(i)
		}
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return Float(f)
	}
	return String(raw)
}

// isIntegerToken reports whether s is an optional leading '-' followed by
// one or more ASCII digits.
func isIntegerToken(s string) bool {
	s = strings.TrimPrefix(s, "-")
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

// toBool converts a native value using the boolean token table.
func toBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string, int64, float64:
		if b, ok := parseBoolToken(fmt.Sprint(val)); ok {
			return b, nil
		}
	}
	return false, fmt.Errorf("cannot convert %v (type %T) to bool", v, v)
}

// toInt64 converts numeric values, integer strings and booleans. Floats are
// truncated toward zero and must be finite and within the int64 range.
func toInt64(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, hence the open bound.
		if math.IsNaN(val) || val < math.MinInt64 || val >= math.MaxInt64 {
			return 0, fmt.Errorf("cannot convert %v to int64: out of range", val)
		}
		return int64(val), nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to int64: %w", val, err)
		}
		return i, nil
	}
	return 0, fmt.Errorf("cannot convert type %T to int64", v)
}

// toInt narrows toInt64 to the platform int.
func toInt(v any) (int, error) {
	i, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if i < math.MinInt || i > math.MaxInt {
		return 0, fmt.Errorf("cannot convert %d to int: out of range", i)
	}
	return int(i), nil
}

// toFloat64 converts numeric values, numeric strings and booleans.
func toFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int64:
		return float64(val), nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to float64: %w", val, err)
		}
		return f, nil
	}
	return 0, fmt.Errorf("cannot convert type %T to float64", v)
}

// toString renders scalars; containers do not convert.
func toString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	}
	return "", fmt.Errorf("cannot convert type %T to string", v)
}

// toDuration parses duration strings; integers are taken as nanoseconds.
func toDuration(v any) (time.Duration, error) {
	switch val := v.(type) {
	case string:
		return time.ParseDuration(strings.TrimSpace(val))
	case int64:
		return time.Duration(val), nil
	}
	return 0, fmt.Errorf("cannot convert type %T to time.Duration", v)
}
