package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// IntPtr converts a loosely typed API value to *int.
// It handles JSON numbers (float64), strings, and integer types; nil and
// unparseable values map to nil.
func IntPtr(val any) *int {
	switch v := val.(type) {
	case nil:
		return nil
	case int:
		return &v
	case int64:
		i := int(v)
		return &i
	case float64:
		i := int(v)
		return &i
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		return &i
	default:
		return nil
	}
}

// FloatPtr converts a loosely typed API value to *float64.
// Result fields (faults, times, scores, prize money) arrive as numbers or
// numeric strings depending on the endpoint.
func FloatPtr(val any) *float64 {
	switch v := val.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// String converts a loosely typed API value to a trimmed string, truncated to
// maxLen. Empty results map to "".
func String(val any, maxLen int) string {
	var s string
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		s = fmt.Sprintf("%v", v)
	}
	s = strings.TrimSpace(s)
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// Flag converts a loosely typed API value to bool. The remote API encodes
// flags as 0/1, "0"/"1", or occasionally true/false.
func Flag(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int:
		return v == 1
	case int64:
		return v == 1
	case float64:
		return v == 1
	case string:
		s := strings.TrimSpace(v)
		return s == "1" || strings.EqualFold(s, "true")
	default:
		return false
	}
}
