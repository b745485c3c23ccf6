package jsonld

import (
	"math"
	"strconv"
	"strings"
)

// The accessors below are total: a value of the wrong shape yields ok == false.

// String returns v when it is a JSON string.
func String(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// Object returns v when it is a JSON object.
func Object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// Objects returns the objects held by v. A single object is treated as a
// one-element list; list entries that are not objects are skipped.
func Objects(v any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return []map[string]any{t}
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, entry := range t {
			if m, ok := entry.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// Float converts a JSON number or numeric string. Empty strings, booleans,
// unparsable text and non-finite values yield ok == false.
func Float(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Path walks nested objects by key and returns the value at the end.
func Path(v any, keys ...string) (any, bool) {
	cur := v
	for _, key := range keys {
		m, ok := Object(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
