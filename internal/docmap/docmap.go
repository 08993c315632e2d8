// Package docmap reads loosely typed document fields with defaults.
package docmap

import "time"

// String returns m[key] when it is a string, otherwise def.
func String(m map[string]interface{}, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}

func Bool(m map[string]interface{}, key string) bool {
	v, _ := m[key].(bool)
	return v
}

// StringList accepts both the []string we write and the []interface{}
// Firestore returns. Non-string elements are skipped. Never returns nil.
func StringList(m map[string]interface{}, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return Copy(v)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// Millis reads a timestamp stored either as a number of millis or as a
// Firestore timestamp.
func Millis(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case time.Time:
		return v.UnixMilli()
	default:
		return 0
	}
}

// Copy returns a non-nil copy of in.
func Copy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
