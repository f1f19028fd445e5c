// Package jsonpath navigates decoded JSON values by key path.
package jsonpath

import "strings"

// Get walks value through the given keys and returns the nested value.
// Returns nil, false when any step is missing or not an object.
func Get(value any, path ...string) (any, bool) {
	current := value
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// GetDotted is Get with a single dotted path such as "state.name".
func GetDotted(value any, dotted string) (any, bool) {
	if dotted == "" {
		return value, true
	}
	return Get(value, strings.Split(dotted, ".")...)
}

// String returns the string at path, or fallback when missing or not a
// string.
func String(value any, fallback string, path ...string) string {
	v, ok := Get(value, path...)
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

// Number returns the float64 at path. JSON numbers decode to float64.
func Number(value any, path ...string) (float64, bool) {
	v, ok := Get(value, path...)
	if !ok {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}

// Bool returns the bool at path, false when missing.
func Bool(value any, path ...string) bool {
	v, ok := Get(value, path...)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Array returns the slice at path, nil when missing.
func Array(value any, path ...string) []any {
	v, ok := Get(value, path...)
	if !ok {
		return nil
	}
	arr, _ := v.([]any)
	return arr
}
