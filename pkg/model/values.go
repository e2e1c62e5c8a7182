package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Values holds collected input keyed by field name. Entries are string,
// []string (multi-select sets) or float64.
type Values map[string]any

// Set replaces a single entry.
func (v Values) Set(name string, value any) {
	v[name] = value
}

// Toggle inserts value into the set stored under name when absent and removes
// it when present. Remaining elements keep their order. It reports whether the
// value is present after the call.
func (v Values) Toggle(name, value string) bool {
	current := v.Strings(name)
	for idx, existing := range current {
		if existing == value {
			next := make([]string, 0, len(current)-1)
			next = append(next, current[:idx]...)
			next = append(next, current[idx+1:]...)
			v[name] = next
			return false
		}
	}
	next := make([]string, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, value)
	v[name] = next
	return true
}

// String returns the entry as text. Sets are joined with ", ".
func (v Values) String(name string) string {
	switch typed := v[name].(type) {
	case nil:
		return ""
	case string:
		return typed
	case []string:
		return strings.Join(typed, ", ")
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}

// Strings returns the entry as a slice. Scalars become a one element slice,
// empty strings an empty slice.
func (v Values) Strings(name string) []string {
	switch typed := v[name].(type) {
	case nil:
		return nil
	case []string:
		return typed
	case []any:
		return toStrings(typed)
	case string:
		if typed == "" {
			return nil
		}
		return []string{typed}
	default:
		return []string{v.String(name)}
	}
}

// Number returns the entry as float64.
func (v Values) Number(name string) (float64, bool) {
	return toNumber(v[name])
}

// Present reports whether the entry satisfies a required check: non-blank
// text, a non-empty set, or any number.
func (v Values) Present(name string) bool {
	switch typed := v[name].(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	case []string:
		return len(typed) > 0
	case []any:
		return len(typed) > 0
	default:
		return true
	}
}

// Clone returns a deep copy so a frozen snapshot is not affected by later
// edits.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		if set, ok := value.([]string); ok {
			out[key] = append([]string(nil), set...)
			continue
		}
		out[key] = value
	}
	return out
}

// Map exposes the values as a plain map, converting sets to []any so template
// engines and JSON encoders treat them uniformly.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v))
	for key, value := range v {
		if set, ok := value.([]string); ok {
			items := make([]any, len(set))
			for i, s := range set {
				items[i] = s
			}
			out[key] = items
			continue
		}
		out[key] = value
	}
	return out
}

func toStrings(value any) []string {
	switch typed := value.(type) {
	case nil:
		return []string{}
	case []string:
		return append([]string{}, typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if typed == "" {
			return []string{}
		}
		return []string{typed}
	default:
		return []string{fmt.Sprint(typed)}
	}
}

func toNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ParseNumber converts user input into the float stored for number fields.
func ParseNumber(raw string) (float64, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("model: %q is not a number", raw)
	}
	return f, nil
}
