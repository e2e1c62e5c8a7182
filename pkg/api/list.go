package api

import (
	"fmt"
	"strings"
)

// defaultListKeys are the wrapper fields probed when a list endpoint returns
// an object instead of a bare array.
var defaultListKeys = []string{"data", "items", "results", "clientes", "servicios"}

// ListItems coerces a list response into objects. payload may be a bare array
// or an object wrapping the array under one of paths (dotted) or the default
// wrapper keys. Any other shape yields ErrMalformedList.
func ListItems(payload any, paths ...string) ([]map[string]any, error) {
	if payload == nil {
		return []map[string]any{}, nil
	}

	candidates := []any{payload}
	if obj, ok := payload.(map[string]any); ok {
		candidates = candidates[:0]
		for _, path := range paths {
			if v, ok := lookup(obj, path); ok {
				candidates = append(candidates, v)
			}
		}
		for _, key := range defaultListKeys {
			if v, ok := obj[key]; ok {
				candidates = append(candidates, v)
			}
		}
	}

	for _, candidate := range candidates {
		items, ok := candidate.([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(items))
		for idx, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: item %d is %T", ErrMalformedList, idx, item)
			}
			out = append(out, obj)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrMalformedList, payload)
}

// Pick resolves a dotted path inside an object and stringifies the result.
// Missing values yield "".
func Pick(obj map[string]any, path string) string {
	v, ok := lookup(obj, path)
	if !ok || v == nil {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return typed
	case float64:
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}
		return fmt.Sprint(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func lookup(obj map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	var cur any = obj
	for _, segment := range strings.Split(path, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
