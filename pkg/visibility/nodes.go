package visibility

import (
	"fmt"
	"strconv"
	"strings"
)

type node interface {
	eval(values map[string]any) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(values map[string]any) bool {
	return n.left.eval(values) || n.right.eval(values)
}

type andNode struct{ left, right node }

func (n andNode) eval(values map[string]any) bool {
	return n.left.eval(values) && n.right.eval(values)
}

type notNode struct{ inner node }

func (n notNode) eval(values map[string]any) bool {
	return !n.inner.eval(values)
}

type presentNode struct{ field string }

func (n presentNode) eval(values map[string]any) bool {
	switch typed := values[n.field].(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	case []string:
		return len(typed) > 0
	case []any:
		return len(typed) > 0
	case bool:
		return typed
	default:
		if number, ok := toNumber(typed); ok {
			return number != 0
		}
		return true
	}
}

type compareNode struct {
	field   string
	op      string
	text    string
	numeric bool
	number  float64
}

func (n compareNode) eval(values map[string]any) bool {
	raw := values[n.field]
	switch n.op {
	case "==":
		return n.equal(raw)
	case "!=":
		return !n.equal(raw)
	}
	got, ok := toNumber(raw)
	if !ok {
		return false
	}
	switch n.op {
	case "<":
		return got < n.number
	case "<=":
		return got <= n.number
	case ">":
		return got > n.number
	case ">=":
		return got >= n.number
	}
	return false
}

func (n compareNode) equal(raw any) bool {
	switch typed := raw.(type) {
	case []string:
		for _, item := range typed {
			if n.scalarEqual(item) {
				return true
			}
		}
		return false
	case []any:
		for _, item := range typed {
			if n.scalarEqual(item) {
				return true
			}
		}
		return false
	default:
		return n.scalarEqual(raw)
	}
}

func (n compareNode) scalarEqual(raw any) bool {
	if raw == nil {
		return false
	}
	if n.numeric {
		got, ok := toNumber(raw)
		return ok && got == n.number
	}
	switch typed := raw.(type) {
	case string:
		return typed == n.text
	default:
		return fmt.Sprint(typed) == n.text
	}
}

func toNumber(raw any) (float64, bool) {
	switch typed := raw.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		number, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return number, err == nil
	default:
		return 0, false
	}
}
