// engine/resolver.go
package engine

import (
	"strings"

	"github.com/arbiterhq/arbiter/model"
)

// ResolveAttribute walks a dot-path such as "subject.department" or
// "data.consent.given" against the evaluation context. The first segment
// selects the context root; the rest descend through nested maps. It returns
// (nil, false) on any missing segment and never panics.
func ResolveAttribute(path string, ctx model.PolicyContext) (any, bool) {
	parts := strings.Split(path, ".")
	if len(parts) == 0 || parts[0] == "" {
		return nil, false
	}

	var current any
	switch parts[0] {
	case "subject":
		current = ctx.Subject
	case "resource":
		current = ctx.Resource
	case "action":
		if len(parts) > 1 {
			return nil, false
		}
		return ctx.Action, true
	case "data":
		current = ctx.Data
	default:
		return nil, false
	}

	for _, part := range parts[1:] {
		value, ok := lookup(current, part)
		if !ok {
			return nil, false
		}
		current = value
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

func lookup(container any, key string) (any, bool) {
	switch m := container.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case map[string]string:
		v, ok := m[key]
		return v, ok
	default:
		return nil, false
	}
}
