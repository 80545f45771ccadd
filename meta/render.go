package meta

import (
	"fmt"
	"strings"
)

// Render returns a human-readable rendering of v for diagnostics.
//
// The output is not a faithful encoding: strings are quoted with a fixed
// delimiter and embedded delimiters or control characters are NOT
// escaped. Never parse or round-trip rendered output; use snapshots for
// anything correctness-bearing.
//
// Sequences render their elements in index order. Mapping pairs render
// in the natural map iteration order, which is unspecified; callers must
// not depend on pair order.
func Render(v Value) string {
	switch Classify(v) {
	case ClassPrimitive:
		return renderPrimitive(v, true)
	case ClassSequence:
		t := v.tab
		n := t.DenseLen()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = Render(t.Get(FromInt(int64(i))))
		}
		return braced(parts)
	default:
		t := v.tab
		parts := make([]string, 0, t.KeyCount())
		for k, val := range t.entries {
			parts = append(parts, renderKey(k)+" = "+Render(val))
		}
		return braced(parts)
	}
}

func braced(parts []string) string {
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// renderKey renders a mapping key: string keys appear bare, every other
// primitive in brackets using its natural text form.
func renderKey(k Value) string {
	if k.kind == KindString {
		return k.s
	}
	return "[" + renderPrimitive(k, false) + "]"
}

func renderPrimitive(v Value, quoted bool) string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		if quoted {
			return `"` + v.s + `"`
		}
		return v.s
	case KindCallable:
		if v.call != nil && v.call.Name != "" {
			return "<callable " + v.call.Name + ">"
		}
		return "<callable>"
	case KindContext:
		if v.ctx != nil && v.ctx.Name != "" {
			return "<context " + v.ctx.Name + ">"
		}
		return "<context>"
	default:
		return "<unknown>"
	}
}
