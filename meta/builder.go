package meta

// ---------------------------------------------------------------------------
// Tag builder: handler tables that record operations as tagged trees
// ---------------------------------------------------------------------------
//
// Every handler built here constructs the sequence [tag, operands...]
// where tag is the operation name. Applying operations to values carrying
// such a table therefore records the expression shape instead of
// computing anything, which is exactly what the fixtures compare against.

// FlatHandlers returns a handler table covering the full vocabulary.
// Result nodes carry no handler table of their own, so a further
// operation on a node falls back to the runtime's built-ins or fails.
func FlatHandlers() *Handlers {
	return buildTagHandlers(false)
}

// PropagatingHandlers returns a handler table covering the full
// vocabulary whose result nodes carry the same table, so chained
// expressions keep dispatching and build arbitrarily deep trees.
func PropagatingHandlers() *Handlers {
	return buildTagHandlers(true)
}

func buildTagHandlers(propagate bool) *Handlers {
	h := NewHandlers()
	for _, op := range Ops() {
		tag := FromString(string(op))
		h.Register(op, func(args ...Value) Results {
			node := NewTable()
			node.Append(tag)
			for _, a := range args {
				node.Append(a)
			}
			if propagate {
				node.SetHandlers(h)
			}
			return One(node.Value())
		})
	}
	return h
}
