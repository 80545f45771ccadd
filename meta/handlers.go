package meta

// Handler is the function registered for one operation. The dispatch
// adapter passes operands in documented order: left operand first for
// binary operations, the sole operand for unary ones, and the callee
// followed by its arguments for call. Handlers are total over any
// operands the runtime supplies.
type Handler func(args ...Value) Results

// Handlers is the per-value handler table: the registry consulted when
// an operation is applied to a value carrying it. A nil *Handlers is a
// valid empty table.
//
// Handlers is immutable by convention once attached to a value; fixtures
// build a fresh table per case.
type Handlers struct {
	byOp map[Op]Handler
}

// NewHandlers creates an empty handler table.
func NewHandlers() *Handlers {
	return &Handlers{byOp: make(map[Op]Handler)}
}

// Register adds or replaces the handler for op.
func (h *Handlers) Register(op Op, fn Handler) {
	h.byOp[op] = fn
}

// Lookup returns the handler for op, or nil if none is registered.
func (h *Handlers) Lookup(op Op) Handler {
	if h == nil {
		return nil
	}
	return h.byOp[op]
}

// Has returns true if a handler is registered for op.
func (h *Handlers) Has(op Op) bool {
	return h.Lookup(op) != nil
}

// OpCount returns the number of registered handlers.
func (h *Handlers) OpCount() int {
	if h == nil {
		return 0
	}
	return len(h.byOp)
}
