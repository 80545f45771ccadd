package meta

// Results is the ordered list of values produced by one operation.
//
// The host runtime allows a handler to return any number of results; the
// consuming context then projects them. First and Count make that
// projection explicit rather than an implicit truncation, so the test
// surface can assert both "the value of the expression" and "how many
// results this context kept" as separate facts.
type Results []Value

// One wraps a single value as a one-element result list.
func One(v Value) Results {
	return Results{v}
}

// First returns the first result, or Nil when there are none.
func (r Results) First() Value {
	if len(r) == 0 {
		return Nil
	}
	return r[0]
}

// Count returns the exact number of results produced.
func (r Results) Count() int {
	return len(r)
}

// Single projects r into a single-value context: exactly one result,
// padding with Nil when empty and discarding everything past the first.
func (r Results) Single() Results {
	if len(r) == 0 {
		return Results{Nil}
	}
	return r[:1:1]
}
