package meta

// Equal reports whether a and b are structurally equal.
//
// The comparison is recursive, total, and never mutates its inputs:
//
//   - Values of different classes are never equal; no coercion is
//     attempted between shapes.
//   - Primitives compare by host-level value equality. Integers and
//     floats compare numerically across kinds, following the host
//     runtime's number semantics. Callables and contexts compare by
//     identity.
//   - Sequences compare length first, then element pairs at 1..N
//     depth-first, left to right, short-circuiting on the first
//     mismatch. Two distinct table instances with identical structure
//     are equal.
//   - Mappings compare by exact key-set match plus recursive value
//     equality per key, independent of iteration order.
//
// Attached handler tables are dispatch metadata, not structure; they
// never participate in equality. There is no recursion limit.
func Equal(a, b Value) bool {
	ca := Classify(a)
	if ca != Classify(b) {
		return false
	}
	switch ca {
	case ClassPrimitive:
		return primitiveEqual(a, b)
	case ClassSequence:
		return sequenceEqual(a.tab, b.tab)
	default:
		return mappingEqual(a.tab, b.tab)
	}
}

func primitiveEqual(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		if a.kind == KindInt && b.kind == KindInt {
			return a.i == b.i
		}
		return a.asFloat() == b.asFloat()
	}
	// Identical kind and payload. Covers nil, booleans, strings, and
	// identity comparison of callable/context references.
	return a == b
}

func sequenceEqual(a, b *Table) bool {
	n := a.DenseLen()
	if n != b.DenseLen() {
		return false
	}
	for i := 1; i <= n; i++ {
		k := FromInt(int64(i))
		if !Equal(a.Get(k), b.Get(k)) {
			return false
		}
	}
	return true
}

func mappingEqual(a, b *Table) bool {
	if a.KeyCount() != b.KeyCount() {
		return false
	}
	for k, va := range a.entries {
		vb, ok := b.entries[k]
		if !ok || !Equal(va, vb) {
			return false
		}
	}
	return true
}
