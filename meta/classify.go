package meta

// Class partitions values into the three shapes the comparator and the
// renderer agree on. Every value belongs to exactly one class.
type Class uint8

const (
	// ClassPrimitive covers every non-table kind, nil included.
	ClassPrimitive Class = iota
	// ClassSequence is a table whose keys are exactly the dense indices 1..N.
	ClassSequence
	// ClassMapping is any other table.
	ClassMapping
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassPrimitive:
		return "Primitive"
	case ClassSequence:
		return "Sequence"
	case ClassMapping:
		return "Mapping"
	default:
		return "Unknown"
	}
}

// Classify determines the structural class of v. It is total: every
// value, nil included, classifies without error.
//
// A table is a Sequence iff its dense index count equals its total key
// count; one sparse or non-integer key demotes the whole table to a
// Mapping. Classify is the single shared implementation of that rule, so
// the comparator and the renderer can never disagree on borderline
// shapes. Note that the empty table is a Sequence (0 == 0).
func Classify(v Value) Class {
	if v.kind != KindTable {
		return ClassPrimitive
	}
	t := v.tab
	if t.DenseLen() == t.KeyCount() {
		return ClassSequence
	}
	return ClassMapping
}
