// Package fixture builds the dispatch test surface: named symbolic
// leaves carrying handler tables, one enumerated case per exercised
// operation form, and a runner that grades dispatch results with the
// structural comparator.
package fixture

import (
	"github.com/chazu/tanuki/meta"
)

// Case is one graded fixture: an evaluation thunk applying operations
// through the dispatch adapter, the expected literal tree, and the
// expected result count of the consuming context.
type Case struct {
	Name      string
	Eval      func() (meta.Results, error)
	Expected  meta.Value
	WantCount int
}

// Leaf constructs a named symbolic leaf: the single-element sequence
// [name] with the given handler table attached.
func Leaf(name string, h *meta.Handlers) meta.Value {
	t := meta.NewSequence(meta.FromString(name))
	t.SetHandlers(h)
	return t.Value()
}

// lit is the expected-side literal for a leaf: same shape, no handlers.
func lit(name string) meta.Value {
	return meta.Seq(meta.FromString(name))
}

// node is the expected-side literal for an operation node.
func node(tag string, operands ...meta.Value) meta.Value {
	elems := append([]meta.Value{meta.FromString(tag)}, operands...)
	return meta.Seq(elems...)
}

// MultiLengthLeaf is a leaf whose length handler produces three results,
// for asserting the single-value projection of the length operator.
func MultiLengthLeaf() meta.Value {
	h := meta.NewHandlers()
	h.Register(meta.OpLen, func(args ...meta.Value) meta.Results {
		return meta.Results{
			meta.FromString("first"),
			meta.FromString("second"),
			meta.FromString("third"),
		}
	})
	return Leaf("multi", h)
}

// Cases enumerates the full exercised operation surface.
func Cases() []Case {
	cases := flatCases()
	cases = append(cases, lengthTruncationCase())
	cases = append(cases, vocabularyCases()...)
	cases = append(cases, chainCase())
	return cases
}

// flatCases exercises the flat builder: handlers return raw untagged
// nodes, and binary dispatch falls back to the right operand's table
// when the left side is such a node.
func flatCases() []Case {
	h := meta.FlatHandlers()
	a := Leaf("a", h)
	b := Leaf("b", h)
	c := Leaf("c", h)

	return []Case{
		{
			// a + b * c - a, applied in the host grammar's order:
			// multiplication first, then left-associative add/sub.
			Name: "flat mixed arithmetic",
			Eval: func() (meta.Results, error) {
				mul, err := meta.Dispatch(meta.OpMul, b, c)
				if err != nil {
					return nil, err
				}
				add, err := meta.Dispatch(meta.OpAdd, a, mul.First())
				if err != nil {
					return nil, err
				}
				return meta.Dispatch(meta.OpSub, add.First(), a)
			},
			Expected: node("sub",
				node("add", lit("a"), node("mul", lit("b"), lit("c"))),
				lit("a")),
			WantCount: 1,
		},
		{
			Name: "flat division",
			Eval: func() (meta.Results, error) {
				return meta.Dispatch(meta.OpDiv, c, a)
			},
			Expected:  node("div", lit("c"), lit("a")),
			WantCount: 1,
		},
		{
			Name: "flat self multiplication",
			Eval: func() (meta.Results, error) {
				return meta.Dispatch(meta.OpMul, a, a)
			},
			Expected:  node("mul", lit("a"), lit("a")),
			WantCount: 1,
		},
	}
}

// lengthTruncationCase asserts that a three-result length handler is
// consumed in a single-value context: the expression value is the first
// result and the context keeps exactly one.
func lengthTruncationCase() Case {
	leaf := MultiLengthLeaf()
	return Case{
		Name: "length single-value projection",
		Eval: func() (meta.Results, error) {
			return meta.Dispatch(meta.OpLen, leaf)
		},
		Expected:  meta.FromString("first"),
		WantCount: 1,
	}
}

// vocabularyCases exercises every operation in the vocabulary once
// against propagating leaves, each checked against its literal tree.
func vocabularyCases() []Case {
	h := meta.PropagatingHandlers()
	a := Leaf("a", h)
	b := Leaf("b", h)

	var cases []Case
	for _, op := range meta.Ops() {
		op := op
		switch {
		case op == meta.OpIndex || op == meta.OpCall:
			// Exercised below with their own operand shapes.
		case op.Arity() == 2:
			cases = append(cases, Case{
				Name: "propagating " + string(op),
				Eval: func() (meta.Results, error) {
					return meta.Dispatch(op, a, b)
				},
				Expected:  node(string(op), lit("a"), lit("b")),
				WantCount: 1,
			})
		default:
			cases = append(cases, Case{
				Name: "propagating " + string(op),
				Eval: func() (meta.Results, error) {
					return meta.Dispatch(op, a)
				},
				Expected:  node(string(op), lit("a")),
				WantCount: 1,
			})
		}
	}

	cases = append(cases,
		Case{
			Name: "propagating index",
			Eval: func() (meta.Results, error) {
				return meta.Dispatch(meta.OpIndex, a, meta.FromString("b"))
			},
			Expected:  node("index", lit("a"), meta.FromString("b")),
			WantCount: 1,
		},
		Case{
			Name: "propagating call no arguments",
			Eval: func() (meta.Results, error) {
				return meta.Dispatch(meta.OpCall, a)
			},
			Expected:  node("call", lit("a")),
			WantCount: 1,
		},
		Case{
			Name: "propagating call with arguments",
			Eval: func() (meta.Results, error) {
				return meta.Dispatch(meta.OpCall, a,
					meta.FromInt(1), meta.FromInt(2), meta.FromInt(3))
			},
			Expected: node("call", lit("a"),
				meta.FromInt(1), meta.FromInt(2), meta.FromInt(3)),
			WantCount: 1,
		},
	)
	return cases
}

// chainCase composes three operations through propagating nodes,
// checking that intermediate results remain dispatchable and the tree
// nests correctly: ((a + b) * c) - a.
func chainCase() Case {
	h := meta.PropagatingHandlers()
	a := Leaf("a", h)
	b := Leaf("b", h)
	c := Leaf("c", h)

	return Case{
		Name: "propagating chain depth three",
		Eval: func() (meta.Results, error) {
			add, err := meta.Dispatch(meta.OpAdd, a, b)
			if err != nil {
				return nil, err
			}
			mul, err := meta.Dispatch(meta.OpMul, add.First(), c)
			if err != nil {
				return nil, err
			}
			return meta.Dispatch(meta.OpSub, mul.First(), a)
		},
		Expected: node("sub",
			node("mul", node("add", lit("a"), lit("b")), lit("c")),
			lit("a")),
		WantCount: 1,
	}
}
