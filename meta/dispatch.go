package meta

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Dispatch: the host runtime's operator-to-handler adapter
// ---------------------------------------------------------------------------
//
// Dispatch plays the runtime's role at the call level: given an operation
// and its operands, it finds the registered handler on a value carrying a
// handler table and invokes it, falling back to the built-in behavior for
// plain values. The binding rule mirrors the host runtime: the left
// operand's table is consulted first, then the right operand's for binary
// operations; index fires only for keys missing from the raw table; call
// invokes callable primitives directly.

// OpError reports an operation that applied to no handler and no
// built-in. The message follows the runtime's diagnostic shape.
type OpError struct {
	Op    Op
	Kinds []Kind
}

func (e *OpError) Error() string {
	if len(e.Kinds) == 2 {
		return fmt.Sprintf("could not %s values of type %s and %s",
			e.Op.Verb(), e.Kinds[0].TypeName(), e.Kinds[1].TypeName())
	}
	return fmt.Sprintf("could not %s a %s value", e.Op.Verb(), e.Kinds[0].TypeName())
}

// Dispatch applies op to the given operands and returns the produced
// results.
//
// Operand order is fixed: left operand first for binary operations, the
// sole operand for unary ones, callee first followed by arguments for
// call. Length dispatch is projected into a single-value context, so its
// result always has count 1 regardless of how many results the handler
// produced.
func Dispatch(op Op, operands ...Value) (Results, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("meta: unknown operation %q", string(op))
	}
	switch arity := op.Arity(); arity {
	case ArityVariadic:
		if len(operands) < 1 {
			return nil, fmt.Errorf("meta: %s expects at least 1 operand, got 0", op)
		}
	default:
		if len(operands) != arity {
			return nil, fmt.Errorf("meta: %s expects %d operands, got %d", op, arity, len(operands))
		}
	}

	switch op {
	case OpIndex:
		return dispatchIndex(operands[0], operands[1])
	case OpCall:
		return dispatchCall(operands[0], operands[1:])
	case OpLen:
		return dispatchLen(operands[0])
	default:
		if fn := handlerFor(op, operands); fn != nil {
			return fn(operands...), nil
		}
		return builtinOp(op, operands)
	}
}

// handlerFor finds the registered handler: left operand first, then the
// right operand for binary operations.
func handlerFor(op Op, operands []Value) Handler {
	for _, v := range operands {
		if fn := v.attachedHandlers().Lookup(op); fn != nil {
			return fn
		}
		if op.Arity() != 2 {
			break
		}
	}
	return nil
}

// dispatchIndex resolves v[key]. Raw table access wins; the handler
// fires only for keys the table itself does not hold. Plain tables
// yield nil for missing keys, non-indexable primitives are errors.
// Composite keys skip raw access entirely (tables cannot hold them) and
// go straight to the handler; the adapter never panics on
// runtime-supplied operands.
func dispatchIndex(v, key Value) (Results, error) {
	if v.IsTable() && !key.IsTable() {
		if raw := v.tab.Get(key); !raw.IsNil() {
			return One(raw), nil
		}
	}
	if fn := v.attachedHandlers().Lookup(OpIndex); fn != nil {
		return fn(v, key), nil
	}
	if v.IsTable() {
		return One(Nil), nil
	}
	return nil, &OpError{Op: OpIndex, Kinds: []Kind{v.kind}}
}

// dispatchCall resolves f(args...). Callable primitives invoke directly;
// values carrying a call handler dispatch with the callee prepended.
func dispatchCall(f Value, args []Value) (Results, error) {
	if f.IsCallable() {
		return f.call.Fn(args...), nil
	}
	if fn := f.attachedHandlers().Lookup(OpCall); fn != nil {
		return fn(append([]Value{f}, args...)...), nil
	}
	return nil, &OpError{Op: OpCall, Kinds: []Kind{f.kind}}
}

// dispatchLen resolves #v. The handler takes precedence over the raw
// table length. The length operator consumes exactly one value, so the
// handler's results are projected into a single-value context.
func dispatchLen(v Value) (Results, error) {
	if fn := v.attachedHandlers().Lookup(OpLen); fn != nil {
		return fn(v).Single(), nil
	}
	if v.IsTable() {
		return One(FromInt(int64(v.tab.DenseLen()))), nil
	}
	if v.IsString() {
		return One(FromInt(int64(len(v.s)))), nil
	}
	return nil, &OpError{Op: OpLen, Kinds: []Kind{v.kind}}
}

// ---------------------------------------------------------------------------
// Built-in fallbacks for plain numeric operands
// ---------------------------------------------------------------------------

func builtinOp(op Op, operands []Value) (Results, error) {
	switch op {
	case OpUnm:
		a := operands[0]
		switch a.kind {
		case KindInt:
			return One(FromInt(-a.i)), nil
		case KindFloat:
			return One(FromFloat(-a.f)), nil
		}
		return nil, &OpError{Op: op, Kinds: []Kind{a.kind}}

	case OpBNot:
		a := operands[0]
		if n, ok := toInteger(a); ok {
			return One(FromInt(^n)), nil
		}
		return nil, &OpError{Op: op, Kinds: []Kind{a.kind}}

	case OpAdd, OpSub, OpMul, OpDiv, OpIDiv, OpMod, OpPow:
		return builtinArith(op, operands[0], operands[1])

	case OpBAnd, OpBOr, OpBXor, OpShl, OpShr:
		return builtinBitwise(op, operands[0], operands[1])

	default:
		return nil, &OpError{Op: op, Kinds: kindsOf(operands)}
	}
}

func builtinArith(op Op, a, b Value) (Results, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return nil, &OpError{Op: op, Kinds: []Kind{a.kind, b.kind}}
	}

	// Division and exponentiation always produce floats.
	if op == OpDiv {
		return One(FromFloat(a.asFloat() / b.asFloat())), nil
	}
	if op == OpPow {
		return One(FromFloat(math.Pow(a.asFloat(), b.asFloat()))), nil
	}

	if a.kind == KindInt && b.kind == KindInt {
		switch op {
		case OpAdd:
			return One(FromInt(a.i + b.i)), nil
		case OpSub:
			return One(FromInt(a.i - b.i)), nil
		case OpMul:
			return One(FromInt(a.i * b.i)), nil
		case OpIDiv:
			if b.i == 0 {
				return nil, fmt.Errorf("meta: attempt to perform integer %s with zero divisor", op)
			}
			return One(FromInt(floorDiv(a.i, b.i))), nil
		case OpMod:
			if b.i == 0 {
				return nil, fmt.Errorf("meta: attempt to perform integer %s with zero divisor", op)
			}
			return One(FromInt(floorMod(a.i, b.i))), nil
		}
	}

	x, y := a.asFloat(), b.asFloat()
	switch op {
	case OpAdd:
		return One(FromFloat(x + y)), nil
	case OpSub:
		return One(FromFloat(x - y)), nil
	case OpMul:
		return One(FromFloat(x * y)), nil
	case OpIDiv:
		return One(FromFloat(math.Floor(x / y))), nil
	case OpMod:
		// Floored modulus: the result takes the divisor's sign.
		m := math.Mod(x, y)
		if m != 0 && (m < 0) != (y < 0) {
			m += y
		}
		return One(FromFloat(m)), nil
	}
	return nil, &OpError{Op: op, Kinds: []Kind{a.kind, b.kind}}
}

func builtinBitwise(op Op, a, b Value) (Results, error) {
	x, okA := toInteger(a)
	y, okB := toInteger(b)
	if !okA || !okB {
		return nil, &OpError{Op: op, Kinds: []Kind{a.kind, b.kind}}
	}
	switch op {
	case OpBAnd:
		return One(FromInt(x & y)), nil
	case OpBOr:
		return One(FromInt(x | y)), nil
	case OpBXor:
		return One(FromInt(x ^ y)), nil
	case OpShl:
		return One(FromInt(shiftLeft(x, y))), nil
	default:
		return One(FromInt(shiftLeft(x, -y))), nil
	}
}

// toInteger converts integers and integral floats to int64, following
// the runtime's bitwise operand rule.
func toInteger(v Value) (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if i := int64(v.f); float64(i) == v.f && !math.IsInf(v.f, 0) {
			return i, true
		}
	}
	return 0, false
}

// shiftLeft is a logical shift by n bits; negative n shifts right.
// Shifts of 64 bits or more produce 0.
func shiftLeft(x, n int64) int64 {
	if n <= -64 || n >= 64 {
		return 0
	}
	if n >= 0 {
		return int64(uint64(x) << uint(n))
	}
	return int64(uint64(x) >> uint(-n))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func kindsOf(operands []Value) []Kind {
	kinds := make([]Kind, len(operands))
	for i, v := range operands {
		kinds[i] = v.kind
	}
	return kinds
}
