package meta

import (
	"errors"
	"testing"
)

func taggedLeaf(name string, h *Handlers) Value {
	tab := NewSequence(FromString(name))
	tab.SetHandlers(h)
	return tab.Value()
}

// ---------------------------------------------------------------------------
// Handler binding rules
// ---------------------------------------------------------------------------

func TestDispatchLeftOperandWins(t *testing.T) {
	left := NewHandlers()
	left.Register(OpAdd, func(args ...Value) Results { return One(FromString("left")) })
	right := NewHandlers()
	right.Register(OpAdd, func(args ...Value) Results { return One(FromString("right")) })

	res, err := Dispatch(OpAdd, taggedLeaf("a", left), taggedLeaf("b", right))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !Equal(res.First(), FromString("left")) {
		t.Errorf("result = %s, want left operand's handler", Render(res.First()))
	}
}

func TestDispatchRightOperandFallback(t *testing.T) {
	right := NewHandlers()
	right.Register(OpSub, func(args ...Value) Results {
		// Operand order stays left-first even when the right operand's
		// table supplied the handler.
		return One(Seq(FromString("sub"), args[0], args[1]))
	})

	plain := Seq(FromInt(1))
	res, err := Dispatch(OpSub, plain, taggedLeaf("b", right))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	want := Seq(FromString("sub"), Seq(FromInt(1)), Seq(FromString("b")))
	if !Equal(res.First(), want) {
		t.Errorf("result = %s, want %s", Render(res.First()), Render(want))
	}
}

func TestDispatchUnaryUsesOnlyOperand(t *testing.T) {
	h := NewHandlers()
	h.Register(OpUnm, func(args ...Value) Results {
		if len(args) != 1 {
			t.Errorf("unary handler received %d operands, want 1", len(args))
		}
		return One(Seq(FromString("unm"), args[0]))
	})

	res, err := Dispatch(OpUnm, taggedLeaf("a", h))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	want := Seq(FromString("unm"), Seq(FromString("a")))
	if !Equal(res.First(), want) {
		t.Errorf("result = %s, want %s", Render(res.First()), Render(want))
	}
}

func TestDispatchOperandCountChecked(t *testing.T) {
	if _, err := Dispatch(OpAdd, FromInt(1)); err == nil {
		t.Error("binary op with one operand should fail")
	}
	if _, err := Dispatch(OpUnm, FromInt(1), FromInt(2)); err == nil {
		t.Error("unary op with two operands should fail")
	}
	if _, err := Dispatch(OpCall); err == nil {
		t.Error("call with no callee should fail")
	}
	if _, err := Dispatch(Op("frobnicate"), FromInt(1)); err == nil {
		t.Error("unknown op should fail")
	}
}

// ---------------------------------------------------------------------------
// Index
// ---------------------------------------------------------------------------

func TestDispatchIndexRawAccessWins(t *testing.T) {
	h := NewHandlers()
	h.Register(OpIndex, func(args ...Value) Results { return One(FromString("handled")) })

	tab := NewTable()
	tab.Set(FromString("x"), FromInt(7))
	tab.SetHandlers(h)

	res, err := Dispatch(OpIndex, tab.Value(), FromString("x"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !Equal(res.First(), FromInt(7)) {
		t.Errorf("result = %s, want raw value 7", Render(res.First()))
	}
}

func TestDispatchIndexMissingKeyDispatches(t *testing.T) {
	h := NewHandlers()
	h.Register(OpIndex, func(args ...Value) Results {
		return One(Seq(FromString("index"), args[0], args[1]))
	})

	leaf := taggedLeaf("a", h)
	res, err := Dispatch(OpIndex, leaf, FromString("b"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	want := Seq(FromString("index"), Seq(FromString("a")), FromString("b"))
	if !Equal(res.First(), want) {
		t.Errorf("result = %s, want %s", Render(res.First()), Render(want))
	}
}

func TestDispatchIndexCompositeKey(t *testing.T) {
	// Handlers are total over any operand values, composite keys
	// included; raw access is skipped for them rather than attempted.
	h := NewHandlers()
	h.Register(OpIndex, func(args ...Value) Results {
		return One(Seq(FromString("index"), args[0], args[1]))
	})

	leaf := taggedLeaf("a", h)
	key := Seq(FromInt(1))
	res, err := Dispatch(OpIndex, leaf, key)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	want := Seq(FromString("index"), Seq(FromString("a")), Seq(FromInt(1)))
	if !Equal(res.First(), want) {
		t.Errorf("result = %s, want %s", Render(res.First()), Render(want))
	}

	// Plain tables treat a composite key like any other missing key.
	res, err = Dispatch(OpIndex, Seq(FromInt(1)), key)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !res.First().IsNil() {
		t.Errorf("result = %s, want nil", Render(res.First()))
	}
}

func TestDispatchIndexPlainTableMissingKey(t *testing.T) {
	res, err := Dispatch(OpIndex, Seq(FromInt(1)), FromString("nope"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !res.First().IsNil() {
		t.Errorf("result = %s, want nil", Render(res.First()))
	}
}

func TestDispatchIndexPrimitiveFails(t *testing.T) {
	_, err := Dispatch(OpIndex, FromInt(1), FromString("x"))
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("err = %v, want *OpError", err)
	}
	if got := opErr.Error(); got != "could not index into a integer value" {
		t.Errorf("error = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Call
// ---------------------------------------------------------------------------

func TestDispatchCallCallable(t *testing.T) {
	f := &Callable{Name: "double", Fn: func(args ...Value) Results {
		return One(FromInt(args[0].Int() * 2))
	}}

	res, err := Dispatch(OpCall, FromCallable(f), FromInt(21))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !Equal(res.First(), FromInt(42)) {
		t.Errorf("result = %s, want 42", Render(res.First()))
	}
}

func TestDispatchCallHandlerGetsCalleeFirst(t *testing.T) {
	h := NewHandlers()
	h.Register(OpCall, func(args ...Value) Results {
		node := NewTable()
		node.Append(FromString("call"))
		for _, a := range args {
			node.Append(a)
		}
		return One(node.Value())
	})

	leaf := taggedLeaf("a", h)
	res, err := Dispatch(OpCall, leaf, FromInt(1), FromInt(2), FromInt(3))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	want := Seq(FromString("call"), Seq(FromString("a")), FromInt(1), FromInt(2), FromInt(3))
	if !Equal(res.First(), want) {
		t.Errorf("result = %s, want %s", Render(res.First()), Render(want))
	}
}

func TestDispatchCallUncallableFails(t *testing.T) {
	_, err := Dispatch(OpCall, Seq(FromInt(1)))
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("err = %v, want *OpError", err)
	}
	if got := opErr.Error(); got != "could not call a table value" {
		t.Errorf("error = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Length
// ---------------------------------------------------------------------------

func TestDispatchLenHandlerPrecedence(t *testing.T) {
	h := NewHandlers()
	h.Register(OpLen, func(args ...Value) Results { return One(FromInt(99)) })

	tab := NewSequence(FromInt(1), FromInt(2))
	tab.SetHandlers(h)

	res, err := Dispatch(OpLen, tab.Value())
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !Equal(res.First(), FromInt(99)) {
		t.Errorf("result = %s, want handler result 99", Render(res.First()))
	}
}

func TestDispatchLenSingleValueProjection(t *testing.T) {
	h := NewHandlers()
	h.Register(OpLen, func(args ...Value) Results {
		return Results{FromString("first"), FromString("second"), FromString("third")}
	})

	res, err := Dispatch(OpLen, taggedLeaf("m", h))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if got := res.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1 (single-value context)", got)
	}
	if !Equal(res.First(), FromString("first")) {
		t.Errorf("First() = %s, want \"first\"", Render(res.First()))
	}
}

func TestDispatchLenBuiltins(t *testing.T) {
	res, err := Dispatch(OpLen, Seq(FromInt(1), FromInt(2), FromInt(3)))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !Equal(res.First(), FromInt(3)) {
		t.Errorf("table length = %s, want 3", Render(res.First()))
	}

	res, err = Dispatch(OpLen, FromString("hello"))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !Equal(res.First(), FromInt(5)) {
		t.Errorf("string length = %s, want 5", Render(res.First()))
	}

	if _, err := Dispatch(OpLen, FromInt(3)); err == nil {
		t.Error("length of an integer should fail")
	}
}

// ---------------------------------------------------------------------------
// Built-in numeric fallbacks
// ---------------------------------------------------------------------------

func TestBuiltinArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b Value
		want Value
	}{
		{"int add", OpAdd, FromInt(2), FromInt(3), FromInt(5)},
		{"int sub", OpSub, FromInt(2), FromInt(3), FromInt(-1)},
		{"int mul", OpMul, FromInt(4), FromInt(5), FromInt(20)},
		{"mixed add promotes", OpAdd, FromInt(1), FromFloat(0.5), FromFloat(1.5)},
		{"div always floats", OpDiv, FromInt(7), FromInt(2), FromFloat(3.5)},
		{"pow always floats", OpPow, FromInt(2), FromInt(10), FromFloat(1024)},
		{"idiv floors", OpIDiv, FromInt(7), FromInt(2), FromInt(3)},
		{"idiv floors negative", OpIDiv, FromInt(-7), FromInt(2), FromInt(-4)},
		{"mod takes divisor sign", OpMod, FromInt(-7), FromInt(3), FromInt(2)},
		{"float idiv", OpIDiv, FromFloat(7.5), FromFloat(2), FromFloat(3)},
		{"float mod", OpMod, FromFloat(-7.5), FromFloat(3), FromFloat(1.5)},
	}

	for _, tt := range tests {
		res, err := Dispatch(tt.op, tt.a, tt.b)
		if err != nil {
			t.Errorf("%s: Dispatch failed: %v", tt.name, err)
			continue
		}
		if !Equal(res.First(), tt.want) {
			t.Errorf("%s: result = %s, want %s", tt.name, Render(res.First()), Render(tt.want))
		}
	}
}

func TestBuiltinUnaryMinus(t *testing.T) {
	res, err := Dispatch(OpUnm, FromInt(5))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !Equal(res.First(), FromInt(-5)) {
		t.Errorf("result = %s, want -5", Render(res.First()))
	}

	if _, err := Dispatch(OpUnm, FromString("x")); err == nil {
		t.Error("negating a string should fail")
	}
}

func TestBuiltinBitwise(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b Value
		want int64
	}{
		{"band", OpBAnd, FromInt(0b1100), FromInt(0b1010), 0b1000},
		{"bor", OpBOr, FromInt(0b1100), FromInt(0b1010), 0b1110},
		{"bxor", OpBXor, FromInt(0b1100), FromInt(0b1010), 0b0110},
		{"shl", OpShl, FromInt(1), FromInt(4), 16},
		{"shr", OpShr, FromInt(16), FromInt(4), 1},
		{"shr is logical", OpShr, FromInt(-1), FromInt(1), int64(^uint64(0) >> 1)},
		{"negative shl reverses", OpShl, FromInt(16), FromInt(-4), 1},
		{"overshift clears", OpShl, FromInt(1), FromInt(64), 0},
		{"integral float operand", OpBAnd, FromFloat(12), FromInt(10), 8},
	}

	for _, tt := range tests {
		res, err := Dispatch(tt.op, tt.a, tt.b)
		if err != nil {
			t.Errorf("%s: Dispatch failed: %v", tt.name, err)
			continue
		}
		if !Equal(res.First(), FromInt(tt.want)) {
			t.Errorf("%s: result = %s, want %d", tt.name, Render(res.First()), tt.want)
		}
	}

	if _, err := Dispatch(OpBAnd, FromFloat(1.5), FromInt(1)); err == nil {
		t.Error("bitwise on a non-integral float should fail")
	}
}

func TestBuiltinBNot(t *testing.T) {
	res, err := Dispatch(OpBNot, FromInt(0))
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if !Equal(res.First(), FromInt(-1)) {
		t.Errorf("result = %s, want -1", Render(res.First()))
	}
}

func TestBuiltinZeroDivisor(t *testing.T) {
	if _, err := Dispatch(OpIDiv, FromInt(1), FromInt(0)); err == nil {
		t.Error("integer idiv by zero should fail")
	}
	if _, err := Dispatch(OpMod, FromInt(1), FromInt(0)); err == nil {
		t.Error("integer mod by zero should fail")
	}
	// Float division by zero is defined.
	res, err := Dispatch(OpDiv, FromInt(1), FromInt(0))
	if err != nil {
		t.Fatalf("float division by zero should not error: %v", err)
	}
	if !res.First().IsFloat() {
		t.Error("float division by zero should produce a float")
	}
}

func TestBuiltinErrorShape(t *testing.T) {
	_, err := Dispatch(OpAdd, Seq(), FromInt(1))
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("err = %v, want *OpError", err)
	}
	if got := opErr.Error(); got != "could not add values of type table and integer" {
		t.Errorf("error = %q", got)
	}
}
