package meta

import (
	"math"
)

// Kind identifies the variant held by a Value.
//
// Every kind except KindTable is primitive: atomic, never recursively
// decomposed, compared by host-level value equality. Tables are the only
// composite kind and are classified further by Classify.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindCallable
	KindContext
	KindTable
)

// TypeName returns the host-level type name used in diagnostics.
func (k Kind) TypeName() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindCallable:
		return "callable"
	case KindContext:
		return "context"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Value represents a single host value.
//
// Value is a tagged variant: exactly one of the payload fields is
// meaningful, selected by kind. The struct is comparable, so primitive
// Values can be used directly as table keys. The zero Value is Nil.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	call *Callable
	ctx  *Context
	tab  *Table
}

// Nil is the absent value. It is a legitimate primitive, not an error
// sentinel.
var Nil Value

// Callable is an opaque function reference.
//
// Two callable Values are equal only when they reference the same
// Callable instance; the function body never participates in equality.
type Callable struct {
	Name string
	Fn   func(args ...Value) Results
}

// Context is an opaque execution-context reference, the host runtime's
// coroutine analogue. Identity equality only.
type Context struct {
	Name string
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// FromBool creates a boolean Value.
func FromBool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// FromInt creates an integer Value.
func FromInt(n int64) Value {
	return Value{kind: KindInt, i: n}
}

// FromFloat creates a float Value.
func FromFloat(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// FromString creates a string Value.
func FromString(s string) Value {
	return Value{kind: KindString, s: s}
}

// FromCallable creates a callable-reference Value.
func FromCallable(c *Callable) Value {
	return Value{kind: KindCallable, call: c}
}

// FromContext creates an execution-context-reference Value.
func FromContext(c *Context) Value {
	return Value{kind: KindContext, ctx: c}
}

// FromTable creates a table Value. A nil table yields Nil.
func FromTable(t *Table) Value {
	if t == nil {
		return Nil
	}
	return Value{kind: KindTable, tab: t}
}

// Seq builds a dense sequence Value from the given elements, indexed 1..N.
func Seq(elems ...Value) Value {
	return FromTable(NewSequence(elems...))
}

// ---------------------------------------------------------------------------
// Type checking
// ---------------------------------------------------------------------------

// Kind returns the variant tag of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNil returns true if v is the nil value.
func (v Value) IsNil() bool {
	return v.kind == KindNil
}

// IsBool returns true if v is a boolean.
func (v Value) IsBool() bool {
	return v.kind == KindBool
}

// IsInt returns true if v is an integer.
func (v Value) IsInt() bool {
	return v.kind == KindInt
}

// IsFloat returns true if v is a float.
func (v Value) IsFloat() bool {
	return v.kind == KindFloat
}

// IsNumber returns true if v is an integer or a float.
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// IsString returns true if v is a string.
func (v Value) IsString() bool {
	return v.kind == KindString
}

// IsCallable returns true if v is a callable reference.
func (v Value) IsCallable() bool {
	return v.kind == KindCallable
}

// IsContext returns true if v is an execution-context reference.
func (v Value) IsContext() bool {
	return v.kind == KindContext
}

// IsTable returns true if v is a table.
func (v Value) IsTable() bool {
	return v.kind == KindTable
}

// IsPrimitive returns true for every kind except table.
func (v Value) IsPrimitive() bool {
	return v.kind != KindTable
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Bool returns v as a bool.
// Panics if v is not a boolean.
func (v Value) Bool() bool {
	if v.kind != KindBool {
		panic("Value.Bool: not a boolean")
	}
	return v.b
}

// Int returns v as an int64.
// Panics if v is not an integer.
func (v Value) Int() int64 {
	if v.kind != KindInt {
		panic("Value.Int: not an integer")
	}
	return v.i
}

// Float returns v as a float64.
// Panics if v is not a float.
func (v Value) Float() float64 {
	if v.kind != KindFloat {
		panic("Value.Float: not a float")
	}
	return v.f
}

// Str returns v as a string.
// Panics if v is not a string.
func (v Value) Str() string {
	if v.kind != KindString {
		panic("Value.Str: not a string")
	}
	return v.s
}

// Callable returns the callable reference.
// Panics if v is not callable.
func (v Value) Callable() *Callable {
	if v.kind != KindCallable {
		panic("Value.Callable: not a callable")
	}
	return v.call
}

// Context returns the execution-context reference.
// Panics if v is not a context.
func (v Value) Context() *Context {
	if v.kind != KindContext {
		panic("Value.Context: not a context")
	}
	return v.ctx
}

// Table returns the table.
// Panics if v is not a table.
func (v Value) Table() *Table {
	if v.kind != KindTable {
		panic("Value.Table: not a table")
	}
	return v.tab
}

// asFloat widens a numeric value to float64.
func (v Value) asFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// ---------------------------------------------------------------------------
// Table: the composite value
// ---------------------------------------------------------------------------

// Table is the single composite value: a collection of (primitive key,
// Value) pairs with an optional attached handler table for operator
// dispatch. Whether a table behaves as a Sequence or a Mapping is decided
// by Classify, never stored.
type Table struct {
	entries  map[Value]Value
	handlers *Handlers
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[Value]Value)}
}

// NewSequence creates a table holding elems at indices 1..N.
func NewSequence(elems ...Value) *Table {
	t := NewTable()
	for i, e := range elems {
		t.Set(FromInt(int64(i+1)), e)
	}
	return t
}

// normalizeKey maps integral float keys onto their integer equivalents,
// following the host runtime's table key rule. All other keys pass
// through unchanged.
func normalizeKey(k Value) Value {
	if k.kind == KindFloat {
		if i := int64(k.f); float64(i) == k.f && !math.IsInf(k.f, 0) {
			return FromInt(i)
		}
	}
	return k
}

// Get returns the value stored at key k, or Nil when absent.
// Panics if k is a table (composite keys are not supported).
func (t *Table) Get(k Value) Value {
	if k.kind == KindTable {
		panic("Table.Get: table keys are not supported")
	}
	return t.entries[normalizeKey(k)]
}

// Set stores v at key k. Storing Nil removes the key.
// Panics if k is a table, Nil, or NaN. A NaN key would be stored but
// never found again, leaving the table with an unreachable entry that
// breaks reflexive comparison; the host runtime rejects NaN indices for
// the same reason.
func (t *Table) Set(k, v Value) {
	if k.kind == KindTable {
		panic("Table.Set: table keys are not supported")
	}
	if k.IsNil() {
		panic("Table.Set: nil key")
	}
	if k.kind == KindFloat && math.IsNaN(k.f) {
		panic("Table.Set: NaN key")
	}
	k = normalizeKey(k)
	if v.IsNil() {
		delete(t.entries, k)
		return
	}
	t.entries[k] = v
}

// Append stores v at the first free dense index (DenseLen+1).
func (t *Table) Append(v Value) {
	t.Set(FromInt(int64(t.DenseLen()+1)), v)
}

// DenseLen returns the greatest N such that indices 1..N are all present.
// This is the sequence length and is distinct from KeyCount.
func (t *Table) DenseLen() int {
	n := 0
	for {
		if _, ok := t.entries[FromInt(int64(n+1))]; !ok {
			return n
		}
		n++
	}
}

// KeyCount returns the number of distinct keys in the table.
func (t *Table) KeyCount() int {
	return len(t.entries)
}

// Keys returns all keys in unspecified order.
func (t *Table) Keys() []Value {
	keys := make([]Value, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	return keys
}

// Handlers returns the attached handler table, or nil.
func (t *Table) Handlers() *Handlers {
	return t.handlers
}

// SetHandlers attaches a handler table, enabling operator dispatch on
// values referencing this table.
func (t *Table) SetHandlers(h *Handlers) {
	t.handlers = h
}

// Value wraps the table as a Value.
func (t *Table) Value() Value {
	return FromTable(t)
}

// attachedHandlers returns the handler table reachable from v, or nil for
// every non-table value.
func (v Value) attachedHandlers() *Handlers {
	if v.kind != KindTable {
		return nil
	}
	return v.tab.handlers
}
