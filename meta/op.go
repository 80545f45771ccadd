package meta

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// Op names a dispatchable operation. The vocabulary is fixed and
// declared in vocab.toml; an Op outside it is invalid.
type Op string

// The full operation vocabulary.
const (
	OpAdd   Op = "add"
	OpSub   Op = "sub"
	OpMul   Op = "mul"
	OpDiv   Op = "div"
	OpMod   Op = "mod"
	OpPow   Op = "pow"
	OpUnm   Op = "unm"
	OpIDiv  Op = "idiv"
	OpBAnd  Op = "band"
	OpBOr   Op = "bor"
	OpBXor  Op = "bxor"
	OpBNot  Op = "bnot"
	OpShl   Op = "shl"
	OpShr   Op = "shr"
	OpLen   Op = "len"
	OpIndex Op = "index"
	OpCall  Op = "call"
)

// ArityVariadic marks operations taking a callee plus any number of
// trailing arguments.
const ArityVariadic = -1

// OpInfo describes one vocabulary entry.
type OpInfo struct {
	Symbol string `toml:"symbol"`
	Kind   string `toml:"kind"`
	Verb   string `toml:"verb"`
}

type vocabFile struct {
	Ops map[string]OpInfo `toml:"ops"`
}

//go:embed vocab.toml
var vocabTOML []byte

// vocabulary is read-only after init.
var vocabulary map[Op]OpInfo

func init() {
	var file vocabFile
	if err := toml.Unmarshal(vocabTOML, &file); err != nil {
		panic(fmt.Sprintf("meta: failed to parse vocab.toml: %v", err))
	}
	vocabulary = make(map[Op]OpInfo, len(file.Ops))
	for name, info := range file.Ops {
		switch info.Kind {
		case "unary", "binary", "variadic":
		default:
			panic(fmt.Sprintf("meta: vocab.toml: op %q has unknown kind %q", name, info.Kind))
		}
		vocabulary[Op(name)] = info
	}
}

// Ops returns the full vocabulary in name order.
func Ops() []Op {
	ops := make([]Op, 0, len(vocabulary))
	for op := range vocabulary {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Valid returns true if op belongs to the vocabulary.
func (op Op) Valid() bool {
	_, ok := vocabulary[op]
	return ok
}

// Info returns the vocabulary entry for op.
// Panics if op is not in the vocabulary.
func (op Op) Info() OpInfo {
	info, ok := vocabulary[op]
	if !ok {
		panic(fmt.Sprintf("Op.Info: unknown operation %q", string(op)))
	}
	return info
}

// Arity returns the declared operand count: 1 for unary operations, 2
// for binary, ArityVariadic for call.
func (op Op) Arity() int {
	switch op.Info().Kind {
	case "unary":
		return 1
	case "binary":
		return 2
	default:
		return ArityVariadic
	}
}

// Symbol returns the operator symbol in the host grammar.
func (op Op) Symbol() string {
	return op.Info().Symbol
}

// Verb returns the sentence-form verb used in dispatch errors.
func (op Op) Verb() string {
	return op.Info().Verb
}
