package meta

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ---------------------------------------------------------------------------
// Snapshots: deterministic encoding of value trees
// ---------------------------------------------------------------------------
//
// Structurally equal trees encode to identical bytes: canonical CBOR
// sorts mapping keys, so insertion order never leaks into the encoding.
// Snapshots capture structure only; attached handler tables are not
// encoded, and callable/context references encode as opaque kind
// markers (their identity cannot survive an encoding).

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("meta: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalValue serializes a value tree to canonical CBOR bytes.
func MarshalValue(v Value) ([]byte, error) {
	enc, err := encodable(v)
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(enc)
}

// DigestValue returns the SHA-256 digest of the canonical encoding of v.
func DigestValue(v Value) ([32]byte, error) {
	data, err := MarshalValue(v)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// DigestString returns DigestValue as a hex string.
func DigestString(v Value) (string, error) {
	d, err := DigestValue(v)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(d[:]), nil
}

// encodable converts v into the CBOR interchange form. Integers and
// floats stay distinct kinds; sequences become arrays, mappings become
// maps with primitive keys.
func encodable(v Value) (any, error) {
	switch v.kind {
	case KindNil:
		return nil, nil
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i, nil
	case KindFloat:
		return v.f, nil
	case KindString:
		return v.s, nil
	case KindCallable:
		name := ""
		if v.call != nil {
			name = v.call.Name
		}
		return cbor.Tag{Number: snapshotTagCallable, Content: name}, nil
	case KindContext:
		name := ""
		if v.ctx != nil {
			name = v.ctx.Name
		}
		return cbor.Tag{Number: snapshotTagContext, Content: name}, nil
	}

	t := v.tab
	if Classify(v) == ClassSequence {
		n := t.DenseLen()
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			enc, err := encodable(t.Get(FromInt(int64(i))))
			if err != nil {
				return nil, err
			}
			arr[i-1] = enc
		}
		return arr, nil
	}

	m := make(map[any]any, t.KeyCount())
	for k, val := range t.entries {
		ek, err := encodable(k)
		if err != nil {
			return nil, err
		}
		ev, err := encodable(val)
		if err != nil {
			return nil, err
		}
		m[ek] = ev
	}
	return m, nil
}

// Private CBOR tag numbers for reference kinds.
const (
	snapshotTagCallable = 39001
	snapshotTagContext  = 39002
)
