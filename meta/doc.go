// Package meta implements a verification engine for metamethod-style
// operator dispatch.
//
// This package contains:
//   - Tagged-variant value representation with table composites
//   - Primitive/Sequence/Mapping classification
//   - Recursive structural comparison and diagnostic rendering
//   - The operation vocabulary and tagged-tree handler builders
//   - A dispatch adapter playing the host runtime's role
//   - Canonical CBOR snapshots of value trees
package meta
