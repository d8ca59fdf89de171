// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"strconv"
	"sync"
)

// TypeRegistry interns the qualifier-free types that builders use for
// constants and temporaries, so that equal shapes share one *Type. Interned
// types must not be modified; use Clone first.
type TypeRegistry struct {
	mu     sync.Mutex
	types  map[string]*Type
	keyBuf []byte
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]*Type)}
}

// staticTypes is shared by the builders.
var staticTypes = NewTypeRegistry()

// Get returns the interned type with the given shape.
func (r *TypeRegistry) Get(basic BasicType, primary, secondary int, p Precision, q Qualifier) *Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keyBuf = r.keyBuf[:0]
	r.keyBuf = strconv.AppendUint(r.keyBuf, uint64(basic), 10)
	r.keyBuf = append(r.keyBuf, ':')
	r.keyBuf = strconv.AppendInt(r.keyBuf, int64(primary), 10)
	r.keyBuf = append(r.keyBuf, 'x')
	r.keyBuf = strconv.AppendInt(r.keyBuf, int64(secondary), 10)
	r.keyBuf = append(r.keyBuf, ':')
	r.keyBuf = strconv.AppendUint(r.keyBuf, uint64(p), 10)
	r.keyBuf = append(r.keyBuf, ':')
	r.keyBuf = strconv.AppendUint(r.keyBuf, uint64(q), 10)

	// Lookup with string(bytes) does not allocate.
	if t, ok := r.types[string(r.keyBuf)]; ok {
		return t
	}
	t := NewScalarType(basic, p, q)
	t.PrimarySize = uint8(primary)
	t.SecondarySize = uint8(secondary)
	r.types[string(r.keyBuf)] = t
	return t
}

// Count returns the number of interned types.
func (r *TypeRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.types)
}

// StaticScalar returns an interned scalar type.
func StaticScalar(b BasicType, p Precision, q Qualifier) *Type {
	return staticTypes.Get(b, 1, 1, p, q)
}

// StaticVector returns an interned vector type.
func StaticVector(b BasicType, size int, p Precision, q Qualifier) *Type {
	return staticTypes.Get(b, size, 1, p, q)
}

// StaticMatrix returns an interned float matrix type.
func StaticMatrix(columns, rows int, p Precision, q Qualifier) *Type {
	return staticTypes.Get(BasicFloat, columns, rows, p, q)
}
