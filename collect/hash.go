// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package collect

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/gogpu/essl/ir"
)

// HashFunc maps an identifier to a 64-bit hash.
type HashFunc func(name string) uint64

// Name prefixes used in translated output.
const (
	UserNamePrefix   = "_u"
	HashedNamePrefix = "webgl_"
)

// FNVHash hashes name with 64-bit FNV-1a.
func FNVHash(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

// HashName returns the identifier name is emitted as. Built-in, internal
// and empty names are unchanged. User names get UserNamePrefix when hash is
// nil and become HashedNamePrefix followed by the hex hash otherwise.
func HashName(name string, kind ir.SymbolKind, hash HashFunc) string {
	if name == "" || kind == ir.SymbolBuiltIn || kind == ir.SymbolInternal || strings.HasPrefix(name, "gl_") {
		return name
	}
	if hash == nil {
		return UserNamePrefix + name
	}
	return HashedNamePrefix + strconv.FormatUint(hash(name), 16)
}
