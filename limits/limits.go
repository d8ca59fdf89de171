// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package limits rejects declarations too large for any implementation.
package limits

import (
	"math"
	"math/bits"

	"github.com/gogpu/essl/collect"
	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/gl"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/layout"
	"github.com/gogpu/essl/sh"
)

// MaxVariableSizeInBytes is the largest array declaration accepted.
const MaxVariableSizeInBytes = 1 << 31

// ErrSizeExceeded is the diagnostic message for an oversized declaration.
const ErrSizeExceeded = "Size of declared variable exceeds implementation-defined limit"

// ValidateArraySizes reports an error for every array declared in tree
// whose std140 size is larger than maxBytes. It returns false when any
// declaration was rejected. A maxBytes of 0 selects MaxVariableSizeInBytes.
func ValidateArraySizes(tree *ir.Tree, diags *diag.Diagnostics, maxBytes int64) bool {
	if maxBytes <= 0 {
		maxBytes = MaxVariableSizeInBytes
	}
	ok := true
	w := &ir.Walker{
		Declaration: func(_ *ir.Walker, _ ir.Visit, d *ir.Declaration) bool {
			failed := false
			for _, decl := range d.Declarators {
				s := ir.DeclaredSymbol(decl)
				if s == nil || !exceeds(s.Var, maxBytes) {
					continue
				}
				diags.Error(s.Loc(), ErrSizeExceeded, s.Var.Name)
				failed = true
			}
			if failed {
				ok = false
				return false
			}
			return true
		},
	}
	w.Walk(tree.Root)
	if !ok {
		diag.Logger().Debug("limits: oversized declarations rejected", "errors", diags.NumErrors())
	}
	return ok
}

func exceeds(v *ir.Variable, maxBytes int64) bool {
	t := v.Type
	if v.IsInternal() || !t.IsArray() || t.ContainsOpaque() {
		return false
	}
	sv := collect.ShaderVariableOf(t, v.Name)
	return Std140Size(&sv) > maxBytes
}

// Std140Size returns the size in bytes v would take as the only member of
// a std140 block. Arrays are measured from one element and multiplied out,
// since a std140 array stride is the padded element size. The result
// saturates at math.MaxInt64.
func Std140Size(v *sh.ShaderVariable) int64 {
	return saturate(std140Size(v, false))
}

func std140Size(v *sh.ShaderVariable, isRowMajor bool) uint64 {
	isRowMajor = isRowMajor || v.IsRowMajorLayout
	size := std140ElementSize(v, isRowMajor)
	for _, n := range v.ArraySizes {
		size = mulSat(size, uint64(n))
	}
	return size
}

// std140ElementSize is the array stride of v, or its size when v is not an
// array.
func std140ElementSize(v *sh.ShaderVariable, isRowMajor bool) uint64 {
	if v.IsStruct() {
		return std140StructSize(v.Fields, isRowMajor)
	}
	isRowMajor = isRowMajor && gl.IsMatrixType(v.Type)
	enc := layout.NewStd140Encoder()
	if v.IsArray() {
		return uint64(enc.EncodeType(v.Type, []uint{1}, isRowMajor).ArrayStride)
	}
	enc.EncodeType(v.Type, nil, isRowMajor)
	return uint64(enc.BlockSize())
}

func std140StructSize(fields []sh.ShaderVariable, isRowMajor bool) uint64 {
	var offset uint64
	for i := range fields {
		f := &fields[i]
		offset = roundUpSat(offset, std140Alignment(f))
		offset = addSat(offset, std140Size(f, isRowMajor))
	}
	return roundUpSat(offset, layout.BytesPerRegister)
}

func std140Alignment(v *sh.ShaderVariable) uint64 {
	if v.IsStruct() || v.IsArray() || gl.IsMatrixType(v.Type) {
		return layout.BytesPerRegister
	}
	n := gl.VariableComponentCount(v.Type)
	if n == 3 {
		n = 4
	}
	return uint64(n * layout.BytesPerComponent)
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

func addSat(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

func roundUpSat(v, alignment uint64) uint64 {
	r := addSat(v, alignment-1)
	if r == math.MaxUint64 {
		return r
	}
	return r / alignment * alignment
}

func saturate(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
