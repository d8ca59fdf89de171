// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"github.com/gogpu/essl/gl"
	"github.com/gogpu/essl/sh"
)

// HLSLStrategy selects how scalars and vectors share constant-buffer
// registers.
type HLSLStrategy uint8

const (
	// HLSLPacked packs members into a register as long as they do not
	// straddle a register boundary.
	HLSLPacked HLSLStrategy = iota
	// HLSLLoose starts every member in a new register.
	HLSLLoose
)

// HLSLEncoder lays out members following HLSL cbuffer packing rules.
// Matrices, arrays and structs always start a new register; the last
// register of a matrix or array is only partially consumed.
type HLSLEncoder struct {
	encoder
	strategy          HLSLStrategy
	transposeMatrices bool
}

// NewHLSLEncoder returns an encoder. With transposeMatrices set, matrices are
// laid out as their transpose, which is how column-major GLSL matrices are
// declared row_major in HLSL.
func NewHLSLEncoder(strategy HLSLStrategy, transposeMatrices bool) *HLSLEncoder {
	e := &HLSLEncoder{strategy: strategy, transposeMatrices: transposeMatrices}
	e.rules = hlslRules{owner: e}
	return e
}

type hlslRules struct {
	owner *HLSLEncoder
}

func (r hlslRules) packed() bool { return r.owner.strategy == HLSLPacked }

func (r hlslRules) typeOf(t gl.Enum) gl.Enum {
	if r.owner.transposeMatrices {
		return gl.TransposeMatrixType(t)
	}
	return t
}

func nextRegister(e *encoder) { e.align(ComponentsPerRegister) }

func (hlslRules) baseAlignment(*sh.ShaderVariable) int { return ComponentsPerRegister }

func (r hlslRules) blockLayoutInfo(e *encoder, t gl.Enum, arraySizes []uint, isRowMajorMatrix bool) (arrayStride, matrixStride int) {
	t = r.typeOf(t)
	if !r.packed() || gl.IsMatrixType(t) || len(arraySizes) > 0 {
		nextRegister(e)
	}
	switch {
	case gl.IsMatrixType(t):
		matrixStride = ComponentsPerRegister
		if len(arraySizes) > 0 {
			arrayStride = ComponentsPerRegister * gl.MatrixRegisterCount(t, isRowMajorMatrix)
		}
	case len(arraySizes) > 0:
		arrayStride = ComponentsPerRegister
	case r.packed():
		n := gl.VariableComponentCount(t)
		if n+e.currentOffset%ComponentsPerRegister > ComponentsPerRegister {
			nextRegister(e)
		}
	}
	return arrayStride, matrixStride
}

func (r hlslRules) advanceOffset(e *encoder, t gl.Enum, arraySizes []uint, isRowMajorMatrix bool, arrayStride, matrixStride int) {
	t = r.typeOf(t)
	if len(arraySizes) > 0 {
		if n := int(product(arraySizes)); n > 0 {
			e.increaseCurrentOffset(arrayStride * (n - 1))
		}
	}
	switch {
	case gl.IsMatrixType(t):
		registers := gl.MatrixRegisterCount(t, isRowMajorMatrix)
		e.increaseCurrentOffset(ComponentsPerRegister*(registers-1) + gl.MatrixComponentCount(t, isRowMajorMatrix))
	case r.packed():
		e.increaseCurrentOffset(gl.VariableComponentCount(t))
	default:
		e.increaseCurrentOffset(ComponentsPerRegister)
	}
}

func (hlslRules) enterAggregate(e *encoder, _ *sh.ShaderVariable) { nextRegister(e) }
func (hlslRules) exitAggregate(*encoder, *sh.ShaderVariable)      {}
