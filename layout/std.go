// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"github.com/gogpu/essl/gl"
	"github.com/gogpu/essl/sh"
)

// Std140Encoder implements the std140 rules: matrices, arrays and structs
// are aligned to a full vec4 register and their strides are rounded up to
// one register.
type Std140Encoder struct {
	encoder
}

// NewStd140Encoder returns an encoder with its cursor at 0.
func NewStd140Encoder() *Std140Encoder {
	e := &Std140Encoder{}
	e.rules = std140Rules{}
	return e
}

type std140Rules struct{}

func (std140Rules) baseAlignment(*sh.ShaderVariable) int { return ComponentsPerRegister }

func (r std140Rules) blockLayoutInfo(e *encoder, t gl.Enum, arraySizes []uint, isRowMajorMatrix bool) (int, int) {
	return stdBlockLayoutInfo(e, t, arraySizes, isRowMajorMatrix, func(gl.Enum, bool) int {
		return ComponentsPerRegister
	})
}

func (std140Rules) advanceOffset(e *encoder, t gl.Enum, arraySizes []uint, isRowMajorMatrix bool, arrayStride, matrixStride int) {
	stdAdvanceOffset(e, t, arraySizes, isRowMajorMatrix, arrayStride, matrixStride)
}

func (r std140Rules) enterAggregate(e *encoder, v *sh.ShaderVariable) { e.align(r.baseAlignment(v)) }
func (r std140Rules) exitAggregate(e *encoder, v *sh.ShaderVariable)  { e.align(r.baseAlignment(v)) }

// stdBlockLayoutInfo aligns the cursor for a member and computes its strides.
// typeAlignment gives the alignment of a matrix column (or row) vector and
// of an array element.
func stdBlockLayoutInfo(e *encoder, t gl.Enum, arraySizes []uint, isRowMajorMatrix bool,
	typeAlignment func(t gl.Enum, isRowMajor bool) int) (arrayStride, matrixStride int) {
	var alignment int
	switch {
	case gl.IsMatrixType(t):
		alignment = typeAlignment(t, isRowMajorMatrix)
		matrixStride = alignment
		if len(arraySizes) > 0 {
			arrayStride = matrixStride * gl.MatrixRegisterCount(t, isRowMajorMatrix)
		}
	case len(arraySizes) > 0:
		alignment = typeAlignment(t, false)
		arrayStride = alignment
	default:
		alignment = componentAlignment(gl.VariableComponentCount(t))
	}
	e.align(alignment)
	return arrayStride, matrixStride
}

func stdAdvanceOffset(e *encoder, t gl.Enum, arraySizes []uint, isRowMajorMatrix bool, arrayStride, matrixStride int) {
	switch {
	case len(arraySizes) > 0:
		e.increaseCurrentOffset(arrayStride * int(product(arraySizes)))
	case gl.IsMatrixType(t):
		e.increaseCurrentOffset(matrixStride * gl.MatrixRegisterCount(t, isRowMajorMatrix))
	default:
		e.increaseCurrentOffset(gl.VariableComponentCount(t))
	}
}

// Std430Encoder implements the std430 rules used by shader storage blocks:
// the std140 rules without rounding array strides and struct alignment up to
// a register.
type Std430Encoder struct {
	encoder

	// StructureBaseAlignment is the largest member alignment seen so far in
	// the whole traversal.
	StructureBaseAlignment int
	// aggregates holds the alignment of each struct currently entered.
	aggregates []int
}

// NewStd430Encoder returns an encoder with its cursor at 0.
func NewStd430Encoder() *Std430Encoder {
	e := &Std430Encoder{}
	e.rules = &std430Rules{owner: e}
	return e
}

type std430Rules struct {
	owner *Std430Encoder
}

// std430TypeAlignment is the alignment of a matrix column (row for
// row-major) or of a non-matrix array element.
func std430TypeAlignment(t gl.Enum, isRowMajor bool) int {
	if !gl.IsMatrixType(t) {
		return componentAlignment(gl.VariableComponentCount(t))
	}
	return componentAlignment(gl.MatrixComponentCount(t, isRowMajor))
}

// std430MemberAlignment is the base alignment of a member as a whole.
func std430MemberAlignment(v *sh.ShaderVariable, isRowMajor bool) int {
	if v.IsStruct() {
		return std430StructAlignment(v, isRowMajor || v.IsRowMajorLayout)
	}
	rowMajor := (isRowMajor || v.IsRowMajorLayout) && gl.IsMatrixType(v.Type)
	if gl.IsMatrixType(v.Type) || v.IsArray() {
		return std430TypeAlignment(v.Type, rowMajor)
	}
	return componentAlignment(gl.VariableComponentCount(v.Type))
}

func std430StructAlignment(v *sh.ShaderVariable, isRowMajor bool) int {
	alignment := 1
	for i := range v.Fields {
		alignment = max(alignment, std430MemberAlignment(&v.Fields[i], isRowMajor))
	}
	return alignment
}

func (r *std430Rules) baseAlignment(v *sh.ShaderVariable) int {
	return std430StructAlignment(v, v.IsRowMajorLayout)
}

func (r *std430Rules) blockLayoutInfo(e *encoder, t gl.Enum, arraySizes []uint, isRowMajorMatrix bool) (int, int) {
	var memberAlignment int
	arrayStride, matrixStride := stdBlockLayoutInfo(e, t, arraySizes, isRowMajorMatrix,
		func(t gl.Enum, isRowMajor bool) int {
			memberAlignment = std430TypeAlignment(t, isRowMajor)
			return memberAlignment
		})
	if memberAlignment == 0 {
		memberAlignment = componentAlignment(gl.VariableComponentCount(t))
	}
	r.noteAlignment(memberAlignment)
	return arrayStride, matrixStride
}

func (r *std430Rules) noteAlignment(alignment int) {
	o := r.owner
	o.StructureBaseAlignment = max(o.StructureBaseAlignment, alignment)
	if n := len(o.aggregates); n > 0 {
		o.aggregates[n-1] = max(o.aggregates[n-1], alignment)
	}
}

func (*std430Rules) advanceOffset(e *encoder, t gl.Enum, arraySizes []uint, isRowMajorMatrix bool, arrayStride, matrixStride int) {
	stdAdvanceOffset(e, t, arraySizes, isRowMajorMatrix, arrayStride, matrixStride)
}

func (r *std430Rules) enterAggregate(e *encoder, v *sh.ShaderVariable) {
	alignment := r.baseAlignment(v)
	e.align(alignment)
	r.owner.aggregates = append(r.owner.aggregates, alignment)
}

func (r *std430Rules) exitAggregate(e *encoder, v *sh.ShaderVariable) {
	o := r.owner
	n := len(o.aggregates)
	if n == 0 {
		panic("layout: exit of aggregate " + v.Name + " without matching enter")
	}
	alignment := o.aggregates[n-1]
	o.aggregates = o.aggregates[:n-1]
	e.align(alignment)
	r.noteAlignment(alignment)
}
