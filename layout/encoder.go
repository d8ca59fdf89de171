// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package layout computes the memory layout of interface block members.
//
// Encoders keep a cursor measured in 4-byte components. Every encoded member
// is aligned according to the encoder's rules, reported with its byte
// offset and strides, and then the cursor advances past it. The cursor never
// moves backwards.
package layout

import (
	"fmt"

	"github.com/gogpu/essl/gl"
	"github.com/gogpu/essl/sh"
)

// Layout constants.
const (
	BytesPerComponent     = gl.BytesPerComponent
	ComponentsPerRegister = 4
	BytesPerRegister      = BytesPerComponent * ComponentsPerRegister
	noOffset              = -1
)

// BlockMemberInfo is the computed placement of one block member. All values
// are in bytes; strides are 0 when not applicable.
type BlockMemberInfo struct {
	Offset           int  `json:"offset"`
	ArrayStride      int  `json:"array_stride"`
	MatrixStride     int  `json:"matrix_stride"`
	IsRowMajorMatrix bool `json:"is_row_major_matrix"`
}

// DefaultBlockMemberInfo marks a member that was never laid out.
var DefaultBlockMemberInfo = BlockMemberInfo{
	Offset:       noOffset,
	ArrayStride:  noOffset,
	MatrixStride: noOffset,
}

// IsDefault reports whether i is DefaultBlockMemberInfo.
func (i BlockMemberInfo) IsDefault() bool {
	return i == DefaultBlockMemberInfo
}

// Register returns the vec4 register the member starts in.
func (i BlockMemberInfo) Register() int {
	return i.Offset / BytesPerRegister
}

// RegisterElement returns the component within the starting register.
func (i BlockMemberInfo) RegisterElement() int {
	return (i.Offset / BytesPerComponent) % ComponentsPerRegister
}

// Encoder lays out block members one at a time.
type Encoder interface {
	// EncodeType places a member of type t. arraySizes holds at most one
	// extent: callers flatten arrays of arrays before encoding.
	EncodeType(t gl.Enum, arraySizes []uint, isRowMajorMatrix bool) BlockMemberInfo
	// EncodeArrayOfPreEncodedStructs places an array of structs whose size
	// in components is already known.
	EncodeArrayOfPreEncodedStructs(size int, arraySizes []uint) BlockMemberInfo
	EnterAggregateType(v *sh.ShaderVariable)
	ExitAggregateType(v *sh.ShaderVariable)
	// CurrentOffset returns the cursor in components.
	CurrentOffset() int
	// BlockSize returns the cursor in bytes.
	BlockSize() int
	// ShaderVariableSize returns the size in components of a struct
	// variable, laid out from offset 0, without moving the cursor.
	ShaderVariableSize(v *sh.ShaderVariable, isRowMajor bool) int
}

// rules is what each layout supplies to the shared encoder.
type rules interface {
	blockLayoutInfo(e *encoder, t gl.Enum, arraySizes []uint, isRowMajorMatrix bool) (arrayStride, matrixStride int)
	advanceOffset(e *encoder, t gl.Enum, arraySizes []uint, isRowMajorMatrix bool, arrayStride, matrixStride int)
	enterAggregate(e *encoder, v *sh.ShaderVariable)
	exitAggregate(e *encoder, v *sh.ShaderVariable)
	baseAlignment(v *sh.ShaderVariable) int
}

// encoder holds the cursor shared by all layouts.
type encoder struct {
	rules         rules
	currentOffset int
}

func (e *encoder) EncodeType(t gl.Enum, arraySizes []uint, isRowMajorMatrix bool) BlockMemberInfo {
	if len(arraySizes) > 1 {
		panic(fmt.Sprintf("layout: arrays of arrays must be flattened before encoding, got %v", arraySizes))
	}
	checkComponentType(t)
	arrayStride, matrixStride := e.rules.blockLayoutInfo(e, t, arraySizes, isRowMajorMatrix)
	info := BlockMemberInfo{
		Offset:           e.currentOffset * BytesPerComponent,
		ArrayStride:      arrayStride * BytesPerComponent,
		MatrixStride:     matrixStride * BytesPerComponent,
		IsRowMajorMatrix: isRowMajorMatrix,
	}
	e.rules.advanceOffset(e, t, arraySizes, isRowMajorMatrix, arrayStride, matrixStride)
	return info
}

func (e *encoder) EncodeArrayOfPreEncodedStructs(size int, arraySizes []uint) BlockMemberInfo {
	e.align(ComponentsPerRegister)
	info := BlockMemberInfo{
		Offset:      e.currentOffset * BytesPerComponent,
		ArrayStride: size * BytesPerComponent,
	}
	e.increaseCurrentOffset(size * int(product(arraySizes)))
	return info
}

func (e *encoder) EnterAggregateType(v *sh.ShaderVariable) { e.rules.enterAggregate(e, v) }
func (e *encoder) ExitAggregateType(v *sh.ShaderVariable)  { e.rules.exitAggregate(e, v) }

func (e *encoder) CurrentOffset() int { return e.currentOffset }
func (e *encoder) BlockSize() int     { return e.currentOffset * BytesPerComponent }

func (e *encoder) ShaderVariableSize(v *sh.ShaderVariable, isRowMajor bool) int {
	saved := e.currentOffset
	e.currentOffset = 0
	visitor := NewEncoderVisitor("", "", e, nil)
	e.EnterAggregateType(v)
	sh.TraverseShaderVariables(v.Fields, isRowMajor, visitor)
	e.ExitAggregateType(v)
	size := e.currentOffset
	e.currentOffset = saved
	return size
}

func (e *encoder) align(alignment int) {
	if alignment <= 0 {
		return
	}
	e.currentOffset = roundUp(e.currentOffset, alignment)
}

func (e *encoder) increaseCurrentOffset(components int) {
	if components < 0 {
		panic("layout: cursor cannot move backwards")
	}
	e.currentOffset += components
}

// Only 32-bit components can be laid out.
func checkComponentType(t gl.Enum) {
	if gl.IsSamplerType(t) || gl.IsImageType(t) || t == gl.SubpassInput {
		panic("layout: opaque type " + t.String() + " has no block layout")
	}
	if gl.VariableComponentSize(gl.VariableComponentType(t)) != BytesPerComponent {
		panic("layout: unsupported component size for " + t.String())
	}
}

func roundUp(v, alignment int) int {
	return (v + alignment - 1) / alignment * alignment
}

func product(sizes []uint) uint {
	p := uint(1)
	for _, s := range sizes {
		p *= s
	}
	return p
}

// componentAlignment is the tight alignment of an n-component vector.
func componentAlignment(n int) int {
	if n == 3 {
		return 4
	}
	return n
}
