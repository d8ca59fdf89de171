// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sh

import (
	"strings"

	"github.com/gogpu/essl/gl"
)

// Visitor receives the events of TraverseShaderVariable. Embed BaseVisitor
// to get no-op defaults for the events you do not need.
type Visitor interface {
	EnterStruct(v *ShaderVariable)
	ExitStruct(v *ShaderVariable)
	EnterStructAccess(v *ShaderVariable, isRowMajor bool)
	ExitStructAccess(v *ShaderVariable, isRowMajor bool)
	EnterArray(v *ShaderVariable)
	ExitArray(v *ShaderVariable)
	EnterArrayElement(v *ShaderVariable, index uint)
	ExitArrayElement(v *ShaderVariable, index uint)
	VisitOpaqueObject(v *ShaderVariable)
	VisitVariable(v *ShaderVariable, isRowMajor bool)
}

// BaseVisitor implements every Visitor event as a no-op.
type BaseVisitor struct{}

func (BaseVisitor) EnterStruct(*ShaderVariable)             {}
func (BaseVisitor) ExitStruct(*ShaderVariable)              {}
func (BaseVisitor) EnterStructAccess(*ShaderVariable, bool) {}
func (BaseVisitor) ExitStructAccess(*ShaderVariable, bool)  {}
func (BaseVisitor) EnterArray(*ShaderVariable)              {}
func (BaseVisitor) ExitArray(*ShaderVariable)               {}
func (BaseVisitor) EnterArrayElement(*ShaderVariable, uint) {}
func (BaseVisitor) ExitArrayElement(*ShaderVariable, uint)  {}
func (BaseVisitor) VisitOpaqueObject(*ShaderVariable)       {}
func (BaseVisitor) VisitVariable(*ShaderVariable, bool)     {}

// TraverseShaderVariables traverses each variable in order.
func TraverseShaderVariables(vars []ShaderVariable, isRowMajorLayout bool, visitor Visitor) {
	for i := range vars {
		TraverseShaderVariable(&vars[i], isRowMajorLayout, visitor)
	}
}

// TraverseShaderVariable walks v depth first. Struct arrays are visited one
// element at a time, outermost index first. Arrays of arrays of non-structs
// are peeled one dimension at a time until only the innermost dimension is
// left, which is reported with a single VisitVariable. A matrix is row-major
// when its block or any enclosing field says so.
func TraverseShaderVariable(v *ShaderVariable, isRowMajorLayout bool, visitor Visitor) {
	rowMajorLayout := isRowMajorLayout || v.IsRowMajorLayout
	isRowMajor := rowMajorLayout && gl.IsMatrixType(v.Type)

	switch {
	case v.IsStruct():
		visitor.EnterStruct(v)
		if v.IsArray() {
			traverseStructArray(v, rowMajorLayout, visitor)
		} else {
			traverseStruct(v, rowMajorLayout, visitor)
		}
		visitor.ExitStruct(v)
	case v.IsArrayOfArrays():
		traverseArrayOfArrays(v, isRowMajor, visitor)
	case isOpaqueForLayout(v.Type):
		visitor.VisitOpaqueObject(v)
	default:
		visitor.VisitVariable(v, isRowMajor)
	}
}

// Atomic counters occupy buffer memory and are laid out like uints.
func isOpaqueForLayout(t gl.Enum) bool {
	return gl.IsSamplerType(t) || gl.IsImageType(t) || t == gl.SubpassInput
}

func traverseStruct(v *ShaderVariable, isRowMajorLayout bool, visitor Visitor) {
	visitor.EnterStructAccess(v, isRowMajorLayout)
	TraverseShaderVariables(v.Fields, isRowMajorLayout, visitor)
	visitor.ExitStructAccess(v, isRowMajorLayout)
}

func traverseStructArray(v *ShaderVariable, isRowMajorLayout bool, visitor Visitor) {
	visitor.EnterArray(v)
	size := v.OutermostArraySize()
	for i := uint(0); i < size; i++ {
		visitor.EnterArrayElement(v, i)
		element := *v
		element.IndexIntoArray(i)
		if element.IsArray() {
			traverseStructArray(&element, isRowMajorLayout, visitor)
		} else {
			traverseStruct(&element, isRowMajorLayout, visitor)
		}
		visitor.ExitArrayElement(v, i)
	}
	visitor.ExitArray(v)
}

func traverseArrayOfArrays(v *ShaderVariable, isRowMajor bool, visitor Visitor) {
	visitor.EnterArray(v)
	size := max(v.OutermostArraySize(), 1)
	for i := uint(0); i < size; i++ {
		visitor.EnterArrayElement(v, i)
		element := *v
		element.IndexIntoArray(i)
		switch {
		case element.IsArrayOfArrays():
			traverseArrayOfArrays(&element, isRowMajor, visitor)
		case isOpaqueForLayout(v.Type):
			visitor.VisitOpaqueObject(&element)
		default:
			visitor.VisitVariable(&element, isRowMajor)
		}
		visitor.ExitArrayElement(v, i)
	}
	visitor.ExitArray(v)
}

// NamedVariableFunc receives a leaf with its fully qualified name. arraySizes
// holds the extents of the arrays entered on the way to the leaf.
type NamedVariableFunc func(v *ShaderVariable, isRowMajor bool, name, mappedName string, arraySizes []uint)

// NameVisitor builds dotted and bracketed names while traversing, so that a
// field x of element 2 of member arr in block B is reported as "B.arr[2].x".
// Leaf arrays are reported by their own name without an index.
type NameVisitor struct {
	BaseVisitor

	// OnVariable is called for every non-opaque leaf.
	OnVariable NamedVariableFunc
	// OnOpaqueObject is called for every sampler, image or subpass input.
	OnOpaqueObject NamedVariableFunc

	names      []string
	mapped     []string
	arraySizes []uint
}

// NewNameVisitor returns a visitor whose names start with prefix.
func NewNameVisitor(prefix, mappedPrefix string) *NameVisitor {
	nv := &NameVisitor{}
	if prefix != "" {
		nv.push(prefix, mappedPrefix)
		nv.push(".", ".")
	}
	return nv
}

func (nv *NameVisitor) push(name, mapped string) {
	nv.names = append(nv.names, name)
	nv.mapped = append(nv.mapped, mapped)
}

func (nv *NameVisitor) pop() {
	nv.names = nv.names[:len(nv.names)-1]
	nv.mapped = nv.mapped[:len(nv.mapped)-1]
}

func (nv *NameVisitor) collapse() (string, string) {
	return strings.Join(nv.names, ""), strings.Join(nv.mapped, "")
}

func (nv *NameVisitor) EnterStruct(v *ShaderVariable) { nv.push(v.Name, v.MappedName) }
func (nv *NameVisitor) ExitStruct(*ShaderVariable)    { nv.pop() }

func (nv *NameVisitor) EnterStructAccess(*ShaderVariable, bool) { nv.push(".", ".") }
func (nv *NameVisitor) ExitStructAccess(*ShaderVariable, bool)  { nv.pop() }

func (nv *NameVisitor) EnterArray(v *ShaderVariable) {
	if !v.HasParentArrayIndex() && !v.IsStruct() {
		nv.push(v.Name, v.MappedName)
	}
	nv.arraySizes = append(nv.arraySizes, v.OutermostArraySize())
}

func (nv *NameVisitor) ExitArray(v *ShaderVariable) {
	if !v.HasParentArrayIndex() && !v.IsStruct() {
		nv.pop()
	}
	nv.arraySizes = nv.arraySizes[:len(nv.arraySizes)-1]
}

func (nv *NameVisitor) EnterArrayElement(_ *ShaderVariable, index uint) {
	s := ArrayString(index)
	nv.push(s, s)
}

func (nv *NameVisitor) ExitArrayElement(*ShaderVariable, uint) { nv.pop() }

func (nv *NameVisitor) VisitOpaqueObject(v *ShaderVariable) {
	if !v.HasParentArrayIndex() {
		nv.push(v.Name, v.MappedName)
	}
	name, mapped := nv.collapse()
	if nv.OnOpaqueObject != nil {
		nv.OnOpaqueObject(v, false, name, mapped, nv.arraySizes)
	}
	if !v.HasParentArrayIndex() {
		nv.pop()
	}
}

func (nv *NameVisitor) VisitVariable(v *ShaderVariable, isRowMajor bool) {
	if !v.HasParentArrayIndex() {
		nv.push(v.Name, v.MappedName)
	}
	name, mapped := nv.collapse()
	if v.IsArray() {
		nv.arraySizes = append(nv.arraySizes, v.OutermostArraySize())
	}
	if nv.OnVariable != nil {
		nv.OnVariable(v, isRowMajor, name, mapped, nv.arraySizes)
	}
	if v.IsArray() {
		nv.arraySizes = nv.arraySizes[:len(nv.arraySizes)-1]
	}
	if !v.HasParentArrayIndex() {
		nv.pop()
	}
}
