// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package layout

import (
	"sort"

	"github.com/gogpu/essl/sh"
)

// EncodedFunc receives each encoded leaf with its qualified names.
type EncodedFunc func(v *sh.ShaderVariable, info BlockMemberInfo, name, mappedName string)

// EncoderVisitor drives an Encoder from sh.TraverseShaderVariables: struct
// accesses enter and exit aggregates, leaves are encoded with their
// innermost array extent.
type EncoderVisitor struct {
	*sh.NameVisitor
	encoder  Encoder
	onEncode EncodedFunc
}

// NewEncoderVisitor returns a visitor encoding into enc. onEncode may be nil.
func NewEncoderVisitor(prefix, mappedPrefix string, enc Encoder, onEncode EncodedFunc) *EncoderVisitor {
	v := &EncoderVisitor{
		NameVisitor: sh.NewNameVisitor(prefix, mappedPrefix),
		encoder:     enc,
		onEncode:    onEncode,
	}
	v.NameVisitor.OnVariable = v.visitNamedVariable
	return v
}

func (v *EncoderVisitor) EnterStructAccess(structVar *sh.ShaderVariable, isRowMajor bool) {
	v.NameVisitor.EnterStructAccess(structVar, isRowMajor)
	v.encoder.EnterAggregateType(structVar)
}

func (v *EncoderVisitor) ExitStructAccess(structVar *sh.ShaderVariable, isRowMajor bool) {
	v.encoder.ExitAggregateType(structVar)
	v.NameVisitor.ExitStructAccess(structVar, isRowMajor)
}

func (v *EncoderVisitor) visitNamedVariable(variable *sh.ShaderVariable, isRowMajor bool, name, mappedName string, _ []uint) {
	var innermost []uint
	if variable.IsArray() {
		innermost = []uint{variable.NestedArraySize(0)}
	}
	info := v.encoder.EncodeType(variable.Type, innermost, isRowMajor)
	if v.onEncode != nil {
		v.onEncode(variable, info, name, mappedName)
	}
}

// BlockLayoutMap maps qualified member names to their layout.
type BlockLayoutMap map[string]BlockMemberInfo

// Lookup returns the info for name, or DefaultBlockMemberInfo.
func (m BlockLayoutMap) Lookup(name string) BlockMemberInfo {
	if info, ok := m[name]; ok {
		return info
	}
	return DefaultBlockMemberInfo
}

// Names returns the member names ordered by offset, then name.
func (m BlockLayoutMap) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := m[names[i]], m[names[j]]
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return names[i] < names[j]
	})
	return names
}

// GetInterfaceBlockInfo lays out fields with enc and records every leaf in
// out under prefix. Matrix packing is taken from each field's own flag.
func GetInterfaceBlockInfo(fields []sh.ShaderVariable, prefix string, enc Encoder, out BlockLayoutMap) {
	visitor := NewEncoderVisitor(prefix, prefix, enc, func(_ *sh.ShaderVariable, info BlockMemberInfo, name, _ string) {
		out[name] = info
	})
	sh.TraverseShaderVariables(fields, false, visitor)
}

// EncoderFor returns a fresh encoder for a block layout. Shared and packed
// blocks are laid out as std140.
func EncoderFor(l sh.BlockLayoutType) Encoder {
	if l == sh.BlockLayoutStd430 {
		return NewStd430Encoder()
	}
	return NewStd140Encoder()
}

// GetBlockLayout lays out a whole interface block. It returns the member map
// and the block size in bytes.
func GetBlockLayout(block *sh.InterfaceBlock) (BlockLayoutMap, int) {
	out := make(BlockLayoutMap)
	enc := EncoderFor(block.Layout)
	GetInterfaceBlockInfo(block.Fields, block.FieldPrefix(), enc, out)
	return out, enc.BlockSize()
}

// BlockSize returns the size in bytes of block. The size ends after the
// last member; it is not rounded up to a register.
func BlockSize(block *sh.InterfaceBlock) int {
	enc := EncoderFor(block.Layout)
	sh.TraverseShaderVariables(block.Fields, false, NewEncoderVisitor("", "", enc, nil))
	return enc.BlockSize()
}

// ShaderVariableSize returns the std140 or std430 size in bytes of one
// value of v, including trailing struct padding.
func ShaderVariableSize(v *sh.ShaderVariable, l sh.BlockLayoutType) int {
	enc := EncoderFor(l)
	sh.TraverseShaderVariable(v, false, NewEncoderVisitor("", "", enc, nil))
	return enc.BlockSize()
}
