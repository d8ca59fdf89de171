// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package collect gathers the reflection data of a shader: the attributes,
// outputs, uniforms, varyings and interface blocks it declares, with their
// layout qualifiers, mapped names and static use.
package collect

import (
	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/sh"
)

// Options control name mapping.
type Options struct {
	// HashFunction maps user names to "webgl_<hex>". When nil user names
	// get the "_u" prefix instead.
	HashFunction HashFunc
}

// Variables is the collected reflection data of one shader. Lists are in
// declaration order, with referenced built-ins appended at their first use.
type Variables struct {
	Attributes          []sh.ShaderVariable
	OutputVariables     []sh.ShaderVariable
	Uniforms            []sh.ShaderVariable
	InputVaryings       []sh.ShaderVariable
	OutputVaryings      []sh.ShaderVariable
	UniformBlocks       []sh.InterfaceBlock
	ShaderStorageBlocks []sh.InterfaceBlock
}

// Varyings returns the input varyings followed by the output varyings.
func (v *Variables) Varyings() []sh.ShaderVariable {
	out := make([]sh.ShaderVariable, 0, len(v.InputVaryings)+len(v.OutputVaryings))
	out = append(out, v.InputVaryings...)
	return append(out, v.OutputVaryings...)
}

// ExpandedUniforms returns one entry per leaf of every uniform.
func (v *Variables) ExpandedUniforms() []sh.ShaderVariable {
	return sh.ExpandUniforms(v.Uniforms)
}

// ExpandedVaryings returns one entry per leaf of every varying.
func (v *Variables) ExpandedVaryings() []sh.ShaderVariable {
	return sh.ExpandUniforms(v.Varyings())
}

// ExpandedAttributes returns one entry per leaf of every attribute.
func (v *Variables) ExpandedAttributes() []sh.ShaderVariable {
	return sh.ExpandUniforms(v.Attributes)
}

type listKind uint8

const (
	listAttributes listKind = iota
	listOutputs
	listUniforms
	listInputVaryings
	listOutputVaryings
)

type entry struct {
	list  listKind
	index int
}

type blockEntry struct {
	storage bool
	index   int
}

type collector struct {
	tree   *ir.Tree
	opts   Options
	out    *Variables
	vars   map[*ir.Variable]entry
	blocks map[*ir.Variable]blockEntry
}

// Collect walks tree and returns the variables it declares or references.
// The tree is not modified.
func Collect(tree *ir.Tree, opts Options) *Variables {
	c := &collector{
		tree:   tree,
		opts:   opts,
		out:    &Variables{},
		vars:   make(map[*ir.Variable]entry),
		blocks: make(map[*ir.Variable]blockEntry),
	}
	w := &ir.Walker{
		Declaration: c.visitDeclaration,
		Symbol:      c.visitSymbol,
		Binary:      c.visitBinary,
	}
	w.Walk(tree.Root)

	diag.Logger().Debug("collect: variables gathered",
		"attributes", len(c.out.Attributes),
		"outputs", len(c.out.OutputVariables),
		"uniforms", len(c.out.Uniforms),
		"varyings", len(c.out.InputVaryings)+len(c.out.OutputVaryings),
		"uniform_blocks", len(c.out.UniformBlocks),
		"storage_blocks", len(c.out.ShaderStorageBlocks))
	return c.out
}

func (c *collector) list(k listKind) *[]sh.ShaderVariable {
	switch k {
	case listAttributes:
		return &c.out.Attributes
	case listOutputs:
		return &c.out.OutputVariables
	case listUniforms:
		return &c.out.Uniforms
	case listInputVaryings:
		return &c.out.InputVaryings
	}
	return &c.out.OutputVaryings
}

// classify returns the list a variable with qualifier q belongs to.
func classify(q ir.Qualifier) (listKind, bool) {
	switch {
	case q == ir.QualAttribute, q == ir.QualVertexIn, q == ir.QualVertexID, q == ir.QualInstanceID:
		return listAttributes, true
	case q == ir.QualFragmentOut, q == ir.QualFragmentInOut,
		q == ir.QualFragColor, q == ir.QualFragData, q == ir.QualFragDepth:
		return listOutputs, true
	case q == ir.QualUniform:
		return listUniforms, true
	case q.IsVaryingIn(), q == ir.QualFragCoord, q == ir.QualFrontFacing, q == ir.QualPointCoord:
		return listInputVaryings, true
	case q.IsVaryingOut(), q == ir.QualPosition, q == ir.QualPointSize:
		return listOutputVaryings, true
	}
	return 0, false
}

func isBlockDeclaration(t *ir.Type) bool {
	return t.IsInterfaceBlock() && (t.Qualifier == ir.QualUniform || t.Qualifier == ir.QualBuffer)
}

func (c *collector) visitDeclaration(_ *ir.Walker, _ ir.Visit, d *ir.Declaration) bool {
	if len(d.Declarators) == 0 {
		return false
	}
	first := ir.DeclaredSymbol(d.Declarators[0])
	if first == nil {
		return true
	}
	t := first.Var.Type
	if isBlockDeclaration(t) {
		c.recordBlock(first.Var)
		return false
	}
	if _, ok := classify(t.Qualifier); !ok {
		return true
	}
	for _, decl := range d.Declarators {
		if s := ir.DeclaredSymbol(decl); s != nil {
			c.record(s.Var)
		}
	}
	return false
}

func (c *collector) visitSymbol(_ *ir.Walker, s *ir.Symbol) {
	v := s.Var
	if b, ok := c.blocks[v]; ok {
		blk := c.block(b)
		blk.StaticUse = true
		blk.Active = true
		return
	}
	if _, ok := c.vars[v]; !ok {
		if !v.IsBuiltIn() {
			return
		}
		if _, ok := classify(v.Type.Qualifier); !ok {
			return
		}
		c.record(v)
	}
	e := c.vars[v]
	sv := &(*c.list(e.list))[e.index]
	sv.StaticUse = true
	sv.Active = true
}

func (c *collector) visitBinary(_ *ir.Walker, _ ir.Visit, b *ir.Binary) bool {
	if b.Op != ir.OpIndexDirectInterfaceBlock {
		return true
	}
	root := rootSymbol(b.Left)
	if root == nil {
		return true
	}
	be, ok := c.blocks[root.Var]
	if !ok {
		return true
	}
	blk := c.block(be)
	blk.StaticUse = true
	blk.Active = true
	if i := b.FieldIndex(); i >= 0 && i < len(blk.Fields) {
		markUsed(&blk.Fields[i])
	}
	return true
}

func rootSymbol(e ir.Expr) *ir.Symbol {
	for {
		switch n := e.(type) {
		case *ir.Symbol:
			return n
		case *ir.Binary:
			if !n.Op.IsIndex() {
				return nil
			}
			e = n.Left
		default:
			return nil
		}
	}
}

func markUsed(v *sh.ShaderVariable) {
	v.StaticUse = true
	v.Active = true
	for i := range v.Fields {
		markUsed(&v.Fields[i])
	}
}

func (c *collector) block(b blockEntry) *sh.InterfaceBlock {
	if b.storage {
		return &c.out.ShaderStorageBlocks[b.index]
	}
	return &c.out.UniformBlocks[b.index]
}

func (c *collector) record(v *ir.Variable) {
	k, _ := classify(v.Type.Qualifier)
	sv := c.shaderVariable(v.Type, v.Name, v.Kind)
	sv.StaticUse = c.tree.Symbols.IsStaticallyUsed(v)
	sv.Active = sv.StaticUse
	if k == listInputVaryings || k == listOutputVaryings {
		sv.Interpolation = sh.Interpolation(ir.InterpolationOf(v.Type.Qualifier))
		if k == listOutputVaryings && c.tree.Symbols.IsVaryingInvariant(v.Name) {
			sv.IsInvariant = true
		}
	}
	l := c.list(k)
	c.vars[v] = entry{list: k, index: len(*l)}
	*l = append(*l, sv)
}

func (c *collector) mapName(name string, kind ir.SymbolKind) string {
	return HashName(name, kind, c.opts.HashFunction)
}

func (c *collector) shaderVariable(t *ir.Type, name string, kind ir.SymbolKind) sh.ShaderVariable {
	sv := sh.NewShaderVariable(t.GLType(), name)
	sv.MappedName = c.mapName(name, kind)
	sv.Precision = t.GLPrecision()
	if t.IsArray() {
		sv.ArraySizes = append([]uint(nil), t.ArraySizes...)
	}
	sv.Location = t.Layout.Location
	sv.Binding = t.Layout.Binding
	sv.Offset = t.Layout.Offset
	sv.Index = t.Layout.Index
	sv.InputAttachmentIndex = t.Layout.InputAttachmentIndex
	sv.ReadOnly = t.Memory.ReadOnly
	sv.WriteOnly = t.Memory.WriteOnly
	sv.IsInvariant = t.Invariant
	if t.IsStructure() {
		s := t.Struct
		sv.StructOrBlockName = s.Name
		sv.MappedStructOrBlockName = c.mapName(s.Name, s.Kind)
		for _, f := range s.Fields {
			sv.Fields = append(sv.Fields, c.shaderVariable(f.Type, f.Name, s.Kind))
		}
	}
	if t.IsInterfaceBlock() {
		b := t.Block
		sv.StructOrBlockName = b.Name
		sv.MappedStructOrBlockName = c.mapName(b.Name, b.Kind)
		sv.IsShaderIOBlock = true
		for _, f := range b.Fields {
			sv.Fields = append(sv.Fields, c.shaderVariable(f.Type, f.Name, b.Kind))
		}
	}
	return sv
}

func blockLayout(s ir.BlockStorage) sh.BlockLayoutType {
	switch s {
	case ir.BlockStorageStd140:
		return sh.BlockLayoutStandard
	case ir.BlockStorageStd430:
		return sh.BlockLayoutStd430
	case ir.BlockStoragePacked:
		return sh.BlockLayoutPacked
	}
	return sh.BlockLayoutShared
}

func (c *collector) recordBlock(v *ir.Variable) {
	t := v.Type
	b := t.Block
	rowMajor := b.MatrixPacking == ir.MatrixPackingRowMajor
	ib := sh.InterfaceBlock{
		Name:             b.Name,
		MappedName:       c.mapName(b.Name, b.Kind),
		InstanceName:     v.Name,
		ArraySize:        t.OutermostArraySize(),
		Layout:           blockLayout(b.Storage),
		IsRowMajorLayout: rowMajor,
		Binding:          b.Binding,
		BlockType:        sh.BlockTypeUniform,
	}
	if t.Layout.Binding >= 0 {
		ib.Binding = t.Layout.Binding
	}
	if t.Qualifier == ir.QualBuffer {
		ib.BlockType = sh.BlockTypeBuffer
	}
	ib.StaticUse = c.tree.Symbols.IsStaticallyUsed(v)
	ib.Active = ib.StaticUse
	for _, f := range b.Fields {
		sv := c.shaderVariable(f.Type, f.Name, b.Kind)
		setRowMajor(&sv, f.Type, rowMajor)
		ib.Fields = append(ib.Fields, sv)
	}

	be := blockEntry{storage: ib.BlockType == sh.BlockTypeBuffer}
	if be.storage {
		be.index = len(c.out.ShaderStorageBlocks)
		c.out.ShaderStorageBlocks = append(c.out.ShaderStorageBlocks, ib)
	} else {
		be.index = len(c.out.UniformBlocks)
		c.out.UniformBlocks = append(c.out.UniformBlocks, ib)
	}
	c.blocks[v] = be
}

// setRowMajor applies the inherited matrix packing to a block member and
// its nested struct fields. A member's own packing overrides the default.
func setRowMajor(sv *sh.ShaderVariable, t *ir.Type, inherited bool) {
	switch t.Layout.MatrixPacking {
	case ir.MatrixPackingRowMajor:
		inherited = true
	case ir.MatrixPackingColumnMajor:
		inherited = false
	}
	sv.IsRowMajorLayout = inherited
	if t.IsStructure() {
		for i, f := range t.Struct.Fields {
			setRowMajor(&sv.Fields[i], f.Type, inherited)
		}
	}
}

// ShaderVariableOf returns the reflection snapshot of a value of type t
// named name, with unmapped names and no static use.
func ShaderVariableOf(t *ir.Type, name string) sh.ShaderVariable {
	c := &collector{}
	return c.shaderVariable(t, name, ir.SymbolBuiltIn)
}
