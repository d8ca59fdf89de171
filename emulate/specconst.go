// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emulate

import "github.com/gogpu/essl/ir"

// SpecConstants gives rewriters access to specialization constants. A
// method returns nil when the target cannot specialize that value; the
// rewriter then falls back to the matching driver uniform.
type SpecConstants interface {
	Dither() ir.Expr
}

// Specialization constant IDs.
const (
	SpecConstDither = 0
)

// SpecConst describes one declared specialization constant.
type SpecConst struct {
	Name string
	ID   int
}

// SpecConstBlock declares specialization constants in a tree on first use.
type SpecConstBlock struct {
	tree     *ir.Tree
	dither   *ir.Variable
	declared []SpecConst
}

// NewSpecConstBlock returns a provider that declares into tree.
func NewSpecConstBlock(tree *ir.Tree) *SpecConstBlock {
	return &SpecConstBlock{tree: tree}
}

// Dither returns the dither control constant, declaring
// "layout(constant_id = 0) const highp uint ANGLEDitherControl = 0u;"
// the first time. It returns nil once the tree is frozen.
func (s *SpecConstBlock) Dither() ir.Expr {
	if s.dither == nil {
		t := ir.NewScalarType(ir.BasicUInt, ir.PrecisionHigh, ir.QualSpecConst)
		t.Layout.ConstantID = SpecConstDither
		v := s.tree.Symbols.DeclareInternal(s.tree.Symbols.UniqueName("ANGLEDitherControl"), t)
		if err := s.tree.InsertStatements(0, ir.CreateTempInitDeclaration(v, uconst(0))); err != nil {
			return nil
		}
		s.dither = v
		s.declared = append(s.declared, SpecConst{Name: v.Name, ID: SpecConstDither})
	}
	return ir.NewSymbol(s.dither)
}

// Declared lists the constants declared so far.
func (s *SpecConstBlock) Declared() []SpecConst { return s.declared }
