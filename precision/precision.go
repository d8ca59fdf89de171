// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package precision assigns a derived precision to every expression of a
// tree. Children are always resolved before their parents, and the tree is
// frozen afterwards: later passes may read the annotations but no pass may
// rewrite the tree.
package precision

import (
	"errors"

	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/ir"
)

// Options configure propagation.
type Options struct {
	// Desktop is set when the tree is emitted as desktop GLSL. Desktop-only
	// built-ins and built-in symbols without a precision are accepted only
	// then.
	Desktop bool
}

// ErrNilTree is returned when Propagate is called without a tree.
var ErrNilTree = errors.New("precision: nil tree")

// Propagate annotates every expression in tree and freezes it. Calling it
// again on a frozen tree recomputes the same annotations.
func Propagate(tree *ir.Tree, opts Options) error {
	if tree == nil || tree.Root == nil {
		return ErrNilTree
	}
	p := &propagator{desktop: opts.Desktop}
	w := &ir.Walker{
		Post:      true,
		Symbol:    p.symbol,
		Constant:  p.constant,
		Swizzle:   p.swizzle,
		Unary:     p.unary,
		Binary:    p.binary,
		Ternary:   p.ternary,
		Aggregate: p.aggregate,
	}
	w.Walk(tree.Root)
	tree.Freeze()
	diag.Logger().Debug("precision: annotated", "expressions", p.count)
	return nil
}

type propagator struct {
	desktop bool
	count   int
}

func (p *propagator) set(e ir.Expr, prec ir.Precision) {
	e.SetDerivedPrecision(prec)
	p.count++
}

func needsPrecision(t *ir.Type) bool {
	switch t.Basic {
	case ir.BasicFloat, ir.BasicInt, ir.BasicUInt:
		return true
	}
	return false
}

func (p *propagator) symbol(_ *ir.Walker, s *ir.Symbol) {
	t := s.Var.Type
	ir.Assert(t.Precision != ir.PrecisionUndefined || !needsPrecision(t) || (p.desktop && s.Var.IsBuiltIn()),
		"symbol '%s' of type %s has no precision", s.Var.Name, t)
	p.set(s, t.Precision)
}

func (p *propagator) constant(_ *ir.Walker, c *ir.Constant) {
	p.set(c, c.Type().Precision)
}

func (p *propagator) swizzle(_ *ir.Walker, _ ir.Visit, s *ir.Swizzle) bool {
	p.set(s, s.Operand.DerivedPrecision())
	return true
}

func (p *propagator) unary(_ *ir.Walker, _ ir.Visit, u *ir.Unary) bool {
	p.set(u, unaryPrecision(u))
	return true
}

func unaryPrecision(u *ir.Unary) ir.Precision {
	switch u.Op {
	case ir.OpFloatBitsToInt, ir.OpFloatBitsToUint, ir.OpIntBitsToFloat, ir.OpUintBitsToFloat,
		ir.OpPackSnorm2x16, ir.OpPackUnorm2x16, ir.OpPackHalf2x16, ir.OpPackUnorm4x8, ir.OpPackSnorm4x8,
		ir.OpUnpackSnorm2x16, ir.OpUnpackUnorm2x16:
		return ir.PrecisionHigh
	case ir.OpUnpackHalf2x16, ir.OpUnpackUnorm4x8, ir.OpUnpackSnorm4x8:
		return ir.PrecisionMedium
	case ir.OpBitCount, ir.OpFindLSB, ir.OpFindMSB:
		return ir.PrecisionLow
	case ir.OpAny, ir.OpAll, ir.OpIsinf, ir.OpIsnan:
		return ir.PrecisionUndefined
	}
	return u.Operand.DerivedPrecision()
}

func (p *propagator) binary(_ *ir.Walker, _ ir.Visit, b *ir.Binary) bool {
	p.set(b, binaryPrecision(b))
	return true
}

func binaryPrecision(b *ir.Binary) ir.Precision {
	switch {
	case b.Op == ir.OpComma:
		return b.Right.DerivedPrecision()
	case b.Op == ir.OpIndexDirect, b.Op == ir.OpIndexIndirect:
		return b.Left.DerivedPrecision()
	case b.Op == ir.OpIndexDirectStruct, b.Op == ir.OpIndexDirectInterfaceBlock:
		fields := b.Left.Type().Fields()
		i := b.FieldIndex()
		ir.Assert(i >= 0 && i < len(fields), "field index %d out of range", i)
		return fields[i].Type.Precision
	case b.Op.IsRelational(), b.Op.IsLogical():
		return ir.PrecisionUndefined
	}
	return ir.HigherPrecision(b.Left.DerivedPrecision(), b.Right.DerivedPrecision())
}

func (p *propagator) ternary(_ *ir.Walker, _ ir.Visit, t *ir.Ternary) bool {
	p.set(t, t.True.DerivedPrecision())
	return true
}

func (p *propagator) aggregate(_ *ir.Walker, _ ir.Visit, a *ir.Aggregate) bool {
	p.set(a, p.aggregatePrecision(a))
	return true
}

func (p *propagator) aggregatePrecision(a *ir.Aggregate) ir.Precision {
	if a.IsCall() {
		return a.Fn.ReturnType.Precision
	}
	switch a.Type().Basic {
	case ir.BasicBool, ir.BasicVoid, ir.BasicStruct:
		return ir.PrecisionUndefined
	}

	op := a.Op
	switch op {
	case ir.OpBitfieldExtract:
		return a.Args[0].DerivedPrecision()
	case ir.OpBitfieldInsert:
		return ir.HigherPrecision(a.Args[0].DerivedPrecision(), a.Args[1].DerivedPrecision())
	case ir.OpTextureSize, ir.OpImageSize, ir.OpUaddCarry, ir.OpUsubBorrow,
		ir.OpUmulExtended, ir.OpImulExtended, ir.OpFrexp, ir.OpLdexp:
		return ir.PrecisionHigh
	}
	switch {
	case op == ir.OpConstruct, isMathFunction(op):
		return highestArgument(a.Args)
	case op.IsImageFunction(), op.IsAtomic():
		return ir.PrecisionHigh
	case op.IsTextureLookup(), isDerivativeOrInterpolation(op), op == ir.OpSubpassLoad:
		return a.Args[0].DerivedPrecision()
	}
	ir.Assert(p.desktop, "%s has no precision rule outside desktop GLSL", op)
	return ir.PrecisionHigh
}

// isMathFunction reports whether op is in the angle, exponential, common,
// packing, geometric, matrix, vector relational or integer groups.
func isMathFunction(op ir.Op) bool {
	return op >= ir.OpRadians && op <= ir.OpImulExtended
}

func isDerivativeOrInterpolation(op ir.Op) bool {
	return op >= ir.OpDFdx && op <= ir.OpInterpolateAtOffset
}

func highestArgument(args []ir.Expr) ir.Precision {
	prec := ir.PrecisionUndefined
	for _, a := range args {
		prec = ir.HigherPrecision(prec, a.DerivedPrecision())
	}
	return prec
}
