// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"

	"github.com/gogpu/essl/ir"
)

// statementExpr returns e without the parentheses expr puts around the
// outermost operator.
func (w *Writer) statementExpr(e ir.Expr) string {
	switch e := e.(type) {
	case *ir.Binary:
		return w.binary(e, false)
	case *ir.Unary:
		return w.unary(e, false)
	}
	return w.expr(e)
}

// expr returns the source of e. Operators are fully parenthesized.
func (w *Writer) expr(e ir.Expr) string {
	switch e := e.(type) {
	case *ir.Symbol:
		return w.varName(e.Var)
	case *ir.Constant:
		return w.constant(e)
	case *ir.Swizzle:
		return w.expr(e.Operand) + "." + e.Mask()
	case *ir.Unary:
		return w.unary(e, true)
	case *ir.Binary:
		return w.binary(e, true)
	case *ir.Ternary:
		return "(" + w.expr(e.Cond) + " ? " + w.expr(e.True) + " : " + w.expr(e.False) + ")"
	case *ir.Aggregate:
		return w.aggregate(e)
	}
	ir.Assert(false, "unsupported expression %T", e)
	return ""
}

func (w *Writer) constant(c *ir.Constant) string {
	t := c.Typ
	if len(c.Values) == 1 && t.IsScalar() {
		return c.Values[0].Literal()
	}
	ir.Assert(!t.IsStructure() && !t.IsArray(), "constant of type %s", t.BaseTypeName())
	lits := make([]string, len(c.Values))
	for i, v := range c.Values {
		lits[i] = v.Literal()
	}
	return t.BaseTypeName() + "(" + strings.Join(lits, ", ") + ")"
}

func (w *Writer) unary(u *ir.Unary, paren bool) string {
	operand := w.expr(u.Operand)
	var s string
	switch {
	case u.Op == ir.OpArrayLength:
		return operand + ".length()"
	case u.Op.IsBuiltInFunction():
		return u.Op.Spelling() + "(" + operand + ")"
	case u.Op == ir.OpPostIncrement || u.Op == ir.OpPostDecrement:
		s = operand + u.Op.Spelling()
	default:
		s = u.Op.Spelling() + operand
	}
	if paren {
		return "(" + s + ")"
	}
	return s
}

func (w *Writer) binary(b *ir.Binary, paren bool) string {
	switch b.Op {
	case ir.OpIndexDirect, ir.OpIndexIndirect:
		return w.expr(b.Left) + "[" + w.statementExpr(b.Right) + "]"
	case ir.OpIndexDirectStruct:
		s := b.Left.Type().Struct
		f := s.Fields[b.FieldIndex()]
		return w.expr(b.Left) + "." + fieldName(f.Name, s.Kind, w.options.HashFunction)
	case ir.OpIndexDirectInterfaceBlock:
		blk := b.Left.Type().Block
		f := blk.Fields[b.FieldIndex()]
		name := fieldName(f.Name, blk.Kind, w.options.HashFunction)
		if sym, ok := b.Left.(*ir.Symbol); ok && sym.Var.Name == "" {
			return name
		}
		return w.expr(b.Left) + "." + name
	}
	s := w.expr(b.Left) + " " + b.Op.Spelling() + " " + w.expr(b.Right)
	if paren {
		return "(" + s + ")"
	}
	return s
}

func (w *Writer) aggregate(a *ir.Aggregate) string {
	args := make([]string, len(a.Args))
	for i, arg := range a.Args {
		args[i] = w.statementExprArg(arg)
	}
	var callee string
	switch {
	case a.IsConstructor():
		t := a.Type()
		callee = w.typeName(t) + t.ArraySuffix()
	case a.Op == ir.OpCallInternalRawFunction:
		callee = a.Fn.Name
	case a.IsCall():
		callee = w.funcName(a.Fn)
	default:
		callee = a.Op.Spelling()
	}
	return callee + "(" + strings.Join(args, ", ") + ")"
}

// statementExprArg writes a call argument. A comma expression keeps its
// parentheses so that it stays one argument.
func (w *Writer) statementExprArg(e ir.Expr) string {
	if b, ok := e.(*ir.Binary); ok && (b.Op == ir.OpComma || b.Op.IsAssignment()) {
		return w.expr(e)
	}
	return w.statementExpr(e)
}
