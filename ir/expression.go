// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"math"
	"strconv"
	"strings"
)

// SourceLoc is a position in the shader source.
type SourceLoc struct {
	Line   int
	Column int
}

func (l SourceLoc) String() string {
	return strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// Node is any node of the tree.
type Node interface {
	Loc() SourceLoc
	// Children returns the direct children in traversal order.
	Children() []Node
	node()
}

// Expr is a node producing a value.
type Expr interface {
	Node
	Type() *Type
	// DerivedPrecision is the precision computed by precision propagation.
	DerivedPrecision() Precision
	SetDerivedPrecision(p Precision)
}

type nodeBase struct {
	loc SourceLoc
}

func (b *nodeBase) Loc() SourceLoc       { return b.loc }
func (b *nodeBase) SetLoc(loc SourceLoc) { b.loc = loc }
func (*nodeBase) node()                  {}

type exprBase struct {
	nodeBase
	derived Precision
}

func (b *exprBase) DerivedPrecision() Precision     { return b.derived }
func (b *exprBase) SetDerivedPrecision(p Precision) { b.derived = p }

// Symbol references a variable.
type Symbol struct {
	exprBase
	Var *Variable
}

func (s *Symbol) Type() *Type      { return s.Var.Type }
func (s *Symbol) Children() []Node { return nil }
func (s *Symbol) Name() string     { return s.Var.Name }

// ConstValue is one scalar component of a constant.
type ConstValue struct {
	Basic BasicType
	F     float32
	I     int32
	U     uint32
	B     bool
}

func FloatValue(f float32) ConstValue { return ConstValue{Basic: BasicFloat, F: f} }
func IntValue(i int32) ConstValue     { return ConstValue{Basic: BasicInt, I: i} }
func UIntValue(u uint32) ConstValue   { return ConstValue{Basic: BasicUInt, U: u} }
func BoolValue(b bool) ConstValue     { return ConstValue{Basic: BasicBool, B: b} }

// Int returns the value as an int regardless of its basic type.
func (c ConstValue) Int() int {
	switch c.Basic {
	case BasicInt:
		return int(c.I)
	case BasicUInt:
		return int(c.U)
	case BasicFloat:
		return int(c.F)
	case BasicBool:
		if c.B {
			return 1
		}
	}
	return 0
}

// Literal returns the GLSL ES spelling of the value.
func (c ConstValue) Literal() string {
	switch c.Basic {
	case BasicInt:
		return strconv.FormatInt(int64(c.I), 10)
	case BasicUInt:
		return strconv.FormatUint(uint64(c.U), 10) + "u"
	case BasicBool:
		return strconv.FormatBool(c.B)
	}
	switch {
	case math.IsInf(float64(c.F), 1):
		return "uintBitsToFloat(0x7f800000u)"
	case math.IsInf(float64(c.F), -1):
		return "uintBitsToFloat(0xff800000u)"
	case math.IsNaN(float64(c.F)):
		return "uintBitsToFloat(0x7fc00000u)"
	}
	s := strconv.FormatFloat(float64(c.F), 'g', -1, 32)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Constant is a compile-time constant value.
type Constant struct {
	exprBase
	Typ    *Type
	Values []ConstValue
}

func (c *Constant) Type() *Type      { return c.Typ }
func (c *Constant) Children() []Node { return nil }

// Swizzle selects vector components by offset.
type Swizzle struct {
	exprBase
	Operand Expr
	Offsets []int
	typ     *Type
}

func (s *Swizzle) Type() *Type      { return s.typ }
func (s *Swizzle) Children() []Node { return []Node{s.Operand} }

// Mask returns the swizzle in xyzw form.
func (s *Swizzle) Mask() string {
	const names = "xyzw"
	b := make([]byte, len(s.Offsets))
	for i, o := range s.Offsets {
		b[i] = names[o]
	}
	return string(b)
}

// Unary is a unary operator or a one-argument built-in function.
type Unary struct {
	exprBase
	Op      Op
	Operand Expr
	typ     *Type
}

func (u *Unary) Type() *Type      { return u.typ }
func (u *Unary) Children() []Node { return []Node{u.Operand} }

// Binary is a binary operator, an index or field selection, or an
// assignment.
type Binary struct {
	exprBase
	Op    Op
	Left  Expr
	Right Expr
	typ   *Type
}

func (b *Binary) Type() *Type      { return b.typ }
func (b *Binary) Children() []Node { return []Node{b.Left, b.Right} }

// FieldIndex returns the selected field of an OpIndexDirectStruct or
// OpIndexDirectInterfaceBlock node.
func (b *Binary) FieldIndex() int {
	return b.Right.(*Constant).Values[0].Int()
}

// Ternary is the ?: operator.
type Ternary struct {
	exprBase
	Cond  Expr
	True  Expr
	False Expr
}

func (t *Ternary) Type() *Type      { return t.True.Type() }
func (t *Ternary) Children() []Node { return []Node{t.Cond, t.True, t.False} }

// Aggregate is a function call, a constructor or a built-in function taking
// several arguments.
type Aggregate struct {
	exprBase
	Op   Op
	Fn   *Function
	Args []Expr
	typ  *Type
}

func (a *Aggregate) Type() *Type { return a.typ }

func (a *Aggregate) Children() []Node {
	out := make([]Node, len(a.Args))
	for i, arg := range a.Args {
		out[i] = arg
	}
	return out
}

// IsConstructor reports whether a constructs a value of its type.
func (a *Aggregate) IsConstructor() bool { return a.Op == OpConstruct }

// IsCall reports whether a calls a function defined in the tree.
func (a *Aggregate) IsCall() bool {
	return a.Op == OpCallFunctionInAST || a.Op == OpCallInternalRawFunction
}
