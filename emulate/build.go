// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emulate

import "github.com/gogpu/essl/ir"

// Shorthands for the highp code the rewriters generate. Every call returns
// a fresh node.

func highpType(b ir.BasicType, n int) *ir.Type {
	if n == 1 {
		return ir.NewScalarType(b, ir.PrecisionHigh, ir.QualTemporary)
	}
	return ir.NewVectorType(b, n, ir.PrecisionHigh, ir.QualTemporary)
}

func vecType(n int) *ir.Type  { return highpType(ir.BasicFloat, n) }
func uvecType(n int) *ir.Type { return highpType(ir.BasicUInt, n) }

func voidType() *ir.Type {
	return ir.NewScalarType(ir.BasicVoid, ir.PrecisionUndefined, ir.QualTemporary)
}

func fconst(f float32) ir.Expr { return ir.CreateFloatNode(f, ir.PrecisionHigh) }
func uconst(u uint32) ir.Expr  { return ir.CreateUIntNode(u) }

// vecConst returns a highp float vector constant, or a scalar for one value.
func vecConst(values ...float32) ir.Expr {
	if len(values) == 1 {
		return fconst(values[0])
	}
	cv := make([]ir.ConstValue, len(values))
	for i, v := range values {
		cv[i] = ir.FloatValue(v)
	}
	t := vecType(len(values))
	t.Qualifier = ir.QualConst
	return ir.NewConstant(t, cv...)
}

func uvecConst(values ...uint32) ir.Expr {
	cv := make([]ir.ConstValue, len(values))
	for i, v := range values {
		cv[i] = ir.UIntValue(v)
	}
	t := uvecType(len(values))
	t.Qualifier = ir.QualConst
	return ir.NewConstant(t, cv...)
}

func sym(v *ir.Variable) ir.Expr { return ir.NewSymbol(v) }

func add(a, b ir.Expr) ir.Expr { return ir.NewBinary(ir.OpAdd, a, b) }
func sub(a, b ir.Expr) ir.Expr { return ir.NewBinary(ir.OpSub, a, b) }
func mul(a, b ir.Expr) ir.Expr { return ir.NewBinary(ir.OpMul, a, b) }
func div(a, b ir.Expr) ir.Expr { return ir.NewBinary(ir.OpDiv, a, b) }

func call(op ir.Op, args ...ir.Expr) ir.Expr { return ir.CreateBuiltInCall(op, args...) }

func construct(t *ir.Type, args ...ir.Expr) ir.Expr { return ir.NewConstructor(t, args...) }

func swizzle(e ir.Expr, offsets ...int) ir.Expr { return ir.CreateSwizzle(e, offsets...) }

func ret(e ir.Expr) *ir.Branch { return ir.NewBranch(ir.BranchReturn, e) }

func brk() *ir.Branch { return ir.NewBranch(ir.BranchBreak, nil) }

func ifThen(cond ir.Expr, then ...ir.Node) *ir.IfElse {
	return ir.NewIfElse(cond, ir.NewBlock(then...), nil)
}

// temp declares a highp temporary initialized with init.
func temp(st *ir.SymbolTable, t *ir.Type, init ir.Expr) (*ir.Variable, *ir.Declaration) {
	v := ir.CreateTempVariable(st, t)
	return v, ir.CreateTempInitDeclaration(v, init)
}

type param struct {
	name string
	typ  *ir.Type
}

// function declares an internal function and returns it with its params.
func function(st *ir.SymbolTable, name string, ret *ir.Type, params ...param) (*ir.Function, []*ir.Variable) {
	vars := make([]*ir.Variable, len(params))
	for i, p := range params {
		vars[i] = ir.CreateParam(st, p.name, p.typ)
	}
	return ir.CreateInternalFunction(st, name, ret, vars...), vars
}
