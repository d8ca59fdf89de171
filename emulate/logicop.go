// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emulate

import (
	"fmt"

	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/gl"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/sh"
)

// LogicOpFunctionName is the helper applying a logic op to unsigned colors.
const LogicOpFunctionName = "ANGLE_logicOp"

// logicOpResult returns the expression of op applied to s and d.
func logicOpResult(op gl.LogicOp, s, d func() ir.Expr) ir.Expr {
	not := func(e ir.Expr) ir.Expr { return ir.NewUnary(ir.OpBitwiseNot, e) }
	and := func(a, b ir.Expr) ir.Expr { return ir.NewBinary(ir.OpBitwiseAnd, a, b) }
	or := func(a, b ir.Expr) ir.Expr { return ir.NewBinary(ir.OpBitwiseOr, a, b) }
	xor := func(a, b ir.Expr) ir.Expr { return ir.NewBinary(ir.OpBitwiseXor, a, b) }

	switch op {
	case gl.LogicOpClear:
		return construct(uvecType(4), uconst(0))
	case gl.LogicOpAnd:
		return and(s(), d())
	case gl.LogicOpAndReverse:
		return and(s(), not(d()))
	case gl.LogicOpCopy:
		return s()
	case gl.LogicOpAndInverted:
		return and(not(s()), d())
	case gl.LogicOpNoop:
		return d()
	case gl.LogicOpXor:
		return xor(s(), d())
	case gl.LogicOpOr:
		return or(s(), d())
	case gl.LogicOpNor:
		return not(or(s(), d()))
	case gl.LogicOpEquiv:
		return not(xor(s(), d()))
	case gl.LogicOpInvert:
		return not(d())
	case gl.LogicOpOrReverse:
		return or(s(), not(d()))
	case gl.LogicOpCopyInverted:
		return not(s())
	case gl.LogicOpOrInverted:
		return or(not(s()), d())
	case gl.LogicOpNand:
		return not(and(s(), d()))
	case gl.LogicOpSet:
		return construct(uvecType(4), uconst(0xFFFFFFFF))
	}
	panic(&ir.InternalError{Message: fmt.Sprintf("no expression for logic op %s", op)})
}

// defineLogicOp builds "uvec4 ANGLE_logicOp(uint op, uvec4 s, uvec4 d)"
// switching over every logic op.
func defineLogicOp(st *ir.SymbolTable) (*ir.Function, *ir.FunctionDefinition) {
	fn, p := function(st, LogicOpFunctionName, uvecType(4),
		param{"op", uvecType(1)}, param{"s", uvecType(4)}, param{"d", uvecType(4)})
	s := func() ir.Expr { return sym(p[1]) }
	d := func() ir.Expr { return sym(p[2]) }

	cases := ir.NewBlock()
	for op := gl.LogicOpClear; op <= gl.LogicOpSet; op++ {
		cases.Stmts = append(cases.Stmts, ir.NewCase(uconst(uint32(op))), ret(logicOpResult(op, s, d)))
	}
	body := ir.NewBlock(ir.NewSwitch(sym(p[0]), cases), ret(s()))
	return fn, ir.NewFunctionDefinition(fn, body)
}

// EmulateLogicOp applies the logic op selected at runtime by driver to
// every vec4 float output. Colors are quantized to the channel widths of
// the attachment, combined with the framebuffer contents read through one
// input attachment per location, and written back normalized. Nothing runs
// while the op is copy. The input attachments are appended to uniforms.
func EmulateLogicOp(tree *ir.Tree, driver DriverUniforms, uniforms *[]sh.ShaderVariable) error {
	if err := tree.CheckMutable(); err != nil {
		return err
	}
	ir.Assert(driver != nil, "logic op emulation needs driver uniforms")

	var outputs []FragmentOutput
	for _, o := range GatherFragmentOutputs(tree) {
		t := o.Var.Type
		if t.Basic == ir.BasicFloat && t.IsVector() && t.PrimarySize == 4 {
			outputs = append(outputs, o)
		}
	}
	if len(outputs) == 0 {
		return nil
	}

	st := tree.Symbols
	fn, def := defineLogicOp(st)
	var globals []ir.Node
	var reflected []sh.ShaderVariable
	var body []ir.Node

	widths, decl := temp(st, uvecType(4), ir.NewBinary(ir.OpBitwiseAnd,
		ir.NewBinary(ir.OpBitShiftRight, construct(uvecType(4), driver.LogicOpChannelWidths()), uvecConst(0, 8, 16, 24)),
		construct(uvecType(4), uconst(0xFF))))
	body = append(body, decl)
	maxValue, decl := temp(st, uvecType(4), sub(
		ir.NewBinary(ir.OpBitShiftLeft, construct(uvecType(4), uconst(1)), sym(widths)),
		construct(uvecType(4), uconst(1))))
	body = append(body, decl)
	maxFloat, decl := temp(st, vecType(4), construct(vecType(4), sym(maxValue)))
	body = append(body, decl)
	scale, decl := temp(st, vecType(4), call(ir.OpMax, sym(maxFloat), construct(vecType(4), fconst(1))))
	body = append(body, decl)

	for _, out := range outputs {
		for i := 0; i < out.Elements(); i++ {
			loc := out.Location + i
			if loc >= ir.MaxDrawBuffers {
				break
			}
			attachment, sv := declareInputAttachment(st, fmt.Sprintf("ANGLEInputAttachment%d", loc), loc)
			globals = append(globals, ir.NewDeclaration(ir.NewSymbol(attachment)))
			reflected = append(reflected, sv)

			quantized := func(color ir.Expr) ir.Expr {
				return construct(uvecType(4), call(ir.OpRound, mul(color, sym(maxFloat))))
			}
			src, decl := temp(st, uvecType(4), quantized(call(ir.OpClamp, out.element(i), fconst(0), fconst(1))))
			body = append(body, decl)
			dst, decl := temp(st, uvecType(4), quantized(call(ir.OpSubpassLoad, sym(attachment))))
			body = append(body, decl)
			result := ir.NewBinary(ir.OpBitwiseAnd, ir.CreateCall(fn, driver.LogicOp(), sym(src), sym(dst)), sym(maxValue))
			body = append(body, ir.NewAssign(out.element(i), div(construct(vecType(4), result), sym(scale))))
		}
	}

	globals = append(globals, def)
	if err := tree.InsertStatements(tree.FirstFunctionIndex(), globals...); err != nil {
		return err
	}
	if uniforms != nil {
		*uniforms = append(*uniforms, reflected...)
	}
	guard := ifThen(ir.NewBinary(ir.OpNotEqual, driver.LogicOp(), uconst(uint32(gl.LogicOpCopy))), body...)
	diag.Logger().Debug("emulate: logic op", "attachments", len(reflected))
	return RunAtTheEndOfShader(tree, ir.NewBlock(guard))
}
