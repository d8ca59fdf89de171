// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emulate

import (
	"github.com/gogpu/essl/collect"
	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/gl"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/sh"
)

// LastFragDataName is the input attachment advanced blending reads the
// framebuffer through.
const LastFragDataName = "ANGLELastFragData"

// declareInputAttachment declares a highp subpassInput uniform bound to
// input attachment index and returns it with its reflection entry.
func declareInputAttachment(st *ir.SymbolTable, name string, index int) (*ir.Variable, sh.ShaderVariable) {
	t := ir.NewScalarType(ir.BasicSubpassInput, ir.PrecisionHigh, ir.QualUniform)
	t.Layout.InputAttachmentIndex = index
	v := st.DeclareInternal(st.UniqueName(name), t)
	sv := collect.ShaderVariableOf(t, v.Name)
	sv.StaticUse = true
	sv.Active = true
	return v, sv
}

// EmulateAdvancedBlendEquations blends the output at location 0 with the
// framebuffer contents using the advanced equation selected at runtime by
// driver. Only equations in equations get a helper function and a case;
// the HSL helpers are generated only when an HSL equation is enabled. The
// input attachment it reads is appended to uniforms.
func EmulateAdvancedBlendEquations(tree *ir.Tree, driver DriverUniforms, equations gl.BlendEquationSet, uniforms *[]sh.ShaderVariable) error {
	if err := tree.CheckMutable(); err != nil {
		return err
	}
	ir.Assert(driver != nil, "advanced blending needs driver uniforms")

	var enabled []gl.BlendEquation
	for _, eq := range equations.Equations() {
		if eq.IsAdvanced() {
			enabled = append(enabled, eq)
		}
	}
	if len(enabled) == 0 {
		return nil
	}
	var out *FragmentOutput
	for _, o := range GatherFragmentOutputs(tree) {
		t := o.Var.Type
		if o.Location == 0 && !t.IsArray() && t.Basic == ir.BasicFloat && t.IsVector() && t.PrimarySize == 4 {
			out = &o
			break
		}
	}
	if out == nil {
		diag.Logger().Debug("emulate: no vec4 output at location 0, advanced blending skipped")
		return nil
	}

	st := tree.Symbols
	lastFragData, reflected := declareInputAttachment(st, LastFragDataName, 0)
	b := &blendBuilder{st: st}
	if equations.AnyHSL() {
		b.hslHelpers()
	}
	fns := make(map[gl.BlendEquation]*ir.Function, len(enabled))
	for _, eq := range enabled {
		fns[eq] = b.equation(eq)
	}
	globals := append([]ir.Node{ir.NewDeclaration(ir.NewSymbol(lastFragData))}, b.defs...)
	if err := tree.InsertStatements(tree.FirstFunctionIndex(), globals...); err != nil {
		return err
	}

	var body []ir.Node
	src, decl := temp(st, vecType(4), ir.NewSymbol(out.Var))
	body = append(body, decl)
	dst, decl := temp(st, vecType(4), call(ir.OpSubpassLoad, sym(lastFragData)))
	body = append(body, decl)
	unpremultiply := func(c *ir.Variable) ir.Expr {
		return ir.NewTernary(
			ir.NewBinary(ir.OpEqual, swizzle(sym(c), 3), fconst(0)),
			ir.CreateZeroNode(vecType(3)),
			div(swizzle(sym(c), 0, 1, 2), swizzle(sym(c), 3)))
	}
	srcU, decl := temp(st, vecType(3), unpremultiply(src))
	body = append(body, decl)
	dstU, decl := temp(st, vecType(3), unpremultiply(dst))
	body = append(body, decl)
	blended, decl := temp(st, vecType(3), ir.CreateZeroNode(vecType(3)))
	body = append(body, decl)

	cases := ir.NewBlock()
	for _, eq := range enabled {
		cases.Stmts = append(cases.Stmts,
			ir.NewCase(uconst(uint32(eq))),
			ir.NewAssign(sym(blended), ir.CreateCall(fns[eq], sym(srcU), sym(dstU))),
			brk(),
		)
	}
	body = append(body, ir.NewSwitch(driver.AdvancedBlendEquation(), cases))

	srcA := func() ir.Expr { return swizzle(sym(src), 3) }
	dstA := func() ir.Expr { return swizzle(sym(dst), 3) }
	p0, decl := temp(st, vecType(1), mul(srcA(), dstA()))
	body = append(body, decl)
	p1, decl := temp(st, vecType(1), mul(srcA(), sub(fconst(1), dstA())))
	body = append(body, decl)
	p2, decl := temp(st, vecType(1), mul(dstA(), sub(fconst(1), srcA())))
	body = append(body, decl)
	rgb := add(add(mul(sym(blended), sym(p0)), mul(sym(srcU), sym(p1))), mul(sym(dstU), sym(p2)))
	alpha := add(add(sym(p0), sym(p1)), sym(p2))
	body = append(body, ir.NewAssign(ir.NewSymbol(out.Var), construct(vecType(4), rgb, alpha)))

	guard := ifThen(ir.NewBinary(ir.OpGreaterThanEqual, driver.AdvancedBlendEquation(), uconst(uint32(gl.BlendMultiply))), body...)
	if uniforms != nil {
		*uniforms = append(*uniforms, reflected)
	}
	diag.Logger().Debug("emulate: advanced blending", "equations", len(enabled), "hsl", equations.AnyHSL())
	return RunAtTheEndOfShader(tree, ir.NewBlock(guard))
}

// blendBuilder generates the blend helper functions.
type blendBuilder struct {
	st   *ir.SymbolTable
	defs []ir.Node

	lum, minComponent, maxComponent, sat, setSat, clipColor, setLum *ir.Function
}

func (b *blendBuilder) define(fn *ir.Function, body ...ir.Node) {
	b.defs = append(b.defs, ir.NewFunctionDefinition(fn, ir.NewBlock(body...)))
}

func vec3Params() []param {
	return []param{{"s", vecType(3)}, {"d", vecType(3)}}
}

// vectorHelper defines "vec3 name(vec3 s, vec3 d) { return f(s, d); }".
func (b *blendBuilder) vectorHelper(name string, f func(s, d func() ir.Expr) ir.Expr) *ir.Function {
	fn, p := function(b.st, name, vecType(3), vec3Params()...)
	s := func() ir.Expr { return sym(p[0]) }
	d := func() ir.Expr { return sym(p[1]) }
	b.define(fn, ret(f(s, d)))
	return fn
}

// channelHelper defines a float helper from body and a vec3 helper applying
// it to each channel.
func (b *blendBuilder) channelHelper(name string, body func(s, d func() ir.Expr) []ir.Node) *ir.Function {
	scalar, p := function(b.st, name+"_channel", vecType(1), param{"s", vecType(1)}, param{"d", vecType(1)})
	b.define(scalar, body(func() ir.Expr { return sym(p[0]) }, func() ir.Expr { return sym(p[1]) })...)

	return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr {
		args := make([]ir.Expr, 3)
		for i := range args {
			args[i] = ir.CreateCall(scalar, swizzle(s(), i), swizzle(d(), i))
		}
		return construct(vecType(3), args...)
	})
}

// overlayOf returns mix(2*a*b, 1 - 2*(1-a)*(1-b), step(0.5, sel)).
func overlayOf(a, b, sel func() ir.Expr) ir.Expr {
	low := mul(mul(fconst(2), a()), b())
	high := sub(fconst(1), mul(mul(fconst(2), sub(fconst(1), a())), sub(fconst(1), b())))
	return call(ir.OpMix, low, high, call(ir.OpStep, fconst(0.5), sel()))
}

func cmp(op ir.Op, a ir.Expr, f float32) ir.Expr { return ir.NewBinary(op, a, fconst(f)) }

func (b *blendBuilder) equation(eq gl.BlendEquation) *ir.Function {
	name := "ANGLE_blend_" + eq.String()
	switch eq {
	case gl.BlendMultiply:
		return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr { return mul(s(), d()) })
	case gl.BlendScreen:
		return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr { return sub(add(s(), d()), mul(s(), d())) })
	case gl.BlendOverlay:
		return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr { return overlayOf(s, d, d) })
	case gl.BlendDarken:
		return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr { return call(ir.OpMin, s(), d()) })
	case gl.BlendLighten:
		return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr { return call(ir.OpMax, s(), d()) })
	case gl.BlendHardLight:
		return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr { return overlayOf(s, d, s) })
	case gl.BlendDifference:
		return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr { return call(ir.OpAbs, sub(d(), s())) })
	case gl.BlendExclusion:
		return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr {
			return sub(add(s(), d()), mul(mul(fconst(2), s()), d()))
		})
	case gl.BlendColorDodge:
		return b.channelHelper(name, func(s, d func() ir.Expr) []ir.Node {
			return []ir.Node{
				ifThen(cmp(ir.OpLessThanEqual, d(), 0), ret(fconst(0))),
				ifThen(cmp(ir.OpGreaterThanEqual, s(), 1), ret(fconst(1))),
				ret(call(ir.OpMin, fconst(1), div(d(), sub(fconst(1), s())))),
			}
		})
	case gl.BlendColorBurn:
		return b.channelHelper(name, func(s, d func() ir.Expr) []ir.Node {
			return []ir.Node{
				ifThen(cmp(ir.OpGreaterThanEqual, d(), 1), ret(fconst(1))),
				ifThen(cmp(ir.OpLessThanEqual, s(), 0), ret(fconst(0))),
				ret(sub(fconst(1), call(ir.OpMin, fconst(1), div(sub(fconst(1), d()), s())))),
			}
		})
	case gl.BlendSoftLight:
		return b.channelHelper(name, func(s, d func() ir.Expr) []ir.Node {
			twoSMinusOne := func() ir.Expr { return sub(mul(fconst(2), s()), fconst(1)) }
			return []ir.Node{
				ifThen(cmp(ir.OpLessThanEqual, s(), 0.5),
					ret(sub(d(), mul(mul(sub(fconst(1), mul(fconst(2), s())), d()), sub(fconst(1), d()))))),
				ifThen(cmp(ir.OpLessThanEqual, d(), 0.25),
					ret(add(d(), mul(mul(twoSMinusOne(), d()),
						add(mul(sub(mul(fconst(16), d()), fconst(12)), d()), fconst(3)))))),
				ret(add(d(), mul(twoSMinusOne(), sub(call(ir.OpSqrt, d()), d())))),
			}
		})
	case gl.BlendHSLHue:
		return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr {
			return ir.CreateCall(b.setLum, ir.CreateCall(b.setSat, s(), ir.CreateCall(b.sat, d())), ir.CreateCall(b.lum, d()))
		})
	case gl.BlendHSLSaturation:
		return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr {
			return ir.CreateCall(b.setLum, ir.CreateCall(b.setSat, d(), ir.CreateCall(b.sat, s())), ir.CreateCall(b.lum, d()))
		})
	case gl.BlendHSLColor:
		return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr {
			return ir.CreateCall(b.setLum, s(), ir.CreateCall(b.lum, d()))
		})
	case gl.BlendHSLLuminosity:
		return b.vectorHelper(name, func(s, d func() ir.Expr) ir.Expr {
			return ir.CreateCall(b.setLum, d(), ir.CreateCall(b.lum, s()))
		})
	}
	panic(&ir.InternalError{Message: "no blend helper for " + eq.String()})
}

// hslHelpers defines the luminosity and saturation helpers shared by the
// HSL equations.
func (b *blendBuilder) hslHelpers() {
	st := b.st
	c := []param{{"c", vecType(3)}}

	var p []*ir.Variable
	b.lum, p = function(st, "ANGLE_blend_lum", vecType(1), c...)
	b.define(b.lum, ret(call(ir.OpDot, sym(p[0]), vecConst(0.30, 0.59, 0.11))))

	component := func(name string, op ir.Op) *ir.Function {
		fn, p := function(st, name, vecType(1), c...)
		b.define(fn, ret(call(op, call(op, swizzle(sym(p[0]), 0), swizzle(sym(p[0]), 1)), swizzle(sym(p[0]), 2))))
		return fn
	}
	b.minComponent = component("ANGLE_blend_minComponent", ir.OpMin)
	b.maxComponent = component("ANGLE_blend_maxComponent", ir.OpMax)

	b.sat, p = function(st, "ANGLE_blend_sat", vecType(1), c...)
	b.define(b.sat, ret(sub(ir.CreateCall(b.maxComponent, sym(p[0])), ir.CreateCall(b.minComponent, sym(p[0])))))

	// setSat(c, s) = mx > mn ? (c - mn) * s / (mx - mn) : vec3(0)
	b.setSat, p = function(st, "ANGLE_blend_setSat", vecType(3), param{"c", vecType(3)}, param{"s", vecType(1)})
	mn, mnDecl := temp(st, vecType(1), ir.CreateCall(b.minComponent, sym(p[0])))
	mx, mxDecl := temp(st, vecType(1), ir.CreateCall(b.maxComponent, sym(p[0])))
	b.define(b.setSat, mnDecl, mxDecl,
		ifThen(ir.NewBinary(ir.OpGreaterThan, sym(mx), sym(mn)),
			ret(div(mul(sub(sym(p[0]), sym(mn)), sym(p[1])), sub(sym(mx), sym(mn))))),
		ret(ir.CreateZeroNode(vecType(3))))

	// clipColor brings every channel back into [0, 1] keeping luminosity.
	b.clipColor, p = function(st, "ANGLE_blend_clipColor", vecType(3), c...)
	cv := p[0]
	l, lDecl := temp(st, vecType(1), ir.CreateCall(b.lum, sym(cv)))
	mn, mnDecl = temp(st, vecType(1), ir.CreateCall(b.minComponent, sym(cv)))
	mx, mxDecl = temp(st, vecType(1), ir.CreateCall(b.maxComponent, sym(cv)))
	b.define(b.clipColor, lDecl, mnDecl, mxDecl,
		ifThen(cmp(ir.OpLessThan, sym(mn), 0),
			ir.NewAssign(sym(cv), add(sym(l), div(mul(sub(sym(cv), sym(l)), sym(l)), sub(sym(l), sym(mn)))))),
		ifThen(cmp(ir.OpGreaterThan, sym(mx), 1),
			ir.NewAssign(sym(cv), add(sym(l), div(mul(sub(sym(cv), sym(l)), sub(fconst(1), sym(l))), sub(sym(mx), sym(l)))))),
		ret(sym(cv)))

	// setLum(c, l) = clipColor(c + (l - lum(c)))
	b.setLum, p = function(st, "ANGLE_blend_setLum", vecType(3), param{"c", vecType(3)}, param{"l", vecType(1)})
	b.define(b.setLum, ret(ir.CreateCall(b.clipColor,
		add(sym(p[0]), sub(sym(p[1]), ir.CreateCall(b.lum, sym(p[0])))))))
}
