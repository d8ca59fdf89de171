// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emulate

import (
	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/ir"
)

// bayerRows is the 4x4 ordered dither matrix, one row per entry with the
// value for column x in bits [4x, 4x+4).
var bayerRows = [4]uint32{0xA280, 0x6E4C, 0x91B3, 0x5D7F}

// ditherScales is the per-channel quantization step of each dither mode.
var ditherScales = map[uint32][4]float32{
	DitherRGBA4444: {1.0 / 15, 1.0 / 15, 1.0 / 15, 1.0 / 15},
	DitherRGBA5551: {1.0 / 31, 1.0 / 31, 1.0 / 31, 0},
	DitherRGB565:   {1.0 / 31, 1.0 / 63, 1.0 / 31, 0},
}

// EmulateDithering adds ordered dithering to every float fragment output.
// The dither control is read from specConsts when it provides one and from
// driver otherwise; its two bits per output location select the target
// format. The code runs at the end of main behind a control != 0 guard.
func EmulateDithering(tree *ir.Tree, specConsts SpecConstants, driver DriverUniforms) error {
	if err := tree.CheckMutable(); err != nil {
		return err
	}
	ir.Assert(driver != nil, "dithering needs driver uniforms")

	outputs := GatherFragmentOutputs(tree)
	if len(outputs) == 0 {
		return nil
	}
	control := driver.DitherControl
	if specConsts != nil && specConsts.Dither() != nil {
		control = specConsts.Dither
	}
	fragCoord := tree.Symbols.FindBuiltIn("gl_FragCoord", tree.Version)
	ir.Assert(fragCoord != nil, "gl_FragCoord is not available")

	st := tree.Symbols
	var body []ir.Node

	matrixType := uvecType(1).WithArraySizes(4)
	matrix := st.DeclareInternal(st.UniqueName("ANGLEDitherMatrix"), matrixType.WithQualifier(ir.QualConst))
	rows := make([]ir.Expr, len(bayerRows))
	for i, r := range bayerRows {
		rows[i] = uconst(r)
	}
	body = append(body, ir.CreateTempInitDeclaration(matrix, construct(matrixType, rows...)))

	coord, decl := temp(st, uvecType(2),
		ir.NewBinary(ir.OpBitwiseAnd, construct(uvecType(2), swizzle(sym(fragCoord), 0, 1)), uconst(3)))
	body = append(body, decl)

	row := ir.NewIndexIndirect(sym(matrix), swizzle(sym(coord), 1))
	shift := mul(swizzle(sym(coord), 0), uconst(4))
	bayer, decl := temp(st, uvecType(1),
		ir.NewBinary(ir.OpBitwiseAnd, ir.NewBinary(ir.OpBitShiftRight, row, shift), uconst(0xF)))
	body = append(body, decl)

	// (bayer + 0.5) / 16 - 0.5
	dither, decl := temp(st, vecType(1), sub(mul(construct(vecType(1), sym(bayer)), fconst(1.0/16)), fconst(15.0/32)))
	body = append(body, decl)

	emitted := 0
	for _, out := range outputs {
		t := out.Var.Type
		if t.Basic != ir.BasicFloat || t.IsMatrix() {
			continue
		}
		n := int(t.PrimarySize)
		for i := 0; i < out.Elements(); i++ {
			loc := out.Location + i
			if loc >= ir.MaxDrawBuffers {
				break
			}
			mode := ir.NewBinary(ir.OpBitwiseAnd,
				ir.NewBinary(ir.OpBitShiftRight, control(), uconst(uint32(2*loc))), uconst(3))
			cases := ir.NewBlock()
			for _, m := range []uint32{DitherRGBA4444, DitherRGBA5551, DitherRGB565} {
				scale := ditherScales[m]
				cases.Stmts = append(cases.Stmts,
					ir.NewCase(uconst(m)),
					ir.NewBinary(ir.OpAddAssign, out.element(i), mul(sym(dither), vecConst(scale[:n]...))),
					brk(),
				)
			}
			body = append(body, ir.NewSwitch(mode, cases))
			emitted++
		}
	}

	guard := ifThen(ir.NewBinary(ir.OpNotEqual, control(), uconst(0)), body...)
	diag.Logger().Debug("emulate: dithering", "outputs", emitted)
	return RunAtTheEndOfShader(tree, ir.NewBlock(guard))
}
