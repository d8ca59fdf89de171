// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emulate

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/essl/gl"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/sh"
)

// fragmentTree returns an ES 3.00 fragment tree declaring a vec4 output per
// location in locs (-1 leaves the location unset) and a main writing zero
// to each of them.
func fragmentTree(t *testing.T, locs ...int) (*ir.Tree, []*ir.Variable) {
	t.Helper()
	tree := ir.NewTree(ir.ShaderFragment, ir.SpecGLES3, 300)
	st := tree.Symbols
	var outs []*ir.Variable
	for i, loc := range locs {
		typ := ir.NewVectorType(ir.BasicFloat, 4, ir.PrecisionMedium, ir.QualFragmentOut)
		typ.Layout.Location = loc
		v := st.DeclareUser("color"+string(rune('0'+i)), typ)
		outs = append(outs, v)
		if err := tree.AppendStatement(ir.NewDeclaration(ir.NewSymbol(v))); err != nil {
			t.Fatal(err)
		}
	}
	body := ir.NewBlock()
	for _, v := range outs {
		body.Stmts = append(body.Stmts, ir.NewAssign(ir.NewSymbol(v), ir.CreateZeroNode(vecType(4))))
	}
	mainFn := st.DeclareFunction("main", ir.SymbolUserDefined, voidType())
	if err := tree.AppendStatement(ir.NewFunctionDefinition(mainFn, body)); err != nil {
		t.Fatal(err)
	}
	return tree, outs
}

func mustDriver(t *testing.T, tree *ir.Tree) *DriverUniformBlock {
	t.Helper()
	d, err := NewDriverUniformBlock(tree)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// lastStatement returns the final statement of main.
func lastStatement(t *testing.T, tree *ir.Tree) ir.Node {
	t.Helper()
	main := tree.Main()
	if main == nil || len(main.Body.Stmts) == 0 {
		t.Fatal("main is missing or empty")
	}
	return main.Body.Stmts[len(main.Body.Stmts)-1]
}

// endGuard returns the guard the rewriters append to main.
func endGuard(t *testing.T, tree *ir.Tree) *ir.IfElse {
	t.Helper()
	block, ok := lastStatement(t, tree).(*ir.Block)
	if !ok || len(block.Stmts) != 1 {
		t.Fatalf("last statement of main = %T, want the appended block", lastStatement(t, tree))
	}
	guard, ok := block.Stmts[0].(*ir.IfElse)
	if !ok {
		t.Fatalf("appended code = %T, want *ir.IfElse", block.Stmts[0])
	}
	return guard
}

func countNodes[T ir.Node](n ir.Node, keep func(T) bool) int {
	count := 0
	var visit func(ir.Node)
	visit = func(n ir.Node) {
		if n == nil {
			return
		}
		if v, ok := n.(T); ok && (keep == nil || keep(v)) {
			count++
		}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(n)
	return count
}

func definedFunction(tree *ir.Tree, name string) *ir.FunctionDefinition {
	for _, fd := range tree.Functions() {
		if fd.Function().Name == name {
			return fd
		}
	}
	return nil
}

func TestDriverUniformBlockLayout(t *testing.T) {
	tree, _ := fragmentTree(t, 0)
	d := mustDriver(t, tree)

	want := map[string]int{
		"viewport":              0,
		"ditherControl":         16,
		"advancedBlendEquation": 20,
		"logicOp":               24,
		"logicOpChannelWidths":  28,
	}
	for field, off := range want {
		if got := d.Layout().Lookup(DriverUniformBlockName + "." + field).Offset; got != off {
			t.Errorf("%s offset = %d, want %d", field, got, off)
		}
	}
	if d.Size() != 32 {
		t.Errorf("Size = %d, want 32", d.Size())
	}
	if _, ok := tree.Root.Stmts[0].(*ir.Declaration); !ok {
		t.Errorf("first root statement = %T, want the block declaration", tree.Root.Stmts[0])
	}

	ib := d.InterfaceBlock()
	if ib.Layout != sh.BlockLayoutStandard || len(ib.Fields) != len(want) || !ib.StaticUse {
		t.Errorf("InterfaceBlock = %+v", ib)
	}
}

func TestDriverUniformBlockPack(t *testing.T) {
	tree, _ := fragmentTree(t, 0)
	d := mustDriver(t, tree)
	state := DriverState{
		Outputs:       []OutputFormat{{GLFormat: gl.RGBA4}},
		Dither:        true,
		BlendEquation: gl.BlendScreen,
		LogicOp:       gl.LogicOpXor,
		Viewport:      [4]float32{0, 0, 640, 480},
	}
	buf := d.Pack(state)
	if len(buf) != 32 {
		t.Fatalf("len(Pack) = %d, want 32", len(buf))
	}
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(buf[off:]) }
	if got := math.Float32frombits(u32(8)); got != 640 {
		t.Errorf("viewport.z = %v, want 640", got)
	}
	if got := u32(16); got != DitherRGBA4444 {
		t.Errorf("ditherControl = %d, want %d", got, DitherRGBA4444)
	}
	if got := u32(20); got != uint32(gl.BlendScreen) {
		t.Errorf("advancedBlendEquation = %d", got)
	}
	if got := u32(24); got != uint32(gl.LogicOpXor) {
		t.Errorf("logicOp = %d", got)
	}
	if got := u32(28); got != 0x04040404 {
		t.Errorf("logicOpChannelWidths = %#x, want 0x04040404", got)
	}
}

func TestDriverStatePacking(t *testing.T) {
	outputs := []OutputFormat{
		{GLFormat: gl.RGBA4},
		{GLFormat: gl.RGB565},
		{Format: gputypes.TextureFormatRGBA8Unorm},
		{GLFormat: gl.RGB5A1},
	}
	tests := []struct {
		name   string
		state  DriverState
		dither uint32
		widths uint32
	}{
		{"disabled", DriverState{Outputs: outputs}, 0, 0x04040404},
		{"enabled", DriverState{Outputs: outputs, Dither: true}, 1 | 3<<2 | 0<<4 | 2<<6, 0x04040404},
		{"rgb5a1", DriverState{Outputs: []OutputFormat{{GLFormat: gl.RGB5A1}}}, 0, 0x01050505},
		{"rgb565", DriverState{Outputs: []OutputFormat{{GLFormat: gl.RGB565}}}, 0, 0x00050605},
		{"bgra8", DriverState{Outputs: []OutputFormat{{Format: gputypes.TextureFormatBGRA8Unorm}}}, 0, 0x08080808},
		{"none", DriverState{Dither: true}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.DitherControl(); got != tt.dither {
				t.Errorf("DitherControl = %#x, want %#x", got, tt.dither)
			}
			if got := tt.state.LogicOpChannelWidths(); got != tt.widths {
				t.Errorf("LogicOpChannelWidths = %#x, want %#x", got, tt.widths)
			}
		})
	}
}

func TestRunAtTheEndOfShaderAppends(t *testing.T) {
	tree, _ := fragmentTree(t, 0)
	code := ir.NewBlock()
	if err := RunAtTheEndOfShader(tree, code); err != nil {
		t.Fatal(err)
	}
	if lastStatement(t, tree) != ir.Node(code) {
		t.Error("code is not the last statement of main")
	}
	if len(tree.Functions()) != 1 {
		t.Errorf("functions = %d, want main only", len(tree.Functions()))
	}
}

func TestRunAtTheEndOfShaderWrapsEarlyReturn(t *testing.T) {
	tree, _ := fragmentTree(t, 0)
	main := tree.Main()
	main.Body.Stmts = append([]ir.Node{
		ifThen(ir.CreateBoolNode(true), ir.NewBranch(ir.BranchReturn, nil)),
	}, main.Body.Stmts...)

	code := ir.NewBlock()
	if err := RunAtTheEndOfShader(tree, code); err != nil {
		t.Fatal(err)
	}
	fns := tree.Functions()
	if len(fns) != 2 || !strings.HasPrefix(fns[0].Function().Name, "ANGLE_main") {
		t.Fatalf("functions = %d, want the wrapped body before main", len(fns))
	}
	body := tree.Main().Body.Stmts
	if len(body) != 2 {
		t.Fatalf("main has %d statements, want call and code", len(body))
	}
	if call, ok := body[0].(*ir.Aggregate); !ok || call.Fn != fns[0].Function() {
		t.Errorf("first statement = %T, want a call of the wrapped body", body[0])
	}
	if body[1] != ir.Node(code) {
		t.Error("code does not follow the call")
	}
	if ir.ContainsReturn(tree.Main().Body) {
		t.Error("main still returns early")
	}
}

func TestRunAtTheEndOfShaderErrors(t *testing.T) {
	tree := ir.NewTree(ir.ShaderFragment, ir.SpecGLES3, 300)
	if err := RunAtTheEndOfShader(tree, ir.NewBlock()); !errors.Is(err, ErrNoMain) {
		t.Errorf("no main: err = %v, want ErrNoMain", err)
	}

	frozen, _ := fragmentTree(t, 0)
	frozen.Freeze()
	if err := RunAtTheEndOfShader(frozen, ir.NewBlock()); !errors.Is(err, ir.ErrTreeFrozen) {
		t.Errorf("frozen: err = %v, want ErrTreeFrozen", err)
	}

	invalid, _ := fragmentTree(t, 0)
	undeclared := invalid.Symbols.DeclareInternal("undeclared", vecType(1))
	code := ir.NewBlock(ir.NewAssign(ir.NewSymbol(undeclared), fconst(1)))
	if err := RunAtTheEndOfShader(invalid, code); !errors.Is(err, ErrInvalidTree) {
		t.Errorf("invalid: err = %v, want ErrInvalidTree", err)
	}
}

func TestGatherFragmentOutputs(t *testing.T) {
	tree, outs := fragmentTree(t, 2, -1)
	got := GatherFragmentOutputs(tree)
	if len(got) != 2 {
		t.Fatalf("outputs = %d, want 2", len(got))
	}
	if got[0].Var != outs[0] || got[0].Location != 2 {
		t.Errorf("outputs[0] = %s@%d", got[0].Var.Name, got[0].Location)
	}
	if got[1].Var != outs[1] || got[1].Location != 1 {
		t.Errorf("outputs[1] = %s@%d, want location by position", got[1].Var.Name, got[1].Location)
	}
}

func TestGatherFragmentOutputsFragColor(t *testing.T) {
	tree := ir.NewTree(ir.ShaderFragment, ir.SpecGLES2, 100)
	fragColor := tree.Symbols.FindBuiltIn("gl_FragColor", 100)
	if fragColor == nil {
		t.Fatal("gl_FragColor not found")
	}
	mainFn := tree.Symbols.DeclareFunction("main", ir.SymbolUserDefined, voidType())
	body := ir.NewBlock(ir.NewAssign(ir.NewSymbol(fragColor), ir.CreateZeroNode(vecType(4))))
	if err := tree.AppendStatement(ir.NewFunctionDefinition(mainFn, body)); err != nil {
		t.Fatal(err)
	}
	got := GatherFragmentOutputs(tree)
	if len(got) != 1 || got[0].Var != fragColor || got[0].Location != 0 {
		t.Fatalf("outputs = %+v, want gl_FragColor at 0", got)
	}
}

type constSpecConsts struct{ value uint32 }

func (c constSpecConsts) Dither() ir.Expr { return ir.CreateUIntNode(c.value) }

type noSpecConsts struct{}

func (noSpecConsts) Dither() ir.Expr { return nil }

func TestEmulateDitheringGuard(t *testing.T) {
	tests := []struct {
		name       string
		specConsts SpecConstants
		constant   bool
	}{
		{"driver uniform", nil, false},
		{"unsupported spec const", noSpecConsts{}, false},
		{"spec const", constSpecConsts{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _ := fragmentTree(t, 0, 1)
			if err := EmulateDithering(tree, tt.specConsts, mustDriver(t, tree)); err != nil {
				t.Fatal(err)
			}
			guard := endGuard(t, tree)
			cond, ok := guard.Cond.(*ir.Binary)
			if !ok || cond.Op != ir.OpNotEqual {
				t.Fatalf("guard condition = %s, want control != 0u", ir.Dump(guard.Cond))
			}
			if _, isConst := cond.Left.(*ir.Constant); isConst != tt.constant {
				t.Errorf("control is constant = %v, want %v", isConst, tt.constant)
			}
			if n := countNodes[*ir.Switch](guard, nil); n != 2 {
				t.Errorf("switches = %d, want one per output", n)
			}
			if n := countNodes[*ir.Case](guard, nil); n != 6 {
				t.Errorf("cases = %d, want three per output", n)
			}
		})
	}
}

func TestEmulateDitheringSpecConstBlock(t *testing.T) {
	tree, _ := fragmentTree(t, 0)
	spec := NewSpecConstBlock(tree)
	if err := EmulateDithering(tree, spec, mustDriver(t, tree)); err != nil {
		t.Fatal(err)
	}
	declared := spec.Declared()
	if len(declared) != 1 || declared[0].ID != SpecConstDither {
		t.Fatalf("Declared = %+v", declared)
	}
	if v := tree.Symbols.FindGlobal(declared[0].Name); v == nil || v.Type.Layout.ConstantID != SpecConstDither {
		t.Errorf("spec constant %q not declared with constant_id", declared[0].Name)
	}
}

func TestEmulateDitheringNoOutputs(t *testing.T) {
	tree, _ := fragmentTree(t)
	before := len(tree.Main().Body.Stmts)
	if err := EmulateDithering(tree, nil, mustDriver(t, tree)); err != nil {
		t.Fatal(err)
	}
	if len(tree.Main().Body.Stmts) != before {
		t.Error("main changed without outputs")
	}
}

func TestEmulateAdvancedBlendEquations(t *testing.T) {
	tests := []struct {
		name      string
		equations []gl.BlendEquation
		cases     int
		hsl       bool
	}{
		{"separable", []gl.BlendEquation{gl.BlendMultiply, gl.BlendScreen, gl.BlendAdd}, 2, false},
		{"channel helpers", []gl.BlendEquation{gl.BlendColorDodge, gl.BlendColorBurn, gl.BlendSoftLight}, 3, false},
		{"hsl", []gl.BlendEquation{gl.BlendHSLHue, gl.BlendOverlay}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, _ := fragmentTree(t, 0)
			var set gl.BlendEquationSet
			for _, eq := range tt.equations {
				set = set.Add(eq)
			}
			var uniforms []sh.ShaderVariable
			if err := EmulateAdvancedBlendEquations(tree, mustDriver(t, tree), set, &uniforms); err != nil {
				t.Fatal(err)
			}
			guard := endGuard(t, tree)
			if n := countNodes[*ir.Case](guard, nil); n != tt.cases {
				t.Errorf("cases = %d, want %d", n, tt.cases)
			}
			for _, eq := range tt.equations {
				if eq.IsAdvanced() && definedFunction(tree, "ANGLE_blend_"+eq.String()) == nil {
					t.Errorf("no helper for %s", eq)
				}
			}
			if got := definedFunction(tree, "ANGLE_blend_lum") != nil; got != tt.hsl {
				t.Errorf("HSL helpers defined = %v, want %v", got, tt.hsl)
			}
			if len(uniforms) != 1 || uniforms[0].Name != LastFragDataName {
				t.Errorf("uniforms = %+v, want %s", uniforms, LastFragDataName)
			}
		})
	}
}

func TestEmulateAdvancedBlendEquationsSkips(t *testing.T) {
	tree, _ := fragmentTree(t, 0)
	before := len(tree.Root.Stmts)
	set := gl.BlendEquationSet(0).Add(gl.BlendAdd).Add(gl.BlendMax)
	if err := EmulateAdvancedBlendEquations(tree, mustDriver(t, tree), set, nil); err != nil {
		t.Fatal(err)
	}
	if len(tree.Root.Stmts) != before+1 {
		t.Error("tree changed without advanced equations")
	}

	noOutput, _ := fragmentTree(t, 1)
	before = len(noOutput.Root.Stmts)
	if err := EmulateAdvancedBlendEquations(noOutput, mustDriver(t, noOutput), gl.AllAdvancedBlendEquations(), nil); err != nil {
		t.Fatal(err)
	}
	if len(noOutput.Root.Stmts) != before+1 {
		t.Error("tree changed without an output at location 0")
	}
}

func TestEmulateLogicOp(t *testing.T) {
	tree, _ := fragmentTree(t, 0, 1)
	var uniforms []sh.ShaderVariable
	if err := EmulateLogicOp(tree, mustDriver(t, tree), &uniforms); err != nil {
		t.Fatal(err)
	}
	fd := definedFunction(tree, LogicOpFunctionName)
	if fd == nil {
		t.Fatal("logic op helper not defined")
	}
	if n := countNodes[*ir.Case](fd.Body, nil); n != int(gl.LogicOpCount) {
		t.Errorf("helper cases = %d, want %d", n, gl.LogicOpCount)
	}
	if len(uniforms) != 2 || uniforms[0].Name != "ANGLEInputAttachment0" || uniforms[1].Name != "ANGLEInputAttachment1" {
		t.Errorf("uniforms = %+v", uniforms)
	}
	guard := endGuard(t, tree)
	calls := countNodes[*ir.Aggregate](guard, func(a *ir.Aggregate) bool { return a.Fn == fd.Function() })
	if calls != 2 {
		t.Errorf("helper calls = %d, want one per output", calls)
	}
}

func TestEmulateFrozenTree(t *testing.T) {
	tree, _ := fragmentTree(t, 0)
	d := mustDriver(t, tree)
	tree.Freeze()
	if err := EmulateDithering(tree, nil, d); !errors.Is(err, ir.ErrTreeFrozen) {
		t.Errorf("EmulateDithering err = %v", err)
	}
	if err := EmulateAdvancedBlendEquations(tree, d, gl.AllAdvancedBlendEquations(), nil); !errors.Is(err, ir.ErrTreeFrozen) {
		t.Errorf("EmulateAdvancedBlendEquations err = %v", err)
	}
	if err := EmulateLogicOp(tree, d, nil); !errors.Is(err, ir.ErrTreeFrozen) {
		t.Errorf("EmulateLogicOp err = %v", err)
	}
}
