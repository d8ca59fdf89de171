// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/essl/collect"
	"github.com/gogpu/essl/emulate"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/precision"
)

func voidType() *ir.Type { return ir.NewScalarType(ir.BasicVoid, ir.PrecisionUndefined, ir.QualTemporary) }

func vec4(p ir.Precision, q ir.Qualifier) *ir.Type {
	return ir.NewVectorType(ir.BasicFloat, 4, p, q)
}

// newTree returns an ES 3.00 fragment tree with globals from build and a
// main whose body is filled by body.
func newTree(t *testing.T, build func(st *ir.SymbolTable) []ir.Node, body func() []ir.Node) *ir.Tree {
	t.Helper()
	tree := ir.NewTree(ir.ShaderFragment, ir.SpecGLES3, 300)
	for _, n := range build(tree.Symbols) {
		if err := tree.AppendStatement(n); err != nil {
			t.Fatal(err)
		}
	}
	mainFn := tree.Symbols.DeclareFunction("main", ir.SymbolUserDefined, voidType())
	if err := tree.AppendStatement(ir.NewFunctionDefinition(mainFn, ir.NewBlock(body()...))); err != nil {
		t.Fatal(err)
	}
	return tree
}

func mustWrite(t *testing.T, tree *ir.Tree, opts Options) string {
	t.Helper()
	if err := precision.Propagate(tree, precision.Options{}); err != nil {
		t.Fatal(err)
	}
	src, err := Write(tree, opts)
	if err != nil {
		t.Fatal(err)
	}
	return src
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		version Version
		want    string
	}{
		{VersionES100, "100"},
		{VersionES300, "300 es"},
		{VersionES310, "310 es"},
		{VersionES320, "320 es"},
		{Version330, "330 core"},
		{Version450, "450 core"},
		{Version{Number: 120}, "120"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.version.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDesktopVersionFor(t *testing.T) {
	tests := []struct {
		es   int
		want Version
	}{
		{100, Version{Number: 120}},
		{300, Version330},
		{310, Version430},
		{320, Version450},
	}
	for _, tt := range tests {
		if got := DesktopVersionFor(tt.es); got != tt.want {
			t.Errorf("DesktopVersionFor(%d) = %v, want %v", tt.es, got, tt.want)
		}
	}
}

func TestWriteRequiresFrozenTree(t *testing.T) {
	tree := newTree(t, func(*ir.SymbolTable) []ir.Node { return nil }, func() []ir.Node { return nil })
	if _, err := Write(tree, Options{}); !errors.Is(err, ErrNotFrozen) {
		t.Errorf("Write(unfrozen) err = %v, want ErrNotFrozen", err)
	}
	if _, err := Write(nil, Options{}); !errors.Is(err, ErrNotFrozen) {
		t.Errorf("Write(nil) err = %v, want ErrNotFrozen", err)
	}
}

func TestWriteFragmentShader(t *testing.T) {
	var tint, color *ir.Variable
	tree := newTree(t, func(st *ir.SymbolTable) []ir.Node {
		tint = st.DeclareUser("tint", vec4(ir.PrecisionHigh, ir.QualUniform))
		color = st.DeclareUser("color", vec4(ir.PrecisionMedium, ir.QualFragmentOut))
		return []ir.Node{ir.NewDeclaration(ir.NewSymbol(tint)), ir.NewDeclaration(ir.NewSymbol(color))}
	}, func() []ir.Node {
		scaled := ir.NewBinary(ir.OpMul, ir.NewSymbol(tint), ir.CreateFloatNode(2, ir.PrecisionHigh))
		return []ir.Node{ir.NewAssign(ir.NewSymbol(color), scaled)}
	})

	want := `#version 300 es

uniform highp vec4 _utint;
out mediump vec4 _ucolor;
void main()
{
    _ucolor = (_utint * 2.0);
}

`
	if got := mustWrite(t, tree, Options{}); got != want {
		t.Errorf("Write() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteHashedNames(t *testing.T) {
	var color *ir.Variable
	tree := newTree(t, func(st *ir.SymbolTable) []ir.Node {
		color = st.DeclareUser("color", vec4(ir.PrecisionMedium, ir.QualFragmentOut))
		return []ir.Node{ir.NewDeclaration(ir.NewSymbol(color))}
	}, func() []ir.Node {
		return []ir.Node{ir.NewAssign(ir.NewSymbol(color), ir.CreateZeroNode(vec4(ir.PrecisionMedium, ir.QualTemporary)))}
	})
	src := mustWrite(t, tree, Options{HashFunction: collect.FNVHash})
	want := collect.HashName("color", ir.SymbolUserDefined, collect.FNVHash)
	if !strings.HasPrefix(want, collect.HashedNamePrefix) || !strings.Contains(src, "out mediump vec4 "+want+";") {
		t.Errorf("hashed name %q missing from\n%s", want, src)
	}
	if strings.Contains(src, "_ucolor") {
		t.Error("unhashed name written")
	}
}

func TestWriteStructAndUnnamedBlock(t *testing.T) {
	var s, lights *ir.Variable
	tree := newTree(t, func(st *ir.SymbolTable) []ir.Node {
		str := st.DeclareStruct("S", ir.SymbolUserDefined,
			&ir.Field{Name: "x", Type: ir.NewScalarType(ir.BasicFloat, ir.PrecisionHigh, ir.QualTemporary)},
			&ir.Field{Name: "v", Type: ir.NewVectorType(ir.BasicFloat, 2, ir.PrecisionMedium, ir.QualTemporary).WithArraySizes(3)},
		)
		s = st.DeclareUser("s", ir.NewStructType(str, ir.QualUniform))
		block := st.DeclareInterfaceBlock("Lights", ir.SymbolUserDefined, ir.BlockStorageStd140,
			&ir.Field{Name: "tint", Type: vec4(ir.PrecisionHigh, ir.QualTemporary)},
		)
		block.Binding = 2
		lights = st.DeclareUser("", ir.NewBlockType(block, ir.QualUniform))
		return []ir.Node{ir.NewDeclaration(ir.NewSymbol(s)), ir.NewDeclaration(ir.NewSymbol(lights))}
	}, func() []ir.Node {
		x := ir.NewFieldAccess(ir.NewSymbol(s), 0)
		tint := ir.NewFieldAccess(ir.NewSymbol(lights), 0)
		local := ir.NewScalarType(ir.BasicFloat, ir.PrecisionHigh, ir.QualTemporary)
		return []ir.Node{ir.NewDeclaration(ir.NewBinary(ir.OpInitialize,
			ir.NewSymbol(&ir.Variable{ID: 999, Name: "y", Type: local}),
			ir.NewBinary(ir.OpAdd, x, ir.CreateSwizzle(tint, 3))))}
	})
	src := mustWrite(t, tree, Options{})
	for _, want := range []string{
		"struct _uS\n{\n    highp float _ux;\n    mediump vec2 _uv[3];\n};\nuniform _uS _us;\n",
		"layout(binding = 2, std140) uniform _uLights\n{\n    highp vec4 _utint;\n};\n",
		"highp float _uy = _us._ux + _utint.w;",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("missing %q in\n%s", want, src)
		}
	}
}

func TestWriteControlFlow(t *testing.T) {
	var sel *ir.Variable
	tree := newTree(t, func(st *ir.SymbolTable) []ir.Node {
		sel = st.DeclareUser("sel", ir.NewScalarType(ir.BasicUInt, ir.PrecisionHigh, ir.QualUniform))
		return []ir.Node{ir.NewDeclaration(ir.NewSymbol(sel))}
	}, func() []ir.Node {
		cases := ir.NewBlock(
			ir.NewCase(ir.CreateUIntNode(1)),
			ir.NewBranch(ir.BranchBreak, nil),
			ir.NewCase(nil),
			ir.NewBranch(ir.BranchDiscard, nil),
		)
		cond := ir.NewBinary(ir.OpNotEqual, ir.NewSymbol(sel), ir.CreateUIntNode(0))
		return []ir.Node{
			ir.NewIfElse(cond, ir.NewBlock(ir.NewSwitch(ir.NewSymbol(sel), cases)), ir.NewBlock(ir.NewBranch(ir.BranchReturn, nil))),
		}
	})
	src := mustWrite(t, tree, Options{IndentWidth: 2})
	want := `void main()
{
  if (_usel != 0u)
  {
    switch (_usel)
    {
      case 1u:
        break;
      default:
        discard;
    }
  }
  else
  {
    return;
  }
}
`
	if !strings.Contains(src, want) {
		t.Errorf("Write() =\n%s\nwant it to contain\n%s", src, want)
	}
}

func TestWriteDefaultPrecisionAndVersion(t *testing.T) {
	tree := newTree(t, func(*ir.SymbolTable) []ir.Node { return nil }, func() []ir.Node { return nil })
	tree.RequireExtension("GL_EXT_shader_framebuffer_fetch")
	src := mustWrite(t, tree, Options{Flags: WriterFlagDefaultPrecision})
	wantHead := "#version 300 es\n#extension GL_EXT_shader_framebuffer_fetch : require\nprecision highp float;\nprecision highp int;\n\n"
	if !strings.HasPrefix(src, wantHead) {
		t.Errorf("header =\n%s", src)
	}

	es100 := ir.NewTree(ir.ShaderFragment, ir.SpecGLES2, 100)
	es100.Freeze()
	src, err := Write(es100, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(src, "#version") {
		t.Errorf("ESSL 1.00 output has a version directive:\n%s", src)
	}
}

func TestWriteEmulatedDithering(t *testing.T) {
	var color *ir.Variable
	tree := newTree(t, func(st *ir.SymbolTable) []ir.Node {
		color = st.DeclareUser("color", vec4(ir.PrecisionMedium, ir.QualFragmentOut))
		return []ir.Node{ir.NewDeclaration(ir.NewSymbol(color))}
	}, func() []ir.Node {
		return []ir.Node{ir.NewAssign(ir.NewSymbol(color), ir.CreateZeroNode(vec4(ir.PrecisionMedium, ir.QualTemporary)))}
	})
	driver, err := emulate.NewDriverUniformBlock(tree)
	if err != nil {
		t.Fatal(err)
	}
	if err := emulate.EmulateDithering(tree, nil, driver); err != nil {
		t.Fatal(err)
	}
	src := mustWrite(t, tree, Options{})
	for _, want := range []string{
		"layout(std140) uniform ANGLEUniformBlock\n{\n    highp vec4 viewport;\n    highp uint ditherControl;",
		"} ANGLEUniforms;",
		"const highp uint ANGLEDitherMatrix[4] = uint[4](41600u, 28236u, 37299u, 23935u);",
		"if (ANGLEUniforms.ditherControl != 0u)",
		"switch ((ANGLEUniforms.ditherControl >> 0u) & 3u)",
		"case 3u:",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("missing %q in\n%s", want, src)
		}
	}
}
