// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package collect

import (
	"reflect"
	"strings"
	"testing"

	"github.com/gogpu/essl/gl"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/sh"
)

func voidType() *ir.Type { return ir.NewScalarType(ir.BasicVoid, ir.PrecisionUndefined, ir.QualTemporary) }

// newTree returns a tree with an empty main appended after decls.
func newTree(t *testing.T, shader ir.ShaderType, version int, build func(st *ir.SymbolTable) []ir.Node) (*ir.Tree, *ir.Block) {
	t.Helper()
	tree := ir.NewTree(shader, ir.SpecGLES3, version)
	for _, n := range build(tree.Symbols) {
		if err := tree.AppendStatement(n); err != nil {
			t.Fatal(err)
		}
	}
	body := ir.NewBlock()
	mainFn := tree.Symbols.DeclareFunction("main", ir.SymbolUserDefined, voidType())
	if err := tree.AppendStatement(ir.NewFunctionDefinition(mainFn, body)); err != nil {
		t.Fatal(err)
	}
	return tree, body
}

func TestCollectCategories(t *testing.T) {
	var color *ir.Variable
	tree, body := newTree(t, ir.ShaderVertex, 300, func(st *ir.SymbolTable) []ir.Node {
		pos := st.DeclareUser("pos", ir.NewVectorType(ir.BasicFloat, 4, ir.PrecisionHigh, ir.QualVertexIn))
		mvp := st.DeclareUser("mvp", ir.NewMatrixType(4, 4, ir.PrecisionHigh, ir.QualUniform))
		color = st.DeclareUser("color", ir.NewVectorType(ir.BasicFloat, 3, ir.PrecisionMedium, ir.QualFlatOut))
		return []ir.Node{
			ir.NewDeclaration(ir.NewSymbol(pos)),
			ir.NewDeclaration(ir.NewSymbol(mvp)),
			ir.NewDeclaration(ir.NewSymbol(color)),
		}
	})
	body.Stmts = append(body.Stmts, ir.NewAssign(ir.NewSymbol(color), ir.CreateZeroNode(color.Type)))

	vars := Collect(tree, Options{})
	if len(vars.Attributes) != 1 || vars.Attributes[0].Name != "pos" {
		t.Fatalf("Attributes = %+v", vars.Attributes)
	}
	if vars.Attributes[0].StaticUse {
		t.Error("unreferenced attribute marked statically used")
	}
	if len(vars.Uniforms) != 1 || vars.Uniforms[0].Type != gl.FloatMat4 || vars.Uniforms[0].Precision != gl.HighFloat {
		t.Fatalf("Uniforms = %+v", vars.Uniforms)
	}
	if vars.Uniforms[0].MappedName != "_umvp" {
		t.Errorf("MappedName = %q, want _umvp", vars.Uniforms[0].MappedName)
	}
	if len(vars.OutputVaryings) != 1 {
		t.Fatalf("OutputVaryings = %+v", vars.OutputVaryings)
	}
	out := vars.OutputVaryings[0]
	if !out.StaticUse || !out.Active {
		t.Error("referenced varying not marked used")
	}
	if out.Interpolation != sh.InterpolationFlat {
		t.Errorf("Interpolation = %v, want flat", out.Interpolation)
	}
	if len(vars.InputVaryings) != 0 || len(vars.OutputVariables) != 0 {
		t.Errorf("unexpected entries: in=%v out=%v", vars.InputVaryings, vars.OutputVariables)
	}
}

func TestCollectFragCoordOnce(t *testing.T) {
	tree, body := newTree(t, ir.ShaderFragment, 300, func(*ir.SymbolTable) []ir.Node { return nil })
	fragCoord := tree.Symbols.FindBuiltIn("gl_FragCoord", 300)
	if fragCoord == nil {
		t.Fatal("gl_FragCoord missing")
	}
	for range 3 {
		body.Stmts = append(body.Stmts, ir.CreateSwizzle(ir.NewSymbol(fragCoord), 0))
	}

	vars := Collect(tree, Options{})
	if len(vars.InputVaryings) != 1 {
		t.Fatalf("InputVaryings = %+v, want one gl_FragCoord", vars.InputVaryings)
	}
	v := vars.InputVaryings[0]
	if v.Name != "gl_FragCoord" || v.MappedName != "gl_FragCoord" || !v.StaticUse || v.Type != gl.FloatVec4 {
		t.Errorf("gl_FragCoord = %+v", v)
	}
}

func TestCollectStructUniformExpansion(t *testing.T) {
	tree, _ := newTree(t, ir.ShaderFragment, 300, func(st *ir.SymbolTable) []ir.Node {
		s := st.DeclareStruct("S", ir.SymbolUserDefined,
			&ir.Field{Name: "x", Type: ir.NewScalarType(ir.BasicFloat, ir.PrecisionHigh, ir.QualTemporary)},
			&ir.Field{Name: "v", Type: ir.NewVectorType(ir.BasicFloat, 2, ir.PrecisionHigh, ir.QualTemporary).WithArraySizes(3)},
		)
		u := st.DeclareUser("s", ir.NewStructType(s, ir.QualUniform).WithArraySizes(2))
		return []ir.Node{ir.NewDeclaration(ir.NewSymbol(u))}
	})

	vars := Collect(tree, Options{})
	if len(vars.Uniforms) != 1 || vars.Uniforms[0].StructOrBlockName != "S" || len(vars.Uniforms[0].Fields) != 2 {
		t.Fatalf("Uniforms = %+v", vars.Uniforms)
	}
	var names []string
	for _, v := range vars.ExpandedUniforms() {
		names = append(names, v.Name)
	}
	want := []string{"s[0].x", "s[0].v[0]", "s[1].x", "s[1].v[0]"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("expanded names = %v, want %v", names, want)
	}
}

func TestCollectUniformBlock(t *testing.T) {
	var block *ir.Variable
	tree, body := newTree(t, ir.ShaderFragment, 300, func(st *ir.SymbolTable) []ir.Node {
		rowMajorMat := ir.NewMatrixType(3, 3, ir.PrecisionHigh, ir.QualTemporary)
		colMajorMat := ir.NewMatrixType(4, 4, ir.PrecisionHigh, ir.QualTemporary)
		colMajorMat.Layout.MatrixPacking = ir.MatrixPackingColumnMajor
		b := st.DeclareInterfaceBlock("Lights", ir.SymbolUserDefined, ir.BlockStorageStd140,
			&ir.Field{Name: "color", Type: ir.NewVectorType(ir.BasicFloat, 4, ir.PrecisionMedium, ir.QualTemporary)},
			&ir.Field{Name: "normal", Type: rowMajorMat},
			&ir.Field{Name: "model", Type: colMajorMat},
		)
		b.MatrixPacking = ir.MatrixPackingRowMajor
		b.Binding = 2
		block = st.DeclareUser("", ir.NewBlockType(b, ir.QualUniform))
		return []ir.Node{ir.NewDeclaration(ir.NewSymbol(block))}
	})
	body.Stmts = append(body.Stmts, ir.NewFieldAccess(ir.NewSymbol(block), 0))

	vars := Collect(tree, Options{})
	if len(vars.UniformBlocks) != 1 || len(vars.Uniforms) != 0 {
		t.Fatalf("blocks = %+v, uniforms = %+v", vars.UniformBlocks, vars.Uniforms)
	}
	b := vars.UniformBlocks[0]
	if b.Name != "Lights" || b.InstanceName != "" || b.Layout != sh.BlockLayoutStandard || b.Binding != 2 {
		t.Errorf("block = %+v", b)
	}
	if !b.StaticUse || !b.Active {
		t.Error("block not marked used")
	}
	if !b.Fields[0].StaticUse || b.Fields[1].StaticUse || b.Fields[2].StaticUse {
		t.Errorf("field static use = %v %v %v", b.Fields[0].StaticUse, b.Fields[1].StaticUse, b.Fields[2].StaticUse)
	}
	if !b.Fields[1].IsRowMajorLayout || b.Fields[2].IsRowMajorLayout {
		t.Errorf("row-major = %v %v, want true false", b.Fields[1].IsRowMajorLayout, b.Fields[2].IsRowMajorLayout)
	}
}

func TestCollectStorageBlockDefaultsToShared(t *testing.T) {
	tree, _ := newTree(t, ir.ShaderCompute, 310, func(st *ir.SymbolTable) []ir.Node {
		b := st.DeclareInterfaceBlock("Data", ir.SymbolUserDefined, ir.BlockStorageUnspecified,
			&ir.Field{Name: "values", Type: ir.NewScalarType(ir.BasicUInt, ir.PrecisionHigh, ir.QualTemporary).WithArraySizes(4)},
		)
		v := st.DeclareUser("data", ir.NewBlockType(b, ir.QualBuffer))
		return []ir.Node{ir.NewDeclaration(ir.NewSymbol(v))}
	})

	vars := Collect(tree, Options{})
	if len(vars.ShaderStorageBlocks) != 1 {
		t.Fatalf("ShaderStorageBlocks = %+v", vars.ShaderStorageBlocks)
	}
	b := vars.ShaderStorageBlocks[0]
	if b.Layout != sh.BlockLayoutShared || b.BlockType != sh.BlockTypeBuffer || b.InstanceName != "data" {
		t.Errorf("block = %+v", b)
	}
	if b.StaticUse {
		t.Error("unreferenced block marked used")
	}
}

func TestCollectDeterministic(t *testing.T) {
	build := func(st *ir.SymbolTable) []ir.Node {
		var nodes []ir.Node
		for _, name := range []string{"c", "a", "b"} {
			v := st.DeclareUser(name, ir.NewScalarType(ir.BasicFloat, ir.PrecisionMedium, ir.QualUniform))
			nodes = append(nodes, ir.NewDeclaration(ir.NewSymbol(v)))
		}
		return nodes
	}
	tree, _ := newTree(t, ir.ShaderFragment, 300, build)
	first := Collect(tree, Options{HashFunction: FNVHash})
	second := Collect(tree, Options{HashFunction: FNVHash})
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two collections of the same tree differ")
	}
	if first.Uniforms[0].Name != "c" || first.Uniforms[2].Name != "b" {
		t.Errorf("uniform order = %v", first.Uniforms)
	}
}

func TestHashName(t *testing.T) {
	tests := []struct {
		name string
		kind ir.SymbolKind
		hash HashFunc
		want string
	}{
		{"color", ir.SymbolUserDefined, nil, "_ucolor"},
		{"gl_FragCoord", ir.SymbolBuiltIn, nil, "gl_FragCoord"},
		{"_temp4", ir.SymbolInternal, nil, "_temp4"},
		{"color", ir.SymbolUserDefined, func(string) uint64 { return 0xbeef }, "webgl_beef"},
		{"", ir.SymbolEmpty, nil, ""},
	}
	for _, tt := range tests {
		if got := HashName(tt.name, tt.kind, tt.hash); got != tt.want {
			t.Errorf("HashName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
	if got := HashName("color", ir.SymbolUserDefined, FNVHash); !strings.HasPrefix(got, HashedNamePrefix) {
		t.Errorf("FNV mapped name = %q", got)
	}
}
