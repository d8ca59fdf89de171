// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gogpu/essl/gl"
)

func highpFloat(q Qualifier) *Type { return NewScalarType(BasicFloat, PrecisionHigh, q) }

// fragmentTree returns a tree with "uniform highp float u;" and an empty
// main, plus the main body for tests to fill.
func fragmentTree(t *testing.T) (*Tree, *Variable, *Block) {
	t.Helper()
	tree := NewTree(ShaderFragment, SpecGLES3, 300)
	u := tree.Symbols.DeclareUser("u", highpFloat(QualUniform))
	body := NewBlock()
	mainFn := tree.Symbols.DeclareFunction("main", SymbolUserDefined, NewScalarType(BasicVoid, PrecisionUndefined, QualTemporary))
	if err := tree.AppendStatement(NewDeclaration(NewSymbol(u))); err != nil {
		t.Fatal(err)
	}
	if err := tree.AppendStatement(NewFunctionDefinition(mainFn, body)); err != nil {
		t.Fatal(err)
	}
	return tree, u, body
}

func TestTypeQueries(t *testing.T) {
	m := NewMatrixType(2, 4, PrecisionMedium, QualUniform).WithArraySizes(3, 2)
	if !m.IsMatrix() || m.IsVector() || m.IsScalar() {
		t.Fatal("mat2x4 classified wrongly")
	}
	if m.GLType() != gl.FloatMat2x4 {
		t.Errorf("GLType = %v, want mat2x4", m.GLType())
	}
	if m.GLPrecision() != gl.MediumFloat {
		t.Errorf("GLPrecision = %v, want MEDIUM_FLOAT", m.GLPrecision())
	}
	if !m.IsArrayOfArrays() || m.OutermostArraySize() != 3 || m.ArraySizeProduct() != 6 {
		t.Errorf("array sizes %v", m.ArraySizes)
	}
	elem := m.ElementType()
	if len(elem.ArraySizes) != 1 || elem.ArraySizes[0] != 2 {
		t.Errorf("ElementType sizes = %v, want [2]", elem.ArraySizes)
	}
	if len(m.ArraySizes) != 2 {
		t.Error("ElementType modified its receiver")
	}
	if got := m.String(); got != "uniform mediump mat2x4[3][2]" {
		t.Errorf("String = %q", got)
	}
	if got := NewVectorType(BasicUInt, 3, PrecisionHigh, QualTemporary).GLType(); got != gl.UnsignedVec3 {
		t.Errorf("uvec3 GLType = %v", got)
	}
	sampler := NewScalarType(BasicUSampler2D, PrecisionHigh, QualUniform)
	if !sampler.IsSampler() || !sampler.IsOpaque() || sampler.GLPrecision() != gl.HighInt {
		t.Error("usampler2D classified wrongly")
	}
	if NewScalarType(BasicBool, PrecisionUndefined, QualTemporary).CanHavePrecision() {
		t.Error("bool cannot have a precision")
	}
}

func TestHigherPrecision(t *testing.T) {
	if HigherPrecision(PrecisionLow, PrecisionHigh) != PrecisionHigh {
		t.Error("low vs high")
	}
	if HigherPrecision(PrecisionUndefined, PrecisionMedium) != PrecisionMedium {
		t.Error("undefined vs medium")
	}
}

func TestConstLiteral(t *testing.T) {
	tests := []struct {
		v    ConstValue
		want string
	}{
		{FloatValue(1), "1.0"},
		{FloatValue(0.5), "0.5"},
		{FloatValue(1e20), "1e+20"},
		{IntValue(-3), "-3"},
		{UIntValue(41600), "41600u"},
		{BoolValue(true), "true"},
	}
	for _, tt := range tests {
		if got := tt.v.Literal(); got != tt.want {
			t.Errorf("Literal(%+v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFindBuiltIn(t *testing.T) {
	frag := NewSymbolTable(ShaderFragment)
	tests := []struct {
		name    string
		version int
		found   bool
	}{
		{"gl_FragCoord", 100, true},
		{"gl_FragColor", 100, true},
		{"gl_FragColor", 300, false},
		{"gl_FragDepth", 100, false},
		{"gl_FragDepth", 300, true},
		{"gl_Position", 300, false},
		{"gl_DepthRange", 300, true},
		{"gl_Unknown", 300, false},
	}
	for _, tt := range tests {
		if got := frag.FindBuiltIn(tt.name, tt.version) != nil; got != tt.found {
			t.Errorf("FindBuiltIn(%s, %d) found = %v, want %v", tt.name, tt.version, got, tt.found)
		}
	}
	coord := frag.FindBuiltIn("gl_FragCoord", 300)
	if coord.Type.Precision != PrecisionMedium || coord.Type.Cols() != 4 || !coord.IsBuiltIn() {
		t.Errorf("gl_FragCoord = %s", coord.Type)
	}
	if vert := NewSymbolTable(ShaderVertex); vert.FindBuiltIn("gl_VertexID", 300) == nil {
		t.Error("gl_VertexID missing in vertex shaders")
	}
}

func TestStaticUse(t *testing.T) {
	st := NewSymbolTable(ShaderVertex)
	a := st.DeclareUser("a", highpFloat(QualUniform))
	b := st.DeclareUser("b", highpFloat(QualVaryingOut))
	st.MarkStaticRead(a)
	st.MarkStaticWrite(b)
	if !st.IsStaticallyUsed(a) || !st.IsStaticallyRead(a) || st.IsStaticallyWritten(a) {
		t.Error("a should be read only")
	}
	if !st.IsStaticallyUsed(b) || st.IsStaticallyRead(b) {
		t.Error("b should be written only")
	}
	c := st.DeclareUser("c", highpFloat(QualUniform))
	if st.IsStaticallyUsed(c) {
		t.Error("c is unused")
	}
	if st.FindGlobal("a") != a {
		t.Error("FindGlobal(a)")
	}
	if a.ID == b.ID || b.ID == c.ID {
		t.Error("IDs must be unique")
	}
	if st.UniqueName("a") != "a_1" || st.UniqueName("z") != "z" {
		t.Error("UniqueName")
	}
}

func TestFreeze(t *testing.T) {
	tree, _, _ := fragmentTree(t)
	tree.Freeze()
	if !tree.Frozen() {
		t.Fatal("Frozen = false after Freeze")
	}
	if err := tree.AppendStatement(NewBlock()); !errors.Is(err, ErrTreeFrozen) {
		t.Errorf("AppendStatement after Freeze: %v", err)
	}
	if err := tree.InsertStatements(0, NewBlock()); !errors.Is(err, ErrTreeFrozen) {
		t.Errorf("InsertStatements after Freeze: %v", err)
	}
}

func TestInsertStatements(t *testing.T) {
	tree, _, _ := fragmentTree(t)
	decl := CreateTempDeclaration(CreateTempVariable(tree.Symbols, highpFloat(QualGlobal)))
	if err := tree.InsertStatements(tree.FirstFunctionIndex(), decl); err != nil {
		t.Fatal(err)
	}
	if tree.Root.Stmts[1] != decl {
		t.Errorf("declaration not placed before main")
	}
	if err := tree.InsertStatements(9, decl); err == nil {
		t.Error("out of range insert accepted")
	}
}

func TestResolve(t *testing.T) {
	vec3 := NewVectorType(BasicFloat, 3, PrecisionHigh, QualUniform)
	mat3x2 := NewMatrixType(3, 2, PrecisionHigh, QualUniform)
	f := highpFloat(QualUniform)
	tests := []struct {
		name string
		got  *Type
		want string
	}{
		{"vec * float", ResolveBinary(OpMul, vec3, f), "vec3"},
		{"float * vec", ResolveBinary(OpMul, f, vec3), "vec3"},
		{"mat * vec", ResolveBinary(OpMul, mat3x2, vec3), "vec2"},
		{"vec * mat", ResolveBinary(OpMul, NewVectorType(BasicFloat, 2, PrecisionHigh, QualTemporary), mat3x2), "vec3"},
		{"float + vec", ResolveBinary(OpAdd, f, vec3), "vec3"},
		{"compare", ResolveBinary(OpLessThan, f, f), "bool"},
		{"matrix column", ResolveBinary(OpIndexDirect, mat3x2, f), "vec2"},
		{"vector component", ResolveBinary(OpIndexIndirect, vec3, f), "float"},
		{"dot", ResolveBuiltIn(OpDot, []*Type{vec3, vec3}), "float"},
		{"lessThan", ResolveBuiltIn(OpLessThanComponentWise, []*Type{vec3, vec3}), "bvec3"},
		{"floatBitsToUint", ResolveBuiltIn(OpFloatBitsToUint, []*Type{vec3}), "uvec3"},
		{"unpackUnorm4x8", ResolveBuiltIn(OpUnpackUnorm4x8, []*Type{f}), "vec4"},
		{"outerProduct", ResolveBuiltIn(OpOuterProduct, []*Type{vec3, NewVectorType(BasicFloat, 2, PrecisionHigh, QualTemporary)}), "mat2x3"},
		{"step", ResolveBuiltIn(OpStep, []*Type{f, vec3}), "vec3"},
		{"subpassLoad", ResolveBuiltIn(OpSubpassLoad, []*Type{NewScalarType(BasicSubpassInput, PrecisionHigh, QualUniform)}), "vec4"},
		{"texture usampler", ResolveBuiltIn(OpTexture, []*Type{NewScalarType(BasicUSampler2D, PrecisionHigh, QualUniform), vec3}), "uvec4"},
	}
	for _, tt := range tests {
		if got := tt.got.BaseTypeName(); got != tt.want {
			t.Errorf("%s: %s, want %s", tt.name, got, tt.want)
		}
		if tt.got.Qualifier != QualTemporary {
			t.Errorf("%s: result qualifier %v, want temporary", tt.name, tt.got.Qualifier)
		}
	}
	if p := ResolveBinary(OpIndexDirect, vec3, f).Precision; p != PrecisionHigh {
		t.Errorf("index keeps element precision, got %v", p)
	}
	if p := ResolveBinary(OpAdd, vec3, vec3).Precision; p != PrecisionUndefined {
		t.Errorf("arithmetic result precision = %v, want undefined", p)
	}
}

func TestTypeRegistry(t *testing.T) {
	r := NewTypeRegistry()
	a := r.Get(BasicFloat, 4, 1, PrecisionHigh, QualConst)
	b := r.Get(BasicFloat, 4, 1, PrecisionHigh, QualConst)
	c := r.Get(BasicFloat, 4, 1, PrecisionMedium, QualConst)
	if a != b {
		t.Error("equal shapes must be interned")
	}
	if a == c {
		t.Error("different precision must not be shared")
	}
	if r.Count() != 2 {
		t.Errorf("Count = %d, want 2", r.Count())
	}
}

func TestCreateBuiltInCall(t *testing.T) {
	_, u, _ := fragmentTree(t)
	if _, ok := CreateBuiltInCall(OpSin, NewSymbol(u)).(*Unary); !ok {
		t.Error("sin(x) should be a Unary node")
	}
	if _, ok := CreateBuiltInCall(OpDFdx, NewSymbol(u)).(*Aggregate); !ok {
		t.Error("dFdx(x) should be an Aggregate node")
	}
	if _, ok := CreateBuiltInCall(OpMax, NewSymbol(u), NewSymbol(u)).(*Aggregate); !ok {
		t.Error("max(x, y) should be an Aggregate node")
	}
	defer func() {
		if _, ok := recover().(*InternalError); !ok {
			t.Error("expected *InternalError for a non built-in op")
		}
	}()
	CreateBuiltInCall(OpAdd, NewSymbol(u))
}

func TestCreateZeroNode(t *testing.T) {
	st := NewSymbolTable(ShaderFragment)
	s := st.DeclareStruct("S", SymbolUserDefined,
		&Field{Name: "a", Type: NewVectorType(BasicFloat, 2, PrecisionHigh, QualTemporary)},
		&Field{Name: "b", Type: NewScalarType(BasicUInt, PrecisionHigh, QualTemporary)},
	)
	zero := CreateZeroNode(NewStructType(s, QualTemporary).WithArraySizes(2))
	agg, ok := zero.(*Aggregate)
	if !ok || !agg.IsConstructor() || len(agg.Args) != 2 {
		t.Fatalf("zero of S[2] = %s", Dump(zero))
	}
	inner := agg.Args[0].(*Aggregate)
	if c := inner.Args[0].(*Constant); len(c.Values) != 2 || c.Values[0].F != 0 {
		t.Errorf("zero vec2 = %+v", c.Values)
	}
	if c := inner.Args[1].(*Constant); c.Values[0].Basic != BasicUInt {
		t.Errorf("zero uint basic = %v", c.Values[0].Basic)
	}
}

func TestWalkerOrder(t *testing.T) {
	tree, u, body := fragmentTree(t)
	sum := NewBinary(OpAdd, NewSymbol(u), CreateFloatNode(1, PrecisionHigh))
	tmp := CreateTempVariable(tree.Symbols, highpFloat(QualTemporary))
	body.Stmts = append(body.Stmts, CreateTempInitDeclaration(tmp, sum))

	var events []string
	w := &Walker{Pre: true, In: true, Post: true}
	w.Binary = func(_ *Walker, v Visit, n *Binary) bool {
		events = append(events, n.Op.String()+[...]string{":pre", ":in", ":post"}[v])
		return true
	}
	w.Symbol = func(_ *Walker, n *Symbol) { events = append(events, n.Name()) }
	w.Constant = func(_ *Walker, n *Constant) { events = append(events, n.Values[0].Literal()) }
	w.Walk(body)

	want := "=:pre " + tmp.Name + " =:in +:pre u +:in 1.0 +:post =:post"
	if got := strings.Join(events, " "); got != want {
		t.Errorf("events:\n got %s\nwant %s", got, want)
	}
}

func TestWalkerSkipsChildren(t *testing.T) {
	_, u, body := fragmentTree(t)
	body.Stmts = append(body.Stmts, NewIfElse(
		NewBinary(OpLessThan, NewSymbol(u), CreateFloatNode(0, PrecisionHigh)),
		NewBlock(NewBranch(BranchDiscard, nil)),
		nil,
	))
	symbols := 0
	w := &Walker{
		IfElse: func(*Walker, Visit, *IfElse) bool { return false },
		Symbol: func(*Walker, *Symbol) { symbols++ },
	}
	w.Walk(body)
	if symbols != 0 {
		t.Errorf("visited %d symbols below a skipped node", symbols)
	}
}

func TestWalkerParentAndLValue(t *testing.T) {
	tree, u, body := fragmentTree(t)
	out := tree.Symbols.DeclareUser("o", NewVectorType(BasicFloat, 4, PrecisionHigh, QualFragmentOut))
	body.Stmts = append(body.Stmts,
		NewAssign(CreateSwizzle(NewSymbol(out), 0), NewSymbol(u)),
	)
	lvalues := map[string]bool{}
	var parents []Node
	w := &Walker{}
	w.Symbol = func(w *Walker, s *Symbol) {
		lvalues[s.Name()] = w.IsLValue(s)
		parents = append(parents, w.Parent())
		if s.Name() == "o" && w.InFunction() == nil {
			t.Error("InFunction = nil inside main")
		}
	}
	w.Walk(tree.Root)
	if !lvalues["o"] || lvalues["u"] {
		t.Errorf("lvalues = %v, want o only", lvalues)
	}
	if _, ok := parents[len(parents)-1].(*Binary); !ok {
		t.Errorf("parent of u = %T, want *Binary", parents[len(parents)-1])
	}
}

func TestContainsReturn(t *testing.T) {
	_, _, body := fragmentTree(t)
	if ContainsReturn(body) {
		t.Error("empty body has no return")
	}
	body.Stmts = append(body.Stmts, NewLoop(LoopWhile, nil, CreateBoolNode(true), nil,
		NewBlock(NewBranch(BranchReturn, nil))))
	if !ContainsReturn(body) {
		t.Error("nested return not found")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		build func(tree *Tree, u *Variable, body *Block)
		want  string
	}{
		{
			name:  "valid",
			build: func(*Tree, *Variable, *Block) {},
		},
		{
			name: "node shared",
			build: func(_ *Tree, u *Variable, body *Block) {
				s := NewSymbol(u)
				body.Stmts = append(body.Stmts, NewBinary(OpAdd, s, s))
			},
			want: "reachable more than once",
		},
		{
			name: "undeclared",
			build: func(tree *Tree, _ *Variable, body *Block) {
				v := tree.Symbols.DeclareUser("x", highpFloat(QualTemporary))
				body.Stmts = append(body.Stmts, NewAssign(NewSymbol(v), CreateFloatNode(1, PrecisionHigh)))
			},
			want: "'x' is used before it is declared",
		},
		{
			name: "local out of scope",
			build: func(tree *Tree, _ *Variable, body *Block) {
				v := tree.Symbols.DeclareUser("x", highpFloat(QualTemporary))
				body.Stmts = append(body.Stmts,
					NewBlock(CreateTempDeclaration(v)),
					NewAssign(NewSymbol(v), CreateFloatNode(1, PrecisionHigh)))
			},
			want: "'x' is used before it is declared",
		},
		{
			name: "case outside switch",
			build: func(_ *Tree, _ *Variable, body *Block) {
				body.Stmts = append(body.Stmts, NewCase(CreateIntNode(1)))
			},
			want: "case label outside a switch body",
		},
		{
			name: "break outside loop",
			build: func(_ *Tree, _ *Variable, body *Block) {
				body.Stmts = append(body.Stmts, NewBranch(BranchBreak, nil))
			},
			want: "break outside a loop or switch",
		},
		{
			name: "continue in switch",
			build: func(_ *Tree, _ *Variable, body *Block) {
				body.Stmts = append(body.Stmts, NewSwitch(CreateIntNode(0), NewBlock(
					NewCase(nil),
					NewBranch(BranchContinue, nil),
				)))
			},
			want: "continue outside a loop",
		},
		{
			name: "break in switch",
			build: func(_ *Tree, _ *Variable, body *Block) {
				body.Stmts = append(body.Stmts, NewSwitch(CreateIntNode(0), NewBlock(
					NewCase(CreateIntNode(0)),
					NewBranch(BranchBreak, nil),
				)))
			},
		},
		{
			name: "two mains",
			build: func(tree *Tree, _ *Variable, _ *Block) {
				fn := tree.Symbols.DeclareFunction("main", SymbolUserDefined, NewScalarType(BasicVoid, PrecisionUndefined, QualTemporary))
				tree.Root.Stmts = append(tree.Root.Stmts, NewFunctionDefinition(fn, NewBlock()))
			},
			want: "main is defined 2 times",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, u, body := fragmentTree(t)
			tt.build(tree, u, body)
			errs, err := Validate(tree)
			if err != nil {
				t.Fatal(err)
			}
			if tt.want == "" {
				if len(errs) != 0 {
					t.Errorf("unexpected errors: %v", errs)
				}
				return
			}
			for _, e := range errs {
				if strings.Contains(e.Error(), tt.want) {
					return
				}
			}
			t.Errorf("errors %v do not mention %q", errs, tt.want)
		})
	}
}

func TestValidateNilTree(t *testing.T) {
	if _, err := Validate(nil); err == nil {
		t.Error("Validate(nil) returned no error")
	}
}

func TestDump(t *testing.T) {
	_, u, body := fragmentTree(t)
	neg := NewUnary(OpNegative, NewSymbol(u))
	neg.SetDerivedPrecision(PrecisionHigh)
	body.Stmts = append(body.Stmts, neg)
	got := Dump(body)
	want := fmt.Sprintf("block\n  unary - (float) [highp]\n    'u' (symbol %d) (uniform highp float)\n", u.ID)
	if got != want {
		t.Errorf("Dump:\n%s\nwant:\n%s", got, want)
	}
}
