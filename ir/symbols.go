// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "strconv"

// SymbolID uniquely identifies a symbol within one symbol table.
type SymbolID uint32

// SymbolKind tells where a symbol came from.
type SymbolKind uint8

const (
	// SymbolUserDefined symbols are declared in the shader source.
	SymbolUserDefined SymbolKind = iota
	// SymbolBuiltIn symbols are provided by the language.
	SymbolBuiltIn
	// SymbolInternal symbols are introduced by the translator.
	SymbolInternal
	// SymbolEmpty symbols are nameless, such as unnamed parameters.
	SymbolEmpty
)

func (k SymbolKind) String() string {
	return [...]string{"user", "builtin", "internal", "empty"}[k]
}

// Variable is a declared variable, parameter or block instance.
type Variable struct {
	ID   SymbolID
	Name string
	Type *Type
	Kind SymbolKind
}

// IsBuiltIn reports whether v is a language built-in.
func (v *Variable) IsBuiltIn() bool { return v.Kind == SymbolBuiltIn }

// IsInternal reports whether v was introduced by the translator.
func (v *Variable) IsInternal() bool { return v.Kind == SymbolInternal }

// Function is a user, internal or built-in function.
type Function struct {
	ID         SymbolID
	Name       string
	Kind       SymbolKind
	Params     []*Variable
	ReturnType *Type
	// Op is set for built-in functions.
	Op Op
}

// IsMain reports whether f is the shader entry point.
func (f *Function) IsMain() bool {
	return f.Name == "main" && f.Kind == SymbolUserDefined
}

// ShaderType is the pipeline stage of a shader.
type ShaderType uint8

const (
	ShaderVertex ShaderType = iota
	ShaderFragment
	ShaderCompute
)

func (s ShaderType) String() string {
	return [...]string{"vertex", "fragment", "compute"}[s]
}

// anyStage marks built-ins available in every stage.
const anyStage ShaderType = 0xff

type builtInVariable struct {
	v          *Variable
	stage      ShaderType
	minVersion int
	maxVersion int
}

type symbolUsage struct {
	read, written bool
}

// SymbolTable owns symbol identity for one tree: it hands out IDs, keeps
// the built-in variables and global declarations, and records static use.
type SymbolTable struct {
	shaderType ShaderType
	nextID     SymbolID
	builtIns   map[string]builtInVariable
	globals    map[string]*Variable
	functions  map[string]*Function
	structs    map[string]*Structure
	usage      map[SymbolID]*symbolUsage

	invariant            map[string]bool
	allVaryingsInvariant bool
}

// NewSymbolTable returns a table holding the built-ins of shaderType.
func NewSymbolTable(shaderType ShaderType) *SymbolTable {
	s := &SymbolTable{
		shaderType: shaderType,
		builtIns:   make(map[string]builtInVariable),
		globals:    make(map[string]*Variable),
		functions:  make(map[string]*Function),
		structs:    make(map[string]*Structure),
		usage:      make(map[SymbolID]*symbolUsage),
		invariant:  make(map[string]bool),
	}
	s.registerBuiltIns()
	return s
}

// NewID returns a fresh symbol ID.
func (s *SymbolTable) NewID() SymbolID {
	s.nextID++
	return s.nextID
}

func (s *SymbolTable) addBuiltIn(name string, t *Type, stage ShaderType, minVersion, maxVersion int) {
	s.builtIns[name] = builtInVariable{
		v:          &Variable{ID: s.NewID(), Name: name, Type: t, Kind: SymbolBuiltIn},
		stage:      stage,
		minVersion: minVersion,
		maxVersion: maxVersion,
	}
}

// MaxDrawBuffers is the size of gl_FragData.
const MaxDrawBuffers = 8

func (s *SymbolTable) registerBuiltIns() {
	const unbounded = 1 << 30
	vec := func(n int, p Precision, q Qualifier) *Type { return NewVectorType(BasicFloat, n, p, q) }

	s.addBuiltIn("gl_FragCoord", vec(4, PrecisionMedium, QualFragCoord), ShaderFragment, 100, unbounded)
	s.addBuiltIn("gl_FrontFacing", NewScalarType(BasicBool, PrecisionUndefined, QualFrontFacing), ShaderFragment, 100, unbounded)
	s.addBuiltIn("gl_PointCoord", vec(2, PrecisionMedium, QualPointCoord), ShaderFragment, 100, unbounded)
	s.addBuiltIn("gl_FragColor", vec(4, PrecisionMedium, QualFragColor), ShaderFragment, 100, 100)
	s.addBuiltIn("gl_FragData", vec(4, PrecisionMedium, QualFragData).WithArraySizes(MaxDrawBuffers), ShaderFragment, 100, 100)
	s.addBuiltIn("gl_FragDepth", NewScalarType(BasicFloat, PrecisionHigh, QualFragDepth), ShaderFragment, 300, unbounded)
	s.addBuiltIn("gl_Position", vec(4, PrecisionHigh, QualPosition), ShaderVertex, 100, unbounded)
	s.addBuiltIn("gl_PointSize", NewScalarType(BasicFloat, PrecisionMedium, QualPointSize), ShaderVertex, 100, unbounded)
	s.addBuiltIn("gl_VertexID", NewScalarType(BasicInt, PrecisionHigh, QualVertexID), ShaderVertex, 300, unbounded)
	s.addBuiltIn("gl_InstanceID", NewScalarType(BasicInt, PrecisionHigh, QualInstanceID), ShaderVertex, 300, unbounded)

	depthRange := &Structure{ID: s.NewID(), Name: "gl_DepthRangeParameters", Kind: SymbolBuiltIn}
	for _, name := range []string{"near", "far", "diff"} {
		depthRange.Fields = append(depthRange.Fields, &Field{
			Name: name,
			Type: NewScalarType(BasicFloat, PrecisionHigh, QualTemporary),
		})
	}
	s.addBuiltIn("gl_DepthRange", NewStructType(depthRange, QualUniform), anyStage, 100, unbounded)
}

// FindBuiltIn returns the built-in variable called name if it exists for
// this table's shader type at the given language version.
func (s *SymbolTable) FindBuiltIn(name string, version int) *Variable {
	b, ok := s.builtIns[name]
	if !ok {
		return nil
	}
	if b.stage != anyStage && b.stage != s.shaderType {
		return nil
	}
	if version < b.minVersion || version > b.maxVersion {
		return nil
	}
	return b.v
}

// FindGlobal returns the global variable called name.
func (s *SymbolTable) FindGlobal(name string) *Variable {
	return s.globals[name]
}

// FindFunction returns the user or internal function called name.
func (s *SymbolTable) FindFunction(name string) *Function {
	return s.functions[name]
}

// FindStruct returns the struct type called name.
func (s *SymbolTable) FindStruct(name string) *Structure {
	return s.structs[name]
}

func (s *SymbolTable) declare(name string, t *Type, kind SymbolKind) *Variable {
	v := &Variable{ID: s.NewID(), Name: name, Type: t, Kind: kind}
	if name != "" && t.Qualifier != QualTemporary && !t.Qualifier.IsParam() {
		s.globals[name] = v
	}
	return v
}

// DeclareUser declares a variable written in the shader source. Variables
// that are not temporaries or parameters become visible to FindGlobal.
func (s *SymbolTable) DeclareUser(name string, t *Type) *Variable {
	kind := SymbolUserDefined
	if name == "" {
		kind = SymbolEmpty
	}
	return s.declare(name, t, kind)
}

// DeclareInternal declares a translator-introduced variable.
func (s *SymbolTable) DeclareInternal(name string, t *Type) *Variable {
	return s.declare(name, t, SymbolInternal)
}

// DeclareStruct registers a struct type.
func (s *SymbolTable) DeclareStruct(name string, kind SymbolKind, fields ...*Field) *Structure {
	st := &Structure{ID: s.NewID(), Name: name, Kind: kind, Fields: fields}
	if name != "" {
		s.structs[name] = st
	}
	return st
}

// DeclareInterfaceBlock registers an interface block type.
func (s *SymbolTable) DeclareInterfaceBlock(name string, kind SymbolKind, storage BlockStorage, fields ...*Field) *InterfaceBlockType {
	return &InterfaceBlockType{
		ID:      s.NewID(),
		Name:    name,
		Kind:    kind,
		Storage: storage,
		Binding: -1,
		Fields:  fields,
	}
}

// DeclareFunction registers a user or internal function.
func (s *SymbolTable) DeclareFunction(name string, kind SymbolKind, ret *Type, params ...*Variable) *Function {
	f := &Function{ID: s.NewID(), Name: name, Kind: kind, Params: params, ReturnType: ret}
	s.functions[name] = f
	return f
}

// UniqueName returns base with a suffix that no global or function of this
// table uses yet.
func (s *SymbolTable) UniqueName(base string) string {
	name := base
	for i := 1; s.globals[name] != nil || s.functions[name] != nil; i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	return name
}

func (s *SymbolTable) usageOf(v *Variable) *symbolUsage {
	u := s.usage[v.ID]
	if u == nil {
		u = &symbolUsage{}
		s.usage[v.ID] = u
	}
	return u
}

// MarkStaticRead records that v is read somewhere in the shader.
func (s *SymbolTable) MarkStaticRead(v *Variable) { s.usageOf(v).read = true }

// MarkStaticWrite records that v is written somewhere in the shader.
func (s *SymbolTable) MarkStaticWrite(v *Variable) { s.usageOf(v).written = true }

// IsStaticallyRead reports whether v was marked read.
func (s *SymbolTable) IsStaticallyRead(v *Variable) bool {
	u := s.usage[v.ID]
	return u != nil && u.read
}

// IsStaticallyWritten reports whether v was marked written.
func (s *SymbolTable) IsStaticallyWritten(v *Variable) bool {
	u := s.usage[v.ID]
	return u != nil && u.written
}

// IsStaticallyUsed reports whether v was marked read or written.
func (s *SymbolTable) IsStaticallyUsed(v *Variable) bool {
	u := s.usage[v.ID]
	return u != nil && (u.read || u.written)
}

// SetInvariant records an "invariant name;" redeclaration.
func (s *SymbolTable) SetInvariant(name string) { s.invariant[name] = true }

// SetAllVaryingsInvariant records "#pragma STDGL invariant(all)".
func (s *SymbolTable) SetAllVaryingsInvariant(on bool) { s.allVaryingsInvariant = on }

// IsVaryingInvariant reports whether the output varying called name is
// invariant through a redeclaration or the global pragma.
func (s *SymbolTable) IsVaryingInvariant(name string) bool {
	return s.allVaryingsInvariant || s.invariant[name]
}
