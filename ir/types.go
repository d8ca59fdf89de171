// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/essl/gl"
)

// BasicType is the fundamental kind of a type.
type BasicType uint8

const (
	BasicVoid BasicType = iota
	BasicFloat
	BasicInt
	BasicUInt
	BasicBool
	BasicAtomicCounter
	BasicSampler2D
	BasicSampler3D
	BasicSamplerCube
	BasicSampler2DArray
	BasicSampler2DShadow
	BasicSampler2DArrayShadow
	BasicSamplerCubeShadow
	BasicISampler2D
	BasicISampler3D
	BasicISamplerCube
	BasicISampler2DArray
	BasicUSampler2D
	BasicUSampler3D
	BasicUSamplerCube
	BasicUSampler2DArray
	BasicSamplerExternalOES
	BasicSampler2DMS
	BasicISampler2DMS
	BasicUSampler2DMS
	BasicImage2D
	BasicImage3D
	BasicImageCube
	BasicImage2DArray
	BasicIImage2D
	BasicIImage3D
	BasicIImageCube
	BasicIImage2DArray
	BasicUImage2D
	BasicUImage3D
	BasicUImageCube
	BasicUImage2DArray
	BasicSubpassInput
	BasicStruct
	BasicInterfaceBlock
)

// opaqueTypes maps opaque basic types to their GL type.
var opaqueTypes = map[BasicType]gl.Enum{
	BasicAtomicCounter:        gl.UnsignedIntAtomicCounter,
	BasicSampler2D:            gl.Sampler2D,
	BasicSampler3D:            gl.Sampler3D,
	BasicSamplerCube:          gl.SamplerCube,
	BasicSampler2DArray:       gl.Sampler2DArray,
	BasicSampler2DShadow:      gl.Sampler2DShadow,
	BasicSampler2DArrayShadow: gl.Sampler2DArrayShadow,
	BasicSamplerCubeShadow:    gl.SamplerCubeShadow,
	BasicISampler2D:           gl.IntSampler2D,
	BasicISampler3D:           gl.IntSampler3D,
	BasicISamplerCube:         gl.IntSamplerCube,
	BasicISampler2DArray:      gl.IntSampler2DArray,
	BasicUSampler2D:           gl.UnsignedIntSampler2D,
	BasicUSampler3D:           gl.UnsignedIntSampler3D,
	BasicUSamplerCube:         gl.UnsignedIntSamplerCube,
	BasicUSampler2DArray:      gl.UnsignedIntSampler2DArray,
	BasicSamplerExternalOES:   gl.SamplerExternalOES,
	BasicSampler2DMS:          gl.Sampler2DMultisample,
	BasicISampler2DMS:         gl.IntSampler2DMultisample,
	BasicUSampler2DMS:         gl.UnsignedIntSampler2DMultisample,
	BasicImage2D:              gl.Image2D,
	BasicImage3D:              gl.Image3D,
	BasicImageCube:            gl.ImageCube,
	BasicImage2DArray:         gl.Image2DArray,
	BasicIImage2D:             gl.IntImage2D,
	BasicIImage3D:             gl.IntImage3D,
	BasicIImageCube:           gl.IntImageCube,
	BasicIImage2DArray:        gl.IntImage2DArray,
	BasicUImage2D:             gl.UnsignedIntImage2D,
	BasicUImage3D:             gl.UnsignedIntImage3D,
	BasicUImageCube:           gl.UnsignedIntImageCube,
	BasicUImage2DArray:        gl.UnsignedIntImage2DArray,
	BasicSubpassInput:         gl.SubpassInput,
}

func (b BasicType) String() string {
	switch b {
	case BasicVoid:
		return "void"
	case BasicFloat:
		return "float"
	case BasicInt:
		return "int"
	case BasicUInt:
		return "uint"
	case BasicBool:
		return "bool"
	case BasicStruct:
		return "struct"
	case BasicInterfaceBlock:
		return "block"
	}
	if e, ok := opaqueTypes[b]; ok {
		return e.String()
	}
	return fmt.Sprintf("BasicType(%d)", uint8(b))
}

// IsSampler reports whether b is a sampler type.
func (b BasicType) IsSampler() bool {
	return b >= BasicSampler2D && b <= BasicUSampler2DMS
}

// IsImage reports whether b is a storage image type.
func (b BasicType) IsImage() bool {
	return b >= BasicImage2D && b <= BasicUImage2DArray
}

// IsOpaque reports whether b has no memory representation in the shader.
func (b BasicType) IsOpaque() bool {
	_, ok := opaqueTypes[b]
	return ok
}

// IsShadowSampler reports whether b is a depth comparison sampler.
func (b BasicType) IsShadowSampler() bool {
	return b == BasicSampler2DShadow || b == BasicSampler2DArrayShadow || b == BasicSamplerCubeShadow
}

// SampledType returns the component type produced by sampling or loading b.
func (b BasicType) SampledType() BasicType {
	switch b {
	case BasicISampler2D, BasicISampler3D, BasicISamplerCube, BasicISampler2DArray, BasicISampler2DMS,
		BasicIImage2D, BasicIImage3D, BasicIImageCube, BasicIImage2DArray:
		return BasicInt
	case BasicUSampler2D, BasicUSampler3D, BasicUSamplerCube, BasicUSampler2DArray, BasicUSampler2DMS,
		BasicUImage2D, BasicUImage3D, BasicUImageCube, BasicUImage2DArray, BasicAtomicCounter:
		return BasicUInt
	}
	return BasicFloat
}

// TextureDimensions returns the size of the coordinate returned by
// textureSize or imageSize for b.
func (b BasicType) TextureDimensions() int {
	switch b {
	case BasicSampler3D, BasicISampler3D, BasicUSampler3D, BasicImage3D, BasicIImage3D, BasicUImage3D,
		BasicSampler2DArray, BasicISampler2DArray, BasicUSampler2DArray, BasicSampler2DArrayShadow,
		BasicImage2DArray, BasicIImage2DArray, BasicUImage2DArray:
		return 3
	}
	return 2
}

// Precision is a GLSL ES precision qualifier. The zero value means no
// precision applies or none was given.
type Precision uint8

const (
	PrecisionUndefined Precision = iota
	PrecisionLow
	PrecisionMedium
	PrecisionHigh
)

func (p Precision) String() string {
	switch p {
	case PrecisionLow:
		return "lowp"
	case PrecisionMedium:
		return "mediump"
	case PrecisionHigh:
		return "highp"
	}
	return ""
}

// HigherPrecision returns the more precise of a and b.
func HigherPrecision(a, b Precision) Precision {
	return max(a, b)
}

// MatrixPacking is the layout qualifier controlling matrix storage order.
type MatrixPacking uint8

const (
	MatrixPackingUnspecified MatrixPacking = iota
	MatrixPackingColumnMajor
	MatrixPackingRowMajor
)

// BlockStorage is the memory layout qualifier of an interface block.
type BlockStorage uint8

const (
	BlockStorageUnspecified BlockStorage = iota
	BlockStorageShared
	BlockStoragePacked
	BlockStorageStd140
	BlockStorageStd430
)

func (s BlockStorage) String() string {
	switch s {
	case BlockStorageShared:
		return "shared"
	case BlockStoragePacked:
		return "packed"
	case BlockStorageStd140:
		return "std140"
	case BlockStorageStd430:
		return "std430"
	}
	return ""
}

// LayoutQualifier holds layout(...) values. Integer fields are -1 when not
// specified.
type LayoutQualifier struct {
	Location             int
	Binding              int
	Offset               int
	Index                int
	InputAttachmentIndex int
	ConstantID           int
	MatrixPacking        MatrixPacking
	BlockStorage         BlockStorage
	YUV                  bool
}

// NoLayout returns a qualifier with nothing specified.
func NoLayout() LayoutQualifier {
	return LayoutQualifier{
		Location:             -1,
		Binding:              -1,
		Offset:               -1,
		Index:                -1,
		InputAttachmentIndex: -1,
		ConstantID:           -1,
	}
}

// IsEmpty reports whether no layout value is specified.
func (l LayoutQualifier) IsEmpty() bool {
	return l == NoLayout()
}

// MemoryQualifier holds the memory access qualifiers of images and buffers.
type MemoryQualifier struct {
	ReadOnly  bool
	WriteOnly bool
	Coherent  bool
	Restrict  bool
	Volatile  bool
}

// Field is a member of a struct or interface block.
type Field struct {
	Name string
	Type *Type
	Loc  SourceLoc
}

// Structure is a user or internal struct type.
type Structure struct {
	ID     SymbolID
	Name   string
	Kind   SymbolKind
	Fields []*Field
}

// InterfaceBlockType is the type of a uniform, buffer or I/O block.
type InterfaceBlockType struct {
	ID            SymbolID
	Name          string
	Kind          SymbolKind
	Fields        []*Field
	Storage       BlockStorage
	MatrixPacking MatrixPacking
	Binding       int
}

// FieldIndex returns the index of the named field, or -1.
func fieldIndex(fields []*Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// FieldIndex returns the index of the named field, or -1.
func (s *Structure) FieldIndex(name string) int { return fieldIndex(s.Fields, name) }

// FieldIndex returns the index of the named field, or -1.
func (b *InterfaceBlockType) FieldIndex(name string) int { return fieldIndex(b.Fields, name) }

// Type is the full type of a variable or expression. PrimarySize is the
// vector size or matrix column count; SecondarySize is the matrix row count
// and 1 otherwise. ArraySizes lists extents outermost first.
type Type struct {
	Basic         BasicType
	Precision     Precision
	Qualifier     Qualifier
	Layout        LayoutQualifier
	Memory        MemoryQualifier
	Invariant     bool
	Precise       bool
	PrimarySize   uint8
	SecondarySize uint8
	ArraySizes    []uint
	Struct        *Structure
	Block         *InterfaceBlockType
}

// NewScalarType returns a scalar (or opaque) type.
func NewScalarType(b BasicType, p Precision, q Qualifier) *Type {
	return &Type{Basic: b, Precision: p, Qualifier: q, Layout: NoLayout(), PrimarySize: 1, SecondarySize: 1}
}

// NewVectorType returns a vector type; size 1 gives a scalar.
func NewVectorType(b BasicType, size int, p Precision, q Qualifier) *Type {
	t := NewScalarType(b, p, q)
	t.PrimarySize = uint8(size)
	return t
}

// NewMatrixType returns a float matrix type.
func NewMatrixType(columns, rows int, p Precision, q Qualifier) *Type {
	t := NewScalarType(BasicFloat, p, q)
	t.PrimarySize = uint8(columns)
	t.SecondarySize = uint8(rows)
	return t
}

// NewStructType returns a type for a struct.
func NewStructType(s *Structure, q Qualifier) *Type {
	t := NewScalarType(BasicStruct, PrecisionUndefined, q)
	t.Struct = s
	return t
}

// NewBlockType returns a type for an interface block.
func NewBlockType(b *InterfaceBlockType, q Qualifier) *Type {
	t := NewScalarType(BasicInterfaceBlock, PrecisionUndefined, q)
	t.Block = b
	return t
}

// Clone returns a deep copy of t's own fields. Struct and block definitions
// are shared.
func (t *Type) Clone() *Type {
	c := *t
	if t.ArraySizes != nil {
		c.ArraySizes = append([]uint(nil), t.ArraySizes...)
	}
	return &c
}

// WithQualifier returns a copy of t with q.
func (t *Type) WithQualifier(q Qualifier) *Type {
	c := t.Clone()
	c.Qualifier = q
	return c
}

// WithPrecision returns a copy of t with p.
func (t *Type) WithPrecision(p Precision) *Type {
	c := t.Clone()
	c.Precision = p
	return c
}

// WithArraySizes returns a copy of t with the given extents.
func (t *Type) WithArraySizes(sizes ...uint) *Type {
	c := t.Clone()
	c.ArraySizes = append([]uint(nil), sizes...)
	return c
}

// ElementType returns the type of one element of an array, removing the
// outermost dimension.
func (t *Type) ElementType() *Type {
	c := t.Clone()
	if len(c.ArraySizes) > 0 {
		c.ArraySizes = c.ArraySizes[1:]
		if len(c.ArraySizes) == 0 {
			c.ArraySizes = nil
		}
	}
	return c
}

// Cols returns the matrix column count or vector size.
func (t *Type) Cols() int { return int(t.PrimarySize) }

// Rows returns the matrix row count.
func (t *Type) Rows() int { return int(t.SecondarySize) }

func (t *Type) IsArray() bool           { return len(t.ArraySizes) > 0 }
func (t *Type) IsArrayOfArrays() bool   { return len(t.ArraySizes) > 1 }
func (t *Type) IsMatrix() bool          { return t.SecondarySize > 1 }
func (t *Type) IsVector() bool          { return t.PrimarySize > 1 && t.SecondarySize == 1 }
func (t *Type) IsScalar() bool          { return t.PrimarySize == 1 && t.SecondarySize == 1 && !t.IsArray() && !t.IsStructure() && !t.IsInterfaceBlock() }
func (t *Type) IsStructure() bool       { return t.Basic == BasicStruct }
func (t *Type) IsInterfaceBlock() bool  { return t.Basic == BasicInterfaceBlock }
func (t *Type) IsOpaque() bool          { return t.Basic.IsOpaque() }
func (t *Type) IsSampler() bool         { return t.Basic.IsSampler() }
func (t *Type) IsImage() bool           { return t.Basic.IsImage() }
func (t *Type) IsSubpassInput() bool    { return t.Basic == BasicSubpassInput }

func (t *Type) IsStructureContainingArrays() bool {
	if t.Struct == nil {
		return false
	}
	for _, f := range t.Struct.Fields {
		if f.Type.IsArray() || f.Type.IsStructureContainingArrays() {
			return true
		}
	}
	return false
}

// ContainsOpaque reports whether t is opaque or a struct with an opaque
// member at any depth.
func (t *Type) ContainsOpaque() bool {
	if t.IsOpaque() {
		return true
	}
	if t.Struct == nil {
		return false
	}
	for _, f := range t.Struct.Fields {
		if f.Type.ContainsOpaque() {
			return true
		}
	}
	return false
}

// OutermostArraySize returns the outermost extent, or 0.
func (t *Type) OutermostArraySize() uint {
	if !t.IsArray() {
		return 0
	}
	return t.ArraySizes[0]
}

// ArraySizeProduct returns the element count, 1 for non-arrays.
func (t *Type) ArraySizeProduct() uint {
	p := uint(1)
	for _, s := range t.ArraySizes {
		p *= s
	}
	return p
}

// ComponentCount returns the number of scalar components of one element.
func (t *Type) ComponentCount() int {
	return int(t.PrimarySize) * int(t.SecondarySize)
}

// CanHavePrecision reports whether a precision qualifier applies to t.
func (t *Type) CanHavePrecision() bool {
	switch t.Basic {
	case BasicFloat, BasicInt, BasicUInt:
		return true
	}
	return t.Basic.IsOpaque()
}

// Fields returns the members of a struct or block type.
func (t *Type) Fields() []*Field {
	switch {
	case t.Struct != nil:
		return t.Struct.Fields
	case t.Block != nil:
		return t.Block.Fields
	}
	return nil
}

// SameShape reports whether a and b have the same basic type, size and
// array dimensions, ignoring qualifiers and precision.
func SameShape(a, b *Type) bool {
	if a.Basic != b.Basic || a.PrimarySize != b.PrimarySize || a.SecondarySize != b.SecondarySize {
		return false
	}
	if a.Struct != b.Struct || a.Block != b.Block || len(a.ArraySizes) != len(b.ArraySizes) {
		return false
	}
	for i := range a.ArraySizes {
		if a.ArraySizes[i] != b.ArraySizes[i] {
			return false
		}
	}
	return true
}

// GLType returns the GL type enum of one element of t. Structs and blocks
// report gl.None.
func (t *Type) GLType() gl.Enum {
	if e, ok := opaqueTypes[t.Basic]; ok {
		return e
	}
	switch t.Basic {
	case BasicFloat:
		if t.IsMatrix() {
			return gl.FloatType(t.Cols(), t.Rows())
		}
		return gl.VectorType(gl.Float, t.Cols())
	case BasicInt:
		return gl.VectorType(gl.Int, t.Cols())
	case BasicUInt:
		return gl.VectorType(gl.UnsignedInt, t.Cols())
	case BasicBool:
		return gl.VectorType(gl.Bool, t.Cols())
	}
	return gl.None
}

// GLPrecision returns the GL precision enum of t.
func (t *Type) GLPrecision() gl.Enum {
	var low, medium, high gl.Enum
	switch {
	case t.Basic == BasicFloat:
		low, medium, high = gl.LowFloat, gl.MediumFloat, gl.HighFloat
	case t.Basic == BasicInt || t.Basic == BasicUInt || t.Basic.IsOpaque():
		low, medium, high = gl.LowInt, gl.MediumInt, gl.HighInt
	default:
		return gl.None
	}
	switch t.Precision {
	case PrecisionLow:
		return low
	case PrecisionMedium:
		return medium
	case PrecisionHigh:
		return high
	}
	return gl.None
}

// BaseTypeName returns the GLSL name of one element of t without
// qualifiers, e.g. "vec3", "mat2x4" or the struct name.
func (t *Type) BaseTypeName() string {
	switch t.Basic {
	case BasicStruct:
		return t.Struct.Name
	case BasicInterfaceBlock:
		return t.Block.Name
	case BasicVoid:
		return "void"
	case BasicFloat:
		if t.IsMatrix() {
			if t.Cols() == t.Rows() {
				return "mat" + strconv.Itoa(t.Cols())
			}
			return "mat" + strconv.Itoa(t.Cols()) + "x" + strconv.Itoa(t.Rows())
		}
		if t.Cols() > 1 {
			return "vec" + strconv.Itoa(t.Cols())
		}
		return "float"
	case BasicInt, BasicUInt, BasicBool:
		if t.Cols() == 1 {
			return t.Basic.String()
		}
		prefix := map[BasicType]string{BasicInt: "ivec", BasicUInt: "uvec", BasicBool: "bvec"}[t.Basic]
		return prefix + strconv.Itoa(t.Cols())
	}
	return t.Basic.String()
}

// ArraySuffix returns the GLSL array suffix, e.g. "[2][3]".
func (t *Type) ArraySuffix() string {
	var b strings.Builder
	for _, s := range t.ArraySizes {
		b.WriteByte('[')
		b.WriteString(strconv.FormatUint(uint64(s), 10))
		b.WriteByte(']')
	}
	return b.String()
}

// String returns a readable form such as "highp vec4[2]".
func (t *Type) String() string {
	var parts []string
	if q := t.Qualifier.String(); q != "" {
		parts = append(parts, q)
	}
	if p := t.Precision.String(); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, t.BaseTypeName()+t.ArraySuffix())
	return strings.Join(parts, " ")
}
