// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package gl defines the OpenGL type tags used by shader reflection and the
// per-type queries that block layout and variable collection rely on.
package gl

import "fmt"

// Enum is an OpenGL enumerant. Values match the Khronos registry.
type Enum uint32

// None is the null enumerant. Struct-typed variables carry it as their type.
const None Enum = 0

// Scalar, vector and matrix types.
const (
	Int          Enum = 0x1404
	UnsignedInt  Enum = 0x1405
	Float        Enum = 0x1406
	FloatVec2    Enum = 0x8B50
	FloatVec3    Enum = 0x8B51
	FloatVec4    Enum = 0x8B52
	IntVec2      Enum = 0x8B53
	IntVec3      Enum = 0x8B54
	IntVec4      Enum = 0x8B55
	Bool         Enum = 0x8B56
	BoolVec2     Enum = 0x8B57
	BoolVec3     Enum = 0x8B58
	BoolVec4     Enum = 0x8B59
	FloatMat2    Enum = 0x8B5A
	FloatMat3    Enum = 0x8B5B
	FloatMat4    Enum = 0x8B5C
	FloatMat2x3  Enum = 0x8B65
	FloatMat2x4  Enum = 0x8B66
	FloatMat3x2  Enum = 0x8B67
	FloatMat3x4  Enum = 0x8B68
	FloatMat4x2  Enum = 0x8B69
	FloatMat4x3  Enum = 0x8B6A
	UnsignedVec2 Enum = 0x8DC6
	UnsignedVec3 Enum = 0x8DC7
	UnsignedVec4 Enum = 0x8DC8
)

// Opaque types.
const (
	Sampler2D                       Enum = 0x8B5E
	Sampler3D                       Enum = 0x8B5F
	SamplerCube                     Enum = 0x8B60
	Sampler2DShadow                 Enum = 0x8B62
	Sampler2DArray                  Enum = 0x8DC1
	Sampler2DArrayShadow            Enum = 0x8DC4
	SamplerCubeShadow               Enum = 0x8DC5
	IntSampler2D                    Enum = 0x8DCA
	IntSampler3D                    Enum = 0x8DCB
	IntSamplerCube                  Enum = 0x8DCC
	IntSampler2DArray               Enum = 0x8DCF
	UnsignedIntSampler2D            Enum = 0x8DD2
	UnsignedIntSampler3D            Enum = 0x8DD3
	UnsignedIntSamplerCube          Enum = 0x8DD4
	UnsignedIntSampler2DArray       Enum = 0x8DD7
	SamplerExternalOES              Enum = 0x8D66
	Sampler2DMultisample            Enum = 0x9108
	IntSampler2DMultisample         Enum = 0x9109
	UnsignedIntSampler2DMultisample Enum = 0x910A
	Image2D                         Enum = 0x904D
	Image3D                         Enum = 0x904E
	ImageCube                       Enum = 0x9050
	Image2DArray                    Enum = 0x9053
	IntImage2D                      Enum = 0x9058
	IntImage3D                      Enum = 0x9059
	IntImageCube                    Enum = 0x905B
	IntImage2DArray                 Enum = 0x905E
	UnsignedIntImage2D              Enum = 0x9063
	UnsignedIntImage3D              Enum = 0x9064
	UnsignedIntImageCube            Enum = 0x9066
	UnsignedIntImage2DArray         Enum = 0x9069
	UnsignedIntAtomicCounter        Enum = 0x92DB

	// SubpassInput has no Khronos value; the registry range 0x6A00 is
	// reserved for translator-private tags.
	SubpassInput Enum = 0x6A00
)

// Precision enums reported for variables. Types without a precision
// (booleans, structs, opaque types in desktop GLSL) report None.
const (
	LowFloat    Enum = 0x8DF0
	MediumFloat Enum = 0x8DF1
	HighFloat   Enum = 0x8DF2
	LowInt      Enum = 0x8DF3
	MediumInt   Enum = 0x8DF4
	HighInt     Enum = 0x8DF5
)

// Framebuffer formats with less than 8 bits per channel. Dithering only
// applies to these.
const (
	RGBA4   Enum = 0x8056
	RGB5A1  Enum = 0x8057
	RGB565  Enum = 0x8D62
	RGBA8   Enum = 0x8058
	SRGB8A8 Enum = 0x8C43
)

type typeInfo struct {
	name      string
	component Enum
	rows      int
	columns   int
}

// typeTable describes every non-opaque type. Rows and columns follow the GL
// convention: a matNxM has N columns and M rows; a vecN has N rows.
var typeTable = map[Enum]typeInfo{
	Float:        {"float", Float, 1, 1},
	FloatVec2:    {"vec2", Float, 2, 1},
	FloatVec3:    {"vec3", Float, 3, 1},
	FloatVec4:    {"vec4", Float, 4, 1},
	Int:          {"int", Int, 1, 1},
	IntVec2:      {"ivec2", Int, 2, 1},
	IntVec3:      {"ivec3", Int, 3, 1},
	IntVec4:      {"ivec4", Int, 4, 1},
	UnsignedInt:  {"uint", UnsignedInt, 1, 1},
	UnsignedVec2: {"uvec2", UnsignedInt, 2, 1},
	UnsignedVec3: {"uvec3", UnsignedInt, 3, 1},
	UnsignedVec4: {"uvec4", UnsignedInt, 4, 1},
	Bool:         {"bool", Bool, 1, 1},
	BoolVec2:     {"bvec2", Bool, 2, 1},
	BoolVec3:     {"bvec3", Bool, 3, 1},
	BoolVec4:     {"bvec4", Bool, 4, 1},
	FloatMat2:    {"mat2", Float, 2, 2},
	FloatMat3:    {"mat3", Float, 3, 3},
	FloatMat4:    {"mat4", Float, 4, 4},
	FloatMat2x3:  {"mat2x3", Float, 3, 2},
	FloatMat2x4:  {"mat2x4", Float, 4, 2},
	FloatMat3x2:  {"mat3x2", Float, 2, 3},
	FloatMat3x4:  {"mat3x4", Float, 4, 3},
	FloatMat4x2:  {"mat4x2", Float, 2, 4},
	FloatMat4x3:  {"mat4x3", Float, 3, 4},
}

var opaqueNames = map[Enum]string{
	Sampler2D:                       "sampler2D",
	Sampler3D:                       "sampler3D",
	SamplerCube:                     "samplerCube",
	Sampler2DShadow:                 "sampler2DShadow",
	Sampler2DArray:                  "sampler2DArray",
	Sampler2DArrayShadow:            "sampler2DArrayShadow",
	SamplerCubeShadow:               "samplerCubeShadow",
	IntSampler2D:                    "isampler2D",
	IntSampler3D:                    "isampler3D",
	IntSamplerCube:                  "isamplerCube",
	IntSampler2DArray:               "isampler2DArray",
	UnsignedIntSampler2D:            "usampler2D",
	UnsignedIntSampler3D:            "usampler3D",
	UnsignedIntSamplerCube:          "usamplerCube",
	UnsignedIntSampler2DArray:       "usampler2DArray",
	SamplerExternalOES:              "samplerExternalOES",
	Sampler2DMultisample:            "sampler2DMS",
	IntSampler2DMultisample:         "isampler2DMS",
	UnsignedIntSampler2DMultisample: "usampler2DMS",
	Image2D:                         "image2D",
	Image3D:                         "image3D",
	ImageCube:                       "imageCube",
	Image2DArray:                    "image2DArray",
	IntImage2D:                      "iimage2D",
	IntImage3D:                      "iimage3D",
	IntImageCube:                    "iimageCube",
	IntImage2DArray:                 "iimage2DArray",
	UnsignedIntImage2D:              "uimage2D",
	UnsignedIntImage3D:              "uimage3D",
	UnsignedIntImageCube:            "uimageCube",
	UnsignedIntImage2DArray:         "uimage2DArray",
	UnsignedIntAtomicCounter:        "atomic_uint",
	SubpassInput:                    "subpassInput",
}

// String returns the GLSL spelling of type enums and the hex value of
// anything else.
func (e Enum) String() string {
	if e == None {
		return "none"
	}
	if info, ok := typeTable[e]; ok {
		return info.name
	}
	if name, ok := opaqueNames[e]; ok {
		return name
	}
	switch e {
	case LowFloat, LowInt:
		return "lowp"
	case MediumFloat, MediumInt:
		return "mediump"
	case HighFloat, HighInt:
		return "highp"
	}
	return fmt.Sprintf("0x%04X", uint32(e))
}

// ParseType returns the non-opaque type spelled name, such as "vec3" or
// "mat2x4".
func ParseType(name string) (Enum, bool) {
	for t, info := range typeTable {
		if info.name == name {
			return t, true
		}
	}
	return None, false
}
