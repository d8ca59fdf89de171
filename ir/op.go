// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "fmt"

// Op identifies the operator of a Unary, Binary or Aggregate node.
type Op uint16

const (
	OpNull Op = iota

	// Unary operators.
	OpNegative
	OpPositive
	OpLogicalNot
	OpBitwiseNot
	OpPostIncrement
	OpPostDecrement
	OpPreIncrement
	OpPreDecrement
	OpArrayLength

	// Binary operators.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpIMod
	OpEqual
	OpNotEqual
	OpLessThan
	OpGreaterThan
	OpLessThanEqual
	OpGreaterThanEqual
	OpComma
	OpLogicalOr
	OpLogicalXor
	OpLogicalAnd
	OpBitShiftLeft
	OpBitShiftRight
	OpBitwiseAnd
	OpBitwiseXor
	OpBitwiseOr
	OpIndexDirect
	OpIndexIndirect
	OpIndexDirectStruct
	OpIndexDirectInterfaceBlock

	// Assignments.
	OpAssign
	OpInitialize
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpIModAssign
	OpBitShiftLeftAssign
	OpBitShiftRightAssign
	OpBitwiseAndAssign
	OpBitwiseXorAssign
	OpBitwiseOrAssign

	// Calls and constructors.
	OpCallFunctionInAST
	OpCallInternalRawFunction
	OpConstruct

	// Angle and trigonometry.
	OpRadians
	OpDegrees
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
	OpSinh
	OpCosh
	OpTanh
	OpAsinh
	OpAcosh
	OpAtanh

	// Exponential.
	OpPow
	OpExp
	OpLog
	OpExp2
	OpLog2
	OpSqrt
	OpInversesqrt

	// Common.
	OpAbs
	OpSign
	OpFloor
	OpTrunc
	OpRound
	OpRoundEven
	OpCeil
	OpFract
	OpMod
	OpMin
	OpMax
	OpClamp
	OpMix
	OpStep
	OpSmoothstep
	OpModf
	OpIsnan
	OpIsinf
	OpFloatBitsToInt
	OpFloatBitsToUint
	OpIntBitsToFloat
	OpUintBitsToFloat
	OpFma
	OpFrexp
	OpLdexp

	// Packing.
	OpPackSnorm2x16
	OpPackUnorm2x16
	OpPackHalf2x16
	OpUnpackSnorm2x16
	OpUnpackUnorm2x16
	OpUnpackHalf2x16
	OpPackUnorm4x8
	OpPackSnorm4x8
	OpUnpackUnorm4x8
	OpUnpackSnorm4x8

	// Geometric.
	OpLength
	OpDistance
	OpDot
	OpCross
	OpNormalize
	OpFaceforward
	OpReflect
	OpRefract

	// Matrix.
	OpMatrixCompMult
	OpOuterProduct
	OpTranspose
	OpDeterminant
	OpInverse

	// Vector relational.
	OpLessThanComponentWise
	OpLessThanEqualComponentWise
	OpGreaterThanComponentWise
	OpGreaterThanEqualComponentWise
	OpEqualComponentWise
	OpNotEqualComponentWise
	OpAny
	OpAll
	OpNotComponentWise

	// Integer.
	OpBitfieldExtract
	OpBitfieldInsert
	OpBitfieldReverse
	OpBitCount
	OpFindLSB
	OpFindMSB
	OpUaddCarry
	OpUsubBorrow
	OpUmulExtended
	OpImulExtended

	// Texture lookup.
	OpTexture
	OpTextureProj
	OpTextureLod
	OpTextureOffset
	OpTextureProjOffset
	OpTextureLodOffset
	OpTextureProjLod
	OpTextureProjLodOffset
	OpTextureGrad
	OpTextureGradOffset
	OpTextureProjGrad
	OpTextureProjGradOffset
	OpTexelFetch
	OpTexelFetchOffset
	OpTextureGather
	OpTextureGatherOffset
	OpTexture2D
	OpTexture2DProj
	OpTextureCube
	OpTexture2DLod
	OpTextureCubeLod
	OpTextureSize

	// Derivatives.
	OpDFdx
	OpDFdy
	OpFwidth

	// Interpolation.
	OpInterpolateAtCentroid
	OpInterpolateAtSample
	OpInterpolateAtOffset

	// Images.
	OpImageSize
	OpImageLoad
	OpImageStore
	OpImageAtomicAdd
	OpImageAtomicMin
	OpImageAtomicMax
	OpImageAtomicAnd
	OpImageAtomicOr
	OpImageAtomicXor
	OpImageAtomicExchange
	OpImageAtomicCompSwap

	// Atomics.
	OpAtomicAdd
	OpAtomicMin
	OpAtomicMax
	OpAtomicAnd
	OpAtomicOr
	OpAtomicXor
	OpAtomicExchange
	OpAtomicCompSwap
	OpAtomicCounter
	OpAtomicCounterIncrement
	OpAtomicCounterDecrement

	// Synchronization.
	OpBarrier
	OpMemoryBarrier
	OpMemoryBarrierBuffer
	OpMemoryBarrierImage
	OpMemoryBarrierShared
	OpGroupMemoryBarrier

	// Framebuffer fetch.
	OpSubpassLoad

	// Desktop GLSL only.
	OpFtransform
	OpNoise1
	OpNoise2
	OpNoise3
	OpNoise4

	opCount
)

// opSpelling is the GLSL source form of operators and built-in functions.
var opSpelling = [opCount]string{
	OpNegative:      "-",
	OpPositive:      "+",
	OpLogicalNot:    "!",
	OpBitwiseNot:    "~",
	OpPostIncrement: "++",
	OpPostDecrement: "--",
	OpPreIncrement:  "++",
	OpPreDecrement:  "--",
	OpArrayLength:   "length",

	OpAdd:              "+",
	OpSub:              "-",
	OpMul:              "*",
	OpDiv:              "/",
	OpIMod:             "%",
	OpEqual:            "==",
	OpNotEqual:         "!=",
	OpLessThan:         "<",
	OpGreaterThan:      ">",
	OpLessThanEqual:    "<=",
	OpGreaterThanEqual: ">=",
	OpComma:            ",",
	OpLogicalOr:        "||",
	OpLogicalXor:       "^^",
	OpLogicalAnd:       "&&",
	OpBitShiftLeft:     "<<",
	OpBitShiftRight:    ">>",
	OpBitwiseAnd:       "&",
	OpBitwiseXor:       "^",
	OpBitwiseOr:        "|",

	OpAssign:              "=",
	OpInitialize:          "=",
	OpAddAssign:           "+=",
	OpSubAssign:           "-=",
	OpMulAssign:           "*=",
	OpDivAssign:           "/=",
	OpIModAssign:          "%=",
	OpBitShiftLeftAssign:  "<<=",
	OpBitShiftRightAssign: ">>=",
	OpBitwiseAndAssign:    "&=",
	OpBitwiseXorAssign:    "^=",
	OpBitwiseOrAssign:     "|=",

	OpRadians:     "radians",
	OpDegrees:     "degrees",
	OpSin:         "sin",
	OpCos:         "cos",
	OpTan:         "tan",
	OpAsin:        "asin",
	OpAcos:        "acos",
	OpAtan:        "atan",
	OpSinh:        "sinh",
	OpCosh:        "cosh",
	OpTanh:        "tanh",
	OpAsinh:       "asinh",
	OpAcosh:       "acosh",
	OpAtanh:       "atanh",
	OpPow:         "pow",
	OpExp:         "exp",
	OpLog:         "log",
	OpExp2:        "exp2",
	OpLog2:        "log2",
	OpSqrt:        "sqrt",
	OpInversesqrt: "inversesqrt",

	OpAbs:             "abs",
	OpSign:            "sign",
	OpFloor:           "floor",
	OpTrunc:           "trunc",
	OpRound:           "round",
	OpRoundEven:       "roundEven",
	OpCeil:            "ceil",
	OpFract:           "fract",
	OpMod:             "mod",
	OpMin:             "min",
	OpMax:             "max",
	OpClamp:           "clamp",
	OpMix:             "mix",
	OpStep:            "step",
	OpSmoothstep:      "smoothstep",
	OpModf:            "modf",
	OpIsnan:           "isnan",
	OpIsinf:           "isinf",
	OpFloatBitsToInt:  "floatBitsToInt",
	OpFloatBitsToUint: "floatBitsToUint",
	OpIntBitsToFloat:  "intBitsToFloat",
	OpUintBitsToFloat: "uintBitsToFloat",
	OpFma:             "fma",
	OpFrexp:           "frexp",
	OpLdexp:           "ldexp",

	OpPackSnorm2x16:   "packSnorm2x16",
	OpPackUnorm2x16:   "packUnorm2x16",
	OpPackHalf2x16:    "packHalf2x16",
	OpUnpackSnorm2x16: "unpackSnorm2x16",
	OpUnpackUnorm2x16: "unpackUnorm2x16",
	OpUnpackHalf2x16:  "unpackHalf2x16",
	OpPackUnorm4x8:    "packUnorm4x8",
	OpPackSnorm4x8:    "packSnorm4x8",
	OpUnpackUnorm4x8:  "unpackUnorm4x8",
	OpUnpackSnorm4x8:  "unpackSnorm4x8",

	OpLength:      "length",
	OpDistance:    "distance",
	OpDot:         "dot",
	OpCross:       "cross",
	OpNormalize:   "normalize",
	OpFaceforward: "faceforward",
	OpReflect:     "reflect",
	OpRefract:     "refract",

	OpMatrixCompMult: "matrixCompMult",
	OpOuterProduct:   "outerProduct",
	OpTranspose:      "transpose",
	OpDeterminant:    "determinant",
	OpInverse:        "inverse",

	OpLessThanComponentWise:         "lessThan",
	OpLessThanEqualComponentWise:    "lessThanEqual",
	OpGreaterThanComponentWise:      "greaterThan",
	OpGreaterThanEqualComponentWise: "greaterThanEqual",
	OpEqualComponentWise:            "equal",
	OpNotEqualComponentWise:         "notEqual",
	OpAny:                           "any",
	OpAll:                           "all",
	OpNotComponentWise:              "not",

	OpBitfieldExtract: "bitfieldExtract",
	OpBitfieldInsert:  "bitfieldInsert",
	OpBitfieldReverse: "bitfieldReverse",
	OpBitCount:        "bitCount",
	OpFindLSB:         "findLSB",
	OpFindMSB:         "findMSB",
	OpUaddCarry:       "uaddCarry",
	OpUsubBorrow:      "usubBorrow",
	OpUmulExtended:    "umulExtended",
	OpImulExtended:    "imulExtended",

	OpTexture:               "texture",
	OpTextureProj:           "textureProj",
	OpTextureLod:            "textureLod",
	OpTextureOffset:         "textureOffset",
	OpTextureProjOffset:     "textureProjOffset",
	OpTextureLodOffset:      "textureLodOffset",
	OpTextureProjLod:        "textureProjLod",
	OpTextureProjLodOffset:  "textureProjLodOffset",
	OpTextureGrad:           "textureGrad",
	OpTextureGradOffset:     "textureGradOffset",
	OpTextureProjGrad:       "textureProjGrad",
	OpTextureProjGradOffset: "textureProjGradOffset",
	OpTexelFetch:            "texelFetch",
	OpTexelFetchOffset:      "texelFetchOffset",
	OpTextureGather:         "textureGather",
	OpTextureGatherOffset:   "textureGatherOffset",
	OpTexture2D:             "texture2D",
	OpTexture2DProj:         "texture2DProj",
	OpTextureCube:           "textureCube",
	OpTexture2DLod:          "texture2DLod",
	OpTextureCubeLod:        "textureCubeLod",
	OpTextureSize:           "textureSize",

	OpDFdx:   "dFdx",
	OpDFdy:   "dFdy",
	OpFwidth: "fwidth",

	OpInterpolateAtCentroid: "interpolateAtCentroid",
	OpInterpolateAtSample:   "interpolateAtSample",
	OpInterpolateAtOffset:   "interpolateAtOffset",

	OpImageSize:           "imageSize",
	OpImageLoad:           "imageLoad",
	OpImageStore:          "imageStore",
	OpImageAtomicAdd:      "imageAtomicAdd",
	OpImageAtomicMin:      "imageAtomicMin",
	OpImageAtomicMax:      "imageAtomicMax",
	OpImageAtomicAnd:      "imageAtomicAnd",
	OpImageAtomicOr:       "imageAtomicOr",
	OpImageAtomicXor:      "imageAtomicXor",
	OpImageAtomicExchange: "imageAtomicExchange",
	OpImageAtomicCompSwap: "imageAtomicCompSwap",

	OpAtomicAdd:              "atomicAdd",
	OpAtomicMin:              "atomicMin",
	OpAtomicMax:              "atomicMax",
	OpAtomicAnd:              "atomicAnd",
	OpAtomicOr:               "atomicOr",
	OpAtomicXor:              "atomicXor",
	OpAtomicExchange:         "atomicExchange",
	OpAtomicCompSwap:         "atomicCompSwap",
	OpAtomicCounter:          "atomicCounter",
	OpAtomicCounterIncrement: "atomicCounterIncrement",
	OpAtomicCounterDecrement: "atomicCounterDecrement",

	OpBarrier:             "barrier",
	OpMemoryBarrier:       "memoryBarrier",
	OpMemoryBarrierBuffer: "memoryBarrierBuffer",
	OpMemoryBarrierImage:  "memoryBarrierImage",
	OpMemoryBarrierShared: "memoryBarrierShared",
	OpGroupMemoryBarrier:  "groupMemoryBarrier",

	OpSubpassLoad: "subpassLoad",

	OpFtransform: "ftransform",
	OpNoise1:     "noise1",
	OpNoise2:     "noise2",
	OpNoise3:     "noise3",
	OpNoise4:     "noise4",
}

// Spelling returns the GLSL operator token or built-in function name.
func (op Op) Spelling() string {
	if op < opCount {
		return opSpelling[op]
	}
	return ""
}

func (op Op) String() string {
	if s := op.Spelling(); s != "" {
		return s
	}
	switch op {
	case OpIndexDirect, OpIndexIndirect:
		return "index"
	case OpIndexDirectStruct, OpIndexDirectInterfaceBlock:
		return "field"
	case OpCallFunctionInAST, OpCallInternalRawFunction:
		return "call"
	case OpConstruct:
		return "construct"
	}
	return fmt.Sprintf("Op(%d)", uint16(op))
}

// IsAssignment reports whether op writes its left operand.
func (op Op) IsAssignment() bool {
	return op >= OpAssign && op <= OpBitwiseOrAssign
}

// IsIndex reports whether op is one of the four indexing operators.
func (op Op) IsIndex() bool {
	return op >= OpIndexDirect && op <= OpIndexDirectInterfaceBlock
}

// IsBuiltInFunction reports whether op names a built-in function call.
func (op Op) IsBuiltInFunction() bool {
	return op >= OpRadians && op < opCount
}

// IsIncrementOrDecrement reports whether op is ++ or --.
func (op Op) IsIncrementOrDecrement() bool {
	return op >= OpPostIncrement && op <= OpPreDecrement
}

// IsRelational reports whether op compares two values to a bool.
func (op Op) IsRelational() bool {
	return op >= OpEqual && op <= OpGreaterThanEqual
}

// IsLogical reports whether op combines two bools.
func (op Op) IsLogical() bool {
	return op >= OpLogicalOr && op <= OpLogicalAnd
}

// IsDesktopOnly reports whether op exists only in desktop GLSL.
func (op Op) IsDesktopOnly() bool {
	return op >= OpFtransform && op <= OpNoise4
}

// IsTextureLookup reports whether op samples, fetches or queries a texture.
func (op Op) IsTextureLookup() bool {
	return op >= OpTexture && op <= OpTextureSize
}

// IsImageFunction reports whether op operates on a storage image.
func (op Op) IsImageFunction() bool {
	return op >= OpImageSize && op <= OpImageAtomicCompSwap
}

// IsAtomic reports whether op is a buffer, shared or counter atomic.
func (op Op) IsAtomic() bool {
	return op >= OpAtomicAdd && op <= OpAtomicCounterDecrement
}

// IsUnaryBuiltIn reports whether a call to op with one argument is
// represented as a Unary node. Derivatives, interpolation functions and
// queries always use Aggregate nodes.
func (op Op) IsUnaryBuiltIn() bool {
	switch {
	case op >= OpRadians && op <= OpInversesqrt:
		return true
	case op >= OpAbs && op <= OpUintBitsToFloat:
		return op != OpMod && op != OpMin && op != OpMax && op != OpClamp && op != OpMix &&
			op != OpStep && op != OpSmoothstep && op != OpModf
	case op >= OpPackSnorm2x16 && op <= OpUnpackSnorm4x8:
		return true
	}
	switch op {
	case OpLength, OpNormalize, OpTranspose, OpDeterminant, OpInverse,
		OpAny, OpAll, OpNotComponentWise, OpBitfieldReverse, OpBitCount, OpFindLSB, OpFindMSB:
		return true
	}
	return false
}
