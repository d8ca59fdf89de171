// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

// The resolve functions compute the type of an operator's result from its
// operands. Result types are temporaries with undefined precision; the
// precision propagator decides the rest. Indexing and field selection keep
// the precision of the selected element.

func temporary(t *Type) *Type {
	c := t.Clone()
	c.Qualifier = QualTemporary
	c.Layout = NoLayout()
	c.Memory = MemoryQualifier{}
	c.Invariant = false
	c.Precise = false
	return c
}

func resultOf(t *Type) *Type {
	c := temporary(t)
	c.Precision = PrecisionUndefined
	return c
}

func boolType(size int) *Type {
	return NewVectorType(BasicBool, size, PrecisionUndefined, QualTemporary)
}

func shapeOf(b BasicType, t *Type) *Type {
	return NewVectorType(b, t.Cols(), PrecisionUndefined, QualTemporary)
}

// ResolveUnary returns the type of op applied to operand.
func ResolveUnary(op Op, operand *Type) *Type {
	switch {
	case op == OpLogicalNot:
		return boolType(1)
	case op == OpArrayLength:
		return NewScalarType(BasicInt, PrecisionUndefined, QualTemporary)
	case op.IsBuiltInFunction():
		return ResolveBuiltIn(op, []*Type{operand})
	}
	return resultOf(operand)
}

// ResolveBinary returns the type of left op right.
func ResolveBinary(op Op, left, right *Type) *Type {
	switch {
	case op.IsAssignment():
		return temporary(left)
	case op.IsRelational() || op.IsLogical():
		return boolType(1)
	case op == OpComma:
		return resultOf(right)
	case op == OpIndexDirect || op == OpIndexIndirect:
		return indexResult(left)
	case op == OpMul:
		return mulResult(left, right)
	case op == OpBitShiftLeft || op == OpBitShiftRight:
		return resultOf(left)
	}
	// Component-wise arithmetic and bitwise operators: a scalar operand
	// takes the shape of the other one.
	if left.IsScalar() && !right.IsScalar() {
		t := resultOf(right)
		t.Basic = left.Basic
		return t
	}
	return resultOf(left)
}

func indexResult(base *Type) *Type {
	if base.IsArray() {
		return temporary(base.ElementType())
	}
	t := temporary(base)
	if base.IsMatrix() {
		t.PrimarySize = base.SecondarySize
		t.SecondarySize = 1
		return t
	}
	t.PrimarySize = 1
	return t
}

func mulResult(left, right *Type) *Type {
	switch {
	case left.IsMatrix() && right.IsMatrix():
		return NewMatrixType(right.Cols(), left.Rows(), PrecisionUndefined, QualTemporary)
	case left.IsMatrix() && right.IsVector():
		return NewVectorType(BasicFloat, left.Rows(), PrecisionUndefined, QualTemporary)
	case left.IsVector() && right.IsMatrix():
		return NewVectorType(BasicFloat, right.Cols(), PrecisionUndefined, QualTemporary)
	case left.IsScalar():
		return resultOf(right)
	}
	return resultOf(left)
}

// ResolveField returns the type of field index of a struct or block.
func ResolveField(base *Type, index int) *Type {
	fields := base.Fields()
	Assert(index >= 0 && index < len(fields), "field index %d out of range for %s", index, base.BaseTypeName())
	return temporary(fields[index].Type)
}

// ResolveSwizzle returns the type selecting n components of operand.
func ResolveSwizzle(operand *Type, n int) *Type {
	t := temporary(operand)
	t.PrimarySize = uint8(n)
	t.SecondarySize = 1
	t.ArraySizes = nil
	return t
}

// ResolveBuiltIn returns the return type of the built-in op called with
// arguments of the given types.
func ResolveBuiltIn(op Op, args []*Type) *Type {
	arg := func(i int) *Type {
		Assert(i < len(args), "%s: missing argument %d", op, i)
		return args[i]
	}
	float := func(n int) *Type { return NewVectorType(BasicFloat, n, PrecisionUndefined, QualTemporary) }
	scalar := func(b BasicType) *Type { return NewScalarType(b, PrecisionUndefined, QualTemporary) }
	void := func() *Type { return NewScalarType(BasicVoid, PrecisionUndefined, QualTemporary) }

	switch op {
	case OpStep:
		return resultOf(arg(1))
	case OpSmoothstep:
		return resultOf(arg(2))
	case OpLength, OpDistance, OpDot, OpDeterminant:
		return float(1)
	case OpIsnan, OpIsinf,
		OpLessThanComponentWise, OpLessThanEqualComponentWise, OpGreaterThanComponentWise,
		OpGreaterThanEqualComponentWise, OpEqualComponentWise, OpNotEqualComponentWise:
		return shapeOf(BasicBool, arg(0))
	case OpAny, OpAll:
		return boolType(1)
	case OpFloatBitsToInt:
		return shapeOf(BasicInt, arg(0))
	case OpFloatBitsToUint:
		return shapeOf(BasicUInt, arg(0))
	case OpIntBitsToFloat, OpUintBitsToFloat:
		return shapeOf(BasicFloat, arg(0))
	case OpPackSnorm2x16, OpPackUnorm2x16, OpPackHalf2x16, OpPackUnorm4x8, OpPackSnorm4x8:
		return scalar(BasicUInt)
	case OpUnpackSnorm2x16, OpUnpackUnorm2x16, OpUnpackHalf2x16:
		return float(2)
	case OpUnpackUnorm4x8, OpUnpackSnorm4x8:
		return float(4)
	case OpBitCount, OpFindLSB, OpFindMSB:
		return shapeOf(BasicInt, arg(0))
	case OpOuterProduct:
		return NewMatrixType(arg(1).Cols(), arg(0).Cols(), PrecisionUndefined, QualTemporary)
	case OpTranspose:
		return NewMatrixType(arg(0).Rows(), arg(0).Cols(), PrecisionUndefined, QualTemporary)
	case OpUmulExtended, OpImulExtended, OpImageStore, OpBarrier, OpMemoryBarrier,
		OpMemoryBarrierBuffer, OpMemoryBarrierImage, OpMemoryBarrierShared, OpGroupMemoryBarrier:
		return void()
	case OpTextureSize, OpImageSize:
		sampler := arg(0).Basic
		if sampler == BasicSamplerCube || sampler == BasicSamplerCubeShadow ||
			sampler == BasicISamplerCube || sampler == BasicUSamplerCube ||
			sampler == BasicImageCube || sampler == BasicIImageCube || sampler == BasicUImageCube {
			return NewVectorType(BasicInt, 2, PrecisionUndefined, QualTemporary)
		}
		return NewVectorType(BasicInt, sampler.TextureDimensions(), PrecisionUndefined, QualTemporary)
	case OpAtomicCounter, OpAtomicCounterIncrement, OpAtomicCounterDecrement:
		return scalar(BasicUInt)
	case OpSubpassLoad:
		return float(4)
	case OpFtransform:
		return float(4)
	case OpNoise1:
		return float(1)
	case OpNoise2:
		return float(2)
	case OpNoise3:
		return float(3)
	case OpNoise4:
		return float(4)
	}
	switch {
	case op.IsTextureLookup():
		sampler := arg(0).Basic
		if sampler.IsShadowSampler() && op != OpTextureGather && op != OpTextureGatherOffset {
			return float(1)
		}
		return NewVectorType(sampler.SampledType(), 4, PrecisionUndefined, QualTemporary)
	case op == OpImageLoad:
		return NewVectorType(arg(0).Basic.SampledType(), 4, PrecisionUndefined, QualTemporary)
	case op.IsImageFunction():
		return scalar(arg(0).Basic.SampledType())
	}
	return resultOf(arg(0))
}
