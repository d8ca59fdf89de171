// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

// BytesPerComponent is the size of every 32-bit scalar component.
const BytesPerComponent = 4

func lookup(t Enum) typeInfo {
	info, ok := typeTable[t]
	if !ok {
		panic("gl: not a scalar, vector or matrix type: " + t.String())
	}
	return info
}

// VariableComponentType returns the scalar type of t. Opaque types are
// reported as Int, which is how they are stored in the default uniform
// block.
func VariableComponentType(t Enum) Enum {
	if IsOpaqueType(t) {
		return Int
	}
	return lookup(t).component
}

// VariableComponentSize returns the byte size of one component of the given
// scalar type.
func VariableComponentSize(component Enum) int {
	switch component {
	case Bool, Float, Int, UnsignedInt:
		return BytesPerComponent
	default:
		panic("gl: unsupported component type " + component.String())
	}
}

// VariableRowCount returns the number of rows of t.
func VariableRowCount(t Enum) int {
	if IsOpaqueType(t) {
		return 1
	}
	return lookup(t).rows
}

// VariableColumnCount returns the number of columns of t.
func VariableColumnCount(t Enum) int {
	if IsOpaqueType(t) {
		return 1
	}
	return lookup(t).columns
}

// VariableComponentCount returns rows times columns.
func VariableComponentCount(t Enum) int {
	return VariableRowCount(t) * VariableColumnCount(t)
}

// VariableRegisterCount returns the number of vec4 registers one value of t
// occupies when laid out column-major.
func VariableRegisterCount(t Enum) int {
	if IsSamplerType(t) {
		return 1
	}
	return VariableColumnCount(t)
}

// VariableExternalSize returns the client-side byte size of one value of t.
func VariableExternalSize(t Enum) int {
	return VariableComponentSize(VariableComponentType(t)) * VariableComponentCount(t)
}

// IsMatrixType reports whether t is one of the float matrix types.
func IsMatrixType(t Enum) bool {
	info, ok := typeTable[t]
	return ok && info.columns > 1
}

// IsSamplerType reports whether t is a sampler.
func IsSamplerType(t Enum) bool {
	switch t {
	case Sampler2D, Sampler3D, SamplerCube, Sampler2DShadow, Sampler2DArray,
		Sampler2DArrayShadow, SamplerCubeShadow, IntSampler2D, IntSampler3D,
		IntSamplerCube, IntSampler2DArray, UnsignedIntSampler2D, UnsignedIntSampler3D,
		UnsignedIntSamplerCube, UnsignedIntSampler2DArray, SamplerExternalOES,
		Sampler2DMultisample, IntSampler2DMultisample, UnsignedIntSampler2DMultisample:
		return true
	}
	return false
}

// IsImageType reports whether t is a storage image.
func IsImageType(t Enum) bool {
	switch t {
	case Image2D, Image3D, ImageCube, Image2DArray, IntImage2D, IntImage3D,
		IntImageCube, IntImage2DArray, UnsignedIntImage2D, UnsignedIntImage3D,
		UnsignedIntImageCube, UnsignedIntImage2DArray:
		return true
	}
	return false
}

// IsAtomicCounterType reports whether t is an atomic counter.
func IsAtomicCounterType(t Enum) bool {
	return t == UnsignedIntAtomicCounter
}

// IsOpaqueType reports whether values of t have no memory representation
// visible to the shader.
func IsOpaqueType(t Enum) bool {
	return IsSamplerType(t) || IsImageType(t) || IsAtomicCounterType(t) || t == SubpassInput
}

// TransposeMatrixType swaps the row and column count of a matrix type.
// Non-matrix types are returned unchanged.
func TransposeMatrixType(t Enum) Enum {
	switch t {
	case FloatMat2x3:
		return FloatMat3x2
	case FloatMat3x2:
		return FloatMat2x3
	case FloatMat2x4:
		return FloatMat4x2
	case FloatMat4x2:
		return FloatMat2x4
	case FloatMat3x4:
		return FloatMat4x3
	case FloatMat4x3:
		return FloatMat3x4
	}
	return t
}

// MatrixRegisterCount returns the number of column (or, for row-major
// storage, row) vectors a matrix is stored as.
func MatrixRegisterCount(t Enum, isRowMajor bool) int {
	if isRowMajor {
		t = TransposeMatrixType(t)
	}
	return VariableColumnCount(t)
}

// MatrixComponentCount returns the length of each stored vector of a matrix.
func MatrixComponentCount(t Enum, isRowMajor bool) int {
	if isRowMajor {
		return VariableColumnCount(t)
	}
	return VariableRowCount(t)
}

// FloatType returns the float vector or matrix type with the given shape.
func FloatType(columns, rows int) Enum {
	for t, info := range typeTable {
		if info.component == Float && info.columns == columns && info.rows == rows {
			return t
		}
	}
	return None
}

// VectorType returns the vector type with the given component type and size.
func VectorType(component Enum, size int) Enum {
	if size == 1 {
		return component
	}
	for t, info := range typeTable {
		if info.component == component && info.columns == 1 && info.rows == size {
			return t
		}
	}
	return None
}
