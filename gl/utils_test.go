// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

import "testing"

func TestTypeShape(t *testing.T) {
	tests := []struct {
		typ     Enum
		rows    int
		columns int
		comps   int
	}{
		{Float, 1, 1, 1},
		{FloatVec3, 3, 1, 3},
		{UnsignedVec2, 2, 1, 2},
		{FloatMat2, 2, 2, 4},
		{FloatMat2x3, 3, 2, 6},
		{FloatMat4x3, 3, 4, 12},
		{Sampler2D, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := VariableRowCount(tt.typ); got != tt.rows {
				t.Errorf("rows = %d, want %d", got, tt.rows)
			}
			if got := VariableColumnCount(tt.typ); got != tt.columns {
				t.Errorf("columns = %d, want %d", got, tt.columns)
			}
			if got := VariableComponentCount(tt.typ); got != tt.comps {
				t.Errorf("components = %d, want %d", got, tt.comps)
			}
		})
	}
}

func TestMatrixRegisters(t *testing.T) {
	// mat2x3: two columns of three rows.
	if got := MatrixRegisterCount(FloatMat2x3, false); got != 2 {
		t.Errorf("column-major registers = %d, want 2", got)
	}
	if got := MatrixRegisterCount(FloatMat2x3, true); got != 3 {
		t.Errorf("row-major registers = %d, want 3", got)
	}
	if got := MatrixComponentCount(FloatMat2x3, false); got != 3 {
		t.Errorf("column-major components = %d, want 3", got)
	}
	if got := MatrixComponentCount(FloatMat2x3, true); got != 2 {
		t.Errorf("row-major components = %d, want 2", got)
	}
	if got := TransposeMatrixType(FloatMat4x2); got != FloatMat2x4 {
		t.Errorf("TransposeMatrixType(mat4x2) = %v", got)
	}
	if got := TransposeMatrixType(FloatVec4); got != FloatVec4 {
		t.Errorf("TransposeMatrixType(vec4) = %v", got)
	}
}

func TestTypeClassification(t *testing.T) {
	if !IsOpaqueType(Sampler2D) || !IsOpaqueType(Image2D) || !IsOpaqueType(UnsignedIntAtomicCounter) {
		t.Error("samplers, images and atomic counters must be opaque")
	}
	if IsOpaqueType(FloatMat4) {
		t.Error("mat4 is not opaque")
	}
	if !IsMatrixType(FloatMat3x2) || IsMatrixType(FloatVec2) {
		t.Error("IsMatrixType misclassifies")
	}
	if got := VectorType(UnsignedInt, 3); got != UnsignedVec3 {
		t.Errorf("VectorType(uint, 3) = %v", got)
	}
	if got := FloatType(3, 2); got != FloatMat3x2 {
		t.Errorf("FloatType(3, 2) = %v", got)
	}
	if got := VariableExternalSize(FloatMat3); got != 36 {
		t.Errorf("VariableExternalSize(mat3) = %d, want 36", got)
	}
}

func TestConvert(t *testing.T) {
	if got := Convert[int32](float32(2.5)); got != 3 {
		t.Errorf("float 2.5 -> int = %d, want 3", got)
	}
	if got := Convert[int32](float32(-1.4)); got != -1 {
		t.Errorf("float -1.4 -> int = %d, want -1", got)
	}
	if got := Convert[int32](float32(1e20)); got != 2147483647 {
		t.Errorf("huge float must saturate, got %d", got)
	}
	if got := Convert[uint32](int32(-5)); got != 0 {
		t.Errorf("negative int -> uint = %d, want 0", got)
	}
	if got := Convert[int32](uint32(0xFFFFFFFF)); got != 2147483647 {
		t.Errorf("uint max -> int = %d, want saturation", got)
	}
	if got := Convert[bool](float32(0.25)); !got {
		t.Error("nonzero float must convert to true")
	}
	if got := Convert[bool](int64(0)); got {
		t.Error("zero must convert to false")
	}
	if got := Convert[float32](true); got != 1 {
		t.Errorf("true -> float = %v", got)
	}
}

func TestBlendEquations(t *testing.T) {
	e, ok := BlendEquationFromEnum(0x9294)
	if !ok || e != BlendMultiply {
		t.Fatalf("GL_MULTIPLY_KHR = %v, %v", e, ok)
	}
	p, err := ParseBlendEquation("HSL_Color")
	if err != nil || p != BlendHSLColor {
		t.Fatalf("ParseBlendEquation = %v, %v", p, err)
	}
	if _, err := ParseBlendEquation("plus"); err == nil {
		t.Error("expected error for unknown equation")
	}

	var s BlendEquationSet
	s = s.Add(BlendScreen).Add(BlendMultiply)
	if s.AnyHSL() {
		t.Error("set has no HSL equations")
	}
	got := s.Equations()
	if len(got) != 2 || got[0] != BlendMultiply || got[1] != BlendScreen {
		t.Errorf("Equations() = %v", got)
	}
	if !AllAdvancedBlendEquations().Has(BlendHSLLuminosity) || AllAdvancedBlendEquations().Has(BlendMax) {
		t.Error("AllAdvancedBlendEquations has wrong members")
	}
}

func TestParseType(t *testing.T) {
	for _, want := range []Enum{Float, FloatVec3, UnsignedVec2, BoolVec4, FloatMat2x4, FloatMat4} {
		got, ok := ParseType(want.String())
		if !ok || got != want {
			t.Errorf("ParseType(%q) = %v, %v", want.String(), got, ok)
		}
	}
	if _, ok := ParseType("sampler2D"); ok {
		t.Error("opaque types are not block members")
	}
}
