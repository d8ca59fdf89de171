// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

// Qualifier is the storage qualifier of a variable or value.
type Qualifier uint8

const (
	QualTemporary Qualifier = iota
	QualGlobal
	QualConst
	QualAttribute
	QualVaryingIn
	QualVaryingOut
	QualUniform
	QualBuffer
	QualVertexIn
	QualFragmentOut
	QualFragmentInOut
	QualSmoothOut
	QualSmoothIn
	QualFlatOut
	QualFlatIn
	QualCentroidOut
	QualCentroidIn
	QualSampleOut
	QualSampleIn
	QualNoPerspectiveOut
	QualNoPerspectiveIn
	QualParamIn
	QualParamOut
	QualParamInOut
	QualParamConst
	QualShared
	QualSpecConst

	// Built-in variable qualifiers.
	QualFragCoord
	QualFrontFacing
	QualPointCoord
	QualFragColor
	QualFragData
	QualFragDepth
	QualPosition
	QualPointSize
	QualVertexID
	QualInstanceID
	QualSampleID
	QualSampleMask
)

var qualifierNames = map[Qualifier]string{
	QualConst:            "const",
	QualAttribute:        "attribute",
	QualVaryingIn:        "varying",
	QualVaryingOut:       "varying",
	QualUniform:          "uniform",
	QualBuffer:           "buffer",
	QualVertexIn:         "in",
	QualFragmentOut:      "out",
	QualFragmentInOut:    "inout",
	QualSmoothOut:        "smooth out",
	QualSmoothIn:         "smooth in",
	QualFlatOut:          "flat out",
	QualFlatIn:           "flat in",
	QualCentroidOut:      "centroid out",
	QualCentroidIn:       "centroid in",
	QualSampleOut:        "sample out",
	QualSampleIn:         "sample in",
	QualNoPerspectiveOut: "noperspective out",
	QualNoPerspectiveIn:  "noperspective in",
	QualParamIn:          "in",
	QualParamOut:         "out",
	QualParamInOut:       "inout",
	QualParamConst:       "const",
	QualShared:           "shared",
	QualSpecConst:        "const",
}

// String returns the GLSL ES 3.00 spelling, empty for temporaries, globals
// and built-ins.
func (q Qualifier) String() string {
	return qualifierNames[q]
}

// IsVaryingIn reports whether q declares a fragment shader input.
func (q Qualifier) IsVaryingIn() bool {
	switch q {
	case QualVaryingIn, QualSmoothIn, QualFlatIn, QualCentroidIn, QualSampleIn, QualNoPerspectiveIn:
		return true
	}
	return false
}

// IsVaryingOut reports whether q declares a vertex shader output.
func (q Qualifier) IsVaryingOut() bool {
	switch q {
	case QualVaryingOut, QualSmoothOut, QualFlatOut, QualCentroidOut, QualSampleOut, QualNoPerspectiveOut:
		return true
	}
	return false
}

// IsVarying reports whether q declares an inter-stage variable.
func (q Qualifier) IsVarying() bool { return q.IsVaryingIn() || q.IsVaryingOut() }

// IsParam reports whether q is a function parameter qualifier.
func (q Qualifier) IsParam() bool {
	return q >= QualParamIn && q <= QualParamConst
}

// IsBuiltIn reports whether q is reserved for a built-in variable.
func (q Qualifier) IsBuiltIn() bool { return q >= QualFragCoord }

// IsShaderOutput reports whether values with q leave the shader.
func (q Qualifier) IsShaderOutput() bool {
	switch q {
	case QualFragmentOut, QualFragmentInOut, QualFragColor, QualFragData, QualFragDepth,
		QualPosition, QualPointSize, QualSampleMask:
		return true
	}
	return q.IsVaryingOut()
}

// IsWritable reports whether a variable with q may be assigned.
func (q Qualifier) IsWritable() bool {
	switch q {
	case QualConst, QualSpecConst, QualParamConst, QualAttribute, QualVertexIn, QualUniform,
		QualFragCoord, QualFrontFacing, QualPointCoord, QualVertexID, QualInstanceID, QualSampleID:
		return false
	}
	return !q.IsVaryingIn()
}

// Interpolation is the auxiliary interpolation qualifier implied by q.
type Interpolation uint8

const (
	InterpolationSmooth Interpolation = iota
	InterpolationCentroid
	InterpolationSample
	InterpolationFlat
	InterpolationNoPerspective
)

// InterpolationOf returns the interpolation of a varying qualifier.
func InterpolationOf(q Qualifier) Interpolation {
	switch q {
	case QualFlatIn, QualFlatOut:
		return InterpolationFlat
	case QualCentroidIn, QualCentroidOut:
		return InterpolationCentroid
	case QualSampleIn, QualSampleOut:
		return InterpolationSample
	case QualNoPerspectiveIn, QualNoPerspectiveOut:
		return InterpolationNoPerspective
	}
	return InterpolationSmooth
}
