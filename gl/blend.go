// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

import (
	"fmt"
	"strings"
)

// BlendEquation identifies a blend equation. The values are stable and are
// what driver uniforms carry to emulated blending code.
type BlendEquation uint32

const (
	BlendAdd BlendEquation = iota
	BlendSubtract
	BlendReverseSubtract
	BlendMin
	BlendMax
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHSLHue
	BlendHSLSaturation
	BlendHSLColor
	BlendHSLLuminosity

	blendEquationCount
)

var blendEquationNames = [...]string{
	"add", "subtract", "reverse_subtract", "min", "max",
	"multiply", "screen", "overlay", "darken", "lighten",
	"colordodge", "colorburn", "hardlight", "softlight", "difference",
	"exclusion", "hsl_hue", "hsl_saturation", "hsl_color", "hsl_luminosity",
}

func (e BlendEquation) String() string {
	if e < blendEquationCount {
		return blendEquationNames[e]
	}
	return fmt.Sprintf("BlendEquation(%d)", uint32(e))
}

// IsAdvanced reports whether e is one of the KHR_blend_equation_advanced
// equations.
func (e BlendEquation) IsAdvanced() bool {
	return e >= BlendMultiply && e < blendEquationCount
}

// IsHSL reports whether e is one of the non-separable HSL equations.
func (e BlendEquation) IsHSL() bool {
	return e >= BlendHSLHue && e <= BlendHSLLuminosity
}

// ParseBlendEquation resolves a lowercase equation name such as "multiply".
func ParseBlendEquation(name string) (BlendEquation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range blendEquationNames {
		if n == name {
			return BlendEquation(i), nil
		}
	}
	return 0, fmt.Errorf("gl: unknown blend equation %q", name)
}

// BlendEquationFromEnum maps a GL blend equation enum to a BlendEquation.
func BlendEquationFromEnum(e Enum) (BlendEquation, bool) {
	switch e {
	case 0x8006:
		return BlendAdd, true
	case 0x800A:
		return BlendSubtract, true
	case 0x800B:
		return BlendReverseSubtract, true
	case 0x8007:
		return BlendMin, true
	case 0x8008:
		return BlendMax, true
	case 0x9294:
		return BlendMultiply, true
	case 0x9295:
		return BlendScreen, true
	case 0x9296:
		return BlendOverlay, true
	case 0x9297:
		return BlendDarken, true
	case 0x9298:
		return BlendLighten, true
	case 0x9299:
		return BlendColorDodge, true
	case 0x929A:
		return BlendColorBurn, true
	case 0x929B:
		return BlendHardLight, true
	case 0x929C:
		return BlendSoftLight, true
	case 0x929E:
		return BlendDifference, true
	case 0x92A0:
		return BlendExclusion, true
	case 0x92AD:
		return BlendHSLHue, true
	case 0x92AE:
		return BlendHSLSaturation, true
	case 0x92AF:
		return BlendHSLColor, true
	case 0x92B0:
		return BlendHSLLuminosity, true
	}
	return 0, false
}

// BlendEquationSet is a bit set of blend equations.
type BlendEquationSet uint32

// Add returns s with e included.
func (s BlendEquationSet) Add(e BlendEquation) BlendEquationSet {
	return s | 1<<e
}

// Has reports whether e is in s.
func (s BlendEquationSet) Has(e BlendEquation) bool {
	return s&(1<<e) != 0
}

// AnyHSL reports whether s contains any HSL equation.
func (s BlendEquationSet) AnyHSL() bool {
	for e := BlendHSLHue; e <= BlendHSLLuminosity; e++ {
		if s.Has(e) {
			return true
		}
	}
	return false
}

// Equations lists the members of s in ascending order.
func (s BlendEquationSet) Equations() []BlendEquation {
	var out []BlendEquation
	for e := BlendEquation(0); e < blendEquationCount; e++ {
		if s.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

// AllAdvancedBlendEquations contains every KHR advanced equation.
func AllAdvancedBlendEquations() BlendEquationSet {
	var s BlendEquationSet
	for e := BlendMultiply; e < blendEquationCount; e++ {
		s = s.Add(e)
	}
	return s
}

// LogicOp is a framebuffer logic operation, in GL enum order.
type LogicOp uint32

const (
	LogicOpClear LogicOp = iota
	LogicOpAnd
	LogicOpAndReverse
	LogicOpCopy
	LogicOpAndInverted
	LogicOpNoop
	LogicOpXor
	LogicOpOr
	LogicOpNor
	LogicOpEquiv
	LogicOpInvert
	LogicOpOrReverse
	LogicOpCopyInverted
	LogicOpOrInverted
	LogicOpNand
	LogicOpSet

	LogicOpCount
)

var logicOpNames = [...]string{
	"clear", "and", "and_reverse", "copy", "and_inverted", "noop", "xor", "or",
	"nor", "equiv", "invert", "or_reverse", "copy_inverted", "or_inverted", "nand", "set",
}

func (op LogicOp) String() string {
	if op < LogicOpCount {
		return logicOpNames[op]
	}
	return fmt.Sprintf("LogicOp(%d)", uint32(op))
}
