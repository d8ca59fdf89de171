// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package sh holds the reflection model a compiled shader reports: shader
// variables, interface blocks and the traversal used to flatten them.
package sh

import (
	"fmt"
	"strings"

	"github.com/gogpu/essl/gl"
)

// Interpolation qualifies how a varying is interpolated.
type Interpolation uint8

const (
	InterpolationSmooth Interpolation = iota
	InterpolationCentroid
	InterpolationSample
	InterpolationFlat
	InterpolationNoPerspective
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationSmooth:
		return "smooth"
	case InterpolationCentroid:
		return "centroid"
	case InterpolationSample:
		return "sample"
	case InterpolationFlat:
		return "flat"
	case InterpolationNoPerspective:
		return "noperspective"
	}
	return fmt.Sprintf("Interpolation(%d)", uint8(i))
}

// ShaderVariable describes one reflected variable, struct field or block
// member. ArraySizes lists extents outermost first; a nil slice means the
// variable is not an array.
type ShaderVariable struct {
	Type                    gl.Enum          `json:"type_enum"`
	Precision               gl.Enum          `json:"precision_enum"`
	Name                    string           `json:"name"`
	MappedName              string           `json:"mapped_name"`
	ArraySizes              []uint           `json:"array_sizes,omitempty"`
	StaticUse               bool             `json:"static_use"`
	Active                  bool             `json:"active"`
	Fields                  []ShaderVariable `json:"fields,omitempty"`
	StructOrBlockName       string           `json:"struct_name,omitempty"`
	MappedStructOrBlockName string           `json:"mapped_struct_name,omitempty"`
	IsRowMajorLayout        bool             `json:"is_row_major"`

	Location             int           `json:"location"`
	Binding              int           `json:"binding"`
	Offset               int           `json:"offset"`
	Index                int           `json:"index"`
	InputAttachmentIndex int           `json:"input_attachment_index"`
	ReadOnly             bool          `json:"readonly,omitempty"`
	WriteOnly            bool          `json:"writeonly,omitempty"`
	Interpolation        Interpolation `json:"interpolation"`
	IsInvariant          bool          `json:"is_invariant,omitempty"`
	IsShaderIOBlock      bool          `json:"is_io_block,omitempty"`
	IsPatch              bool          `json:"is_patch,omitempty"`

	// Set by IndexIntoArray on the element copies produced while traversing
	// arrays of arrays.
	flattenedOffsetInParentArrays int
	hasParentArrayIndex           bool
}

// NewShaderVariable returns a variable with unassigned location, binding,
// offset and index.
func NewShaderVariable(t gl.Enum, name string) ShaderVariable {
	return ShaderVariable{
		Type:                 t,
		Name:                 name,
		MappedName:           name,
		Location:             -1,
		Binding:              -1,
		Offset:               -1,
		Index:                -1,
		InputAttachmentIndex: -1,
	}
}

// IsArray reports whether v has at least one array dimension.
func (v *ShaderVariable) IsArray() bool { return len(v.ArraySizes) > 0 }

// IsArrayOfArrays reports whether v has two or more array dimensions.
func (v *ShaderVariable) IsArrayOfArrays() bool { return len(v.ArraySizes) >= 2 }

// IsStruct reports whether v has fields. Interface blocks declared as shader
// I/O blocks are structs too.
func (v *ShaderVariable) IsStruct() bool { return len(v.Fields) > 0 }

// IsBuiltIn reports whether v is a gl_ built-in.
func (v *ShaderVariable) IsBuiltIn() bool { return strings.HasPrefix(v.Name, "gl_") }

// IsEmulatedBuiltIn reports whether v is a built-in the translator replaced
// by an ordinary variable.
func (v *ShaderVariable) IsEmulatedBuiltIn() bool {
	return v.IsBuiltIn() && v.Name != v.MappedName
}

// ArraySizeProduct returns the total element count, 1 for non-arrays.
func (v *ShaderVariable) ArraySizeProduct() uint {
	product := uint(1)
	for _, s := range v.ArraySizes {
		product *= s
	}
	return product
}

// InnerArraySizeProduct returns the element count of all but the outermost
// dimension.
func (v *ShaderVariable) InnerArraySizeProduct() uint {
	product := uint(1)
	for i := 1; i < len(v.ArraySizes); i++ {
		product *= v.ArraySizes[i]
	}
	return product
}

// OutermostArraySize returns the outermost extent, or 0 for non-arrays.
func (v *ShaderVariable) OutermostArraySize() uint {
	if !v.IsArray() {
		return 0
	}
	return v.ArraySizes[0]
}

// NestedArraySize returns the extent at the given depth, 0 being outermost.
func (v *ShaderVariable) NestedArraySize(depth int) uint {
	return v.ArraySizes[depth]
}

// HasParentArrayIndex reports whether v was produced by IndexIntoArray.
func (v *ShaderVariable) HasParentArrayIndex() bool { return v.hasParentArrayIndex }

// FlattenedOffsetInParentArrays returns the row-major element offset of v
// within the arrays it was indexed out of, or -1.
func (v *ShaderVariable) FlattenedOffsetInParentArrays() int {
	if !v.hasParentArrayIndex {
		return -1
	}
	return v.flattenedOffsetInParentArrays
}

// IndexIntoArray turns v into its element at index, removing the outermost
// dimension.
func (v *ShaderVariable) IndexIntoArray(index uint) {
	if !v.IsArray() {
		panic("sh: IndexIntoArray on non-array variable " + v.Name)
	}
	parent := 0
	if v.hasParentArrayIndex {
		parent = v.flattenedOffsetInParentArrays
	}
	v.flattenedOffsetInParentArrays = int(index) + int(v.ArraySizes[0])*parent
	v.hasParentArrayIndex = true
	v.ArraySizes = append([]uint(nil), v.ArraySizes[1:]...)
	if len(v.ArraySizes) == 0 {
		v.ArraySizes = nil
	}
}

// Validate checks the structural invariants of v and its fields.
func (v *ShaderVariable) Validate() error {
	if v.IsStruct() && v.Type != gl.None {
		return fmt.Errorf("sh: variable %q has fields but type %v", v.Name, v.Type)
	}
	if !v.IsStruct() && v.Type == gl.None && !v.IsShaderIOBlock {
		return fmt.Errorf("sh: variable %q has no type and no fields", v.Name)
	}
	for i := range v.Fields {
		if err := v.Fields[i].Validate(); err != nil {
			return fmt.Errorf("%s: %w", v.Name, err)
		}
	}
	return nil
}

// IsSameVariableAtLinkTime reports whether two stages' declarations of a
// variable agree in type, precision and shape.
func (v *ShaderVariable) IsSameVariableAtLinkTime(other *ShaderVariable, matchPrecision, matchName bool) bool {
	if v.Type != other.Type {
		return false
	}
	if matchPrecision && v.Precision != other.Precision {
		return false
	}
	if matchName && v.Name != other.Name {
		return false
	}
	if len(v.ArraySizes) != len(other.ArraySizes) {
		return false
	}
	for i := range v.ArraySizes {
		if v.ArraySizes[i] != other.ArraySizes[i] {
			return false
		}
	}
	if len(v.Fields) != len(other.Fields) || v.StructOrBlockName != other.StructOrBlockName {
		return false
	}
	for i := range v.Fields {
		if !v.Fields[i].IsSameVariableAtLinkTime(&other.Fields[i], matchPrecision, true) {
			return false
		}
	}
	return true
}

// FindField returns the field with the given name.
func (v *ShaderVariable) FindField(name string) (*ShaderVariable, bool) {
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			return &v.Fields[i], true
		}
	}
	return nil, false
}

// ArrayString formats an index suffix such as "[3]".
func ArrayString(index uint) string {
	return fmt.Sprintf("[%d]", index)
}

// FindVariable returns the entry with the given name.
func FindVariable(name string, list []ShaderVariable) *ShaderVariable {
	for i := range list {
		if list[i].Name == name {
			return &list[i]
		}
	}
	return nil
}
