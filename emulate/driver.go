// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package emulate rewrites a tree to emulate fixed-function features the
// target cannot express: framebuffer dithering, advanced blend equations
// and logic operations. The rewriters read runtime state through driver
// uniforms or specialization constants and splice their code at the end of
// main.
package emulate

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/essl/collect"
	"github.com/gogpu/essl/gl"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/layout"
	"github.com/gogpu/essl/sh"
)

// DriverUniforms gives rewriters access to runtime state the backend
// uploads. Every method returns a new expression node.
type DriverUniforms interface {
	DitherControl() ir.Expr
	AdvancedBlendEquation() ir.Expr
	LogicOp() ir.Expr
	LogicOpChannelWidths() ir.Expr
	Viewport() ir.Expr
}

// Driver uniform block names.
const (
	DriverUniformBlockName    = "ANGLEUniformBlock"
	DriverUniformInstanceName = "ANGLEUniforms"
)

// DriverUniformField is one member of the driver uniform block.
type DriverUniformField struct {
	Name string
	Type *ir.Type
}

// Field indices of the driver uniform block. New fields are appended.
const (
	fieldViewport = iota
	fieldDitherControl
	fieldAdvancedBlendEquation
	fieldLogicOp
	fieldLogicOpChannelWidths
)

func driverUniformFields() []DriverUniformField {
	uint32Type := ir.NewScalarType(ir.BasicUInt, ir.PrecisionHigh, ir.QualTemporary)
	return []DriverUniformField{
		fieldViewport:              {"viewport", ir.NewVectorType(ir.BasicFloat, 4, ir.PrecisionHigh, ir.QualTemporary)},
		fieldDitherControl:         {"ditherControl", uint32Type},
		fieldAdvancedBlendEquation: {"advancedBlendEquation", uint32Type},
		fieldLogicOp:               {"logicOp", uint32Type},
		fieldLogicOpChannelWidths:  {"logicOpChannelWidths", uint32Type},
	}
}

// DriverUniformBlock declares the driver uniforms as one std140 uniform
// block at the top of a tree.
type DriverUniformBlock struct {
	fields   []DriverUniformField
	instance *ir.Variable
	layout   layout.BlockLayoutMap
	size     int
}

// NewDriverUniformBlock declares the block in tree.
func NewDriverUniformBlock(tree *ir.Tree) (*DriverUniformBlock, error) {
	if err := tree.CheckMutable(); err != nil {
		return nil, err
	}
	d := &DriverUniformBlock{fields: driverUniformFields()}
	irFields := make([]*ir.Field, len(d.fields))
	for i, f := range d.fields {
		irFields[i] = &ir.Field{Name: f.Name, Type: f.Type}
	}
	blockType := tree.Symbols.DeclareInterfaceBlock(DriverUniformBlockName, ir.SymbolInternal, ir.BlockStorageStd140, irFields...)
	d.instance = tree.Symbols.DeclareInternal(DriverUniformInstanceName, ir.NewBlockType(blockType, ir.QualUniform))
	if err := tree.InsertStatements(0, ir.NewDeclaration(ir.NewSymbol(d.instance))); err != nil {
		return nil, err
	}
	ib := d.InterfaceBlock()
	d.layout, d.size = layout.GetBlockLayout(&ib)
	return d, nil
}

func (d *DriverUniformBlock) field(i int) ir.Expr {
	return ir.NewFieldAccess(ir.NewSymbol(d.instance), i)
}

func (d *DriverUniformBlock) DitherControl() ir.Expr         { return d.field(fieldDitherControl) }
func (d *DriverUniformBlock) AdvancedBlendEquation() ir.Expr { return d.field(fieldAdvancedBlendEquation) }
func (d *DriverUniformBlock) LogicOp() ir.Expr               { return d.field(fieldLogicOp) }
func (d *DriverUniformBlock) LogicOpChannelWidths() ir.Expr  { return d.field(fieldLogicOpChannelWidths) }
func (d *DriverUniformBlock) Viewport() ir.Expr              { return d.field(fieldViewport) }

// Fields returns the block members in declaration order.
func (d *DriverUniformBlock) Fields() []DriverUniformField { return d.fields }

// Variable returns the block instance.
func (d *DriverUniformBlock) Variable() *ir.Variable { return d.instance }

// InterfaceBlock returns the reflection description of the block.
func (d *DriverUniformBlock) InterfaceBlock() sh.InterfaceBlock {
	ib := sh.InterfaceBlock{
		Name:         DriverUniformBlockName,
		MappedName:   DriverUniformBlockName,
		InstanceName: DriverUniformInstanceName,
		Layout:       sh.BlockLayoutStandard,
		Binding:      -1,
		BlockType:    sh.BlockTypeUniform,
		StaticUse:    true,
		Active:       true,
	}
	for _, f := range d.fields {
		sv := collect.ShaderVariableOf(f.Type, f.Name)
		sv.StaticUse = true
		sv.Active = true
		ib.Fields = append(ib.Fields, sv)
	}
	return ib
}

// Layout returns the std140 placement of every member, keyed by
// "ANGLEUniformBlock.<field>".
func (d *DriverUniformBlock) Layout() layout.BlockLayoutMap { return d.layout }

// Size returns the block size in bytes.
func (d *DriverUniformBlock) Size() int { return d.size }

// Pack returns the little-endian buffer contents for state.
func (d *DriverUniformBlock) Pack(state DriverState) []byte {
	buf := make([]byte, d.size)
	put := func(field int, v uint32) {
		info := d.layout.Lookup(DriverUniformBlockName + "." + d.fields[field].Name)
		binary.LittleEndian.PutUint32(buf[info.Offset:], v)
	}
	viewport := d.layout.Lookup(DriverUniformBlockName + "." + d.fields[fieldViewport].Name)
	for i, v := range state.Viewport {
		binary.LittleEndian.PutUint32(buf[viewport.Offset+4*i:], math.Float32bits(v))
	}
	put(fieldDitherControl, state.DitherControl())
	put(fieldAdvancedBlendEquation, uint32(state.BlendEquation))
	put(fieldLogicOp, uint32(state.LogicOp))
	put(fieldLogicOpChannelWidths, state.LogicOpChannelWidths())
	return buf
}

// OutputFormat describes the attachment behind one fragment output.
// GLFormat carries the sized GL format when it has no WebGPU equivalent,
// such as RGBA4, RGB5A1 or RGB565; it is 0 otherwise.
type OutputFormat struct {
	Format   gputypes.TextureFormat
	GLFormat gl.Enum
}

// Dither control values, two bits per output location.
const (
	DitherNone     = 0
	DitherRGBA4444 = 1
	DitherRGBA5551 = 2
	DitherRGB565   = 3
)

// ChannelWidths returns the red, green, blue and alpha bit widths.
func (f OutputFormat) ChannelWidths() [4]uint8 {
	switch f.GLFormat {
	case gl.RGBA4:
		return [4]uint8{4, 4, 4, 4}
	case gl.RGB5A1:
		return [4]uint8{5, 5, 5, 1}
	case gl.RGB565:
		return [4]uint8{5, 6, 5, 0}
	case gl.RGBA8, gl.SRGB8A8:
		return [4]uint8{8, 8, 8, 8}
	}
	switch f.Format {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return [4]uint8{8, 8, 8, 8}
	case gputypes.TextureFormatR8Unorm:
		return [4]uint8{8, 0, 0, 0}
	}
	return [4]uint8{}
}

func (f OutputFormat) ditherMode() uint32 {
	switch f.GLFormat {
	case gl.RGBA4:
		return DitherRGBA4444
	case gl.RGB5A1:
		return DitherRGBA5551
	case gl.RGB565:
		return DitherRGB565
	}
	return DitherNone
}

// DriverState is the runtime state uploaded through driver uniforms.
// Outputs is indexed by fragment output location.
type DriverState struct {
	Outputs       []OutputFormat
	Dither        bool
	BlendEquation gl.BlendEquation
	LogicOp       gl.LogicOp
	Viewport      [4]float32
}

// DitherControl packs the dither mode of each output, two bits per
// location. It is 0 when dithering is disabled.
func (s DriverState) DitherControl() uint32 {
	if !s.Dither {
		return 0
	}
	var control uint32
	for loc, out := range s.Outputs {
		if loc >= ir.MaxDrawBuffers {
			break
		}
		control |= out.ditherMode() << (2 * loc)
	}
	return control
}

// LogicOpChannelWidths packs the channel widths of output 0, eight bits
// per channel with red in the low byte.
func (s DriverState) LogicOpChannelWidths() uint32 {
	if len(s.Outputs) == 0 {
		return 0
	}
	w := s.Outputs[0].ChannelWidths()
	return uint32(w[0]) | uint32(w[1])<<8 | uint32(w[2])<<16 | uint32(w[3])<<24
}

func (s DriverState) String() string {
	return fmt.Sprintf("dither=%#x blend=%s logicOp=%s widths=%#x",
		s.DitherControl(), s.BlendEquation, s.LogicOp, s.LogicOpChannelWidths())
}
