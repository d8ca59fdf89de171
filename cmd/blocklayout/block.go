// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/essl/gl"
	"github.com/gogpu/essl/layout"
	"github.com/gogpu/essl/sh"
)

// blockDesc is the YAML description of an interface block.
type blockDesc struct {
	Name     string      `yaml:"name"`
	Instance string      `yaml:"instance"`
	Layout   string      `yaml:"layout"`
	RowMajor bool        `yaml:"row_major"`
	Fields   []fieldDesc `yaml:"fields"`
}

// fieldDesc is a member. A member with fields is a struct; Type then names
// the struct and may be empty.
type fieldDesc struct {
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Array    []uint      `yaml:"array"`
	RowMajor *bool       `yaml:"row_major"`
	Fields   []fieldDesc `yaml:"fields"`
}

// member is one encoded leaf, in encoding order.
type member struct {
	Name string
	Type gl.Enum
	Info layout.BlockMemberInfo
}

func decodeBlock(r io.Reader) (*blockDesc, error) {
	var b blockDesc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode block: %w", err)
	}
	if b.Name == "" {
		return nil, fmt.Errorf("block has no name")
	}
	if len(b.Fields) == 0 {
		return nil, fmt.Errorf("block %s has no fields", b.Name)
	}
	return &b, nil
}

// encoder returns the encoder for a layout name.
func encoderFor(name string) (layout.Encoder, error) {
	switch name {
	case "", "std140":
		return layout.NewStd140Encoder(), nil
	case "std430":
		return layout.NewStd430Encoder(), nil
	case "hlsl":
		return layout.NewHLSLEncoder(layout.HLSLPacked, false), nil
	case "hlsl_loose":
		return layout.NewHLSLEncoder(layout.HLSLLoose, false), nil
	}
	return nil, fmt.Errorf("unknown layout %q", name)
}

func shaderVariable(f fieldDesc, rowMajor bool) (sh.ShaderVariable, error) {
	if f.RowMajor != nil {
		rowMajor = *f.RowMajor
	}
	if len(f.Fields) > 0 {
		sv := sh.NewShaderVariable(gl.None, f.Name)
		sv.StructOrBlockName = f.Type
		sv.ArraySizes = f.Array
		sv.IsRowMajorLayout = rowMajor
		for _, sub := range f.Fields {
			fv, err := shaderVariable(sub, rowMajor)
			if err != nil {
				return sv, fmt.Errorf("%s: %w", f.Name, err)
			}
			sv.Fields = append(sv.Fields, fv)
		}
		return sv, nil
	}
	t, ok := gl.ParseType(f.Type)
	if !ok {
		return sh.ShaderVariable{}, fmt.Errorf("%s: unknown type %q", f.Name, f.Type)
	}
	sv := sh.NewShaderVariable(t, f.Name)
	sv.ArraySizes = f.Array
	sv.IsRowMajorLayout = rowMajor
	return sv, nil
}

// encode lays out the block and returns its leaves and size in bytes.
func (b *blockDesc) encode() ([]member, int, error) {
	enc, err := encoderFor(b.Layout)
	if err != nil {
		return nil, 0, err
	}
	fields := make([]sh.ShaderVariable, 0, len(b.Fields))
	for _, f := range b.Fields {
		sv, err := shaderVariable(f, b.RowMajor)
		if err != nil {
			return nil, 0, err
		}
		fields = append(fields, sv)
	}

	prefix := ""
	if b.Instance != "" {
		prefix = b.Name
	}
	var members []member
	visitor := layout.NewEncoderVisitor(prefix, prefix, enc, func(v *sh.ShaderVariable, info layout.BlockMemberInfo, name, _ string) {
		members = append(members, member{Name: name, Type: v.Type, Info: info})
	})
	sh.TraverseShaderVariables(fields, false, visitor)
	return members, enc.BlockSize(), nil
}

func writeLayout(w io.Writer, b *blockDesc, members []member, size int) error {
	layoutName := b.Layout
	if layoutName == "" {
		layoutName = "std140"
	}
	if _, err := fmt.Fprintf(w, "block %s (%s), %d bytes\n", b.Name, layoutName, size); err != nil {
		return err
	}
	for _, m := range members {
		line := fmt.Sprintf("  %-24s %-8s offset=%d", m.Name, m.Type, m.Info.Offset)
		if m.Info.ArrayStride > 0 {
			line += fmt.Sprintf(" array_stride=%d", m.Info.ArrayStride)
		}
		if m.Info.MatrixStride > 0 {
			line += fmt.Sprintf(" matrix_stride=%d", m.Info.MatrixStride)
		}
		if m.Info.IsRowMajorMatrix {
			line += " row_major"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
