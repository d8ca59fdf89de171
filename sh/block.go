// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sh

import "fmt"

// BlockLayoutType is the memory layout qualifier of an interface block.
type BlockLayoutType uint8

const (
	BlockLayoutStandard BlockLayoutType = iota // std140
	BlockLayoutStd430
	BlockLayoutPacked
	BlockLayoutShared
)

func (l BlockLayoutType) String() string {
	switch l {
	case BlockLayoutStandard:
		return "std140"
	case BlockLayoutStd430:
		return "std430"
	case BlockLayoutPacked:
		return "packed"
	case BlockLayoutShared:
		return "shared"
	}
	return fmt.Sprintf("BlockLayoutType(%d)", uint8(l))
}

// BlockType distinguishes the storage an interface block is declared in.
type BlockType uint8

const (
	BlockTypeUniform BlockType = iota
	BlockTypeBuffer
	BlockTypeIn
	BlockTypeOut
)

func (t BlockType) String() string {
	switch t {
	case BlockTypeUniform:
		return "uniform"
	case BlockTypeBuffer:
		return "buffer"
	case BlockTypeIn:
		return "in"
	case BlockTypeOut:
		return "out"
	}
	return fmt.Sprintf("BlockType(%d)", uint8(t))
}

// InterfaceBlock describes a uniform, storage or I/O block.
type InterfaceBlock struct {
	Name             string           `json:"name"`
	MappedName       string           `json:"mapped_name"`
	InstanceName     string           `json:"instance_name,omitempty"`
	ArraySize        uint             `json:"array_size"`
	Layout           BlockLayoutType  `json:"layout"`
	IsRowMajorLayout bool             `json:"is_row_major"`
	Binding          int              `json:"binding"`
	StaticUse        bool             `json:"static_use"`
	Active           bool             `json:"active"`
	BlockType        BlockType        `json:"block_type"`
	Fields           []ShaderVariable `json:"fields"`
}

// IsArray reports whether the block is declared as an array of blocks.
func (b *InterfaceBlock) IsArray() bool { return b.ArraySize > 0 }

// FieldPrefix is the name reflection prepends to member names.
func (b *InterfaceBlock) FieldPrefix() string {
	if b.InstanceName == "" {
		return ""
	}
	return b.Name
}

// FieldMappedPrefix is FieldPrefix for mapped names.
func (b *InterfaceBlock) FieldMappedPrefix() string {
	if b.InstanceName == "" {
		return ""
	}
	return b.MappedName
}

// IsBuiltIn reports whether the block is a gl_ built-in block.
func (b *InterfaceBlock) IsBuiltIn() bool {
	return len(b.Name) > 3 && b.Name[:3] == "gl_"
}
