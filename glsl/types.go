// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/essl/ir"
)

// typeName returns the GLSL name of one element of t.
func (w *Writer) typeName(t *ir.Type) string {
	switch t.Basic {
	case ir.BasicStruct:
		return w.structName(t.Struct)
	case ir.BasicInterfaceBlock:
		return blockName(t.Block, w.options.HashFunction)
	}
	return t.BaseTypeName()
}

// precision returns the precision qualifier written for t. derived is
// used when t has none.
func (w *Writer) precision(t *ir.Type, derived ir.Precision) string {
	v := w.options.Version
	if !v.ES && v.Number < 130 {
		return ""
	}
	if !t.CanHavePrecision() {
		return ""
	}
	p := t.Precision
	if p == ir.PrecisionUndefined {
		p = derived
	}
	return p.String()
}

// layout returns "layout(...)" for the values set in l, or "".
func (w *Writer) layout(l ir.LayoutQualifier) string {
	var parts []string
	add := func(name string, v int) {
		if v >= 0 {
			parts = append(parts, fmt.Sprintf("%s = %d", name, v))
		}
	}
	add("location", l.Location)
	add("index", l.Index)
	add("binding", l.Binding)
	add("offset", l.Offset)
	add("input_attachment_index", l.InputAttachmentIndex)
	add("constant_id", l.ConstantID)
	parts = appendNonEmpty(parts, l.BlockStorage.String())
	switch l.MatrixPacking {
	case ir.MatrixPackingRowMajor:
		parts = append(parts, "row_major")
	case ir.MatrixPackingColumnMajor:
		parts = append(parts, "column_major")
	}
	if l.YUV {
		parts = append(parts, "yuv")
	}
	if len(parts) == 0 {
		return ""
	}
	return "layout(" + strings.Join(parts, ", ") + ")"
}

func memory(m ir.MemoryQualifier) string {
	var parts []string
	if m.Coherent {
		parts = append(parts, "coherent")
	}
	if m.Volatile {
		parts = append(parts, "volatile")
	}
	if m.Restrict {
		parts = append(parts, "restrict")
	}
	if m.ReadOnly {
		parts = append(parts, "readonly")
	}
	if m.WriteOnly {
		parts = append(parts, "writeonly")
	}
	return strings.Join(parts, " ")
}

// qualifier returns the storage qualifier written in a declaration.
func qualifier(q ir.Qualifier) string {
	if q.IsBuiltIn() || q.IsParam() {
		return ""
	}
	return q.String()
}
