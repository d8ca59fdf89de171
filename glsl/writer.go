// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/essl/collect"
	"github.com/gogpu/essl/ir"
)

// Writer generates GLSL source code from a tree.
type Writer struct {
	tree    *ir.Tree
	options *Options

	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	// Name management
	names map[*ir.Variable]string

	// Struct definitions already written, at global or local scope
	structsWritten map[*ir.Structure]bool
}

func newWriter(tree *ir.Tree, options *Options) *Writer {
	return &Writer{
		tree:           tree,
		options:        options,
		names:          make(map[*ir.Variable]string),
		structsWritten: make(map[*ir.Structure]bool),
	}
}

// String returns the generated GLSL source code.
func (w *Writer) String() string {
	return w.out.String()
}

// writeTree generates the whole shader.
func (w *Writer) writeTree() error {
	v := w.options.Version
	if !v.ES || v.Number > 100 {
		w.writeLine("#version %s", v)
	}
	for _, ext := range w.tree.Extensions {
		w.writeLine("#extension %s : require", ext)
	}
	if w.options.Flags&WriterFlagDefaultPrecision != 0 && v.ES && w.tree.ShaderType == ir.ShaderFragment {
		w.writeLine("precision highp float;")
		w.writeLine("precision highp int;")
	}
	if w.out.Len() > 0 {
		w.writeLine("")
	}

	for _, n := range w.tree.Root.Stmts {
		if err := w.writeGlobal(n); err != nil {
			return err
		}
	}
	return nil
}

// writeGlobal writes one statement of the root block.
func (w *Writer) writeGlobal(n ir.Node) error {
	switch n := n.(type) {
	case *ir.FunctionPrototype:
		w.writeFunctionStructs(n.Fn)
		w.writeLine("%s;", w.prototype(n.Fn))
		return nil
	case *ir.FunctionDefinition:
		return w.writeFunction(n)
	}
	return w.writeStatement(n)
}

// writeFunction writes a function definition followed by a blank line.
func (w *Writer) writeFunction(fd *ir.FunctionDefinition) error {
	fn := fd.Function()
	w.writeFunctionStructs(fn)
	if w.options.Flags&WriterFlagDebugInfo != 0 && fd.Loc().Line > 0 {
		w.writeLine("// %s at line %d", fn.Name, fd.Loc().Line)
	}
	w.writeLine("%s", w.prototype(fn))
	if err := w.writeBraced(fd.Body); err != nil {
		return err
	}
	w.writeLine("")
	return nil
}

func (w *Writer) writeFunctionStructs(fn *ir.Function) {
	w.writeStructDefinition(fn.ReturnType)
	for _, p := range fn.Params {
		w.writeStructDefinition(p.Type)
	}
}

// prototype returns "highp vec4 name(in highp vec2 a)" without a
// terminator.
func (w *Writer) prototype(fn *ir.Function) string {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		var parts []string
		if q := p.Type.Qualifier; q != ir.QualParamIn {
			parts = appendNonEmpty(parts, q.String())
		}
		parts = appendNonEmpty(parts, w.precision(p.Type, ir.PrecisionUndefined))
		parts = append(parts, w.typeName(p.Type))
		if p.Kind != ir.SymbolEmpty && p.Name != "" {
			parts = append(parts, w.varName(p)+p.Type.ArraySuffix())
		}
		params[i] = strings.Join(parts, " ")
	}
	ret := appendNonEmpty(nil, w.precision(fn.ReturnType, ir.PrecisionUndefined))
	ret = append(ret, w.typeName(fn.ReturnType)+fn.ReturnType.ArraySuffix())
	return fmt.Sprintf("%s %s(%s)", strings.Join(ret, " "), w.funcName(fn), strings.Join(params, ", "))
}

// writeStructDefinition writes "struct S { ... };" the first time S is
// met, after the structs its fields use.
func (w *Writer) writeStructDefinition(t *ir.Type) {
	if t == nil {
		return
	}
	if t.IsInterfaceBlock() {
		for _, f := range t.Block.Fields {
			w.writeStructDefinition(f.Type)
		}
		return
	}
	if !t.IsStructure() || w.structsWritten[t.Struct] {
		return
	}
	s := t.Struct
	w.structsWritten[s] = true
	for _, f := range s.Fields {
		w.writeStructDefinition(f.Type)
	}
	w.writeLine("struct %s", w.structName(s))
	w.writeLine("{")
	w.pushIndent()
	for _, f := range s.Fields {
		w.writeLine("%s;", w.fieldDecl(f, s.Kind))
	}
	w.popIndent()
	w.writeLine("};")
}

// fieldDecl returns a struct or block member without the semicolon.
func (w *Writer) fieldDecl(f *ir.Field, kind ir.SymbolKind) string {
	var parts []string
	parts = appendNonEmpty(parts, w.layout(f.Type.Layout))
	parts = appendNonEmpty(parts, w.precision(f.Type, ir.PrecisionUndefined))
	parts = append(parts, w.typeName(f.Type), fieldName(f.Name, kind, w.options.HashFunction)+f.Type.ArraySuffix())
	return strings.Join(parts, " ")
}

// writeBlockDeclaration writes an interface block declaration.
func (w *Writer) writeBlockDeclaration(v *ir.Variable) {
	t := v.Type
	b := t.Block
	w.writeStructDefinition(t)

	l := t.Layout
	if l.BlockStorage == ir.BlockStorageUnspecified {
		l.BlockStorage = b.Storage
	}
	if l.MatrixPacking == ir.MatrixPackingUnspecified {
		l.MatrixPacking = b.MatrixPacking
	}
	if l.Binding < 0 {
		l.Binding = b.Binding
	}
	var head []string
	head = appendNonEmpty(head, w.layout(l))
	head = appendNonEmpty(head, memory(t.Memory))
	head = appendNonEmpty(head, t.Qualifier.String())
	head = append(head, blockName(b, w.options.HashFunction))
	w.writeLine("%s", strings.Join(head, " "))
	w.writeLine("{")
	w.pushIndent()
	for _, f := range b.Fields {
		w.writeLine("%s;", w.fieldDecl(f, b.Kind))
	}
	w.popIndent()
	if v.Name == "" {
		w.writeLine("};")
		return
	}
	w.writeLine("} %s%s;", w.varName(v), t.ArraySuffix())
}

// Name mapping follows the collector so that reflected names match.

func (w *Writer) varName(v *ir.Variable) string {
	if n, ok := w.names[v]; ok {
		return n
	}
	n := collect.HashName(v.Name, v.Kind, w.options.HashFunction)
	w.names[v] = n
	return n
}

func (w *Writer) funcName(fn *ir.Function) string {
	if fn.IsMain() {
		return "main"
	}
	return collect.HashName(fn.Name, fn.Kind, w.options.HashFunction)
}

func (w *Writer) structName(s *ir.Structure) string {
	return collect.HashName(s.Name, s.Kind, w.options.HashFunction)
}

func blockName(b *ir.InterfaceBlockType, hash collect.HashFunc) string {
	return collect.HashName(b.Name, b.Kind, hash)
}

func fieldName(name string, kind ir.SymbolKind, hash collect.HashFunc) string {
	return collect.HashName(name, kind, hash)
}

// Output helpers

func (w *Writer) writeLine(format string, args ...any) {
	if format != "" {
		w.out.WriteString(strings.Repeat(" ", w.indent*w.options.IndentWidth))
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

func (w *Writer) pushIndent() { w.indent++ }

func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}

func appendNonEmpty(parts []string, s string) []string {
	if s == "" {
		return parts
	}
	return append(parts, s)
}
