// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"errors"
	"fmt"
)

// ErrTreeFrozen is returned by mutating operations once precision
// propagation has frozen the tree.
var ErrTreeFrozen = errors.New("ir: tree is frozen")

// ShaderSpec is the API flavor a shader is compiled for.
type ShaderSpec uint8

const (
	SpecGLES2 ShaderSpec = iota
	SpecWebGL
	SpecGLES3
	SpecWebGL2
	SpecGLES31
	SpecWebGL3
	SpecDesktopGL
)

var specNames = [...]string{"gles2", "webgl", "gles3", "webgl2", "gles31", "webgl3", "gl"}

func (s ShaderSpec) String() string {
	if int(s) < len(specNames) {
		return specNames[s]
	}
	return fmt.Sprintf("ShaderSpec(%d)", uint8(s))
}

// ParseShaderSpec returns the ShaderSpec spelled name, such as "gles3".
func ParseShaderSpec(name string) (ShaderSpec, error) {
	for i, n := range specNames {
		if n == name {
			return ShaderSpec(i), nil
		}
	}
	return 0, fmt.Errorf("ir: unknown shader spec %q", name)
}

// IsWebGL reports whether s is a WebGL flavor.
func (s ShaderSpec) IsWebGL() bool {
	return s == SpecWebGL || s == SpecWebGL2 || s == SpecWebGL3
}

// IsDesktop reports whether s is desktop GLSL.
func (s ShaderSpec) IsDesktop() bool { return s == SpecDesktopGL }

// InternalError reports a broken invariant inside the translator. It is
// raised with panic.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string { return "ir: internal error: " + e.Message }

// Assert panics with an *InternalError when cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(&InternalError{Message: fmt.Sprintf(format, args...)})
	}
}

// Tree is one shader being translated.
type Tree struct {
	Root       *Block
	Symbols    *SymbolTable
	ShaderType ShaderType
	Spec       ShaderSpec
	Version    int
	// Extensions lists the extensions the output must enable.
	Extensions []string

	frozen bool
}

// NewTree returns an empty tree.
func NewTree(shaderType ShaderType, spec ShaderSpec, version int) *Tree {
	return &Tree{
		Root:       &Block{},
		Symbols:    NewSymbolTable(shaderType),
		ShaderType: shaderType,
		Spec:       spec,
		Version:    version,
	}
}

// Freeze marks the tree read-only. It cannot be undone.
func (t *Tree) Freeze() { t.frozen = true }

// Frozen reports whether Freeze was called.
func (t *Tree) Frozen() bool { return t.frozen }

// CheckMutable returns ErrTreeFrozen once the tree is frozen.
func (t *Tree) CheckMutable() error {
	if t.frozen {
		return ErrTreeFrozen
	}
	return nil
}

// InsertStatements inserts global statements before position index of the
// root block.
func (t *Tree) InsertStatements(index int, nodes ...Node) error {
	if err := t.CheckMutable(); err != nil {
		return err
	}
	if index < 0 || index > len(t.Root.Stmts) {
		return fmt.Errorf("ir: insert position %d out of range [0, %d]", index, len(t.Root.Stmts))
	}
	stmts := make([]Node, 0, len(t.Root.Stmts)+len(nodes))
	stmts = append(stmts, t.Root.Stmts[:index]...)
	stmts = append(stmts, nodes...)
	t.Root.Stmts = append(stmts, t.Root.Stmts[index:]...)
	return nil
}

// AppendStatement appends a global statement to the root block.
func (t *Tree) AppendStatement(n Node) error {
	if err := t.CheckMutable(); err != nil {
		return err
	}
	t.Root.Stmts = append(t.Root.Stmts, n)
	return nil
}

// FirstFunctionIndex returns the root position of the first function
// prototype or definition, or the root length when there is none. Global
// declarations inserted there precede every use.
func (t *Tree) FirstFunctionIndex() int {
	for i, n := range t.Root.Stmts {
		switch n.(type) {
		case *FunctionDefinition, *FunctionPrototype:
			return i
		}
	}
	return len(t.Root.Stmts)
}

// RequireExtension records that the output needs ext.
func (t *Tree) RequireExtension(ext string) {
	for _, e := range t.Extensions {
		if e == ext {
			return
		}
	}
	t.Extensions = append(t.Extensions, ext)
}

// Functions returns the function definitions of the tree.
func (t *Tree) Functions() []*FunctionDefinition {
	var out []*FunctionDefinition
	for _, n := range t.Root.Stmts {
		if fd, ok := n.(*FunctionDefinition); ok {
			out = append(out, fd)
		}
	}
	return out
}

// Main returns the definition of main, or nil.
func (t *Tree) Main() *FunctionDefinition {
	return FindMain(t.Root)
}
