// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package emulate

import (
	"errors"
	"fmt"

	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/ir"
)

var (
	// ErrNoMain is returned when a tree has no main function to splice
	// code into.
	ErrNoMain = errors.New("emulate: shader has no main function")

	// ErrInvalidTree is returned when a rewritten tree fails validation.
	ErrInvalidTree = errors.New("emulate: rewritten tree is invalid")
)

// RunAtTheEndOfShader makes code run after everything else in main. When
// main returns early, its body moves into an internal function that the
// new main calls before code. The tree is validated afterwards.
func RunAtTheEndOfShader(tree *ir.Tree, code *ir.Block) error {
	if err := tree.CheckMutable(); err != nil {
		return err
	}
	mainIndex := -1
	for i, n := range tree.Root.Stmts {
		if fd, ok := n.(*ir.FunctionDefinition); ok && fd.Function().IsMain() {
			mainIndex = i
			break
		}
	}
	if mainIndex < 0 {
		return ErrNoMain
	}
	mainDef := tree.Root.Stmts[mainIndex].(*ir.FunctionDefinition)

	if !ir.ContainsReturn(mainDef.Body) {
		mainDef.Body.Stmts = append(mainDef.Body.Stmts, code)
	} else {
		original := ir.CreateInternalFunction(tree.Symbols, "ANGLE_main", voidType())
		originalDef := ir.NewFunctionDefinition(original, mainDef.Body)
		mainDef.Body = ir.NewBlock(ir.CreateCall(original), code)
		if err := tree.InsertStatements(mainIndex, originalDef); err != nil {
			return err
		}
		diag.Logger().Debug("emulate: main wrapped for early returns", "function", original.Name)
	}

	errs, err := ir.Validate(tree)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTree, errs[0].Error())
	}
	return nil
}

// FragmentOutput is one fragment shader output with the location of its
// first element.
type FragmentOutput struct {
	Var      *ir.Variable
	Location int
}

// Elements returns the number of locations the output covers.
func (o FragmentOutput) Elements() int {
	if o.Var.Type.IsArray() {
		return int(o.Var.Type.OutermostArraySize())
	}
	return 1
}

// element returns a fresh expression for element i of the output.
func (o FragmentOutput) element(i int) ir.Expr {
	if o.Var.Type.IsArray() {
		return ir.NewIndexDirect(ir.NewSymbol(o.Var), i)
	}
	return ir.NewSymbol(o.Var)
}

// GatherFragmentOutputs returns the fragment outputs declared at global
// scope, in declaration order. Outputs without a location are numbered by
// their position. Shaders that declare none get gl_FragColor or
// gl_FragData when they write it.
func GatherFragmentOutputs(tree *ir.Tree) []FragmentOutput {
	var outputs []FragmentOutput
	for _, n := range tree.Root.Stmts {
		d, ok := n.(*ir.Declaration)
		if !ok || len(d.Declarators) != 1 {
			continue
		}
		s := ir.DeclaredSymbol(d.Declarators[0])
		if s == nil {
			continue
		}
		q := s.Var.Type.Qualifier
		if q != ir.QualFragmentOut && q != ir.QualFragmentInOut {
			continue
		}
		loc := s.Var.Type.Layout.Location
		if loc < 0 {
			loc = len(outputs)
		}
		outputs = append(outputs, FragmentOutput{Var: s.Var, Location: loc})
	}
	if len(outputs) > 0 {
		return outputs
	}

	w := &ir.Walker{
		Symbol: func(_ *ir.Walker, s *ir.Symbol) {
			q := s.Var.Type.Qualifier
			if len(outputs) == 0 && (q == ir.QualFragColor || q == ir.QualFragData) {
				outputs = append(outputs, FragmentOutput{Var: s.Var, Location: 0})
			}
		},
	}
	w.Walk(tree.Root)
	return outputs
}
