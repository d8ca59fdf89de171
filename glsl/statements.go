// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"fmt"
	"strings"

	"github.com/gogpu/essl/ir"
)

// writeBraced writes a block between braces at the current indentation.
func (w *Writer) writeBraced(block *ir.Block) error {
	w.writeLine("{")
	w.pushIndent()
	for _, stmt := range block.Stmts {
		if err := w.writeStatement(stmt); err != nil {
			return err
		}
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

// writeStatement writes a single statement.
func (w *Writer) writeStatement(n ir.Node) error {
	switch n := n.(type) {
	case *ir.Block:
		return w.writeBraced(n)

	case *ir.Declaration:
		return w.writeDeclaration(n)

	case *ir.IfElse:
		return w.writeIf(n)

	case *ir.Switch:
		return w.writeSwitch(n)

	case *ir.Case:
		return fmt.Errorf("case label outside a switch at %s", n.Loc())

	case *ir.Branch:
		w.writeLine("%s;", w.branch(n))
		return nil

	case *ir.Loop:
		return w.writeLoop(n)

	case *ir.GlobalQualifierDeclaration:
		keyword := "precise"
		if n.Invariant {
			keyword = "invariant"
		}
		w.writeLine("%s %s;", keyword, w.varName(n.Symbol.Var))
		return nil

	case *ir.FunctionPrototype, *ir.FunctionDefinition:
		return fmt.Errorf("function %T inside a function body", n)

	case ir.Expr:
		w.writeLine("%s;", w.statementExpr(n))
		return nil
	}
	return fmt.Errorf("unsupported statement %T", n)
}

// writeDeclaration writes a variable declaration, preceded by the
// definition of any struct it introduces.
func (w *Writer) writeDeclaration(d *ir.Declaration) error {
	if len(d.Declarators) == 0 {
		return fmt.Errorf("empty declaration at %s", d.Loc())
	}
	first := ir.DeclaredSymbol(d.Declarators[0])
	if first == nil {
		return fmt.Errorf("declarator %T at %s", d.Declarators[0], d.Loc())
	}
	if first.Var.Type.IsInterfaceBlock() {
		w.writeBlockDeclaration(first.Var)
		return nil
	}
	w.writeStructDefinition(first.Var.Type)
	text, err := w.declaration(d)
	if err != nil {
		return err
	}
	w.writeLine("%s;", text)
	return nil
}

// declaration returns the declaration text without the semicolon.
func (w *Writer) declaration(d *ir.Declaration) (string, error) {
	var out []string
	for i, declarator := range d.Declarators {
		s := ir.DeclaredSymbol(declarator)
		if s == nil {
			return "", fmt.Errorf("declarator %T at %s", declarator, d.Loc())
		}
		var init ir.Expr
		if b, ok := declarator.(*ir.Binary); ok {
			init = b.Right
		}
		name := w.varName(s.Var) + s.Var.Type.ArraySuffix()
		if init != nil {
			name += " = " + w.statementExprArg(init)
		}
		if i > 0 {
			out = append(out, name)
			continue
		}

		t := s.Var.Type
		var parts []string
		if t.Invariant {
			parts = append(parts, "invariant")
		}
		if t.Precise {
			parts = append(parts, "precise")
		}
		parts = appendNonEmpty(parts, w.layout(t.Layout))
		parts = appendNonEmpty(parts, qualifier(t.Qualifier))
		parts = appendNonEmpty(parts, memory(t.Memory))
		derived := ir.PrecisionUndefined
		if init != nil && s.Var.IsInternal() {
			derived = init.DerivedPrecision()
		}
		parts = appendNonEmpty(parts, w.precision(t, derived))
		parts = append(parts, w.typeName(t), name)
		out = append(out, strings.Join(parts, " "))
	}
	return strings.Join(out, ", "), nil
}

func (w *Writer) writeIf(n *ir.IfElse) error {
	w.writeLine("if (%s)", w.statementExpr(n.Cond))
	if err := w.writeBraced(n.Then); err != nil {
		return err
	}
	if n.Else == nil || len(n.Else.Stmts) == 0 {
		return nil
	}
	w.writeLine("else")
	return w.writeBraced(n.Else)
}

// writeSwitch writes case labels one level inside the switch and the
// statements under them one level deeper.
func (w *Writer) writeSwitch(n *ir.Switch) error {
	w.writeLine("switch (%s)", w.statementExpr(n.Init))
	w.writeLine("{")
	w.pushIndent()
	for _, stmt := range n.Body.Stmts {
		if c, ok := stmt.(*ir.Case); ok {
			if c.Cond == nil {
				w.writeLine("default:")
			} else {
				w.writeLine("case %s:", w.expr(c.Cond))
			}
			continue
		}
		w.pushIndent()
		if err := w.writeStatement(stmt); err != nil {
			return err
		}
		w.popIndent()
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

func (w *Writer) writeLoop(n *ir.Loop) error {
	switch n.Kind {
	case ir.LoopWhile:
		w.writeLine("while (%s)", w.optionalExpr(n.Cond))
		return w.writeBraced(n.Body)
	case ir.LoopDoWhile:
		w.writeLine("do")
		if err := w.writeBraced(n.Body); err != nil {
			return err
		}
		w.writeLine("while (%s);", w.optionalExpr(n.Cond))
		return nil
	}

	var init string
	switch i := n.Init.(type) {
	case nil:
	case *ir.Declaration:
		text, err := w.declaration(i)
		if err != nil {
			return err
		}
		init = text
	case ir.Expr:
		init = w.statementExpr(i)
	default:
		return fmt.Errorf("unsupported loop initializer %T", n.Init)
	}
	cond := ""
	if n.Cond != nil {
		cond = " " + w.statementExpr(n.Cond)
	}
	step := ""
	if n.Expr != nil {
		step = " " + w.statementExpr(n.Expr)
	}
	w.writeLine("for (%s;%s;%s)", init, cond, step)
	return w.writeBraced(n.Body)
}

func (w *Writer) optionalExpr(e ir.Expr) string {
	if e == nil {
		return "true"
	}
	return w.statementExpr(e)
}

func (w *Writer) branch(n *ir.Branch) string {
	if n.Op == ir.BranchReturn && n.Value != nil {
		return "return " + w.statementExpr(n.Value)
	}
	return n.Op.String()
}
