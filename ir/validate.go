// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"errors"
	"fmt"
)

// ValidationError describes one structural problem in a tree.
type ValidationError struct {
	Message string
	// Optional context
	Function string
	Loc      SourceLoc
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("in function %s, %s: %s", e.Function, e.Loc, e.Message)
	}
	return e.Message
}

// Validator checks the structural invariants every pass relies on.
type Validator struct {
	tree   *Tree
	errors []ValidationError
	seen   map[Node]bool
	scopes []map[*Variable]bool
}

// Validate checks tree for correctness. It returns the problems found, or
// nil when the tree is well formed.
func Validate(tree *Tree) ([]ValidationError, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New("ir: tree is nil")
	}
	v := &Validator{
		tree: tree,
		seen: make(map[Node]bool),
	}
	v.ValidateTree()
	if len(v.errors) > 0 {
		return v.errors, nil
	}
	return nil, nil
}

// ValidateTree runs every check.
func (v *Validator) ValidateTree() {
	v.validateMain()
	v.validateNodes()
}

func (v *Validator) addError(w *Walker, n Node, format string, args ...any) {
	e := ValidationError{Message: fmt.Sprintf(format, args...), Loc: n.Loc()}
	if w != nil {
		if fd := w.InFunction(); fd != nil {
			e.Function = fd.Function().Name
		}
	}
	v.errors = append(v.errors, e)
}

func (v *Validator) validateMain() {
	count := 0
	for _, n := range v.tree.Root.Stmts {
		if fd, ok := n.(*FunctionDefinition); ok && fd.Function().IsMain() {
			count++
		}
	}
	if count > 1 {
		v.errors = append(v.errors, ValidationError{Message: fmt.Sprintf("main is defined %d times", count)})
	}
}

func (v *Validator) pushScope() { v.scopes = append(v.scopes, make(map[*Variable]bool)) }
func (v *Validator) popScope()  { v.scopes = v.scopes[:len(v.scopes)-1] }

func (v *Validator) declare(vr *Variable) {
	v.scopes[len(v.scopes)-1][vr] = true
}

func (v *Validator) isDeclared(vr *Variable) bool {
	for i := len(v.scopes) - 1; i >= 0; i-- {
		if v.scopes[i][vr] {
			return true
		}
	}
	return false
}

// isDeclarator reports whether the symbol being visited is declared by its
// parent rather than referenced.
func isDeclarator(w *Walker, s *Symbol) bool {
	switch p := w.Parent().(type) {
	case *Declaration:
		return true
	case *Binary:
		if p.Op == OpInitialize && p.Left == s {
			_, ok := w.Ancestor(1).(*Declaration)
			return ok
		}
	}
	return false
}

//nolint:gocognit,gocyclo,cyclop // one walk checks every node kind
func (v *Validator) validateNodes() {
	unique := func(w *Walker, n Node) bool {
		if v.seen[n] {
			v.addError(w, n, "node %T is reachable more than once", n)
			return false
		}
		v.seen[n] = true
		return true
	}
	scoped := func(w *Walker, visit Visit, n Node) bool {
		switch visit {
		case PreVisit:
			if !unique(w, n) {
				return false
			}
			v.pushScope()
		case PostVisit:
			v.popScope()
		}
		return true
	}

	w := &Walker{Pre: true, Post: true}
	w.Symbol = func(w *Walker, s *Symbol) {
		if !unique(w, s) {
			return
		}
		if s.Var == nil {
			v.addError(w, s, "symbol without variable")
			return
		}
		if isDeclarator(w, s) {
			v.declare(s.Var)
			return
		}
		if s.Var.IsBuiltIn() || v.isDeclared(s.Var) {
			return
		}
		v.addError(w, s, "'%s' is used before it is declared", s.Var.Name)
	}
	w.Constant = func(w *Walker, c *Constant) {
		if !unique(w, c) {
			return
		}
		if c.Typ == nil {
			v.addError(w, c, "constant without type")
		}
	}
	w.FunctionPrototype = func(w *Walker, p *FunctionPrototype) {
		if !unique(w, p) {
			return
		}
		if _, ok := w.Parent().(*FunctionDefinition); ok {
			for _, param := range p.Fn.Params {
				v.declare(param)
			}
		}
	}
	plain := func(w *Walker, visit Visit, n Node) bool {
		return visit != PreVisit || unique(w, n)
	}
	w.Swizzle = func(w *Walker, visit Visit, n *Swizzle) bool { return plain(w, visit, n) }
	w.Unary = func(w *Walker, visit Visit, n *Unary) bool { return plain(w, visit, n) }
	w.Binary = func(w *Walker, visit Visit, n *Binary) bool { return plain(w, visit, n) }
	w.Ternary = func(w *Walker, visit Visit, n *Ternary) bool { return plain(w, visit, n) }
	w.Aggregate = func(w *Walker, visit Visit, n *Aggregate) bool {
		if visit == PreVisit && n.IsCall() && n.Fn == nil {
			v.addError(w, n, "call without function")
		}
		return plain(w, visit, n)
	}
	w.Declaration = func(w *Walker, visit Visit, n *Declaration) bool {
		if visit == PreVisit {
			for _, d := range n.Declarators {
				if DeclaredSymbol(d) == nil {
					v.addError(w, n, "declarator %T is neither a symbol nor an initialization", d)
				}
			}
		}
		return plain(w, visit, n)
	}
	w.IfElse = func(w *Walker, visit Visit, n *IfElse) bool { return plain(w, visit, n) }
	w.Switch = func(w *Walker, visit Visit, n *Switch) bool { return plain(w, visit, n) }
	w.GlobalQualifierDeclaration = func(w *Walker, visit Visit, n *GlobalQualifierDeclaration) bool {
		return plain(w, visit, n)
	}
	w.Block = func(w *Walker, visit Visit, n *Block) bool { return scoped(w, visit, n) }
	w.Loop = func(w *Walker, visit Visit, n *Loop) bool { return scoped(w, visit, n) }
	w.FunctionDefinition = func(w *Walker, visit Visit, n *FunctionDefinition) bool { return scoped(w, visit, n) }
	w.Case = func(w *Walker, visit Visit, n *Case) bool {
		if visit == PreVisit {
			_, inSwitch := w.Ancestor(1).(*Switch)
			if _, inBlock := w.Parent().(*Block); !inBlock || !inSwitch {
				v.addError(w, n, "case label outside a switch body")
			}
		}
		return plain(w, visit, n)
	}
	w.Branch = func(w *Walker, visit Visit, n *Branch) bool {
		if visit == PreVisit {
			v.validateBranch(w, n)
		}
		return plain(w, visit, n)
	}
	w.Walk(v.tree.Root)
}

func (v *Validator) validateBranch(w *Walker, n *Branch) {
	if n.Op != BranchBreak && n.Op != BranchContinue {
		return
	}
outer:
	for i := 0; i < w.Depth(); i++ {
		switch w.Ancestor(i).(type) {
		case *Loop:
			return
		case *Switch:
			if n.Op == BranchBreak {
				return
			}
		case *FunctionDefinition:
			break outer
		}
	}
	if n.Op == BranchBreak {
		v.addError(w, n, "break outside a loop or switch")
		return
	}
	v.addError(w, n, "continue outside a loop")
}
