// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

// Visit tells a callback at which point of a node's traversal it runs.
type Visit uint8

const (
	// PreVisit runs before the children.
	PreVisit Visit = iota
	// InVisit runs between two children.
	InVisit
	// PostVisit runs after the children.
	PostVisit
)

// Walker is a depth-first tree traversal. Each callback is optional. Leaf
// callbacks run once; the others run at the visits enabled by Pre, In and
// Post and return whether to keep going: false at PreVisit skips the
// children and the post visit, false at InVisit skips the remaining
// children.
//
// A Walker with none of Pre, In or Post set behaves as if only Pre were.
type Walker struct {
	Pre, In, Post bool

	Symbol   func(w *Walker, n *Symbol)
	Constant func(w *Walker, n *Constant)

	Swizzle                    func(w *Walker, v Visit, n *Swizzle) bool
	Unary                      func(w *Walker, v Visit, n *Unary) bool
	Binary                     func(w *Walker, v Visit, n *Binary) bool
	Ternary                    func(w *Walker, v Visit, n *Ternary) bool
	Aggregate                  func(w *Walker, v Visit, n *Aggregate) bool
	Block                      func(w *Walker, v Visit, n *Block) bool
	Declaration                func(w *Walker, v Visit, n *Declaration) bool
	IfElse                     func(w *Walker, v Visit, n *IfElse) bool
	Switch                     func(w *Walker, v Visit, n *Switch) bool
	Case                       func(w *Walker, v Visit, n *Case) bool
	Branch                     func(w *Walker, v Visit, n *Branch) bool
	Loop                       func(w *Walker, v Visit, n *Loop) bool
	FunctionDefinition         func(w *Walker, v Visit, n *FunctionDefinition) bool
	GlobalQualifierDeclaration func(w *Walker, v Visit, n *GlobalQualifierDeclaration) bool

	FunctionPrototype func(w *Walker, n *FunctionPrototype)

	path []Node
}

// Walk traverses n and its descendants.
func (w *Walker) Walk(n Node) {
	if n == nil {
		return
	}
	switch n := n.(type) {
	case *Symbol:
		if w.Symbol != nil {
			w.Symbol(w, n)
		}
	case *Constant:
		if w.Constant != nil {
			w.Constant(w, n)
		}
	case *FunctionPrototype:
		if w.FunctionPrototype != nil {
			w.FunctionPrototype(w, n)
		}
	case *Swizzle:
		walkNode(w, n, w.Swizzle)
	case *Unary:
		walkNode(w, n, w.Unary)
	case *Binary:
		walkNode(w, n, w.Binary)
	case *Ternary:
		walkNode(w, n, w.Ternary)
	case *Aggregate:
		walkNode(w, n, w.Aggregate)
	case *Block:
		walkNode(w, n, w.Block)
	case *Declaration:
		walkNode(w, n, w.Declaration)
	case *IfElse:
		walkNode(w, n, w.IfElse)
	case *Switch:
		walkNode(w, n, w.Switch)
	case *Case:
		walkNode(w, n, w.Case)
	case *Branch:
		walkNode(w, n, w.Branch)
	case *Loop:
		walkNode(w, n, w.Loop)
	case *FunctionDefinition:
		walkNode(w, n, w.FunctionDefinition)
	case *GlobalQualifierDeclaration:
		walkNode(w, n, w.GlobalQualifierDeclaration)
	default:
		panic(&InternalError{Message: "walker: unknown node type"})
	}
}

func walkNode[T Node](w *Walker, n T, cb func(*Walker, Visit, T) bool) {
	pre := w.Pre || (!w.In && !w.Post)
	if cb != nil && pre && !cb(w, PreVisit, n) {
		return
	}
	w.path = append(w.path, n)
	for i, child := range n.Children() {
		if i > 0 && cb != nil && w.In && !cb(w, InVisit, n) {
			break
		}
		w.Walk(child)
	}
	w.path = w.path[:len(w.path)-1]
	if cb != nil && w.Post {
		cb(w, PostVisit, n)
	}
}

// Parent returns the node whose children are being walked, or nil at the
// top.
func (w *Walker) Parent() Node {
	if len(w.path) == 0 {
		return nil
	}
	return w.path[len(w.path)-1]
}

// Ancestor returns the node depth levels above the current parent; 0 is
// the parent itself.
func (w *Walker) Ancestor(depth int) Node {
	i := len(w.path) - 1 - depth
	if i < 0 {
		return nil
	}
	return w.path[i]
}

// Depth returns the number of nodes on the path from the walk root.
func (w *Walker) Depth() int { return len(w.path) }

// InFunction returns the function definition currently being walked, or
// nil at global scope.
func (w *Walker) InFunction() *FunctionDefinition {
	for i := len(w.path) - 1; i >= 0; i-- {
		if fd, ok := w.path[i].(*FunctionDefinition); ok {
			return fd
		}
	}
	return nil
}

// IsLValue reports whether the expression being visited is written by
// its parent: the left side of an assignment, the operand of ++ or --, or
// the base of an index chain leading there.
func (w *Walker) IsLValue(n Expr) bool {
	child := Node(n)
	for i := len(w.path) - 1; i >= 0; i-- {
		switch p := w.path[i].(type) {
		case *Binary:
			if p.Op.IsAssignment() {
				return p.Left == child
			}
			if p.Op.IsIndex() && p.Left == child {
				child = p
				continue
			}
			return false
		case *Swizzle:
			child = p
			continue
		case *Unary:
			return p.Op.IsIncrementOrDecrement()
		case *Aggregate:
			if p.Op == OpCallFunctionInAST && p.Fn != nil {
				for j, arg := range p.Args {
					if arg == child && j < len(p.Fn.Params) {
						q := p.Fn.Params[j].Type.Qualifier
						return q == QualParamOut || q == QualParamInOut
					}
				}
			}
			return false
		default:
			return false
		}
	}
	return false
}
