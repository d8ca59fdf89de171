// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

// Block is a brace-delimited statement list. The tree root is a Block of
// global declarations and function definitions.
type Block struct {
	nodeBase
	Stmts []Node
}

func (b *Block) Children() []Node { return b.Stmts }

// Declaration declares one or more variables. Each declarator is a *Symbol
// or a *Binary with OpInitialize.
type Declaration struct {
	nodeBase
	Declarators []Expr
}

func (d *Declaration) Children() []Node {
	out := make([]Node, len(d.Declarators))
	for i, e := range d.Declarators {
		out[i] = e
	}
	return out
}

// DeclaredSymbol returns the symbol a declarator declares.
func DeclaredSymbol(declarator Expr) *Symbol {
	switch d := declarator.(type) {
	case *Symbol:
		return d
	case *Binary:
		if d.Op == OpInitialize {
			if s, ok := d.Left.(*Symbol); ok {
				return s
			}
		}
	}
	return nil
}

// IfElse is an if statement. Else may be nil.
type IfElse struct {
	nodeBase
	Cond Expr
	Then *Block
	Else *Block
}

func (n *IfElse) Children() []Node {
	out := []Node{n.Cond, n.Then}
	if n.Else != nil {
		out = append(out, n.Else)
	}
	return out
}

// Switch is a switch statement; Body holds Case labels and statements.
type Switch struct {
	nodeBase
	Init Expr
	Body *Block
}

func (n *Switch) Children() []Node { return []Node{n.Init, n.Body} }

// Case is a case label, or the default label when Cond is nil.
type Case struct {
	nodeBase
	Cond Expr
}

func (n *Case) Children() []Node {
	if n.Cond == nil {
		return nil
	}
	return []Node{n.Cond}
}

// BranchOp is the kind of a jump statement.
type BranchOp uint8

const (
	BranchDiscard BranchOp = iota
	BranchReturn
	BranchBreak
	BranchContinue
)

func (op BranchOp) String() string {
	return [...]string{"discard", "return", "break", "continue"}[op]
}

// Branch is a jump statement. Value is the optional return value.
type Branch struct {
	nodeBase
	Op    BranchOp
	Value Expr
}

func (n *Branch) Children() []Node {
	if n.Value == nil {
		return nil
	}
	return []Node{n.Value}
}

// LoopKind distinguishes for, while and do-while loops.
type LoopKind uint8

const (
	LoopFor LoopKind = iota
	LoopWhile
	LoopDoWhile
)

// Loop is a loop statement. Init, Cond and Expr may be nil.
type Loop struct {
	nodeBase
	Kind LoopKind
	Init Node
	Cond Expr
	Expr Expr
	Body *Block
}

func (n *Loop) Children() []Node {
	var out []Node
	if n.Init != nil {
		out = append(out, n.Init)
	}
	if n.Kind == LoopDoWhile {
		out = append(out, n.Body)
		if n.Cond != nil {
			out = append(out, n.Cond)
		}
		return out
	}
	if n.Cond != nil {
		out = append(out, n.Cond)
	}
	if n.Expr != nil {
		out = append(out, n.Expr)
	}
	return append(out, n.Body)
}

// FunctionPrototype declares a function without defining it.
type FunctionPrototype struct {
	nodeBase
	Fn *Function
}

func (n *FunctionPrototype) Children() []Node { return nil }

// FunctionDefinition is a function with its body.
type FunctionDefinition struct {
	nodeBase
	Proto *FunctionPrototype
	Body  *Block
}

func (n *FunctionDefinition) Children() []Node { return []Node{n.Proto, n.Body} }

// Function returns the defined function.
func (n *FunctionDefinition) Function() *Function { return n.Proto.Fn }

// GlobalQualifierDeclaration re-declares a variable as invariant or
// precise.
type GlobalQualifierDeclaration struct {
	nodeBase
	Symbol    *Symbol
	Invariant bool
}

func (n *GlobalQualifierDeclaration) Children() []Node { return []Node{n.Symbol} }
