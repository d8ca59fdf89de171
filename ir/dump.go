// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import (
	"fmt"
	"strings"
)

// Dump returns an indented text form of the tree under n, one node per
// line. Typed nodes show their type and, when set, the derived precision.
func Dump(n Node) string {
	var b strings.Builder
	dumpNode(&b, n, 0)
	return b.String()
}

func dumpNode(b *strings.Builder, n Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(describe(n))
	if e, ok := n.(Expr); ok {
		fmt.Fprintf(b, " (%s)", e.Type())
		if p := e.DerivedPrecision(); p != PrecisionUndefined {
			fmt.Fprintf(b, " [%s]", p)
		}
	}
	b.WriteByte('\n')
	for _, c := range n.Children() {
		dumpNode(b, c, depth+1)
	}
}

func describe(n Node) string {
	switch n := n.(type) {
	case *Symbol:
		return fmt.Sprintf("'%s' (symbol %d)", n.Var.Name, n.Var.ID)
	case *Constant:
		lits := make([]string, len(n.Values))
		for i, v := range n.Values {
			lits[i] = v.Literal()
		}
		return "constant " + strings.Join(lits, ", ")
	case *Swizzle:
		return "swizzle " + n.Mask()
	case *Unary:
		return "unary " + n.Op.String()
	case *Binary:
		return "binary " + n.Op.String()
	case *Ternary:
		return "ternary"
	case *Aggregate:
		if n.Fn != nil {
			return "call " + n.Fn.Name
		}
		return "aggregate " + n.Op.String()
	case *Block:
		return "block"
	case *Declaration:
		return "declaration"
	case *IfElse:
		return "if"
	case *Switch:
		return "switch"
	case *Case:
		if n.Cond == nil {
			return "default"
		}
		return "case"
	case *Branch:
		return n.Op.String()
	case *Loop:
		return [...]string{"for", "while", "do-while"}[n.Kind]
	case *FunctionPrototype:
		return fmt.Sprintf("prototype %s (%s)", n.Fn.Name, n.Fn.ReturnType)
	case *FunctionDefinition:
		return "function " + n.Function().Name
	case *GlobalQualifierDeclaration:
		if n.Invariant {
			return "invariant"
		}
		return "precise"
	}
	return fmt.Sprintf("%T", n)
}
