// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package ir defines the syntax tree the translator passes operate on.
//
// A Tree holds a root Block of global declarations and function
// definitions, the SymbolTable that owns variable identity and static-use
// marks, and the shader type, spec and language version.
//
// # Nodes
//
// Node is a closed set of types: Symbol, Constant, Swizzle, Unary, Binary,
// Ternary and Aggregate produce values (the Expr interface); Block,
// Declaration, IfElse, Switch, Case, Branch, Loop, FunctionPrototype,
// FunctionDefinition and GlobalQualifierDeclaration are statements. Every
// Expr has a slot for the precision computed by precision propagation.
//
// # Passes
//
// Passes walk the tree with a Walker and build new nodes with the New* and
// Create* helpers, which resolve result types. Rewriting passes must run
// before precision propagation, which freezes the tree:
//
//	validate → limit checks → collect → rewrite → propagate precision → emit
//
// After Freeze, InsertStatements, AppendStatement and every rewriter
// return ErrTreeFrozen.
package ir
