// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl writes a translated tree back out as GLSL ES or desktop
// GLSL source.
//
// The writer runs last, on a tree frozen by precision propagation:
//
//	source, err := glsl.Write(tree, glsl.Options{})
//
// Declarations carry the precision they were declared with. Temporaries
// the translator introduced without one take the precision propagation
// derived for their initializer.
//
// # Names
//
// User identifiers are written with the same mapped names the variable
// collector reports, so reflection data matches the source: "_u" prefixed,
// or hashed when Options.HashFunction is set. Built-in and internal names
// are written as is.
package glsl
