// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package essl translates a checked GLSL ES tree into reflection data and
// object code.
//
// A front end produces an [ir.Tree]. Compile then runs, in order:
//  1. structural validation of the tree
//  2. the array-size validator
//  3. the variable collector
//  4. the requested feature emulation (dithering, advanced blend
//     equations, logic operations), reading state from driver uniforms
//  5. precision propagation, which freezes the tree
//  6. the std140/std430 layout of every collected interface block
//  7. GLSL ES or desktop GLSL output
//
// Example usage:
//
//	opts := essl.DefaultOptions()
//	opts.EmulateDithering = true
//	res, err := essl.Compile(tree, opts)
//	if errors.Is(err, essl.ErrCompileFailed) {
//	    fmt.Print(res.Diagnostics.Format())
//	}
//
// Several stages of one program compile concurrently with CompileProgram.
package essl

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/essl/collect"
	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/emulate"
	"github.com/gogpu/essl/glsl"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/layout"
	"github.com/gogpu/essl/limits"
	"github.com/gogpu/essl/precision"
	"github.com/gogpu/essl/sh"
)

// ErrCompileFailed is returned when the shader has errors. The returned
// Result carries the diagnostics.
var ErrCompileFailed = errors.New("essl: compilation failed")

// ErrNilTree is returned when Compile is called without a tree.
var ErrNilTree = errors.New("essl: nil tree")

// BlockLayout is the placement of the members of one interface block.
type BlockLayout struct {
	Members layout.BlockLayoutMap
	Size    int
}

// Result is the outcome of one compilation.
type Result struct {
	// Variables is the reflection data. Input attachments declared by
	// emulation are appended to Variables.Uniforms.
	Variables *collect.Variables

	Diagnostics diag.Diagnostics

	// BlockLayouts maps each collected uniform and storage block name to
	// its member layout.
	BlockLayouts map[string]BlockLayout

	// ObjectCode is the generated text; empty for OutputNone.
	ObjectCode string

	// DriverUniforms is the driver uniform block emulation declared, or
	// nil when no emulation ran.
	DriverUniforms *emulate.DriverUniformBlock

	// SpecConstants lists the specialization constants emulation declared.
	SpecConstants []emulate.SpecConst
}

// SetLogger configures the logger used by every translator package. Pass
// nil to disable logging.
func SetLogger(l *slog.Logger) { diag.SetLogger(l) }

// Logger returns the current logger.
func Logger() *slog.Logger { return diag.Logger() }

// Compile runs the translation pipeline on tree. On shader errors it
// returns the partial Result together with ErrCompileFailed. Other errors
// report misuse or a broken pass and come without a Result.
func Compile(tree *ir.Tree, opts Options) (*Result, error) {
	if tree == nil || tree.Root == nil {
		return nil, ErrNilTree
	}
	cfg, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	if !cfg.anySpec && tree.Spec != cfg.spec {
		return nil, fmt.Errorf("essl: tree is %s, options require %s", tree.Spec, cfg.spec)
	}

	log := diag.Logger()
	log.Debug("essl: compile", "shader", tree.ShaderType, "spec", tree.Spec, "version", tree.Version, "output", cfg.output)

	res := &Result{}
	fail := func() (*Result, error) {
		log.Warn("essl: compilation failed",
			"shader", tree.ShaderType,
			"errors", res.Diagnostics.NumErrors(),
			"warnings", res.Diagnostics.NumWarnings())
		return res, ErrCompileFailed
	}

	problems, err := ir.Validate(tree)
	if err != nil {
		return nil, fmt.Errorf("essl: validation error: %w", err)
	}
	for _, p := range problems {
		res.Diagnostics.Error(p.Loc, p.Message, p.Function)
	}
	if res.Diagnostics.NumErrors() > 0 {
		return fail()
	}

	limits.ValidateArraySizes(tree, &res.Diagnostics, opts.MaxVariableSizeInBytes)

	var hash collect.HashFunc
	if opts.HashNames {
		hash = collect.FNVHash
	}
	res.Variables = collect.Collect(tree, collect.Options{HashFunction: hash})

	// Rewriting, layout and output need a shader without errors.
	if res.Diagnostics.NumErrors() > 0 {
		return fail()
	}

	if err := emulateFeatures(tree, opts, cfg, res); err != nil {
		return nil, fmt.Errorf("essl: emulation error: %w", err)
	}

	desktop := tree.Spec.IsDesktop() || cfg.output == OutputGLSL
	if err := precision.Propagate(tree, precision.Options{Desktop: desktop}); err != nil {
		return nil, fmt.Errorf("essl: precision error: %w", err)
	}

	res.BlockLayouts = blockLayouts(res.Variables)

	if cfg.output != OutputNone {
		wopts := glsl.Options{HashFunction: hash}
		if cfg.output == OutputGLSL && !tree.Spec.IsDesktop() {
			wopts.Version = glsl.DesktopVersionFor(tree.Version)
		}
		res.ObjectCode, err = glsl.Write(tree, wopts)
		if err != nil {
			return nil, fmt.Errorf("essl: output error: %w", err)
		}
	}

	if res.Diagnostics.NumWarnings() > 0 {
		log.Warn("essl: compiled with warnings", "shader", tree.ShaderType, "warnings", res.Diagnostics.NumWarnings())
	}
	log.Debug("essl: compiled", "shader", tree.ShaderType, "bytes", len(res.ObjectCode))
	return res, nil
}

// emulateFeatures runs the requested rewriters on a fragment shader. The
// driver uniform block is declared only when one of them runs.
func emulateFeatures(tree *ir.Tree, opts Options, cfg resolved, res *Result) error {
	if tree.ShaderType != ir.ShaderFragment {
		return nil
	}
	if !opts.EmulateDithering && cfg.equations == 0 && !opts.EmulateLogicOp {
		return nil
	}

	driver, err := emulate.NewDriverUniformBlock(tree)
	if err != nil {
		return err
	}
	res.DriverUniforms = driver

	var specConsts *emulate.SpecConstBlock
	if opts.UseSpecConstants {
		specConsts = emulate.NewSpecConstBlock(tree)
	}

	if opts.EmulateDithering {
		var sc emulate.SpecConstants
		if specConsts != nil {
			sc = specConsts
		}
		if err := emulate.EmulateDithering(tree, sc, driver); err != nil {
			return fmt.Errorf("dithering: %w", err)
		}
	}
	if cfg.equations != 0 {
		if err := emulate.EmulateAdvancedBlendEquations(tree, driver, cfg.equations, &res.Variables.Uniforms); err != nil {
			return fmt.Errorf("advanced blend: %w", err)
		}
	}
	if opts.EmulateLogicOp {
		if err := emulate.EmulateLogicOp(tree, driver, &res.Variables.Uniforms); err != nil {
			return fmt.Errorf("logic op: %w", err)
		}
	}
	if specConsts != nil {
		res.SpecConstants = specConsts.Declared()
	}
	return nil
}

func blockLayouts(vars *collect.Variables) map[string]BlockLayout {
	out := make(map[string]BlockLayout, len(vars.UniformBlocks)+len(vars.ShaderStorageBlocks))
	add := func(blocks []sh.InterfaceBlock) {
		for i := range blocks {
			members, size := layout.GetBlockLayout(&blocks[i])
			out[blocks[i].Name] = BlockLayout{Members: members, Size: size}
		}
	}
	add(vars.UniformBlocks)
	add(vars.ShaderStorageBlocks)
	return out
}
