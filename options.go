// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package essl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/essl/gl"
	"github.com/gogpu/essl/ir"
	"github.com/gogpu/essl/limits"
)

// Output selects the object code produced by Compile.
type Output string

const (
	// OutputNone only validates and reflects the shader.
	OutputNone Output = "none"
	// OutputESSL writes GLSL ES text for the tree's own version.
	OutputESSL Output = "essl"
	// OutputGLSL writes desktop GLSL text.
	OutputGLSL Output = "glsl"
)

// Options configures a compilation. The zero value is not usable; start
// from DefaultOptions or LoadOptions.
type Options struct {
	// Spec is the shader spec the tree must have, e.g. "gles3" or
	// "webgl2". Empty accepts any tree.
	Spec string `yaml:"spec"`

	// Output is "none", "essl" or "glsl".
	Output Output `yaml:"output"`

	// MaxVariableSizeInBytes bounds the std140 size of array declarations.
	MaxVariableSizeInBytes int64 `yaml:"max_variable_size_in_bytes"`

	// HashNames maps user names to hashed names instead of prefixing them.
	HashNames bool `yaml:"hash_names"`

	// EmulateDithering adds framebuffer dithering to fragment shaders.
	EmulateDithering bool `yaml:"emulate_dithering"`

	// AdvancedBlendEquations lists the advanced blend equations to emulate
	// by name ("multiply", "hsl_hue", ...). "all" enables every one.
	AdvancedBlendEquations []string `yaml:"advanced_blend_equations"`

	// EmulateLogicOp adds framebuffer logic operations to fragment shaders.
	EmulateLogicOp bool `yaml:"emulate_logic_op"`

	// UseSpecConstants reads emulation state from specialization constants
	// where the target supports them.
	UseSpecConstants bool `yaml:"use_spec_constants"`

	// Workers bounds the goroutines CompileProgram uses.
	Workers int `yaml:"workers"`
}

// DefaultOptions returns options that write ESSL without any emulation.
func DefaultOptions() Options {
	return Options{
		Output:                 OutputESSL,
		MaxVariableSizeInBytes: limits.MaxVariableSizeInBytes,
		Workers:                4,
	}
}

// LoadOptions reads YAML options from r. Keys missing from the document
// keep their DefaultOptions value.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, fmt.Errorf("essl: decode options: %w", err)
	}
	if _, err := opts.resolve(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptionsFile reads YAML options from the file at path.
func LoadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, fmt.Errorf("essl: %w", err)
	}
	defer f.Close()
	return LoadOptions(f)
}

// resolved holds the options in the form the pipeline uses.
type resolved struct {
	spec      ir.ShaderSpec
	anySpec   bool
	output    Output
	equations gl.BlendEquationSet
}

func (o Options) resolve() (resolved, error) {
	r := resolved{anySpec: o.Spec == "", output: o.Output}
	if !r.anySpec {
		spec, err := ir.ParseShaderSpec(strings.ToLower(o.Spec))
		if err != nil {
			return r, fmt.Errorf("essl: %w", err)
		}
		r.spec = spec
	}
	switch o.Output {
	case "":
		r.output = OutputNone
	case OutputNone, OutputESSL, OutputGLSL:
	default:
		return r, fmt.Errorf("essl: unknown output %q", o.Output)
	}
	for _, name := range o.AdvancedBlendEquations {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "all" {
			r.equations |= gl.AllAdvancedBlendEquations()
			continue
		}
		eq, err := gl.ParseBlendEquation(name)
		if err != nil {
			return r, fmt.Errorf("essl: %w", err)
		}
		if !eq.IsAdvanced() {
			return r, fmt.Errorf("essl: %q is not an advanced blend equation", name)
		}
		r.equations = r.equations.Add(eq)
	}
	if o.Workers < 0 {
		return r, fmt.Errorf("essl: negative worker count %d", o.Workers)
	}
	return r, nil
}
