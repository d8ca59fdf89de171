// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"errors"
	"fmt"

	"github.com/gogpu/essl/collect"
	"github.com/gogpu/essl/ir"
)

// ErrNotFrozen is returned for trees that precision propagation has not
// frozen yet.
var ErrNotFrozen = errors.New("glsl: tree has not been through precision propagation")

// Version represents a GLSL version.
type Version struct {
	Number int  // 100, 300, 330, ...
	ES     bool // true for GLSL ES
}

// Common GLSL versions.
var (
	VersionES100 = Version{Number: 100, ES: true}
	VersionES300 = Version{Number: 300, ES: true}
	VersionES310 = Version{Number: 310, ES: true}
	VersionES320 = Version{Number: 320, ES: true}

	Version330 = Version{Number: 330}
	Version430 = Version{Number: 430}
	Version450 = Version{Number: 450}
)

// String returns the version as a #version directive value.
func (v Version) String() string {
	switch {
	case v.ES && v.Number > 100:
		return fmt.Sprintf("%d es", v.Number)
	case v.ES:
		return fmt.Sprintf("%d", v.Number)
	case v.Number >= 150:
		return fmt.Sprintf("%d core", v.Number)
	}
	return fmt.Sprintf("%d", v.Number)
}

// IsZero reports whether v is unset.
func (v Version) IsZero() bool { return v.Number == 0 }

// VersionFor returns the version a tree is written with by default: its
// own language version, as ES unless the tree is desktop GLSL.
func VersionFor(tree *ir.Tree) Version {
	return Version{Number: tree.Version, ES: !tree.Spec.IsDesktop()}
}

// DesktopVersionFor returns the desktop GLSL version offering the features
// of ESSL version es.
func DesktopVersionFor(es int) Version {
	switch {
	case es >= 320:
		return Version450
	case es >= 310:
		return Version430
	case es >= 300:
		return Version330
	}
	return Version{Number: 120}
}

// WriterFlags control output formatting.
type WriterFlags uint32

const (
	// WriterFlagNone uses default settings.
	WriterFlagNone WriterFlags = 0

	// WriterFlagDefaultPrecision writes default precision statements for
	// float and int at the top of ES fragment shaders.
	WriterFlagDefaultPrecision WriterFlags = 1 << iota

	// WriterFlagDebugInfo writes the source line of each function as a
	// comment.
	WriterFlagDebugInfo
)

// Options configures GLSL code generation.
type Options struct {
	// Version is the target version. VersionFor(tree) when zero.
	Version Version

	// HashFunction hashes user names. It must match the collector's.
	HashFunction collect.HashFunc

	// IndentWidth is the number of spaces per level; 4 when zero.
	IndentWidth int

	Flags WriterFlags
}

// Write returns the source of a frozen tree.
func Write(tree *ir.Tree, options Options) (string, error) {
	if tree == nil || !tree.Frozen() {
		return "", ErrNotFrozen
	}
	if options.Version.IsZero() {
		options.Version = VersionFor(tree)
	}
	if options.IndentWidth == 0 {
		options.IndentWidth = 4
	}

	w := newWriter(tree, &options)
	if err := w.writeTree(); err != nil {
		return "", fmt.Errorf("glsl: %w", err)
	}
	return w.String(), nil
}
