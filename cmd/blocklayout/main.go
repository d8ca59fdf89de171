// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command blocklayout prints the member offsets of an interface block
// described in YAML.
//
// Usage:
//
//	blocklayout [options] <block.yaml>
//
// Example input:
//
//	name: Lights
//	instance: lights
//	layout: std140
//	fields:
//	  - {name: color, type: vec3}
//	  - {name: intensity, type: float}
//	  - name: spots
//	    type: Spot
//	    array: [4]
//	    fields:
//	      - {name: dir, type: vec3}
//	      - {name: cone, type: mat2, row_major: true}
//
// The layout is std140 (default), std430, hlsl or hlsl_loose.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

var (
	output  = flag.String("o", "", "output file (default: stdout)")
	layoutF = flag.String("layout", "", "override the layout of the description")
	version = flag.Bool("version", false, "print version")
)

const toolVersion = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("blocklayout version %s\n", toolVersion)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}

	if err := run(args[0], *layoutF, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, layoutName, outputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var out io.Writer = os.Stdout
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}
	return layoutBlock(f, out, layoutName)
}

// layoutBlock reads a block description from r and writes its layout to w.
func layoutBlock(r io.Reader, w io.Writer, layoutName string) error {
	b, err := decodeBlock(r)
	if err != nil {
		return err
	}
	if layoutName != "" {
		b.Layout = layoutName
	}
	members, size, err := b.encode()
	if err != nil {
		return fmt.Errorf("block %s: %w", b.Name, err)
	}
	return writeLayout(w, b, members, size)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: blocklayout [options] <block.yaml>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  blocklayout lights.yaml                Print std140 offsets\n")
	fmt.Fprintf(os.Stderr, "  blocklayout -layout std430 data.yaml   Lay out as std430\n")
	fmt.Fprintf(os.Stderr, "  blocklayout -o out.txt lights.yaml     Write to a file\n")
}
