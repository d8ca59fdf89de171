// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"strings"
	"testing"
)

const lightsYAML = `
name: Lights
instance: lights
fields:
  - {name: color, type: vec3}
  - {name: intensity, type: float}
  - name: spots
    type: Spot
    array: [2]
    fields:
      - {name: dir, type: vec3}
      - {name: cone, type: float}
`

func TestEncodeStd140(t *testing.T) {
	b, err := decodeBlock(strings.NewReader(lightsYAML))
	if err != nil {
		t.Fatal(err)
	}
	members, size, err := b.encode()
	if err != nil {
		t.Fatal(err)
	}
	wants := []struct {
		name   string
		offset int
	}{
		{"Lights.color", 0},
		{"Lights.intensity", 12},
		{"Lights.spots[0].dir", 16},
		{"Lights.spots[0].cone", 28},
		{"Lights.spots[1].dir", 32},
		{"Lights.spots[1].cone", 44},
	}
	if len(members) != len(wants) {
		t.Fatalf("got %d members, want %d", len(members), len(wants))
	}
	for i, w := range wants {
		if members[i].Name != w.name || members[i].Info.Offset != w.offset {
			t.Errorf("member %d = %s at %d, want %s at %d", i, members[i].Name, members[i].Info.Offset, w.name, w.offset)
		}
	}
	if size != 48 {
		t.Errorf("size = %d, want 48", size)
	}
}

func TestLayoutBlockOutput(t *testing.T) {
	src := `
name: Params
layout: std430
fields:
  - {name: xy, type: vec2}
  - {name: w, type: float, array: [2]}
  - {name: m, type: mat2, row_major: true}
`
	var out bytes.Buffer
	if err := layoutBlock(strings.NewReader(src), &out, ""); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{
		"block Params (std430), 32 bytes\n",
		"  xy                       vec2     offset=0\n",
		"  w                        float    offset=8 array_stride=4\n",
		"  m                        mat2     offset=16 matrix_stride=8 row_major\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in\n%s", want, got)
		}
	}
}

func TestLayoutOverride(t *testing.T) {
	src := `
name: CB
fields:
  - {name: a, type: vec2}
  - {name: b, type: vec3}
`
	tests := []struct {
		layout string
		want   string
	}{
		{"", "offset=16"},
		{"hlsl", "offset=16"},
		{"std430", "offset=16"},
	}
	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			var out bytes.Buffer
			if err := layoutBlock(strings.NewReader(src), &out, tt.layout); err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			if len(lines) != 3 || !strings.HasSuffix(lines[2], tt.want) {
				t.Errorf("output =\n%s", out.String())
			}
		})
	}

	var out bytes.Buffer
	if err := layoutBlock(strings.NewReader(src), &out, "hlsl_loose"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "(hlsl_loose)") {
		t.Errorf("output =\n%s", out.String())
	}
}

func TestLayoutBlockErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		layout string
	}{
		{"no name", "fields: [{name: a, type: float}]\n", ""},
		{"no fields", "name: B\n", ""},
		{"unknown type", "name: B\nfields: [{name: a, type: float5}]\n", ""},
		{"opaque type", "name: B\nfields: [{name: a, type: sampler2D}]\n", ""},
		{"unknown layout", "name: B\nfields: [{name: a, type: float}]\n", "packed"},
		{"unknown key", "name: B\nstorage: std140\nfields: [{name: a, type: float}]\n", ""},
		{"bad struct member", "name: B\nfields: [{name: s, fields: [{name: x, type: nope}]}]\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := layoutBlock(strings.NewReader(tt.src), &out, tt.layout); err == nil {
				t.Errorf("layoutBlock succeeded:\n%s", out.String())
			}
		})
	}
}
