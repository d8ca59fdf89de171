// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sh

// ExpandVariable flattens v into one entry per leaf. Struct arrays expand
// per element with the real index ("s[1].x"); leaf arrays keep their
// dimensions and get a "[0]" suffix. When markStaticUse is set every leaf
// is marked statically used.
func ExpandVariable(v *ShaderVariable, name, mappedName string, markStaticUse bool, out []ShaderVariable) []ShaderVariable {
	if !v.IsStruct() {
		leaf := *v
		leaf.Name = name
		leaf.MappedName = mappedName
		if markStaticUse {
			leaf.StaticUse = true
		}
		if leaf.IsArray() {
			leaf.Name += "[0]"
			leaf.MappedName += "[0]"
		}
		return append(out, leaf)
	}
	if !v.IsArray() {
		return expandStruct(v, name, mappedName, markStaticUse, out)
	}
	for i := uint(0); i < v.OutermostArraySize(); i++ {
		element := *v
		element.IndexIntoArray(i)
		out = ExpandVariable(&element, name+ArrayString(i), mappedName+ArrayString(i), markStaticUse, out)
	}
	return out
}

func expandStruct(v *ShaderVariable, name, mappedName string, markStaticUse bool, out []ShaderVariable) []ShaderVariable {
	for i := range v.Fields {
		f := &v.Fields[i]
		out = ExpandVariable(f, name+"."+f.Name, mappedName+"."+f.MappedName, markStaticUse, out)
	}
	return out
}

// ExpandUniforms flattens a list of collected uniforms.
func ExpandUniforms(compact []ShaderVariable) []ShaderVariable {
	var expanded []ShaderVariable
	for i := range compact {
		v := &compact[i]
		expanded = ExpandVariable(v, v.Name, v.MappedName, v.StaticUse, expanded)
	}
	return expanded
}
