// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"embed"
	"fmt"
)

//go:embed shaders/*.wgsl
var sources embed.FS

// Built-in program names.
const (
	Stroke        = "stroke"
	Picking       = "picking"
	SelectionRect = "selection_rect"
	Canvas        = "canvas"
)

// Source returns the embedded WGSL source of a built-in program.
func Source(name string) (string, error) {
	b, err := sources.ReadFile("shaders/" + name + ".wgsl")
	if err != nil {
		return "", fmt.Errorf("shader: unknown program %q", name)
	}
	return string(b), nil
}

// Load compiles a built-in program. Compilation happens once per source
// through Compile's cache; each call returns a fresh Program with its own
// uniform block.
func Load(name string) (*Program, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	return Compile(name, src)
}

// MustLoad is like Load but panics on error. The embedded programs are
// validated by the package tests, so this only fails on a broken build.
func MustLoad(name string) *Program {
	p, err := Load(name)
	if err != nil {
		panic(err)
	}
	return p
}
