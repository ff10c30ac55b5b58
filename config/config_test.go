// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/backend/software"
	"github.com/gogpu/ink/render"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, float32(4), c.Renderer.CanvasRatio)
	assert.Equal(t, 180, c.Canvas.FPSInterval)
	assert.Equal(t, render.White, c.ClearColor())
}

func TestDecodeOverridesDefaults(t *testing.T) {
	const src = `
backend = "software"

[renderer]
spacing = 50.0

[pen]
palette = ["#ff0000"]
`
	c, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "software", c.Backend)
	assert.Equal(t, float32(50), c.Renderer.Spacing)
	assert.Equal(t, float32(4), c.Renderer.CanvasRatio, "unset keys keep defaults")
	assert.Equal(t, ink.Hex("#ff0000"), c.PaletteColor(0))
	assert.Equal(t, ink.Hex("#ff0000"), c.PaletteColor(-3))
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("[renderer]\nspaceing = 2.0\n"))
	require.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), "renderer.spaceing")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := Default()
	c.Renderer.Spacing = 0
	c.Canvas.ScrollSensitivity = -1
	c.Canvas.ClearColor = "#nothex"
	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	for _, key := range []string{"renderer.spacing", "canvas.scroll_sensitivity", "canvas.clear_color"} {
		assert.Contains(t, err.Error(), key)
	}

	_, err = Decode(strings.NewReader("[pen]\nplayback_speed = 0\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestWriteLoadRoundTrip(t *testing.T) {
	c := Default()
	c.Backend = "software"
	c.Pen.Palette = []string{"#123456"}

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))
	assert.Contains(t, buf.String(), "[renderer]")

	path := filepath.Join(t.TempDir(), "ink.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestOptionsBuildRenderer(t *testing.T) {
	c := Default()
	c.Renderer.CanvasRatio = 2
	dev := software.New()
	defer dev.Close()

	r, err := ink.NewRenderer(dev, c.RendererOptions()...)
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.WindowSizeChanged(100, 100))
	v := r.Viewport()
	assert.Equal(t, float32(2), v.Zoom())
	assert.Len(t, c.CanvasOptions(), 3)
}
