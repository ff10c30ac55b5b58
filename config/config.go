// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/canvas"
	"github.com/gogpu/ink/recording"
	"github.com/gogpu/ink/render"
)

var (
	// ErrUnknownKey is returned when a file sets keys Config does not have.
	ErrUnknownKey = errors.New("config: unknown key")

	// ErrInvalid is returned when a value is out of range.
	ErrInvalid = errors.New("config: invalid value")
)

// Config is the complete settings file.
type Config struct {
	// Backend names the render device; empty selects the best available.
	Backend string `toml:"backend"`

	Renderer Renderer `toml:"renderer"`
	Canvas   Canvas   `toml:"canvas"`
	Pen      Pen      `toml:"pen"`
}

// Renderer holds the sprite renderer settings.
type Renderer struct {
	CanvasRatio           float32 `toml:"canvas_ratio"`
	Spacing               float32 `toml:"spacing"`
	MaxSprites            int     `toml:"max_sprites"`
	NormalSizeAdjustment  float32 `toml:"normal_size_adjustment"`
	PickingSizeAdjustment float32 `toml:"picking_size_adjustment"`
	SelectionColor        string  `toml:"selection_color"`
}

// Canvas holds the frame loop settings.
type Canvas struct {
	ClearColor        string  `toml:"clear_color"`
	FPSInterval       int     `toml:"fps_interval"`
	ScrollSensitivity float64 `toml:"scroll_sensitivity"`
}

// Pen holds the stroke defaults of the reference timeline.
type Pen struct {
	Palette       []string `toml:"palette"`
	PointSize     float32  `toml:"point_size"`
	PlaybackSpeed int      `toml:"playback_speed"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Renderer: Renderer{
			CanvasRatio:           ink.DefaultCanvasRatio,
			Spacing:               ink.DefaultSpacing,
			MaxSprites:            ink.DefaultMaxSprites,
			NormalSizeAdjustment:  ink.NormalSizeAdjustment,
			PickingSizeAdjustment: ink.PickingSizeAdjustment,
			SelectionColor:        "#2f6fdf",
		},
		Canvas: Canvas{
			ClearColor:        "#ffffff",
			FPSInterval:       canvas.DefaultFPSInterval,
			ScrollSensitivity: canvas.DefaultScrollSensitivity,
		},
		Pen: Pen{
			Palette:       []string{"#000000", "#d03030", "#1e3a8a"},
			PointSize:     recording.DefaultPointSize,
			PlaybackSpeed: recording.DefaultPlaybackSpeed,
		},
	}
}

// Load reads a settings file on top of the defaults.
func Load(path string) (Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.finish(md); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Decode reads settings from r on top of the defaults.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.finish(md); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) finish(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(names, ", "))
	}
	return c.Validate()
}

// Validate checks every value, reporting all problems at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(key string, v any) {
		errs = append(errs, fmt.Errorf("%w: %s = %v", ErrInvalid, key, v))
	}
	if c.Renderer.CanvasRatio <= 0 {
		bad("renderer.canvas_ratio", c.Renderer.CanvasRatio)
	}
	if c.Renderer.Spacing <= 0 {
		bad("renderer.spacing", c.Renderer.Spacing)
	}
	if c.Renderer.MaxSprites <= 0 {
		bad("renderer.max_sprites", c.Renderer.MaxSprites)
	}
	if c.Renderer.NormalSizeAdjustment <= 0 {
		bad("renderer.normal_size_adjustment", c.Renderer.NormalSizeAdjustment)
	}
	if c.Renderer.PickingSizeAdjustment < 0 {
		bad("renderer.picking_size_adjustment", c.Renderer.PickingSizeAdjustment)
	}
	if c.Canvas.FPSInterval < 0 {
		bad("canvas.fps_interval", c.Canvas.FPSInterval)
	}
	if c.Canvas.ScrollSensitivity <= 0 {
		bad("canvas.scroll_sensitivity", c.Canvas.ScrollSensitivity)
	}
	if c.Pen.PointSize <= 0 {
		bad("pen.point_size", c.Pen.PointSize)
	}
	if c.Pen.PlaybackSpeed <= 0 {
		bad("pen.playback_speed", c.Pen.PlaybackSpeed)
	}
	colours := map[string]string{
		"renderer.selection_color": c.Renderer.SelectionColor,
		"canvas.clear_color":       c.Canvas.ClearColor,
	}
	for i, p := range c.Pen.Palette {
		colours[fmt.Sprintf("pen.palette[%d]", i)] = p
	}
	for key, hex := range colours {
		if _, err := ink.ParseHex(hex); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalid, key, err))
		}
	}
	return errors.Join(errs...)
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// RendererOptions returns the renderer settings as ink options.
// c must be valid.
func (c Config) RendererOptions() []ink.Option {
	r := c.Renderer
	return []ink.Option{
		ink.WithCanvasRatio(r.CanvasRatio),
		ink.WithSpacing(r.Spacing),
		ink.WithMaxSprites(r.MaxSprites),
		ink.WithSizeAdjustments(r.NormalSizeAdjustment, r.PickingSizeAdjustment),
		ink.WithSelectionColor(ink.Hex(r.SelectionColor)),
	}
}

// CanvasOptions returns the canvas settings as canvas options.
// c must be valid.
func (c Config) CanvasOptions() []canvas.Option {
	return []canvas.Option{
		canvas.WithClearColor(c.ClearColor()),
		canvas.WithFPSInterval(c.Canvas.FPSInterval),
		canvas.WithScrollSensitivity(c.Canvas.ScrollSensitivity),
	}
}

// ClearColor returns the opaque canvas background.
func (c Config) ClearColor() render.Color {
	rgb := ink.Hex(c.Canvas.ClearColor)
	return render.Color{R: rgb.R, G: rgb.G, B: rgb.B, A: 1}
}

// PaletteColor returns palette entry i, wrapping around. An empty palette
// yields black.
func (c Config) PaletteColor(i int) ink.RGB {
	n := len(c.Pen.Palette)
	if n == 0 {
		return ink.Black
	}
	i %= n
	if i < 0 {
		i += n
	}
	return ink.Hex(c.Pen.Palette[i])
}
