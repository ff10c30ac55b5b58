// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ink

import "fmt"

// Size adjustments applied to a stroke's point size. The on-screen diameter
// is pointSize * canvasWidth * NormalSizeAdjustment; picking draws each
// sprite PickingSizeAdjustment larger so thin strokes stay clickable.
const (
	NormalSizeAdjustment  = 1.0 / 1000
	PickingSizeAdjustment = 4

	// DefaultSpacing is the distance between sprites in fixed-point units.
	DefaultSpacing = 100
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := ink.NewRenderer(dev,
//	    ink.WithSpacing(50),
//	    ink.WithScrollBar(bar),
//	)
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	maxSprites     int
	spacing        float32
	ratio          float32
	normalAdjust   float32
	pickingAdjust  float32
	selectionColor RGB
	scrollBar      ScrollBar
	requestRedraw  func()
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		maxSprites:     DefaultMaxSprites,
		spacing:        DefaultSpacing,
		ratio:          DefaultCanvasRatio,
		normalAdjust:   NormalSizeAdjustment,
		pickingAdjust:  PickingSizeAdjustment,
		selectionColor: Hex("#2f6fdf"),
	}
}

func (o *options) validate() error {
	switch {
	case o.maxSprites <= 0:
		return fmt.Errorf("%w: max sprites %d", ErrInvalidOption, o.maxSprites)
	case !(o.spacing > 0):
		return fmt.Errorf("%w: spacing %v", ErrInvalidOption, o.spacing)
	case !(o.ratio > 0):
		return fmt.Errorf("%w: canvas ratio %v", ErrInvalidOption, o.ratio)
	case !(o.normalAdjust > 0):
		return fmt.Errorf("%w: size adjustment %v", ErrInvalidOption, o.normalAdjust)
	}
	return nil
}

// WithMaxSprites bounds the sprite arena.
func WithMaxSprites(n int) Option {
	return func(o *options) {
		o.maxSprites = n
	}
}

// WithSpacing sets the distance between consecutive sprites of a stroke in
// fixed-point units.
func WithSpacing(s float32) Option {
	return func(o *options) {
		o.spacing = s
	}
}

// WithCanvasRatio sets the canvas height as a multiple of its width.
func WithCanvasRatio(r float32) Option {
	return func(o *options) {
		o.ratio = r
	}
}

// WithSizeAdjustments overrides the point size scale factor and the extra
// size added to sprites in picking mode.
func WithSizeAdjustments(normal, picking float32) Option {
	return func(o *options) {
		o.normalAdjust = normal
		o.pickingAdjust = picking
	}
}

// WithSelectionColor sets the colour of the selection outline.
func WithSelectionColor(c RGB) Option {
	return func(o *options) {
		o.selectionColor = c
	}
}

// WithScrollBar connects the scrollbar that mirrors the viewport.
func WithScrollBar(sb ScrollBar) Option {
	return func(o *options) {
		o.scrollBar = sb
	}
}

// WithRedrawRequester installs the callback the renderer uses to ask for a
// full redraw after the viewport changes.
func WithRedrawRequester(fn func()) Option {
	return func(o *options) {
		o.requestRedraw = fn
	}
}
