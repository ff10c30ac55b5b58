// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package canvas

import (
	"time"

	"github.com/gogpu/ink/render"
)

const (
	// DefaultFPSInterval is the number of frames between FPS log lines.
	DefaultFPSInterval = 180

	// DefaultScrollSensitivity is the wheel delta per scrollbar unit. One
	// wheel notch is 120 delta units.
	DefaultScrollSensitivity = 40

	// wheelNotch is the wheel delta of one line.
	wheelNotch = 120
)

// Option configures a Canvas.
type Option func(*options)

type options struct {
	clear             render.Color
	fpsInterval       int
	scrollSensitivity float64
	now               func() time.Time
}

func defaultOptions() options {
	return options{
		clear:             render.White,
		fpsInterval:       DefaultFPSInterval,
		scrollSensitivity: DefaultScrollSensitivity,
		now:               time.Now,
	}
}

// WithClearColor sets the colour the canvas target is cleared to on redraw.
func WithClearColor(c render.Color) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithFPSInterval logs the frame rate every n frames. Zero disables FPS
// logging.
func WithFPSInterval(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.fpsInterval = n
		}
	}
}

// WithScrollSensitivity sets the wheel delta that moves the scrollbar by
// one unit.
func WithScrollSensitivity(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scrollSensitivity = s
		}
	}
}

// WithClock replaces time.Now for FPS accounting.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
