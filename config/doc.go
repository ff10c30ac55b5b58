// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads ink settings from TOML.
//
// Missing keys keep their defaults and unknown keys are rejected, so a typo
// in a settings file is reported instead of silently ignored:
//
//	backend = "software"
//
//	[renderer]
//	canvas_ratio = 4.0
//	spacing = 100.0
//	max_sprites = 10000000
//	normal_size_adjustment = 0.001
//	picking_size_adjustment = 4.0
//	selection_color = "#2f6fdf"
//
//	[canvas]
//	clear_color = "#ffffff"
//	fps_interval = 180
//	scroll_sensitivity = 40.0
//
//	[pen]
//	palette = ["#000000", "#d03030", "#1e3a8a"]
//	point_size = 8.0
//	playback_speed = 64
//
// The renderer and canvas sections translate to functional options with
// RendererOptions and CanvasOptions.
package config
