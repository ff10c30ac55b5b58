// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ink"
)

// errScript is wrapped by every script validation error.
var errScript = errors.New("inkreplay: bad script")

// Script is a recorded input session: the window it ran in and the events
// it received, in order.
//
//	width = 400
//	height = 300
//	scale = 2.0
//
//	[[event]]
//	kind = "down"
//	x = 20
//	y = 40
type Script struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Scale  float64 `toml:"scale"`
	Events []Event `toml:"event"`
}

// Event is one scripted input. Which fields matter depends on Kind.
type Event struct {
	// Kind is down, move, up, cancel, scroll, frame, play, stop, color,
	// size or tool.
	Kind string `toml:"kind"`

	// X and Y are logical window coordinates for pointer events. An up or
	// cancel without coordinates happens at the last pointer position.
	X *float64 `toml:"x"`
	Y *float64 `toml:"y"`

	// DY and Mode describe a wheel event. Mode is pixel, line or page.
	DY   float64 `toml:"dy"`
	Mode string  `toml:"mode"`

	// Color is a #rrggbb stroke colour; Palette indexes the configured
	// palette instead.
	Color   string `toml:"color"`
	Palette *int   `toml:"palette"`

	// Size is the stroke point size in canvas units.
	Size float32 `toml:"size"`

	// Count is the number of frames a frame event runs; zero means one.
	Count int `toml:"count"`

	// Tool is pen or pointer.
	Tool string `toml:"tool"`
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := DecodeScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// DecodeScript parses and validates a script.
func DecodeScript(r io.Reader) (*Script, error) {
	s := &Script{Scale: 1}
	md, err := toml.NewDecoder(r).Decode(s)
	if err != nil {
		return nil, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", errScript, strings.Join(names, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports every problem in the script at once.
func (s *Script) Validate() error {
	var errs []error
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: window %dx%d", errScript, s.Width, s.Height))
	}
	if s.Scale <= 0 {
		errs = append(errs, fmt.Errorf("%w: scale %v", errScript, s.Scale))
	}
	for i, ev := range s.Events {
		if err := ev.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: event %d: %w", errScript, i, err))
		}
	}
	return errors.Join(errs...)
}

func (ev Event) validate() error {
	switch ev.Kind {
	case "down", "move":
		if ev.X == nil || ev.Y == nil {
			return fmt.Errorf("%s needs x and y", ev.Kind)
		}
	case "up", "cancel":
		if (ev.X == nil) != (ev.Y == nil) {
			return fmt.Errorf("%s needs both x and y or neither", ev.Kind)
		}
	case "scroll":
		if _, err := deltaMode(ev.Mode); err != nil {
			return err
		}
	case "frame":
		if ev.Count < 0 {
			return fmt.Errorf("negative frame count %d", ev.Count)
		}
	case "play", "stop":
	case "color":
		if (ev.Color == "") == (ev.Palette == nil) {
			return errors.New("color needs exactly one of color and palette")
		}
		if ev.Color != "" {
			if _, err := ink.ParseHex(ev.Color); err != nil {
				return err
			}
		}
	case "size":
		if ev.Size <= 0 {
			return fmt.Errorf("size %v", ev.Size)
		}
	case "tool":
		if _, err := toolNamed(ev.Tool); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown kind %q", ev.Kind)
	}
	return nil
}

// pointer converts a pointer event, falling back to last for a release
// without coordinates.
func (ev Event) pointer(last [2]float64) gpucontext.PointerEvent {
	pe := gpucontext.PointerEvent{
		PointerID:   1,
		PointerType: gpucontext.PointerTypePen,
		X:           last[0],
		Y:           last[1],
		Pressure:    0.5,
	}
	if ev.X != nil {
		pe.X, pe.Y = *ev.X, *ev.Y
	}
	switch ev.Kind {
	case "down":
		pe.Type = gpucontext.PointerDown
	case "move":
		pe.Type = gpucontext.PointerMove
	case "up":
		pe.Type = gpucontext.PointerUp
		pe.Pressure = 0
	default:
		pe.Type = gpucontext.PointerCancel
		pe.Pressure = 0
	}
	return pe
}

func deltaMode(name string) (gpucontext.ScrollDeltaMode, error) {
	switch name {
	case "", "pixel":
		return gpucontext.ScrollDeltaPixel, nil
	case "line":
		return gpucontext.ScrollDeltaLine, nil
	case "page":
		return gpucontext.ScrollDeltaPage, nil
	}
	return 0, fmt.Errorf("unknown scroll mode %q", name)
}
