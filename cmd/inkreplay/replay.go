// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/canvas"
	"github.com/gogpu/ink/config"
	"github.com/gogpu/ink/recording"
	"github.com/gogpu/ink/render"
)

// maxSettleFrames bounds the frames run after the last event while
// playback or a pending draw is still in progress.
const maxSettleFrames = 10000

// Result is what a replay produced.
type Result struct {
	Image   *image.RGBA
	Objects int
	Sprites int

	// Picked is the object under the -pick position, if one was asked for
	// and found.
	Picked   ink.PickID
	PickedOK bool
}

// chrome is the scripted tool state.
type chrome struct {
	tool canvas.Tool
}

func (c *chrome) ActiveTool() canvas.Tool { return c.tool }
func (c *chrome) ChildWindowOpen() bool   { return false }

func toolNamed(name string) (canvas.Tool, error) {
	switch name {
	case "pen":
		return canvas.ToolPen, nil
	case "pointer":
		return canvas.ToolPointer, nil
	}
	return 0, fmt.Errorf("unknown tool %q", name)
}

// replay runs s through a fresh renderer and canvas on dev. A non-nil pick
// hovers that logical position at the end and resolves the object under it.
func replay(ctx context.Context, dev render.Device, cfg config.Config, s *Script, pick *[2]float64) (*Result, error) {
	r, err := ink.NewRenderer(dev, cfg.RendererOptions()...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	rec := recording.NewRecorder(r.Arena())
	rec.SetColor(cfg.PaletteColor(0))
	rec.SetPointSize(cfg.Pen.PointSize)
	rec.SetPlaybackSpeed(cfg.Pen.PlaybackSpeed)

	ch := &chrome{tool: canvas.ToolPen}
	c, err := canvas.New(r, canvas.Deps{
		Timeline:  rec,
		Selection: rec,
		Chrome:    ch,
		Window:    gpucontext.NullWindowProvider{W: s.Width, H: s.Height, SF: s.Scale},
	}, cfg.CanvasOptions()...)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	rec.SetRedrawRequester(c.RequestRedraw)

	if err := c.Resize(int(float64(s.Width)*s.Scale), int(float64(s.Height)*s.Scale)); err != nil {
		return nil, err
	}

	var last [2]float64
	for i, ev := range s.Events {
		frames := 1
		switch ev.Kind {
		case "down", "move", "up", "cancel":
			pe := ev.pointer(last)
			last = [2]float64{pe.X, pe.Y}
			c.HandlePointer(pe)
		case "scroll":
			mode, _ := deltaMode(ev.Mode)
			c.HandleScroll(gpucontext.ScrollEvent{X: last[0], Y: last[1], DeltaY: ev.DY, DeltaMode: mode})
		case "frame":
			frames = max(ev.Count, 1)
		case "play":
			rec.Play()
		case "stop":
			rec.Stop()
		case "color":
			if ev.Palette != nil {
				rec.SetColor(cfg.PaletteColor(*ev.Palette))
			} else {
				rec.SetColor(ink.Hex(ev.Color))
			}
		case "size":
			rec.SetPointSize(ev.Size)
		case "tool":
			ch.tool, _ = toolNamed(ev.Tool)
			c.RequestRedraw()
		}
		for range frames {
			if err := c.Frame(ctx); err != nil {
				return nil, fmt.Errorf("event %d (%s): %w", i, ev.Kind, err)
			}
		}
	}
	if err := settle(ctx, c, rec); err != nil {
		return nil, err
	}

	res := &Result{Objects: rec.Len(), Sprites: r.SpriteCount()}
	if pick != nil {
		c.HandlePointer(gpucontext.PointerEvent{Type: gpucontext.PointerMove, PointerID: 1, X: pick[0], Y: pick[1]})
		c.RequestPicking()
		if err := c.Frame(ctx); err != nil {
			return nil, fmt.Errorf("pick: %w", err)
		}
		res.Picked, res.PickedOK = rec.Selected()
		// Repaint so the snapshot shows the selection rather than the
		// picking target.
		c.RequestRedraw()
		if err := c.Frame(ctx); err != nil {
			return nil, err
		}
	}

	res.Image, err = c.Snapshot()
	if err != nil {
		return nil, err
	}
	slog.Debug("inkreplay: replayed", "events", len(s.Events), "objects", res.Objects, "sprites", res.Sprites)
	return res, nil
}

// settle runs frames until playback finishes and nothing is pending.
func settle(ctx context.Context, c *canvas.Canvas, rec *recording.Recorder) error {
	for range maxSettleFrames {
		if !rec.IsPlaying() && c.Pending() == canvas.PendingNone {
			return nil
		}
		if err := c.Frame(ctx); err != nil {
			return err
		}
	}
	return fmt.Errorf("inkreplay: still busy after %d frames", maxSettleFrames)
}

// encode writes img as WebP when path ends in .webp and as PNG otherwise.
func encode(w io.Writer, path string, img image.Image) error {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		return nativewebp.Encode(w, img, nil)
	}
	return png.Encode(w, img)
}
