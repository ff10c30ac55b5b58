// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"github.com/gogpu/ink"
)

// SetActiveID implements canvas.Selection. Picking the background or an
// unknown ID clears the selection.
func (r *Recorder) SetActiveID(id ink.PickID, pos ink.Point) {
	r.pickPos = pos
	if _, ok := r.index[id]; !ok {
		id = ink.NoPick
	}
	if id == r.selected {
		return
	}
	r.selected = id
	r.redraw()
}

// Selected returns the selected object's ID.
func (r *Recorder) Selected() (ink.PickID, bool) {
	return r.selected, r.selected != ink.NoPick
}

// PickPosition returns where the last pick happened.
func (r *Recorder) PickPosition() ink.Point { return r.pickPos }

// SelectionRect implements canvas.Selection.
func (r *Recorder) SelectionRect() (ink.Rect, bool) {
	o, ok := r.Object(r.selected)
	if !ok {
		return ink.Rect{}, false
	}
	return o.Bounds(r.src), true
}
