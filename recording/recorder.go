// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"fmt"
	"slices"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/canvas"
)

// Recorder turns pen strokes into objects and draws them for the canvas.
//
// Every sprite appended to the arena while the pen is down belongs to the
// stroke in progress. The recorder learns the arena position from the
// cursor values the canvas passes to PressStart and PressMove, so all
// appends must go through the canvas the recorder is attached to.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	src     SpriteSource
	objects []Object
	index   map[ink.PickID]int
	nextID  ink.PickID

	// Current stroke
	active *Object

	// Arena position observed last and drawn up to.
	seen  int
	drawn int

	// Current style
	style      style
	styleStack []style

	hover    ink.Point
	hovering bool

	selected ink.PickID
	pickPos  ink.Point

	playing  bool
	playhead int
	speed    int

	requestRedraw func()
}

// style is the state applied to new strokes, saved by Push.
type style struct {
	color     ink.RGB
	pointSize float32
	transform ink.Mat4
}

var (
	_ canvas.Timeline  = (*Recorder)(nil)
	_ canvas.Selection = (*Recorder)(nil)
)

// DefaultPlaybackSpeed is the number of sprites revealed per frame.
const DefaultPlaybackSpeed = 64

// NewRecorder creates a recorder over src, usually the renderer's arena.
// New strokes start black at DefaultPointSize with the identity transform.
func NewRecorder(src SpriteSource) *Recorder {
	return &Recorder{
		src:    src,
		index:  make(map[ink.PickID]int),
		nextID: 1,
		seen:   src.Len(),
		drawn:  src.Len(),
		style: style{
			color:     ink.Black,
			pointSize: DefaultPointSize,
			transform: ink.Identity(),
		},
		selected: ink.NoPick,
		speed:    DefaultPlaybackSpeed,
	}
}

// SetRedrawRequester sets the func called when recorded state changes in a
// way that needs a full redraw, usually Canvas.RequestRedraw.
func (r *Recorder) SetRedrawRequester(fn func()) {
	r.requestRedraw = fn
}

func (r *Recorder) redraw() {
	if r.requestRedraw != nil {
		r.requestRedraw()
	}
}

// --------------------------------------------------------------------------
// Style
// --------------------------------------------------------------------------

// SetColor sets the paint colour of subsequent strokes.
func (r *Recorder) SetColor(c ink.RGB) { r.style.color = c }

// SetPointSize sets the size of subsequent strokes in thousandths of the
// canvas width. Non-positive sizes are ignored.
func (r *Recorder) SetPointSize(size float32) {
	if size > 0 {
		r.style.pointSize = size
	}
}

// SetTransform sets the transform of subsequent strokes.
func (r *Recorder) SetTransform(m ink.Mat4) { r.style.transform = m }

// Push saves the current style.
func (r *Recorder) Push() {
	r.styleStack = append(r.styleStack, r.style)
}

// Pop restores the style saved by the matching Push. Pop without Push is
// a no-op.
func (r *Recorder) Pop() {
	n := len(r.styleStack)
	if n == 0 {
		return
	}
	r.style = r.styleStack[n-1]
	r.styleStack = r.styleStack[:n-1]
}

// --------------------------------------------------------------------------
// Objects
// --------------------------------------------------------------------------

// Len returns the number of recorded objects.
func (r *Recorder) Len() int { return len(r.objects) }

// Objects returns a copy of the recorded objects in arena order.
func (r *Recorder) Objects() []Object {
	return slices.Clone(r.objects)
}

// Object returns the object carrying id.
func (r *Recorder) Object(id ink.PickID) (Object, bool) {
	i, ok := r.index[id]
	if !ok {
		return Object{}, false
	}
	return r.objects[i], true
}

// Add records an object over sprites already in the arena. A zero ID is
// replaced by the next free one. The stored object is returned.
func (r *Recorder) Add(o Object) (Object, error) {
	if o.From < 0 || o.To > r.src.Len() || o.From >= o.To {
		return Object{}, fmt.Errorf("%w: [%d, %d) with %d sprites", ErrEmptyObject, o.From, o.To, r.src.Len())
	}
	if o.ID == 0 {
		id, err := r.allocID()
		if err != nil {
			return Object{}, err
		}
		o.ID = id
	}
	if o.ID >= ink.NoPick {
		return Object{}, fmt.Errorf("%w: %#x", ErrInvalidID, uint32(o.ID))
	}
	if _, dup := r.index[o.ID]; dup {
		return Object{}, fmt.Errorf("%w: %d", ErrDuplicateID, o.ID)
	}
	if o.PointSize <= 0 {
		o.PointSize = r.style.pointSize
	}
	if o.Transform == (ink.Mat4{}) {
		o.Transform = ink.Identity()
	}
	r.insert(o)
	r.seen = max(r.seen, o.To)
	r.nextID = max(r.nextID, o.ID+1)
	r.redraw()
	return o, nil
}

// insert keeps objects ordered by their first sprite.
func (r *Recorder) insert(o Object) {
	i, _ := slices.BinarySearchFunc(r.objects, o.From, func(e Object, from int) int {
		return e.From - from
	})
	r.objects = slices.Insert(r.objects, i, o)
	r.reindex(i)
}

func (r *Recorder) reindex(from int) {
	for i := from; i < len(r.objects); i++ {
		r.index[r.objects[i].ID] = i
	}
}

// Remove deletes the object carrying id. Its sprites stay in the arena.
func (r *Recorder) Remove(id ink.PickID) error {
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	delete(r.index, id)
	r.objects = slices.Delete(r.objects, i, i+1)
	r.reindex(i)
	if r.selected == id {
		r.selected = ink.NoPick
	}
	r.redraw()
	return nil
}

// SetObjectColor recolours an object.
func (r *Recorder) SetObjectColor(id ink.PickID, c ink.RGB) error {
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	r.objects[i].Color = c
	r.redraw()
	return nil
}

// SetObjectTransform replaces an object's transform, e.g. to move a
// selection.
func (r *Recorder) SetObjectTransform(id ink.PickID, m ink.Mat4) error {
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	r.objects[i].Transform = m
	r.redraw()
	return nil
}

func (r *Recorder) allocID() (ink.PickID, error) {
	for r.nextID < ink.NoPick {
		id := r.nextID
		r.nextID++
		if _, used := r.index[id]; !used {
			return id, nil
		}
	}
	return 0, ErrIDSpaceExhausted
}

// FinishRecording returns an immutable snapshot of the recorded objects.
// The recorder stays usable.
func (r *Recorder) FinishRecording() *Recording {
	return &Recording{objects: r.Objects()}
}

// --------------------------------------------------------------------------
// Pen input
// --------------------------------------------------------------------------

// PressStart implements canvas.Timeline. The new stroke starts at the arena
// position seen before the press.
func (r *Recorder) PressStart(_ ink.Point, _, cursor int) {
	if r.active != nil {
		r.PressEnd()
	}
	id, err := r.allocID()
	if err != nil {
		ink.Logger().Warn("recording: stroke not recorded", "err", err)
		r.seen = cursor
		return
	}
	r.active = &Object{
		ID:        id,
		From:      r.seen,
		To:        cursor,
		Color:     r.style.color,
		PointSize: r.style.pointSize,
		Transform: r.style.transform,
	}
	r.seen = cursor
}

// PressMove implements canvas.Timeline.
func (r *Recorder) PressMove(_ ink.Point, cursor int) {
	if r.active != nil {
		r.active.To = cursor
	}
	r.seen = cursor
}

// PressEnd implements canvas.Timeline. Strokes whose sprites were all
// dropped are discarded.
func (r *Recorder) PressEnd() {
	o := r.active
	r.active = nil
	if o == nil || o.Len() <= 0 {
		return
	}
	r.insert(*o)
	ink.Logger().Debug("recording: stroke", "id", uint32(o.ID), "sprites", o.Len())
}

// Drawing returns the stroke in progress.
func (r *Recorder) Drawing() (Object, bool) {
	if r.active == nil {
		return Object{}, false
	}
	return *r.active, true
}

// HoverStart implements canvas.Timeline.
func (r *Recorder) HoverStart(pos ink.Point) {
	r.hover, r.hovering = pos, true
}

// HoverMove implements canvas.Timeline.
func (r *Recorder) HoverMove(pos ink.Point) {
	r.hover, r.hovering = pos, true
}

// HoverEnd implements canvas.Timeline.
func (r *Recorder) HoverEnd() { r.hovering = false }

// Hover returns the hover position while the pen is up.
func (r *Recorder) Hover() (ink.Point, bool) { return r.hover, r.hovering }

// --------------------------------------------------------------------------
// Drawing
// --------------------------------------------------------------------------

// RedrawScreen implements canvas.Timeline. During playback only the
// sprites before the playhead are drawn.
func (r *Recorder) RedrawScreen(d *canvas.Drawer) error {
	hi := r.seen
	if r.playing {
		hi = r.playhead
	}
	if err := r.drawRange(d, 0, hi); err != nil {
		return err
	}
	if !d.Picking() {
		r.drawn = hi
	}
	return nil
}

// IncrementalDraw implements canvas.Timeline. It draws the sprites added
// since the last draw, or advances the playhead while playing.
func (r *Recorder) IncrementalDraw(d *canvas.Drawer) error {
	if r.playing {
		return r.advance(d)
	}
	lo, hi := r.drawn, r.seen
	if lo >= hi {
		return nil
	}
	r.drawn = hi
	return r.drawRange(d, lo, hi)
}

// drawRange draws the parts of every object, including the stroke in
// progress, that fall in [lo, hi).
func (r *Recorder) drawRange(d Drawer, lo, hi int) error {
	for _, o := range r.objects {
		if o.From >= hi {
			break
		}
		if err := o.draw(d, lo, hi); err != nil {
			return err
		}
	}
	if r.active != nil {
		return r.active.draw(d, lo, hi)
	}
	return nil
}
