// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"github.com/gogpu/ink"
)

// Play replays the recorded strokes from the start, revealing the playback
// speed's worth of sprites per incremental draw.
func (r *Recorder) Play() {
	if r.end() == 0 {
		return
	}
	r.playing = true
	r.playhead = 0
	r.redraw()
}

// Stop ends playback and shows everything again.
func (r *Recorder) Stop() {
	if !r.playing {
		return
	}
	r.playing = false
	r.redraw()
}

// IsPlaying implements canvas.Timeline.
func (r *Recorder) IsPlaying() bool { return r.playing }

// Playhead returns the arena position playback has reached.
func (r *Recorder) Playhead() int { return r.playhead }

// SetPlaybackSpeed sets how many sprites each playback frame reveals.
// Non-positive values are ignored.
func (r *Recorder) SetPlaybackSpeed(sprites int) {
	if sprites > 0 {
		r.speed = sprites
	}
}

// CursorPosition implements canvas.Timeline: the last sprite revealed by
// playback, or the origin before the first one.
func (r *Recorder) CursorPosition() ink.Point {
	if r.playhead <= 0 || r.playhead > r.src.Len() {
		return ink.Point{}
	}
	return r.src.At(r.playhead - 1).Point()
}

// end is one past the last recorded sprite.
func (r *Recorder) end() int {
	n := 0
	for _, o := range r.objects {
		n = max(n, o.To)
	}
	return n
}

// advance reveals the next sprites and stops at the end of the recording.
func (r *Recorder) advance(d Drawer) error {
	lo := r.playhead
	hi := min(lo+r.speed, r.end())
	r.playhead = hi
	if hi >= r.end() {
		r.playing = false
		ink.Logger().Debug("recording: playback finished", "sprites", hi)
	}
	r.drawn = r.seen
	return r.drawRange(d, lo, hi)
}
