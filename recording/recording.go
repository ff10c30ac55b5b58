// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package recording

import (
	"github.com/gogpu/ink"
)

// Recording is an immutable set of objects. It can be replayed into any
// Drawer, for instance to render a scripted scene off-screen.
type Recording struct {
	objects []Object
}

// Len returns the number of objects.
func (r *Recording) Len() int { return len(r.objects) }

// Objects returns a copy of the objects.
func (r *Recording) Objects() []Object {
	out := make([]Object, len(r.objects))
	copy(out, r.objects)
	return out
}

// IDs returns the object IDs in arena order.
func (r *Recording) IDs() []ink.PickID {
	ids := make([]ink.PickID, len(r.objects))
	for i, o := range r.objects {
		ids[i] = o.ID
	}
	return ids
}

// Playback draws every object.
func (r *Recording) Playback(d Drawer) error {
	for _, o := range r.objects {
		if err := o.draw(d, o.From, o.To); err != nil {
			return err
		}
	}
	return nil
}

// Bounds returns the union of the object bounds.
func (r *Recording) Bounds(src SpriteSource) ink.Rect {
	var b ink.Rect
	for _, o := range r.objects {
		b = b.Union(o.Bounds(src))
	}
	return b
}
