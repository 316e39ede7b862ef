package xdgshell

import "github.com/wlcore/compositor-core/api/pkg/seat"

// ResizeGrab implements seat.Grab, anchoring an interactive resize to the
// toplevel surface being resized (spec §4.3 step 1-2: "Core stores
// ResizeData ... and installs a pointer grab").
type ResizeGrab struct {
	toplevel *Toplevel
	surface  seat.Surface
}

// StartResize begins toplevel's resize state and returns a grab ready
// to hand to Pointer.SetGrab. Callers must first verify, per step 1, that
// the requesting seat's pointer already holds a grab matching the
// client-supplied serial on this same surface; StartResize does not
// re-check that, it only begins the resize bookkeeping.
func StartResize(toplevel *Toplevel, surface seat.Surface, data ResizeData) *ResizeGrab {
	toplevel.Resize().Begin(data)
	return &ResizeGrab{toplevel: toplevel, surface: surface}
}

// Anchor ties the grab's lifetime to the resized surface.
func (g *ResizeGrab) Anchor() seat.Surface { return g.surface }

// Toplevel returns the toplevel this grab is resizing.
func (g *ResizeGrab) Toplevel() *Toplevel { return g.toplevel }
