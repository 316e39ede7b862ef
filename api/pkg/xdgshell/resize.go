package xdgshell

import "github.com/wlcore/compositor-core/api/pkg/geometry"

// Edge matches xdg_toplevel's resize_edge enum values exactly, since
// clients send them on the wire.
type Edge uint32

const (
	EdgeNone        Edge = 0
	EdgeTop         Edge = 1
	EdgeBottom      Edge = 2
	EdgeLeft        Edge = 4
	EdgeTopLeft     Edge = 5
	EdgeBottomLeft  Edge = 6
	EdgeRight       Edge = 8
	EdgeTopRight    Edge = 9
	EdgeBottomRight Edge = 10
)

func (e Edge) hasLeft() bool { return e == EdgeLeft || e == EdgeTopLeft || e == EdgeBottomLeft }
func (e Edge) hasTop() bool  { return e == EdgeTop || e == EdgeTopLeft || e == EdgeTopRight }

// ResizeData is the frozen context captured when an interactive resize
// begins (spec §3.8).
type ResizeData struct {
	Edges                Edge
	InitialWindowLocation geometry.Point[geometry.Logical, int32]
	InitialWindowSize     geometry.Size[geometry.Logical, int32]
}

// resizePhase is the resize-grab state machine from spec §3.8: no
// interactive resize in progress, an active one tracking pointer motion,
// one waiting for the client's final ack after button-release, or one
// waiting for the commit that applies the post-resize buffer.
type resizePhase int

const (
	resizeNotResizing resizePhase = iota
	resizeResizing
	resizeWaitingForFinalAck
	resizeWaitingForCommit
)

// ResizeGrabState drives the interactive-resize protocol described in
// spec §4.3. It is embedded in Toplevel; Toplevel.Commit drives its final
// transition.
type ResizeGrabState struct {
	phase  resizePhase
	data   ResizeData
	serial uint32
}

// Begin starts an interactive resize, installing Resizing(data) per
// step 2 of spec §4.3's resize protocol. Callers are responsible for
// verifying the grab/serial match (step 1) before calling this.
func (r *ResizeGrabState) Begin(data ResizeData) {
	r.phase = resizeResizing
	r.data = data
}

// Active reports whether an interactive resize is in progress in any
// phase.
func (r *ResizeGrabState) Active() bool { return r.phase != resizeNotResizing }

// Motion computes the new toplevel size for a pointer delta (dx, dy) from
// the resize's starting point, per step 3: sign is inverted on LEFT/TOP
// edges, and each dimension clamps to [max(min,1), max], with no upper
// bound when max is zero.
func (r *ResizeGrabState) Motion(dx, dy int32, minSize, maxSize geometry.Size[geometry.Logical, int32]) (geometry.Size[geometry.Logical, int32], bool) {
	if r.phase != resizeResizing {
		return geometry.Size[geometry.Logical, int32]{}, false
	}

	w := r.data.InitialWindowSize.W
	h := r.data.InitialWindowSize.H
	if r.data.Edges.hasLeft() {
		w -= dx
	} else {
		w += dx
	}
	if r.data.Edges.hasTop() {
		h -= dy
	} else {
		h += dy
	}

	w = clampDimension(w, minSize.W, maxSize.W)
	h = clampDimension(h, minSize.H, maxSize.H)
	return geometry.Size[geometry.Logical, int32]{W: w, H: h}, true
}

func clampDimension(v, min, max int32) int32 {
	lo := min
	if lo < 1 {
		lo = 1
	}
	if v < lo {
		v = lo
	}
	if max != 0 && v > max {
		v = max
	}
	return v
}

// ButtonRelease ends the motion phase and moves to WaitingForFinalAck,
// per step 4. serial is the serial the final configure is sent under.
func (r *ResizeGrabState) ButtonRelease(serial uint32) {
	if r.phase != resizeResizing {
		return
	}
	r.phase = resizeWaitingForFinalAck
	r.serial = serial
}

// AckConfigure processes an ack_configure during an in-progress resize
// (step 5): if the acked serial is at least the stored one and the
// acknowledged state still carries the Resizing bit, move to
// WaitingForCommit. Returns the repositioned window location when a
// top/left edge requires preserving the opposite fixed corner, and
// whether a transition occurred.
func (r *ResizeGrabState) AckConfigure(serial uint32, ackedStates ToplevelStateBit, newSize geometry.Size[geometry.Logical, int32]) (geometry.Point[geometry.Logical, int32], bool) {
	if r.phase != resizeWaitingForFinalAck || serial < r.serial {
		return geometry.Point[geometry.Logical, int32]{}, false
	}
	if ackedStates&StateResizing == 0 {
		return geometry.Point[geometry.Logical, int32]{}, false
	}

	r.phase = resizeWaitingForCommit

	loc := r.data.InitialWindowLocation
	if r.data.Edges.hasLeft() {
		loc.X = r.data.InitialWindowLocation.X + r.data.InitialWindowSize.W - newSize.W
	}
	if r.data.Edges.hasTop() {
		loc.Y = r.data.InitialWindowLocation.Y + r.data.InitialWindowSize.H - newSize.H
	}
	return loc, true
}

// OnCommit implements step 6: the next commit clears the state back to
// NotResizing once a post-resize buffer has landed.
func (r *ResizeGrabState) OnCommit() {
	if r.phase == resizeWaitingForCommit {
		r.phase = resizeNotResizing
	}
}
