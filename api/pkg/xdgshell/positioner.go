package xdgshell

import "github.com/wlcore/compositor-core/api/pkg/geometry"

// AnchorEdge names the edge or corner of an anchor rectangle (or gravity
// direction) a positioner references. The eight values mirror
// xdg_positioner's anchor/gravity enums.
type AnchorEdge int

const (
	AnchorNone AnchorEdge = iota
	AnchorTop
	AnchorBottom
	AnchorLeft
	AnchorRight
	AnchorTopLeft
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// ConstraintAdjustment is the bitset of adjustments a positioner permits
// when the unconstrained popup rectangle would not fit its target area.
type ConstraintAdjustment uint32

const (
	AdjustFlipX ConstraintAdjustment = 1 << iota
	AdjustFlipY
	AdjustSlideX
	AdjustSlideY
	AdjustResizeX
	AdjustResizeY
)

// Positioner is the full xdg_positioner state (spec §3.5).
type Positioner struct {
	RectSize             geometry.Size[geometry.Logical, int32]
	AnchorRect           geometry.Rectangle[geometry.Logical, int32]
	Anchor               AnchorEdge
	Gravity              AnchorEdge
	ConstraintAdjustment ConstraintAdjustment
	Offset               geometry.Point[geometry.Logical, int32]
	Reactive             bool
}

// anchorPoint returns the point on rect that anchor names: a corner maps
// to the corner, a single edge to its midpoint, and None to the center
// (spec §4.3 step 1).
func anchorPoint(rect geometry.Rectangle[geometry.Logical, int32], anchor AnchorEdge) geometry.Point[geometry.Logical, int32] {
	x1, y1 := rect.Origin.X, rect.Origin.Y
	x2, y2 := rect.X2(), rect.Y2()
	midX := (x1 + x2) / 2
	midY := (y1 + y2) / 2

	switch anchor {
	case AnchorTop:
		return geometry.Point[geometry.Logical, int32]{X: midX, Y: y1}
	case AnchorBottom:
		return geometry.Point[geometry.Logical, int32]{X: midX, Y: y2}
	case AnchorLeft:
		return geometry.Point[geometry.Logical, int32]{X: x1, Y: midY}
	case AnchorRight:
		return geometry.Point[geometry.Logical, int32]{X: x2, Y: midY}
	case AnchorTopLeft:
		return geometry.Point[geometry.Logical, int32]{X: x1, Y: y1}
	case AnchorTopRight:
		return geometry.Point[geometry.Logical, int32]{X: x2, Y: y1}
	case AnchorBottomLeft:
		return geometry.Point[geometry.Logical, int32]{X: x1, Y: y2}
	case AnchorBottomRight:
		return geometry.Point[geometry.Logical, int32]{X: x2, Y: y2}
	default:
		return geometry.Point[geometry.Logical, int32]{X: midX, Y: midY}
	}
}

// flipAnchor mirrors an anchor/gravity edge across the X axis (left<->right)
// or Y axis (top<->bottom); corners flip the relevant component.
func flipAnchorX(a AnchorEdge) AnchorEdge {
	switch a {
	case AnchorLeft:
		return AnchorRight
	case AnchorRight:
		return AnchorLeft
	case AnchorTopLeft:
		return AnchorTopRight
	case AnchorTopRight:
		return AnchorTopLeft
	case AnchorBottomLeft:
		return AnchorBottomRight
	case AnchorBottomRight:
		return AnchorBottomLeft
	default:
		return a
	}
}

func flipAnchorY(a AnchorEdge) AnchorEdge {
	switch a {
	case AnchorTop:
		return AnchorBottom
	case AnchorBottom:
		return AnchorTop
	case AnchorTopLeft:
		return AnchorBottomLeft
	case AnchorBottomLeft:
		return AnchorTopLeft
	case AnchorTopRight:
		return AnchorBottomRight
	case AnchorBottomRight:
		return AnchorTopRight
	default:
		return a
	}
}

// gravityOrigin computes the popup's origin given the anchor point and
// the direction gravity should push the popup rect away from it (step 3):
// the anchor point ends up on the named corner/edge of the popup rect.
func gravityOrigin(anchor geometry.Point[geometry.Logical, int32], size geometry.Size[geometry.Logical, int32], gravity AnchorEdge) geometry.Point[geometry.Logical, int32] {
	x, y := anchor.X, anchor.Y
	switch gravity {
	case AnchorTop:
		return geometry.Point[geometry.Logical, int32]{X: x - size.W/2, Y: y - size.H}
	case AnchorBottom:
		return geometry.Point[geometry.Logical, int32]{X: x - size.W/2, Y: y}
	case AnchorLeft:
		return geometry.Point[geometry.Logical, int32]{X: x - size.W, Y: y - size.H/2}
	case AnchorRight:
		return geometry.Point[geometry.Logical, int32]{X: x, Y: y - size.H/2}
	case AnchorTopLeft:
		return geometry.Point[geometry.Logical, int32]{X: x - size.W, Y: y - size.H}
	case AnchorTopRight:
		return geometry.Point[geometry.Logical, int32]{X: x, Y: y - size.H}
	case AnchorBottomLeft:
		return geometry.Point[geometry.Logical, int32]{X: x - size.W, Y: y}
	case AnchorBottomRight:
		return geometry.Point[geometry.Logical, int32]{X: x, Y: y}
	default:
		return geometry.Point[geometry.Logical, int32]{X: x - size.W/2, Y: y - size.H/2}
	}
}

// constraintOffsets returns how far rect overflows target on each side;
// positive means overflow past that edge.
func constraintOffsets(rect geometry.Rectangle[geometry.Logical, int32], target geometry.Rectangle[geometry.Logical, int32]) (left, right, top, bottom int32) {
	left = target.Origin.X - rect.Origin.X
	right = rect.X2() - target.X2()
	top = target.Origin.Y - rect.Origin.Y
	bottom = rect.Y2() - target.Y2()
	return
}

func constrainedX(rect geometry.Rectangle[geometry.Logical, int32], target geometry.Rectangle[geometry.Logical, int32]) bool {
	l, r, _, _ := constraintOffsets(rect, target)
	return l > 0 || r > 0
}

func constrainedY(rect geometry.Rectangle[geometry.Logical, int32], target geometry.Rectangle[geometry.Logical, int32]) bool {
	_, _, t, b := constraintOffsets(rect, target)
	return t > 0 || b > 0
}

// Resolve implements the ten-step popup positioning algorithm from spec
// §4.3: anchor point, offset, gravity, then flip/slide/resize against
// target (typically the parent output's usable area) in that priority
// order, each only applied if it actually removes the constraint (for
// flips) or is unconditionally opportunistic (slide, resize).
func (p Positioner) Resolve(target geometry.Rectangle[geometry.Logical, int32]) geometry.Rectangle[geometry.Logical, int32] {
	anchorEdge := p.Anchor
	offset := p.Offset
	anchor := anchorPoint(p.AnchorRect, anchorEdge).Add(offset)
	gravity := p.Gravity

	origin := gravityOrigin(anchor, p.RectSize, gravity)
	rect := geometry.Rectangle[geometry.Logical, int32]{Origin: origin, Size: p.RectSize}

	if constrainedX(rect, target) && p.ConstraintAdjustment&AdjustFlipX != 0 {
		flippedAnchorEdge := flipAnchorX(anchorEdge)
		flippedGravity := flipAnchorX(gravity)
		flippedOffset := geometry.Point[geometry.Logical, int32]{X: -offset.X, Y: offset.Y}
		flippedAnchorPt := anchorPoint(p.AnchorRect, flippedAnchorEdge).Add(flippedOffset)
		flippedOrigin := gravityOrigin(flippedAnchorPt, p.RectSize, flippedGravity)
		flippedRect := geometry.Rectangle[geometry.Logical, int32]{Origin: flippedOrigin, Size: p.RectSize}
		if !constrainedX(flippedRect, target) {
			rect = flippedRect
			anchorEdge = flippedAnchorEdge
			offset = flippedOffset
			gravity = flippedGravity
		}
	}

	if constrainedY(rect, target) && p.ConstraintAdjustment&AdjustFlipY != 0 {
		flippedAnchorEdge := flipAnchorY(anchorEdge)
		flippedGravity := flipAnchorY(gravity)
		flippedAnchorPt := anchorPoint(p.AnchorRect, flippedAnchorEdge).Add(geometry.Point[geometry.Logical, int32]{X: offset.X, Y: -offset.Y})
		flippedOrigin := gravityOrigin(flippedAnchorPt, p.RectSize, flippedGravity)
		flippedRect := geometry.Rectangle[geometry.Logical, int32]{Origin: flippedOrigin, Size: p.RectSize}
		if !constrainedY(flippedRect, target) {
			rect = flippedRect
		}
	}

	if constrainedX(rect, target) && p.ConstraintAdjustment&AdjustSlideX != 0 {
		l, r, _, _ := constraintOffsets(rect, target)
		switch {
		case l > 0:
			rect.Origin.X += l
		case r > 0:
			rect.Origin.X -= r
		}
	}

	if constrainedY(rect, target) && p.ConstraintAdjustment&AdjustSlideY != 0 {
		_, _, t, b := constraintOffsets(rect, target)
		switch {
		case t > 0:
			rect.Origin.Y += t
		case b > 0:
			rect.Origin.Y -= b
		}
	}

	if constrainedX(rect, target) && p.ConstraintAdjustment&AdjustResizeX != 0 {
		l, r, _, _ := constraintOffsets(rect, target)
		if l > 0 {
			rect.Origin.X += l
			rect.Size.W -= l
		}
		if r > 0 {
			rect.Size.W -= r
		}
		if rect.Size.W < 1 {
			rect.Size.W = 1
		}
	}

	if constrainedY(rect, target) && p.ConstraintAdjustment&AdjustResizeY != 0 {
		_, _, t, b := constraintOffsets(rect, target)
		if t > 0 {
			rect.Origin.Y += t
			rect.Size.H -= t
		}
		if b > 0 {
			rect.Size.H -= b
		}
		if rect.Size.H < 1 {
			rect.Size.H = 1
		}
	}

	return rect
}
