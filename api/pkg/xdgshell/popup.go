package xdgshell

import (
	"github.com/wlcore/compositor-core/api/pkg/cerrors"
	"github.com/wlcore/compositor-core/api/pkg/geometry"
)

// PopupGeometry is the resulting (computed) state sent to the client in a
// popup configure event.
type PopupGeometry struct {
	Rect geometry.Rectangle[geometry.Logical, int32]
}

// Popup is an xdg_popup role object: a required parent surface, the
// positioner it was created with, and the positioner-resolved geometry
// (spec §3.5).
type Popup struct {
	Parent     *Toplevel
	Positioner Positioner
	Geometry   PopupGeometry

	Ack AckTracker[PopupGeometry]
}

// NewPopup constructs a popup under parent using positioner, immediately
// resolving its geometry against target (the parent's usable area,
// normally the output geometry the parent currently lives on). A nil
// parent is a protocol error per spec §4.3 ("parent surface (required)").
func NewPopup(parent *Toplevel, positioner Positioner, target geometry.Rectangle[geometry.Logical, int32], objectName string) (*Popup, error) {
	if parent == nil {
		return nil, cerrors.NewInvalidObject(objectName, "popup requires a parent surface")
	}
	rect := positioner.Resolve(target)
	return &Popup{
		Parent:     parent,
		Positioner: positioner,
		Geometry:   PopupGeometry{Rect: rect},
	}, nil
}

// Reposition recomputes geometry against a (possibly updated) target and
// pushes a new configure under serial, for xdg_popup.reposition or a
// reactive positioner responding to parent movement.
func (p *Popup) Reposition(positioner Positioner, target geometry.Rectangle[geometry.Logical, int32], serial uint32) {
	p.Positioner = positioner
	p.Geometry = PopupGeometry{Rect: positioner.Resolve(target)}
	p.Ack.Push(p.Geometry, serial)
}

// AckConfigure processes ack_configure(serial) for this popup.
func (p *Popup) AckConfigure(serial uint32, objectName string) error {
	state, err := p.Ack.Ack(serial, objectName)
	if err != nil {
		return err
	}
	p.Geometry = state
	return nil
}
