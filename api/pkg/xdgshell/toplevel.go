package xdgshell

import "github.com/wlcore/compositor-core/api/pkg/geometry"

// ToplevelStateBit is one bit of an xdg_toplevel's state bitset.
type ToplevelStateBit uint32

const (
	StateMaximized ToplevelStateBit = 1 << iota
	StateFullscreen
	StateResizing
	StateActivated
	StateTiledLeft
	StateTiledRight
	StateTiledTop
	StateTiledBottom
)

// DecorationMode selects who draws a toplevel's window decorations.
type DecorationMode int

const (
	DecorationClientSide DecorationMode = iota
	DecorationServerSide
)

// ToplevelCapability is one bit of the capability bitset a compositor
// advertises for a toplevel (window-menu, maximize, fullscreen, minimize).
type ToplevelCapability uint32

const (
	CapWindowMenu ToplevelCapability = 1 << iota
	CapMaximize
	CapFullscreen
	CapMinimize
)

// ToplevelAttrs is the double-buffered attribute set for an xdg_toplevel
// (spec §3.5): ack_configure makes the acknowledged state Pending, and the
// next Commit promotes Pending to Current.
type ToplevelAttrs struct {
	Size            geometry.Size[geometry.Logical, int32]
	MinSize         geometry.Size[geometry.Logical, int32]
	MaxSize         geometry.Size[geometry.Logical, int32]
	States          ToplevelStateBit
	Parent          *Toplevel
	Title           string
	AppID           string
	FullscreenOut   string
	Decoration      DecorationMode
	Capabilities    ToplevelCapability
}

// Toplevel is an xdg_toplevel role object: a surface with double-buffered
// window attributes and its own configure/ack tracker. The compositor
// must send exactly one empty configure before the client may attach a
// buffer (spec §4.3 "Toplevel initial configure").
type Toplevel struct {
	Current ToplevelAttrs
	Pending ToplevelAttrs

	Ack AckTracker[ToplevelAttrs]

	initialConfigureSent bool
	resize               ResizeGrabState
}

// NeedsInitialConfigure reports whether the compositor must still send the
// mandatory first empty configure before this toplevel may attach a
// buffer.
func (tl *Toplevel) NeedsInitialConfigure() bool {
	return !tl.initialConfigureSent
}

// SendInitialConfigure records that the initial configure has been sent
// and pushes it onto the ack tracker under serial.
func (tl *Toplevel) SendInitialConfigure(serial uint32) {
	tl.initialConfigureSent = true
	tl.Ack.Push(ToplevelAttrs{}, serial)
}

// SendConfigure pushes a new pending configure under serial.
func (tl *Toplevel) SendConfigure(attrs ToplevelAttrs, serial uint32) {
	tl.Ack.Push(attrs, serial)
}

// AckConfigure processes ack_configure(serial) for this toplevel.
func (tl *Toplevel) AckConfigure(serial uint32, objectName string) error {
	state, err := tl.Ack.Ack(serial, objectName)
	if err != nil {
		return err
	}
	tl.Pending = state
	return nil
}

// Commit promotes pending attributes to current, the toplevel half of the
// atomic wl_surface.commit promotion (spec §5 "Ordering guarantees").
func (tl *Toplevel) Commit() {
	tl.Current = tl.Pending
	tl.resize.OnCommit()
}

// Resize returns this toplevel's interactive-resize grab state machine.
func (tl *Toplevel) Resize() *ResizeGrabState { return &tl.resize }
