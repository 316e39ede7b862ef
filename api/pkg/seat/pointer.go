package seat

import "sync"

// CursorHotspot is the client-supplied hotspot offset for a cursor-image
// surface, cached per surface per spec §4.2.
type CursorHotspot struct {
	X, Y int32
}

// PointerFocusListener is notified of pointer focus transitions.
type PointerFocusListener interface {
	PointerLeave(old Surface)
	PointerEnter(new Surface, x, y float64)
	PointerMotion(surface Surface, x, y float64)
}

// Pointer is a seat's pointer capability handle: focus, grab stack, and
// the cursor-image role cache. Grounded on api/pkg/desktop/cursor_state.go
// and api/pkg/desktop/cursor.go.
type Pointer struct {
	seat *Seat
	grabStack

	mu        sync.Mutex
	focus     Surface
	listeners []PointerFocusListener

	cursorRoles map[Surface]CursorHotspot
}

func newPointer(s *Seat) *Pointer {
	return &Pointer{seat: s, cursorRoles: make(map[Surface]CursorHotspot)}
}

// OnFocusChange registers a listener for pointer focus transitions.
func (p *Pointer) OnFocusChange(l PointerFocusListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// Focus returns the currently focused surface, or nil.
func (p *Pointer) Focus() Surface {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.focus
}

// MotionTo updates the pointer's focus for position (x,y) under surface.
// A change of client sends leave+enter; motion within the same surface
// (or same client's other surface) is reported as plain motion, per
// spec §4.2's client-vs-same-client distinction.
func (p *Pointer) MotionTo(surface Surface, x, y float64) {
	p.mu.Lock()
	old := p.focus
	sameClient := old != nil && surface != nil && old.Client() == surface.Client()
	p.focus = surface
	listeners := append([]PointerFocusListener(nil), p.listeners...)
	p.mu.Unlock()

	switch {
	case old == surface:
		for _, l := range listeners {
			l.PointerMotion(surface, x, y)
		}
	case sameClient:
		for _, l := range listeners {
			l.PointerMotion(surface, x, y)
		}
	default:
		for _, l := range listeners {
			if old != nil {
				l.PointerLeave(old)
			}
			if surface != nil {
				l.PointerEnter(surface, x, y)
			}
		}
	}
}

// PruneDeadFocus clears focus if the focused surface has died.
func (p *Pointer) PruneDeadFocus() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.focus != nil && !p.focus.Alive() {
		p.focus = nil
	}
}

// SetCursor assigns the cursor_image role to surface with the given
// hotspot, but only if the pointer currently focuses a surface owned by
// client, the requesting client — otherwise the request is silently ignored,
// per Wayland's wrong-client set_cursor semantics (spec §4.2, boundary
// case 5). Assignment is idempotent: calling it again for the same
// surface just updates the hotspot.
func (p *Pointer) SetCursor(client ClientID, surface Surface, hotspot CursorHotspot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.focus == nil || p.focus.Client() != client {
		return
	}
	p.cursorRoles[surface] = hotspot
}

// CursorHotspotFor returns the cached hotspot for a cursor-image surface,
// and whether one has been recorded.
func (p *Pointer) CursorHotspotFor(surface Surface) (CursorHotspot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.cursorRoles[surface]
	return h, ok
}

// ClearCursorRole forgets a surface's cursor-image role state, called when
// the surface is destroyed.
func (p *Pointer) ClearCursorRole(surface Surface) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cursorRoles, surface)
}
