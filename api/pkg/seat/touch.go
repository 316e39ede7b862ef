package seat

import "sync"

// TouchPointID identifies one active touch contact for the lifetime of its
// down-to-up (or down-to-cancel) sequence.
type TouchPointID int32

// touchPoint holds the grab installed for one touch-point sequence. Each
// point gets its own grab slot: per spec's supplemented touch behavior, a
// kernel `cancel` event cancels only that point's grab, not the whole
// touch device.
type touchPoint struct {
	grabStack
	focus Surface
}

// Touch is a seat's touch capability handle, tracking one grab per active
// touch-point sequence. Grounded on api/pkg/desktop/wayland_input.go's
// per-device capability handle pattern, generalized to per-touch-point
// grab slots per the original implementation's touch cancellation model.
type Touch struct {
	seat *Seat

	mu     sync.Mutex
	points map[TouchPointID]*touchPoint
}

func newTouch(s *Seat) *Touch {
	return &Touch{seat: s, points: make(map[TouchPointID]*touchPoint)}
}

// Down begins a new touch-point sequence focused on surface.
func (t *Touch) Down(id TouchPointID, surface Surface) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.points[id] = &touchPoint{focus: surface}
}

// Focus returns the surface a touch point is focused on, if the point is
// still live.
func (t *Touch) Focus(id TouchPointID) (Surface, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.points[id]
	if !ok {
		return nil, false
	}
	return p.focus, true
}

// SetGrab installs a grab on a specific touch point.
func (t *Touch) SetGrab(id TouchPointID, serial uint32, grab Grab) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.points[id]
	if !ok {
		p = &touchPoint{}
		t.points[id] = p
	}
	p.SetGrab(serial, grab)
}

// HasGrab reports whether touch point id has an active grab under serial.
func (t *Touch) HasGrab(id TouchPointID, serial uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.points[id]
	if !ok {
		return false
	}
	return p.HasGrab(serial)
}

// Up ends a touch-point sequence normally, discarding its grab.
func (t *Touch) Up(id TouchPointID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.points, id)
}

// Cancel ends a touch-point sequence in response to a kernel `cancel`
// event. Only this point's grab and focus are discarded; other active
// touch points are unaffected.
func (t *Touch) Cancel(id TouchPointID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.points, id)
}

// PruneDeadGrabs releases any touch-point grab whose anchor has died.
func (t *Touch) PruneDeadGrabs() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.points {
		p.PruneDeadGrab()
	}
}
