// Package seat implements the seat and input-routing core: per-seat
// ownership of pointer/keyboard/touch capabilities, focus tracking, grab
// state machines, the cursor-image surface role, and popup grabs.
// Grounded on api/pkg/desktop/wayland_input.go's capability-handle pattern
// and api/pkg/desktop/cursor_state.go's focus bookkeeping.
package seat

import (
	"sync"
	"sync/atomic"

	"github.com/wlcore/compositor-core/api/pkg/clock"
)

// Capability is a bitmask of the input device classes a seat may expose,
// mirroring wl_seat.capability.
type Capability uint32

const (
	CapPointer Capability = 1 << iota
	CapKeyboard
	CapTouch
)

// UserDataMap is extension storage keyed by an arbitrary identifier,
// letting higher layers (xdgshell, layer-shell) attach seat-scoped state
// without the seat package knowing about them.
type UserDataMap struct {
	mu   sync.Mutex
	data map[any]any
}

func newUserDataMap() *UserDataMap {
	return &UserDataMap{data: make(map[any]any)}
}

// Get returns the value stored under key, or nil if none.
func (u *UserDataMap) Get(key any) any {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.data[key]
}

// Set stores value under key.
func (u *UserDataMap) Set(key, value any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.data[key] = value
}

// CapabilityListener is notified whenever a seat's advertised capability
// set changes, so a protocol binding can emit wl_seat.capabilities.
type CapabilityListener func(Capability)

type seatCore struct {
	name string
	refs atomic.Int32

	mu           sync.Mutex
	capabilities Capability
	listeners    []CapabilityListener

	pointer  *Pointer
	keyboard *Keyboard
	touch    *Touch

	userData *UserDataMap
	clock    clock.Clock
}

// Seat is a named hub ("seat-0" by convention) owning at most one pointer,
// keyboard, and touch handle. Reference-counted; a Weak form exists for
// observer references that should not keep the seat alive.
type Seat struct {
	core *seatCore
}

// WeakSeat is a non-owning reference to a Seat.
type WeakSeat struct {
	core *seatCore
}

// New constructs a seat with the given name and no capabilities.
func New(name string) *Seat {
	seatClock, err := clock.New(clock.Monotonic)
	if err != nil {
		// CLOCK_MONOTONIC is always available on Linux; a failure here
		// means the kernel itself is broken, not a recoverable seat
		// construction error.
		panic("seat: failed to open monotonic clock: " + err.Error())
	}
	core := &seatCore{name: name, userData: newUserDataMap(), clock: seatClock}
	core.refs.Store(1)
	return &Seat{core: core}
}

// Name returns the seat's protocol name (e.g. "seat-0").
func (s *Seat) Name() string { return s.core.name }

// UserData returns this seat's extension-storage map.
func (s *Seat) UserData() *UserDataMap { return s.core.userData }

// Now returns the current input-event timestamp in milliseconds, truncated
// to 32 bits to match wl_pointer/wl_keyboard/wl_touch event timestamps.
func (s *Seat) Now() uint32 {
	return uint32(s.core.clock.Now().UnixMilli())
}

// Clone returns a new strong handle to the same seat, incrementing the
// reference count.
func (s *Seat) Clone() *Seat {
	s.core.refs.Add(1)
	return &Seat{core: s.core}
}

// Weak returns a non-owning observer reference.
func (s *Seat) Weak() WeakSeat { return WeakSeat{core: s.core} }

// Upgrade obtains a strong handle from a weak reference, failing only if
// every strong handle has already been released.
func (w WeakSeat) Upgrade() (*Seat, bool) {
	for {
		n := w.core.refs.Load()
		if n <= 0 {
			return nil, false
		}
		if w.core.refs.CompareAndSwap(n, n+1) {
			return &Seat{core: w.core}, true
		}
	}
}

// Release decrements the reference count.
func (s *Seat) Release() { s.core.refs.Add(-1) }

// Capabilities returns the currently advertised capability bitmask.
func (s *Seat) Capabilities() Capability {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	return s.core.capabilities
}

// OnCapabilitiesChanged registers a listener invoked whenever the
// capability set changes, so a binding layer can emit wl_seat.capabilities.
func (s *Seat) OnCapabilitiesChanged(fn CapabilityListener) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	s.core.listeners = append(s.core.listeners, fn)
}

func (s *Seat) broadcastCapabilities() {
	caps := s.core.capabilities
	listeners := append([]CapabilityListener(nil), s.core.listeners...)
	for _, fn := range listeners {
		fn(caps)
	}
}

// AddPointer creates and installs the seat's pointer handle. A seat may
// hold at most one; calling this twice is a no-op that returns the
// existing handle.
func (s *Seat) AddPointer() *Pointer {
	s.core.mu.Lock()
	if s.core.pointer != nil {
		defer s.core.mu.Unlock()
		return s.core.pointer
	}
	s.core.pointer = newPointer(s)
	s.core.capabilities |= CapPointer
	s.core.mu.Unlock()
	s.broadcastCapabilities()
	return s.core.pointer
}

// RemovePointer unplugs the pointer handle (e.g. on device removal),
// clearing its capability bit and re-advertising.
func (s *Seat) RemovePointer() {
	s.core.mu.Lock()
	if s.core.pointer == nil {
		s.core.mu.Unlock()
		return
	}
	s.core.pointer = nil
	s.core.capabilities &^= CapPointer
	s.core.mu.Unlock()
	s.broadcastCapabilities()
}

// Pointer returns the seat's pointer handle, or nil if the seat has no
// pointer capability.
func (s *Seat) Pointer() *Pointer {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	return s.core.pointer
}

// AddKeyboard creates and installs the seat's keyboard handle.
func (s *Seat) AddKeyboard() *Keyboard {
	s.core.mu.Lock()
	if s.core.keyboard != nil {
		defer s.core.mu.Unlock()
		return s.core.keyboard
	}
	s.core.keyboard = newKeyboard(s)
	s.core.capabilities |= CapKeyboard
	s.core.mu.Unlock()
	s.broadcastCapabilities()
	return s.core.keyboard
}

// RemoveKeyboard unplugs the keyboard handle.
func (s *Seat) RemoveKeyboard() {
	s.core.mu.Lock()
	if s.core.keyboard == nil {
		s.core.mu.Unlock()
		return
	}
	s.core.keyboard = nil
	s.core.capabilities &^= CapKeyboard
	s.core.mu.Unlock()
	s.broadcastCapabilities()
}

// Keyboard returns the seat's keyboard handle, or nil.
func (s *Seat) Keyboard() *Keyboard {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	return s.core.keyboard
}

// AddTouch creates and installs the seat's touch handle.
func (s *Seat) AddTouch() *Touch {
	s.core.mu.Lock()
	if s.core.touch != nil {
		defer s.core.mu.Unlock()
		return s.core.touch
	}
	s.core.touch = newTouch(s)
	s.core.capabilities |= CapTouch
	s.core.mu.Unlock()
	s.broadcastCapabilities()
	return s.core.touch
}

// RemoveTouch unplugs the touch handle.
func (s *Seat) RemoveTouch() {
	s.core.mu.Lock()
	if s.core.touch == nil {
		s.core.mu.Unlock()
		return
	}
	s.core.touch = nil
	s.core.capabilities &^= CapTouch
	s.core.mu.Unlock()
	s.broadcastCapabilities()
}

// Touch returns the seat's touch handle, or nil.
func (s *Seat) Touch() *Touch {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()
	return s.core.touch
}
