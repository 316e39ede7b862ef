package seat

import "sync"

// Modifiers mirrors wl_keyboard.modifiers' four fields.
type Modifiers struct {
	Depressed uint32
	Latched   uint32
	Locked    uint32
	Group     uint32
}

// KeyboardFocusListener is notified of keyboard focus transitions so a
// protocol binding can emit wl_keyboard.leave/enter.
type KeyboardFocusListener interface {
	KeyboardLeave(old Surface)
	KeyboardEnter(new Surface, pressedKeys []uint32, mods Modifiers)
}

// Keyboard is a seat's keyboard capability handle: pressed-key state,
// modifier state, and the currently focused surface. Grounded on
// api/pkg/desktop/keyboard.go's pressed-keys tracking.
type Keyboard struct {
	seat *Seat

	mu          sync.Mutex
	pressedKeys map[uint32]struct{}
	mods        Modifiers
	focus       Surface
	listeners   []KeyboardFocusListener
}

func newKeyboard(s *Seat) *Keyboard {
	return &Keyboard{seat: s, pressedKeys: make(map[uint32]struct{})}
}

// OnFocusChange registers a listener for keyboard focus transitions.
func (k *Keyboard) OnFocusChange(l KeyboardFocusListener) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.listeners = append(k.listeners, l)
}

// Focus returns the currently focused surface, or nil.
func (k *Keyboard) Focus() Surface {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.focus
}

// SetFocus sends leave to the previously focused surface (if any) and
// enter to the new one with the current pressed-keys snapshot; modifier
// state is always re-sent on enter, per spec §4.2.
func (k *Keyboard) SetFocus(surface Surface) {
	k.mu.Lock()
	old := k.focus
	k.focus = surface
	var snapshot []uint32
	for key := range k.pressedKeys {
		snapshot = append(snapshot, key)
	}
	mods := k.mods
	listeners := append([]KeyboardFocusListener(nil), k.listeners...)
	k.mu.Unlock()

	for _, l := range listeners {
		if old != nil {
			l.KeyboardLeave(old)
		}
		if surface != nil {
			l.KeyboardEnter(surface, snapshot, mods)
		}
	}
}

// KeyDown records key as pressed.
func (k *Keyboard) KeyDown(key uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pressedKeys[key] = struct{}{}
}

// KeyUp records key as released.
func (k *Keyboard) KeyUp(key uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.pressedKeys, key)
}

// SetModifiers updates the tracked modifier state.
func (k *Keyboard) SetModifiers(mods Modifiers) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.mods = mods
}

// PruneDeadFocus clears focus if the focused surface has died, matching
// the "checked every dispatch" liveness rule used for grabs (spec §4.2).
func (k *Keyboard) PruneDeadFocus() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.focus != nil && !k.focus.Alive() {
		k.focus = nil
	}
}
