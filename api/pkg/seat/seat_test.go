package seat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	client ClientID
	alive  bool
}

func (f *fakeSurface) Alive() bool     { return f.alive }
func (f *fakeSurface) Client() ClientID { return f.client }

type fakeGrab struct {
	anchor Surface
}

func (f *fakeGrab) Anchor() Surface { return f.anchor }

func TestCapabilityBroadcastOnAddRemove(t *testing.T) {
	s := New("seat-0")
	var seen []Capability
	s.OnCapabilitiesChanged(func(c Capability) { seen = append(seen, c) })

	s.AddPointer()
	s.AddKeyboard()
	s.RemovePointer()

	require.Len(t, seen, 3)
	assert.Equal(t, CapPointer, seen[0])
	assert.Equal(t, CapPointer|CapKeyboard, seen[1])
	assert.Equal(t, CapKeyboard, seen[2])
}

func TestAddPointerIdempotent(t *testing.T) {
	s := New("seat-0")
	p1 := s.AddPointer()
	p2 := s.AddPointer()
	assert.Same(t, p1, p2)
}

func TestPointerFocusClientVsSameClientMotion(t *testing.T) {
	s := New("seat-0")
	p := s.AddPointer()

	var leaves, enters, motions int
	p.OnFocusChange(focusRecorder{
		leave:  func(Surface) { leaves++ },
		enter:  func(Surface, float64, float64) { enters++ },
		motion: func(Surface, float64, float64) { motions++ },
	})

	surfaceA := &fakeSurface{client: 1, alive: true}
	surfaceB := &fakeSurface{client: 1, alive: true}
	surfaceC := &fakeSurface{client: 2, alive: true}

	p.MotionTo(surfaceA, 1, 1)
	assert.Equal(t, 1, enters)

	p.MotionTo(surfaceB, 2, 2)
	assert.Equal(t, 1, motions, "same-client motion should not trigger leave/enter")

	p.MotionTo(surfaceC, 3, 3)
	assert.Equal(t, 1, leaves)
	assert.Equal(t, 2, enters)
}

func TestSetCursorIgnoredForWrongClient(t *testing.T) {
	s := New("seat-0")
	p := s.AddPointer()

	focused := &fakeSurface{client: 1, alive: true}
	p.MotionTo(focused, 0, 0)

	cursorSurface := &fakeSurface{client: 2, alive: true}
	p.SetCursor(2, cursorSurface, CursorHotspot{X: 3, Y: 4})

	_, ok := p.CursorHotspotFor(cursorSurface)
	assert.False(t, ok, "set_cursor from a non-focused client must be silently ignored")
}

func TestSetCursorAcceptedForFocusedClientIdempotent(t *testing.T) {
	s := New("seat-0")
	p := s.AddPointer()

	focused := &fakeSurface{client: 1, alive: true}
	p.MotionTo(focused, 0, 0)

	cursorSurface := &fakeSurface{client: 1, alive: true}
	p.SetCursor(1, cursorSurface, CursorHotspot{X: 3, Y: 4})
	p.SetCursor(1, cursorSurface, CursorHotspot{X: 5, Y: 6})

	h, ok := p.CursorHotspotFor(cursorSurface)
	require.True(t, ok)
	assert.Equal(t, CursorHotspot{X: 5, Y: 6}, h)
}

func TestGrabStackHasGrab(t *testing.T) {
	var g grabStack
	anchor := &fakeSurface{alive: true}
	grab := &fakeGrab{anchor: anchor}

	g.SetGrab(7, grab)
	assert.True(t, g.HasGrab(7))
	assert.False(t, g.HasGrab(8))
}

func TestGrabStackPrunesOnDeadAnchor(t *testing.T) {
	var g grabStack
	anchor := &fakeSurface{alive: true}
	grab := &fakeGrab{anchor: anchor}
	g.SetGrab(1, grab)

	anchor.alive = false
	g.PruneDeadGrab()

	assert.False(t, g.HasGrab(1))
}

func TestGrabStackReentrancyPanics(t *testing.T) {
	var g grabStack
	grab := &fakeGrab{anchor: &fakeSurface{alive: true}}
	g.SetGrab(1, grab)

	assert.Panics(t, func() {
		g.WithGrab(func(Grab) {
			g.SetGrab(2, grab)
		})
	})
}

func TestPopupGrabDismissTopmostOnlyRemovesTip(t *testing.T) {
	root := &fakeSurface{alive: true}
	popupA := &fakeSurface{alive: true}
	popupB := &fakeSurface{alive: true}

	var dismissed []Surface
	grab := NewPopupGrab(root, DismissTopmost, func(d []Surface) { dismissed = append(dismissed, d...) })
	grab.AddPopup(popupA)
	grab.AddPopup(popupB)

	grab.Release()

	require.Len(t, dismissed, 1)
	assert.Same(t, popupB, dismissed[0])
	assert.Len(t, grab.Chain(), 1)
}

func TestPopupGrabDismissAllClearsChain(t *testing.T) {
	root := &fakeSurface{alive: true}
	popupA := &fakeSurface{alive: true}
	popupB := &fakeSurface{alive: true}

	var dismissed []Surface
	grab := NewPopupGrab(root, DismissAll, func(d []Surface) { dismissed = append(dismissed, d...) })
	grab.AddPopup(popupA)
	grab.AddPopup(popupB)

	grab.Release()

	assert.Len(t, dismissed, 2)
	assert.Empty(t, grab.Chain())
}

func TestTouchCancelOnlyAffectsOnePoint(t *testing.T) {
	s := New("seat-0")
	touch := s.AddTouch()

	surfaceA := &fakeSurface{alive: true}
	touch.Down(1, surfaceA)
	touch.Down(2, surfaceA)
	touch.SetGrab(1, 10, &fakeGrab{anchor: surfaceA})
	touch.SetGrab(2, 20, &fakeGrab{anchor: surfaceA})

	touch.Cancel(1)

	assert.False(t, touch.HasGrab(1, 10))
	assert.True(t, touch.HasGrab(2, 20))
}

func TestKeyboardFocusResendsModifiersAndPressedKeys(t *testing.T) {
	s := New("seat-0")
	kb := s.AddKeyboard()
	kb.KeyDown(30)
	kb.SetModifiers(Modifiers{Depressed: 1})

	var enteredKeys []uint32
	var enteredMods Modifiers
	kb.OnFocusChange(keyboardRecorder{
		enter: func(_ Surface, keys []uint32, mods Modifiers) {
			enteredKeys = keys
			enteredMods = mods
		},
	})

	kb.SetFocus(&fakeSurface{client: 1, alive: true})

	assert.Equal(t, []uint32{30}, enteredKeys)
	assert.Equal(t, Modifiers{Depressed: 1}, enteredMods)
}

type focusRecorder struct {
	leave  func(Surface)
	enter  func(Surface, float64, float64)
	motion func(Surface, float64, float64)
}

func (f focusRecorder) PointerLeave(s Surface)              { f.leave(s) }
func (f focusRecorder) PointerEnter(s Surface, x, y float64)  { f.enter(s, x, y) }
func (f focusRecorder) PointerMotion(s Surface, x, y float64) { f.motion(s, x, y) }

type keyboardRecorder struct {
	leave func(Surface)
	enter func(Surface, []uint32, Modifiers)
}

func (k keyboardRecorder) KeyboardLeave(s Surface) {
	if k.leave != nil {
		k.leave(s)
	}
}

func (k keyboardRecorder) KeyboardEnter(s Surface, keys []uint32, mods Modifiers) {
	if k.enter != nil {
		k.enter(s, keys, mods)
	}
}
