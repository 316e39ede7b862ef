// Package output implements the output broadcaster: a named abstract
// display whose state changes are broadcast, in a fixed order, to every
// client-bound protocol instance. Grounded on api/pkg/desktop's
// client-bound-instance broadcast pattern, generalized per spec §3.7/§4.4.
package output

import (
	"sync"

	"github.com/wlcore/compositor-core/api/pkg/geometry"
)

// Subpixel mirrors wl_output.subpixel.
type Subpixel int

const (
	SubpixelUnknown Subpixel = iota
	SubpixelNone
	SubpixelHorizontalRGB
	SubpixelHorizontalBGR
	SubpixelVerticalRGB
	SubpixelVerticalBGR
)

// Mode is one supported display mode plus its current/preferred status.
type Mode struct {
	Size       geometry.Size[geometry.Physical, int32]
	RefreshMHz int32
	Preferred  bool
}

// Listener receives ordered broadcast events for one client-bound
// protocol instance. A binding layer implements this over the real
// wl_output/zxdg_output resources for one client.
type Listener interface {
	XdgOutputUpdated(o *Output)
	Geometry(o *Output)
	Mode(m Mode)
	Scale(scale geometry.Scale)
	Done()
	// SupportsScaleEvent reports whether this bound instance is v2+ and
	// should receive Scale/Done events (spec §4.4 "if scale changed and
	// client is v2+, emit scale ... finally emit done if v2+").
	SupportsScaleEvent() bool
}

// Output is a named abstract display (spec §3.7).
type Output struct {
	Name string

	mu             sync.Mutex
	physicalSizeMM geometry.Size[geometry.Physical, int32]
	subpixel       Subpixel
	modes          []Mode
	currentMode    Mode
	location       geometry.Point[geometry.Logical, int32]
	transform      geometry.Transform
	scale          geometry.Scale

	listeners []Listener
}

// New constructs an output named name (e.g. "HDMI-A-1").
func New(name string) *Output {
	return &Output{Name: name, scale: geometry.IntegerScale(1)}
}

// Bind registers a new client-bound protocol instance.
func (o *Output) Bind(l Listener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, l)
}

// Unbind removes a client-bound protocol instance, e.g. on object
// destruction.
func (o *Output) Unbind(l Listener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, existing := range o.listeners {
		if existing == l {
			o.listeners = append(o.listeners[:i], o.listeners[i+1:]...)
			return
		}
	}
}

// SetModes replaces the list of supported modes.
func (o *Output) SetModes(modes []Mode) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.modes = modes
}

// Modes returns the supported mode list.
func (o *Output) Modes() []Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Mode(nil), o.modes...)
}

// SetPhysicalSize sets the physical display size in millimeters.
func (o *Output) SetPhysicalSize(size geometry.Size[geometry.Physical, int32]) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.physicalSizeMM = size
}

// SetSubpixel sets the subpixel layout.
func (o *Output) SetSubpixel(s Subpixel) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subpixel = s
}

// CurrentMode returns the currently active mode.
func (o *Output) CurrentMode() Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.currentMode
}

// Location returns the output's logical position in the global space.
func (o *Output) Location() geometry.Point[geometry.Logical, int32] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.location
}

// Transform returns the output's current transform.
func (o *Output) Transform() geometry.Transform {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.transform
}

// Scale returns the output's current scale.
func (o *Output) Scale() geometry.Scale {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scale
}

// ChangeCurrentState implements spec §4.4: each non-nil argument updates
// internal state, then every bound listener receives, in order: an
// xdg-output update (if anything changed), a wl_output geometry event (if
// transform or location changed), a wl_output mode event (if mode
// changed), a wl_output scale event for v2+ clients (if scale changed),
// and finally a done event for v2+ clients. The xdg-output update runs
// first because wl_output.done must be the last event in the batch.
func (o *Output) ChangeCurrentState(mode *Mode, transform *geometry.Transform, scale *geometry.Scale, location *geometry.Point[geometry.Logical, int32]) {
	o.mu.Lock()

	modeChanged := mode != nil && (*mode != o.currentMode)
	transformChanged := transform != nil && *transform != o.transform
	scaleChanged := scale != nil && *scale != o.scale
	locationChanged := location != nil && *location != o.location

	if mode != nil {
		o.currentMode = *mode
	}
	if transform != nil {
		o.transform = *transform
	}
	if scale != nil {
		o.scale = *scale
	}
	if location != nil {
		o.location = *location
	}

	anyChanged := modeChanged || transformChanged || scaleChanged || locationChanged
	currentMode := o.currentMode
	currentScale := o.scale
	listeners := append([]Listener(nil), o.listeners...)
	o.mu.Unlock()

	if !anyChanged {
		return
	}

	for _, l := range listeners {
		l.XdgOutputUpdated(o)
	}

	if transformChanged || locationChanged {
		for _, l := range listeners {
			l.Geometry(o)
		}
	}

	if modeChanged {
		for _, l := range listeners {
			l.Mode(currentMode)
		}
	}

	if scaleChanged {
		for _, l := range listeners {
			if l.SupportsScaleEvent() {
				l.Scale(currentScale)
			}
		}
	}

	for _, l := range listeners {
		if l.SupportsScaleEvent() {
			l.Done()
		}
	}
}
