package drmkms

import (
	"errors"
	"fmt"
)

// ErrDeviceInactive is returned by every mutator while the device is
// paused (tty-switched away). Callers must wait for a device-resume event
// before retrying; see spec §7 kind 3 (state errors).
var ErrDeviceInactive = errors.New("drmkms: device inactive")

// Kind classifies a drmkms Error into one of the spec's three server-side
// error kinds; the fourth, protocol errors, is not represented here.
type Kind int

const (
	// KindAccess: a kernel ioctl failed outright.
	KindAccess Kind = iota
	// KindConfiguration: the request was rejected before any kernel state
	// changed — the kernel was never asked, or TEST_ONLY failed.
	KindConfiguration
	// KindState: the caller must await a state-change event and retry.
	KindState
)

// Error is the structured error type returned by surface mutators. Its
// Kind distinguishes the three ways a DRM request can fail server-side
// (protocol errors, spec kind 4, belong to the wayland-facing packages).
type Error struct {
	Kind Kind

	// Op is the operation that failed (e.g. "commit", "test_state").
	Op string

	// One of the following is set depending on what the error concerns.
	Crtc     CrtcID
	Plane    PlaneID
	Property string

	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindAccess:
		if e.Err != nil {
			return fmt.Sprintf("drmkms: %s: %s", e.Op, e.Err)
		}
		return fmt.Sprintf("drmkms: %s: %s", e.Op, e.Message)
	case KindState:
		return fmt.Sprintf("drmkms: %s: %s", e.Op, e.Message)
	default:
		if e.Property != "" {
			return fmt.Sprintf("drmkms: %s: unknown property %q", e.Op, e.Property)
		}
		if e.Plane != 0 {
			return fmt.Sprintf("drmkms: %s: plane %d: %s", e.Op, e.Plane, e.Message)
		}
		return fmt.Sprintf("drmkms: %s: crtc %d: %s", e.Op, e.Crtc, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func errAccess(op string, err error) error {
	return &Error{Kind: KindAccess, Op: op, Message: err.Error(), Err: err}
}

func errTestFailed(op string, crtc CrtcID) error {
	return &Error{Kind: KindConfiguration, Op: op, Crtc: crtc, Message: "TEST_ONLY commit rejected"}
}

func errModeNotSuitable(op string, crtc CrtcID) error {
	return &Error{Kind: KindConfiguration, Op: op, Crtc: crtc, Message: "mode not suitable"}
}

func errSurfaceWithoutConnectors(op string, crtc CrtcID) error {
	return &Error{Kind: KindConfiguration, Op: op, Crtc: crtc, Message: "surface has no connectors"}
}

func errUnknownProperty(op, name string) error {
	return &Error{Kind: KindConfiguration, Op: op, Property: name}
}

func errNonPrimaryPlane(op string, plane PlaneID) error {
	return &Error{Kind: KindConfiguration, Op: op, Plane: plane, Message: "not the primary plane"}
}

func errNoFramebuffer(op string, plane PlaneID) error {
	return &Error{Kind: KindConfiguration, Op: op, Plane: plane, Message: "no framebuffer configured"}
}

func errUnsupportedPlaneConfiguration(op string, plane PlaneID, reason string) error {
	return &Error{Kind: KindConfiguration, Op: op, Plane: plane, Message: "unsupported plane configuration: " + reason}
}

func errNoPlane(op string) error {
	return &Error{Kind: KindConfiguration, Op: op, Message: "no such plane"}
}
