//go:build linux

package drmkms

import (
	"fmt"
	"unsafe"
)

// legacySetCrtc programs a CRTC directly with drmModeSetCrtc, bypassing the
// atomic API entirely. Used by surfaces constructed with NewSurface's
// legacy flag set, and by teardown restoration on Close.
func (d *Device) legacySetCrtc(crtc CrtcID, fb FramebufferID, mode ModeInfo, connectors []ConnectorID) error {
	if len(connectors) == 0 {
		return errSurfaceWithoutConnectors("legacy_use_mode", crtc)
	}

	connIDs := make([]uint32, len(connectors))
	for i, c := range connectors {
		connIDs[i] = uint32(c)
	}

	req := drmModeCrtc{
		CrtcID:           uint32(crtc),
		FbID:             uint32(fb),
		X:                0,
		Y:                0,
		ModeValid:        1,
		Mode:             mode.toDRM(),
		SetConnectorsPtr: uint64(uintptr(unsafe.Pointer(&connIDs[0]))),
		CountConnectors:  uint32(len(connIDs)),
	}
	if err := ioctl(d.Fd(), ioctlModeSetCrtc, unsafe.Pointer(&req)); err != nil {
		return errAccess("legacy_use_mode", fmt.Errorf("SETCRTC(%d): %w", crtc, err))
	}
	return nil
}

// legacyDisableCrtc clears a CRTC's framebuffer and connector list,
// equivalent to an atomic commit with CRTC ACTIVE=0.
func (d *Device) legacyDisableCrtc(crtc CrtcID) error {
	req := drmModeCrtc{CrtcID: uint32(crtc)}
	if err := ioctl(d.Fd(), ioctlModeSetCrtc, unsafe.Pointer(&req)); err != nil {
		return errAccess("legacy_clear", fmt.Errorf("SETCRTC(%d) disable: %w", crtc, err))
	}
	return nil
}

// legacyPageFlip schedules a vblank-synced framebuffer swap on an already
// configured CRTC, the legacy-path equivalent of an atomic non-modeset
// commit that only changes FB_ID.
func (d *Device) legacyPageFlip(crtc CrtcID, fb FramebufferID) error {
	req := drmModePageFlip{
		CrtcID: uint32(crtc),
		FbID:   uint32(fb),
		Flags:  DRM_MODE_PAGE_FLIP_EVENT,
	}
	if err := ioctl(d.Fd(), ioctlModePageFlip, unsafe.Pointer(&req)); err != nil {
		return errAccess("legacy_page_flip", fmt.Errorf("PAGE_FLIP(%d): %w", crtc, err))
	}
	return nil
}
