//go:build !linux

package drmkms

import (
	"fmt"
	"os"
)

// DRM ioctls are Linux-only; every low-level entry point on other
// platforms fails so callers get a clear error instead of a build break.
var errUnsupportedPlatform = fmt.Errorf("drmkms: DRM ioctls are only supported on linux")

func platformAcquireMaster(f *os.File) (bool, error) {
	return false, errUnsupportedPlatform
}

func platformDropMaster(f *os.File) error {
	return errUnsupportedPlatform
}

func (d *Device) loadObjectProperties(objID uint32, objType uint32) (map[string]PropertyID, error) {
	return nil, errUnsupportedPlatform
}

func (d *Device) createBlob(data []byte) (PropBlobID, error) {
	return 0, errUnsupportedPlatform
}

func (d *Device) destroyBlob(id PropBlobID) error {
	return errUnsupportedPlatform
}

func (d *Device) atomicCommit(sets []objectPropertySet, flags uint32) error {
	return errUnsupportedPlatform
}

func (d *Device) createDumbFramebuffer(width, height uint32, bpp uint32, pixelFormat uint32) (FramebufferID, uint32, error) {
	return 0, 0, errUnsupportedPlatform
}

func (d *Device) destroyDumbFramebuffer(fb FramebufferID, handle uint32) error {
	return errUnsupportedPlatform
}

func (d *Device) legacySetCrtc(crtc CrtcID, fb FramebufferID, mode ModeInfo, connectors []ConnectorID) error {
	return errUnsupportedPlatform
}

func (d *Device) legacyDisableCrtc(crtc CrtcID) error {
	return errUnsupportedPlatform
}

func (d *Device) legacyPageFlip(crtc CrtcID, fb FramebufferID) error {
	return errUnsupportedPlatform
}

func (d *Device) resources() ([]CrtcID, []ConnectorID, []PlaneID, error) {
	return nil, nil, nil, errUnsupportedPlatform
}

func (d *Device) connectorStatus(c ConnectorID) (bool, error) {
	return false, errUnsupportedPlatform
}

func (d *Device) connectorModes(c ConnectorID) ([]ModeInfo, error) {
	return nil, errUnsupportedPlatform
}

func (d *Device) snapshotCrtc(crtc CrtcID, allConnectors []ConnectorID) (crtcSnapshot, bool, error) {
	return crtcSnapshot{}, false, errUnsupportedPlatform
}
