//go:build linux

package drmkms

import (
	"fmt"
	"unsafe"
)

// snapshotCrtc reads a CRTC's current fb/mode/position via GETCRTC, then
// finds which connectors currently route through it by walking each
// connector's bound encoder (GETCONNECTOR -> GETENCODER -> CrtcID). ok is
// false when the CRTC has no valid mode (nothing to restore).
func (d *Device) snapshotCrtc(crtc CrtcID, allConnectors []ConnectorID) (crtcSnapshot, bool, error) {
	var raw drmModeCrtc
	raw.CrtcID = uint32(crtc)
	if err := ioctl(d.Fd(), ioctlModeGetCrtc, unsafe.Pointer(&raw)); err != nil {
		return crtcSnapshot{}, false, errAccess("teardown_snapshot", fmt.Errorf("GETCRTC(%d): %w", crtc, err))
	}
	if raw.ModeValid == 0 {
		return crtcSnapshot{}, false, nil
	}

	var connected []ConnectorID
	for _, c := range allConnectors {
		boundCrtc, ok, err := d.connectorCrtc(c)
		if err != nil || !ok {
			continue
		}
		if boundCrtc == crtc {
			connected = append(connected, c)
		}
	}

	return crtcSnapshot{
		crtc:       crtc,
		fb:         FramebufferID(raw.FbID),
		mode:       modeInfoFromDRM(raw.Mode),
		modeValid:  true,
		x:          raw.X,
		y:          raw.Y,
		connectors: connected,
	}, true, nil
}

// connectorCrtc resolves the CRTC a connector currently routes through, via
// its bound encoder. ok is false if the connector has no bound encoder.
func (d *Device) connectorCrtc(c ConnectorID) (CrtcID, bool, error) {
	conn := drmModeGetConnector{ConnectorID: uint32(c)}
	if err := ioctl(d.Fd(), ioctlModeGetConnector, unsafe.Pointer(&conn)); err != nil {
		return 0, false, errAccess("teardown_snapshot", fmt.Errorf("GETCONNECTOR(%d): %w", c, err))
	}
	if conn.EncoderID == 0 {
		return 0, false, nil
	}

	enc := drmModeGetEncoder{EncoderID: conn.EncoderID}
	if err := ioctl(d.Fd(), ioctlModeGetEncoder, unsafe.Pointer(&enc)); err != nil {
		return 0, false, errAccess("teardown_snapshot", fmt.Errorf("GETENCODER(%d): %w", conn.EncoderID, err))
	}
	if enc.CrtcID == 0 {
		return 0, false, nil
	}
	return CrtcID(enc.CrtcID), true, nil
}
