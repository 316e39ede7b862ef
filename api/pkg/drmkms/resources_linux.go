//go:build linux

package drmkms

import (
	"fmt"
	"unsafe"
)

// resources enumerates every CRTC, connector and plane the device exposes.
// Grounded on api/pkg/drm/ioctl_linux.go's getResources two-ioctl pattern
// (count, then fill).
func (d *Device) resources() (crtcs []CrtcID, connectors []ConnectorID, planes []PlaneID, err error) {
	var res drmModeCardRes
	if err := ioctl(d.Fd(), ioctlModeGetResources, unsafe.Pointer(&res)); err != nil {
		return nil, nil, nil, errAccess("resources", fmt.Errorf("GETRESOURCES count: %w", err))
	}

	crtcIDs := make([]uint32, res.CountCrtcs)
	connIDs := make([]uint32, res.CountConnectors)
	res2 := drmModeCardRes{CountCrtcs: res.CountCrtcs, CountConnectors: res.CountConnectors}
	if len(crtcIDs) > 0 {
		res2.CrtcIDPtr = uint64(uintptr(unsafe.Pointer(&crtcIDs[0])))
	}
	if len(connIDs) > 0 {
		res2.ConnectorIDPtr = uint64(uintptr(unsafe.Pointer(&connIDs[0])))
	}
	if err := ioctl(d.Fd(), ioctlModeGetResources, unsafe.Pointer(&res2)); err != nil {
		return nil, nil, nil, errAccess("resources", fmt.Errorf("GETRESOURCES fill: %w", err))
	}

	var planeRes drmModeGetPlaneRes
	if err := ioctl(d.Fd(), ioctlModeGetPlaneRes, unsafe.Pointer(&planeRes)); err != nil {
		return nil, nil, nil, errAccess("resources", fmt.Errorf("GETPLANERESOURCES count: %w", err))
	}
	planeIDs := make([]uint32, planeRes.CountPlanes)
	if len(planeIDs) > 0 {
		planeRes.PlaneIDPtr = uint64(uintptr(unsafe.Pointer(&planeIDs[0])))
		if err := ioctl(d.Fd(), ioctlModeGetPlaneRes, unsafe.Pointer(&planeRes)); err != nil {
			return nil, nil, nil, errAccess("resources", fmt.Errorf("GETPLANERESOURCES fill: %w", err))
		}
	}

	for _, id := range crtcIDs {
		crtcs = append(crtcs, CrtcID(id))
	}
	for _, id := range connIDs {
		connectors = append(connectors, ConnectorID(id))
	}
	for _, id := range planeIDs {
		planes = append(planes, PlaneID(id))
	}
	return crtcs, connectors, planes, nil
}

// connectorStatus reports whether connector is currently plugged in.
func (d *Device) connectorStatus(c ConnectorID) (bool, error) {
	conn := drmModeGetConnector{ConnectorID: uint32(c)}
	if err := ioctl(d.Fd(), ioctlModeGetConnector, unsafe.Pointer(&conn)); err != nil {
		return false, errAccess("connector_status", fmt.Errorf("GETCONNECTOR(%d): %w", c, err))
	}
	return conn.Connection == connectorStatusConnected, nil
}

// connectorModes returns every mode a connector's EDID advertises.
func (d *Device) connectorModes(c ConnectorID) ([]ModeInfo, error) {
	conn := drmModeGetConnector{ConnectorID: uint32(c)}
	if err := ioctl(d.Fd(), ioctlModeGetConnector, unsafe.Pointer(&conn)); err != nil {
		return nil, errAccess("connector_modes", fmt.Errorf("GETCONNECTOR count: %w", err))
	}
	if conn.CountModes == 0 {
		return nil, nil
	}
	modes := make([]drmModeModeInfo, conn.CountModes)
	conn2 := drmModeGetConnector{
		ConnectorID: uint32(c),
		ModesPtr:    uint64(uintptr(unsafe.Pointer(&modes[0]))),
		CountModes:  conn.CountModes,
	}
	if err := ioctl(d.Fd(), ioctlModeGetConnector, unsafe.Pointer(&conn2)); err != nil {
		return nil, errAccess("connector_modes", fmt.Errorf("GETCONNECTOR modes: %w", err))
	}

	out := make([]ModeInfo, len(modes))
	for i, m := range modes {
		out[i] = modeInfoFromDRM(m)
	}
	return out, nil
}
