package drmkms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlcore/compositor-core/api/pkg/geometry"
)

func fakeDevice(active bool) *Device {
	return &Device{core: &deviceCore{active: active, props: newPropertyCache(), planes: newPlaneRegistry()}}
}

func TestRotationForTransform(t *testing.T) {
	cases := map[geometry.Transform]DrmRotation{
		geometry.TransformNormal:     RotateR0,
		geometry.Transform90:         RotateR90,
		geometry.Transform180:        RotateR180,
		geometry.Transform270:        RotateR270,
		geometry.TransformFlipped:    ReflectY,
		geometry.TransformFlipped90:  ReflectY | RotateR90,
		geometry.TransformFlipped180: ReflectY | RotateR180,
		geometry.TransformFlipped270: ReflectY | RotateR270,
	}
	for transform, want := range cases {
		assert.Equal(t, want, rotationForTransform(transform))
	}
}

func TestVrrSupportedHDMICarveOut(t *testing.T) {
	device := fakeDevice(true)
	surface, err := NewSurface(device, CrtcID(1), PlaneID(10), false)
	require.NoError(t, err)

	surface.AddConnector(ConnectorID(5), ConnectorKindHDMIA)
	assert.Equal(t, VRRRequiresModeset, surface.VrrSupported(ConnectorID(5), true))

	surface.AddConnector(ConnectorID(6), ConnectorKindHDMIB)
	assert.Equal(t, VRRRequiresModeset, surface.VrrSupported(ConnectorID(6), true))
}

func TestVrrSupportedNonHDMI(t *testing.T) {
	device := fakeDevice(true)
	surface, err := NewSurface(device, CrtcID(1), PlaneID(10), false)
	require.NoError(t, err)

	surface.AddConnector(ConnectorID(7), ConnectorKindOther)
	assert.Equal(t, VRRNotSupported, surface.VrrSupported(ConnectorID(7), false))
	assert.Equal(t, VRRSupported, surface.VrrSupported(ConnectorID(7), true))
}

func TestCommitFailsWithoutConnectors(t *testing.T) {
	device := fakeDevice(true)
	surface, err := NewSurface(device, CrtcID(1), PlaneID(10), true)
	require.NoError(t, err)

	err = surface.Commit(false)
	require.Error(t, err)
	var drmErr *Error
	require.ErrorAs(t, err, &drmErr)
	assert.Equal(t, KindConfiguration, drmErr.Kind)
}

func TestCommitFailsWhenDeviceInactive(t *testing.T) {
	device := fakeDevice(false)
	surface, err := NewSurface(device, CrtcID(1), PlaneID(10), true)
	require.NoError(t, err)
	surface.AddConnector(ConnectorID(1), ConnectorKindOther)

	err = surface.Commit(false)
	assert.ErrorIs(t, err, ErrDeviceInactive)
}

func TestLegacyRejectsNonOriginPlaneOffset(t *testing.T) {
	device := fakeDevice(true)
	surface, err := NewSurface(device, CrtcID(1), PlaneID(10), true)
	require.NoError(t, err)

	surface.AddConnector(ConnectorID(1), ConnectorKindOther)
	surface.pending.Planes[PlaneID(10)] = &PlaneConfig{
		SrcRect: geometry.Rectangle[geometry.Buffer, int32]{Size: geometry.Size[geometry.Buffer, int32]{W: 100, H: 100}},
		DstRect: geometry.Rectangle[geometry.Physical, int32]{
			Origin: geometry.Point[geometry.Physical, int32]{X: 5, Y: 0},
			Size:   geometry.Size[geometry.Physical, int32]{W: 100, H: 100},
		},
	}

	err = surface.TestState(true)
	require.Error(t, err)
	var drmErr *Error
	require.ErrorAs(t, err, &drmErr)
	assert.Equal(t, PlaneID(10), drmErr.Plane)
}

func TestLegacyRejectsScaling(t *testing.T) {
	device := fakeDevice(true)
	surface, err := NewSurface(device, CrtcID(2), PlaneID(20), true)
	require.NoError(t, err)

	surface.AddConnector(ConnectorID(1), ConnectorKindOther)
	surface.pending.Planes[PlaneID(20)] = &PlaneConfig{
		SrcRect: geometry.Rectangle[geometry.Buffer, int32]{Size: geometry.Size[geometry.Buffer, int32]{W: 100, H: 100}},
		DstRect: geometry.Rectangle[geometry.Physical, int32]{
			Size: geometry.Size[geometry.Physical, int32]{W: 200, H: 200},
		},
	}

	err = surface.TestState(true)
	require.Error(t, err)
}

func TestLegacyTestStateOptimisticWithoutModeset(t *testing.T) {
	device := fakeDevice(true)
	surface, err := NewSurface(device, CrtcID(2), PlaneID(20), true)
	require.NoError(t, err)

	surface.AddConnector(ConnectorID(1), ConnectorKindOther)
	surface.pending.Planes[PlaneID(20)] = &PlaneConfig{
		SrcRect: geometry.Rectangle[geometry.Buffer, int32]{Size: geometry.Size[geometry.Buffer, int32]{W: 100, H: 100}},
		DstRect: geometry.Rectangle[geometry.Physical, int32]{
			Size: geometry.Size[geometry.Physical, int32]{W: 200, H: 200},
		},
	}

	// allowModeset=false: legacy can't test at all, so even an invalid
	// plane configuration is reported as Ok optimistically (spec §4.1).
	err = surface.TestState(false)
	assert.NoError(t, err)
}

func TestLegacyRejectsNonIdentityTransform(t *testing.T) {
	device := fakeDevice(true)
	surface, err := NewSurface(device, CrtcID(3), PlaneID(30), true)
	require.NoError(t, err)

	surface.AddConnector(ConnectorID(1), ConnectorKindOther)
	surface.pending.Planes[PlaneID(30)] = &PlaneConfig{
		SrcRect:   geometry.Rectangle[geometry.Buffer, int32]{Size: geometry.Size[geometry.Buffer, int32]{W: 100, H: 100}},
		DstRect:   geometry.Rectangle[geometry.Physical, int32]{Size: geometry.Size[geometry.Physical, int32]{W: 100, H: 100}},
		Transform: geometry.Transform90,
	}

	err = surface.TestState(true)
	require.Error(t, err)
}

func TestPlaneClaimExclusiveAcrossCrtcs(t *testing.T) {
	device := fakeDevice(true)
	_, err := NewSurface(device, CrtcID(1), PlaneID(99), false)
	require.NoError(t, err)

	_, err = NewSurface(device, CrtcID(2), PlaneID(99), false)
	assert.Error(t, err)
}

func TestResetStateDropsPendingChanges(t *testing.T) {
	device := fakeDevice(true)
	surface, err := NewSurface(device, CrtcID(1), PlaneID(10), false)
	require.NoError(t, err)

	surface.AddConnector(ConnectorID(1), ConnectorKindOther)
	surface.ResetState()

	assert.Empty(t, surface.pending.Connectors)
}

func TestNegotiateVRRRevertsPendingOnFailure(t *testing.T) {
	device := fakeDevice(false)
	surface, err := NewSurface(device, CrtcID(1), PlaneID(10), false)
	require.NoError(t, err)
	surface.AddConnector(ConnectorID(1), ConnectorKindOther)

	// Device inactive: both the non-modesetting and modesetting test
	// attempts fail, so pending.VRR must be restored to its prior value.
	err = surface.NegotiateVRR(true)
	assert.ErrorIs(t, err, ErrDeviceInactive)
	assert.False(t, surface.pending.VRR)
}

func TestToFixed1616(t *testing.T) {
	assert.Equal(t, uint64(1<<16), toFixed1616(1))
	assert.Equal(t, uint64(0), toFixed1616(0))
}
