//go:build linux

// Package drmkms implements the DRM/KMS atomic and legacy surface engine:
// property-triple atomic commits, plane/crtc/connector property lookup,
// dumb-buffer framebuffers for test commits, and the legacy drmModeSetCrtc
// fallback. Grounded on api/pkg/drm/ioctl_linux.go's raw SYS_IOCTL approach.
package drmkms

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux ioctl encoding, mirroring <asm-generic/ioctl.h>. DRM has no ioctl
// numbers in golang.org/x/sys/unix, so compositor-core computes them the
// same way the kernel macros do rather than hand-transcribing hex.
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocWrite = 1
	iocRead  = 2

	drmIOCType = 'd'
)

func iocEncode(dir, nr, size uintptr) uintptr {
	return (dir << iocDirShift) | (drmIOCType << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift)
}

func iowr(nr uintptr, size uintptr) uintptr { return iocEncode(iocRead|iocWrite, nr, size) }
func iow(nr uintptr, size uintptr) uintptr  { return iocEncode(iocWrite, nr, size) }
func ior(nr uintptr, size uintptr) uintptr  { return iocEncode(iocRead, nr, size) }
func io_(nr uintptr) uintptr                { return iocEncode(0, nr, 0) }

// DRM ioctl opcodes, sized against the request structs below.
var (
	ioctlSetMaster  = io_(0x1e)
	ioctlDropMaster = io_(0x1f)

	ioctlSetClientCap = iow(0x0d, unsafe.Sizeof(drmSetClientCap{}))

	ioctlModeGetResources = iowr(0xa0, unsafe.Sizeof(drmModeCardRes{}))
	ioctlModeGetCrtc      = iowr(0xa1, unsafe.Sizeof(drmModeCrtc{}))
	ioctlModeSetCrtc      = iowr(0xa2, unsafe.Sizeof(drmModeCrtc{}))
	ioctlModeGetEncoder   = iowr(0xa6, unsafe.Sizeof(drmModeGetEncoder{}))
	ioctlModeGetConnector = iowr(0xa7, unsafe.Sizeof(drmModeGetConnector{}))
	ioctlModeGetProperty  = iowr(0xaa, unsafe.Sizeof(drmModeGetProperty{}))
	ioctlModeObjGetProps  = iowr(0xb9, unsafe.Sizeof(drmModeObjGetProperties{}))
	ioctlModeObjSetProp   = iowr(0xba, unsafe.Sizeof(drmModeObjSetProperty{}))
	ioctlModeGetPlaneRes  = iowr(0xb5, unsafe.Sizeof(drmModeGetPlaneRes{}))
	ioctlModeGetPlane     = iowr(0xb6, unsafe.Sizeof(drmModeGetPlane{}))
	ioctlModePageFlip     = iowr(0xb0, unsafe.Sizeof(drmModePageFlip{}))
	ioctlModeCreateBlob   = iowr(0xbd, unsafe.Sizeof(drmModeCreateBlob{}))
	ioctlModeDestroyBlob  = iowr(0xbe, unsafe.Sizeof(drmModeDestroyBlob{}))
	ioctlModeAtomic       = iowr(0xbc, unsafe.Sizeof(drmModeAtomic{}))

	ioctlModeCreateDumb  = iowr(0xb2, unsafe.Sizeof(drmModeCreateDumb{}))
	ioctlModeDestroyDumb = iowr(0xb4, unsafe.Sizeof(drmModeDestroyDumb{}))
	ioctlModeAddFb2      = iowr(0xb8, unsafe.Sizeof(drmModeFbCmd2{}))
	ioctlModeRmFb        = iowr(0xaf, unsafe.Sizeof(uint32(0)))
)

const (
	drmClientCapUniversalPlanes = 2
	drmClientCapAtomic          = 3

	connectorStatusConnected    = 1
	connectorStatusDisconnected = 2
)


type drmSetClientCap struct {
	Capability uint64
	Value      uint64
}

type drmModeCardRes struct {
	FbIDPtr         uint64
	CrtcIDPtr       uint64
	ConnectorIDPtr  uint64
	EncoderIDPtr    uint64
	CountFbs        uint32
	CountCrtcs      uint32
	CountConnectors uint32
	CountEncoders   uint32
	MinWidth        uint32
	MaxWidth        uint32
	MinHeight       uint32
	MaxHeight       uint32
}

type drmModeModeInfo struct {
	Clock      uint32
	Hdisplay   uint16
	HsyncStart uint16
	HsyncEnd   uint16
	Htotal     uint16
	Hskew      uint16
	Vdisplay   uint16
	VsyncStart uint16
	VsyncEnd   uint16
	Vtotal     uint16
	Vscan      uint16
	Vrefresh   uint32
	Flags      uint32
	Type       uint32
	Name       [32]byte
}

type drmModeCrtc struct {
	SetConnectorsPtr uint64
	CountConnectors  uint32
	CrtcID           uint32
	FbID             uint32
	X                uint32
	Y                uint32
	GammaSize        uint32
	ModeValid        uint32
	Mode             drmModeModeInfo
}

type drmModeGetEncoder struct {
	EncoderID      uint32
	EncoderType    uint32
	CrtcID         uint32
	PossibleCrtcs  uint32
	PossibleClones uint32
}

type drmModeGetConnector struct {
	EncodersPtr     uint64
	ModesPtr        uint64
	PropsPtr        uint64
	PropValuesPtr   uint64
	CountModes      uint32
	CountProps      uint32
	CountEncoders   uint32
	EncoderID       uint32
	ConnectorID     uint32
	ConnectorType   uint32
	ConnectorTypeID uint32
	Connection      uint32
	MmWidth         uint32
	MmHeight        uint32
	Subpixel        uint32
	Pad             uint32
}

type drmModeGetProperty struct {
	ValuesPtr   uint64
	EnumBlobPtr uint64
	PropID      uint32
	Flags       uint32
	Name        [32]byte
	CountValues uint32
	CountEnumBlobs uint32
}

type drmModeObjGetProperties struct {
	PropsPtr       uint64
	PropValuesPtr  uint64
	CountProps     uint32
	ObjID          uint32
	ObjType        uint32
}

type drmModeObjSetProperty struct {
	Value    uint64
	PropID   uint32
	ObjID    uint32
	ObjType  uint32
}

type drmModeGetPlaneRes struct {
	PlaneIDPtr uint64
	CountPlanes uint32
}

type drmModeGetPlane struct {
	PlaneID          uint32
	CrtcID           uint32
	FbID             uint32
	PossibleCrtcs    uint32
	GammaSize        uint32
	CountFormatTypes uint32
	FormatTypePtr    uint64
}

type drmModePageFlip struct {
	CrtcID   uint32
	FbID     uint32
	Flags    uint32
	Reserved uint32
	UserData uint64
}

type drmModeCreateBlob struct {
	DataPtr uint64
	Length  uint32
	BlobID  uint32
}

type drmModeDestroyBlob struct {
	BlobID uint32
}

type drmModeCreateDumb struct {
	Height uint32
	Width  uint32
	Bpp    uint32
	Flags  uint32
	Handle uint32
	Pitch  uint32
	Size   uint64
}

type drmModeDestroyDumb struct {
	Handle uint32
}

type drmModeFbCmd2 struct {
	FbID       uint32
	Width      uint32
	Height     uint32
	PixelFmt   uint32
	Flags      uint32
	Handles    [4]uint32
	Pitches    [4]uint32
	Offsets    [4]uint32
	Modifier   [4]uint64
}

// drmModeAtomic corresponds to struct drm_mode_atomic: parallel arrays of
// (object id, property count) pairs followed by flattened (property id,
// value) pairs across all objects.
type drmModeAtomic struct {
	Flags         uint32
	CountObjs     uint32
	ObjsPtr       uint64
	CountPropsPtr uint64
	PropsPtr      uint64
	ValuesPtr     uint64
	Reserved      uint64
	UserData      uint64
}

func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// platformAcquireMaster attempts DRM_IOCTL_SET_MASTER and enables universal
// planes. Failing to become master is non-fatal (another process may
// already hold it); the bool reports whether master was acquired.
func platformAcquireMaster(f *os.File) (bool, error) {
	privileged := ioctl(f.Fd(), ioctlSetMaster, nil) == nil

	cap := drmSetClientCap{Capability: drmClientCapUniversalPlanes, Value: 1}
	if err := ioctl(f.Fd(), ioctlSetClientCap, unsafe.Pointer(&cap)); err != nil {
		return false, fmt.Errorf("set universal planes: %w", err)
	}
	return privileged, nil
}

func platformDropMaster(f *os.File) error {
	return ioctl(f.Fd(), ioctlDropMaster, nil)
}
