package drmkms

import "github.com/wlcore/compositor-core/api/pkg/geometry"

// DrmRotation is the kernel's "rotation" plane-property bitmask
// (DRM_MODE_ROTATE_* / DRM_MODE_REFLECT_* from uapi/drm/drm_mode.h).
type DrmRotation uint32

const (
	RotateR0   DrmRotation = 1 << 0
	RotateR90  DrmRotation = 1 << 1
	RotateR180 DrmRotation = 1 << 2
	RotateR270 DrmRotation = 1 << 3
	ReflectX   DrmRotation = 1 << 4
	ReflectY   DrmRotation = 1 << 5
)

// rotationForTransform maps a wl_output transform to the DRM rotation
// bitmask a plane's "rotation" property must be set to, per spec §4.1.
func rotationForTransform(t geometry.Transform) DrmRotation {
	switch t {
	case geometry.TransformNormal:
		return RotateR0
	case geometry.Transform90:
		return RotateR90
	case geometry.Transform180:
		return RotateR180
	case geometry.Transform270:
		return RotateR270
	case geometry.TransformFlipped:
		return ReflectY
	case geometry.TransformFlipped90:
		return ReflectY | RotateR90
	case geometry.TransformFlipped180:
		return ReflectY | RotateR180
	case geometry.TransformFlipped270:
		return ReflectY | RotateR270
	default:
		return RotateR0
	}
}
