//go:build linux

package drmkms

import (
	"bytes"
	"unsafe"
)

func modeInfoFromDRM(m drmModeModeInfo) ModeInfo {
	name := string(bytes.TrimRight(m.Name[:], "\x00"))
	return ModeInfo{
		Name:       name,
		Width:      m.Hdisplay,
		Height:     m.Vdisplay,
		RefreshMHz: m.Vrefresh * 1000,
		Preferred:  m.Type&modeTypePreferred != 0,
		raw: drmModeModeInfoPortable{
			Clock:      m.Clock,
			HDisplay:   m.Hdisplay,
			HSyncStart: m.HsyncStart,
			HSyncEnd:   m.HsyncEnd,
			HTotal:     m.Htotal,
			HSkew:      m.Hskew,
			VDisplay:   m.Vdisplay,
			VSyncStart: m.VsyncStart,
			VSyncEnd:   m.VsyncEnd,
			VTotal:     m.Vtotal,
			VScan:      m.Vscan,
			VRefresh:   m.Vrefresh,
			Flags:      m.Flags,
			Type:       m.Type,
			Name:       m.Name,
		},
	}
}

func (m ModeInfo) toDRM() drmModeModeInfo {
	return drmModeModeInfo{
		Clock:      m.raw.Clock,
		Hdisplay:   m.raw.HDisplay,
		HsyncStart: m.raw.HSyncStart,
		HsyncEnd:   m.raw.HSyncEnd,
		Htotal:     m.raw.HTotal,
		Hskew:      m.raw.HSkew,
		Vdisplay:   m.raw.VDisplay,
		VsyncStart: m.raw.VSyncStart,
		VsyncEnd:   m.raw.VSyncEnd,
		Vtotal:     m.raw.VTotal,
		Vscan:      m.raw.VScan,
		Vrefresh:   m.raw.VRefresh,
		Flags:      m.raw.Flags,
		Type:       m.raw.Type,
		Name:       m.raw.Name,
	}
}

// encode serializes the mode the way the kernel expects a MODE_ID property
// blob's payload to look: the raw drm_mode_modeinfo bytes, field order and
// width matching struct drm_mode_modeinfo exactly (no compiler padding, the
// type is laid out identically to its C counterpart).
func (m ModeInfo) encode() []byte {
	raw := m.toDRM()
	buf := make([]byte, unsafe.Sizeof(raw))
	*(*drmModeModeInfo)(unsafe.Pointer(&buf[0])) = raw
	return buf
}
