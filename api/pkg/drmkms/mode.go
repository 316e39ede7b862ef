package drmkms

// ModeInfo is a display mode: resolution, refresh rate, and the raw kernel
// mode name (e.g. "1920x1080"). It is the Go-side mirror of
// struct drm_mode_modeinfo, stripped of the timing fields only the kernel
// needs to build a property blob from.
type ModeInfo struct {
	Name       string
	Width      uint16
	Height     uint16
	RefreshMHz uint32 // refresh rate in milli-Hz, matching Vrefresh's 1Hz unit times 1000
	Preferred  bool

	raw drmModeModeInfoPortable
}

// drmModeModeInfoPortable carries the fields required to round-trip a mode
// back into a kernel drm_mode_modeinfo blob without depending on the
// linux-only struct layout outside build-tagged files.
type drmModeModeInfoPortable struct {
	Clock                                    uint32
	HDisplay, HSyncStart, HSyncEnd, HTotal   uint16
	HSkew                                    uint16
	VDisplay, VSyncStart, VSyncEnd, VTotal   uint16
	VScan                                    uint16
	VRefresh                                 uint32
	Flags, Type                              uint32
	Name                                     [32]byte
}

const modeTypePreferred = 1 << 3 // DRM_MODE_TYPE_PREFERRED
