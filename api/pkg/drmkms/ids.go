package drmkms

// CrtcID, ConnectorID and PlaneID are DRM object ids — small integers
// assigned by the kernel at driver probe time. They are distinct types so a
// connector id can't be passed where a plane id is expected.
type CrtcID uint32
type ConnectorID uint32
type PlaneID uint32

// FramebufferID identifies a DRM_IOCTL_MODE_ADDFB2 framebuffer.
type FramebufferID uint32

// PropBlobID identifies a kernel property blob (e.g. a MODE_ID mode blob or
// an FB_DAMAGE_CLIPS clip-rect blob).
type PropBlobID uint32

// PropertyID identifies a DRM object property by its kernel-assigned id.
// Name lookup happens once per object and is cached; see propertyCache.
type PropertyID uint32
