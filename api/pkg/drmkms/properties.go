package drmkms

import "sync"

// DRM object type tags used by MODE_OBJ_GETPROPERTIES/SETPROPERTY.
const (
	objTypeCrtc      = 0xcccccccc
	objTypeConnector = 0xc0c0c0c0
	objTypePlane     = 0xeeeeeeee
)

// Atomic commit flags (uapi/drm/drm_mode.h).
const (
	DRM_MODE_ATOMIC_TEST_ONLY     = 0x0100
	DRM_MODE_ATOMIC_ALLOW_MODESET = 0x0400
	DRM_MODE_PAGE_FLIP_EVENT      = 0x01
	DRM_MODE_PAGE_FLIP_ASYNC      = 0x02
)

// objectPropertySet is one (object id, property id) -> value triple in an
// atomic commit request.
type objectPropertySet struct {
	objID  uint32
	propID uint32
	value  uint64
}

// propertyCache maps (object id, property name) -> kernel property id.
// Looked up once per object and cached, per spec §9 ("DRM property mapping
// is done once per connector/plane/crtc and cached").
type propertyCache struct {
	mu    sync.Mutex
	byObj map[uint32]map[string]PropertyID
}

func newPropertyCache() *propertyCache {
	return &propertyCache{byObj: make(map[uint32]map[string]PropertyID)}
}

// propertyID resolves name to a kernel property id for the given object,
// consulting the cache first and falling back to loadObjectProperties (the
// platform seam) on a miss.
func (d *Device) propertyID(objID uint32, objType uint32, name string) (PropertyID, error) {
	cache := d.core.props

	cache.mu.Lock()
	if names, ok := cache.byObj[objID]; ok {
		if id, ok := names[name]; ok {
			cache.mu.Unlock()
			return id, nil
		}
	}
	cache.mu.Unlock()

	names, err := d.loadObjectProperties(objID, objType)
	if err != nil {
		return 0, err
	}

	cache.mu.Lock()
	cache.byObj[objID] = names
	cache.mu.Unlock()

	if id, ok := names[name]; ok {
		return id, nil
	}
	return 0, errUnknownProperty("property_lookup", name)
}

// propertyNameFor reverse-resolves a cached (objID, propID) pair back to
// its name, for debug inspection only; it never triggers a kernel lookup.
func (d *Device) propertyNameFor(objID uint32, propID uint32) (string, bool) {
	cache := d.core.props
	cache.mu.Lock()
	defer cache.mu.Unlock()
	for name, id := range cache.byObj[objID] {
		if id == PropertyID(propID) {
			return name, true
		}
	}
	return "", false
}
