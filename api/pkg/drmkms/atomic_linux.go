//go:build linux

package drmkms

import (
	"bytes"
	"fmt"
	"unsafe"
)

func (d *Device) loadObjectProperties(objID uint32, objType uint32) (map[string]PropertyID, error) {
	req := drmModeObjGetProperties{ObjID: objID, ObjType: objType}
	if err := ioctl(d.Fd(), ioctlModeObjGetProps, unsafe.Pointer(&req)); err != nil {
		return nil, errAccess("property_lookup", fmt.Errorf("OBJ_GETPROPERTIES count: %w", err))
	}
	if req.CountProps == 0 {
		return map[string]PropertyID{}, nil
	}

	propIDs := make([]uint32, req.CountProps)
	propVals := make([]uint64, req.CountProps)
	req2 := drmModeObjGetProperties{
		ObjID:         objID,
		ObjType:       objType,
		CountProps:    req.CountProps,
		PropsPtr:      uint64(uintptr(unsafe.Pointer(&propIDs[0]))),
		PropValuesPtr: uint64(uintptr(unsafe.Pointer(&propVals[0]))),
	}
	if err := ioctl(d.Fd(), ioctlModeObjGetProps, unsafe.Pointer(&req2)); err != nil {
		return nil, errAccess("property_lookup", fmt.Errorf("OBJ_GETPROPERTIES fill: %w", err))
	}

	names := make(map[string]PropertyID, len(propIDs))
	for _, id := range propIDs {
		name, err := d.propertyName(id)
		if err != nil {
			return nil, err
		}
		names[name] = PropertyID(id)
	}
	return names, nil
}

func (d *Device) propertyName(id uint32) (string, error) {
	var p drmModeGetProperty
	p.PropID = id
	if err := ioctl(d.Fd(), ioctlModeGetProperty, unsafe.Pointer(&p)); err != nil {
		return "", errAccess("property_lookup", fmt.Errorf("GETPROPERTY(%d): %w", id, err))
	}
	return string(bytes.TrimRight(p.Name[:], "\x00")), nil
}

// createBlob uploads data as a kernel property blob (used for MODE_ID and
// FB_DAMAGE_CLIPS properties) and returns its id.
func (d *Device) createBlob(data []byte) (PropBlobID, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("drmkms: createBlob: empty data")
	}
	req := drmModeCreateBlob{DataPtr: uint64(uintptr(unsafe.Pointer(&data[0]))), Length: uint32(len(data))}
	if err := ioctl(d.Fd(), ioctlModeCreateBlob, unsafe.Pointer(&req)); err != nil {
		return 0, errAccess("create_blob", fmt.Errorf("CREATEPROPBLOB: %w", err))
	}
	return PropBlobID(req.BlobID), nil
}

// destroyBlob releases a previously created property blob. Errors are
// returned, not swallowed — callers decide whether a failed destroy during
// deferred-release bookkeeping (spec §9) is fatal.
func (d *Device) destroyBlob(id PropBlobID) error {
	if id == 0 {
		return nil
	}
	req := drmModeDestroyBlob{BlobID: uint32(id)}
	if err := ioctl(d.Fd(), ioctlModeDestroyBlob, unsafe.Pointer(&req)); err != nil {
		return errAccess("destroy_blob", fmt.Errorf("DESTROYPROPBLOB(%d): %w", id, err))
	}
	return nil
}

// atomicCommit submits the given property triples as a single atomic
// request with the given flags (TEST_ONLY / ALLOW_MODESET / PAGE_FLIP_EVENT
// bits). Triples are grouped by object id per struct drm_mode_atomic's
// layout: parallel (obj id, prop count) arrays followed by flattened
// (prop id, value) arrays.
func (d *Device) atomicCommit(sets []objectPropertySet, flags uint32) error {
	if len(sets) == 0 {
		return nil
	}

	order := make([]uint32, 0, len(sets))
	grouped := make(map[uint32][]objectPropertySet)
	for _, s := range sets {
		if _, ok := grouped[s.objID]; !ok {
			order = append(order, s.objID)
		}
		grouped[s.objID] = append(grouped[s.objID], s)
	}

	objs := make([]uint32, 0, len(order))
	counts := make([]uint32, 0, len(order))
	propIDsArr := make([]uint32, 0, len(sets))
	valuesArr := make([]uint64, 0, len(sets))
	for _, obj := range order {
		group := grouped[obj]
		objs = append(objs, obj)
		counts = append(counts, uint32(len(group)))
		for _, s := range group {
			propIDsArr = append(propIDsArr, s.propID)
			valuesArr = append(valuesArr, s.value)
		}
	}

	req := drmModeAtomic{
		Flags:         flags,
		CountObjs:     uint32(len(objs)),
		ObjsPtr:       uint64(uintptr(unsafe.Pointer(&objs[0]))),
		CountPropsPtr: uint64(uintptr(unsafe.Pointer(&counts[0]))),
		PropsPtr:      uint64(uintptr(unsafe.Pointer(&propIDsArr[0]))),
		ValuesPtr:     uint64(uintptr(unsafe.Pointer(&valuesArr[0]))),
	}
	if err := ioctl(d.Fd(), ioctlModeAtomic, unsafe.Pointer(&req)); err != nil {
		return errAccess("atomic_commit", fmt.Errorf("MODE_ATOMIC: %w", err))
	}
	return nil
}

// createDumbFramebuffer allocates a dumb buffer and wraps it in a
// framebuffer. Nothing in the surface commit path calls it: TEST_ONLY
// commits validate the framebuffers already set in the pending plane
// configs, and no separate test buffer is allocated.
func (d *Device) createDumbFramebuffer(width, height uint32, bpp uint32, pixelFormat uint32) (FramebufferID, uint32, error) {
	dumb := drmModeCreateDumb{Width: width, Height: height, Bpp: bpp}
	if err := ioctl(d.Fd(), ioctlModeCreateDumb, unsafe.Pointer(&dumb)); err != nil {
		return 0, 0, errAccess("create_dumb_fb", fmt.Errorf("CREATE_DUMB: %w", err))
	}

	fb := drmModeFbCmd2{
		Width:    width,
		Height:   height,
		PixelFmt: pixelFormat,
		Handles:  [4]uint32{dumb.Handle},
		Pitches:  [4]uint32{dumb.Pitch},
	}
	if err := ioctl(d.Fd(), ioctlModeAddFb2, unsafe.Pointer(&fb)); err != nil {
		destroy := drmModeDestroyDumb{Handle: dumb.Handle}
		_ = ioctl(d.Fd(), ioctlModeDestroyDumb, unsafe.Pointer(&destroy))
		return 0, 0, errAccess("create_dumb_fb", fmt.Errorf("ADDFB2: %w", err))
	}
	return FramebufferID(fb.FbID), dumb.Handle, nil
}

func (d *Device) destroyDumbFramebuffer(fb FramebufferID, handle uint32) error {
	fbID := uint32(fb)
	if err := ioctl(d.Fd(), ioctlModeRmFb, unsafe.Pointer(&fbID)); err != nil {
		return errAccess("destroy_dumb_fb", fmt.Errorf("RMFB(%d): %w", fb, err))
	}
	destroy := drmModeDestroyDumb{Handle: handle}
	if err := ioctl(d.Fd(), ioctlModeDestroyDumb, unsafe.Pointer(&destroy)); err != nil {
		return errAccess("destroy_dumb_fb", fmt.Errorf("DESTROY_DUMB(%d): %w", handle, err))
	}
	return nil
}
