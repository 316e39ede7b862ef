package drmkms

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// deviceCore is the shared, reference-counted state behind every Device
// handle cloned from the same Open call. Grounded on api/pkg/drm/manager.go,
// generalized from a single-owner *os.File into a refcounted handle per
// spec §3.2.
type deviceCore struct {
	file       *os.File
	privileged bool
	refs       atomic.Int32
	props      *propertyCache
	planes     *planeRegistry
	logger     *slog.Logger
	oldState   []crtcSnapshot

	mu     sync.Mutex
	active bool
}

// Device is a reference-counted owner of a DRM device file descriptor.
// Cloning a Device increments the shared refcount; Close decrements it and,
// on the last reference, drops DRM master (if held) and closes the fd.
type Device struct {
	core *deviceCore
}

// WeakDevice is a non-owning observer reference to a Device. It does not
// keep the underlying fd alive.
type WeakDevice struct {
	core *deviceCore
}

// Open opens path, attempts to acquire DRM master, and enables universal
// planes so plane property/format enumeration works uniformly across
// drivers (mirrors openDRM in api/pkg/drm/ioctl_linux.go). logger receives
// warnings from the teardown snapshot taken here and the restoration done
// in Close; a nil logger discards them.
func Open(path string, logger *slog.Logger) (*Device, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errAccess("open", fmt.Errorf("open %s: %w", path, err))
	}

	privileged, err := platformAcquireMaster(f)
	if err != nil {
		f.Close()
		return nil, errAccess("open", err)
	}

	core := &deviceCore{file: f, privileged: privileged, active: true, props: newPropertyCache(), planes: newPlaneRegistry(), logger: logger}
	core.refs.Store(1)
	device := &Device{core: core}
	core.oldState = captureOldState(device, logger)
	return device, nil
}

// Clone returns a new Device handle sharing this one's underlying fd,
// incrementing the reference count.
func (d *Device) Clone() *Device {
	d.core.refs.Add(1)
	return &Device{core: d.core}
}

// Weak returns a non-owning observer reference to this Device.
func (d *Device) Weak() WeakDevice {
	return WeakDevice{core: d.core}
}

// Upgrade attempts to obtain a strong Device handle from a weak reference.
// It fails only if the last strong handle has already been closed.
func (w WeakDevice) Upgrade() (*Device, bool) {
	for {
		n := w.core.refs.Load()
		if n <= 0 {
			return nil, false
		}
		if w.core.refs.CompareAndSwap(n, n+1) {
			return &Device{core: w.core}, true
		}
	}
}

// Fd returns the underlying kernel file descriptor.
func (d *Device) Fd() uintptr { return d.core.file.Fd() }

// Privileged reports whether this device holds DRM master.
func (d *Device) Privileged() bool {
	d.core.mu.Lock()
	defer d.core.mu.Unlock()
	return d.core.privileged
}

// Active reports whether the device is currently usable for commits (false
// while tty-switched away).
func (d *Device) Active() bool {
	d.core.mu.Lock()
	defer d.core.mu.Unlock()
	return d.core.active
}

// SetActive flips the device's active flag, e.g. on VT_ACTIVATE/VT_RELSIG.
func (d *Device) SetActive(active bool) {
	d.core.mu.Lock()
	defer d.core.mu.Unlock()
	d.core.active = active
}

// Equal reports whether two Device handles refer to the same underlying fd,
// per spec §3.2 ("Equality is by underlying fd identity").
func (d *Device) Equal(o *Device) bool {
	return d.core == o.core
}

// Close decrements the reference count. On the last reference, if the
// device is still active, it restores every CRTC's pre-Open framebuffer,
// mode and connector set (spec §4.1 Teardown) so a text console
// reappears, then releases DRM master (if held) and closes the fd. The
// CRTC position is not restored: each CRTC is set at offset (0,0).
// Restore failures are logged and swallowed, matching api/pkg/drm.Manager.Close's
// tolerance of partial teardown.
func (d *Device) Close() error {
	if d.core.refs.Add(-1) > 0 {
		return nil
	}
	if d.Active() && len(d.core.oldState) > 0 {
		restoreOldState(d, d.core.oldState, d.core.logger)
	}
	if d.core.privileged {
		_ = platformDropMaster(d.core.file)
	}
	return d.core.file.Close()
}
