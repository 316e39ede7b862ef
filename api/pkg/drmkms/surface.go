package drmkms

import (
	"fmt"
	"sync"

	"github.com/wlcore/compositor-core/api/pkg/geometry"
	"github.com/wlcore/compositor-core/api/pkg/ptr"
)

// VRRSupport is the tri-state result of a VRR capability check on a
// connector.
type VRRSupport int

const (
	VRRNotSupported VRRSupport = iota
	VRRSupported
	VRRRequiresModeset
)

// ConnectorKind distinguishes connectors that always require a modeset to
// toggle VRR (HDMI) from ones that negotiate normally.
type ConnectorKind int

const (
	ConnectorKindOther ConnectorKind = iota
	ConnectorKindHDMIA
	ConnectorKindHDMIB
)

// PlaneConfig describes a plane's content and placement. A nil *PlaneConfig
// in a PlaneState means "disable this plane" (spec §3.3).
type PlaneConfig struct {
	SrcRect    geometry.Rectangle[geometry.Buffer, int32] // 16.16 fixed point on the wire
	DstRect    geometry.Rectangle[geometry.Physical, int32]
	Transform  geometry.Transform
	Alpha      float64 // [0,1]
	DamageClip *PropBlobID
	Framebuffer FramebufferID
	Fence      *int
}

// PlaneState is one plane's desired or current configuration.
type PlaneState struct {
	Plane  PlaneID
	Config *PlaneConfig
}

// SurfaceState is one half (current or pending) of a surface's
// double-buffered DRM configuration.
type SurfaceState struct {
	Active     bool
	Mode       *ModeInfo
	ModeBlob   PropBlobID
	VRR        bool
	Connectors map[ConnectorID]struct{}
	Planes     map[PlaneID]*PlaneConfig
}

func newSurfaceState() SurfaceState {
	return SurfaceState{
		Connectors: make(map[ConnectorID]struct{}),
		Planes:     make(map[PlaneID]*PlaneConfig),
	}
}

func (s SurfaceState) clone() SurfaceState {
	out := newSurfaceState()
	out.Active = s.Active
	out.Mode = s.Mode
	out.ModeBlob = s.ModeBlob
	out.VRR = s.VRR
	for c := range s.Connectors {
		out.Connectors[c] = struct{}{}
	}
	for p, cfg := range s.Planes {
		if cfg != nil {
			cp := *cfg
			out.Planes[p] = &cp
		} else {
			out.Planes[p] = nil
		}
	}
	return out
}

// planeRegistry tracks which CRTC currently claims each plane, per spec
// §3.3 ("A plane claimed by crtc A cannot be claimed by crtc B until
// released").
type planeRegistry struct {
	mu      sync.Mutex
	claimed map[PlaneID]CrtcID
}

func newPlaneRegistry() *planeRegistry {
	return &planeRegistry{claimed: make(map[PlaneID]CrtcID)}
}

func (r *planeRegistry) claim(crtc CrtcID, plane PlaneID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.claimed[plane]; ok && owner != crtc {
		return false
	}
	r.claimed[plane] = crtc
	return true
}

func (r *planeRegistry) release(crtc CrtcID, plane PlaneID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.claimed[plane]; ok && owner == crtc {
		delete(r.claimed, plane)
	}
}

// Surface binds one CRTC and one primary plane, plus any number of
// cursor/overlay planes, to a set of connectors (spec §3.3, §4.1).
type Surface struct {
	device   *Device
	crtc     CrtcID
	primary  PlaneID
	connKind map[ConnectorID]ConnectorKind
	legacy   bool

	registry *planeRegistry

	mu         sync.Mutex
	current    SurfaceState
	pending    SurfaceState
	usedPlanes map[PlaneID]struct{}
}

// NewSurface constructs a Surface bound to crtc and its primary plane.
func NewSurface(device *Device, crtc CrtcID, primary PlaneID, legacy bool) (*Surface, error) {
	registry := device.core.planes
	if !registry.claim(crtc, primary) {
		return nil, errNonPrimaryPlane("new_surface", primary)
	}
	return &Surface{
		device:     device,
		crtc:       crtc,
		primary:    primary,
		connKind:   make(map[ConnectorID]ConnectorKind),
		legacy:     legacy,
		registry:   registry,
		current:    newSurfaceState(),
		pending:    newSurfaceState(),
		usedPlanes: make(map[PlaneID]struct{}),
	}, nil
}

// AddConnector adds a connector to the pending connector set.
func (s *Surface) AddConnector(c ConnectorID, kind ConnectorKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Connectors[c] = struct{}{}
	s.connKind[c] = kind
}

// RemoveConnector removes a connector from the pending set.
func (s *Surface) RemoveConnector(c ConnectorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending.Connectors, c)
}

// SetConnectors replaces the pending connector set wholesale.
func (s *Surface) SetConnectors(cs []ConnectorID, kinds map[ConnectorID]ConnectorKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Connectors = make(map[ConnectorID]struct{}, len(cs))
	for _, c := range cs {
		s.pending.Connectors[c] = struct{}{}
		if k, ok := kinds[c]; ok {
			s.connKind[c] = k
		}
	}
}

// UseMode sets the pending display mode.
func (s *Surface) UseMode(mode ModeInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Mode = ptr.To(mode)
}

// UseVRR requests VRR be enabled or disabled on the next commit, with no
// negotiation of its own; see NegotiateVRR for the tested path.
func (s *Surface) UseVRR(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.VRR = enabled
}

// NegotiateVRR enables or disables VRR the way spec §4.1 describes:
// attempt a non-modesetting test commit first, and only fall back to a
// modesetting one if that fails. On success the negotiated value is left
// in the pending state for the next Commit to apply; on failure pending.VRR
// is left unchanged.
func (s *Surface) NegotiateVRR(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.pending.VRR
	s.pending.VRR = enabled

	if err := s.commitLocked(true, false, false); err == nil {
		return nil
	}
	if err := s.commitLocked(true, false, true); err != nil {
		s.pending.VRR = prev
		return err
	}
	return nil
}

// VrrSupported reports whether connector c can run with VRR enabled, and
// whether doing so requires a modeset. HDMI-A/HDMI-B connectors always
// require a modeset, a driver limitation spec §4.1 calls out explicitly.
func (s *Surface) VrrSupported(c ConnectorID, vrrCapable bool) VRRSupport {
	s.mu.Lock()
	kind := s.connKind[c]
	s.mu.Unlock()

	if kind == ConnectorKindHDMIA || kind == ConnectorKindHDMIB {
		return VRRRequiresModeset
	}
	if !vrrCapable {
		return VRRNotSupported
	}
	return VRRSupported
}

// TestState validates the pending configuration against the kernel without
// making it current. allowModeset controls whether the kernel is allowed to
// assume a modeset while testing: an atomic surface still issues a real
// TEST_ONLY commit either way, just without ALLOW_MODESET when false; a
// legacy surface has no way to test without triggering a modeset and
// returns Ok optimistically when allowModeset is false (spec §4.1 "Legacy
// path": "test_state with allow_modeset=false returns Ok optimistically").
func (s *Surface) TestState(allowModeset bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(true, false, allowModeset)
}

// Commit validates and then applies the pending configuration, taking over
// ownership of the mode-blob lifecycle on mode change. A real commit always
// permits a modeset.
func (s *Surface) Commit(pageFlipEvent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(false, pageFlipEvent, true)
}

// PageFlip issues a non-modesetting commit that only swaps framebuffers. A
// rejection here indicates a driver bug, since the configuration already
// passed a TEST_ONLY commit during Commit.
func (s *Surface) PageFlip(pageFlipEvent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.device.Active() {
		return ErrDeviceInactive
	}
	if s.legacy {
		var fb FramebufferID
		for _, cfg := range s.pending.Planes {
			if cfg != nil {
				fb = cfg.Framebuffer
			}
		}
		if err := s.device.legacyPageFlip(s.crtc, fb); err != nil {
			return err
		}
		s.applyUsedPlanes()
		return nil
	}

	sets, _, err := s.buildPropertySets(false)
	if err != nil {
		return err
	}
	flags := uint32(0)
	if pageFlipEvent {
		flags |= DRM_MODE_PAGE_FLIP_EVENT
	}
	if err := s.device.atomicCommit(sets, flags); err != nil {
		return errTestFailed("page_flip", s.crtc)
	}
	s.applyUsedPlanes()
	s.current = s.pending.clone()
	return nil
}

// ClearPlane disables a single plane immediately, removing it from the
// used-plane set.
func (s *Surface) ClearPlane(plane PlaneID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.device.Active() {
		return ErrDeviceInactive
	}

	if s.legacy {
		delete(s.usedPlanes, plane)
		delete(s.pending.Planes, plane)
		delete(s.current.Planes, plane)
		return nil
	}

	fbProp, err := s.device.propertyID(uint32(plane), objTypePlane, "FB_ID")
	if err != nil {
		return err
	}
	crtcProp, err := s.device.propertyID(uint32(plane), objTypePlane, "CRTC_ID")
	if err != nil {
		return err
	}
	sets := []objectPropertySet{
		{objID: uint32(plane), propID: uint32(fbProp), value: 0},
		{objID: uint32(plane), propID: uint32(crtcProp), value: 0},
	}
	if err := s.device.atomicCommit(sets, DRM_MODE_ATOMIC_ALLOW_MODESET); err != nil {
		return errAccess("clear_plane", err)
	}
	delete(s.usedPlanes, plane)
	delete(s.pending.Planes, plane)
	delete(s.current.Planes, plane)
	return nil
}

// ResetState drops all pending changes, reverting to the last-committed
// state.
func (s *Surface) ResetState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = s.current.clone()
}

// Release gives up this surface's claim on its primary plane, allowing
// another CRTC to claim it.
func (s *Surface) Release() {
	s.registry.release(s.crtc, s.primary)
	for p := range s.usedPlanes {
		s.registry.release(s.crtc, p)
	}
}

func (s *Surface) applyUsedPlanes() {
	for p, cfg := range s.pending.Planes {
		if cfg != nil {
			s.usedPlanes[p] = struct{}{}
			s.registry.claim(s.crtc, p)
		} else {
			delete(s.usedPlanes, p)
			s.registry.release(s.crtc, p)
		}
	}
}

// commitLocked implements the mutator algorithm from spec §4.1: active
// check, property assembly, TEST_ONLY commit, then the real commit. It
// allocates no separate test buffer; the TEST_ONLY commit uses the
// framebuffers already in the pending plane configs. s.mu is held by the
// caller. allowModeset gates only the first
// (test) atomic commit's ALLOW_MODESET flag; the real applying commit
// issued when testOnly is false always carries ALLOW_MODESET, matching
// original_source's commit() which takes no allow_modeset parameter of its
// own — only test_state does.
func (s *Surface) commitLocked(testOnly bool, pageFlipEvent bool, allowModeset bool) error {
	if !s.device.Active() {
		return ErrDeviceInactive
	}
	if len(s.pending.Connectors) == 0 {
		return errSurfaceWithoutConnectors("commit", s.crtc)
	}

	if s.legacy {
		return s.commitLegacyLocked(testOnly, allowModeset)
	}

	sets, newBlob, err := s.buildPropertySets(true)
	if err != nil {
		return err
	}

	flags := uint32(DRM_MODE_ATOMIC_TEST_ONLY)
	if allowModeset {
		flags |= DRM_MODE_ATOMIC_ALLOW_MODESET
	}
	if err := s.device.atomicCommit(sets, flags); err != nil {
		if newBlob != 0 {
			_ = s.device.destroyBlob(newBlob)
		}
		return errTestFailed("commit", s.crtc)
	}
	if testOnly {
		if newBlob != 0 {
			_ = s.device.destroyBlob(newBlob)
		}
		return nil
	}

	flags = DRM_MODE_ATOMIC_ALLOW_MODESET
	if pageFlipEvent {
		flags |= DRM_MODE_PAGE_FLIP_EVENT
	}
	if err := s.device.atomicCommit(sets, flags); err != nil {
		if newBlob != 0 {
			_ = s.device.destroyBlob(newBlob)
		}
		return errTestFailed("commit", s.crtc)
	}

	oldBlob := s.current.ModeBlob
	if newBlob != 0 && oldBlob != 0 && oldBlob != newBlob {
		_ = s.device.destroyBlob(oldBlob)
	}
	s.pending.ModeBlob = newBlob
	s.applyUsedPlanes()
	s.current = s.pending.clone()
	return nil
}

func (s *Surface) commitLegacyLocked(testOnly bool, allowModeset bool) error {
	if testOnly {
		if !allowModeset {
			return nil
		}
	}

	for plane, cfg := range s.pending.Planes {
		if cfg == nil {
			continue
		}
		if plane != s.primary {
			continue
		}
		if cfg.DstRect.Origin.X != 0 || cfg.DstRect.Origin.Y != 0 {
			return errUnsupportedPlaneConfiguration("commit", plane, "non-origin offset on legacy path")
		}
		if cfg.Transform != geometry.TransformNormal {
			return errUnsupportedPlaneConfiguration("commit", plane, "non-identity transform on legacy path")
		}
		if cfg.SrcRect.Size.W != cfg.DstRect.Size.W || cfg.SrcRect.Size.H != cfg.DstRect.Size.H {
			return errUnsupportedPlaneConfiguration("commit", plane, "scaling on legacy path")
		}
	}

	if testOnly {
		return nil
	}

	primaryCfg, ok := s.pending.Planes[s.primary]
	if !ok || primaryCfg == nil {
		return errNoFramebuffer("commit", s.primary)
	}

	if s.pending.Mode == nil {
		return errModeNotSuitable("commit", s.crtc)
	}

	connectors := make([]ConnectorID, 0, len(s.pending.Connectors))
	for c := range s.pending.Connectors {
		connectors = append(connectors, c)
	}
	if err := s.device.legacySetCrtc(s.crtc, primaryCfg.Framebuffer, *s.pending.Mode, connectors); err != nil {
		return err
	}

	s.applyUsedPlanes()
	s.current = s.pending.clone()
	return nil
}

// DebugProperties resolves the pending state into the same (object,
// property, value) triples buildPropertySets would submit, but returns
// them keyed by property name for inspection. Per spec §9 the two forms
// must stay byte-identical: this calls the exact same builder, then just
// renames the results, so divergence between "what we'd submit" and "what
// this reports" is structurally impossible.
func (s *Surface) DebugProperties(modeset bool) (map[string]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets, blob, err := s.buildPropertySets(modeset)
	if blob != 0 {
		defer s.device.destroyBlob(blob) //nolint:errcheck // debug-only blob, never committed
	}
	if err != nil {
		return nil, err
	}

	out := make(map[string]uint64, len(sets))
	for _, set := range sets {
		name, ok := s.device.propertyNameFor(set.objID, set.propID)
		if !ok {
			name = fmt.Sprintf("obj%d.prop%d", set.objID, set.propID)
		}
		out[fmt.Sprintf("%d:%s", set.objID, name)] = set.value
	}
	return out, nil
}

// buildPropertySets resolves every property name the pending state touches
// into (object, property, value) triples. When modeset is true and a
// pending mode is set, a new MODE_ID blob is created (whether or not the
// mode changed) and returned for lifecycle management by the caller.
func (s *Surface) buildPropertySets(modeset bool) ([]objectPropertySet, PropBlobID, error) {
	var sets []objectPropertySet
	var newBlob PropBlobID

	crtcActive, err := s.device.propertyID(uint32(s.crtc), objTypeCrtc, "ACTIVE")
	if err != nil {
		return nil, 0, err
	}
	sets = append(sets, objectPropertySet{objID: uint32(s.crtc), propID: uint32(crtcActive), value: boolToU64(s.pending.Active)})

	if modeset && s.pending.Mode != nil {
		blob, err := s.device.createBlob(s.pending.Mode.encode())
		if err != nil {
			return nil, 0, err
		}
		newBlob = blob
		modeIDProp, err := s.device.propertyID(uint32(s.crtc), objTypeCrtc, "MODE_ID")
		if err != nil {
			_ = s.device.destroyBlob(blob)
			return nil, 0, err
		}
		sets = append(sets, objectPropertySet{objID: uint32(s.crtc), propID: uint32(modeIDProp), value: uint64(blob)})
	}

	if vrrProp, err := s.device.propertyID(uint32(s.crtc), objTypeCrtc, "VRR_ENABLED"); err == nil {
		sets = append(sets, objectPropertySet{objID: uint32(s.crtc), propID: uint32(vrrProp), value: boolToU64(s.pending.VRR)})
	}

	for c := range s.pending.Connectors {
		crtcIDProp, err := s.device.propertyID(uint32(c), objTypeConnector, "CRTC_ID")
		if err != nil {
			return nil, newBlob, err
		}
		sets = append(sets, objectPropertySet{objID: uint32(c), propID: uint32(crtcIDProp), value: uint64(s.crtc)})
	}

	for plane, cfg := range s.pending.Planes {
		planeSets, err := s.buildPlaneSets(plane, cfg)
		if err != nil {
			return nil, newBlob, err
		}
		sets = append(sets, planeSets...)
	}
	return sets, newBlob, nil
}

func (s *Surface) buildPlaneSets(plane PlaneID, cfg *PlaneConfig) ([]objectPropertySet, error) {
	crtcIDProp, err := s.device.propertyID(uint32(plane), objTypePlane, "CRTC_ID")
	if err != nil {
		return nil, err
	}
	fbIDProp, err := s.device.propertyID(uint32(plane), objTypePlane, "FB_ID")
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		return []objectPropertySet{
			{objID: uint32(plane), propID: uint32(crtcIDProp), value: 0},
			{objID: uint32(plane), propID: uint32(fbIDProp), value: 0},
		}, nil
	}

	sets := []objectPropertySet{
		{objID: uint32(plane), propID: uint32(crtcIDProp), value: uint64(s.crtc)},
		{objID: uint32(plane), propID: uint32(fbIDProp), value: uint64(cfg.Framebuffer)},
	}

	names := []string{"SRC_X", "SRC_Y", "SRC_W", "SRC_H"}
	vals := []uint64{
		toFixed1616(cfg.SrcRect.Origin.X), toFixed1616(cfg.SrcRect.Origin.Y),
		toFixed1616(cfg.SrcRect.Size.W), toFixed1616(cfg.SrcRect.Size.H),
	}
	for i, n := range names {
		p, err := s.device.propertyID(uint32(plane), objTypePlane, n)
		if err != nil {
			return nil, err
		}
		sets = append(sets, objectPropertySet{objID: uint32(plane), propID: uint32(p), value: vals[i]})
	}

	crtcNames := []string{"CRTC_X", "CRTC_Y", "CRTC_W", "CRTC_H"}
	crtcVals := []uint64{
		uint64(int64(cfg.DstRect.Origin.X)), uint64(int64(cfg.DstRect.Origin.Y)),
		uint64(int64(cfg.DstRect.Size.W)), uint64(int64(cfg.DstRect.Size.H)),
	}
	for i, n := range crtcNames {
		p, err := s.device.propertyID(uint32(plane), objTypePlane, n)
		if err != nil {
			return nil, err
		}
		sets = append(sets, objectPropertySet{objID: uint32(plane), propID: uint32(p), value: crtcVals[i]})
	}

	rotProp, err := s.device.propertyID(uint32(plane), objTypePlane, "rotation")
	if err != nil {
		if cfg.Transform != geometry.TransformNormal {
			return nil, errUnknownProperty("commit", "rotation")
		}
	} else {
		sets = append(sets, objectPropertySet{objID: uint32(plane), propID: uint32(rotProp), value: uint64(rotationForTransform(cfg.Transform))})
	}

	if alphaProp, err := s.device.propertyID(uint32(plane), objTypePlane, "alpha"); err == nil {
		sets = append(sets, objectPropertySet{objID: uint32(plane), propID: uint32(alphaProp), value: uint64(cfg.Alpha * 0xffff)})
	}

	if cfg.DamageClip != nil {
		if damageProp, err := s.device.propertyID(uint32(plane), objTypePlane, "FB_DAMAGE_CLIPS"); err == nil {
			sets = append(sets, objectPropertySet{objID: uint32(plane), propID: uint32(damageProp), value: uint64(*cfg.DamageClip)})
		}
	}
	if cfg.Fence != nil {
		if fenceProp, err := s.device.propertyID(uint32(plane), objTypePlane, "IN_FENCE_FD"); err == nil {
			sets = append(sets, objectPropertySet{objID: uint32(plane), propID: uint32(fenceProp), value: uint64(*cfg.Fence)})
		}
	}

	return sets, nil
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func toFixed1616(v int32) uint64 {
	return uint64(int64(v) << 16)
}
