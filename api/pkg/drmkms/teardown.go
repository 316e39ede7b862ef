package drmkms

import "log/slog"

// crtcSnapshot is the pre-existing kernel state of one CRTC, captured when
// a Device is opened so it can be restored on Close (spec §4.1 Teardown:
// "so the tty text console reappears intact").
type crtcSnapshot struct {
	crtc       CrtcID
	fb         FramebufferID
	mode       ModeInfo
	modeValid  bool
	x, y       uint32
	connectors []ConnectorID
}

// captureOldState snapshots every CRTC's current framebuffer, mode,
// position and connector set. Failure to snapshot a given CRTC is not
// fatal: restoration for that CRTC is simply skipped later.
func captureOldState(d *Device, logger *slog.Logger) []crtcSnapshot {
	crtcs, connectors, _, err := d.resources()
	if err != nil {
		logger.Warn("drmkms: failed to enumerate resources for teardown snapshot", "error", err)
		return nil
	}

	snapshots := make([]crtcSnapshot, 0, len(crtcs))
	for _, c := range crtcs {
		snap, ok, err := d.snapshotCrtc(c, connectors)
		if err != nil {
			logger.Warn("drmkms: failed to snapshot crtc", "crtc", c, "error", err)
			continue
		}
		if ok {
			snapshots = append(snapshots, snap)
		}
	}
	return snapshots
}

// restoreOldState reprograms each previously-snapshotted CRTC with its
// original framebuffer, mode and connector set, swallowing individual
// failures: partial restoration is acceptable (spec §4.1). The captured
// x/y position is not applied; legacySetCrtc always programs offset (0,0).
func restoreOldState(d *Device, snapshots []crtcSnapshot, logger *slog.Logger) {
	for _, snap := range snapshots {
		if !snap.modeValid || len(snap.connectors) == 0 {
			continue
		}
		if err := d.legacySetCrtc(snap.crtc, snap.fb, snap.mode, snap.connectors); err != nil {
			logger.Warn("drmkms: failed to restore crtc on teardown", "crtc", snap.crtc, "error", err)
		}
	}
}
