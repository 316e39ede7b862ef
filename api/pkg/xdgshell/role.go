// Package xdgshell implements the xdg-shell surface lifecycle: surface
// roles, the configure/ack tracker, toplevel and popup state, the
// interactive-resize grab state machine, popup positioning, and
// foreign-toplevel export/import. Grounded on api/pkg/desktop's role and
// state-tracking conventions and on original_source's wayland/shell
// implementation for exact algorithm semantics.
package xdgshell

import "github.com/wlcore/compositor-core/api/pkg/cerrors"

// Role names a Wayland surface's assigned role. A surface may carry at
// most one for its lifetime; assigning a second is a protocol error
// (spec §3.5).
type Role string

const (
	RoleNone           Role = ""
	RoleXdgToplevel    Role = "xdg_toplevel"
	RoleXdgPopup       Role = "xdg_popup"
	RoleWlShellSurface Role = "wl_shell_surface"
	RoleCursorImage    Role = "cursor_image"
	RoleLayerSurface   Role = "layer_surface"
	RoleSubsurface     Role = "subsurface"
)

// RoleTracker enforces the at-most-one-role invariant for a single
// surface. Embedded by whatever surface type a binding layer uses.
type RoleTracker struct {
	role Role
}

// Role returns the currently assigned role, or RoleNone.
func (t *RoleTracker) Role() Role { return t.role }

// Assign sets role, failing with a protocol error if a different role is
// already assigned. Assigning the same role again is a no-op success
// (idempotent, matching cursor_image's semantics generalized to every
// role per spec §3.5's "assigning a second role is a protocol error" —
// only a *different* role is a conflict).
func (t *RoleTracker) Assign(role Role, objectName string) error {
	if t.role == RoleNone {
		t.role = role
		return nil
	}
	if t.role == role {
		return nil
	}
	return cerrors.NewRoleConflict(objectName, string(t.role))
}

// Clear removes the role, e.g. when the role object is destroyed.
func (t *RoleTracker) Clear() { t.role = RoleNone }
