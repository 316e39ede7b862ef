package xdgshell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlcore/compositor-core/api/pkg/geometry"
)

func TestRoleTrackerRejectsSecondDifferentRole(t *testing.T) {
	var rt RoleTracker
	require.NoError(t, rt.Assign(RoleXdgToplevel, "surface@1"))
	err := rt.Assign(RoleXdgPopup, "surface@1")
	assert.Error(t, err)
}

func TestRoleTrackerIdempotentSameRole(t *testing.T) {
	var rt RoleTracker
	require.NoError(t, rt.Assign(RoleXdgToplevel, "surface@1"))
	require.NoError(t, rt.Assign(RoleXdgToplevel, "surface@1"))
}

func TestAckTrackerDiscardsLowerSerials(t *testing.T) {
	var tracker AckTracker[int]
	tracker.Push(1, 10)
	tracker.Push(2, 11)
	tracker.Push(3, 12)

	state, err := tracker.Ack(11, "xdg_surface@1")
	require.NoError(t, err)
	assert.Equal(t, 2, state)
	assert.True(t, tracker.HasPending())
}

func TestAckTrackerUnknownSerialIsProtocolError(t *testing.T) {
	var tracker AckTracker[int]
	tracker.Push(1, 10)
	_, err := tracker.Ack(99, "xdg_surface@1")
	assert.Error(t, err)
}

func TestToplevelRequiresInitialConfigureBeforeAttach(t *testing.T) {
	tl := &Toplevel{}
	assert.True(t, tl.NeedsInitialConfigure())
	tl.SendInitialConfigure(1)
	assert.False(t, tl.NeedsInitialConfigure())
}

func TestResizeProtocolInteractiveResize(t *testing.T) {
	tl := &Toplevel{}
	data := ResizeData{
		Edges:                 EdgeTopLeft,
		InitialWindowLocation: geometry.Point[geometry.Logical, int32]{X: 100, Y: 100},
		InitialWindowSize:     geometry.Size[geometry.Logical, int32]{W: 800, H: 600},
	}
	r := tl.Resize()
	r.Begin(data)

	size, ok := r.Motion(-30, -20, geometry.Size[geometry.Logical, int32]{W: 200, H: 150}, geometry.Size[geometry.Logical, int32]{})
	require.True(t, ok)
	assert.Equal(t, geometry.Size[geometry.Logical, int32]{W: 830, H: 620}, size)

	r.ButtonRelease(50)
	loc, moved := r.AckConfigure(50, StateResizing, size)
	require.True(t, moved)
	assert.Equal(t, geometry.Point[geometry.Logical, int32]{X: 70, Y: 80}, loc)

	tl.Commit()
	assert.False(t, r.Active())
}

func TestPositionerFlipsOnlyWhenItResolvesConstraint(t *testing.T) {
	target := geometry.Rectangle[geometry.Logical, int32]{
		Size: geometry.Size[geometry.Logical, int32]{W: 1000, H: 1000},
	}
	p := Positioner{
		RectSize:   geometry.Size[geometry.Logical, int32]{W: 200, H: 100},
		AnchorRect: geometry.Rectangle[geometry.Logical, int32]{Origin: geometry.Point[geometry.Logical, int32]{X: 900, Y: 100}, Size: geometry.Size[geometry.Logical, int32]{W: 10, H: 10}},
		Anchor:     AnchorRight,
		Gravity:    AnchorRight,
		ConstraintAdjustment: AdjustFlipX,
	}

	rect := p.Resolve(target)
	assert.LessOrEqual(t, rect.X2(), int32(1000))
}

func TestPositionerSlideKeepsWithinTarget(t *testing.T) {
	target := geometry.Rectangle[geometry.Logical, int32]{
		Size: geometry.Size[geometry.Logical, int32]{W: 500, H: 500},
	}
	p := Positioner{
		RectSize:             geometry.Size[geometry.Logical, int32]{W: 100, H: 100},
		AnchorRect:            geometry.Rectangle[geometry.Logical, int32]{Origin: geometry.Point[geometry.Logical, int32]{X: 480, Y: 480}, Size: geometry.Size[geometry.Logical, int32]{W: 10, H: 10}},
		Anchor:                AnchorBottomRight,
		Gravity:               AnchorBottomRight,
		ConstraintAdjustment:  AdjustSlideX | AdjustSlideY,
	}

	rect := p.Resolve(target)
	assert.LessOrEqual(t, rect.X2(), int32(500))
	assert.LessOrEqual(t, rect.Y2(), int32(500))
}

func TestForeignExportImportSetParentOf(t *testing.T) {
	exporter := NewExporter()
	parent := &Toplevel{}
	child := &Toplevel{}

	handle := exporter.Export(parent)
	imp := exporter.Import(handle)
	require.NoError(t, imp.SetParentOf(child))
	assert.Same(t, parent, child.Pending.Parent)

	imp.Destroy()
	assert.Nil(t, child.Pending.Parent)
}

func TestForeignImportUnknownHandleIsDestroyed(t *testing.T) {
	exporter := NewExporter()
	imp := exporter.Import(ForeignHandle("doesnotexist000000000000000000"))
	err := imp.SetParentOf(&Toplevel{})
	assert.Error(t, err)
}

func TestForeignUnexportReversesParentOf(t *testing.T) {
	exporter := NewExporter()
	parent := &Toplevel{}
	child := &Toplevel{}

	handle := exporter.Export(parent)
	imp := exporter.Import(handle)
	require.NoError(t, imp.SetParentOf(child))

	exporter.Unexport(parent)
	assert.Nil(t, child.Pending.Parent)
}

func TestForeignIntervalReassignmentWins(t *testing.T) {
	exporter := NewExporter()
	parentA := &Toplevel{}
	parentB := &Toplevel{}
	child := &Toplevel{}

	handleA := exporter.Export(parentA)
	impA := exporter.Import(handleA)
	require.NoError(t, impA.SetParentOf(child))

	child.Pending.Parent = parentB

	impA.Destroy()
	assert.Same(t, parentB, child.Pending.Parent, "reassigned parent must survive the original import's destruction")
}
