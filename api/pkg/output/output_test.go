package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlcore/compositor-core/api/pkg/geometry"
)

type recordingListener struct {
	v2     bool
	events []string
}

func (r *recordingListener) XdgOutputUpdated(*Output)      { r.events = append(r.events, "xdg_output") }
func (r *recordingListener) Geometry(*Output)               { r.events = append(r.events, "geometry") }
func (r *recordingListener) Mode(Mode)                       { r.events = append(r.events, "mode") }
func (r *recordingListener) Scale(geometry.Scale)            { r.events = append(r.events, "scale") }
func (r *recordingListener) Done()                           { r.events = append(r.events, "done") }
func (r *recordingListener) SupportsScaleEvent() bool        { return r.v2 }

func TestChangeCurrentStateOrdering(t *testing.T) {
	o := New("HDMI-A-1")
	l := &recordingListener{v2: true}
	o.Bind(l)

	newMode := Mode{Size: geometry.Size[geometry.Physical, int32]{W: 1920, H: 1080}, RefreshMHz: 60000, Preferred: true}
	transform := geometry.TransformNormal
	scale := geometry.IntegerScale(2)
	loc := geometry.Point[geometry.Logical, int32]{X: 100, Y: 0}

	o.ChangeCurrentState(&newMode, &transform, &scale, &loc)

	require.Equal(t, []string{"xdg_output", "geometry", "mode", "scale", "done"}, l.events)
}

func TestChangeCurrentStateNoopWhenNothingChanges(t *testing.T) {
	o := New("HDMI-A-1")
	l := &recordingListener{v2: true}
	o.Bind(l)

	scale := geometry.IntegerScale(1)
	o.ChangeCurrentState(nil, nil, &scale, nil)

	assert.Empty(t, l.events)
}

func TestChangeCurrentStateSkipsScaleForV1Client(t *testing.T) {
	o := New("HDMI-A-1")
	l := &recordingListener{v2: false}
	o.Bind(l)

	scale := geometry.IntegerScale(2)
	o.ChangeCurrentState(nil, nil, &scale, nil)

	assert.Equal(t, []string{"xdg_output"}, l.events)
}

func TestUnbindStopsFurtherBroadcasts(t *testing.T) {
	o := New("HDMI-A-1")
	l := &recordingListener{v2: true}
	o.Bind(l)
	o.Unbind(l)

	transform := geometry.Transform90
	o.ChangeCurrentState(nil, &transform, nil, nil)

	assert.Empty(t, l.events)
}
