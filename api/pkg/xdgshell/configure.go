package xdgshell

import "github.com/wlcore/compositor-core/api/pkg/cerrors"

// ConfigureEntry pairs an outgoing configure's state snapshot with the
// serial it was sent under.
type ConfigureEntry[T any] struct {
	State  T
	Serial uint32
}

// AckTracker is the per-surface list of outstanding configures awaiting
// client acknowledgement (spec §3.6). T is the role-specific state
// snapshot type (toplevel attributes, popup geometry, ...).
type AckTracker[T any] struct {
	pending   []ConfigureEntry[T]
	lastAcked *ConfigureEntry[T]
}

// Push records a newly sent configure.
func (t *AckTracker[T]) Push(state T, serial uint32) {
	t.pending = append(t.pending, ConfigureEntry[T]{State: state, Serial: serial})
}

// Ack processes ack_configure(serial): every pending entry with a lower
// serial is discarded, the matching entry becomes last_acked. An unknown
// serial is a protocol error.
func (t *AckTracker[T]) Ack(serial uint32, objectName string) (T, error) {
	var zero T
	idx := -1
	for i, e := range t.pending {
		if e.Serial == serial {
			idx = i
			break
		}
	}
	if idx == -1 {
		return zero, cerrors.NewInvalidSerial(objectName, serial)
	}

	matched := t.pending[idx]
	t.pending = t.pending[idx+1:]
	t.lastAcked = &matched
	return matched.State, nil
}

// LastAcked returns the most recently acknowledged state, if any.
func (t *AckTracker[T]) LastAcked() (T, bool) {
	if t.lastAcked == nil {
		var zero T
		return zero, false
	}
	return t.lastAcked.State, true
}

// HasPending reports whether any configure is awaiting acknowledgement.
func (t *AckTracker[T]) HasPending() bool { return len(t.pending) > 0 }
