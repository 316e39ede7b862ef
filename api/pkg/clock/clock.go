// Package clock wraps the three Unix clock sources the compositor core
// cares about: CLOCK_MONOTONIC (vblank/frame timing), CLOCK_BOOTTIME
// (survives suspend, used for input timestamps) and CLOCK_REALTIME (wall
// time for presentation-time protocol reporting).
package clock

import (
	"time"

	"golang.org/x/sys/unix"
)

// Source identifies which Unix clockid_t a Clock reads.
type Source int

const (
	Monotonic Source = unix.CLOCK_MONOTONIC
	Boottime  Source = unix.CLOCK_BOOTTIME
	Realtime  Source = unix.CLOCK_REALTIME
)

// NonNegative reports whether this source is guaranteed never to go
// backwards or negative relative to process start (Monotonic, Boottime).
// Realtime can jump (NTP, manual adjustment) so it is excluded.
func (s Source) NonNegative() bool {
	return s == Monotonic || s == Boottime
}

// Clock reads the current time from a fixed Unix clock source.
type Clock struct {
	id Source
}

// New opens a Clock for the given source, failing if the kernel rejects
// clock_gettime for that clockid_t (it never does for the three sources
// above on Linux, but the check mirrors the Rust original's constructor).
func New(id Source) (Clock, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(int32(id), &ts); err != nil {
		return Clock{}, err
	}
	return Clock{id: id}, nil
}

// Now returns the current time for this clock's source.
func (c Clock) Now() time.Time {
	var ts unix.Timespec
	if err := unix.ClockGettime(int32(c.id), &ts); err != nil {
		// The three sources above cannot fail once New has succeeded for
		// the same id; a failure here indicates a kernel/process state
		// invariant violation, not a condition callers can recover from.
		panic("clock: clock_gettime failed after successful New: " + err.Error())
	}
	return time.Unix(ts.Sec, ts.Nsec)
}

// Source returns the clock's source.
func (c Clock) Source() Source {
	return c.id
}
