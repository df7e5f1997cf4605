// Package clock provides a tiny time abstraction.
//
// Flows that reason about deadlines (OTP expiry windows, token TTLs) depend on
// the Clocker interface instead of calling time.Now() directly, so tests can
// install a deterministic clock and move it past an expiry window.
package clock

import "time"

// Clocker abstracts the current-time source.
type Clocker interface {
	Now() time.Time
}

// System is the production clock backed by time.Now.
type System struct{}

// New returns a System clock.
func New() *System {
	return &System{}
}

// Now returns the current system time.
func (*System) Now() time.Time {
	return time.Now()
}

// Fixed is a clock pinned to a settable instant, for tests.
type Fixed struct {
	At time.Time
}

// Now returns the pinned instant.
func (f *Fixed) Now() time.Time {
	return f.At
}

// Advance moves the pinned instant forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.At = f.At.Add(d)
}
