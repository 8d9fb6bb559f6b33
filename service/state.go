package service

import "tether"

// RuntimeState is the coordinator's mutable view of the world. It has
// exactly one writer: the coordinator itself, called from the daemon's
// single event loop goroutine.
//
// At most one of the three deferred flags drives a given future start;
// whichever fired is cleared before the start is attempted.
type RuntimeState struct {
	// Plug is the last observed cable state.
	Plug tether.PlugState
	// AutostartPending records a start deferred because the cable was
	// not plugged in.
	AutostartPending bool
	// ResumeAfterSuspend records that the service was running at suspend
	// time and should come back on resume if conditions allow.
	ResumeAfterSuspend bool
	// ResumeAfterUnplug records that the service was running at unplug
	// time and should come back on replug.
	ResumeAfterUnplug bool
}

// reset returns the state to its initial values (all false, plug unknown).
func (s *RuntimeState) reset() {
	*s = RuntimeState{}
}
