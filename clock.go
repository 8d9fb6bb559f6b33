package tether

import "time"

// Clock abstracts the sleeps inside bounded polling loops so tests can
// run them instantly.
type Clock interface {
	Sleep(d time.Duration)
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
