//go:build !linux

package platform

import (
	"context"
	"errors"

	"tether"
)

var errUnsupported = errors.New("not supported on this platform")

// Links is a stub; no interface probing off Linux.
type Links struct{}

func (Links) Exists(string) (bool, error) { return false, nil }

// Devpts is a stub; the prerequisite only exists on Linux.
type Devpts struct {
	Dir string
}

func (Devpts) Ensure(context.Context) error { return nil }

// UEventWatcher is a stub; it blocks until cancelled.
type UEventWatcher struct{}

func NewUEventWatcher() *UEventWatcher { return &UEventWatcher{} }

func (*UEventWatcher) Watch(ctx context.Context, _ chan<- tether.Event) error {
	<-ctx.Done()
	return ctx.Err()
}

// SupportsUSBGadget reports false off Linux.
func SupportsUSBGadget() bool { return false }
