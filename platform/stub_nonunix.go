//go:build !unix

package platform

import (
	"context"

	"tether"
)

// Processes is a stub; no process signalling off unix.
type Processes struct{}

func (Processes) Alive(int) bool        { return false }
func (Processes) Terminate(int) error   { return errUnsupported }
func (Processes) Kill(int) error        { return errUnsupported }

// PowerSignals is a stub; it blocks until cancelled.
type PowerSignals struct{}

func (PowerSignals) Watch(ctx context.Context, _ chan<- tether.Event) error {
	<-ctx.Done()
	return ctx.Err()
}
