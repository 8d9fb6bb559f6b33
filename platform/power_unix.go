//go:build unix

package platform

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"tether"
)

// PowerSignals turns SIGUSR1/SIGUSR2 into suspend/resume events. The
// system sleep hook (e.g. a systemd-sleep script) delivers the signals
// around the actual suspend.
type PowerSignals struct{}

// Watch listens for the power signals until ctx is cancelled.
func (PowerSignals) Watch(ctx context.Context, events chan<- tether.Event) error {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, unix.SIGUSR1, unix.SIGUSR2)
	defer signal.Stop(sigs)

	for {
		select {
		case sig := <-sigs:
			ev := tether.Event{Kind: tether.EventSuspend}
			if sig == unix.SIGUSR2 {
				ev.Kind = tether.EventResume
			}
			slog.Debug("Power transition.", "event", ev.Kind)
			select {
			case events <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
