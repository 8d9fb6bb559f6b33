//go:build linux

package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"

	"tether"
)

const ueventBufSize = 4096

// UEventWatcher listens on the kernel kobject uevent netlink socket and
// reports USB cable plug/unplug transitions from power_supply events.
type UEventWatcher struct {
	tracker *plugTracker
}

// NewUEventWatcher creates a watcher with unknown initial plug state.
func NewUEventWatcher() *UEventWatcher {
	return &UEventWatcher{tracker: newPlugTracker()}
}

// Watch reads uevents and sends plug events until ctx is cancelled.
func (w *UEventWatcher) Watch(ctx context.Context, events chan<- tether.Event) error {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.NETLINK_KOBJECT_UEVENT)
	if err != nil {
		return fmt.Errorf("open uevent socket: %w", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrNetlink{
		Family: unix.AF_NETLINK,
		Groups: 1, // kernel broadcast group
	}); err != nil {
		_ = unix.Close(fd)
		return fmt.Errorf("bind uevent socket: %w", err)
	}

	// Reads block in the kernel; closing the fd is how cancellation
	// reaches the loop.
	go func() {
		<-ctx.Done()
		_ = unix.Close(fd)
	}()

	buf := make([]byte, ueventBufSize)
	for {
		n, err := unix.Read(fd, buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("read uevent: %w", err)
		}

		ev, ok := w.tracker.observe(parseUEvent(buf[:n]))
		if !ok {
			continue
		}
		slog.Debug("USB plug transition.", "event", ev.Kind)
		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
