// Package gadget enables and disables the USB ethernet gadget interface
// through the platform helper script, tracking whether this process is
// the owner of the enabled state.
//
// The interface is a shared hardware resource: something else (a file
// transfer session, another tool) may have enabled it first. Only the
// entity that enabled it may disable it, so Enable marks ownership and
// Disable is a no-op without it.
package gadget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"tether"
)

const (
	pollInterval   = 100 * time.Millisecond
	appearAttempts = 20

	// helper verbs, passed as "<helper> start|stop ethernet"
	verbStart  = "start"
	verbStop   = "stop"
	classEther = "ethernet"
)

var (
	// ErrHelperMissing means the gadget helper script is absent. Fatal to
	// the operation, not to the coordinator.
	ErrHelperMissing = errors.New("gadget helper not found")
	// ErrEnableFailed wraps a non-zero exit from the enable command.
	ErrEnableFailed = errors.New("gadget enable failed")
	// ErrDisableFailed wraps a non-zero exit from the disable command.
	ErrDisableFailed = errors.New("gadget disable failed")
	// ErrInterfaceTimeout means the enable command succeeded but the
	// interface never appeared within the polling window.
	ErrInterfaceTimeout = errors.New("gadget interface did not appear")
)

// Controller manages the gadget interface lifecycle.
type Controller struct {
	helper    string // helper script path
	iface     string // interface the helper creates, e.g. rndis0
	supported bool   // platform capability, decided once at construction

	run   Runner
	links LinkProber
	clock tether.Clock

	owned  bool
	active bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock injects a clock for the interface-appearance poll.
func WithClock(c tether.Clock) Option {
	return func(g *Controller) { g.clock = c }
}

// New creates a Controller. supported=false turns every operation into a
// successful no-op (the platform simply has no gadget concept).
func New(helper, iface string, supported bool, run Runner, links LinkProber, opts ...Option) *Controller {
	g := &Controller{
		helper:    helper,
		iface:     iface,
		supported: supported,
		run:       run,
		links:     links,
		clock:     tether.SystemClock{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enable brings the gadget interface up. If it already exists the call
// succeeds without claiming ownership; some other actor created it.
func (g *Controller) Enable(ctx context.Context) error {
	if !g.supported {
		return nil
	}

	exists, err := g.links.Exists(g.iface)
	if err != nil {
		return fmt.Errorf("probe interface %q: %w", g.iface, err)
	}
	if exists {
		g.owned = false
		g.active = true
		slog.Debug("Gadget interface already present, not claiming ownership.", "iface", g.iface)
		return nil
	}

	if _, err := os.Stat(g.helper); err != nil {
		return fmt.Errorf("%w: %s", ErrHelperMissing, g.helper)
	}

	if err := g.run.Run(ctx, g.helper, verbStart, classEther); err != nil {
		return fmt.Errorf("%w: %v", ErrEnableFailed, err)
	}

	if !g.waitAppear() {
		return fmt.Errorf("%w: %s", ErrInterfaceTimeout, g.iface)
	}

	g.owned = true
	g.active = true
	slog.Info("Gadget interface enabled.", "iface", g.iface)
	return nil
}

// Disable tears the gadget interface down, but only if this controller
// enabled it. Everything else is a successful no-op.
func (g *Controller) Disable(ctx context.Context) error {
	if !g.supported || !g.owned {
		return nil
	}
	if _, err := os.Stat(g.helper); err != nil {
		return nil
	}

	if err := g.run.Run(ctx, g.helper, verbStop, classEther); err != nil {
		return fmt.Errorf("%w: %v", ErrDisableFailed, err)
	}

	g.owned = false
	g.active = false
	slog.Info("Gadget interface disabled.", "iface", g.iface)
	return nil
}

// Refresh re-probes interface existence and updates the active belief.
// Returns the refreshed belief. Probe errors leave the belief unchanged.
func (g *Controller) Refresh(ctx context.Context) bool {
	if !g.supported {
		return false
	}
	exists, err := g.links.Exists(g.iface)
	if err != nil {
		slog.Warn("Gadget interface probe failed.", "iface", g.iface, "err", err)
		return g.active
	}
	g.active = exists
	return g.active
}

// Owned reports whether this controller enabled the interface.
func (g *Controller) Owned() bool { return g.owned }

// Active reports the best-effort belief that the interface exists.
func (g *Controller) Active() bool { return g.active }

func (g *Controller) waitAppear() bool {
	for i := 0; i < appearAttempts; i++ {
		if exists, err := g.links.Exists(g.iface); err == nil && exists {
			return true
		}
		g.clock.Sleep(pollInterval)
	}
	exists, err := g.links.Exists(g.iface)
	return err == nil && exists
}
