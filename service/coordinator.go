// Package service owns the decision of when the ssh daemon and the
// gadget interface are started, stopped, deferred, or re-armed.
//
// The coordinator consumes five event kinds (user toggle, plug-in,
// plug-out, suspend, resume) that can arrive in any order. It is not
// safe for concurrent use: the daemon serializes all calls onto one
// goroutine, which is what keeps in-flight start/stop sequences from
// overlapping.
package service

import (
	"fmt"
	"sync"

	"tether"
	"tether/internal/buildinfo"
	"tether/internal/check"
)

// Coordinator is the lifecycle state machine.
type Coordinator struct {
	settings Settings
	sshd     Supervisor
	gadget   Gadget
	notify   Notifier
	plug     PlugProber

	cfg   tether.ServiceConfig
	state RuntimeState

	// Guards Status() reads from the control server against event-loop
	// writes. All mutations happen on the event loop goroutine.
	mu sync.Mutex
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithNotifier injects the user notification sink.
func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) { c.notify = n }
}

// WithPlugProber injects the authoritative cable-state probe.
func WithPlugProber(p PlugProber) Option {
	return func(c *Coordinator) { c.plug = p }
}

// New creates a Coordinator and loads the initial config snapshot from
// the settings store.
func New(settings Settings, sshd Supervisor, gadget Gadget, opts ...Option) (*Coordinator, error) {
	check.Assert(settings != nil, "service.New: Settings must not be nil")
	check.Assert(sshd != nil, "service.New: Supervisor must not be nil")
	check.Assert(gadget != nil, "service.New: Gadget must not be nil")

	c := &Coordinator{
		settings: settings,
		sshd:     sshd,
		gadget:   gadget,
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.ReloadConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

// ReloadConfig refreshes the config snapshot from the settings store.
// Called at initialization and after explicit user edits.
func (c *Coordinator) ReloadConfig() error {
	cfg, err := c.settings.ServiceConfig()
	if err != nil {
		return fmt.Errorf("load service config: %w", err)
	}
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
	return nil
}

// Config returns the current config snapshot.
func (c *Coordinator) Config() tether.ServiceConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Status reports the coordinator's view for the CLI. Liveness is always
// recomputed from the supervisor, never cached.
func (c *Coordinator) Status() tether.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return tether.Status{
		Running:          c.sshd.IsRunning(),
		Port:             c.cfg.Port,
		Plug:             c.state.Plug.String(),
		GadgetOwned:      c.gadget.Owned(),
		GadgetActive:     c.gadget.Active(),
		AutostartPending: c.state.AutostartPending,
		ResumePending:    c.state.ResumeAfterSuspend,
		ReplugPending:    c.state.ResumeAfterUnplug,
		Version:          buildinfo.Version,
	}
}

func (c *Coordinator) notifyStarted(port int) {
	if c.notify != nil {
		c.notify.Started(port)
	}
}

func (c *Coordinator) notifyStopped() {
	if c.notify != nil {
		c.notify.Stopped()
	}
}

func (c *Coordinator) notifyDeferred() {
	if c.notify != nil {
		c.notify.StartDeferred()
	}
}

func (c *Coordinator) notifyFailed(op string, err error) {
	if c.notify != nil {
		c.notify.Failed(op, err)
	}
}
