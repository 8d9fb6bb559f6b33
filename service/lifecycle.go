package service

import (
	"context"
	"log/slog"

	"tether"
)

// Toggle flips the service: stop when running, start otherwise. This is
// the user-initiated entry point, so failures surface to the notifier.
func (c *Coordinator) Toggle(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sshd.IsRunning() {
		return c.stop(ctx)
	}
	return c.start(ctx, false)
}

// Start brings the service up. silent suppresses user notifications for
// event-initiated starts (resume, replug); errors are still returned.
func (c *Coordinator) Start(ctx context.Context, silent bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start(ctx, silent)
}

// Stop brings the service down. An explicit stop cancels every pending
// auto-restart.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop(ctx)
}

// HandleSuspend pauses the service ahead of a host suspend. A pending
// deferred start must not fire while asleep, so it is cancelled outright.
func (c *Coordinator) HandleSuspend(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfg.PauseOnSuspend {
		return
	}
	c.state.AutostartPending = false

	if !c.sshd.IsRunning() {
		return
	}
	c.state.ResumeAfterSuspend = true
	if err := c.stopForEvent(ctx); err != nil {
		slog.Warn("Stop for suspend failed.", "err", err)
	}
}

// HandleResume restarts the service after a host resume, if it was
// running at suspend time. The post-wake cable state is authoritative,
// so the belief is re-probed before deciding.
func (c *Coordinator) HandleResume(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.ResumeAfterSuspend {
		return
	}
	c.state.ResumeAfterSuspend = false

	if c.plug != nil {
		c.state.Plug = c.plug.State()
	}

	if !c.cfg.StartOnlyWhenPlugged || c.state.Plug == tether.PluggedIn {
		if err := c.start(ctx, true); err != nil {
			slog.Warn("Restart after resume failed.", "err", err)
		}
		return
	}
	// Cable was removed during sleep; re-arm for the next plug-in.
	c.state.AutostartPending = true
}

// HandlePlugIn records the cable and resolves any deferred start. When
// nothing is pending but the service is running with the interface gone,
// it attempts a best-effort repair.
func (c *Coordinator) HandlePlugIn(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Plug = tether.PluggedIn

	if c.state.AutostartPending || c.state.ResumeAfterUnplug {
		c.state.AutostartPending = false
		c.state.ResumeAfterUnplug = false
		if err := c.start(ctx, true); err != nil {
			slog.Warn("Deferred start on plug-in failed.", "err", err)
		}
		return
	}

	if c.sshd.IsRunning() && !c.gadget.Refresh(ctx) {
		if err := c.gadget.Enable(ctx); err != nil {
			slog.Warn("Gadget re-enable on plug-in failed.", "err", err)
		}
	}
}

// HandlePlugOut records the cable gone and, depending on config, tears
// the service down and arms a restart for the next plug-in. The gadget
// interface itself is torn down either way when we own it, since the
// USB link is physically gone.
func (c *Coordinator) HandlePlugOut(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Plug = tether.Unplugged

	if c.cfg.StopOnUnplug && c.sshd.IsRunning() {
		c.state.ResumeAfterUnplug = true
		if err := c.stopForEvent(ctx); err != nil {
			slog.Warn("Stop on unplug failed.", "err", err)
		}
		return
	}

	if c.gadget.Owned() {
		if err := c.gadget.Disable(ctx); err != nil {
			slog.Warn("Gadget disable on unplug failed.", "err", err)
		}
	}
}

// Shutdown is the host-exit path: never leak a background process or an
// owned interface across a daemon reload.
func (c *Coordinator) Shutdown(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sshd.IsRunning() {
		if err := c.sshd.Stop(ctx, true); err != nil {
			slog.Error("Force stop at shutdown failed.", "err", err)
		}
	}
	if err := c.gadget.Disable(ctx); err != nil {
		slog.Error("Gadget disable at shutdown failed.", "err", err)
	}
	c.state.reset()
}

// start is the shared start path. Caller holds c.mu.
func (c *Coordinator) start(ctx context.Context, silent bool) error {
	if c.sshd.IsRunning() {
		slog.Info("Service already running, ignoring start.")
		return nil
	}

	if c.cfg.StartOnlyWhenPlugged && c.state.Plug != tether.PluggedIn {
		c.state.AutostartPending = true
		slog.Info("Start deferred until USB is plugged in.")
		if !silent {
			c.notifyDeferred()
		}
		return nil
	}

	if err := c.gadget.Enable(ctx); err != nil {
		if !silent {
			c.notifyFailed("enable gadget", err)
		}
		return err
	}

	if err := c.sshd.Start(ctx, c.cfg); err != nil {
		// The gadget stays enabled; the next stop reconciles it.
		if !silent {
			c.notifyFailed("start sshd", err)
		}
		return err
	}

	if !silent {
		c.notifyStarted(c.cfg.Port)
	}
	return nil
}

// stop is the user-initiated stop path. Caller holds c.mu.
func (c *Coordinator) stop(ctx context.Context) error {
	c.state.AutostartPending = false
	c.state.ResumeAfterUnplug = false

	if !c.sshd.IsRunning() {
		slog.Info("Service not running, ignoring stop.")
		return nil
	}

	if err := c.sshd.Stop(ctx, false); err != nil {
		slog.Warn("Graceful stop failed, escalating.", "err", err)
		if err := c.sshd.Stop(ctx, true); err != nil {
			// Process still up, gadget stays up with it.
			c.notifyFailed("stop sshd", err)
			return err
		}
	}

	if c.cfg.StopGadgetOnStop {
		if err := c.gadget.Disable(ctx); err != nil {
			slog.Warn("Gadget disable after stop failed.", "err", err)
		}
	}

	c.notifyStopped()
	return nil
}

// stopForEvent is the background teardown used by suspend and unplug:
// forced stop, no user notification, gadget down only once the process
// is confirmed gone. Caller holds c.mu.
func (c *Coordinator) stopForEvent(ctx context.Context) error {
	if err := c.sshd.Stop(ctx, true); err != nil {
		return err
	}
	if err := c.gadget.Disable(ctx); err != nil {
		slog.Warn("Gadget disable failed.", "err", err)
	}
	return nil
}
