package service

import (
	"context"

	"tether"
)

// Supervisor is the ssh daemon process lifecycle, implemented by sshd.Supervisor.
type Supervisor interface {
	Start(ctx context.Context, cfg tether.ServiceConfig) error
	IsRunning() bool
	Stop(ctx context.Context, force bool) error
}

// Gadget is the USB ethernet gadget interface lifecycle, implemented by
// gadget.Controller.
type Gadget interface {
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
	// Refresh re-probes interface existence and returns the updated belief.
	Refresh(ctx context.Context) bool
	Owned() bool
	Active() bool
}

// Settings supplies the persisted service configuration.
type Settings interface {
	ServiceConfig() (tether.ServiceConfig, error)
}

// Notifier receives user-visible outcomes of user-initiated operations.
// Background (event-initiated) operations never reach it; they log instead.
type Notifier interface {
	Started(port int)
	Stopped()
	StartDeferred()
	Failed(op string, err error)
}

// PlugProber reads the authoritative cable state from the hardware.
// Used after resume, when the pre-sleep belief may be stale.
type PlugProber interface {
	State() tether.PlugState
}
