package gadget

import "context"

// Runner executes the gadget helper command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// LinkProber checks whether a network interface currently exists.
// In production this is platform.Links (netlink-backed).
type LinkProber interface {
	Exists(name string) (bool, error)
}
