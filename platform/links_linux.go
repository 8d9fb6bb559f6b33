//go:build linux

package platform

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// Links probes network interface existence via netlink, satisfying
// gadget.LinkProber.
type Links struct{}

// Exists reports whether an interface with the given name is present.
func (Links) Exists(name string) (bool, error) {
	if _, err := netlink.LinkByName(name); err != nil {
		if _, ok := err.(netlink.LinkNotFoundError); ok {
			return false, nil
		}
		return false, fmt.Errorf("find interface %q: %w", name, err)
	}
	return true, nil
}
