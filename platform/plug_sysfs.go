package platform

import (
	"os"
	"path/filepath"
	"strings"

	"tether"
)

// SysfsPlugProber reads the cable state from a power_supply sysfs
// attribute, satisfying service.PlugProber. Used after resume, when the
// pre-sleep belief may be stale.
type SysfsPlugProber struct {
	// Root is the sysfs power_supply directory, normally
	// /sys/class/power_supply. Overridable for tests.
	Root string
	// Supply is the power supply name, e.g. "usb".
	Supply string
}

// State reads the online attribute. Read failures report Unknown rather
// than guessing.
func (p SysfsPlugProber) State() tether.PlugState {
	root := p.Root
	if root == "" {
		root = "/sys/class/power_supply"
	}
	data, err := os.ReadFile(filepath.Join(root, p.Supply, "online"))
	if err != nil {
		return tether.PlugUnknown
	}
	if strings.TrimSpace(string(data)) == "1" {
		return tether.PluggedIn
	}
	return tether.Unplugged
}
