//go:build linux

package platform

import "os"

// SupportsUSBGadget reports whether this device can expose a USB gadget
// at all. Decided once at daemon startup and handed to the gadget
// controller, instead of re-querying per call.
func SupportsUSBGadget() bool {
	// A UDC (USB device controller) entry means gadget mode is possible.
	if entries, err := os.ReadDir("/sys/class/udc"); err == nil && len(entries) > 0 {
		return true
	}
	// Older android-style gadget stacks.
	if _, err := os.Stat("/sys/class/android_usb"); err == nil {
		return true
	}
	return false
}
