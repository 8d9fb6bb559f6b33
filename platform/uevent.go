package platform

import (
	"strings"

	"tether"
)

// uevent is one decoded kernel uevent message.
type uevent struct {
	action string
	keys   map[string]string
}

// parseUEvent decodes a raw kobject uevent datagram: an "action@devpath"
// header followed by NUL-separated KEY=value pairs.
func parseUEvent(raw []byte) uevent {
	ev := uevent{keys: make(map[string]string)}
	for i, field := range strings.Split(string(raw), "\x00") {
		if field == "" {
			continue
		}
		if i == 0 {
			if at := strings.IndexByte(field, '@'); at > 0 {
				ev.action = field[:at]
				continue
			}
		}
		if k, v, ok := strings.Cut(field, "="); ok {
			if _, dup := ev.keys[k]; !dup {
				ev.keys[k] = v
			}
		}
	}
	return ev
}

// plugTracker turns power_supply online transitions into plug events,
// suppressing repeats of the same state.
type plugTracker struct {
	online int8 // -1 unknown, 0 offline, 1 online
}

func newPlugTracker() *plugTracker {
	return &plugTracker{online: -1}
}

// observe returns the event for this uevent, or ok=false when it is not
// a plug transition.
func (t *plugTracker) observe(ev uevent) (tether.Event, bool) {
	if ev.keys["SUBSYSTEM"] != "power_supply" {
		return tether.Event{}, false
	}
	raw, found := ev.keys["POWER_SUPPLY_ONLINE"]
	if !found {
		return tether.Event{}, false
	}

	var online int8
	if raw == "1" {
		online = 1
	}
	if online == t.online {
		return tether.Event{}, false
	}
	t.online = online

	if online == 1 {
		return tether.Event{Kind: tether.EventPlugIn}, true
	}
	return tether.Event{Kind: tether.EventPlugOut}, true
}
