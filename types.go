// Package tether holds the shared domain types for the tether daemon:
// the service configuration snapshot, plug state, and status reporting.
package tether

// ServiceConfig is an immutable snapshot of the user-facing service
// settings, taken per decision cycle. The coordinator refreshes it from
// the settings store at initialization and on explicit edits.
type ServiceConfig struct {
	Port                int
	AllowPasswordless   bool
	StopGadgetOnStop    bool
	PauseOnSuspend      bool
	StartOnlyWhenPlugged bool
	StopOnUnplug        bool
	Autostart           bool
}

// PlugState is the coordinator's belief about the USB cable.
type PlugState uint8

const (
	// PlugUnknown only occurs before the first observation.
	PlugUnknown PlugState = iota
	PluggedIn
	Unplugged
)

func (s PlugState) String() string {
	switch s {
	case PluggedIn:
		return "plugged-in"
	case Unplugged:
		return "unplugged"
	default:
		return "unknown"
	}
}

// Status is a point-in-time snapshot of the daemon for the CLI.
type Status struct {
	Running          bool   `json:"running"`
	Port             int    `json:"port"`
	Plug             string `json:"plug"`
	GadgetOwned      bool   `json:"gadgetOwned"`
	GadgetActive     bool   `json:"gadgetActive"`
	AutostartPending bool   `json:"autostartPending"`
	ResumePending    bool   `json:"resumePending"`
	ReplugPending    bool   `json:"replugPending"`
	LastMessage      string `json:"lastMessage,omitempty"`
	Version          string `json:"version"`
}
