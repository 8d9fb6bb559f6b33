// Package api defines the wire types for the tetherd control socket:
// one JSON request and one JSON response per connection.
package api

import "tether"

// Op is a control operation.
type Op string

const (
	OpStatus Op = "status"
	OpStart  Op = "start"
	OpStop   Op = "stop"
	OpToggle Op = "toggle"
	OpSet      Op = "set"
	OpSettings Op = "settings"
	OpReload   Op = "reload"
)

// Request is the JSON payload sent from the CLI to the daemon.
type Request struct {
	Op Op `json:"op"`
	// Key/Value carry the setting for OpSet.
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
}

// Response is the daemon's reply.
type Response struct {
	OK     bool           `json:"ok"`
	Error  string         `json:"error,omitempty"`
	Status *tether.Status `json:"status,omitempty"`
	// Settings carries the stored key/value pairs for OpSettings.
	Settings map[string]string `json:"settings,omitempty"`
}
