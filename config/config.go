// Package config handles the tetherd daemon configuration file.
//
// Config is stored at /etc/tether/tetherd.yaml by default. Every field
// has a working default so a missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the daemon config location.
const DefaultPath = "/etc/tether/tetherd.yaml"

// Defaults for fields left unset in the file.
const (
	DefaultSocket     = "/run/tether/tetherd.sock"
	DefaultDataDir    = "/var/lib/tether"
	DefaultSSHDBinary = "/usr/sbin/dropbear"
	DefaultPIDFile    = "/run/tether/sshd.pid"
	DefaultHelper     = "/usr/sbin/usbnet.sh"
	DefaultInterface  = "rndis0"
	DefaultPTSDir     = "/dev/pts"
)

// Config is the daemon's static configuration: paths and platform
// wiring. User-facing behavior lives in the settings store instead.
type Config struct {
	Socket      string `yaml:"socket,omitempty"`      // control socket path
	DataDir     string `yaml:"data-dir,omitempty"`    // settings db + host keys
	SSHDBinary  string `yaml:"sshd-binary,omitempty"` // ssh daemon executable
	PIDFile     string `yaml:"pid-file,omitempty"`    // where sshd writes its pid
	Helper      string `yaml:"gadget-helper,omitempty"`
	Interface   string `yaml:"gadget-interface,omitempty"`
	PTSDir      string `yaml:"pts-dir,omitempty"`
	PowerSupply string `yaml:"power-supply,omitempty"` // sysfs power_supply name for plug detection
	LogLevel    string `yaml:"log-level,omitempty"`

	// NoGadget marks platforms without a USB gadget concept; gadget
	// operations become no-ops.
	NoGadget bool `yaml:"no-gadget,omitempty"`
}

// SettingsDB returns the settings database path under the data dir.
func (c Config) SettingsDB() string {
	return filepath.Join(c.DataDir, "settings.db")
}

// KeyDir returns the ssh host-key directory under the data dir.
func (c Config) KeyDir() string {
	return filepath.Join(c.DataDir, "keys")
}

// Load reads the config file at path. A missing file yields the
// defaults (not an error).
func Load(path string) (Config, error) {
	cfg := Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Socket == "" {
		c.Socket = DefaultSocket
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.SSHDBinary == "" {
		c.SSHDBinary = DefaultSSHDBinary
	}
	if c.PIDFile == "" {
		c.PIDFile = DefaultPIDFile
	}
	if c.Helper == "" {
		c.Helper = DefaultHelper
	}
	if c.Interface == "" {
		c.Interface = DefaultInterface
	}
	if c.PTSDir == "" {
		c.PTSDir = DefaultPTSDir
	}
}
