package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Socket != DefaultSocket || cfg.SSHDBinary != DefaultSSHDBinary {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Interface != DefaultInterface {
		t.Fatalf("interface = %q, want %q", cfg.Interface, DefaultInterface)
	}
}

func TestLoad_FileOverridesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetherd.yaml")
	content := "sshd-binary: /opt/bin/dropbear\ngadget-interface: usb0\nno-gadget: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SSHDBinary != "/opt/bin/dropbear" || cfg.Interface != "usb0" || !cfg.NoGadget {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Socket != DefaultSocket {
		t.Fatalf("unset field should default: %+v", cfg)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetherd.yaml")
	if err := os.WriteFile(path, []byte("::::"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load should reject malformed yaml")
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Config{DataDir: "/var/lib/tether"}
	if got := cfg.SettingsDB(); got != "/var/lib/tether/settings.db" {
		t.Fatalf("SettingsDB = %q", got)
	}
	if got := cfg.KeyDir(); got != "/var/lib/tether/keys" {
		t.Fatalf("KeyDir = %q", got)
	}
}
