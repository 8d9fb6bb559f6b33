// Package settings persists the user-facing service settings in a local
// SQLite database with typed accessors.
package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"tether"

	_ "modernc.org/sqlite"
)

// Setting keys.
const (
	KeyPort            = "ssh.port"
	KeyAllowNoPassword = "ssh.allow_no_password"
	KeyAutostart       = "ssh.autostart"
	KeyStopGadget      = "usb.stop_gadget_on_stop"
	KeyPauseOnSuspend  = "power.pause_on_suspend"
	KeyStartOnlyOnUSB  = "usb.start_only_on_usb"
	KeyStopOnUnplug    = "usb.stop_on_unplug"
)

// Defaults applied when a key has never been set.
const (
	DefaultPort = 2222
)

// Store is the settings database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the settings database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create settings directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set settings db journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set settings db busy timeout: %w", err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize settings schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Set stores a value under key, overwriting any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// GetString returns the value for key, or fallback when unset.
func (s *Store) GetString(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fallback, nil
		}
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

// GetInt returns the value for key parsed as an integer, or fallback
// when unset or unparseable.
func (s *Store) GetInt(key string, fallback int) (int, error) {
	raw, err := s.GetString(key, "")
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, nil
	}
	return n, nil
}

// GetBool returns the value for key parsed as a boolean, or fallback
// when unset or unparseable.
func (s *Store) GetBool(key string, fallback bool) (bool, error) {
	raw, err := s.GetString(key, "")
	if err != nil {
		return false, err
	}
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, nil
	}
	return b, nil
}

// SetBool stores a boolean value under key.
func (s *Store) SetBool(key string, value bool) error {
	return s.Set(key, strconv.FormatBool(value))
}

// SetInt stores an integer value under key.
func (s *Store) SetInt(key string, value int) error {
	return s.Set(key, strconv.Itoa(value))
}

// ServiceConfig assembles the coordinator's config snapshot, applying
// defaults for keys that were never written: the protective behaviors
// (stop gadget, pause on suspend, start only on USB, stop on unplug)
// default on, everything else off.
func (s *Store) ServiceConfig() (tether.ServiceConfig, error) {
	var cfg tether.ServiceConfig
	var err error

	if cfg.Port, err = s.GetInt(KeyPort, DefaultPort); err != nil {
		return tether.ServiceConfig{}, err
	}
	if cfg.AllowPasswordless, err = s.GetBool(KeyAllowNoPassword, false); err != nil {
		return tether.ServiceConfig{}, err
	}
	if cfg.Autostart, err = s.GetBool(KeyAutostart, false); err != nil {
		return tether.ServiceConfig{}, err
	}
	if cfg.StopGadgetOnStop, err = s.GetBool(KeyStopGadget, true); err != nil {
		return tether.ServiceConfig{}, err
	}
	if cfg.PauseOnSuspend, err = s.GetBool(KeyPauseOnSuspend, true); err != nil {
		return tether.ServiceConfig{}, err
	}
	if cfg.StartOnlyWhenPlugged, err = s.GetBool(KeyStartOnlyOnUSB, true); err != nil {
		return tether.ServiceConfig{}, err
	}
	if cfg.StopOnUnplug, err = s.GetBool(KeyStopOnUnplug, true); err != nil {
		return tether.ServiceConfig{}, err
	}
	return cfg, nil
}

// All returns every stored key/value pair, for the CLI settings listing.
func (s *Store) All() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan setting row: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate setting rows: %w", err)
	}
	return out, nil
}

// KnownKeys lists the keys the CLI accepts for `settings set`.
func KnownKeys() []string {
	return []string{
		KeyPort,
		KeyAllowNoPassword,
		KeyAutostart,
		KeyStopGadget,
		KeyPauseOnSuspend,
		KeyStartOnlyOnUSB,
		KeyStopOnUnplug,
	}
}
