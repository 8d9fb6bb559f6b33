// Package sshd supervises the ssh daemon process: launch, pid-file based
// liveness, and graceful-then-forced shutdown.
//
// The daemon is expected to background itself and write its own pid to
// the configured pid file before the launch command returns. Liveness is
// therefore derived from pid-file presence alone, which keeps the check
// cheap enough for status polling; Stop is where the pid is actually
// verified against the process table.
package sshd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"tether"
)

const (
	pollInterval     = 100 * time.Millisecond
	gracefulAttempts = 20
	forcedAttempts   = 10
)

// ErrStartFailed wraps a non-zero exit from the ssh daemon launch command.
var ErrStartFailed = errors.New("sshd start failed")

// ErrStopTimeout means the process could not be confirmed dead within the
// graceful and (if requested) forced polling windows. The pid file is left
// in place so IsRunning keeps reporting true rather than lying.
var ErrStopTimeout = errors.New("sshd stop timeout")

// Supervisor launches and stops the ssh daemon.
type Supervisor struct {
	binary  string
	pidPath string
	keyDir  string

	run     Runner
	procs   ProcessTable
	prereqs Prereqs
	clock   tether.Clock
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithClock injects a clock for the stop polling loop.
func WithClock(c tether.Clock) Option {
	return func(s *Supervisor) { s.clock = c }
}

// WithPrereqs injects the OS prerequisite step.
func WithPrereqs(p Prereqs) Option {
	return func(s *Supervisor) { s.prereqs = p }
}

// New creates a Supervisor. binary is the ssh daemon executable, pidPath
// the file the daemon writes its pid to, keyDir the host-key directory
// (created on first start if absent).
func New(binary, pidPath, keyDir string, run Runner, procs ProcessTable, opts ...Option) *Supervisor {
	s := &Supervisor{
		binary:  binary,
		pidPath: pidPath,
		keyDir:  keyDir,
		run:     run,
		procs:   procs,
		clock:   tether.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the ssh daemon. Already running is a no-op, not an error.
func (s *Supervisor) Start(ctx context.Context, cfg tether.ServiceConfig) error {
	if s.IsRunning() {
		slog.Info("sshd already running, skipping start.", "pidfile", s.pidPath)
		return nil
	}

	if s.prereqs != nil {
		if err := s.prereqs.Ensure(ctx); err != nil {
			return fmt.Errorf("prepare sshd prerequisites: %w", err)
		}
	}
	if err := os.MkdirAll(s.keyDir, 0o700); err != nil {
		return fmt.Errorf("create host key directory: %w", err)
	}

	// -E log to stderr, -R generate host keys on demand.
	args := []string{"-E", "-R", "-p", strconv.Itoa(cfg.Port), "-P", s.pidPath}
	if cfg.AllowPasswordless {
		args = append(args, "-B")
	}

	if err := s.run.Run(ctx, s.binary, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrStartFailed, err)
	}

	slog.Info("sshd started.", "port", cfg.Port)
	return nil
}

// IsRunning reports liveness from pid-file presence.
func (s *Supervisor) IsRunning() bool {
	_, err := os.Stat(s.pidPath)
	return err == nil
}

// Stop shuts the ssh daemon down: SIGTERM, a bounded wait for the process
// to disappear, then (with force) SIGKILL and a shorter wait. Not running
// is a no-op. On success the pid file is removed.
func (s *Supervisor) Stop(ctx context.Context, force bool) error {
	if !s.IsRunning() {
		return nil
	}

	pid, err := s.readPid()
	if err != nil {
		// Cannot confirm death of an unknown pid. A forced stop clears the
		// stale file so the operator is not stuck; either way this attempt
		// reports a timeout.
		slog.Warn("sshd pid file unreadable.", "pidfile", s.pidPath, "err", err)
		if force {
			_ = os.Remove(s.pidPath)
		}
		return ErrStopTimeout
	}

	if err := s.procs.Terminate(pid); err != nil {
		slog.Debug("sshd terminate signal failed.", "pid", pid, "err", err)
	}
	dead := s.waitGone(pid, gracefulAttempts)

	if !dead && force {
		if err := s.procs.Kill(pid); err != nil {
			slog.Debug("sshd kill signal failed.", "pid", pid, "err", err)
		}
		dead = s.waitGone(pid, forcedAttempts)
	}

	if !dead {
		return ErrStopTimeout
	}

	if err := os.Remove(s.pidPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove pid file: %w", err)
	}
	slog.Info("sshd stopped.", "pid", pid)
	return nil
}

func (s *Supervisor) waitGone(pid, attempts int) bool {
	for i := 0; i < attempts; i++ {
		if !s.procs.Alive(pid) {
			return true
		}
		s.clock.Sleep(pollInterval)
	}
	return !s.procs.Alive(pid)
}

func (s *Supervisor) readPid() (int, error) {
	data, err := os.ReadFile(s.pidPath)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("malformed pid %q", strings.TrimSpace(string(data)))
	}
	return pid, nil
}
