//go:build unix

package platform

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Processes signals and inspects live processes through the kernel,
// satisfying sshd.ProcessTable.
type Processes struct{}

// Alive reports process existence via the null signal.
func (Processes) Alive(pid int) bool {
	err := unix.Kill(pid, 0)
	// EPERM means the process exists but belongs to someone else.
	return err == nil || errors.Is(err, unix.EPERM)
}

// Terminate sends SIGTERM.
func (Processes) Terminate(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}

// Kill sends SIGKILL.
func (Processes) Kill(pid int) error {
	return unix.Kill(pid, unix.SIGKILL)
}
