package sshd

import "context"

// Runner executes an external command and returns an error on non-zero
// exit. In production this is platform.ExecRunner; tests inject a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ProcessTable answers questions about, and delivers signals to, live
// processes. In production this is platform.Processes.
type ProcessTable interface {
	// Alive reports whether a process with the given pid exists.
	Alive(pid int) bool
	// Terminate asks the process to exit (SIGTERM).
	Terminate(pid int) error
	// Kill forcibly ends the process (SIGKILL).
	Kill(pid int) error
}

// Prereqs prepares OS-level resources the ssh daemon needs before it can
// accept sessions (on embedded targets, the devpts mount).
type Prereqs interface {
	Ensure(ctx context.Context) error
}
