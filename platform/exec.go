package platform

import (
	"context"
	"fmt"
	"os/exec"
)

// ExecRunner runs external commands, satisfying the Runner ports of the
// sshd and gadget packages.
type ExecRunner struct{}

// Run executes the command and waits for it. Non-zero exit comes back
// as an error carrying the helper's combined output for diagnostics.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("%s: %w: %s", name, err, out)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
