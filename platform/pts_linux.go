//go:build linux

package platform

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Devpts ensures the pseudo-terminal filesystem is mounted, satisfying
// sshd.Prereqs. Minimal embedded images often boot without it, and the
// ssh daemon cannot allocate session terminals until it exists.
type Devpts struct {
	Dir string // mount point, normally /dev/pts
}

// Ensure mounts devpts at Dir when nothing is mounted there yet.
func (d Devpts) Ensure(_ context.Context) error {
	if mounted, err := d.isMounted(); err != nil {
		return err
	} else if mounted {
		return nil
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", d.Dir, err)
	}
	if err := unix.Mount("devpts", d.Dir, "devpts", 0, ""); err != nil {
		return fmt.Errorf("mount devpts at %s: %w", d.Dir, err)
	}
	return nil
}

// isMounted compares the device ids of the directory and its parent: a
// mount point lives on a different filesystem than its parent.
func (d Devpts) isMounted() (bool, error) {
	var dir, parent unix.Stat_t
	if err := unix.Stat(d.Dir, &dir); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", d.Dir, err)
	}
	if err := unix.Stat(d.Dir+"/..", &parent); err != nil {
		return false, fmt.Errorf("stat %s parent: %w", d.Dir, err)
	}
	return dir.Dev != parent.Dev, nil
}
