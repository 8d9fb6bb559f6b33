package gadget

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

type fakeLinks struct {
	exists bool
	err    error
}

func (f *fakeLinks) Exists(string) (bool, error) { return f.exists, f.err }

// fakeHelper records helper invocations and optionally flips interface
// existence when the start verb runs.
type fakeHelper struct {
	links *fakeLinks
	calls [][]string
	err   error

	createsIface bool
}

func (f *fakeHelper) Run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return f.err
	}
	if len(args) > 0 {
		switch args[0] {
		case verbStart:
			if f.createsIface {
				f.links.exists = true
			}
		case verbStop:
			f.links.exists = false
		}
	}
	return nil
}

type fakeClock struct{ sleeps int }

func (f *fakeClock) Sleep(time.Duration) { f.sleeps++ }

func writeHelper(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "usbnet.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write helper: %v", err)
	}
	return path
}

func newTestController(t *testing.T, helper *fakeHelper, helperPath string) *Controller {
	t.Helper()
	return New(helperPath, "rndis0", true, helper, helper.links, WithClock(&fakeClock{}))
}

func TestEnable_Unsupported(t *testing.T) {
	links := &fakeLinks{}
	helper := &fakeHelper{links: links}
	g := New("/nonexistent", "rndis0", false, helper, links)

	if err := g.Enable(context.Background()); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if len(helper.calls) != 0 {
		t.Fatalf("helper invoked %v, want nothing on unsupported platform", helper.calls)
	}
	if g.Owned() {
		t.Fatal("unsupported platform must not claim ownership")
	}
}

func TestEnable_PreExistingInterfaceNotOwned(t *testing.T) {
	links := &fakeLinks{exists: true}
	helper := &fakeHelper{links: links}
	g := newTestController(t, helper, writeHelper(t))

	if err := g.Enable(context.Background()); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if len(helper.calls) != 0 {
		t.Fatalf("helper invoked %v for a pre-existing interface", helper.calls)
	}
	if g.Owned() || !g.Active() {
		t.Fatalf("owned=%v active=%v, want owned=false active=true", g.Owned(), g.Active())
	}

	// Ownership gates disable: tearing down someone else's interface is
	// never allowed.
	if err := g.Disable(context.Background()); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if len(helper.calls) != 0 {
		t.Fatalf("helper invoked %v, disable of unowned interface must be a no-op", helper.calls)
	}
}

func TestEnable_HelperMissing(t *testing.T) {
	links := &fakeLinks{}
	helper := &fakeHelper{links: links}
	g := newTestController(t, helper, "/nonexistent/usbnet.sh")

	err := g.Enable(context.Background())
	if !errors.Is(err, ErrHelperMissing) {
		t.Fatalf("Enable error = %v, want ErrHelperMissing", err)
	}
}

func TestEnable_CommandFailure(t *testing.T) {
	links := &fakeLinks{}
	helper := &fakeHelper{links: links, err: errors.New("exit status 1")}
	g := newTestController(t, helper, writeHelper(t))

	err := g.Enable(context.Background())
	if !errors.Is(err, ErrEnableFailed) {
		t.Fatalf("Enable error = %v, want ErrEnableFailed", err)
	}
	if g.Owned() {
		t.Fatal("failed enable must not claim ownership")
	}
}

func TestEnable_Success(t *testing.T) {
	links := &fakeLinks{}
	helper := &fakeHelper{links: links, createsIface: true}
	g := newTestController(t, helper, writeHelper(t))

	if err := g.Enable(context.Background()); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	want := []string{g.helper, "start", "ethernet"}
	if len(helper.calls) != 1 || !slices.Equal(helper.calls[0], want) {
		t.Fatalf("helper calls = %v, want [%v]", helper.calls, want)
	}
	if !g.Owned() || !g.Active() {
		t.Fatalf("owned=%v active=%v, want both true", g.Owned(), g.Active())
	}
}

func TestEnable_InterfaceNeverAppears(t *testing.T) {
	links := &fakeLinks{}
	helper := &fakeHelper{links: links} // start succeeds but creates nothing
	g := newTestController(t, helper, writeHelper(t))

	err := g.Enable(context.Background())
	if !errors.Is(err, ErrInterfaceTimeout) {
		t.Fatalf("Enable error = %v, want ErrInterfaceTimeout", err)
	}
	if g.Owned() {
		t.Fatal("timeout must not claim ownership")
	}
}

func TestDisable_OwnedRunsHelper(t *testing.T) {
	links := &fakeLinks{}
	helper := &fakeHelper{links: links, createsIface: true}
	g := newTestController(t, helper, writeHelper(t))

	if err := g.Enable(context.Background()); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if err := g.Disable(context.Background()); err != nil {
		t.Fatalf("Disable: %v", err)
	}

	last := helper.calls[len(helper.calls)-1]
	if !slices.Equal(last, []string{g.helper, "stop", "ethernet"}) {
		t.Fatalf("last helper call = %v, want stop ethernet", last)
	}
	if g.Owned() || g.Active() {
		t.Fatalf("owned=%v active=%v after disable, want both false", g.Owned(), g.Active())
	}
}

func TestDisable_CommandFailureKeepsOwnership(t *testing.T) {
	links := &fakeLinks{}
	helper := &fakeHelper{links: links, createsIface: true}
	g := newTestController(t, helper, writeHelper(t))

	if err := g.Enable(context.Background()); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	helper.err = errors.New("exit status 1")

	err := g.Disable(context.Background())
	if !errors.Is(err, ErrDisableFailed) {
		t.Fatalf("Disable error = %v, want ErrDisableFailed", err)
	}
	if !g.Owned() {
		t.Fatal("failed disable must keep ownership so a retry is possible")
	}
}

func TestRefresh_TracksInterfacePresence(t *testing.T) {
	links := &fakeLinks{}
	helper := &fakeHelper{links: links, createsIface: true}
	g := newTestController(t, helper, writeHelper(t))

	if err := g.Enable(context.Background()); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	links.exists = false // interface dropped out from under us
	if g.Refresh(context.Background()) {
		t.Fatal("Refresh should report the interface gone")
	}
	if g.Active() {
		t.Fatal("active belief should be cleared by Refresh")
	}
}
