package sshd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"tether"
)

type fakeRunner struct {
	calls [][]string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.err
}

// fakeProcs simulates a process table. dieOn controls which signal
// actually removes the process: "term", "kill", or "" (immortal).
type fakeProcs struct {
	alive   bool
	dieOn   string
	signals []string
}

func (f *fakeProcs) Alive(int) bool { return f.alive }

func (f *fakeProcs) Terminate(int) error {
	f.signals = append(f.signals, "term")
	if f.dieOn == "term" {
		f.alive = false
	}
	return nil
}

func (f *fakeProcs) Kill(int) error {
	f.signals = append(f.signals, "kill")
	if f.dieOn == "kill" {
		f.alive = false
	}
	return nil
}

type fakeClock struct{ sleeps int }

func (f *fakeClock) Sleep(time.Duration) { f.sleeps++ }

func newTestSupervisor(t *testing.T, run *fakeRunner, procs *fakeProcs) *Supervisor {
	t.Helper()
	dir := t.TempDir()
	return New("dropbear", filepath.Join(dir, "sshd.pid"), filepath.Join(dir, "keys"),
		run, procs, WithClock(&fakeClock{}))
}

func writePidFile(t *testing.T, s *Supervisor, content string) {
	t.Helper()
	if err := os.WriteFile(s.pidPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write pid file: %v", err)
	}
}

func TestStart_InvokesDaemonWithPortAndPidFile(t *testing.T) {
	run := &fakeRunner{}
	s := newTestSupervisor(t, run, &fakeProcs{})

	if err := s.Start(context.Background(), tether.ServiceConfig{Port: 2222}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	want := []string{"dropbear", "-E", "-R", "-p", "2222", "-P", s.pidPath}
	if len(run.calls) != 1 || !slices.Equal(run.calls[0], want) {
		t.Fatalf("launch args = %v, want %v", run.calls, want)
	}
	if _, err := os.Stat(s.keyDir); err != nil {
		t.Fatalf("key directory not created: %v", err)
	}
}

func TestStart_PasswordlessAddsFlag(t *testing.T) {
	run := &fakeRunner{}
	s := newTestSupervisor(t, run, &fakeProcs{})

	if err := s.Start(context.Background(), tether.ServiceConfig{Port: 22, AllowPasswordless: true}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := run.calls[0][len(run.calls[0])-1]; got != "-B" {
		t.Fatalf("last arg = %q, want -B", got)
	}
}

func TestStart_AlreadyRunningIsNoOp(t *testing.T) {
	run := &fakeRunner{}
	s := newTestSupervisor(t, run, &fakeProcs{})
	writePidFile(t, s, "1234\n")

	if err := s.Start(context.Background(), tether.ServiceConfig{Port: 2222}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(run.calls) != 0 {
		t.Fatalf("launch invoked %d times, want 0", len(run.calls))
	}
}

func TestStart_LaunchFailure(t *testing.T) {
	run := &fakeRunner{err: errors.New("exit status 1")}
	s := newTestSupervisor(t, run, &fakeProcs{})

	err := s.Start(context.Background(), tether.ServiceConfig{Port: 2222})
	if !errors.Is(err, ErrStartFailed) {
		t.Fatalf("Start error = %v, want ErrStartFailed", err)
	}
}

func TestStop_NotRunningIsNoOp(t *testing.T) {
	procs := &fakeProcs{alive: true}
	s := newTestSupervisor(t, &fakeRunner{}, procs)

	if err := s.Stop(context.Background(), true); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(procs.signals) != 0 {
		t.Fatalf("signals sent = %v, want none", procs.signals)
	}
}

func TestStop_GracefulRemovesPidFile(t *testing.T) {
	procs := &fakeProcs{alive: true, dieOn: "term"}
	s := newTestSupervisor(t, &fakeRunner{}, procs)
	writePidFile(t, s, "1234\n")

	if err := s.Stop(context.Background(), false); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.IsRunning() {
		t.Fatal("pid file should be removed after successful stop")
	}
	if !slices.Equal(procs.signals, []string{"term"}) {
		t.Fatalf("signals = %v, want [term]", procs.signals)
	}
}

func TestStop_EscalatesToKill(t *testing.T) {
	procs := &fakeProcs{alive: true, dieOn: "kill"}
	s := newTestSupervisor(t, &fakeRunner{}, procs)
	writePidFile(t, s, "1234")

	if err := s.Stop(context.Background(), true); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !slices.Equal(procs.signals, []string{"term", "kill"}) {
		t.Fatalf("signals = %v, want [term kill]", procs.signals)
	}
	if s.IsRunning() {
		t.Fatal("pid file should be removed after forced stop")
	}
}

func TestStop_GracefulOnlyDoesNotKill(t *testing.T) {
	procs := &fakeProcs{alive: true}
	s := newTestSupervisor(t, &fakeRunner{}, procs)
	writePidFile(t, s, "1234")

	err := s.Stop(context.Background(), false)
	if !errors.Is(err, ErrStopTimeout) {
		t.Fatalf("Stop error = %v, want ErrStopTimeout", err)
	}
	if !slices.Equal(procs.signals, []string{"term"}) {
		t.Fatalf("signals = %v, want [term]", procs.signals)
	}
	if !s.IsRunning() {
		t.Fatal("pid file must stay when the process did not die")
	}
}

func TestStop_TimeoutKeepsPidFile(t *testing.T) {
	procs := &fakeProcs{alive: true} // immortal
	s := newTestSupervisor(t, &fakeRunner{}, procs)
	writePidFile(t, s, "1234")

	err := s.Stop(context.Background(), true)
	if !errors.Is(err, ErrStopTimeout) {
		t.Fatalf("Stop error = %v, want ErrStopTimeout", err)
	}
	if !s.IsRunning() {
		t.Fatal("pid file must stay when the process did not die")
	}
}

func TestStop_MalformedPidSkipsSignals(t *testing.T) {
	procs := &fakeProcs{alive: true}
	s := newTestSupervisor(t, &fakeRunner{}, procs)
	writePidFile(t, s, "not-a-pid")

	err := s.Stop(context.Background(), false)
	if !errors.Is(err, ErrStopTimeout) {
		t.Fatalf("Stop error = %v, want ErrStopTimeout", err)
	}
	if len(procs.signals) != 0 {
		t.Fatalf("signals = %v, want none for malformed pid", procs.signals)
	}
	if !s.IsRunning() {
		t.Fatal("pid file must stay after graceful stop with malformed pid")
	}
}

func TestStop_MalformedPidForcedClearsFile(t *testing.T) {
	s := newTestSupervisor(t, &fakeRunner{}, &fakeProcs{alive: true})
	writePidFile(t, s, "garbage")

	err := s.Stop(context.Background(), true)
	if !errors.Is(err, ErrStopTimeout) {
		t.Fatalf("Stop error = %v, want ErrStopTimeout", err)
	}
	if s.IsRunning() {
		t.Fatal("forced stop should clear an unreadable pid file")
	}
}
