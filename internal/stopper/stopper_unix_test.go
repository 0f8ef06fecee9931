//go:build !windows

package stopper

import (
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/loykin/serverctl/internal/pidfile"
	"github.com/loykin/serverctl/internal/proc"
)

func startChild(t *testing.T, script string) int {
	t.Helper()
	cmd := exec.Command("/bin/sh", "-c", script)
	if err := cmd.Start(); err != nil {
		t.Fatalf("start child: %v", err)
	}
	pid := cmd.Process.Pid
	// Reap in the background so the child never lingers as a zombie.
	go func() { _ = cmd.Wait() }()
	t.Cleanup(func() { _ = cmd.Process.Kill() })
	return pid
}

func TestStopRealProcessGraceful(t *testing.T) {
	sig := proc.OS()
	pid := startChild(t, "sleep 30")
	rec := pidfile.New(filepath.Join(t.TempDir(), "server.pid"), sig)
	if err := rec.Write(pid); err != nil {
		t.Fatalf("write record: %v", err)
	}
	s := New(sig, rec, 5*time.Second, nil)
	stopped, err := s.Stop(pid)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !stopped {
		t.Fatalf("expected stopped=true")
	}
	if sig.Alive(pid) {
		t.Fatalf("child %d survived stop", pid)
	}
}

func TestStopRealProcessIgnoringTERM(t *testing.T) {
	sig := proc.OS()
	pid := startChild(t, `trap "" TERM; while :; do sleep 1; done`)
	// Give the shell a moment to install the trap.
	time.Sleep(200 * time.Millisecond)

	rec := pidfile.New(filepath.Join(t.TempDir(), "server.pid"), sig)
	if err := rec.Write(pid); err != nil {
		t.Fatalf("write record: %v", err)
	}
	s := New(sig, rec, 1500*time.Millisecond, nil)

	begin := time.Now()
	stopped, err := s.Stop(pid)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !stopped {
		t.Fatalf("expected stopped=true via forced path")
	}
	if elapsed := time.Since(begin); elapsed > 6*time.Second {
		t.Fatalf("escalation exceeded bound: %v", elapsed)
	}
	ok := waitUntil(2*time.Second, 20*time.Millisecond, func() bool { return !sig.Alive(pid) })
	if !ok {
		t.Fatalf("child %d still alive after forced kill", pid)
	}
}

func waitUntil(timeout, step time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(step)
	}
	return cond()
}
