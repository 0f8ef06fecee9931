//go:build !windows

package proc

import (
	"os"
	"os/exec"
	"testing"
	"time"
)

func TestAliveSelf(t *testing.T) {
	s := OS()
	if !s.Alive(os.Getpid()) {
		t.Fatalf("expected own pid %d to be alive", os.Getpid())
	}
}

func TestAliveInvalidPIDs(t *testing.T) {
	s := OS()
	for _, pid := range []int{0, -1, 999999999} {
		if s.Alive(pid) {
			t.Fatalf("pid %d unexpectedly alive", pid)
		}
	}
}

func TestTerminateStopsChild(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	pid := cmd.Process.Pid
	s := OS()
	if !s.Alive(pid) {
		t.Fatalf("child %d should be alive", pid)
	}
	if err := s.Terminate(pid); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	_ = cmd.Wait()
	// After reaping the child must no longer probe as alive.
	deadline := time.Now().Add(2 * time.Second)
	for s.Alive(pid) {
		if time.Now().After(deadline) {
			t.Fatalf("child %d still alive after SIGTERM", pid)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStartTimeSelf(t *testing.T) {
	s := OS()
	st := s.StartTime(os.Getpid())
	if st <= 0 {
		t.Skip("start time unavailable on this platform")
	}
	now := time.Now().Unix()
	if st > now {
		t.Fatalf("start time %d in the future (now %d)", st, now)
	}
}

func TestStartTimeGone(t *testing.T) {
	if got := OS().StartTime(-1); got != 0 {
		t.Fatalf("expected 0 for invalid pid, got %d", got)
	}
}
